// Package logger is an async, file-backed logger adapted from the
// teacher's internal/logger package: a ring buffer of recent entries,
// a background writer goroutine with a flush-on-close handshake, size
// based rotation, and a subscriber fan-out for live tailing. Level
// gating and the redaction pattern are generalized for this repo.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/remoteforge/scenebridge/internal/config"
)

// Entry is a single log record.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

var (
	mu          sync.RWMutex
	entries     []Entry
	maxEntries  = 1000
	maxFileSize = int64(5 * 1024 * 1024)
	logFilePath string
	logFile     *os.File
	logChan     = make(chan Entry, 100)
	done        chan struct{}
	workerDone  chan struct{}
	subscribers = make(map[chan Entry]bool)
	subsMu      sync.RWMutex
	threshold   = config.LevelInfo

	// bearerLikeRegex redacts bearer-token-shaped substrings that
	// executed code or persisted values might otherwise leak into the
	// log stream.
	bearerLikeRegex = regexp.MustCompile(`(?i)(bearer|token|secret|api[_-]?key)[=: ]+[A-Za-z0-9._-]{8,}`)
)

// Init opens the log file under appDir/logs and starts the writer.
// Safe to call once per process.
func Init(appDir string, level config.LogLevel) error {
	mu.Lock()
	defer mu.Unlock()

	threshold = level

	logDir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("%s-cb.log", time.Now().Format("20060102"))
	logFilePath = filepath.Join(logDir, logFileName)

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	done = make(chan struct{})
	workerDone = make(chan struct{})
	go worker()

	return nil
}

// SetLevel adjusts the minimum level emitted by Log.
func SetLevel(level config.LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	threshold = level
}

// Log records a message at the given level, subject to the configured
// threshold.
func Log(level, message string) {
	if !threshold.Enabled(config.LogLevel(level)) {
		return
	}

	message = bearerLikeRegex.ReplaceAllString(message, "$1=REDACTED")

	entry := Entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	mu.Lock()
	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	mu.Unlock()

	// Stdout is reserved for wire protocols (the Tool Gateway's MCP
	// JSON-RPC stream in particular); the console mirror always goes
	// to stderr.
	fmt.Fprintf(os.Stderr, "[%s] [%s] %s\n", entry.Timestamp, level, message)

	select {
	case logChan <- entry:
	default:
		// Drop rather than block the caller.
	}

	subsMu.RLock()
	for sub := range subscribers {
		select {
		case sub <- entry:
		default:
		}
	}
	subsMu.RUnlock()
}

func Debugf(format string, args ...interface{})    { Log(string(config.LevelDebug), fmt.Sprintf(format, args...)) }
func Infof(format string, args ...interface{})     { Log(string(config.LevelInfo), fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...interface{})     { Log(string(config.LevelWarning), fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...interface{})    { Log(string(config.LevelError), fmt.Sprintf(format, args...)) }
func Criticalf(format string, args ...interface{}) { Log(string(config.LevelCritical), fmt.Sprintf(format, args...)) }

// Subscribe returns a channel receiving all future log entries.
func Subscribe() chan Entry {
	subsMu.Lock()
	defer subsMu.Unlock()
	ch := make(chan Entry, 100)
	subscribers[ch] = true
	return ch
}

// Unsubscribe stops and closes a subscriber channel.
func Unsubscribe(ch chan Entry) {
	subsMu.Lock()
	defer subsMu.Unlock()
	delete(subscribers, ch)
	close(ch)
}

// Entries returns a copy of the in-memory ring buffer.
func Entries() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Entry, len(entries))
	copy(res, entries)
	return res
}

// Close flushes pending entries and closes the log file. Safe to call
// even if Init was never called.
func Close() {
	if done != nil {
		close(done)
		if workerDone != nil {
			<-workerDone
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func worker() {
	defer close(workerDone)
	for {
		select {
		case entry := <-logChan:
			writeEntry(entry)
		case <-done:
			for {
				select {
				case entry := <-logChan:
					writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func writeEntry(entry Entry) {
	mu.Lock()
	defer mu.Unlock()

	f := logFile
	if f == nil {
		return
	}

	if info, err := f.Stat(); err == nil && info.Size() > maxFileSize {
		f.Close()
		f, err = os.OpenFile(logFilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			logFile = f
			note := Entry{Timestamp: time.Now().Format(time.RFC3339), Level: "INFO", Message: "log file reached rotation limit and was truncated"}
			data, _ := json.Marshal(note)
			f.Write(data)
			f.Write([]byte("\n"))
		} else {
			return
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	f.Write(data)
	f.Write([]byte("\n"))
}
