// Package config loads Command Broker / Tool Gateway settings.
//
// Configuration loading as a feature area (CLI flags, installer
// scripts, wheelhouse packaging) is out of scope per spec.md §1; the
// three environment variables spec.md §6.3 requires are not, and an
// optional local override file is an additive convenience in the
// spirit of the teacher's profile.Settings / profile.Store pair.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LogLevel is one of the five levels spec.md §6.3 names.
type LogLevel string

const (
	LevelDebug    LogLevel = "DEBUG"
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
)

var levelRank = map[LogLevel]int{
	LevelDebug:    0,
	LevelInfo:     1,
	LevelWarning:  2,
	LevelError:    3,
	LevelCritical: 4,
}

// Enabled reports whether a message at msgLevel should be emitted when
// the configured threshold is level.
func (level LogLevel) Enabled(msgLevel LogLevel) bool {
	r, ok := levelRank[msgLevel]
	if !ok {
		r = levelRank[LevelInfo]
	}
	threshold, ok := levelRank[level]
	if !ok {
		threshold = levelRank[LevelInfo]
	}
	return r >= threshold
}

// Settings holds the Command Broker's runtime configuration.
type Settings struct {
	Port     int      `yaml:"port" toml:"port"`
	StartNow bool     `yaml:"start_now" toml:"start_now"`
	LogLevel LogLevel `yaml:"log_level" toml:"log_level"`
}

// DefaultSettings returns spec.md §6.3's documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Port:     6688,
		StartNow: false,
		LogLevel: LevelInfo,
	}
}

// FromEnv reads BLD_REMOTE_MCP_PORT, BLD_REMOTE_MCP_START_NOW, and
// BLD_REMOTE_LOG_LEVEL, falling back to defaults for anything unset or
// unparsable.
func FromEnv() Settings {
	s := DefaultSettings()

	if v := os.Getenv("BLD_REMOTE_MCP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Port = port
		}
	}

	if v := os.Getenv("BLD_REMOTE_MCP_START_NOW"); v != "" {
		s.StartNow = isTruthy(v)
	}

	if v := os.Getenv("BLD_REMOTE_LOG_LEVEL"); v != "" {
		level := LogLevel(strings.ToUpper(v))
		if _, ok := levelRank[level]; ok {
			s.LogLevel = level
		}
	}

	return s
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// LoadOverrideFile merges a local config.toml or config.yaml in dir
// (toml takes precedence when both exist) over the settings FromEnv
// returns. When neither file exists it returns the FromEnv settings
// unchanged.
func LoadOverrideFile(dir string) (Settings, error) {
	base := FromEnv()

	tomlPath := dir + "/config.toml"
	if data, err := os.ReadFile(tomlPath); err == nil {
		if err := toml.Unmarshal(data, &base); err != nil {
			return base, err
		}
		return base, nil
	}

	yamlPath := dir + "/config.yaml"
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &base); err != nil {
			return base, err
		}
		return base, nil
	}

	return base, nil
}
