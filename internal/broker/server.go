package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/remoteforge/scenebridge/internal/brokererr"
	"github.com/remoteforge/scenebridge/internal/logger"
)

const (
	// MaxConnections bounds concurrent accepted connections (spec.md §5).
	MaxConnections = 64

	readTimeout  = 30 * time.Second
	writeTimeout = 30 * time.Second
)

// Broker is the Command Broker: it accepts TCP connections, decodes
// one frame per connection, dispatches through Registry and
// Serializer, and writes one response frame before closing.
type Broker struct {
	registry   *Registry
	serializer *Serializer
	deps       *Deps

	listener    net.Listener
	activeConns int64
}

// New wires a Broker from its registry, serializer, and dependencies.
func New(registry *Registry, serializer *Serializer, deps *Deps) *Broker {
	return &Broker{registry: registry, serializer: serializer, deps: deps}
}

// ListenAndServe binds addr (expected to be loopback per spec.md §6.1)
// and accepts connections until ctx is cancelled or the listener is
// closed via Shutdown.
func (b *Broker) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	b.listener = ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		if atomic.LoadInt64(&b.activeConns) >= MaxConnections || b.serializer.Saturated() {
			// Shield the host from slow-loris amplification (spec.md
			// §4.6) but still hand back a frame: §8's boundary case
			// for the 17th simultaneous request expects a "busy"
			// response, not a bare close.
			go b.rejectBusy(conn)
			continue
		}

		atomic.AddInt64(&b.activeConns, 1)
		go func() {
			defer atomic.AddInt64(&b.activeConns, -1)
			b.handleConn(ctx, conn)
		}()
	}
}

// Addr returns the listener's bound address. Valid after ListenAndServe
// has started listening.
func (b *Broker) Addr() net.Addr {
	if b.listener == nil {
		return nil
	}
	return b.listener.Addr()
}

// rejectBusy writes a busy error response to a connection that arrived
// while the broker was already at capacity, then closes it. The
// client still gets exactly one response frame (spec.md §3's
// at-most-once invariant), just never dispatched to a handler.
func (b *Broker) rejectBusy(conn net.Conn) {
	defer conn.Close()
	b.writeResponse(conn, ErrorResponse(string(brokererr.Busy), "serializer queue full, try again later"))
}

func (b *Broker) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	req, err, oversize := DecodeRequest(conn)
	if err != nil {
		if errors.Is(err, io.EOF) && !oversize {
			// A bare connect-then-close health probe (see
			// SPEC_FULL.md's connection-health-probe supplement):
			// not a protocol violation, no response expected.
			return
		}
		code := string(brokererr.BadFrame)
		msg := "malformed request frame"
		if oversize {
			msg = "request frame exceeds the 64 MiB cap"
		}
		b.writeResponse(conn, ErrorResponse(code, msg))
		return
	}

	resp := b.dispatch(ctx, req)
	b.writeResponse(conn, resp)
}

func (b *Broker) dispatch(ctx context.Context, req Request) Response {
	cmdType := req.Type
	var params json.RawMessage
	var diagnosticMessage string

	if req.IsLegacy() {
		cmdType = "execute_code"
		diagnosticMessage = req.Message
		legacyParams, _ := json.Marshal(map[string]interface{}{"code": req.Code})
		params = legacyParams
	} else {
		params = req.Params
	}

	descriptor, ok := b.registry.Lookup(cmdType)
	if !ok {
		return ErrorResponse(string(brokererr.UnknownCommand), "unknown command: "+cmdType)
	}

	var result interface{}
	var berr *brokererr.BrokerError

	if descriptor.RequiresMainLoop {
		value, submitErr := b.serializer.Submit(ctx, func(jobCtx context.Context) (interface{}, error) {
			r, e := descriptor.Handler(jobCtx, params, b.deps)
			if e != nil {
				return nil, e
			}
			return r, nil
		}, req.TimeoutSeconds)
		result, berr = value, submitErr
	} else {
		result, berr = descriptor.Handler(ctx, params, b.deps)
	}

	if berr != nil {
		resp := ErrorResponse(string(berr.Code), berr.Message)
		resp.Traceback = berr.Traceback
		return resp
	}

	if diagnosticMessage != "" {
		result = withDiagnosticMessage(result, diagnosticMessage)
	}

	return SuccessResponse(result)
}

// withDiagnosticMessage echoes the legacy frame's "message" field
// alongside the execute_code result (spec.md §6.1's legacy-form note).
func withDiagnosticMessage(result interface{}, message string) interface{} {
	data, err := json.Marshal(result)
	if err != nil {
		return result
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(data, &asMap); err != nil {
		return result
	}
	asMap["message"] = message
	return asMap
}

func (b *Broker) writeResponse(conn net.Conn, resp Response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Errorf("failed to encode response: %v", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		logger.Warnf("failed to write response: %v", err)
	}
}

// Shutdown stops accepting new connections.
func (b *Broker) Shutdown() error {
	if b.listener == nil {
		return nil
	}
	return b.listener.Close()
}
