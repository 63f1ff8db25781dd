package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/remoteforge/scenebridge/internal/logger"
)

// protocolVersion is the MCP protocol version this gateway speaks.
const protocolVersion = "2024-11-05"

// Server is the Tool Gateway's stdio JSON-RPC loop: it reads one
// newline-delimited JSON-RPC request per line from in, dispatches it,
// and writes one newline-delimited response to out. The wire framing
// mirrors the teacher's StdioWorker client (internal/domain/discovery/stdio.go)
// on the opposite end of the same protocol.
type Server struct {
	client *CBClient
	in     *bufio.Reader
	out    io.Writer
}

// NewServer wires a Server against a CB client and stdio streams.
func NewServer(client *CBClient, in io.Reader, out io.Writer) *Server {
	return &Server{client: client, in: bufio.NewReader(in), out: out}
}

// Serve runs the read-dispatch-write loop until in is closed or ctx is
// cancelled. It returns nil on a clean EOF (the host closed stdin).
func (s *Server) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.in.ReadBytes('\n')
		if len(line) > 0 {
			s.handleLine(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("stdio read failed: %w", err)
		}
	}
}

func (s *Server) handleLine(line []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.write(NewError(nil, ParseError, "invalid JSON-RPC request", err.Error()))
		return
	}

	// Notifications (no id) never get a response, per JSON-RPC 2.0.
	isNotification := req.ID == nil

	resp, ok := s.dispatch(req)
	if isNotification || !ok {
		return
	}
	s.write(resp)
}

func (s *Server) dispatch(req JSONRPCRequest) (JSONRPCResponse, bool) {
	switch req.Method {
	case "initialize":
		return NewResult(req.ID, map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo":      map[string]interface{}{"name": "scenebridge-tool-gateway", "version": "0.1.0"},
		}), true

	case "notifications/initialized":
		return JSONRPCResponse{}, false

	case "tools/list":
		return NewResult(req.ID, map[string]interface{}{"tools": Catalog}), true

	case "tools/call":
		return s.dispatchToolCall(req), true

	case "ping":
		return NewResult(req.ID, map[string]interface{}{}), true

	default:
		return NewError(req.ID, MethodNotFound, "method not found: "+req.Method, nil), true
	}
}

func (s *Server) dispatchToolCall(req JSONRPCRequest) JSONRPCResponse {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &call); err != nil {
		return NewError(req.ID, InvalidParams, "invalid tools/call params", err.Error())
	}

	start := time.Now()
	result := CallTool(s.client, call.Name, call.Arguments)
	logger.Debugf("tools/call %s completed in %v (error=%v)", call.Name, time.Since(start), result.IsError)

	return NewResult(req.ID, result)
}

func (s *Server) write(resp JSONRPCResponse) {
	if resp.JSONRPC == "" {
		resp.JSONRPC = "2.0"
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Errorf("failed to encode JSON-RPC response: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := s.out.Write(data); err != nil {
		logger.Errorf("failed to write JSON-RPC response: %v", err)
	}
}
