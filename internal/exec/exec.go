// Package exec implements the Python Executor (C5): decodes optional
// base64 source, runs it through a host.Interpreter, captures
// stdout/stderr, measures duration, and encodes the result per
// spec.md §4.4's base64 contract.
//
// Grounded on the teacher's internal/domain/discovery/interpreter.go
// for the capture-and-run shape; the persistence-across-calls and
// base64 encoding rules are new, driven directly by spec.md §3/§4.4.
package exec

import (
	"context"
	"encoding/base64"
	"time"
	"unicode/utf8"

	"github.com/remoteforge/scenebridge/internal/brokererr"
	"github.com/remoteforge/scenebridge/internal/host"
)

// Params is execute_code's decoded request payload.
type Params struct {
	Code           string
	CodeIsBase64   bool
	ReturnAsBase64 bool
}

// OutputCapture is the {stdout, stderr} pair spec.md §3 names.
type OutputCapture struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Result is execute_code's success result shape (spec.md §6.1).
type Result struct {
	Executed       bool          `json:"executed"`
	Result         string        `json:"result"`
	Output         OutputCapture `json:"output"`
	Duration       float64       `json:"duration"`
	ResultIsBase64 bool          `json:"result_is_base64"`
}

// Runtime owns one host.Interpreter and runs execute_code requests
// against it. A Runtime must only ever be driven from the main loop
// (spec.md §3): it performs no locking of its own.
type Runtime struct {
	interp host.Interpreter
}

// New wraps an already-configured host.Interpreter (its namespace
// should already carry any host facades the caller wants visible to
// every script).
func New(interp host.Interpreter) *Runtime {
	return &Runtime{interp: interp}
}

// Execute runs one execute_code request to completion.
func (r *Runtime) Execute(ctx context.Context, p Params) (Result, *brokererr.BrokerError) {
	code := p.Code
	if p.CodeIsBase64 {
		decoded, err := base64.StdEncoding.DecodeString(p.Code)
		if err != nil {
			return Result{}, brokererr.New(brokererr.BadParams, "code_is_base64 set but code is not valid base64: %v", err)
		}
		code = string(decoded)
	}

	start := time.Now()
	stdout, stderr, err := r.interp.Execute(ctx, code)
	duration := time.Since(start).Seconds()

	if err != nil {
		return Result{}, &brokererr.BrokerError{
			Code:      brokererr.ExecFailed,
			Message:   err.Error(),
			Traceback: err.Error(),
		}
	}

	resultText := stdout
	resultIsBase64 := p.ReturnAsBase64

	// Fall back to base64 unconditionally when stdout isn't valid
	// UTF-8 — it would otherwise be unrepresentable as JSON text
	// (spec.md §4.4 "encoding edge cases").
	if !resultIsBase64 && !utf8.ValidString(resultText) {
		resultIsBase64 = true
	}

	if resultIsBase64 {
		resultText = base64.StdEncoding.EncodeToString([]byte(stdout))
	}

	return Result{
		Executed:       true,
		Result:         resultText,
		Output:         OutputCapture{Stdout: stdout, Stderr: stderr},
		Duration:       duration,
		ResultIsBase64: resultIsBase64,
	}, nil
}
