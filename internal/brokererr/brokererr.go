// Package brokererr defines the Command Broker's error taxonomy.
//
// Handlers never panic into the dispatch loop: every handler returns
// either a result or a *BrokerError, and the dispatcher translates the
// latter into an error response frame verbatim.
package brokererr

import "fmt"

// Code is one of the fixed error codes a response frame may carry.
type Code string

const (
	BadFrame       Code = "bad_frame"
	UnknownCommand Code = "unknown_command"
	BadParams      Code = "bad_params"
	Busy           Code = "busy"
	Timeout        Code = "timeout"
	ExecFailed     Code = "exec_failed"
	Headless       Code = "headless"
	HostError      Code = "host_error"
	Internal       Code = "internal"
)

// BrokerError is the typed error every CB handler returns in place of a
// bare error. Traceback is optional and only ever populated by the
// executor (exec_failed).
type BrokerError struct {
	Code       Code
	Message    string
	Traceback  string
}

func (e *BrokerError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a BrokerError with no traceback.
func New(code Code, format string, args ...interface{}) *BrokerError {
	return &BrokerError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap converts a generic error into a host_error BrokerError, unless it
// already is one.
func Wrap(err error) *BrokerError {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BrokerError); ok {
		return be
	}
	return &BrokerError{Code: HostError, Message: err.Error()}
}
