// pkg/server/errors.go
package server

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// StructuredError is a handler-shaped service error written to the
// response as-is. Anything else that escapes a filter or handler is
// sanitized before it reaches the client.
type StructuredError interface {
	error
	ErrorCode() string
	StatusCode() int
}

// ServiceError is the standard structured error shape (OGC service
// exception semantics: a code, a message, and the HTTP status to send).
type ServiceError struct {
	Code    string
	Message string
	Status  int
}

func (e *ServiceError) Error() string     { return e.Message }
func (e *ServiceError) ErrorCode() string { return e.Code }

func (e *ServiceError) StatusCode() int {
	if e.Status == 0 {
		return 200
	}
	return e.Status
}

// ApiNotFoundError reports a capability name absent from the registry.
// No response is written; this is a caller programming error.
type ApiNotFoundError struct {
	Name string
}

func (e *ApiNotFoundError) Error() string { return "api not found: " + e.Name }

// ErrProjectRequired is reported when a capability-less dispatch is
// attempted without a project. No response is written.
var ErrProjectRequired = errors.New("project required")

// UnhandledFaultError wraps a panic that escaped every stage boundary.
// The dispatch call reports it to the caller instead of crashing the
// host process; no further response I/O is attempted.
type UnhandledFaultError struct {
	Value any
}

func (e *UnhandledFaultError) Error() string {
	return fmt.Sprintf("unhandled fault: %v", e.Value)
}

// Raw plugin errors may embed sensitive internals in their message, so
// the client gets a fixed body while the real error goes to the log
// with a location tag.
func writeInternalError(resp Response, err error, location string, log *zap.Logger) {
	resp.SetHeader("Content-Type", "text/plain")
	resp.SendError(500, "Internal Server Error")
	log.Error("internal server error",
		zap.String("location", location),
		zap.Error(err),
	)
}

// recovered normalizes a panic value into an error for classification.
func recovered(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
