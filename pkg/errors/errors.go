// Package errors provides structured error reporting for the wisp runtime.
//
// Nothing inside the reactive, injection, lifecycle, or event subsystems is
// allowed to escape as an unhandled failure across an instance boundary.
// Every catch site builds a RuntimeError with enough context (instance
// identity, hook or key name) to diagnose and hands it to the global handler.
// The default handler logs to stderr; applications may install their own via
// SetHandler.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindComputation indicates a computed getter or watch source failure.
	KindComputation
	// KindInjection indicates an unresolved required injection.
	KindInjection
	// KindLifecycle indicates a lifecycle hook failure.
	KindLifecycle
	// KindBinding indicates an event handler or two-way binding failure.
	KindBinding
	// KindConfig indicates a malformed configuration section.
	KindConfig
	// KindHost indicates a host bridge failure.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindComputation:
		return "computation"
	case KindInjection:
		return "injection"
	case KindLifecycle:
		return "lifecycle"
	case KindBinding:
		return "binding"
	case KindConfig:
		return "config"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// RuntimeError represents a structured error in the wisp runtime.
type RuntimeError struct {
	// Op is the operation that failed (e.g., "reactive.Computed.Get").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Instance is the ID of the component instance involved, if any.
	Instance string
	// Key is the hook, injection key, or patch key involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RuntimeError) Error() string {
	switch {
	case e.Instance != "" && e.Key != "":
		return fmt.Sprintf("%s [%s] instance=%s key=%s: %v", e.Op, e.Kind, e.Instance, e.Key, e.Err)
	case e.Instance != "":
		return fmt.Sprintf("%s [%s] instance=%s: %v", e.Op, e.Kind, e.Instance, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "lifecycle.Adapter.fire").
	Op string
	// Instance is the ID of the component instance involved, if any.
	Instance string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the wisp runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RuntimeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
