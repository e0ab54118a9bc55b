package errors

import (
	"fmt"
	"os"
	"sync"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a RuntimeError to stderr.
func (h *LogHandler) HandleError(err *RuntimeError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[wisp error] %s [%s]", err.Op, err.Kind)
		if err.Instance != "" {
			fmt.Fprintf(os.Stderr, " instance=%s", err.Instance)
		}
		if err.Key != "" {
			fmt.Fprintf(os.Stderr, " key=%s", err.Key)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[wisp error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(os.Stderr, "[wisp panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(os.Stderr, "[wisp panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// CaptureHandler is an ErrorHandler that records every report. It exists for
// tests that assert on the degrade-and-log contract.
type CaptureHandler struct {
	mu     sync.Mutex
	errs   []*RuntimeError
	panics []*PanicError
}

// HandleError records a RuntimeError.
func (h *CaptureHandler) HandleError(err *RuntimeError) {
	h.mu.Lock()
	h.errs = append(h.errs, err)
	h.mu.Unlock()
}

// HandlePanic records a PanicError.
func (h *CaptureHandler) HandlePanic(err *PanicError) {
	h.mu.Lock()
	h.panics = append(h.panics, err)
	h.mu.Unlock()
}

// Errors returns a snapshot of the recorded RuntimeErrors.
func (h *CaptureHandler) Errors() []*RuntimeError {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*RuntimeError, len(h.errs))
	copy(out, h.errs)
	return out
}

// Panics returns a snapshot of the recorded PanicErrors.
func (h *CaptureHandler) Panics() []*PanicError {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*PanicError, len(h.panics))
	copy(out, h.panics)
	return out
}

// Reset clears all recorded reports.
func (h *CaptureHandler) Reset() {
	h.mu.Lock()
	h.errs = nil
	h.panics = nil
	h.mu.Unlock()
}
