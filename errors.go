// Package kernelsim holds the types shared by the four simulator cores:
// the structured error used by every CLI-reachable failure, and nothing
// else — each core (cpusched, mmu, disksched, linker) is otherwise
// self-contained.
package kernelsim

import "fmt"

// SimError represents a structured simulator error with operation context.
type SimError struct {
	Op    string       // Operation that failed (e.g. "PARSE_SPEC", "LOAD_WORKLOAD")
	Code  SimErrorCode // High-level error category
	Msg   string       // Human-readable message
	Inner error        // Wrapped cause
}

// Error implements the error interface.
func (e *SimError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("kernelsim: %s (op=%s)", msg, e.Op)
	}
	return fmt.Sprintf("kernelsim: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/errors.As support.
func (e *SimError) Unwrap() error {
	return e.Inner
}

// Is supports errors.Is comparison against another *SimError by Code.
func (e *SimError) Is(target error) bool {
	te, ok := target.(*SimError)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// SimErrorCode represents high-level error categories.
type SimErrorCode string

const (
	ErrCodeBadSpec     SimErrorCode = "malformed scheduler/pager/algorithm spec"
	ErrCodeBadInput    SimErrorCode = "malformed workload input"
	ErrCodeBadRFile    SimErrorCode = "malformed random-number file"
	ErrCodeMissingArgs SimErrorCode = "missing required arguments"
	ErrCodeIO          SimErrorCode = "I/O error"
)

// NewError creates a new structured error.
func NewError(op string, code SimErrorCode, msg string) *SimError {
	return &SimError{Op: op, Code: code, Msg: msg}
}

// WrapError wraps an existing error with simulator context.
func WrapError(op string, code SimErrorCode, inner error) *SimError {
	if inner == nil {
		return nil
	}
	return &SimError{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}
