// Package errors provides structured error handling for the Sprout runtime.
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
	// KindStyle indicates an unparseable style input. Never fatal: the
	// resolver omits the field instead of failing.
	KindStyle
	// KindIntake indicates a malformed host event (stale identity or
	// unknown event type). Never fatal: the event is dropped.
	KindIntake
	// KindTree indicates benign tree-structure misuse (removing a
	// non-child, inserting before a missing reference). Absorbed locally.
	KindTree
	// KindSerialize indicates a broken node-kind invariant reached the
	// serializer. This is the only category that aborts a pass.
	KindSerialize
	// KindReload indicates a hot-reload transport failure.
	KindReload
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindStyle:
		return "style"
	case KindIntake:
		return "intake"
	case KindTree:
		return "tree"
	case KindSerialize:
		return "serialize"
	case KindReload:
		return "reload"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the Sprout runtime.
type Error struct {
	// Op is the operation that failed (e.g., "bridge.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bridge.intake").
	Op string
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

// IntakeError describes a host event that could not be routed into the tree.
// It is reported, never returned: the render loop stays available and the
// single event is dropped.
type IntakeError struct {
	// Identity is the host-supplied element identity.
	Identity int
	// EventType is the host-supplied event type string.
	EventType string
	// Reason explains why the event was dropped ("stale identity",
	// "unknown event type").
	Reason string
}

func (e *IntakeError) Error() string {
	return fmt.Sprintf("dropped host event %s for id %d: %s", e.EventType, e.Identity, e.Reason)
}

// ErrorHandler receives errors reported by the Sprout runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleIntakeError is called when a host event is dropped.
	HandleIntakeError(err *IntakeError)
}
