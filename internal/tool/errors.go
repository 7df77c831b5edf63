package tool

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrMissingArgument = errors.New("missing required argument")
	ErrArgumentType    = errors.New("argument has wrong type")
	ErrArgumentRange   = errors.New("argument out of range")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrHandlerPanic    = errors.New("tool handler panicked")
)

// -- Error codes reported to observers --

const (
	CodeUnknownTool = "unknown_tool"
	CodeValidation  = "validation"
	CodePanic       = "panic"
	CodeToolError   = "tool_error"
)

// -- Typed errors --

// MissingArgumentError is returned when a required argument is absent.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument %q", e.Name)
}

func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}

// ArgumentTypeError is returned when an argument does not match its declared kind.
type ArgumentTypeError struct {
	Name string
	Want Kind
	Got  any
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("argument %q must be a %s", e.Name, e.Want)
}

func (e *ArgumentTypeError) Is(target error) bool {
	return target == ErrArgumentType
}

// ArgumentRangeError is returned when a well-typed argument holds an unusable value.
type ArgumentRangeError struct {
	Name   string
	Reason string
}

func (e *ArgumentRangeError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Name, e.Reason)
}

func (e *ArgumentRangeError) Is(target error) bool {
	return target == ErrArgumentRange
}

// UnknownToolError is returned when an invocation names a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// PanicError wraps a value recovered from a handler.
type PanicError struct {
	Tool  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("tool %q failed unexpectedly: %v", e.Tool, e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// ErrorResultFrom formats err as an error result ("Error: <message>").
func ErrorResultFrom(err error) Result {
	return ErrorResult("Error: " + err.Error())
}
