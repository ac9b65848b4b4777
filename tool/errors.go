package tool

import "fmt"

// NotFoundError reports an invocation of a tool name that is not registered.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Tool)
}

// ArgumentError reports a missing or mistyped argument. Param names the
// offending parameter and Expected its declared type.
type ArgumentError struct {
	Tool     string
	Param    string
	Expected ParamType
	Missing  bool
}

func (e *ArgumentError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: missing required argument %q (%s)", e.Tool, e.Param, e.Expected)
	}
	return fmt.Sprintf("%s: argument %q: expected %s", e.Tool, e.Param, e.Expected)
}

// HandlerError wraps a failure raised by a tool handler. The gateway converts
// handler errors and panics into this type so no invocation can take the
// process down.
type HandlerError struct {
	Tool string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
