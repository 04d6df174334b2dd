package eval

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"github.com/xiaq/persistent/hash"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/eval/actor"
	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// ErrorKind classifies runtime errors.
type ErrorKind string

// Runtime error kinds.
const (
	UndefinedVariable        ErrorKind = "UndefinedVariable"
	TypeError                ErrorKind = "TypeError"
	DivisionByZero           ErrorKind = "DivisionByZero"
	IndexOutOfRange          ErrorKind = "IndexOutOfRange"
	UnknownField             ErrorKind = "UnknownField"
	UnknownMethod            ErrorKind = "UnknownMethod"
	MatchFailure             ErrorKind = "MatchFailure"
	PatternBindArityMismatch ErrorKind = "PatternBindArityMismatch"
	MutabilityViolation      ErrorKind = "MutabilityViolation"
	StackOverflow            ErrorKind = "StackOverflow"
	AssertionFailure         ErrorKind = "AssertionFailure"
	Thrown                   ErrorKind = "Thrown"
	Timeout                  ErrorKind = "Timeout"
	ActorNotFound            ErrorKind = "ActorNotFound"
	Overflow                 ErrorKind = "Overflow"
	Interrupted              ErrorKind = "Interrupted"
)

// Exception is a runtime error. It is both an error returned by the
// Interpreter and a value that catch clauses can bind.
type Exception struct {
	Type    ErrorKind
	Message string
	// The thrown value for Thrown exceptions.
	Value any
	// Where the exception was raised; nil when unknown.
	Context    *diag.Context
	StackTrace *StackTrace
}

// StackTrace represents a stack trace as a linked list of diag.Context. The
// head is the innermost call site.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Error returns "kind: message", with the position when it is known.
func (exc *Exception) Error() string {
	if exc.Context == nil {
		return fmt.Sprintf("%s: %s", exc.Type, exc.Message)
	}
	return fmt.Sprintf("%s: %s: %s", exc.Type, exc.Context.Describe(), exc.Message)
}

// Show shows the exception with a snippet of the culprit, followed by the
// call sites it propagated through.
func (exc *Exception) Show(indent string) string {
	buf := new(bytes.Buffer)
	if exc.Context == nil {
		fmt.Fprintf(buf, "%s: %s", exc.Type, exc.Message)
	} else {
		e := diag.Error{Type: string(exc.Type), Message: exc.Message, Context: *exc.Context}
		buf.WriteString(e.Show(indent))
	}
	if exc.StackTrace != nil {
		buf.WriteString("\n" + indent + "Traceback:")
		for tb := exc.StackTrace; tb != nil; tb = tb.Next {
			buf.WriteString("\n" + indent + "  ")
			buf.WriteString(tb.Head.Show(indent + "    "))
		}
	}
	return buf.String()
}

// Kind returns "exception".
func (exc *Exception) Kind() string { return "exception" }

// Repr returns a representation of the exception. It is lossy in that it does
// not preserve the stack trace.
func (exc *Exception) Repr(indent int) string {
	return "<" + string(exc.Type) + " " + vals.Repr(exc.Message, indent) + ">"
}

// Equal compares by address.
func (exc *Exception) Equal(rhs any) bool { return exc == rhs }

// Hash returns the hash of the address.
func (exc *Exception) Hash() uint32 { return hash.Pointer(unsafe.Pointer(exc)) }

// Get exposes the fields kind, message and value to field access.
func (exc *Exception) Get(name string) (any, bool) {
	switch name {
	case "kind":
		return string(exc.Type), true
	case "message":
		return exc.Message, true
	case "value":
		return exc.Value, true
	}
	return nil, false
}

// CatchValue is the value a catch clause matches against: the thrown value
// for Thrown exceptions, the exception itself otherwise.
func (exc *Exception) CatchValue() any {
	if exc.Type == Thrown {
		return exc.Value
	}
	return exc
}

// KindOf returns the kind of err if it is or wraps an *Exception, or "" if it
// is not.
func KindOf(err error) ErrorKind {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.Type
	}
	return ""
}

// Flow is a special type of error used for control flows.
type Flow uint

// Control flows.
const (
	Return Flow = iota
	Break
	Continue
)

var flowNames = [...]string{
	"return", "break", "continue",
}

func (f Flow) String() string {
	if f >= Flow(len(flowNames)) {
		return fmt.Sprintf("!(BAD FLOW: %d)", f)
	}
	return flowNames[f]
}

// flowError carries a control flow out of the expressions between the
// break, continue or return and the loop or function that handles it.
type flowError struct {
	flow  Flow
	label string
	value any
	from  diag.Ranging
}

func (f *flowError) Error() string {
	if f.label != "" {
		return f.flow.String() + " '" + f.label
	}
	return f.flow.String()
}

// kindOfError maps errors from the value layer and the actor runtime to
// error kinds.
func kindOfError(err error) ErrorKind {
	var (
		outOfRange errs.OutOfRange
		noField    errs.NoSuchField
		noMethod   errs.NoSuchMethod
		immutable  errs.Immutable
	)
	switch {
	case errors.As(err, &outOfRange):
		return IndexOutOfRange
	case errors.As(err, &noField):
		return UnknownField
	case errors.As(err, &noMethod):
		return UnknownMethod
	case errors.As(err, &immutable):
		return MutabilityViolation
	case errors.Is(err, actor.ErrTimeout):
		return Timeout
	case errors.Is(err, actor.ErrActorNotFound), errors.Is(err, actor.ErrStopped):
		return ActorNotFound
	}
	if _, ok := err.(interface{ Key() any }); ok {
		return UnknownField
	}
	return TypeError
}
