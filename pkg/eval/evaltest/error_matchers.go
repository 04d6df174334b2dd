package evaltest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/eval"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for exceptions.
type exc struct {
	kind eval.ErrorKind
	msg  string
}

func (e exc) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("exception of kind %s", e.kind)
	}
	return fmt.Sprintf("exception of kind %s with message containing %q", e.kind, e.msg)
}

func (e exc) matchError(e2 error) bool {
	if e2, ok := e2.(*eval.Exception); ok {
		return e2.Type == e.kind && strings.Contains(e2.Message, e.msg)
	}
	return false
}

// AnyParseError is an error that can be passed to Case.ThrowsError to match
// any syntax error.
var AnyParseError anyParseError

type anyParseError struct{}

func (anyParseError) Error() string           { return "any parse error" }
func (anyParseError) matchError(e error) bool { return diag.UnpackErrors(e) != nil }

// ParseErrorWithMessage returns an error that matches a syntax error one of
// whose messages contains msg.
func ParseErrorWithMessage(msg string) error { return parseErrWithMessage{msg} }

type parseErrWithMessage struct{ msg string }

func (e parseErrWithMessage) Error() string { return "parse error with message " + e.msg }

func (e parseErrWithMessage) matchError(e2 error) bool {
	for _, err := range diag.UnpackErrors(e2) {
		if strings.Contains(err.Message, e.msg) {
			return true
		}
	}
	return false
}

// ErrorWithType returns an error that can be passed to the Case.ThrowsError
// to match any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.ThrowsError to
// match any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

// ThrownValue returns an error that matches a Thrown exception carrying a
// value equal to v.
func ThrownValue(v any) error { return thrownValue{v} }

type thrownValue struct{ v any }

func (e thrownValue) Error() string { return fmt.Sprintf("thrown value %v", e.v) }

func (e thrownValue) matchError(e2 error) bool {
	if e2, ok := e2.(*eval.Exception); ok {
		return e2.Type == eval.Thrown && match(e2.Value, e.v)
	}
	return false
}

type errOneOf struct{ errs []error }

// OneOfErrors returns an error that matches any of the given errors.
func OneOfErrors(errs ...error) error { return errOneOf{errs} }

func (e errOneOf) Error() string { return fmt.Sprint("one of", e.errs) }

func (e errOneOf) matchError(gotError error) bool {
	for _, want := range e.errs {
		if matchErr(want, gotError) {
			return true
		}
	}
	return false
}
