package diag

import "strings"

// MultiError is a non-empty list of errors collected by one pass, like all
// the syntax errors of a source file.
type MultiError []*Error

// Error returns all the messages, separated by "; ".
func (me MultiError) Error() string {
	if len(me) == 1 {
		return me[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("multiple errors: ")
	for i, e := range me {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Show shows all the errors, separated by newlines.
func (me MultiError) Show(indent string) string {
	var sb strings.Builder
	for i, e := range me {
		if i > 0 {
			sb.WriteString("\n" + indent)
		}
		sb.WriteString(e.Show(indent))
	}
	return sb.String()
}

// PackErrors packs errors into one error. It returns nil if errs is empty.
func PackErrors(errs []*Error) error {
	if len(errs) == 0 {
		return nil
	}
	return MultiError(errs)
}

// UnpackErrors returns the constituent errors of an error returned by
// PackErrors, or a single-element list if err is an *Error. It returns nil
// for other errors.
func UnpackErrors(err error) []*Error {
	switch err := err.(type) {
	case MultiError:
		return err
	case *Error:
		return []*Error{err}
	}
	return nil
}
