package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
	// Related spans, e.g. the declaration that conflicts with the culprit.
	Related []Related
}

// Related is an additional source location attached to an Error.
type Related struct {
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error as "kind: message", followed by a caret-anchored
// snippet of the culprit and of every related span.
func (e *Error) Show(indent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s%s%s\n", e.Type, messageStart, e.Message, messageEnd)
	sb.WriteString(indent + "  ")
	sb.WriteString(e.Context.Show(indent + "  "))
	for _, r := range e.Related {
		sb.WriteString("\n" + indent + "  note: " + r.Message + "\n")
		sb.WriteString(indent + "  ")
		sb.WriteString(r.Context.Show(indent + "  "))
	}
	return sb.String()
}

// Variables controlling how the message is highlighted.
var (
	messageStart = ""
	messageEnd   = ""
)
