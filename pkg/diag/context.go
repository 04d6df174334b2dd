package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a source. It is used for errors that can be
// associated with a part of the source code, like parse errors, type errors
// and entries of a stack trace.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the look of the culprit marker.
var (
	caretStart = ""
	caretEnd   = ""
	caret      = "^"
)

// Describe returns "name:line:col" for the start of the range.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	pos := PositionOf(c.Source, c.From)
	return fmt.Sprintf("%s:%d:%d", c.Name, pos.Line, pos.Col)
}

// Show shows the position of the Context, followed by the source line that
// contains the start of the range and a caret line underneath the culprit.
// Each line after the first is prefixed with indent.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(c.Describe())
	sb.WriteString(":\n")
	c.writeSnippet(&sb, indent+"  ")
	return sb.String()
}

func (c *Context) writeSnippet(sb *strings.Builder, indent string) {
	lineStart := strings.LastIndexByte(c.Source[:c.From], '\n') + 1
	lineEnd := strings.IndexByte(c.Source[c.From:], '\n')
	if lineEnd == -1 {
		lineEnd = len(c.Source)
	} else {
		lineEnd += c.From
	}
	line := c.Source[lineStart:lineEnd]
	culpritEnd := c.To
	if culpritEnd > lineEnd {
		culpritEnd = lineEnd
	}

	pad := caretPadding(c.Source[lineStart:c.From])
	width := len([]rune(c.Source[c.From:culpritEnd]))
	if width == 0 {
		width = 1
	}

	sb.WriteString(indent)
	sb.WriteString(line)
	sb.WriteByte('\n')
	sb.WriteString(indent)
	sb.WriteString(pad)
	sb.WriteString(caretStart)
	sb.WriteString(strings.Repeat(caret, width))
	sb.WriteString(caretEnd)
	if c.To > lineEnd {
		sb.WriteString(" ...")
	}
}

// Tabs in the head are kept so that the carets line up in a terminal.
func caretPadding(head string) string {
	var sb strings.Builder
	for _, r := range head {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}
