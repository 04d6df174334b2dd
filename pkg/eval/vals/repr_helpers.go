package vals

import (
	"strings"
)

// ReprBuilder helps to build the Repr of container values. Elements are
// separated by ", " on a single line, or written one per line when
// pretty-printing.
type ReprBuilder struct {
	open, close string
	indent      int
	elems       []string
}

// NewReprBuilder makes a new ReprBuilder for a container delimited by open and
// close.
func NewReprBuilder(open, close string, indent int) *ReprBuilder {
	return &ReprBuilder{open: open, close: close, indent: indent}
}

// NewListReprBuilder makes a new ReprBuilder for list-like values.
func NewListReprBuilder(indent int) *ReprBuilder {
	return NewReprBuilder("[", "]", indent)
}

// WriteElem writes a new element.
func (b *ReprBuilder) WriteElem(v string) {
	b.elems = append(b.elems, v)
}

// WritePair writes a new key: value pair.
func (b *ReprBuilder) WritePair(k, v string) {
	b.elems = append(b.elems, k+": "+v)
}

// String returns the representation that has been built.
func (b *ReprBuilder) String() string {
	if len(b.elems) == 0 {
		return strings.TrimRight(b.open, " ") + strings.TrimLeft(b.close, " ")
	}
	if b.indent < 0 {
		return b.open + strings.Join(b.elems, ", ") + b.close
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(b.open, " "))
	inner := strings.Repeat(" ", 4*(b.indent+1))
	for _, e := range b.elems {
		sb.WriteString("\n" + inner + e + ",")
	}
	sb.WriteString("\n" + strings.Repeat(" ", 4*b.indent) + strings.TrimLeft(b.close, " "))
	return sb.String()
}
