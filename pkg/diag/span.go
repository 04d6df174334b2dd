package diag

import "strings"

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging is a half-open byte range [From, To) within a source. Structs embed
// Ranging to satisfy the Ranger interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line int
	Col  int
}

// PositionOf converts a byte index into a Position within source.
func PositionOf(source string, idx int) Position {
	if idx > len(source) {
		idx = len(source)
	}
	if idx < 0 {
		idx = 0
	}
	before := source[:idx]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{line, len([]rune(source[lineStart:idx])) + 1}
}
