package vals

import "unicode/utf8"

// Lener wraps the Len method.
type Lener interface {
	// Len computes the length of the receiver.
	Len() int
}

var _ Lener = List(nil)

// Len returns the length of the value, or -1 if the value does not have a
// well-defined length. The length of a string is its number of characters.
func Len(v any) int {
	switch v := v.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case Lener:
		return v.Len()
	}
	return -1
}
