package vals

// Tuple is a fixed-size sequence of values. Tuples are never mutated after
// creation; updating an element copies the tuple.
type Tuple []any

func (t Tuple) Kind() string { return "tuple" }

func (t Tuple) Len() int { return len(t) }

// With returns a copy of t with the i-th element replaced by v.
func (t Tuple) With(i int, v any) Tuple {
	copied := make(Tuple, len(t))
	copy(copied, t)
	copied[i] = v
	return copied
}
