package vals

// Atom is a symbolic constant like :ok. Two atoms are equal iff their names
// are.
type Atom string

func (a Atom) Kind() string { return "atom" }

func (a Atom) Repr(int) string { return ":" + string(a) }
