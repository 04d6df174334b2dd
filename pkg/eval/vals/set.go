package vals

import "sort"

// Set is an immutable set of values. The zero value is an empty Set.
type Set struct{ m Map }

// MakeSet creates a Set from values; duplicates are dropped.
func MakeSet(vs ...any) Set {
	s := Set{}
	for _, v := range vs {
		s = s.Add(v)
	}
	return s
}

func (s Set) mp() Map {
	if s.m == nil {
		return EmptyMap
	}
	return s.m
}

func (s Set) Kind() string { return "set" }

func (s Set) Len() int { return s.mp().Len() }

// Has reports whether v is in s.
func (s Set) Has(v any) bool {
	_, ok := s.mp().Index(v)
	return ok
}

// Add returns a Set with v added.
func (s Set) Add(v any) Set { return Set{s.mp().Assoc(v, true)} }

// Remove returns a Set with v removed.
func (s Set) Remove(v any) Set { return Set{s.mp().Dissoc(v)} }

// Elems returns the elements of s sorted by Cmp; elements that cannot be
// compared keep a stable order by Repr.
func (s Set) Elems() []any {
	elems := make([]any, 0, s.Len())
	for it := s.mp().Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		elems = append(elems, k)
	}
	sort.SliceStable(elems, func(i, j int) bool { return lessForSort(elems[i], elems[j]) })
	return elems
}

func (s Set) Iterate(f func(any) bool) {
	for _, e := range s.Elems() {
		if !f(e) {
			return
		}
	}
}

func lessForSort(a, b any) bool {
	switch Cmp(a, b) {
	case CmpLess:
		return true
	case CmpUncomparable:
		return ReprPlain(a) < ReprPlain(b)
	}
	return false
}
