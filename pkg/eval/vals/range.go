package vals

import (
	"math"
	"strconv"
)

// Range is a lazy range of integers. An Unbounded range has no end and
// iterates up to the largest integer.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
	Unbounded bool
}

func (r Range) Kind() string { return "range" }

// Last returns the last integer in r, and false if r is empty.
func (r Range) Last() (int64, bool) {
	switch {
	case r.Unbounded:
		return math.MaxInt64, true
	case r.Inclusive:
		return r.End, r.Start <= r.End
	default:
		return r.End - 1, r.Start < r.End
	}
}

// Len returns the number of integers in r, capped at the largest int.
func (r Range) Len() int {
	last, ok := r.Last()
	if !ok {
		return 0
	}
	n := uint64(last-r.Start) + 1
	if n == 0 || n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Contains reports whether i is in r.
func (r Range) Contains(i int64) bool {
	last, ok := r.Last()
	return ok && r.Start <= i && i <= last
}

// Iterate calls f with each integer in r until f returns false.
func (r Range) Iterate(f func(any) bool) {
	last, ok := r.Last()
	if !ok {
		return
	}
	for i := r.Start; ; i++ {
		if !f(i) || i == last {
			return
		}
	}
}

func (r Range) Repr(int) string {
	s := strconv.FormatInt(r.Start, 10)
	switch {
	case r.Unbounded:
		return s + ".."
	case r.Inclusive:
		return s + "..=" + strconv.FormatInt(r.End, 10)
	default:
		return s + ".." + strconv.FormatInt(r.End, 10)
	}
}
