package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Kinds that have the sequence methods.
const seqKinds = "array range set tuple"

var errUnboundedRange = errors.New("cannot collect an unbounded range")

// elems returns the elements of a sequence.
func elems(v any) ([]any, error) {
	switch v := v.(type) {
	case vals.List:
		return vals.ListToSlice(v), nil
	case vals.Range:
		if v.Unbounded {
			return nil, errUnboundedRange
		}
	}
	return vals.Collect(v)
}

func init() {
	addMethods(seqKinds, map[string]any{
		"len":      seqLen,
		"is_empty": func(v any) bool { return vals.Len(v) == 0 },
		"first": func(v any) (any, error) {
			var first any
			found := false
			err := vals.Iterate(v, func(x any) bool {
				first, found = x, true
				return false
			})
			if !found {
				return vals.None, err
			}
			return vals.MakeSome(first), err
		},
		"last": func(v any) (any, error) {
			xs, err := elems(v)
			if err != nil || len(xs) == 0 {
				return vals.None, err
			}
			return vals.MakeSome(xs[len(xs)-1]), nil
		},
		"get": func(v any, i int64) (any, error) {
			xs, err := elems(v)
			if err != nil || i < 0 || i >= int64(len(xs)) {
				return vals.None, err
			}
			return vals.MakeSome(xs[i]), nil
		},
		"contains": func(v, x any) (bool, error) {
			if r, ok := v.(vals.Range); ok {
				i, isInt := x.(int64)
				return isInt && r.Contains(i), nil
			}
			xs, err := elems(v)
			return slices.ContainsFunc(xs, func(y any) bool { return valuesEqual(x, y) }), err
		},
		"index_of": func(v, x any) (any, error) {
			xs, err := elems(v)
			i := slices.IndexFunc(xs, func(y any) bool { return valuesEqual(x, y) })
			return optionalIndex(i), err
		},
		"position": seqPosition,
		"map":      seqMap,
		"filter":   seqFilter,
		"filter_map": func(fm *Frame, v, f any) (vals.List, error) {
			out := vals.EmptyList
			err := fm.eachElem(v, func(x any) (bool, error) {
				y, err := fm.callFn(f, x)
				if err != nil {
					return false, err
				}
				if isSome, payload, ok := vals.OptionOf(y); ok {
					if isSome {
						out = out.Cons(payload)
					}
				} else if y != nil {
					out = out.Cons(y)
				}
				return true, nil
			})
			return out, err
		},
		"flat_map": func(fm *Frame, v, f any) (vals.List, error) {
			out := vals.EmptyList
			err := fm.eachElem(v, func(x any) (bool, error) {
				y, err := fm.callFn(f, x)
				if err != nil {
					return false, err
				}
				ys, err := elems(y)
				for _, z := range ys {
					out = out.Cons(z)
				}
				return true, err
			})
			return out, err
		},
		"for_each": func(fm *Frame, v, f any) error {
			return fm.eachElem(v, func(x any) (bool, error) {
				_, err := fm.callFn(f, x)
				return true, err
			})
		},
		"fold": func(fm *Frame, v, init, f any) (any, error) {
			acc := init
			err := fm.eachElem(v, func(x any) (bool, error) {
				var err error
				acc, err = fm.callFn(f, acc, x)
				return true, err
			})
			return acc, err
		},
		"reduce": func(fm *Frame, v, f any) (any, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			if len(xs) == 0 {
				return vals.None, nil
			}
			acc := xs[0]
			for _, x := range xs[1:] {
				if acc, err = fm.callFn(f, acc, x); err != nil {
					return nil, err
				}
			}
			return vals.MakeSome(acc), nil
		},
		"any": func(fm *Frame, v, f any) (bool, error) {
			found := false
			err := fm.eachElem(v, func(x any) (bool, error) {
				ok, err := fm.predicate(f, x)
				found = ok
				return !ok, err
			})
			return found, err
		},
		"all": func(fm *Frame, v, f any) (bool, error) {
			all := true
			err := fm.eachElem(v, func(x any) (bool, error) {
				ok, err := fm.predicate(f, x)
				all = ok
				return ok, err
			})
			return all, err
		},
		"find": func(fm *Frame, v, f any) (any, error) {
			result := any(vals.None)
			err := fm.eachElem(v, func(x any) (bool, error) {
				ok, err := fm.predicate(f, x)
				if ok {
					result = vals.MakeSome(x)
				}
				return !ok, err
			})
			return result, err
		},
		"count": func(fm *Frame, v any, f ...any) (int64, error) {
			if len(f) == 0 {
				return int64(seqLen(v)), nil
			}
			n := int64(0)
			err := fm.eachElem(v, func(x any) (bool, error) {
				ok, err := fm.predicate(f[0], x)
				if ok {
					n++
				}
				return true, err
			})
			return n, err
		},
		"sum": func(v any) (any, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			return sum(xs...)
		},
		"product": func(fm *Frame, v any) (any, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			var acc any = int64(1)
			for _, x := range xs {
				if acc, err = fm.binaryOp(nil, parse.OpMul, acc, x); err != nil {
					return nil, err
				}
			}
			return acc, nil
		},
		"min": func(v any) (any, error) { return seqExtremum(v, vals.CmpLess) },
		"max": func(v any) (any, error) { return seqExtremum(v, vals.CmpMore) },
		"take": func(v any, n int64) (vals.List, error) {
			out := vals.EmptyList
			if n <= 0 {
				return out, nil
			}
			err := vals.Iterate(v, func(x any) bool {
				out = out.Cons(x)
				return int64(out.Len()) < n
			})
			return out, err
		},
		"skip": func(v any, n int64) (vals.List, error) {
			xs, err := elems(v)
			if n > int64(len(xs)) {
				n = int64(len(xs))
			}
			if n < 0 {
				n = 0
			}
			return vals.MakeList(xs[n:]...), err
		},
		"enumerate": func(v any) (vals.List, error) {
			xs, err := elems(v)
			out := vals.EmptyList
			for i, x := range xs {
				out = out.Cons(vals.Tuple{int64(i), x})
			}
			return out, err
		},
		"zip": func(v, other any) (vals.List, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			ys, err := elems(other)
			out := vals.EmptyList
			for i := 0; i < len(xs) && i < len(ys); i++ {
				out = out.Cons(vals.Tuple{xs[i], ys[i]})
			}
			return out, err
		},
		"rev": func(v any) (vals.List, error) {
			xs, err := elems(v)
			slices.Reverse(xs)
			return vals.MakeList(xs...), err
		},
		"sorted": func(v any) (vals.List, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			err = sortValues(xs)
			return vals.MakeList(xs...), err
		},
		"join": func(v any, sep ...string) (string, error) {
			xs, err := elems(v)
			parts := make([]string, len(xs))
			for i, x := range xs {
				parts[i] = vals.ToString(x)
			}
			return strings.Join(parts, strings.Join(sep, "")), err
		},
		"flatten": func(v any) (vals.List, error) {
			xs, err := elems(v)
			out := vals.EmptyList
			for _, x := range xs {
				if !vals.CanIterate(x) {
					out = out.Cons(x)
					continue
				}
				ys, err := elems(x)
				if err != nil {
					return nil, err
				}
				for _, y := range ys {
					out = out.Cons(y)
				}
			}
			return out, err
		},
		"chunks": func(v any, n int64) (vals.List, error) {
			if n <= 0 {
				return nil, errs.BadValue{What: "chunk size", Valid: "positive", Actual: fmt.Sprint(n)}
			}
			xs, err := elems(v)
			out := vals.EmptyList
			for i := 0; i < len(xs); i += int(n) {
				out = out.Cons(vals.MakeList(xs[i:min(i+int(n), len(xs))]...))
			}
			return out, err
		},
		"windows": func(v any, n int64) (vals.List, error) {
			if n <= 0 {
				return nil, errs.BadValue{What: "window size", Valid: "positive", Actual: fmt.Sprint(n)}
			}
			xs, err := elems(v)
			out := vals.EmptyList
			for i := 0; i+int(n) <= len(xs); i++ {
				out = out.Cons(vals.MakeList(xs[i : i+int(n)]...))
			}
			return out, err
		},
		"unique": func(v any) (vals.List, error) {
			xs, err := elems(v)
			seen := vals.MakeSet()
			out := vals.EmptyList
			for _, x := range xs {
				if !seen.Has(x) {
					seen = seen.Add(x)
					out = out.Cons(x)
				}
			}
			return out, err
		},
		"collect": func(v any) (vals.List, error) {
			xs, err := elems(v)
			return vals.MakeList(xs...), err
		},
		"to_vec": func(v any) (vals.List, error) {
			xs, err := elems(v)
			return vals.MakeList(xs...), err
		},
		"to_set": func(v any) (vals.Set, error) {
			xs, err := elems(v)
			return vals.MakeSet(xs...), err
		},
		"slice": func(v any, start, end int64) (vals.List, error) {
			xs, err := elems(v)
			if err != nil {
				return nil, err
			}
			i, j, err := vals.ConvertSlice(&start, &end, false, len(xs))
			if err != nil {
				return nil, err
			}
			return vals.MakeList(xs[i:j]...), nil
		},
	})

	addMutators("array", map[string]any{
		"push": func(l vals.List, x any) (vals.List, any) { return l.Cons(x), nil },
		"pop": func(l vals.List) (vals.List, any) {
			if l.Len() == 0 {
				return l, vals.None
			}
			last, _ := l.Index(l.Len() - 1)
			return l.Pop(), vals.MakeSome(last)
		},
		"insert": func(l vals.List, i int64, x any) (vals.List, any, error) {
			if i < 0 || i > int64(l.Len()) {
				return nil, nil, errs.OutOfRange{What: "insert index", ValidLow: 0, ValidHigh: l.Len(), Actual: fmt.Sprint(i)}
			}
			xs := vals.ListToSlice(l)
			return vals.MakeList(slices.Insert(xs, int(i), x)...), nil, nil
		},
		"remove": func(l vals.List, i int64) (vals.List, any, error) {
			if i < 0 || i >= int64(l.Len()) {
				return nil, nil, errs.OutOfRange{What: "remove index", ValidLow: 0, ValidHigh: l.Len() - 1, Actual: fmt.Sprint(i)}
			}
			xs := vals.ListToSlice(l)
			removed := xs[i]
			return vals.MakeList(slices.Delete(xs, int(i), int(i)+1)...), removed, nil
		},
		"clear": func(l vals.List) (vals.List, any) { return vals.EmptyList, nil },
		"reverse": func(l vals.List) (vals.List, any) {
			xs := vals.ListToSlice(l)
			slices.Reverse(xs)
			return vals.MakeList(xs...), nil
		},
		"sort": func(l vals.List) (vals.List, any, error) {
			xs := vals.ListToSlice(l)
			if err := sortValues(xs); err != nil {
				return nil, nil, err
			}
			return vals.MakeList(xs...), nil, nil
		},
		"sort_by": func(fm *Frame, l vals.List, key any) (vals.List, any, error) {
			xs := vals.ListToSlice(l)
			keys := make(map[int]any, len(xs))
			idx := make([]int, len(xs))
			for i, x := range xs {
				k, err := fm.callFn(key, x)
				if err != nil {
					return nil, nil, err
				}
				keys[i], idx[i] = k, i
			}
			var cmpErr error
			slices.SortStableFunc(idx, func(a, b int) int { return compareForSort(keys[a], keys[b], &cmpErr) })
			if cmpErr != nil {
				return nil, nil, cmpErr
			}
			sorted := make([]any, len(xs))
			for i, j := range idx {
				sorted[i] = xs[j]
			}
			return vals.MakeList(sorted...), nil, nil
		},
		"extend": func(l vals.List, other any) (vals.List, any, error) {
			ys, err := elems(other)
			for _, y := range ys {
				l = l.Cons(y)
			}
			return l, nil, err
		},
		"truncate": func(l vals.List, n int64) (vals.List, any) {
			if n < int64(l.Len()) && n >= 0 {
				return l.SubVector(0, int(n)), nil
			}
			return l, nil
		},
		"retain": func(fm *Frame, l vals.List, f any) (vals.List, any, error) {
			out := vals.EmptyList
			for it := l.Iterator(); it.HasElem(); it.Next() {
				ok, err := fm.predicate(f, it.Elem())
				if err != nil {
					return nil, nil, err
				}
				if ok {
					out = out.Cons(it.Elem())
				}
			}
			return out, nil, nil
		},
		"swap": func(l vals.List, i, j int64) (vals.List, any, error) {
			n := int64(l.Len())
			if i < 0 || i >= n || j < 0 || j >= n {
				return nil, nil, errs.OutOfRange{What: "swap index", ValidLow: 0, ValidHigh: int(n - 1), Actual: fmt.Sprint(max(i, j))}
			}
			a, _ := l.Index(int(i))
			b, _ := l.Index(int(j))
			return l.Assoc(int(i), b).Assoc(int(j), a), nil, nil
		},
	})

	addMethods("set", map[string]any{
		"contains":     func(s vals.Set, x any) bool { return s.Has(x) },
		"union":        func(fm *Frame, s, t vals.Set) (any, error) { return fm.binaryOp(nil, parse.OpBitOr, s, t) },
		"intersection": func(fm *Frame, s, t vals.Set) (any, error) { return fm.binaryOp(nil, parse.OpBitAnd, s, t) },
		"difference":   func(fm *Frame, s, t vals.Set) (any, error) { return fm.binaryOp(nil, parse.OpSub, s, t) },
		"is_subset": func(s, t vals.Set) bool {
			for _, x := range s.Elems() {
				if !t.Has(x) {
					return false
				}
			}
			return true
		},
	})
	addMutators("set", map[string]any{
		"insert": func(s vals.Set, x any) (vals.Set, bool) { return s.Add(x), !s.Has(x) },
		"remove": func(s vals.Set, x any) (vals.Set, bool) { return s.Remove(x), s.Has(x) },
		"clear":  func(s vals.Set) (vals.Set, any) { return vals.MakeSet(), nil },
	})
}

func seqLen(v any) int {
	if n := vals.Len(v); n >= 0 {
		return n
	}
	return 0
}

func optionalIndex(i int) any {
	if i < 0 {
		return vals.None
	}
	return vals.MakeSome(int64(i))
}

// eachElem calls f with each element of v until f returns false or an error.
func (fm *Frame) eachElem(v any, f func(any) (bool, error)) error {
	var ferr error
	err := vals.Iterate(v, func(x any) bool {
		var cont bool
		cont, ferr = f(x)
		return cont && ferr == nil
	})
	if ferr != nil {
		return ferr
	}
	return err
}

func seqPosition(fm *Frame, v, f any) (any, error) {
	i, pos := 0, -1
	err := fm.eachElem(v, func(x any) (bool, error) {
		ok, err := fm.predicate(f, x)
		if ok {
			pos = i
		}
		i++
		return !ok, err
	})
	return optionalIndex(pos), err
}

func seqMap(fm *Frame, v, f any) (vals.List, error) {
	out := vals.EmptyList
	err := fm.eachElem(v, func(x any) (bool, error) {
		y, err := fm.callFn(f, x)
		out = out.Cons(y)
		return true, err
	})
	return out, err
}

func seqFilter(fm *Frame, v, f any) (vals.List, error) {
	out := vals.EmptyList
	err := fm.eachElem(v, func(x any) (bool, error) {
		ok, err := fm.predicate(f, x)
		if ok {
			out = out.Cons(x)
		}
		return true, err
	})
	return out, err
}

func seqExtremum(v any, want vals.Ordering) (any, error) {
	xs, err := elems(v)
	if err != nil || len(xs) == 0 {
		return vals.None, err
	}
	best, err := extremum(xs, want)
	if err != nil {
		return nil, err
	}
	return vals.MakeSome(best), nil
}

// compareForSort compares for sorting, recording the first pair of values
// that cannot be compared.
func compareForSort(a, b any, cmpErr *error) int {
	switch vals.Cmp(a, b) {
	case vals.CmpLess:
		return -1
	case vals.CmpMore:
		return 1
	case vals.CmpUncomparable:
		if *cmpErr == nil {
			*cmpErr = fmt.Errorf("cannot compare %s and %s", vals.TypeName(a), vals.TypeName(b))
		}
	}
	return 0
}

func sortValues(xs []any) error {
	var cmpErr error
	slices.SortStableFunc(xs, func(a, b any) int { return compareForSort(a, b, &cmpErr) })
	return cmpErr
}
