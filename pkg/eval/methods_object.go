package eval

import (
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// Object methods accept both immutable objects and the mutable maps made by
// HashMap::new. Mutators update mutable maps in place.

func objectOf(v any) vals.Object {
	if m, ok := v.(*vals.ObjectMut); ok {
		return m.Snapshot()
	}
	return v.(vals.Object)
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return vals.ToString(k)
}

func init() {
	addMethods("object", map[string]any{
		"len":      func(v any) int { return objectOf(v).Len() },
		"is_empty": func(v any) bool { return objectOf(v).Len() == 0 },
		"get": func(v, k any) any {
			if x, ok := objectOf(v).Get(keyString(k)); ok {
				return vals.MakeSome(x)
			}
			return vals.None
		},
		"get_or": func(v, k, def any) any {
			if x, ok := objectOf(v).Get(keyString(k)); ok {
				return x
			}
			return def
		},
		"contains_key": func(v, k any) bool { return objectOf(v).Has(keyString(k)) },
		"keys":         func(v any) []string { return objectOf(v).Keys() },
		"values": func(v any) vals.List {
			l := vals.EmptyList
			objectOf(v).IteratePairs(func(_ string, x any) bool {
				l = l.Cons(x)
				return true
			})
			return l
		},
		"items":   objectItems,
		"iter":    objectItems,
		"entries": objectItems,
		"map": func(fm *Frame, v, f any) (vals.List, error) {
			return seqMap(fm, objectOf(v), f)
		},
		"filter": func(fm *Frame, v, f any) (vals.List, error) {
			return seqFilter(fm, objectOf(v), f)
		},
		"for_each": func(fm *Frame, v, f any) error {
			return fm.eachElem(objectOf(v), func(x any) (bool, error) {
				_, err := fm.callFn(f, x)
				return true, err
			})
		},
	})

	addMutators("object", map[string]any{
		"insert": func(v, k, x any) (any, any) {
			key := keyString(k)
			old, had := objectOf(v).Get(key)
			var prev any = vals.None
			if had {
				prev = vals.MakeSome(old)
			}
			if m, ok := v.(*vals.ObjectMut); ok {
				m.Set(key, x)
				return m, prev
			}
			return v.(vals.Object).Set(key, x), prev
		},
		"remove": func(v, k any) (any, any) {
			key := keyString(k)
			old, had := objectOf(v).Get(key)
			if !had {
				return v, vals.None
			}
			if m, ok := v.(*vals.ObjectMut); ok {
				m.Delete(key)
				return m, vals.MakeSome(old)
			}
			return v.(vals.Object).Delete(key), vals.MakeSome(old)
		},
		"clear": func(v any) (any, any) {
			if m, ok := v.(*vals.ObjectMut); ok {
				for _, k := range m.Snapshot().Keys() {
					m.Delete(k)
				}
				return m, nil
			}
			return vals.Object{}, nil
		},
	})
}

func objectItems(v any) vals.List {
	l := vals.EmptyList
	objectOf(v).IteratePairs(func(k string, x any) bool {
		l = l.Cons(vals.Tuple{k, x})
		return true
	})
	return l
}
