package vals

import (
	"math"

	"github.com/xiaq/persistent/hash"
)

// Hasher wraps the Hash method.
type Hasher interface {
	// Hash computes the hash code of the receiver.
	Hash() uint32
}

// Hash returns the 32-bit hash of a value, consistent with Equal. For values
// not known to Hash and not satisfying the Hasher interface, it returns 0
// (which is OK in terms of correctness).
func Hash(v any) uint32 {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int64:
		return hashUint64(uint64(v))
	case float64:
		return hashUint64(math.Float64bits(v))
	case string:
		return hash.String(v)
	case Atom:
		return hash.DJBCombine(hash.String(string(v)), ':')
	case Range:
		h := hash.DJBCombine(hashUint64(uint64(v.Start)), hashUint64(uint64(v.End)))
		if v.Inclusive {
			h = hash.DJBCombine(h, 1)
		}
		return h
	case List:
		h := hash.DJBInit
		for it := v.Iterator(); it.HasElem(); it.Next() {
			h = hash.DJBCombine(h, Hash(it.Elem()))
		}
		return h
	case Tuple:
		return hashSlice(v)
	case Object:
		return hashMap(v.mp())
	case *ObjectMut:
		return hashMap(v.Snapshot().mp())
	case Set:
		return hashMap(v.mp())
	case Struct:
		return hash.DJBCombine(hash.String(v.Name), hashMap(v.mp()))
	case *Instance:
		return hash.String(v.Class)
	case EnumVariant:
		h := hash.DJBCombine(hash.String(v.Enum), hash.String(v.Variant))
		return hash.DJBCombine(h, hashSlice(v.Data))
	case Hasher:
		return v.Hash()
	}
	return 0
}

func hashUint64(u uint64) uint32 {
	return hash.DJBCombine(hash.DJBCombine(hash.DJBInit, uint32(u)), uint32(u>>32))
}

func hashSlice(vs []any) uint32 {
	h := hash.DJBInit
	for _, v := range vs {
		h = hash.DJBCombine(h, Hash(v))
	}
	return h
}

func hashMap(m Map) uint32 {
	// Entries with colliding key hashes come out in insertion order, so equal
	// maps may iterate differently. Summing makes the result order-independent.
	var h uint32
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		h += hash.DJBCombine(Hash(k), Hash(v))
	}
	return h
}
