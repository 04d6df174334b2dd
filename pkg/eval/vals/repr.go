package vals

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// NoPretty can be passed to Repr to suppress pretty-printing.
const NoPretty = math.MinInt32

// Reprer wraps the Repr method.
type Reprer interface {
	// Repr returns a string that represents a Value. The string is either a
	// literal of that Value that is preferably equal to it (like `[1, 2]` for
	// a list), or a string enclosed in "<>" containing the kind and identity
	// of the Value (like `<fn add>`).
	//
	// If indent is at least 0, it should be pretty-printed with the current
	// indentation level of indent; the indent of the first line has already
	// been written and shall not be written in Repr. The returned string
	// should never contain a trailing newline.
	Repr(indent int) string
}

// ReprPlain is like Repr, but without pretty-printing.
func ReprPlain(v any) string {
	return Repr(v, NoPretty)
}

// Repr returns the representation for a value, a string that is preferably
// (but not necessarily) an expression that evaluates to the argument. The
// representation is pretty-printed, using indent as the initial level of
// indentation, when indent is at least 0. For types not known to Repr and
// not satisfying the Reprer interface, it uses fmt.Sprint with the format
// "<unknown %v>".
func Repr(v any, indent int) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat64(v)
	case string:
		return parse.Quote(v)
	case Reprer:
		return v.Repr(indent)
	case List:
		b := NewListReprBuilder(indent)
		for it := v.Iterator(); it.HasElem(); it.Next() {
			b.WriteElem(Repr(it.Elem(), indent+1))
		}
		return b.String()
	case Tuple:
		if len(v) == 1 {
			return "(" + Repr(v[0], indent) + ",)"
		}
		b := NewReprBuilder("(", ")", indent)
		for _, e := range v {
			b.WriteElem(Repr(e, indent+1))
		}
		return b.String()
	case Object:
		if isOk, payload, ok := ResultOf(v); ok {
			return reprVariant(resultTag(isOk), []any{payload}, indent)
		}
		return reprObject(v, indent)
	case *ObjectMut:
		return reprObject(v.Snapshot(), indent)
	case Set:
		b := NewReprBuilder("{", "}", indent)
		for _, e := range v.Elems() {
			b.WriteElem(Repr(e, indent+1))
		}
		return b.String()
	case Struct:
		return reprFields(v.Name, v.FieldNames(), v.Get, indent)
	case *Instance:
		return reprFields(v.Class, v.FieldNames(), v.Get, indent)
	case EnumVariant:
		name := v.Enum + "::" + v.Variant
		if v.Enum == "Option" || v.Enum == "" {
			name = v.Variant
		}
		if v.FieldNames != nil {
			return reprFields(name, v.FieldNames, v.Field, indent)
		}
		if v.Data == nil {
			return name
		}
		return reprVariant(name, v.Data, indent)
	default:
		return fmt.Sprintf("<unknown %v>", v)
	}
}

func resultTag(isOk bool) string {
	if isOk {
		return "Ok"
	}
	return "Err"
}

func reprVariant(name string, data []any, indent int) string {
	b := NewReprBuilder(name+"(", ")", indent)
	for _, e := range data {
		b.WriteElem(Repr(e, indent+1))
	}
	return b.String()
}

func reprObject(o Object, indent int) string {
	b := NewReprBuilder("{", "}", indent)
	o.IteratePairs(func(k string, v any) bool {
		b.WritePair(reprKey(k), Repr(v, indent+1))
		return true
	})
	return b.String()
}

func reprFields(name string, names []string, get func(string) (any, bool), indent int) string {
	if len(names) == 0 {
		return name
	}
	b := NewReprBuilder(name+" { ", " }", indent)
	for _, k := range names {
		v, _ := get(k)
		b.WritePair(k, Repr(v, indent+1))
	}
	return b.String()
}

func reprKey(k string) string {
	if parse.IsIdent(k) {
		return k
	}
	return parse.Quote(k)
}
