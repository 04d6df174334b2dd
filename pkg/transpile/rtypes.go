package transpile

import (
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var collectionTypes = map[string]bool{
	"HashMap": true, "HashSet": true, "BTreeMap": true, "BTreeSet": true, "VecDeque": true,
}

var typeNames = map[string]string{
	"int": "i64", "integer": "i64", "float": "f64", "List": "Vec", "Array": "Vec",
	"Object": "HashMap", "Map": "HashMap", "Dict": "HashMap", "Set": "HashSet",
}

// typeExpr lowers a type annotation. Function types become impl Fn in
// parameter position and plain fn pointers elsewhere.
func (t *Transpiler) typeExpr(te *parse.TypeExpr, param bool) {
	ts := t.ts
	switch te.Kind {
	case parse.NamedType:
		name := te.Name
		if mapped, ok := typeNames[name]; ok {
			name = mapped
		}
		switch name {
		case "Any", "DataFrame":
			t.fail(te, UnsupportedConstruct, "type %s has no Rust equivalent", te.Name)
		}
		if collectionTypes[name] {
			ts.path("std", "collections", name)
		} else {
			ts.word(name)
		}
		args := te.Args
		if name == "HashMap" && te.Name != "HashMap" && len(args) == 0 {
			ts.push(GenericOpen, "<")
			ts.word("String")
			ts.punct(",")
			ts.word("i64")
			ts.push(GenericClose, ">")
			return
		}
		if len(args) > 0 {
			ts.push(GenericOpen, "<")
			for i, a := range args {
				if i > 0 {
					ts.punct(",")
				}
				t.typeExpr(a, false)
			}
			ts.push(GenericClose, ">")
		}
	case parse.TupleType:
		ts.punct("(")
		for i, a := range te.Args {
			if i > 0 {
				ts.punct(",")
			}
			t.typeExpr(a, false)
		}
		if len(te.Args) == 1 {
			ts.punct(",")
		}
		ts.punct(")")
	case parse.FunctionType:
		if param {
			ts.words("impl", "Fn")
		} else {
			ts.word("fn")
		}
		ts.punct("(")
		for i, a := range te.Args {
			if i > 0 {
				ts.punct(",")
			}
			t.typeExpr(a, false)
		}
		ts.punct(")")
		if te.Ret != nil && !isUnitType(te.Ret) {
			ts.punct("->")
			t.typeExpr(te.Ret, false)
		}
	case parse.ListType:
		ts.word("Vec")
		ts.push(GenericOpen, "<")
		t.typeExpr(te.Args[0], false)
		ts.push(GenericClose, ">")
	case parse.ArrayType:
		ts.punct("[")
		t.typeExpr(te.Args[0], false)
		ts.punct(";")
		ts.lit(strconv.FormatInt(te.Size, 10))
		ts.punct("]")
	case parse.OptionalType:
		ts.word("Option")
		ts.push(GenericOpen, "<")
		t.typeExpr(te.Args[0], false)
		ts.push(GenericClose, ">")
	case parse.ReferenceType:
		ts.prefix("&")
		if te.Mutable {
			ts.word("mut")
		}
		t.typeExpr(te.Args[0], param)
	default:
		ts.word("_")
	}
}

func isUnitType(te *parse.TypeExpr) bool {
	return te.Kind == parse.TupleType && len(te.Args) == 0
}

// concrete reports whether an inferred type can be written in Rust.
func concrete(ty types.Type, param bool) bool {
	switch ty := ty.(type) {
	case types.Prim:
		return true
	case types.List:
		return concrete(ty.Elem, false)
	case types.Optional:
		return concrete(ty.Elem, false)
	case types.Result:
		return concrete(ty.Ok, false) && concrete(ty.Err, false)
	case types.Reference:
		return concrete(ty.Elem, param)
	case types.Tuple:
		for _, e := range ty.Elems {
			if !concrete(e, false) {
				return false
			}
		}
		return true
	case types.Function:
		if !param {
			return false
		}
		for _, p := range ty.Params {
			if !concrete(p, false) {
				return false
			}
		}
		return concrete(ty.Ret, false)
	case types.Named:
		switch ty.Name {
		case "Object", "Set", "Atom", "DataFrame", "ActorHandle", "Supervisor", "Future":
			return false
		}
		for _, a := range ty.Args {
			if !concrete(a, false) {
				return false
			}
		}
		return true
	}
	return false
}

// monoType lowers an inferred type, which must be concrete.
func (t *Transpiler) monoType(ty types.Type) {
	ts := t.ts
	switch ty := ty.(type) {
	case types.Prim:
		switch ty.Kind {
		case types.IntKind:
			ts.word("i64")
		case types.FloatKind:
			ts.word("f64")
		case types.StringKind:
			ts.word("String")
		case types.BoolKind:
			ts.word("bool")
		case types.CharKind:
			ts.word("char")
		default:
			ts.punct("(", ")")
		}
	case types.List:
		t.generic("Vec", ty.Elem)
	case types.Optional:
		t.generic("Option", ty.Elem)
	case types.Result:
		t.generic("Result", ty.Ok, ty.Err)
	case types.Reference:
		ts.prefix("&")
		if ty.Mutable {
			ts.word("mut")
		}
		t.monoType(ty.Elem)
	case types.Tuple:
		ts.punct("(")
		for i, e := range ty.Elems {
			if i > 0 {
				ts.punct(",")
			}
			t.monoType(e)
		}
		if len(ty.Elems) == 1 {
			ts.punct(",")
		}
		ts.punct(")")
	case types.Function:
		ts.words("impl", "Fn")
		ts.punct("(")
		for i, p := range ty.Params {
			if i > 0 {
				ts.punct(",")
			}
			t.monoType(p)
		}
		ts.punct(")")
		if ty.Ret != types.Unit {
			ts.punct("->")
			t.monoType(ty.Ret)
		}
	case types.Named:
		t.generic(ty.Name, ty.Args...)
	}
}

func (t *Transpiler) generic(name string, args ...types.Type) {
	t.ts.word(name)
	if len(args) == 0 {
		return
	}
	t.ts.push(GenericOpen, "<")
	for i, a := range args {
		if i > 0 {
			t.ts.punct(",")
		}
		t.monoType(a)
	}
	t.ts.push(GenericClose, ">")
}

// typeParams lowers generic parameters with their bounds.
func (t *Transpiler) typeParams(tps []parse.TypeParam) {
	if len(tps) == 0 {
		return
	}
	t.ts.push(GenericOpen, "<")
	for i, tp := range tps {
		if i > 0 {
			t.ts.punct(",")
		}
		t.ts.word(tp.Name)
		for j, b := range tp.Bounds {
			if j == 0 {
				t.ts.punct(":")
			} else {
				t.ts.punct("+")
			}
			t.ts.word(b)
		}
	}
	t.ts.push(GenericClose, ">")
}

// typeArgs lowers the type parameters of a declaration used as arguments,
// as in impl<T> Stack<T>.
func (t *Transpiler) typeArgs(tps []parse.TypeParam) {
	if len(tps) == 0 {
		return
	}
	t.ts.push(GenericOpen, "<")
	for i, tp := range tps {
		if i > 0 {
			t.ts.punct(",")
		}
		t.ts.word(tp.Name)
	}
	t.ts.push(GenericClose, ">")
}
