package parse

import (
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// TypeExprKind is the kind of a TypeExpr.
type TypeExprKind int

const (
	// Name with optional Args, like i32, String or Vec<T>.
	NamedType TypeExprKind = iota
	// (A, B); the unit type () is a TupleType with no Args.
	TupleType
	// fn(A, B) -> R, or (A, B) -> R; Args are the parameters.
	FunctionType
	// [T]
	ListType
	// [T; N]
	ArrayType
	// T?
	OptionalType
	// &T or &mut T
	ReferenceType
	// _
	InferType
)

// TypeExpr is a type annotation as written in the source.
type TypeExpr struct {
	Kind    TypeExprKind
	Name    string
	Args    []*TypeExpr
	Ret     *TypeExpr
	Size    int64
	Mutable bool
	diag.Ranging
}

// String returns the type in source syntax.
func (t *TypeExpr) String() string {
	if t == nil {
		return "_"
	}
	switch t.Kind {
	case NamedType:
		if len(t.Args) == 0 {
			return t.Name
		}
		return t.Name + "<" + joinTypes(t.Args) + ">"
	case TupleType:
		if len(t.Args) == 1 {
			return "(" + t.Args[0].String() + ",)"
		}
		return "(" + joinTypes(t.Args) + ")"
	case FunctionType:
		return "fn(" + joinTypes(t.Args) + ") -> " + t.Ret.String()
	case ListType:
		return "[" + t.Args[0].String() + "]"
	case ArrayType:
		return "[" + t.Args[0].String() + "; " + strconv.FormatInt(t.Size, 10) + "]"
	case OptionalType:
		return t.Args[0].String() + "?"
	case ReferenceType:
		if t.Mutable {
			return "&mut " + t.Args[0].String()
		}
		return "&" + t.Args[0].String()
	}
	return "_"
}

func joinTypes(ts []*TypeExpr) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
