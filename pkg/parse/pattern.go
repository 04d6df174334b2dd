package parse

import "github.com/paiml/ruchy-sub012/pkg/diag"

// Pattern is a destructuring pattern, used in match arms, let, if let, while
// let, for-loop headers, catch clauses and parameters.
type Pattern interface {
	diag.Ranger
	pattern()
}

type WildcardPattern struct{ diag.Ranging }

type IdentPattern struct {
	Name string
	diag.Ranging
}

// LiteralPattern matches a value equal to a literal. Value is an Expr whose
// Kind is one of the literal kinds, or a negated numeric literal.
type LiteralPattern struct {
	Value *Expr
	diag.Ranging
}

type TuplePattern struct {
	Elems []Pattern
	diag.Ranging
}

type ListPattern struct {
	Elems []Pattern
	diag.Ranging
}

// FieldPattern is a field of a struct pattern. Pattern is nil for the
// shorthand {x}, which binds the field to a variable of the same name.
type FieldPattern struct {
	Name    string
	Pattern Pattern
}

type StructPattern struct {
	// Empty for anonymous object patterns like {x, y}.
	Name    string
	Fields  []FieldPattern
	HasRest bool
	diag.Ranging
}

type OrPattern struct {
	Alts []Pattern
	diag.Ranging
}

// RangePattern matches an integer or char within bounds. Start and End are
// literal expressions.
type RangePattern struct {
	Start, End *Expr
	Inclusive  bool
	diag.Ranging
}

// RestPattern is ".." inside a tuple or list pattern.
type RestPattern struct{ diag.Ranging }

// RestNamedPattern is "..name" inside a tuple or list pattern.
type RestNamedPattern struct {
	Name string
	diag.Ranging
}

type SomePattern struct {
	Inner Pattern
	diag.Ranging
}

type NonePattern struct{ diag.Ranging }

type OkPattern struct {
	Inner Pattern
	diag.Ranging
}

type ErrPattern struct {
	Inner Pattern
	diag.Ranging
}

// TupleVariantPattern is Path(p1, p2, ...), like Shape::Circle(r) or Add(n).
type TupleVariantPattern struct {
	Path  []string
	Elems []Pattern
	diag.Ranging
}

// AtPattern is name @ pattern.
type AtPattern struct {
	Name  string
	Inner Pattern
	diag.Ranging
}

// WithDefaultPattern is pattern = default, used for struct fields that may be
// missing from the destructured value.
type WithDefaultPattern struct {
	Inner   Pattern
	Default *Expr
	diag.Ranging
}

type MutPattern struct {
	Inner Pattern
	diag.Ranging
}

// QualifiedNamePattern is a path like Color::Red, or a capitalized bare name
// like Red; it matches unit enum variants and unit structs.
type QualifiedNamePattern struct {
	Path []string
	diag.Ranging
}

func (*WildcardPattern) pattern()      {}
func (*IdentPattern) pattern()         {}
func (*LiteralPattern) pattern()       {}
func (*TuplePattern) pattern()         {}
func (*ListPattern) pattern()          {}
func (*StructPattern) pattern()        {}
func (*OrPattern) pattern()            {}
func (*RangePattern) pattern()         {}
func (*RestPattern) pattern()          {}
func (*RestNamedPattern) pattern()     {}
func (*SomePattern) pattern()          {}
func (*NonePattern) pattern()          {}
func (*OkPattern) pattern()            {}
func (*ErrPattern) pattern()           {}
func (*TupleVariantPattern) pattern()  {}
func (*AtPattern) pattern()            {}
func (*WithDefaultPattern) pattern()   {}
func (*MutPattern) pattern()           {}
func (*QualifiedNamePattern) pattern() {}

// Binding is a name bound by a pattern.
type Binding struct {
	Name    string
	Mutable bool
}

// Binders returns the names a pattern binds, in source order. For an Or
// pattern only the first alternative is consulted.
func Binders(p Pattern) []Binding {
	var bs []Binding
	var walk func(p Pattern, mutable bool)
	walk = func(p Pattern, mutable bool) {
		switch p := p.(type) {
		case *IdentPattern:
			bs = append(bs, Binding{p.Name, mutable})
		case *RestNamedPattern:
			bs = append(bs, Binding{p.Name, mutable})
		case *TuplePattern:
			for _, e := range p.Elems {
				walk(e, mutable)
			}
		case *ListPattern:
			for _, e := range p.Elems {
				walk(e, mutable)
			}
		case *StructPattern:
			for _, f := range p.Fields {
				if f.Pattern == nil {
					bs = append(bs, Binding{f.Name, mutable})
				} else {
					walk(f.Pattern, mutable)
				}
			}
		case *OrPattern:
			if len(p.Alts) > 0 {
				walk(p.Alts[0], mutable)
			}
		case *SomePattern:
			walk(p.Inner, mutable)
		case *OkPattern:
			walk(p.Inner, mutable)
		case *ErrPattern:
			walk(p.Inner, mutable)
		case *TupleVariantPattern:
			for _, e := range p.Elems {
				walk(e, mutable)
			}
		case *AtPattern:
			bs = append(bs, Binding{p.Name, mutable})
			walk(p.Inner, mutable)
		case *WithDefaultPattern:
			walk(p.Inner, mutable)
		case *MutPattern:
			walk(p.Inner, true)
		}
	}
	walk(p, false)
	return bs
}

// IsIrrefutable reports whether p matches every value.
func IsIrrefutable(p Pattern) bool {
	switch p := p.(type) {
	case *WildcardPattern, *IdentPattern:
		return true
	case *MutPattern:
		return IsIrrefutable(p.Inner)
	case *AtPattern:
		return IsIrrefutable(p.Inner)
	}
	return false
}
