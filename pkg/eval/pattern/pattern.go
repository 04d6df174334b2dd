// Package pattern matches destructuring patterns against runtime values.
//
// Matching never fails loudly: a pattern that does not fit a value reports no
// match, and the caller decides whether to try the next arm or raise an
// error.
package pattern

import (
	"math"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Epsilon is the tolerance for matching float literals: a float value matches
// a float literal when they differ by less than Epsilon.
const Epsilon = 0x1p-52

// Binding is a name bound by a successful match.
type Binding struct {
	Name    string
	Value   any
	Mutable bool
}

// Bindings is an ordered list of bindings, in the order the binders appear in
// the pattern.
type Bindings []Binding

// Lookup returns the value bound to name.
func (bs Bindings) Lookup(name string) (any, bool) {
	for _, b := range bs {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

// Matcher matches patterns against values.
type Matcher struct {
	// Default evaluates the default expression of a field pattern like
	// {x = 0} when the destructured value lacks the field. When nil, a missing
	// field fails the match.
	Default func(*parse.Expr) (any, error)
}

// Match matches p against v with the zero Matcher.
func Match(p parse.Pattern, v any) (Bindings, bool) {
	bs, ok, _ := Matcher{}.Match(p, v)
	return bs, ok
}

// Match matches p against v. It returns the bindings and true on success. The
// error is non-nil only when evaluating a field default fails.
func (m Matcher) Match(p parse.Pattern, v any) (Bindings, bool, error) {
	s := &state{m: m}
	ok := s.match(p, v, false)
	if s.err != nil {
		return nil, false, s.err
	}
	if !ok {
		return nil, false, nil
	}
	if s.bs == nil {
		s.bs = Bindings{}
	}
	return s.bs, true, nil
}

type state struct {
	m   Matcher
	bs  Bindings
	err error
}

func (s *state) bind(name string, v any, mutable bool) {
	s.bs = append(s.bs, Binding{name, v, mutable})
}

func (s *state) match(p parse.Pattern, v any, mutable bool) bool {
	if s.err != nil {
		return false
	}
	switch p := p.(type) {
	case *parse.WildcardPattern:
		return true
	case *parse.IdentPattern:
		s.bind(p.Name, v, mutable)
		return true
	case *parse.MutPattern:
		return s.match(p.Inner, v, true)
	case *parse.AtPattern:
		s.bind(p.Name, v, mutable)
		return s.match(p.Inner, v, mutable)
	case *parse.WithDefaultPattern:
		return s.match(p.Inner, v, mutable)
	case *parse.LiteralPattern:
		lit, ok := LiteralValue(p.Value)
		return ok && literalMatches(lit, v)
	case *parse.RangePattern:
		return rangeMatches(p, v)
	case *parse.TuplePattern:
		return s.matchSeq(p.Elems, v, mutable)
	case *parse.ListPattern:
		return s.matchSeq(p.Elems, v, mutable)
	case *parse.OrPattern:
		for _, alt := range p.Alts {
			saved := len(s.bs)
			if s.match(alt, v, mutable) {
				return true
			}
			if s.err != nil {
				return false
			}
			s.bs = s.bs[:saved]
		}
		return false
	case *parse.SomePattern:
		isSome, payload, ok := vals.OptionOf(v)
		return ok && isSome && s.match(p.Inner, payload, mutable)
	case *parse.NonePattern:
		isSome, _, ok := vals.OptionOf(v)
		return (ok && !isSome) || v == nil
	case *parse.OkPattern:
		isOk, payload, ok := vals.ResultOf(v)
		return ok && isOk && s.match(p.Inner, payload, mutable)
	case *parse.ErrPattern:
		isOk, payload, ok := vals.ResultOf(v)
		return ok && !isOk && s.match(p.Inner, payload, mutable)
	case *parse.QualifiedNamePattern:
		return constructorMatches(p.Path, v)
	case *parse.TupleVariantPattern:
		return s.matchTupleVariant(p, v, mutable)
	case *parse.StructPattern:
		return s.matchStruct(p, v, mutable)
	}
	// Rest patterns outside of a sequence pattern.
	return false
}

// matchSeq implements tuple and list patterns, with at most one rest element.
func (s *state) matchSeq(ps []parse.Pattern, v any, mutable bool) bool {
	var elems []any
	isTuple := false
	switch v := v.(type) {
	case vals.List:
		elems = vals.ListToSlice(v)
	case vals.Tuple:
		elems, isTuple = v, true
	default:
		return false
	}
	return s.matchElems(ps, elems, isTuple, mutable)
}

func (s *state) matchElems(ps []parse.Pattern, elems []any, isTuple, mutable bool) bool {
	rest := -1
	for i, p := range ps {
		switch p.(type) {
		case *parse.RestPattern, *parse.RestNamedPattern:
			if rest >= 0 {
				return false
			}
			rest = i
		}
	}
	if rest < 0 {
		if len(ps) != len(elems) {
			return false
		}
		for i, p := range ps {
			if !s.match(p, elems[i], mutable) {
				return false
			}
		}
		return true
	}
	after := len(ps) - rest - 1
	if len(elems) < rest+after {
		return false
	}
	for i := 0; i < rest; i++ {
		if !s.match(ps[i], elems[i], mutable) {
			return false
		}
	}
	middle := elems[rest : len(elems)-after]
	if named, ok := ps[rest].(*parse.RestNamedPattern); ok {
		if isTuple {
			s.bind(named.Name, vals.Tuple(append([]any(nil), middle...)), mutable)
		} else {
			s.bind(named.Name, vals.MakeList(middle...), mutable)
		}
	}
	for i := 0; i < after; i++ {
		if !s.match(ps[rest+1+i], elems[len(elems)-after+i], mutable) {
			return false
		}
	}
	return true
}

func (s *state) matchTupleVariant(p *parse.TupleVariantPattern, v any, mutable bool) bool {
	switch v := v.(type) {
	case vals.EnumVariant:
		if !variantMatches(p.Path, v) || v.FieldNames != nil {
			return false
		}
		return s.matchElems(p.Elems, v.Data, true, mutable)
	case vals.Struct:
		// Tuple structs have fields named "0", "1", ...
		if v.Name != p.Path[len(p.Path)-1] {
			return false
		}
		elems := make([]any, 0, v.Len())
		for i := 0; ; i++ {
			f, ok := v.Get(strconv.Itoa(i))
			if !ok {
				break
			}
			elems = append(elems, f)
		}
		return s.matchElems(p.Elems, elems, true, mutable)
	}
	return false
}

func (s *state) matchStruct(p *parse.StructPattern, v any, mutable bool) bool {
	var get func(string) (any, bool)
	path := splitPath(p.Name)
	switch v := v.(type) {
	case vals.Object:
		if p.Name != "" {
			return false
		}
		get = v.Get
	case *vals.ObjectMut:
		if p.Name != "" {
			return false
		}
		get = v.Get
	case vals.Struct:
		if p.Name != "" && path[len(path)-1] != v.Name {
			return false
		}
		get = v.Get
	case *vals.Instance:
		if p.Name != "" && path[len(path)-1] != v.Class {
			return false
		}
		get = v.Get
	case vals.EnumVariant:
		if p.Name == "" || v.FieldNames == nil || !variantMatches(path, v) {
			return false
		}
		get = v.Field
	default:
		return false
	}
	for _, f := range p.Fields {
		fv, ok := get(f.Name)
		if !ok {
			def, isDefault := f.Pattern.(*parse.WithDefaultPattern)
			if !isDefault || s.m.Default == nil {
				return false
			}
			fv, s.err = s.m.Default(def.Default)
			if s.err != nil {
				return false
			}
		}
		if f.Pattern == nil {
			s.bind(f.Name, fv, mutable)
		} else if !s.match(f.Pattern, fv, mutable) {
			return false
		}
	}
	return true
}

// variantMatches reports whether an enum variant matches a constructor path:
// the last element names the variant and the one before it, if any, the enum.
func variantMatches(path []string, v vals.EnumVariant) bool {
	if path[len(path)-1] != v.Variant {
		return false
	}
	return len(path) < 2 || path[len(path)-2] == v.Enum
}

// constructorMatches implements patterns like Color::Red or Red, which match
// unit enum variants and unit structs.
func constructorMatches(path []string, v any) bool {
	switch v := v.(type) {
	case vals.EnumVariant:
		return v.Data == nil && v.FieldNames == nil && variantMatches(path, v)
	case vals.Struct:
		return v.Len() == 0 && v.Name == path[len(path)-1]
	case vals.Atom:
		return len(path) == 1 && string(v) == path[0]
	}
	return false
}

func splitPath(name string) []string {
	if name == "" {
		return []string{""}
	}
	return strings.Split(name, "::")
}

// LiteralValue returns the value of a literal expression as used in literal
// and range patterns. Char literals evaluate to one-character strings.
func LiteralValue(e *parse.Expr) (any, bool) {
	switch n := e.Kind.(type) {
	case *parse.IntLit:
		return n.Value, true
	case *parse.FloatLit:
		return n.Value, true
	case *parse.StringLit:
		return n.Value, true
	case *parse.CharLit:
		return string(n.Value), true
	case *parse.BoolLit:
		return n.Value, true
	case *parse.UnitLit, *parse.NullLit:
		return nil, true
	case *parse.AtomLit:
		return vals.Atom(n.Name), true
	case *parse.Unary:
		if n.Op != parse.OpNeg {
			return nil, false
		}
		switch inner := n.Operand.Kind.(type) {
		case *parse.IntLit:
			return -inner.Value, true
		case *parse.FloatLit:
			return -inner.Value, true
		}
	}
	return nil, false
}

func literalMatches(lit, v any) bool {
	if lit, ok := lit.(float64); ok {
		f, isFloat := v.(float64)
		return isFloat && math.Abs(lit-f) < Epsilon
	}
	return vals.Equal(lit, v)
}

func rangeMatches(p *parse.RangePattern, v any) bool {
	lo, ok1 := LiteralValue(p.Start)
	hi, ok2 := LiteralValue(p.End)
	if !ok1 || !ok2 {
		return false
	}
	x, okx := ordinal(v)
	a, oka := ordinal(lo)
	b, okb := ordinal(hi)
	if !okx || !oka || !okb {
		return false
	}
	if _, isInt := v.(int64); isInt != isIntValue(lo) {
		return false
	}
	if p.Inclusive {
		return a <= x && x <= b
	}
	return a <= x && x < b
}

// ordinal returns the integer used to compare integers and characters in
// range patterns.
func ordinal(v any) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case string:
		runes := []rune(v)
		if len(runes) == 1 {
			return int64(runes[0]), true
		}
	}
	return 0, false
}

func isIntValue(v any) bool {
	_, ok := v.(int64)
	return ok
}
