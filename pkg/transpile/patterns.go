package transpile

import (
	"strings"
	"unicode"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (t *Transpiler) pattern(p parse.Pattern) { t.pat(p, false) }

// bindingPattern lowers the pattern of a let; mutable marks every name it
// binds as mut.
func (t *Transpiler) bindingPattern(p parse.Pattern, mutable bool) { t.pat(p, mutable) }

func (t *Transpiler) pat(p parse.Pattern, mutable bool) {
	ts := t.ts
	switch p := p.(type) {
	case *parse.WildcardPattern:
		ts.word("_")
	case *parse.IdentPattern:
		if mutable {
			ts.word("mut")
		}
		ts.word(p.Name)
	case *parse.MutPattern:
		t.pat(p.Inner, true)
	case *parse.LiteralPattern:
		t.literalPattern(p.Value)
	case *parse.TuplePattern:
		ts.punct("(")
		t.pats(p.Elems, mutable, false)
		if len(p.Elems) == 1 {
			ts.punct(",")
		}
		ts.punct(")")
	case *parse.ListPattern:
		ts.punct("[")
		t.pats(p.Elems, mutable, true)
		ts.punct("]")
	case *parse.StructPattern:
		if p.Name == "" {
			t.fail(p, UnsupportedConstruct, "anonymous struct pattern")
		}
		t.patternPath(strings.Split(p.Name, "::"))
		ts.punct("{")
		for i, f := range p.Fields {
			if i > 0 {
				ts.punct(",")
			}
			if f.Pattern == nil {
				if mutable {
					ts.word("mut")
				}
				ts.word(f.Name)
				continue
			}
			ts.word(f.Name)
			ts.punct(":")
			t.pat(f.Pattern, mutable)
		}
		if p.HasRest {
			if len(p.Fields) > 0 {
				ts.punct(",")
			}
			ts.punct("..")
		}
		ts.punct("}")
	case *parse.OrPattern:
		for i, alt := range p.Alts {
			if i > 0 {
				ts.punct("|")
			}
			t.pat(alt, mutable)
		}
	case *parse.RangePattern:
		t.literalPattern(p.Start)
		if p.Inclusive {
			ts.punct("..=")
		} else {
			ts.punct("..")
		}
		t.literalPattern(p.End)
	case *parse.RestPattern:
		ts.punct("..")
	case *parse.RestNamedPattern:
		t.fail(p, UnsupportedConstruct, "named rest pattern outside a list pattern")
	case *parse.SomePattern:
		t.variantPattern("Some", p.Inner, mutable)
	case *parse.OkPattern:
		t.variantPattern("Ok", p.Inner, mutable)
	case *parse.ErrPattern:
		t.variantPattern("Err", p.Inner, mutable)
	case *parse.NonePattern:
		ts.word("None")
	case *parse.TupleVariantPattern:
		t.patternPath(p.Path)
		ts.punct("(")
		t.pats(p.Elems, mutable, false)
		ts.punct(")")
	case *parse.AtPattern:
		if mutable {
			ts.word("mut")
		}
		ts.word(p.Name)
		ts.punct("@")
		t.pat(p.Inner, false)
	case *parse.WithDefaultPattern:
		t.fail(p, UnsupportedConstruct, "pattern with a default value")
	case *parse.QualifiedNamePattern:
		t.patternPath(p.Path)
	default:
		t.fail(p, UnsupportedConstruct, "pattern cannot be transpiled")
	}
}

// pats lowers the elements of a tuple or list pattern. Named rests are only
// expressible in slice patterns, as name @ ...
func (t *Transpiler) pats(elems []parse.Pattern, mutable, slice bool) {
	for i, el := range elems {
		if i > 0 {
			t.ts.punct(",")
		}
		if rn, ok := el.(*parse.RestNamedPattern); ok && slice {
			t.ts.word(rn.Name)
			t.ts.punct("@", "..")
			continue
		}
		t.pat(el, mutable)
	}
}

func (t *Transpiler) variantPattern(ctor string, inner parse.Pattern, mutable bool) {
	t.ts.word(ctor)
	t.ts.punct("(")
	t.pat(inner, mutable)
	t.ts.punct(")")
}

// patternPath lowers the path of a constructor pattern. Inside actor
// handlers, bare names refer to variants of the message enum.
func (t *Transpiler) patternPath(path []string) {
	if len(path) == 1 && t.msgEnum != "" && startsUpper(path[0]) {
		t.ts.path(t.msgEnum, path[0])
		return
	}
	t.ts.path(path...)
}

func (t *Transpiler) literalPattern(e *parse.Expr) {
	switch n := e.Kind.(type) {
	case *parse.StringLit:
		t.ts.lit(quoteString(n.Value))
	case *parse.Unary:
		if n.Op == parse.OpNeg {
			t.ts.prefix("-")
			t.literalPattern(n.Operand)
			return
		}
		t.fail(e, UnsupportedConstruct, "pattern cannot be transpiled")
	default:
		t.exprNode(e)
	}
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
