package types

import (
	"sort"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// bindPattern unifies a pattern with the type of the value it matches and
// binds its names in the current scope.
func (c *Context) bindPattern(p parse.Pattern, t Type, mutable bool) {
	switch p := p.(type) {
	case nil, *parse.WildcardPattern, *parse.RestPattern:
	case *parse.IdentPattern:
		c.bindMono(p.Name, t)
	case *parse.MutPattern:
		c.bindPattern(p.Inner, t, true)
	case *parse.AtPattern:
		c.bindMono(p.Name, t)
		c.bindPattern(p.Inner, t, mutable)
	case *parse.LiteralPattern:
		c.unifyNumeric(p.Value, t, c.infer(p.Value))
	case *parse.RangePattern:
		for _, bound := range []*parse.Expr{p.Start, p.End} {
			if bound != nil {
				c.unifyNumeric(bound, t, c.infer(bound))
			}
		}
	case *parse.TuplePattern:
		c.bindTuplePattern(p, t, mutable)
	case *parse.ListPattern:
		elem := c.fresh()
		c.unifyAt(p, t, List{elem})
		for _, e := range p.Elems {
			if rest, ok := e.(*parse.RestNamedPattern); ok {
				c.bindMono(rest.Name, List{elem})
				continue
			}
			c.bindPattern(e, elem, mutable)
		}
	case *parse.RestNamedPattern:
		c.bindMono(p.Name, t)
	case *parse.StructPattern:
		c.bindStructPattern(p, t, mutable)
	case *parse.OrPattern:
		c.bindOrPattern(p, t, mutable)
	case *parse.SomePattern:
		inner := c.fresh()
		c.unifyAt(p, t, Optional{inner})
		c.bindPattern(p.Inner, inner, mutable)
	case *parse.NonePattern:
		c.unifyAt(p, t, Optional{c.fresh()})
	case *parse.OkPattern:
		ok := c.fresh()
		c.unifyAt(p, t, Result{ok, c.fresh()})
		c.bindPattern(p.Inner, ok, mutable)
	case *parse.ErrPattern:
		err := c.fresh()
		c.unifyAt(p, t, Result{c.fresh(), err})
		c.bindPattern(p.Inner, err, mutable)
	case *parse.TupleVariantPattern:
		c.bindVariantPattern(p, t, mutable)
	case *parse.WithDefaultPattern:
		c.bindPattern(p.Inner, t, mutable)
		if p.Default != nil {
			c.unifyNumeric(p.Default, t, c.infer(p.Default))
		}
	case *parse.QualifiedNamePattern:
		if enum, ok := c.enumOfPath(p.Path); ok {
			d := c.types.defs[enum]
			et, _ := c.instanceOf(d, t)
			c.unifyAt(p, t, et)
		}
	}
}

// unifyAt is unify with a pattern as the culprit.
func (c *Context) unifyAt(p parse.Pattern, a, b Type) {
	if err := c.subst.Unify(a, b); err != nil {
		ue := err.(*UnifyError)
		c.errorf(p, ue.Kind, "pattern does not fit: %s", ue.Error())
	}
}

func (c *Context) bindTuplePattern(p *parse.TuplePattern, t Type, mutable bool) {
	rest := -1
	for i, e := range p.Elems {
		switch e.(type) {
		case *parse.RestPattern, *parse.RestNamedPattern:
			rest = i
		}
	}
	if rest < 0 {
		elems := make([]Type, len(p.Elems))
		for i := range elems {
			elems[i] = c.fresh()
		}
		c.unifyAt(p, t, Tuple{elems})
		for i, e := range p.Elems {
			c.bindPattern(e, elems[i], mutable)
		}
		return
	}
	tt, ok := c.subst.Resolve(t).(Tuple)
	for i, e := range p.Elems {
		if i == rest {
			if named, ok := e.(*parse.RestNamedPattern); ok {
				c.bindMono(named.Name, c.fresh())
			}
			continue
		}
		var et Type = c.fresh()
		if ok {
			k := i
			if i > rest {
				k = len(tt.Elems) - (len(p.Elems) - i)
			}
			if k >= 0 && k < len(tt.Elems) {
				et = tt.Elems[k]
			}
		}
		c.bindPattern(e, et, mutable)
	}
}

func (c *Context) bindStructPattern(p *parse.StructPattern, t Type, mutable bool) {
	var fields map[string]*parse.TypeExpr
	var params map[string]Type
	switch {
	case p.Name == "":
	case strings.Contains(p.Name, "::"):
		i := strings.LastIndex(p.Name, "::")
		if d, ok := c.types.defs[p.Name[:i]]; ok && d.variant[p.Name[i+2:]] != nil {
			var et Type
			et, params = c.instanceOf(d, t)
			c.unifyAt(p, t, et)
			fields = map[string]*parse.TypeExpr{}
			for _, f := range d.variant[p.Name[i+2:]].StructFields {
				fields[f.Name] = f.Type
			}
		}
	default:
		if d, ok := c.types.defs[p.Name]; ok {
			var st Type
			st, params = c.instanceOf(d, t)
			c.unifyAt(p, t, st)
			fields = c.types.allFields(d)
		}
	}
	for _, f := range p.Fields {
		var ft Type = c.fresh()
		if fields != nil {
			te, ok := fields[f.Name]
			if !ok {
				c.errorf(p, UnknownField, "%s has no field %s", p.Name, f.Name)
			} else {
				ft = c.typeFromAnnot(te, params)
			}
		}
		if f.Pattern == nil {
			c.bindMono(f.Name, ft)
		} else {
			c.bindPattern(f.Pattern, ft, mutable)
		}
	}
}

// bindOrPattern checks that every alternative binds the same names to the
// same types, and binds the names of the first alternative.
func (c *Context) bindOrPattern(p *parse.OrPattern, t Type, mutable bool) {
	if len(p.Alts) == 0 {
		return
	}
	bound := make([]map[string]*Scheme, len(p.Alts))
	for i, alt := range p.Alts {
		c.push()
		c.bindPattern(alt, t, mutable)
		bound[i] = c.scope.names
		c.pop()
	}
	first := bound[0]
	for i, names := range bound[1:] {
		alt := p.Alts[i+1]
		if missing := missingNames(first, names); len(missing) > 0 {
			c.errorf(alt, OrPatternBinders, "alternative does not bind %s", strings.Join(missing, ", "))
		}
		if extra := missingNames(names, first); len(extra) > 0 {
			c.errorf(alt, OrPatternBinders, "alternative binds %s, which the first one does not",
				strings.Join(extra, ", "))
		}
		for name, sc := range names {
			if f, ok := first[name]; ok {
				c.unifyAt(alt, sc.Type, f.Type)
			}
		}
	}
	for name, sc := range first {
		c.scope.names[name] = sc
	}
}

// missingNames returns the names in want that are not in got, sorted.
func missingNames(want, got map[string]*Scheme) []string {
	var missing []string
	for name := range want {
		if _, ok := got[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func (c *Context) bindVariantPattern(p *parse.TupleVariantPattern, t Type, mutable bool) {
	enum, ok := c.enumOfPath(p.Path)
	if !ok {
		for _, e := range p.Elems {
			c.bindPattern(e, c.fresh(), mutable)
		}
		return
	}
	d := c.types.defs[enum]
	et, params := c.instanceOf(d, t)
	c.unifyAt(p, t, et)
	v := d.variant[p.Path[len(p.Path)-1]]
	for i, e := range p.Elems {
		var ft Type = c.fresh()
		if i < len(v.Fields) {
			ft = c.typeFromAnnot(v.Fields[i], params)
		}
		c.bindPattern(e, ft, mutable)
	}
}

// enumOfPath finds the enum that declares the variant named by path, which
// is either Enum::Variant or a bare variant name.
func (c *Context) enumOfPath(path []string) (string, bool) {
	variant := path[len(path)-1]
	if len(path) >= 2 {
		if d, ok := c.types.defs[path[len(path)-2]]; ok && d.variant[variant] != nil {
			return d.name, true
		}
		return "", false
	}
	enum, ok := c.types.variants[variant]
	return enum, ok
}
