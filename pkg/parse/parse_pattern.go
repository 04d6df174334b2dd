package parse

import (
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// parsePattern parses a pattern, including or-patterns unless they are
// disabled.
func (p *Parser) parsePattern() Pattern {
	from := p.tok().From
	first := p.parsePatternPrimary()
	if p.noOrPattern || !p.atPunct("|") {
		return first
	}
	alts := []Pattern{first}
	for p.acceptPunct("|") {
		alts = append(alts, p.parsePatternPrimary())
	}
	return &OrPattern{alts, p.rangeFrom(from)}
}

func (p *Parser) parsePatternPrimary() Pattern {
	tok := p.tok()
	from := tok.From
	switch tok.Kind {
	case Int, Float, String, Char, Atom:
		return p.parseLiteralPattern()
	case Keyword:
		switch tok.Text {
		case "true", "false", "null", "nil":
			return p.parseLiteralPattern()
		case "mut":
			p.next()
			inner := p.parsePatternPrimary()
			return &MutPattern{inner, p.rangeFrom(from)}
		case "None":
			p.next()
			return &NonePattern{tok.Ranging}
		case "Some", "Ok", "Err":
			p.next()
			p.expectPunct("(")
			inner := p.parsePattern()
			p.expectPunct(")")
			r := p.rangeFrom(from)
			switch tok.Text {
			case "Some":
				return &SomePattern{inner, r}
			case "Ok":
				return &OkPattern{inner, r}
			default:
				return &ErrPattern{inner, r}
			}
		case "self":
			p.next()
			return &IdentPattern{"self", tok.Ranging}
		}
	case IdentToken:
		return p.parseNamedPattern()
	case Punct:
		switch tok.Text {
		case "-":
			return p.parseLiteralPattern()
		case "..":
			p.next()
			if p.tok().Kind == IdentToken && !p.tok().NewlineBefore && p.tok().From == tok.To {
				name := p.next()
				return &RestNamedPattern{name.Text, p.rangeFrom(from)}
			}
			return &RestPattern{tok.Ranging}
		case "&":
			p.next()
			p.acceptKeyword("mut")
			return p.parsePatternPrimary()
		case "(":
			p.next()
			if p.acceptPunct(")") {
				unit := &Expr{Kind: &UnitLit{}, Ranging: p.rangeFrom(from)}
				return &LiteralPattern{unit, unit.Ranging}
			}
			first := p.parsePattern()
			if p.acceptPunct(")") {
				return first
			}
			elems := []Pattern{first}
			for p.acceptPunct(",") && !p.atPunct(")") {
				elems = append(elems, p.parsePattern())
			}
			p.expectPunct(")")
			return &TuplePattern{elems, p.rangeFrom(from)}
		case "[":
			p.next()
			var elems []Pattern
			for !p.atPunct("]") {
				elems = append(elems, p.parsePattern())
				if !p.acceptPunct(",") {
					break
				}
			}
			p.expectPunct("]")
			return &ListPattern{elems, p.rangeFrom(from)}
		case "{":
			return p.parseStructPattern(from, "")
		}
	}
	p.fail(tok, ExpectedConstruct, "expected pattern, found %s", tok)
	return nil
}

func (p *Parser) parseNamedPattern() Pattern {
	tok := p.next()
	from := tok.From
	if tok.Text == "_" {
		return &WildcardPattern{tok.Ranging}
	}
	if p.atPunct("@") {
		p.next()
		inner := p.parsePatternPrimary()
		return &AtPattern{tok.Text, inner, p.rangeFrom(from)}
	}
	path := []string{tok.Text}
	for p.acceptPunct("::") {
		path = append(path, p.expectName("name after '::'"))
	}
	switch {
	case p.atPunct("(") && !p.tok().NewlineBefore:
		p.next()
		var elems []Pattern
		for !p.atPunct(")") {
			elems = append(elems, p.parsePattern())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
		return &TupleVariantPattern{path, elems, p.rangeFrom(from)}
	case p.atPunct("{") && !p.noStructLit:
		return p.parseStructPattern(from, strings.Join(path, "::"))
	case len(path) > 1 || isUpper(tok.Text):
		return &QualifiedNamePattern{path, p.rangeFrom(from)}
	}
	return &IdentPattern{tok.Text, tok.Ranging}
}

// parseStructPattern parses "{ field, field: pattern, field = default, .. }"
// at the opening brace.
func (p *Parser) parseStructPattern(from int, name string) Pattern {
	p.expectPunct("{")
	saved := p.noOrPattern
	p.noOrPattern = false
	defer func() { p.noOrPattern = saved }()
	sp := &StructPattern{Name: name}
	for !p.atPunct("}") {
		if p.acceptPunct("..") {
			sp.HasRest = true
			break
		}
		fieldTok := p.tok()
		field := FieldPattern{Name: p.expectName("field name")}
		if p.acceptPunct(":") {
			field.Pattern = p.parsePattern()
		}
		if p.acceptPunct("=") {
			inner := field.Pattern
			if inner == nil {
				inner = &IdentPattern{field.Name, fieldTok.Ranging}
			}
			def := p.parseExprPrec(precAssign + 1)
			field.Pattern = &WithDefaultPattern{inner, def, diag.MixedRanging(inner, def)}
		}
		sp.Fields = append(sp.Fields, field)
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	sp.Ranging = p.rangeFrom(from)
	return sp
}

// parseLiteralPattern parses a literal pattern, or a range pattern whose
// bounds are literals.
func (p *Parser) parseLiteralPattern() Pattern {
	from := p.tok().From
	start := p.parsePatternLiteral()
	if (p.atPunct("..") || p.atPunct("..=")) && p.startsPatternLiteral(1) {
		inclusive := p.next().Text == "..="
		end := p.parsePatternLiteral()
		return &RangePattern{start, end, inclusive, p.rangeFrom(from)}
	}
	return &LiteralPattern{start, start.Ranging}
}

func (p *Parser) startsPatternLiteral(n int) bool {
	switch tok := p.peek(n); tok.Kind {
	case Int, Float, Char, String:
		return true
	case Punct:
		return tok.Text == "-"
	}
	return false
}

func (p *Parser) parsePatternLiteral() *Expr {
	tok := p.tok()
	from := tok.From
	if tok.IsPunct("-") {
		p.next()
		num := p.tok()
		if num.Kind != Int && num.Kind != Float {
			p.fail(num, ExpectedConstruct, "expected number after '-' in pattern, found %s", num)
		}
		operand := p.parsePrimary()
		return p.newExpr(from, &Unary{OpNeg, operand})
	}
	switch tok.Kind {
	case Int, Float, String, Char, Atom:
		return p.parsePrimary()
	case Keyword:
		switch tok.Text {
		case "true", "false", "null", "nil":
			return p.parsePrimary()
		}
	}
	p.fail(tok, ExpectedConstruct, "expected literal, found %s", tok)
	return nil
}
