package parse

// parseType parses a type annotation.
func (p *Parser) parseType() *TypeExpr {
	tok := p.tok()
	from := tok.From
	var t *TypeExpr
	switch {
	case tok.IsPunct("&") || tok.IsPunct("&&"):
		p.next()
		mutable := p.acceptKeyword("mut")
		inner := p.parseType()
		t = &TypeExpr{Kind: ReferenceType, Args: []*TypeExpr{inner}, Mutable: mutable}
		if tok.IsPunct("&&") {
			t = &TypeExpr{Kind: ReferenceType, Args: []*TypeExpr{t}, Ranging: p.rangeFrom(from + 1)}
		}
	case tok.IsPunct("("):
		p.next()
		var elems []*TypeExpr
		for !p.atPunct(")") {
			elems = append(elems, p.parseType())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
		if p.acceptPunct("->") {
			t = &TypeExpr{Kind: FunctionType, Args: elems, Ret: p.parseType()}
		} else {
			t = &TypeExpr{Kind: TupleType, Args: elems}
		}
	case tok.IsPunct("["):
		p.next()
		elem := p.parseType()
		if p.acceptPunct(";") {
			size := p.expectInt()
			p.expectPunct("]")
			t = &TypeExpr{Kind: ArrayType, Args: []*TypeExpr{elem}, Size: size}
		} else {
			p.expectPunct("]")
			t = &TypeExpr{Kind: ListType, Args: []*TypeExpr{elem}}
		}
	case tok.IsKeyword("fn") || tok.IsKeyword("fun"):
		p.next()
		p.expectPunct("(")
		var params []*TypeExpr
		for !p.atPunct(")") {
			params = append(params, p.parseType())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
		ret := &TypeExpr{Kind: TupleType}
		if p.acceptPunct("->") {
			ret = p.parseType()
		}
		t = &TypeExpr{Kind: FunctionType, Args: params, Ret: ret}
	case tok.Is(IdentToken, "_"):
		p.next()
		t = &TypeExpr{Kind: InferType}
	case tok.Kind == IdentToken:
		p.next()
		if (tok.Text == "dyn" || tok.Text == "impl") && p.tok().Kind == IdentToken {
			tok = p.next()
		}
		name := tok.Text
		for p.atPunct("::") && p.peek(1).Kind == IdentToken {
			p.next()
			name += "::" + p.next().Text
		}
		t = &TypeExpr{Kind: NamedType, Name: name}
		if p.atPunct("<") {
			p.next()
			t.Args = p.parseTypeArgs()
		}
	default:
		p.fail(tok, ExpectedConstruct, "expected type, found %s", tok)
	}
	t.Ranging = p.rangeFrom(from)
	if p.atPunct("?") && !p.tok().NewlineBefore && p.tok().From == p.prevEnd() {
		p.next()
		t = &TypeExpr{Kind: OptionalType, Args: []*TypeExpr{t}, Ranging: p.rangeFrom(from)}
	}
	return t
}

// parseTypeArgs parses the part of "<A, B>" after the opening angle.
func (p *Parser) parseTypeArgs() []*TypeExpr {
	var args []*TypeExpr
	for !p.atClosingAngle() {
		args = append(args, p.parseType())
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectClosingAngle()
	return args
}

func (p *Parser) atClosingAngle() bool {
	switch p.tok().Text {
	case ">", ">>", ">=", ">>=":
		return p.tok().Kind == Punct
	}
	return false
}

// expectClosingAngle consumes one ">", splitting tokens like ">>" that the
// lexer produced for nested generics.
func (p *Parser) expectClosingAngle() {
	tok := p.tok()
	if !p.atClosingAngle() {
		p.fail(tok, ExpectedConstruct, "expected '>', found %s", tok)
	}
	if tok.Text == ">" {
		p.next()
		return
	}
	tok.Text = tok.Text[1:]
	tok.From++
	tok.NewlineBefore = false
	tok.Comments = nil
}
