package parse

func (p *Parser) parseIf() *Expr {
	from := p.expectKeyword("if").From
	if p.acceptKeyword("let") {
		pat := p.parsePattern()
		p.expectPunct("=")
		value := p.parseExprNoStruct()
		then := p.parseBlock()
		return p.newExpr(from, &IfLet{pat, value, then, p.parseElse()})
	}
	cond := p.parseExprNoStruct()
	then := p.parseBlock()
	return p.newExpr(from, &If{cond, then, p.parseElse()})
}

func (p *Parser) parseElse() *Expr {
	if !p.acceptKeyword("else") {
		return nil
	}
	if p.atKeyword("if") {
		return p.parseIf()
	}
	return p.parseBlock()
}

func (p *Parser) parseMatch() *Expr {
	from := p.expectKeyword("match").From
	scrutinee := p.parseExprNoStruct()
	arms := p.parseArmsBlock()
	return p.newExpr(from, &Match{scrutinee, arms})
}

// parseArmsBlock parses "{ pattern [if guard] => body, ... }".
func (p *Parser) parseArmsBlock() []MatchArm {
	p.expectPunct("{")
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	var arms []MatchArm
	for !p.atPunct("}") && p.tok().Kind != EOF {
		arm := p.parseArm()
		arms = append(arms, arm)
		if !p.acceptPunct(",") && !endsWithBrace(arm.Body) && !p.tok().NewlineBefore && !p.atPunct("}") {
			p.fail(p.tok(), ExpectedConstruct, "expected ',' after match arm, found %s", p.tok())
		}
	}
	p.expectPunct("}")
	return arms
}

func (p *Parser) parseArm() MatchArm {
	from := p.tok().From
	pat := p.parsePattern()
	var guard *Expr
	if p.acceptKeyword("if") {
		guard = p.parseExpr()
	}
	p.expectPunct("=>")
	body := p.parseExpr()
	return MatchArm{Pattern: pat, Guard: guard, Body: body, Ranging: p.rangeFrom(from)}
}

// parseReceiveArms parses the handlers after "receive": either a braced list
// of arms or a single arm.
func (p *Parser) parseReceiveArms() []MatchArm {
	if p.atPunct("{") {
		return p.parseArmsBlock()
	}
	return []MatchArm{p.parseArm()}
}

func (p *Parser) parseWhile(from int, label string) *Expr {
	p.expectKeyword("while")
	if p.acceptKeyword("let") {
		pat := p.parsePattern()
		p.expectPunct("=")
		value := p.parseExprNoStruct()
		body := p.parseBlock()
		return p.newExpr(from, &WhileLet{label, pat, value, body})
	}
	cond := p.parseExprNoStruct()
	body := p.parseBlock()
	return p.newExpr(from, &While{label, cond, body})
}

func (p *Parser) parseLoop(from int, label string) *Expr {
	p.expectKeyword("loop")
	body := p.parseBlock()
	return p.newExpr(from, &Loop{label, body})
}

func (p *Parser) parseFor(from int, label string) *Expr {
	p.expectKeyword("for")
	pat := p.parsePattern()
	p.expectKeyword("in")
	iter := p.parseExprNoStruct()
	body := p.parseBlock()
	var name string
	if id, ok := pat.(*IdentPattern); ok {
		name = id.Name
	}
	return p.newExpr(from, &For{label, name, pat, iter, body})
}

// parseLet parses "let [mut] pattern [: type] = value [else block] [in body]".
// Without "in", the body is filled in later by nestLets.
func (p *Parser) parseLet() *Expr {
	from := p.expectKeyword("let").From
	mutable := p.acceptKeyword("mut")
	pat := p.parsePattern()
	var typ *TypeExpr
	if p.acceptPunct(":") {
		typ = p.parseType()
	}
	p.expectPunct("=")
	value := p.parseExpr()
	var els, body *Expr
	if p.atKeyword("else") && !p.tok().NewlineBefore {
		p.next()
		els = p.parseBlock()
	}
	if p.acceptKeyword("in") {
		body = p.parseExpr()
	}
	switch pat := pat.(type) {
	case *IdentPattern:
		return p.newExpr(from, &Let{pat.Name, mutable, typ, value, els, body})
	case *QualifiedNamePattern:
		if len(pat.Path) == 1 {
			return p.newExpr(from, &Let{pat.Path[0], mutable, typ, value, els, body})
		}
	}
	return p.newExpr(from, &LetPattern{pat, mutable, typ, value, els, body})
}

// parseConst parses "const NAME [: type] = value", an immutable let.
func (p *Parser) parseConst() *Expr {
	from := p.expectKeyword("const").From
	name := p.expectName("constant name")
	var typ *TypeExpr
	if p.acceptPunct(":") {
		typ = p.parseType()
	}
	p.expectPunct("=")
	value := p.parseExpr()
	return p.newExpr(from, &Let{Name: name, Type: typ, Value: value})
}

func (p *Parser) parseTry() *Expr {
	from := p.expectKeyword("try").From
	body := p.parseBlock()
	var catches []CatchClause
	for p.acceptKeyword("catch") {
		var clause CatchClause
		if p.acceptPunct("(") {
			clause.Pattern = p.parsePattern()
			if p.acceptPunct(":") {
				clause.TypeFilter = p.expectName("error type")
			}
			p.expectPunct(")")
		} else if !p.atPunct("{") {
			saved := p.noStructLit
			p.noStructLit = true
			clause.Pattern = p.parsePattern()
			p.noStructLit = saved
		}
		clause.Body = p.parseBlock()
		catches = append(catches, clause)
	}
	var finally *Expr
	if p.acceptKeyword("finally") {
		finally = p.parseBlock()
	}
	if len(catches) == 0 && finally == nil {
		p.fail(p.tok(), ExpectedConstruct, "expected 'catch' or 'finally' after try block, found %s", p.tok())
	}
	return p.newExpr(from, &TryCatch{body, catches, finally})
}
