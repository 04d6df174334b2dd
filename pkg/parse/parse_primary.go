package parse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

func (p *Parser) parsePrimary() *Expr {
	tok := p.tok()
	from := tok.From
	switch tok.Kind {
	case Int:
		p.next()
		return &Expr{Kind: p.intLit(tok), Ranging: tok.Ranging}
	case Float:
		p.next()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errorf(tok, ExpectedConstruct, "invalid float literal %s", tok.Text)
		}
		return &Expr{Kind: &FloatLit{Value: v, Suffix: tok.Suffix, Raw: tok.Text}, Ranging: tok.Ranging}
	case String:
		p.next()
		return &Expr{Kind: &StringLit{tok.Text}, Ranging: tok.Ranging}
	case Char:
		p.next()
		r, _ := utf8.DecodeRuneInString(tok.Text)
		return &Expr{Kind: &CharLit{r}, Ranging: tok.Ranging}
	case Atom:
		p.next()
		return &Expr{Kind: &AtomLit{tok.Text}, Ranging: tok.Ranging}
	case FStringStart:
		return p.parseFString()
	case Label:
		return p.parseLabeled()
	case IdentToken:
		return p.parseIdentExpr()
	case Keyword:
		return p.parseKeywordExpr()
	case Punct:
		switch tok.Text {
		case "(":
			return p.parseParen()
		case "[":
			return p.parseListLit()
		case "{":
			return p.parseBrace()
		case "|", "||":
			return p.parseLambda(from, false)
		case "#":
			return p.parseAttributed()
		}
	}
	if tok.Kind == EOF {
		p.fail(tok, ExpectedConstruct, "expected expression, found end of input")
	}
	kind := UnexpectedToken
	if tok.IsPunct(")") || tok.IsPunct("]") || tok.IsPunct("}") {
		kind = UnbalancedDelimiter
	}
	p.fail(tok, kind, "unexpected %s", tok)
	return nil
}

func (p *Parser) intLit(tok *Token) *IntLit {
	text := tok.Text
	base := 10
	if len(text) > 2 && text[0] == '0' && strings.ContainsRune("xob", rune(text[1])) {
		base = 0
	}
	u, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		p.errorf(tok, ExpectedConstruct, "integer literal %s out of range", text)
	}
	return &IntLit{Value: int64(u), Suffix: tok.Suffix, Raw: text}
}

func (p *Parser) parseFString() *Expr {
	start := p.next()
	var parts []InterpPart
	for {
		tok := p.tok()
		switch tok.Kind {
		case FStringText:
			p.next()
			parts = append(parts, InterpPart{Text: tok.Text})
			continue
		case FStringInterp:
			p.next()
			parts = append(parts, InterpPart{Expr: p.parseInterp(tok), Format: tok.Format})
			continue
		case FStringEnd:
			p.next()
		}
		// An unterminated string has already been reported by the lexer.
		break
	}
	return p.newExpr(start.From, &StringInterpolation{parts})
}

func (p *Parser) parseInterp(tok *Token) *Expr {
	sub := p.subParser(tok.From, tok.To)
	e := &Expr{Kind: &UnitLit{}, Ranging: tok.Ranging}
	func() {
		defer sub.recoverBailout()
		e = sub.parseExpr()
		if sub.tok().Kind != EOF {
			sub.fail(sub.tok(), UnexpectedToken, "unexpected %s in interpolation", sub.tok())
		}
	}()
	return e
}

func (p *Parser) parseLabeled() *Expr {
	label := p.next()
	p.expectPunct(":")
	switch {
	case p.atKeyword("loop"):
		return p.parseLoop(label.From, label.Text)
	case p.atKeyword("while"):
		return p.parseWhile(label.From, label.Text)
	case p.atKeyword("for"):
		return p.parseFor(label.From, label.Text)
	}
	p.fail(p.tok(), ExpectedConstruct, "expected loop after label, found %s", p.tok())
	return nil
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// adjacent reports whether the token at offset n starts right where the one
// before it ends.
func (p *Parser) adjacent(n int) bool {
	return p.peek(n).From == p.peek(n-1).To
}

func (p *Parser) parseIdentExpr() *Expr {
	tok := p.tok()
	from := tok.From
	if p.peek(1).IsPunct("!") && p.adjacent(1) {
		delim := p.peek(2)
		if delim.IsPunct("(") || delim.IsPunct("[") || delim.IsPunct("{") {
			if tok.Text == "df" && delim.IsPunct("[") {
				return p.parseDataFrame()
			}
			return p.parseMacro()
		}
	}
	if (tok.Text == "send" || tok.Text == "call") && !p.peek(1).NewlineBefore &&
		(p.peek(1).Kind == IdentToken || p.peek(1).IsKeyword("self")) {
		return p.parseSendStmt()
	}
	if (tok.Text == "sealed" || tok.Text == "abstract") && p.peek(1).IsKeyword("class") {
		return p.parseClass(from, false)
	}
	p.next()
	path := []string{tok.Text}
	for p.atPunct("::") {
		p.next()
		if p.atPunct("<") {
			// Turbofish, like Vec::<i32>::new().
			p.next()
			p.parseTypeArgs()
			continue
		}
		path = append(path, p.expectName("name after '::'"))
	}
	name := strings.Join(path, "::")
	if isUpper(path[len(path)-1]) && p.atPunct("{") && !p.tok().NewlineBefore && !p.noStructLit && p.looksLikeStructLit() {
		return p.parseStructLit(from, name)
	}
	if len(path) > 1 {
		return p.newExpr(from, &QualifiedName{path})
	}
	return p.newExpr(from, &Ident{tok.Text})
}

// looksLikeStructLit is called at "{" after a capitalized name.
func (p *Parser) looksLikeStructLit() bool {
	t1, t2 := p.peek(1), p.peek(2)
	switch {
	case t1.IsPunct("}"), t1.IsPunct(".."):
		return true
	case t1.Kind == IdentToken:
		return t2.IsPunct(":") || t2.IsPunct(",") || t2.IsPunct("}")
	}
	return false
}

func (p *Parser) parseStructLit(from int, name string) *Expr {
	p.expectPunct("{")
	var fields []FieldInit
	var base *Expr
	for !p.atPunct("}") {
		if p.acceptPunct("..") {
			base = p.parseExpr()
			break
		}
		nameTok := p.tok()
		field := p.expectName("field name")
		if p.acceptPunct(":") {
			fields = append(fields, FieldInit{field, p.parseExpr()})
		} else {
			fields = append(fields, FieldInit{field, &Expr{Kind: &Ident{field}, Ranging: nameTok.Ranging}})
		}
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	return p.newExpr(from, &StructLiteral{name, fields, base})
}

func (p *Parser) parseSendStmt() *Expr {
	kw := p.next()
	target := p.parseExprPrec(precSend + 1)
	p.expectPunct("<-")
	msg := p.parseExprPrec(precSend + 1)
	send := &Send{Target: target, Message: msg, Kind: Fire}
	if kw.Text == "call" {
		send.Kind = CallMsg
		if p.tok().Is(IdentToken, "timeout") && !p.tok().NewlineBefore {
			p.next()
			send.Timeout = p.parseExprPrec(precSend + 1)
		}
	}
	return p.newExpr(kw.From, send)
}

func (p *Parser) parseMacro() *Expr {
	name := p.next()
	p.next() // !
	open := p.next()
	closer := map[string]string{"(": ")", "[": "]", "{": "}"}[open.Text]
	var args []*Expr
	if name.Text == "vec" && !p.atPunct(closer) {
		first := p.parseExpr()
		if p.acceptPunct(";") {
			size := p.parseExpr()
			p.expectPunct(closer)
			init := &Expr{Kind: &ArrayInit{first, size}, Ranging: diag.MixedRanging(first, size)}
			return p.newExpr(name.From, &Macro{name.Text, open.Text[0], []*Expr{init}})
		}
		args = append(args, first)
		if p.acceptPunct(",") {
			args = append(args, p.parseArgs(closer)...)
		} else {
			p.expectPunct(closer)
		}
	} else {
		args = p.parseArgs(closer)
	}
	return p.newExpr(name.From, &Macro{name.Text, open.Text[0], args})
}

func (p *Parser) parseDataFrame() *Expr {
	from := p.next().From
	p.next() // !
	p.next() // [
	var cols []DataFrameColumn
	for !p.atPunct("]") {
		tok := p.tok()
		var name string
		switch tok.Kind {
		case IdentToken, String:
			p.next()
			name = tok.Text
		default:
			p.fail(tok, ExpectedConstruct, "expected column name, found %s", tok)
		}
		p.expectPunct("=>")
		values := p.parseExpr()
		list, ok := values.Kind.(*List)
		if !ok {
			p.fail(values, ExpectedConstruct, "expected list of column values")
		}
		cols = append(cols, DataFrameColumn{name, list.Elems})
		if !p.acceptPunct(",") && !p.acceptPunct(";") {
			break
		}
	}
	p.expectPunct("]")
	return p.newExpr(from, &DataFrame{cols})
}

func (p *Parser) parseParen() *Expr {
	open := p.next()
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	if p.acceptPunct(")") {
		return p.newExpr(open.From, &UnitLit{})
	}
	first := p.parseExpr()
	if !p.atPunct(",") {
		p.expectPunct(")")
		return first
	}
	elems := []*Expr{first}
	for p.acceptPunct(",") && !p.atPunct(")") {
		elems = append(elems, p.parseExpr())
	}
	p.expectPunct(")")
	return p.newExpr(open.From, &Tuple{elems})
}

func (p *Parser) parseListLit() *Expr {
	open := p.next()
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	if p.acceptPunct("]") {
		return p.newExpr(open.From, &List{})
	}
	first := p.parseExpr()
	switch {
	case p.acceptPunct(";"):
		size := p.parseExpr()
		p.expectPunct("]")
		return p.newExpr(open.From, &ArrayInit{first, size})
	case p.atKeyword("for"):
		clause := p.parseCompClause()
		p.expectPunct("]")
		return p.newExpr(open.From, &ListComprehension{first, clause})
	}
	elems := []*Expr{first}
	for p.acceptPunct(",") && !p.atPunct("]") {
		elems = append(elems, p.parseExpr())
	}
	p.expectPunct("]")
	return p.newExpr(open.From, &List{elems})
}

// parseCompClause parses "for pattern in iter [if cond]".
func (p *Parser) parseCompClause() CompClause {
	p.expectKeyword("for")
	pat := p.parsePattern()
	p.expectKeyword("in")
	iter := p.parseExprNoStruct()
	var cond *Expr
	if p.acceptKeyword("if") {
		cond = p.parseExprNoStruct()
	}
	return CompClause{pat, iter, cond}
}

type braceKind int

const (
	braceBlock braceKind = iota
	braceObject
	braceSet
	braceDict
)

// classifyBrace decides what the "{" at the current position opens.
func (p *Parser) classifyBrace() braceKind {
	t1, t2 := p.peek(1), p.peek(2)
	switch {
	case t1.IsPunct("}"), t1.IsPunct("..."):
		return braceObject
	case (t1.Kind == IdentToken || t1.Kind == String || t1.Kind == Keyword) && t2.IsPunct(":"):
		return braceObject
	case t1.Kind == Keyword && t1.Text != "true" && t1.Text != "false" && t1.Text != "self" &&
		t1.Text != "Some" && t1.Text != "None" && t1.Text != "Ok" && t1.Text != "Err" && t1.Text != "null":
		return braceBlock
	case t1.IsPunct("|"), t1.IsPunct("||"), t1.Kind == Label, t1.IsPunct("#"):
		return braceBlock
	}
	depth := 0
	prevComma := false
	for i := p.pos + 1; i < len(p.toks); i++ {
		tok := &p.toks[i]
		if depth == 0 && i > p.pos+1 && tok.NewlineBefore && !prevComma {
			return braceBlock
		}
		prevComma = false
		switch {
		case tok.Kind == EOF:
			return braceBlock
		case tok.IsPunct("(") || tok.IsPunct("[") || tok.IsPunct("{"):
			depth++
		case tok.IsPunct(")") || tok.IsPunct("]"):
			depth--
		case tok.IsPunct("}"):
			if depth == 0 {
				return braceBlock
			}
			depth--
		case depth != 0:
		case tok.IsPunct(";"):
			return braceBlock
		case tok.IsPunct(","):
			return braceSet
		case tok.IsKeyword("for"):
			return braceSet
		case tok.IsPunct(":"):
			return braceDict
		}
		prevComma = depth == 0 && tok.IsPunct(",")
	}
	return braceBlock
}

func (p *Parser) parseBrace() *Expr {
	switch p.classifyBrace() {
	case braceObject:
		return p.parseObject()
	case braceSet:
		return p.parseSet()
	case braceDict:
		open := p.next()
		key := p.parseExpr()
		p.expectPunct(":")
		value := p.parseExpr()
		clause := p.parseCompClause()
		p.expectPunct("}")
		return p.newExpr(open.From, &DictComprehension{key, value, clause})
	}
	return p.parseBlock()
}

func (p *Parser) parseObject() *Expr {
	open := p.next()
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	var fields []ObjectField
	for !p.atPunct("}") {
		if p.acceptPunct("...") {
			fields = append(fields, ObjectField{Value: p.parseExpr(), Spread: true})
		} else {
			keyTok := p.next()
			switch keyTok.Kind {
			case IdentToken, Keyword, String:
			default:
				p.fail(keyTok, ExpectedConstruct, "expected object key, found %s", keyTok)
			}
			p.expectPunct(":")
			value := p.parseExpr()
			if len(fields) == 0 && p.atKeyword("for") {
				key := &Expr{Kind: &Ident{keyTok.Text}, Ranging: keyTok.Ranging}
				if keyTok.Kind == String {
					key.Kind = &StringLit{keyTok.Text}
				}
				clause := p.parseCompClause()
				p.expectPunct("}")
				return p.newExpr(open.From, &DictComprehension{key, value, clause})
			}
			fields = append(fields, ObjectField{Key: keyTok.Text, Value: value})
		}
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	return p.newExpr(open.From, &ObjectLiteral{fields})
}

func (p *Parser) parseSet() *Expr {
	open := p.next()
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	first := p.parseExpr()
	if p.atKeyword("for") {
		clause := p.parseCompClause()
		p.expectPunct("}")
		return p.newExpr(open.From, &SetComprehension{first, clause})
	}
	elems := []*Expr{first}
	for p.acceptPunct(",") && !p.atPunct("}") {
		elems = append(elems, p.parseExpr())
	}
	p.expectPunct("}")
	return p.newExpr(open.From, &Set{elems})
}

func (p *Parser) parseLambda(from int, async bool) *Expr {
	var params []Param
	if !p.acceptPunct("||") {
		p.expectPunct("|")
		saved := p.noOrPattern
		p.noOrPattern = true
		for !p.atPunct("|") {
			params = append(params, p.parseParam())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.noOrPattern = saved
		p.expectPunct("|")
	}
	saved := p.noStructLit
	p.noStructLit = false
	body := p.parseExpr()
	p.noStructLit = saved
	if async {
		return p.newExpr(from, &AsyncLambda{params, body})
	}
	return p.newExpr(from, &Lambda{params, body})
}

func (p *Parser) parseKeywordExpr() *Expr {
	tok := p.tok()
	from := tok.From
	switch tok.Text {
	case "true", "false":
		p.next()
		return &Expr{Kind: &BoolLit{tok.Text == "true"}, Ranging: tok.Ranging}
	case "null", "nil":
		p.next()
		return &Expr{Kind: &NullLit{}, Ranging: tok.Ranging}
	case "self":
		p.next()
		return &Expr{Kind: &Ident{"self"}, Ranging: tok.Ranging}
	case "None":
		p.next()
		return &Expr{Kind: &None{}, Ranging: tok.Ranging}
	case "Some", "Ok", "Err":
		p.next()
		if !p.atPunct("(") || p.tok().NewlineBefore {
			return &Expr{Kind: &Ident{tok.Text}, Ranging: tok.Ranging}
		}
		args := p.parseArgsAfter("(", ")")
		var value *Expr
		switch len(args) {
		case 0:
			value = &Expr{Kind: &UnitLit{}, Ranging: diag.PointRanging(p.prevEnd() - 1)}
		case 1:
			value = args[0]
		default:
			p.fail(diag.Ranging{From: from, To: p.prevEnd()}, ExpectedConstruct, "%s takes one value", tok.Text)
		}
		switch tok.Text {
		case "Some":
			return p.newExpr(from, &Some{value})
		case "Ok":
			return p.newExpr(from, &Ok{value})
		default:
			return p.newExpr(from, &Err{value})
		}
	case "if":
		return p.parseIf()
	case "match":
		return p.parseMatch()
	case "while":
		return p.parseWhile(from, "")
	case "loop":
		return p.parseLoop(from, "")
	case "for":
		return p.parseFor(from, "")
	case "let":
		return p.parseLet()
	case "const":
		return p.parseConst()
	case "fun", "fn":
		return p.parseFunction(from, false, false)
	case "struct":
		return p.parseStruct(from, false)
	case "class":
		return p.parseClass(from, false)
	case "enum":
		return p.parseEnum(from, false)
	case "trait":
		return p.parseTrait(from, false)
	case "impl":
		return p.parseImpl()
	case "actor":
		return p.parseActor()
	case "supervisor":
		return p.parseSupervisor()
	case "import", "use":
		return p.parseImport()
	case "export":
		return p.parseExport()
	case "pub":
		return p.parsePub()
	case "async":
		p.next()
		switch {
		case p.atPunct("{"):
			body := p.parseBlock()
			return p.newExpr(from, &AsyncBlock{body})
		case p.atPunct("|") || p.atPunct("||"):
			return p.parseLambda(from, true)
		case p.atKeyword("fun") || p.atKeyword("fn"):
			return p.parseFunction(from, true, false)
		}
		p.fail(p.tok(), ExpectedConstruct, "expected block, lambda or function after 'async', found %s", p.tok())
	case "await":
		p.next()
		operand := p.parseExprPrec(precUnary)
		return p.newExpr(from, &Await{operand})
	case "spawn":
		p.next()
		operand := p.parseExprPrec(precUnary)
		return p.newExpr(from, &Spawn{operand})
	case "receive":
		p.next()
		arms := p.parseReceiveArms()
		return p.newExpr(from, &Receive{arms})
	case "try":
		return p.parseTry()
	case "throw":
		p.next()
		value := p.parseExpr()
		return p.newExpr(from, &Throw{value})
	case "return":
		p.next()
		var value *Expr
		if p.canStartExpr() {
			value = p.parseExpr()
		}
		return p.newExpr(from, &Return{value})
	case "break":
		p.next()
		var label string
		if p.tok().Kind == Label && !p.tok().NewlineBefore {
			label = p.next().Text
		}
		var value *Expr
		if p.canStartExpr() {
			value = p.parseExpr()
		}
		return p.newExpr(from, &Break{label, value})
	case "continue":
		p.next()
		var label string
		if p.tok().Kind == Label && !p.tok().NewlineBefore {
			label = p.next().Text
		}
		return p.newExpr(from, &Continue{label})
	}
	p.fail(tok, UnexpectedToken, "unexpected keyword '%s'", tok.Text)
	return nil
}

func (p *Parser) parseArgsAfter(open, closer string) []*Expr {
	p.expectPunct(open)
	return p.parseArgs(closer)
}
