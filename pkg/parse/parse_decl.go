package parse

import (
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// parseFunction parses "fun name<T>(params) -> Type { body }". The body may be
// missing for trait methods.
func (p *Parser) parseFunction(from int, async, pub bool) *Expr {
	if !p.acceptKeyword("fun") {
		p.expectKeyword("fn")
	}
	fn := &Function{Async: async, Pub: pub}
	fn.Name = p.expectName("function name")
	fn.TypeParams = p.parseTypeParams()
	fn.Params = p.parseParams()
	if p.acceptPunct("->") {
		fn.ReturnType = p.parseType()
	}
	if p.atPunct("{") {
		fn.Body = p.parseBlock()
	}
	return p.newExpr(from, fn)
}

func (p *Parser) parseParams() []Param {
	p.expectPunct("(")
	var params []Param
	for !p.atPunct(")") {
		params = append(params, p.parseParam())
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return params
}

// parseParam parses a parameter: a self receiver, or a pattern with an
// optional type and default value.
func (p *Parser) parseParam() Param {
	from := p.tok().From
	self := NotSelf
	switch {
	case p.atKeyword("self"):
		self = SelfValue
	case p.atPunct("&") && p.peek(1).IsKeyword("self"):
		self = SelfRef
	case p.atPunct("&") && p.peek(1).IsKeyword("mut") && p.peek(2).IsKeyword("self"):
		self = SelfMutRef
	case p.atKeyword("mut") && p.peek(1).IsKeyword("self"):
		self = SelfValue
	}
	if self != NotSelf {
		for !p.atKeyword("self") {
			p.next()
		}
		tok := p.next()
		param := Param{Pattern: &IdentPattern{"self", tok.Ranging}, Self: self}
		if p.acceptPunct(":") {
			param.Type = p.parseType()
		}
		param.Ranging = p.rangeFrom(from)
		return param
	}
	param := Param{Pattern: p.parsePattern()}
	if p.acceptPunct(":") {
		param.Type = p.parseType()
	}
	if p.acceptPunct("=") {
		param.Default = p.parseExprPrec(precAssign + 1)
	}
	param.Ranging = p.rangeFrom(from)
	return param
}

// parseTypeParams parses an optional "<T, U: Bound + Other>".
func (p *Parser) parseTypeParams() []TypeParam {
	if !p.acceptPunct("<") {
		return nil
	}
	var tps []TypeParam
	for !p.atClosingAngle() {
		tp := TypeParam{Name: p.expectName("type parameter")}
		if p.acceptPunct(":") {
			for {
				tp.Bounds = append(tp.Bounds, p.parseType().String())
				if !p.acceptPunct("+") {
					break
				}
			}
		}
		tps = append(tps, tp)
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectClosingAngle()
	return tps
}

// skipSeparators skips commas, semicolons and is a no-op otherwise; members
// of declarations may be separated by any of them or by newlines.
func (p *Parser) skipSeparators() {
	for p.atPunct(",") || p.atPunct(";") {
		p.next()
	}
}

func (p *Parser) parseStruct(from int, pub bool) *Expr {
	p.expectKeyword("struct")
	name := p.expectName("struct name")
	tps := p.parseTypeParams()
	if p.atPunct("(") {
		p.next()
		var fields []*TypeExpr
		for !p.atPunct(")") {
			p.acceptKeyword("pub")
			fields = append(fields, p.parseType())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
		return p.newExpr(from, &TupleStruct{Name: name, TypeParams: tps, Fields: fields, Pub: pub})
	}
	decl := &StructDecl{Name: name, TypeParams: tps, Pub: pub}
	if p.atPunct("{") && !p.tok().NewlineBefore {
		p.next()
		for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
			decl.Fields = append(decl.Fields, p.parseField())
		}
		p.expectPunct("}")
	}
	return p.newExpr(from, decl)
}

// parseField parses "[pub] [mut] name: Type [= default]".
func (p *Parser) parseField() StructField {
	from := p.tok().From
	var f StructField
	f.Pub = p.acceptKeyword("pub")
	f.Mutable = p.acceptKeyword("mut")
	f.Name = p.expectName("field name")
	p.expectPunct(":")
	f.Type = p.parseType()
	if p.acceptPunct("=") {
		f.Default = p.parseExpr()
	}
	f.Ranging = p.rangeFrom(from)
	return f
}

func (p *Parser) parseClass(from int, pub bool) *Expr {
	class := &Class{Pub: pub}
	for p.tok().Kind == IdentToken && (p.tok().Text == "sealed" || p.tok().Text == "abstract") {
		if p.next().Text == "sealed" {
			class.Sealed = true
		} else {
			class.Abstract = true
		}
	}
	p.expectKeyword("class")
	class.Name = p.expectName("class name")
	class.TypeParams = p.parseTypeParams()
	if p.acceptPunct(":") {
		class.Superclass = p.expectName("superclass")
		for p.acceptPunct("+") || p.acceptPunct(",") {
			class.Traits = append(class.Traits, p.expectName("trait name"))
		}
	}
	p.expectPunct("{")
	for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
		p.parseClassMember(class)
	}
	p.expectPunct("}")
	return p.newExpr(from, class)
}

func (p *Parser) parseClassMember(class *Class) {
	from := p.tok().From
	if p.tok().Is(IdentToken, "new") && (p.peek(1).IsPunct("(") || p.peek(1).Kind == IdentToken) {
		p.next()
		ctor := &Constructor{}
		if p.tok().Kind == IdentToken {
			ctor.Name = p.next().Text
		}
		ctor.Params = p.parseParams()
		ctor.Body = p.parseBlock()
		ctor.Ranging = p.rangeFrom(from)
		class.Constructors = append(class.Constructors, ctor)
		return
	}
	pub := p.acceptKeyword("pub")
	for p.tok().Is(IdentToken, "static") || p.tok().Is(IdentToken, "override") {
		p.next()
	}
	switch {
	case p.atKeyword("fun") || p.atKeyword("fn"):
		class.Methods = append(class.Methods, p.parseFunction(from, false, pub))
	case p.atKeyword("async"):
		p.next()
		class.Methods = append(class.Methods, p.parseFunction(from, true, pub))
	case p.acceptKeyword("const"):
		c := ClassConst{Name: p.expectName("constant name")}
		if p.acceptPunct(":") {
			c.Type = p.parseType()
		}
		p.expectPunct("=")
		c.Value = p.parseExpr()
		class.Constants = append(class.Constants, c)
	default:
		f := p.parseField()
		f.Pub = f.Pub || pub
		f.From = from
		class.Fields = append(class.Fields, f)
	}
}

func (p *Parser) parseEnum(from int, pub bool) *Expr {
	p.expectKeyword("enum")
	enum := &Enum{Pub: pub}
	enum.Name = p.expectName("enum name")
	enum.TypeParams = p.parseTypeParams()
	p.expectPunct("{")
	for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
		v := EnumVariant{Name: p.expectName("variant name")}
		switch {
		case p.atPunct("("):
			p.next()
			v.Kind = TupleVariant
			for !p.atPunct(")") {
				v.Fields = append(v.Fields, p.parseType())
				if !p.acceptPunct(",") {
					break
				}
			}
			p.expectPunct(")")
		case p.atPunct("{"):
			p.next()
			v.Kind = StructVariant
			for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
				v.StructFields = append(v.StructFields, p.parseField())
			}
			p.expectPunct("}")
		case p.acceptPunct("="):
			neg := p.acceptPunct("-")
			tok := p.tok()
			if tok.Kind != Int {
				p.fail(tok, ExpectedConstruct, "expected integer discriminant, found %s", tok)
			}
			p.next()
			d := p.intLit(tok).Value
			if neg {
				d = -d
			}
			v.Discriminant = &d
		}
		enum.Variants = append(enum.Variants, v)
	}
	p.expectPunct("}")
	return p.newExpr(from, enum)
}

func (p *Parser) parseTrait(from int, pub bool) *Expr {
	p.expectKeyword("trait")
	trait := &Trait{Pub: pub}
	trait.Name = p.expectName("trait name")
	trait.TypeParams = p.parseTypeParams()
	trait.Methods = p.parseMethods()
	return p.newExpr(from, trait)
}

// parseMethods parses "{ fun ...; fun ... }".
func (p *Parser) parseMethods() []*Expr {
	p.expectPunct("{")
	var methods []*Expr
	for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
		from := p.tok().From
		pub := p.acceptKeyword("pub")
		async := p.acceptKeyword("async")
		if !p.atKeyword("fun") && !p.atKeyword("fn") {
			p.fail(p.tok(), ExpectedConstruct, "expected method, found %s", p.tok())
		}
		methods = append(methods, p.parseFunction(from, async, pub))
	}
	p.expectPunct("}")
	return methods
}

func (p *Parser) parseImpl() *Expr {
	from := p.expectKeyword("impl").From
	impl := &Impl{TypeParams: p.parseTypeParams()}
	first := p.parseType()
	if p.acceptKeyword("for") {
		impl.Trait = first.Name
		impl.ForType = p.parseType().Name
	} else {
		impl.ForType = first.Name
	}
	impl.Methods = p.parseMethods()
	return p.newExpr(from, impl)
}

func (p *Parser) parseActor() *Expr {
	from := p.expectKeyword("actor").From
	actor := &Actor{Name: p.expectName("actor name")}
	p.expectPunct("{")
	for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
		switch {
		case p.acceptKeyword("receive"):
			actor.Handlers = append(actor.Handlers, p.parseReceiveArms()...)
		case p.atKeyword("fun") || p.atKeyword("fn"):
			actor.Methods = append(actor.Methods, p.parseFunction(p.tok().From, false, false))
		case p.tok().Is(IdentToken, "state") && p.peek(1).IsPunct("{"):
			p.next()
			p.next()
			for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
				actor.State = append(actor.State, p.parseField())
			}
			p.expectPunct("}")
		default:
			actor.State = append(actor.State, p.parseField())
		}
	}
	p.expectPunct("}")
	return p.newExpr(from, actor)
}

func (p *Parser) parseSupervisor() *Expr {
	from := p.expectKeyword("supervisor").From
	sup := &Supervisor{Name: p.expectName("supervisor name"), Strategy: "OneForOne", MaxRestarts: 3, MaxSeconds: 5}
	p.expectPunct("{")
	for p.skipSeparators(); !p.atPunct("}"); p.skipSeparators() {
		tok := p.tok()
		key := p.expectName("supervisor setting")
		switch key {
		case "strategy":
			p.expectPunct(":")
			sup.Strategy = p.expectName("strategy")
		case "max_restarts":
			p.expectPunct(":")
			sup.MaxRestarts = p.expectInt()
		case "max_seconds":
			p.expectPunct(":")
			sup.MaxSeconds = p.expectInt()
		case "child":
			sup.Children = append(sup.Children, p.parseChildSpec(tok.From))
		default:
			p.fail(tok, UnexpectedToken, "unknown supervisor setting %s", key)
		}
	}
	p.expectPunct("}")
	return p.newExpr(from, sup)
}

// parseChildSpec parses the part of
// "child id: Actor(args) restart: Permanent shutdown: 5000" after "child".
func (p *Parser) parseChildSpec(from int) ChildSpec {
	spec := ChildSpec{Restart: "Permanent", Shutdown: "5000"}
	spec.ID = p.expectName("child id")
	p.expectPunct(":")
	spec.Actor = p.expectName("actor name")
	if p.atPunct("(") && !p.tok().NewlineBefore {
		spec.Args = p.parseArgsAfter("(", ")")
	}
	for {
		switch {
		case p.tok().Is(IdentToken, "restart") && p.peek(1).IsPunct(":"):
			p.next()
			p.next()
			spec.Restart = p.expectName("restart policy")
			continue
		case p.tok().Is(IdentToken, "shutdown") && p.peek(1).IsPunct(":"):
			p.next()
			p.next()
			if p.tok().Kind == Int {
				spec.Shutdown = strconv.FormatInt(p.expectInt(), 10)
			} else {
				spec.Shutdown = p.expectName("shutdown mode")
			}
			continue
		}
		break
	}
	spec.Ranging = p.rangeFrom(from)
	return spec
}

func (p *Parser) expectInt() int64 {
	tok := p.tok()
	if tok.Kind != Int {
		p.fail(tok, ExpectedConstruct, "expected integer, found %s", tok)
	}
	p.next()
	return p.intLit(tok).Value
}

func (p *Parser) parseImport() *Expr {
	from := p.next().From
	imp := &Import{}
	for {
		if p.atPunct("{") {
			p.next()
			for !p.atPunct("}") {
				imp.Items = append(imp.Items, p.expectName("import item"))
				if !p.acceptPunct(",") {
					break
				}
			}
			p.expectPunct("}")
			break
		}
		if p.acceptPunct("*") {
			imp.Items = []string{"*"}
			break
		}
		imp.Path = append(imp.Path, p.expectName("module name"))
		if !p.acceptPunct("::") && !p.acceptPunct(".") {
			break
		}
	}
	if p.acceptKeyword("as") {
		imp.Alias = p.expectName("alias")
	}
	return p.newExpr(from, imp)
}

func (p *Parser) parseExport() *Expr {
	from := p.expectKeyword("export").From
	if p.acceptPunct("{") {
		var names []string
		for !p.atPunct("}") {
			names = append(names, p.expectName("exported name"))
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct("}")
		return p.newExpr(from, &Export{Names: names})
	}
	decl := p.parseItem()
	return p.newExpr(from, &Export{Decl: decl})
}

func (p *Parser) parsePub() *Expr {
	from := p.expectKeyword("pub").From
	switch {
	case p.atKeyword("fun") || p.atKeyword("fn"):
		return p.parseFunction(from, false, true)
	case p.atKeyword("async"):
		p.next()
		return p.parseFunction(from, true, true)
	case p.atKeyword("struct"):
		return p.parseStruct(from, true)
	case p.atKeyword("class") || p.tok().Is(IdentToken, "sealed") || p.tok().Is(IdentToken, "abstract"):
		return p.parseClass(from, true)
	case p.atKeyword("enum"):
		return p.parseEnum(from, true)
	case p.atKeyword("trait"):
		return p.parseTrait(from, true)
	case p.atKeyword("const"):
		e := p.parseConst()
		e.From = from
		return e
	}
	p.fail(p.tok(), ExpectedConstruct, "expected declaration after 'pub', found %s", p.tok())
	return nil
}

// parseAttributed parses one or more "#[name(args)]" attributes and the item
// they apply to. Derive attributes are also recorded on the declaration.
func (p *Parser) parseAttributed() *Expr {
	from := p.tok().From
	var attrs []Attribute
	for p.atPunct("#") {
		start := p.next().From
		p.expectPunct("[")
		attr := Attribute{Name: p.expectName("attribute name")}
		if p.acceptPunct("(") {
			for !p.atPunct(")") {
				tok := p.next()
				switch tok.Kind {
				case IdentToken, Keyword, String, Int:
					attr.Args = append(attr.Args, tok.Text)
				default:
					p.fail(tok, ExpectedConstruct, "invalid attribute argument %s", tok)
				}
				if !p.acceptPunct(",") {
					break
				}
			}
			p.expectPunct(")")
		}
		p.expectPunct("]")
		attr.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
		attrs = append(attrs, attr)
	}
	item := p.parseItem()
	item.Attributes = append(attrs, item.Attributes...)
	item.From = from
	for _, attr := range attrs {
		if attr.Name != "derive" {
			continue
		}
		switch n := item.Kind.(type) {
		case *StructDecl:
			n.Derives = append(n.Derives, attr.Args...)
		case *TupleStruct:
			n.Derives = append(n.Derives, attr.Args...)
		case *Class:
			n.Derives = append(n.Derives, attr.Args...)
		case *Enum:
			n.Derives = append(n.Derives, attr.Args...)
		default:
			p.errorf(attr, ExpectedConstruct, "derive can only be applied to type declarations")
		}
	}
	return item
}
