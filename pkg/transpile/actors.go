package transpile

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Actors lower to plain structs. The handlers become a handle method that
// matches on a message enum, and both sends and calls invoke handle directly.
// Replies, mailboxes and supervision have no counterpart in the output.

type variant struct {
	name   string
	fields int
	named  []string
}

func messageEnum(actor string) string { return actor + "Message" }

// messageVariants collects the message shapes the handlers of an actor match
// on, in order of first appearance.
func messageVariants(n *parse.Actor) []variant {
	var vs []variant
	seen := map[string]bool{}
	add := func(v variant) {
		if !seen[v.name] {
			seen[v.name] = true
			vs = append(vs, v)
		}
	}
	var visit func(p parse.Pattern)
	visit = func(p parse.Pattern) {
		switch p := p.(type) {
		case *parse.TupleVariantPattern:
			add(variant{name: p.Path[len(p.Path)-1], fields: len(p.Elems)})
		case *parse.QualifiedNamePattern:
			add(variant{name: p.Path[len(p.Path)-1]})
		case *parse.StructPattern:
			if p.Name != "" {
				v := variant{name: p.Name}
				for _, f := range p.Fields {
					v.named = append(v.named, f.Name)
				}
				add(v)
			}
		case *parse.OrPattern:
			for _, alt := range p.Alts {
				visit(alt)
			}
		case *parse.AtPattern:
			visit(p.Inner)
		}
	}
	for _, arm := range n.Handlers {
		visit(arm.Pattern)
	}
	return vs
}

func (t *Transpiler) actor(e *parse.Expr, n *parse.Actor) {
	ts := t.ts
	enum := messageEnum(n.Name)

	ts.punct("#", "[")
	ts.word("derive")
	ts.punct("(")
	ts.word("Debug")
	ts.punct(",")
	ts.word("Clone")
	ts.punct(")", "]")
	ts.words("pub", "enum", enum)
	ts.punct("{")
	for i, v := range messageVariants(n) {
		if i > 0 {
			ts.punct(",")
		}
		ts.word(v.name)
		switch {
		case v.fields > 0:
			ts.punct("(")
			for j := 0; j < v.fields; j++ {
				if j > 0 {
					ts.punct(",")
				}
				ts.word("i64")
			}
			ts.punct(")")
		case len(v.named) > 0:
			ts.punct("{")
			for j, name := range v.named {
				if j > 0 {
					ts.punct(",")
				}
				ts.word(name)
				ts.punct(":")
				ts.word("i64")
			}
			ts.punct("}")
		}
	}
	ts.punct("}")

	t.attributes(e)
	ts.words("pub", "struct", n.Name)
	t.fields(n.State)

	ts.words("impl", n.Name)
	ts.punct("{")
	ts.words("pub", "fn", "new")
	ts.punct("(", ")", "->")
	ts.word("Self")
	ts.punct("{")
	t.initFields(n.State)
	ts.punct("}")
	for _, m := range n.Methods {
		if f, ok := m.Kind.(*parse.Function); ok {
			t.function(m, f, fnContext{owner: n.Name, implicitSelf: true})
		}
	}
	ts.words("pub", "fn", "handle")
	ts.punct("(")
	ts.prefix("&")
	ts.words("mut", "self")
	ts.punct(",")
	ts.word("msg")
	ts.punct(":")
	ts.word(enum)
	ts.punct(")", "{")
	ts.word("match")
	ts.word("msg")
	ts.punct("{")
	saved := t.msgEnum
	t.msgEnum = enum
	catchAll, guarded := false, false
	for _, arm := range n.Handlers {
		switch arm.Pattern.(type) {
		case *parse.WildcardPattern, *parse.IdentPattern:
			catchAll = true
		}
		t.pattern(arm.Pattern)
		if arm.Guard != nil {
			guarded = true
			ts.word("if")
			t.expr(arm.Guard, precLowest)
		}
		ts.punct("=>")
		t.unitBlock(arm.Body)
	}
	t.msgEnum = saved
	if guarded && !catchAll {
		ts.word("_")
		ts.punct("=>", "{", "}")
	}
	ts.punct("}", "}", "}")
}

// actorName returns the actor a spawn expression starts.
func actorName(e *parse.Expr) string {
	switch n := e.Kind.(type) {
	case *parse.Ident:
		return n.Name
	case *parse.StructLiteral:
		return n.Name
	case *parse.Call:
		if id, ok := n.Func.Kind.(*parse.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func (t *Transpiler) spawn(e *parse.Expr, n *parse.Spawn) {
	name := actorName(n.Actor)
	if t.actors[name] == nil {
		t.fail(e, UnsupportedConstruct, "spawn of something that is not an actor")
	}
	newCall := func() {
		t.ts.path(name, "new")
		t.ts.punct("(", ")")
	}
	switch a := n.Actor.Kind.(type) {
	case *parse.StructLiteral:
		t.structLiteral(a, newCall)
	case *parse.Ident:
		newCall()
	default:
		t.fail(e, UnsupportedConstruct, "spawn with constructor arguments")
	}
}

// actorTarget reports the actor that e refers to, if e is a variable bound
// to a spawned actor.
func (t *Transpiler) actorTarget(e *parse.Expr) (string, bool) {
	id, ok := e.Kind.(*parse.Ident)
	if !ok {
		return "", false
	}
	name, ok := t.actorVars[id.Name]
	return name, ok
}

func (t *Transpiler) send(e *parse.Expr, n *parse.Send) {
	target, ok := t.actorTarget(n.Target)
	if !ok {
		t.fail(e, UnsupportedConstruct, "send to something that is not a spawned actor")
	}
	t.sendMessage(n.Target, target, []*parse.Expr{n.Message})
}

func (t *Transpiler) sendMessage(recv *parse.Expr, actor string, args []*parse.Expr) {
	if len(args) != 1 {
		t.fail(recv, UnsupportedConstruct, "send takes one message")
	}
	ts := t.ts
	t.expr(recv, precPostfix)
	ts.punct(".")
	ts.word("handle")
	ts.punct("(")
	t.message(messageEnum(actor), args[0])
	ts.punct(")")
}

// message lowers a message expression to a variant of the message enum.
func (t *Transpiler) message(enum string, e *parse.Expr) {
	ts := t.ts
	switch n := e.Kind.(type) {
	case *parse.Ident:
		ts.path(enum, n.Name)
	case *parse.Call:
		id, ok := n.Func.Kind.(*parse.Ident)
		if !ok {
			t.fail(e, UnsupportedConstruct, "message cannot be transpiled")
		}
		ts.path(enum, id.Name)
		t.args(n.Args)
	case *parse.StructLiteral:
		lit := *n
		lit.Name = enum + "::" + n.Name
		t.structLiteral(&lit, nil)
	default:
		t.fail(e, UnsupportedConstruct, "message cannot be transpiled")
	}
}
