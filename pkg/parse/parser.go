// Package parse implements the Ruchy lexer and parser.
//
// The parser turns a token stream into a tree of *Expr. Expressions are
// parsed with a Pratt parser driven by a precedence table; declarations and
// control flow are parsed by recursive descent. Syntax errors do not stop
// parsing: the parser records the error, skips to the next statement boundary
// and continues, so that all errors of a source are reported together.
package parse

import (
	"fmt"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
)

var logger = logutil.GetLogger("[parse] ")

// Error kinds.
const (
	IllegalCharacter    = "IllegalCharacter"
	UnterminatedString  = "UnterminatedString"
	UnexpectedToken     = "UnexpectedToken"
	ExpectedConstruct   = "ExpectedConstruct"
	UnbalancedDelimiter = "UnbalancedDelimiter"
)

// Parsing stops collecting errors after this many, to avoid cascades.
const maxErrors = 64

// Parser parses one source.
type Parser struct {
	src  Source
	toks []Token
	pos  int
	errs *[]*diag.Error
	// Disables struct literals, for the headers of if, while, for and match.
	noStructLit bool
	// Disables or-patterns, for lambda parameters.
	noOrPattern bool
}

// bailout is used to unwind out of a failed construct; it is recovered at the
// nearest statement boundary.
type bailout struct{}

// New creates a Parser for code, using "[input]" as the source name.
func New(code string) *Parser {
	return NewFromSource(Source{Name: "[input]", Code: code})
}

// NewFromSource creates a Parser for a named source.
func NewFromSource(src Source) *Parser {
	p := &Parser{src: src, errs: new([]*diag.Error)}
	p.toks = p.filterErrors(Lex(src.Code))
	return p
}

// Parse parses the source as a program: a possibly empty sequence of
// expressions separated by newlines or semicolons. The result is always a
// *Block. When there are syntax errors, the returned error is a
// diag.MultiError of all of them and the tree contains what could be parsed.
func (p *Parser) Parse() (*Expr, error) {
	items := p.parseItems("")
	root := &Expr{Kind: &Block{Exprs: nestLets(items)}, Ranging: diag.Ranging{From: 0, To: len(p.src.Code)}}
	err := diag.PackErrors(*p.errs)
	if err != nil {
		logger.Printf("%s: %d syntax errors", p.src.Name, len(*p.errs))
	}
	return root, err
}

// Parse parses a Source into a Tree.
func Parse(src Source) (Tree, error) {
	root, err := NewFromSource(src).Parse()
	return Tree{root, src}, err
}

// ParseExpr parses code that must consist of exactly one expression.
func ParseExpr(code string) (*Expr, error) {
	p := New(code)
	var e *Expr
	func() {
		defer p.recoverBailout()
		e = p.parseExpr()
		if p.tok().Kind != EOF {
			p.fail(p.tok(), UnexpectedToken, "unexpected %s after expression", p.tok())
		}
	}()
	return e, diag.PackErrors(*p.errs)
}

// filterErrors reports lexical errors and removes them from the token
// stream, carrying their newline and comment information over.
func (p *Parser) filterErrors(toks []Token) []Token {
	out := toks[:0]
	newline := false
	var comments []Comment
	for _, tok := range toks {
		if tok.Kind == ErrorToken {
			kind := IllegalCharacter
			if strings.HasPrefix(tok.Text, "unterminated") {
				kind = UnterminatedString
			}
			p.errorf(tok.Ranging, kind, "%s", tok.Text)
			newline = newline || tok.NewlineBefore
			comments = append(comments, tok.Comments...)
			continue
		}
		if newline {
			tok.NewlineBefore = true
			newline = false
		}
		if comments != nil {
			tok.Comments = append(comments, tok.Comments...)
			comments = nil
		}
		out = append(out, tok)
	}
	return out
}

func (p *Parser) subParser(from, to int) *Parser {
	sub := &Parser{src: p.src, errs: p.errs}
	sub.toks = sub.filterErrors(lexRange(p.src.Code, from, to))
	return sub
}

// Token navigation.

func (p *Parser) tok() *Token { return &p.toks[p.pos] }

func (p *Parser) peek(n int) *Token {
	if p.pos+n < len(p.toks) {
		return &p.toks[p.pos+n]
	}
	return &p.toks[len(p.toks)-1]
}

func (p *Parser) next() *Token {
	tok := &p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].To
}

func (p *Parser) atPunct(s string) bool   { return p.tok().IsPunct(s) }
func (p *Parser) atKeyword(s string) bool { return p.tok().IsKeyword(s) }

func (p *Parser) acceptPunct(s string) bool {
	if p.atPunct(s) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) acceptKeyword(s string) bool {
	if p.atKeyword(s) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expectPunct(s string) *Token {
	if p.atPunct(s) {
		return p.next()
	}
	kind := ExpectedConstruct
	if p.tok().Kind == EOF && strings.Contains(")]}", s) {
		kind = UnbalancedDelimiter
	}
	p.fail(p.tok(), kind, "expected '%s', found %s", s, p.tok())
	return nil
}

func (p *Parser) expectKeyword(s string) *Token {
	if p.atKeyword(s) {
		return p.next()
	}
	p.fail(p.tok(), ExpectedConstruct, "expected '%s', found %s", s, p.tok())
	return nil
}

// expectName accepts an identifier, and also keywords where a name is
// unambiguous, like after a dot.
func (p *Parser) expectName(what string) string {
	tok := p.tok()
	if tok.Kind == IdentToken {
		p.next()
		return tok.Text
	}
	p.fail(tok, ExpectedConstruct, "expected %s, found %s", what, tok)
	return ""
}

// Errors.

func (p *Parser) errorf(r diag.Ranger, kind, format string, args ...any) {
	if len(*p.errs) >= maxErrors {
		return
	}
	*p.errs = append(*p.errs, &diag.Error{
		Type:    kind,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(p.src.Name, p.src.Code, r),
	})
}

func (p *Parser) fail(r diag.Ranger, kind, format string, args ...any) {
	p.errorf(r, kind, format, args...)
	panic(bailout{})
}

func (p *Parser) recoverBailout() {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
	}
}

// Top-level keywords that start a new statement when recovering.
var syncKeywords = map[string]bool{
	"let": true, "fun": true, "fn": true, "struct": true, "class": true,
	"enum": true, "trait": true, "impl": true, "actor": true,
	"supervisor": true, "import": true, "use": true, "export": true,
	"pub": true,
}

// synchronize skips tokens until a statement boundary: just after a ';', at
// a '}' that closes the enclosing block, or at a top-level keyword starting
// a new line.
func (p *Parser) synchronize(start int) {
	if p.pos == start {
		p.next()
	}
	depth := 0
	for {
		tok := p.tok()
		switch {
		case tok.Kind == EOF:
			return
		case tok.IsPunct(";") && depth == 0:
			p.next()
			return
		case tok.IsPunct("{") || tok.IsPunct("(") || tok.IsPunct("["):
			depth++
		case tok.IsPunct("}") || tok.IsPunct(")") || tok.IsPunct("]"):
			if depth == 0 {
				if tok.IsPunct("}") {
					return
				}
			} else {
				depth--
			}
		case tok.Kind == Keyword && syncKeywords[tok.Text] && tok.NewlineBefore && depth == 0:
			return
		}
		p.next()
	}
}

// Statement sequences.

// parseItems parses items until closer ("}" for blocks, "" for the whole
// program). It does not consume the closer.
func (p *Parser) parseItems(closer string) []*Expr {
	var items []*Expr
	atEnd := func() bool {
		return p.tok().Kind == EOF || (closer != "" && p.atPunct(closer))
	}
	for {
		for p.atPunct(";") {
			p.next()
		}
		if atEnd() {
			return items
		}
		item := p.parseItemSafe()
		if item == nil {
			continue
		}
		items = append(items, item)
		switch {
		case p.atPunct(";"):
			semi := p.next()
			if atEnd() {
				items = append(items, &Expr{Kind: &UnitLit{}, Ranging: semi.Ranging})
				return items
			}
		case atEnd(), p.tok().NewlineBefore, endsWithBrace(item):
		default:
			p.errorf(p.tok(), UnexpectedToken, "expected ';' or newline, found %s", p.tok())
			p.synchronize(p.pos)
		}
	}
}

func (p *Parser) parseItemSafe() (item *Expr) {
	start := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize(start)
			item = nil
		}
	}()
	first := p.tok()
	item = p.parseItem()
	if len(first.Comments) > 0 && len(item.Comments) == 0 {
		item.Comments = first.Comments
	}
	if p.pos > 0 {
		item.Trailing = p.toks[p.pos-1].Trailing
	}
	return item
}

func (p *Parser) parseItem() *Expr {
	if p.atPunct("#") {
		return p.parseAttributed()
	}
	return p.parseExpr()
}

// endsWithBrace reports whether an item ends with a block, so that it can be
// followed by another item on the same line without a separator.
func endsWithBrace(e *Expr) bool {
	switch n := e.Kind.(type) {
	case *Block, *If, *IfLet, *Match, *While, *WhileLet, *Loop, *For,
		*Function, *StructDecl, *Class, *Enum, *Trait, *Impl, *Actor,
		*Supervisor, *TryCatch, *AsyncBlock, *Receive:
		return true
	case *Let:
		return n.Body == nil && n.Else != nil
	case *LetPattern:
		return n.Body == nil && n.Else != nil
	case *Export:
		return n.Decl != nil && endsWithBrace(n.Decl)
	}
	return false
}

// nestLets makes every let that is followed by more items own those items as
// its body.
func nestLets(items []*Expr) []*Expr {
	for i, item := range items {
		if i == len(items)-1 {
			break
		}
		rest := items[i+1:]
		switch n := item.Kind.(type) {
		case *Let:
			if n.Body == nil {
				n.Body = blockOf(rest)
				item.Ranging.To = n.Body.To
				return items[:i+1]
			}
		case *LetPattern:
			if n.Body == nil {
				n.Body = blockOf(rest)
				item.Ranging.To = n.Body.To
				return items[:i+1]
			}
		}
	}
	return items
}

func blockOf(items []*Expr) *Expr {
	return &Expr{
		Kind:    &Block{Exprs: nestLets(items)},
		Ranging: diag.Ranging{From: items[0].From, To: items[len(items)-1].To},
	}
}

// parseBlock parses { items }.
func (p *Parser) parseBlock() *Expr {
	open := p.expectPunct("{")
	saved := p.noStructLit
	p.noStructLit = false
	items := p.parseItems("}")
	p.noStructLit = saved
	closeTok := p.expectPunct("}")
	return &Expr{Kind: &Block{Exprs: nestLets(items)}, Ranging: diag.Ranging{From: open.From, To: closeTok.To}}
}

func (p *Parser) newExpr(from int, n Node) *Expr {
	return &Expr{Kind: n, Ranging: diag.Ranging{From: from, To: p.prevEnd()}}
}

func (p *Parser) rangeFrom(from int) diag.Ranging {
	return diag.Ranging{From: from, To: p.prevEnd()}
}
