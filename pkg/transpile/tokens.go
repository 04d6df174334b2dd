package transpile

import (
	"strings"
)

// TokenKind classifies a Rust token.
type TokenKind int

const (
	Ident TokenKind = iota
	Keyword
	Literal
	Punct
	Lifetime
	// A prefix operator: unary -, !, &, *.
	Prefix
	// Angle brackets of generic arguments and parameters.
	GenericOpen
	GenericClose
	// The | delimiters of closure parameters.
	ClosureBar
)

// Token is a single Rust token.
type Token struct {
	Kind TokenKind
	Text string
}

// TokenStream is the output of the transpiler: a flat sequence of Rust
// tokens.
type TokenStream struct {
	toks []Token
}

// Tokens returns the tokens of the stream.
func (ts *TokenStream) Tokens() []Token { return ts.toks }

// Len returns the number of tokens.
func (ts *TokenStream) Len() int { return len(ts.toks) }

// String joins the tokens with single spaces, the way a proc-macro token
// stream prints.
func (ts *TokenStream) String() string {
	texts := make([]string, len(ts.toks))
	for i, tok := range ts.toks {
		texts[i] = tok.Text
	}
	return strings.Join(texts, " ")
}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "self": true,
	"Self": true, "static": true, "struct": true, "super": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true,
}

func (ts *TokenStream) push(kind TokenKind, text string) {
	ts.toks = append(ts.toks, Token{kind, text})
}

// word appends an identifier or keyword.
func (ts *TokenStream) word(s string) {
	if rustKeywords[s] {
		ts.push(Keyword, s)
	} else {
		ts.push(Ident, s)
	}
}

// words appends several identifiers or keywords.
func (ts *TokenStream) words(ss ...string) {
	for _, s := range ss {
		ts.word(s)
	}
}

func (ts *TokenStream) punct(ss ...string) {
	for _, s := range ss {
		ts.push(Punct, s)
	}
}

func (ts *TokenStream) lit(s string) { ts.push(Literal, s) }

func (ts *TokenStream) prefix(s string) { ts.push(Prefix, s) }

// path appends a :: separated path.
func (ts *TokenStream) path(segs ...string) {
	for i, s := range segs {
		if i > 0 {
			ts.punct("::")
		}
		ts.word(s)
	}
}

// extend appends the tokens of another stream.
func (ts *TokenStream) extend(other *TokenStream) {
	ts.toks = append(ts.toks, other.toks...)
}

// Format pretty-prints the stream as Rust source: four-space indentation,
// one statement per line, and the usual spacing around punctuation.
func (ts *TokenStream) Format() string {
	f := formatter{toks: ts.toks}
	f.run()
	return strings.TrimRight(f.sb.String(), "\n ") + "\n"
}

type formatter struct {
	toks []Token
	sb   strings.Builder
	// Open delimiters, innermost last.
	stack  []string
	indent int
	// Whether the current line has text after the indentation.
	lineStarted bool
	// Whether the next token is written without a space before it.
	glue bool
	// Whether the next closure bar opens a parameter list.
	barOpen bool
}

func (f *formatter) newline() {
	f.sb.WriteByte('\n')
	f.lineStarted = false
	f.glue = false
}

func (f *formatter) write(s string, spaceBefore bool) {
	if !f.lineStarted {
		f.sb.WriteString(strings.Repeat("    ", f.indent))
		f.lineStarted = true
	} else if spaceBefore && !f.glue {
		f.sb.WriteByte(' ')
	}
	f.sb.WriteString(s)
	f.glue = false
}

func (f *formatter) inBraces() bool {
	return len(f.stack) == 0 || f.stack[len(f.stack)-1] == "{"
}

func (f *formatter) peek(i int) Token {
	if i < len(f.toks) {
		return f.toks[i]
	}
	return Token{Kind: Punct}
}

func (f *formatter) run() {
	f.barOpen = true
	var prev Token
	for i, tok := range f.toks {
		switch {
		case tok.Kind == Punct && tok.Text == "{":
			if f.peek(i+1).Text == "}" && f.peek(i+1).Kind == Punct {
				f.write("{", true)
				f.stack = append(f.stack, "{")
				break
			}
			f.write("{", true)
			f.stack = append(f.stack, "{")
			f.indent++
			f.newline()
		case tok.Kind == Punct && tok.Text == "}":
			empty := prev.Kind == Punct && prev.Text == "{"
			if len(f.stack) > 0 {
				f.stack = f.stack[:len(f.stack)-1]
			}
			if empty {
				f.write("}", false)
			} else {
				f.indent--
				if f.lineStarted {
					f.newline()
				}
				f.write("}", false)
			}
			next := f.peek(i + 1)
			if i+1 < len(f.toks) && f.inBraces() &&
				!(next.Kind == Punct && (next.Text == ";" || next.Text == "," || next.Text == ")" || next.Text == "." || next.Text == "?")) &&
				!(next.Kind == Keyword && (next.Text == "else" || next.Text == "as")) {
				f.newline()
			}
		case tok.Kind == Punct && (tok.Text == ";" || tok.Text == ","):
			f.write(tok.Text, false)
			if f.inBraces() && i+1 < len(f.toks) && f.peek(i+1).Text != "}" {
				f.newline()
			}
		case tok.Kind == Punct && (tok.Text == "(" || tok.Text == "["):
			f.write(tok.Text, !callLike(prev))
			if prev.Kind == Punct && prev.Text == "#" {
				f.stack = append(f.stack, "#[")
			} else {
				f.stack = append(f.stack, tok.Text)
			}
			f.glue = true
		case tok.Kind == Punct && (tok.Text == ")" || tok.Text == "]"):
			attr := false
			if len(f.stack) > 0 {
				attr = f.stack[len(f.stack)-1] == "#["
				f.stack = f.stack[:len(f.stack)-1]
			}
			f.write(tok.Text, false)
			if attr {
				f.newline()
			}
		case tok.Kind == Punct && (tok.Text == "." || tok.Text == "::" || tok.Text == ".." || tok.Text == "..="):
			f.write(tok.Text, false)
			f.glue = true
		case tok.Kind == Punct && (tok.Text == "?" || tok.Text == ":"):
			f.write(tok.Text, false)
		case tok.Kind == Punct && tok.Text == "!":
			// Only macro bangs are Punct; negation is Prefix.
			f.write("!", false)
			f.glue = true
		case tok.Kind == Punct && tok.Text == "#":
			f.write("#", true)
			f.glue = true
		case tok.Kind == Prefix:
			f.write(tok.Text, !(prev.Kind == Prefix || isOpen(prev)))
			f.glue = true
		case tok.Kind == GenericOpen:
			f.write("<", false)
			f.glue = true
		case tok.Kind == GenericClose:
			f.write(">", false)
		case tok.Kind == ClosureBar:
			if f.barOpen {
				f.write("|", !(prev.Kind == ClosureBar || isOpen(prev)))
				f.glue = true
			} else {
				f.write("|", false)
			}
			f.barOpen = !f.barOpen
		case tok.Kind == Lifetime:
			f.write(tok.Text, !(prev.Kind == Prefix))
		default:
			f.write(tok.Text, true)
		}
		prev = tok
	}
}

// callLike reports whether an opening delimiter after prev is a call or an
// index, written without a space.
func callLike(prev Token) bool {
	switch prev.Kind {
	case Ident, GenericClose:
		return true
	case Keyword:
		return prev.Text == "self" || prev.Text == "Self"
	case Punct:
		switch prev.Text {
		case ")", "]", "!", "#":
			return true
		}
	}
	return false
}

func isOpen(t Token) bool {
	return t.Kind == Punct && (t.Text == "(" || t.Text == "[")
}
