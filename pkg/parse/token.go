package parse

import (
	"fmt"
	"sort"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// TokenKind is the kind of a Token.
type TokenKind int

// Token kinds.
const (
	EOF TokenKind = iota
	// An illegal character or an unterminated literal. Text is the message.
	ErrorToken
	IdentToken
	Keyword
	Punct
	Int
	Float
	String
	Char
	Atom
	// A loop label like 'outer. Text does not include the quote.
	Label
	// Interpolated strings are split into a synthetic sequence: FStringStart,
	// then alternating FStringText and FStringInterp, then FStringEnd.
	FStringStart
	FStringText
	FStringInterp
	FStringEnd
)

var tokenKindNames = [...]string{
	EOF:           "end of input",
	ErrorToken:    "error",
	IdentToken:    "identifier",
	Keyword:       "keyword",
	Punct:         "punctuation",
	Int:           "integer literal",
	Float:         "float literal",
	String:        "string literal",
	Char:          "char literal",
	Atom:          "atom",
	Label:         "label",
	FStringStart:  "interpolated string",
	FStringText:   "interpolated string text",
	FStringInterp: "interpolation",
	FStringEnd:    "end of interpolated string",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical token.
//
// For identifiers, keywords and punctuation Text is the source text. For
// string, char and interpolated text tokens it is the decoded value. For
// numbers it is the source text with underscores and the suffix removed. For
// FStringInterp it is the source of the embedded expression, and the range
// covers exactly that source.
type Token struct {
	Kind   TokenKind
	Text   string
	Suffix string
	// Format spec of an FStringInterp, without the colon.
	Format string
	diag.Ranging
	// Whether a newline appears between the previous token and this one.
	NewlineBefore bool
	// Comments between the previous token and this one.
	Comments []Comment
	// A comment on the same line after this token.
	Trailing *Comment
}

// Is reports whether the token has the given kind and text.
func (t *Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct reports whether the token is the given punctuation.
func (t *Token) IsPunct(text string) bool { return t.Kind == Punct && t.Text == text }

// IsKeyword reports whether the token is the given keyword.
func (t *Token) IsKeyword(text string) bool { return t.Kind == Keyword && t.Text == text }

func (t *Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case IdentToken, Keyword, Punct, Int, Float:
		return fmt.Sprintf("'%s'", t.Text)
	case String:
		return Quote(t.Text)
	case Label:
		return "'" + t.Text
	case Atom:
		return ":" + t.Text
	}
	return t.Kind.String()
}

// Comment is a source comment.
type Comment struct {
	Text string
	diag.Ranging
	Block bool
	// Doc comments start with "///".
	Doc bool
}

var keywords = map[string]bool{
	"let": true, "mut": true, "fun": true, "fn": true, "if": true,
	"else": true, "match": true, "while": true, "for": true, "in": true,
	"loop": true, "break": true, "continue": true, "return": true,
	"struct": true, "class": true, "enum": true, "trait": true,
	"impl": true, "actor": true, "supervisor": true, "import": true,
	"use": true, "export": true, "pub": true, "async": true,
	"await": true, "spawn": true, "receive": true, "try": true,
	"catch": true, "finally": true, "throw": true, "true": true,
	"false": true, "null": true, "nil": true, "self": true, "Some": true,
	"None": true, "Ok": true, "Err": true, "as": true, "type": true,
	"const": true,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool { return keywords[s] }

// Keywords returns all reserved words in sorted order.
func Keywords() []string {
	ks := make([]string, 0, len(keywords))
	for k := range keywords {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Punctuation, longest first within each length group.
var puncts3 = []string{"...", "..=", "<<=", ">>="}

var puncts2 = []string{
	"..", "=>", "|>", "??", "->", "::", "==", "!=", "<=", ">=", "&&", "||",
	"<<", ">>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "++",
	"--", "<-", "<?",
}

const puncts1 = "+-*/%=<>!&|^~()[]{},;:.?@#"

var intSuffixes = []string{
	"i128", "i64", "i32", "i16", "i8", "isize",
	"u128", "u64", "u32", "u16", "u8", "usize",
}

var floatSuffixes = []string{"f32", "f64"}
