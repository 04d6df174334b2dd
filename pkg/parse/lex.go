package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// Lex splits src into tokens. The last token is always EOF. Lexical errors do
// not stop lexing; they appear in the result as ErrorToken tokens.
func Lex(src string) []Token {
	return lexRange(src, 0, len(src))
}

// lexRange lexes src[from:to], keeping positions relative to the whole of
// src. It is used to re-lex the expression inside an interpolation.
func lexRange(src string, from, to int) []Token {
	lx := &lexer{src: src, pos: from, end: to}
	lx.run()
	return lx.toks
}

type lexer struct {
	src      string
	pos      int
	end      int
	toks     []Token
	comments []Comment
	newline  bool
}

func (lx *lexer) run() {
	if lx.pos == 0 && strings.HasPrefix(lx.src[:lx.end], "#!") {
		lx.skipLine()
	}
	for {
		lx.skipSpaceAndComments()
		if lx.pos >= lx.end {
			lx.emit(Token{Kind: EOF, Ranging: diag.PointRanging(lx.end)})
			return
		}
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:lx.end])
		switch {
		case r == 'f' && lx.peekAt(1) == '"':
			lx.fstring()
		case r == 'r' && (lx.peekAt(1) == '"' || (lx.peekAt(1) == '#' && lx.peekAt(2) == '"')):
			lx.rawString()
		case isIdentStart(r):
			lx.ident()
		case r >= '0' && r <= '9':
			lx.number()
		case r == '"':
			lx.string()
		case r == '\'':
			lx.charOrLabel()
		case r == ':' && lx.peekAt(1) != ':' && isIdentStartByte(lx.peekAt(1)) && !lx.valueEnded():
			lx.atom()
		default:
			if !lx.punct() {
				lx.pos += size
				lx.errorAt(lx.pos-size, fmt.Sprintf("illegal character %q", r))
			}
		}
	}
}

func (lx *lexer) peekAt(i int) byte {
	if lx.pos+i < lx.end {
		return lx.src[lx.pos+i]
	}
	return 0
}

func (lx *lexer) emit(tok Token) {
	tok.NewlineBefore = lx.newline
	tok.Comments = lx.comments
	lx.toks = append(lx.toks, tok)
	lx.comments = nil
	lx.newline = false
}

// errorAt emits an ErrorToken from the given position to the current one.
func (lx *lexer) errorAt(from int, msg string) {
	lx.emit(Token{Kind: ErrorToken, Text: msg, Ranging: diag.Ranging{From: from, To: lx.pos}})
}

// valueEnded reports whether the previous token ends an operand, in which
// case a following ':' is a type annotation or field separator rather than
// the start of an atom.
func (lx *lexer) valueEnded() bool {
	if len(lx.toks) == 0 {
		return false
	}
	last := &lx.toks[len(lx.toks)-1]
	switch last.Kind {
	case IdentToken, Int, Float, String, Char, Atom, FStringEnd:
		return true
	case Keyword:
		switch last.Text {
		case "true", "false", "null", "nil", "self", "None":
			return true
		}
	case Punct:
		return last.Text == ")" || last.Text == "]" || last.Text == "}"
	}
	return false
}

func (lx *lexer) skipLine() {
	for lx.pos < lx.end && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipSpaceAndComments() {
	for lx.pos < lx.end {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.newline = true
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case c == '/' && lx.peekAt(1) == '/':
			start := lx.pos
			lx.skipLine()
			lx.addComment(Comment{
				Text: lx.src[start:lx.pos], Ranging: diag.Ranging{From: start, To: lx.pos},
				Doc: strings.HasPrefix(lx.src[start:lx.pos], "///"),
			})
		case c == '#' && lx.peekAt(1) != '[':
			start := lx.pos
			lx.skipLine()
			lx.addComment(Comment{Text: lx.src[start:lx.pos], Ranging: diag.Ranging{From: start, To: lx.pos}})
		case c == '/' && lx.peekAt(1) == '*':
			start := lx.pos
			lx.pos += 2
			depth := 1
			for lx.pos < lx.end && depth > 0 {
				switch {
				case strings.HasPrefix(lx.src[lx.pos:lx.end], "/*"):
					depth++
					lx.pos += 2
				case strings.HasPrefix(lx.src[lx.pos:lx.end], "*/"):
					depth--
					lx.pos += 2
				default:
					lx.pos++
				}
			}
			if depth > 0 {
				lx.errorAt(start, "unterminated block comment")
				return
			}
			lx.addComment(Comment{
				Text: lx.src[start:lx.pos], Ranging: diag.Ranging{From: start, To: lx.pos}, Block: true,
			})
		default:
			return
		}
	}
}

// A comment on the same line as the previous token trails that token;
// anything else leads the next token.
func (lx *lexer) addComment(c Comment) {
	if !lx.newline && len(lx.toks) > 0 && lx.toks[len(lx.toks)-1].Trailing == nil && !c.Block {
		lx.toks[len(lx.toks)-1].Trailing = &c
		return
	}
	lx.comments = append(lx.comments, c)
}

func (lx *lexer) ident() {
	start := lx.pos
	for lx.pos < lx.end {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:lx.end])
		if !isIdentContinue(r) {
			break
		}
		lx.pos += size
	}
	text := lx.src[start:lx.pos]
	kind := IdentToken
	if keywords[text] {
		kind = Keyword
	}
	lx.emit(Token{Kind: kind, Text: text, Ranging: diag.Ranging{From: start, To: lx.pos}})
}

func (lx *lexer) atom() {
	start := lx.pos
	lx.pos++
	for lx.pos < lx.end {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:lx.end])
		if !isIdentContinue(r) {
			break
		}
		lx.pos += size
	}
	lx.emit(Token{Kind: Atom, Text: lx.src[start+1 : lx.pos], Ranging: diag.Ranging{From: start, To: lx.pos}})
}

func (lx *lexer) number() {
	start := lx.pos
	var digits strings.Builder
	isFloat := false
	afterDot := len(lx.toks) > 0 && lx.toks[len(lx.toks)-1].IsPunct(".")

	scanDigits := func(valid func(byte) bool) {
		for lx.pos < lx.end && (valid(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			if lx.src[lx.pos] != '_' {
				digits.WriteByte(lx.src[lx.pos])
			}
			lx.pos++
		}
	}

	if lx.src[lx.pos] == '0' && strings.ContainsRune("xob", rune(lx.peekAt(1))) {
		prefix := lx.src[lx.pos : lx.pos+2]
		digits.WriteString(prefix)
		lx.pos += 2
		switch prefix[1] {
		case 'x':
			scanDigits(isHexDigit)
		case 'o':
			scanDigits(func(c byte) bool { return c >= '0' && c <= '7' })
		case 'b':
			scanDigits(func(c byte) bool { return c == '0' || c == '1' })
		}
		if digits.Len() == 2 {
			lx.errorAt(start, "missing digits after "+prefix)
			return
		}
	} else {
		scanDigits(isDigit)
		if !afterDot && lx.peekAt(0) == '.' && isDigit(lx.peekAt(1)) {
			isFloat = true
			digits.WriteByte('.')
			lx.pos++
			scanDigits(isDigit)
		}
		if !afterDot && (lx.peekAt(0) == 'e' || lx.peekAt(0) == 'E') &&
			(isDigit(lx.peekAt(1)) || ((lx.peekAt(1) == '+' || lx.peekAt(1) == '-') && isDigit(lx.peekAt(2)))) {
			isFloat = true
			digits.WriteByte('e')
			lx.pos++
			if lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-' {
				digits.WriteByte(lx.src[lx.pos])
				lx.pos++
			}
			scanDigits(isDigit)
		}
	}

	suffix := lx.suffix(floatSuffixes)
	if suffix != "" {
		isFloat = true
	} else if suffix = lx.suffix(intSuffixes); suffix != "" && isFloat {
		lx.errorAt(start, "integer suffix "+suffix+" on float literal")
		return
	}
	kind := Int
	if isFloat {
		kind = Float
	}
	lx.emit(Token{Kind: kind, Text: digits.String(), Suffix: suffix, Ranging: diag.Ranging{From: start, To: lx.pos}})
}

func (lx *lexer) suffix(candidates []string) string {
	rest := lx.src[lx.pos:lx.end]
	for _, s := range candidates {
		if strings.HasPrefix(rest, s) {
			if len(rest) > len(s) {
				r, _ := utf8.DecodeRuneInString(rest[len(s):])
				if isIdentContinue(r) {
					continue
				}
			}
			lx.pos += len(s)
			return s
		}
	}
	return ""
}

func (lx *lexer) string() {
	start := lx.pos
	lx.pos++
	var sb strings.Builder
	for {
		if lx.pos >= lx.end {
			lx.errorAt(start, "unterminated string literal")
			return
		}
		c := lx.src[lx.pos]
		if c == '"' {
			lx.pos++
			break
		}
		if c == '\\' {
			if !lx.escape(&sb) {
				return
			}
			continue
		}
		sb.WriteByte(c)
		lx.pos++
	}
	lx.emit(Token{Kind: String, Text: sb.String(), Ranging: diag.Ranging{From: start, To: lx.pos}})
}

func (lx *lexer) rawString() {
	start := lx.pos
	lx.pos++ // r
	hashes := 0
	for lx.peekAt(0) == '#' {
		hashes++
		lx.pos++
	}
	lx.pos++ // "
	closing := "\"" + strings.Repeat("#", hashes)
	i := strings.Index(lx.src[lx.pos:lx.end], closing)
	if i == -1 {
		lx.pos = lx.end
		lx.errorAt(start, "unterminated raw string literal")
		return
	}
	text := lx.src[lx.pos : lx.pos+i]
	lx.pos += i + len(closing)
	lx.emit(Token{Kind: String, Text: text, Ranging: diag.Ranging{From: start, To: lx.pos}})
}

// escape decodes the escape sequence at lx.pos into sb. On an invalid
// sequence it emits an ErrorToken, skips the sequence and still returns true
// so that the literal is lexed to its end; it returns false only when the
// input ends.
func (lx *lexer) escape(sb *strings.Builder) bool {
	start := lx.pos
	lx.pos++
	if lx.pos >= lx.end {
		lx.errorAt(start, "unterminated escape sequence")
		return false
	}
	c := lx.src[lx.pos]
	lx.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\\', '"', '\'', '{', '}':
		sb.WriteByte(c)
	case '\n':
		// Line continuation: skip leading whitespace on the next line.
		for lx.pos < lx.end && (lx.src[lx.pos] == ' ' || lx.src[lx.pos] == '\t') {
			lx.pos++
		}
	case 'x':
		if lx.pos+2 > lx.end || !isHexDigit(lx.src[lx.pos]) || !isHexDigit(lx.src[lx.pos+1]) {
			lx.errorAt(start, "invalid \\x escape")
			return true
		}
		v, _ := strconv.ParseUint(lx.src[lx.pos:lx.pos+2], 16, 8)
		sb.WriteByte(byte(v))
		lx.pos += 2
	case 'u':
		if lx.peekAt(0) != '{' {
			lx.errorAt(start, "invalid \\u escape, want \\u{...}")
			return true
		}
		closing := strings.IndexByte(lx.src[lx.pos:lx.end], '}')
		if closing == -1 {
			lx.errorAt(start, "unterminated \\u escape")
			return true
		}
		hex := lx.src[lx.pos+1 : lx.pos+closing]
		lx.pos += closing + 1
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			lx.errorAt(start, "invalid unicode escape")
			return true
		}
		sb.WriteRune(rune(v))
	default:
		lx.errorAt(start, fmt.Sprintf("invalid escape sequence \\%c", c))
	}
	return true
}

func (lx *lexer) charOrLabel() {
	start := lx.pos
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos+1 : lx.end])
	if isIdentStart(r) && lx.peekAt(1+size) != '\'' {
		lx.pos += 1 + size
		for lx.pos < lx.end {
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:lx.end])
			if !isIdentContinue(r) {
				break
			}
			lx.pos += size
		}
		lx.emit(Token{Kind: Label, Text: lx.src[start+1 : lx.pos], Ranging: diag.Ranging{From: start, To: lx.pos}})
		return
	}
	lx.pos++
	var sb strings.Builder
	if lx.peekAt(0) == '\\' {
		if !lx.escape(&sb) {
			return
		}
	} else if lx.pos < lx.end {
		sb.WriteRune(r)
		lx.pos += size
	}
	if lx.peekAt(0) != '\'' || utf8.RuneCountInString(sb.String()) != 1 {
		lx.skipLine()
		lx.errorAt(start, "unterminated char literal")
		return
	}
	lx.pos++
	lx.emit(Token{Kind: Char, Text: sb.String(), Ranging: diag.Ranging{From: start, To: lx.pos}})
}

func (lx *lexer) punct() bool {
	rest := lx.src[lx.pos:lx.end]
	for _, group := range [][]string{puncts3, puncts2} {
		for _, p := range group {
			if strings.HasPrefix(rest, p) {
				lx.emitPunct(p)
				return true
			}
		}
	}
	if strings.IndexByte(puncts1, rest[0]) != -1 {
		lx.emitPunct(rest[:1])
		return true
	}
	return false
}

func (lx *lexer) emitPunct(p string) {
	lx.emit(Token{Kind: Punct, Text: p, Ranging: diag.Ranging{From: lx.pos, To: lx.pos + len(p)}})
	lx.pos += len(p)
}

func (lx *lexer) fstring() {
	start := lx.pos
	lx.pos += 2
	lx.emit(Token{Kind: FStringStart, Ranging: diag.Ranging{From: start, To: lx.pos}})
	var sb strings.Builder
	textStart := lx.pos
	flushText := func() {
		if sb.Len() > 0 {
			lx.emit(Token{Kind: FStringText, Text: sb.String(), Ranging: diag.Ranging{From: textStart, To: lx.pos}})
			sb.Reset()
		}
	}
	for {
		if lx.pos >= lx.end {
			lx.errorAt(start, "unterminated string literal")
			return
		}
		c := lx.src[lx.pos]
		switch {
		case c == '"':
			flushText()
			lx.emit(Token{Kind: FStringEnd, Ranging: diag.Ranging{From: lx.pos, To: lx.pos + 1}})
			lx.pos++
			return
		case c == '\\':
			if !lx.escape(&sb) {
				return
			}
		case c == '{' && lx.peekAt(1) == '{', c == '}' && lx.peekAt(1) == '}':
			sb.WriteByte(c)
			lx.pos += 2
		case c == '{':
			flushText()
			if !lx.interpolation() {
				return
			}
			textStart = lx.pos
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
}

// interpolation lexes "{expr}" or "{expr:format}" at lx.pos.
func (lx *lexer) interpolation() bool {
	open := lx.pos
	lx.pos++
	exprStart := lx.pos
	depth := 0
	colon := -1
	for {
		if lx.pos >= lx.end {
			lx.errorAt(open, "unterminated interpolation")
			return false
		}
		c := lx.src[lx.pos]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				exprEnd := lx.pos
				format := ""
				if colon != -1 {
					exprEnd = colon
					format = lx.src[colon+1 : lx.pos]
				}
				lx.pos++
				if strings.TrimSpace(lx.src[exprStart:exprEnd]) == "" {
					lx.errorAt(open, "empty interpolation")
					return true
				}
				lx.emit(Token{
					Kind: FStringInterp, Text: lx.src[exprStart:exprEnd], Format: format,
					Ranging: diag.Ranging{From: exprStart, To: exprEnd},
				})
				return true
			}
			depth--
		case '"':
			// Skip a nested string literal.
			lx.pos++
			for lx.pos < lx.end && lx.src[lx.pos] != '"' {
				if lx.src[lx.pos] == '\\' {
					lx.pos++
				}
				lx.pos++
			}
		case ':':
			if depth == 0 && colon == -1 && lx.peekAt(1) != ':' && lx.src[lx.pos-1] != ':' {
				colon = lx.pos
			}
		}
		lx.pos++
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
