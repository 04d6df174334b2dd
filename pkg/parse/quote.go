package parse

import (
	"fmt"
	"strings"
	"unicode"
)

// Quote returns a string literal that evaluates to s.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	writeEscaped(&sb, s, false)
	sb.WriteByte('"')
	return sb.String()
}

// QuoteChar returns a char literal for r.
func QuoteChar(r rune) string {
	if r == '\'' {
		return `'\''`
	}
	var sb strings.Builder
	sb.WriteByte('\'')
	writeEscaped(&sb, string(r), false)
	sb.WriteByte('\'')
	return sb.String()
}

// writeEscaped writes s escaped for use inside a string literal. If braces
// is true, '{' and '}' are doubled as in interpolated strings.
func writeEscaped(sb *strings.Builder, s string, braces bool) {
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		case '{', '}':
			sb.WriteRune(r)
			if braces {
				sb.WriteRune(r)
			}
		default:
			if unicode.IsPrint(r) {
				sb.WriteRune(r)
			} else {
				fmt.Fprintf(sb, `\u{%x}`, r)
			}
		}
	}
}

// IsIdent reports whether s can be written as a bare identifier.
func IsIdent(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentContinue(r) {
			return false
		}
	}
	return true
}
