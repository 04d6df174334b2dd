package eval

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func init() {
	addMethods("string", map[string]any{
		"len":          func(s string) int { return utf8.RuneCountInString(s) },
		"is_empty":     func(s string) bool { return s == "" },
		"to_upper":     strings.ToUpper,
		"to_uppercase": strings.ToUpper,
		"to_lower":     strings.ToLower,
		"to_lowercase": strings.ToLower,
		"trim":         strings.TrimSpace,
		"trim_start":   func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) },
		"trim_end":     func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) },
		"contains":     strings.Contains,
		"starts_with":  strings.HasPrefix,
		"ends_with":    strings.HasSuffix,
		"replace":      func(s, old, repl string) string { return strings.ReplaceAll(s, old, repl) },
		"repeat": func(s string, n int64) (string, error) {
			if n < 0 {
				return "", errs.BadValue{What: "repeat count", Valid: "non-negative", Actual: strconv.FormatInt(n, 10)}
			}
			return strings.Repeat(s, int(n)), nil
		},
		"split": func(s string, sep ...string) []string {
			if len(sep) == 0 {
				return strings.Fields(s)
			}
			return strings.Split(s, sep[0])
		},
		"split_whitespace": strings.Fields,
		"lines": func(s string) []string {
			lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
			for i, line := range lines {
				lines[i] = strings.TrimSuffix(line, "\r")
			}
			if s == "" {
				return nil
			}
			return lines
		},
		"chars": func(s string) []string {
			var out []string
			for _, r := range s {
				out = append(out, string(r))
			}
			return out
		},
		"bytes": func(s string) vals.List {
			l := vals.EmptyList
			for i := 0; i < len(s); i++ {
				l = l.Cons(int64(s[i]))
			}
			return l
		},
		"find": func(s, sub string) any {
			i := strings.Index(s, sub)
			if i < 0 {
				return vals.None
			}
			return vals.MakeSome(int64(utf8.RuneCountInString(s[:i])))
		},
		"char_at": func(s string, i int64) any {
			rs := []rune(s)
			if i < 0 || i >= int64(len(rs)) {
				return vals.None
			}
			return vals.MakeSome(string(rs[i]))
		},
		"substring": func(s string, start, end int64) (string, error) {
			rs := []rune(s)
			i, j, err := vals.ConvertSlice(&start, &end, false, len(rs))
			if err != nil {
				return "", err
			}
			return string(rs[i:j]), nil
		},
		"reverse": func(s string) string {
			rs := []rune(s)
			for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
				rs[i], rs[j] = rs[j], rs[i]
			}
			return string(rs)
		},
		"capitalize": func(s string) string {
			r, size := utf8.DecodeRuneInString(s)
			if size == 0 {
				return s
			}
			return string(unicode.ToUpper(r)) + s[size:]
		},
		"is_numeric": func(s string) bool {
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return err == nil
		},
		"is_alphabetic": func(s string) bool { return s != "" && strings.IndexFunc(s, notLetter) < 0 },
		"is_digit": func(s string) bool {
			return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
		},
		"is_whitespace": func(s string) bool { return s != "" && strings.TrimSpace(s) == "" },
		"parse":         parseString,
		"to_int":        parseString,
		"to_float": func(s string) any {
			f, err := parseFloat(s)
			if err != nil {
				return vals.MakeErr(err.Error())
			}
			return vals.MakeOk(f)
		},
		"pad_start": func(s string, width int64, fill ...string) string {
			return padString(s, width, fill, true)
		},
		"pad_end": func(s string, width int64, fill ...string) string {
			return padString(s, width, fill, false)
		},
		"format": format,
	})
	addMutators("string", map[string]any{
		"push_str": func(s, t string) (string, any) { return s + t, nil },
		"push":     func(s, t string) (string, any) { return s + t, nil },
		"clear":    func(s string) (string, any) { return "", nil },
	})
}

func notLetter(r rune) bool { return !unicode.IsLetter(r) }

// parseString parses an integer, or a float if the string is not an
// integer, as a Result.
func parseString(s string) any {
	if i, err := parseInt(s); err == nil {
		return vals.MakeOk(i)
	}
	if f, err := parseFloat(s); err == nil {
		return vals.MakeOk(f)
	}
	return vals.MakeErr("invalid number: " + strconv.Quote(s))
}

func padString(s string, width int64, fill []string, start bool) string {
	f := " "
	if len(fill) > 0 && fill[0] != "" {
		f = fill[0]
	}
	n := int(width) - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	padding := strings.Repeat(f, n)
	padding = string([]rune(padding)[:n])
	if start {
		return padding + s
	}
	return s + padding
}
