package eval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// formatOpts is a parsed format spec like ">8", "08.3", ".2" or "?", with
// the syntax [[fill]align][sign][#][0][width][.precision][type].
type formatOpts struct {
	fill      rune
	align     byte
	sign      bool
	alternate bool
	zero      bool
	width     int
	precision int
	typ       byte
}

var errBadFormat = errors.New("invalid format spec")

func parseFormatSpec(spec string) (formatOpts, error) {
	o := formatOpts{fill: ' ', precision: -1}
	rest := spec
	if r, size := utf8.DecodeRuneInString(rest); size > 0 && len(rest) > size && isAlign(rest[size]) {
		o.fill, o.align = r, rest[size]
		rest = rest[size+1:]
	} else if len(rest) > 0 && isAlign(rest[0]) {
		o.align = rest[0]
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "+") {
		o.sign = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "-") {
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "#") {
		o.alternate = true
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "0") {
		o.zero = true
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i > 0 {
		o.width, _ = strconv.Atoi(rest[:i])
		rest = rest[i:]
	}
	if strings.HasPrefix(rest, ".") {
		rest = rest[1:]
		i = 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return o, errBadFormat
		}
		o.precision, _ = strconv.Atoi(rest[:i])
		rest = rest[i:]
	}
	switch rest {
	case "":
	case "?", "x", "X", "o", "b", "e", "E":
		o.typ = rest[0]
	case "#?":
		o.typ, o.alternate = '?', true
	default:
		return o, errBadFormat
	}
	return o, nil
}

func isAlign(b byte) bool { return b == '<' || b == '^' || b == '>' }

// formatSpec formats v according to a format spec, without the leading
// colon.
func formatSpec(v any, spec string) (string, error) {
	o, err := parseFormatSpec(spec)
	if err != nil {
		return "", fmt.Errorf("%w %q", err, spec)
	}
	return formatWith(v, o)
}

func formatWith(v any, o formatOpts) (string, error) {
	var s string
	numeric := false
	switch o.typ {
	case '?':
		if o.alternate {
			s = vals.Repr(v, 0)
		} else {
			s = vals.ReprPlain(v)
		}
	case 'x', 'X', 'o', 'b':
		i, ok := v.(int64)
		if !ok {
			return "", fmt.Errorf("format type %c needs an integer, got %s", o.typ, vals.Kind(v))
		}
		base := map[byte]int{'x': 16, 'X': 16, 'o': 8, 'b': 2}[o.typ]
		s = strconv.FormatUint(uint64(i), base)
		if o.typ == 'X' {
			s = strings.ToUpper(s)
		}
		if o.alternate {
			s = map[byte]string{'x': "0x", 'X': "0x", 'o': "0o", 'b': "0b"}[o.typ] + s
		}
		numeric = true
	case 'e', 'E':
		f, err := vals.AsFloat(v)
		if err != nil {
			return "", err
		}
		s = strconv.FormatFloat(f, 'e', o.precision, 64)
		// Rust writes 1.5e2 rather than 1.5e+02.
		if mant, exp, ok := strings.Cut(s, "e"); ok {
			n, _ := strconv.Atoi(exp)
			s = mant + "e" + strconv.Itoa(n)
		}
		if o.typ == 'E' {
			s = strings.ToUpper(s)
		}
		numeric = true
	default:
		switch x := v.(type) {
		case int64:
			if o.precision >= 0 {
				s = strconv.FormatInt(x, 10)
			} else {
				s = vals.ToString(x)
			}
			numeric = true
		case float64:
			if o.precision >= 0 {
				s = strconv.FormatFloat(x, 'f', o.precision, 64)
			} else {
				s = vals.ToString(x)
			}
			numeric = true
		case string:
			s = x
			if o.precision >= 0 && utf8.RuneCountInString(s) > o.precision {
				s = string([]rune(s)[:o.precision])
			}
		default:
			s = vals.ToString(v)
		}
	}
	if numeric && o.sign && !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return pad(s, o, numeric), nil
}

func pad(s string, o formatOpts, numeric bool) string {
	n := utf8.RuneCountInString(s)
	if n >= o.width {
		return s
	}
	gap := o.width - n
	if o.zero && numeric && o.align == 0 {
		sign := ""
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			sign, s = s[:1], s[1:]
		}
		prefix := ""
		if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xob", rune(s[1])) {
			prefix, s = s[:2], s[2:]
		}
		return sign + prefix + strings.Repeat("0", gap) + s
	}
	align := o.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	fill := string(o.fill)
	switch align {
	case '>':
		return strings.Repeat(fill, gap) + s
	case '^':
		left := gap / 2
		return strings.Repeat(fill, left) + s + strings.Repeat(fill, gap-left)
	default:
		return s + strings.Repeat(fill, gap)
	}
}

// formatString expands a format string like "{} is {:.2}". Placeholders
// take the next argument, an explicit position like {0}, or a variable in
// scope like {name}. Braces are escaped by doubling.
func (fm *Frame) formatString(tmpl string, args []any) (string, error) {
	var sb strings.Builder
	next := 0
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tmpl[i:], "{{"):
			sb.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(tmpl[i:], "}}"):
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder in format string %q", tmpl)
			}
			inner := tmpl[i+1 : i+end]
			i += end
			name, spec, _ := strings.Cut(inner, ":")
			var v any
			switch {
			case name == "":
				if next >= len(args) {
					return "", fmt.Errorf("format string %q needs more than %d arguments", tmpl, len(args))
				}
				v = args[next]
				next++
			case name[0] >= '0' && name[0] <= '9':
				pos, err := strconv.Atoi(name)
				if err != nil || pos >= len(args) {
					return "", fmt.Errorf("bad argument position {%s} in format string %q", name, tmpl)
				}
				v = args[pos]
			default:
				var ok bool
				v, ok = fm.lookup(name)
				if !ok {
					return "", fmt.Errorf("undefined variable %s in format string", name)
				}
			}
			if spec == "" {
				sb.WriteString(vals.ToString(v))
				continue
			}
			s, err := formatSpec(v, spec)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}
