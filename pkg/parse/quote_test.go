package parse

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

var (
	Args = tt.Args
	Fn   = tt.Fn
)

func TestQuote(t *testing.T) {
	tt.Test(t, tt.Fn("Quote", Quote), tt.Table{
		Args("foo").Rets(`"foo"`),
		Args(`a "b" c`).Rets(`"a \"b\" c"`),
		Args("tab\there\n").Rets(`"tab\there\n"`),
		Args(`back\slash`).Rets(`"back\\slash"`),
		Args("\x01").Rets(`"\u{1}"`),
		Args("{}").Rets(`"{}"`),
		Args("héllo").Rets(`"héllo"`),
	})
}

func TestQuote_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "with \"quotes\"", "\x00\x7f", "line\nbreak", "日本"} {
		toks := Lex(Quote(s))
		if toks[0].Kind != String || toks[0].Text != s {
			t.Errorf("Lex(Quote(%q)) gives %v, want string %q", s, toks[0], s)
		}
	}
}

func TestIsIdent(t *testing.T) {
	tt.Test(t, tt.Fn("IsIdent", IsIdent), tt.Table{
		Args("foo").Rets(true),
		Args("_x1").Rets(true),
		Args("1x").Rets(false),
		Args("let").Rets(false),
		Args("a-b").Rets(false),
		Args("").Rets(false),
	})
}
