package parse

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

// summarize describes the tokens of src without positions.
func summarize(src string) []string {
	var out []string
	for _, tok := range Lex(src) {
		s := fmt.Sprintf("%s %s", kindTag[tok.Kind], tok.Text)
		if tok.Suffix != "" {
			s += " /" + tok.Suffix
		}
		if tok.Format != "" {
			s += " :" + tok.Format
		}
		out = append(out, s)
	}
	return out
}

var kindTag = map[TokenKind]string{
	EOF: "eof", ErrorToken: "error", IdentToken: "ident", Keyword: "kw",
	Punct: "punct", Int: "int", Float: "float", String: "str", Char: "char",
	Atom: "atom", Label: "label", FStringStart: "fstart", FStringText: "ftext",
	FStringInterp: "finterp", FStringEnd: "fend",
}

func TestLex(t *testing.T) {
	tt.Test(t, tt.Fn("summarize(Lex)", summarize), tt.Table{
		Args("let x = 42").Rets([]string{
			"kw let", "ident x", "punct =", "int 42", "eof "}),
		Args("0xff_ff 1_000 3.5e2 2f32 7u8 0b101").Rets([]string{
			"int 0xffff", "int 1000", "float 3.5e2", "float 2 /f32", "int 7 /u8",
			"int 0b101", "eof "}),
		Args("a..b 1..=5 [1, ...xs]").Rets([]string{
			"ident a", "punct ..", "ident b", "int 1", "punct ..=", "int 5",
			"punct [", "int 1", "punct ,", "punct ...", "ident xs", "punct ]", "eof "}),
		Args("t.0.1").Rets([]string{
			"ident t", "punct .", "int 0", "punct .", "int 1", "eof "}),
		Args(`'a' 'outer: '\n'`).Rets([]string{
			"char a", "label outer", "punct :", "char \n", "eof "}),
		Args(`:ok x: i32`).Rets([]string{
			"atom ok", "ident x", "punct :", "ident i32", "eof "}),
		Args(`"a\tb\u{48}" r"raw\n" r#"has "quotes""#`).Rets([]string{
			"str a\tbH", `str raw\n`, `str has "quotes"`, "eof "}),
		Args(`f"pi = {pi:.2}!"`).Rets([]string{
			"fstart ", "ftext pi = ", "finterp pi :.2", "ftext !", "fend ", "eof "}),
		Args(`f"{{literal}} {a::b}"`).Rets([]string{
			"fstart ", "ftext {literal} ", "finterp a::b", "fend ", "eof "}),
		Args("x |> f ?? 0 <- m <? n").Rets([]string{
			"ident x", "punct |>", "ident f", "punct ??", "int 0", "punct <-",
			"ident m", "punct <?", "ident n", "eof "}),
		Args("a >>= 1 << 2").Rets([]string{
			"ident a", "punct >>=", "int 1", "punct <<", "int 2", "eof "}),
		Args("x $ y").Rets([]string{
			"ident x", `error illegal character '$'`, "ident y", "eof "}),
		Args(`"open`).Rets([]string{
			"error unterminated string literal", "eof "}),
	})
}

func TestLex_Comments(t *testing.T) {
	toks := Lex("// lead\nx // trail\n/* block */ y # hash\n")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	x, y := toks[0], toks[1]
	if diff := cmp.Diff([]string{"// lead"}, commentTexts(x.Comments)); diff != "" {
		t.Errorf("leading comments of x (-want +got):\n%s", diff)
	}
	if x.Trailing == nil || x.Trailing.Text != "// trail" {
		t.Errorf("trailing comment of x is %v, want // trail", x.Trailing)
	}
	if diff := cmp.Diff([]string{"/* block */"}, commentTexts(y.Comments)); diff != "" {
		t.Errorf("leading comments of y (-want +got):\n%s", diff)
	}
	if y.Trailing == nil || y.Trailing.Text != "# hash" {
		t.Errorf("trailing comment of y is %v, want # hash", y.Trailing)
	}
	if !y.NewlineBefore {
		t.Errorf("y.NewlineBefore = false, want true")
	}
}

func commentTexts(cs []Comment) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Text)
	}
	return out
}

func TestLex_Ranges(t *testing.T) {
	toks := Lex("let  answer")
	if toks[1].From != 5 || toks[1].To != 11 {
		t.Errorf("range of answer is %v, want 5-11", toks[1].Ranging)
	}
	if toks[2].Kind != EOF || toks[2].From != 11 {
		t.Errorf("EOF token is %v at %d", toks[2].Kind, toks[2].From)
	}
}

func TestLex_Shebang(t *testing.T) {
	toks := Lex("#!/usr/bin/env ruchy\n1")
	if toks[0].Kind != Int || toks[0].Text != "1" {
		t.Errorf("got first token %v, want int 1", &toks[0])
	}
}
