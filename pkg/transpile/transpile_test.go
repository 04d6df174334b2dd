package transpile

import (
	"errors"
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/testutil"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

var Args = tt.Args

func lower(code string, program bool) (*TokenStream, error) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		return nil, err
	}
	tr := New()
	tr.SetSource(tree.Source)
	if program {
		return tr.TranspileProgram(tree.Root)
	}
	return tr.Transpile(tree.Root)
}

// transpileCode returns the token stream of code, or "error: <Kind>".
func transpileCode(code string) string {
	ts, err := lower(code, false)
	if err != nil {
		return errorKind(err)
	}
	return ts.String()
}

func transpileProgram(code string) string {
	ts, err := lower(code, true)
	if err != nil {
		return errorKind(err)
	}
	return ts.String()
}

func errorKind(err error) string {
	var de *diag.Error
	if errors.As(err, &de) {
		return "error: " + de.Type
	}
	return "error: " + err.Error()
}

func TestTranspile(t *testing.T) {
	tt.Test(t, tt.Fn("transpileCode", transpileCode), tt.Table{
		// Operators
		Args("1 + 2").Rets("1 + 2"),
		Args("1 + 2 * 3").Rets("1 + 2 * 3"),
		Args("(1 + 2) * 3").Rets("( 1 + 2 ) * 3"),
		Args(`"a" + "b"`).Rets(`format ! ( "{}{}" , "a" , "b" )`),
		Args("2 ** 3").Rets("2i64 . pow ( 3 as u32 )"),
		// Bindings
		Args("let x = 5\nx").Rets("let x = 5 ; x"),
		Args(`let mut s = "a"`).Rets(`let mut s = String :: from ( "a" ) ;`),
		Args("let f = |x| x + 1").Rets("let f = | x | x + 1 ;"),
		// Strings
		Args("let n = 1\nf\"n = {n}\"").Rets(`let n = 1 ; format ! ( "n = {}" , n )`),
		Args(`"a\"b"`).Rets(`"a\"b"`),
		// Loops
		Args("for i in 0..3 { println(i) }").Rets(
			`for i in 0 .. 3 { println ! ( "{}" , i ) ; }`),
		// Functions and return types
		Args(`fn greet() { "hi" }`).Rets(`fn greet ( ) -> & 'static str { "hi" }`),
		Args("fn name() {\n    let mut s = \"a\"\n    s\n}").Rets(
			`fn name ( ) -> String { let mut s = String :: from ( "a" ) ; s }`),
		Args("fn nums() { [1, 2] }").Rets("fn nums ( ) -> Vec < i64 > { vec ! [ 1 , 2 ] }"),
		Args("fn id(x: i32) { x }").Rets("fn id ( x : i32 ) -> i32 { x }"),
		// Declarations
		Args("#[derive(Debug, Clone)]\nstruct P { x: i32 }").Rets(
			"# [ derive ( Debug , Clone ) ] struct P { x : i32 }"),
		// Errors
		Args("foo!(1)").Rets("error: " + UnknownMacro),
		Args("#[custom]\nfn f() { 1 }").Rets("error: " + InvalidAttribute),
		Args("#[derive(Serialize)]\nstruct P { x: i32 }").Rets("error: " + InvalidAttribute),
		Args("try { 1 } catch e { 2 }").Rets("error: " + UnsupportedConstruct),
	})
}

func TestTranspileProgram(t *testing.T) {
	tt.Test(t, tt.Fn("transpileProgram", transpileProgram), tt.Table{
		Args(`println("hi")`).Rets(`fn main ( ) { println ! ( "{}" , "hi" ) ; }`),
		Args("fn main() { println(\"hi\") }\nmain()").Rets(
			`fn main ( ) { println ! ( "{}" , "hi" ) }`),
		Args("fn main() { 1 }\nlet x = 2").Rets("error: " + UnsupportedConstruct),
	})
}

func TestFormat(t *testing.T) {
	ts, err := lower(`println("hi")`, true)
	if err != nil {
		t.Fatal(err)
	}
	want := "fn main() {\n    println!(\"{}\", \"hi\");\n}\n"
	if got := ts.Format(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	ts, err = lower(testutil.Dedent(`
		let x = 3
		if x > 1 { "a" } else { "b" }`), false)
	if err != nil {
		t.Fatal(err)
	}
	want = "let x = 3;\nif x > 1 {\n    \"a\"\n} else {\n    \"b\"\n}\n"
	if got := ts.Format(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTranspile_Actors(t *testing.T) {
	code := testutil.Dedent(`
		actor Counter {
		    count: i32 = 0
		    receive {
		        Inc => { self.count += 1 }
		        Add(n) => { self.count += n }
		    }
		}
		let c = spawn Counter
		c <- Add(5)`)
	got := transpileProgram(code)
	for _, want := range []string{
		"pub enum CounterMessage { Inc , Add ( i64 ) }",
		"pub struct Counter { count : i32 }",
		"pub fn handle ( & mut self , msg : CounterMessage )",
		"CounterMessage :: Inc => {",
		"let mut c = Counter :: new ( ) ;",
		"c . handle ( CounterMessage :: Add ( 5 ) ) ;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestTranspile_ErrorsPointAtSource(t *testing.T) {
	_, err := lower("let a = 1\nbar!(a)", false)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("got error %v, want *diag.Error", err)
	}
	if de.Type != UnknownMacro {
		t.Errorf("got type %q, want %q", de.Type, UnknownMacro)
	}
	if de.Context.From != 10 {
		t.Errorf("got error at %d, want 10", de.Context.From)
	}
}

func TestQuoteString(t *testing.T) {
	tt.Test(t, tt.Fn("quoteString", quoteString), tt.Table{
		Args("plain").Rets(`"plain"`),
		Args("a\nb\t").Rets(`"a\nb\t"`),
		Args(`back\slash`).Rets(`"back\\slash"`),
		Args("\x01").Rets(`"\u{1}"`),
	})
}
