package shell

import (
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/testutil"

	. "github.com/paiml/ruchy-sub012/pkg/prog/progtest"
)

func TestInteract(t *testing.T) {
	setup(t)

	Test(t, Program{},
		ThatRuchy().WithStdin("1 + 2\n").
			WritesStdout("3\n").WritesStderr("ruchy> ruchy> "),
		ThatRuchy("repl").WithStdin("let x = 40\nx + 2\n").
			WritesStdout("40\n42\n").WritesStderr("ruchy> ruchy> ruchy> "),
		// Declarations and unit values are not printed.
		ThatRuchy("repl").WithStdin("fn double(x) { x * 2 }\nprint(\"\")\ndouble(21)\n").
			WritesStdout("42\n").WritesStderrContaining("ruchy> "),
		// The last line does not need a newline.
		ThatRuchy("repl").WithStdin("7").
			WritesStdout("7\n").WritesStderr("ruchy> ruchy> "),
		ThatRuchy("repl", "extra").ExitsWith(2).
			WritesStderrContaining("repl takes no arguments"),
	)
}

func TestInteract_Continuation(t *testing.T) {
	setup(t)
	input := testutil.Dedent(`
		fn add(a, b) {
		    a + b
		}
		add(40, 2)
		`)

	Test(t, Program{},
		ThatRuchy("repl").WithStdin(input).
			WritesStdout("42\n").WritesStderr("ruchy>    ...>    ...> ruchy> ruchy> "),
	)
}

func TestInteract_ErrorsDoNotEndSession(t *testing.T) {
	setup(t)

	Test(t, Program{},
		ThatRuchy("repl").WithStdin("1 / 0\n5\n").
			WritesStdout("5\n").WritesStderrContaining("error[DivisionByZero]\n"),
		ThatRuchy("repl").WithStdin("let = 5\n6\n").
			WritesStdout("6\n").WritesStderrContaining("error[ExpectedConstruct]\n"),
	)
}

func TestInteract_Commands(t *testing.T) {
	setup(t)

	Test(t, Program{},
		ThatRuchy("repl").WithStdin(":type 1 + 2\n").
			WritesStdout("Int\n").WritesStderr("ruchy> ruchy> "),
		ThatRuchy("repl").WithStdin("let s = \"a\"\n:type s\n").
			WritesStdout("\"a\"\nString\n").WritesStderrContaining("ruchy> "),
		ThatRuchy("repl").WithStdin(":type 1 + \"a\"\n").
			WritesStderrContaining("error[TypeMismatch]\n"),
		ThatRuchy("repl").WithStdin(":transpile 1 + 2\n").
			WritesStdout("1 + 2\n").WritesStderrContaining("ruchy> "),
		ThatRuchy("repl").WithStdin(":quit\n1\n").
			WritesStderr("ruchy> "),
		ThatRuchy("repl").WithStdin(":help\n").
			WritesStdoutContaining(":quit").WritesStderrContaining("ruchy> "),
		ThatRuchy("repl").WithStdin(":frob\n").
			WritesStderrContaining("unknown command :frob"),
	)
}

func TestInteract_Stats(t *testing.T) {
	setup(t)

	exit, stdout, _ := Run(Program{}, "let mut s = 0\nfor i in 0..20 { s = s + i }\n:stats\n", "repl")
	if exit != 0 {
		t.Errorf("got exit %d, want 0", exit)
	}
	for _, want := range []string{"inline caches:", "type feedback:", "binary ops:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout %q does not contain %q", stdout, want)
		}
	}
}

func TestInteract_History(t *testing.T) {
	setup(t)

	Test(t, Program{},
		ThatRuchy("repl").WithStdin("1\n2\n:history\n").
			WritesStdout("1\n2\n    1  1\n    2  2\n    3  :history\n").
			WritesStderrContaining("ruchy> "),
		// History persists across sessions.
		ThatRuchy("repl").WithStdin(":history 2\n").
			WritesStdout("    3  :history\n    4  :history 2\n").
			WritesStderrContaining("ruchy> "),
	)
}

func TestInteract_SaveAndLoad(t *testing.T) {
	setup(t)

	Test(t, Program{},
		ThatRuchy("repl").WithStdin("let x = 41 + 1\nlet name = \"ruchy\"\n:save\n").
			WritesStdout("42\n\"ruchy\"\nsaved 2 bindings\n").
			WritesStderrContaining("ruchy> "),
		ThatRuchy("repl").WithStdin(":load\nx\nname\n").
			WritesStdout("loaded 2 bindings\n42\n\"ruchy\"\n").
			WritesStderrContaining("ruchy> "),
		ThatRuchy("repl").WithStdin("let y = 1\n:clear\ny\n").
			WritesStdout("1\ncleared all bindings\n").
			WritesStderrContaining("error[UndefinedVariable]\n"),
	)
}

func TestCompleteWord(t *testing.T) {
	got := completeWord("let x = prin")
	want := []string{"let x = print", "let x = println"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := completeWord(":hi"); len(got) != 1 || got[0] != ":history" {
		t.Errorf("got %q, want [:history]", got)
	}
	if got := completeWord("1 + "); got != nil {
		t.Errorf("got %q, want nil", got)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"fn f() {", true},
		{"fn f() { 1 }", false},
		{"let = 5", false},
		{"", false},
	}
	for _, test := range tests {
		if got := incomplete(test.code); got != test.want {
			t.Errorf("incomplete(%q) = %v, want %v", test.code, got, test.want)
		}
	}
}
