package shell

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/paiml/ruchy-sub012/pkg/env"
	"github.com/paiml/ruchy-sub012/pkg/must"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/testutil"

	. "github.com/paiml/ruchy-sub012/pkg/prog/progtest"
)

// setup isolates the test from the configuration and history of the user.
// It returns a temporary directory for source files.
func setup(t *testing.T) string {
	dir := t.TempDir()
	testutil.Setenv(t, env.RUCHY_CONFIG, "")
	testutil.Setenv(t, env.XDG_CONFIG_HOME, filepath.Join(dir, "config"))
	testutil.Setenv(t, env.RUCHY_HISTORY_DB, filepath.Join(dir, "data", "history.db"))
	testutil.Unsetenv(t, env.RUCHY_DEBUG)
	return dir
}

func mustParse(t *testing.T, code string) parse.Tree {
	t.Helper()
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func writeSource(dir, name, code string) string {
	path := filepath.Join(dir, name)
	must.WriteFile(path, code)
	return path
}

func TestRun(t *testing.T) {
	dir := setup(t)
	hello := writeSource(dir, "hello.ruchy", `println("hello")`)
	withMain := writeSource(dir, "main.ruchy", testutil.Dedent(`
		fn greet(name) { f"hi {name}" }
		fn main() { println(greet("main")) }`))
	callsMain := writeSource(dir, "calls.ruchy", testutil.Dedent(`
		fn main() { println("once") }
		main()`))
	divByZero := writeSource(dir, "div.ruchy", "let x = 1 / 0")
	badSyntax := writeSource(dir, "bad.ruchy", "let = 5")

	Test(t, Program{},
		ThatRuchy("run", hello).WritesStdout("hello\n"),
		ThatRuchy("run", withMain).WritesStdout("hi main\n"),
		ThatRuchy("run", callsMain).WritesStdout("once\n"),
		ThatRuchy(hello).WritesStdout("hello\n"),

		ThatRuchy("run", divByZero).ExitsWith(1).
			WritesStderrContaining("error[DivisionByZero]\n"),
		ThatRuchy("run", badSyntax).ExitsWith(3).
			WritesStderrContaining("error[ExpectedConstruct]\n"),
		ThatRuchy("run", filepath.Join(dir, "missing.ruchy")).ExitsWith(2).
			WritesStderrContaining("cannot read"),

		ThatRuchy("run").ExitsWith(2).
			WritesStderrContaining("run takes exactly one file"),
		ThatRuchy("frobnicate").ExitsWith(2).
			WritesStderrContaining(`unknown command "frobnicate"`),
	)
}

func TestRun_BadConfig(t *testing.T) {
	dir := setup(t)
	hello := writeSource(dir, "hello.ruchy", `println("hello")`)
	cfg := writeSource(dir, "config.yaml", "overflow: saturate\n")

	Test(t, Program{},
		ThatRuchy("-config", cfg, "run", hello).ExitsWith(2).
			WritesStderrContaining("overflow must be wrap or checked"),
	)
}

func TestCheck(t *testing.T) {
	dir := setup(t)
	good := writeSource(dir, "good.ruchy", "let x = 1 + 2\nx * 2")
	mismatch := writeSource(dir, "mismatch.ruchy", "let a = 1\nif a {2} else {3}")
	badSyntax := writeSource(dir, "bad.ruchy", "let = 5")

	Test(t, Program{},
		ThatRuchy("check", good).DoesNothing(),
		ThatRuchy("check", mismatch).ExitsWith(4).
			WritesStderrContaining("error[TypeMismatch]\n"),
		ThatRuchy("check", badSyntax).ExitsWith(3).
			WritesStderrContaining("error[ExpectedConstruct]\n"),
	)
}

func TestTranspile(t *testing.T) {
	dir := setup(t)
	hello := writeSource(dir, "hello.ruchy", `println("hi")`)
	badMacro := writeSource(dir, "macro.ruchy", "foo!(1)")
	out := filepath.Join(dir, "hello.rs")
	want := "fn main() {\n    println!(\"{}\", \"hi\");\n}\n"

	Test(t, Program{},
		ThatRuchy("transpile", hello).WritesStdout(want),
		ThatRuchy("transpile", hello, "-o", out).DoesNothing(),
		ThatRuchy("transpile", badMacro).ExitsWith(5).
			WritesStderrContaining("error[UnknownMacro]\n"),
	)
	if got := must.ReadFileString(out); got != want {
		t.Errorf("got output file %q, want %q", got, want)
	}
}

func TestQualityGate(t *testing.T) {
	dir := setup(t)
	good := writeSource(dir, "good.ruchy", "let x = 1 + 2\nx * 2")
	mismatch := writeSource(dir, "mismatch.ruchy", "let a = 1\nif a {2} else {3}")
	badSyntax := writeSource(dir, "bad.ruchy", "let = 5")

	Test(t, Program{},
		ThatRuchy("quality-gate", good).WritesStdout("ok   "+good+"\n1 of 1 files passed\n"),
		ThatRuchy("quality-gate", good, mismatch).ExitsWith(4).
			WritesStdout("ok   "+good+"\nFAIL "+mismatch+"\n1 of 2 files passed\n").
			WritesStderrContaining("error[TypeMismatch]\n"),
		// Parse errors outrank type errors.
		ThatRuchy("quality-gate", mismatch, badSyntax).ExitsWith(3).
			WritesStdoutContaining("0 of 2 files passed\n").
			WritesStderrContaining("error[ExpectedConstruct]\n"),
		ThatRuchy("quality-gate").ExitsWith(2).
			WritesStderrContaining("quality-gate takes at least one file"),
	)
}

func TestQualityGate_JSON(t *testing.T) {
	dir := setup(t)
	good := writeSource(dir, "good.ruchy", "1 + 2")
	mismatch := writeSource(dir, "mismatch.ruchy", "let a = 1\nif a {2} else {3}")

	exit, stdout, stderr := Run(Program{}, "", "-json", "quality-gate", good, mismatch)
	if exit != 4 {
		t.Errorf("got exit %d, want 4", exit)
	}
	if stderr != "" {
		t.Errorf("got stderr %q, want empty", stderr)
	}
	var summary summaryInJSON
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("cannot decode %q: %v", stdout, err)
	}
	type fileSummary struct {
		FileName string
		Passed   bool
		Kinds    []string
	}
	var got []fileSummary
	for _, f := range summary.Files {
		fs := fileSummary{FileName: f.FileName, Passed: f.Passed}
		for _, e := range f.Errors {
			fs.Kinds = append(fs.Kinds, e.Kind)
		}
		got = append(got, fs)
	}
	want := []fileSummary{
		{FileName: good, Passed: true},
		{FileName: mismatch, Passed: false, Kinds: []string{"TypeMismatch"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
	if summary.Passed != 1 || summary.Failed != 1 {
		t.Errorf("got %d passed and %d failed, want 1 and 1", summary.Passed, summary.Failed)
	}
}

func TestNeedsMainCall(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"fn main() { 1 }", true},
		{"fn main() { 1 }\nmain()", false},
		{"let x = 1\nfn main() { x }", true},
		{"fn helper() { 1 }", false},
		{"println(1)", false},
	}
	for _, test := range tests {
		tree := mustParse(t, test.code)
		if got := needsMainCall(tree.Root); got != test.want {
			t.Errorf("needsMainCall(%q) = %v, want %v", test.code, got, test.want)
		}
	}
}
