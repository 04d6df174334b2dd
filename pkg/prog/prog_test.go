package prog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/paiml/ruchy-sub012/pkg/prog"
	"github.com/paiml/ruchy-sub012/pkg/prog/progtest"
)

var (
	Test      = progtest.Test
	ThatRuchy = progtest.ThatRuchy
)

func TestCommonFlagHandling(t *testing.T) {
	cpuprof := filepath.Join(t.TempDir(), "cpuprof")

	Test(t, testProgram{},
		ThatRuchy("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatRuchy("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatRuchy("-help").
			WritesStdoutContaining("Usage: ruchy [flags] <command> [args]"),

		ThatRuchy("-cpuprofile", cpuprof).DoesNothing(),
		ThatRuchy("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),
	)

	// There isn't much to test beyond a sanity check that the profile file
	// now exists.
	if _, err := os.Stat(cpuprof); err != nil {
		t.Errorf("CPU profile file does not exist: %v", err)
	}
}

func TestInterspersedFlags(t *testing.T) {
	Test(t, argsProgram{},
		ThatRuchy("transpile", "-o", "out.rs", "main.ruchy").
			WritesStdout("transpile main.ruchy -o out.rs"),
		ThatRuchy("-json", "quality-gate", "a", "b").
			WritesStdout("quality-gate a b -json"),
		ThatRuchy("run", "--", "-o").
			WritesStdout("run -o"),
	)
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatRuchy().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatRuchy().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatRuchy().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatRuchy().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatRuchy().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatRuchy().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatRuchy().ExitsWith(0),
	)
}

func TestPanic(t *testing.T) {
	Test(t, testProgram{panicWith: "boom"},
		ThatRuchy().ExitsWith(1).WritesStderr("internal error: boom\n"),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
	panicWith   string
}

func (p testProgram) Run(fds [3]*os.File, _ *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	if p.panicWith != "" {
		panic(p.panicWith)
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type argsProgram struct{}

func (argsProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	out := strings.Join(args, " ")
	if f.Output != "" {
		out += " -o " + f.Output
	}
	if f.JSON {
		out += " -json"
	}
	fds[1].WriteString(out)
	return nil
}
