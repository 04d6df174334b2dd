// Package progtest contains utilities for testing [prog.Program]
// implementations by running them with command-line arguments and checking
// their exit status and output.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/must"
	"github.com/paiml/ruchy-sub012/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	out      output
	err      output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + quote(o.content)
	}
	return quote(o.content)
}

// ThatRuchy returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test like:
//
//	ThatRuchy("-version").WritesStdout("0.1.0\n")
//
// can be read as "Ruchy called with -version writes 0.1.0\n to stdout".
func ThatRuchy(args ...string) *Case {
	return &Case{args: append([]string{"ruchy"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin.
func (c *Case) WithStdin(s string) *Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatRuchy("-cpuprofile", "x").DoesNothing()
func (c *Case) DoesNothing() *Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to exit with
// the given code.
func (c *Case) ExitsWith(code int) *Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c *Case) WritesStdout(s string) *Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c *Case) WritesStdoutContaining(s string) *Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c *Case) WritesStderr(s string) *Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c *Case) WritesStderrContaining(s string) *Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !matchOutput(r.out.content, c.want.out) {
				t.Errorf("got stdout %v, want %v", quote(r.out.content), c.want.out)
			}
			if !matchOutput(r.err.content, c.want.err) {
				t.Errorf("got stderr %v, want %v", quote(r.err.content), c.want.err)
			}
		})
	}
}

// Run runs a Program with the given arguments and stdin. It returns the
// exit code and the output written to stdout and stderr.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r := run(p, append([]string{"ruchy"}, args...), stdin)
	return r.exitCode, r.out.content, r.err.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.OK2(os.Pipe())
	// Write stdin in the background so that large inputs don't block.
	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())

	// Read stdout and stderr concurrently, so that a program writing more
	// than a pipe buffer doesn't deadlock.
	outCh, errCh := readAll(r1), readAll(r2)
	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	r0.Close()
	return result{exit, output{content: <-outCh}, output{content: <-errCh}}
}

func readAll(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.content)
	}
	return got == want.content
}

func quote(s string) string {
	if s == "" {
		return "empty"
	}
	return "\n" + s + "\n"
}
