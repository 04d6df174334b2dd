// Package evaltest provides a framework for testing code run by the
// interpreter.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("1 + 2").Evals(3),
//	    That(`println!("x")`).Prints("x\n"),
//	    That("1 / 0").Throws(eval.DivisionByZero))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	opts   *eval.Options
	setup  func(ip *eval.Interpreter)
	verify func(t *testing.T, ip *eval.Interpreter)
	want   result
}

type result struct {
	Value     any
	HasValue  bool
	StdoutOut []byte
	StderrOut []byte

	ParseError error
	Exception  error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// evaluated separately by the same interpreter, use the Then method to append
// code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "1 + 2" evaluates to 3 reads:
//
//	That("1 + 2").Evals(3)
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that evaluates the given code in addition. Multiple
// arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Interpreter before the code is evaluated.
func (c Case) WithSetup(f func(*eval.Interpreter)) Case {
	c.setup = f
	return c
}

// WithOptions returns a new Case evaluated by an Interpreter with the given
// options. The output writers are always replaced.
func (c Case) WithOptions(opts eval.Options) Case {
	c.opts = &opts
	return c
}

// DoesNothing returns t unchanged. It is useful to mark tests that don't have
// any side effects, for example:
//
//	That("let x = 1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function after the code is evaluated.
func (c Case) Passes(f func(t *testing.T, ip *eval.Interpreter)) Case {
	c.verify = f
	return c
}

// Evals returns an altered Case that requires the last piece of code to
// evaluate to the given value. Go ints stand for integers; the value may be a
// ValueMatcher.
func (c Case) Evals(v any) Case {
	c.want.Value = v
	c.want.HasValue = true
	return c
}

// Prints returns an altered Case that requires the code to write exactly the
// given text to stdout.
func (c Case) Prints(s string) Case {
	c.want.StdoutOut = []byte(s)
	return c
}

// PrintsStderrWith returns an altered Case that requires the stderr output to
// contain the given text.
func (c Case) PrintsStderrWith(s string) Case {
	c.want.StderrOut = []byte(s)
	return c
}

// Throws returns an altered Case that requires the code to raise an exception
// of the given kind. If a message is given, the exception message must
// contain it.
func (c Case) Throws(kind eval.ErrorKind, msg ...string) Case {
	c.want.Exception = exc{kind, strings.Join(msg, "")}
	return c
}

// ThrowsError returns an altered Case that requires the code to fail with an
// error matching err. The error supports special matcher values constructed
// by functions like ErrorWithMessage.
func (c Case) ThrowsError(err error) Case {
	c.want.Exception = err
	return c
}

// DoesNotParse returns an altered Case that requires the code to have a
// syntax error.
func (c Case) DoesNotParse() Case {
	c.want.ParseError = AnyParseError
	return c
}

// Test runs test cases. For each test case, a new Interpreter is created
// with eval.NewWithOptions.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Interpreter) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Interpreter is
// created and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Interpreter), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			var stdout, stderr bytes.Buffer
			opts := eval.DefaultOptions()
			if tc.opts != nil {
				opts = *tc.opts
			}
			opts.Stdout, opts.Stderr = &stdout, &stderr
			ip := eval.NewWithOptions(opts)
			defer ip.Close()
			setup(ip)
			if tc.setup != nil {
				tc.setup(ip)
			}

			r := evalAndCollect(ip, tc.codes)
			r.StdoutOut, r.StderrOut = stdout.Bytes(), stderr.Bytes()

			if tc.verify != nil {
				tc.verify(t, ip)
			}
			if tc.want.HasValue && !match(r.Value, tc.want.Value) {
				t.Errorf("got value %s, want %s",
					vals.ReprPlain(r.Value), reprWant(tc.want.Value))
			}
			if !bytes.Equal(tc.want.StdoutOut, r.StdoutOut) && (tc.want.StdoutOut != nil || len(r.StdoutOut) > 0) {
				t.Errorf("got stdout %q, want %q", r.StdoutOut, tc.want.StdoutOut)
			}
			if tc.want.StderrOut == nil {
				if len(r.StderrOut) > 0 {
					t.Errorf("got stderr %q, want empty", r.StderrOut)
				}
			} else if !bytes.Contains(r.StderrOut, tc.want.StderrOut) {
				t.Errorf("got stderr %q, want output containing %q",
					r.StderrOut, tc.want.StderrOut)
			}
			if !matchErr(tc.want.ParseError, r.ParseError) {
				t.Errorf("got parse error %v, want %v", r.ParseError, tc.want.ParseError)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				if exc, ok := r.Exception.(*eval.Exception); ok {
					t.Logf("got: %s", exc.Show(""))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func evalAndCollect(ip *eval.Interpreter, texts []string) result {
	var r result
	for _, text := range texts {
		v, err := ip.Eval(parse.Source{Name: "[test]", Code: text})
		switch {
		case err == nil:
			r.Value = v
		case eval.KindOf(err) == "":
			// NOTE: If multiple code pieces have syntax errors, only the last
			// one is saved.
			r.ParseError = err
		default:
			// NOTE: If multiple code pieces throw exceptions, only the last one
			// is saved.
			r.Exception = err
		}
	}
	return r
}

// normalize converts Go ints in wanted values to integers.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case vals.Tuple:
		out := make(vals.Tuple, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func reprWant(v any) string {
	if m, ok := v.(ValueMatcher); ok {
		return fmt.Sprintf("%v", m)
	}
	return vals.ReprPlain(normalize(v))
}

func match(got, want any) bool {
	want = normalize(want)
	if m, ok := want.(ValueMatcher); ok {
		return m.matchValue(got)
	}
	switch got := got.(type) {
	case float64:
		// Special-case float64 to correctly handle NaN.
		if want, ok := want.(float64); ok {
			return matchFloat64(got, want, 0)
		}
	case vals.Tuple:
		if want, ok := want.(vals.Tuple); ok && len(got) == len(want) {
			for i := range got {
				if !match(got[i], want[i]) {
					return false
				}
			}
			return true
		}
	}
	return vals.Equal(got, want)
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
