package testutil

import "testing"

var dedentTests = []struct {
	name string
	in   string
	want string
}{
	{"leading newline", "\n  a\n  b", "a\nb"},
	{"nested indent", "\n\tfn f() {\n\t\t1\n\t}", "fn f() {\n\t1\n}"},
	{"blank lines ignored", "  a\n\n    b", "a\n\n  b"},
	{"no common margin", "a\n  b", "a\n  b"},
}

func TestDedent(t *testing.T) {
	for _, test := range dedentTests {
		t.Run(test.name, func(t *testing.T) {
			if got := Dedent(test.in); got != test.want {
				t.Errorf("Dedent(%q) -> %q, want %q", test.in, got, test.want)
			}
		})
	}
}
