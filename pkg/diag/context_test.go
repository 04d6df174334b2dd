package diag

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/testutil"
)

var dedent = testutil.Dedent

func TestContext_Show(t *testing.T) {
	tests := []struct {
		name    string
		context *Context
		want    string
	}{
		{
			name:    "single line",
			context: NewContext("[test]", "let x = 1 + true", Ranging{8, 16}),
			want: dedent(`
				[test]:1:9:
				  let x = 1 + true
				          ^^^^^^^^`),
		},
		{
			name:    "second line",
			context: NewContext("a.ruchy", "let x = 1\nx.foo()", Ranging{12, 15}),
			want: dedent(`
				a.ruchy:2:3:
				  x.foo()
				    ^^^`),
		},
		{
			name:    "empty culprit",
			context: NewContext("[test]", "f(", Ranging{2, 2}),
			want: dedent(`
				[test]:1:3:
				  f(
				    ^`),
		},
		{
			name:    "culprit spanning lines",
			context: NewContext("[test]", "{\n1", Ranging{0, 3}),
			want: dedent(`
				[test]:1:1:
				  {
				  ^ ...`),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.context.Show(""); got != test.want {
				t.Errorf("Show() ->\n%s\nwant\n%s", got, test.want)
			}
		})
	}
}

func TestContext_InvalidPosition(t *testing.T) {
	c := NewContext("[test]", "ab", Ranging{1, 5})
	if got, want := c.Show(""), "[test], invalid position 1-5"; got != want {
		t.Errorf("Show() -> %q, want %q", got, want)
	}
}

func TestPositionOf(t *testing.T) {
	src := "ab\nπcd"
	tests := []struct {
		idx  int
		want Position
	}{
		{0, Position{1, 1}},
		{2, Position{1, 3}},
		{3, Position{2, 1}},
		{5, Position{2, 2}},
		{100, Position{2, 4}},
	}
	for _, test := range tests {
		if got := PositionOf(src, test.idx); got != test.want {
			t.Errorf("PositionOf(%d) -> %v, want %v", test.idx, got, test.want)
		}
	}
}
