package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestError(t *testing.T) {
	err := &Error{
		Type:    "TypeMismatch",
		Message: "expected Int, found String",
		Context: *NewContext("[test]", `1 + "a"`, Ranging{4, 7}),
		Related: []Related{
			{"left operand", *NewContext("[test]", `1 + "a"`, Ranging{0, 1})},
		},
	}

	if got, want := err.Error(), "TypeMismatch: [test]:1:5: expected Int, found String"; got != want {
		t.Errorf("Error() -> %q, want %q", got, want)
	}
	if got, want := err.Range(), (Ranging{4, 7}); got != want {
		t.Errorf("Range() -> %v, want %v", got, want)
	}

	want := dedent(`
		TypeMismatch: expected Int, found String
		  [test]:1:5:
		    1 + "a"
		        ^^^
		  note: left operand
		  [test]:1:1:
		    1 + "a"
		    ^`)
	if got := err.Show(""); got != want {
		t.Errorf("Show() ->\n%s\nwant\n%s", got, want)
	}
}

func TestPackAndUnpackErrors(t *testing.T) {
	if PackErrors(nil) != nil {
		t.Errorf("PackErrors(nil) should be nil")
	}
	e1 := &Error{Type: "A", Message: "one", Context: *NewContext("x", "ab", Ranging{0, 1})}
	e2 := &Error{Type: "B", Message: "two", Context: *NewContext("x", "ab", Ranging{1, 2})}
	packed := PackErrors([]*Error{e1, e2})
	if got := UnpackErrors(packed); len(got) != 2 || got[0] != e1 || got[1] != e2 {
		t.Errorf("UnpackErrors -> %v", got)
	}
	if !strings.HasPrefix(packed.Error(), "multiple errors: A: x:1:1: one; ") {
		t.Errorf("Error() -> %q", packed.Error())
	}
	if got := UnpackErrors(e1); len(got) != 1 {
		t.Errorf("UnpackErrors(*Error) -> %v", got)
	}
	if got := UnpackErrors(errors.New("x")); got != nil {
		t.Errorf("UnpackErrors(plain) -> %v", got)
	}
}

func TestShowError(t *testing.T) {
	var sb strings.Builder
	ShowError(&sb, errors.New("plain"))
	if sb.String() != "plain\n" {
		t.Errorf("ShowError(plain) wrote %q", sb.String())
	}
}
