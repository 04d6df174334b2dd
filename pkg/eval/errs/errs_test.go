package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		OutOfRange{What: "index", ValidLow: 0, ValidHigh: 2, Actual: "3"},
		"out of range: index must be from 0 to 2, but is 3",
	},
	{
		OutOfRange{What: "index", ValidLow: 0, ValidHigh: -1, Actual: "0"},
		"out of range: index has no valid value, but is 0",
	},
	{
		BadValue{What: "timeout", Valid: "non-negative", Actual: "-1"},
		"bad value: timeout must be non-negative, but is -1",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"arity mismatch: arguments must be 2 values, but is 3 values",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"arity mismatch: arguments must be 2 or more values, but is 1 value",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"arity mismatch: arguments must be 2 to 3 values, but is 1 value",
	},
	{
		NoSuchField{Kind: "struct Point", Field: "z"},
		"no field z on struct Point",
	},
	{
		NoSuchMethod{Kind: "integer", Method: "push"},
		"no method push on integer",
	},
	{
		Immutable{What: "binding x"},
		"cannot assign to immutable binding x",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
