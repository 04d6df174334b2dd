package feedback

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordBinaryOp(t *testing.T) {
	r := NewRecorder(0)
	for i := 0; i < 3; i++ {
		r.RecordBinaryOp(1, "+", "integer", "integer", "integer")
	}
	r.RecordBinaryOp(1, "+", "integer", "float", "float")

	f, ok := r.BinaryOp(1)
	if !ok {
		t.Fatal("no feedback for site 1")
	}
	want := []BinaryCombo{
		{"integer", "integer", "integer", 3},
		{"integer", "float", "float", 1},
	}
	if diff := cmp.Diff(want, f.Combos); diff != "" {
		t.Errorf("combos (-want +got):\n%s", diff)
	}
	if f.Count != 4 || f.Monomorphic() || f.Megamorphic {
		t.Errorf("got count %d, monomorphic %v, megamorphic %v", f.Count, f.Monomorphic(), f.Megamorphic)
	}
}

func TestRecordBinaryOp_Megamorphic(t *testing.T) {
	r := NewRecorder(0)
	for _, typ := range []string{"a", "b", "c", "d", "e"} {
		r.RecordBinaryOp(7, "==", typ, typ, "bool")
	}
	f, _ := r.BinaryOp(7)
	if !f.Megamorphic || len(f.Combos) != MaxCombos || f.Count != 5 {
		t.Errorf("got megamorphic %v, %d combos, count %d", f.Megamorphic, len(f.Combos), f.Count)
	}
}

func TestRecordVariable(t *testing.T) {
	r := NewRecorder(0)
	r.RecordVariable("x", "integer")
	r.RecordVariable("x", "integer")
	r.RecordVariable("x", "string")
	r.RecordVariable("x", "integer")

	f, _ := r.Variable("x")
	if diff := cmp.Diff([]string{"integer", "string"}, f.Types); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	wantTransitions := []Transition{{"integer", "string", 1}, {"string", "integer", 1}}
	if diff := cmp.Diff(wantTransitions, f.Transitions); diff != "" {
		t.Errorf("transitions (-want +got):\n%s", diff)
	}
	if f.Current != "integer" || f.Stability() != 0.5 {
		t.Errorf("got current %q, stability %v", f.Current, f.Stability())
	}
}

func TestRecordCall(t *testing.T) {
	r := NewRecorder(0)
	r.RecordCall(3, "add", []string{"integer", "integer"}, "integer")
	r.RecordCall(3, "add", []string{"integer", "integer"}, "integer")
	f, _ := r.Call(3)
	if !f.Monomorphic() || f.Count != 2 {
		t.Errorf("got monomorphic %v, count %d", f.Monomorphic(), f.Count)
	}
	r.RecordCall(3, "sub", []string{"integer", "integer"}, "integer")
	if f.Monomorphic() {
		t.Errorf("site with two callees is monomorphic")
	}
}

func TestSpecializationCandidates(t *testing.T) {
	r := NewRecorder(2)
	// Binary op: 3 observations, score 6.
	for i := 0; i < 3; i++ {
		r.RecordBinaryOp(1, "*", "float", "float", "float")
	}
	// Call site: 2 observations, score 6; sorted after the binary op.
	for i := 0; i < 2; i++ {
		r.RecordCall(2, "f", []string{"integer"}, "string")
	}
	// Variable: 5 observations, score 7.5.
	for i := 0; i < 5; i++ {
		r.RecordVariable("n", "integer")
	}
	// Not hot enough.
	r.RecordVariable("cold", "integer")
	// Not stable.
	r.RecordVariable("v", "integer")
	r.RecordVariable("v", "string")
	r.RecordVariable("v", "string")

	got := r.SpecializationCandidates()
	want := []Candidate{
		{VariableCandidate, 0, "n", []string{"integer"}, 5, variableSpeedup},
		{BinaryOpCandidate, 1, "*", []string{"float", "float", "float"}, 3, binaryOpSpeedup},
		{CallSiteCandidate, 2, "f", []string{"integer", "string"}, 2, callSiteSpeedup},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates (-want +got):\n%s", diff)
	}
}

func TestStatsAndClear(t *testing.T) {
	r := NewRecorder(0)
	r.RecordBinaryOp(1, "+", "integer", "integer", "integer")
	r.RecordBinaryOp(2, "+", "integer", "integer", "integer")
	r.RecordBinaryOp(2, "+", "string", "string", "string")
	r.RecordVariable("x", "integer")
	r.RecordCall(3, "f", nil, "nil")

	want := Stats{
		BinaryOpSites: 2, MonomorphicBinaryOps: 1, PolymorphicBinaryOps: 1,
		Variables: 1, StableVariables: 1,
		CallSites: 1, MonomorphicCallSites: 1,
		TotalRecordings: 5,
	}
	if diff := cmp.Diff(want, r.Stats()); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
	r.Clear()
	if diff := cmp.Diff(Stats{}, r.Stats()); diff != "" {
		t.Errorf("stats after Clear (-want +got):\n%s", diff)
	}
}

func TestCandidateKindString(t *testing.T) {
	for k, want := range map[CandidateKind]string{
		BinaryOpCandidate: "binary-op", VariableCandidate: "variable",
		CallSiteCandidate: "call-site", 9: "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
