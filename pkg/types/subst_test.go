package types

import (
	"errors"
	"testing"
)

func TestUnify_BindsVariables(t *testing.T) {
	s := NewSubst()
	a := s.Fresh()
	if err := s.Unify(List{a}, List{Int}); err != nil {
		t.Fatalf("Unify -> %v", err)
	}
	if got := s.Apply(a); got != Int {
		t.Errorf("a = %v, want Int", got)
	}
}

func TestUnify_IsSymmetric(t *testing.T) {
	pairs := [][2]func(s *Subst) Type{
		{func(*Subst) Type { return Int }, func(*Subst) Type { return String }},
		{func(s *Subst) Type { return s.Fresh() }, func(*Subst) Type { return Bool }},
		{func(s *Subst) Type { return Tuple{[]Type{Int, s.Fresh()}} },
			func(*Subst) Type { return Tuple{[]Type{Int, Char}} }},
		{func(*Subst) Type { return Function{[]Type{Int}, Int} },
			func(*Subst) Type { return Function{[]Type{Int, Int}, Int} }},
	}
	for _, pair := range pairs {
		s1, s2 := NewSubst(), NewSubst()
		a1, b1 := pair[0](s1), pair[1](s1)
		a2, b2 := pair[0](s2), pair[1](s2)
		err1 := s1.Unify(a1, b1)
		err2 := s2.Unify(b2, a2)
		if (err1 == nil) != (err2 == nil) {
			t.Errorf("Unify(%v, %v) -> %v, reversed -> %v", a1, b1, err1, err2)
		}
		if err1 == nil && s1.Apply(a1).String() != s2.Apply(a2).String() {
			t.Errorf("Unify(%v, %v) gives %v, reversed gives %v", a1, b1, s1.Apply(a1), s2.Apply(a2))
		}
	}
}

func TestUnify_IsIdempotent(t *testing.T) {
	s := NewSubst()
	a, b := s.Fresh(), s.Fresh()
	f := Function{[]Type{a}, b}
	g := Function{[]Type{Int}, List{a}}
	if err := s.Unify(f, g); err != nil {
		t.Fatalf("Unify -> %v", err)
	}
	before := s.Apply(f).String()
	if err := s.Unify(f, g); err != nil {
		t.Fatalf("second Unify -> %v", err)
	}
	if after := s.Apply(f).String(); after != before {
		t.Errorf("second Unify changed %s to %s", before, after)
	}
	if before != "fn(Int) -> List<Int>" {
		t.Errorf("got %s", before)
	}
}

func TestUnify_Errors(t *testing.T) {
	s := NewSubst()
	a := s.Fresh()
	tests := []struct {
		name     string
		l, r     Type
		wantKind string
		wantMsg  string
	}{
		{"mismatch", Int, String, TypeMismatch, "cannot unify Int with String"},
		{"occurs", a, List{a}, OccursCheck, ""},
		{"tuple arity", Tuple{[]Type{Int}}, Tuple{[]Type{Int, Int}}, ArityMismatch, ""},
		{"numeric var", s.FreshNumeric(), String, TypeMismatch, "cannot unify Int with String"},
		{"numeric var nested", List{s.FreshNumeric()}, Optional{String}, TypeMismatch,
			"cannot unify List<Int> with Option<String>"},
	}
	for _, test := range tests {
		err := s.Unify(test.l, test.r)
		var ue *UnifyError
		if !errors.As(err, &ue) {
			t.Errorf("%s: got %v, want *UnifyError", test.name, err)
			continue
		}
		if ue.Kind != test.wantKind {
			t.Errorf("%s: kind %s, want %s", test.name, ue.Kind, test.wantKind)
		}
		if test.wantMsg != "" && ue.Error() != test.wantMsg {
			t.Errorf("%s: message %q, want %q", test.name, ue.Error(), test.wantMsg)
		}
		if KindOf(err) != test.wantKind {
			t.Errorf("%s: KindOf -> %q", test.name, KindOf(err))
		}
	}
}

func TestUnify_ReferencesAreTransparent(t *testing.T) {
	s := NewSubst()
	if err := s.Unify(Reference{Int, true}, Int); err != nil {
		t.Errorf("Unify(&mut Int, Int) -> %v", err)
	}
}

func TestUnify_BareNamedMatchesInstances(t *testing.T) {
	s := NewSubst()
	if err := s.Unify(Named{Name: "Set"}, Named{"Set", []Type{Int}}); err != nil {
		t.Errorf("Unify(Set, Set<Int>) -> %v", err)
	}
	if err := s.Unify(Named{Name: "Set"}, Named{Name: "Object"}); err == nil {
		t.Errorf("Unify(Set, Object) succeeded")
	}
}

func TestDefaultNumeric(t *testing.T) {
	s := NewSubst()
	n := s.FreshNumeric()
	s.DefaultNumeric(List{n})
	if got := s.Apply(n); got != Int {
		t.Errorf("numeric variable defaulted to %v", got)
	}
	f := s.FreshNumeric()
	if err := s.Unify(f, Float); err != nil {
		t.Fatal(err)
	}
	s.DefaultNumeric(f)
	if got := s.Apply(f); got != Float {
		t.Errorf("bound numeric variable changed to %v", got)
	}
}
