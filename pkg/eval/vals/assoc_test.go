package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
)

func TestAssoc(t *testing.T) {
	TestValue(t, MakeList("a", "b")).
		Assoc(int64(0), "x", MakeList("x", "b")).
		Assoc(int64(-1), "y", MakeList("a", "y")).
		AssocError(int64(2), "x", errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: 1, Actual: "2"})
	TestValue(t, Tuple{int64(1), int64(2)}).Assoc(int64(1), int64(5), Tuple{int64(1), int64(5)})
	TestValue(t, NewObject("a", int64(1))).
		Assoc("b", int64(2), NewObject("a", int64(1), "b", int64(2))).
		AssocError(int64(0), "x", errFieldMustBeString)
	TestValue(t, NewStruct("P", nil, map[string]any{"x": int64(1)})).
		Assoc("x", int64(2), NewStruct("P", nil, map[string]any{"x": int64(2)})).
		AssocError("z", int64(2), errs.NoSuchField{Kind: "struct P", Field: "z"})
	TestValue(t, "abc").AssocError(int64(0), "x", errStringIsImmutable)
	TestValue(t, int64(1)).AssocError(int64(0), "x", cannotAssoc{"integer"})
}

func TestAssoc_LeavesOriginalUnchanged(t *testing.T) {
	l := MakeList(int64(1))
	Assoc(l, int64(0), int64(2))
	TestValue(t, l).Equal(MakeList(int64(1)))
}

func TestAssoc_MutatesSharedContainers(t *testing.T) {
	m := NewObjectMut(NewObject())
	Assoc(m, "k", "v")
	TestValue(t, m).Index("k", "v")

	c := NewInstance("C", nil, nil, nil)
	Assoc(c, "n", int64(3))
	TestValue(t, c).Index("n", int64(3))
}
