package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	. "github.com/paiml/ruchy-sub012/pkg/tt"
)

func ri(start, end int64) Range { return Range{Start: start, End: end} }

func TestIndex_Scalars(t *testing.T) {
	Test(t, Fn("Index", Index), Table{
		// String indices count characters.
		Args("hello", int64(0)).Rets("h", nil),
		Args("hello", int64(-1)).Rets("o", nil),
		Args("你好", int64(1)).Rets("好", nil),
		Args("hello", int64(5)).Rets(nil, errs.OutOfRange{
			What: "index", ValidLow: 0, ValidHigh: 4, Actual: "5"}),
		Args("hello", int64(-6)).Rets(nil, errs.OutOfRange{
			What: "negative index", ValidLow: -5, ValidHigh: -1, Actual: "-6"}),
		Args("hello", ri(1, 3)).Rets("el", nil),
		Args("hello", Range{Start: 1, End: 3, Inclusive: true}).Rets("ell", nil),
		Args("hello", Range{Start: 2, Unbounded: true}).Rets("llo", nil),
		Args("hello", ri(5, 5)).Rets("", nil),
		Args("hello", "x").Rets(nil, errIndexMustBeInteger),

		Args(Tuple{"a", "b"}, int64(1)).Rets("b", nil),
		Args(Tuple{"a", "b"}, int64(-2)).Rets("a", nil),
		Args(ri(10, 20), int64(3)).Rets(int64(13), nil),
		Args(ri(10, 20), int64(10)).Rets(nil, errs.OutOfRange{
			What: "index", ValidLow: 0, ValidHigh: 9, Actual: "10"}),

		Args(NewObject("a", int64(1)), "a").Rets(int64(1), nil),
		Args(NewObject("a", int64(1)), "b").Rets(nil, NoSuchKey("b")),
		Args(NewObjectMut(NewObject("a", int64(1))), "a").Rets(int64(1), nil),
		Args(NewStruct("P", nil, map[string]any{"x": 2.5}), "x").Rets(2.5, nil),
		Args(NewInstance("C", nil, nil, map[string]any{"n": true}), "n").Rets(true, nil),

		Args(int64(1), int64(0)).Rets(nil, cannotIndex{"integer"}),
	})
}

func TestIndex_List(t *testing.T) {
	l := MakeList(int64(1), int64(2), int64(3))
	TestValue(t, l).
		Index(int64(0), int64(1)).
		Index(int64(-1), int64(3)).
		Index(ri(1, 3), MakeList(int64(2), int64(3))).
		Index(Range{Start: -2, Unbounded: true}, MakeList(int64(2), int64(3))).
		Index(Range{Start: 0, End: -1, Inclusive: true}, l).
		Index(ri(3, 3), EmptyList).
		IndexError(int64(3), errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: 2, Actual: "3"}).
		IndexError(ri(2, 1), errs.OutOfRange{What: "slice upper index", ValidLow: 2, ValidHigh: 3, Actual: "1"}).
		IndexError(ri(0, 4), errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: 3, Actual: "4"})
	TestValue(t, EmptyList).
		IndexError(int64(0), errs.OutOfRange{What: "index", ValidLow: 0, ValidHigh: -1, Actual: "0"})
}

func TestIndex_DataFrame(t *testing.T) {
	df := DataFrame{[]Column{{"a", MakeList(int64(1), int64(2))}}}
	TestValue(t, df).
		Index("a", MakeList(int64(1), int64(2))).
		Index(int64(-1), NewObject("a", int64(2))).
		IndexError("b", NoSuchKey("b"))
}

func TestConvertSlice(t *testing.T) {
	i64 := func(i int64) *int64 { return &i }
	Test(t, Fn("ConvertSlice", ConvertSlice), Table{
		Args(nil, nil, false, 4).Rets(0, 4, nil),
		Args(i64(1), nil, false, 4).Rets(1, 4, nil),
		Args(nil, i64(2), true, 4).Rets(0, 3, nil),
		Args(i64(-3), i64(-1), false, 4).Rets(1, 3, nil),
		Args(nil, i64(-1), true, 4).Rets(0, 4, nil),
		Args(i64(5), nil, false, 4).Rets(0, 0, errs.OutOfRange{
			What: "index", ValidLow: 0, ValidHigh: 4, Actual: "5"}),
	})
}
