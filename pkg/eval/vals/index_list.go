package vals

import (
	"errors"
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
)

var errIndexMustBeInteger = errors.New("index must be integer")

func indexList(l List, rawIndex any) (any, error) {
	index, err := ConvertListIndex(rawIndex, l.Len())
	if err != nil {
		return nil, err
	}
	if index.Slice {
		return l.SubVector(index.Lower, index.Upper), nil
	}
	// Bounds are already checked.
	value, _ := l.Index(index.Lower)
	return value, nil
}

// ListIndex represents a (converted) list index.
type ListIndex struct {
	Slice bool
	Lower int
	Upper int
}

// ConvertListIndex converts an integer or Range index for a sequence of
// length n, checks whether it is valid, and returns the converted structure.
func ConvertListIndex(rawIndex any, n int) (*ListIndex, error) {
	switch rawIndex := rawIndex.(type) {
	case int64:
		index, err := adjustAndCheckIndex(rawIndex, n, false)
		if err != nil {
			return nil, err
		}
		return &ListIndex{false, index, 0}, nil
	case Range:
		lower := rawIndex.Start
		var upper *int64
		if !rawIndex.Unbounded {
			upper = &rawIndex.End
		}
		i, j, err := ConvertSlice(&lower, upper, rawIndex.Inclusive, n)
		if err != nil {
			return nil, err
		}
		return &ListIndex{true, i, j}, nil
	default:
		return nil, errIndexMustBeInteger
	}
}

// ConvertSlice converts the bounds of a slice of a sequence of length n. A nil
// lower bound means 0 and a nil upper bound means n; negative bounds count
// from the end.
func ConvertSlice(lower, upper *int64, inclusive bool, n int) (int, int, error) {
	i, j := 0, n
	var err error
	if lower != nil {
		i, err = adjustAndCheckIndex(*lower, n, true)
		if err != nil {
			return 0, 0, err
		}
	}
	if upper != nil {
		hi := *upper
		if inclusive {
			if hi == -1 {
				hi = int64(n)
			} else {
				hi++
			}
		}
		j, err = adjustAndCheckIndex(hi, n, true)
		if err != nil {
			return 0, 0, err
		}
	}
	if j < i {
		return 0, 0, errs.OutOfRange{
			What:     "slice upper index",
			ValidLow: i, ValidHigh: n, Actual: strconv.Itoa(j)}
	}
	return i, j, nil
}

func convertElemIndex(rawIndex any, n int) (int, error) {
	i, ok := rawIndex.(int64)
	if !ok {
		return 0, errIndexMustBeInteger
	}
	return adjustAndCheckIndex(i, n, false)
}

func adjustAndCheckIndex(i int64, n int, includeN bool) (int, error) {
	if i < 0 {
		if i < -int64(n) {
			return 0, errs.OutOfRange{
				What:     "negative index",
				ValidLow: -n, ValidHigh: -1, Actual: strconv.FormatInt(i, 10)}
		}
		return int(i) + n, nil
	}
	high := int64(n) - 1
	if includeN {
		high = int64(n)
	}
	if i > high {
		return 0, errs.OutOfRange{
			What:     "index",
			ValidLow: 0, ValidHigh: int(high), Actual: strconv.FormatInt(i, 10)}
	}
	return int(i), nil
}
