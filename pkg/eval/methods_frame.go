package eval

import (
	"fmt"
	"slices"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func init() {
	addMethods("dataframe", map[string]any{
		"columns": func(df vals.DataFrame) []string { return df.ColumnNames() },
		"rows":    func(df vals.DataFrame) int { return df.Rows() },
		"height":  func(df vals.DataFrame) int { return df.Rows() },
		"width":   func(df vals.DataFrame) int { return len(df.Columns) },
		"column": func(df vals.DataFrame, name string) (vals.List, error) {
			col, ok := df.Column(name)
			if !ok {
				return nil, vals.NoSuchKey(name)
			}
			return col, nil
		},
		"row": func(df vals.DataFrame, i int) (vals.Object, error) {
			if i < 0 || i >= df.Rows() {
				return vals.Object{}, fmt.Errorf("row %d out of range for %d rows", i, df.Rows())
			}
			return df.Row(i), nil
		},
		"select": func(df vals.DataFrame, names ...any) (vals.DataFrame, error) {
			cols, err := columnNames(names)
			if err != nil {
				return vals.DataFrame{}, err
			}
			return df.Select(cols...)
		},
		"drop": func(df vals.DataFrame, names ...any) (vals.DataFrame, error) {
			drop, err := columnNames(names)
			if err != nil {
				return vals.DataFrame{}, err
			}
			var keep []string
			for _, name := range df.ColumnNames() {
				if !slices.Contains(drop, name) {
					keep = append(keep, name)
				}
			}
			return df.Select(keep...)
		},
		"rename": func(df vals.DataFrame, from, to string) (vals.DataFrame, error) {
			if _, ok := df.Column(from); !ok {
				return vals.DataFrame{}, vals.NoSuchKey(from)
			}
			cols := slices.Clone(df.Columns)
			for i := range cols {
				if cols[i].Name == from {
					cols[i].Name = to
				}
			}
			return vals.NewDataFrame(cols)
		},
		"filter": func(fm *Frame, df vals.DataFrame, f any) (vals.DataFrame, error) {
			var ferr error
			out := df.KeepRows(func(i int) bool {
				if ferr != nil {
					return false
				}
				ok, err := fm.predicate(f, df.Row(i))
				ferr = err
				return ok
			})
			return out, ferr
		},
		"head":  frameHead,
		"limit": frameHead,
		"tail": func(df vals.DataFrame, n ...int) vals.DataFrame {
			k := firstOr(n, 5)
			return df.Slice(max(df.Rows()-k, 0), df.Rows())
		},
		"slice": func(df vals.DataFrame, i, j int) (vals.DataFrame, error) {
			if i < 0 || j > df.Rows() || i > j {
				return vals.DataFrame{}, fmt.Errorf("slice [%d, %d) out of range for %d rows", i, j, df.Rows())
			}
			return df.Slice(i, j), nil
		},
		"with_column": func(fm *Frame, df vals.DataFrame, name string, values any) (vals.DataFrame, error) {
			if l, ok := values.(vals.List); ok {
				return df.WithColumn(name, l)
			}
			col := vals.EmptyList
			for i := 0; i < df.Rows(); i++ {
				v, err := fm.callFn(values, df.Row(i))
				if err != nil {
					return vals.DataFrame{}, err
				}
				col = col.Cons(v)
			}
			return df.WithColumn(name, col)
		},
		"sort_by": func(df vals.DataFrame, name string, descending ...bool) (vals.DataFrame, error) {
			col, ok := df.Column(name)
			if !ok {
				return vals.DataFrame{}, vals.NoSuchKey(name)
			}
			keys := vals.ListToSlice(col)
			order := make([]int, len(keys))
			for i := range order {
				order[i] = i
			}
			var cmpErr error
			slices.SortStableFunc(order, func(a, b int) int {
				c := compareForSort(keys[a], keys[b], &cmpErr)
				if len(descending) > 0 && descending[0] {
					return -c
				}
				return c
			})
			if cmpErr != nil {
				return vals.DataFrame{}, cmpErr
			}
			return reorderRows(df, order), nil
		},
		"group_by": frameGroupBy,
		"groupby":  frameGroupBy,
		"agg": func(fm *Frame, df vals.DataFrame, name, fn string) (any, error) {
			col, ok := df.Column(name)
			if !ok {
				return nil, vals.NoSuchKey(name)
			}
			return aggregate(fm, col, fn)
		},
		"sum": func(df vals.DataFrame, name string) (any, error) {
			col, ok := df.Column(name)
			if !ok {
				return nil, vals.NoSuchKey(name)
			}
			return sum(vals.ListToSlice(col)...)
		},
		"mean": func(fm *Frame, df vals.DataFrame, name string) (any, error) {
			col, ok := df.Column(name)
			if !ok {
				return nil, vals.NoSuchKey(name)
			}
			return aggregate(fm, col, "mean")
		},
		"join": func(df, other vals.DataFrame, on string) (vals.DataFrame, error) {
			return innerJoin(df, other, on)
		},
	})
}

func firstOr(ns []int, def int) int {
	if len(ns) > 0 && ns[0] >= 0 {
		return ns[0]
	}
	return def
}

func frameHead(df vals.DataFrame, n ...int) vals.DataFrame {
	return df.Slice(0, min(firstOr(n, 5), df.Rows()))
}

func columnNames(names []any) ([]string, error) {
	var out []string
	for _, n := range names {
		if l, ok := n.(vals.List); ok {
			inner, err := columnNames(vals.ListToSlice(l))
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		s, err := vals.AsString(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func reorderRows(df vals.DataFrame, order []int) vals.DataFrame {
	cols := make([]vals.Column, len(df.Columns))
	for k, c := range df.Columns {
		values := vals.EmptyList
		for _, i := range order {
			v, _ := c.Values.Index(i)
			values = values.Cons(v)
		}
		cols[k] = vals.Column{Name: c.Name, Values: values}
	}
	return vals.DataFrame{Columns: cols}
}

// frameGroupBy splits a dataframe into an object mapping each distinct value
// of the column, as a string, to the rows having it.
func frameGroupBy(df vals.DataFrame, name string) (vals.Object, error) {
	col, ok := df.Column(name)
	if !ok {
		return vals.Object{}, vals.NoSuchKey(name)
	}
	groups := map[string][]int{}
	var keys []string
	for i := 0; i < df.Rows(); i++ {
		v, _ := col.Index(i)
		k := vals.ToString(v)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}
	out := vals.Object{}
	for _, k := range keys {
		out = out.Set(k, reorderRows(df, groups[k]))
	}
	return out, nil
}

func aggregate(fm *Frame, col vals.List, fn string) (any, error) {
	xs := vals.ListToSlice(col)
	switch fn {
	case "sum":
		return sum(xs...)
	case "count":
		return int64(len(xs)), nil
	case "min", "max":
		if len(xs) == 0 {
			return vals.None, nil
		}
		want := vals.CmpLess
		if fn == "max" {
			want = vals.CmpMore
		}
		return extremum(xs, want)
	case "mean":
		if len(xs) == 0 {
			return vals.None, nil
		}
		total, err := sum(xs...)
		if err != nil {
			return nil, err
		}
		f, _ := vals.AsFloat(total)
		return f / float64(len(xs)), nil
	}
	return nil, fm.errorf(nil, TypeError, "unknown aggregation %s", fn)
}

func innerJoin(left, right vals.DataFrame, on string) (vals.DataFrame, error) {
	lkeys, ok := left.Column(on)
	if !ok {
		return vals.DataFrame{}, vals.NoSuchKey(on)
	}
	rkeys, ok := right.Column(on)
	if !ok {
		return vals.DataFrame{}, vals.NoSuchKey(on)
	}
	var cols []vals.Column
	for _, c := range left.Columns {
		cols = append(cols, vals.Column{Name: c.Name, Values: vals.EmptyList})
	}
	for _, c := range right.Columns {
		if c.Name != on {
			cols = append(cols, vals.Column{Name: c.Name, Values: vals.EmptyList})
		}
	}
	for i := 0; i < left.Rows(); i++ {
		lk, _ := lkeys.Index(i)
		for j := 0; j < right.Rows(); j++ {
			rk, _ := rkeys.Index(j)
			if !valuesEqual(lk, rk) {
				continue
			}
			k := 0
			for _, c := range left.Columns {
				v, _ := c.Values.Index(i)
				cols[k].Values = cols[k].Values.Cons(v)
				k++
			}
			for _, c := range right.Columns {
				if c.Name == on {
					continue
				}
				v, _ := c.Values.Index(j)
				cols[k].Values = cols[k].Values.Cons(v)
				k++
			}
		}
	}
	return vals.NewDataFrame(cols)
}
