package vals

import (
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Column is a named column of a DataFrame.
type Column struct {
	Name   string
	Values List
}

// DataFrame is a table of named columns. All columns have the same length.
type DataFrame struct{ Columns []Column }

// NewDataFrame creates a DataFrame, checking that all columns have the same
// length.
func NewDataFrame(cols []Column) (DataFrame, error) {
	for i, c := range cols {
		if c.Values.Len() != cols[0].Values.Len() {
			return DataFrame{}, fmt.Errorf("column %s has %d values, column %s has %d",
				c.Name, c.Values.Len(), cols[0].Name, cols[0].Values.Len())
		}
		for _, prev := range cols[:i] {
			if prev.Name == c.Name {
				return DataFrame{}, fmt.Errorf("duplicate column %s", c.Name)
			}
		}
	}
	return DataFrame{cols}, nil
}

func (df DataFrame) Kind() string { return "dataframe" }

// Rows returns the number of rows.
func (df DataFrame) Rows() int {
	if len(df.Columns) == 0 {
		return 0
	}
	return df.Columns[0].Values.Len()
}

// Len returns the number of rows.
func (df DataFrame) Len() int { return df.Rows() }

// Column returns the values of the named column.
func (df DataFrame) Column(name string) (List, bool) {
	for _, c := range df.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// ColumnAt returns the values of the i-th column.
func (df DataFrame) ColumnAt(i int) (List, bool) {
	if i < 0 || i >= len(df.Columns) {
		return nil, false
	}
	return df.Columns[i].Values, true
}

// ColumnNames returns the column names in order.
func (df DataFrame) ColumnNames() []string {
	names := make([]string, len(df.Columns))
	for i, c := range df.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the i-th row as an Object keyed by column name.
func (df DataFrame) Row(i int) Object {
	row := Object{}
	for _, c := range df.Columns {
		v, _ := c.Values.Index(i)
		row = row.Set(c.Name, v)
	}
	return row
}

// Select returns a DataFrame with only the named columns, in the given order.
func (df DataFrame) Select(names ...string) (DataFrame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		values, ok := df.Column(name)
		if !ok {
			return DataFrame{}, NoSuchKey(name)
		}
		cols = append(cols, Column{name, values})
	}
	return DataFrame{cols}, nil
}

// Slice returns the rows [i, j).
func (df DataFrame) Slice(i, j int) DataFrame {
	cols := make([]Column, len(df.Columns))
	for k, c := range df.Columns {
		cols[k] = Column{c.Name, c.Values.SubVector(i, j)}
	}
	return DataFrame{cols}
}

// KeepRows returns a DataFrame with the rows for which keep returns true.
func (df DataFrame) KeepRows(keep func(i int) bool) DataFrame {
	cols := make([]Column, len(df.Columns))
	for k, c := range df.Columns {
		cols[k] = Column{c.Name, EmptyList}
	}
	for i := 0; i < df.Rows(); i++ {
		if !keep(i) {
			continue
		}
		for k, c := range df.Columns {
			v, _ := c.Values.Index(i)
			cols[k].Values = cols[k].Values.Cons(v)
		}
	}
	return DataFrame{cols}
}

// WithColumn returns a DataFrame with the named column added or replaced.
func (df DataFrame) WithColumn(name string, values List) (DataFrame, error) {
	if len(df.Columns) > 0 && values.Len() != df.Rows() {
		return DataFrame{}, fmt.Errorf("column %s has %d values, want %d", name, values.Len(), df.Rows())
	}
	cols := make([]Column, 0, len(df.Columns)+1)
	replaced := false
	for _, c := range df.Columns {
		if c.Name == name {
			cols = append(cols, Column{name, values})
			replaced = true
		} else {
			cols = append(cols, c)
		}
	}
	if !replaced {
		cols = append(cols, Column{name, values})
	}
	return DataFrame{cols}, nil
}

func (df DataFrame) Repr(indent int) string {
	b := NewReprBuilder("df![", "]", indent)
	for _, c := range df.Columns {
		key := c.Name
		if !parse.IsIdent(key) {
			key = parse.Quote(key)
		}
		b.WriteElem(key + " => " + Repr(c.Values, indent+1))
	}
	return b.String()
}
