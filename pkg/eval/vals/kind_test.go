package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

type xtype int

func TestKind(t *testing.T) {
	tt.Test(t, tt.Fn("Kind", Kind), tt.Table{
		tt.Args(nil).Rets("nil"),
		tt.Args(true).Rets("bool"),
		tt.Args("").Rets("string"),
		tt.Args(int64(1)).Rets("integer"),
		tt.Args(1.0).Rets("float"),
		tt.Args(Atom("ok")).Rets("atom"),
		tt.Args(EmptyList).Rets("array"),
		tt.Args(Tuple{int64(1)}).Rets("tuple"),
		tt.Args(Range{Start: 0, End: 3}).Rets("range"),
		tt.Args(NewObject()).Rets("object"),
		tt.Args(NewObjectMut(NewObject())).Rets("object"),
		tt.Args(MakeSet()).Rets("set"),
		tt.Args(NewStruct("P", nil, nil)).Rets("struct"),
		tt.Args(NewInstance("C", nil, nil, nil)).Rets("class"),
		tt.Args(None).Rets("enum"),
		tt.Args(DataFrame{}).Rets("dataframe"),
		tt.Args(xtype(0)).Rets("!!vals.xtype"),
	})
}

func TestTypeName(t *testing.T) {
	tt.Test(t, tt.Fn("TypeName", TypeName), tt.Table{
		tt.Args(int64(1)).Rets("integer"),
		tt.Args(NewStruct("Point", nil, nil)).Rets("Point"),
		tt.Args(NewInstance("Counter", nil, nil, nil)).Rets("Counter"),
		tt.Args(MakeSome(int64(1))).Rets("Option"),
		tt.Args(MakeOk(int64(1))).Rets("Result"),
		tt.Args(NewObject("type", "Ok")).Rets("object"),
	})
}
