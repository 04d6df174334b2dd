package vals

import (
	"testing"

	"github.com/xiaq/persistent/hash"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func TestHash(t *testing.T) {
	tt.Test(t, tt.Fn("Hash", Hash), tt.Table{
		tt.Args(false).Rets(uint32(0)),
		tt.Args(true).Rets(uint32(1)),
		tt.Args("foo").Rets(hash.String("foo")),
		tt.Args(MakeList("foo", "bar")).Rets(
			hash.DJBCombine(hash.DJBCombine(hash.DJBInit, hash.String("foo")), hash.String("bar"))),
		tt.Args(NewObject("foo", "bar")).Rets(
			hash.DJBCombine(hash.String("foo"), hash.String("bar"))),
		tt.Args(xtype(0)).Rets(uint32(0)),
	})
}
