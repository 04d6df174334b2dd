package store_test

import (
	"path/filepath"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/store"
	"github.com/paiml/ruchy-sub012/pkg/store/storetest"
)

func TestHistory(t *testing.T) {
	storetest.TestHistory(t, store.MustTempStore(t))
}

func TestSnapshot(t *testing.T) {
	storetest.TestSnapshot(t, store.MustTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "db")
	st, err := store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddEntry("1 + 1"); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if text, err := st.Entry(1); text != "1 + 1" || err != nil {
		t.Errorf("Entry(1) after reopen -> (%q, %v), want (\"1 + 1\", nil)", text, err)
	}
}
