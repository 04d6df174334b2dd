package store

import (
	"os"
	"path/filepath"
	"testing"
)

// MustTempStore returns a Store backed by a temporary file, closed when the
// test finishes.
func MustTempStore(t testing.TB) DBStore {
	st, err := NewStore(filepath.Join(t.TempDir(), "ruchy.db"))
	if err != nil {
		t.Fatalf("create temp store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil && !os.IsNotExist(err) {
			t.Errorf("close temp store: %v", err)
		}
	})
	return st
}
