// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/paiml/ruchy-sub012/pkg/store/storedefs"
)

var historyEntries = []string{"let x = 1", "x + 1", "let y = x * 2", "fn f() { 1 }"}

// TestHistory tests the history functionality of a Store.
func TestHistory(t *testing.T, store Store) {
	t.Helper()

	startSeq, err := store.NextSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextSeq() -> (%v, %v), want (1, nil)", startSeq, err)
	}

	for i, text := range historyEntries {
		wantSeq := startSeq + i
		seq, err := store.AddEntry(text)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddEntry(%q) -> (%v, %v), want (%v, nil)", text, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextSeq()
	wantEndSeq := startSeq + len(historyEntries)
	if endSeq != wantEndSeq || err != nil {
		t.Errorf("store.NextSeq() -> (%v, %v), want (%v, nil)", endSeq, err, wantEndSeq)
	}

	text, err := store.Entry(2)
	if text != "x + 1" || err != nil {
		t.Errorf("store.Entry(2) -> (%q, %v), want (%q, nil)", text, err, "x + 1")
	}

	entries, err := store.Entries(2, 4)
	want := []Entry{{Text: "x + 1", Seq: 2}, {Text: "let y = x * 2", Seq: 3}}
	if diff := cmp.Diff(want, entries); diff != "" || err != nil {
		t.Errorf("store.Entries(2, 4) (-want +got):\n%s\nerr: %v", diff, err)
	}

	entries, err = store.LastEntries(2)
	want = []Entry{{Text: "let y = x * 2", Seq: 3}, {Text: "fn f() { 1 }", Seq: 4}}
	if diff := cmp.Diff(want, entries); diff != "" || err != nil {
		t.Errorf("store.LastEntries(2) (-want +got):\n%s\nerr: %v", diff, err)
	}

	entry, err := store.PrevEntry(4, "let")
	if entry != (Entry{Text: "let y = x * 2", Seq: 3}) || err != nil {
		t.Errorf("store.PrevEntry(4, \"let\") -> (%v, %v)", entry, err)
	}
	_, err = store.PrevEntry(4, "nope")
	if err != ErrNoMatchingEntry {
		t.Errorf("store.PrevEntry(4, \"nope\") -> error %v, want ErrNoMatchingEntry", err)
	}

	if err := store.DelEntry(1); err != nil {
		t.Errorf("store.DelEntry(1) -> %v", err)
	}
	if _, err := store.Entry(1); err != ErrNoMatchingEntry {
		t.Errorf("store.Entry(1) after delete -> error %v, want ErrNoMatchingEntry", err)
	}
}

// TestSnapshot tests the binding snapshots of a Store.
func TestSnapshot(t *testing.T, store Store) {
	t.Helper()

	if _, err := store.Snapshot(); err != ErrNoSnapshot {
		t.Errorf("store.Snapshot() on empty store -> error %v, want ErrNoSnapshot", err)
	}

	bindings := []Binding{{Name: "x", Value: "1"}, {Name: "name", Value: `"ruchy"`}, {Name: "xs", Value: "[1, 2, 3]"}}
	if err := store.SaveSnapshot(bindings); err != nil {
		t.Fatalf("store.SaveSnapshot -> %v", err)
	}
	got, err := store.Snapshot()
	if diff := cmp.Diff(bindings, got); diff != "" || err != nil {
		t.Errorf("store.Snapshot() (-want +got):\n%s\nerr: %v", diff, err)
	}

	// A new snapshot replaces the old one.
	if err := store.SaveSnapshot(bindings[:1]); err != nil {
		t.Fatalf("store.SaveSnapshot -> %v", err)
	}
	got, _ = store.Snapshot()
	if diff := cmp.Diff(bindings[:1], got); diff != "" {
		t.Errorf("store.Snapshot() after replace (-want +got):\n%s", diff)
	}

	if err := store.ClearSnapshot(); err != nil {
		t.Errorf("store.ClearSnapshot() -> %v", err)
	}
	if _, err := store.Snapshot(); err != ErrNoSnapshot {
		t.Errorf("store.Snapshot() after clear -> error %v, want ErrNoSnapshot", err)
	}
}
