// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoMatchingEntry is the error returned when a history query completes
// with no result.
var ErrNoMatchingEntry = errors.New("no matching history entry")

// ErrNoSnapshot is returned by Snapshot when no bindings have been saved.
var ErrNoSnapshot = errors.New("no saved bindings")

// Store is an interface satisfied by the storage service of the REPL.
type Store interface {
	NextSeq() (int, error)
	AddEntry(text string) (int, error)
	DelEntry(seq int) error
	Entry(seq int) (string, error)
	Entries(from, upto int) ([]Entry, error)
	LastEntries(n int) ([]Entry, error)
	PrevEntry(upto int, prefix string) (Entry, error)

	SaveSnapshot(bindings []Binding) error
	Snapshot() ([]Binding, error)
	ClearSnapshot() error
}

// Entry is an entry in the REPL history.
type Entry struct {
	Text string
	Seq  int
}

// Binding is a saved REPL binding: the name and the printed form of its
// value.
type Binding struct {
	Name  string
	Value string
}
