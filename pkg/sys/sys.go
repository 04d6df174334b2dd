// Package sys provides the few terminal and process utilities the ruchy
// command needs, with the same API across OSes.
package sys

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WinSize queries the size of the terminal referenced by the given file. It
// returns -1, -1 if the file is not a terminal.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// Columns returns the width of the terminal referenced by file, or def if it
// cannot be determined.
func Columns(file *os.File, def int) int {
	if !IsATTY(file) {
		return def
	}
	if _, col := WinSize(file); col > 0 {
		return col
	}
	return def
}

// NotifyInterrupt returns a channel on which the signals that ask the
// program to stop are delivered, and a function that stops the delivery.
func NotifyInterrupt() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, interruptSignals...)
	return ch, func() { signal.Stop(ch) }
}
