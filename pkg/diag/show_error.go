package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/paiml/ruchy-sub012/pkg/env"
)

// ShowError writes an error to w. It uses the Show method if the error
// implements Shower, and writes the plain message otherwise. The kind is
// highlighted when w is a terminal.
func ShowError(w io.Writer, err error) {
	if useColor(w) {
		defer withColor()()
	}
	if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		Complain(w, err.Error())
	}
}

// Complain prints a message to w, adding a trailing newline. The message is
// bold red on a terminal.
func Complain(w io.Writer, msg string) {
	if useColor(w) {
		fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
	} else {
		fmt.Fprintln(w, msg)
	}
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd()) && os.Getenv(env.NO_COLOR) == ""
}

func withColor() func() {
	saved := [4]string{messageStart, messageEnd, caretStart, caretEnd}
	messageStart, messageEnd = "\033[31;1m", "\033[m"
	caretStart, caretEnd = "\033[32;1m", "\033[m"
	return func() {
		messageStart, messageEnd, caretStart, caretEnd = saved[0], saved[1], saved[2], saved[3]
	}
}
