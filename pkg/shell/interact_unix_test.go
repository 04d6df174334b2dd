//go:build unix

package shell

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/creack/pty"

	"github.com/paiml/ruchy-sub012/pkg/buildinfo"
	"github.com/paiml/ruchy-sub012/pkg/config"
	"github.com/paiml/ruchy-sub012/pkg/must"
)

func TestInteract_Terminal(t *testing.T) {
	setup(t)
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pseudo terminal:", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	// The terminal buffers the input until the REPL reads it.
	must.OK1(ptmx.WriteString("1 + 2\n:quit\n"))

	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	outCh, errCh := readPipe(r1), readPipe(r2)
	Interact([3]*os.File{tty, w1, w2}, config.Default())
	w1.Close()
	w2.Close()

	wantOut := "Ruchy " + buildinfo.Value.Version + ". Type :help for help.\n3\n"
	if out := <-outCh; out != wantOut {
		t.Errorf("got stdout %q, want %q", out, wantOut)
	}
	if errOut := <-errCh; !strings.HasPrefix(errOut, "ruchy> ") {
		t.Errorf("got stderr %q, want prompts", errOut)
	}
}

func readPipe(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
