// Package lsp implements a language server for Ruchy.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the lsp subprogram.
type Program struct{}

func (Program) Run(fds [3]*os.File, _ *prog.Flags, args []string) error {
	if len(args) == 0 || args[0] != "lsp" {
		return prog.ErrNotSuitable
	}
	if len(args) > 1 {
		return prog.BadUsage("lsp takes no arguments")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	logger.Println("language server started")
	<-conn.DisconnectNotify()
	logger.Println("language server stopped")
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
