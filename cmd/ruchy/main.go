// Ruchy runs, checks and transpiles programs written in the Ruchy language,
// and provides an interactive REPL and a language server for it.
package main

import (
	"os"

	"github.com/paiml/ruchy-sub012/pkg/buildinfo"
	"github.com/paiml/ruchy-sub012/pkg/lsp"
	"github.com/paiml/ruchy-sub012/pkg/prog"
	"github.com/paiml/ruchy-sub012/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program{}, lsp.Program{}, shell.Program{})))
}
