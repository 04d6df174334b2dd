// Package shell implements the commands of the ruchy binary that work on
// programs: run, repl, check, transpile and quality-gate.
package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/paiml/ruchy-sub012/pkg/config"
	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/prog"
	"github.com/paiml/ruchy-sub012/pkg/sys"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var logger = logutil.GetLogger("[shell] ")

// Exit codes.
const (
	exitOK        = 0
	exitRuntime   = 1
	exitUsage     = 2
	exitParse     = 3
	exitType      = 4
	exitTranspile = 5
)

// Program is the shell subprogram. It runs the REPL when no command is
// given.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	cmd := "repl"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "repl", "run", "check", "transpile", "quality-gate":
	default:
		if _, err := os.Stat(cmd); err != nil {
			return prog.BadUsage(fmt.Sprintf("unknown command %q", cmd))
		}
		// "ruchy file.ruchy" is short for "ruchy run file.ruchy".
		cmd, args = "run", append([]string{cmd}, args...)
	}

	cfg, err := config.Load(f.Config)
	if err != nil {
		return err
	}

	switch cmd {
	case "repl":
		if len(args) > 0 {
			return prog.BadUsage("repl takes no arguments")
		}
		Interact(fds, cfg)
		return nil
	case "run":
		if len(args) != 1 {
			return prog.BadUsage("run takes exactly one file")
		}
		return prog.Exit(runFile(fds, cfg, args[0]))
	case "check":
		if len(args) != 1 {
			return prog.BadUsage("check takes exactly one file")
		}
		return prog.Exit(checkFile(fds, cfg, args[0]))
	case "transpile":
		if len(args) != 1 {
			return prog.BadUsage("transpile takes exactly one file")
		}
		return prog.Exit(transpileFile(fds, args[0], f.Output))
	default:
		if len(args) == 0 {
			return prog.BadUsage("quality-gate takes at least one file")
		}
		return prog.Exit(qualityGate(fds, cfg, args, f.JSON))
	}
}

// report writes err to w, preceded by a machine readable "error[<Kind>]"
// line.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "error[%s]\n", errorKind(err))
	diag.ShowError(w, err)
}

// errorKind returns the kind of a runtime exception, or of the first error
// that points at source code.
func errorKind(err error) string {
	if kind := eval.KindOf(err); kind != "" {
		return string(kind)
	}
	if errs := diag.UnpackErrors(err); len(errs) > 0 {
		return errs[0].Type
	}
	return "Error"
}

func newInterpreter(fds [3]*os.File, cfg *config.Config) *eval.Interpreter {
	opts := cfg.InterpreterOptions()
	opts.Stdout, opts.Stderr = fds[1], fds[2]
	return eval.NewWithOptions(opts)
}

func newTypeContext(cfg *config.Config, src parse.Source) *types.Context {
	ctx := types.NewContext()
	ctx.RecursionLimit = cfg.Inference.RecursionLimit
	ctx.SetSource(src)
	return ctx
}

// evalInterruptible calls f, interrupting the interpreter when the process
// receives an interrupt signal meanwhile.
func evalInterruptible(ip *eval.Interpreter, f func() (any, error)) (any, error) {
	interrupts, stop := sys.NotifyInterrupt()
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-interrupts:
			logger.Println("got signal", sig)
			ip.Interrupt()
		case <-done:
		}
	}()
	return f()
}
