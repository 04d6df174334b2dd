// Package prog provides the entry point to Ruchy. The subprograms it runs
// live in other packages.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/env"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/sys"
)

var logger = logutil.GetLogger("[prog] ")

// Flags keeps command-line flags.
type Flags struct {
	Log, CPUProfile, Config string

	Help, Version, BuildInfo, JSON bool

	// Output file of transpile.
	Output string
}

func newFlagSet(f *Flags) *flag.FlagSet {
	fs := flag.NewFlagSet("ruchy", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Log, "log", "", "a file to write debug log to")
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write cpu profile to file")
	fs.StringVar(&f.Config, "config", "", "path to the configuration file")

	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show version and quit")
	fs.BoolVar(&f.BuildInfo, "buildinfo", false, "show build info and quit")
	fs.BoolVar(&f.JSON, "json", false, "show output in JSON; useful with -buildinfo and quality-gate")

	fs.StringVar(&f.Output, "o", "", "write the output of transpile to this file")
	return fs
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: ruchy [flags] <command> [args]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  run <file>              run a program")
	fmt.Fprintln(out, "  repl                    start an interactive session")
	fmt.Fprintln(out, "  transpile <file>        translate a program to Rust")
	fmt.Fprintln(out, "  check <file>            parse and type check a program")
	fmt.Fprintln(out, "  quality-gate <files...> check many programs and summarize")
	fmt.Fprintln(out, "  lsp                     run the language server on stdin and stdout")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// parseInterspersed parses flags that may appear before and after positional
// arguments, as in "ruchy transpile -o out.rs main.ruchy". Everything after
// "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) (exit int) {
	f := &Flags{}
	fs := newFlagSet(f)
	rest, err := parseInterspersed(fs, args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h was requested
			// but not defined. Treat it like any other undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	// Handle flags common to all subprograms.
	if f.CPUProfile != "" {
		f, err := os.Create(f.CPUProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
			fmt.Fprintln(fds[2], "Continuing without CPU profiling.")
		} else {
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}
	}

	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	} else if os.Getenv(env.RUCHY_DEBUG) != "" {
		logutil.SetOutput(fds[2])
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(fds[2], "internal error:", r)
			logger.Println("panic:", r)
			logger.Print(sys.DumpStack())
			exit = 1
		}
	}()

	logger.Printf("running %s", strings.Join(args, " "))
	err = p.Run(fds, f, rest)
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var exitErr exitError
	switch {
	case errors.As(err, new(badUsageError)):
		usage(fds[2], fs)
	case errors.As(err, &exitErr):
		return exitErr.exit
	}
	return 2
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNotSuitable.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, f, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNotSuitable
	return ErrNotSuitable
}

// ErrNotSuitable is a special error that may be returned by Program.Run, to
// signify that this Program should not be run. It is useful when a Program is
// used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a subprogram.
type Program interface {
	// Run runs the subprogram. The first element of args, if any, is the
	// command name.
	Run(fds [3]*os.File, f *Flags, args []string) error
}
