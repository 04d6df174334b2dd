package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/buildinfo"
	"github.com/paiml/ruchy-sub012/pkg/config"
	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/store"
	"github.com/paiml/ruchy-sub012/pkg/sys"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

// Number of history entries loaded into the line editor.
const historyPreload = 500

// State of an interactive session.
type repl struct {
	fds [3]*os.File
	cfg *config.Config
	ip  *eval.Interpreter
	// Fed every input, so that :type knows the bindings made so far.
	types *types.Context
	// Nil when the database cannot be opened.
	store store.DBStore
	// Number of inputs evaluated, used to name sources.
	inputs int
}

// Interact runs an interactive session until the end of input or :quit.
func Interact(fds [3]*os.File, cfg *config.Config) {
	r := &repl{fds: fds, cfg: cfg, ip: newInterpreter(fds, cfg),
		types: newTypeContext(cfg, parse.Source{Name: "[repl]"})}
	defer r.ip.Close()
	r.store = openStore(fds[2], cfg.HistoryDB())
	if r.store != nil {
		defer r.store.Close()
	}

	var ed editor
	if sys.IsATTY(fds[0]) {
		fmt.Fprintf(fds[1], "Ruchy %s. Type :help for help.\n", buildinfo.Value.Version)
	}
	if sys.IsATTY(fds[0]) && fds[0] == os.Stdin {
		ed = newLinerEditor(cfg.REPL.Prompt, r.recentHistory())
	} else {
		ed = newMinEditor(fds[0], fds[2], cfg.REPL.Prompt)
	}
	defer func() { ed.Close() }()

	for {
		code, err := ed.ReadCode()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			if _, isMinEditor := ed.(*minEditor); isMinEditor {
				break
			}
			fmt.Fprintln(fds[2], "Falling back to basic line editor")
			ed.Close()
			ed = newMinEditor(fds[0], fds[2], cfg.REPL.Prompt)
			continue
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		r.addHistory(code)
		if strings.HasPrefix(code, ":") {
			if !r.command(code) {
				break
			}
			continue
		}
		r.eval(code)
	}
}

func openStore(stderr io.Writer, path string) store.DBStore {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err == nil {
		var st store.DBStore
		st, err = store.NewStore(path)
		if err == nil {
			return st
		}
	}
	fmt.Fprintln(stderr, "Warning: cannot open history database:", err)
	fmt.Fprintln(stderr, "History and :save are not available.")
	return nil
}

func (r *repl) recentHistory() []string {
	if r.store == nil {
		return nil
	}
	entries, err := r.store.LastEntries(historyPreload)
	if err != nil {
		logger.Println("cannot load history:", err)
		return nil
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}

func (r *repl) addHistory(code string) {
	if r.store == nil {
		return
	}
	if _, err := r.store.AddEntry(code); err != nil {
		logger.Println("cannot add history entry:", err)
	}
}

func (r *repl) nextSource(code string) parse.Source {
	r.inputs++
	return parse.Source{Name: fmt.Sprintf("[repl %d]", r.inputs), Code: code}
}

// eval evaluates one input and prints its value.
func (r *repl) eval(code string) {
	src := r.nextSource(code)
	tree, err := parse.Parse(src)
	if err != nil {
		report(r.fds[2], err)
		return
	}
	r.types.SetSource(src)
	if _, err := r.types.Infer(tree.Root); err != nil {
		// The interpreter decides; :type shows the errors.
		logger.Println("type errors:", err)
	}
	r.ip.SetSource(src)
	v, err := evalInterruptible(r.ip, func() (any, error) { return r.ip.EvalExpr(tree.Root) })
	if err != nil {
		report(r.fds[2], err)
		return
	}
	if items := topLevel(tree.Root); len(items) > 0 && isDeclaration(items[len(items)-1]) {
		return
	}
	r.show(v)
}

// isDeclaration reports whether e declares a function or a type, whose value
// the REPL does not print.
func isDeclaration(e *parse.Expr) bool {
	switch e.Kind.(type) {
	case *parse.Function, *parse.StructDecl, *parse.TupleStruct, *parse.Class,
		*parse.Enum, *parse.Trait, *parse.Impl, *parse.Actor, *parse.Supervisor:
		return true
	}
	return false
}

// show prints a value on one line, or pretty-printed when that line would not
// fit in the terminal. Unit values are not printed.
func (r *repl) show(v any) {
	if v == nil {
		return
	}
	s := vals.ReprPlain(v)
	if len(s) > sys.Columns(r.fds[1], 80) {
		s = vals.Repr(v, 0)
	}
	fmt.Fprintln(r.fds[1], s)
}
