package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/store/storedefs"
	"github.com/paiml/ruchy-sub012/pkg/transpile"
)

var replCommands = []struct{ name, args, help string }{
	{":type", "<expr>", "show the inferred type of an expression"},
	{":transpile", "<expr>", "show the Rust translation of an expression"},
	{":stats", "", "show inline cache and type feedback statistics"},
	{":history", "[n]", "show the last n inputs (default 20)"},
	{":save", "", "save the current bindings"},
	{":load", "", "restore the saved bindings"},
	{":clear", "", "remove all user bindings"},
	{":help", "", "show this help"},
	{":quit", "", "leave the REPL"},
}

func replCommandNames() []string {
	names := make([]string, len(replCommands))
	for i, c := range replCommands {
		names[i] = c.name
	}
	return names
}

const defaultHistoryShown = 20

// command runs a REPL command. It reports false when the session should end.
func (r *repl) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	out, errOut := r.fds[1], r.fds[2]
	switch name {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		for _, c := range replCommands {
			fmt.Fprintf(out, "  %-22s %s\n", strings.TrimSpace(c.name+" "+c.args), c.help)
		}
	case ":type", ":t":
		r.showType(arg)
	case ":transpile":
		r.showTranspiled(arg)
	case ":stats":
		r.showStats()
	case ":history":
		n := defaultHistoryShown
		if arg != "" {
			var err error
			n, err = strconv.Atoi(arg)
			if err != nil || n <= 0 {
				fmt.Fprintf(errOut, "bad count %q\n", arg)
				return true
			}
		}
		r.showHistory(n)
	case ":save":
		r.save()
	case ":load":
		r.load()
	case ":clear":
		r.ip.ClearUserVariables()
		r.types = newTypeContext(r.cfg, parse.Source{Name: "[repl]"})
		fmt.Fprintln(out, "cleared all bindings")
	default:
		fmt.Fprintf(errOut, "unknown command %s; type :help for help\n", name)
	}
	return true
}

func (r *repl) showType(code string) {
	if code == "" {
		fmt.Fprintln(r.fds[2], ":type needs an expression")
		return
	}
	src := r.nextSource(code)
	tree, err := parse.Parse(src)
	if err != nil {
		report(r.fds[2], err)
		return
	}
	r.types.SetSource(src)
	t, err := r.types.Infer(tree.Root)
	if err != nil {
		report(r.fds[2], err)
		return
	}
	fmt.Fprintln(r.fds[1], t)
}

func (r *repl) showTranspiled(code string) {
	if code == "" {
		fmt.Fprintln(r.fds[2], ":transpile needs an expression")
		return
	}
	src := r.nextSource(code)
	tree, err := parse.Parse(src)
	if err != nil {
		report(r.fds[2], err)
		return
	}
	tr := transpile.New()
	tr.SetSource(src)
	ts, err := tr.Transpile(tree.Root)
	if err != nil {
		report(r.fds[2], err)
		return
	}
	fmt.Fprint(r.fds[1], ts.Format())
}

// Number of specialization candidates :stats lists.
const candidatesShown = 5

func (r *repl) showStats() {
	out := r.fds[1]
	cs := r.ip.CacheStats()
	fmt.Fprintf(out, "inline caches: %d sites, %d hits, %d misses, %.1f%% hit rate\n",
		cs.Sites, cs.Hits, cs.Misses, 100*cs.HitRate())
	fmt.Fprintf(out, "  %d monomorphic, %d polymorphic, %d megamorphic\n",
		cs.Monomorphic, cs.Polymorphic, cs.Megamorphic)
	fs := r.ip.TypeFeedbackStats()
	fmt.Fprintf(out, "type feedback: %d recordings\n", fs.TotalRecordings)
	fmt.Fprintf(out, "  binary ops: %d sites, %d monomorphic, %d polymorphic, %d megamorphic\n",
		fs.BinaryOpSites, fs.MonomorphicBinaryOps, fs.PolymorphicBinaryOps, fs.MegamorphicBinaryOps)
	fmt.Fprintf(out, "  variables: %d, %d stable\n", fs.Variables, fs.StableVariables)
	fmt.Fprintf(out, "  call sites: %d, %d monomorphic\n", fs.CallSites, fs.MonomorphicCallSites)
	candidates := r.ip.SpecializationCandidates()
	if len(candidates) == 0 {
		return
	}
	fmt.Fprintln(out, "specialization candidates:")
	for i, c := range candidates {
		if i == candidatesShown {
			fmt.Fprintf(out, "  ... and %d more\n", len(candidates)-i)
			break
		}
		fmt.Fprintf(out, "  %s %s (%s): %d times, score %.1f\n",
			c.Kind, c.Name, strings.Join(c.Types, ", "), c.Count, c.Score())
	}
}

func (r *repl) showHistory(n int) {
	if r.store == nil {
		fmt.Fprintln(r.fds[2], "history is not available")
		return
	}
	entries, err := r.store.LastEntries(n)
	if err != nil {
		fmt.Fprintln(r.fds[2], "cannot read history:", err)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(r.fds[1], "%5d  %s\n", e.Seq, strings.ReplaceAll(e.Text, "\n", "\n       "))
	}
}

// save stores the bindings whose printed values can be evaluated back.
func (r *repl) save() {
	if r.store == nil {
		fmt.Fprintln(r.fds[2], "saving is not available")
		return
	}
	bindings := r.ip.GlobalBindings()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	var saved []storedefs.Binding
	for _, name := range names {
		repr := vals.Repr(bindings[name], vals.NoPretty)
		if _, err := parse.ParseExpr(repr); err != nil {
			logger.Printf("not saving %s: %s does not parse", name, repr)
			continue
		}
		saved = append(saved, storedefs.Binding{Name: name, Value: repr})
	}
	if err := r.store.SaveSnapshot(saved); err != nil {
		fmt.Fprintln(r.fds[2], "cannot save bindings:", err)
		return
	}
	fmt.Fprintf(r.fds[1], "saved %d bindings\n", len(saved))
}

func (r *repl) load() {
	if r.store == nil {
		fmt.Fprintln(r.fds[2], "loading is not available")
		return
	}
	bindings, err := r.store.Snapshot()
	if errors.Is(err, storedefs.ErrNoSnapshot) {
		fmt.Fprintln(r.fds[2], "no saved bindings")
		return
	} else if err != nil {
		fmt.Fprintln(r.fds[2], "cannot load bindings:", err)
		return
	}
	loaded := 0
	for _, b := range bindings {
		e, err := parse.ParseExpr(b.Value)
		if err != nil {
			fmt.Fprintf(r.fds[2], "cannot restore %s: %v\n", b.Name, err)
			continue
		}
		v, err := r.ip.EvalExpr(e)
		if err != nil {
			fmt.Fprintf(r.fds[2], "cannot restore %s: %v\n", b.Name, err)
			continue
		}
		r.ip.SetGlobalBinding(b.Name, v)
		if t, err := r.types.Infer(e); err == nil {
			r.types.Bind(b.Name, t)
		}
		loaded++
	}
	fmt.Fprintf(r.fds[1], "loaded %d bindings\n", loaded)
}
