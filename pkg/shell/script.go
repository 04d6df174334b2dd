package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/config"
	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/transpile"
)

// Runs a program. When the program declares a main function and never calls
// it at the top level, main is called after the top level is evaluated.
func runFile(fds [3]*os.File, cfg *config.Config, fname string) int {
	tree, exit := parseFile(fds[2], fname)
	if exit != exitOK {
		return exit
	}

	ip := newInterpreter(fds, cfg)
	defer ip.Close()
	ip.SetSource(tree.Source)

	_, err := evalInterruptible(ip, func() (any, error) {
		v, err := ip.EvalExpr(tree.Root)
		if err == nil && needsMainCall(tree.Root) {
			logger.Println("calling main")
			v, err = ip.EvalString("main()")
		}
		return v, err
	})
	if err != nil {
		report(fds[2], err)
		return exitRuntime
	}
	return exitOK
}

// needsMainCall reports whether root declares fn main at the top level
// without calling it there.
func needsMainCall(root *parse.Expr) bool {
	declared, called := false, false
	for _, item := range topLevel(root) {
		switch n := item.Kind.(type) {
		case *parse.Function:
			if n.Name == "main" {
				declared = true
			}
		case *parse.Call:
			if id, ok := n.Func.Kind.(*parse.Ident); ok && id.Name == "main" {
				called = true
			}
		}
	}
	return declared && !called
}

// topLevel returns the top-level items of a program, including the ones in
// the bodies of top-level lets.
func topLevel(root *parse.Expr) []*parse.Expr {
	var items []*parse.Expr
	var visit func(es []*parse.Expr)
	visit = func(es []*parse.Expr) {
		for _, e := range es {
			items = append(items, e)
			var body *parse.Expr
			switch n := e.Kind.(type) {
			case *parse.Let:
				body = n.Body
			case *parse.LetPattern:
				body = n.Body
			}
			if body == nil {
				continue
			}
			if b, ok := body.Kind.(*parse.Block); ok {
				visit(b.Exprs)
			} else {
				visit([]*parse.Expr{body})
			}
		}
	}
	if b, ok := root.Kind.(*parse.Block); ok {
		visit(b.Exprs)
	} else {
		visit([]*parse.Expr{root})
	}
	return items
}

// Parses and type checks a program, printing errors and warnings.
func checkFile(fds [3]*os.File, cfg *config.Config, fname string) int {
	tree, exit := parseFile(fds[2], fname)
	if exit != exitOK {
		return exit
	}
	ctx := newTypeContext(cfg, tree.Source)
	_, err := ctx.Infer(tree.Root)
	for _, w := range ctx.Warnings() {
		fmt.Fprintln(fds[2], "warning:", w.Show(""))
	}
	if err != nil {
		report(fds[2], err)
		return exitType
	}
	return exitOK
}

// Transpiles a program to Rust, writing the result to output or stdout.
func transpileFile(fds [3]*os.File, fname, output string) int {
	tree, exit := parseFile(fds[2], fname)
	if exit != exitOK {
		return exit
	}
	tr := transpile.New()
	tr.SetSource(tree.Source)
	ts, err := tr.TranspileProgram(tree.Root)
	if err != nil {
		report(fds[2], err)
		return exitTranspile
	}
	code := ts.Format()
	if output == "" {
		fmt.Fprint(fds[1], code)
		return exitOK
	}
	if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
		fmt.Fprintf(fds[2], "cannot write %q: %v\n", output, err)
		return exitUsage
	}
	logger.Printf("wrote %s", output)
	return exitOK
}

// Parses and type checks every file and summarizes the result. The exit code
// is the worst one among the files: a parse error outranks a type error.
func qualityGate(fds [3]*os.File, cfg *config.Config, fnames []string, asJSON bool) int {
	var results []fileResult
	exit := exitOK
	for _, fname := range fnames {
		r := checkQuality(cfg, fname)
		results = append(results, r)
		if r.exit != exitOK && (exit == exitOK || r.exit < exit) {
			exit = r.exit
		}
	}
	if asJSON {
		fmt.Fprintf(fds[1], "%s\n", summaryToJSON(results))
		return exit
	}
	passed := 0
	for _, r := range results {
		if r.exit == exitOK {
			passed++
			fmt.Fprintf(fds[1], "ok   %s\n", r.name)
			continue
		}
		fmt.Fprintf(fds[1], "FAIL %s\n", r.name)
		if r.readErr != nil {
			fmt.Fprintf(fds[2], "cannot read %q: %v\n", r.name, r.readErr)
		} else {
			report(fds[2], r.err)
		}
	}
	fmt.Fprintf(fds[1], "%d of %d files passed\n", passed, len(results))
	return exit
}

type fileResult struct {
	name     string
	exit     int
	readErr  error
	err      error
	warnings []*diag.Error
}

func checkQuality(cfg *config.Config, fname string) fileResult {
	r := fileResult{name: fname}
	code, err := readFileUTF8(fname)
	if err != nil {
		r.exit, r.readErr = exitUsage, err
		return r
	}
	src := parse.Source{Name: fname, Code: code}
	tree, err := parse.Parse(src)
	if err != nil {
		r.exit, r.err = exitParse, err
		return r
	}
	ctx := newTypeContext(cfg, src)
	if _, err := ctx.Infer(tree.Root); err != nil {
		r.exit, r.err = exitType, err
	}
	r.warnings = ctx.Warnings()
	return r
}

// parseFile reads and parses a file, printing any error to w. It returns the
// exit code to use when that fails.
func parseFile(w io.Writer, fname string) (parse.Tree, int) {
	code, err := readFileUTF8(fname)
	if err != nil {
		fmt.Fprintf(w, "cannot read %q: %v\n", fname, err)
		return parse.Tree{}, exitUsage
	}
	tree, err := parse.Parse(parse.Source{Name: fname, Code: code})
	if err != nil {
		report(w, err)
		return parse.Tree{}, exitParse
	}
	return tree, exitOK
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	Kind     string `json:"kind"`
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

type fileInJSON struct {
	FileName string        `json:"fileName"`
	Passed   bool          `json:"passed"`
	Exit     int           `json:"exit"`
	Errors   []errorInJSON `json:"errors"`
	Warnings []errorInJSON `json:"warnings"`
}

type summaryInJSON struct {
	Files  []fileInJSON `json:"files"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
}

// Converts the results of quality-gate into JSON.
func summaryToJSON(results []fileResult) []byte {
	var summary summaryInJSON
	for _, r := range results {
		f := fileInJSON{FileName: r.name, Passed: r.exit == exitOK, Exit: r.exit,
			Errors: []errorInJSON{}, Warnings: errorsToJSON(r.warnings)}
		switch {
		case r.readErr != nil:
			f.Errors = append(f.Errors,
				errorInJSON{Kind: "ReadError", FileName: r.name, Message: r.readErr.Error()})
		case r.err != nil:
			f.Errors = errorsToJSON(diag.UnpackErrors(r.err))
		}
		if f.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Files = append(summary.Files, f)
	}
	jsonSummary, errMarshal := json.Marshal(summary)
	if errMarshal != nil {
		return []byte(`{"message":"Unable to convert the summary to JSON"}`)
	}
	return jsonSummary
}

func errorsToJSON(errs []*diag.Error) []errorInJSON {
	converted := []errorInJSON{}
	for _, e := range errs {
		converted = append(converted,
			errorInJSON{e.Type, e.Context.Name, e.Context.From, e.Context.To, e.Message})
	}
	return converted
}
