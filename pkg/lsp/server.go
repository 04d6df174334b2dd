package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	mu   sync.Mutex
	docs map[lsp.DocumentURI]*document
}

// document is an open text document together with the results of parsing
// and type checking it.
type document struct {
	content  string
	tree     parse.Tree
	parseErr error
	types    *types.Context
	typeErr  error
}

func analyze(uri lsp.DocumentURI, content string) *document {
	src := parse.Source{Name: string(uri), Code: content}
	d := &document{content: content}
	d.tree, d.parseErr = parse.Parse(src)
	if d.parseErr != nil || d.tree.Root == nil {
		return d
	}
	d.types = types.NewContext()
	d.types.SetSource(src)
	_, d.typeErr = d.types.Infer(d.tree.Root)
	d.types.DefaultNumerics()
	return d
}

func newServer() *server {
	return &server{docs: make(map[lsp.DocumentURI]*document)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"initialized":                     noop,
		"shutdown":                        noop,
		"exit":                            noop,
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{TriggerCharacters: []string{"."}},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// Only full syncs are advertised, so the last change holds the whole text.
	changes := params.ContentChanges
	s.update(ctx, conn, params.TextDocument.URI, changes[len(changes)-1].Text)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil, nil
}

func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	d := analyze(uri, content)
	s.mu.Lock()
	s.docs[uri] = d
	s.mu.Unlock()
	go publishDiagnostics(ctx, conn, uri, d)
}

func (s *server) doc(uri lsp.DocumentURI) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	d := s.doc(params.TextDocument.URI)
	if d == nil || d.types == nil {
		return lsp.Hover{}, nil
	}
	idx := lspPositionToIdx(d.content, params.Position)
	e := innermostAt(d.tree.Root, idx)
	if e == nil {
		return lsp.Hover{}, nil
	}
	t, ok := d.types.TypeOf(e)
	if !ok {
		return lsp.Hover{}, nil
	}
	text := t.String()
	if id, ok := e.Kind.(*parse.Ident); ok {
		text = id.Name + ": " + text
	}
	rg := lspRangeFromRange(d.content, e)
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "ruchy", Value: text}},
		Range:    &rg,
	}, nil
}

// innermostAt returns the smallest expression whose range contains idx.
func innermostAt(root *parse.Expr, idx int) *parse.Expr {
	var found *parse.Expr
	parse.Walk(root, func(e *parse.Expr) bool {
		if idx < e.From || idx >= e.To {
			return true
		}
		if found == nil || e.To-e.From <= found.To-found.From {
			found = e
		}
		return true
	})
	return found
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	d := s.doc(params.TextDocument.URI)
	if d == nil {
		return []lsp.CompletionItem{}, nil
	}
	dot := lspPositionToIdx(d.content, params.Position)
	start := wordStart(d.content, dot)
	prefix := d.content[start:dot]
	replace := lspRangeFromRange(d.content, diag.Ranging{From: start, To: dot})

	items := []lsp.CompletionItem{}
	add := func(label string, kind lsp.CompletionItemKind, detail string) {
		if !strings.HasPrefix(label, prefix) {
			return
		}
		items = append(items, lsp.CompletionItem{
			Label:    label,
			Kind:     kind,
			Detail:   detail,
			TextEdit: &lsp.TextEdit{Range: replace, NewText: label},
		})
	}
	if d.types != nil {
		for _, b := range d.bindings() {
			kind := lsp.CIKVariable
			if _, ok := b.typ.(types.Function); ok {
				kind = lsp.CIKFunction
			}
			add(b.name, kind, b.typ.String())
		}
	}
	for _, name := range types.Builtins() {
		if !strings.Contains(name, "::") {
			add(name, lsp.CIKFunction, "builtin")
		}
	}
	for _, kw := range parse.Keywords() {
		add(kw, lsp.CIKKeyword, "")
	}
	return items, nil
}

type binding struct {
	name string
	typ  types.Type
}

// bindings returns the names bound by let and fn anywhere in the document,
// with their inferred types, sorted by name.
func (d *document) bindings() []binding {
	seen := map[string]bool{}
	var bs []binding
	add := func(name string, e *parse.Expr) {
		if name == "" || seen[name] {
			return
		}
		if t, ok := d.types.TypeOf(e); ok {
			seen[name] = true
			bs = append(bs, binding{name, t})
		}
	}
	parse.Walk(d.tree.Root, func(e *parse.Expr) bool {
		switch n := e.Kind.(type) {
		case *parse.Let:
			add(n.Name, n.Value)
		case *parse.Function:
			add(n.Name, e)
		}
		return true
	})
	sort.Slice(bs, func(i, j int) bool { return bs[i].name < bs[j].name })
	return bs
}

func wordStart(s string, dot int) int {
	i := dot
	for i > 0 && isWordByte(s[i-1]) {
		i--
	}
	return i
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, d *document) {
	err := conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(d)})
	if err != nil {
		logger.Printf("publish diagnostics of %s: %v", uri, err)
	}
}

func diagnostics(d *document) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	add := func(err error, source string, severity lsp.DiagnosticSeverity) {
		for _, e := range unpack(err) {
			diags = append(diags, lsp.Diagnostic{
				Range:    lspRangeFromRange(d.content, e),
				Severity: severity,
				Code:     e.Type,
				Source:   source,
				Message:  e.Message,
			})
		}
	}
	if d.parseErr != nil {
		add(d.parseErr, "parse", lsp.Error)
		return diags
	}
	add(d.typeErr, "types", lsp.Error)
	if d.types != nil {
		for _, w := range d.types.Warnings() {
			add(w, "types", lsp.Warning)
		}
	}
	return diags
}

func unpack(err error) []*diag.Error {
	if err == nil {
		return nil
	}
	if errs := diag.UnpackErrors(err); len(errs) > 0 {
		return errs
	}
	var de *diag.Error
	if errors.As(err, &de) {
		return []*diag.Error{de}
	}
	return nil
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// One UTF-16 unit.
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
