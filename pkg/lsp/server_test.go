package lsp

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"

	"github.com/paiml/ruchy-sub012/pkg/must"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

var Args = tt.Args

const testURI = lsp.DocumentURI("file:///test.ruchy")

func open(content string) *server {
	s := newServer()
	s.docs[testURI] = analyze(testURI, content)
	return s
}

func position(line, char int) json.RawMessage {
	return must.OK1(json.Marshal(lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
		Position:     lsp.Position{Line: line, Character: char},
	}))
}

type diagSummary struct {
	Source, Code string
	Severity     lsp.DiagnosticSeverity
	Start        lsp.Position
}

func summarize(ds []lsp.Diagnostic) []diagSummary {
	out := []diagSummary{}
	for _, d := range ds {
		out = append(out, diagSummary{d.Source, d.Code, d.Severity, d.Range.Start})
	}
	return out
}

func TestDiagnostics(t *testing.T) {
	tt.Test(t, tt.Fn("diagnostics", func(code string) []diagSummary {
		return summarize(diagnostics(analyze(testURI, code)))
	}), tt.Table{
		Args("let x = 1\nx + 2").Rets([]diagSummary{}),
		Args("let = 5").Rets([]diagSummary{
			{"parse", "ExpectedConstruct", lsp.Error, lsp.Position{Line: 0, Character: 4}},
		}),
		Args("let a = 1\nif a { 2 } else { 3 }").Rets([]diagSummary{
			{"types", "TypeMismatch", lsp.Error, lsp.Position{Line: 1, Character: 3}},
		}),
	})
}

func TestHover(t *testing.T) {
	s := open("let x = 1\nx + 2")
	res, err := s.hover(nil, nil, position(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	h := res.(lsp.Hover)
	if len(h.Contents) != 1 || h.Contents[0].Value != "x: Int" {
		t.Errorf("hover contents = %v, want x: Int", h.Contents)
	}
	wantRange := lsp.Range{Start: lsp.Position{Line: 1}, End: lsp.Position{Line: 1, Character: 1}}
	if diff := cmp.Diff(&wantRange, h.Range); diff != "" {
		t.Errorf("hover range (-want +got):\n%s", diff)
	}
}

func TestHover_UnknownDocument(t *testing.T) {
	s := newServer()
	res, err := s.hover(nil, nil, position(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if h := res.(lsp.Hover); len(h.Contents) != 0 {
		t.Errorf("hover of unknown document = %v", h)
	}
}

func labels(items []lsp.CompletionItem) []string {
	out := []string{}
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func TestCompletion(t *testing.T) {
	s := open("let value = 1\nlet vast = \"s\"\nva")
	res, err := s.completion(nil, nil, position(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	items := res.([]lsp.CompletionItem)
	if diff := cmp.Diff([]string{"value", "vast"}, labels(items)); diff != "" {
		t.Errorf("completion labels (-want +got):\n%s", diff)
	}
	if items[0].Detail != "Int" || items[1].Detail != "String" {
		t.Errorf("completion details = %q, %q", items[0].Detail, items[1].Detail)
	}
	wantEdit := lsp.Range{Start: lsp.Position{Line: 2}, End: lsp.Position{Line: 2, Character: 2}}
	if items[0].TextEdit == nil || items[0].TextEdit.Range != wantEdit {
		t.Errorf("completion edit = %v", items[0].TextEdit)
	}
}

func TestCompletion_KeywordsAndBuiltins(t *testing.T) {
	s := open("pri")
	res, _ := s.completion(nil, nil, position(0, 3))
	got := res.([]lsp.CompletionItem)
	if diff := cmp.Diff([]string{"print", "println"}, labels(got)); diff != "" {
		t.Errorf("completion labels (-want +got):\n%s", diff)
	}
	for _, item := range got {
		if item.Kind != lsp.CIKFunction {
			t.Errorf("kind of %s = %v, want function", item.Label, item.Kind)
		}
	}
}

func TestPositions(t *testing.T) {
	const s = "ab\nc世\U0001F600d"
	tt.Test(t, tt.Fn("lspPositionFromIdx", lspPositionFromIdx), tt.Table{
		Args(s, 0).Rets(lsp.Position{Line: 0, Character: 0}),
		Args(s, 2).Rets(lsp.Position{Line: 0, Character: 2}),
		Args(s, 3).Rets(lsp.Position{Line: 1, Character: 0}),
		Args(s, 4).Rets(lsp.Position{Line: 1, Character: 1}),
		Args(s, 7).Rets(lsp.Position{Line: 1, Character: 2}),
		Args(s, 11).Rets(lsp.Position{Line: 1, Character: 4}),
	})
	tt.Test(t, tt.Fn("lspPositionToIdx", lspPositionToIdx), tt.Table{
		Args(s, lsp.Position{Line: 1, Character: 0}).Rets(3),
		Args(s, lsp.Position{Line: 1, Character: 4}).Rets(11),
	})
}
