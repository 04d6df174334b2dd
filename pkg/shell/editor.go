package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

const continuationPrompt = "   ...> "

// The interface the line editors of the REPL satisfy.
type editor interface {
	// ReadCode reads one complete input, which may span several lines. It
	// returns io.EOF at the end of input.
	ReadCode() (string, error)
	Close() error
}

// incomplete reports whether code only fails to parse because it ends before
// its delimiters are closed, so that reading another line may complete it.
func incomplete(code string) bool {
	_, err := parse.Parse(parse.Source{Name: "[repl]", Code: code})
	if err == nil {
		return false
	}
	for _, e := range diag.UnpackErrors(err) {
		if e.Type != parse.UnbalancedDelimiter {
			return false
		}
	}
	return true
}

// The editor used when stdin is not a terminal. Prompts go to out.
type minEditor struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

func newMinEditor(in *os.File, out io.Writer, prompt string) *minEditor {
	return &minEditor{bufio.NewReader(in), out, prompt}
}

func (ed *minEditor) ReadCode() (string, error) {
	fmt.Fprint(ed.out, ed.prompt)
	var lines []string
	for {
		line, err := ed.in.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return "", err
			}
			if line == "" && len(lines) == 0 {
				return "", io.EOF
			}
		}
		lines = append(lines, chopLineEnding(line))
		code := strings.Join(lines, "\n")
		if err != nil || !incomplete(code) {
			return code, nil
		}
		fmt.Fprint(ed.out, continuationPrompt)
	}
}

func (ed *minEditor) Close() error { return nil }

func chopLineEnding(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}

// The editor used when stdin is a terminal, with line editing, history and
// completion of keywords and builtins.
type linerEditor struct {
	state  *liner.State
	prompt string
}

func newLinerEditor(prompt string, history []string) *linerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeWord)
	for _, h := range history {
		state.AppendHistory(h)
	}
	return &linerEditor{state, prompt}
}

func (ed *linerEditor) ReadCode() (string, error) {
	var b strings.Builder
	for {
		prompt := ed.prompt
		if b.Len() > 0 {
			prompt = continuationPrompt
		}
		line, err := ed.state.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C discards the input read so far.
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if code := b.String(); !incomplete(code) {
			if strings.TrimSpace(code) != "" {
				ed.state.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			}
			return code, nil
		}
	}
}

func (ed *linerEditor) Close() error { return ed.state.Close() }

var completionWords = func() []string {
	var words []string
	words = append(words, parse.Keywords()...)
	for _, name := range types.Builtins() {
		if !strings.Contains(name, "::") {
			words = append(words, name)
		}
	}
	words = append(words, replCommandNames()...)
	sort.Strings(words)
	return words
}()

// completeWord completes the word at the end of line.
func completeWord(line string) []string {
	i := len(line)
	for i > 0 && isWordByte(line[i-1]) {
		i--
	}
	head, word := line[:i], line[i:]
	if word == "" {
		return nil
	}
	var candidates []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, word) {
			candidates = append(candidates, head+w)
		}
	}
	return candidates
}

func isWordByte(b byte) bool {
	return b == '_' || b == ':' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}
