package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/paiml/ruchy-sub012/pkg/env"
	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/must"
	"github.com/paiml/ruchy-sub012/pkg/testutil"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

var Args = tt.Args

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(testutil.Dedent(`
		overflow: checked
		max_call_depth: 100
		feedback:
		  enabled: false
		  hot_threshold: 3
		actors:
		  call_timeout_ms: 250
		repl:
		  prompt: "> "
		`)))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Overflow = "checked"
	want.MaxCallDepth = 100
	want.Feedback = Feedback{Enabled: false, HotThreshold: 3}
	want.Actors.CallTimeoutMs = 250
	want.REPL.Prompt = "> "
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func parseError(text string) string {
	_, err := Parse(strings.NewReader(text))
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return strings.Join(ve.Issues, "; ")
	}
	return "parse"
}

func TestParse_Errors(t *testing.T) {
	tt.Test(t, tt.Fn("parseError", parseError), tt.Table{
		Args("overflow: wrap").Rets(""),
		Args("overflow: saturate").Rets(`overflow must be wrap or checked, got "saturate"`),
		Args("max_call_depth: 0").Rets("max_call_depth must be positive"),
		Args("inference: {recursion_limit: -1}\nactors: {call_timeout_ms: -5}").Rets(
			"inference.recursion_limit must be positive; actors.call_timeout_ms must not be negative"),
		Args("no_such_key: 1").Rets("parse"),
		Args("overflow: [").Rets("parse"),
	})
}

func TestPath(t *testing.T) {
	testutil.Setenv(t, env.RUCHY_CONFIG, "/from/env.yaml")
	if got := Path("/from/flag.yaml"); got != "/from/flag.yaml" {
		t.Errorf("Path with flag = %q", got)
	}
	if got := Path(""); got != "/from/env.yaml" {
		t.Errorf("Path with env = %q", got)
	}
	testutil.Unsetenv(t, env.RUCHY_CONFIG)
	testutil.Setenv(t, env.XDG_CONFIG_HOME, "/xdg")
	if got, want := Path(""), filepath.Join("/xdg", "ruchy", "config.yaml"); got != want {
		t.Errorf("Path with XDG_CONFIG_HOME = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.Unsetenv(t, env.RUCHY_CONFIG)
	testutil.Setenv(t, env.XDG_CONFIG_HOME, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.Path != "" || cfg.Overflow != "wrap" {
		t.Errorf("Load with no file = %+v, want defaults", cfg)
	}

	path := filepath.Join(dir, "ruchy", "config.yaml")
	must.WriteFile(path, "max_call_depth: 64\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path || cfg.MaxCallDepth != 64 {
		t.Errorf("Load = %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load of a missing flag file succeeded")
	}
}

func TestInterpreterOptions(t *testing.T) {
	cfg := Default()
	cfg.Overflow = "checked"
	cfg.Actors.CallTimeoutMs = 20
	opts := cfg.InterpreterOptions()
	if opts.Overflow != eval.OverflowChecked {
		t.Errorf("Overflow = %v", opts.Overflow)
	}
	if opts.CallTimeout != 20*time.Millisecond {
		t.Errorf("CallTimeout = %v", opts.CallTimeout)
	}
	if opts.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", opts.ShutdownTimeout)
	}
	if opts.MaxCallDepth != eval.DefaultMaxCallDepth || !opts.Feedback || !opts.InlineCache {
		t.Errorf("options = %+v", opts)
	}
}

func TestHistoryDB(t *testing.T) {
	cfg := Default()
	testutil.Setenv(t, env.RUCHY_HISTORY_DB, "/env/history.db")
	if got := cfg.HistoryDB(); got != "/env/history.db" {
		t.Errorf("HistoryDB = %q", got)
	}
	cfg.REPL.HistoryDB = "/cfg/history.db"
	if got := cfg.HistoryDB(); got != "/cfg/history.db" {
		t.Errorf("HistoryDB = %q", got)
	}
}
