// Package config loads the optional YAML configuration of the ruchy command.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paiml/ruchy-sub012/pkg/env"
	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/eval/feedback"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var logger = logutil.GetLogger("[config] ")

// Config is the contents of the configuration file.
type Config struct {
	Overflow     string      `yaml:"overflow"`
	MaxCallDepth int         `yaml:"max_call_depth"`
	Inference    Inference   `yaml:"inference"`
	Feedback     Feedback    `yaml:"feedback"`
	InlineCache  InlineCache `yaml:"inline_cache"`
	Actors       Actors      `yaml:"actors"`
	REPL         REPL        `yaml:"repl"`

	// Path of the file the configuration was read from; empty for defaults.
	Path string `yaml:"-"`
}

type Inference struct {
	RecursionLimit int `yaml:"recursion_limit"`
}

type Feedback struct {
	Enabled      bool `yaml:"enabled"`
	HotThreshold int  `yaml:"hot_threshold"`
}

type InlineCache struct {
	Enabled bool `yaml:"enabled"`
}

type Actors struct {
	CallTimeoutMs     int `yaml:"call_timeout_ms"`
	ShutdownTimeoutMs int `yaml:"shutdown_timeout_ms"`
}

type REPL struct {
	HistoryDB string `yaml:"history_db"`
	Prompt    string `yaml:"prompt"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Overflow:     "wrap",
		MaxCallDepth: eval.DefaultMaxCallDepth,
		Inference:    Inference{RecursionLimit: types.DefaultRecursionLimit},
		Feedback:     Feedback{Enabled: true, HotThreshold: feedback.DefaultHotThreshold},
		InlineCache:  InlineCache{Enabled: true},
		Actors:       Actors{ShutdownTimeoutMs: 5000},
		REPL:         REPL{Prompt: "ruchy> "},
	}
}

// ValidationError aggregates the problems found in a configuration.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		sb.WriteString("\n- ")
		sb.WriteString(issue)
	}
	return sb.String()
}

// Path returns the configuration file to use: the flag value if non-empty,
// then $RUCHY_CONFIG, then config.yaml in the ruchy directory of
// $XDG_CONFIG_HOME or ~/.config.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(env.RUCHY_CONFIG); p != "" {
		return p
	}
	if dir := os.Getenv(env.XDG_CONFIG_HOME); dir != "" {
		return filepath.Join(dir, "ruchy", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "ruchy", "config.yaml")
	}
	return ""
}

// Load reads the configuration found by Path(flag). A missing file gives the
// defaults, unless the file was named explicitly by the flag.
func Load(flag string) (*Config, error) {
	path := Path(flag)
	if path == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && flag == "" {
			logger.Printf("no config file at %s, using defaults", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	logger.Printf("loaded config from %s", path)
	return cfg, nil
}

// Parse decodes and validates a configuration. Keys left out keep their
// default values; unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var issues []string
	switch c.Overflow {
	case "wrap", "checked":
	default:
		issues = append(issues, fmt.Sprintf("overflow must be wrap or checked, got %q", c.Overflow))
	}
	if c.MaxCallDepth <= 0 {
		issues = append(issues, "max_call_depth must be positive")
	}
	if c.Inference.RecursionLimit <= 0 {
		issues = append(issues, "inference.recursion_limit must be positive")
	}
	if c.Feedback.HotThreshold <= 0 {
		issues = append(issues, "feedback.hot_threshold must be positive")
	}
	if c.Actors.CallTimeoutMs < 0 {
		issues = append(issues, "actors.call_timeout_ms must not be negative")
	}
	if c.Actors.ShutdownTimeoutMs < 0 {
		issues = append(issues, "actors.shutdown_timeout_ms must not be negative")
	}
	if len(issues) > 0 {
		return &ValidationError{issues}
	}
	return nil
}

// InterpreterOptions converts the configuration to interpreter options.
func (c *Config) InterpreterOptions() eval.Options {
	opts := eval.DefaultOptions()
	if c.Overflow == "checked" {
		opts.Overflow = eval.OverflowChecked
	}
	opts.MaxCallDepth = c.MaxCallDepth
	opts.Feedback = c.Feedback.Enabled
	opts.HotThreshold = c.Feedback.HotThreshold
	opts.InlineCache = c.InlineCache.Enabled
	opts.CallTimeout = time.Duration(c.Actors.CallTimeoutMs) * time.Millisecond
	opts.ShutdownTimeout = time.Duration(c.Actors.ShutdownTimeoutMs) * time.Millisecond
	return opts
}

// HistoryDB returns the path of the REPL database: the configured one, then
// $RUCHY_HISTORY_DB, then ruchy/history.db in the data directory.
func (c *Config) HistoryDB() string {
	if c.REPL.HistoryDB != "" {
		return c.REPL.HistoryDB
	}
	if p := os.Getenv(env.RUCHY_HISTORY_DB); p != "" {
		return p
	}
	if dir := os.Getenv(env.XDG_DATA_HOME); dir != "" {
		return filepath.Join(dir, "ruchy", "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "ruchy", "history.db")
	}
	return ""
}
