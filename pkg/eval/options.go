package eval

import (
	"io"
	"os"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval/feedback"
)

// OverflowMode selects what integer arithmetic does on overflow.
type OverflowMode uint8

const (
	// OverflowWrap wraps around in two's complement.
	OverflowWrap OverflowMode = iota
	// OverflowChecked raises an error of kind Overflow.
	OverflowChecked
)

func (m OverflowMode) String() string {
	if m == OverflowChecked {
		return "checked"
	}
	return "wrap"
}

// DefaultMaxCallDepth is the default limit on nested calls.
const DefaultMaxCallDepth = 2048

// Options configures an Interpreter.
type Options struct {
	Overflow OverflowMode
	// Calls nested deeper than this raise StackOverflow.
	MaxCallDepth int
	// Whether to record type feedback, and after how many observations a
	// site counts as hot.
	Feedback     bool
	HotThreshold int
	// Whether field accesses and method calls go through inline caches.
	InlineCache bool
	// Default timeout of call messages; 0 waits forever.
	CallTimeout time.Duration
	// How long Close waits for each actor to stop.
	ShutdownTimeout time.Duration
	// Where print and eprint write. Nil means os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Overflow:        OverflowWrap,
		MaxCallDepth:    DefaultMaxCallDepth,
		Feedback:        true,
		HotThreshold:    feedback.DefaultHotThreshold,
		InlineCache:     true,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (o *Options) fillDefaults() {
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	if o.HotThreshold <= 0 {
		o.HotThreshold = feedback.DefaultHotThreshold
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}
