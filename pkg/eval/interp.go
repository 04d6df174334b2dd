// Package eval implements the tree-walking interpreter.
//
// An Interpreter evaluates parsed code over a chain of scopes and keeps state
// between evaluations: top-level bindings, declared types and methods, the
// type feedback and inline caches, and the actor runtime.
package eval

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/paiml/ruchy-sub012/pkg/eval/actor"
	"github.com/paiml/ruchy-sub012/pkg/eval/feedback"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Interpreter evaluates code and keeps the state that persists between
// evaluations. Evaluation runs under a global lock: actor handlers run on
// their own goroutines and take the lock, and the lock is released while
// waiting for replies, messages or sleeps. An Interpreter is safe to use
// concurrently.
type Interpreter struct {
	gil  sync.Mutex
	opts Options

	// The outermost scope.
	root *Env
	// The innermost top-level scope. Top-level lets create scopes that
	// become the new top, so later evaluations see them.
	top    *Env
	scopes []*Env

	builtins map[string]any
	// User methods by type name.
	methods map[string]map[string]*Closure
	traits  map[string]*TraitDef

	recorder *feedback.Recorder
	caches   *feedback.Caches
	sites    map[*parse.Expr]feedback.SiteID

	runtime *actor.Runtime
	ctx     context.Context
	cancel  context.CancelFunc

	// Source of the last evaluation, used by EvalExpr.
	src parse.Source

	interrupted atomic.Bool
}

// New creates an Interpreter with DefaultOptions.
func New() *Interpreter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an Interpreter.
func NewWithOptions(opts Options) *Interpreter {
	opts.fillDefaults()
	root := NewEnv(nil)
	ip := &Interpreter{
		opts:     opts,
		root:     root,
		top:      root,
		builtins: makeBuiltins(),
		methods:  make(map[string]map[string]*Closure),
		traits:   make(map[string]*TraitDef),
		recorder: feedback.NewRecorder(opts.HotThreshold),
		caches:   feedback.NewCaches(),
		sites:    make(map[*parse.Expr]feedback.SiteID),
		runtime:  actor.NewRuntime(),
		src:      parse.Source{Name: "[eval]"},
	}
	ip.ctx, ip.cancel = context.WithCancel(context.Background())
	ip.runtime.Blocking = ip.blocking
	return ip
}

// blocking runs wait with the global lock released. The caller must hold the
// lock.
func (ip *Interpreter) blocking(wait func()) {
	ip.gil.Unlock()
	defer ip.gil.Lock()
	wait()
}

// Options returns the options of the Interpreter.
func (ip *Interpreter) Options() Options { return ip.opts }

// Eval parses and evaluates a source. Syntax errors are returned as a
// diag.MultiError; runtime errors as an *Exception.
func (ip *Interpreter) Eval(src parse.Source) (any, error) {
	tree, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.src = src
	return ip.evalTop(tree.Root)
}

// EvalString parses and evaluates code.
func (ip *Interpreter) EvalString(code string) (any, error) {
	return ip.Eval(parse.Source{Name: "[eval]", Code: code})
}

// EvalExpr evaluates an already parsed expression. Error positions refer to
// the source of the last call to Eval, or to SetSource.
func (ip *Interpreter) EvalExpr(e *parse.Expr) (any, error) {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	return ip.evalTop(e)
}

// SetSource sets the source that expressions passed to EvalExpr were parsed
// from.
func (ip *Interpreter) SetSource(src parse.Source) {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.src = src
}

// Interrupt makes the evaluation in progress fail with Interrupted at the
// next loop iteration or function call. It may be called without waiting for
// the evaluation, typically from a signal handler.
func (ip *Interpreter) Interrupt() { ip.interrupted.Store(true) }

func (ip *Interpreter) evalTop(e *parse.Expr) (any, error) {
	ip.interrupted.Store(false)
	fm := &Frame{ip: ip, env: ip.top, src: ip.src}
	var v any
	var err error
	if block, ok := e.Kind.(*parse.Block); ok {
		v, err = fm.evalSeq(block.Exprs)
	} else {
		v, err = fm.eval(e)
	}
	if flow, ok := err.(*flowError); ok {
		if flow.flow == Return {
			return flow.value, nil
		}
		return nil, fm.errorf(flow.from, TypeError, "%s outside of a loop", flow.flow)
	}
	return v, err
}

// SetGlobalBinding binds name in the current top-level scope.
func (ip *Interpreter) SetGlobalBinding(name string, v any) {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.top.Define(name, v, true)
}

// GlobalBindings returns the values of all top-level bindings.
func (ip *Interpreter) GlobalBindings() map[string]any {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	m := make(map[string]any)
	for _, name := range ip.top.Names() {
		m[name], _ = ip.top.Get(name)
	}
	return m
}

// PushScope starts a new top-level scope; PopScope discards it with all the
// bindings made since.
func (ip *Interpreter) PushScope() {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.scopes = append(ip.scopes, ip.top)
	ip.top = NewEnv(ip.top)
}

// PopScope returns to the top-level scope current at the matching PushScope.
// It reports false if there is no scope to pop.
func (ip *Interpreter) PopScope() bool {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	if len(ip.scopes) == 0 {
		return false
	}
	ip.top = ip.scopes[len(ip.scopes)-1]
	ip.scopes = ip.scopes[:len(ip.scopes)-1]
	return true
}

// ClearUserVariables removes all user bindings, types and methods.
func (ip *Interpreter) ClearUserVariables() {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.root = NewEnv(nil)
	ip.top = ip.root
	ip.scopes = nil
	ip.methods = make(map[string]map[string]*Closure)
	ip.traits = make(map[string]*TraitDef)
}

// CacheStats returns statistics of the inline caches.
func (ip *Interpreter) CacheStats() feedback.CacheStats {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	return ip.caches.Stats()
}

// ClearCaches empties the inline caches.
func (ip *Interpreter) ClearCaches() {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.caches.Clear()
}

// TypeFeedbackStats returns statistics of the recorded type feedback.
func (ip *Interpreter) TypeFeedbackStats() feedback.Stats {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	return ip.recorder.Stats()
}

// SpecializationCandidates returns the sites that would benefit most from
// specialization.
func (ip *Interpreter) SpecializationCandidates() []feedback.Candidate {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	return ip.recorder.SpecializationCandidates()
}

// ClearTypeFeedback discards the recorded type feedback.
func (ip *Interpreter) ClearTypeFeedback() {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.recorder.Clear()
}

// ActorCount returns the number of live actors.
func (ip *Interpreter) ActorCount() int { return ip.runtime.Len() }

// Close stops all actors and supervisors.
func (ip *Interpreter) Close() error {
	ip.gil.Lock()
	defer ip.gil.Unlock()
	ip.cancel()
	ip.runtime.Shutdown(ip.opts.ShutdownTimeout)
	logger.Println("interpreter closed")
	return nil
}

func (ip *Interpreter) siteOf(e *parse.Expr) feedback.SiteID {
	id, ok := ip.sites[e]
	if !ok {
		id = feedback.SiteID(len(ip.sites) + 1)
		ip.sites[e] = id
	}
	return id
}

func (ip *Interpreter) addMethod(typeName string, m *Closure) {
	ms := ip.methods[typeName]
	if ms == nil {
		ms = make(map[string]*Closure)
		ip.methods[typeName] = ms
	}
	ms[m.Name] = m
}
