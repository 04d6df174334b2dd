package eval

import (
	"errors"
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Frame contains information of the current running function, akin to a call
// frame in native CPU execution. The scope changes as blocks and lets are
// entered; calls fork a new Frame.
type Frame struct {
	ip    *Interpreter
	env   *Env
	src   parse.Source
	depth int
	trace *StackTrace
	// The actor whose handler is running, for receive; nil elsewhere.
	actor *actorBehavior
	// The call site of the running builtin.
	site *parse.Expr
}

// Interpreter returns the Interpreter the frame belongs to.
func (fm *Frame) Interpreter() *Interpreter { return fm.ip }

// fork returns a Frame for running code of src in env, one call deeper.
func (fm *Frame) fork(env *Env, src parse.Source, callSite *parse.Expr) *Frame {
	trace := fm.trace
	if callSite != nil {
		trace = &StackTrace{fm.context(callSite), fm.trace}
	}
	return &Frame{ip: fm.ip, env: env, src: src, depth: fm.depth + 1, trace: trace, actor: fm.actor, site: fm.site}
}

// enter makes a new scope current and returns a function that restores the
// previous one.
func (fm *Frame) enter() func() {
	saved := fm.env
	fm.env = NewEnv(saved)
	return func() { fm.env = saved }
}

func (fm *Frame) context(r diag.Ranger) *diag.Context {
	return diag.NewContext(fm.src.Name, fm.src.Code, r)
}

// errorf creates an Exception located at r, or at the call site of the
// running builtin when r is nil.
// checkInterrupt returns an Interrupted exception if Interrupt was called
// since the evaluation started.
func (fm *Frame) checkInterrupt(r diag.Ranger) error {
	if fm.ip.interrupted.Load() {
		return fm.errorf(r, Interrupted, "interrupted")
	}
	return nil
}

func (fm *Frame) errorf(r diag.Ranger, kind ErrorKind, format string, args ...any) *Exception {
	exc := &Exception{Type: kind, Message: fmt.Sprintf(format, args...), StackTrace: fm.trace}
	if e, ok := r.(*parse.Expr); r == nil || ok && e == nil {
		r = nil
		if fm.site != nil {
			r = fm.site
		}
	}
	if r != nil {
		exc.Context = fm.context(r)
	}
	return exc
}

// wrap turns an error from a value operation into an Exception located at r.
// Exceptions and control flows are returned unchanged.
func (fm *Frame) wrap(r diag.Ranger, err error) error {
	if err == nil {
		return nil
	}
	var exc *Exception
	if errors.As(err, &exc) {
		return err
	}
	if _, ok := err.(*flowError); ok {
		return err
	}
	return fm.errorf(r, kindOfError(err), "%s", err.Error())
}

// lookup finds a name in the scope chain, then in the top-level scope, then
// among the builtins. Recursive closures find themselves through the
// top-level scope even when they were created before being bound.
func (fm *Frame) lookup(name string) (any, bool) {
	if b := fm.env.lookup(name); b != nil {
		return b.value, true
	}
	if v, ok := fm.ip.top.Get(name); ok {
		return v, true
	}
	v, ok := fm.ip.builtins[name]
	return v, ok
}
