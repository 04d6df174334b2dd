package eval

import (
	"strconv"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval/actor"
	"github.com/paiml/ruchy-sub012/pkg/eval/pattern"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Lifecycle hooks an actor may define as methods.
const (
	hookStart   = "on_start"
	hookStop    = "on_stop"
	hookError   = "on_error"
	hookRestart = "on_restart"
)

func (fm *Frame) actorDef(n *parse.Actor) *ActorDef {
	def := &ActorDef{Decl: n, env: fm.env, src: fm.src}
	class := &ClassDef{
		Name:         n.Name,
		Fields:       n.State,
		Constructors: map[string]*parse.Constructor{},
		Methods:      make(map[string]*Closure),
		Constants:    map[string]any{},
		src:          fm.src,
	}
	for _, f := range n.State {
		class.Names = append(class.Names, f.Name)
	}
	class.env = fm.selfEnv(def)
	for _, m := range n.Methods {
		if f, ok := m.Kind.(*parse.Function); ok {
			c := fm.methodClosure(f, n.Name, class.env)
			if !f.IsMethod() {
				// Hooks and helpers may be declared without self; they still
				// see the actor state as self.
				c.Params = append([]parse.Param{selfParam}, c.Params...)
				c.Self = parse.SelfMutRef
			}
			class.Methods[f.Name] = c
		}
	}
	def.class = class
	return def
}

// actorBehavior runs an actor's handlers. Its methods run on the actor's
// goroutine and hold the interpreter lock while evaluating code.
type actorBehavior struct {
	ip   *Interpreter
	def  *ActorDef
	init map[string]any

	state *vals.Instance
	self  *actor.Actor
}

func (b *actorBehavior) frame() *Frame {
	env := NewEnv(b.def.class.env)
	env.Define("self", b.state, true)
	return &Frame{ip: b.ip, env: env, src: b.def.src, actor: b}
}

// ensureState creates the initial state from the spawn arguments and the
// field defaults. The caller must hold the interpreter lock.
func (b *actorBehavior) ensureState() error {
	if b.state != nil {
		return nil
	}
	class := b.def.class
	fm := &Frame{ip: b.ip, env: b.def.env, src: b.def.src, actor: b}
	fields, err := fm.fieldDefaults(nil, class.Fields, b.def.env, b.def.src, func(name string) bool {
		_, ok := b.init[name]
		return ok
	})
	if err != nil {
		return err
	}
	for k, v := range b.init {
		fields[k] = v
	}
	b.state = vals.NewInstance(class.Name, class.Names, class, fields)
	return nil
}

// hook calls a lifecycle method if the actor defines it.
func (b *actorBehavior) hook(name string, args ...any) error {
	m, ok := b.def.class.Methods[name]
	if !ok {
		return nil
	}
	fm := b.frame()
	_, _, err := fm.callClosure(nil, m, b.state, true, args[:min(len(args), len(m.params()))])
	return err
}

func (b *actorBehavior) Start(self *actor.Actor) error {
	b.ip.gil.Lock()
	defer b.ip.gil.Unlock()
	b.self = self
	if err := b.ensureState(); err != nil {
		return err
	}
	return b.hook(hookStart)
}

func (b *actorBehavior) Handle(self *actor.Actor, msg any) (any, error) {
	b.ip.gil.Lock()
	defer b.ip.gil.Unlock()
	b.self = self
	if err := b.ensureState(); err != nil {
		return nil, err
	}
	fm := b.frame()
	body, ok, err := fm.matchArms(b.def.Decl.Handlers, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fm.errorf(nil, MatchFailure, "actor %s has no handler for %s", b.def.Decl.Name, vals.ReprPlain(msg))
	}
	v, err := body()
	if flow, ok := err.(*flowError); ok && flow.flow == Return {
		return flow.value, nil
	}
	return v, err
}

func (b *actorBehavior) Stop(self *actor.Actor) {
	b.ip.gil.Lock()
	defer b.ip.gil.Unlock()
	if b.state == nil {
		return
	}
	if err := b.hook(hookStop); err != nil {
		logger.Printf("%s #%d: %s: %v", b.def.Decl.Name, self.ID, hookStop, err)
	}
}

func (b *actorBehavior) Error(self *actor.Actor, err error) {
	b.ip.gil.Lock()
	defer b.ip.gil.Unlock()
	if b.state == nil {
		return
	}
	var v any = err.Error()
	if exc, ok := err.(*Exception); ok {
		v = exc
	}
	if herr := b.hook(hookError, v); herr != nil {
		logger.Printf("%s #%d: %s: %v", b.def.Decl.Name, self.ID, hookError, herr)
	}
}

func (b *actorBehavior) Restarted(self *actor.Actor, reason error) {
	b.ip.gil.Lock()
	defer b.ip.gil.Unlock()
	b.self = self
	if err := b.ensureState(); err != nil {
		logger.Printf("%s #%d: restart: %v", b.def.Decl.Name, self.ID, err)
		return
	}
	if err := b.hook(hookRestart, reason.Error()); err != nil {
		logger.Printf("%s #%d: %s: %v", b.def.Decl.Name, self.ID, hookRestart, err)
	}
}

// factory returns a Factory for an actor with the given initial fields. It
// does not evaluate code: it runs on actor goroutines when restarting.
func (ip *Interpreter) factory(def *ActorDef, init map[string]any) actor.Factory {
	return func() (actor.Behavior, error) {
		return &actorBehavior{ip: ip, def: def, init: init}, nil
	}
}

func (fm *Frame) evalSpawn(e *parse.Expr, n *parse.Spawn) (any, error) {
	switch a := n.Actor.Kind.(type) {
	case *parse.StructLiteral:
		def, ok := fm.lookup(a.Name)
		if ad, isActor := def.(*ActorDef); ok && isActor {
			init := make(map[string]any, len(a.Fields))
			for _, f := range a.Fields {
				v, err := fm.eval(f.Value)
				if err != nil {
					return nil, err
				}
				init[f.Name] = v
			}
			if err := checkFields(fm, e, ad.Decl.Name, ad.class.Names, init); err != nil {
				return nil, err
			}
			return fm.spawnWith(e, ad, init)
		}
	case *parse.Call:
		f, err := fm.eval(a.Func)
		if err != nil {
			return nil, err
		}
		args, err := fm.evalExprs(a.Args)
		if err != nil {
			return nil, err
		}
		switch def := f.(type) {
		case *ActorDef:
			return fm.spawnActor(e, def, args)
		case *SupervisorDef:
			return fm.startSupervisor(e, def)
		}
		return fm.call(n.Actor, f, args)
	}
	v, err := fm.eval(n.Actor)
	if err != nil {
		return nil, err
	}
	switch def := v.(type) {
	case *ActorDef:
		return fm.spawnWith(e, def, nil)
	case *SupervisorDef:
		return fm.startSupervisor(e, def)
	}
	return nil, fm.errorf(e, TypeError, "cannot spawn %s", vals.TypeName(v))
}

// spawnActor spawns an actor whose state fields are initialized from
// positional arguments in declaration order.
func (fm *Frame) spawnActor(e *parse.Expr, def *ActorDef, args []any) (any, error) {
	names := def.class.Names
	if len(args) > len(names) {
		return nil, fm.errorf(e, TypeError, "actor %s has %d fields, got %d arguments", def.Decl.Name, len(names), len(args))
	}
	init := make(map[string]any, len(args))
	for i, a := range args {
		init[names[i]] = a
	}
	return fm.spawnWith(e, def, init)
}

func (fm *Frame) spawnWith(e *parse.Expr, def *ActorDef, init map[string]any) (any, error) {
	a, err := fm.ip.runtime.Spawn(def.Decl.Name, fm.ip.factory(def, init))
	if err != nil {
		return nil, fm.wrap(e, err)
	}
	return ActorHandle{a.ID, def.Decl.Name}, nil
}

func (fm *Frame) startSupervisor(e *parse.Expr, def *SupervisorDef) (any, error) {
	d := def.Decl
	strategy, err := actor.ParseStrategy(d.Strategy)
	if err != nil {
		return nil, fm.errorf(e, TypeError, "%v", err)
	}
	sup := fm.ip.runtime.NewSupervisor(d.Name, strategy, int(d.MaxRestarts), time.Duration(d.MaxSeconds)*time.Second)
	declFrame := &Frame{ip: fm.ip, env: def.env, src: def.src, depth: fm.depth, trace: fm.trace}
	for i := range d.Children {
		c := &d.Children[i]
		v, ok := declFrame.lookup(c.Actor)
		ad, isActor := v.(*ActorDef)
		if !ok || !isActor {
			sup.Stop()
			return nil, declFrame.errorf(c, UndefinedVariable, "undefined actor %s", c.Actor)
		}
		args, err := declFrame.evalExprs(c.Args)
		if err != nil {
			sup.Stop()
			return nil, err
		}
		if len(args) > len(ad.class.Names) {
			sup.Stop()
			return nil, declFrame.errorf(c, TypeError, "actor %s has %d fields, got %d arguments", c.Actor, len(ad.class.Names), len(args))
		}
		init := make(map[string]any, len(args))
		for i, a := range args {
			init[ad.class.Names[i]] = a
		}
		restart, err := actor.ParseRestartPolicy(c.Restart)
		if err != nil {
			sup.Stop()
			return nil, declFrame.errorf(c, TypeError, "%v", err)
		}
		spec := actor.ChildSpec{ID: c.ID, Type: c.Actor, Factory: fm.ip.factory(ad, init), Restart: restart, Shutdown: shutdownTimeout(c.Shutdown)}
		if _, err := sup.StartChild(spec); err != nil {
			sup.Stop()
			return nil, declFrame.errorf(c, TypeError, "%v", err)
		}
	}
	return SupervisorHandle{sup}, nil
}

// shutdownTimeout converts a shutdown mode: "Brutal" does not wait,
// "Infinity" waits forever, and a number is a timeout in milliseconds.
func shutdownTimeout(mode string) time.Duration {
	switch mode {
	case "Brutal":
		return 0
	case "Infinity":
		return -1
	}
	ms, err := strconv.ParseInt(mode, 10, 64)
	if err != nil || ms < 0 {
		return 5 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}

func (fm *Frame) actorID(e *parse.Expr, target any) (actor.ID, error) {
	switch t := target.(type) {
	case ActorHandle:
		return t.ID, nil
	case int64:
		return actor.ID(t), nil
	}
	return 0, fm.errorf(e, TypeError, "cannot send to %s", vals.TypeName(target))
}

func (fm *Frame) evalSend(e *parse.Expr, n *parse.Send) (any, error) {
	target, err := fm.eval(n.Target)
	if err != nil {
		return nil, err
	}
	msg, err := fm.eval(n.Message)
	if err != nil {
		return nil, err
	}
	id, err := fm.actorID(n.Target, target)
	if err != nil {
		return nil, err
	}
	if n.Kind == parse.Fire {
		return nil, fm.send(e, id, msg)
	}
	timeout := fm.ip.opts.CallTimeout
	if n.Timeout != nil {
		v, err := fm.eval(n.Timeout)
		if err != nil {
			return nil, err
		}
		ms, err := vals.AsInt(v)
		if err != nil {
			return nil, fm.errorf(n.Timeout, TypeError, "timeout must be an integer number of milliseconds")
		}
		timeout = time.Duration(ms) * time.Millisecond
	}
	return fm.ask(e, id, msg, timeout)
}

func (fm *Frame) send(e *parse.Expr, id actor.ID, msg any) error {
	if err := fm.ip.runtime.Send(id, msg); err != nil {
		return fm.errorf(e, kindOfError(err), "send to actor #%d: %v", id, err)
	}
	return nil
}

func (fm *Frame) ask(e *parse.Expr, id actor.ID, msg any, timeout time.Duration) (any, error) {
	v, err := fm.ip.runtime.Call(fm.ip.ctx, id, msg, timeout)
	if err != nil {
		if exc, ok := err.(*Exception); ok {
			return nil, exc
		}
		return nil, fm.errorf(e, kindOfError(err), "call to actor #%d: %v", id, err)
	}
	return v, nil
}

// evalReceive waits for the first queued message matching one of the arms.
// Messages that match no arm stay in the mailbox.
func (fm *Frame) evalReceive(e *parse.Expr, n *parse.Receive) (any, error) {
	if fm.actor == nil || fm.actor.self == nil {
		return nil, fm.errorf(e, TypeError, "receive outside of an actor")
	}
	accept := func(msg any) bool {
		for _, arm := range n.Arms {
			if _, ok := pattern.Match(arm.Pattern, msg); ok {
				return true
			}
		}
		return false
	}
	msg, err := fm.actor.self.Receive(accept, 0)
	if err != nil {
		return nil, fm.errorf(e, kindOfError(err), "receive: %v", err)
	}
	body, ok, err := fm.matchArms(n.Arms, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fm.errorf(e, MatchFailure, "no receive arm matched %s", vals.ReprPlain(msg))
	}
	return body()
}

// makeFuture returns a future that evaluates body in the current scope when
// awaited.
func (fm *Frame) makeFuture(body *parse.Expr) *Future {
	captured := &Frame{ip: fm.ip, env: fm.env, src: fm.src, depth: fm.depth, trace: fm.trace, actor: fm.actor}
	return newFuture(func() (any, error) {
		v, err := captured.eval(body)
		if flow, ok := err.(*flowError); ok && flow.flow == Return {
			return flow.value, nil
		}
		return v, err
	})
}

// await forces a future. Other values are already available and are
// returned as is.
func (fm *Frame) await(v any) (any, error) {
	if f, ok := v.(*Future); ok {
		return f.Await()
	}
	return v, nil
}
