// Package actor implements the actor runtime: a registry of actors, each
// processing messages from its mailbox one at a time on its own goroutine,
// and supervisors that restart failed actors.
//
// The runtime knows nothing about the language; the interpreter supplies a
// Behavior for every actor.
package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/logutil"
)

var logger = logutil.GetLogger("[actor] ")

var (
	// ErrActorNotFound is returned when addressing an actor that does not
	// exist or has stopped.
	ErrActorNotFound = errors.New("actor not found")
	// ErrTimeout is returned by Call and Receive when the timeout expires.
	ErrTimeout = errors.New("timed out")
	// ErrStopped is returned when the actor stops while a message is pending.
	ErrStopped = errors.New("actor stopped")
)

// ID identifies an actor within a Runtime.
type ID uint64

// Behavior is the code an actor runs. All methods are called on the actor's
// own goroutine, never concurrently.
type Behavior interface {
	// Start runs the on_start hook.
	Start(self *Actor) error
	// Handle processes one message. The returned value is the reply to a
	// Call; it is discarded for messages sent with Send.
	Handle(self *Actor, msg any) (any, error)
	// Stop runs the on_stop hook.
	Stop(self *Actor)
	// Error runs the on_error hook after Start or Handle fails.
	Error(self *Actor, err error)
	// Restarted runs the on_restart hook on a fresh Behavior that replaces a
	// failed one.
	Restarted(self *Actor, reason error)
}

// Factory creates the Behavior of an actor. Supervisors call it again to
// restart an actor with fresh state.
type Factory func() (Behavior, error)

// PanicError is the error of a Behavior method that panicked.
type PanicError struct{ Value any }

func (e PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Actor is a running actor.
type Actor struct {
	ID   ID
	Type string

	rt       *Runtime
	mb       *mailbox
	factory  Factory
	behavior Behavior
	done     chan struct{}

	// Set when the actor is a supervised child.
	sup  *Supervisor
	spec *ChildSpec

	mu       sync.Mutex
	restarts int
	failures int
}

// Runtime is a registry of actors.
type Runtime struct {
	// Blocking wraps every blocking wait of the runtime: Call, Receive and
	// waiting for actors to stop. The interpreter uses it to release its lock
	// while waiting. Nil means waiting directly.
	Blocking func(wait func())

	mu     sync.Mutex
	actors map[ID]*Actor
	nextID ID
	sups   []*Supervisor
	closed bool
}

// NewRuntime creates an empty Runtime.
func NewRuntime() *Runtime {
	return &Runtime{actors: make(map[ID]*Actor), nextID: 1}
}

func (rt *Runtime) block(wait func()) {
	if rt.Blocking != nil {
		rt.Blocking(wait)
	} else {
		wait()
	}
}

// Spawn creates an actor and starts its goroutine. The Start hook runs on
// that goroutine before any message is processed.
func (rt *Runtime) Spawn(typ string, f Factory) (*Actor, error) {
	return rt.spawn(typ, f, nil, nil)
}

func (rt *Runtime) spawn(typ string, f Factory, sup *Supervisor, spec *ChildSpec) (*Actor, error) {
	b, err := f()
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil, ErrStopped
	}
	a := &Actor{ID: rt.nextID, Type: typ, rt: rt, mb: newMailbox(), factory: f,
		behavior: b, done: make(chan struct{}), sup: sup, spec: spec}
	rt.nextID++
	rt.actors[a.ID] = a
	rt.mu.Unlock()

	logger.Printf("spawned %s #%d", typ, a.ID)
	go a.loop()
	return a, nil
}

// Lookup finds a live actor.
func (rt *Runtime) Lookup(id ID) (*Actor, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	a, ok := rt.actors[id]
	return a, ok
}

// Len returns the number of live actors.
func (rt *Runtime) Len() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.actors)
}

// Send enqueues a message without waiting. Messages from one sender to one
// receiver are processed in the order they were sent.
func (rt *Runtime) Send(id ID, msg any) error {
	a, ok := rt.Lookup(id)
	if !ok {
		return ErrActorNotFound
	}
	return a.mb.put(envelope{msg: msg})
}

// Call enqueues a message and waits for the reply. A timeout of 0 waits until
// the reply arrives or ctx is done. On timeout the eventual reply is
// discarded.
func (rt *Runtime) Call(ctx context.Context, id ID, msg any, timeout time.Duration) (any, error) {
	a, ok := rt.Lookup(id)
	if !ok {
		return nil, ErrActorNotFound
	}
	reply := make(chan Reply, 1)
	if err := a.mb.put(envelope{msg, reply}); err != nil {
		return nil, err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var r Reply
	rt.block(func() {
		select {
		case r = <-reply:
		case <-a.done:
			// The actor may have replied right before stopping.
			select {
			case r = <-reply:
			default:
				r = Reply{Err: ErrStopped}
			}
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				r = Reply{Err: ErrTimeout}
			} else {
				r = Reply{Err: ctx.Err()}
			}
		}
	})
	return r.Value, r.Err
}

// Stop stops an actor, waiting up to timeout for its current message to
// finish. A negative timeout waits forever; a zero timeout does not wait.
func (rt *Runtime) Stop(id ID, timeout time.Duration) error {
	a, ok := rt.Lookup(id)
	if !ok {
		return ErrActorNotFound
	}
	a.stop(timeout)
	return nil
}

// Shutdown stops all supervisors and actors, and rejects further spawns.
func (rt *Runtime) Shutdown(timeout time.Duration) {
	rt.mu.Lock()
	rt.closed = true
	sups := rt.sups
	rt.sups = nil
	actors := make([]*Actor, 0, len(rt.actors))
	for _, a := range rt.actors {
		actors = append(actors, a)
	}
	rt.mu.Unlock()

	for _, s := range sups {
		s.markStopped()
	}
	for _, a := range actors {
		a.stop(timeout)
	}
}

func (rt *Runtime) remove(a *Actor) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.actors[a.ID] == a {
		delete(rt.actors, a.ID)
	}
}

// Receive removes the first message in the actor's mailbox accepted by
// accept, waiting up to timeout for one to arrive; 0 means no timeout. It is
// meant to be called from the actor's own Handle. The accept function is
// called with the mailbox locked and must not block.
func (a *Actor) Receive(accept func(any) bool, timeout time.Duration) (any, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	var e envelope
	var err error
	a.rt.block(func() { e, err = a.mb.take(accept, deadline) })
	if err != nil {
		return nil, err
	}
	if e.reply != nil {
		// A message taken out of band by receive answers its caller with nil.
		e.reply <- Reply{}
	}
	return e.msg, nil
}

// Pending returns the number of queued messages.
func (a *Actor) Pending() int { return a.mb.len() }

// Restarts returns how many times the actor has been restarted.
func (a *Actor) Restarts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.restarts
}

// Failures returns how many times the actor's Start or Handle has failed.
func (a *Actor) Failures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failures
}

// Done returns a channel closed when the actor has stopped.
func (a *Actor) Done() <-chan struct{} { return a.done }

func (a *Actor) loop() {
	defer close(a.done)
	defer a.rt.remove(a)
	if err := safely(func() error { return a.behavior.Start(a) }); err != nil {
		a.fail(err)
	}
	for {
		e, restart, ok := a.mb.next()
		if !ok {
			break
		}
		if restart != nil {
			a.restart(restart.reason)
			continue
		}
		var value any
		err := safely(func() error {
			var err error
			value, err = a.behavior.Handle(a, e.msg)
			return err
		})
		if e.reply != nil {
			e.reply <- Reply{value, err}
		}
		if err != nil {
			a.fail(err)
		}
	}
	safely(func() error { a.behavior.Stop(a); return nil })
	logger.Printf("stopped %s #%d", a.Type, a.ID)
}

func (a *Actor) fail(err error) {
	a.mu.Lock()
	a.failures++
	a.mu.Unlock()
	logger.Printf("%s #%d failed: %v", a.Type, a.ID, err)
	safely(func() error { a.behavior.Error(a, err); return nil })
	if a.sup != nil {
		a.sup.childFailed(a, err)
	}
}

// restart replaces the behavior with a fresh one from the factory. Called on
// the actor's goroutine.
func (a *Actor) restart(reason error) {
	safely(func() error { a.behavior.Stop(a); return nil })
	b, err := a.factory()
	if err != nil {
		logger.Printf("restarting %s #%d: %v", a.Type, a.ID, err)
		a.mb.close()
		return
	}
	a.behavior = b
	a.mu.Lock()
	a.restarts++
	a.mu.Unlock()
	logger.Printf("restarted %s #%d", a.Type, a.ID)
	safely(func() error { b.Restarted(a, reason); return nil })
	if err := safely(func() error { return b.Start(a) }); err != nil {
		a.fail(err)
	}
}

func (a *Actor) stop(timeout time.Duration) {
	for _, e := range a.mb.close() {
		if e.reply != nil {
			e.reply <- Reply{Err: ErrStopped}
		}
	}
	if timeout == 0 {
		return
	}
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	a.rt.block(func() {
		select {
		case <-a.done:
		case <-expired:
			logger.Printf("%s #%d did not stop within %v; abandoning it", a.Type, a.ID, timeout)
			a.rt.remove(a)
		}
	})
}

// safely calls f, converting a panic into a PanicError.
func safely(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{r}
		}
	}()
	return f()
}
