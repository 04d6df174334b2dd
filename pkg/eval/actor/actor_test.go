package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var errBoom = errors.New("boom")

// counter sums the integers it receives. It replies to "get" with the sum and
// to "log" with everything it has seen; "boom" fails and "panic" panics.
type counter struct {
	sum     int64
	log     []any
	release chan struct{}
	hooks   *hookLog
}

type hookLog struct {
	mu     sync.Mutex
	events []string
}

func (h *hookLog) add(e string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *hookLog) get() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func (c *counter) Start(*Actor) error { c.hooks.add("start"); return nil }
func (c *counter) Stop(*Actor)        { c.hooks.add("stop") }
func (c *counter) Error(_ *Actor, err error) {
	c.hooks.add("error " + err.Error())
}
func (c *counter) Restarted(_ *Actor, reason error) {
	c.hooks.add("restart " + reason.Error())
}

func (c *counter) Handle(self *Actor, msg any) (any, error) {
	switch msg := msg.(type) {
	case int64:
		c.sum += msg
		c.log = append(c.log, msg)
	case string:
		switch msg {
		case "get":
			return c.sum, nil
		case "log":
			return append([]any(nil), c.log...), nil
		case "boom":
			return nil, errBoom
		case "panic":
			panic("oops")
		case "slow":
			<-c.release
		case "wait":
			got, err := self.Receive(func(m any) bool { return m == int64(2) }, 0)
			if err != nil {
				return nil, err
			}
			c.log = append(c.log, "got", got)
		}
	}
	return nil, nil
}

func newCounter(hooks *hookLog) Factory {
	return func() (Behavior, error) { return &counter{hooks: hooks, release: make(chan struct{})}, nil }
}

func call(t *testing.T, rt *Runtime, a *Actor, msg any) any {
	t.Helper()
	v, err := rt.Call(context.Background(), a.ID, msg, time.Second)
	if err != nil {
		t.Fatalf("Call(%v): %v", msg, err)
	}
	return v
}

func waitDone(t *testing.T, a *Actor) {
	t.Helper()
	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("actor #%d did not stop", a.ID)
	}
}

func TestSendAndCall(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	a, _ := rt.Spawn("Counter", newCounter(nil))
	for i := int64(1); i <= 4; i++ {
		if err := rt.Send(a.ID, i); err != nil {
			t.Fatal(err)
		}
	}
	if got := call(t, rt, a, "get"); got != int64(10) {
		t.Errorf("sum = %v, want 10", got)
	}
	if diff := cmp.Diff([]any{int64(1), int64(2), int64(3), int64(4)}, call(t, rt, a, "log")); diff != "" {
		t.Errorf("messages out of order (-want +got):\n%s", diff)
	}
}

func TestActorNotFound(t *testing.T) {
	rt := NewRuntime()
	if err := rt.Send(42, "x"); err != ErrActorNotFound {
		t.Errorf("Send: %v", err)
	}
	if _, err := rt.Call(context.Background(), 42, "x", 0); err != ErrActorNotFound {
		t.Errorf("Call: %v", err)
	}
	if err := rt.Stop(42, 0); err != ErrActorNotFound {
		t.Errorf("Stop: %v", err)
	}
}

func TestCallTimeout(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(0)
	var b *counter
	a, _ := rt.Spawn("Counter", func() (Behavior, error) {
		b = &counter{release: make(chan struct{})}
		return b, nil
	})
	_, err := rt.Call(context.Background(), a.ID, "slow", 10*time.Millisecond)
	if err != ErrTimeout {
		t.Errorf("got %v, want ErrTimeout", err)
	}
	close(b.release)
	// The actor keeps working after the caller gave up.
	if got := call(t, rt, a, "get"); got != int64(0) {
		t.Errorf("get = %v", got)
	}
}

func TestCallError(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	a, _ := rt.Spawn("Counter", newCounter(nil))
	if _, err := rt.Call(context.Background(), a.ID, "boom", time.Second); err != errBoom {
		t.Errorf("got %v, want errBoom", err)
	}
	_, err := rt.Call(context.Background(), a.ID, "panic", time.Second)
	var perr PanicError
	if !errors.As(err, &perr) || perr.Value != "oops" {
		t.Errorf("got %v, want PanicError", err)
	}
	// Unsupervised actors survive failures.
	if got := call(t, rt, a, "get"); got != int64(0) {
		t.Errorf("get = %v", got)
	}
	if a.Failures() != 2 {
		t.Errorf("Failures = %d, want 2", a.Failures())
	}
}

func TestSelectiveReceive(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	a, _ := rt.Spawn("Counter", newCounter(nil))
	rt.Send(a.ID, "wait")
	rt.Send(a.ID, int64(1))
	rt.Send(a.ID, int64(2))
	want := []any{"got", int64(2), int64(1)}
	if diff := cmp.Diff(want, call(t, rt, a, "log")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReceiveTimeout(t *testing.T) {
	rt := NewRuntime()
	a := &Actor{rt: rt, mb: newMailbox()}
	a.mb.put(envelope{msg: "ignored"})
	_, err := a.Receive(func(any) bool { return false }, 10*time.Millisecond)
	if err != ErrTimeout {
		t.Errorf("got %v, want ErrTimeout", err)
	}
	if a.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", a.Pending())
	}
}

func TestBlockingWrapper(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	waits := 0
	rt.Blocking = func(wait func()) { waits++; wait() }
	a, _ := rt.Spawn("Counter", newCounter(nil))
	call(t, rt, a, "get")
	if waits != 1 {
		t.Errorf("Blocking called %d times, want 1", waits)
	}
}

func TestHooksAndStop(t *testing.T) {
	rt := NewRuntime()
	hooks := &hookLog{}
	a, _ := rt.Spawn("Counter", newCounter(hooks))
	call(t, rt, a, "get")
	if err := rt.Stop(a.ID, -1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"start", "stop"}, hooks.get()); diff != "" {
		t.Errorf("hooks (-want +got):\n%s", diff)
	}
	if rt.Len() != 0 {
		t.Errorf("Len = %d after Stop", rt.Len())
	}
	if err := rt.Send(a.ID, int64(1)); err != ErrActorNotFound {
		t.Errorf("Send after Stop: %v", err)
	}
}

func TestShutdownRejectsSpawn(t *testing.T) {
	rt := NewRuntime()
	rt.Shutdown(0)
	if _, err := rt.Spawn("Counter", newCounter(nil)); err != ErrStopped {
		t.Errorf("got %v, want ErrStopped", err)
	}
}
