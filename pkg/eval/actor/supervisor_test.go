package actor

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func startChildren(t *testing.T, s *Supervisor, ids ...string) []*Actor {
	t.Helper()
	var actors []*Actor
	for _, id := range ids {
		a, err := s.StartChild(ChildSpec{ID: id, Type: "Counter", Factory: newCounter(nil), Shutdown: time.Second})
		if err != nil {
			t.Fatal(err)
		}
		actors = append(actors, a)
	}
	return actors
}

// fail makes a child fail and waits until the failure has been handled.
func fail(t *testing.T, rt *Runtime, a *Actor) {
	t.Helper()
	rt.Send(a.ID, "boom")
	call(t, rt, a, "get")
}

func restartCounts(as []*Actor) []int {
	counts := make([]int, len(as))
	for i, a := range as {
		counts[i] = a.Restarts()
	}
	return counts
}

func TestSupervisorStrategies(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     []int
	}{
		{OneForOne, []int{0, 1, 0}},
		{SimpleOneForOne, []int{0, 1, 0}},
		{OneForAll, []int{1, 1, 1}},
		{RestForOne, []int{0, 1, 1}},
	}
	for _, test := range tests {
		t.Run(test.strategy.String(), func(t *testing.T) {
			rt := NewRuntime()
			defer rt.Shutdown(time.Second)
			s := rt.NewSupervisor("sup", test.strategy, 3, time.Minute)
			children := startChildren(t, s, "a", "b", "c")
			for _, c := range children {
				rt.Send(c.ID, int64(5))
			}
			fail(t, rt, children[1])
			// Sync with every child so pending restarts have been applied.
			for _, c := range children {
				call(t, rt, c, "get")
			}
			if diff := cmp.Diff(test.want, restartCounts(children)); diff != "" {
				t.Errorf("restarts (-want +got):\n%s", diff)
			}
			// Restarted children start with fresh state.
			if got := call(t, rt, children[1], "get"); got != int64(0) {
				t.Errorf("restarted child has sum %v", got)
			}
			if s.Restarts() != len(nonZero(test.want)) {
				t.Errorf("supervisor Restarts = %d", s.Restarts())
			}
		})
	}
}

func nonZero(xs []int) []int {
	var out []int
	for _, x := range xs {
		if x != 0 {
			out = append(out, x)
		}
	}
	return out
}

func TestSupervisorRestartHooks(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	s := rt.NewSupervisor("sup", OneForOne, 3, time.Minute)
	hooks := &hookLog{}
	a, _ := s.StartChild(ChildSpec{ID: "a", Factory: newCounter(hooks)})
	fail(t, rt, a)
	want := []string{"start", "error boom", "stop", "restart boom", "start"}
	if diff := cmp.Diff(want, hooks.get()); diff != "" {
		t.Errorf("hooks (-want +got):\n%s", diff)
	}
}

func TestSupervisorBudgetExhausted(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	s := rt.NewSupervisor("sup", OneForOne, 1, time.Minute)
	children := startChildren(t, s, "a", "b")
	fail(t, rt, children[0])
	rt.Send(children[0].ID, "boom")
	waitDone(t, children[0])
	waitDone(t, children[1])
	if !s.Stopped() {
		t.Errorf("supervisor still running after exhausting its budget")
	}
	if len(s.ChildIDs()) != 0 {
		t.Errorf("children left: %v", s.ChildIDs())
	}
}

func TestSupervisorTemporaryChild(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	s := rt.NewSupervisor("sup", OneForOne, 3, time.Minute)
	a, _ := s.StartChild(ChildSpec{ID: "tmp", Factory: newCounter(nil), Restart: Temporary})
	rt.Send(a.ID, "boom")
	waitDone(t, a)
	if _, ok := s.Child("tmp"); ok {
		t.Errorf("temporary child still supervised")
	}
	if a.Restarts() != 0 {
		t.Errorf("temporary child restarted")
	}
}

func TestSupervisorChildren(t *testing.T) {
	rt := NewRuntime()
	defer rt.Shutdown(time.Second)
	s := rt.NewSupervisor("sup", OneForOne, 3, time.Minute)
	startChildren(t, s, "a", "b")
	if _, err := s.StartChild(ChildSpec{ID: "a", Factory: newCounter(nil)}); err == nil {
		t.Errorf("duplicate child id accepted")
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.ChildIDs()); diff != "" {
		t.Errorf("ChildIDs (-want +got):\n%s", diff)
	}
	if a, ok := s.Child("b"); !ok || a.Type != "Counter" {
		t.Errorf("Child(b) = %v, %v", a, ok)
	}
	s.Stop()
	if !s.Stopped() || rt.Len() != 0 {
		t.Errorf("after Stop: stopped %v, %d actors", s.Stopped(), rt.Len())
	}
	if _, err := s.StartChild(ChildSpec{ID: "c", Factory: newCounter(nil)}); err == nil {
		t.Errorf("StartChild succeeded on a stopped supervisor")
	}
}

func TestParseNames(t *testing.T) {
	for _, name := range strategyNames {
		s, err := ParseStrategy(name)
		if err != nil || s.String() != name {
			t.Errorf("ParseStrategy(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseStrategy("Bogus"); err == nil {
		t.Errorf("ParseStrategy accepted Bogus")
	}
	if p, err := ParseRestartPolicy(""); err != nil || p != Permanent {
		t.Errorf("ParseRestartPolicy(\"\") = %v, %v", p, err)
	}
	if p, _ := ParseRestartPolicy("Transient"); p != Transient {
		t.Errorf("got %v", p)
	}
	if _, err := ParseRestartPolicy("Sometimes"); err == nil {
		t.Errorf("ParseRestartPolicy accepted Sometimes")
	}
}
