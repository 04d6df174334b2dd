package actor

import (
	"fmt"
	"sync"
	"time"
)

// Strategy decides which children a supervisor restarts when one fails.
type Strategy uint8

const (
	// OneForOne restarts only the failed child.
	OneForOne Strategy = iota
	// OneForAll restarts every child.
	OneForAll
	// RestForOne restarts the failed child and the children started after
	// it.
	RestForOne
	// SimpleOneForOne is OneForOne for supervisors whose children are all
	// started dynamically from the same spec.
	SimpleOneForOne
)

var strategyNames = [...]string{"OneForOne", "OneForAll", "RestForOne", "SimpleOneForOne"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses the name of a strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown supervisor strategy %q", name)
}

// RestartPolicy decides whether a failed child is restarted at all.
type RestartPolicy uint8

const (
	// Permanent children are always restarted.
	Permanent RestartPolicy = iota
	// Transient children are restarted when they fail with an error.
	Transient
	// Temporary children are never restarted; a failure stops them.
	Temporary
)

var restartNames = [...]string{"Permanent", "Transient", "Temporary"}

func (p RestartPolicy) String() string {
	if int(p) < len(restartNames) {
		return restartNames[p]
	}
	return fmt.Sprintf("RestartPolicy(%d)", int(p))
}

// ParseRestartPolicy parses the name of a restart policy. The empty string
// means Permanent.
func ParseRestartPolicy(name string) (RestartPolicy, error) {
	if name == "" {
		return Permanent, nil
	}
	for i, n := range restartNames {
		if n == name {
			return RestartPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown restart policy %q", name)
}

// ChildSpec describes a supervised child.
type ChildSpec struct {
	ID      string
	Type    string
	Factory Factory
	Restart RestartPolicy
	// How long to wait for the child to stop; negative waits forever.
	Shutdown time.Duration
}

// Supervisor owns child actors and restarts them when they fail, as long as
// the restart budget allows: at most MaxRestarts restarts within Window.
type Supervisor struct {
	Name        string
	Strategy    Strategy
	MaxRestarts int
	Window      time.Duration

	rt       *Runtime
	mu       sync.Mutex
	children []*Actor
	restarts []time.Time
	total    int
	stopped  bool
}

// NewSupervisor creates a supervisor without children.
func (rt *Runtime) NewSupervisor(name string, strategy Strategy, maxRestarts int, window time.Duration) *Supervisor {
	s := &Supervisor{Name: name, Strategy: strategy, MaxRestarts: maxRestarts, Window: window, rt: rt}
	rt.mu.Lock()
	rt.sups = append(rt.sups, s)
	rt.mu.Unlock()
	return s
}

// StartChild spawns a child described by spec.
func (s *Supervisor) StartChild(spec ChildSpec) (*Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, fmt.Errorf("supervisor %s has stopped", s.Name)
	}
	for _, c := range s.children {
		if c.spec.ID == spec.ID {
			return nil, fmt.Errorf("supervisor %s already has a child %s", s.Name, spec.ID)
		}
	}
	a, err := s.rt.spawn(spec.Type, spec.Factory, s, &spec)
	if err != nil {
		return nil, err
	}
	s.children = append(s.children, a)
	return a, nil
}

// Child returns the live child with the given id.
func (s *Supervisor) Child(id string) (*Actor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.children {
		if c.spec.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ChildIDs returns the ids of the live children in start order.
func (s *Supervisor) ChildIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.children))
	for i, c := range s.children {
		ids[i] = c.spec.ID
	}
	return ids
}

// Restarts returns the total number of restarts the supervisor has
// performed.
func (s *Supervisor) Restarts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Stopped reports whether the supervisor has stopped, either explicitly or
// because its restart budget was exhausted.
func (s *Supervisor) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop stops all children, each within its shutdown timeout.
func (s *Supervisor) Stop() {
	for _, c := range s.markStopped() {
		c.stop(c.spec.Shutdown)
	}
}

func (s *Supervisor) markStopped() []*Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	children := s.children
	s.children = nil
	return children
}

// childFailed applies the strategy after a child fails. It runs on the failed
// child's goroutine, so it only requests restarts and never waits.
func (s *Supervisor) childFailed(a *Actor, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	idx := -1
	for i, c := range s.children {
		if c == a {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	if a.spec.Restart == Temporary {
		logger.Printf("%s: temporary child %s failed, not restarting", s.Name, a.spec.ID)
		s.children = append(s.children[:idx:idx], s.children[idx+1:]...)
		a.mb.close()
		return
	}

	now := time.Now()
	kept := s.restarts[:0]
	for _, t := range s.restarts {
		if s.Window <= 0 || now.Sub(t) < s.Window {
			kept = append(kept, t)
		}
	}
	s.restarts = kept
	if len(s.restarts) >= s.MaxRestarts {
		logger.Printf("%s: restart budget of %d in %v exhausted, stopping", s.Name, s.MaxRestarts, s.Window)
		s.stopped = true
		for _, c := range s.children {
			c.mb.close()
		}
		s.children = nil
		return
	}
	s.restarts = append(s.restarts, now)

	var targets []*Actor
	switch s.Strategy {
	case OneForAll:
		targets = s.children
	case RestForOne:
		targets = s.children[idx:]
	default:
		targets = []*Actor{a}
	}
	logger.Printf("%s: child %s failed (%v), restarting %d with %s", s.Name, a.spec.ID, reason, len(targets), s.Strategy)
	for _, c := range targets {
		s.total++
		c.mb.requestRestart(reason)
	}
}
