package eval

import (
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func init() {
	addMethods("actor", map[string]any{
		"id": func(h ActorHandle) int64 { return int64(h.ID) },
		"send": func(fm *Frame, h ActorHandle, msg any) error {
			return fm.send(nil, h.ID, msg)
		},
		"ask":  askActor,
		"call": askActor,
		"is_alive": func(fm *Frame, h ActorHandle) bool {
			_, ok := fm.ip.runtime.Lookup(h.ID)
			return ok
		},
		"pending": func(fm *Frame, h ActorHandle) int {
			if a, ok := fm.ip.runtime.Lookup(h.ID); ok {
				return a.Pending()
			}
			return 0
		},
		"restarts": func(fm *Frame, h ActorHandle) int {
			if a, ok := fm.ip.runtime.Lookup(h.ID); ok {
				return a.Restarts()
			}
			return 0
		},
		"stop": func(fm *Frame, h ActorHandle) error {
			return fm.ip.runtime.Stop(h.ID, fm.ip.opts.ShutdownTimeout)
		},
	})

	addMethods("supervisor", map[string]any{
		"name": func(h SupervisorHandle) string { return h.Sup.Name },
		"child": func(h SupervisorHandle, id string) any {
			a, ok := h.Sup.Child(id)
			if !ok {
				return vals.None
			}
			return vals.MakeSome(ActorHandle{a.ID, a.Type})
		},
		"children": func(h SupervisorHandle) []string { return h.Sup.ChildIDs() },
		"restarts": func(h SupervisorHandle) int { return h.Sup.Restarts() },
		"is_stopped": func(h SupervisorHandle) bool {
			return h.Sup.Stopped()
		},
		"stop": func(h SupervisorHandle) { h.Sup.Stop() },
	})

	addMethods("future", map[string]any{
		"await": func(f *Future) (any, error) { return f.Await() },
	})
}

// askActor sends a call message and waits for the reply, with an optional
// timeout in milliseconds.
func askActor(fm *Frame, h ActorHandle, msg any, timeoutMs ...int64) (any, error) {
	timeout := fm.ip.opts.CallTimeout
	if len(timeoutMs) > 0 {
		timeout = time.Duration(timeoutMs[0]) * time.Millisecond
	}
	return fm.ask(nil, h.ID, msg, timeout)
}
