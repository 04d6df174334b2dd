package eval_test

import (
	"testing"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	. "github.com/paiml/ruchy-sub012/pkg/eval/evaltest"
	"github.com/paiml/ruchy-sub012/pkg/testutil"
)

var counterActor = `
actor Counter {
    count: i32 = 0
    receive {
        Inc => { self.count += 1 }
        Add(n) => { self.count += n }
        Get => self.count
    }
}
`

func TestActors(t *testing.T) {
	Test(t,
		That(counterActor,
			"let c = spawn Counter",
			"c <- Inc",
			"c <- Add(5)",
			"c <? Get").Evals(6),
		That(counterActor,
			"let c = spawn Counter { count: 10 }",
			"c.ask(Get)").Evals(10),
		That(counterActor,
			"let c = spawn Counter",
			"c.send(Inc)",
			"c <? Get").Evals(1),
		That(counterActor,
			"let c = spawn Counter",
			"c <? Unknown").Throws(eval.MatchFailure, "no handler"),
		That(counterActor,
			"let c = spawn Counter",
			"c.stop()",
			"c <- Inc").Throws(eval.ActorNotFound),
		That(counterActor,
			"let c = spawn Counter",
			"c.is_alive()").Evals(true),
		That(`
actor Sleeper {
    receive {
        Nap => { sleep(300); 1 }
    }
}
let s = spawn Sleeper
call s <- Nap timeout 10`).Throws(eval.Timeout),
	)
}

func TestActorLifecycle(t *testing.T) {
	Test(t,
		That(`
actor Greeter {
    fun on_start() { println!("started") }
    receive {
        Ping => "pong"
    }
}
let g = spawn Greeter
g <? Ping`).Evals("pong").Prints("started\n"),
	)
}

func TestSupervisor(t *testing.T) {
	Test(t,
		That(`
actor Worker {
    n: i32 = 0
    receive {
        Crash => { throw "crash" }
        Bump => { self.n += 1; self.n }
    }
}
supervisor Sup {
    strategy: OneForOne
    max_restarts: 3
    max_seconds: 5
    child w: Worker restart: Permanent
}
let s = spawn Sup
let w = s.child("w").unwrap()
w <? Bump
w <- Crash
sleep(50)
let w2 = s.child("w").unwrap()
w2 <? Bump`).Evals(1),
	)
}

func TestClose_StopsActors(t *testing.T) {
	ip := eval.New()
	if _, err := ip.EvalString(testutil.Dedent(counterActor) + "\nspawn Counter\nspawn Counter"); err != nil {
		t.Fatal(err)
	}
	if n := ip.ActorCount(); n != 2 {
		t.Errorf("got %d actors, want 2", n)
	}
	done := make(chan struct{})
	go func() {
		ip.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(testutil.Scaled(5 * time.Second)):
		t.Fatal("Close did not return")
	}
	if n := ip.ActorCount(); n != 0 {
		t.Errorf("got %d actors after Close, want 0", n)
	}
}
