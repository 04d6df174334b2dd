package eval_test

import (
	"testing"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	"github.com/paiml/ruchy-sub012/pkg/eval/feedback"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func mustEval(t *testing.T, ip *eval.Interpreter, code string) any {
	t.Helper()
	v, err := ip.EvalString(code)
	if err != nil {
		t.Fatalf("eval %q: %v", code, err)
	}
	return v
}

func TestTypeFeedback(t *testing.T) {
	ip := eval.New()
	defer ip.Close()
	mustEval(t, ip, "let mut s = 0; for i in 0..100 { s = s + i }; s")

	stats := ip.TypeFeedbackStats()
	if stats.BinaryOpSites == 0 {
		t.Fatalf("no binary-op sites recorded: %+v", stats)
	}
	if stats.MonomorphicBinaryOps == 0 {
		t.Errorf("integer addition site not monomorphic: %+v", stats)
	}
	found := false
	for _, c := range ip.SpecializationCandidates() {
		if c.Kind == feedback.BinaryOpCandidate {
			found = true
		}
	}
	if !found {
		t.Errorf("hot integer addition is not a specialization candidate")
	}

	ip.ClearTypeFeedback()
	if stats := ip.TypeFeedbackStats(); stats.BinaryOpSites != 0 || stats.TotalRecordings != 0 {
		t.Errorf("feedback not cleared: %+v", stats)
	}
}

func TestTypeFeedback_Disabled(t *testing.T) {
	ip := eval.NewWithOptions(eval.Options{Feedback: false})
	defer ip.Close()
	mustEval(t, ip, "1 + 2")
	if stats := ip.TypeFeedbackStats(); stats.TotalRecordings != 0 {
		t.Errorf("feedback recorded while disabled: %+v", stats)
	}
}

var shapesCode = `
struct P { x: i32, y: i32 }
struct Q { y: i32, x: i32 }
class C {
    x: i32 = 5
}
let items = [P { x: 1, y: 2 }, Q { y: 3, x: 4 }, C::new(), P { x: 7, y: 8 }]
let mut total = 0
for r in 0..5 {
    for it in items { total += it.x * 10 + r }
}
total
`

func TestInlineCache(t *testing.T) {
	ip := eval.New()
	defer ip.Close()
	v := mustEval(t, ip, shapesCode)

	stats := ip.CacheStats()
	if stats.Hits == 0 {
		t.Errorf("no cache hits: %+v", stats)
	}
	if stats.Polymorphic == 0 {
		t.Errorf("site seeing three shapes is not polymorphic: %+v", stats)
	}

	ip.ClearCaches()
	if stats := ip.CacheStats(); stats.Sites != 0 {
		t.Errorf("caches not cleared: %+v", stats)
	}

	// The result does not depend on caching.
	opts := eval.DefaultOptions()
	opts.InlineCache = false
	uncached := eval.NewWithOptions(opts)
	defer uncached.Close()
	if w := mustEval(t, uncached, shapesCode); !vals.Equal(v, w) {
		t.Errorf("got %v with caches, %v without", v, w)
	}
	if v != int64((1+4+5+7)*10*5+4*(0+1+2+3+4)) {
		t.Errorf("got %v", v)
	}
}

func TestInterrupt(t *testing.T) {
	ip := eval.New()
	defer ip.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Millisecond):
				ip.Interrupt()
			}
		}
	}()
	_, err := ip.EvalString("loop {}")
	if kind := eval.KindOf(err); kind != eval.Interrupted {
		t.Errorf("got error kind %q, want %q", kind, eval.Interrupted)
	}
}

var fieldUpdatesCode = `
struct P { x: i32, y: i32 }
class Counter {
    count: i32 = 0
    fun inc(&mut self) { self.count += 1 }
}
let c = Counter::new()
let mut p = P { x: 1, y: 2 }
let mut seen = 0
for i in 0..10 {
    c.inc()
    p.x = p.x + 1
    seen += c.count * 100 + p.x
}
seen
`

func TestInlineCache_SeesFieldUpdates(t *testing.T) {
	ip := eval.New()
	defer ip.Close()
	v := mustEval(t, ip, fieldUpdatesCode)
	if stats := ip.CacheStats(); stats.Hits == 0 {
		t.Errorf("no cache hits: %+v", stats)
	}
	// 100*(1+...+10) + (2+...+11)
	if want := int64(5500 + 65); v != want {
		t.Errorf("got %v, want %v", v, want)
	}

	opts := eval.DefaultOptions()
	opts.InlineCache = false
	uncached := eval.NewWithOptions(opts)
	defer uncached.Close()
	if w := mustEval(t, uncached, fieldUpdatesCode); !vals.Equal(v, w) {
		t.Errorf("got %v with caches, %v without", v, w)
	}
}
