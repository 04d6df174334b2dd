package actor

import (
	"sync"
	"time"
)

// Reply is the answer to a Call.
type Reply struct {
	Value any
	Err   error
}

type envelope struct {
	msg any
	// Nil for messages sent with Send. Buffered with capacity 1, so replies
	// to callers that timed out are dropped without blocking.
	reply chan Reply
}

type restartRequest struct{ reason error }

// mailbox is an unbounded FIFO queue with selective receive.
type mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []envelope
	closed  bool
	restart *restartRequest
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *mailbox) put(e envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStopped
	}
	m.queue = append(m.queue, e)
	m.cond.Broadcast()
	return nil
}

// next blocks until a message or a restart request is available. It returns
// false when the mailbox is closed.
func (m *mailbox) next() (envelope, *restartRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if m.closed {
			return envelope{}, nil, false
		}
		if r := m.restart; r != nil {
			m.restart = nil
			return envelope{}, r, true
		}
		if len(m.queue) > 0 {
			e := m.queue[0]
			m.queue[0] = envelope{}
			m.queue = m.queue[1:]
			return e, nil, true
		}
		m.cond.Wait()
	}
}

// take removes and returns the first queued message accepted by accept,
// waiting until deadline for one to arrive. A zero deadline waits forever.
// Messages that are not accepted stay in the queue in their original order.
func (m *mailbox) take(accept func(any) bool, deadline time.Time) (envelope, error) {
	if !deadline.IsZero() {
		t := time.AfterFunc(time.Until(deadline), func() {
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		})
		defer t.Stop()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if m.closed {
			return envelope{}, ErrStopped
		}
		for i, e := range m.queue {
			if accept(e.msg) {
				m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
				return e, nil
			}
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return envelope{}, ErrTimeout
		}
		m.cond.Wait()
	}
}

func (m *mailbox) requestRestart(reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restart = &restartRequest{reason}
	m.cond.Broadcast()
}

// close closes the mailbox and returns the messages still queued.
func (m *mailbox) close() []envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	pending := m.queue
	m.queue = nil
	m.cond.Broadcast()
	return pending
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
