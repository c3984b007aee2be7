package manager

import (
	"context"
	"time"
)

// acquire reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred. Admission is FIFO; a wait beyond
// maxWait fails with a busy error so callers can apply backpressure instead
// of queueing without bound. Cancellation before acquisition releases any
// reserved slot promptly.
func (m *Manager) acquire(ctx context.Context) (func(), error) {
	// Fast path: respect an already-canceled context.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case m.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		busyTotal.Inc()
		return nil, busyError{}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timer2 := time.NewTimer(m.maxWait)
	defer timer2.Stop()
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		return func() { <-m.genCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer2.C:
		busyTotal.Inc()
		return nil, busyError{}
	}
}

// QueueLen reports the number of requests holding queue slots.
func (m *Manager) QueueLen() int { return len(m.queueCh) }

// Inflight reports whether a generation currently holds the gate.
func (m *Manager) Inflight() int { return len(m.genCh) }
