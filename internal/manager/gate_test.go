package manager

import (
	"context"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, nil)

	release, err := m.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if m.Inflight() != 1 || m.QueueLen() != 1 {
		t.Fatalf("expected held gate, inflight=%d queue=%d", m.Inflight(), m.QueueLen())
	}
	release()
	if m.Inflight() != 0 || m.QueueLen() != 0 {
		t.Fatalf("expected released gate, inflight=%d queue=%d", m.Inflight(), m.QueueLen())
	}
}

func TestAcquireBusyAfterMaxWait(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, func(cfg *ManagerConfig) {
		cfg.MaxWait = 20 * time.Millisecond
	})

	release, err := m.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	_, err = m.acquire(context.Background())
	if !IsBusy(err) {
		t.Fatalf("expected busy error, got %v", err)
	}
	// The failed waiter must not leak its queue slot.
	if m.QueueLen() != 1 {
		t.Fatalf("expected only the holder's queue slot, got %d", m.QueueLen())
	}
}

func TestAcquireQueueFullBusy(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, func(cfg *ManagerConfig) {
		cfg.MaxQueueDepth = 1
		cfg.MaxWait = 20 * time.Millisecond
	})

	release, err := m.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	// The holder occupies the only queue slot, so admission itself times out.
	_, err = m.acquire(context.Background())
	if !IsBusy(err) {
		t.Fatalf("expected busy error, got %v", err)
	}
}

func TestAcquireCanceledContext(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.acquire(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAcquireCancelWhileWaiting(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, nil)

	release, err := m.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.acquire(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if m.QueueLen() != 1 {
		t.Fatalf("canceled waiter leaked a queue slot: %d", m.QueueLen())
	}
}

func TestReleaseFreesNextWaiter(t *testing.T) {
	m := newTestManager(t, &fakeRuntime{}, nil)

	release, err := m.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	got := make(chan error, 1)
	go func() {
		r, err := m.acquire(context.Background())
		if err == nil {
			r()
		}
		got <- err
	}()

	time.Sleep(10 * time.Millisecond)
	release()

	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("waiter failed after release: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired after release")
	}
}
