package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	got := 0

	listener := func(_ context.Context, _ Event) error {
		mu.Lock()
		got++
		mu.Unlock()
		wg.Done()
		return nil
	}

	bus.Subscribe("request.created", listener)
	bus.Subscribe("request.created", listener)

	bus.Publish(context.Background(), testEvent{name: "request.created"})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listeners were not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, got)
}

func TestPublishIgnoresUnrelatedEvents(t *testing.T) {
	bus := New(zap.NewNop())

	called := make(chan struct{}, 1)
	bus.Subscribe("request.created", func(_ context.Context, _ Event) error {
		called <- struct{}{}
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "request.cancelled"})

	select {
	case <-called:
		t.Fatal("listener for a different event was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListenerErrorDoesNotPanic(t *testing.T) {
	bus := New(zap.NewNop())

	done := make(chan struct{})
	bus.Subscribe("boom", func(_ context.Context, _ Event) error {
		defer close(done)
		return errors.New("listener failed")
	})

	bus.Publish(context.Background(), testEvent{name: "boom"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener was not invoked")
	}
}
