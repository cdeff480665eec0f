package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"tabletop/models"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var got []Event
	bus.Subscribe(EventTypeSessionStateChange, func(ctx context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})

	bus.Emit(context.Background(), SessionStateChangeEvent{
		SessionID: 1,
		OldStatus: models.SessionStatusRecruiting,
		NewStatus: models.SessionStatusActive,
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestBus_OnlyMatchingTypeIsDelivered(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		delivered++
	})

	bus.Emit(context.Background(), UserCreatedEvent{UserID: 1})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, delivered)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, e Event) {
		panic("handler bug")
	})

	done := make(chan struct{})
	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, e Event) {
		close(done)
	})

	bus.Emit(context.Background(), UserCreatedEvent{UserID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler never ran")
	}
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	real := NewBus()

	var mu sync.Mutex
	var got []Event
	real.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})

	t.Run("discard drops pending events", func(t *testing.T) {
		tb := NewTransactionalBus(real)
		tb.Publish(BalanceChangeEvent{UserID: 1, ChangeAmount: 10})
		tb.Discard()
		tb.Flush(context.Background())

		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		assert.Empty(t, got)
	})

	t.Run("flush emits pending events", func(t *testing.T) {
		tb := NewTransactionalBus(real)
		tb.Publish(BalanceChangeEvent{UserID: 1, ChangeAmount: 10})
		tb.Publish(BalanceChangeEvent{UserID: 2, ChangeAmount: -25})
		tb.Flush(context.Background())

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) == 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("second flush is a no-op", func(t *testing.T) {
		tb := NewTransactionalBus(real)
		tb.Publish(BalanceChangeEvent{UserID: 3, ChangeAmount: 5})
		tb.Flush(context.Background())
		tb.Flush(context.Background())

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) == 3
		}, time.Second, 10*time.Millisecond)
	})
}
