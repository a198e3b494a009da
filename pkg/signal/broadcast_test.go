package signal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/focusdeck/pkg/signal"
)

func TestBroadcaster(t *testing.T) {
	t.Run("delivers to all subscribers", func(t *testing.T) {
		b := signal.New[int](4)
		defer b.Close()

		sub1 := b.Subscribe(context.Background())
		sub2 := b.Subscribe(context.Background())

		b.Broadcast(42)

		assert.Equal(t, 42, <-sub1.C())
		assert.Equal(t, 42, <-sub2.C())
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		b := signal.New[int](1)
		defer b.Close()

		sub := b.Subscribe(context.Background())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 10; i++ {
				b.Broadcast(i)
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("broadcast blocked on a slow consumer")
		}

		// The first value landed; the rest were dropped.
		assert.Equal(t, 0, <-sub.C())
	})

	t.Run("close closes subscriber channels", func(t *testing.T) {
		b := signal.New[int](1)
		sub := b.Subscribe(context.Background())

		b.Close()

		_, ok := <-sub.C()
		assert.False(t, ok)
	})

	t.Run("context cancellation detaches", func(t *testing.T) {
		b := signal.New[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-sub.C():
				return !ok
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("closed broadcaster hands back closed subscription", func(t *testing.T) {
		b := signal.New[int](1)
		b.Close()

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.C()
		assert.False(t, ok)
	})
}

func TestUnauthorizedSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := signal.OnUnauthorized(ctx)
	defer sub.Close()

	signal.NotifyUnauthorized()

	select {
	case <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("unauthorized event was not delivered")
	}
}
