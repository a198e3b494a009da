package signal

import (
	"context"
	"sync"
)

// Subscription receives broadcast values until closed. Close is idempotent.
type Subscription[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
}

// C returns the receive channel. It is closed when the subscription closes.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close detaches the subscription and closes its channel.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// send delivers non-blocking; a full buffer drops the value.
func (s *Subscription[T]) send(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- v:
	default:
	}
}

// Broadcaster fan-outs values of type T to any number of subscribers.
// All methods are safe for concurrent use.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	buffer int
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a broadcaster whose subscribers buffer up to buffer values.
// A minimum buffer of 1 is enforced so sends stay non-blocking.
func New[T any](buffer int) *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		buffer: max(buffer, 1),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a new subscription. It is detached automatically when
// ctx is cancelled; a closed broadcaster hands back an already-closed
// subscription.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription[T]{ch: make(chan T, b.buffer)}
	if b.closed {
		sub.Close()
		return sub
	}
	b.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}

	return sub
}

// Broadcast delivers v to every active subscription without blocking.
func (b *Broadcaster[T]) Broadcast(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for sub := range b.subs {
		sub.send(v)
	}
}

// Close shuts the broadcaster down and closes every subscription.
// Safe to call more than once.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	for sub := range b.subs {
		sub.Close()
	}
	clear(b.subs)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Broadcaster[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
	sub.Close()
}
