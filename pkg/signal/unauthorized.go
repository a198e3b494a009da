package signal

import "context"

// Unauthorized is the process-wide session-invalidated event. It carries no
// payload: the fact that it fired is the message.
type Unauthorized struct{}

// unauthorizedBuffer leaves headroom for bursts of failing requests that all
// observe the same dead session.
const unauthorizedBuffer = 8

var defaultUnauthorized = New[Unauthorized](unauthorizedBuffer)

// NotifyUnauthorized raises the process-wide unauthorized event.
// It never blocks.
func NotifyUnauthorized() {
	defaultUnauthorized.Broadcast(Unauthorized{})
}

// OnUnauthorized subscribes to the process-wide unauthorized event. The
// subscription detaches when ctx is cancelled.
func OnUnauthorized(ctx context.Context) *Subscription[Unauthorized] {
	return defaultUnauthorized.Subscribe(ctx)
}
