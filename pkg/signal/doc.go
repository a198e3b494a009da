// Package signal provides a small in-process publish/subscribe primitive and
// the process-wide session-unauthorized event built on top of it.
//
// Broadcasts are non-blocking: a subscriber whose buffer is full misses the
// message rather than stalling the publisher. That is the right trade-off
// for invalidation signals, which are level-, not edge-triggered: missing
// one delivery is harmless as long as a later one lands.
//
// # Usage
//
//	sub := signal.OnUnauthorized(ctx)
//	defer sub.Close()
//	for range sub.C() {
//	    // re-check the session
//	}
//
// Any component may raise the event with signal.NotifyUnauthorized(); the
// request pipeline's default 401/403 handling is the primary producer.
package signal
