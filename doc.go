// Package focusdeck is the session and cache-synchronization core of the
// FocusDeck productivity client.
//
// It decides, at any moment, whether the user's credentials are valid,
// refreshing or discarding them as needed, and applies optimistic,
// reversible mutations to a shared in-memory cache so the UI never blocks
// on a network round-trip while still converging to server truth.
//
// The root package wires the parts together; each concern lives in its own
// package:
//
//   - pkg/credential: structural and temporal token validation
//   - pkg/cleanup: best-effort, total credential removal
//   - pkg/session: the login/logout/refresh/revalidate state machine
//   - pkg/pipeline: the interceptor-based request path
//   - pkg/cache: partitioned entity cache and derived-stats LRU
//   - pkg/optimistic: the snapshot/apply/dispatch/reconcile-or-rollback protocol
//   - modules/subtasks: the exemplar mutating domain module
//
// # Usage
//
//	app, err := focusdeck.New(logger.New())
//	if err != nil {
//	    // handle error
//	}
//	app.Session.Bootstrap(ctx)
//	sub, err := app.Subtasks.Create(ctx, 42, "Buy milk")
package focusdeck
