// Package optimistic implements the reversible mutation protocol every
// cache-mutating operation in this module follows: snapshot the affected
// stores, apply a locally synthesized result immediately, dispatch the real
// request, then either reconcile the synthesized record against the server's
// authoritative one or roll every store back to its snapshot.
//
// Created records carry a temporary id drawn from a monotonic counter and
// prefixed "tmp-", a key space disjoint from server-assigned ids (UUIDs or
// numeric). That disjointness is what makes reconciliation's
// find-and-replace unambiguous when several mutations race on one list.
//
// Rollback is total and unconditional: no attempt is made to figure out
// which step failed. Every touched store is restored exactly, denormalized
// counters included.
//
// When the stores share a cache.Group, setting Group makes snapshot plus
// apply, and likewise a rollback, one critical section across all of them:
// a reader can never catch the synthesized record without its counter
// updates.
//
// # Usage
//
//	mut := optimistic.Mutation[Subtask]{
//	    Stores:    []cache.Snapshotter{subtasks, tasks},
//	    Group:     subtasks.Group(),
//	    Apply:     func() { /* write synthesized record + counters via Txn */ },
//	    Call:      func(ctx context.Context) (Subtask, error) { /* real request */ },
//	    Reconcile: func(confirmed Subtask) { /* replace by temp id */ },
//	}
//	confirmed, err := mut.Run(ctx)
package optimistic
