package optimistic

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/focusdeck/pkg/cache"
)

// tempIDPrefix marks locally synthesized ids. Server ids never start with it.
const tempIDPrefix = "tmp-"

// tempCounter is seeded from the wall clock once and only ever incremented,
// so temp ids stay unique within the process even across clock adjustments.
var tempCounter atomic.Int64

func init() {
	tempCounter.Store(time.Now().UnixNano())
}

// TempID returns a fresh temporary id, unique within the process and
// disjoint from any server-assigned id space.
func TempID() string {
	return tempIDPrefix + strconv.FormatInt(tempCounter.Add(1), 10)
}

// IsTempID reports whether id was synthesized by TempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Mutation describes one optimistic operation. Stores lists every cache the
// mutation may touch; all of them are snapshotted before Apply runs and all
// of them are restored when Call fails.
type Mutation[T any] struct {
	// Stores are snapshotted before Apply and restored on failure,
	// in declaration order.
	Stores []cache.Snapshotter

	// Group, when set, is the lock group every listed store belongs to.
	// Snapshot and Apply then run in one critical section, as does a
	// rollback, so a reader of any store sees the synthesis fully applied,
	// fully rolled back, or not at all. Apply must use the stores' Txn
	// surface; a locking store method inside it deadlocks.
	Group *cache.Group

	// Apply writes the synthesized result into the caches. It runs before
	// the network call and must be side-effect-free outside the Stores.
	Apply func()

	// Call dispatches the real request and returns the server-authoritative
	// record.
	Call func(ctx context.Context) (T, error)

	// Reconcile replaces the synthesized record with the confirmed one.
	// Optional: deletes have nothing to reconcile.
	Reconcile func(confirmed T)

	// Invalidate drops derived caches that depend on the mutated data.
	// Optional; runs only on success, after Reconcile.
	Invalidate func()
}

// Run executes the protocol. On failure the returned error is the one Call
// produced, and every store has been restored to its pre-mutation snapshot.
func (m Mutation[T]) Run(ctx context.Context) (T, error) {
	var zero T
	if m.Apply == nil {
		return zero, ErrMissingApply
	}
	if m.Call == nil {
		return zero, ErrMissingCall
	}

	if m.Group != nil {
		// Every store must answer to the mutation's lock, or the critical
		// section would not actually cover it.
		for _, s := range m.Stores {
			ls, ok := s.(cache.LockedSnapshotter)
			if !ok || ls.Group() != m.Group {
				return zero, ErrUngroupedStore
			}
		}
	}

	restores := make([]func(), 0, len(m.Stores))
	if m.Group != nil {
		m.Group.Atomically(func() {
			for _, s := range m.Stores {
				restores = append(restores, s.(cache.LockedSnapshotter).SnapshotLocked())
			}
			m.Apply()
		})
	} else {
		for _, s := range m.Stores {
			restores = append(restores, s.SnapshotAll())
		}
		m.Apply()
	}

	confirmed, err := m.Call(ctx)
	if err != nil {
		// Total rollback: restore in declaration order, no partial undo.
		rollback := func() {
			for _, restore := range restores {
				restore()
			}
		}
		if m.Group != nil {
			m.Group.Atomically(rollback)
		} else {
			rollback()
		}
		return zero, err
	}

	if m.Reconcile != nil {
		m.Reconcile(confirmed)
	}
	if m.Invalidate != nil {
		m.Invalidate()
	}

	return confirmed, nil
}
