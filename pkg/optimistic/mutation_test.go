package optimistic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/focusdeck/pkg/cache"
	"github.com/dmitrymomot/focusdeck/pkg/optimistic"
)

type note struct {
	ID   string
	Text string
}

func (n note) EntityID() string { return n.ID }

func TestTempID(t *testing.T) {
	t.Run("unique and monotonic", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id := optimistic.TempID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate temp id %s", id)
			seen[id] = struct{}{}
		}
	})

	t.Run("disjoint from server id spaces", func(t *testing.T) {
		assert.True(t, optimistic.IsTempID(optimistic.TempID()))
		assert.False(t, optimistic.IsTempID(uuid.NewString()))
		assert.False(t, optimistic.IsTempID("12345"))
	})
}

func TestMutation_Run(t *testing.T) {
	t.Run("success reconciles the synthesized record", func(t *testing.T) {
		store := cache.NewStore[note]("all")
		temp := note{ID: optimistic.TempID(), Text: "draft"}
		confirmedID := uuid.NewString()

		invalidated := false
		mut := optimistic.Mutation[note]{
			Stores: []cache.Snapshotter{store},
			Apply: func() {
				store.Atomically(func(tx *cache.Tx[note]) { tx.Append("all", temp) })
			},
			Call: func(ctx context.Context) (note, error) {
				return note{ID: confirmedID, Text: "draft"}, nil
			},
			Reconcile: func(confirmed note) {
				store.Atomically(func(tx *cache.Tx[note]) { tx.Replace(temp.ID, confirmed) })
			},
			Invalidate: func() { invalidated = true },
		}

		confirmed, err := mut.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, confirmedID, confirmed.ID)
		assert.True(t, invalidated)

		// Optimism is invisible after reconciliation: the cache holds
		// exactly what a pessimistic write would have produced.
		assert.Equal(t, []note{{ID: confirmedID, Text: "draft"}}, store.List("all"))
	})

	t.Run("failure rolls every store back exactly", func(t *testing.T) {
		notes := cache.NewStore[note]("all", "today")
		notes.Put("all", []note{{ID: "n1", Text: "keep"}})
		notes.Put("today", []note{{ID: "n1", Text: "keep"}})
		counters := cache.NewStore[note]("all")
		counters.Put("all", []note{{ID: "t1", Text: "2 of 3"}})

		boom := errors.New("backend unavailable")
		mut := optimistic.Mutation[note]{
			Stores: []cache.Snapshotter{notes, counters},
			Apply: func() {
				notes.Atomically(func(tx *cache.Tx[note]) {
					tx.Append("all", note{ID: optimistic.TempID(), Text: "new"})
					tx.Remove("n1")
				})
				counters.Atomically(func(tx *cache.Tx[note]) {
					tx.Replace("t1", note{ID: "t1", Text: "3 of 4"})
				})
			},
			Call: func(ctx context.Context) (note, error) {
				return note{}, boom
			},
		}

		_, err := mut.Run(context.Background())
		require.ErrorIs(t, err, boom)

		assert.Equal(t, []note{{ID: "n1", Text: "keep"}}, notes.List("all"))
		assert.Equal(t, []note{{ID: "n1", Text: "keep"}}, notes.List("today"))
		assert.Equal(t, []note{{ID: "t1", Text: "2 of 3"}}, counters.List("all"))
	})

	t.Run("grouped stores apply and roll back in one critical section", func(t *testing.T) {
		g := cache.NewGroup()
		notes := cache.NewStoreIn[note](g, "all")
		counters := cache.NewStoreIn[note](g, "all")
		counters.Put("all", []note{{ID: "t1", Text: "0"}})

		release := make(chan struct{})
		boom := errors.New("backend unavailable")
		mut := optimistic.Mutation[note]{
			Stores: []cache.Snapshotter{notes, counters},
			Group:  g,
			Apply: func() {
				notes.Txn().Append("all", note{ID: optimistic.TempID(), Text: "new"})
				counters.Txn().Replace("t1", note{ID: "t1", Text: "1"})
			},
			Call: func(ctx context.Context) (note, error) {
				<-release
				return note{}, boom
			},
		}

		errCh := make(chan error, 1)
		go func() {
			_, err := mut.Run(context.Background())
			errCh <- err
		}()

		// While the call is in flight the synthesis is visible in both
		// stores at once: a consistent read can never split them.
		require.Eventually(t, func() bool {
			var n int
			var counter string
			g.Atomically(func() {
				n = len(notes.Txn().List("all"))
				counter = counters.Txn().List("all")[0].Text
			})
			return n == 1 && counter == "1"
		}, time.Second, 5*time.Millisecond)

		close(release)
		require.ErrorIs(t, <-errCh, boom)

		var n int
		var counter string
		g.Atomically(func() {
			n = len(notes.Txn().List("all"))
			counter = counters.Txn().List("all")[0].Text
		})
		assert.Equal(t, 0, n)
		assert.Equal(t, "0", counter)
	})

	t.Run("a store outside the group is rejected", func(t *testing.T) {
		g := cache.NewGroup()
		inside := cache.NewStoreIn[note](g, "all")
		outside := cache.NewStore[note]("all")

		_, err := optimistic.Mutation[note]{
			Stores: []cache.Snapshotter{inside, outside},
			Group:  g,
			Apply:  func() {},
			Call: func(ctx context.Context) (note, error) {
				return note{}, nil
			},
		}.Run(context.Background())

		assert.ErrorIs(t, err, optimistic.ErrUngroupedStore)
	})

	t.Run("incomplete mutations are rejected", func(t *testing.T) {
		_, err := optimistic.Mutation[note]{Call: func(ctx context.Context) (note, error) {
			return note{}, nil
		}}.Run(context.Background())
		assert.ErrorIs(t, err, optimistic.ErrMissingApply)

		_, err = optimistic.Mutation[note]{Apply: func() {}}.Run(context.Background())
		assert.ErrorIs(t, err, optimistic.ErrMissingCall)
	})
}
