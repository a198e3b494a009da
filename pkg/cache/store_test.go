package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/focusdeck/pkg/cache"
)

type item struct {
	ID    string
	Value int
}

func (i item) EntityID() string { return i.ID }

func TestStore_Partitions(t *testing.T) {
	t.Run("enumerates registration order", func(t *testing.T) {
		s := cache.NewStore[item]("all", "today")
		s.EnsurePartition("starred")
		s.EnsurePartition("today") // already present, no duplicate

		assert.Equal(t, []string{"all", "today", "starred"}, s.Partitions())
	})

	t.Run("list returns a copy", func(t *testing.T) {
		s := cache.NewStore[item]("all")
		s.Put("all", []item{{ID: "a", Value: 1}})

		got := s.List("all")
		got[0].Value = 99

		assert.Equal(t, 1, s.List("all")[0].Value)
	})
}

func TestStore_Find(t *testing.T) {
	s := cache.NewStore[item]("all", "today")
	s.Put("all", []item{{ID: "a", Value: 1}})
	s.Put("today", []item{{ID: "b", Value: 2}})

	got, ok := s.Find("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got.Value)

	_, ok = s.Find("missing")
	assert.False(t, ok)
}

func TestStore_Tx(t *testing.T) {
	newStore := func() *cache.Store[item] {
		s := cache.NewStore[item]("all", "today", "starred")
		s.Put("all", []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}})
		s.Put("today", []item{{ID: "a", Value: 1}})
		return s
	}

	t.Run("replace hits every partition", func(t *testing.T) {
		s := newStore()
		var replaced int
		s.Atomically(func(tx *cache.Tx[item]) {
			replaced = tx.Replace("a", item{ID: "a", Value: 9})
		})

		assert.Equal(t, 2, replaced)
		assert.Equal(t, 9, s.List("all")[0].Value)
		assert.Equal(t, 9, s.List("today")[0].Value)
	})

	t.Run("remove hits every partition", func(t *testing.T) {
		s := newStore()
		var removed int
		s.Atomically(func(tx *cache.Tx[item]) {
			removed = tx.Remove("a")
		})

		assert.Equal(t, 2, removed)
		assert.Len(t, s.List("all"), 1)
		assert.Empty(t, s.List("today"))
	})

	t.Run("update hits every partition", func(t *testing.T) {
		s := newStore()
		s.Atomically(func(tx *cache.Tx[item]) {
			tx.Update("a", func(i item) item {
				i.Value += 10
				return i
			})
		})

		assert.Equal(t, 11, s.List("all")[0].Value)
		assert.Equal(t, 11, s.List("today")[0].Value)
	})

	t.Run("append registers new partitions", func(t *testing.T) {
		s := newStore()
		s.Atomically(func(tx *cache.Tx[item]) {
			tx.Append("task:42", item{ID: "c", Value: 3})
		})

		assert.Contains(t, s.Partitions(), "task:42")
		assert.Len(t, s.List("task:42"), 1)
	})
}

type parent struct {
	ID    string
	Count int
}

func (p parent) EntityID() string { return p.ID }

func TestGroup(t *testing.T) {
	t.Run("stores share one lock", func(t *testing.T) {
		g := cache.NewGroup()
		items := cache.NewStoreIn[item](g, "all")
		parents := cache.NewStoreIn[parent](g, "all")

		assert.Same(t, g, items.Group())
		assert.Same(t, g, parents.Group())
		assert.NotSame(t, g, cache.NewStore[item]().Group())
	})

	t.Run("compound writes land together", func(t *testing.T) {
		g := cache.NewGroup()
		items := cache.NewStoreIn[item](g, "all")
		parents := cache.NewStoreIn[parent](g, "all")
		parents.Put("all", []parent{{ID: "p", Count: 0}})

		g.Atomically(func() {
			items.Txn().Append("all", item{ID: "a", Value: 1})
			parents.Txn().Update("p", func(p parent) parent {
				p.Count++
				return p
			})
		})

		assert.Len(t, items.List("all"), 1)
		assert.Equal(t, 1, parents.List("all")[0].Count)
	})

	t.Run("locked snapshot restores inside the same critical section", func(t *testing.T) {
		g := cache.NewGroup()
		items := cache.NewStoreIn[item](g, "all")
		items.Put("all", []item{{ID: "a", Value: 1}})

		g.Atomically(func() {
			restore := items.SnapshotLocked()
			items.Txn().Remove("a")
			items.Txn().Append("all", item{ID: "b", Value: 2})
			restore()
		})

		assert.Equal(t, []item{{ID: "a", Value: 1}}, items.List("all"))
	})

	t.Run("readers of sibling stores never interleave a compound write", func(t *testing.T) {
		g := cache.NewGroup()
		items := cache.NewStoreIn[item](g, "all")
		parents := cache.NewStoreIn[parent](g, "all")
		parents.Put("all", []parent{{ID: "p", Count: 0}})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				g.Atomically(func() {
					items.Txn().Append("all", item{ID: "a", Value: 1})
					parents.Txn().Update("p", func(p parent) parent {
						p.Count++
						return p
					})
				})
			}
		}()

		for i := 0; i < 500; i++ {
			var n, count int
			g.Atomically(func() {
				n = len(items.Txn().List("all"))
				count = parents.Txn().List("all")[0].Count
			})
			assert.Equal(t, n, count, "item count and parent counter must move together")
		}
		<-done
	})
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := cache.NewStore[item]("all", "today")
	s.Put("all", []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}})
	s.Put("today", []item{{ID: "a", Value: 1}})

	restore := s.SnapshotAll()

	s.Atomically(func(tx *cache.Tx[item]) {
		tx.Remove("a")
		tx.Append("all", item{ID: "c", Value: 3})
		tx.Append("starred", item{ID: "d", Value: 4})
	})

	restore()

	assert.Equal(t, []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}}, s.List("all"))
	assert.Equal(t, []item{{ID: "a", Value: 1}}, s.List("today"))
	assert.Equal(t, []string{"all", "today"}, s.Partitions())
}
