package cache

import "slices"

// Entity is anything the cache can hold. EntityID must be stable and unique
// within the store; optimistic temporary ids share the same key space until
// reconciliation swaps them out.
type Entity interface {
	EntityID() string
}

// Snapshotter captures the full state of a store and hands back a restore
// function. The optimistic mutation engine snapshots every store it may
// touch before applying anything.
type Snapshotter interface {
	SnapshotAll() (restore func())
}

// Store is a partitioned, ordered entity cache. All methods are safe for
// concurrent use; compound operations go through Atomically. Stores created
// with NewStoreIn share their lock with the rest of the group, so mutations
// spanning sibling stores can expose all writes at once.
type Store[T Entity] struct {
	group      *Group
	partitions map[string][]T
	order      []string
}

// NewStore creates a standalone store with the given enumerated partitions.
// Partitions may also be added later with EnsurePartition.
func NewStore[T Entity](partitions ...string) *Store[T] {
	return NewStoreIn[T](NewGroup(), partitions...)
}

// NewStoreIn creates a store whose lock is the given group's.
func NewStoreIn[T Entity](g *Group, partitions ...string) *Store[T] {
	s := &Store[T]{group: g, partitions: make(map[string][]T, len(partitions))}
	for _, p := range partitions {
		s.partitions[p] = nil
		s.order = append(s.order, p)
	}
	return s
}

// Group returns the lock group this store belongs to.
func (s *Store[T]) Group() *Group { return s.group }

// EnsurePartition registers a partition if it does not exist yet.
func (s *Store[T]) EnsurePartition(name string) {
	s.group.mu.Lock()
	defer s.group.mu.Unlock()
	s.ensure(name)
}

func (s *Store[T]) ensure(name string) {
	if _, ok := s.partitions[name]; !ok {
		s.partitions[name] = nil
		s.order = append(s.order, name)
	}
}

// Partitions returns the full enumerated partition list, in registration
// order. Mutation helpers iterate this list, never a subset.
func (s *Store[T]) Partitions() []string {
	s.group.mu.RLock()
	defer s.group.mu.RUnlock()
	return slices.Clone(s.order)
}

// List returns a copy of one partition's contents.
func (s *Store[T]) List(partition string) []T {
	s.group.mu.RLock()
	defer s.group.mu.RUnlock()
	return slices.Clone(s.partitions[partition])
}

// Put replaces one partition's contents, registering the partition if
// needed.
func (s *Store[T]) Put(partition string, items []T) {
	s.group.mu.Lock()
	defer s.group.mu.Unlock()
	s.ensure(partition)
	s.partitions[partition] = slices.Clone(items)
}

// Find scans every partition for the entity with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.group.mu.RLock()
	defer s.group.mu.RUnlock()

	for _, name := range s.order {
		for _, item := range s.partitions[name] {
			if item.EntityID() == id {
				return item, true
			}
		}
	}
	var zero T
	return zero, false
}

// SnapshotAll deep-copies every partition and returns a function restoring
// the store to exactly that state.
func (s *Store[T]) SnapshotAll() (restore func()) {
	s.group.mu.RLock()
	snap, order := s.snapshot()
	s.group.mu.RUnlock()

	return func() {
		s.group.mu.Lock()
		defer s.group.mu.Unlock()
		s.restore(snap, order)
	}
}

// SnapshotLocked is SnapshotAll for a caller already inside the group's
// Atomically block; the returned restore requires the same lock.
func (s *Store[T]) SnapshotLocked() (restore func()) {
	snap, order := s.snapshot()
	return func() { s.restore(snap, order) }
}

func (s *Store[T]) snapshot() (map[string][]T, []string) {
	snap := make(map[string][]T, len(s.partitions))
	for name, items := range s.partitions {
		snap[name] = slices.Clone(items)
	}
	return snap, slices.Clone(s.order)
}

func (s *Store[T]) restore(snap map[string][]T, order []string) {
	s.partitions = make(map[string][]T, len(snap))
	s.order = order
	for name, items := range snap {
		s.partitions[name] = slices.Clone(items)
	}
}

// Atomically runs fn under the store's write lock. Readers observe either
// none or all of fn's changes. fn must not call back into the store's
// locked methods.
func (s *Store[T]) Atomically(fn func(tx *Tx[T])) {
	s.group.mu.Lock()
	defer s.group.mu.Unlock()
	fn(&Tx[T]{store: s})
}

// Txn returns the store's mutating surface for a caller already inside the
// group's Atomically block. Using it without the lock held races every
// reader.
func (s *Store[T]) Txn() *Tx[T] {
	return &Tx[T]{store: s}
}

// Tx exposes the mutating helpers available inside Atomically. Every helper
// that targets an entity by id walks the full partition list.
type Tx[T Entity] struct {
	store *Store[T]
}

// List returns one partition's live slice contents as a copy.
func (tx *Tx[T]) List(partition string) []T {
	return slices.Clone(tx.store.partitions[partition])
}

// Append adds an item to the end of one partition, registering it if needed.
func (tx *Tx[T]) Append(partition string, item T) {
	tx.store.ensure(partition)
	tx.store.partitions[partition] = append(tx.store.partitions[partition], item)
}

// Replace swaps the entity with the given id for item in every partition it
// appears in and reports how many copies were replaced.
func (tx *Tx[T]) Replace(id string, item T) int {
	replaced := 0
	for _, name := range tx.store.order {
		items := tx.store.partitions[name]
		for i := range items {
			if items[i].EntityID() == id {
				items[i] = item
				replaced++
			}
		}
	}
	return replaced
}

// Remove deletes the entity with the given id from every partition and
// reports how many copies were removed.
func (tx *Tx[T]) Remove(id string) int {
	removed := 0
	for _, name := range tx.store.order {
		items := tx.store.partitions[name]
		next := items[:0]
		for _, item := range items {
			if item.EntityID() == id {
				removed++
				continue
			}
			next = append(next, item)
		}
		tx.store.partitions[name] = next
	}
	return removed
}

// Update applies fn to the entity with the given id everywhere it appears
// and reports how many copies were updated.
func (tx *Tx[T]) Update(id string, fn func(T) T) int {
	updated := 0
	for _, name := range tx.store.order {
		items := tx.store.partitions[name]
		for i := range items {
			if items[i].EntityID() == id {
				items[i] = fn(items[i])
				updated++
			}
		}
	}
	return updated
}

// Find scans every partition for the entity with the given id.
func (tx *Tx[T]) Find(id string) (T, bool) {
	for _, name := range tx.store.order {
		for _, item := range tx.store.partitions[name] {
			if item.EntityID() == id {
				return item, true
			}
		}
	}
	var zero T
	return zero, false
}
