package cache

import "sync"

// Group is a lock shared by a set of stores. A mutation that spans several
// stores runs inside Atomically so readers of any member store observe
// either none or all of its writes.
type Group struct {
	mu sync.RWMutex
}

// NewGroup creates an empty lock group. Add stores with NewStoreIn.
func NewGroup() *Group { return &Group{} }

// Atomically runs fn under the group's write lock. Inside fn, member stores
// must be touched only through their Txn surface; calling a locking store
// method from fn deadlocks.
func (g *Group) Atomically(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

// LockedSnapshotter is implemented by stores whose snapshot can be taken,
// and later restored, by a caller already holding their group's write lock.
// Group identifies which lock that is.
type LockedSnapshotter interface {
	Group() *Group
	SnapshotLocked() (restore func())
}
