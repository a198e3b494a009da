// Package cache holds the client's in-memory entity data.
//
// A Store keeps one ordered list of entities per named partition ("all",
// "today", "task:42", …). The same logical entity may appear in several
// partitions at once; every mutating helper therefore iterates the store's
// full enumerated partition list, never a caller-chosen subset, so no copy
// can silently go stale.
//
// Entities must have value semantics: snapshots copy the slices, not the
// memory the elements might point at. All entity types in this module are
// plain value structs.
//
// Atomically runs a compound read-modify-write under the store's single
// lock, so concurrent readers never observe a half-applied change. Stores
// created in one Group share that lock: a Group.Atomically block mutating
// several sibling stores through their Txn surfaces is one critical section,
// so a reader can never see, say, an entity added with a related counter
// still unmoved.
//
// StatsCache is a small LRU for derived statistics that are cheaper to
// invalidate than to keep incrementally consistent.
package cache
