// Package subtasks manages a task's sub-items through the optimistic
// mutation protocol: every create, update, toggle, and delete lands in the
// cache immediately, and the backend's answer later confirms or reverts it.
//
// The parent task's denormalized counters (done / total and the derived
// percentage) ride along with each mutation, and roll back with it. Derived
// per-task statistics live in an invalidated-on-write stats cache so the UI
// never reads numbers computed from data that has since changed.
package subtasks
