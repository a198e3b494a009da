package subtasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/focusdeck/pkg/cache"
	"github.com/dmitrymomot/focusdeck/pkg/optimistic"
	"github.com/dmitrymomot/focusdeck/pkg/pipeline"
)

// statsCapacity bounds the per-task stats cache; 256 tasks of hot stats is
// far beyond what a list view keeps on screen.
const statsCapacity = 256

// Service exposes the sub-item operations. All mutations follow the
// optimistic protocol; reads come straight from the cache.
type Service struct {
	api      *pipeline.Client
	group    *cache.Group
	subtasks *cache.Store[Subtask]
	tasks    *cache.Store[Task]
	stats    *cache.StatsCache
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the timestamp source for synthesized records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the sub-item service. The task store starts with the
// fixed list partitions; sub-item partitions register per task as data
// arrives. Both stores share one lock group, so a mutation that touches a
// sub-item and its parent's counters is a single critical section.
func NewService(api *pipeline.Client, opts ...Option) *Service {
	group := cache.NewGroup()
	s := &Service{
		api:      api,
		group:    group,
		subtasks: cache.NewStoreIn[Subtask](group),
		tasks:    cache.NewStoreIn[Task](group, PartitionAll, PartitionToday, PartitionStarred),
		stats:    cache.NewStatsCache(statsCapacity),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subtasks exposes the sub-item cache for read-only views.
func (s *Service) Subtasks() *cache.Store[Subtask] { return s.subtasks }

// Tasks exposes the task cache for read-only views.
func (s *Service) Tasks() *cache.Store[Task] { return s.tasks }

// List fetches a task's sub-items from the backend and fills the cache
// partition.
func (s *Service) List(ctx context.Context, taskID int64) ([]Subtask, error) {
	var items []Subtask
	if err := s.api.Get(ctx, fmt.Sprintf("/tasks/%d/subtasks", taskID), &items); err != nil {
		return nil, err
	}
	s.subtasks.Put(TaskPartition(taskID), items)
	return items, nil
}

// Create adds a sub-item. The synthesized record is visible immediately
// under a temporary id and swapped for the server record on success.
func (s *Service) Create(ctx context.Context, taskID int64, title string) (Subtask, error) {
	temp := Subtask{
		ID:        optimistic.TempID(),
		TaskID:    taskID,
		Title:     title,
		CreatedAt: s.now(),
	}
	partition := TaskPartition(taskID)

	mut := optimistic.Mutation[Subtask]{
		Stores: []cache.Snapshotter{s.subtasks, s.tasks},
		Group:  s.group,
		Apply: func() {
			s.subtasks.Txn().Append(partition, temp)
			s.adjustCounters(taskID, 1, 0)
		},
		Call: func(ctx context.Context) (Subtask, error) {
			var out Subtask
			err := s.api.Post(ctx, fmt.Sprintf("/tasks/%d/subtasks", taskID), createRequest{
				Title:  title,
				TaskID: taskID,
			}, &out)
			return out, err
		},
		Reconcile: func(confirmed Subtask) {
			s.subtasks.Atomically(func(tx *cache.Tx[Subtask]) {
				tx.Replace(temp.ID, confirmed)
			})
		},
		Invalidate: func() { s.stats.Invalidate(statsKey(taskID)) },
	}

	return mut.Run(ctx)
}

// Update changes a sub-item's title everywhere it is cached.
func (s *Service) Update(ctx context.Context, id, title string) (Subtask, error) {
	current, ok := s.subtasks.Find(id)
	if !ok {
		return Subtask{}, ErrNotFound
	}

	updated := current
	updated.Title = title

	mut := optimistic.Mutation[Subtask]{
		Stores: []cache.Snapshotter{s.subtasks},
		Group:  s.group,
		Apply: func() {
			s.subtasks.Txn().Replace(id, updated)
		},
		Call: func(ctx context.Context) (Subtask, error) {
			var out Subtask
			err := s.api.Patch(ctx, "/subtasks/"+id, updateRequest{Title: title}, &out)
			return out, err
		},
		Reconcile: func(confirmed Subtask) {
			s.subtasks.Atomically(func(tx *cache.Tx[Subtask]) {
				tx.Replace(id, confirmed)
			})
		},
		Invalidate: func() { s.stats.Invalidate(statsKey(current.TaskID)) },
	}

	return mut.Run(ctx)
}

// Toggle flips a sub-item's done flag and moves the parent's done counter
// with it.
func (s *Service) Toggle(ctx context.Context, id string) (Subtask, error) {
	current, ok := s.subtasks.Find(id)
	if !ok {
		return Subtask{}, ErrNotFound
	}

	toggled := current
	toggled.Done = !current.Done
	deltaDone := 1
	if current.Done {
		deltaDone = -1
	}

	mut := optimistic.Mutation[Subtask]{
		Stores: []cache.Snapshotter{s.subtasks, s.tasks},
		Group:  s.group,
		Apply: func() {
			s.subtasks.Txn().Replace(id, toggled)
			s.adjustCounters(current.TaskID, 0, deltaDone)
		},
		Call: func(ctx context.Context) (Subtask, error) {
			var out Subtask
			err := s.api.Patch(ctx, "/subtasks/"+id+"/toggle", struct{}{}, &out)
			return out, err
		},
		Reconcile: func(confirmed Subtask) {
			s.subtasks.Atomically(func(tx *cache.Tx[Subtask]) {
				tx.Replace(id, confirmed)
			})
		},
		Invalidate: func() { s.stats.Invalidate(statsKey(current.TaskID)) },
	}

	return mut.Run(ctx)
}

// Delete removes a sub-item everywhere and decrements the parent's counters.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, ok := s.subtasks.Find(id)
	if !ok {
		return ErrNotFound
	}

	deltaDone := 0
	if current.Done {
		deltaDone = -1
	}

	mut := optimistic.Mutation[Subtask]{
		Stores: []cache.Snapshotter{s.subtasks, s.tasks},
		Group:  s.group,
		Apply: func() {
			s.subtasks.Txn().Remove(id)
			s.adjustCounters(current.TaskID, -1, deltaDone)
		},
		Call: func(ctx context.Context) (Subtask, error) {
			return Subtask{}, s.api.Delete(ctx, "/subtasks/"+id)
		},
		Invalidate: func() { s.stats.Invalidate(statsKey(current.TaskID)) },
	}

	_, err := mut.Run(ctx)
	return err
}

// Stats returns the derived numbers for one task, cached until the next
// mutation invalidates them.
func (s *Service) Stats(taskID int64) Stats {
	if cached, ok := s.stats.Get(statsKey(taskID)); ok {
		if st, ok := cached.(Stats); ok {
			return st
		}
	}

	st := Stats{}
	for _, item := range s.subtasks.List(TaskPartition(taskID)) {
		st.Total++
		if item.Done {
			st.Done++
		}
	}
	st.Percent = percent(st.Done, st.Total)

	s.stats.Set(statsKey(taskID), st)
	return st
}

// adjustCounters applies a counter delta to the parent task in every task
// partition, recomputing the derived percentage, clamped non-negative.
// It runs inside a mutation's Apply, with the group lock already held.
func (s *Service) adjustCounters(taskID int64, deltaTotal, deltaDone int) {
	id := strconv.FormatInt(taskID, 10)
	s.tasks.Txn().Update(id, func(t Task) Task {
		t.SubtasksTotal = max(t.SubtasksTotal+deltaTotal, 0)
		t.SubtasksDone = max(t.SubtasksDone+deltaDone, 0)
		t.PercentDone = percent(t.SubtasksDone, t.SubtasksTotal)
		return t
	})
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return max(done*100/total, 0)
}

type createRequest struct {
	Title  string `json:"title"`
	TaskID int64  `json:"task_id"`
}

type updateRequest struct {
	Title string `json:"title"`
}
