package subtasks

import (
	"strconv"
	"time"
)

// Subtask is one sub-item of a task. The ID is server-assigned except while
// a create is in flight, when it is a temporary optimistic id.
type Subtask struct {
	ID        string    `json:"id"`
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Subtask) EntityID() string { return s.ID }

// Task carries the denormalized sub-item counters a list view renders
// without loading the sub-items themselves.
type Task struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	SubtasksTotal int    `json:"subtasks_total"`
	SubtasksDone  int    `json:"subtasks_done"`
	PercentDone   int    `json:"percent_done"`
}

func (t Task) EntityID() string { return strconv.FormatInt(t.ID, 10) }

// Stats are the derived per-task numbers kept in the stats cache.
type Stats struct {
	Total   int
	Done    int
	Percent int
}

// Task list partitions. The same task may appear in several of them; every
// counter update walks all three.
const (
	PartitionAll     = "all"
	PartitionToday   = "today"
	PartitionStarred = "starred"
)

// TaskPartition names the cache partition holding one task's sub-items.
func TaskPartition(taskID int64) string {
	return "task:" + strconv.FormatInt(taskID, 10)
}

func statsKey(taskID int64) string {
	return "stats:" + strconv.FormatInt(taskID, 10)
}
