package subtasks

import "errors"

var ErrNotFound = errors.New("subtasks: subtask not found in any cache partition")
