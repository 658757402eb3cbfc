package command

import (
	"strconv"

	"cuctask_bot/internal/domain"
)

// ResolveIndex maps a user-facing display index onto a task.
//
// Display indices are 1-based positions in the ascending-id list returned by
// the store, not store ids. They shift whenever an earlier task is removed,
// so an index read from one listing may point at a different task if another
// command deleted something in between. Callers must pass a freshly loaded
// list.
func ResolveIndex(tasks []*domain.Task, raw string) (*domain.Task, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(tasks) {
		return nil, false
	}
	return tasks[n-1], true
}

// DisplayIndex is the inverse of ResolveIndex: the 1-based position of id in
// tasks, or 0 when absent.
func DisplayIndex(tasks []*domain.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}
