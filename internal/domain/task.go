package domain

import (
	"errors"
	"time"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyContent = errors.New("task content is empty")
)

// Task is a tracked item with optional deadline and one-shot reminder.
type Task struct {
	ID        int64      `db:"id"`
	Content   string     `db:"content"`
	Done      bool       `db:"done"`
	Deadline  *time.Time `db:"deadline"`
	RemindAt  *time.Time `db:"remind_at"`
	ChannelID *string    `db:"channel_id"`
	Reminded  bool       `db:"reminded"`
	CreatedAt time.Time  `db:"created_at"`
}

// TaskPatch lists the mutable fields of a Task. Nil fields are left untouched.
type TaskPatch struct {
	Done     *bool
	Deadline *time.Time
	RemindAt *time.Time
	Reminded *bool
}

// Apply copies the non-nil patch fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.RemindAt != nil {
		r := *p.RemindAt
		t.RemindAt = &r
	}
	if p.Reminded != nil {
		t.Reminded = *p.Reminded
	}
}

// DueAt reports whether the reminder is armed and falls in the same minute as now.
func (t *Task) DueAt(now time.Time) bool {
	if t.Done || t.Reminded || t.RemindAt == nil {
		return false
	}
	return MinuteOf(*t.RemindAt) == MinuteOf(now)
}

// MinuteOf returns the number of whole minutes since the Unix epoch.
func MinuteOf(t time.Time) int64 {
	return t.Unix() / 60
}

// Clone returns a deep copy so callers can't mutate stored state.
func (t *Task) Clone() *Task {
	out := *t
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	if t.RemindAt != nil {
		r := *t.RemindAt
		out.RemindAt = &r
	}
	if t.ChannelID != nil {
		c := *t.ChannelID
		out.ChannelID = &c
	}
	return &out
}

// Bool and Time return pointers to their argument, for building patches.
func Bool(v bool) *bool { return &v }

func Time(v time.Time) *time.Time { return &v }
