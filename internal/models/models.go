package models

import (
	"regexp"
	"time"
)

// TodoStatus tracks where a todo sits in the planning flow.
type TodoStatus string

const (
	TodoStatusUnscheduled TodoStatus = "unscheduled"
	TodoStatusScheduled   TodoStatus = "scheduled"
	TodoStatusDone        TodoStatus = "done"
)

// ValidTodoStatuses enumerates the statuses a todo may hold.
var ValidTodoStatuses = map[TodoStatus]struct{}{
	TodoStatusUnscheduled: {},
	TodoStatusScheduled:   {},
	TodoStatusDone:        {},
}

// Todo is a single plan item, possibly nested under a parent todo of the
// same owner. The todos of one user form a forest linked by ParentID.
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ParentID    *string    `json:"parent_id"`
	Status      TodoStatus `json:"status"`
	TagIDs      []string   `json:"tag_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Tag is a user-defined classification label inside a tag group.
type Tag struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TagGroup bundles tags for display and filtering.
type TagGroup struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Schedule blocks a time range, optionally linked to a todo.
type Schedule struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TodoID    *string   `json:"todo_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TimerState tracks a timer through its start/pause lifecycle.
type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
)

// Timer accumulates focused time for a user. ElapsedSeconds is computed
// on read: the stored accumulation plus the current running stretch.
type Timer struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	State          TimerState `json:"state"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	StartedAt      *time.Time `json:"started_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Meeting is a coordination event with other people.
type Meeting struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Participants []string  `json:"participants"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	CreatedAt    time.Time `json:"created_at"`
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether s is a hex color of the form #RRGGBB.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}
