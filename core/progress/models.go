package progress

import "time"

// Status is the completion state of one bubble. A missing entry means
// StatusTodo: the default is implied by absence, never stored locally.
type Status string

const (
	StatusTodo   Status = "todo"
	StatusDone   Status = "done"
	StatusReview Status = "review"
)

// Next advances the status along the canonical cycle
// todo → done → review → todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusDone
	case StatusDone:
		return StatusReview
	default:
		return StatusTodo
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDone, StatusReview:
		return true
	}
	return false
}

// Key identifies one bubble: an exercise sheet and the 1-based position of a
// sub-exercise within it.
type Key struct {
	ExerciseID int `json:"exercise_id"`
	Index      int `json:"index"`
}

// Entry is one stored progress row, owned by a single user.
type Entry struct {
	UserID     string    `json:"-" db:"user_id"`
	ExerciseID int       `json:"exercise_id" db:"exercise_id"`
	Index      int       `json:"index" db:"index"`
	Status     Status    `json:"status" db:"status"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (e Entry) Key() Key {
	return Key{ExerciseID: e.ExerciseID, Index: e.Index}
}
