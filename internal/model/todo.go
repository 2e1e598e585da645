package model

import (
	"time"
)

type Todo struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"owner"`
	Text        string     `db:"text" json:"text"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// SetCompleted applies the completion policy. Only an explicit true marks
// the todo completed and stamps CompletedAt with now; false and absent
// (nil) both reset it to incomplete with no timestamp.
func (t *Todo) SetCompleted(completed *bool, now time.Time) {
	if completed != nil && *completed {
		t.Completed = true
		t.CompletedAt = &now
		return
	}
	t.Completed = false
	t.CompletedAt = nil
}
