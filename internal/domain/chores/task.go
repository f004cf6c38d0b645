package chores

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusPending  = "pending"
	TaskStatusComplete = "complete"
)

// Task is assigned to exactly one kid and created by exactly one parent.
// The pending -> complete transition is one-way; re-completing is a no-op.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"parent_id"`
	KidID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"kid_id"`
	Title       string     `gorm:"not null" json:"title"`
	Points      int        `gorm:"not null" json:"points"`
	Status      string     `gorm:"not null;default:pending" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string { return "task" }
