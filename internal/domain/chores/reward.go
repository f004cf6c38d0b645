package chores

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a global catalog entry; it is not owned by a kid.
type Reward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Cost      int       `gorm:"not null" json:"cost"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Reward) TableName() string { return "reward" }
