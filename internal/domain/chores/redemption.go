package chores

import (
	"time"

	"github.com/google/uuid"
)

// Redemption records one kid redeeming one reward. Rows are created fully
// formed inside the redemption transaction and never mutated afterward.
// RewardID is nulled if the reward is later deleted; the title and cost
// snapshots keep the record auditable.
type Redemption struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	KidID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"kid_id"`
	RewardID    *uuid.UUID `gorm:"type:uuid;index" json:"reward_id,omitempty"`
	RewardTitle string     `gorm:"not null" json:"reward_title"`
	Cost        int        `gorm:"not null" json:"cost"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (Redemption) TableName() string { return "redemption" }
