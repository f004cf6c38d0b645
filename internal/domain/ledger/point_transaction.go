package ledger

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionTypeEarn   = "earn"
	TransactionTypeSpend  = "spend"
	TransactionTypeAdjust = "adjust"
)

// PointTransaction is an immutable, append-only ledger entry. The sum of
// deltas for a kid is the kid's balance; the materialized kid.points_balance
// column is updated in the same database transaction as every insert here.
// TaskID and RedemptionID are soft references: deleting the task or
// redemption nulls them but never deletes the transaction.
type PointTransaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	KidID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_point_transaction_kid_created,priority:1" json:"kid_id"`
	Type         string     `gorm:"not null" json:"type"`
	Delta        int        `gorm:"not null" json:"delta"`
	TaskID       *uuid.UUID `gorm:"type:uuid;index" json:"task_id,omitempty"`
	RedemptionID *uuid.UUID `gorm:"type:uuid;index" json:"redemption_id,omitempty"`
	Note         string     `json:"note"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_point_transaction_kid_created,priority:2" json:"created_at"`
}

func (PointTransaction) TableName() string { return "point_transaction" }
