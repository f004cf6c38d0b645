package repos

import (
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos/chores"
	"github.com/chorepoints/chorepoints-backend/internal/data/repos/family"
	"github.com/chorepoints/chorepoints-backend/internal/data/repos/ledger"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type ParentRepo = family.ParentRepo
type KidRepo = family.KidRepo

type TaskRepo = chores.TaskRepo
type RewardRepo = chores.RewardRepo
type RedemptionRepo = chores.RedemptionRepo

type PointTransactionRepo = ledger.PointTransactionRepo

func NewParentRepo(db *gorm.DB, baseLog *logger.Logger) ParentRepo {
	return family.NewParentRepo(db, baseLog)
}

func NewKidRepo(db *gorm.DB, baseLog *logger.Logger) KidRepo {
	return family.NewKidRepo(db, baseLog)
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return chores.NewTaskRepo(db, baseLog)
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	return chores.NewRewardRepo(db, baseLog)
}

func NewRedemptionRepo(db *gorm.DB, baseLog *logger.Logger) RedemptionRepo {
	return chores.NewRedemptionRepo(db, baseLog)
}

func NewPointTransactionRepo(db *gorm.DB, baseLog *logger.Logger) PointTransactionRepo {
	return ledger.NewPointTransactionRepo(db, baseLog)
}
