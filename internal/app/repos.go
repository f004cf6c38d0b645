package app

import (
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type Repos struct {
	Parent           repos.ParentRepo
	Kid              repos.KidRepo
	Task             repos.TaskRepo
	Reward           repos.RewardRepo
	Redemption       repos.RedemptionRepo
	PointTransaction repos.PointTransactionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Parent:           repos.NewParentRepo(db, log),
		Kid:              repos.NewKidRepo(db, log),
		Task:             repos.NewTaskRepo(db, log),
		Reward:           repos.NewRewardRepo(db, log),
		Redemption:       repos.NewRedemptionRepo(db, log),
		PointTransaction: repos.NewPointTransactionRepo(db, log),
	}
}
