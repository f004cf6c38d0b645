package app

import (
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	Access services.AccessService
	Ledger services.LedgerService
	Kid    services.KidService
	Task   services.TaskService
	Reward services.RewardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, reposet.Parent, reposet.Kid, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	access := services.NewAccessService(log, reposet.Kid)
	ledger := services.NewLedgerService(db, log, reposet.Kid, reposet.PointTransaction)

	kid := services.NewKidService(db, log, access, reposet.Kid, ledger)
	task := services.NewTaskService(db, log, access, reposet.Task, reposet.PointTransaction, ledger)
	reward := services.NewRewardService(db, log, access, reposet.Reward, reposet.Redemption, ledger)

	return Services{
		Auth:   auth,
		Access: access,
		Ledger: ledger,
		Kid:    kid,
		Task:   task,
		Reward: reward,
	}, nil
}
