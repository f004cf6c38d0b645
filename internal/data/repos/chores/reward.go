package chores

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type RewardRepo interface {
	Create(dbc dbctx.Context, rewards []*types.Reward) ([]*types.Reward, error)
	GetByIDs(dbc dbctx.Context, rewardIDs []uuid.UUID) ([]*types.Reward, error)
	List(dbc dbctx.Context) ([]*types.Reward, error)
	FullDeleteByIDs(dbc dbctx.Context, rewardIDs []uuid.UUID) error
}

type rewardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	repoLog := baseLog.With("repo", "RewardRepo")
	return &rewardRepo{db: db, log: repoLog}
}

func (rr *rewardRepo) Create(dbc dbctx.Context, rewards []*types.Reward) ([]*types.Reward, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(rewards) == 0 {
		return []*types.Reward{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&rewards).Error; err != nil {
		return nil, err
	}

	return rewards, nil
}

func (rr *rewardRepo) GetByIDs(dbc dbctx.Context, rewardIDs []uuid.UUID) ([]*types.Reward, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Reward

	if len(rewardIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", rewardIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *rewardRepo) List(dbc dbctx.Context) ([]*types.Reward, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Reward

	if err := transaction.WithContext(dbc.Ctx).
		Order("cost ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *rewardRepo) FullDeleteByIDs(dbc dbctx.Context, rewardIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(rewardIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", rewardIDs).
		Delete(&types.Reward{}).Error; err != nil {
		return err
	}

	return nil
}
