package chores

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type RedemptionRepo interface {
	Create(dbc dbctx.Context, redemptions []*types.Redemption) ([]*types.Redemption, error)
	GetByIDs(dbc dbctx.Context, redemptionIDs []uuid.UUID) ([]*types.Redemption, error)
	GetByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Redemption, error)
	// ClearRewardRefs nulls reward_id on redemptions for a deleted reward.
	// The rows themselves are audit records and stay.
	ClearRewardRefs(dbc dbctx.Context, rewardID uuid.UUID) error
}

type redemptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRedemptionRepo(db *gorm.DB, baseLog *logger.Logger) RedemptionRepo {
	repoLog := baseLog.With("repo", "RedemptionRepo")
	return &redemptionRepo{db: db, log: repoLog}
}

func (rr *redemptionRepo) Create(dbc dbctx.Context, redemptions []*types.Redemption) ([]*types.Redemption, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(redemptions) == 0 {
		return []*types.Redemption{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&redemptions).Error; err != nil {
		return nil, err
	}

	return redemptions, nil
}

func (rr *redemptionRepo) GetByIDs(dbc dbctx.Context, redemptionIDs []uuid.UUID) ([]*types.Redemption, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Redemption

	if len(redemptionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", redemptionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *redemptionRepo) GetByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Redemption, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Redemption

	if len(kidIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("kid_id IN ?", kidIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *redemptionRepo) ClearRewardRefs(dbc dbctx.Context, rewardID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Redemption{}).
		Where("reward_id = ?", rewardID).
		Update("reward_id", nil).Error; err != nil {
		return err
	}

	return nil
}
