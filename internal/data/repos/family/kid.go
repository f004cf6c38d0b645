package family

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type KidRepo interface {
	Create(dbc dbctx.Context, kids []*types.Kid) ([]*types.Kid, error)
	GetByIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Kid, error)
	GetByParentIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Kid, error)
	// GetOwned returns the kid only when it exists AND belongs to parentID;
	// a missing kid and a foreign kid both come back as (nil, nil).
	GetOwned(dbc dbctx.Context, kidID, parentID uuid.UUID) (*types.Kid, error)
	// ApplyDelta adds delta to the kid's materialized balance. It must only
	// be called inside the same transaction that inserts the matching point
	// transaction row.
	ApplyDelta(dbc dbctx.Context, kidID uuid.UUID, delta int) error
	// ApplyDeltaIfBalanceAtLeast applies delta only if the current balance is
	// at least minBalance, as a single conditional UPDATE. Returns false with
	// no rows touched when the check fails.
	ApplyDeltaIfBalanceAtLeast(dbc dbctx.Context, kidID uuid.UUID, minBalance, delta int) (bool, error)
}

type kidRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKidRepo(db *gorm.DB, baseLog *logger.Logger) KidRepo {
	repoLog := baseLog.With("repo", "KidRepo")
	return &kidRepo{db: db, log: repoLog}
}

func (kr *kidRepo) Create(dbc dbctx.Context, kids []*types.Kid) ([]*types.Kid, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	if len(kids) == 0 {
		return []*types.Kid{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&kids).Error; err != nil {
		return nil, err
	}

	return kids, nil
}

func (kr *kidRepo) GetByIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Kid, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	var results []*types.Kid

	if len(kidIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", kidIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (kr *kidRepo) GetByParentIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Kid, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	var results []*types.Kid

	if len(parentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (kr *kidRepo) GetOwned(dbc dbctx.Context, kidID, parentID uuid.UUID) (*types.Kid, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	var kid types.Kid
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND parent_id = ?", kidID, parentID).
		First(&kid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &kid, nil
}

func (kr *kidRepo) ApplyDelta(dbc dbctx.Context, kidID uuid.UUID, delta int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Kid{}).
		Where("id = ?", kidID).
		Updates(map[string]interface{}{
			"points_balance": gorm.Expr("points_balance + ?", delta),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (kr *kidRepo) ApplyDeltaIfBalanceAtLeast(dbc dbctx.Context, kidID uuid.UUID, minBalance, delta int) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = kr.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Kid{}).
		Where("id = ? AND points_balance >= ?", kidID, minBalance).
		Updates(map[string]interface{}{
			"points_balance": gorm.Expr("points_balance + ?", delta),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}
