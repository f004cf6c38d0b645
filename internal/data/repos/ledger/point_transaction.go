package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type PointTransactionRepo interface {
	Create(dbc dbctx.Context, transactions []*types.PointTransaction) ([]*types.PointTransaction, error)
	// HistoryPage returns up to limit transactions for the kid, newest
	// first. A non-nil before cursor restarts the scan strictly before that
	// commit time, so pages stay stable while new rows land at the top.
	HistoryPage(dbc dbctx.Context, kidID uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error)
	CountByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) (int64, error)
	// SumDeltas recomputes the balance from the ledger. Consistency checks
	// only; balance reads go through the materialized column.
	SumDeltas(dbc dbctx.Context, kidID uuid.UUID) (int, error)
	// ClearTaskRefs nulls task_id on transactions for a deleted task,
	// keeping delta and note intact.
	ClearTaskRefs(dbc dbctx.Context, taskID uuid.UUID) error
}

type pointTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointTransactionRepo(db *gorm.DB, baseLog *logger.Logger) PointTransactionRepo {
	repoLog := baseLog.With("repo", "PointTransactionRepo")
	return &pointTransactionRepo{db: db, log: repoLog}
}

func (ptr *pointTransactionRepo) Create(dbc dbctx.Context, transactions []*types.PointTransaction) ([]*types.PointTransaction, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}

	if len(transactions) == 0 {
		return []*types.PointTransaction{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

func (ptr *pointTransactionRepo) HistoryPage(dbc dbctx.Context, kidID uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}

	query := transaction.WithContext(dbc.Ctx).
		Where("kid_id = ?", kidID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	var results []*types.PointTransaction
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ptr *pointTransactionRepo) CountByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}

	if len(kidIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.PointTransaction{}).
		Where("kid_id IN ?", kidIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (ptr *pointTransactionRepo) SumDeltas(dbc dbctx.Context, kidID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}

	var sum int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.PointTransaction{}).
		Where("kid_id = ?", kidID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}

	return int(sum), nil
}

func (ptr *pointTransactionRepo) ClearTaskRefs(dbc dbctx.Context, taskID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}

	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.PointTransaction{}).
		Where("task_id = ?", taskID).
		Update("task_id", nil).Error; err != nil {
		return err
	}

	return nil
}
