package chores

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error)
	GetByIDs(dbc dbctx.Context, taskIDs []uuid.UUID) ([]*types.Task, error)
	GetByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Task, error)
	// MarkComplete flips a pending task to complete. Returns false when the
	// task was already complete (or missing), so callers can stay idempotent.
	MarkComplete(dbc dbctx.Context, taskID uuid.UUID, completedAt time.Time) (bool, error)
	FullDeleteByIDs(dbc dbctx.Context, taskIDs []uuid.UUID) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (tr *taskRepo) GetByIDs(dbc dbctx.Context, taskIDs []uuid.UUID) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task

	if len(taskIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", taskIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (tr *taskRepo) GetByKidIDs(dbc dbctx.Context, kidIDs []uuid.UUID) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task

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

func (tr *taskRepo) MarkComplete(dbc dbctx.Context, taskID uuid.UUID, completedAt time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Task{}).
		Where("id = ? AND status = ?", taskID, types.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":       types.TaskStatusComplete,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

func (tr *taskRepo) FullDeleteByIDs(dbc dbctx.Context, taskIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(taskIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", taskIDs).
		Delete(&types.Task{}).Error; err != nil {
		return err
	}

	return nil
}
