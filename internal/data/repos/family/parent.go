package family

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type ParentRepo interface {
	Create(dbc dbctx.Context, parents []*types.Parent) ([]*types.Parent, error)
	GetByIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Parent, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.Parent, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
}

type parentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParentRepo(db *gorm.DB, baseLog *logger.Logger) ParentRepo {
	repoLog := baseLog.With("repo", "ParentRepo")
	return &parentRepo{db: db, log: repoLog}
}

func (pr *parentRepo) Create(dbc dbctx.Context, parents []*types.Parent) ([]*types.Parent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(parents) == 0 {
		return []*types.Parent{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&parents).Error; err != nil {
		return nil, err
	}

	return parents, nil
}

func (pr *parentRepo) GetByIDs(dbc dbctx.Context, parentIDs []uuid.UUID) ([]*types.Parent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Parent

	if len(parentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", parentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (pr *parentRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.Parent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Parent

	if len(emails) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("email IN ?", emails).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (pr *parentRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Parent{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
