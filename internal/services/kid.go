package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type AdjustInput struct {
	KidID uuid.UUID
	Delta int
	Note  string
}

type KidService interface {
	CreateKid(ctx context.Context, principal types.Principal, displayName string) (*types.Kid, error)
	ListKids(ctx context.Context, principal types.Principal) ([]*types.Kid, error)
	Balance(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) (uuid.UUID, int, error)
	History(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error)
	// Adjust is the parent-only manual correction path. A negative adjustment
	// is guarded the same way a spend is: it cannot push the balance below
	// zero.
	Adjust(ctx context.Context, principal types.Principal, in AdjustInput) (*types.PointTransaction, error)
}

type kidService struct {
	db      *gorm.DB
	log     *logger.Logger
	access  AccessService
	kidRepo repos.KidRepo
	ledger  LedgerService
}

func NewKidService(
	db *gorm.DB,
	log *logger.Logger,
	access AccessService,
	kidRepo repos.KidRepo,
	ledger LedgerService,
) KidService {
	serviceLog := log.With("service", "KidService")
	return &kidService{
		db:      db,
		log:     serviceLog,
		access:  access,
		kidRepo: kidRepo,
		ledger:  ledger,
	}
}

func (ks *kidService) CreateKid(ctx context.Context, principal types.Principal, displayName string) (*types.Kid, error) {
	if err := ks.access.RequireRole(principal, types.RoleParent); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, apierr.BadRequest(errors.New("display name is required"))
	}

	kid := &types.Kid{
		ID:          uuid.New(),
		ParentID:    principal.ParentID,
		DisplayName: displayName,
	}
	if _, err := ks.kidRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Kid{kid}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create kid: %w", err))
	}

	return kid, nil
}

func (ks *kidService) ListKids(ctx context.Context, principal types.Principal) ([]*types.Kid, error) {
	if err := ks.access.RequireRole(principal, types.RoleParent); err != nil {
		return nil, err
	}

	kids, err := ks.kidRepo.GetByParentIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{principal.ParentID})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list kids: %w", err))
	}
	return kids, nil
}

func (ks *kidService) Balance(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) (uuid.UUID, int, error) {
	kidID, err := ks.access.ResolveEffectiveKid(ctx, principal, requestedKidID)
	if err != nil {
		return uuid.Nil, 0, err
	}

	balance, err := ks.ledger.Balance(ctx, kidID)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return kidID, balance, nil
}

func (ks *kidService) History(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error) {
	kidID, err := ks.access.ResolveEffectiveKid(ctx, principal, requestedKidID)
	if err != nil {
		return nil, err
	}

	return ks.ledger.History(ctx, kidID, limit, before)
}

func (ks *kidService) Adjust(ctx context.Context, principal types.Principal, in AdjustInput) (*types.PointTransaction, error) {
	if err := ks.access.RequireRole(principal, types.RoleParent); err != nil {
		return nil, err
	}
	if in.Delta == 0 {
		return nil, apierr.BadRequest(errors.New("delta must be non-zero"))
	}

	kidID, err := ks.access.ResolveEffectiveKid(ctx, principal, &in.KidID)
	if err != nil {
		return nil, err
	}

	entry := AppendInput{
		KidID: kidID,
		Type:  types.TransactionTypeAdjust,
		Delta: in.Delta,
		Note:  in.Note,
	}
	if in.Delta < 0 {
		// Deducting more than the kid has fails like an over-priced redemption.
		return ks.ledger.AppendIfBalanceAtLeast(dbctx.Context{Ctx: ctx}, -in.Delta, entry)
	}
	return ks.ledger.Append(dbctx.Context{Ctx: ctx}, entry)
}
