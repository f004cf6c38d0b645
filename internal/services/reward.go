package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type RewardService interface {
	CreateReward(ctx context.Context, principal types.Principal, title string, cost int) (*types.Reward, error)
	ListRewards(ctx context.Context, principal types.Principal) ([]*types.Reward, error)
	// Redeem spends points on a reward for the calling kid. The redemption
	// row and its spend transaction commit together or not at all, and a
	// balance below cost writes nothing.
	Redeem(ctx context.Context, principal types.Principal, rewardID uuid.UUID) (*types.Redemption, error)
	ListRedemptions(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) ([]*types.Redemption, error)
	// DeleteReward removes the catalog entry; past redemptions keep their
	// title/cost snapshot with the reward reference nulled.
	DeleteReward(ctx context.Context, principal types.Principal, rewardID uuid.UUID) error
}

type rewardService struct {
	db             *gorm.DB
	log            *logger.Logger
	access         AccessService
	rewardRepo     repos.RewardRepo
	redemptionRepo repos.RedemptionRepo
	ledger         LedgerService
}

func NewRewardService(
	db *gorm.DB,
	log *logger.Logger,
	access AccessService,
	rewardRepo repos.RewardRepo,
	redemptionRepo repos.RedemptionRepo,
	ledger LedgerService,
) RewardService {
	serviceLog := log.With("service", "RewardService")
	return &rewardService{
		db:             db,
		log:            serviceLog,
		access:         access,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		ledger:         ledger,
	}
}

func (rs *rewardService) CreateReward(ctx context.Context, principal types.Principal, title string, cost int) (*types.Reward, error) {
	if err := rs.access.RequireRole(principal, types.RoleParent); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apierr.BadRequest(errors.New("title is required"))
	}
	if cost < 0 {
		return nil, apierr.BadRequest(errors.New("cost must be zero or positive"))
	}

	reward := &types.Reward{
		ID:    uuid.New(),
		Title: title,
		Cost:  cost,
	}
	if _, err := rs.rewardRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Reward{reward}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create reward: %w", err))
	}

	return reward, nil
}

func (rs *rewardService) ListRewards(ctx context.Context, principal types.Principal) ([]*types.Reward, error) {
	if err := rs.access.RequireRole(principal, types.RoleParent, types.RoleKid); err != nil {
		return nil, err
	}

	rewards, err := rs.rewardRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list rewards: %w", err))
	}
	return rewards, nil
}

func (rs *rewardService) Redeem(ctx context.Context, principal types.Principal, rewardID uuid.UUID) (*types.Redemption, error) {
	// Redemption is self-service: the gate resolves a kid principal to its
	// own id, and a parent session (which would need a kid id) is rejected.
	kidID, err := rs.access.ResolveEffectiveKid(ctx, principal, nil)
	if err != nil {
		return nil, err
	}

	rewards, err := rs.rewardRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rewardID})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("fetch reward: %w", err))
	}
	if len(rewards) == 0 {
		return nil, apierr.NotFound("reward")
	}
	reward := rewards[0]

	var out *types.Redemption
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		redemption := &types.Redemption{
			ID:          uuid.New(),
			KidID:       kidID,
			RewardID:    &reward.ID,
			RewardTitle: reward.Title,
			Cost:        reward.Cost,
			CreatedAt:   time.Now().UTC(),
		}
		if _, err := rs.redemptionRepo.Create(dbc, []*types.Redemption{redemption}); err != nil {
			return apierr.Internal(fmt.Errorf("create redemption: %w", err))
		}

		// The guarded append decides the outcome: if the balance is below
		// cost nothing is written and the rollback takes the redemption row
		// with it.
		if _, err := rs.ledger.AppendIfBalanceAtLeast(dbc, reward.Cost, AppendInput{
			KidID:        kidID,
			Type:         types.TransactionTypeSpend,
			Delta:        -reward.Cost,
			RedemptionID: &redemption.ID,
			Note:         "Redeemed reward: " + reward.Title,
		}); err != nil {
			return err
		}

		out = redemption
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (rs *rewardService) ListRedemptions(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) ([]*types.Redemption, error) {
	kidID, err := rs.access.ResolveEffectiveKid(ctx, principal, requestedKidID)
	if err != nil {
		return nil, err
	}

	redemptions, err := rs.redemptionRepo.GetByKidIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{kidID})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list redemptions: %w", err))
	}
	return redemptions, nil
}

func (rs *rewardService) DeleteReward(ctx context.Context, principal types.Principal, rewardID uuid.UUID) error {
	if err := rs.access.RequireRole(principal, types.RoleParent); err != nil {
		return err
	}

	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		rewards, err := rs.rewardRepo.GetByIDs(dbc, []uuid.UUID{rewardID})
		if err != nil {
			return apierr.Internal(fmt.Errorf("fetch reward: %w", err))
		}
		if len(rewards) == 0 {
			return apierr.NotFound("reward")
		}

		if err := rs.redemptionRepo.ClearRewardRefs(dbc, rewardID); err != nil {
			return apierr.Internal(fmt.Errorf("clear reward refs: %w", err))
		}
		if err := rs.rewardRepo.FullDeleteByIDs(dbc, []uuid.UUID{rewardID}); err != nil {
			return apierr.Internal(fmt.Errorf("delete reward: %w", err))
		}
		return nil
	})
}
