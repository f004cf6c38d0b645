package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 200
)

type AppendInput struct {
	KidID        uuid.UUID
	Type         string
	Delta        int
	TaskID       *uuid.UUID
	RedemptionID *uuid.UUID
	Note         string
}

// LedgerService is the only write path to a kid's balance. Every append
// inserts an immutable point transaction and moves the materialized
// kid.points_balance in one database transaction, so the invariant
// balance == SUM(delta) holds after every commit.
type LedgerService interface {
	// Append records a transaction with no balance precondition. Pass a Tx
	// in dbc to make the append part of a larger atomic unit; with a nil Tx
	// the append runs in its own transaction.
	Append(dbc dbctx.Context, in AppendInput) (*types.PointTransaction, error)
	// AppendIfBalanceAtLeast is the atomic check-and-append: the delta is
	// applied only if the kid's balance is at least minBalance, and a failed
	// check writes nothing. Appends for the same kid serialize, so two
	// concurrent spends cannot both observe a sufficient balance.
	AppendIfBalanceAtLeast(dbc dbctx.Context, minBalance int, in AppendInput) (*types.PointTransaction, error)
	// Balance reads the materialized column; it never sums the ledger.
	Balance(ctx context.Context, kidID uuid.UUID) (int, error)
	History(ctx context.Context, kidID uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error)
	// CheckInvariant recomputes SUM(delta) and compares it with the
	// materialized balance. Diagnostic only, not a hot path.
	CheckInvariant(ctx context.Context, kidID uuid.UUID) error
}

type ledgerService struct {
	db       *gorm.DB
	log      *logger.Logger
	kidRepo  repos.KidRepo
	txRepo   repos.PointTransactionRepo
	kidLocks sync.Map
}

func NewLedgerService(db *gorm.DB, log *logger.Logger, kidRepo repos.KidRepo, txRepo repos.PointTransactionRepo) LedgerService {
	serviceLog := log.With("service", "LedgerService")
	return &ledgerService{
		db:      db,
		log:     serviceLog,
		kidRepo: kidRepo,
		txRepo:  txRepo,
	}
}

func validateAppend(in AppendInput) error {
	switch in.Type {
	case types.TransactionTypeEarn, types.TransactionTypeSpend, types.TransactionTypeAdjust:
	default:
		return apierr.BadRequest(fmt.Errorf("unknown transaction type %q", in.Type))
	}
	if in.KidID == uuid.Nil {
		return apierr.BadRequest(errors.New("kid id is required"))
	}
	return nil
}

// lockKid serializes same-kid appends in-process; the conditional UPDATE in
// ApplyDeltaIfBalanceAtLeast is the database-enforced backstop for
// multi-instance deployments. Cross-kid operations never contend.
func (ls *ledgerService) lockKid(kidID uuid.UUID) func() {
	muAny, _ := ls.kidLocks.LoadOrStore(kidID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (ls *ledgerService) Append(dbc dbctx.Context, in AppendInput) (*types.PointTransaction, error) {
	if err := validateAppend(in); err != nil {
		return nil, err
	}
	if dbc.Tx != nil {
		return ls.appendTx(dbc, in)
	}

	var out *types.PointTransaction
	err := ls.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = ls.appendTx(dbctx.Context{Ctx: dbc.Ctx, Tx: tx}, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ls *ledgerService) appendTx(dbc dbctx.Context, in AppendInput) (*types.PointTransaction, error) {
	if err := ls.kidRepo.ApplyDelta(dbc, in.KidID, in.Delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.UnknownKid()
		}
		return nil, apierr.Internal(fmt.Errorf("apply delta: %w", err))
	}
	return ls.insertTransaction(dbc, in)
}

func (ls *ledgerService) AppendIfBalanceAtLeast(dbc dbctx.Context, minBalance int, in AppendInput) (*types.PointTransaction, error) {
	if err := validateAppend(in); err != nil {
		return nil, err
	}

	unlock := ls.lockKid(in.KidID)
	defer unlock()

	if dbc.Tx != nil {
		return ls.appendGuardedTx(dbc, minBalance, in)
	}

	var out *types.PointTransaction
	err := ls.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = ls.appendGuardedTx(dbctx.Context{Ctx: dbc.Ctx, Tx: tx}, minBalance, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ls *ledgerService) appendGuardedTx(dbc dbctx.Context, minBalance int, in AppendInput) (*types.PointTransaction, error) {
	ok, err := ls.kidRepo.ApplyDeltaIfBalanceAtLeast(dbc, in.KidID, minBalance, in.Delta)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("guarded apply delta: %w", err))
	}
	if !ok {
		return nil, apierr.InsufficientPoints()
	}
	return ls.insertTransaction(dbc, in)
}

func (ls *ledgerService) insertTransaction(dbc dbctx.Context, in AppendInput) (*types.PointTransaction, error) {
	row := &types.PointTransaction{
		ID:           uuid.New(),
		KidID:        in.KidID,
		Type:         in.Type,
		Delta:        in.Delta,
		TaskID:       in.TaskID,
		RedemptionID: in.RedemptionID,
		Note:         in.Note,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := ls.txRepo.Create(dbc, []*types.PointTransaction{row}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("insert transaction: %w", err))
	}
	return row, nil
}

func (ls *ledgerService) Balance(ctx context.Context, kidID uuid.UUID) (int, error) {
	kids, err := ls.kidRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{kidID})
	if err != nil {
		return 0, apierr.Internal(fmt.Errorf("fetch kid: %w", err))
	}
	if len(kids) == 0 {
		return 0, apierr.UnknownKid()
	}
	return kids[0].PointsBalance, nil
}

func (ls *ledgerService) History(ctx context.Context, kidID uuid.UUID, limit int, before *time.Time) ([]*types.PointTransaction, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	rows, err := ls.txRepo.HistoryPage(dbctx.Context{Ctx: ctx}, kidID, limit, before)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("fetch history: %w", err))
	}
	return rows, nil
}

func (ls *ledgerService) CheckInvariant(ctx context.Context, kidID uuid.UUID) error {
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		kids, err := ls.kidRepo.GetByIDs(dbc, []uuid.UUID{kidID})
		if err != nil {
			return err
		}
		if len(kids) == 0 {
			return apierr.UnknownKid()
		}

		sum, err := ls.txRepo.SumDeltas(dbc, kidID)
		if err != nil {
			return err
		}

		if kids[0].PointsBalance != sum {
			return fmt.Errorf("ledger drift for kid %s: balance=%d sum=%d", kidID, kids[0].PointsBalance, sum)
		}
		return nil
	})
}
