package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	"github.com/chorepoints/chorepoints-backend/internal/data/repos/testutil"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
)

type testEnv struct {
	db *gorm.DB

	parentRepo     repos.ParentRepo
	kidRepo        repos.KidRepo
	taskRepo       repos.TaskRepo
	rewardRepo     repos.RewardRepo
	redemptionRepo repos.RedemptionRepo
	txRepo         repos.PointTransactionRepo

	auth   AuthService
	access AccessService
	ledger LedgerService
	kid    KidService
	task   TaskService
	reward RewardService
}

// newTestEnv wires the full service stack against the shared test database.
// Service flows commit real transactions, so tests isolate by unique ids
// rather than rollback.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.DB(t)
	logg := testutil.Logger(t)

	env := &testEnv{
		db:             db,
		parentRepo:     repos.NewParentRepo(db, logg),
		kidRepo:        repos.NewKidRepo(db, logg),
		taskRepo:       repos.NewTaskRepo(db, logg),
		rewardRepo:     repos.NewRewardRepo(db, logg),
		redemptionRepo: repos.NewRedemptionRepo(db, logg),
		txRepo:         repos.NewPointTransactionRepo(db, logg),
	}

	env.auth = NewAuthService(db, logg, env.parentRepo, env.kidRepo, "test-secret", time.Hour)
	env.access = NewAccessService(logg, env.kidRepo)
	env.ledger = NewLedgerService(db, logg, env.kidRepo, env.txRepo)
	env.kid = NewKidService(db, logg, env.access, env.kidRepo, env.ledger)
	env.task = NewTaskService(db, logg, env.access, env.taskRepo, env.txRepo, env.ledger)
	env.reward = NewRewardService(db, logg, env.access, env.rewardRepo, env.redemptionRepo, env.ledger)

	return env
}

func (env *testEnv) seedParent(t *testing.T) *types.Parent {
	t.Helper()
	parent, err := env.auth.RegisterParent(context.Background(), uuid.NewString()+"@example.com", "hunter2", "Parent")
	if err != nil {
		t.Fatalf("seed parent: %v", err)
	}
	return parent
}

func (env *testEnv) seedKid(t *testing.T, parentID uuid.UUID, balance int) *types.Kid {
	t.Helper()
	kid := &types.Kid{
		ID:            uuid.New(),
		ParentID:      parentID,
		DisplayName:   "Kid",
		PointsBalance: 0,
	}
	if _, err := env.kidRepo.Create(dbctx.Context{Ctx: context.Background()}, []*types.Kid{kid}); err != nil {
		t.Fatalf("seed kid: %v", err)
	}
	if balance != 0 {
		if _, err := env.ledger.Append(dbctx.Context{Ctx: context.Background()}, AppendInput{
			KidID: kid.ID,
			Type:  types.TransactionTypeAdjust,
			Delta: balance,
			Note:  "starting balance",
		}); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
		kid.PointsBalance = balance
	}
	return kid
}

func parentPrincipal(parent *types.Parent) types.Principal {
	return types.Principal{Role: types.RoleParent, ParentID: parent.ID}
}

func kidPrincipal(kid *types.Kid) types.Principal {
	return types.Principal{Role: types.RoleKid, ParentID: kid.ParentID, KidID: kid.ID}
}

func (env *testEnv) historyCount(t *testing.T, kidID uuid.UUID) int64 {
	t.Helper()
	count, err := env.txRepo.CountByKidIDs(dbctx.Context{Ctx: context.Background()}, []uuid.UUID{kidID})
	if err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return count
}

func (env *testEnv) mustBalance(t *testing.T, kidID uuid.UUID) int {
	t.Helper()
	balance, err := env.ledger.Balance(context.Background(), kidID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return balance
}
