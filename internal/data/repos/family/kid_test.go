package family

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos/testutil"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
)

func seedParentAndKid(t *testing.T, dbc dbctx.Context, parentRepo ParentRepo, kidRepo KidRepo, balance int) (*types.Parent, *types.Kid) {
	t.Helper()

	parents, err := parentRepo.Create(dbc, []*types.Parent{
		{
			ID:           uuid.New(),
			Email:        uuid.NewString() + "@example.com",
			PasswordHash: "hash",
			DisplayName:  "Parent",
		},
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	kids, err := kidRepo.Create(dbc, []*types.Kid{
		{
			ID:            uuid.New(),
			ParentID:      parents[0].ID,
			DisplayName:   "Kid",
			PointsBalance: balance,
		},
	})
	if err != nil {
		t.Fatalf("create kid: %v", err)
	}

	return parents[0], kids[0]
}

func TestKidRepoGetOwned(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	logg := testutil.Logger(t)
	parentRepo := NewParentRepo(db, logg)
	kidRepo := NewKidRepo(db, logg)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	parent, kid := seedParentAndKid(t, dbc, parentRepo, kidRepo, 0)
	otherParent, _ := seedParentAndKid(t, dbc, parentRepo, kidRepo, 0)

	owned, err := kidRepo.GetOwned(dbc, kid.ID, parent.ID)
	if err != nil {
		t.Fatalf("GetOwned (owned): %v", err)
	}
	if owned == nil || owned.ID != kid.ID {
		t.Fatalf("GetOwned (owned): expected kid %s, got %+v", kid.ID, owned)
	}

	foreign, err := kidRepo.GetOwned(dbc, kid.ID, otherParent.ID)
	if err != nil {
		t.Fatalf("GetOwned (foreign): %v", err)
	}
	if foreign != nil {
		t.Fatalf("GetOwned (foreign): expected nil, got %+v", foreign)
	}

	missing, err := kidRepo.GetOwned(dbc, uuid.New(), parent.ID)
	if err != nil {
		t.Fatalf("GetOwned (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetOwned (missing): expected nil, got %+v", missing)
	}
}

func TestKidRepoApplyDelta(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	logg := testutil.Logger(t)
	parentRepo := NewParentRepo(db, logg)
	kidRepo := NewKidRepo(db, logg)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	_, kid := seedParentAndKid(t, dbc, parentRepo, kidRepo, 10)

	if err := kidRepo.ApplyDelta(dbc, kid.ID, 15); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}

	got, err := kidRepo.GetByIDs(dbc, []uuid.UUID{kid.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: %v (%d rows)", err, len(got))
	}
	if got[0].PointsBalance != 25 {
		t.Fatalf("expected balance 25, got %d", got[0].PointsBalance)
	}

	if err := kidRepo.ApplyDelta(dbc, uuid.New(), 1); err == nil {
		t.Fatalf("ApplyDelta (missing kid): expected error")
	}
}

func TestKidRepoApplyDeltaIfBalanceAtLeast(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	logg := testutil.Logger(t)
	parentRepo := NewParentRepo(db, logg)
	kidRepo := NewKidRepo(db, logg)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	_, kid := seedParentAndKid(t, dbc, parentRepo, kidRepo, 50)

	ok, err := kidRepo.ApplyDeltaIfBalanceAtLeast(dbc, kid.ID, 30, -30)
	if err != nil {
		t.Fatalf("ApplyDeltaIfBalanceAtLeast: %v", err)
	}
	if !ok {
		t.Fatalf("expected guarded update to apply")
	}

	// 20 left; another 30-point spend must not go through.
	ok, err = kidRepo.ApplyDeltaIfBalanceAtLeast(dbc, kid.ID, 30, -30)
	if err != nil {
		t.Fatalf("ApplyDeltaIfBalanceAtLeast (insufficient): %v", err)
	}
	if ok {
		t.Fatalf("expected guarded update to be rejected")
	}

	got, err := kidRepo.GetByIDs(dbc, []uuid.UUID{kid.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: %v (%d rows)", err, len(got))
	}
	if got[0].PointsBalance != 20 {
		t.Fatalf("expected balance 20, got %d", got[0].PointsBalance)
	}
}
