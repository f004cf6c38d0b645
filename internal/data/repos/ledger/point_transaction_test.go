package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos/testutil"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
)

func seedLedger(t *testing.T, dbc dbctx.Context, repo PointTransactionRepo, kidID uuid.UUID, deltas []int) []*types.PointTransaction {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(len(deltas)) * time.Minute)
	rows := make([]*types.PointTransaction, 0, len(deltas))
	for i, d := range deltas {
		typ := types.TransactionTypeEarn
		if d < 0 {
			typ = types.TransactionTypeSpend
		}
		rows = append(rows, &types.PointTransaction{
			ID:        uuid.New(),
			KidID:     kidID,
			Type:      typ,
			Delta:     d,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	return rows
}

func TestPointTransactionRepoHistoryPage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPointTransactionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	kidID := uuid.New()
	rows := seedLedger(t, dbc, repo, kidID, []int{10, 20, -5, 40, -10})

	page, err := repo.HistoryPage(dbc, kidID, 2, nil)
	if err != nil {
		t.Fatalf("HistoryPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page))
	}
	// Newest first: the last seeded rows.
	if page[0].ID != rows[4].ID || page[1].ID != rows[3].ID {
		t.Fatalf("unexpected page order: %v then %v", page[0].Delta, page[1].Delta)
	}

	cursor := page[1].CreatedAt
	next, err := repo.HistoryPage(dbc, kidID, 10, &cursor)
	if err != nil {
		t.Fatalf("HistoryPage (cursor): %v", err)
	}
	if len(next) != 3 {
		t.Fatalf("expected 3 remaining rows, got %d", len(next))
	}
	if next[0].ID != rows[2].ID {
		t.Fatalf("cursor page should start strictly before the cursor, got delta %d", next[0].Delta)
	}
}

func TestPointTransactionRepoSumDeltas(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPointTransactionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	kidID := uuid.New()
	seedLedger(t, dbc, repo, kidID, []int{50, -30, 5})

	sum, err := repo.SumDeltas(dbc, kidID)
	if err != nil {
		t.Fatalf("SumDeltas: %v", err)
	}
	if sum != 25 {
		t.Fatalf("expected sum 25, got %d", sum)
	}

	// A kid with no rows sums to zero, not NULL.
	sum, err = repo.SumDeltas(dbc, uuid.New())
	if err != nil {
		t.Fatalf("SumDeltas (empty): %v", err)
	}
	if sum != 0 {
		t.Fatalf("expected empty sum 0, got %d", sum)
	}
}

func TestPointTransactionRepoClearTaskRefs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPointTransactionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	kidID := uuid.New()
	taskID := uuid.New()
	row := &types.PointTransaction{
		ID:        uuid.New(),
		KidID:     kidID,
		Type:      types.TransactionTypeEarn,
		Delta:     10,
		TaskID:    &taskID,
		Note:      "Completed task: Dishes",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := repo.Create(dbc, []*types.PointTransaction{row}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.ClearTaskRefs(dbc, taskID); err != nil {
		t.Fatalf("ClearTaskRefs: %v", err)
	}

	got, err := repo.HistoryPage(dbc, kidID, 10, nil)
	if err != nil || len(got) != 1 {
		t.Fatalf("HistoryPage: %v (%d rows)", err, len(got))
	}
	if got[0].TaskID != nil {
		t.Fatalf("expected task_id to be nulled, got %v", got[0].TaskID)
	}
	if got[0].Delta != 10 || got[0].Note == "" {
		t.Fatalf("expected delta and note to survive, got %+v", got[0])
	}
}
