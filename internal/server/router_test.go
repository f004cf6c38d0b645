package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	"github.com/chorepoints/chorepoints-backend/internal/data/repos/testutil"
	"github.com/chorepoints/chorepoints-backend/internal/http/handlers"
	"github.com/chorepoints/chorepoints-backend/internal/http/middleware"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	logg := testutil.Logger(t)

	parentRepo := repos.NewParentRepo(db, logg)
	kidRepo := repos.NewKidRepo(db, logg)
	taskRepo := repos.NewTaskRepo(db, logg)
	rewardRepo := repos.NewRewardRepo(db, logg)
	redemptionRepo := repos.NewRedemptionRepo(db, logg)
	txRepo := repos.NewPointTransactionRepo(db, logg)

	auth := services.NewAuthService(db, logg, parentRepo, kidRepo, "test-secret", time.Hour)
	access := services.NewAccessService(logg, kidRepo)
	ledger := services.NewLedgerService(db, logg, kidRepo, txRepo)
	kid := services.NewKidService(db, logg, access, kidRepo, ledger)
	task := services.NewTaskService(db, logg, access, taskRepo, txRepo, ledger)
	reward := services.NewRewardService(db, logg, access, rewardRepo, redemptionRepo, ledger)

	return NewRouter(RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(auth),
		AuthMiddleware: middleware.NewAuthMiddleware(logg, auth),
		HealthHandler:  handlers.NewHealthHandler(),
		KidHandler:     handlers.NewKidHandler(kid),
		TaskHandler:    handlers.NewTaskHandler(task),
		RewardHandler:  handlers.NewRewardHandler(reward),
		PointsHandler:  handlers.NewPointsHandler(kid),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func field(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("expected object at %q in %v", k, cur)
		}
		cur, ok = obj[k]
		if !ok {
			t.Fatalf("missing field %q in %v", k, obj)
		}
	}
	return cur
}

func TestChoreFlowEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	email := uuid.NewString() + "@example.com"

	// Register and log in.
	code, _ := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email": email, "password": "pw", "display_name": "Pat",
	})
	if code != http.StatusCreated {
		t.Fatalf("register: got %d", code)
	}
	code, body := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email": email, "password": "pw",
	})
	if code != http.StatusOK {
		t.Fatalf("login: got %d (%v)", code, body)
	}
	parentToken := field(t, body, "access_token").(string)

	// Protected routes reject anonymous calls.
	if code, _ := doJSON(t, r, http.MethodGet, "/api/kids", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous list kids: got %d", code)
	}

	// Create a kid and mint a kid session.
	code, body = doJSON(t, r, http.MethodPost, "/api/kids", parentToken, gin.H{"display_name": "Sam"})
	if code != http.StatusCreated {
		t.Fatalf("create kid: got %d (%v)", code, body)
	}
	kidID := field(t, body, "kid", "id").(string)

	code, body = doJSON(t, r, http.MethodPost, "/api/kid-session", parentToken, gin.H{"kid_id": kidID})
	if code != http.StatusOK {
		t.Fatalf("kid session: got %d (%v)", code, body)
	}
	kidToken := field(t, body, "access_token").(string)

	// Assign a task and complete it from the kid session.
	code, body = doJSON(t, r, http.MethodPost, "/api/tasks", parentToken, gin.H{
		"title": "Clean room", "points": 25, "kid_id": kidID,
	})
	if code != http.StatusCreated {
		t.Fatalf("create task: got %d (%v)", code, body)
	}
	taskID := field(t, body, "task", "id").(string)

	code, body = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%s/complete", taskID), kidToken, nil)
	if code != http.StatusOK {
		t.Fatalf("complete task: got %d (%v)", code, body)
	}
	if status := field(t, body, "task", "status").(string); status != "complete" {
		t.Fatalf("expected complete, got %q", status)
	}

	code, body = doJSON(t, r, http.MethodGet, "/api/points", kidToken, nil)
	if code != http.StatusOK {
		t.Fatalf("points: got %d (%v)", code, body)
	}
	if balance := field(t, body, "balance").(float64); balance != 25 {
		t.Fatalf("expected balance 25, got %v", balance)
	}

	// Redeem a reward the kid can afford, then one it cannot.
	code, body = doJSON(t, r, http.MethodPost, "/api/rewards", parentToken, gin.H{"title": "Ice cream", "cost": 20})
	if code != http.StatusCreated {
		t.Fatalf("create reward: got %d (%v)", code, body)
	}
	rewardID := field(t, body, "reward", "id").(string)

	code, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/rewards/%s/redeem", rewardID), kidToken, nil)
	if code != http.StatusOK {
		t.Fatalf("redeem: got %d (%v)", code, body)
	}

	code, body = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/rewards/%s/redeem", rewardID), kidToken, nil)
	if code != http.StatusConflict {
		t.Fatalf("second redeem: got %d (%v)", code, body)
	}
	if errCode := field(t, body, "error", "code").(string); errCode != "insufficient_points" {
		t.Fatalf("expected insufficient_points, got %q", errCode)
	}

	// History shows the earn and the spend, newest first.
	code, body = doJSON(t, r, http.MethodGet, "/api/points/history", kidToken, nil)
	if code != http.StatusOK {
		t.Fatalf("history: got %d (%v)", code, body)
	}
	rows, ok := body["transactions"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 transactions, got %v", body["transactions"])
	}
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	register := func(t *testing.T) string {
		email := uuid.NewString() + "@example.com"
		if code, _ := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
			"email": email, "password": "pw", "display_name": "P",
		}); code != http.StatusCreated {
			t.Fatalf("register: got %d", code)
		}
		code, body := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "pw"})
		if code != http.StatusOK {
			t.Fatalf("login: got %d", code)
		}
		return field(t, body, "access_token").(string)
	}

	tokenA := register(t)
	tokenB := register(t)

	code, body := doJSON(t, r, http.MethodPost, "/api/kids", tokenA, gin.H{"display_name": "Sam"})
	if code != http.StatusCreated {
		t.Fatalf("create kid: got %d", code)
	}
	kidID := field(t, body, "kid", "id").(string)

	// Parent B cannot see or act on parent A's kid.
	code, body = doJSON(t, r, http.MethodGet, "/api/points?kid_id="+kidID, tokenB, nil)
	if code != http.StatusNotFound {
		t.Fatalf("cross-tenant points: got %d (%v)", code, body)
	}
	if errCode := field(t, body, "error", "code").(string); errCode != "unknown_kid" {
		t.Fatalf("expected unknown_kid, got %q", errCode)
	}

	code, _ = doJSON(t, r, http.MethodPost, "/api/kid-session", tokenB, gin.H{"kid_id": kidID})
	if code != http.StatusNotFound {
		t.Fatalf("cross-tenant kid session: got %d", code)
	}
}
