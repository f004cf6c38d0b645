package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos/testutil"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
)

func TestRegisterAndLoginParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	parent, err := env.auth.RegisterParent(ctx, email, "hunter2", "Pat")
	if err != nil {
		t.Fatalf("RegisterParent: %v", err)
	}
	if parent.PasswordHash == "hunter2" {
		t.Fatalf("password stored in the clear")
	}

	token, err := env.auth.LoginParent(ctx, email, "hunter2")
	if err != nil {
		t.Fatalf("LoginParent: %v", err)
	}

	principal, err := env.auth.ResolvePrincipal(ctx, token)
	if err != nil {
		t.Fatalf("ResolvePrincipal: %v", err)
	}
	if principal.Role != types.RoleParent || principal.ParentID != parent.ID {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	if _, err := env.auth.RegisterParent(ctx, email, "pw", "Pat"); err != nil {
		t.Fatalf("RegisterParent: %v", err)
	}
	_, err := env.auth.RegisterParent(ctx, email, "pw2", "Other")
	if !apierr.Is(err, apierr.CodeBadRequest) {
		t.Fatalf("expected bad_request, got %v", err)
	}
}

func TestLoginFailuresShareOneError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	if _, err := env.auth.RegisterParent(ctx, email, "correct", "Pat"); err != nil {
		t.Fatalf("RegisterParent: %v", err)
	}

	_, wrongPassword := env.auth.LoginParent(ctx, email, "wrong")
	_, unknownEmail := env.auth.LoginParent(ctx, uuid.NewString()+"@example.com", "whatever")

	if !apierr.Is(wrongPassword, apierr.CodeInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid_credentials, got %v", wrongPassword)
	}
	if !apierr.Is(unknownEmail, apierr.CodeInvalidCredentials) {
		t.Fatalf("unknown email: expected invalid_credentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
	}
}

func TestIssueKidSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.seedParent(t)
	kid := env.seedKid(t, parent.ID, 0)
	otherParent := env.seedParent(t)

	token, gotKid, err := env.auth.IssueKidSession(ctx, parentPrincipal(parent), kid.ID)
	if err != nil {
		t.Fatalf("IssueKidSession: %v", err)
	}
	if gotKid.ID != kid.ID {
		t.Fatalf("unexpected kid: %+v", gotKid)
	}

	principal, err := env.auth.ResolvePrincipal(ctx, token)
	if err != nil {
		t.Fatalf("ResolvePrincipal: %v", err)
	}
	if principal.Role != types.RoleKid || principal.KidID != kid.ID || principal.ParentID != parent.ID {
		t.Fatalf("unexpected kid principal: %+v", principal)
	}

	// Someone else's kid is indistinguishable from a missing kid.
	_, _, err = env.auth.IssueKidSession(ctx, parentPrincipal(otherParent), kid.ID)
	if !apierr.Is(err, apierr.CodeUnknownKid) {
		t.Fatalf("foreign kid: expected unknown_kid, got %v", err)
	}

	_, _, err = env.auth.IssueKidSession(ctx, kidPrincipal(kid), kid.ID)
	if !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("kid session minting kid session: expected unauthorized, got %v", err)
	}
}

func TestResolvePrincipalRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.ResolvePrincipal(ctx, "not-a-token"); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("garbage token: expected unauthorized, got %v", err)
	}

	// A token signed with an already-passed expiry must be rejected.
	db := testutil.DB(t)
	logg := testutil.Logger(t)
	expiredIssuer := NewAuthService(db, logg, env.parentRepo, env.kidRepo, "test-secret", -time.Minute)

	email := uuid.NewString() + "@example.com"
	if _, err := env.auth.RegisterParent(ctx, email, "pw", "Pat"); err != nil {
		t.Fatalf("RegisterParent: %v", err)
	}
	expiredToken, err := expiredIssuer.LoginParent(ctx, email, "pw")
	if err != nil {
		t.Fatalf("LoginParent (expired issuer): %v", err)
	}
	if _, err := env.auth.ResolvePrincipal(ctx, expiredToken); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("expired token: expected unauthorized, got %v", err)
	}

	// Same claims, wrong key.
	otherIssuer := NewAuthService(db, logg, env.parentRepo, env.kidRepo, "other-secret", time.Hour)
	foreignToken, err := otherIssuer.LoginParent(ctx, email, "pw")
	if err != nil {
		t.Fatalf("LoginParent (other issuer): %v", err)
	}
	if _, err := env.auth.ResolvePrincipal(ctx, foreignToken); !apierr.Is(err, apierr.CodeUnauthorized) {
		t.Fatalf("wrong key: expected unauthorized, got %v", err)
	}
}
