package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

// AuthService authenticates parent credentials and mints the self-contained
// session tokens the rest of the system runs on. Tokens carry everything the
// gate needs; there is no server-side session store, so a token that verifies
// and has not expired is accepted for its full lifetime.
type AuthService interface {
	RegisterParent(ctx context.Context, email, password, displayName string) (*types.Parent, error)
	LoginParent(ctx context.Context, email, password string) (string, error)
	IssueKidSession(ctx context.Context, principal types.Principal, kidID uuid.UUID) (string, *types.Kid, error)
	ResolvePrincipal(ctx context.Context, tokenString string) (types.Principal, error)
	AccessTTL() time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	ParentID string `json:"parent_id,omitempty"`
	KidID    string `json:"kid_id,omitempty"`
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	parentRepo   repos.ParentRepo
	kidRepo      repos.KidRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	parentRepo repos.ParentRepo,
	kidRepo repos.KidRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		parentRepo:   parentRepo,
		kidRepo:      kidRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) RegisterParent(ctx context.Context, email, password, displayName string) (*types.Parent, error) {
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	if email == "" {
		return nil, apierr.BadRequest(errors.New("email is required"))
	}
	if password == "" {
		return nil, apierr.BadRequest(errors.New("password is required"))
	}
	if displayName == "" {
		return nil, apierr.BadRequest(errors.New("display name is required"))
	}

	exists, err := as.parentRepo.EmailExists(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("check email: %w", err))
	}
	if exists {
		return nil, apierr.BadRequest(errors.New("email is already in use"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("hash password: %w", err))
	}

	parent := &types.Parent{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if _, err := as.parentRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Parent{parent}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create parent: %w", err))
	}

	return parent, nil
}

func (as *authService) LoginParent(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	parents, err := as.parentRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return "", apierr.Internal(fmt.Errorf("fetch parent: %w", err))
	}
	// Unknown email and wrong password share one error path.
	if len(parents) == 0 {
		return "", apierr.InvalidCredentials()
	}
	parent := parents[0]
	if err := bcrypt.CompareHashAndPassword([]byte(parent.PasswordHash), []byte(password)); err != nil {
		return "", apierr.InvalidCredentials()
	}

	token, err := as.signParentToken(parent)
	if err != nil {
		return "", apierr.Internal(fmt.Errorf("sign token: %w", err))
	}

	return token, nil
}

func (as *authService) IssueKidSession(ctx context.Context, principal types.Principal, kidID uuid.UUID) (string, *types.Kid, error) {
	if !principal.IsParent() {
		return "", nil, apierr.Unauthorized(errors.New("parent session required"))
	}

	kid, err := as.kidRepo.GetOwned(dbctx.Context{Ctx: ctx}, kidID, principal.ParentID)
	if err != nil {
		return "", nil, apierr.Internal(fmt.Errorf("fetch kid: %w", err))
	}
	if kid == nil {
		return "", nil, apierr.UnknownKid()
	}

	token, err := as.signKidToken(kid)
	if err != nil {
		return "", nil, apierr.Internal(fmt.Errorf("sign token: %w", err))
	}

	return token, kid, nil
}

func (as *authService) ResolvePrincipal(ctx context.Context, tokenString string) (types.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return types.Principal{}, apierr.Unauthorized(fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return types.Principal{}, apierr.Unauthorized(errors.New("invalid or expired token"))
	}

	switch types.Role(claims.Role) {
	case types.RoleParent:
		parentID, err := uuid.Parse(claims.ParentID)
		if err != nil {
			return types.Principal{}, apierr.Unauthorized(fmt.Errorf("invalid parent id in token: %w", err))
		}
		return types.Principal{Role: types.RoleParent, ParentID: parentID}, nil
	case types.RoleKid:
		kidID, err := uuid.Parse(claims.KidID)
		if err != nil {
			return types.Principal{}, apierr.Unauthorized(fmt.Errorf("invalid kid id in token: %w", err))
		}
		parentID, err := uuid.Parse(claims.ParentID)
		if err != nil {
			return types.Principal{}, apierr.Unauthorized(fmt.Errorf("invalid parent id in token: %w", err))
		}
		return types.Principal{Role: types.RoleKid, ParentID: parentID, KidID: kidID}, nil
	default:
		return types.Principal{}, apierr.Unauthorized(fmt.Errorf("unknown role %q in token", claims.Role))
	}
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) signParentToken(parent *types.Parent) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   parent.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:     string(types.RoleParent),
		ParentID: parent.ID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) signKidToken(kid *types.Kid) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kid.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:     string(types.RoleKid),
		ParentID: kid.ParentID.String(),
		KidID:    kid.ID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
