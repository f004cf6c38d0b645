package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

// AccessService enforces role and ownership policy on resolved principals.
// ResolveEffectiveKid is the single chokepoint every workflow goes through
// before touching a kid's data.
type AccessService interface {
	RequireRole(principal types.Principal, roles ...types.Role) error
	// ResolveEffectiveKid decides which kid a request operates on. A kid
	// principal always acts on itself and any requested id is ignored. A
	// parent principal must name a kid, which is then checked against the
	// ownership index; a kid that is missing or owned by someone else fails
	// identically.
	ResolveEffectiveKid(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) (uuid.UUID, error)
}

type accessService struct {
	log     *logger.Logger
	kidRepo repos.KidRepo
}

func NewAccessService(log *logger.Logger, kidRepo repos.KidRepo) AccessService {
	serviceLog := log.With("service", "AccessService")
	return &accessService{log: serviceLog, kidRepo: kidRepo}
}

func (acs *accessService) RequireRole(principal types.Principal, roles ...types.Role) error {
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return apierr.Forbidden(fmt.Errorf("role %q is not allowed here", principal.Role))
}

func (acs *accessService) ResolveEffectiveKid(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) (uuid.UUID, error) {
	if principal.IsKid() {
		return principal.KidID, nil
	}
	if !principal.IsParent() {
		return uuid.Nil, apierr.Unauthorized(fmt.Errorf("unknown role %q", principal.Role))
	}

	if requestedKidID == nil || *requestedKidID == uuid.Nil {
		return uuid.Nil, apierr.BadRequest(errors.New("kid_id is required for parent sessions"))
	}

	kid, err := acs.kidRepo.GetOwned(dbctx.Context{Ctx: ctx}, *requestedKidID, principal.ParentID)
	if err != nil {
		return uuid.Nil, apierr.Internal(fmt.Errorf("ownership check: %w", err))
	}
	if kid == nil {
		return uuid.Nil, apierr.UnknownKid()
	}

	return kid.ID, nil
}
