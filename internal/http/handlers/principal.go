package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/ctxutil"
)

// mustPrincipal pulls the principal RequireAuth attached. A missing
// principal means the route was wired outside the auth group; treat it as
// unauthorized rather than panicking.
func mustPrincipal(c *gin.Context) (types.Principal, bool) {
	principal, ok := ctxutil.GetPrincipal(c.Request.Context())
	if !ok {
		response.RespondAPIError(c, apierr.Unauthorized(errors.New("no session on request")))
		return types.Principal{}, false
	}
	return principal, true
}

// optionalKidIDQuery reads the kid_id query parameter, absent meaning nil.
func optionalKidIDQuery(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("kid_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.BadRequest(errors.New("kid_id must be a valid uuid"))
	}
	return &id, nil
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.BadRequest(errors.New(name + " must be a valid uuid"))
	}
	return id, nil
}
