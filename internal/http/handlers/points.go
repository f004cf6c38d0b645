package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type PointsHandler struct {
	kidService services.KidService
}

func NewPointsHandler(kidService services.KidService) *PointsHandler {
	return &PointsHandler{kidService: kidService}
}

// GET /api/points?kid_id=...
func (ph *PointsHandler) GetBalance(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	requested, err := optionalKidIDQuery(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	kidID, balance, err := ph.kidService.Balance(c.Request.Context(), principal, requested)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"kid_id":  kidID,
		"balance": balance,
	})
}

// GET /api/points/history?kid_id=...&limit=50&before=RFC3339
func (ph *PointsHandler) GetHistory(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	requested, err := optionalKidIDQuery(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
			return
		}
	}
	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
			return
		}
		before = &t
	}

	rows, err := ph.kidService.History(c.Request.Context(), principal, requested, limit, before)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transactions": rows})
}

// POST /api/points/adjust
// body: { "kid_id": "...", "delta": -5, "note": "..." }
func (ph *PointsHandler) Adjust(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var req struct {
		KidID string `json:"kid_id"`
		Delta int    `json:"delta"`
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	kidID, err := uuid.Parse(req.KidID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	row, err := ph.kidService.Adjust(c.Request.Context(), principal, services.AdjustInput{
		KidID: kidID,
		Delta: req.Delta,
		Note:  req.Note,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transaction": row})
}
