package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type KidHandler struct {
	kidService services.KidService
}

func NewKidHandler(kidService services.KidService) *KidHandler {
	return &KidHandler{kidService: kidService}
}

// POST /api/kids
// body: { "display_name": "..." }
func (kh *KidHandler) CreateKid(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	kid, err := kh.kidService.CreateKid(c.Request.Context(), principal, req.DisplayName)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"kid": kid})
}

// GET /api/kids
func (kh *KidHandler) ListKids(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	kids, err := kh.kidService.ListKids(c.Request.Context(), principal)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"kids": kids})
}
