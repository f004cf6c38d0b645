package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	parent, err := ah.authService.RegisterParent(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"parent": parent})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	token, err := ah.authService.LoginParent(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	expiresIn := int(ah.authService.AccessTTL().Seconds())
	response.RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   expiresIn,
	})
}

// POST /api/kid-session
// body: { "kid_id": "..." }
func (ah *AuthHandler) KidSession(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var req struct {
		KidID string `json:"kid_id"`
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
	token, kid, err := ah.authService.IssueKidSession(c.Request.Context(), principal, kidID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	expiresIn := int(ah.authService.AccessTTL().Seconds())
	response.RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   expiresIn,
		"kid":          kid,
	})
}
