package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type RewardHandler struct {
	rewardService services.RewardService
}

func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// POST /api/rewards
// body: { "title": "...", "cost": 100 }
func (rh *RewardHandler) CreateReward(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
		Cost  int    `json:"cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	reward, err := rh.rewardService.CreateReward(c.Request.Context(), principal, req.Title, req.Cost)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"reward": reward})
}

// GET /api/rewards
func (rh *RewardHandler) ListRewards(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	rewards, err := rh.rewardService.ListRewards(c.Request.Context(), principal)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rewards": rewards})
}

// POST /api/rewards/:id/redeem
func (rh *RewardHandler) Redeem(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	rewardID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	redemption, err := rh.rewardService.Redeem(c.Request.Context(), principal, rewardID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"redemption": redemption})
}

// GET /api/redemptions?kid_id=...
func (rh *RewardHandler) ListRedemptions(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	kidID, err := optionalKidIDQuery(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	redemptions, err := rh.rewardService.ListRedemptions(c.Request.Context(), principal, kidID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"redemptions": redemptions})
}

// DELETE /api/rewards/:id
func (rh *RewardHandler) DeleteReward(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	rewardID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := rh.rewardService.DeleteReward(c.Request.Context(), principal, rewardID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
