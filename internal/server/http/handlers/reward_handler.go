package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

// RewardHandler exposes the rewards catalog and redemptions.
type RewardHandler struct {
	facade RewardFacade
}

// NewRewardHandler constructs RewardHandler.
func NewRewardHandler(facade RewardFacade) *RewardHandler {
	return &RewardHandler{facade: facade}
}

// List handles GET /api/rewards.
func (h *RewardHandler) List(c *gin.Context) {
	items, err := h.facade.Rewards(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.RewardResponse, 0, len(items))
	for i := range items {
		resp = append(resp, rewardResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Redeem handles POST /api/rewards/:id/redeem.
func (h *RewardHandler) Redeem(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.facade.Redeem(c.Request.Context(), CurrentAccountID(c), itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redemptionResponse(r))
}

// Redemptions handles GET /api/accounts/me/redemptions.
func (h *RewardHandler) Redemptions(c *gin.Context) {
	items, err := h.facade.Redemptions(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(items) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	resp := make([]dto.RedemptionResponse, 0, len(items))
	for i := range items {
		resp = append(resp, redemptionResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}
