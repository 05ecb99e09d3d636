package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
	"github.com/polkiloo/gopherbistro/internal/server/http/middleware"
)

// AccountHandler processes registration, login and account views.
type AccountHandler struct {
	facade AuthFacade
}

// NewAccountHandler creates AccountHandler instance.
func NewAccountHandler(facade AuthFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Register handles POST /api/accounts/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.AuthRequest
	if !bindJSON(c, &req) {
		return
	}

	account, token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password, req.ReferralCode)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_credentials"})
			return
		}
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, Account: accountResponse(*account, nil)})
}

// Login handles POST /api/accounts/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if !bindJSON(c, &req) {
		return
	}

	account, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, Account: accountResponse(*account, nil)})
}

// Profile handles GET /api/accounts/me.
func (h *AccountHandler) Profile(c *gin.Context) {
	profile, err := h.facade.Profile(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	balance := profile.PointsBalance
	c.JSON(http.StatusOK, accountResponse(profile.Account, &balance))
}

// Ledger handles GET /api/accounts/me/ledger.
func (h *AccountHandler) Ledger(c *gin.Context) {
	entries, err := h.facade.Ledger(c.Request.Context(), CurrentAccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(entries))
}
