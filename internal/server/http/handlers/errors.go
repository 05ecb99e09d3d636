package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/server/http/dto"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrInvalidCoordinate, http.StatusUnprocessableEntity, "invalid_coordinate"},
	{domainErrors.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{domainErrors.ErrInvalidQuantity, http.StatusUnprocessableEntity, "invalid_quantity"},
	{domainErrors.ErrEmptyOrder, http.StatusUnprocessableEntity, "empty_order"},
	{domainErrors.ErrUnknownMenuItem, http.StatusUnprocessableEntity, "unknown_menu_item"},
	{domainErrors.ErrInvalidPartySize, http.StatusUnprocessableEntity, "invalid_party_size"},
	{domainErrors.ErrInvalidContact, http.StatusUnprocessableEntity, "invalid_contact"},
	{domainErrors.ErrInvalidReservationWindow, http.StatusUnprocessableEntity, "invalid_reservation_window"},
	{domainErrors.ErrInvalidReferralCode, http.StatusUnprocessableEntity, "invalid_referral_code"},
	{domainErrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domainErrors.ErrItemUnavailable, http.StatusConflict, "item_unavailable"},
	{domainErrors.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{domainErrors.ErrInsufficientBalance, http.StatusPaymentRequired, "insufficient_balance"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domainErrors.ErrTransient, http.StatusServiceUnavailable, "transient"},
}

// statusFor maps a domain error to its HTTP status and stable code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// writeError renders err. Unmapped errors are attached to the context for the
// access log and never echoed to the client.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, dto.ErrorResponse{Error: code})
}

func writeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found"})
}
