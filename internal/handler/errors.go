package handler

import (
	"errors"
	"net/http"

	"wakili/internal/domain"
	"wakili/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// codeFor centralizes the error-to-status mapping so every handler
// surfaces the interaction taxonomy the same way.
func codeFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTargetNotFound):
		return http.StatusNotFound, "TARGET_NOT_FOUND"
	case errors.Is(err, domain.ErrActivityNotFound):
		return http.StatusNotFound, "ACTIVITY_NOT_FOUND"
	case errors.Is(err, domain.ErrSelfInteraction):
		return http.StatusBadRequest, "SELF_INTERACTION"
	case errors.Is(err, domain.ErrUpgradeRequired):
		return http.StatusPaymentRequired, "UPGRADE_REQUIRED"
	case errors.Is(err, domain.ErrZeroCoins):
		return http.StatusPaymentRequired, "ZERO_COINS"
	case errors.Is(err, domain.ErrAlreadySent):
		return http.StatusConflict, "ALREADY_SENT"
	case errors.Is(err, domain.ErrChatExpired):
		return http.StatusConflict, "CHAT_EXPIRED"
	case errors.Is(err, domain.ErrInteractionLimit):
		return http.StatusConflict, "INTERACTION_LIMIT"
	case errors.Is(err, domain.ErrInsufficientCoins):
		return http.StatusPaymentRequired, "INSUFFICIENT_COINS"
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest, "INVALID_ACTION"
	case errors.Is(err, domain.ErrNotReceiver):
		return http.StatusForbidden, "NOT_RECEIVER"
	case errors.Is(err, domain.ErrNotRespondable):
		return http.StatusBadRequest, "NOT_RESPONDABLE"
	case errors.Is(err, service.ErrBlocked):
		return http.StatusForbidden, "BLOCKED"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := codeFor(err)
	body := gin.H{"code": code}
	if status != http.StatusInternalServerError {
		body["error"] = err.Error()
	} else {
		body["error"] = "internal error"
	}
	c.JSON(status, body)
}
