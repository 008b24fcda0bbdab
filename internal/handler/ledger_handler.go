package handler

import (
	"net/http"

	"wakili/internal/middleware"
	"wakili/internal/repository"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	userRepo *repository.UserRepository
}

func NewLedgerHandler(userRepo *repository.UserRepository) *LedgerHandler {
	return &LedgerHandler{userRepo: userRepo}
}

// Get handles GET /me/ledger.
func (h *LedgerHandler) Get(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coins":          u.Coins,
		"coins_used":     u.CoinsUsed,
		"coins_received": u.CoinsReceived,
		"plan":           u.Plan,
		"is_premium":     u.IsPremium,
	})
}
