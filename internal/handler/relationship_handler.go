package handler

import (
	"net/http"
	"strconv"

	"wakili/internal/middleware"
	"wakili/internal/service"

	"github.com/gin-gonic/gin"
)

// RelationshipHandler exposes the direct relationship-graph endpoints:
// no coin accounting, same relationship store as the costed action path.
type RelationshipHandler struct {
	svc *service.InteractionService
}

func NewRelationshipHandler(svc *service.InteractionService) *RelationshipHandler {
	return &RelationshipHandler{svc: svc}
}

func (h *RelationshipHandler) otherID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

func (h *RelationshipHandler) apply(c *gin.Context, fn func(actorID, otherID uint) (*service.Transition, error)) {
	other, ok := h.otherID(c)
	if !ok {
		return
	}
	tr, err := fn(middleware.GetUserID(c), other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"previous": tr.Previous, "state": tr.State, "changed": tr.Changed})
}

func (h *RelationshipHandler) SendInterest(c *gin.Context) {
	h.apply(c, func(a, b uint) (*service.Transition, error) {
		return h.svc.SendInterest(c.Request.Context(), a, b)
	})
}

func (h *RelationshipHandler) AcceptInterest(c *gin.Context) {
	h.apply(c, func(a, b uint) (*service.Transition, error) {
		return h.svc.AcceptInterest(c.Request.Context(), a, b)
	})
}

func (h *RelationshipHandler) DeclineInterest(c *gin.Context) {
	h.apply(c, func(a, b uint) (*service.Transition, error) {
		return h.svc.DeclineInterest(c.Request.Context(), a, b)
	})
}

func (h *RelationshipHandler) Shortlist(c *gin.Context) {
	h.apply(c, func(a, b uint) (*service.Transition, error) {
		return h.svc.Shortlist(c.Request.Context(), a, b)
	})
}

// GetState handles GET /relationships/:user_id, returning the state
// projected into the caller's perspective.
func (h *RelationshipHandler) GetState(c *gin.Context) {
	other, ok := h.otherID(c)
	if !ok {
		return
	}
	state, err := h.svc.RelationshipState(middleware.GetUserID(c), other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationship_state": state})
}
