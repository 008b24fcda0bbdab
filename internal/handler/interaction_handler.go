package handler

import (
	"net/http"
	"strconv"

	"wakili/internal/middleware"
	"wakili/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(svc *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// PerformAction handles POST /interactions/:role/:target/:action.
// The target segment accepts a numeric profile id or a routing code.
func (h *InteractionHandler) PerformAction(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	result, err := h.svc.PerformAction(c.Request.Context(), actorID,
		c.Param("role"), c.Param("target"), c.Param("action"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Respond handles POST /activities/:id/respond.
func (h *InteractionHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}
	var req struct {
		Decision       string                 `json:"decision" binding:"required,oneof=accepted declined"`
		MeetingDetails map[string]interface{} `json:"meeting_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tr, err := h.svc.RespondToActivity(c.Request.Context(), userID, uint(id), req.Decision, req.MeetingDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"previous": tr.Previous, "state": tr.State, "changed": tr.Changed})
}

func (h *InteractionHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InteractionHandler) MyRequests(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	reqs, err := h.svc.MyRequests(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *InteractionHandler) AllActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.svc.AllActivities(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list})
}
