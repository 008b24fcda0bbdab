package handler

import (
	"net/http"

	"wakili/internal/repository"
	"wakili/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the key/value settings store, including the
// cost.* table. Cost edits take effect immediately via the provider
// reload, no deploy needed.
type AdminHandler struct {
	settings *repository.SettingRepository
	costs    *service.CostProvider
}

func NewAdminHandler(settings *repository.SettingRepository, costs *service.CostProvider) *AdminHandler {
	return &AdminHandler{settings: settings, costs: costs}
}

func (h *AdminHandler) ListSettings(c *gin.Context) {
	list, err := h.settings.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

func (h *AdminHandler) SetSetting(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := c.Param("key")
	if err := h.settings.Set(key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if err := h.costs.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cost reload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
