package handlers

import (
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the super admin's manager directory
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetManagers handles GET /admin/managers
func (h *AdminHandler) GetManagers(c *gin.Context) {
	managers, err := h.adminService.ListManagers(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"managers": managers})
}

// GetManagerCampaigns handles GET /admin/managers/:id/campaigns
func (h *AdminHandler) GetManagerCampaigns(c *gin.Context) {
	campaigns, err := h.adminService.ManagerCampaigns(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}
