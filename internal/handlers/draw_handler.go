package handlers

import (
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// ExecuteDraw handles POST /campaigns/:id/draws
func (h *DrawHandler) ExecuteDraw(c *gin.Context) {
	var req models.DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := actor(c)
	req.CampaignID = c.Param("id")
	req.ManagerID = a.ManagerID
	req.ManagerRole = a.Role

	record, err := h.drawService.DrawWinners(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetDraws handles GET /campaigns/:id/draws
func (h *DrawHandler) GetDraws(c *gin.Context) {
	records, err := h.drawService.History(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draws": records})
}
