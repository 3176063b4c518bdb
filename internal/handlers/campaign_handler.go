package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles manager campaign requests
type CampaignHandler struct {
	campaignService     services.CampaignService
	notificationService services.NotificationService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService services.CampaignService, notificationService services.NotificationService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, notificationService: notificationService}
}

type campaignResponse struct {
	*models.Campaign
	ShareLink string `json:"shareLink"`
}

func (h *CampaignHandler) respond(c *gin.Context, status int, campaign *models.Campaign) {
	c.JSON(status, campaignResponse{Campaign: campaign, ShareLink: h.campaignService.ShareLink(campaign)})
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req models.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	campaign, err := h.campaignService.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, campaign)
}

// GetCampaigns handles GET /campaigns
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.List(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]campaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, campaignResponse{Campaign: campaign, ShareLink: h.campaignService.ShareLink(campaign)})
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": out})
}

// GetCampaign handles GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, campaign)
}

// UpdateCampaign handles PUT /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req models.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	campaign, err := h.campaignService.Update(c.Request.Context(), actor(c), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, campaign)
}

// SetCampaignStatus handles PATCH /campaigns/:id/status
func (h *CampaignHandler) SetCampaignStatus(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	campaign, err := h.campaignService.SetActive(c.Request.Context(), actor(c), c.Param("id"), *req.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	if err := h.campaignService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

// GetCampaignStats handles GET /campaigns/:id/stats
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	stats, err := h.campaignService.Stats(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetParticipants handles GET /campaigns/:id/participants
func (h *CampaignHandler) GetParticipants(c *gin.Context) {
	participants, err := h.campaignService.Participants(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants, "total": len(participants)})
}

// ExportParticipantsCSV handles GET /campaigns/:id/participants/export.csv
func (h *CampaignHandler) ExportParticipantsCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.campaignService.ExportCSV(c.Request.Context(), actor(c), c.Param("id"), &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leads-"+c.Param("id")+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportParticipantsVCF handles GET /campaigns/:id/participants/export.vcf
func (h *CampaignHandler) ExportParticipantsVCF(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.campaignService.ExportVCF(c.Request.Context(), actor(c), c.Param("id"), &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "contacts-"+c.Param("id")+".vcf"))
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", buf.Bytes())
}

// GetNotifications handles GET /campaigns/:id/notifications
func (h *CampaignHandler) GetNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	items, err := h.notificationService.History(c.Request.Context(), actor(c), c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}
