package handlers

import (
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/middleware"
	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves participants. Campaign ids in paths may be short prefixes.
type PublicHandler struct {
	campaignService     services.CampaignService
	registrationService services.RegistrationService
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(campaignService services.CampaignService, registrationService services.RegistrationService) *PublicHandler {
	return &PublicHandler{campaignService: campaignService, registrationService: registrationService}
}

// GetCampaign handles GET /public/campaigns/:id
func (h *PublicHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.PublicView(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// Register handles POST /public/campaigns/:id/register
func (h *PublicHandler) Register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.campaignService.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	req.CampaignID = campaign.ID
	if req.ReferralToken == "" {
		req.ReferralToken = c.Query("r")
	}
	if req.ReferralToken == "" {
		req.ReferralToken = c.Query("ref")
	}

	res, err := h.registrationService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if res.Reentry {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// CompleteTask handles POST /public/campaigns/:id/tasks/:task
func (h *PublicHandler) CompleteTask(c *gin.Context) {
	task, ok := models.ParseTask(c.Param("task"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown task"})
		return
	}
	status, err := h.registrationService.CompleteTask(c.Request.Context(),
		c.GetString(middleware.CampaignIDKey), c.GetString(middleware.ParticipantIDKey), task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Me handles GET /public/campaigns/:id/me
func (h *PublicHandler) Me(c *gin.Context) {
	status, err := h.registrationService.Status(c.Request.Context(),
		c.GetString(middleware.CampaignIDKey), c.GetString(middleware.ParticipantIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Leaderboard handles GET /public/campaigns/:id/leaderboard
func (h *PublicHandler) Leaderboard(c *gin.Context) {
	entries, err := h.campaignService.Leaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// ContactCard handles GET /public/campaigns/:id/contact.vcf
func (h *PublicHandler) ContactCard(c *gin.Context) {
	card, err := h.campaignService.ContactCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contact.vcf"`)
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(card))
}

// ShortLink handles GET /l/:campaign and /l/:campaign/:ref
func (h *PublicHandler) ShortLink(c *gin.Context) {
	target, err := h.campaignService.ShortLinkTarget(c.Request.Context(), c.Param("campaign"), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
