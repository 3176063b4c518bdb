package handlers

import (
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/gin-gonic/gin"
)

// NotificationHandler receives WhatsApp gateway webhooks
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// WebhookAlive handles GET /webhooks/green-api
func (h *NotificationHandler) WebhookAlive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "webhook alive"})
}

// GreenAPIWebhook handles POST /webhooks/green-api. Green API retries on non-2xx, so ignored payloads still get 200.
func (h *NotificationHandler) GreenAPIWebhook(c *gin.Context) {
	var hook models.GreenWebhook
	if err := c.ShouldBindJSON(&hook); err != nil {
		logx.L().Warnw("Unreadable webhook payload", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}

	handled, err := h.notificationService.HandleWebhook(c.Request.Context(), &hook)
	if err != nil {
		logx.L().Errorw("Webhook handling failed", "error", err, "typeWebhook", hook.TypeWebhook)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to handle webhook"})
		return
	}
	if !handled {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ignored": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "handled": true})
}
