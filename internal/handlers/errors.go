package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/draw"
	"github.com/ArowuTest/viral-lottery-backend/internal/middleware"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/gin-gonic/gin"
)

// writeError maps a service error onto an HTTP status and a gin.H{"error": ...} body
func writeError(c *gin.Context, err error) {
	var verr *services.ValidationError
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.As(err, &verr):
		status, message = http.StatusBadRequest, verr.Error()
	case errors.Is(err, draw.ErrTicketOverflow):
		status, message = http.StatusUnprocessableEntity, "Campaign ticket total is too large to draw"
	case errors.Is(err, draw.ErrInvalidWinnerCount):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrCampaignClosed):
		status, message = http.StatusConflict, "Campaign is closed"
	case errors.Is(err, services.ErrEmailTaken):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, draw.ErrEmptyPopulation):
		status, message = http.StatusUnprocessableEntity, "Campaign has no participants"
	case services.IsTransient(err):
		status, message = http.StatusServiceUnavailable, "Storage temporarily unavailable, please retry"
	}

	if status >= http.StatusInternalServerError {
		logx.L().Errorw("Request failed", "error", err, "path", c.FullPath(), "rid", c.GetString(middleware.RequestIDKey))
	}
	c.JSON(status, gin.H{"error": message})
}

// actor returns the manager set by JWTAuthMiddleware
func actor(c *gin.Context) services.Actor {
	return services.Actor{
		ManagerID: c.GetString(middleware.ManagerIDKey),
		Role:      c.GetString(middleware.ManagerRoleKey),
	}
}
