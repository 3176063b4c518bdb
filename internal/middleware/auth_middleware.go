package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/gin-gonic/gin"
)

const bearerSchema = "Bearer "

// bearerClaims parses the Authorization header and aborts the request on failure
func bearerClaims(c *gin.Context, tokens *jwt.TokenService, kind string) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
		return nil, false
	}
	if !strings.HasPrefix(authHeader, bearerSchema) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
		return nil, false
	}

	claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
	if err != nil {
		logx.L().Debugw("Token rejected", "error", err, "path", c.FullPath())
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		}
		return nil, false
	}
	if claims.Kind != kind {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return nil, false
	}
	return claims, true
}

// JWTAuthMiddleware admits requests carrying a manager token
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens, jwt.KindManager)
		if !ok {
			return
		}
		c.Set(ManagerIDKey, claims.Subject)
		c.Set(ManagerEmailKey, claims.Email)
		c.Set(ManagerRoleKey, claims.Role)
		c.Next()
	}
}

// ParticipantAuthMiddleware admits requests carrying a participant token for the campaign in the :id path param
func ParticipantAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens, jwt.KindParticipant)
		if !ok {
			return
		}
		if id := c.Param("id"); id != "" && !strings.HasPrefix(claims.CampaignID, id) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token belongs to another campaign"})
			return
		}
		c.Set(ParticipantIDKey, claims.Subject)
		c.Set(CampaignIDKey, claims.CampaignID)
		c.Next()
	}
}
