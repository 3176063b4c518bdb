package routes

import (
	"net/http"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/handlers"
	"github.com/ArowuTest/viral-lottery-backend/internal/middleware"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds all handlers and the token service the router needs
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	CampaignHandler     *handlers.CampaignHandler
	DrawHandler         *handlers.DrawHandler
	PublicHandler       *handlers.PublicHandler
	NotificationHandler *handlers.NotificationHandler
	AdminHandler        *handlers.AdminHandler
	Tokens              *jwt.TokenService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Observability())
	router.Use(middleware.CORSMiddleware(cfg))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Short links redirect to the landing page
	router.GET("/l/:campaign", deps.PublicHandler.ShortLink)
	router.GET("/l/:campaign/:ref", deps.PublicHandler.ShortLink)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.GET("/me", middleware.JWTAuthMiddleware(deps.Tokens), deps.AuthHandler.Me)
		}

		public := api.Group("/public/campaigns/:id")
		{
			public.GET("", deps.PublicHandler.GetCampaign)
			public.POST("/register", deps.PublicHandler.Register)
			public.GET("/leaderboard", deps.PublicHandler.Leaderboard)
			public.GET("/contact.vcf", deps.PublicHandler.ContactCard)

			participant := public.Group("")
			participant.Use(middleware.ParticipantAuthMiddleware(deps.Tokens))
			{
				participant.GET("/me", deps.PublicHandler.Me)
				participant.POST("/tasks/:task", deps.PublicHandler.CompleteTask)
			}
		}

		webhooks := api.Group("/webhooks")
		{
			webhooks.GET("/green-api", deps.NotificationHandler.WebhookAlive)
			webhooks.POST("/green-api", deps.NotificationHandler.GreenAPIWebhook)
		}

		campaigns := api.Group("/campaigns")
		campaigns.Use(middleware.JWTAuthMiddleware(deps.Tokens))
		{
			campaigns.GET("", deps.CampaignHandler.GetCampaigns)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.PUT("/:id", deps.CampaignHandler.UpdateCampaign)
			campaigns.PATCH("/:id/status", deps.CampaignHandler.SetCampaignStatus)
			campaigns.DELETE("/:id", deps.CampaignHandler.DeleteCampaign)
			campaigns.GET("/:id/stats", deps.CampaignHandler.GetCampaignStats)
			campaigns.GET("/:id/participants", deps.CampaignHandler.GetParticipants)
			campaigns.GET("/:id/participants/export.csv", deps.CampaignHandler.ExportParticipantsCSV)
			campaigns.GET("/:id/participants/export.vcf", deps.CampaignHandler.ExportParticipantsVCF)
			campaigns.GET("/:id/notifications", deps.CampaignHandler.GetNotifications)
			campaigns.POST("/:id/draws", deps.DrawHandler.ExecuteDraw)
			campaigns.GET("/:id/draws", deps.DrawHandler.GetDraws)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuthMiddleware(deps.Tokens))
		{
			admin.GET("/managers", deps.AdminHandler.GetManagers)
			admin.GET("/managers/:id/campaigns", deps.AdminHandler.GetManagerCampaigns)
		}
	}

	return router
}
