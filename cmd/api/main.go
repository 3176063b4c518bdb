package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/api/routes"
	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/draw"
	"github.com/ArowuTest/viral-lottery-backend/internal/handlers"
	"github.com/ArowuTest/viral-lottery-backend/internal/services"
	"github.com/ArowuTest/viral-lottery-backend/internal/storage"
	"github.com/ArowuTest/viral-lottery-backend/pkg/cache"
	"github.com/ArowuTest/viral-lottery-backend/pkg/email"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/ArowuTest/viral-lottery-backend/pkg/whatsapp"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.L().Fatalw("Failed to load configuration", "error", err)
	}
	logx.Init(cfg.LogLevel)
	defer logx.Sync()

	if !config.GetEnvAsBool("GIN_DEBUG", false) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, closeStore, err := storage.Open(ctx, cfg)
	cancel()
	if err != nil {
		logx.L().Fatalw("Failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	shortIDs := openShortIDCache(cfg)

	tokens := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	gateway := whatsapp.NewGateway(cfg)
	mailer := email.NewSender(cfg)

	campaignService := services.NewCampaignService(store, shortIDs, cfg)
	notificationService := services.NewNotificationService(store, campaignService, gateway, mailer, cfg)
	campaignService.SetNotifier(notificationService)
	authService := services.NewAuthService(store.Managers, tokens, notificationService, cfg.Email.SuperAdminEmail)
	registrationService := services.NewRegistrationService(
		store,
		services.NewDuplicateGuard(store.Participants),
		services.NewReferralResolver(store.Participants),
		services.NewTicketLedger(store.Campaigns, store.Participants),
		tokens,
		cfg,
	)
	drawService := services.NewDrawService(store, draw.NewEngine(draw.NewCryptoSource()), notificationService, cfg)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		CampaignHandler:     handlers.NewCampaignHandler(campaignService, notificationService),
		DrawHandler:         handlers.NewDrawHandler(drawService),
		PublicHandler:       handlers.NewPublicHandler(campaignService, registrationService),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		AdminHandler:        handlers.NewAdminHandler(services.NewAdminService(store)),
		Tokens:              tokens,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.L().Infow("Server starting", "port", cfg.Server.Port, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.L().Fatalw("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logx.L().Infow("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.L().Errorw("Server forced to shutdown", "error", err)
	}
	logx.L().Infow("Server exiting")
}

func openShortIDCache(cfg *config.Config) cache.ShortIDCache {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logx.L().Warnw("Redis unavailable, short links resolve without cache", "addr", cfg.Redis.Addr, "error", err)
		return cache.Noop{}
	}
	return cache.NewRedisShortIDCache(client, cfg.Redis.TTL)
}
