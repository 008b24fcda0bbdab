package router

import (
	"log/slog"
	"time"

	"wakili/config"
	"wakili/internal/domain"
	"wakili/internal/handler"
	"wakili/internal/metrics"
	"wakili/internal/middleware"
	"wakili/internal/realtime"
	"wakili/internal/repository"
	"wakili/internal/service"
	"wakili/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, bridge *realtime.RedisBridge, log *slog.Logger) (*gin.Engine, *realtime.HubNotifier) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	actRepo := repository.NewActivityRepository(db)
	markRepo := repository.NewMarkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	m := metrics.Registry("wakili")
	hub := ws.NewHub()
	notifier := realtime.NewHubNotifier(hub, bridge, log)

	// Services
	costs := service.NewCostProvider(settingRepo)
	if err := costs.Reload(); err != nil {
		log.Warn("cost table reload failed, using defaults")
	}
	gate := service.NewEconomyGate(costs, cfg.Economy.ChatValidity, cfg.Economy.DiversityCap)
	authSvc := service.NewAuthService(cfg, userRepo, profileRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	interactionSvc := service.NewInteractionService(
		db, userRepo, profileRepo, relRepo, actRepo, markRepo,
		gate, service.NewSynchronizer(), service.NewPairLocker(),
		notifier, notifSvc, m, log, cfg.Economy.DedupWindow,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	interactionHandler := handler.NewInteractionHandler(interactionSvc)
	relationshipHandler := handler.NewRelationshipHandler(interactionSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	ledgerHandler := handler.NewLedgerHandler(userRepo)
	adminHandler := handler.NewAdminHandler(settingRepo, costs)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/ledger", ledgerHandler.Get)
			me.GET("/stats", interactionHandler.Stats)
			me.GET("/requests", interactionHandler.MyRequests)
			me.GET("/activities", interactionHandler.AllActivities)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.PUT("/password", authHandler.ChangePassword)
		}

		api.POST("/interactions/:role/:target/:action", authMw, interactionHandler.PerformAction)
		api.POST("/activities/:id/respond", authMw, interactionHandler.Respond)

		rels := api.Group("/relationships")
		rels.Use(authMw)
		{
			rels.GET("/:user_id", relationshipHandler.GetState)
			rels.POST("/:user_id/interest", relationshipHandler.SendInterest)
			rels.POST("/:user_id/accept", relationshipHandler.AcceptInterest)
			rels.POST("/:user_id/decline", relationshipHandler.DeclineInterest)
			rels.POST("/:user_id/shortlist", relationshipHandler.Shortlist)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/settings", adminHandler.ListSettings)
			admin.PUT("/settings/:key", adminHandler.SetSetting)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, hub, m))

	return r, notifier
}
