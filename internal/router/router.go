package router

import (
	"net/http"
	"time"

	"coinstore/config"
	"coinstore/internal/events"
	"coinstore/internal/handler"
	"coinstore/internal/middleware"
	"coinstore/internal/repository"
	"coinstore/internal/service"
	"coinstore/internal/ws"
	"coinstore/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the optional integrations built at startup. Nil Cloud or Push
// disables receipts or push alerts; nil Publisher publishes nothing.
type Deps struct {
	Log       *logrus.Logger
	Publisher events.Publisher
	Cloud     cloudinary.Client
	Push      service.Pusher
}

// Server is the assembled HTTP surface plus the background pieces main drives.
type Server struct {
	Engine     *gin.Engine
	Reconciler *service.Reconciler
	Hub        *ws.Hub
	limiters   []*middleware.InMemoryRateLimiter
}

// Close stops the rate limiter cleanup goroutines.
func (s *Server) Close() {
	for _, l := range s.limiters {
		l.Stop()
	}
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Log
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	apiLimiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	loginLimiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow)
	r.Use(middleware.RateLimit(apiLimiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	historyRepo := repository.NewLoginHistoryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, historyRepo, log)
	userSvc := service.NewUserService(userRepo, auditRepo, log)
	notifSvc := service.NewNotificationService(userRepo, deps.Push, log)
	entrySvc := service.NewEntryService(entryRepo, auditRepo, deps.Publisher, hub, notifSvc, log)
	gameSvc := service.NewGameService(gameRepo, entryRepo, auditRepo, log)
	reconciler := service.NewReconciler(gameRepo, entryRepo, deps.Publisher, cfg.Reconcile.Timeout, log)
	paymentSvc := service.NewPaymentService(paymentRepo, deps.Cloud, cfg.Cloudinary.Folder, auditRepo, log)
	scheduleSvc := service.NewScheduleService(scheduleRepo, userRepo, auditRepo, log)
	dashboardSvc := service.NewDashboardService(dashboardRepo, entrySvc, paymentSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userSvc, log)
	userHandler := handler.NewUserHandler(userSvc, log)
	gameHandler := handler.NewGameHandler(gameSvc, reconciler, log)
	entryHandler := handler.NewEntryHandler(entrySvc, log)
	ledgerHandler := handler.NewLedgerHandler(entrySvc, gameSvc, log)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, log)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, log)
	adminHandler := handler.NewAdminHandler(dashboardSvc, historyRepo, auditRepo, log)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/login", middleware.RateLimit(loginLimiter), authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)

		v1.GET("/ws/feed", ws.ServeFeed(&cfg.JWT, hub))

		api := v1.Group("")
		api.Use(middleware.AuthRequired(&cfg.JWT))

		api.POST("/auth/logout", authHandler.Logout)
		api.PATCH("/auth/change-password", authHandler.ChangePassword)
		api.GET("/me", authHandler.Me)
		api.POST("/me/fcm-token", authHandler.RegisterFCMToken)

		users := api.Group("/users", middleware.AdminRequired())
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)

		games := api.Group("/games")
		games.GET("", gameHandler.List)
		games.GET("/:id", gameHandler.Get)
		games.POST("", middleware.ManagerRequired(), gameHandler.Create)
		games.POST("/reconcile", middleware.ManagerRequired(), gameHandler.Reconcile)
		games.PATCH("/:id", middleware.ManagerRequired(), gameHandler.Update)
		games.DELETE("/:id", middleware.ManagerRequired(), gameHandler.Delete)
		games.POST("/:id/recharge", middleware.ManagerRequired(), gameHandler.Recharge)

		entries := api.Group("/entries")
		entries.GET("", entryHandler.List)
		entries.POST("", entryHandler.Create)
		entries.GET("/export", middleware.ManagerRequired(), entryHandler.Export)
		entries.GET("/:id", entryHandler.Get)
		entries.PATCH("/:id", entryHandler.Update)
		entries.DELETE("/:id", middleware.ManagerRequired(), entryHandler.Delete)
		entries.POST("/:id/clear-pending", entryHandler.ClearPending)
		entries.POST("/:id/payout", entryHandler.Payout)

		ledger := api.Group("/ledger")
		ledger.GET("/summary", ledgerHandler.Summary)
		ledger.GET("/games", ledgerHandler.Games)
		ledger.GET("/pending", ledgerHandler.Pending)

		payments := api.Group("/payments")
		payments.GET("", paymentHandler.List)
		payments.POST("", paymentHandler.Create)
		payments.GET("/summary", paymentHandler.Summary)
		payments.GET("/:id", paymentHandler.Get)
		payments.PATCH("/:id", paymentHandler.Update)
		payments.DELETE("/:id", middleware.ManagerRequired(), paymentHandler.Delete)
		payments.POST("/:id/receipt", paymentHandler.UploadReceipt)

		schedules := api.Group("/schedules")
		schedules.GET("", scheduleHandler.List)
		schedules.POST("", middleware.ManagerRequired(), scheduleHandler.Create)
		schedules.PATCH("/:id", middleware.ManagerRequired(), scheduleHandler.Update)
		schedules.DELETE("/:id", middleware.ManagerRequired(), scheduleHandler.Delete)

		api.GET("/login-history", middleware.AdminRequired(), adminHandler.LoginHistory)
		api.GET("/audit-logs", middleware.AdminRequired(), adminHandler.AuditLogs)
		api.GET("/dashboard", adminHandler.Dashboard)
	}

	return &Server{
		Engine:     r,
		Reconciler: reconciler,
		Hub:        hub,
		limiters:   []*middleware.InMemoryRateLimiter{apiLimiter, loginLimiter},
	}
}
