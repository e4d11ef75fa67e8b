package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/handlers"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	Accounts      *usecase.AccountService
	Memes         *usecase.MemeService
	Matches       *usecase.MatchService
	Notifications *usecase.NotificationService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Cookies     *handlers.SessionCookies
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	checks := make(map[string]handlers.HealthChecker, 2)
	if deps.Database != nil {
		checks["postgres"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration, deps.Cookies)
		sessionHandler := handlers.NewSessionHandler(deps.Services.Auth, deps.Cookies)
		accountHandler := handlers.NewAccountHandler(deps.Services.Accounts)

		userGroup := api.Group("/user")
		userGroup.POST("/register", withRateLimit(deps, "register_ip", deps.Config.RateLimit.RegisterMaxAttempts, registrationHandler.Register)...)
		userGroup.POST("/activate", registrationHandler.Activate)
		userGroup.POST("/login", withRateLimit(deps, "login_ip", deps.Config.RateLimit.LoginMaxAttempts, sessionHandler.Login)...)
		userGroup.POST("/social", sessionHandler.SocialAuth)
		userGroup.GET("/logout", authMiddleware, sessionHandler.Logout)
		userGroup.GET("/refresh", withRateLimit(deps, "refresh_ip", deps.Config.RateLimit.RefreshMaxAttempts, sessionHandler.Refresh)...)
		userGroup.GET("/me", authMiddleware, accountHandler.Me)
		userGroup.PUT("/update-password", authMiddleware, accountHandler.UpdatePassword)
		userGroup.PUT("/update-info", authMiddleware, accountHandler.UpdateInfo)
		userGroup.GET("/get-all-users", authMiddleware, adminOnly, accountHandler.ListAll)
		userGroup.PUT("/update-user-role", authMiddleware, adminOnly, accountHandler.UpdateRole)
		userGroup.DELETE("/delete-user/:id", authMiddleware, adminOnly, accountHandler.Delete)

		memeHandler := handlers.NewMemeHandler(deps.Services.Memes)
		memeGroup := api.Group("/meme")
		memeGroup.GET("/all", memeHandler.List)
		memeGroup.POST("/create", authMiddleware, memeHandler.Create)
		memeGroup.GET("/user/:userId", authMiddleware, memeHandler.ListByUser)
		memeGroup.GET("/:memeId", authMiddleware, memeHandler.Get)
		memeGroup.PUT("/:memeId", authMiddleware, memeHandler.Update)
		memeGroup.DELETE("/:memeId", authMiddleware, memeHandler.Delete)
		memeGroup.PUT("/:memeId/like", authMiddleware, memeHandler.ToggleLike)
		memeGroup.POST("/:memeId/comments", authMiddleware, memeHandler.AddComment)
		memeGroup.DELETE("/:memeId/comments/:commentId", authMiddleware, memeHandler.DeleteComment)

		matchHandler := handlers.NewMatchHandler(deps.Services.Matches)
		matchGroup := api.Group("/match")
		matchGroup.Use(authMiddleware)
		matchGroup.POST("/create", matchHandler.Create)
		matchGroup.GET("/user/:userId", matchHandler.ListByUser)
		matchGroup.GET("/mutual/:userId", matchHandler.Mutual)
		matchGroup.PATCH("/:matchId/accept", matchHandler.Accept)
		matchGroup.PATCH("/:matchId/reject", matchHandler.Reject)
		matchGroup.DELETE("/:matchId", matchHandler.Delete)

		notificationHandler := handlers.NewNotificationHandler(deps.Services.Notifications)
		notificationGroup := api.Group("/notification")
		notificationGroup.Use(authMiddleware)
		notificationGroup.POST("/create", adminOnly, notificationHandler.Create)
		notificationGroup.GET("/user/:userId", notificationHandler.ListByUser)
		notificationGroup.PATCH("/user/:userId/read-all", notificationHandler.MarkAllRead)
		notificationGroup.DELETE("/user/:userId", notificationHandler.DeleteAll)
		notificationGroup.PATCH("/:notificationId/read", notificationHandler.MarkRead)
		notificationGroup.DELETE("/:notificationId", notificationHandler.Delete)
	}

	return r
}

// withRateLimit prepends a sliding-window IP rule to the handler when rate
// limiting is configured.
func withRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule), handler}
}
