package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/database"
	kafkainfra "github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/kafka"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
	mailinfra "github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/mail"
	redisinfra "github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/redis"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
	postgresrepo "github.com/AyushiSrivastava11/backend-memeMatch/internal/repository/postgres"
	redisrepo "github.com/AyushiSrivastava11/backend-memeMatch/internal/repository/redis"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/handlers"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/middleware"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/transport/http/routes"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/usecase"
)

// Application owns the wired service graph and the HTTP server lifecycle.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

// New wires configuration into a ready-to-run application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenService, err := security.NewTokenService(cfg.Tokens)
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	// Redis backs rate limiting only; the service degrades without it.
	var (
		redisClient *redisinfra.Client
		rateLimiter *middleware.RateLimiter
	)
	redisClient, err = redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "meme:rate-limit",
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var mailSender port.MailSender
	if cfg.SMTP.Host != "" && cfg.SMTP.Username != "" {
		mailSender = mailinfra.NewSMTPSender(cfg.SMTP, log)
	} else {
		log.Info("smtp not configured, logging activation mail instead")
		mailSender = mailinfra.NewStubSender(log)
	}

	passwordValidator := security.NewPasswordValidator(
		security.MinLengthRule(8),
		security.RequireUpperRule(),
		security.RequireLowerRule(),
		security.RequireDigitRule(),
		security.RequireSymbolRule(),
		security.RequirePasswordStrengthRule(2),
	)

	authService := usecase.NewAuthService(repos.Accounts, tokenService, log)
	registrationService := usecase.NewRegistrationService(cfg, repos.Accounts, tokenService, passwordValidator, mailSender, eventPublisher, log)
	accountService := usecase.NewAccountService(repos.Accounts, passwordValidator, log)
	memeService := usecase.NewMemeService(repos.Memes, eventPublisher, log)
	notificationService := usecase.NewNotificationService(repos.Notifications, repos.Accounts, eventPublisher, log)
	matchService := usecase.NewMatchService(repos.Matches, repos.Accounts, notificationService, eventPublisher, log)

	cookies := handlers.NewSessionCookies(cfg.Cookies, tokenService.AccessTTL(), tokenService.RefreshTTL())

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Cookies:     cookies,
		Metrics:     metrics,
		Database:    pool,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			Accounts:      accountService,
			Memes:         memeService,
			Matches:       matchService,
			Notifications: notificationService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting memematch API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
