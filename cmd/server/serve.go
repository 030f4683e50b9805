package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_service/internal/config"
	"user_service/internal/handler"
	"user_service/internal/health"
	"user_service/internal/logging"
	"user_service/internal/metrics"
	"user_service/internal/middleware"
	"user_service/internal/repository"
	"user_service/internal/service"
	"user_service/internal/utils"
	"user_service/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. With STORE=postgres the database is migrated
before the listener starts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to start", err)
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.LogError(logger, "listen failed", err)
			return oops.Code("LISTEN_FAILED").Wrap(err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("server exited")
	return nil
}

// app is the wired service: store, domain services and router.
type app struct {
	router  *gin.Engine
	metrics *metrics.Metrics
	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{metrics: metrics.New()}

	var (
		userRepo repository.UserRepository
		checkers []health.Checker
	)
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := config.ConnectDB(ctx, cfg.DB, logger)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := config.Migrate(ctx, pool, logger); err != nil {
			a.Close()
			return nil, oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		userRepo = repository.NewUserRepository(pool)
		checkers = append(checkers, health.NewPostgresChecker(pool))
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		userRepo = repository.NewMemoryUserRepository()
	}

	validator, err := validation.New(cfg.Validation)
	if err != nil {
		a.Close()
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	hasher := utils.NewBcryptHasher()
	jwtUtil := utils.NewJWTUtil(cfg.JWT.SecretKey, cfg.JWT.ExpirationHours, cfg.JWT.Issuer)
	userService := service.NewUserService(
		userRepo,
		validator,
		hasher,
		jwtUtil,
		service.NewPasswordAuthenticator(hasher),
		logger,
		a.metrics,
	)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(a.metrics))
	router.Use(middleware.CORS())

	apiGroup := router.Group("/api/v1")
	handler.NewUserHandler(userService, logger).RegisterUserRoutes(apiGroup, middleware.JWTAuthMiddleware(jwtUtil))
	handler.NewHealthHandler(health.NewService(checkers...)).RegisterHealthRoutes(router)
	router.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	a.router = router
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
