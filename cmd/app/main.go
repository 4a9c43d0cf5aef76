package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"authform/configs"
	"authform/internal/adapter"
	"authform/internal/database"
	delivery "authform/internal/delivery/http"
	"authform/internal/domain"
	"authform/internal/infra"
	"authform/internal/logger"
	"authform/internal/middleware"
	"authform/internal/repository"
	"authform/internal/service"
	"authform/internal/usecase"
)

func main() {
	envErr := godotenv.Load()

	cfg := configs.Load()

	log := logger.New(cfg.Log.Level, cfg.Server.Env)
	defer log.Sync()

	if envErr != nil {
		log.Warn(".env file not found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration rejected", zap.Error(err))
	}

	ctx := context.Background()
	tokens := middleware.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		provider    domain.AuthProvider
		revoker     domain.SessionRevoker
		purger      infra.SessionPurger
		health      delivery.HealthChecker
		userHandler *delivery.UserHandler
		requireAuth echo.MiddlewareFunc
	)

	switch cfg.Auth.Provider {
	case configs.ProviderRemote:
		remote := adapter.NewRemoteProvider(cfg.Auth.RemoteURL, cfg.Auth.Timeout)
		if err := remote.HealthCheck(ctx); err != nil {
			log.Warn("auth service is not available, submissions will fail until it is", zap.Error(err))
		}
		provider = remote
		health = remote.HealthCheck

	default:
		db, err := infra.NewDatabase(ctx, cfg.Database.URL, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}

		userRepo := repository.NewUserRepository(db)
		sessionRepo := repository.NewSessionRepository(db)
		local := service.NewLocalProvider(userRepo, sessionRepo, tokens, cfg.Auth.SessionTTL,
			logger.WithComponent(log, "local_provider"))

		provider, revoker, purger = local, local, local
		health = db.Ping
		userHandler = delivery.NewUserHandler(userRepo, logger.WithComponent(log, "user_handler"))
		requireAuth = middleware.AuthMiddleware(tokens, local)
	}

	forms := usecase.NewFormRegistry(provider, cfg.Forms.MaxOpen, logger.WithComponent(log, "auth_form"))

	scheduler := infra.NewScheduler(purger, forms, cfg.Forms.IdleTTL, logger.WithComponent(log, "scheduler"))
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler: delivery.NewAuthHandler(forms, revoker, tokens.TTL(), cfg.Server.SecureCookie,
			logger.WithComponent(log, "auth_handler")),
		UserHandler: userHandler,
		RequireAuth: requireAuth,
		Health:      health,
	})

	apiSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Auth.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	opsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.OpsPort),
		Handler:      newOpsRouter(health, forms),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	for name, srv := range map[string]*http.Server{"api": apiSrv, "ops": opsSrv} {
		name, srv := name, srv
		go func() {
			log.Info("server starting", zap.String("server", name), zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("failed to start server", zap.String("server", name), zap.Error(err))
			}
		}()
	}

	log.Info("authform started",
		zap.String("env", cfg.Server.Env),
		zap.String("provider", cfg.Auth.Provider),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for name, srv := range map[string]*http.Server{"api": apiSrv, "ops": opsSrv} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", zap.String("server", name), zap.Error(err))
		}
	}

	log.Info("server exited gracefully")
}
