// Package main is the entry point for the member portal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/membergate/member-portal/docs"
	"github.com/membergate/member-portal/internal/config"
	"github.com/membergate/member-portal/internal/handlers"
	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/media"
	"github.com/membergate/member-portal/internal/metrics"
	"github.com/membergate/member-portal/internal/repository"
	"github.com/membergate/member-portal/internal/routes"
	"github.com/membergate/member-portal/internal/service"
	"github.com/membergate/member-portal/pkg/database"
	"github.com/membergate/member-portal/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
)

// retentionInterval is how often old auth attempts are purged.
const retentionInterval = 24 * time.Hour

// @title Member Portal API
// @version 1.0
// @description Member registration, sign-in and status administration
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	logger := logging.NewDefault()

	// Initialize database
	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient := redis.NewClient(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	// Initialize services
	hasher := service.NewPasswordHasher()
	sessions, err := service.NewSessionService(cfg.SessionSecret, cfg.SessionMaxAge, cfg.SessionUpdateAge, redisClient)
	if err != nil {
		log.Fatal("Failed to create session service:", err)
	}
	authService := service.NewAuthService(userRepo, attemptRepo, hasher, cfg.LockoutMaxAttempts, cfg.LockoutWindow, logger)
	memberService := service.NewMemberService(userRepo, logger)
	retention := service.NewRetentionService(attemptRepo, cfg.AttemptRetention, retentionInterval, logger)

	// Initialize handlers
	m := metrics.New(prometheus.DefaultRegisterer)
	cookies := handlers.NewCookieHelper(cfg.Cookie)
	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, sessions, cookies, m, logger),
		Members: handlers.NewMemberHandler(memberService, logger),
		Pages:   handlers.NewPageHandler(),
		Health:  handlers.NewHealthHandler(),
		Cookies: cookies,
	}

	// Object storage is optional; without it the media routes stay unmounted.
	if cfg.S3Bucket != "" {
		mediaService, err := media.NewService(ctx, media.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatal("Failed to create media service:", err)
		}
		h.Media = handlers.NewMediaHandler(mediaService, logger)
	}

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	routes.Setup(router, cfg, sessions, h)

	// Background purge of aged auth attempts
	go retention.Run(ctx)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}
	go func() {
		log.Printf("Starting member portal on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
