package main

import (
	"context"   // Context for shutdown and Redis operations
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"blog_system/internal/api"        // Custom package for API handlers
	"blog_system/internal/config"     // Custom package for configuration
	"blog_system/internal/db"         // Custom package for storage setup
	"blog_system/internal/domain"     // Password hashing cost
	"blog_system/internal/middleware" // Custom package for middleware
	"blog_system/internal/repository" // Repositories
	"blog_system/internal/utils"      // Cache implementations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	domain.PasswordCost = cfg.BcryptCost

	// Setup the persistence layer
	st, err := db.OpenStore(cfg)
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err) // Fatal error if DB connection fails
	}

	// Setup the optional Redis cache
	var cache utils.Cache = utils.NopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cancel()
		defer redisClient.Close()
		cache = utils.NewRedisCache(redisClient)
	}

	users := repository.NewUserRepository(st, cache, cfg.CacheTTL)
	posts := repository.NewPostRepository(st, cache, cfg.CacheTTL)

	// Set Mode to Release if in production
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.RouterConfig{
		Users:            users,
		Posts:            posts,
		Strategies:       strategies(cfg, users),
		EnforceOwnership: cfg.EnforceOwnership,
		TokenSecret:      cfg.JWTSecret,
		TokenTTL:         cfg.JWTTTL,
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for a termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

// setupLogger configures the global logrus logger
func setupLogger(cfg *config.Config) {
	if cfg.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// strategies selects the auth strategies guarding protected routes
func strategies(cfg *config.Config, users *repository.UserRepository) []middleware.Strategy {
	basic := middleware.BasicStrategy{Users: users}
	var resolver middleware.TokenResolver
	if cfg.JWTSecret != "" {
		resolver = middleware.JWTResolver{Secret: cfg.JWTSecret, Users: users}
	} else {
		logrus.WithField("user_id", cfg.APITokenUserID).Warn("Bearer tokens use the static development token")
		resolver = middleware.StaticTokenResolver{Token: cfg.APIToken, UserID: cfg.APITokenUserID, Users: users}
	}
	token := middleware.TokenStrategy{Resolver: resolver}

	switch cfg.AuthStrategy {
	case config.AuthToken:
		return []middleware.Strategy{token}
	case config.AuthAny:
		return []middleware.Strategy{basic, token}
	default:
		return []middleware.Strategy{basic}
	}
}
