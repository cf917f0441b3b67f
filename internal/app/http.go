package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/auth/credentials"
	"github.com/NixoNetwork/main/internal/auth/handler"
	"github.com/NixoNetwork/main/internal/auth/provider"
	"github.com/NixoNetwork/main/internal/auth/provider/google"
	"github.com/NixoNetwork/main/internal/auth/provider/twitter"
	"github.com/NixoNetwork/main/internal/auth/resolver"
	"github.com/NixoNetwork/main/internal/config"
	"github.com/NixoNetwork/main/internal/metrics"
	"github.com/NixoNetwork/main/internal/middleware"
	"github.com/NixoNetwork/main/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionIssuer, err := session.NewIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, nil, err
	}

	identityResolver := resolver.New(infra.Store)
	credentialService := credentials.NewService(infra.Store)

	googleVerifier, err := google.New(ctx, cfg.GoogleClientID)
	if err != nil {
		return nil, nil, err
	}

	twitterProvider, err := twitter.New(
		cfg.TwitterClientID,
		cfg.TwitterClientSecret,
		cfg.TwitterRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(twitterProvider)

	authHandler := handler.NewHandler(
		registry,
		googleVerifier,
		infra.States,
		identityResolver,
		credentialService,
		sessionIssuer,
		infra.Store,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionIssuer)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	startedAt := time.Now()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"uptime":    time.Since(startedAt).Seconds(),
			"timestamp": time.Now().UnixMilli(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ----------------------------
	// Protected Routes
	// ----------------------------

	users := router.Group("/users")
	users.Use(authMiddleware.RequireAuth())
	authHandler.RegisterUserRoutes(users)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.cleanup, nil
}
