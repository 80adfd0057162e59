package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/emfoursolutions/mtxbridge/internal/api"
	"github.com/emfoursolutions/mtxbridge/internal/api/handlers"
	"github.com/emfoursolutions/mtxbridge/internal/api/middleware"
	"github.com/emfoursolutions/mtxbridge/internal/engine/streamauth"
	"github.com/emfoursolutions/mtxbridge/internal/pkg/logger"
	"github.com/emfoursolutions/mtxbridge/internal/platform/audit"
	"github.com/emfoursolutions/mtxbridge/internal/platform/auth"
	"github.com/emfoursolutions/mtxbridge/internal/platform/config"
	"github.com/emfoursolutions/mtxbridge/internal/platform/database"
	"github.com/emfoursolutions/mtxbridge/internal/platform/repositories"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	customerRepo := repositories.NewCustomerRepository(db)
	userRepo := repositories.NewUserRepository(db)
	keyRepo := repositories.NewAPIKeyRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLog := audit.NewLogger(db)
	verifier := streamauth.NewVerifier(keyRepo, customerRepo)
	authorizer := streamauth.NewAuthorizer(verifier, cfg.MediaMTX.KeyPrefix, auditLog)

	// Handlers
	mediamtxHandler := handlers.NewMediaMTXHandler(authorizer, cfg.MediaMTX.WebhookSecret)
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	apiKeyHandler := handlers.NewAPIKeyHandler(keyRepo, customerRepo, cfg.MediaMTX)
	auditHandler := handlers.NewAuditHandler(auditLog)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	deps := &api.Dependencies{
		MediaMTXHandler: mediamtxHandler,
		AuthHandler:     authHandler,
		CustomerHandler: customerHandler,
		APIKeyHandler:   apiKeyHandler,
		AuditHandler:    auditHandler,
		HealthHandler:   healthHandler,
		AuthMiddleware:  authMiddleware,
		RateLimiter:     rateLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
