package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "github.com/emfoursolutions/mtxbridge/internal/api/context"
	"github.com/emfoursolutions/mtxbridge/internal/api/handlers"
	"github.com/emfoursolutions/mtxbridge/internal/api/middleware"
	"github.com/emfoursolutions/mtxbridge/internal/pkg/errors"
	"github.com/emfoursolutions/mtxbridge/internal/platform/auth"
)

type Dependencies struct {
	MediaMTXHandler *handlers.MediaMTXHandler
	AuthHandler     *handlers.AuthHandler
	CustomerHandler *handlers.CustomerHandler
	APIKeyHandler   *handlers.APIKeyHandler
	AuditHandler    *handlers.AuditHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	rl := deps.RateLimiter
	authMid := deps.AuthMiddleware

	// MediaMTX callbacks
	router.POST("/api/mediamtx/auth",
		chain(deps.MediaMTXHandler.Auth, rl.Limit("auth_hook")))
	router.POST("/api/mediamtx/webhook",
		chain(deps.MediaMTXHandler.Event, rl.Limit("auth_hook")))

	// Admin authentication
	router.POST("/api/v1/auth/login",
		chain(deps.AuthHandler.Login, rl.Limit("api_write")))

	// Customer management
	router.POST("/api/v1/customers",
		chain(deps.CustomerHandler.Create, authMid.Handle, requireAdmin(), rl.Limit("api_write")))
	router.GET("/api/v1/customers",
		chain(deps.CustomerHandler.List, authMid.Handle, rl.Limit("api_read")))
	router.GET("/api/v1/customers/:customer_id",
		chain(deps.CustomerHandler.Get, authMid.Handle, rl.Limit("api_read")))
	router.PATCH("/api/v1/customers/:customer_id",
		chain(deps.CustomerHandler.Update, authMid.Handle, requireAdmin(), rl.Limit("api_write")))
	router.POST("/api/v1/customers/:customer_id/deactivate",
		chain(deps.CustomerHandler.Deactivate, authMid.Handle, requireAdmin(), rl.Limit("api_write")))
	router.DELETE("/api/v1/customers/:customer_id",
		chain(deps.CustomerHandler.Delete, authMid.Handle, requireAdmin(), rl.Limit("api_write")))

	// API key management
	router.POST("/api/v1/customers/:customer_id/keys",
		chain(deps.APIKeyHandler.Create, authMid.Handle, requireAdmin(), rl.Limit("api_write")))
	router.GET("/api/v1/customers/:customer_id/keys",
		chain(deps.APIKeyHandler.List, authMid.Handle, rl.Limit("api_read")))
	router.POST("/api/v1/keys/:key_id/revoke",
		chain(deps.APIKeyHandler.Revoke, authMid.Handle, requireAdmin(), rl.Limit("api_write")))
	router.DELETE("/api/v1/keys/:key_id",
		chain(deps.APIKeyHandler.Delete, authMid.Handle, requireAdmin(), rl.Limit("api_write")))

	// Audit trail
	router.GET("/api/v1/audit",
		chain(deps.AuditHandler.List, authMid.Handle, requireAdmin(), rl.Limit("api_read")))

	router.GET("/health", wrap(deps.HealthHandler.Check))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			if !claims.IsAdmin {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
