package routes

import (
	"claims-management-api/handlers"
	"claims-management-api/metrics"
	"claims-management-api/middleware"
	"claims-management-api/models"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users    *handlers.UserHandler
	Policies *handlers.PolicyHandler
	Claims   *handlers.ClaimHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, guard *middleware.Guard) {
	authed := guard.AuthRequired()
	account := guard.AccountRequired()
	admin := guard.RoleRequired(models.RoleAdmin)

	// ── Operational ────────────────────────────────────────────────
	r.GET("/", handlers.Welcome)
	r.GET("/health", handlers.Health)
	r.GET("/metrics", metrics.Handler())
	r.GET("/api-docs", handlers.APIDocs)
	r.GET("/api-docs/openapi.yaml", handlers.APISpecYAML)

	// ── Users ──────────────────────────────────────────────────────
	users := r.Group("/users")
	{
		users.POST("", h.Users.Register)
		users.POST("/login", h.Users.Login)
		users.GET("/policies", authed, account, h.Users.PurchasedPolicies)

		users.GET("", authed, admin, h.Users.List)
		users.GET("/:id", authed, account, h.Users.Get)
		users.PUT("/:id", authed, admin, h.Users.Update)
		users.DELETE("/:id", authed, admin, h.Users.Delete)
	}

	// ── Policies ───────────────────────────────────────────────────
	policies := r.Group("/policies")
	{
		policies.GET("", h.Policies.List)
		policies.GET("/:id", h.Policies.Get)
		policies.POST("", authed, admin, h.Policies.Create)
		policies.DELETE("/:id", authed, admin, h.Policies.Delete)
		policies.POST("/buy/:policyId", authed, account, h.Policies.Buy)
	}

	// ── Claims ─────────────────────────────────────────────────────
	claims := r.Group("/claims")
	{
		claims.GET("/statuses", h.Claims.Statuses)

		claims.GET("", authed, admin, h.Claims.List)
		claims.GET("/userClaims", authed, account, h.Claims.Mine)
		claims.POST("", authed, account, h.Claims.Create)
		claims.GET("/:id", authed, account, h.Claims.Get)
		claims.PUT("/:id/status", authed, admin, h.Claims.UpdateStatus)
		claims.DELETE("/:id", authed, admin, h.Claims.Delete)
	}
}
