// Package app assembles the HTTP API from its configuration, database and notification
// sender.
package app

import (
	"claims-management-api/auth"
	"claims-management-api/config"
	"claims-management-api/handlers"
	"claims-management-api/logger"
	"claims-management-api/metrics"
	"claims-management-api/middleware"
	"claims-management-api/notifier"
	"claims-management-api/routes"
	"claims-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type App struct {
	Router     *gin.Engine
	DB         *gorm.DB
	Dispatcher *notifier.Dispatcher
	Users      *services.UserService
	Policies   *services.PolicyService
	Claims     *services.ClaimService
}

func New(cfg config.Config, db *gorm.DB, sender notifier.Sender) (*App, error) {
	log := logger.New("app").Function("New")

	if err := handlers.RegisterValidators(); err != nil {
		return nil, log.Err("failed to register validators", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	dispatcher := notifier.NewDispatcher(sender, cfg.Notify.QueueSize, cfg.Notify.Timeout)
	guard := middleware.NewGuard(tokens, db)

	users := services.NewUserService(db, tokens)
	policies := services.NewPolicyService(db)
	claims := services.NewClaimService(db, dispatcher)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigin),
	)
	routes.SetupRoutes(r, routes.Handlers{
		Users:    handlers.NewUserHandler(users, guard),
		Policies: handlers.NewPolicyHandler(policies),
		Claims:   handlers.NewClaimHandler(claims, guard),
	}, guard)

	log.Info("application assembled", "notifier", sender.Name())
	return &App{
		Router:     r,
		DB:         db,
		Dispatcher: dispatcher,
		Users:      users,
		Policies:   policies,
		Claims:     claims,
	}, nil
}

// Close drains pending notifications. The database is owned by the caller.
func (a *App) Close() {
	a.Dispatcher.Close()
}
