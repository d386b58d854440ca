package handlers

import (
	"IonAuth/internal/config"
	"IonAuth/internal/middleware"
	"IonAuth/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler собирает набор маршрутов.
// userService == nil означает, что БД недоступна: монтируются только серверные маршруты,
// а dbErr попадает в тело 404.
func NewHandler(
	userService *service.UserService,
	dbErr error,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Server Endpoints
	serverHandler := NewServerHandler(userService != nil)
	r.Get("/healthz", serverHandler.Health)
	r.Method("GET", "/metrics", middleware.MetricsHandler())

	// REST API Endpoints
	if userService != nil {
		userHandler := NewUserHandler(userService, logger, config)
		r.Post("/api/signup", userHandler.Signup)
		r.Post("/api/login", userHandler.Login)
		r.Get("/api/me", userHandler.Me)
	}

	// 404 в конце, в том числе для неподходящего метода
	notFound := NotFound(dbErr)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return &Handler{Router: r}
}
