package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"wheelbot/internal/config"
	"wheelbot/internal/game"
)

// API is the ops surface: balance lookups, manual reconciliation credits
// and a health/stats endpoint. It is not player-facing.
type API struct {
	router    *mux.Router
	game      *game.Service
	config    *config.Config
	jwtSecret []byte
}

func New(cfg *config.Config, svc *game.Service) *API {
	api := &API{
		router:    mux.NewRouter(),
		game:      svc,
		config:    cfg,
		jwtSecret: []byte(cfg.JWTSecret),
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Public endpoints
	a.router.HandleFunc("/api/health", a.handleHealth).Methods("GET")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/users/{user_id}/balance", a.handleBalance).Methods("GET")
	protected.HandleFunc("/users/{user_id}/credit", a.handleCredit).Methods("POST")
	protected.HandleFunc("/stats", a.handleStats).Methods("GET")
}

func (a *API) Start() error {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
