package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/taskminder/internal/handler"
	"github.com/dukerupert/taskminder/internal/middleware"
	"github.com/dukerupert/taskminder/internal/planner"
	"github.com/dukerupert/taskminder/internal/store"
	ws "github.com/dukerupert/taskminder/internal/websocket"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Config carries the request-path settings the server needs.
type Config struct {
	Location       *time.Location
	SessionTTL     time.Duration
	AllowedOrigins []string
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	taskH        *handler.TaskHandler
	shoppingH    *handler.ShoppingHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	origins      []string
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db, cfg.SessionTTL)

	accounts := planner.NewAccountService(userStore)
	tasks := planner.NewTaskService(store.NewTaskStore(db), planner.WithLocation(loc))
	shopping := planner.NewShoppingService(store.NewShoppingStore(db))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(accounts, sessionStore, hub, logger.With("component", "auth")),
		taskH:        handler.NewTaskHandler(tasks, hub, logger.With("component", "task")),
		shoppingH:    handler.NewShoppingHandler(shopping, hub, logger.With("component", "shopping")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(authRateLimit, authRateWindow),
		origins:      cfg.AllowedOrigins,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /logout", s.authH.Logout)
	outerMux.HandleFunc("GET /health", handler.Health(s.db))

	// Protected routes need a live session
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireSession(s.sessionStore, s.logger.With("component", "session"))
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	return rl(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("DELETE /api/account", s.authH.DeleteAccount)

	// Task API routes
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("GET /api/stats", s.taskH.Stats)

	// Shopping list API routes
	mux.HandleFunc("GET /api/shopping-items", s.shoppingH.List)
	mux.HandleFunc("POST /api/shopping-items", s.shoppingH.Create)
	mux.HandleFunc("PUT /api/shopping-items/{id}", s.shoppingH.Update)
	mux.HandleFunc("DELETE /api/shopping-items/{id}", s.shoppingH.Delete)
	mux.HandleFunc("POST /api/shopping-items/{id}/toggle", s.shoppingH.Toggle)
	mux.HandleFunc("POST /api/shopping-items/clear-purchased", s.shoppingH.ClearPurchased)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket"), s.origins...))
}
