// Package server provides the HTTP REST API for the jobtrack system.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ekaraca/jobtrack/internal/config"
	"github.com/ekaraca/jobtrack/internal/db"
	"github.com/ekaraca/jobtrack/internal/server/middleware"
	"github.com/ekaraca/jobtrack/internal/server/ratelimit"
	"github.com/ekaraca/jobtrack/internal/storage"
	"github.com/ekaraca/jobtrack/internal/taxonomy"
	"github.com/ekaraca/jobtrack/internal/types"
)

// RecordStore is the persistence surface the handlers need. *db.DB
// satisfies it; tests substitute a fake.
type RecordStore interface {
	ListApplications(ctx context.Context, userID uuid.UUID) ([]types.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	CreateApplication(ctx context.Context, form *types.ApplicationForm, userID uuid.UUID) (*types.Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, patch types.ApplicationPatch) (*types.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	TogglePin(ctx context.Context, id uuid.UUID, current bool) (*types.Application, error)
	SuggestSkills(ctx context.Context, userID uuid.UUID, prefix string, limit int) ([]string, error)
	GetUserSettings(ctx context.Context, userID uuid.UUID) (*db.UserSettings, error)
	UpsertUserSettings(ctx context.Context, userID uuid.UUID, hideRejected bool, customSources, customIndustries []string) (*db.UserSettings, error)
}

// ObjectStore stores and serves resume binaries.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	records     RecordStore
	objects     ObjectStore
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	logger      *logrus.Logger
}

// Config holds server configuration.
type Config struct {
	Port        int
	DatabaseURL string
	StorageRoot string
	Verbose     bool
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	objects, err := storage.NewFileStore(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	s := &Server{
		db:      database,
		records: database,
		objects: objects,
		logger:  logger,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	handler := s.routes(middleware.Auth(s.jwtService.AsTokenValidator()))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(handler))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. The auth wrapper guards every route that reads
// or writes user data; register, login and health stay open.
func (s *Server) routes(authed func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", authed(http.HandlerFunc(s.handleUpdatePassword)))
	mux.HandleFunc("GET /health", s.handleHealth)

	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	// Application CRUD plus the derived views
	protect("GET /applications", s.handleListApplications)
	protect("POST /applications", s.handleCreateApplication)
	protect("GET /applications/board", s.handleBoard)
	protect("GET /applications/{id}", s.handleGetApplication)
	protect("PUT /applications/{id}", s.handleUpdateApplication)
	protect("DELETE /applications/{id}", s.handleDeleteApplication)

	// Fast paths for high-frequency interactions
	protect("PUT /applications/{id}/status", s.handleSetStatus)
	protect("PUT /applications/{id}/notes", s.handleSetNotes)
	protect("POST /applications/{id}/pin", s.handleTogglePin)

	// Resume object
	protect("POST /applications/{id}/resume", s.handleUploadResume)
	protect("GET /applications/{id}/resume", s.handleDownloadResume)

	// Settings and taxonomy
	protect("GET /settings", s.handleGetSettings)
	protect("PUT /settings", s.handleUpdateSettings)
	protect("GET /taxonomy", s.handleGetTaxonomy)

	// Skills autocomplete
	protect("GET /skills/suggest", s.handleSuggestSkills)

	return mux
}

// Start begins listening for requests and blocks until an interrupt or
// SIGTERM triggers a graceful shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

// withRateLimit enforces the per-client request budgets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.logger.WithFields(logrus.Fields{
				"client": clientID,
				"path":   r.URL.Path,
			}).Warn("rate limit exceeded")
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":    "rate_limit_exceeded",
				"limit":    info.Limit,
				"reset_at": info.ResetTime.Format(time.RFC3339),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request. This uses
// the IP from RemoteAddr; X-Forwarded-For would only be safe behind a
// trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword handles password update requests for the
// authenticated user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// handleGetTaxonomy returns the layered source and industry lists for the
// authenticated user.
func (s *Server) handleGetTaxonomy(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store := taxonomy.New(s.records)
	if err := store.Load(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string][]string{
		"sources":    store.AllSources(),
		"industries": store.AllIndustries(),
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
