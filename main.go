// ABOUTME: Entry point for the EcoFinds web frontend
// ABOUTME: Serves server-rendered pages over the EcoFinds REST backend

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/config"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/handlers"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/logger"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/middleware"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

func main() {
	logger.Init("ecofinds-web")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting EcoFinds web frontend")
	slog.Info("Backend configured", "url", cfg.APIBaseURL, "timeout_s", cfg.APITimeout)

	c := cache.New(time.Duration(cfg.CacheTTL) * time.Second)

	// Session storage: Redis when configured, in-process otherwise
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Second
	var factory services.StoreFactory
	if cfg.RedisConfigured() {
		redis, err := store.NewRedisClient(cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redis.Close()
		slog.Info("Session storage: Redis")
		factory = func(sessionID string) store.Store {
			return redis.Scoped("session:"+sessionID+":", sessionTTL)
		}
	} else {
		slog.Info("Session storage: in-process memory")
		sessionCache := cache.New(sessionTTL)
		factory = func(sessionID string) store.Store {
			return store.NewMemoryStore(sessionCache, "session:"+sessionID+":", sessionTTL)
		}
	}
	sessions := services.NewWebSessions(factory)

	templates := handlers.NewTemplateCache()
	if err := templates.Load(cfg.TemplatesDir); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandler(cfg, c, sessions, templates)
	guard := middleware.NewGuard(sessions)

	router := mux.NewRouter()
	h.RegisterRoutes(router, guard)

	// Tighter limits for credential and listing-mutation endpoints
	var defaultLimiter, authLimiter, writeLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, cfg.RateLimitDefault)
		authLimiter = middleware.NewRateLimiter(cfg.RateLimitAuth, cfg.RateLimitAuth)
		writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, cfg.RateLimitWrite)
	}

	handler := middleware.Chain(router,
		middleware.Recover,
		middleware.LogRequest,
		middleware.SecurityHeaders,
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(defaultLimiter, middleware.SessionKey),
		middleware.RateLimitWhere(credentialPost, authLimiter, middleware.ClientIP),
		middleware.RateLimitWhere(listingMutation, writeLimiter, middleware.SessionKey),
		middleware.CSRF(sessions),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// credentialPost selects the login, register, and password-reset posts.
func credentialPost(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	switch r.URL.Path {
	case "/login", "/register", "/forgot-password":
		return true
	}
	return false
}

// listingMutationPath covers create, update, delete, and toggle.
var listingMutationPath = regexp.MustCompile(`^/products(/[0-9]+(/delete|/toggle)?)?$`)

// listingMutation selects posts that change a listing.
func listingMutation(r *http.Request) bool {
	return r.Method == http.MethodPost && listingMutationPath.MatchString(r.URL.Path)
}
