package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peopledesk/internal/domain/core"
	"peopledesk/internal/domain/review"
	"peopledesk/internal/platform/config"
	"peopledesk/internal/platform/db"
	authhandler "peopledesk/internal/transport/http/handlers/auth"
	corehandler "peopledesk/internal/transport/http/handlers/core"
	reportshandler "peopledesk/internal/transport/http/handlers/reports"
	reviewhandler "peopledesk/internal/transport/http/handlers/review"
	"peopledesk/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects, migrates and seeds, then builds the HTTP surface.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	coreStore := core.NewStore(pool)
	reviewStore := review.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))
		authhandler.NewHandler(coreStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		corehandler.NewHandler(coreStore).RegisterRoutes(r)
		reviewhandler.NewHandler(reviewStore, coreStore).RegisterRoutes(r)
		reportshandler.NewHandler(coreStore).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("peopledesk server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
