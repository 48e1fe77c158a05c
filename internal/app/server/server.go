package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/assistant"
	"geniehr/internal/domain/audit"
	"geniehr/internal/domain/batch"
	"geniehr/internal/domain/notify"
	"geniehr/internal/domain/sync"
	"geniehr/internal/platform/config"
	"geniehr/internal/platform/db"
	"geniehr/internal/platform/email"
	"geniehr/internal/platform/fx"
	"geniehr/internal/platform/jobs"
	"geniehr/internal/platform/metrics"
	assistanthandler "geniehr/internal/transport/http/handlers/assistant"
	audithandler "geniehr/internal/transport/http/handlers/audit"
	authhandler "geniehr/internal/transport/http/handlers/auth"
	batchhandler "geniehr/internal/transport/http/handlers/batch"
	notifyhandler "geniehr/internal/transport/http/handlers/notify"
	synchandler "geniehr/internal/transport/http/handlers/sync"
	systemhandler "geniehr/internal/transport/http/handlers/system"
	webhookhandler "geniehr/internal/transport/http/handlers/webhooks"
	"geniehr/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	rates := fx.New(cfg.FXRatesPath, cfg.FXQuoteTTL, cfg.FXLockTTL)
	if err := rates.Load(); err != nil {
		log.Printf("fx rates load failed, quotes unavailable until refresh: %v", err)
	}

	collector := metrics.New()
	auditSvc := audit.New(pool)

	batchStore := batch.NewStore(pool)
	batches := batch.NewService(batchStore, cfg.EmployerTaxRate, cfg.PlatformFeeRate)

	syncSvc := sync.NewService(sync.NewStore(pool))

	mailer := email.New(cfg)
	notifier := notify.New(notify.NewStore(pool), mailer, cfg.EmailFrom)

	runner := jobs.New(pool, cfg, rates)
	runner.Start(ctx)

	dispatcher := assistant.NewDispatcher(assistant.NewActions(assistant.ActionDeps{
		Batches:      batches,
		Sync:         syncSvc,
		Payees:       batchStore,
		Rates:        rates,
		EmployerRate: cfg.EmployerTaxRate,
		FeeRate:      cfg.PlatformFeeRate,
	}))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

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

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(pool, cfg.JWTSecret, auditSvc).RegisterRoutes(r)
		batchhandler.NewHandler(batches, rates, runner, auditSvc, notifier, collector, cfg.EmployerTaxRate, cfg.PlatformFeeRate).RegisterRoutes(r)
		synchandler.NewHandler(syncSvc).RegisterRoutes(r)
		assistanthandler.NewHandler(dispatcher).RegisterRoutes(r)
		webhookhandler.NewHandler(cfg, nil, collector).RegisterRoutes(r)
		notifyhandler.NewHandler(notifier).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		systemhandler.NewHandler(collector, cfg.MetricsEnabled).RegisterRoutes(r)
	})

	log.Printf("geniehr server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
