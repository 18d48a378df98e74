package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "premolt/internal/adapters/http"
	pg "premolt/internal/adapters/postgres"
	"premolt/internal/adapters/rediscache"
	"premolt/internal/config"
	"premolt/internal/logger"
	"premolt/internal/ports"
	agentsvc "premolt/internal/services/agents"
	catalogsvc "premolt/internal/services/catalog"
	"premolt/internal/services/verifier"
)

func main() {
	cfg, err := config.Load()
	log := logger.New("premolt", cfg.LogLevel)
	if err != nil {
		log.Warn("config", "warning", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		n, err := db.Migrate(ctx)
		if err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied", "count", n)
	}

	// Wire repositories to services (ports)
	var registry ports.MalwareRegistry = db
	if cfg.RedisAddr != "" {
		client, err := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("redis client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		registry = rediscache.New(client, db, cfg.RegistryCacheTTL, log.Named("registry-cache"))
		log.Info("registry cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RegistryCacheTTL)
	}

	attestor, err := verifier.NewAttestor([]byte(cfg.AttestationSecret), cfg.ServiceDomain, cfg.ServiceName)
	if err != nil {
		log.Error("attestor", "error", err)
		os.Exit(1)
	}
	verify := verifier.New(registry, db, db, attestor, log.Named("verifier"))
	agents := agentsvc.New(db, db)
	catalog := catalogsvc.New(db, registry)

	srv := httpadapter.New(verify, agents, catalog, log.Named("http"))
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	log.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
		cancel()
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
