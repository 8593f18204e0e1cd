package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tailored-agentic-units/bidon/config"
	"github.com/tailored-agentic-units/bidon/observability"
	"github.com/tailored-agentic-units/bidon/registry"
	"github.com/tailored-agentic-units/bidon/server"
	"github.com/tailored-agentic-units/bidon/snapshot"
)

func main() {
	var (
		configFile     = flag.String("config", "", "Path to config file, JSON or YAML (optional)")
		envFile        = flag.String("env", ".env", "Path to .env file; skipped when missing")
		addr           = flag.String("addr", "", "Listen address (overrides config)")
		logLevel       = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		snapshotDriver = flag.String("snapshot-driver", "", "Snapshot backend: file or bolt (overrides config)")
		snapshotPath   = flag.String("snapshot-path", "", "Snapshot directory or database file (overrides config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.Merge(&config.Config{
		Server:   server.Config{Addr: *addr},
		Snapshot: snapshot.Config{Driver: *snapshotDriver, Path: *snapshotPath},
		Log:      observability.Config{Level: *logLevel},
	})

	logger, err := observability.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bidon stopped", "error", err)
		os.Exit(1)
	}
}

func loadConfig(configFile, envFile string) (*config.Config, error) {
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observer, err := observability.GetObserver(cfg.Log.Observer)
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(&cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	opts := []registry.Option{registry.WithObserver(observer)}
	if store != nil {
		defer store.Close()
		opts = append(opts, registry.WithStore(store))
		logger.Info("snapshots enabled", "driver", cfg.Snapshot.Driver, "path", cfg.Snapshot.Path)
	}

	reg, err := registry.Start(context.WithoutCancel(ctx), cfg.Registry, opts...)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.Server, reg, logger)
	if err != nil {
		reg.Shutdown(cfg.Registry.BootstrapTimeout)
		return err
	}

	serveErr := srv.ListenAndServe(ctx)

	if err := reg.Shutdown(srv.ShutdownTimeout()); err != nil {
		logger.Warn("registry shutdown", "error", err)
	}
	return serveErr
}
