// cmd/diet-calc/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mcp-diet-calc/internal/catalog"
	"mcp-diet-calc/internal/logger"
	"mcp-diet-calc/internal/server"
	"mcp-diet-calc/internal/storage"
)

func main() {
	os.Exit(run())
}

// run holds the whole program so deferred cleanup, the logger flush
// included, happens before main exits.
func run() int {
	// .env is optional; real environment variables win
	envErr := godotenv.Load()

	cfg := server.DefaultConfig()

	var (
		port        = flag.Int("port", cfg.Port, "Port for HTTP transport")
		host        = flag.String("host", cfg.Host, "Host address")
		address     = flag.String("address", "", "Address (alias for host)")
		source      = flag.String("catalog", cfg.CatalogSource, "Food catalog: URL, .json/.yaml file or .db store")
		dbPath      = flag.String("db-path", cfg.DBPath, "Catalog store written by -import")
		importOnly  = flag.Bool("import", false, "Import -catalog into -db-path and exit")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("diet-calc version 1.0.0")
		return 0
	}

	logger.InitializeLogger(cfg.Env)
	defer logger.Close()

	if envErr != nil {
		logger.Info("no .env file found, using system env vars")
	}

	// Use address if provided, otherwise use host
	cfg.Host = *host
	if *address != "" {
		cfg.Host = *address
	}
	cfg.Port = *port
	cfg.CatalogSource = *source
	cfg.DBPath = *dbPath

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *importOnly {
		if err := importCatalog(ctx, cfg.CatalogSource, cfg.DBPath); err != nil {
			logger.Error("catalog import failed", zap.Error(err))
			return 1
		}
		return 0
	}

	srv, err := server.NewDietServer(ctx, cfg)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	code := 0
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		code = 1
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
		code = 1
	}
	return code
}

func importCatalog(ctx context.Context, source, dbPath string) error {
	foods, err := catalog.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveCatalog(foods); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	n, err := store.CountFoods()
	if err != nil {
		return err
	}
	logger.Info("catalog imported", zap.String("source", source), zap.String("db_path", dbPath), zap.Int("foods", n))
	return nil
}
