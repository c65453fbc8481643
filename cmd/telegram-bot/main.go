package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meal-planner/internal/api"
	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/logging"
	"meal-planner/internal/storage"
	"meal-planner/internal/telegram"
	"meal-planner/internal/watch"
)

func main() {
	_ = godotenv.Load()

	// Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("telegram bot stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server exiting")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := storage.NewSnapshotStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	// Services
	application := app.NewApp(db.SQL, snapshots, logger)

	bot, err := telegram.NewBot(cfg, application, logger)
	if err != nil {
		return err
	}

	var watcher *watch.RecipeWatcher
	if cfg.ImportDir != "" {
		if watcher, err = watch.NewRecipeWatcher(cfg.ImportDir, application, logger); err != nil {
			return err
		}
	}

	// Server and watcher, stopped together on SIGINT/SIGTERM
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(application, api.Options{
			JWTSecret: cfg.JWTSecret,
			Webhook:   bot.Handler(),
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(gctx, srv, logger)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	return g.Wait()
}
