package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/logging"
	"meal-planner/internal/storage"
)

// cli holds what the commands share once PersistentPreRunE has run.
type cli struct {
	dbPath  string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB
	app    *app.App
}

// newRootCmd builds the command tree around c. The caller runs c.teardown
// after Execute, since cobra skips post-run hooks when a command fails.
func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "meal-planner",
		Short: "Plan a week of meals and get one scaled shopping list",
		Long: `meal-planner keeps a recipe catalog and a weekly meal plan, and derives a
single shopping list with every recipe scaled to 4 portions. Pantry staples
can be hidden and items ticked off as they are bought.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.recipesCmd(),
		c.planCmd(),
		c.staplesCmd(),
		c.listCmd(),
		c.checkCmd(),
		c.exportCmd(),
		c.historyCmd(),
		c.focusCmd(),
		c.snapshotCmd(),
		c.metricsCmd(),
		c.serveCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.dbPath != "" {
		cfg.DatabasePath = c.dbPath
	}
	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	} else if level == "info" {
		// Keep command output readable unless asked otherwise.
		level = "warn"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	snapshots, err := storage.NewSnapshotStore(cfg.SnapshotDir)
	if err != nil {
		db.Close()
		return err
	}

	c.cfg, c.logger, c.db = cfg, logger, db
	c.app = app.NewApp(db.SQL, snapshots, logger)
	return nil
}

func (c *cli) teardown() {
	if c.db != nil {
		c.db.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	err := newRootCmd(c).ExecuteContext(ctx)
	c.teardown()
	if err != nil {
		os.Exit(1)
	}
}
