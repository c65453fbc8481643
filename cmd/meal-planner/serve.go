package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meal-planner/internal/api"
	"meal-planner/internal/watch"
)

func (c *cli) serveCmd() *cobra.Command {
	var origins []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the recipe import watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JWTSecret == "" {
				c.logger.Warn("API_JWT_SECRET not set, /api routes are unauthenticated")
			}

			router := api.NewRouter(c.app, api.Options{
				JWTSecret:      c.cfg.JWTSecret,
				AllowedOrigins: origins,
			}, c.logger)
			srv := &http.Server{
				Addr:              ":" + c.cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			var watcher *watch.RecipeWatcher
			if c.cfg.ImportDir != "" {
				w, err := watch.NewRecipeWatcher(c.cfg.ImportDir, c.app, c.logger)
				if err != nil {
					return err
				}
				watcher = w
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return api.Serve(ctx, srv, c.logger)
			})
			if watcher != nil {
				g.Go(func() error {
					return watcher.Run(ctx)
				})
			}
			c.logger.Info("meal planner serving", zap.String("port", c.cfg.Port), zap.String("import_dir", c.cfg.ImportDir))
			return g.Wait()
		},
	}
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin (repeatable)")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JWTSecret == "" {
				return fmt.Errorf("API_JWT_SECRET is not set")
			}
			token, err := api.IssueToken(c.cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	return cmd
}
