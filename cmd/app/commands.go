package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/config"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/handler"
	"github.com/nab23-dev/prompt-sci/internal/repository/postgres"
	"github.com/nab23-dev/prompt-sci/internal/service"
)

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		AccessSecret:    []byte(cfg.Auth.AccessSecret),
		RefreshSecret:   []byte(cfg.Auth.RefreshSecret),
		AccessExpiry:    cfg.Auth.AccessExpiry,
		RefreshExpiry:   cfg.Auth.RefreshExpiry,
		UserCacheTTL:    cfg.Cache.UserTTL,
		PageSize:        cfg.Feed.PageSize,
		StrictReactions: cfg.Feed.StrictReactions,
		SessionTTL:      cfg.Feed.SessionTTL,
		MaxSessions:     cfg.Feed.MaxSessions,
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "migrate",
				Usage:   "Apply postgres migrations before serving",
				EnvVars: []string{"PROMPTSCI_MIGRATE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, logger, err := setup(ctx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := cfg.RequireSecrets(); err != nil {
				return err
			}

			if ctx.Bool("migrate") && cfg.Store.Type == "postgres" {
				if err := postgres.Migrate(cfg.Store.Postgres.DSN("pgx5")); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
			}

			runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(runCtx, logger, cfg)
		},
	}
}

func serve(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	b, err := openBackends(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to open backends: %w", err)
	}

	publisher, closePublisher, err := openPublisher(ctx, logger, cfg)
	if err != nil {
		_ = b.repo.Close(context.Background())
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	broadcaster := events.NewBroadcaster(logger)
	services := service.New(logger, b.repo, broadcaster, publisher, serviceOptions(cfg))

	handlers := handler.New(logger, services, handler.Options{
		ClientOrigin: cfg.Server.ClientOrigin,
		CookieDomain: cfg.Server.CookieDomain,
		CookieSecure: cfg.Server.CookieSecure,
		Health:       b.health,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.InitRoutes(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Sugar().Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("gracefully shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Sugar().Errorf("server failed: %s", err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// live event streams end first so Shutdown does not wait on them
	broadcaster.Shutdown()

	errs := []error{srv.Shutdown(shutdownCtx)}
	errs = append(errs, closePublisher(), b.repo.Close(shutdownCtx))
	return errors.Join(errs...)
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Applies the postgres schema migrations. Only used with store.type postgres.`,
		Action: func(ctx *cli.Context) error {
			cfg, logger, err := setup(ctx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Sugar().Infof("migrating %s:%d/%s", cfg.Store.Postgres.Host, cfg.Store.Postgres.Port, cfg.Store.Postgres.DBName)
			return postgres.Migrate(cfg.Store.Postgres.DSN("pgx5"))
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migrations",
		Description: `Rolls back the given number of postgres migrations`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "steps",
				Usage: "Number of migrations to roll back",
				Value: 1,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, logger, err := setup(ctx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Sugar().Infof("rolling back %d migration(s) on %s:%d/%s", ctx.Int("steps"), cfg.Store.Postgres.Host, cfg.Store.Postgres.Port, cfg.Store.Postgres.DBName)
			return postgres.Rollback(cfg.Store.Postgres.DSN("pgx5"), ctx.Int("steps"))
		},
	}
}

// withServices runs fn against services backed by the configured stores.
// Admin commands do not sign tokens, so no secrets are required.
func withServices(ctx *cli.Context, fn func(ctx context.Context, services *service.Service) error) error {
	cfg, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	b, err := openBackends(ctx.Context, logger, cfg)
	if err != nil {
		return err
	}
	defer b.repo.Close(context.Background())

	publisher, closePublisher, err := openPublisher(ctx.Context, logger, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	services := service.New(logger, b.repo, events.NewBroadcaster(logger), publisher, serviceOptions(cfg))
	return fn(ctx.Context, services)
}

func settingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Change global settings",
		Subcommands: []*cli.Command{
			{
				Name:      "auto-approve",
				Usage:     "Turn automatic approval of new posts on or off",
				ArgsUsage: "<true|false>",
				Action: func(ctx *cli.Context) error {
					enabled, err := strconv.ParseBool(ctx.Args().First())
					if err != nil {
						return fmt.Errorf("expected true or false, got %q", ctx.Args().First())
					}

					return withServices(ctx, func(c context.Context, services *service.Service) error {
						return services.Post.SetAutoApprove(c, enabled)
					})
				},
			},
		},
	}
}

func postsCmd() *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "Moderate posts",
		Subcommands: []*cli.Command{
			{
				Name:      "approve",
				Usage:     "Approve a post so it shows in the feed",
				ArgsUsage: "<post id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "revoke",
						Usage: "Withdraw the approval instead",
					},
				},
				Action: func(ctx *cli.Context) error {
					postID := ctx.Args().First()
					if postID == "" {
						return errors.New("post id is required")
					}

					return withServices(ctx, func(c context.Context, services *service.Service) error {
						return services.Post.Approve(c, postID, !ctx.Bool("revoke"))
					})
				},
			},
		},
	}
}
