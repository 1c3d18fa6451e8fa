package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/keithsimkin/moneymanager-sub001/internal/config"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

// load reads the config file and environment, then validates the result.
func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Personal finance dashboard backend with cloud sync",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML config file")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedDemoCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newSyncCommand(opts),
		newConfigCommand(opts),
	)
	return rootCmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), log)

			a, err := newApp(ctx, cfg, log, serveDBRetries)
			if err != nil {
				log.Error().Err(err).Msg("Startup failed")
				return err
			}
			defer a.Close()

			return serve(ctx, a)
		},
	}
}

func newSeedDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Seed demo accounts, transactions, budgets and goals (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), log)

			a, err := newApp(ctx, cfg, log, cliDBRetries)
			if err != nil {
				return err
			}
			defer a.Close()

			seeded, err := seedDemoData(ctx, a.ledger, a.now())
			if err != nil {
				return fmt.Errorf("seeding demo data failed: %w", err)
			}
			if seeded {
				log.Info().Msg("Demo data seeded")
			} else {
				log.Info().Msg("Transactions already present, demo data skipped")
			}
			return nil
		},
	}
}

// newRouter wires the HTTP API.
func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(a.log))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", a.healthCheck)

	api := r.Group("/api")
	api.GET("/transactions", a.getTransactions)
	api.POST("/transactions", a.addTransaction)
	api.DELETE("/transactions/:id", a.deleteTransaction)
	api.GET("/categories", a.getCategories)
	api.GET("/analytics", a.getAnalytics)
	api.GET("/snapshot", a.getSnapshot)
	api.PUT("/snapshot", a.putSnapshot)

	sync := api.Group("/sync")
	sync.GET("/config", a.getSyncConfig)
	sync.PUT("/config", a.putSyncConfig)
	sync.GET("/status", a.getSyncStatus)
	sync.POST("/upload", a.postSyncUpload)
	sync.POST("/download", a.postSyncDownload)

	return r
}

// serve runs the HTTP server until SIGINT/SIGTERM, then shuts it down.
func serve(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      newRouter(a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("port", a.cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		a.log.Info().Msg("Server exited")
		return nil
	})
	return g.Wait()
}
