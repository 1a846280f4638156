package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/internal/database"
	"github.com/propmarket/backend/internal/handlers"
	"github.com/propmarket/backend/internal/metrics"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/internal/storage"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "propmarket",
		Short:        "Property listing marketplace API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			logger.Init()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.Connect(cfg.DB)
			if err != nil {
				return err
			}
			defer closeDB(db)
			return database.SeedAdmin(db, cfg.Admin)
		},
	})

	var adminEmail string
	grantAdmin := &cobra.Command{
		Use:   "grant-admin",
		Short: "Give an existing account admin privileges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.Connect(cfg.DB)
			if err != nil {
				return err
			}
			defer closeDB(db)

			user, err := services.NewUserService(db).GrantAdmin(cmd.Context(), adminEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", user.Email)
			return nil
		},
	}
	grantAdmin.Flags().StringVar(&adminEmail, "email", "", "email of the account to promote")
	_ = grantAdmin.MarkFlagRequired("email")
	root.AddCommand(grantAdmin)

	return root
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func serve() error {
	defer logger.Sync()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer closeDB(db)

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		return fmt.Errorf("seeding admin failed: %w", err)
	}

	store, err := storage.NewMinIOStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("minio initialization failed: %w", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		return fmt.Errorf("failed ensuring minio bucket: %w", err)
	}

	deps := handlers.Dependencies{
		Config: cfg,
		DB:     db,
		Store:  store,
	}
	if cfg.Google.Enabled() {
		verifier := services.NewGoogleVerifier(context.Background(), cfg.Google.ClientID)
		deps.Verifier = verifier
		if cfg.Google.ClientSecret != "" {
			deps.OAuth = services.NewGoogleOAuth(cfg.Google.ClientConfig(), verifier)
		}
	} else {
		logger.Warn("google_signin_disabled", nil)
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewHTTPMetrics("propmarket")
	}

	app := handlers.NewApp(deps)
	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":       cfg.Server.Port,
		"address":    listenAddr,
		"db_driver":  cfg.DB.Driver,
		"body_limit": fmt.Sprintf("%dMB", cfg.Server.BodyLimitMB),
		"google":     cfg.Google.Enabled(),
		"metrics":    cfg.Metrics.Enabled,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("forced shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
