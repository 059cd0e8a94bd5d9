package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/config"
	"github.com/iliyamo/dinner-invite/internal/database"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "dinner-invite",
		Short:         "Seat picker for a dinner invitation.",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment overrides, skipped when missing")

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the guests table and exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cfg)
		},
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("dinner-invite v{{.Version}}\n")
	return cmd
}

// loadEnvFile applies path with godotenv. Variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads and validates the environment and installs the logger.
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logger.Set(logger.NewLogger(cfg.Env))
	return cfg, nil
}

func migrate(ctx context.Context, cfg config.Config) error {
	db, err := database.Open(storeOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("schema ready", zap.String("driver", cfg.StoreDriver))
	return nil
}

func storeOptions(cfg config.Config) database.Options {
	return database.Options{
		Driver:     cfg.StoreDriver,
		User:       cfg.DBUser,
		Pass:       cfg.DBPass,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	}
}
