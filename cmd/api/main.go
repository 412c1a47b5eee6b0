package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/app"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

func main() {
	if err := newServeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:          "logitrack-api",
		Short:        "Serve the logitrack back-office API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFiles(envFiles); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			return application.Run(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before configuration; missing files are skipped")
	return cmd
}

// loadEnvFiles never overrides variables already present in the environment.
func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return nil
}
