package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "logitrackctl",
		Short:        "Operator tooling for the logitrack API",
		SilenceUsage: true,
	}

	root.AddCommand(newConfigCmd(), newCredentialCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), cfg.Settings())
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
