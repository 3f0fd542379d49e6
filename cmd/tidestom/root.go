package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envOnly    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tidestom",
		Short:         "TiDES target and classification service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaultPath := os.Getenv("TOM_CONFIG")
	if defaultPath == "" {
		defaultPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("TOM_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultPath, "path to the YAML config file (env TOM_CONFIG)")
	cmd.PersistentFlags().BoolVar(&opts.envOnly, "env-only", envOnly, "ignore the config file and read TOM_* env vars only (env TOM_ENV_ONLY)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSyncCandidatesCmd(opts),
		newAddSpectraCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}
