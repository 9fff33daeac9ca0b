package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/config"
)

// getConfigPath prefers a positional argument over the --config flag.
func getConfigPath(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		return path
	}
	return config.DefaultConfigFile
}

func loadConfig(cmd *cobra.Command, path string) (*config.PluginConfig, error) {
	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	loggerFromContext(cmd.Context()).Debug("loaded configuration", "path", path, "root", cfg.RootDir, "scripts", len(cfg.Scripts))
	return cfg, nil
}
