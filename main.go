package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/cmd"
	"github.com/barisgit/distributor/internal/config"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dt",
		Short:   "Distributor - WordPress plugin script registration",
		Long:    `Distributor registers the plugin's compiled scripts with their build manifests and renders the resulting script tags.`,
		Version: version,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose, _ := c.Flags().GetBool("verbose"); verbose {
				level = log.DebugLevel
			}
			c.SetContext(cmd.WithLogger(c.Context(), cmd.NewLogger(os.Stderr, level)))
			return nil
		},
		Run: func(c *cobra.Command, args []string) {
			fmt.Println("🚀 Distributor CLI v" + version)
			fmt.Println("Run 'dt --help' for available commands")
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigFile, "Path to the plugin configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cmd.RenderCmd())
	rootCmd.AddCommand(cmd.ManifestCmd())
	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.WatchCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())
	rootCmd.AddCommand(cmd.OpenAPICmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
