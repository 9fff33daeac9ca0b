package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/api"
)

func OpenAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi [config-file]",
		Short: "Generate OpenAPI specification",
		Long:  "Generate the OpenAPI specification of the 'dt serve' API without starting the server",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOpenAPI,
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (prints to stdout if not specified)")
	cmd.Flags().StringP("format", "f", "json", "Output format (json or yaml)")

	return cmd
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig(cmd, getConfigPath(cmd, args))
	if err != nil {
		return err
	}

	_, humaAPI := api.NewServer(cfg, log.New(io.Discard), false)

	if outputPath == "" {
		spec, err := api.Spec(humaAPI, format)
		if err != nil {
			return fmt.Errorf("failed to generate OpenAPI spec: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(spec))
		return nil
	}

	if err := api.WriteSpec(humaAPI, format, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ OpenAPI spec saved to %s\n", outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "🛣️  Found %d API routes\n", api.RouteCount(humaAPI))
	return nil
}
