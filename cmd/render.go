package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/api"
)

func RenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the script tags of a page",
		Long:  "Register and enqueue the configured scripts and print the head and footer script tags",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}

	cmd.Flags().String("locale", "", "Locale used to look up translation catalogs (default: config locale)")
	cmd.Flags().Bool("strict", false, "Fail when a dependency is not registered")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, getConfigPath(cmd, nil))
	if err != nil {
		return err
	}

	if locale, _ := cmd.Flags().GetString("locale"); locale != "" {
		cfg.Locale = locale
	}
	strict, _ := cmd.Flags().GetBool("strict")

	out, err := api.RenderPage(cfg, loggerFromContext(cmd.Context()))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "<!-- head -->")
	fmt.Fprint(w, out.Head)
	fmt.Fprintln(w, "<!-- footer -->")
	fmt.Fprint(w, out.Footer)

	if len(out.Missing) > 0 {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "⚠️  Missing dependencies: %s (skipped: %s)\n",
			strings.Join(out.Missing, ", "), strings.Join(out.Skipped, ", "))
		if strict {
			return fmt.Errorf("%d script(s) skipped because of missing dependencies", len(out.Skipped))
		}
	}

	return nil
}
