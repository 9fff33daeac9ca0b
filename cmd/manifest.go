package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/assets"
	"github.com/barisgit/distributor/internal/page"
)

func ManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest [handle...]",
		Short: "Show resolved script metadata",
		Long:  "Resolve the build manifest of configured scripts and show their dependencies and version",
		RunE:  runManifest,
	}

	cmd.Flags().Bool("json", false, "Print the metadata as JSON")

	return cmd
}

type manifestEntry struct {
	Handle       string   `json:"handle"`
	File         string   `json:"file"`
	Manifest     string   `json:"manifest,omitempty"`
	Dependencies []string `json:"dependencies"`
	Version      string   `json:"version"`
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, getConfigPath(cmd, nil))
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	p, err := page.New(cfg, loggerFromContext(cmd.Context()))
	if err != nil {
		return err
	}

	scripts := p.Scripts()
	if len(args) > 0 {
		scripts = scripts[:0:0]
		for _, handle := range args {
			script, ok := p.Script(handle)
			if !ok {
				return fmt.Errorf("script not configured: %s", handle)
			}
			scripts = append(scripts, script)
		}
	}

	entries := make([]manifestEntry, 0, len(scripts))
	for _, script := range scripts {
		meta, err := script.ResolveAssetMetadata()
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", script.ScriptHandle(), err)
		}
		entries = append(entries, manifestEntry{
			Handle:       script.ScriptHandle(),
			File:         script.RelativePath(),
			Manifest:     existingManifest(script),
			Dependencies: meta.Dependencies,
			Version:      meta.Version,
		})
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Fprintf(w, "📦 %s (%s)\n", e.Handle, e.File)
		if e.Manifest != "" {
			fmt.Fprintf(w, "   Manifest: %s\n", e.Manifest)
		} else {
			fmt.Fprintf(w, "   Manifest: none, using plugin version\n")
		}
		fmt.Fprintf(w, "   Version: %s\n", e.Version)
		fmt.Fprintf(w, "   Dependencies: %v\n", e.Dependencies)
	}
	return nil
}

func existingManifest(script *assets.Script) string {
	for _, path := range assets.ManifestPaths(script.AbsolutePath()) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
