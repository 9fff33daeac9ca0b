package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/assets"
	"github.com/barisgit/distributor/internal/page"
)

func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch build manifests for changes",
		Long:  "Watch dist/js and report the resolved version of a script every time its build manifest changes",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, getConfigPath(cmd, nil))
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	p, err := page.New(cfg, logger)
	if err != nil {
		return err
	}

	// Manifest keys are absolute, so the watched directory must be too.
	scriptDir := filepath.Join(p.Context.RootDir, filepath.FromSlash(assets.ScriptDir))
	if err := os.MkdirAll(scriptDir, 0755); err != nil {
		return fmt.Errorf("failed to create script directory %s: %w", scriptDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(scriptDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", scriptDir, err)
	}

	byManifest := make(map[string]*assets.Script)
	for _, script := range p.Scripts() {
		for _, path := range assets.ManifestPaths(script.AbsolutePath()) {
			byManifest[path] = script
		}
		reportVersion(logger, script)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "👁️  Watching %s (Ctrl+C to stop)\n", scriptDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isManifestEvent(event) {
				continue
			}
			script, known := byManifest[absEventPath(event.Name)]
			if !known {
				logger.Debug("manifest changed for unconfigured script", "path", event.Name)
				continue
			}
			logger.Debug("manifest changed", "path", event.Name, "op", event.Op.String())
			reportVersion(logger, script)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)

		case <-sigCh:
			return nil

		case <-cmd.Context().Done():
			return nil
		}
	}
}

func absEventPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}

func isManifestEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(event.Name, assets.JSONManifestSuffix) || strings.HasSuffix(event.Name, assets.PHPManifestSuffix)
}

func reportVersion(logger *log.Logger, script *assets.Script) {
	version, err := script.Version()
	if err != nil {
		logger.Error("failed to resolve manifest", "handle", script.ScriptHandle(), "err", err)
		return
	}
	logger.Info("script version", "handle", script.ScriptHandle(), "version", version)
}
