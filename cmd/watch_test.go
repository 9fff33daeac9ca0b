package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// syncBuffer is written by the watch goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForLog(t *testing.T, logs *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(logs.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Expected log to contain %q, got:\n%s", want, logs.String())
}

func TestWatchCmd_ReportsManifestChanges(t *testing.T) {
	tests := []struct {
		name     string
		relative bool
	}{
		{name: "absolute config path"},
		{name: "relative config path", relative: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := setupProject(t)
			projectDir := filepath.Dir(configPath)
			if tt.relative {
				oldDir, err := os.Getwd()
				if err != nil {
					t.Fatal(err)
				}
				if err := os.Chdir(projectDir); err != nil {
					t.Fatal(err)
				}
				t.Cleanup(func() { _ = os.Chdir(oldDir) })
				configPath = filepath.Base(configPath)
			}

			logs := &syncBuffer{}
			logger := log.New(logs)
			logger.SetLevel(log.DebugLevel)

			ctx, cancel := context.WithCancel(WithLogger(context.Background(), logger))
			defer cancel()

			root := &cobra.Command{Use: "dt"}
			root.PersistentFlags().StringP("config", "c", "distributor.yaml", "")
			root.AddCommand(WatchCmd())
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs([]string{"watch", "--config", configPath})

			done := make(chan error, 1)
			go func() {
				done <- root.ExecuteContext(ctx)
			}()

			// Initial versions are reported once the watcher is running.
			waitForLog(t, logs, "version=f00d")

			manifest := filepath.Join(projectDir, "dist", "js", "admin.asset.json")
			if err := os.WriteFile(manifest, []byte(`{"dependencies": [], "version": "beef"}`), 0644); err != nil {
				t.Fatalf("Failed to write manifest: %v", err)
			}

			waitForLog(t, logs, "version=beef")
			if strings.Contains(logs.String(), "unconfigured script") {
				t.Errorf("Expected manifest to match a configured script, got:\n%s", logs.String())
			}

			cancel()
			select {
			case err := <-done:
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Expected watch to stop after context cancel")
			}
		})
	}
}
