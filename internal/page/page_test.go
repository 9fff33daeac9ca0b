package page

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/barisgit/distributor/internal/config"
)

func testConfig(t *testing.T) *config.PluginConfig {
	t.Helper()
	root := t.TempDir()

	jsDir := filepath.Join(root, "dist", "js")
	if err := os.MkdirAll(jsDir, 0755); err != nil {
		t.Fatalf("Failed to create dist dir: %v", err)
	}
	manifest := `{"dependencies": ["wp-element"], "version": "abc"}`
	if err := os.WriteFile(filepath.Join(jsDir, "admin.asset.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	return &config.PluginConfig{
		Name:    "distributor",
		Version: "2.0.0",
		RootDir: root,
		RootURL: "https://example.com/plugins/distributor",
		Locale:  "en_US",
		Port:    8080,
		Vendor: []config.VendorConfig{
			{Handle: "wp-element", Src: "https://cdn.example.com/wp-element.js", Version: "6.0"},
		},
		Scripts: []config.ScriptConfig{
			{
				Handle:       "dt-admin",
				File:         "admin",
				Footer:       true,
				Dependencies: []string{"jquery-missing"},
				Enqueue:      true,
				Localize:     &config.LocalizeConfig{Name: "dt", Data: map[string]any{"a": 1}},
			},
			{Handle: "dt-push", File: "push", Dependencies: []string{"wp-element"}},
		},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	p, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !p.Registry.IsRegistered("wp-element") {
		t.Error("Expected vendor script to be registered")
	}
	if p.Registry.IsRegistered("dt-admin") {
		t.Error("Expected plugin scripts to wait for Load")
	}
	if len(p.Scripts()) != 2 {
		t.Errorf("Expected 2 scripts, got %d", len(p.Scripts()))
	}

	script, ok := p.Script("dt-admin")
	if !ok {
		t.Fatal("Expected dt-admin builder")
	}
	if !script.InFooter() {
		t.Error("Expected footer flag from config")
	}
}

func TestNew_InvalidContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.RootURL = ""

	if _, err := New(cfg, quietLogger()); err == nil {
		t.Error("Expected error for missing root URL")
	}
}

func TestLoadAndRender(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripts[0].Dependencies = nil

	p, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := p.Load(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !p.Registry.IsEnqueued("dt-admin") {
		t.Error("Expected dt-admin to be enqueued")
	}
	if !p.Registry.IsRegistered("dt-push") || p.Registry.IsEnqueued("dt-push") {
		t.Error("Expected dt-push to be registered only")
	}

	reg, _ := p.Registry.Get("dt-admin")
	if reg.Version != "abc" || reg.Dependencies[0] != "wp-element" {
		t.Errorf("Expected manifest metadata, got %+v", reg)
	}

	out, err := p.Render()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out.Footer, `src="https://example.com/plugins/distributor/dist/js/admin.js?ver=abc"`) {
		t.Errorf("Expected admin script in footer, got:\n%s", out.Footer)
	}
	if !strings.Contains(out.Head, `id="wp-element-js"`) {
		t.Errorf("Expected vendor dependency in head, got:\n%s", out.Head)
	}
	if !strings.Contains(out.Footer, "var dt = ") {
		t.Errorf("Expected localized data, got:\n%s", out.Footer)
	}
}

func TestRender_ReportsMissing(t *testing.T) {
	cfg := testConfig(t)

	p, _ := New(cfg, quietLogger())
	if err := p.Load(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out, err := p.Render()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(out.Missing) != 1 || out.Missing[0] != "jquery-missing" {
		t.Errorf("Expected missing jquery-missing, got %v", out.Missing)
	}
	if len(out.Skipped) != 1 || out.Skipped[0] != "dt-admin" {
		t.Errorf("Expected dt-admin to be skipped, got %v", out.Skipped)
	}
}
