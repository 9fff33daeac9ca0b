// Package page assembles the scripts of one page from the plugin config:
// vendor scripts go straight into the registry, plugin scripts go through
// assets.Script so their manifests are resolved.
package page

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/barisgit/distributor/internal/assets"
	"github.com/barisgit/distributor/internal/config"
	"github.com/barisgit/distributor/internal/plugin"
	"github.com/barisgit/distributor/internal/registry"
)

// Page is request scoped: build one per rendered page.
type Page struct {
	Context  plugin.Context
	Registry *registry.Registry

	config  *config.PluginConfig
	scripts []*assets.Script
	byName  map[string]*assets.Script
	logger  *log.Logger
}

// New builds the plugin context, registers vendor scripts and prepares a
// script builder for every configured plugin script.
func New(cfg *config.PluginConfig, logger *log.Logger) (*Page, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, err := cfg.PluginContext()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin context: %w", err)
	}

	reg := registry.New(registry.WithLogger(logger), registry.WithBaseURL(ctx.RootURL))
	for _, vendor := range cfg.Vendor {
		if err := reg.Register(vendor.Handle, vendor.Src, vendor.Dependencies, vendor.Version, vendor.Footer); err != nil {
			return nil, fmt.Errorf("failed to register vendor script %s: %w", vendor.Handle, err)
		}
	}

	p := &Page{
		Context:  ctx,
		Registry: reg,
		config:   cfg,
		byName:   make(map[string]*assets.Script),
		logger:   logger,
	}

	for _, sc := range cfg.Scripts {
		script, err := assets.NewScript(ctx, sc.Handle, sc.File, reg)
		if err != nil {
			return nil, fmt.Errorf("failed to create script %s: %w", sc.Handle, err)
		}
		if sc.Footer {
			script.LoadInFooter()
		}
		if len(sc.Dependencies) > 0 {
			script.WithDependencies(sc.Dependencies)
		}
		if sc.Translations {
			script.WithTranslations()
		}
		if sc.Localize != nil {
			script.WithLocalizedData(sc.Localize.Name, sc.Localize.Data)
		}

		p.scripts = append(p.scripts, script)
		p.byName[sc.Handle] = script
	}

	return p, nil
}

// Load registers every script, enqueueing the ones marked enqueue.
func (p *Page) Load() error {
	for i, script := range p.scripts {
		var err error
		if p.config.Scripts[i].Enqueue {
			_, err = script.Enqueue()
		} else {
			_, err = script.Register()
		}
		if err != nil {
			return fmt.Errorf("failed to load script %s: %w", script.ScriptHandle(), err)
		}
	}

	p.logger.Debug("page scripts loaded", "scripts", len(p.scripts), "queued", len(p.Registry.Queue()))
	return nil
}

// Render prints the enqueued scripts for the configured locale.
func (p *Page) Render() (registry.Output, error) {
	return p.Registry.Print(p.config.Locale)
}

// Scripts returns the plugin script builders in config order.
func (p *Page) Scripts() []*assets.Script {
	return p.scripts
}

// Script returns the builder for handle.
func (p *Page) Script(handle string) (*assets.Script, bool) {
	script, ok := p.byName[handle]
	return script, ok
}
