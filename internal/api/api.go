// Package api exposes the plugin scripts over HTTP with Huma.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"

	"github.com/barisgit/distributor/internal/assets"
	"github.com/barisgit/distributor/internal/config"
	"github.com/barisgit/distributor/internal/page"
	"github.com/barisgit/distributor/internal/registry"
)

// HealthResponse represents a standard health check response
type HealthResponse struct {
	Body struct {
		Status  string `json:"status" example:"ok" doc:"Service status"`
		Message string `json:"message,omitempty" example:"distributor is running" doc:"Optional status message"`
		Version string `json:"version,omitempty" example:"2.0.0" doc:"Plugin version"`
	}
}

// ScriptInfo is the resolved state of one plugin script.
type ScriptInfo struct {
	Handle       string   `json:"handle" example:"dt-admin" doc:"Script handle"`
	File         string   `json:"file" example:"dist/js/admin.js" doc:"Script path relative to the plugin root"`
	URL          string   `json:"url" doc:"Public script URL"`
	Dependencies []string `json:"dependencies" doc:"Explicit dependencies followed by manifest dependencies"`
	Version      string   `json:"version" doc:"Manifest version, or the plugin version without a manifest"`
	Footer       bool     `json:"footer" doc:"Whether the script is printed in the footer"`
	Translations bool     `json:"translations" doc:"Whether a translation catalog is registered"`
	Enqueue      bool     `json:"enqueue" doc:"Whether the script is enqueued on render"`
}

type ScriptListResponse struct {
	Body struct {
		Scripts []ScriptInfo `json:"scripts"`
	}
}

type ScriptResponse struct {
	Body ScriptInfo
}

type ScriptInput struct {
	Handle string `path:"handle" example:"dt-admin" doc:"Script handle"`
}

type RenderResponse struct {
	Body registry.Output
}

// Register adds the plugin endpoints to api. A fresh page is built for every
// request, so manifest changes show up without a restart.
func Register(api huma.API, cfg *config.PluginConfig, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{cfg: cfg, logger: logger}

	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health Check",
		Description: "Check if the service is running and healthy",
		Tags:        []string{"Health"},
	}, h.health)

	huma.Register(api, huma.Operation{
		OperationID: "list-scripts",
		Method:      http.MethodGet,
		Path:        "/api/scripts",
		Summary:     "List scripts",
		Description: "List every configured plugin script with its resolved manifest data",
		Tags:        []string{"Scripts"},
	}, h.listScripts)

	huma.Register(api, huma.Operation{
		OperationID: "get-script",
		Method:      http.MethodGet,
		Path:        "/api/scripts/{handle}",
		Summary:     "Get script",
		Description: "Resolve one plugin script by handle",
		Tags:        []string{"Scripts"},
	}, h.getScript)

	huma.Register(api, huma.Operation{
		OperationID: "render-scripts",
		Method:      http.MethodGet,
		Path:        "/api/render",
		Summary:     "Render scripts",
		Description: "Register and enqueue the configured scripts and return the printed tags",
		Tags:        []string{"Scripts"},
	}, h.render)
}

type handlers struct {
	cfg    *config.PluginConfig
	logger *log.Logger
}

func (h *handlers) health(ctx context.Context, input *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Message = h.cfg.Name + " is running"
	resp.Body.Version = h.cfg.Version
	return resp, nil
}

func (h *handlers) listScripts(ctx context.Context, input *struct{}) (*ScriptListResponse, error) {
	p, err := page.New(h.cfg, h.logger)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to build page", err)
	}

	resp := &ScriptListResponse{}
	resp.Body.Scripts = make([]ScriptInfo, 0, len(h.cfg.Scripts))
	for _, sc := range h.cfg.Scripts {
		script, _ := p.Script(sc.Handle)
		info, err := describe(script, sc)
		if err != nil {
			return nil, metadataError(err)
		}
		resp.Body.Scripts = append(resp.Body.Scripts, info)
	}
	return resp, nil
}

func (h *handlers) getScript(ctx context.Context, input *ScriptInput) (*ScriptResponse, error) {
	sc, ok := h.cfg.Script(input.Handle)
	if !ok {
		return nil, huma.Error404NotFound("script not found: " + input.Handle)
	}

	p, err := page.New(h.cfg, h.logger)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to build page", err)
	}

	script, _ := p.Script(sc.Handle)
	info, err := describe(script, sc)
	if err != nil {
		return nil, metadataError(err)
	}
	return &ScriptResponse{Body: info}, nil
}

func (h *handlers) render(ctx context.Context, input *struct{}) (*RenderResponse, error) {
	out, err := RenderPage(h.cfg, h.logger)
	if err != nil {
		return nil, metadataError(err)
	}
	return &RenderResponse{Body: out}, nil
}

// RenderPage builds, loads and prints a page for cfg.
func RenderPage(cfg *config.PluginConfig, logger *log.Logger) (registry.Output, error) {
	p, err := page.New(cfg, logger)
	if err != nil {
		return registry.Output{}, err
	}
	if err := p.Load(); err != nil {
		return registry.Output{}, err
	}
	return p.Render()
}

func describe(script *assets.Script, sc config.ScriptConfig) (ScriptInfo, error) {
	meta, err := script.ResolveAssetMetadata()
	if err != nil {
		return ScriptInfo{}, err
	}

	return ScriptInfo{
		Handle:       script.ScriptHandle(),
		File:         script.RelativePath(),
		URL:          script.URL(),
		Dependencies: meta.Dependencies,
		Version:      meta.Version,
		Footer:       script.InFooter(),
		Translations: sc.Translations,
		Enqueue:      sc.Enqueue,
	}, nil
}

func metadataError(err error) error {
	var formatErr *assets.MetadataFormatError
	if errors.As(err, &formatErr) {
		return huma.Error422UnprocessableEntity(formatErr.Error())
	}
	return huma.Error500InternalServerError("failed to resolve scripts", err)
}
