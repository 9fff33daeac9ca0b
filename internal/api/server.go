package api

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/barisgit/distributor/internal/config"
	"github.com/barisgit/distributor/internal/static"
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} {{.Version}}</title>
{{.Head}}</head>
<body>
<h1>{{.Name}} {{.Version}}</h1>
{{if .Missing}}<p>Missing dependencies: {{range .Missing}}<code>{{.}}</code> {{end}}</p>
{{end}}{{.Footer}}</body>
</html>
`))

type preview struct {
	Name    string
	Version string
	Head    template.HTML
	Footer  template.HTML
	Missing []string
}

// NewServer returns the HTTP handler for 'dt serve': the API under /api,
// the built assets under /dist/ and a preview page at /.
func NewServer(cfg *config.PluginConfig, logger *log.Logger, devMode bool) (http.Handler, huma.API) {
	if logger == nil {
		logger = log.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))

	api := humachi.New(router, huma.DefaultConfig(cfg.Name+" assets", cfg.Version))
	Register(api, cfg, logger)

	distDir := filepath.Join(cfg.RootDir, "dist")
	router.Handle("/dist/*", static.Handler(os.DirFS(distDir), static.StaticConfig{
		Prefix:  "/dist/",
		DevMode: devMode,
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		out, err := RenderPage(cfg, logger)
		if err != nil {
			logger.Error("failed to render preview", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = previewTemplate.Execute(w, preview{
			Name:    cfg.Name,
			Version: cfg.Version,
			Head:    template.HTML(out.Head),
			Footer:  template.HTML(out.Footer),
			Missing: out.Missing,
		})
		if err != nil {
			logger.Error("failed to write preview", "err", err)
		}
	})

	return router, api
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
			)
		})
	}
}
