package static

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// StaticConfig configures static file serving behavior
type StaticConfig struct {
	// Prefix is stripped from request paths before lookup (e.g. "/dist/")
	Prefix string
	// DevMode disables caching so rebuilt bundles are picked up immediately
	DevMode bool
	// APIPrefix excludes paths starting with this prefix from static serving.
	// "none" serves every path.
	APIPrefix string
}

// StaticResponse is the result of resolving one request path
type StaticResponse struct {
	StatusCode   int
	ContentType  string
	CacheControl string
	Body         []byte
	NotFound     bool
}

func notFound() StaticResponse {
	return StaticResponse{StatusCode: http.StatusNotFound, NotFound: true}
}

// ServeStaticFile resolves requestPath against assets
func ServeStaticFile(assets fs.FS, config StaticConfig, requestPath string) StaticResponse {
	apiPrefix := config.APIPrefix
	if apiPrefix == "" {
		apiPrefix = "/api/"
	}
	if apiPrefix != "none" && strings.HasPrefix(requestPath, apiPrefix) {
		return notFound()
	}

	if config.Prefix != "" {
		if !strings.HasPrefix(requestPath, config.Prefix) {
			return notFound()
		}
		requestPath = strings.TrimPrefix(requestPath, config.Prefix)
	}

	// Clean the path and reject traversal
	name := strings.TrimPrefix(path.Clean("/"+requestPath), "/")
	if name == "" || !fs.ValidPath(name) {
		return notFound()
	}

	// Build manifests are server side data
	if strings.HasSuffix(name, ".asset.php") {
		return notFound()
	}

	info, err := fs.Stat(assets, name)
	if err != nil || info.IsDir() {
		return notFound()
	}

	body, err := fs.ReadFile(assets, name)
	if err != nil {
		return StaticResponse{StatusCode: http.StatusInternalServerError}
	}

	cacheControl := getCacheControl(name)
	if config.DevMode {
		cacheControl = "no-cache"
	}

	return StaticResponse{
		StatusCode:   http.StatusOK,
		ContentType:  getContentType(name),
		CacheControl: cacheControl,
		Body:         body,
	}
}

// Handler serves assets using ServeStaticFile
func Handler(assets fs.FS, config StaticConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		response := ServeStaticFile(assets, config, r.URL.Path)
		if response.NotFound {
			http.NotFound(w, r)
			return
		}
		if response.StatusCode != http.StatusOK {
			http.Error(w, http.StatusText(response.StatusCode), response.StatusCode)
			return
		}

		w.Header().Set("Content-Type", response.ContentType)
		w.Header().Set("Cache-Control", response.CacheControl)
		w.WriteHeader(response.StatusCode)
		if r.Method != http.MethodHead {
			w.Write(response.Body)
		}
	})
}

// getContentType returns the content type based on file extension
func getContentType(name string) string {
	contentTypes := map[string]string{
		".html":  "text/html; charset=utf-8",
		".css":   "text/css; charset=utf-8",
		".js":    "application/javascript; charset=utf-8",
		".map":   "application/json; charset=utf-8",
		".json":  "application/json; charset=utf-8",
		".png":   "image/png",
		".jpg":   "image/jpeg",
		".jpeg":  "image/jpeg",
		".svg":   "image/svg+xml",
		".ico":   "image/x-icon",
		".woff":  "font/woff",
		".woff2": "font/woff2",
		".ttf":   "font/ttf",
	}

	if contentType, ok := contentTypes[filepath.Ext(name)]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// getCacheControl returns long caching for versioned bundles, short for the rest
func getCacheControl(name string) string {
	ext := filepath.Ext(name)
	if ext == ".js" || ext == ".css" {
		return "public, max-age=31536000" // 1 year
	}
	return "public, max-age=300" // 5 minutes
}
