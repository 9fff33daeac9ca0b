package static

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

var testFS = fstest.MapFS{
	"js/admin.js":         {Data: []byte("console.log('admin');")},
	"js/admin.asset.json": {Data: []byte(`{"dependencies":[],"version":"1"}`)},
	"js/admin.asset.php":  {Data: []byte("<?php return array();")},
	"js/admin.js.map":     {Data: []byte(`{"version":3}`)},
	"css/admin.css":       {Data: []byte("body { margin: 0; }")},
	"images/icon.svg":     {Data: []byte("<svg></svg>")},
}

func TestServeStaticFile_BasicFileServing(t *testing.T) {
	config := StaticConfig{
		Prefix:    "/dist/",
		APIPrefix: "/api/",
	}

	tests := []struct {
		name                string
		path                string
		expectedStatus      int
		expectedContentType string
		expectedNotFound    bool
	}{
		{
			name:                "serve JavaScript file",
			path:                "/dist/js/admin.js",
			expectedStatus:      200,
			expectedContentType: "application/javascript; charset=utf-8",
		},
		{
			name:                "serve CSS file",
			path:                "/dist/css/admin.css",
			expectedStatus:      200,
			expectedContentType: "text/css; charset=utf-8",
		},
		{
			name:                "serve JSON manifest",
			path:                "/dist/js/admin.asset.json",
			expectedStatus:      200,
			expectedContentType: "application/json; charset=utf-8",
		},
		{
			name:                "serve source map",
			path:                "/dist/js/admin.js.map",
			expectedStatus:      200,
			expectedContentType: "application/json; charset=utf-8",
		},
		{
			name:                "serve SVG file",
			path:                "/dist/images/icon.svg",
			expectedStatus:      200,
			expectedContentType: "image/svg+xml",
		},
		{
			name:             "php manifest is hidden",
			path:             "/dist/js/admin.asset.php",
			expectedStatus:   404,
			expectedNotFound: true,
		},
		{
			name:             "directory is not served",
			path:             "/dist/js",
			expectedStatus:   404,
			expectedNotFound: true,
		},
		{
			name:             "path outside prefix",
			path:             "/js/admin.js",
			expectedStatus:   404,
			expectedNotFound: true,
		},
		{
			name:             "traversal is cleaned",
			path:             "/dist/../../etc/passwd",
			expectedStatus:   404,
			expectedNotFound: true,
		},
		{
			name:             "missing file",
			path:             "/dist/js/missing.js",
			expectedStatus:   404,
			expectedNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := ServeStaticFile(testFS, config, tt.path)

			if response.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, response.StatusCode)
			}
			if response.NotFound != tt.expectedNotFound {
				t.Errorf("Expected NotFound %v, got %v", tt.expectedNotFound, response.NotFound)
			}
			if tt.expectedStatus == 200 {
				if response.ContentType != tt.expectedContentType {
					t.Errorf("Expected content type %s, got %s", tt.expectedContentType, response.ContentType)
				}
				if len(response.Body) == 0 {
					t.Error("Expected non-empty body")
				}
				if response.CacheControl == "" {
					t.Error("Expected Cache-Control header to be set")
				}
			}
		})
	}
}

func TestServeStaticFile_DevMode(t *testing.T) {
	config := StaticConfig{Prefix: "/dist/", DevMode: true}

	response := ServeStaticFile(testFS, config, "/dist/js/admin.js")
	if response.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", response.StatusCode)
	}
	if response.CacheControl != "no-cache" {
		t.Errorf("Expected no-cache in dev mode, got %s", response.CacheControl)
	}
}

func TestServeStaticFile_APIPrefix(t *testing.T) {
	tests := []struct {
		name        string
		apiPrefix   string
		path        string
		shouldServe bool
	}{
		{name: "default API prefix blocks /api/", apiPrefix: "/api/", path: "/api/js/admin.js", shouldServe: false},
		{name: "empty prefix defaults to /api/", apiPrefix: "", path: "/api/js/admin.js", shouldServe: false},
		{name: "none prefix serves all paths", apiPrefix: "none", path: "/js/admin.js", shouldServe: true},
		{name: "non-API path should serve", apiPrefix: "/api/", path: "/js/admin.js", shouldServe: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := ServeStaticFile(testFS, StaticConfig{APIPrefix: tt.apiPrefix}, tt.path)

			if tt.shouldServe && response.StatusCode != 200 {
				t.Errorf("Expected to serve file, got status %d", response.StatusCode)
			}
			if !tt.shouldServe && (response.StatusCode != 404 || !response.NotFound) {
				t.Errorf("Expected API path to be blocked, got status %d, NotFound=%v", response.StatusCode, response.NotFound)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	handler := Handler(testFS, StaticConfig{Prefix: "/dist/"})

	req := httptest.NewRequest(http.MethodGet, "/dist/js/admin.js", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/javascript; charset=utf-8" {
		t.Errorf("Unexpected content type %s", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != "console.log('admin');" {
		t.Errorf("Unexpected body %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/dist/js/admin.js", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/dist/js/none.js", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"styles.css", "text/css; charset=utf-8"},
		{"app.js", "application/javascript; charset=utf-8"},
		{"data.json", "application/json; charset=utf-8"},
		{"image.png", "image/png"},
		{"icon.svg", "image/svg+xml"},
		{"font.woff2", "font/woff2"},
		{"unknown.xyz", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if result := getContentType(tt.path); result != tt.expected {
				t.Errorf("Expected content type %s for %s, got %s", tt.expected, tt.path, result)
			}
		})
	}
}

func TestGetCacheControl(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"js/app.js", "public, max-age=31536000"},
		{"css/styles.css", "public, max-age=31536000"},
		{"js/app.asset.json", "public, max-age=300"},
		{"image.png", "public, max-age=300"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if result := getCacheControl(tt.path); result != tt.expected {
				t.Errorf("Expected cache control %s for %s, got %s", tt.expected, tt.path, result)
			}
		})
	}
}
