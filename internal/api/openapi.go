package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
)

// Spec marshals the OpenAPI document of api as "json" or "yaml".
func Spec(api huma.API, format string) ([]byte, error) {
	switch format {
	case "json", "":
		return api.OpenAPI().MarshalJSON()
	case "yaml":
		return api.OpenAPI().YAML()
	default:
		return nil, fmt.Errorf("unsupported format: %s (use 'json' or 'yaml')", format)
	}
}

// WriteSpec writes the OpenAPI document to outputPath, creating parent directories.
func WriteSpec(api huma.API, format, outputPath string) error {
	spec, err := Spec(api, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(outputPath, spec, 0644); err != nil {
		return fmt.Errorf("failed to save OpenAPI spec to %s: %w", outputPath, err)
	}
	return nil
}

// RouteCount returns the number of operations in the OpenAPI document.
func RouteCount(api huma.API) int {
	doc := api.OpenAPI()
	if doc == nil {
		return 0
	}

	count := 0
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, op := range []*huma.Operation{item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch} {
			if op != nil {
				count++
			}
		}
	}
	return count
}
