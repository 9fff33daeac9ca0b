package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest suffixes checked next to a compiled script, in order.
const (
	JSONManifestSuffix = ".asset.json"
	PHPManifestSuffix  = ".asset.php"
)

// Metadata is the dependency list and version a build step recorded for a script.
type Metadata struct {
	Dependencies []string `json:"dependencies"`
	Version      string   `json:"version"`
}

// ManifestPaths returns the sibling manifest candidates of a compiled script,
// e.g. dist/js/admin.js -> dist/js/admin.asset.json, dist/js/admin.asset.php.
func ManifestPaths(scriptPath string) []string {
	dir := filepath.Dir(scriptPath)
	base := strings.TrimSuffix(filepath.Base(scriptPath), ".js")

	return []string{
		filepath.Join(dir, base+JSONManifestSuffix),
		filepath.Join(dir, base+PHPManifestSuffix),
	}
}

// ReadManifest loads the first readable manifest next to scriptPath.
// found is false when no candidate could be read; a missing file and an
// unreadable one are treated the same.
func ReadManifest(scriptPath string) (meta Metadata, found bool, err error) {
	for _, path := range ManifestPaths(scriptPath) {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		var raw map[string]any
		if strings.HasSuffix(path, PHPManifestSuffix) {
			raw, err = parsePHPManifest(data)
		} else {
			err = json.Unmarshal(data, &raw)
		}
		if err != nil {
			return Metadata{}, true, &MetadataFormatError{Path: path, Message: "cannot decode manifest", Err: err}
		}

		meta, err = decodeMetadata(path, raw)
		return meta, true, err
	}

	return Metadata{}, false, nil
}

func decodeMetadata(path string, raw map[string]any) (Metadata, error) {
	if raw == nil {
		return Metadata{}, &MetadataFormatError{Path: path, Message: "manifest is not a mapping"}
	}

	rawDeps, ok := raw["dependencies"]
	if !ok {
		return Metadata{}, &MetadataFormatError{Path: path, Field: "dependencies", Message: "missing"}
	}
	list, ok := rawDeps.([]any)
	if !ok {
		return Metadata{}, &MetadataFormatError{Path: path, Field: "dependencies", Message: fmt.Sprintf("expected a list, got %T", rawDeps)}
	}
	deps := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return Metadata{}, &MetadataFormatError{Path: path, Field: fmt.Sprintf("dependencies[%d]", i), Message: fmt.Sprintf("expected a string, got %T", item)}
		}
		deps = append(deps, s)
	}

	rawVersion, ok := raw["version"]
	if !ok {
		return Metadata{}, &MetadataFormatError{Path: path, Field: "version", Message: "missing"}
	}
	version, ok := rawVersion.(string)
	if !ok {
		return Metadata{}, &MetadataFormatError{Path: path, Field: "version", Message: fmt.Sprintf("expected a string, got %T", rawVersion)}
	}

	return Metadata{Dependencies: deps, Version: version}, nil
}
