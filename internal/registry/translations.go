package registry

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// CatalogPaths lists the translation catalog files checked for a script, in
// order: <domain>-<locale>-<handle>.json, then <domain>-<locale>-<md5>.json
// where md5 is the hash of the script path relative to baseURL.
func CatalogPaths(dir, domain, locale, handle, src, baseURL string) []string {
	paths := []string{
		filepath.Join(dir, fmt.Sprintf("%s-%s-%s.json", domain, locale, handle)),
	}

	if relative := relativeSource(src, baseURL); relative != "" {
		sum := md5.Sum([]byte(relative))
		paths = append(paths, filepath.Join(dir, fmt.Sprintf("%s-%s-%s.json", domain, locale, hex.EncodeToString(sum[:]))))
	}

	return paths
}

// LoadCatalog returns the first catalog found for reg, or nil if there is none.
func LoadCatalog(reg Registration, locale, baseURL string) (json.RawMessage, error) {
	if reg.Translations == "" || reg.TextDomain == "" || locale == "" {
		return nil, nil
	}

	for _, path := range CatalogPaths(reg.Translations, reg.TextDomain, locale, reg.Handle, reg.Src, baseURL) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid translation catalog %s", path)
		}
		return json.RawMessage(data), nil
	}

	return nil, nil
}

func relativeSource(src, baseURL string) string {
	if baseURL != "" && strings.HasPrefix(src, baseURL) {
		return strings.TrimPrefix(strings.TrimPrefix(src, baseURL), "/")
	}

	u, err := url.Parse(src)
	if err != nil || u.Path == "" {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
