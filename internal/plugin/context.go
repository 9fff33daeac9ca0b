// Package plugin holds the process-wide plugin values the asset helpers are
// built around: where the plugin lives on disk, the URL it is served from and
// the version string used when a script has no build manifest.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// TextDomain is the translation text domain of the plugin.
	TextDomain = "distributor"

	// LangDir is the translation catalog directory, relative to the plugin root.
	LangDir = "lang"

	// DefaultVersion is used when no version is configured.
	DefaultVersion = "2.0.0"
)

var (
	ErrEmptyRootDir = errors.New("plugin root directory is empty")
	ErrEmptyRootURL = errors.New("plugin root URL is empty")
)

// Context is resolved once at process start and handed to every script builder.
type Context struct {
	RootDir    string
	RootURL    string
	Version    string
	TextDomain string
	LangDir    string
}

// NewContext resolves rootDir to an absolute path and normalizes rootURL to a
// single trailing slash.
func NewContext(rootDir, rootURL, version string) (Context, error) {
	if rootDir == "" {
		return Context{}, ErrEmptyRootDir
	}
	if rootURL == "" {
		return Context{}, ErrEmptyRootURL
	}

	absDir, err := filepath.Abs(rootDir)
	if err != nil {
		return Context{}, fmt.Errorf("failed to resolve plugin root %s: %w", rootDir, err)
	}

	if version == "" {
		version = DefaultVersion
	}

	return Context{
		RootDir:    absDir,
		RootURL:    TrailingSlash(rootURL),
		Version:    version,
		TextDomain: TextDomain,
		LangDir:    LangDir,
	}, nil
}

// LanguagePath is the absolute translation catalog directory.
func (c Context) LanguagePath() string {
	langDir := c.LangDir
	if langDir == "" {
		langDir = LangDir
	}
	return filepath.Join(c.RootDir, langDir)
}

// Domain returns the text domain, falling back to TextDomain.
func (c Context) Domain() string {
	if c.TextDomain == "" {
		return TextDomain
	}
	return c.TextDomain
}

// TrailingSlash strips any trailing slashes from s and appends exactly one.
func TrailingSlash(s string) string {
	return strings.TrimRight(s, "/\\") + "/"
}
