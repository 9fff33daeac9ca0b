// Package assets registers compiled front-end scripts with a script registry.
//
// A Script is built from a handle and a file name under dist/js, configured
// with chained calls, and then registered or enqueued. Its dependency list and
// version come from the manifest the build step writes next to the script
// (admin.js -> admin.asset.json or admin.asset.php). The manifest is re-read
// on every Register and Version call, so rebuilding during development is
// picked up without restarting.
package assets

import (
	"path/filepath"

	"github.com/barisgit/distributor/internal/plugin"
)

// ScriptDir is the build output directory of scripts, relative to the plugin root.
const ScriptDir = "dist/js/"

// Script describes one compiled script and how it should be registered.
// A Script is not safe for concurrent use.
type Script struct {
	ctx      plugin.Context
	registry Registry

	handle       string
	relativePath string
	absolutePath string

	dependencies []string
	version      string

	inFooter     bool
	translations bool

	localizeName string
	localizeData map[string]any
}

// NewScript returns a Script for dist/js/<fileName>.js under the plugin root.
func NewScript(ctx plugin.Context, handle, fileName string, registry Registry) (*Script, error) {
	if handle == "" {
		return nil, invalidArgument("script handle")
	}
	if fileName == "" {
		return nil, invalidArgument("script file name")
	}
	if ctx.RootDir == "" {
		return nil, ErrPluginRoot
	}

	relativePath := ScriptDir + fileName + ".js"

	return &Script{
		ctx:          ctx,
		registry:     registry,
		handle:       handle,
		relativePath: relativePath,
		absolutePath: filepath.Join(ctx.RootDir, filepath.FromSlash(relativePath)),
		version:      ctx.Version,
	}, nil
}

// LoadInFooter prints the script at the end of the page body instead of the head.
func (s *Script) LoadInFooter() *Script {
	s.inFooter = true
	return s
}

// WithDependencies sets handles that are placed ahead of the manifest dependencies.
func (s *Script) WithDependencies(deps []string) *Script {
	s.dependencies = deps
	return s
}

// WithTranslations registers the plugin translation catalog on Register.
func (s *Script) WithTranslations() *Script {
	s.translations = true
	return s
}

// WithLocalizedData injects data as a global JS object named objectName on Register.
func (s *Script) WithLocalizedData(objectName string, data map[string]any) *Script {
	s.localizeName = objectName
	s.localizeData = data
	return s
}

// ResolveAssetMetadata reads the build manifest and merges the explicit
// dependencies in front of the manifest ones. Duplicates are kept.
func (s *Script) ResolveAssetMetadata() (Metadata, error) {
	meta, found, err := ReadManifest(s.absolutePath)
	if err != nil {
		return Metadata{}, err
	}
	if !found {
		meta = Metadata{Dependencies: []string{}, Version: s.version}
	}

	if len(s.dependencies) > 0 {
		merged := make([]string, 0, len(s.dependencies)+len(meta.Dependencies))
		merged = append(merged, s.dependencies...)
		merged = append(merged, meta.Dependencies...)
		meta.Dependencies = merged
	}

	return meta, nil
}

// Register hands the script to the registry and attaches translations and
// localized data when configured. Registry errors are returned as is.
func (s *Script) Register() (*Script, error) {
	meta, err := s.ResolveAssetMetadata()
	if err != nil {
		return s, err
	}
	s.version = meta.Version

	if err := s.registry.Register(s.handle, s.URL(), meta.Dependencies, meta.Version, s.inFooter); err != nil {
		return s, err
	}

	if s.translations {
		if err := s.registry.SetTranslations(s.handle, s.ctx.Domain(), s.ctx.LanguagePath()); err != nil {
			return s, err
		}
	}

	if len(s.localizeData) > 0 {
		if err := s.registry.Localize(s.handle, s.localizeName, s.localizeData); err != nil {
			return s, err
		}
	}

	return s, nil
}

// Enqueue registers the script if the registry does not know the handle yet,
// then marks it for output.
func (s *Script) Enqueue() (*Script, error) {
	if !s.registry.IsRegistered(s.handle) {
		if _, err := s.Register(); err != nil {
			return s, err
		}
	}

	return s, s.registry.Enqueue(s.handle)
}

// ScriptHandle returns the registry handle.
func (s *Script) ScriptHandle() string {
	return s.handle
}

// Version re-reads the manifest and returns its version. Unlike Register it
// does not update the stored version.
func (s *Script) Version() (string, error) {
	meta, err := s.ResolveAssetMetadata()
	if err != nil {
		return "", err
	}
	return meta.Version, nil
}

func (s *Script) RelativePath() string { return s.relativePath }

func (s *Script) AbsolutePath() string { return s.absolutePath }

// URL is the public URL of the compiled script.
func (s *Script) URL() string {
	return plugin.TrailingSlash(s.ctx.RootURL) + s.relativePath
}

func (s *Script) InFooter() bool { return s.inFooter }
