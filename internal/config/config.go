package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/distributor/internal/plugin"
	"github.com/barisgit/distributor/internal/registry"
)

// Environment variables that override values read from the config file.
const (
	EnvPluginPath = "DT_PLUGIN_PATH"
	EnvPluginURL  = "DT_PLUGIN_URL"
	EnvVersion    = "DT_VERSION"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "distributor.yaml"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	EnvFile           string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	Quiet             bool
}

// DefaultLoadOptions returns sensible defaults for config loading
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              DefaultConfigFile,
		EnvFile:           ".env",
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{
		options: options,
	}
}

// LoadConfig loads and validates the configuration with comprehensive error handling
func (cm *ConfigManager) LoadConfig() (*PluginConfig, error) {
	return cm.LoadConfigFromPath(cm.options.Path)
}

// LoadConfigFromPath loads configuration from a specific path
func (cm *ConfigManager) LoadConfigFromPath(path string) (*PluginConfig, error) {
	if err := cm.loadEnvFile(); err != nil {
		return nil, err
	}

	var config PluginConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !cm.options.AllowMissing {
			return nil, fmt.Errorf("configuration file not found: %s\n\nRun 'dt config init' to create one", path)
		}
		if !cm.options.Quiet {
			fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
		}
		config = *DefaultConfig()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}

		if err := unmarshalConfig(path, data, &config); err != nil {
			return nil, err
		}

		// Paths in the file are relative to the file itself
		if config.RootDir == "" {
			config.RootDir = filepath.Dir(path)
		} else if !filepath.IsAbs(config.RootDir) {
			config.RootDir = filepath.Join(filepath.Dir(path), config.RootDir)
		}
	}

	applyEnvOverrides(&config)

	if cm.options.ApplyDefaults {
		cm.applyDefaults(&config)
	}

	if cm.options.ValidateStructure {
		if errs := cm.validateConfig(&config); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", cm.formatValidationErrors(errs))
		}
	}

	return &config, nil
}

// loadEnvFile loads the optional .env file without overriding variables
// that are already set.
func (cm *ConfigManager) loadEnvFile() error {
	if cm.options.EnvFile == "" {
		return nil
	}
	if _, err := os.Stat(cm.options.EnvFile); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(cm.options.EnvFile); err != nil {
		return fmt.Errorf("failed to load environment file %s: %w", cm.options.EnvFile, err)
	}
	return nil
}

func applyEnvOverrides(config *PluginConfig) {
	if v := os.Getenv(EnvPluginPath); v != "" {
		config.RootDir = v
	}
	if v := os.Getenv(EnvPluginURL); v != "" {
		config.RootURL = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		config.Version = v
	}
}

// validateConfig performs comprehensive validation on the configuration
func (cm *ConfigManager) validateConfig(config *PluginConfig) ValidationErrors {
	var errors ValidationErrors

	if config.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Value:   config.Name,
			Message: "plugin name cannot be empty",
		})
	}

	if config.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Value:   config.Version,
			Message: "plugin version cannot be empty",
		})
	}

	if config.RootDir == "" {
		errors = append(errors, ValidationError{
			Field:   "root_dir",
			Value:   config.RootDir,
			Message: "plugin root directory cannot be empty",
		})
	}

	if config.RootURL == "" {
		errors = append(errors, ValidationError{
			Field:   "root_url",
			Value:   config.RootURL,
			Message: "plugin root URL cannot be empty",
		})
	}

	if config.Port <= 0 || config.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "port",
			Value:   config.Port,
			Message: "port must be between 1 and 65535",
		})
	}

	seen := make(map[string]string)
	checkHandle := func(field, handle string) {
		if handle == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   handle,
				Message: "script handle cannot be empty",
			})
			return
		}
		if previous, exists := seen[handle]; exists {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   handle,
				Message: fmt.Sprintf("duplicate script handle, already used by %s", previous),
			})
			return
		}
		seen[handle] = field
	}

	for i, vendor := range config.Vendor {
		field := fmt.Sprintf("vendor[%d]", i)
		checkHandle(field+".handle", vendor.Handle)
		if vendor.Src == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".src",
				Value:   vendor.Src,
				Message: "vendor script source cannot be empty",
			})
		}
	}

	for i, script := range config.Scripts {
		field := fmt.Sprintf("scripts[%d]", i)
		checkHandle(field+".handle", script.Handle)
		if script.File == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".file",
				Value:   script.File,
				Message: "script file name cannot be empty",
			})
		} else if strings.HasSuffix(script.File, ".js") {
			errors = append(errors, ValidationError{
				Field:   field + ".file",
				Value:   script.File,
				Message: "script file name must not include the .js extension",
			})
		}
		if script.Localize != nil && script.Localize.Name == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".localize.name",
				Value:   script.Localize.Name,
				Message: "localized object name cannot be empty",
			})
		} else if script.Localize != nil && !registry.ValidObjectName(script.Localize.Name) {
			errors = append(errors, ValidationError{
				Field:   field + ".localize.name",
				Value:   script.Localize.Name,
				Message: "localized object name must be a JavaScript identifier",
			})
		}
	}

	return errors
}

// applyDefaults sets default values for missing configuration fields
func (cm *ConfigManager) applyDefaults(config *PluginConfig) {
	if config.Name == "" {
		config.Name = plugin.TextDomain
	}
	if config.Version == "" {
		config.Version = plugin.DefaultVersion
	}
	if config.RootDir == "" {
		config.RootDir = "."
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.RootURL == "" {
		config.RootURL = fmt.Sprintf("http://localhost:%d/", config.Port)
	}
	if config.Locale == "" {
		config.Locale = "en_US"
	}
}

// formatValidationErrors formats validation errors in a user-friendly way
func (cm *ConfigManager) formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// DefaultConfig returns the configuration written by 'dt config init'.
func DefaultConfig() *PluginConfig {
	return &PluginConfig{
		Name:    plugin.TextDomain,
		Version: plugin.DefaultVersion,
		RootDir: ".",
		RootURL: "http://localhost:8080/",
		Locale:  "en_US",
		Port:    8080,
	}
}

// PluginContext builds the plugin context the script builders run against.
func (c *PluginConfig) PluginContext() (plugin.Context, error) {
	return plugin.NewContext(c.RootDir, c.RootURL, c.Version)
}

// Script returns the script config with the given handle.
func (c *PluginConfig) Script(handle string) (ScriptConfig, bool) {
	for _, script := range c.Scripts {
		if script.Handle == handle {
			return script, true
		}
	}
	return ScriptConfig{}, false
}

// Save writes the configuration as TOML when path ends in .toml, YAML otherwise.
func (c *PluginConfig) Save(path string) error {
	data, err := marshalConfig(path, c)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file %s: %w", path, err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshalConfig(path string, data []byte, config *PluginConfig) error {
	if isTOML(path) {
		if err := toml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your TOML syntax", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
	}
	return nil
}

func marshalConfig(path string, config *PluginConfig) ([]byte, error) {
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(config)
}

// GetConfigInfo returns information about the current configuration
func GetConfigInfo(path string) (*ConfigInfo, error) {
	options := DefaultLoadOptions()
	options.Quiet = true
	cm := NewConfigManager(options)
	config, err := cm.LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(path)

	return &ConfigInfo{
		Path:        absPath,
		Name:        config.Name,
		Version:     config.Version,
		RootDir:     config.RootDir,
		RootURL:     config.RootURL,
		Locale:      config.Locale,
		Port:        config.Port,
		ScriptCount: len(config.Scripts),
		VendorCount: len(config.Vendor),
	}, nil
}

// ConfigInfo contains summary information about a configuration
type ConfigInfo struct {
	Path        string
	Name        string
	Version     string
	RootDir     string
	RootURL     string
	Locale      string
	Port        int
	ScriptCount int
	VendorCount int
}

// String returns a formatted string representation of config info
func (info *ConfigInfo) String() string {
	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", info.Path))
	lines = append(lines, fmt.Sprintf("   Plugin: %s %s", info.Name, info.Version))
	lines = append(lines, fmt.Sprintf("   Root: %s", info.RootDir))
	lines = append(lines, fmt.Sprintf("   URL: %s", info.RootURL))
	lines = append(lines, fmt.Sprintf("   Locale: %s", info.Locale))
	lines = append(lines, fmt.Sprintf("   Port: %d", info.Port))
	lines = append(lines, fmt.Sprintf("   Scripts: %d (vendor: %d)", info.ScriptCount, info.VendorCount))

	return strings.Join(lines, "\n")
}

// LoadConfig loads configuration using default options
func LoadConfig() (*PluginConfig, error) {
	cm := NewConfigManager(DefaultLoadOptions())
	return cm.LoadConfig()
}

// LoadConfigFrom loads the configuration at path without console output.
func LoadConfigFrom(path string) (*PluginConfig, error) {
	options := DefaultLoadOptions()
	options.Path = path
	options.Quiet = true

	cm := NewConfigManager(options)
	return cm.LoadConfig()
}

type PluginConfig struct {
	Name    string         `yaml:"name" toml:"name"`
	Version string         `yaml:"version" toml:"version"`
	RootDir string         `yaml:"root_dir" toml:"root_dir"`
	RootURL string         `yaml:"root_url" toml:"root_url"`
	Locale  string         `yaml:"locale" toml:"locale"`
	Port    int            `yaml:"port" toml:"port"`
	Vendor  []VendorConfig `yaml:"vendor,omitempty" toml:"vendor,omitempty"`
	Scripts []ScriptConfig `yaml:"scripts,omitempty" toml:"scripts,omitempty"`
}

// VendorConfig registers a script that is not built by the plugin, such as a
// dependency named in a build manifest.
type VendorConfig struct {
	Handle       string   `yaml:"handle" toml:"handle"`
	Src          string   `yaml:"src" toml:"src"`
	Version      string   `yaml:"version,omitempty" toml:"version,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Footer       bool     `yaml:"footer,omitempty" toml:"footer,omitempty"`
}

type ScriptConfig struct {
	Handle       string          `yaml:"handle" toml:"handle"`
	File         string          `yaml:"file" toml:"file"` // file name under dist/js without extension
	Footer       bool            `yaml:"footer,omitempty" toml:"footer,omitempty"`
	Dependencies []string        `yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Translations bool            `yaml:"translations,omitempty" toml:"translations,omitempty"`
	Enqueue      bool            `yaml:"enqueue,omitempty" toml:"enqueue,omitempty"`
	Localize     *LocalizeConfig `yaml:"localize,omitempty" toml:"localize,omitempty"`
}

type LocalizeConfig struct {
	Name string         `yaml:"name" toml:"name"`
	Data map[string]any `yaml:"data" toml:"data"`
}
