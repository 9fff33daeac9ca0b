package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/distributor/internal/assets"
	"github.com/barisgit/distributor/internal/config"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugin configuration",
		Long:  "Validate, view, and create the distributor.yaml configuration",
	}

	cmd.AddCommand(configValidateCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  "Validate the syntax and structure of a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}

	cmd.Flags().Bool("strict", false, "Enable strict validation (fail on warnings)")

	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [config-file]",
		Short: "Show configuration information",
		Long:  "Display detailed information about the current configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}

	cmd.Flags().Bool("full", false, "Show detailed configuration breakdown")

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long:  "Create a new distributor.yaml configuration file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().Bool("yes", false, "Accept defaults without prompting")
	cmd.Flags().String("url", "", "Plugin root URL")
	cmd.Flags().String("version", "", "Plugin version")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(cmd, args)
	strict, _ := cmd.Flags().GetBool("strict")

	fmt.Printf("🔍 Validating configuration file: %s\n", configPath)

	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		color.New(color.FgRed).Printf("❌ Configuration validation failed:\n%v\n", err)
		return err
	}

	color.New(color.FgGreen).Printf("✅ Configuration is valid!\n")

	if info, err := config.GetConfigInfo(configPath); err == nil {
		fmt.Printf("\n%s\n", info.String())
	}

	issues := checkConfigIssues(cfg)
	if len(issues) > 0 {
		color.New(color.FgYellow).Printf("\n⚠️  Potential issues found:\n")
		for i, issue := range issues {
			fmt.Printf("  %d. %s\n", i+1, issue)
		}
		if strict {
			return fmt.Errorf("strict validation failed due to %d issue(s)", len(issues))
		}
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(cmd, args)
	full, _ := cmd.Flags().GetBool("full")

	info, err := config.GetConfigInfo(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("%s\n", info.String())

	if full {
		fmt.Printf("\n📝 Detailed Configuration:\n")

		cfg, err := config.LoadConfigFrom(configPath)
		if err != nil {
			return fmt.Errorf("failed to load full configuration: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}

		fmt.Printf("```yaml\n%s```\n", string(data))
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	acceptDefaults, _ := cmd.Flags().GetBool("yes")
	rootURL, _ := cmd.Flags().GetString("url")
	version, _ := cmd.Flags().GetString("version")

	configPath := getConfigPath(cmd, nil)

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
		}
	}

	cfg := config.DefaultConfig()
	if rootURL != "" {
		cfg.RootURL = rootURL
	}
	if version != "" {
		cfg.Version = version
	}

	if !acceptDefaults {
		if err := promptConfig(cfg, rootURL == "", version == ""); err != nil {
			return err
		}
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("✅ Created configuration file: %s\n", configPath)
	fmt.Printf("   Plugin: %s %s\n", cfg.Name, cfg.Version)
	fmt.Printf("   URL: %s\n", cfg.RootURL)
	fmt.Printf("   Scripts: %d\n", len(cfg.Scripts))

	return nil
}

func promptConfig(cfg *config.PluginConfig, askURL, askVersion bool) error {
	if askURL {
		prompt := &survey.Input{
			Message: "Plugin root URL:",
			Default: cfg.RootURL,
		}
		if err := survey.AskOne(prompt, &cfg.RootURL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if askVersion {
		prompt := &survey.Input{
			Message: "Plugin version:",
			Default: cfg.Version,
		}
		if err := survey.AskOne(prompt, &cfg.Version, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	found := discoverScripts(cfg.RootDir)
	if len(found) == 0 {
		return nil
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Scripts found in dist/js to register:",
		Options: found,
		Default: found,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return err
	}

	var enqueued []string
	if len(selected) > 0 {
		enqueuePrompt := &survey.MultiSelect{
			Message: "Scripts to enqueue on every page:",
			Options: selected,
		}
		if err := survey.AskOne(enqueuePrompt, &enqueued); err != nil {
			return err
		}
	}

	enqueue := make(map[string]bool, len(enqueued))
	for _, name := range enqueued {
		enqueue[name] = true
	}
	for _, name := range selected {
		cfg.Scripts = append(cfg.Scripts, config.ScriptConfig{
			Handle:  "dt-" + name,
			File:    name,
			Enqueue: enqueue[name],
		})
	}

	return nil
}

// discoverScripts lists compiled scripts under dist/js by file name without extension.
func discoverScripts(rootDir string) []string {
	matches, err := filepath.Glob(filepath.Join(rootDir, filepath.FromSlash(assets.ScriptDir), "*.js"))
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		names = append(names, base[:len(base)-len(".js")])
	}
	return names
}

func checkConfigIssues(cfg *config.PluginConfig) []string {
	var issues []string

	if len(cfg.Scripts) == 0 {
		issues = append(issues, "No scripts configured - nothing will be registered")
	}

	registered := make(map[string]bool)
	for _, vendor := range cfg.Vendor {
		registered[vendor.Handle] = true
	}
	for _, script := range cfg.Scripts {
		registered[script.Handle] = true
	}

	for _, script := range cfg.Scripts {
		path := filepath.Join(cfg.RootDir, filepath.FromSlash(assets.ScriptDir+script.File+".js"))
		if _, err := os.Stat(path); err != nil {
			issues = append(issues, fmt.Sprintf("Script %s: %s not found - run the asset build first", script.Handle, path))
		}
		for _, dep := range script.Dependencies {
			if !registered[dep] {
				issues = append(issues, fmt.Sprintf("Script %s depends on unregistered handle %s - add it under vendor", script.Handle, dep))
			}
		}
	}

	return issues
}
