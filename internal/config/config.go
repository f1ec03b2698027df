// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/invowk/pkgloader/internal/issue"
	"github.com/invowk/pkgloader/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "pkgloader"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. PKGLOADER_LOG_LEVEL.
	EnvPrefix = "PKGLOADER"
	// ConfigDirEnv relocates the configuration directory.
	ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"
)

//go:embed config_schema.cue
var configSchema string

var (
	// Config files may omit any field; defaults fill the gaps.
	configFileSchema = cueutil.Schema{Source: []byte(configSchema), Definition: "#Config", AllowIncomplete: true}
	classMapSchema   = cueutil.Schema{Source: []byte(configSchema), Definition: "#ClassMap"}
)

// ConfigDir returns the pkgloader configuration directory. $PKGLOADER_CONFIG_DIR
// wins when set; otherwise Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// resolveConfigPath returns the file loadWithOptions would read, or "" when
// no config file exists and defaults apply. An explicit ConfigFilePath that
// does not exist is an error.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'pkgloader config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		ConfigFileName + "." + ConfigFileExt,
	}
	for _, path := range candidates {
		if fileExists(path) {
			return path, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("instances", defaults.Instances)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.output", defaults.UI.Output)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Give every instance a unique name").
			WithSuggestion("Root names and class symbols must be unique within an instance").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// v. It decodes to a map so viper can still layer defaults and environment
// overrides on top.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	res, err := cueutil.DecodeFile[map[string]any](afero.NewOsFs(), configFileSchema, path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration into configDirPath
// (the platform config directory when empty) unless a config file already
// exists there. It returns the file path and whether it was written.
func CreateDefaultConfig(configDirPath string) (string, bool, error) {
	cfgDir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", false, err
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := Save(DefaultConfig(), cfgPath); err != nil {
		return "", false, err
	}
	return cfgPath, true, nil
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration that
// round-trips through the loader.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pkgloader configuration file\n\n")

	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	sb.WriteString("\ninstances: [")
	if len(cfg.Instances) > 0 {
		sb.WriteString("\n")
	}
	for _, inst := range cfg.Instances {
		sb.WriteString("\t{\n")
		fmt.Fprintf(&sb, "\t\tname: %q\n", inst.Name)
		if inst.Type != "" {
			fmt.Fprintf(&sb, "\t\ttype: %q\n", inst.Type)
		}
		if inst.PrependHook {
			sb.WriteString("\t\tprepend_hook: true\n")
		}
		if len(inst.Roots) > 0 {
			sb.WriteString("\t\troots: [\n")
			for _, root := range inst.Roots {
				if root.Path != "" {
					fmt.Fprintf(&sb, "\t\t\t{name: %q, path: %q},\n", root.Name, root.Path)
				} else {
					fmt.Fprintf(&sb, "\t\t\t{name: %q},\n", root.Name)
				}
			}
			sb.WriteString("\t\t]\n")
		}
		if len(inst.Classes) > 0 {
			sb.WriteString("\t\tclasses: [\n")
			for _, class := range inst.Classes {
				fmt.Fprintf(&sb, "\t\t\t{symbol: %q, path: %q},\n", class.Symbol, class.Path)
			}
			sb.WriteString("\t\t]\n")
		}
		if len(inst.ClassFiles) > 0 {
			sb.WriteString("\t\tclass_files: [\n")
			for _, file := range inst.ClassFiles {
				fmt.Fprintf(&sb, "\t\t\t%q,\n", file)
			}
			sb.WriteString("\t\t]\n")
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("]\n")

	sb.WriteString("\nwatch: {\n")
	if cfg.Watch.Debounce != "" {
		fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Ignore) > 0 {
		sb.WriteString("\tignore: [")
		for i, pattern := range cfg.Watch.Ignore {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", pattern)
		}
		sb.WriteString("]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	if cfg.UI.Output != "" {
		fmt.Fprintf(&sb, "\toutput: %q\n", cfg.UI.Output)
	}
	sb.WriteString("}\n")

	return sb.String()
}
