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

	"github.com/invowk/suitepub/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "suitepub"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// RepoConfigFileName is the repository-local config file name.
	RepoConfigFileName = "suitepub.cue"
	// EnvPrefix prefixes environment overrides, e.g. SUITEPUB_REMOTE.
	EnvPrefix = "SUITEPUB"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the suitepub configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
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
	default: // Linux and others
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

// newViper returns a Viper instance seeded with the defaults and bound to
// SUITEPUB_* environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("trunk_branch", string(defaults.TrunkBranch))
	v.SetDefault("remote", string(defaults.Remote))
	v.SetDefault("default_tag", string(defaults.DefaultTag))
	v.SetDefault("required_tools", toolStrings(defaults.RequiredTools))
	v.SetDefault("manifest_file", string(defaults.ManifestFile))
	v.SetDefault("lock_file", string(defaults.LockFile))
	v.SetDefault("build_dir", string(defaults.BuildDir))
	v.SetDefault("packages", []any{})
	v.SetDefault("commands.install", defaults.Commands.Install)
	v.SetDefault("commands.build", defaults.Commands.Build)
	v.SetDefault("commands.publish", defaults.Commands.Publish)
	v.SetDefault("otp_required", defaults.OTPRequired)
	v.SetDefault("release.base_url", defaults.Release.BaseURL)
	v.SetDefault("release.repository", defaults.Release.Repository)
	v.SetDefault("release.notes_template", defaults.Release.NotesTemplate)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolveConfigPath picks the file to load: an explicit path first, then the
// repository-local suitepub.cue, then the user config file. An empty result
// means defaults only.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestions(
					"Verify the file path is correct",
					"Check that the file exists and is readable",
				).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	if opts.RepoDir != "" {
		repoPath := filepath.Join(opts.RepoDir, RepoConfigFileName)
		if fileExists(repoPath) {
			return repoPath, nil
		}
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(userPath) {
		return userPath, nil
	}

	return "", nil
}

// loadWithOptions performs option-driven config loading.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestions(
					"Check that the file contains valid CUE syntax",
					"Verify the configuration values match the expected schema",
					"Run 'suitepub config show' to see the effective configuration",
				).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = path

	// CUE checks shapes; path containment and the single-primary rule live here.
	if valid, errs := cfg.IsValid(); !valid {
		resource := path
		if resource == "" {
			resource = "(defaults and environment)"
		}
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resource).
			WithSuggestions(
				"Mark exactly one entry in packages with primary: true",
				"Keep every path relative to the repository root",
			).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func toolStrings(tools []ToolName) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = string(t)
	}
	return out
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// suitepub release configuration\n\n")

	fmt.Fprintf(&sb, "trunk_branch: %q\n", cfg.TrunkBranch)
	fmt.Fprintf(&sb, "remote:       %q\n", cfg.Remote)
	fmt.Fprintf(&sb, "default_tag:  %q\n", cfg.DefaultTag)

	quoted := make([]string, len(cfg.RequiredTools))
	for i, t := range cfg.RequiredTools {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	fmt.Fprintf(&sb, "required_tools: [%s]\n", strings.Join(quoted, ", "))

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "manifest_file: %q\n", cfg.ManifestFile)
	fmt.Fprintf(&sb, "lock_file:     %q\n", cfg.LockFile)
	fmt.Fprintf(&sb, "build_dir:     %q\n", cfg.BuildDir)

	if len(cfg.Packages) > 0 {
		sb.WriteString("\npackages: [\n")
		for _, entry := range cfg.OrderedPackages() {
			if entry.Primary {
				fmt.Fprintf(&sb, "\t{dir: %q, primary: true},\n", entry.Dir)
			} else {
				fmt.Fprintf(&sb, "\t{dir: %q},\n", entry.Dir)
			}
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\ncommands: {\n")
	fmt.Fprintf(&sb, "\tinstall: %q\n", cfg.Commands.Install)
	fmt.Fprintf(&sb, "\tbuild:   %q\n", cfg.Commands.Build)
	fmt.Fprintf(&sb, "\tpublish: %q\n", cfg.Commands.Publish)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\notp_required: %v\n", cfg.OTPRequired)

	sb.WriteString("\nrelease: {\n")
	fmt.Fprintf(&sb, "\tbase_url: %q\n", cfg.Release.BaseURL)
	if cfg.Release.Repository != "" {
		fmt.Fprintf(&sb, "\trepository: %q\n", cfg.Release.Repository)
	}
	fmt.Fprintf(&sb, "\tnotes_template: %q\n", cfg.Release.NotesTemplate)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
