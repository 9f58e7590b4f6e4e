// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultNotesTemplate renders one changelog section per published package.
	DefaultNotesTemplate = `## Changelog
{{range .Packages}}
### [{{.Name}}@{{$.Version}}](https://www.npmjs.com/package/{{.Name}}/v/{{$.Version}})

-
{{end}}`
)

var (
	// ErrInvalidBranchName is returned when a BranchName value is not usable as a git ref.
	ErrInvalidBranchName = errors.New("invalid branch name")
	// ErrInvalidRemoteName is returned when a RemoteName value is empty or malformed.
	ErrInvalidRemoteName = errors.New("invalid remote name")
	// ErrInvalidDistTag is returned when a DistTag is empty or malformed.
	ErrInvalidDistTag = errors.New("invalid distribution tag")
	// ErrInvalidToolName is returned when a ToolName value is empty or contains path separators.
	ErrInvalidToolName = errors.New("invalid tool name")
	// ErrInvalidRelPath is returned when a RelPath escapes the repository root.
	ErrInvalidRelPath = errors.New("invalid relative path")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPackages is the sentinel error wrapped by InvalidPackagesError.
	ErrInvalidPackages = errors.New("invalid package list")
	// ErrInvalidCommands is returned when a configured command is empty.
	ErrInvalidCommands = errors.New("invalid commands config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// BranchName is a local git branch name such as "master".
	BranchName string

	// InvalidBranchNameError is returned when a BranchName is empty or
	// contains characters git rejects in ref names.
	InvalidBranchNameError struct {
		Value BranchName
	}

	// RemoteName is a git remote such as "origin".
	RemoteName string

	// InvalidRemoteNameError is returned when a RemoteName is empty or contains whitespace.
	InvalidRemoteNameError struct {
		Value RemoteName
	}

	// DistTag is a registry distribution tag such as "latest" or "next".
	DistTag string

	// InvalidDistTagError is returned when a DistTag is empty or contains
	// characters outside [A-Za-z0-9._-].
	InvalidDistTagError struct {
		Value DistTag
	}

	// ToolName is an executable resolved through PATH.
	ToolName string

	// InvalidToolNameError is returned when a ToolName is empty or is a path.
	InvalidToolNameError struct {
		Value ToolName
	}

	// RelPath is a slash-separated path relative to the repository root.
	RelPath string

	// InvalidRelPathError is returned when a RelPath is empty, absolute, or
	// climbs out of the repository root.
	InvalidRelPathError struct {
		Field string
		Value RelPath
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPackagesError is returned when the package list has no single
	// primary entry or names a directory twice.
	InvalidPackagesError struct {
		Reason string
	}

	// InvalidCommandsError is returned when one of the configured commands is blank.
	InvalidCommandsError struct {
		Field string
	}

	// InvalidConfigError collects field-level validation errors for a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// PackageEntry describes one package of the suite.
	PackageEntry struct {
		// Dir is the package directory relative to the repository root.
		Dir RelPath `json:"dir" mapstructure:"dir"`
		// Primary marks the base package the others declare a peer dependency on.
		Primary bool `json:"primary,omitempty" mapstructure:"primary"`
	}

	// CommandsConfig holds the package manager invocations. Each value is
	// split into arguments with POSIX shell quoting rules.
	CommandsConfig struct {
		Install string `json:"install" mapstructure:"install"`
		Build   string `json:"build" mapstructure:"build"`
		// Publish is extended with "--tag <tag>" and, when OTPRequired is set,
		// "--otp <code>".
		Publish string `json:"publish" mapstructure:"publish"`
	}

	// ReleaseConfig configures the release-notes page opened at the end of a run.
	ReleaseConfig struct {
		// BaseURL is the source hosting web root.
		BaseURL string `json:"base_url" mapstructure:"base_url"`
		// Repository is "owner/name". Empty derives it from the remote URL.
		Repository string `json:"repository" mapstructure:"repository"`
		// NotesTemplate is a text/template rendered with the version and packages.
		NotesTemplate string `json:"notes_template" mapstructure:"notes_template"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the release configuration.
	Config struct {
		TrunkBranch   BranchName     `json:"trunk_branch" mapstructure:"trunk_branch"`
		Remote        RemoteName     `json:"remote" mapstructure:"remote"`
		DefaultTag    DistTag        `json:"default_tag" mapstructure:"default_tag"`
		RequiredTools []ToolName     `json:"required_tools" mapstructure:"required_tools"`
		ManifestFile  RelPath        `json:"manifest_file" mapstructure:"manifest_file"`
		LockFile      RelPath        `json:"lock_file" mapstructure:"lock_file"`
		BuildDir      RelPath        `json:"build_dir" mapstructure:"build_dir"`
		Packages      []PackageEntry `json:"packages" mapstructure:"packages"`
		Commands      CommandsConfig `json:"commands" mapstructure:"commands"`
		OTPRequired   bool           `json:"otp_required" mapstructure:"otp_required"`
		Release       ReleaseConfig  `json:"release" mapstructure:"release"`
		UI            UIConfig       `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TrunkBranch:   "master",
		Remote:        "origin",
		DefaultTag:    "latest",
		RequiredTools: []ToolName{"git", "node", "npm"},
		ManifestFile:  "package.json",
		LockFile:      "package-lock.json",
		BuildDir:      "dist",
		Packages:      []PackageEntry{},
		Commands: CommandsConfig{
			Install: "npm install",
			Build:   "npm run build",
			Publish: "npm publish",
		},
		OTPRequired: true,
		Release: ReleaseConfig{
			BaseURL:       "https://github.com",
			NotesTemplate: DefaultNotesTemplate,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Error implements the error interface for InvalidBranchNameError.
func (e *InvalidBranchNameError) Error() string {
	return fmt.Sprintf("invalid branch name %q", e.Value)
}

// Unwrap returns ErrInvalidBranchName for errors.Is() compatibility.
func (e *InvalidBranchNameError) Unwrap() error { return ErrInvalidBranchName }

// String returns the string representation of the BranchName.
func (b BranchName) String() string { return string(b) }

// IsValid returns whether the BranchName can name a local git branch.
func (b BranchName) IsValid() (bool, []error) {
	s := string(b)
	if s == "" || strings.ContainsAny(s, " \t\n~^:?*[\\") || strings.Contains(s, "..") ||
		strings.HasPrefix(s, "-") || strings.HasSuffix(s, "/") || strings.HasSuffix(s, ".lock") {
		return false, []error{&InvalidBranchNameError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRemoteNameError.
func (e *InvalidRemoteNameError) Error() string {
	return fmt.Sprintf("invalid remote name %q", e.Value)
}

// Unwrap returns ErrInvalidRemoteName for errors.Is() compatibility.
func (e *InvalidRemoteNameError) Unwrap() error { return ErrInvalidRemoteName }

// String returns the string representation of the RemoteName.
func (r RemoteName) String() string { return string(r) }

// IsValid returns whether the RemoteName is non-empty and free of whitespace.
func (r RemoteName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(r)) == "" || strings.ContainsAny(string(r), " \t\n") {
		return false, []error{&InvalidRemoteNameError{Value: r}}
	}
	return true, nil
}

var distTagPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Error implements the error interface for InvalidDistTagError.
func (e *InvalidDistTagError) Error() string {
	return fmt.Sprintf("invalid distribution tag %q: use letters, digits, '.', '_' or '-'", e.Value)
}

// Unwrap returns ErrInvalidDistTag for errors.Is() compatibility.
func (e *InvalidDistTagError) Unwrap() error { return ErrInvalidDistTag }

// String returns the string representation of the DistTag.
func (d DistTag) String() string { return string(d) }

// IsValid returns whether the DistTag is a non-empty registry tag.
func (d DistTag) IsValid() (bool, []error) {
	if !distTagPattern.MatchString(string(d)) {
		return false, []error{&InvalidDistTagError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolNameError.
func (e *InvalidToolNameError) Error() string {
	return fmt.Sprintf("invalid tool name %q: must be a bare executable name", e.Value)
}

// Unwrap returns ErrInvalidToolName for errors.Is() compatibility.
func (e *InvalidToolNameError) Unwrap() error { return ErrInvalidToolName }

// String returns the string representation of the ToolName.
func (t ToolName) String() string { return string(t) }

// IsValid returns whether the ToolName is a bare executable name.
func (t ToolName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(t)) == "" || strings.ContainsAny(string(t), `/\ `) {
		return false, []error{&InvalidToolNameError{Value: t}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRelPathError.
func (e *InvalidRelPathError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be a relative path inside the repository", e.Field, e.Value)
}

// Unwrap returns ErrInvalidRelPath for errors.Is() compatibility.
func (e *InvalidRelPathError) Unwrap() error { return ErrInvalidRelPath }

// String returns the string representation of the RelPath.
func (p RelPath) String() string { return string(p) }

// Clean returns the path cleaned and converted to the host separator.
func (p RelPath) Clean() string { return filepath.Clean(filepath.FromSlash(string(p))) }

// validate checks the path and labels errors with field.
func (p RelPath) validate(field string) []error {
	s := strings.TrimSpace(string(p))
	if s == "" || filepath.IsAbs(filepath.FromSlash(s)) || strings.HasPrefix(s, "/") {
		return []error{&InvalidRelPathError{Field: field, Value: p}}
	}
	clean := p.Clean()
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return []error{&InvalidRelPathError{Field: field, Value: p}}
	}
	return nil
}

// IsValid returns whether the RelPath stays inside the repository root.
func (p RelPath) IsValid() (bool, []error) {
	if errs := p.validate("path"); len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle maps the scheme to a glamour standard style name.
func (cs ColorScheme) GlamourStyle() string {
	switch cs {
	case ColorSchemeLight:
		return "light"
	case ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}

// Error implements the error interface for InvalidPackagesError.
func (e *InvalidPackagesError) Error() string {
	return "invalid packages: " + e.Reason
}

// Unwrap returns ErrInvalidPackages for errors.Is() compatibility.
func (e *InvalidPackagesError) Unwrap() error { return ErrInvalidPackages }

// Error implements the error interface for InvalidCommandsError.
func (e *InvalidCommandsError) Error() string {
	return fmt.Sprintf("invalid commands config: %s must not be blank", e.Field)
}

// Unwrap returns ErrInvalidCommands for errors.Is() compatibility.
func (e *InvalidCommandsError) Unwrap() error { return ErrInvalidCommands }

// IsValid returns whether every command is non-blank.
func (c CommandsConfig) IsValid() (bool, []error) {
	var errs []error
	fields := []struct{ name, value string }{
		{"install", c.Install},
		{"build", c.Build},
		{"publish", c.Publish},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, &InvalidCommandsError{Field: f.name})
		}
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// validatePackages checks that an explicit package list has exactly one
// primary entry and no duplicate directories. An empty list is valid and
// enables discovery.
func validatePackages(entries []PackageEntry) []error {
	if len(entries) == 0 {
		return nil
	}

	var errs []error
	primaries := 0
	seen := make(map[string]int)
	for i, entry := range entries {
		errs = append(errs, entry.Dir.validate(fmt.Sprintf("packages[%d].dir", i))...)
		clean := entry.Dir.Clean()
		if first, dup := seen[clean]; dup {
			errs = append(errs, &InvalidPackagesError{
				Reason: fmt.Sprintf("packages[%d] repeats directory %q from packages[%d]", i, entry.Dir, first),
			})
		}
		seen[clean] = i
		if entry.Primary {
			primaries++
		}
	}
	if primaries != 1 {
		errs = append(errs, &InvalidPackagesError{
			Reason: fmt.Sprintf("exactly one package must set primary: true, found %d", primaries),
		})
	}
	return errs
}

// OrderedPackages returns the configured packages with the primary entry first
// and the secondaries in their configured order.
func (c Config) OrderedPackages() []PackageEntry {
	ordered := make([]PackageEntry, 0, len(c.Packages))
	for _, entry := range c.Packages {
		if entry.Primary {
			ordered = append(ordered, entry)
		}
	}
	for _, entry := range c.Packages {
		if !entry.Primary {
			ordered = append(ordered, entry)
		}
	}
	return ordered
}

// IsValid returns whether the Config has valid fields, collecting every
// field error into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.TrunkBranch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Remote.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.DefaultTag.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, tool := range c.RequiredTools {
		if valid, fieldErrs := tool.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	errs = append(errs, c.ManifestFile.validate("manifest_file")...)
	errs = append(errs, c.LockFile.validate("lock_file")...)
	errs = append(errs, c.BuildDir.validate("build_dir")...)
	errs = append(errs, validatePackages(c.Packages)...)
	if valid, fieldErrs := c.Commands.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
