// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/version"
)

type (
	// rootFlags holds the parsed root command flags.
	rootFlags struct {
		version    versionValue
		tag        tagValue
		dryRun     bool
		verbose    bool
		configPath string
	}

	// versionValue is a pflag.Value that validates -V while flags are
	// parsed, so a typo fails before any check or prompt runs.
	versionValue struct {
		n version.Number
	}

	// tagValue is a pflag.Value holding the -t distribution tag.
	tagValue struct {
		t config.DistTag
	}
)

// String implements pflag.Value.
func (v *versionValue) String() string { return v.n.String() }

// Set implements pflag.Value.
func (v *versionValue) Set(s string) error {
	n, err := version.ParseNumber(s)
	if err != nil {
		return err
	}
	v.n = n
	return nil
}

// Type implements pflag.Value.
func (v *versionValue) Type() string { return "version" }

// String implements pflag.Value.
func (v *tagValue) String() string { return v.t.String() }

// Set implements pflag.Value.
func (v *tagValue) Set(s string) error {
	t := config.DistTag(s)
	if valid, errs := t.IsValid(); !valid {
		return errs[0]
	}
	v.t = t
	return nil
}

// Type implements pflag.Value.
func (v *tagValue) Type() string { return "tag" }
