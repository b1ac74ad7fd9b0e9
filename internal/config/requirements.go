package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CheckRequiredVersion verifies that the running binary satisfies the
// required-version constraint from configuration. An empty constraint
// passes. A current version that does not parse as semver (such as the
// "dev" placeholder of local builds) skips the check, since there is
// nothing meaningful to enforce against.
func (c *Config) CheckRequiredVersion(current string) error {
	if c.RequiredVersion == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid required-version constraint %q: %w", c.RequiredVersion, err)
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return nil
	}

	if !constraint.Check(v) {
		return fmt.Errorf("res2csv %s does not satisfy required-version %q", current, c.RequiredVersion)
	}

	return nil
}
