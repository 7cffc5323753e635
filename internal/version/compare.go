package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility reports whether a config file written for
// configVersion can be run by engineVersion.
//
//   - an empty configVersion means the file does not pin a version
//   - "main" on either side is a development build and skips the check
//   - majors must match
//   - the config may not target a newer minor than the engine provides
//
// Examples:
//   - Engine 0.4.2, config 0.4.0 -> OK
//   - Engine 0.4.0, config 0.3.9 -> OK
//   - Engine 0.4.0, config 0.5.0 -> ERROR (config needs newer engine)
//   - Engine 1.0.0, config 0.4.0 -> ERROR (major differs)
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if engineSemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but config targets %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > engineSemver.Minor() {
		return fmt.Errorf("config targets %d.%d.x but engine is only %d.%d.x",
			configSemver.Major(), configSemver.Minor(),
			engineSemver.Major(), engineSemver.Minor())
	}

	return nil
}
