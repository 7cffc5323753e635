package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{name: "exact match", engineVersion: "0.4.0", configVersion: "0.4.0"},
		{name: "engine patch higher", engineVersion: "0.4.3", configVersion: "0.4.0"},
		{name: "config patch higher", engineVersion: "0.4.0", configVersion: "0.4.7"},
		{name: "config older minor", engineVersion: "0.4.0", configVersion: "0.2.1"},
		{name: "unpinned config", engineVersion: "0.4.0", configVersion: ""},
		{name: "engine is main", engineVersion: "main", configVersion: "9.9.9"},
		{name: "config is main", engineVersion: "0.4.0", configVersion: "main"},
		{name: "v prefixes", engineVersion: "v0.4.0", configVersion: "v0.4.0"},
		{name: "prerelease engine", engineVersion: "0.4.0-rc1", configVersion: "0.4.0"},
		{
			name:          "config newer minor",
			engineVersion: "0.4.0",
			configVersion: "0.5.0",
			expectError:   true,
			errorContains: "config targets 0.5.x",
		},
		{
			name:          "major differs",
			engineVersion: "1.0.0",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "invalid engine",
			engineVersion: "not-a-version",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
		{
			name:          "invalid config",
			engineVersion: "0.4.0",
			configVersion: "four",
			expectError:   true,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.engineVersion, tt.configVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
	require.NoError(t, CheckConfigCompatibility(GetVersion(), GetVersion()))
}
