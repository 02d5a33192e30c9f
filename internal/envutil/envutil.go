// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/poruru/mlstack/internal/meta"
)

// HostEnvKey constructs a host-level environment variable name
// by combining the brand prefix with the given suffix.
// Example: HostEnvKey("IMAGE_TAG") returns "MLSTACK_IMAGE_TAG".
func HostEnvKey(suffix string) (string, error) {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return "", fmt.Errorf("env suffix is required")
	}
	return meta.EnvPrefix + "_" + suffix, nil
}

// GetHostEnv retrieves a host-level environment variable.
func GetHostEnv(suffix string) (string, error) {
	key, err := HostEnvKey(suffix)
	if err != nil {
		return "", err
	}
	return os.Getenv(key), nil
}

// LookupHostEnv returns the trimmed value and whether it is non-empty.
func LookupHostEnv(suffix string) (string, bool) {
	value, err := GetHostEnv(suffix)
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
