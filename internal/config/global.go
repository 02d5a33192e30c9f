// Where: internal/config/global.go
// What: Global config load/save helpers.
// Why: Manage ~/.mlstack/config.yaml consistently.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/envutil"
	"github.com/poruru/mlstack/internal/meta"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents the ~/.mlstack/config.yaml global configuration.
// It tracks synthesized projects and when they were last synthesized.
type GlobalConfig struct {
	Version  int                     `yaml:"version"`
	Projects map[string]ProjectEntry `yaml:"projects,omitempty"`
}

// ProjectEntry stores a project's config path and last-used timestamp.
type ProjectEntry struct {
	Path     string `yaml:"path"`
	LastUsed string `yaml:"last_used"`
}

// DefaultGlobalConfig returns an initialized GlobalConfig with version set.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Version:  meta.GlobalVersion,
		Projects: map[string]ProjectEntry{},
	}
}

// GlobalConfigPath returns the path to the global config file.
// Respects MLSTACK_CONFIG_PATH and MLSTACK_CONFIG_HOME.
func GlobalConfigPath() (string, error) {
	if override, ok := envutil.LookupHostEnv(constants.HostSuffixConfigPath); ok {
		path := override
		if !filepath.IsAbs(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
		return path, nil
	}
	if override, ok := envutil.LookupHostEnv(constants.HostSuffixConfigHome); ok {
		return filepath.Join(override, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.HomeDir, "config.yaml"), nil
}

// LoadGlobalConfig reads and parses the global configuration file.
// A missing file yields the default configuration.
func LoadGlobalConfig(path string) (GlobalConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGlobalConfig(), nil
		}
		return GlobalConfig{}, err
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return GlobalConfig{}, err
	}
	if cfg.Projects == nil {
		cfg.Projects = map[string]ProjectEntry{}
	}
	return cfg, nil
}

// SaveGlobalConfig writes a GlobalConfig to the specified path.
func SaveGlobalConfig(path string, cfg GlobalConfig) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}

// RecordProject marks a stack as last used at now.
func RecordProject(stack, configPath string, now time.Time) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		return err
	}
	cfg.Projects[strings.TrimSpace(stack)] = ProjectEntry{
		Path:     configPath,
		LastUsed: now.UTC().Format(time.RFC3339),
	}
	return SaveGlobalConfig(path, cfg)
}

// RecentProjects returns project names ordered by most recent use.
func (c GlobalConfig) RecentProjects() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		left, right := c.Projects[names[i]].LastUsed, c.Projects[names[j]].LastUsed
		if left == right {
			return names[i] < names[j]
		}
		return left > right
	})
	return names
}
