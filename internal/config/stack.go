// Where: internal/config/stack.go
// What: Project configuration (stack.yml) load and validation.
// Why: Model artifact locations and build contexts are required inputs, never guessed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/envutil"
	"github.com/poruru/mlstack/internal/meta"
	"gopkg.in/yaml.v3"
)

// Output formats for synthesized templates.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Stack is the parsed stack.yml.
type Stack struct {
	Stack   string           `yaml:"stack"`
	Region  string           `yaml:"region,omitempty"`
	Models  map[string]Model `yaml:"models"`
	Images  Images           `yaml:"images,omitempty"`
	Assets  Assets           `yaml:"assets,omitempty"`
	Ledger  Ledger           `yaml:"ledger,omitempty"`
	IAM     IAM              `yaml:"iam,omitempty"`
	Gateway Gateway          `yaml:"gateway,omitempty"`
	Output  Output           `yaml:"output,omitempty"`

	// Dir is the directory stack.yml was loaded from; relative paths resolve against it.
	Dir string `yaml:"-"`
}

// Model locates one model's build context and artifact.
type Model struct {
	Context string `yaml:"context"`
	// Name overrides the function unit name; defaults to the model kind.
	Name   string `yaml:"name,omitempty"`
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

// UnitName returns the packaging unit name for kind.
func (m Model) UnitName(kind descriptor.ModelKind) string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return string(kind)
}

type Images struct {
	Registry string `yaml:"registry,omitempty"`
	Tag      string `yaml:"tag,omitempty"`
	Push     bool   `yaml:"push,omitempty"`
}

type Assets struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

type Ledger struct {
	Table string `yaml:"table,omitempty"`
}

type IAM struct {
	WildcardGrants bool `yaml:"wildcard_grants,omitempty"`
}

type Gateway struct {
	TimeoutMillis int `yaml:"timeout_ms,omitempty"`
}

type Output struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// LoadStack reads, schema-validates and decodes a stack.yml file.
// Host environment overrides (MLSTACK_IMAGE_TAG, MLSTACK_REGISTRY,
// MLSTACK_ASSETS_BUCKET) are applied after decoding.
func LoadStack(path string) (Stack, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Stack{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseStack(payload)
	if err != nil {
		return Stack{}, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Stack{}, err
	}
	cfg.Dir = filepath.Dir(abs)
	return cfg, nil
}

// ParseStack validates and decodes stack.yml content.
func ParseStack(payload []byte) (Stack, error) {
	if err := validateStackDocument(payload); err != nil {
		return Stack{}, descriptor.NewConfigError(descriptor.ErrInvalidValue, "config", "%v", err)
	}
	var cfg Stack
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Stack{}, fmt.Errorf("decode stack config: %w", err)
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

// OutputDir resolves the synthesis output directory.
func (s Stack) OutputDir() string {
	dir := strings.TrimSpace(s.Output.Dir)
	if dir == "" {
		dir = meta.OutputDir
	}
	if !filepath.IsAbs(dir) && s.Dir != "" {
		dir = filepath.Join(s.Dir, dir)
	}
	return dir
}

func applyEnvOverrides(cfg *Stack) {
	if value, ok := envutil.LookupHostEnv(constants.HostSuffixImageTag); ok {
		cfg.Images.Tag = value
	}
	if value, ok := envutil.LookupHostEnv(constants.HostSuffixRegistry); ok {
		cfg.Images.Registry = value
	}
	if value, ok := envutil.LookupHostEnv(constants.HostSuffixAssets); ok {
		cfg.Assets.Bucket = value
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = firstNonEmpty(os.Getenv(constants.EnvAWSRegion), os.Getenv(constants.EnvAWSDefaultRegion))
	}
}

func applyDefaults(cfg *Stack) {
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatJSON
	}
	if cfg.Images.Tag == "" {
		cfg.Images.Tag = "latest"
	}
	cfg.Assets.Prefix = strings.Trim(cfg.Assets.Prefix, "/")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
