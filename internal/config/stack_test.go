// Where: internal/config/stack_test.go
// What: Tests for stack.yml parsing and validation.
// Why: Catch invalid project files before any template is rendered.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poruru/mlstack/internal/descriptor"
)

const validStack = `
stack: InferenceStack
region: eu-west-1
models:
  random-forest:
    context: lambdas/random_forest
    bucket: models
    key: rf.joblib
  support-vector:
    context: lambdas/svm
    bucket: models
    key: svm.joblib
  linear-regressor:
    context: lambdas/linear
    name: linear
    bucket: models
    key: lr.joblib
images:
  registry: 123456789012.dkr.ecr.eu-west-1.amazonaws.com/inference
assets:
  bucket: assets
  prefix: /mlstack/
gateway:
  timeout_ms: 29000
`

func TestParseStackValid(t *testing.T) {
	cfg, err := ParseStack([]byte(validStack))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stack != "InferenceStack" || cfg.Region != "eu-west-1" {
		t.Fatalf("unexpected stack: %+v", cfg)
	}
	if len(cfg.Models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(cfg.Models))
	}
	if cfg.Models["support-vector"].Key != "svm.joblib" {
		t.Fatalf("unexpected model: %+v", cfg.Models["support-vector"])
	}
	if got := cfg.Models["linear-regressor"].UnitName(descriptor.LinearRegressor); got != "linear" {
		t.Fatalf("unexpected unit name: %s", got)
	}
	if got := cfg.Models["random-forest"].UnitName(descriptor.RandomForest); got != "random-forest" {
		t.Fatalf("unexpected default unit name: %s", got)
	}
	if cfg.Images.Tag != "latest" || cfg.Output.Format != FormatJSON {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Assets.Prefix != "mlstack" {
		t.Fatalf("expected trimmed prefix, got %q", cfg.Assets.Prefix)
	}
	if cfg.Gateway.TimeoutMillis != 29000 {
		t.Fatalf("unexpected timeout: %d", cfg.Gateway.TimeoutMillis)
	}
}

func TestParseStackEnvOverrides(t *testing.T) {
	t.Setenv("MLSTACK_IMAGE_TAG", "sha-abc")
	t.Setenv("MLSTACK_REGISTRY", "registry.local:5000")
	t.Setenv("MLSTACK_ASSETS_BUCKET", "other-assets")
	cfg, err := ParseStack([]byte(validStack))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Images.Tag != "sha-abc" || cfg.Images.Registry != "registry.local:5000" || cfg.Assets.Bucket != "other-assets" {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Images, cfg.Assets)
	}
}

func TestParseStackRegionFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "ap-northeast-1")
	cfg, err := ParseStack([]byte("stack: S\nmodels: {}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Region != "ap-northeast-1" {
		t.Fatalf("unexpected region: %s", cfg.Region)
	}
}

func TestParseStackSchemaErrors(t *testing.T) {
	cases := map[string]string{
		"unknown model":    "stack: S\nmodels:\n  xgboost: {context: x, bucket: b, key: k}\n",
		"missing bucket":   "stack: S\nmodels:\n  random-forest: {context: x, key: k}\n",
		"empty key":        "stack: S\nmodels:\n  random-forest: {context: x, bucket: b, key: ''}\n",
		"unknown field":    "stack: S\nmodels: {}\nextra: true\n",
		"missing stack":    "models: {}\n",
		"bad timeout":      "stack: S\nmodels: {}\ngateway: {timeout_ms: 90000}\n",
		"bad format":       "stack: S\nmodels: {}\noutput: {format: xml}\n",
		"bad stack name":   "stack: 1bad\nmodels: {}\n",
		"bad wildcard":     "stack: S\nmodels: {}\niam: {wildcard_grants: maybe}\n",
		"model not object": "stack: S\nmodels:\n  random-forest: oops\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStack([]byte(content))
			if !errors.Is(err, descriptor.ErrInvalidValue) {
				t.Fatalf("expected invalid value error, got %v", err)
			}
		})
	}
}

func TestLoadStackResolvesDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack.yml")
	if err := os.WriteFile(path, []byte(validStack), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadStack(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Fatalf("unexpected dir: %s", cfg.Dir)
	}
	if cfg.OutputDir() != filepath.Join(dir, "stack.out") {
		t.Fatalf("unexpected output dir: %s", cfg.OutputDir())
	}
	if _, err := LoadStack(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
