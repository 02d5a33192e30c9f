// Where: internal/scaffold/scaffold_test.go
// What: Tests for project scaffolding.
// Why: Ensure generated projects are complete and existing files are protected.
package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/descriptor"
)

func TestGenerateWritesContextsAndConfig(t *testing.T) {
	dir := t.TempDir()
	written, err := Generate(Options{Dir: dir, Stack: "InferenceStack", Bucket: "model-artifacts", Region: "us-east-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 10 {
		t.Fatalf("expected 3x3 context files + stack.yml, got %d", len(written))
	}

	dockerfile, err := os.ReadFile(filepath.Join(dir, "lambdas", "random_forest", "Dockerfile"))
	if err != nil {
		t.Fatalf("read dockerfile: %v", err)
	}
	if !strings.HasPrefix(string(dockerfile), "FROM public.ecr.aws/lambda/python:3.12") {
		t.Fatalf("unexpected dockerfile:\n%s", dockerfile)
	}
	if !strings.Contains(string(dockerfile), `com.mlstack.function="random-forest"`) {
		t.Fatalf("expected function label:\n%s", dockerfile)
	}

	handler, err := os.ReadFile(filepath.Join(dir, "lambdas", "support_vector", "app.py"))
	if err != nil {
		t.Fatalf("read handler: %v", err)
	}
	for _, want := range []string{`MODEL_KIND = "support-vector"`, `os.environ["BUCKET"]`, `os.environ["KEY"]`, "sklearn.svm.SVR"} {
		if !strings.Contains(string(handler), want) {
			t.Fatalf("handler missing %q:\n%s", want, handler)
		}
	}

	reqs, err := os.ReadFile(filepath.Join(dir, "lambdas", "linear_regressor", "requirements.txt"))
	if err != nil {
		t.Fatalf("read requirements: %v", err)
	}
	if string(reqs) != "boto3\njoblib\nnumpy\nscikit-learn\n" {
		t.Fatalf("unexpected requirements: %q", reqs)
	}

	cfg, err := config.LoadStack(filepath.Join(dir, "stack.yml"))
	if err != nil {
		t.Fatalf("generated stack.yml does not load: %v", err)
	}
	if cfg.Stack != "InferenceStack" || len(cfg.Models) != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	rf := cfg.Models[string(descriptor.RandomForest)]
	if rf.Context != "lambdas/random_forest" || rf.Bucket != "model-artifacts" || rf.Key != "models/random-forest.joblib" {
		t.Fatalf("unexpected model entry: %+v", rf)
	}
}

func TestGenerateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stack.yml"), []byte("stack: Existing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Generate(Options{Dir: dir, Stack: "InferenceStack", Bucket: "b"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "lambdas")); !os.IsNotExist(statErr) {
		t.Fatalf("nothing should be written on conflict")
	}

	if _, err := Generate(Options{Dir: dir, Stack: "InferenceStack", Bucket: "b", Force: true}); err != nil {
		t.Fatalf("force should overwrite: %v", err)
	}
	payload, _ := os.ReadFile(filepath.Join(dir, "stack.yml"))
	if !strings.HasPrefix(string(payload), "stack: InferenceStack") {
		t.Fatalf("expected overwritten stack.yml, got %s", payload)
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want error
	}{
		{name: "missing bucket", opts: Options{Dir: t.TempDir(), Stack: "S"}, want: descriptor.ErrMissingInput},
		{name: "invalid stack", opts: Options{Dir: t.TempDir(), Stack: "1bad", Bucket: "b"}, want: descriptor.ErrInvalidValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(tc.opts); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
