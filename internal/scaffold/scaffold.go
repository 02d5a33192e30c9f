// Where: internal/scaffold/scaffold.go
// What: Render starter build contexts and stack.yml for a new project.
// Why: Give each model kind a working container context so synthesis has something to package.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/meta"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// ErrExists is returned when a target file exists and Force is not set.
var ErrExists = errors.New("file already exists")

const (
	defaultPythonVersion = "3.12"
	lambdasDir           = "lambdas"
)

var requirements = []string{"boto3", "joblib", "numpy", "scikit-learn"}

var estimators = map[descriptor.ModelKind]string{
	descriptor.RandomForest:    "sklearn.ensemble.RandomForestRegressor",
	descriptor.SupportVector:   "sklearn.svm.SVR",
	descriptor.LinearRegressor: "sklearn.linear_model.LinearRegression",
}

// Options describes the project to scaffold.
type Options struct {
	Dir    string
	Stack  string
	Bucket string
	Region string
	Force  bool
}

type modelData struct {
	Kind          string
	Name          string
	Estimator     string
	Context       string
	Key           string
	PythonVersion string
	LabelPrefix   string
	BucketEnv     string
	KeyEnv        string
	Requirements  []string
}

type stackData struct {
	Stack     string
	Region    string
	Bucket    string
	OutputDir string
	Models    []modelData
}

// Generate writes one build context per model kind plus stack.yml and
// returns the written paths. Nothing is written when any target exists and
// Force is false.
func Generate(opts Options) ([]string, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		dir = "."
	}
	stack := strings.TrimSpace(opts.Stack)
	if !descriptor.ValidName(stack) {
		return nil, descriptor.NewConfigError(descriptor.ErrInvalidValue, "init", "stack name %q", opts.Stack)
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, descriptor.NewConfigError(descriptor.ErrMissingInput, "init", "artifact bucket is required")
	}

	files := map[string]string{}
	order := []string{}
	add := func(path, body string) {
		files[path] = body
		order = append(order, path)
	}

	data := stackData{
		Stack:     stack,
		Region:    strings.TrimSpace(opts.Region),
		Bucket:    strings.TrimSpace(opts.Bucket),
		OutputDir: meta.OutputDir,
	}
	for _, kind := range descriptor.ModelKinds() {
		model := modelData{
			Kind:          string(kind),
			Name:          string(kind),
			Estimator:     estimators[kind],
			Context:       filepath.ToSlash(filepath.Join(lambdasDir, contextDirName(kind))),
			Key:           "models/" + string(kind) + ".joblib",
			PythonVersion: defaultPythonVersion,
			LabelPrefix:   meta.LabelPrefix,
			BucketEnv:     constants.FunctionEnvBucket,
			KeyEnv:        constants.FunctionEnvKey,
			Requirements:  requirements,
		}
		data.Models = append(data.Models, model)

		contextDir := filepath.Join(dir, filepath.FromSlash(model.Context))
		for _, name := range []string{"Dockerfile", "app.py", "requirements.txt"} {
			body, err := renderTemplate(name+".tmpl", model)
			if err != nil {
				return nil, fmt.Errorf("render %s for %s: %w", name, kind, err)
			}
			add(filepath.Join(contextDir, name), body)
		}
	}
	body, err := renderTemplate("stack.yml.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", meta.ConfigFile, err)
	}
	add(filepath.Join(dir, meta.ConfigFile), body)

	if !opts.Force {
		for _, path := range order {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s: %w", path, ErrExists)
			}
		}
	}
	for _, path := range order {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(files[path]), 0o644); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// contextDirName maps random-forest to random_forest, matching Python package naming.
func contextDirName(kind descriptor.ModelKind) string {
	return strings.ReplaceAll(string(kind), "-", "_")
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
