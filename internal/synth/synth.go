// Where: internal/synth/synth.go
// What: Render a StackSpec into CloudFormation templates and an assembly manifest.
// Why: The resource graph is emitted once, in full, for the external provisioning engine.
package synth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/meta"
	"github.com/poruru/mlstack/internal/packaging"
)

// Options controls rendering and nested template locations.
type Options struct {
	Format      string
	AssetBucket string
	AssetPrefix string
	Region      string
}

// OptionsFromConfig maps stack.yml settings onto synthesis options.
func OptionsFromConfig(cfg config.Stack) Options {
	return Options{
		Format:      cfg.Output.Format,
		AssetBucket: cfg.Assets.Bucket,
		AssetPrefix: cfg.Assets.Prefix,
		Region:      cfg.Region,
	}
}

// TemplateFile is one rendered template.
type TemplateFile struct {
	LogicalID string
	FileName  string
	URL       string
	Body      []byte
	Nested    bool
}

// Digest returns the hex sha256 of the template body.
func (f TemplateFile) Digest() string {
	sum := sha256.Sum256(f.Body)
	return hex.EncodeToString(sum[:])
}

// Assembly is the complete synthesis output held in memory.
type Assembly struct {
	StackName string
	Templates []TemplateFile
	Manifest  Manifest
}

// Root returns the parent template.
func (a Assembly) Root() (TemplateFile, bool) {
	for _, tf := range a.Templates {
		if !tf.Nested {
			return tf, true
		}
	}
	return TemplateFile{}, false
}

// Nested returns the nested templates in emission order.
func (a Assembly) Nested() []TemplateFile {
	out := []TemplateFile{}
	for _, tf := range a.Templates {
		if tf.Nested {
			out = append(out, tf)
		}
	}
	return out
}

// Synthesize renders every template before returning. On error nothing is
// returned, so callers never hold a partial resource graph.
func Synthesize(spec descriptor.StackSpec, jobs []packaging.ImageJob, opts Options) (Assembly, error) {
	if !descriptor.ValidName(spec.Name) {
		return Assembly{}, descriptor.NewConfigError(descriptor.ErrInvalidValue, "synth", "stack name %q", spec.Name)
	}
	if len(spec.Functions) == 0 {
		return Assembly{}, descriptor.NewConfigError(descriptor.ErrMissingInput, "synth", "stack has no functions")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = config.FormatJSON
	}
	if format != config.FormatJSON && format != config.FormatYAML {
		return Assembly{}, descriptor.NewConfigError(descriptor.ErrInvalidValue, "synth", "output format %q", opts.Format)
	}

	type nestedBuilder struct {
		id     string
		suffix string
		build  func(descriptor.StackSpec) (*cloudformation.Template, error)
	}
	builders := []nestedBuilder{
		{id: PackagingStackID, suffix: "packaging", build: packagingTemplate},
		{id: OrchestrationStackID, suffix: "orchestration", build: orchestrationTemplate},
		{id: GatewayStackID, suffix: "gateway", build: gatewayTemplate},
	}

	urls := map[string]string{}
	nested := make([]TemplateFile, 0, len(builders))
	for _, b := range builders {
		template, err := b.build(spec)
		if err != nil {
			return Assembly{}, err
		}
		fileName := fmt.Sprintf("%s-%s.nested.template.%s", spec.Name, b.suffix, format)
		body, err := encode(template, format)
		if err != nil {
			return Assembly{}, fmt.Errorf("render %s: %w", fileName, err)
		}
		url := templateURL(opts, fileName)
		urls[b.id] = url
		nested = append(nested, TemplateFile{
			LogicalID: b.id,
			FileName:  fileName,
			URL:       url,
			Body:      body,
			Nested:    true,
		})
	}

	rootName := fmt.Sprintf("%s.template.%s", spec.Name, format)
	rootBody, err := encode(rootTemplate(spec, urls), format)
	if err != nil {
		return Assembly{}, fmt.Errorf("render %s: %w", rootName, err)
	}
	templates := append([]TemplateFile{{
		LogicalID: spec.Name,
		FileName:  rootName,
		Body:      rootBody,
	}}, nested...)

	return Assembly{
		StackName: spec.Name,
		Templates: templates,
		Manifest:  buildManifest(spec, jobs, templates),
	}, nil
}

// Write stores every template and the manifest under dir.
func (a Assembly) Write(dir string) ([]string, error) {
	if len(a.Templates) == 0 {
		return nil, fmt.Errorf("assembly is empty")
	}
	manifest, err := a.Manifest.JSON()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	written := make([]string, 0, len(a.Templates)+1)
	for _, tf := range a.Templates {
		path := filepath.Join(dir, tf.FileName)
		if err := os.WriteFile(path, tf.Body, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	manifestPath := filepath.Join(dir, meta.ManifestFile)
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return written, err
	}
	return append(written, manifestPath), nil
}

// ObjectKey returns the asset-bucket key for a template file name.
func ObjectKey(prefix, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fileName
	}
	return prefix + "/" + fileName
}

func templateURL(opts Options, fileName string) string {
	bucket := strings.TrimSpace(opts.AssetBucket)
	if bucket == "" {
		return fileName
	}
	return ObjectURL(bucket, opts.Region, ObjectKey(opts.AssetPrefix, fileName))
}

// ObjectURL returns the virtual-hosted S3 URL of key in bucket.
func ObjectURL(bucket, region, key string) string {
	host := bucket + ".s3.amazonaws.com"
	if region = strings.TrimSpace(region); region != "" && region != "us-east-1" {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", bucket, region)
	}
	return "https://" + host + "/" + key
}

func encode(template *cloudformation.Template, format string) ([]byte, error) {
	if format == config.FormatYAML {
		return template.YAML()
	}
	return template.JSON()
}
