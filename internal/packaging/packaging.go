// Where: internal/packaging/packaging.go
// What: Function packaging unit.
// Why: Turn a container build context into a function descriptor plus its execution role.
package packaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/meta"
)

const (
	unitName       = "packaging"
	dockerfileName = "Dockerfile"
	defaultTag     = "latest"
)

// ImageJob is a container image build registered by Build.
type ImageJob struct {
	Name       string
	Context    string
	Dockerfile string
	Image      descriptor.ImageRef
	Labels     map[string]string
}

// Packager packages functions for a single composition. Names are unique per
// Packager; a second Build with the same name is a configuration error.
type Packager struct {
	// BaseDir resolves relative build contexts.
	BaseDir string
	// Registry is the image repository prefix, e.g. an ECR registry host/namespace.
	Registry string
	Tag      string
	Stat     func(string) (os.FileInfo, error)

	jobs   []ImageJob
	names  map[string]struct{}
	images map[string]string
}

// New returns a Packager rooted at baseDir.
func New(baseDir, registry, tag string) *Packager {
	return &Packager{
		BaseDir:  baseDir,
		Registry: registry,
		Tag:      tag,
		Stat:     os.Stat,
	}
}

// Build validates the build context, registers an image build job tagged with
// name, and returns the function descriptor. bucket and key are passed through
// to the function environment without inspection.
func (p *Packager) Build(name, buildContext, bucket, key string) (descriptor.FunctionSpec, error) {
	if p == nil {
		return descriptor.FunctionSpec{}, fmt.Errorf("packager is nil")
	}
	name = strings.TrimSpace(name)
	if !descriptor.ValidName(name) {
		return descriptor.FunctionSpec{}, descriptor.NewConfigError(
			descriptor.ErrInvalidValue, unitName, "function name %q is not usable as an identifier", name)
	}
	if p.names == nil {
		p.names = map[string]struct{}{}
	}
	if _, ok := p.names[name]; ok {
		return descriptor.FunctionSpec{}, descriptor.NewConfigError(
			descriptor.ErrDuplicateName, unitName, "function %q is already packaged", name)
	}
	// Logical IDs must not collide either: "svm-a" and "svm_a" render the same.
	for existing := range p.names {
		if descriptor.LogicalName(existing) == descriptor.LogicalName(name) {
			return descriptor.FunctionSpec{}, descriptor.NewConfigError(
				descriptor.ErrDuplicateName, unitName, "function %q collides with %q", name, existing)
		}
	}

	imageName, err := imageSafeName(name)
	if err != nil {
		return descriptor.FunctionSpec{}, descriptor.NewConfigError(descriptor.ErrInvalidValue, unitName, "%v", err)
	}
	if existing, ok := p.images[imageName]; ok {
		return descriptor.FunctionSpec{}, descriptor.NewConfigError(
			descriptor.ErrDuplicateName, unitName, "function image name collision: %q and %q both sanitize to %q", existing, name, imageName)
	}

	contextDir, dockerfile, err := p.resolveContext(name, buildContext)
	if err != nil {
		return descriptor.FunctionSpec{}, err
	}

	image := p.imageRef(imageName)
	p.names[name] = struct{}{}
	if p.images == nil {
		p.images = map[string]string{}
	}
	p.images[imageName] = name
	p.jobs = append(p.jobs, ImageJob{
		Name:       name,
		Context:    contextDir,
		Dockerfile: dockerfile,
		Image:      image,
		Labels:     imageLabels(name),
	})

	return descriptor.FunctionSpec{
		Name:         name,
		BuildContext: contextDir,
		Environment: map[string]string{
			constants.FunctionEnvBucket: bucket,
			constants.FunctionEnvKey:    key,
		},
		MemoryMB:       descriptor.DefaultMemoryMB,
		TimeoutSeconds: descriptor.DefaultTimeoutSeconds,
		Image:          image,
		Role: descriptor.RoleSpec{
			TrustedService:  descriptor.ServiceLambda,
			ManagedPolicies: []string{descriptor.ManagedBasicExecARN},
		},
	}, nil
}

// Jobs returns the registered image builds in registration order.
func (p *Packager) Jobs() []ImageJob {
	if p == nil {
		return nil
	}
	out := make([]ImageJob, len(p.jobs))
	copy(out, p.jobs)
	return out
}

func (p *Packager) resolveContext(name, buildContext string) (string, string, error) {
	trimmed := strings.TrimSpace(buildContext)
	if trimmed == "" {
		return "", "", &descriptor.BuildError{Unit: name, Path: buildContext, Err: descriptor.ErrMissingBuildContext}
	}
	path := trimmed
	if !filepath.IsAbs(path) && p.BaseDir != "" {
		path = filepath.Join(p.BaseDir, path)
	}
	path = filepath.Clean(path)

	stat := p.Stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", &descriptor.BuildError{Unit: name, Path: path, Err: descriptor.ErrMissingBuildContext}
		}
		return "", "", &descriptor.BuildError{Unit: name, Path: path, Err: err}
	}
	if !info.IsDir() {
		return "", "", &descriptor.BuildError{Unit: name, Path: path, Err: fmt.Errorf("build context is not a directory")}
	}
	dockerfile := filepath.Join(path, dockerfileName)
	if _, err := stat(dockerfile); err != nil {
		return "", "", &descriptor.BuildError{Unit: name, Path: path, Err: fmt.Errorf("%s not found: %w", dockerfileName, err)}
	}
	return path, dockerfileName, nil
}

// imageRef expects a name already passed through imageSafeName.
func (p *Packager) imageRef(imageName string) descriptor.ImageRef {
	tag := strings.TrimSpace(p.Tag)
	if tag == "" {
		tag = defaultTag
	}
	registry := strings.TrimSuffix(strings.TrimSpace(p.Registry), "/")
	repo := meta.ImagePrefix + "-" + imageName
	if registry != "" {
		repo = registry + "/" + imageName
	}
	return descriptor.ImageRef{Repository: repo, Tag: tag}
}

func imageLabels(name string) map[string]string {
	return map[string]string{
		meta.LabelPrefix + ".managed":  "true",
		meta.LabelPrefix + ".function": name,
	}
}
