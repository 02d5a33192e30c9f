// Where: internal/imagebuild/builder.go
// What: Execute registered image jobs against the Docker Engine API.
// Why: Container images must exist before the synthesized functions can be deployed.
package imagebuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/mattn/go-isatty"
	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/packaging"
)

// Options controls one build run.
type Options struct {
	NoCache bool
	Push    bool
	// Verbose streams daemon output instead of discarding it.
	Verbose bool
}

// Builder runs image jobs sequentially. The first failure stops the run.
type Builder struct {
	Client  DockerClient
	Out     io.Writer
	Archive func(dir string) (io.ReadCloser, error)
	Getenv  func(string) string
}

// NewBuilder returns a Builder streaming to out.
func NewBuilder(client DockerClient, out io.Writer) *Builder {
	return &Builder{Client: client, Out: out}
}

// Run builds every job in order and optionally pushes the result.
func (b *Builder) Run(ctx context.Context, jobs []packaging.ImageJob, opts Options) error {
	if b == nil || b.Client == nil {
		return fmt.Errorf("docker client is not configured")
	}
	for _, job := range jobs {
		if err := b.buildOne(ctx, job, opts); err != nil {
			return err
		}
		if opts.Push {
			if err := b.pushOne(ctx, job, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) buildOne(ctx context.Context, job packaging.ImageJob, opts Options) error {
	tar, err := b.archive(job.Context)
	if err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Context, Err: fmt.Errorf("archive context: %w", err)}
	}
	defer tar.Close()

	dockerfile := job.Dockerfile
	if filepath.IsAbs(dockerfile) {
		if rel, relErr := filepath.Rel(job.Context, dockerfile); relErr == nil {
			dockerfile = rel
		}
	}
	resp, err := b.Client.ImageBuild(ctx, tar, build.ImageBuildOptions{
		Tags:        []string{job.Image.URI()},
		Dockerfile:  filepath.ToSlash(dockerfile),
		Labels:      job.Labels,
		NoCache:     opts.NoCache,
		Remove:      true,
		ForceRemove: true,
		Platform:    "linux/amd64",
	})
	if err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Context, Err: err}
	}
	defer resp.Body.Close()

	if err := b.stream(resp.Body, opts.Verbose); err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Context, Err: err}
	}
	return nil
}

func (b *Builder) pushOne(ctx context.Context, job packaging.ImageJob, opts Options) error {
	auth, err := b.registryAuth(job.Image.Repository)
	if err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Image.URI(), Err: err}
	}
	body, err := b.Client.ImagePush(ctx, job.Image.URI(), image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Image.URI(), Err: fmt.Errorf("push: %w", err)}
	}
	defer body.Close()
	if err := b.stream(body, opts.Verbose); err != nil {
		return &descriptor.BuildError{Unit: job.Name, Path: job.Image.URI(), Err: fmt.Errorf("push: %w", err)}
	}
	return nil
}

// stream drains a daemon JSON message stream. Errors embedded in the stream
// surface as *jsonmessage.JSONError.
func (b *Builder) stream(body io.Reader, verbose bool) error {
	out := io.Discard
	if verbose && b.Out != nil {
		out = b.Out
	}
	fd, isTerm := terminalFd(out)
	return jsonmessage.DisplayJSONMessagesStream(body, out, fd, isTerm, nil)
}

func (b *Builder) archive(dir string) (io.ReadCloser, error) {
	if b.Archive != nil {
		return b.Archive(dir)
	}
	return archive.TarWithOptions(dir, &archive.TarOptions{})
}

// registryAuth encodes credentials for the image's registry host. Anonymous
// pushes send an empty auth header.
func (b *Builder) registryAuth(repository string) (string, error) {
	getenv := b.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	username := strings.TrimSpace(getenv(constants.EnvRegistryUsername))
	password := getenv(constants.EnvRegistryPassword)
	if username == "" && password == "" {
		return "", nil
	}
	return registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      username,
		Password:      password,
		ServerAddress: RegistryHost(repository),
	})
}

// RegistryHost returns the registry host of an image repository, or "" for
// Docker Hub style references without an explicit host.
func RegistryHost(repository string) string {
	trimmed := strings.TrimSpace(repository)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	slash := strings.Index(trimmed, "/")
	if slash == -1 {
		return ""
	}
	host := trimmed[:slash]
	if !strings.ContainsAny(host, ".:") && host != "localhost" {
		return ""
	}
	return host
}

func terminalFd(out io.Writer) (uintptr, bool) {
	file, ok := out.(*os.File)
	if !ok {
		return 0, false
	}
	fd := file.Fd()
	return fd, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
