// Where: internal/app/deps.go
// What: Dependency contracts for side-effecting commands.
// Why: Docker and AWS clients are created lazily so synth works without either.
package app

import (
	"context"
	"io"

	"github.com/poruru/mlstack/internal/imagebuild"
	"github.com/poruru/mlstack/internal/packaging"
	"github.com/poruru/mlstack/internal/publish"
	"github.com/poruru/mlstack/internal/synth"
)

// ImageBuilder runs registered image jobs.
type ImageBuilder interface {
	Run(ctx context.Context, jobs []packaging.ImageJob, opts imagebuild.Options) error
}

// Publisher uploads an assembly.
type Publisher interface {
	Publish(ctx context.Context, assembly synth.Assembly, opts publish.Options) (publish.Result, error)
}

type ImageDeps struct {
	New func(out io.Writer) (ImageBuilder, error)
}

type PublishDeps struct {
	New func(out io.Writer) (Publisher, error)
}

// NewImageBuilderFactory creates ImageBuilders from a Docker client constructor.
func NewImageBuilderFactory(newClient func() (imagebuild.DockerClient, error)) func(io.Writer) (ImageBuilder, error) {
	return func(out io.Writer) (ImageBuilder, error) {
		client, err := newClient()
		if err != nil {
			return nil, err
		}
		return imagebuild.NewBuilder(client, out), nil
	}
}

// NewPublisherFactory creates Publishers backed by factory.
func NewPublisherFactory(factory publish.ClientFactory) func(io.Writer) (Publisher, error) {
	return func(out io.Writer) (Publisher, error) {
		return publish.NewPublisher(factory, out), nil
	}
}
