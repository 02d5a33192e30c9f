// Where: internal/app/synth.go
// What: synth command handler.
// Why: Compose the stack, render every template, then write the assembly in one step.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/poruru/mlstack/internal/composition"
	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/imagebuild"
	"github.com/poruru/mlstack/internal/packaging"
	"github.com/poruru/mlstack/internal/synth"
	"github.com/poruru/mlstack/internal/ui"
)

func runSynth(cli CLI, deps Dependencies, out io.Writer) int {
	cfg, configPath, err := loadStack(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	assembly, jobs, err := synthesize(cfg, cli.Synth.Format)
	if err != nil {
		return exitWithError(out, err)
	}

	if cli.Synth.Build || cli.Synth.Push {
		opts := imagebuild.Options{
			NoCache: cli.Synth.NoCache,
			Push:    cli.Synth.Push || cfg.Images.Push,
			Verbose: cli.Synth.Verbose,
		}
		if err := runImageJobs(deps, out, jobs, opts); err != nil {
			return exitWithError(out, err)
		}
	}

	dir := cfg.OutputDir()
	if output := strings.TrimSpace(cli.Synth.Output); output != "" {
		dir = output
		if !filepath.IsAbs(dir) && deps.ProjectDir != "" {
			dir = filepath.Join(deps.ProjectDir, dir)
		}
	}
	written, err := assembly.Write(dir)
	if err != nil {
		return exitWithError(out, fmt.Errorf("write assembly: %w", err))
	}

	console := ui.New(out)
	console.Header("📦", "Synthesized "+assembly.StackName)
	for _, path := range written {
		console.ItemPlain(relativeTo(deps.ProjectDir, path))
	}
	console.Item("Functions", len(jobs))
	console.Item("Route", assembly.Manifest.Endpoint.Route)
	console.Item("Branches", strings.Join(assembly.Manifest.Endpoint.Branches, ", "))
	if root, ok := assembly.Root(); ok && cfg.Assets.Bucket == "" {
		console.Warn(fmt.Sprintf("assets.bucket is not set; %s references nested templates by file name", root.FileName))
	}
	if strings.TrimSpace(cfg.Images.Registry) == "" {
		console.Warn("images.registry is not set; function ImageUri values are local image names that Lambda cannot pull")
	}
	recordProject(deps, out, cfg, configPath)
	console.Success("Synthesis complete")
	return 0
}

// synthesize composes cfg and renders the assembly in memory.
func synthesize(cfg config.Stack, format string) (synth.Assembly, []packaging.ImageJob, error) {
	spec, jobs, err := composition.ComposeWithPackager(cfg)
	if err != nil {
		return synth.Assembly{}, nil, err
	}
	opts := synth.OptionsFromConfig(cfg)
	if value := strings.TrimSpace(format); value != "" {
		opts.Format = value
	}
	assembly, err := synth.Synthesize(spec, jobs, opts)
	if err != nil {
		return synth.Assembly{}, nil, err
	}
	return assembly, jobs, nil
}

func runImageJobs(deps Dependencies, out io.Writer, jobs []packaging.ImageJob, opts imagebuild.Options) error {
	if deps.Images.New == nil {
		return fmt.Errorf("image builder is not configured")
	}
	builder, err := deps.Images.New(out)
	if err != nil {
		return fmt.Errorf("connect to docker: %w", err)
	}
	console := ui.New(out)
	console.Step(fmt.Sprintf("Building %d image(s)", len(jobs)))
	if err := builder.Run(context.Background(), jobs, opts); err != nil {
		console.Failed()
		return err
	}
	console.Done()
	for _, job := range jobs {
		console.Item(job.Name, job.Image.URI())
	}
	return nil
}

func recordProject(deps Dependencies, out io.Writer, cfg config.Stack, configPath string) {
	if err := config.RecordProject(cfg.Stack, configPath, deps.Now()); err != nil {
		ui.New(out).Warn(fmt.Sprintf("failed to record project: %v", err))
	}
}

func relativeTo(base, path string) string {
	if base == "" {
		return path
	}
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
