// Where: internal/app/build.go
// What: build command handler.
// Why: Build and push function images without rendering templates.
package app

import (
	"io"

	"github.com/poruru/mlstack/internal/composition"
	"github.com/poruru/mlstack/internal/imagebuild"
	"github.com/poruru/mlstack/internal/ui"
)

func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	cfg, _, err := loadStack(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	_, jobs, err := composition.ComposeWithPackager(cfg)
	if err != nil {
		return exitWithError(out, err)
	}
	opts := imagebuild.Options{
		NoCache: cli.Build.NoCache,
		Push:    cli.Build.Push || cfg.Images.Push,
		Verbose: cli.Build.Verbose,
	}
	if err := runImageJobs(deps, out, jobs, opts); err != nil {
		return exitWithError(out, err)
	}
	ui.New(out).Success("Build complete")
	return 0
}
