// Where: cmd/mlstack/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/poruru/mlstack/internal/app"
	"github.com/poruru/mlstack/internal/imagebuild"
	"github.com/poruru/mlstack/internal/interaction"
	"github.com/poruru/mlstack/internal/publish"
)

var (
	getwd           = os.Getwd
	newDockerClient = imagebuild.NewDockerClient
)

// buildDependencies constructs the runtime dependencies. Docker and AWS
// clients are created on first use by the commands that need them.
func buildDependencies() (app.Dependencies, error) {
	projectDir, err := getwd()
	if err != nil {
		return app.Dependencies{}, err
	}
	return app.Dependencies{
		ProjectDir: projectDir,
		Out:        os.Stdout,
		Prompter:   interaction.HuhPrompter{},
		IsTerminal: func() bool { return interaction.IsTerminal(os.Stdin) },
		Images: app.ImageDeps{
			New: app.NewImageBuilderFactory(newDockerClient),
		},
		Publish: app.PublishDeps{
			New: app.NewPublisherFactory(publish.NewClientFactory()),
		},
	}, nil
}
