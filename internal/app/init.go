// Where: internal/app/init.go
// What: init command handler.
// Why: Prompt only for inputs that cannot be defaulted, and only on a terminal.
package app

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/poruru/mlstack/internal/meta"
	"github.com/poruru/mlstack/internal/scaffold"
	"github.com/poruru/mlstack/internal/ui"
)

func runInit(cli CLI, deps Dependencies, out io.Writer) int {
	dir := strings.TrimSpace(cli.Init.Dir)
	if dir == "" {
		dir = deps.ProjectDir
	} else if !filepath.IsAbs(dir) && deps.ProjectDir != "" {
		dir = filepath.Join(deps.ProjectDir, dir)
	}

	bucket := strings.TrimSpace(cli.Init.Bucket)
	if bucket == "" && interactive(deps) {
		value, err := deps.Prompter.Input("Model artifact bucket", "my-model-artifacts", func(value string) error {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("bucket is required")
			}
			return nil
		})
		if err != nil {
			return exitWithError(out, err)
		}
		bucket = value
	}

	opts := scaffold.Options{
		Dir:    dir,
		Stack:  cli.Init.Stack,
		Bucket: bucket,
		Region: cli.Init.Region,
		Force:  cli.Init.Force,
	}
	written, err := scaffold.Generate(opts)
	if errors.Is(err, scaffold.ErrExists) && interactive(deps) {
		overwrite, promptErr := deps.Prompter.Confirm("Project files already exist. Overwrite?")
		if promptErr != nil {
			return exitWithError(out, promptErr)
		}
		if overwrite {
			opts.Force = true
			written, err = scaffold.Generate(opts)
		}
	}
	if err != nil {
		return exitWithError(out, err)
	}

	console := ui.New(out)
	console.Header("🧩", "Scaffolded "+cli.Init.Stack)
	for _, path := range written {
		console.ItemPlain(relativeTo(dir, path))
	}
	console.Info(fmt.Sprintf("Next: edit %s, then run '%s synth'", meta.ConfigFile, meta.AppName))
	return 0
}

func interactive(deps Dependencies) bool {
	return deps.Prompter != nil && deps.IsTerminal != nil && deps.IsTerminal()
}
