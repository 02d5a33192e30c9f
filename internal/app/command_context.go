// Where: internal/app/command_context.go
// What: Shared config loading and error reporting for command handlers.
// Why: Give every command the same config resolution and error hints.
package app

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/meta"
)

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	var buildErr *descriptor.BuildError
	if errors.As(err, &buildErr) && errors.Is(err, descriptor.ErrMissingBuildContext) {
		fmt.Fprintf(out, "Hint: create %s or run '%s init'\n", buildErr.Path, meta.AppName)
	}
	return 1
}

// resolveConfigPath resolves --config against the project directory.
func resolveConfigPath(cli CLI, deps Dependencies) string {
	path := strings.TrimSpace(cli.Config)
	if path == "" {
		path = meta.ConfigFile
	}
	if !filepath.IsAbs(path) && deps.ProjectDir != "" {
		path = filepath.Join(deps.ProjectDir, path)
	}
	return path
}

func loadStack(cli CLI, deps Dependencies) (config.Stack, string, error) {
	path := resolveConfigPath(cli, deps)
	cfg, err := config.LoadStack(path)
	if err != nil {
		return config.Stack{}, path, err
	}
	return cfg, path, nil
}
