// Where: internal/app/projects.go
// What: projects command handler.
// Why: Let users find recently synthesized stacks without remembering paths.
package app

import (
	"io"

	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/meta"
	"github.com/poruru/mlstack/internal/ui"
)

func runProjects(_ CLI, _ Dependencies, out io.Writer) int {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return exitWithError(out, err)
	}
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		return exitWithError(out, err)
	}
	console := ui.New(out)
	names := cfg.RecentProjects()
	if len(names) == 0 {
		console.Info("No stacks synthesized yet. Run '" + meta.AppName + " init' to start.")
		return 0
	}
	console.Header("📚", "Recent stacks")
	for _, name := range names {
		entry := cfg.Projects[name]
		console.Item(name, entry.Path+" ("+entry.LastUsed+")")
	}
	return 0
}
