// Where: internal/app/publish.go
// What: publish command handler.
// Why: Synthesize with the target bucket so nested TemplateURLs match the uploaded objects.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/poruru/mlstack/internal/publish"
	"github.com/poruru/mlstack/internal/ui"
)

func runPublish(cli CLI, deps Dependencies, out io.Writer) int {
	cfg, configPath, err := loadStack(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if value := strings.TrimSpace(cli.Publish.Bucket); value != "" {
		cfg.Assets.Bucket = value
	}
	if value := strings.TrimSpace(cli.Publish.Prefix); value != "" {
		cfg.Assets.Prefix = strings.Trim(value, "/")
	}
	if value := strings.TrimSpace(cli.Publish.Table); value != "" {
		cfg.Ledger.Table = value
	}

	assembly, _, err := synthesize(cfg, cli.Publish.Format)
	if err != nil {
		return exitWithError(out, err)
	}
	if _, err := assembly.Write(cfg.OutputDir()); err != nil {
		return exitWithError(out, fmt.Errorf("write assembly: %w", err))
	}

	if deps.Publish.New == nil {
		return exitWithError(out, fmt.Errorf("publisher is not configured"))
	}
	publisher, err := deps.Publish.New(out)
	if err != nil {
		return exitWithError(out, err)
	}
	result, err := publisher.Publish(context.Background(), assembly, publish.OptionsFromConfig(cfg))
	if err != nil {
		return exitWithError(out, err)
	}

	console := ui.New(out)
	console.Header("☁️", "Published "+assembly.StackName)
	console.Item("Objects", len(result.Objects))
	console.Item("Template URL", result.RootURL)
	if result.Recorded {
		console.Item("Ledger", cfg.Ledger.Table)
	}
	recordProject(deps, out, cfg, configPath)
	console.Success("Publish complete")
	return 0
}
