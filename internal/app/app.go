// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/mlstack/internal/interaction"
	"github.com/poruru/mlstack/internal/meta"
	"github.com/poruru/mlstack/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
type Dependencies struct {
	ProjectDir string
	Out        io.Writer
	Now        func() time.Time
	Prompter   interaction.Prompter
	// IsTerminal reports whether prompts can be shown.
	IsTerminal func() bool
	Images     ImageDeps
	Publish    PublishDeps
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config   string      `short:"c" default:"stack.yml" help:"Path to stack.yml"`
	EnvFile  string      `name:"env-file" help:"Path to .env file"`
	Synth    SynthCmd    `cmd:"" help:"Synthesize CloudFormation templates"`
	Build    BuildCmd    `cmd:"" help:"Build model container images"`
	Publish  PublishCmd  `cmd:"" help:"Upload templates to the asset bucket"`
	Init     InitCmd     `cmd:"" help:"Scaffold build contexts and stack.yml"`
	Projects ProjectsCmd `cmd:"" help:"List recently synthesized stacks"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

type ProjectsCmd struct{}

type SynthCmd struct {
	Output  string `short:"o" help:"Output directory (default: output.dir or stack.out)"`
	Format  string `short:"f" help:"Template format: json or yaml"`
	Build   bool   `help:"Build images before writing templates"`
	Push    bool   `help:"Push images after building (implies --build)"`
	NoCache bool   `name:"no-cache" help:"Do not use cache when building images"`
	Verbose bool   `short:"v" help:"Stream docker output"`
}

type BuildCmd struct {
	NoCache bool `name:"no-cache" help:"Do not use cache when building images"`
	Push    bool `help:"Push images to the registry"`
	Verbose bool `short:"v" help:"Stream docker output"`
}

type PublishCmd struct {
	Bucket string `help:"Asset bucket (overrides assets.bucket)"`
	Prefix string `help:"Object key prefix (overrides assets.prefix)"`
	Table  string `help:"Ledger table (overrides ledger.table)"`
	Format string `short:"f" help:"Template format: json or yaml"`
}

type InitCmd struct {
	Dir    string `arg:"" optional:"" help:"Project directory (default: current)"`
	Stack  string `default:"InferenceStack" help:"Stack name"`
	Bucket string `help:"S3 bucket holding model artifacts"`
	Region string `help:"AWS region"`
	Force  bool   `help:"Overwrite existing files"`
}

// Run parses args, loads the env file, and dispatches to the command handler.
// Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if len(args) == 0 {
		return runProjects(CLI{}, deps, out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Synthesize a serverless parallel inference stack."),
	)
	if err != nil {
		return exitWithError(out, err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", cli.EnvFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps, out); handled {
		return exitCode
	}
	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"synth":      runSynth,
		"build":      runBuild,
		"publish":    runPublish,
		"init":       runInit,
		"init <dir>": runInit,
		"projects":   runProjects,
		"version":    runVersion,
	}
	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

func runVersion(_ CLI, _ Dependencies, out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}
