// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep branding and directory names in one place.
package meta

const (
	// Project Identity
	AppName     = "mlstack"
	EnvPrefix   = "MLSTACK"
	ImagePrefix = "mlstack"
	LabelPrefix = "com.mlstack"

	// Directory Layout
	HomeDir       = ".mlstack"
	OutputDir     = "stack.out"
	ConfigFile    = "stack.yml"
	ManifestFile  = "manifest.json"
	GlobalVersion = 1
)
