// Where: internal/interaction/interaction.go
// What: Interactive prompt primitives and TTY detection.
// Why: Keep command handlers free of terminal handling so they stay testable.
package interaction

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Prompter collects values the user left out of the command line.
type Prompter interface {
	Input(title, placeholder string, validate func(string) error) (string, error)
	Confirm(title string) (bool, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
