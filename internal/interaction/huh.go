// Where: internal/interaction/huh.go
// What: Prompter backed by the huh form library.
// Why: Keep the form library behind the Prompter interface so commands stay testable.
package interaction

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// HuhPrompter implements Prompter with huh forms.
type HuhPrompter struct{}

func (HuhPrompter) Input(title, placeholder string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := field.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
