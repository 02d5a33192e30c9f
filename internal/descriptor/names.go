// Where: internal/descriptor/names.go
// What: Logical identifier helpers.
// Why: CloudFormation logical IDs must be ASCII alphanumeric; unit names are kebab-case.
package descriptor

import "strings"

// LogicalName converts a unit name such as "random-forest" into "RandomForest".
// Anything outside [A-Za-z0-9] starts a new word and is dropped.
func LogicalName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !isASCIIAlnum(r) {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}

// ValidName reports whether the name is ASCII and yields a non-empty logical
// identifier that starts with a letter.
func ValidName(name string) bool {
	for _, r := range name {
		if r > 0x7f {
			return false
		}
	}
	logical := LogicalName(name)
	if logical == "" {
		return false
	}
	first := logical[0]
	return (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
