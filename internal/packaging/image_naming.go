// Where: internal/packaging/image_naming.go
// What: Image repository name sanitization for function images.
// Why: Docker rejects uppercase and odd separators in repository names.
package packaging

import (
	"fmt"
	"strings"
)

func imageSafeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("function name is required")
	}
	lower := strings.ToLower(trimmed)

	var b strings.Builder
	prevSeparator := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevSeparator = false
			continue
		}
		if r == '.' || r == '_' || r == '-' {
			if !prevSeparator {
				b.WriteRune(r)
				prevSeparator = true
			}
			continue
		}
		if !prevSeparator {
			b.WriteByte('-')
			prevSeparator = true
		}
	}

	result := strings.Trim(b.String(), "._-")
	if result == "" {
		return "", fmt.Errorf("function name %q yields empty image name", name)
	}
	return result, nil
}
