package summary

import (
	"os"
	"path/filepath"
)

// prTemplatePaths is the probe order for a repository PR template.
// First match wins; absence is a valid state.
var prTemplatePaths = []string{
	".github/pull_request_template.md",
	".github/PULL_REQUEST_TEMPLATE.md",
	"pull_request_template.md",
	"PULL_REQUEST_TEMPLATE.md",
	"docs/pull_request_template.md",
}

// FindPRTemplate returns the repo's PR template text, if one exists.
func FindPRTemplate(repoRoot string) (string, bool) {
	for _, rel := range prTemplatePaths {
		data, err := os.ReadFile(filepath.Join(repoRoot, rel))
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}
