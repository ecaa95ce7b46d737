// Package naming holds the string conventions correlating issues with
// git branches and host sessions. All functions are total: they never
// fail, returning best-effort values or zero on no match.
package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const branchPrefix = "todo/"

var (
	sessionRe  = regexp.MustCompile(`^#(\d+):`)
	branchRe   = regexp.MustCompile(`^todo/(\d+)-`)
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	maxSlugLen = 50
)

// SessionName is the session title convention for an issue: "#N: Title".
func SessionName(number int, title string) string {
	return fmt.Sprintf("#%d: %s", number, title)
}

// BranchName maps an issue to its work branch: todo/<N>-<slug>. A title
// with no alphanumeric characters yields "todo/<N>-".
func BranchName(number int, title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return fmt.Sprintf("%s%d-%s", branchPrefix, number, slug)
}

// SessionMatchesIssue reports whether a session name belongs to issue
// number. The literal ": " after the number guards prefix collisions
// (#12 never matches "#120: x").
func SessionMatchesIssue(name string, number int) bool {
	return strings.HasPrefix(name, fmt.Sprintf("#%d: ", number))
}

// IssueNumberFromSession parses the issue number out of a session name,
// returning 0 and false when the name does not follow the convention.
func IssueNumberFromSession(name string) (int, bool) {
	return parseAnchored(sessionRe, name)
}

// IssueNumberFromBranch parses the issue number out of a todo branch
// name, returning 0 and false for non-todo branches.
func IssueNumberFromBranch(name string) (int, bool) {
	return parseAnchored(branchRe, name)
}

// IsMainBranch reports whether name is one of the default branches.
func IsMainBranch(name string) bool {
	return name == "main" || name == "master"
}

func parseAnchored(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
