package model

import "time"

// Issue is a read-through snapshot of a GitHub issue. GitHub is the source
// of truth; every mutating gateway call re-fetches before returning, so a
// held Issue is never assumed fresh across a suspension point.
type Issue struct {
	Number    int
	Title     string
	State     string // "open" | "closed"
	Body      string
	Labels    []string
	Assignees []string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the issue is in the open state.
func (i Issue) Open() bool { return i.State == "open" }

// PR holds pull request metadata fetched via gh.
type PR struct {
	Number int
	URL    string
	State  string // "open", "merged", "closed"
}

// Commit is one unpushed commit in a branch range.
type Commit struct {
	Hash    string
	Message string
}

// Comment is a single review or conversation comment on a PR.
type Comment struct {
	Author string
	Body   string
	Path   string // inline review comments only
	Line   int    // inline review comments only
}

// Feedback aggregates the three PR feedback sources. Each slice is filled
// independently; a failed fetch leaves its slice empty rather than failing
// the whole lookup.
type Feedback struct {
	ReviewComments       []Comment
	ConversationComments []Comment
	Reviews              []Comment
}

// Empty reports whether no feedback of any kind was found.
func (f Feedback) Empty() bool {
	return len(f.ReviewComments) == 0 && len(f.ConversationComments) == 0 && len(f.Reviews) == 0
}
