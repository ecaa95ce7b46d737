// Package tool implements gh_todo, the multi-action todo tool exposed to
// the model. Each action composes the gateway, the notes codec, and the
// summary generator, checks its preconditions before touching the
// network, and re-checks cancellation after every external call.
package tool

import (
	"context"

	"ghtodo/internal/host"
	"ghtodo/internal/model"
	"ghtodo/internal/summary"
)

// Gateway is the slice of the gh client the tool consumes. Declared on
// the consumer side so tests can fake it.
type Gateway interface {
	ListIssues(ctx context.Context, includeClosed bool) ([]model.Issue, error)
	CreateIssue(ctx context.Context, title, body string) (model.Issue, error)
	GetIssue(ctx context.Context, number int) (model.Issue, error)
	UpdateIssueNotes(ctx context.Context, number int, text string) (model.Issue, error)
	CloseIssue(ctx context.Context, number int) (model.Issue, error)
	ReopenIssue(ctx context.Context, number int) (model.Issue, error)
	CommentIssue(ctx context.Context, number int, body string) error

	CurrentBranch(ctx context.Context) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	PushBranch(ctx context.Context, branch string) error
	CheckoutNewBranch(ctx context.Context, branch string) error
	CheckoutBranch(ctx context.Context, branch string) error
	BranchExists(ctx context.Context, branch string) bool
	DefaultBaseBranch(ctx context.Context) string
	UnpushedCommits(ctx context.Context, branch string) []model.Commit

	PRForBranch(ctx context.Context, branch string) *model.PR
	CreatePR(ctx context.Context, title, body, base string) (string, error)
	CommentPR(ctx context.Context, number int, body string) error
	PRFeedback(ctx context.Context, prNumber int) (model.Feedback, error)
}

// Params are the tool call arguments. Close doubles as "include closed"
// for list and "close the issue on merge" for pr.
type Params struct {
	Action string `json:"action" jsonschema:"one of: list, add, view, plan, start, close, reopen, update, pr, feedback, pr-update"`
	Title  string `json:"title,omitempty" jsonschema:"issue title, for add"`
	Body   string `json:"body,omitempty" jsonschema:"issue body or notes text"`
	Number int    `json:"number,omitempty" jsonschema:"issue number"`
	Close  *bool  `json:"close,omitempty" jsonschema:"list: include closed issues; pr: link with Closes instead of Related"`
}

// Details is the structured payload attached to every result.
type Details struct {
	Action    string          `json:"action"`
	Error     string          `json:"error,omitempty"`
	Cancelled bool            `json:"cancelled,omitempty"`
	Issue     *model.Issue    `json:"issue,omitempty"`
	Issues    []model.Issue   `json:"issues,omitempty"`
	Branch    string          `json:"branch,omitempty"`
	PR        *model.PR       `json:"pr,omitempty"`
	URL       string          `json:"url,omitempty"`
	Commits   []model.Commit  `json:"commits,omitempty"`
	Feedback  *model.Feedback `json:"feedback,omitempty"`
}

// Result is a text summary plus the typed details payload.
type Result struct {
	Text    string
	Details Details
}

// IsError reports whether the action failed.
func (r Result) IsError() bool { return r.Details.Error != "" }

// Tool holds the collaborators of the gh_todo actions. Session is an
// optional capability: without one, checkpointing and session renaming
// are skipped, never errors.
type Tool struct {
	gw       Gateway
	gen      *summary.Generator
	session  host.Session // may be nil
	repoRoot string
}

// New assembles the tool. gen and session may be nil.
func New(gw Gateway, gen *summary.Generator, session host.Session, repoRoot string) *Tool {
	return &Tool{gw: gw, gen: gen, session: session, repoRoot: repoRoot}
}

// Run dispatches one action. Failures never escape as errors: they come
// back as a Result with the error field set.
func (t *Tool) Run(ctx context.Context, p Params) Result {
	switch p.Action {
	case "list":
		return t.list(ctx, p)
	case "add":
		return t.add(ctx, p)
	case "view":
		return t.view(ctx, p)
	case "plan":
		return t.plan(ctx, p)
	case "start":
		return t.start(ctx, p)
	case "close":
		return t.close(ctx, p)
	case "reopen":
		return t.reopen(ctx, p)
	case "update":
		return t.update(ctx, p)
	case "pr":
		return t.pr(ctx, p)
	case "feedback":
		return t.feedback(ctx, p)
	case "pr-update":
		return t.prUpdate(ctx, p)
	default:
		return errResult(p.Action, "unknown action: "+p.Action)
	}
}

func errResult(action, msg string) Result {
	return Result{
		Text:    "Error: " + msg,
		Details: Details{Action: action, Error: msg},
	}
}

// cancelledResult is the distinguished short-circuit for a signalled
// abort. Checked after every suspension point in the handlers below; a
// new external call without a follow-up check would silently become
// non-cancellable.
func cancelledResult(action string) Result {
	return Result{
		Text:    "Cancelled",
		Details: Details{Action: action, Cancelled: true},
	}
}

func cancelled(ctx context.Context) bool { return ctx.Err() != nil }
