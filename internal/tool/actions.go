package tool

import (
	"context"
	"fmt"
	"strings"

	"ghtodo/internal/history"
	"ghtodo/internal/model"
	"ghtodo/internal/naming"
	"ghtodo/internal/notes"
	"ghtodo/internal/summary"
)

func (t *Tool) list(ctx context.Context, p Params) Result {
	includeClosed := p.Close != nil && *p.Close
	issues, err := t.gw.ListIssues(ctx, includeClosed)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	if len(issues) == 0 {
		return Result{Text: "No open todo issues", Details: Details{Action: p.Action}}
	}
	return Result{Text: renderIssueList(issues), Details: Details{Action: p.Action, Issues: issues}}
}

func (t *Tool) add(ctx context.Context, p Params) Result {
	if strings.TrimSpace(p.Title) == "" {
		return errResult(p.Action, "title required")
	}
	issue, err := t.gw.CreateIssue(ctx, p.Title, p.Body)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{
		Text:    fmt.Sprintf("Created issue #%d: %s (%s)", issue.Number, issue.Title, issue.URL),
		Details: Details{Action: p.Action, Issue: &issue},
	}
}

func (t *Tool) view(ctx context.Context, p Params) Result {
	if p.Number <= 0 {
		return errResult(p.Action, "number required")
	}
	issue, err := t.gw.GetIssue(ctx, p.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{Text: renderIssueDetail(issue), Details: Details{Action: p.Action, Issue: &issue}}
}

func (t *Tool) plan(ctx context.Context, p Params) Result {
	if p.Number <= 0 {
		return errResult(p.Action, "number required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return errResult(p.Action, "body required")
	}
	issue, err := t.gw.UpdateIssueNotes(ctx, p.Number, p.Body)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{
		Text:    fmt.Sprintf("Updated notes on #%d", issue.Number),
		Details: Details{Action: p.Action, Issue: &issue},
	}
}

func (t *Tool) start(ctx context.Context, p Params) Result {
	if p.Number <= 0 {
		return errResult(p.Action, "number required")
	}
	issue, err := t.gw.GetIssue(ctx, p.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	if !issue.Open() {
		return errResult(p.Action, fmt.Sprintf("issue #%d is closed", issue.Number))
	}

	branch := naming.BranchName(issue.Number, issue.Title)
	current, err := t.gw.CurrentBranch(ctx)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if current != branch {
		if t.gw.BranchExists(ctx, branch) {
			err = t.gw.CheckoutBranch(ctx, branch)
		} else {
			err = t.gw.CheckoutNewBranch(ctx, branch)
		}
		if err != nil {
			return errResult(p.Action, err.Error())
		}
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	if t.session != nil {
		t.session.SetName(naming.SessionName(issue.Number, issue.Title))
	}
	return Result{
		Text:    fmt.Sprintf("Started #%d on branch %s", issue.Number, branch),
		Details: Details{Action: p.Action, Issue: &issue, Branch: branch},
	}
}

func (t *Tool) close(ctx context.Context, p Params) Result {
	if p.Number <= 0 {
		return errResult(p.Action, "number required")
	}
	issue, err := t.gw.GetIssue(ctx, p.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if !issue.Open() {
		return errResult(p.Action, fmt.Sprintf("issue #%d already closed", issue.Number))
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	issue, err = t.gw.CloseIssue(ctx, p.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{
		Text:    fmt.Sprintf("Closed issue #%d", issue.Number),
		Details: Details{Action: p.Action, Issue: &issue},
	}
}

func (t *Tool) reopen(ctx context.Context, p Params) Result {
	if p.Number <= 0 {
		return errResult(p.Action, "number required")
	}
	issue, err := t.gw.ReopenIssue(ctx, p.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{
		Text:    fmt.Sprintf("Reopened issue #%d", issue.Number),
		Details: Details{Action: p.Action, Issue: &issue},
	}
}

func (t *Tool) update(ctx context.Context, p Params) Result {
	number, errMsg := t.resolveIssueNumber(ctx, p)
	if errMsg != "" {
		return errResult(p.Action, errMsg)
	}
	excerpt := t.excerptSinceCheckpoint()
	comment := t.gen.ProgressComment(ctx, excerpt)
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	if err := t.gw.CommentIssue(ctx, number, comment); err != nil {
		return errResult(p.Action, err.Error())
	}
	return Result{
		Text:    fmt.Sprintf("Posted progress comment on #%d", number),
		Details: Details{Action: p.Action},
	}
}

func (t *Tool) pr(ctx context.Context, p Params) Result {
	branch, err := t.gw.CurrentBranch(ctx)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if naming.IsMainBranch(branch) {
		return errResult(p.Action, "on main branch")
	}
	number, ok := naming.IssueNumberFromBranch(branch)
	if !ok {
		return errResult(p.Action, fmt.Sprintf("branch %s is not a todo branch", branch))
	}
	if p.Number > 0 && p.Number != number {
		return errResult(p.Action, fmt.Sprintf("branch %s belongs to #%d, not #%d", branch, number, p.Number))
	}

	dirty, err := t.gw.HasUncommittedChanges(ctx)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if dirty {
		return errResult(p.Action, "uncommitted changes")
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	issue, err := t.gw.GetIssue(ctx, number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	if err := t.gw.PushBranch(ctx, branch); err != nil {
		return errResult(p.Action, err.Error())
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	closes := p.Close == nil || *p.Close
	template, _ := summary.FindPRTemplate(t.repoRoot)
	body := t.gen.PRDescription(ctx, t.excerptAll(), issue.Title, issue.Number, closes, template)
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	base := t.gw.DefaultBaseBranch(ctx)
	url, err := t.gw.CreatePR(ctx, issue.Title, body, base)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	t.recordCheckpoint(history.LabelPRCreated)

	return Result{
		Text:    "Created PR: " + url,
		Details: Details{Action: p.Action, Issue: &issue, Branch: branch, URL: url},
	}
}

func (t *Tool) feedback(ctx context.Context, p Params) Result {
	branch, err := t.gw.CurrentBranch(ctx)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	pr := t.gw.PRForBranch(ctx, branch)
	if pr == nil {
		return errResult(p.Action, fmt.Sprintf("no PR found for branch %s", branch))
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	fb, err := t.gw.PRFeedback(ctx, pr.Number)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if fb.Empty() {
		return Result{Text: "No feedback on PR #" + fmt.Sprint(pr.Number), Details: Details{Action: p.Action, PR: pr}}
	}
	return Result{
		Text:    renderFeedback(pr.Number, fb),
		Details: Details{Action: p.Action, PR: pr, Feedback: &fb},
	}
}

func (t *Tool) prUpdate(ctx context.Context, p Params) Result {
	branch, err := t.gw.CurrentBranch(ctx)
	if err != nil {
		return errResult(p.Action, err.Error())
	}
	if naming.IsMainBranch(branch) {
		return errResult(p.Action, "on main branch")
	}
	pr := t.gw.PRForBranch(ctx, branch)
	if pr == nil {
		return errResult(p.Action, fmt.Sprintf("no PR found for branch %s", branch))
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	commits := t.gw.UnpushedCommits(ctx, branch)
	if len(commits) > 0 {
		if err := t.gw.PushBranch(ctx, branch); err != nil {
			return errResult(p.Action, err.Error())
		}
	}
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}

	comment := t.gen.PRUpdateComment(ctx, t.excerptSinceCheckpoint(), commits)
	if cancelled(ctx) {
		return cancelledResult(p.Action)
	}
	if err := t.gw.CommentPR(ctx, pr.Number, comment); err != nil {
		return errResult(p.Action, err.Error())
	}
	t.recordCheckpoint(history.LabelPRUpdate)

	return Result{
		Text:    fmt.Sprintf("Posted update on PR #%d", pr.Number),
		Details: Details{Action: p.Action, PR: pr, Commits: commits},
	}
}

// resolveIssueNumber resolves the target issue: explicit param first,
// then the session name, then the current branch.
func (t *Tool) resolveIssueNumber(ctx context.Context, p Params) (int, string) {
	if p.Number > 0 {
		return p.Number, ""
	}
	if t.session != nil {
		if n, ok := naming.IssueNumberFromSession(t.session.Name()); ok {
			return n, ""
		}
	}
	branch, err := t.gw.CurrentBranch(ctx)
	if err == nil {
		if n, ok := naming.IssueNumberFromBranch(branch); ok {
			return n, ""
		}
	}
	return 0, "no issue number: pass one, or work on a todo branch"
}

// excerptSinceCheckpoint renders the session activity after the newest
// PR checkpoint, or "" when no session is attached.
func (t *Tool) excerptSinceCheckpoint() string {
	if t.session == nil {
		return ""
	}
	return history.Render(history.SinceLastCheckpoint(t.session.Entries()))
}

func (t *Tool) excerptAll() string {
	if t.session == nil {
		return ""
	}
	return history.Render(t.session.Entries())
}

// recordCheckpoint labels the newest history entry. Without a session
// this is a no-op: checkpoints are a session capability.
func (t *Tool) recordCheckpoint(label string) {
	if t.session == nil {
		return
	}
	entries := t.session.Entries()
	if len(entries) == 0 {
		return
	}
	_ = t.session.LabelEntry(entries[len(entries)-1].ID, label)
}

func renderIssueList(issues []model.Issue) string {
	var b strings.Builder
	for _, issue := range issues {
		marker := " "
		if !issue.Open() {
			marker = "x"
		}
		fmt.Fprintf(&b, "- [%s] #%d %s\n", marker, issue.Number, issue.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderIssueDetail(issue model.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s (%s)\n", issue.Number, issue.Title, issue.State)
	if user := notes.ExtractUserContent(issue.Body); user != "" {
		b.WriteString("\n" + user + "\n")
	}
	if sec, ok := notes.ExtractSection(issue.Body); ok {
		b.WriteString("\nAgent notes:\n" + sec + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFeedback(prNumber int, fb model.Feedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feedback on PR #%d:\n", prNumber)
	for _, c := range fb.Reviews {
		fmt.Fprintf(&b, "- review by %s: %s\n", c.Author, c.Body)
	}
	for _, c := range fb.ReviewComments {
		fmt.Fprintf(&b, "- %s on %s:%d: %s\n", c.Author, c.Path, c.Line, c.Body)
	}
	for _, c := range fb.ConversationComments {
		fmt.Fprintf(&b, "- %s: %s\n", c.Author, c.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}
