// Package command implements the user-facing surfaces: the /todo
// interactive list and the /todo-pr creation wizard, plus the adapter
// that registers everything against a host runtime.
package command

import (
	"context"
	"fmt"

	"ghtodo/internal/history"
	"ghtodo/internal/host"
	"ghtodo/internal/model"
	"ghtodo/internal/naming"
	"ghtodo/internal/summary"
)

// PRGateway is the gateway slice the wizard consumes.
type PRGateway interface {
	CurrentBranch(ctx context.Context) (string, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	PushBranch(ctx context.Context, branch string) error
	GetIssue(ctx context.Context, number int) (model.Issue, error)
	PRForBranch(ctx context.Context, branch string) *model.PR
	CreatePR(ctx context.Context, title, body, base string) (string, error)
	DefaultBaseBranch(ctx context.Context) string
}

// PRWizard walks the linear /todo-pr flow: branch check, issue
// resolution, uncommitted-changes check, push, close-choice, AI-drafted
// body, user edit, confirm, create.
type PRWizard struct {
	GW       PRGateway
	Gen      *summary.Generator
	Session  host.Session // optional
	UI       host.UI      // optional: nil runs the non-interactive path
	RepoRoot string
}

// Run executes the wizard and returns the final user-facing message.
func (w *PRWizard) Run(ctx context.Context) (string, error) {
	branch, err := w.GW.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	if naming.IsMainBranch(branch) {
		return "", fmt.Errorf("on %s branch: start a todo first", branch)
	}

	number, ok := naming.IssueNumberFromBranch(branch)
	if !ok && w.Session != nil {
		number, ok = naming.IssueNumberFromSession(w.Session.Name())
	}
	if !ok {
		return "", fmt.Errorf("branch %s does not map to a todo issue", branch)
	}
	issue, err := w.GW.GetIssue(ctx, number)
	if err != nil {
		return "", err
	}

	if pr := w.GW.PRForBranch(ctx, branch); pr != nil && pr.State == "open" {
		return "", fmt.Errorf("PR #%d already open for %s (%s)", pr.Number, branch, pr.URL)
	}

	dirty, err := w.GW.HasUncommittedChanges(ctx)
	if err != nil {
		return "", err
	}
	if dirty {
		return "", fmt.Errorf("uncommitted changes: commit or stash before creating a PR")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := w.GW.PushBranch(ctx, branch); err != nil {
		return "", err
	}

	closes := true
	if w.UI != nil {
		closes, err = w.UI.Confirm(ctx, fmt.Sprintf("Close #%d when this PR merges?", issue.Number))
		if err != nil {
			return "", err
		}
	}

	template, _ := summary.FindPRTemplate(w.RepoRoot)
	body := w.Gen.PRDescription(ctx, w.excerpt(), issue.Title, issue.Number, closes, template)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if w.UI != nil {
		body, err = w.UI.Editor(ctx, "Edit the PR description", body)
		if err != nil {
			return "", err
		}
		ok, err := w.UI.Confirm(ctx, fmt.Sprintf("Create PR for #%d (%s)?", issue.Number, issue.Title))
		if err != nil {
			return "", err
		}
		if !ok {
			return "PR creation cancelled", nil
		}
	}

	url, err := w.GW.CreatePR(ctx, issue.Title, body, w.GW.DefaultBaseBranch(ctx))
	if err != nil {
		return "", err
	}
	w.recordCheckpoint()

	msg := "Created PR: " + url
	if w.UI != nil {
		w.UI.Notify(msg)
	}
	return msg, nil
}

func (w *PRWizard) excerpt() string {
	if w.Session == nil {
		return ""
	}
	return history.Render(w.Session.Entries())
}

func (w *PRWizard) recordCheckpoint() {
	if w.Session == nil {
		return
	}
	entries := w.Session.Entries()
	if len(entries) == 0 {
		return
	}
	_ = w.Session.LabelEntry(entries[len(entries)-1].ID, history.LabelPRCreated)
}
