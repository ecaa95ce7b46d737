// Package autocommit commits leftover work on todo branches at the end
// of a turn, with an AI-drafted message when a model is available.
package autocommit

import (
	"context"

	"ghtodo/internal/history"
	"ghtodo/internal/host"
	"ghtodo/internal/naming"
	"ghtodo/internal/summary"
)

// Gateway is the git slice this hook needs.
type Gateway interface {
	CurrentBranch(ctx context.Context) (string, error)
	CommitAll(ctx context.Context, message string) (bool, error)
}

// Hook adapts Run into a turn-end event handler. Failures are dropped:
// an auto-commit must never break the turn that triggered it.
func Hook(gw Gateway, gen *summary.Generator) host.HookFunc {
	return func(ctx context.Context, session host.Session) {
		_, _ = Run(ctx, gw, gen, session)
	}
}

// Run commits uncommitted changes when the session is on a todo branch.
// Reports whether a commit was made.
func Run(ctx context.Context, gw Gateway, gen *summary.Generator, session host.Session) (bool, error) {
	branch, err := gw.CurrentBranch(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := naming.IssueNumberFromBranch(branch); !ok {
		return false, nil
	}

	var excerpt, prompt string
	if session != nil {
		excerpt = history.Render(session.Entries())
		prompt = session.LastUserPrompt()
	}
	message := gen.CommitMessage(ctx, excerpt, prompt)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return gw.CommitAll(ctx, message)
}
