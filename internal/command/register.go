package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ghtodo/internal/autocommit"
	"ghtodo/internal/config"
	"ghtodo/internal/gh"
	"ghtodo/internal/host"
	"ghtodo/internal/qa"
	"ghtodo/internal/summary"
	"ghtodo/internal/tool"
	"ghtodo/internal/tui"
)

// Register wires every extension into the host runtime: the gh_todo
// tool, the /todo and /todo-pr commands, and the auto-commit and
// question-wizard hooks. The core services never see the runtime; this
// adapter is the only place host callbacks are translated.
func Register(rt host.Runtime, cfg *config.Config) {
	gw := gh.New(cfg.Label)
	gen := summary.New(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens)
	repoRoot, _ := os.Getwd()

	rt.RegisterTool("gh_todo",
		"Manage the GitHub-issue-backed todo list: list, add, view, plan, start, close, reopen, update, pr, feedback, pr-update",
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var params tool.Params
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, fmt.Errorf("gh_todo params: %w", err)
			}
			session, _ := rt.Session()
			res := tool.New(gw, gen, session, repoRoot).Run(ctx, params)
			return res, nil
		})

	rt.RegisterCommand("todo", "Open the interactive todo list",
		func(ctx context.Context, args string) (string, error) {
			p := tea.NewProgram(tui.New(gw, nil), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return "", err
			}
			return "", nil
		})

	rt.RegisterCommand("todo-pr", "Create a PR for the current todo branch",
		func(ctx context.Context, args string) (string, error) {
			session, _ := rt.Session()
			ui, _ := rt.UI()
			wizard := &PRWizard{GW: gw, Gen: gen, Session: session, UI: ui, RepoRoot: repoRoot}
			return wizard.Run(ctx)
		})

	rt.On(host.EventTurnEnd, autocommit.Hook(gw, gen))
	rt.On(host.EventAgentEnd, qa.Hook(func() (host.UI, bool) { return rt.UI() }))
}
