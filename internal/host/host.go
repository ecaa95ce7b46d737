// Package host declares the surface of the coding-agent runtime these
// extensions plug into. Nothing here is implemented locally: the real
// runtime supplies sessions, UI prompts, and event hooks, and the core
// services only ever see these interfaces. That keeps every service
// testable without a runtime at all.
package host

import (
	"context"
	"encoding/json"

	"ghtodo/internal/history"
)

// Session is the host's handle on one conversation. The name is mutable
// and carries the issue correlation convention ("#N: Title").
type Session interface {
	Name() string
	SetName(name string)

	// Entries returns the conversation history, oldest first.
	Entries() []history.Entry

	// LabelEntry attaches a checkpoint label to a history entry.
	LabelEntry(id, label string) error

	// LastUserPrompt returns the text of the most recent user message,
	// or "" when there is none.
	LastUserPrompt() string
}

// UI is the host's prompt surface. Presence is optional: entry points
// must branch to a non-interactive path when no UI is attached.
type UI interface {
	Notify(message string)
	Confirm(ctx context.Context, prompt string) (bool, error)
	Select(ctx context.Context, prompt string, options []string) (int, error)
	Editor(ctx context.Context, prompt, initial string) (string, error)
}

// Event names the hook points the runtime fires.
type Event string

const (
	EventSessionStart Event = "session_start"
	EventTurnEnd      Event = "turn_end"
	EventAgentEnd     Event = "agent_end"
)

// HookFunc runs on an event with the session it fired for.
type HookFunc func(ctx context.Context, session Session)

// ToolFunc handles one call of a registered tool. The result is
// host-serialized; errors are reported to the model as tool failures.
type ToolFunc func(ctx context.Context, params json.RawMessage) (any, error)

// CommandFunc handles one user-facing slash command invocation.
type CommandFunc func(ctx context.Context, args string) (string, error)

// Runtime is the registration surface the host exposes to extensions.
type Runtime interface {
	RegisterTool(name, description string, fn ToolFunc)
	RegisterCommand(name, description string, fn CommandFunc)
	On(event Event, fn HookFunc)

	// Session returns the active session, when one exists.
	Session() (Session, bool)

	// UI returns the prompt surface, when one is attached.
	UI() (UI, bool)
}
