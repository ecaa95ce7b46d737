// Package history renders a bounded text excerpt of a session's
// conversation for summary prompts, and tracks PR checkpoints: labels on
// history entries marking the last point reported to a pull request.
package history

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Checkpoint labels. Only the newest labeled entry matters; a new
// checkpoint supersedes the old one, nothing is ever unlabeled.
const (
	LabelPRCreated = "pr-created"
	LabelPRUpdate  = "pr-update"
)

// Kind classifies a conversation entry.
type Kind int

const (
	KindUser Kind = iota
	KindAssistant
	KindToolCall
)

// Tool names the gatherer renders; every other tool call is ignored.
const (
	ToolWrite = "write"
	ToolEdit  = "edit"
	ToolShell = "bash"
)

// Entry is one item of host-owned conversation history. The host runtime
// owns the real objects; this is the view the extensions consume.
type Entry struct {
	ID       string
	Kind     Kind
	Text     string // user/assistant text
	Label    string // checkpoint label, "" when unlabeled
	ToolName string // tool calls only
	ToolArg  string // file path or command line
}

// Rendering bounds. Lossy by design: callers get an excerpt, not a
// transcript.
const (
	maxEntryChars = 500
	maxTotalChars = 8000
)

// FindLastPRCheckpoint scans newest-to-oldest and returns the id of the
// first entry carrying a checkpoint label.
func FindLastPRCheckpoint(entries []Entry) (string, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if l := entries[i].Label; l == LabelPRCreated || l == LabelPRUpdate {
			return entries[i].ID, true
		}
	}
	return "", false
}

// EntriesAfter returns the entries strictly after the entry with the
// given id. An empty or unknown id returns all entries.
func EntriesAfter(entries []Entry, id string) []Entry {
	if id == "" {
		return entries
	}
	for i, e := range entries {
		if e.ID == id {
			return entries[i+1:]
		}
	}
	return entries
}

// Render concatenates one labeled line per relevant entry, in
// chronological order, truncating each to 500 characters and the whole
// excerpt to 8000.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		line := renderEntry(e)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if b.Len() >= maxTotalChars {
			break
		}
	}
	return truncate(b.String(), maxTotalChars)
}

func renderEntry(e Entry) string {
	switch e.Kind {
	case KindUser:
		return "User: " + truncate(e.Text, maxEntryChars)
	case KindAssistant:
		return "Assistant: " + truncate(e.Text, maxEntryChars)
	case KindToolCall:
		switch e.ToolName {
		case ToolWrite:
			return fmt.Sprintf("[tool] wrote %s", e.ToolArg)
		case ToolEdit:
			return fmt.Sprintf("[tool] edited %s", e.ToolArg)
		case ToolShell:
			return fmt.Sprintf("[tool] ran: %s", truncate(e.ToolArg, maxEntryChars))
		}
	}
	return ""
}

// truncate caps s at n bytes, backing off to a rune boundary so the
// excerpt never carries a torn UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// SinceLastCheckpoint is the usual gatherer entry point: everything after
// the newest checkpoint, or the full history when none exists.
func SinceLastCheckpoint(entries []Entry) []Entry {
	id, ok := FindLastPRCheckpoint(entries)
	if !ok {
		return entries
	}
	return EntriesAfter(entries, id)
}
