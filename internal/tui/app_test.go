package tui

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"ghtodo/internal/model"
)

type stubGateway struct {
	issues  []model.Issue
	created []string
}

func (s *stubGateway) ListIssues(context.Context, bool) ([]model.Issue, error) {
	return s.issues, nil
}

func (s *stubGateway) CreateIssue(_ context.Context, title, body string) (model.Issue, error) {
	s.created = append(s.created, title)
	return model.Issue{Number: 1, Title: title, Body: body, State: "open"}, nil
}

func (s *stubGateway) CloseIssue(_ context.Context, number int) (model.Issue, error) {
	return model.Issue{Number: number, State: "closed"}, nil
}

func (s *stubGateway) ReopenIssue(_ context.Context, number int) (model.Issue, error) {
	return model.Issue{Number: number, State: "open"}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loaded(m Model, issues []model.Issue) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(issuesLoadedMsg{issues: issues})
	return next.(Model)
}

func TestAddFlowTransitions(t *testing.T) {
	gw := &stubGateway{}
	m := loaded(New(gw, nil), nil)

	next, _ := m.Update(key("a"))
	m = next.(Model)
	if m.state != stateAddTitle {
		t.Fatalf("state = %v, want add title", m.state)
	}

	// empty title is rejected in place
	next, _ = m.Update(key("enter"))
	m = next.(Model)
	if m.state != stateAddTitle {
		t.Fatalf("empty title advanced to %v", m.state)
	}

	m.titleInput.SetValue("Fix the build")
	next, _ = m.Update(key("enter"))
	m = next.(Model)
	if m.state != stateAddBody {
		t.Fatalf("state = %v, want add body", m.state)
	}

	next, cmd := m.Update(key("ctrl+s"))
	m = next.(Model)
	if m.state != stateList {
		t.Fatalf("state = %v, want list", m.state)
	}
	if !m.loading {
		t.Fatal("submit should enter loading immediately")
	}
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	cmd() // runs the create against the stub
	if len(gw.created) != 1 || gw.created[0] != "Fix the build" {
		t.Fatalf("created = %v", gw.created)
	}
}

func TestAddEscapeDiscardsDraft(t *testing.T) {
	m := loaded(New(&stubGateway{}, nil), nil)

	next, _ := m.Update(key("a"))
	m = next.(Model)
	m.titleInput.SetValue("draft")
	next, _ = m.Update(key("enter"))
	m = next.(Model)

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	if m.state != stateList {
		t.Fatalf("state = %v", m.state)
	}
	if m.draftTitle != "" {
		t.Fatalf("draft survived escape: %q", m.draftTitle)
	}
}

func TestDetailRoundTrip(t *testing.T) {
	issues := []model.Issue{{Number: 1, Title: "One", State: "open"}}
	m := loaded(New(&stubGateway{issues: issues}, nil), issues)

	next, _ := m.Update(key("enter"))
	m = next.(Model)
	if m.state != stateDetail {
		t.Fatalf("state = %v, want detail", m.state)
	}

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	if m.state != stateList {
		t.Fatalf("state = %v, want list", m.state)
	}
}

func TestSelectionClampedOnShrink(t *testing.T) {
	three := []model.Issue{
		{Number: 1, Title: "a", State: "open"},
		{Number: 2, Title: "b", State: "open"},
		{Number: 3, Title: "c", State: "open"},
	}
	m := loaded(New(&stubGateway{}, nil), three)
	m.list.Select(2)

	next, _ := m.Update(issuesLoadedMsg{issues: three[:1]})
	m = next.(Model)
	if got := m.list.Index(); got != 0 {
		t.Fatalf("index = %d after shrink, want 0", got)
	}
	if m.selectedIssue() == nil {
		t.Fatal("selection lost entirely")
	}
}

func TestEmptyListRendersPlaceholder(t *testing.T) {
	m := loaded(New(&stubGateway{}, nil), nil)
	if view := m.View(); !strings.Contains(view, "No todo issues found") {
		t.Fatalf("view missing placeholder:\n%s", view)
	}
}

func TestFirstLineRuneBoundary(t *testing.T) {
	got := firstLine(strings.Repeat("日", 30)) // 90 bytes, cap is 80
	if !utf8.ValidString(got) {
		t.Fatalf("description tore a rune: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing ellipsis: %q", got)
	}
}

func TestQuitInvokesCloseCallback(t *testing.T) {
	closed := false
	m := loaded(New(&stubGateway{}, func() { closed = true }), nil)

	_, cmd := m.Update(key("q"))
	if !closed {
		t.Fatal("close callback not invoked")
	}
	if cmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
}
