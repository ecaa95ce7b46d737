// Package qa is the question-extraction wizard: when the agent ends its
// turn with open questions, pull them out and walk the user through
// answering, one prompt per question.
package qa

import (
	"context"
	"fmt"
	"strings"

	"ghtodo/internal/history"
	"ghtodo/internal/host"
)

const maxQuestions = 5

// ExtractQuestions pulls question lines out of assistant text. A line
// counts when it ends with "?" after stripping list bullets and
// numbering. Duplicates are dropped, order preserved.
func ExtractQuestions(text string) []string {
	var questions []string
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		q := stripBullet(strings.TrimSpace(line))
		if len(q) < 4 || !strings.HasSuffix(q, "?") {
			continue
		}
		if seen[q] {
			continue
		}
		seen[q] = true
		questions = append(questions, q)
		if len(questions) == maxQuestions {
			break
		}
	}
	return questions
}

func stripBullet(s string) string {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	// numbered lists: "1. foo" / "12) foo"
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// Run prompts the user for an answer to each question and returns the
// combined Q&A markdown, or "" when every question was skipped.
func Run(ctx context.Context, ui host.UI, questions []string) (string, error) {
	var b strings.Builder
	for _, q := range questions {
		answer, err := ui.Editor(ctx, q, "")
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		fmt.Fprintf(&b, "**Q:** %s\n**A:** %s\n\n", q, answer)
	}
	return strings.TrimSpace(b.String()), nil
}

// Hook runs the wizard at agent end: extract questions from the last
// assistant message and, when a UI is present, collect answers and
// surface them back as a notification.
func Hook(ui func() (host.UI, bool)) host.HookFunc {
	return func(ctx context.Context, session host.Session) {
		if session == nil {
			return
		}
		text := lastAssistantText(session.Entries())
		questions := ExtractQuestions(text)
		if len(questions) == 0 {
			return
		}
		u, ok := ui()
		if !ok {
			return
		}
		answers, err := Run(ctx, u, questions)
		if err != nil || answers == "" {
			return
		}
		u.Notify("Answers collected:\n\n" + answers)
	}
}

func lastAssistantText(entries []history.Entry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == history.KindAssistant {
			return entries[i].Text
		}
	}
	return ""
}
