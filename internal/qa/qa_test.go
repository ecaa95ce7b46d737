package qa

import (
	"context"
	"testing"

	"ghtodo/internal/host"
)

func TestExtractQuestions(t *testing.T) {
	text := `I finished the refactor. A few things to confirm:

- Should the cache be bounded?
- Should the cache be bounded?
1. Do we keep the legacy endpoint?
2) What about Windows support?
Not a question.
Short?`

	got := ExtractQuestions(text)
	want := []string{
		"Should the cache be bounded?",
		"Do we keep the legacy endpoint?",
		"What about Windows support?",
		"Short?",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d questions: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("questions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractQuestionsNone(t *testing.T) {
	if got := ExtractQuestions("All done. No open items."); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestExtractQuestionsCap(t *testing.T) {
	text := ""
	for i := 0; i < 10; i++ {
		text += "- Is this question number " + string(rune('0'+i)) + " okay?\n"
	}
	if got := ExtractQuestions(text); len(got) != maxQuestions {
		t.Fatalf("got %d questions, want %d", len(got), maxQuestions)
	}
}

type scriptedUI struct {
	answers []string
	i       int
}

func (u *scriptedUI) Notify(string) {}

func (u *scriptedUI) Confirm(context.Context, string) (bool, error) { return true, nil }

func (u *scriptedUI) Select(context.Context, string, []string) (int, error) { return 0, nil }

func (u *scriptedUI) Editor(_ context.Context, _, _ string) (string, error) {
	a := u.answers[u.i]
	u.i++
	return a, nil
}

var _ host.UI = (*scriptedUI)(nil)

func TestRunCollectsAnswers(t *testing.T) {
	ui := &scriptedUI{answers: []string{"yes, bound it", ""}}
	out, err := Run(context.Background(), ui, []string{"Bound the cache?", "Keep legacy?"})
	if err != nil {
		t.Fatal(err)
	}
	want := "**Q:** Bound the cache?\n**A:** yes, bound it"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
