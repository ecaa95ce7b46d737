package summary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"ghtodo/internal/model"
)

func fake(out string, err error) *Generator {
	return &Generator{complete: func(context.Context, string) (string, error) {
		return out, err
	}}
}

var ctx = context.Background()

func TestCommitMessageGenerated(t *testing.T) {
	g := fake("fix: handle nil session", nil)
	if got := g.CommitMessage(ctx, "some excerpt", "please fix"); got != "fix: handle nil session" {
		t.Fatalf("got %q", got)
	}
}

func TestCommitMessageFallbacks(t *testing.T) {
	cases := []struct {
		name       string
		g          *Generator
		excerpt    string
		userPrompt string
		want       string
	}{
		{"no model", New("", "", 0), "excerpt", "fix the login bug", "fix the login bug"},
		{"no context", fake("irrelevant", nil), "", "fix the login bug", "fix the login bug"},
		{"api error", fake("", errors.New("boom")), "excerpt", "fix the login bug", "fix the login bug"},
		{"too short", fake("ok", nil), "excerpt", "fix the login bug", "fix the login bug"},
		{"short first line", fake("ok\nwith a longer explanation below", nil), "excerpt", "fix the login bug", "fix the login bug"},
		{"empty prompt", fake("", errors.New("boom")), "excerpt", "", "changes"},
		{"long prompt", New("", "", 0), "", strings.Repeat("a", 60), strings.Repeat("a", 50) + "..."},
		{"multiline prompt", New("", "", 0), "", "first line\nsecond line", "first line"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.g.CommitMessage(ctx, tc.excerpt, tc.userPrompt); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommitMessageMultilineOutputKeepsFirstLine(t *testing.T) {
	g := fake("fix: handle nil session\n\nLonger body the model added anyway.", nil)
	if got := g.CommitMessage(ctx, "excerpt", "prompt"); got != "fix: handle nil session" {
		t.Fatalf("got %q", got)
	}
}

func TestCommitMessageFallbackRuneBoundary(t *testing.T) {
	g := New("", "", 0)
	got := g.CommitMessage(ctx, "", strings.Repeat("日", 20)) // 60 bytes
	if !utf8.ValidString(got) {
		t.Fatalf("fallback tore a rune: %q", got)
	}
	if want := strings.Repeat("日", 16) + "..."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNilGeneratorFallsBack(t *testing.T) {
	var g *Generator
	if got := g.CommitMessage(ctx, "excerpt", "x y z"); got != "x y z" {
		t.Fatalf("got %q", got)
	}
}

func TestIssueLink(t *testing.T) {
	if got := IssueLink(7, true); got != "Closes: #7" {
		t.Fatalf("got %q", got)
	}
	if got := IssueLink(7, false); got != "Related: #7" {
		t.Fatalf("got %q", got)
	}
}

func TestPRDescriptionFallbackNoTemplate(t *testing.T) {
	g := New("", "", 0)
	got := g.PRDescription(ctx, "excerpt", "Fix bug", 12, true, "")
	want := "Closes: #12\n\n## Summary\n\n(Add summary of changes here)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPRDescriptionFallbackWithTemplate(t *testing.T) {
	g := fake("", errors.New("down"))
	got := g.PRDescription(ctx, "excerpt", "Fix bug", 12, false, "## Checklist\n- [ ] tests")
	want := "Related: #12\n\n## Checklist\n- [ ] tests"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPRDescriptionGenerated(t *testing.T) {
	g := fake("Closes: #12\n\nDid the thing.", nil)
	if got := g.PRDescription(ctx, "excerpt", "Fix bug", 12, true, ""); got != "Closes: #12\n\nDid the thing." {
		t.Fatalf("got %q", got)
	}
}

func TestPRUpdateCommentFallbacks(t *testing.T) {
	g := New("", "", 0)

	if got := g.PRUpdateComment(ctx, "excerpt", nil); got != "(Responded to feedback)" {
		t.Fatalf("no commits: got %q", got)
	}

	commits := []model.Commit{{Hash: "abc1234", Message: "fix parser"}}
	got := g.PRUpdateComment(ctx, "excerpt", commits)
	if !strings.HasPrefix(got, "## Feedback addressed\n\n(Changes pushed)") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "### Commits") || !strings.Contains(got, "abc1234 fix parser") {
		t.Fatalf("commits block missing: %q", got)
	}
}

func TestPRUpdateCommentAppendsCommitsWhenModelOmits(t *testing.T) {
	g := fake("Addressed the review notes.", nil)
	commits := []model.Commit{{Hash: "abc1234", Message: "fix parser"}}
	got := g.PRUpdateComment(ctx, "excerpt", commits)
	if !strings.HasPrefix(got, "Addressed the review notes.") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "### Commits\n\n- abc1234 fix parser") {
		t.Fatalf("deterministic commits block missing: %q", got)
	}
}

func TestPRUpdateCommentKeepsModelCommitsSection(t *testing.T) {
	g := fake("Done.\n\n### Commits\n\n- abc1234 fix parser", nil)
	got := g.PRUpdateComment(ctx, "excerpt", []model.Commit{{Hash: "abc1234", Message: "fix parser"}})
	if strings.Count(got, "### Commits") != 1 {
		t.Fatalf("commits section duplicated: %q", got)
	}
}

func TestProgressCommentFallback(t *testing.T) {
	g := New("", "", 0)
	if got := g.ProgressComment(ctx, ""); got != "## Progress\n\n(No summary available)" {
		t.Fatalf("got %q", got)
	}
}

func TestFindPRTemplate(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindPRTemplate(dir); ok {
		t.Fatal("found template in empty repo")
	}

	sub := filepath.Join(dir, ".github")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "pull_request_template.md"), []byte("## Checklist"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := FindPRTemplate(dir)
	if !ok || got != "## Checklist" {
		t.Fatalf("got %q, %v", got, ok)
	}
}
