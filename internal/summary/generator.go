// Package summary drafts the markdown this tool posts to GitHub: commit
// messages, PR descriptions, PR update comments, and issue progress
// comments. Every generator has a deterministic fallback; the model is
// an optional capability, never a requirement.
package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"ghtodo/internal/model"
)

const systemPrompt = "You draft concise GitHub-flavoured markdown for a coding assistant. " +
	"Reply with the requested text only, no preamble."

// completeFunc performs one completion call. Kept as a function value so
// tests can swap the API out.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// Generator produces summaries. A Generator without a model (empty API
// key) is valid and always falls back.
type Generator struct {
	complete completeFunc
}

// New builds a Generator backed by the Anthropic Messages API. An empty
// apiKey yields a fallback-only Generator.
func New(apiKey, modelName string, maxTokens int) *Generator {
	if apiKey == "" {
		return &Generator{}
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Generator{
		complete: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.Model(modelName),
				MaxTokens: int64(maxTokens),
				System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
				},
			})
			if err != nil {
				return "", fmt.Errorf("anthropic api: %w", err)
			}
			return textBlocks(resp), nil
		},
	}
}

// textBlocks concatenates the text-typed content blocks of a response,
// ignoring everything else.
func textBlocks(resp *anthropic.Message) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// generate runs one completion, returning "" whenever the model is
// unavailable, the call fails, or the response has no text.
func (g *Generator) generate(ctx context.Context, prompt string) string {
	if g == nil || g.complete == nil {
		return ""
	}
	out, err := g.complete(ctx, prompt)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// CommitMessage drafts a one-line commit message from the session
// excerpt. Fallback: the first line of the user prompt capped at 50
// chars, or the literal "changes".
func (g *Generator) CommitMessage(ctx context.Context, excerpt, userPrompt string) string {
	if excerpt != "" {
		prompt := "Write a single-line git commit message (max 72 chars, imperative mood) for this session:\n\n" + excerpt
		if line := firstLine(g.generate(ctx, prompt)); len(line) >= 5 {
			return line
		}
	}
	return fallbackCommitMessage(userPrompt)
}

func fallbackCommitMessage(userPrompt string) string {
	line := firstLine(strings.TrimSpace(userPrompt))
	if line == "" {
		return "changes"
	}
	if len(line) > 50 {
		cut := 50
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		return line[:cut] + "..."
	}
	return line
}

// IssueLink renders the PR↔issue link directive line.
func IssueLink(issueNumber int, closes bool) string {
	verb := "Related"
	if closes {
		verb = "Closes"
	}
	return fmt.Sprintf("%s: #%d", verb, issueNumber)
}

// PRDescription drafts a PR body for the issue. With a template, the
// model fills it in; a failed generation falls back to the issue-link
// line prefixed to the raw template. Without one, the fallback is a
// fixed summary skeleton.
func (g *Generator) PRDescription(ctx context.Context, excerpt, issueTitle string, issueNumber int, closes bool, template string) string {
	link := IssueLink(issueNumber, closes)

	if excerpt != "" {
		var prompt strings.Builder
		fmt.Fprintf(&prompt, "Write a pull request description for issue #%d (%q).\n", issueNumber, issueTitle)
		fmt.Fprintf(&prompt, "Start with the exact line %q.\n", link)
		if template != "" {
			prompt.WriteString("Fill in this PR template, keeping its headings:\n\n" + template + "\n\n")
		}
		prompt.WriteString("Session activity:\n\n" + excerpt)
		if out := g.generate(ctx, prompt.String()); out != "" {
			return out
		}
	}

	if template != "" {
		return link + "\n\n" + template
	}
	return link + "\n\n## Summary\n\n(Add summary of changes here)"
}

// PRUpdateComment drafts a comment describing newly pushed work. When
// the model succeeds but omits a commits section while commits exist,
// one is appended deterministically.
func (g *Generator) PRUpdateComment(ctx context.Context, excerpt string, commits []model.Commit) string {
	if excerpt != "" {
		prompt := "Write a short PR comment summarising the feedback addressed in this session. " +
			"Include a \"### Commits\" section listing the commits.\n\nSession activity:\n\n" + excerpt
		if len(commits) > 0 {
			prompt += "\n\nCommits pushed:\n" + commitLines(commits)
		}
		if out := g.generate(ctx, prompt); out != "" {
			if len(commits) > 0 && !strings.Contains(out, "### Commits") {
				out += "\n\n" + commitsBlock(commits)
			}
			return out
		}
	}

	if len(commits) == 0 {
		return "(Responded to feedback)"
	}
	return "## Feedback addressed\n\n(Changes pushed)\n\n" + commitsBlock(commits)
}

// ProgressComment drafts a progress note for the issue thread.
func (g *Generator) ProgressComment(ctx context.Context, excerpt string) string {
	if excerpt != "" {
		prompt := "Write a short markdown progress update for an issue thread, " +
			"based on this session activity:\n\n" + excerpt
		if out := g.generate(ctx, prompt); out != "" {
			return out
		}
	}
	return "## Progress\n\n(No summary available)"
}

func commitsBlock(commits []model.Commit) string {
	return "### Commits\n\n" + commitLines(commits)
}

func commitLines(commits []model.Commit) string {
	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "- %s %s\n", c.Hash, c.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
