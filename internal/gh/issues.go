package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"ghtodo/internal/model"
	"ghtodo/internal/notes"
)

const issueFields = "number,title,state,body,labels,assignees,url,createdAt,updatedAt"

// ghIssue mirrors the fields we request from gh's --json output.
type ghIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"` // "OPEN", "CLOSED"
	Body      string `json:"body"`
	Labels    []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g ghIssue) toModel() model.Issue {
	issue := model.Issue{
		Number:    g.Number,
		Title:     g.Title,
		State:     issueState(g.State),
		Body:      g.Body,
		URL:       g.URL,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	for _, l := range g.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	for _, a := range g.Assignees {
		issue.Assignees = append(issue.Assignees, a.Login)
	}
	return issue
}

// issueState maps gh's upper-case state strings to our model.
func issueState(s string) string {
	switch s {
	case "OPEN":
		return "open"
	case "CLOSED":
		return "closed"
	default:
		return s
	}
}

// ListIssues fetches issues carrying the todo label, ordered as the API
// returns them. Malformed output is a ParseError, not an empty list.
func (c *Client) ListIssues(ctx context.Context, includeClosed bool) ([]model.Issue, error) {
	state := "open"
	if includeClosed {
		state = "all"
	}
	out, err := c.run(ctx, fetchTimeout,
		"gh", "issue", "list",
		"--label", c.label,
		"--state", state,
		"--json", issueFields,
	)
	if err != nil {
		return nil, err
	}
	return parseIssueList([]byte(out))
}

func parseIssueList(data []byte) ([]model.Issue, error) {
	var raw []ghIssue
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Op: "issue list", Err: err}
	}
	issues := make([]model.Issue, 0, len(raw))
	for _, g := range raw {
		issues = append(issues, g.toModel())
	}
	return issues, nil
}

// GetIssue fetches a canonical snapshot of one issue.
func (c *Client) GetIssue(ctx context.Context, number int) (model.Issue, error) {
	out, err := c.run(ctx, fetchTimeout,
		"gh", "issue", "view", strconv.Itoa(number), "--json", issueFields,
	)
	if err != nil {
		return model.Issue{}, fmt.Errorf("issue #%d: %w", number, ErrNotFound)
	}
	return parseIssue([]byte(out))
}

func parseIssue(data []byte) (model.Issue, error) {
	var raw ghIssue
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Issue{}, &ParseError{Op: "issue view", Err: err}
	}
	if raw.Number == 0 {
		return model.Issue{}, &ParseError{Op: "issue view", Err: fmt.Errorf("missing issue number")}
	}
	return raw.toModel(), nil
}

var issueURLRe = regexp.MustCompile(`/issues/(\d+)\s*$`)

// CreateIssue creates a labeled todo issue and returns its canonical
// snapshot. The label is created first if absent; that step is
// best-effort and its failure ignored.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (model.Issue, error) {
	c.ensureLabel(ctx)

	out, err := c.run(ctx, mutateTimeout,
		"gh", "issue", "create",
		"--title", title,
		"--body", body,
		"--label", c.label,
	)
	if err != nil {
		return model.Issue{}, err
	}

	m := issueURLRe.FindStringSubmatch(out)
	if m == nil {
		return model.Issue{}, &ParseError{Op: "issue create", Err: fmt.Errorf("no issue URL in %q", out)}
	}
	number, _ := strconv.Atoi(m[1])
	return c.GetIssue(ctx, number)
}

// ensureLabel creates the todo label if it does not exist yet.
func (c *Client) ensureLabel(ctx context.Context) {
	_, _ = c.run(ctx, fetchTimeout,
		"gh", "label", "create", c.label,
		"--description", "Tracked by the todo extension",
		"--color", "0E8A16",
	)
}

// UpdateIssueNotes replaces the agent-notes section of the issue body,
// leaving user content untouched, and returns the re-fetched issue.
func (c *Client) UpdateIssueNotes(ctx context.Context, number int, text string) (model.Issue, error) {
	issue, err := c.GetIssue(ctx, number)
	if err != nil {
		return model.Issue{}, err
	}
	body := notes.UpdateSection(issue.Body, text)
	_, err = c.runInput(ctx, mutateTimeout, body,
		"gh", "issue", "edit", strconv.Itoa(number), "--body-file", "-",
	)
	if err != nil {
		return model.Issue{}, err
	}
	return c.GetIssue(ctx, number)
}

// CloseIssue closes the issue and returns the re-fetched snapshot.
func (c *Client) CloseIssue(ctx context.Context, number int) (model.Issue, error) {
	if _, err := c.run(ctx, mutateTimeout, "gh", "issue", "close", strconv.Itoa(number)); err != nil {
		return model.Issue{}, err
	}
	return c.GetIssue(ctx, number)
}

// ReopenIssue reopens the issue and returns the re-fetched snapshot.
func (c *Client) ReopenIssue(ctx context.Context, number int) (model.Issue, error) {
	if _, err := c.run(ctx, mutateTimeout, "gh", "issue", "reopen", strconv.Itoa(number)); err != nil {
		return model.Issue{}, err
	}
	return c.GetIssue(ctx, number)
}

// CommentIssue posts a comment on the issue.
func (c *Client) CommentIssue(ctx context.Context, number int, body string) error {
	_, err := c.runInput(ctx, mutateTimeout, body,
		"gh", "issue", "comment", strconv.Itoa(number), "--body-file", "-",
	)
	return err
}
