package gh

import (
	"context"
	"encoding/json"
	"strconv"

	"ghtodo/internal/model"
)

// ghPR mirrors the fields we request from gh pr view.
type ghPR struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	State  string `json:"state"` // "OPEN", "MERGED", "CLOSED"
}

// PRForBranch returns the PR whose head is branch, or nil when none is
// found. Any gh failure is treated as "no PR": the CLI does not let us
// tell a missing PR from a failed lookup.
func (c *Client) PRForBranch(ctx context.Context, branch string) *model.PR {
	out, err := c.run(ctx, fetchTimeout,
		"gh", "pr", "view", branch, "--json", "number,url,state",
	)
	if err != nil {
		return nil
	}
	var raw ghPR
	if err := json.Unmarshal([]byte(out), &raw); err != nil || raw.Number == 0 {
		return nil
	}
	return &model.PR{Number: raw.Number, URL: raw.URL, State: prState(raw.State)}
}

// prState maps gh's upper-case PR states to our model.
func prState(s string) string {
	switch s {
	case "OPEN":
		return "open"
	case "MERGED":
		return "merged"
	case "CLOSED":
		return "closed"
	default:
		return s
	}
}

// CreatePR opens a pull request for the current branch and returns its
// URL as printed by gh.
func (c *Client) CreatePR(ctx context.Context, title, body, base string) (string, error) {
	return c.runInput(ctx, mutateTimeout, body,
		"gh", "pr", "create",
		"--title", title,
		"--base", base,
		"--body-file", "-",
	)
}

// CommentPR posts a comment on the pull request.
func (c *Client) CommentPR(ctx context.Context, number int, body string) error {
	_, err := c.runInput(ctx, mutateTimeout, body,
		"gh", "pr", "comment", strconv.Itoa(number), "--body-file", "-",
	)
	return err
}

// repoView mirrors gh repo view --json owner,name.
type repoView struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name string `json:"name"`
}

// RepoOwnerName resolves the owner and repository name of the current
// repo via gh.
func (c *Client) RepoOwnerName(ctx context.Context) (owner, name string, err error) {
	out, err := c.run(ctx, fetchTimeout, "gh", "repo", "view", "--json", "owner,name")
	if err != nil {
		return "", "", err
	}
	var raw repoView
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return "", "", &ParseError{Op: "repo view", Err: err}
	}
	return raw.Owner.Login, raw.Name, nil
}

// AuthToken returns the token gh is authenticated with, for REST calls
// that go around the CLI.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	return c.run(ctx, tokenTimeout, "gh", "auth", "token")
}
