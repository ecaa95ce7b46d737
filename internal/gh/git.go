package gh

import (
	"context"
	"strings"

	"ghtodo/internal/model"
)

// CurrentBranch returns the branch HEAD is on.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, localTimeout, "git", "rev-parse", "--abbrev-ref", "HEAD")
}

// HasUncommittedChanges reports whether the working tree is dirty.
func (c *Client) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, localTimeout, "git", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// PushBranch pushes the branch to origin, setting the upstream.
func (c *Client) PushBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, mutateTimeout, "git", "push", "-u", "origin", branch)
	return err
}

// PullBranch fast-forwards the current branch. Diverged history fails
// rather than merging.
func (c *Client) PullBranch(ctx context.Context) error {
	_, err := c.run(ctx, mutateTimeout, "git", "pull", "--ff-only")
	return err
}

// CheckoutNewBranch creates and checks out branch.
func (c *Client) CheckoutNewBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, localTimeout, "git", "checkout", "-b", branch)
	return err
}

// CheckoutBranch checks out an existing branch.
func (c *Client) CheckoutBranch(ctx context.Context, branch string) error {
	_, err := c.run(ctx, localTimeout, "git", "checkout", branch)
	return err
}

// BranchExists reports whether a local branch with this name exists.
func (c *Client) BranchExists(ctx context.Context, branch string) bool {
	_, err := c.run(ctx, localTimeout, "git", "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// HasUpstream reports whether the branch has an upstream configured.
func (c *Client) HasUpstream(ctx context.Context, branch string) bool {
	_, err := c.run(ctx, localTimeout, "git", "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	return err == nil
}

// DefaultBaseBranch probes for the repo's base branch, preferring main.
func (c *Client) DefaultBaseBranch(ctx context.Context) string {
	if c.BranchExists(ctx, "main") {
		return "main"
	}
	if c.BranchExists(ctx, "master") {
		return "master"
	}
	return "main"
}

// UnpushedCommits lists commits on branch not yet on its upstream. The
// range is origin/<branch>..HEAD when an upstream exists, otherwise
// <base>..HEAD against the probed default branch. Failure or empty
// output yields an empty list.
func (c *Client) UnpushedCommits(ctx context.Context, branch string) []model.Commit {
	var base string
	if c.HasUpstream(ctx, branch) {
		base = "origin/" + branch
	} else {
		base = c.DefaultBaseBranch(ctx)
	}
	out, err := c.run(ctx, localTimeout, "git", "log", base+"..HEAD", "--pretty=format:%h\t%s")
	if err != nil || out == "" {
		return nil
	}
	return parseCommitLog(out)
}

func parseCommitLog(out string) []model.Commit {
	var commits []model.Commit
	for _, line := range strings.Split(out, "\n") {
		hash, msg, ok := strings.Cut(line, "\t")
		if !ok || hash == "" {
			continue
		}
		commits = append(commits, model.Commit{Hash: hash, Message: msg})
	}
	return commits
}

// CommitAll stages everything and commits with message. Returns false
// without error when there is nothing to commit.
func (c *Client) CommitAll(ctx context.Context, message string) (bool, error) {
	dirty, err := c.HasUncommittedChanges(ctx)
	if err != nil || !dirty {
		return false, err
	}
	if _, err := c.run(ctx, localTimeout, "git", "add", "-A"); err != nil {
		return false, err
	}
	if _, err := c.run(ctx, localTimeout, "git", "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}
