// Package gh is the gateway to GitHub and git: every operation is a
// bounded subprocess invocation of the gh or git CLI (plus one REST
// surface for PR feedback), translated into typed results.
package gh

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Client invokes gh and git in a single repository working directory.
type Client struct {
	label string // the todo label identifying tracked issues
	dir   string // working directory for all subprocesses; "" = cwd
}

// New returns a gateway tracking issues under the given label.
func New(label string) *Client {
	return &Client{label: label}
}

// NewInDir is New with an explicit repository directory.
func NewInDir(label, dir string) *Client {
	return &Client{label: label, dir: dir}
}

// Per-operation budgets. Local git plumbing is fast; anything that
// talks to GitHub gets a longer leash.
const (
	localTimeout  = 5 * time.Second
	fetchTimeout  = 10 * time.Second
	mutateTimeout = 30 * time.Second
	tokenTimeout  = 3 * time.Second
)

// run executes name with args, returning trimmed stdout. Non-zero exit
// surfaces as an error carrying the raw stderr text.
func (c *Client) run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	return c.runInput(ctx, timeout, "", name, args...)
}

// runInput is run with data piped to stdin (used for --body-file -).
func (c *Client) runInput(ctx context.Context, timeout time.Duration, stdin, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s", name, args[0], msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
