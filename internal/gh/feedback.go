package gh

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"ghtodo/internal/model"
)

const feedbackTimeout = 15 * time.Second

// PRFeedback gathers review feedback on a pull request from three
// independent sources: inline review comments, issue-style conversation
// comments, and review summaries with non-empty bodies. Each fetch
// degrades independently; a partial Feedback is better than none.
func (c *Client) PRFeedback(ctx context.Context, prNumber int) (model.Feedback, error) {
	token, err := c.AuthToken(ctx)
	if err != nil {
		return model.Feedback{}, fmt.Errorf("gh auth token: %w", err)
	}
	owner, repo, err := c.RepoOwnerName(ctx)
	if err != nil {
		return model.Feedback{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, feedbackTimeout)
	defer cancel()

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	api := github.NewClient(oauth2.NewClient(ctx, ts))

	var fb model.Feedback

	if comments, _, err := api.PullRequests.ListComments(ctx, owner, repo, prNumber, nil); err == nil {
		for _, rc := range comments {
			fb.ReviewComments = append(fb.ReviewComments, model.Comment{
				Author: rc.GetUser().GetLogin(),
				Body:   rc.GetBody(),
				Path:   rc.GetPath(),
				Line:   rc.GetLine(),
			})
		}
	}

	if comments, _, err := api.Issues.ListComments(ctx, owner, repo, prNumber, nil); err == nil {
		for _, ic := range comments {
			fb.ConversationComments = append(fb.ConversationComments, model.Comment{
				Author: ic.GetUser().GetLogin(),
				Body:   ic.GetBody(),
			})
		}
	}

	if reviews, _, err := api.PullRequests.ListReviews(ctx, owner, repo, prNumber, nil); err == nil {
		for _, rv := range reviews {
			if rv.GetBody() == "" {
				continue
			}
			fb.Reviews = append(fb.Reviews, model.Comment{
				Author: rv.GetUser().GetLogin(),
				Body:   rv.GetBody(),
			})
		}
	}

	return fb, nil
}
