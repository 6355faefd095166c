// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-16

package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/time/rate"
)

// Client wraps the GitHub API client with rate limiting and retries.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
	retry   RetryConfig
}

// GetIssue fetches issue details.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*github.Issue, error) {
	issue, err := withRetry(ctx, c.retry, "get issue", func() (*github.Issue, error) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		issue, _, err := c.client.Issues.Get(ctx, org, repo, number)
		return issue, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return issue, nil
}

// ListOpenIssues fetches every open issue in the repository. Pull
// requests are excluded; the REST issues endpoint returns both.
func (c *Client) ListOpenIssues(ctx context.Context, org, repo string) ([]*github.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []*github.Issue
	for {
		issues, resp, err := withRetryPage(ctx, c, "list open issues", func() ([]*github.Issue, *github.Response, error) {
			return c.client.Issues.ListByRepo(ctx, org, repo, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list open issues: %w", err)
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			all = append(all, issue)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListCollaborators returns the logins of users with access to the
// repository.
func (c *Client) ListCollaborators(ctx context.Context, org, repo string) ([]string, error) {
	opts := &github.ListCollaboratorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var logins []string
	for {
		users, resp, err := withRetryPage(ctx, c, "list collaborators", func() ([]*github.User, *github.Response, error) {
			return c.client.Repositories.ListCollaborators(ctx, org, repo, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list collaborators: %w", err)
		}

		for _, u := range users {
			if u.GetLogin() != "" {
				logins = append(logins, u.GetLogin())
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return logins, nil
}

// IsAssignable reports whether the user can be assigned issues in the
// repository.
func (c *Client) IsAssignable(ctx context.Context, org, repo, user string) (bool, error) {
	ok, err := withRetry(ctx, c.retry, "check assignability", func() (bool, error) {
		if err := c.wait(ctx); err != nil {
			return false, err
		}
		ok, _, err := c.client.Issues.IsAssignee(ctx, org, repo, user)
		return ok, err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check assignability of %s: %w", user, err)
	}
	return ok, nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, err := withRetry(ctx, c.retry, "create comment", func() (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, err := withRetry(ctx, c.retry, "add labels", func() (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// AddAssignees assigns users to an issue.
func (c *Client) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}

	_, err := withRetry(ctx, c.retry, "add assignees", func() (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		_, _, err := c.client.Issues.AddAssignees(ctx, org, repo, number, assignees)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, org, repo string, number int) error {
	req := &github.IssueRequest{
		State: github.String("closed"),
	}
	_, err := withRetry(ctx, c.retry, "close issue", func() (struct{}, error) {
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		_, _, err := c.client.Issues.Edit(ctx, org, repo, number, req)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", number, err)
	}
	return nil
}

// wait blocks until the client-side limiter allows another call.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// pagedResult bundles a page of results with its response metadata so
// pagination survives the retry wrapper.
type pagedResult[T any] struct {
	items []T
	resp  *github.Response
}

func withRetryPage[T any](ctx context.Context, c *Client, operation string, fn func() ([]T, *github.Response, error)) ([]T, *github.Response, error) {
	page, err := withRetry(ctx, c.retry, operation, func() (pagedResult[T], error) {
		if err := c.wait(ctx); err != nil {
			return pagedResult[T]{}, err
		}
		items, resp, err := fn()
		return pagedResult[T]{items: items, resp: resp}, err
	})
	if err != nil {
		return nil, nil, err
	}
	return page.items, page.resp, nil
}
