// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-09
// Last Modified: 2026-03-13

package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client.
//
// All calls go through a client-side limiter kept below GitHub's
// authenticated REST quota (5000 requests/hour), so a busy repository
// sweep does not trip the server-side limit in the first place.
func NewClient(ctx context.Context, token string) *Client {
	var tc *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(tc)

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1.25), 5),
		retry:   DefaultRetryConfig(),
	}
}

// WithRetryConfig overrides the retry behavior. Mainly used by tests to
// shrink delays.
func (c *Client) WithRetryConfig(cfg RetryConfig) *Client {
	c.retry = cfg
	return c
}
