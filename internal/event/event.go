// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-10
// Last Modified: 2026-03-14

// Package event reads the GitHub Actions event payload and converts
// issues into the pipeline representation.
package event

import (
	"encoding/json"
	"fmt"
	"os"

	gh "github.com/google/go-github/v60/github"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
)

// payload is the slice of the issues event we care about.
type payload struct {
	Action     string    `json:"action"`
	Issue      *gh.Issue `json:"issue"`
	Repository *struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// ParseFile reads an issues event payload (the file GITHUB_EVENT_PATH
// points at) and returns the triggering issue.
func ParseFile(path string) (*pipeline.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return Parse(data)
}

// Parse decodes a raw issues event payload.
func Parse(data []byte) (*pipeline.Issue, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}
	if p.Issue == nil {
		return nil, fmt.Errorf("event payload has no issue (is the workflow triggered on issues events?)")
	}

	var org, repo string
	if p.Repository != nil {
		var err error
		org, repo, err = config.SplitRepository(p.Repository.FullName)
		if err != nil {
			return nil, err
		}
	}

	issue := FromGitHub(org, repo, p.Issue)
	issue.EventAction = p.Action
	return &issue, nil
}

// FromGitHub converts a go-github issue into the pipeline representation.
func FromGitHub(org, repo string, gi *gh.Issue) pipeline.Issue {
	issue := pipeline.Issue{
		Org:    org,
		Repo:   repo,
		Number: gi.GetNumber(),
		Title:  gi.GetTitle(),
		Body:   gi.GetBody(),
		State:  gi.GetState(),
		Author: gi.GetUser().GetLogin(),
		URL:    gi.GetHTMLURL(),
	}
	if gi.CreatedAt != nil {
		issue.CreatedAt = gi.CreatedAt.Time
	}
	for _, l := range gi.Labels {
		if l.GetName() != "" {
			issue.Labels = append(issue.Labels, l.GetName())
		}
	}
	for _, a := range gi.Assignees {
		if a.GetLogin() != "" {
			issue.Assignees = append(issue.Assignees, a.GetLogin())
		}
	}
	return issue
}
