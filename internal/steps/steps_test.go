// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-13
// Last Modified: 2026-03-17

package steps

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	gh "github.com/google/go-github/v60/github"

	"github.com/similigh/simili-triage/internal/core/config"
	"github.com/similigh/simili-triage/internal/core/pipeline"
	"github.com/similigh/simili-triage/internal/similarity"
)

// fakeGitHub implements the step interfaces in memory and records
// every mutation for assertions.
type fakeGitHub struct {
	openIssues    []*gh.Issue
	collaborators []string
	unassignable  map[string]bool
	listErr       error

	listCalls int
	comments  []string
	labels    [][]string
	assignees [][]string
	closed    []int
}

func (f *fakeGitHub) ListOpenIssues(ctx context.Context, org, repo string) ([]*gh.Issue, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.openIssues, nil
}

func (f *fakeGitHub) ListCollaborators(ctx context.Context, org, repo string) ([]string, error) {
	return f.collaborators, nil
}

func (f *fakeGitHub) IsAssignable(ctx context.Context, org, repo, user string) (bool, error) {
	return !f.unassignable[user], nil
}

func (f *fakeGitHub) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeGitHub) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	f.labels = append(f.labels, labels)
	return nil
}

func (f *fakeGitHub) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	f.assignees = append(f.assignees, assignees)
	return nil
}

func (f *fakeGitHub) CloseIssue(ctx context.Context, org, repo string, number int) error {
	f.closed = append(f.closed, number)
	return nil
}

func ghIssue(number int, title, body string, created time.Time, assignees ...string) *gh.Issue {
	issue := &gh.Issue{
		Number:    gh.Int(number),
		Title:     gh.String(title),
		Body:      gh.String(body),
		State:     gh.String("open"),
		HTMLURL:   gh.String("https://github.com/octo/widgets/issues/1"),
		CreatedAt: &gh.Timestamp{Time: created},
	}
	for _, a := range assignees {
		issue.Assignees = append(issue.Assignees, &gh.User{Login: gh.String(a)})
	}
	return issue
}

func testConfig() *config.Config {
	return &config.Config{
		Repository: "octo/widgets",
		Token:      "t0ken",
		Defaults: config.DefaultsConfig{
			DuplicateThreshold: 80,
			Assignees:          1,
			ProcessedLabel:     "triage:processed",
		},
	}
}

func testContext(issue *pipeline.Issue, cfg *config.Config) *pipeline.Context {
	issue.Org = "octo"
	issue.Repo = "widgets"
	if issue.State == "" {
		issue.State = "open"
	}
	return pipeline.NewContext(context.Background(), issue, cfg)
}

const validBody = `### Description
The app crashes immediately after login on Android 14.

### Steps to Reproduce
1. Open the app
2. Log in with any account
3. Observe the crash

### Expected Behavior
The home screen loads without crashing.`

func TestGatekeeper(t *testing.T) {
	tests := []struct {
		name       string
		issue      pipeline.Issue
		botUsers   []string
		wantSkip   bool
		skipReason string
	}{
		{
			name:  "accepts opened issue",
			issue: pipeline.Issue{Number: 1, Author: "octocat", EventAction: "opened"},
		},
		{
			name:  "accepts issue without event action",
			issue: pipeline.Issue{Number: 1, Author: "octocat"},
		},
		{
			name:       "skips bot suffix author",
			issue:      pipeline.Issue{Number: 1, Author: "dependabot[bot]"},
			wantSkip:   true,
			skipReason: "issue authored by bot",
		},
		{
			name:       "skips configured bot user",
			issue:      pipeline.Issue{Number: 1, Author: "ci-runner"},
			botUsers:   []string{"ci-runner"},
			wantSkip:   true,
			skipReason: "issue authored by bot",
		},
		{
			name:       "skips edited events",
			issue:      pipeline.Issue{Number: 1, Author: "octocat", EventAction: "edited"},
			wantSkip:   true,
			skipReason: "event action is not 'opened'",
		},
		{
			name:       "skips closed issues",
			issue:      pipeline.Issue{Number: 1, Author: "octocat", State: "closed"},
			wantSkip:   true,
			skipReason: "issue is closed",
		},
		{
			name:       "skips already processed issues",
			issue:      pipeline.Issue{Number: 1, Author: "octocat", Labels: []string{"triage:processed"}},
			wantSkip:   true,
			skipReason: "issue already processed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.BotUsers = tt.botUsers
			ctx := testContext(&tt.issue, cfg)

			err := NewGatekeeper(&pipeline.Dependencies{}).Run(ctx)
			if tt.wantSkip {
				if !errors.Is(err, pipeline.ErrSkipPipeline) {
					t.Fatalf("expected skip, got: %v", err)
				}
				if ctx.Result.SkipReason != tt.skipReason {
					t.Errorf("unexpected skip reason %q", ctx.Result.SkipReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctx.Result.Skipped {
				t.Error("issue must not be marked skipped")
			}
		})
	}
}

func TestTemplateValidatorListsEveryMissingSection(t *testing.T) {
	ctx := testContext(&pipeline.Issue{Number: 1, Author: "octocat", Body: "just some words"}, testConfig())

	if err := NewTemplateValidator(&pipeline.Dependencies{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Outcome != pipeline.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %q", ctx.Result.Outcome)
	}
	want := []string{"Description", "Steps to Reproduce", "Expected Behavior"}
	if !reflect.DeepEqual(ctx.Result.MissingSections, want) {
		t.Fatalf("expected all missing sections listed, got %v", ctx.Result.MissingSections)
	}
}

func TestTemplateValidatorAcceptsCompleteBody(t *testing.T) {
	ctx := testContext(&pipeline.Issue{Number: 1, Author: "octocat", Body: validBody}, testConfig())

	if err := NewTemplateValidator(&pipeline.Dependencies{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Terminal() {
		t.Fatalf("complete body must not produce an outcome, got %q", ctx.Result.Outcome)
	}
}

func TestTemplateValidatorNoopWhenTerminal(t *testing.T) {
	ctx := testContext(&pipeline.Issue{Number: 1, Author: "octocat", Body: ""}, testConfig())
	ctx.Result.Outcome = pipeline.OutcomeDuplicate

	if err := NewTemplateValidator(&pipeline.Dependencies{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Outcome != pipeline.OutcomeDuplicate {
		t.Fatal("validator must not override an existing outcome")
	}
}

func TestDuplicateDetectorFindsMatch(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeGitHub{openIssues: []*gh.Issue{
		ghIssue(42, "App crashes on login", validBody, created),
		ghIssue(50, "Feature request: dark mode", "### Description\nPlease add a dark theme.", created.Add(time.Hour)),
	}}

	ctx := testContext(&pipeline.Issue{
		Number: 99,
		Title:  "App crashes on login",
		Body:   validBody,
		Author: "octocat",
	}, testConfig())

	detector := &DuplicateDetector{issues: fake}
	if err := detector.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Outcome != pipeline.OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %q", ctx.Result.Outcome)
	}
	if ctx.Result.Duplicate == nil || ctx.Result.Duplicate.Number != 42 {
		t.Fatalf("expected match on #42, got %+v", ctx.Result.Duplicate)
	}
	if len(ctx.OpenIssues) != 2 {
		t.Errorf("expected snapshot of 2 open issues, got %d", len(ctx.OpenIssues))
	}
}

func TestDuplicateDetectorThresholdIsInclusive(t *testing.T) {
	a := similarity.Document{Title: "App crashes on login with error code 500", Body: validBody}
	b := similarity.Document{Title: "App crashes on login with stack trace attached", Body: validBody}
	score := similarity.Score(a, b)
	if score <= 0 || score >= 100 {
		t.Fatalf("test fixture needs a partial score, got %v", score)
	}

	fake := &fakeGitHub{openIssues: []*gh.Issue{
		ghIssue(42, b.Title, b.Body, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
	}}
	cfg := testConfig()
	cfg.Defaults.DuplicateThreshold = score

	ctx := testContext(&pipeline.Issue{Number: 99, Title: a.Title, Body: a.Body, Author: "octocat"}, cfg)
	if err := (&DuplicateDetector{issues: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Outcome != pipeline.OutcomeDuplicate {
		t.Fatalf("score equal to threshold must flag a duplicate, got %q", ctx.Result.Outcome)
	}

	// A hair above the score, and the match must be rejected.
	cfg.Defaults.DuplicateThreshold = score + 0.001
	ctx = testContext(&pipeline.Issue{Number: 99, Title: a.Title, Body: a.Body, Author: "octocat"}, cfg)
	if err := (&DuplicateDetector{issues: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Terminal() {
		t.Fatalf("score below threshold must not flag a duplicate, got %q", ctx.Result.Outcome)
	}
}

func TestDuplicateDetectorEmptyBodyNeverMatches(t *testing.T) {
	fake := &fakeGitHub{openIssues: []*gh.Issue{
		ghIssue(42, "Anything", "", time.Now()),
	}}

	ctx := testContext(&pipeline.Issue{Number: 99, Title: "Anything", Body: "<!-- form comment -->\n   ", Author: "octocat"}, testConfig())
	if err := (&DuplicateDetector{issues: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Terminal() {
		t.Fatalf("empty body must never flag a duplicate, got %q", ctx.Result.Outcome)
	}
	if fake.listCalls != 0 {
		t.Errorf("empty body should not hit the API, got %d calls", fake.listCalls)
	}
}

func TestDuplicateDetectorTieBreaksOnEarliestCreated(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 1, 0)
	fake := &fakeGitHub{openIssues: []*gh.Issue{
		ghIssue(60, "App crashes on login", validBody, late),
		ghIssue(42, "App crashes on login", validBody, early),
	}}

	ctx := testContext(&pipeline.Issue{Number: 99, Title: "App crashes on login", Body: validBody, Author: "octocat"}, testConfig())
	if err := (&DuplicateDetector{issues: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Duplicate == nil || ctx.Result.Duplicate.Number != 42 {
		t.Fatalf("tie must break toward the earliest-created issue, got %+v", ctx.Result.Duplicate)
	}
}

func TestDuplicateDetectorIgnoresSelf(t *testing.T) {
	fake := &fakeGitHub{openIssues: []*gh.Issue{
		ghIssue(99, "App crashes on login", validBody, time.Now()),
	}}

	ctx := testContext(&pipeline.Issue{Number: 99, Title: "App crashes on login", Body: validBody, Author: "octocat"}, testConfig())
	if err := (&DuplicateDetector{issues: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Terminal() {
		t.Fatal("an issue must not be flagged as a duplicate of itself")
	}
}

func TestAssignmentResolverPicksLeastRecentlyAssigned(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeGitHub{
		collaborators: []string{"alice", "bob"},
		openIssues: []*gh.Issue{
			ghIssue(10, "Older bug", validBody, created, "alice"),
		},
	}

	ctx := testContext(&pipeline.Issue{Number: 99, Title: "New bug", Body: validBody, Author: "octocat"}, testConfig())
	resolver := &AssignmentResolver{collaborators: fake}
	if err := resolver.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Outcome != pipeline.OutcomeAssigned {
		t.Fatalf("expected assigned outcome, got %q", ctx.Result.Outcome)
	}
	if !reflect.DeepEqual(ctx.Result.Assignees, []string{"bob"}) {
		t.Fatalf("alice was assigned most recently, so bob must be picked, got %v", ctx.Result.Assignees)
	}
}

func TestAssignmentResolverNoAvailableCollaborator(t *testing.T) {
	fake := &fakeGitHub{
		collaborators: []string{"alice", "dependabot[bot]"},
		unassignable:  map[string]bool{"alice": true},
	}

	ctx := testContext(&pipeline.Issue{Number: 99, Body: validBody, Author: "octocat"}, testConfig())
	if err := (&AssignmentResolver{collaborators: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.Result.Outcome != pipeline.OutcomeUnassigned {
		t.Fatalf("expected unassigned outcome, got %q", ctx.Result.Outcome)
	}
	if len(ctx.Result.Assignees) != 0 {
		t.Errorf("unexpected assignees: %v", ctx.Result.Assignees)
	}
}

func TestAssignmentResolverReusesSnapshot(t *testing.T) {
	fake := &fakeGitHub{collaborators: []string{"alice"}}

	ctx := testContext(&pipeline.Issue{Number: 99, Body: validBody, Author: "octocat"}, testConfig())
	ctx.OpenIssues = []pipeline.Issue{}

	if err := (&AssignmentResolver{collaborators: fake}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.listCalls != 0 {
		t.Errorf("resolver must reuse the detector's snapshot, got %d list calls", fake.listCalls)
	}
	if ctx.Result.Outcome != pipeline.OutcomeAssigned {
		t.Fatalf("expected assigned outcome, got %q", ctx.Result.Outcome)
	}
}

func TestAssignmentResolverNoopWhenTerminal(t *testing.T) {
	ctx := testContext(&pipeline.Issue{Number: 99, Body: validBody, Author: "octocat"}, testConfig())
	ctx.Result.Outcome = pipeline.OutcomeInvalid

	if err := (&AssignmentResolver{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Result.Outcome != pipeline.OutcomeInvalid {
		t.Fatal("resolver must not override an existing outcome")
	}
}
