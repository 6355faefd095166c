// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-10
// Last Modified: 2026-03-15

package validate

import (
	"reflect"
	"testing"

	"github.com/similigh/simili-triage/internal/core/config"
)

const validBody = `### Description
The app crashes when I try to log in.

### Steps to Reproduce
1. Open the app
2. Log in
3. Observe the crash

### Expected Behavior
The app should not crash.
`

func TestValidateCompleteBody(t *testing.T) {
	report := DefaultTemplate().Validate(validBody)
	if !report.Valid() {
		t.Fatalf("expected valid report, got missing=%v malformed=%v", report.Missing, report.Malformed)
	}
}

func TestValidateListsEveryMissingSection(t *testing.T) {
	report := DefaultTemplate().Validate("### Description\nSomething broke.\n")

	want := []string{"Steps to Reproduce", "Expected Behavior"}
	if !reflect.DeepEqual(report.Missing, want) {
		t.Fatalf("expected missing %v, got %v", want, report.Missing)
	}
	if report.Valid() {
		t.Fatal("expected report to be invalid")
	}
}

func TestValidateEmptyBody(t *testing.T) {
	report := DefaultTemplate().Validate("")

	want := []string{"Description", "Steps to Reproduce", "Expected Behavior"}
	if !reflect.DeepEqual(report.Missing, want) {
		t.Fatalf("expected all required sections missing, got %v", report.Missing)
	}
}

func TestValidatePlaceholderContent(t *testing.T) {
	body := `### Description
_No response_

### Steps to Reproduce
1. Do the thing

### Expected Behavior
It works
`
	report := DefaultTemplate().Validate(body)
	if len(report.Missing) != 0 {
		t.Fatalf("expected no missing sections, got %v", report.Missing)
	}
	if !reflect.DeepEqual(report.Malformed, []string{"Description"}) {
		t.Fatalf("expected Description malformed, got %v", report.Malformed)
	}
}

func TestValidateHeadingCaseInsensitive(t *testing.T) {
	body := `## description
broken

## STEPS TO REPRODUCE
click

## expected behavior
works
`
	report := DefaultTemplate().Validate(body)
	if !report.Valid() {
		t.Fatalf("expected valid report, got missing=%v malformed=%v", report.Missing, report.Malformed)
	}
}

func TestValidateIgnoresHeadingsInsideCodeFences(t *testing.T) {
	body := "### Description\n```\n### Steps to Reproduce\n```\nactual text\n"

	report := DefaultTemplate().Validate(body)
	for _, m := range report.Missing {
		if m == "Description" {
			t.Fatal("Description should be present")
		}
	}
	found := false
	for _, m := range report.Missing {
		if m == "Steps to Reproduce" {
			found = true
		}
	}
	if !found {
		t.Fatal("a heading inside a code fence must not count as a section")
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		sections []config.SectionConfig
		wantErr  bool
	}{
		{name: "empty falls back to default", sections: nil},
		{name: "custom sections", sections: []config.SectionConfig{
			{Name: "Version", Pattern: `v\d+\.\d+`, Required: true},
		}},
		{name: "invalid pattern", sections: []config.SectionConfig{
			{Name: "Version", Pattern: `v(\d`, Required: true},
		}, wantErr: true},
		{name: "empty name", sections: []config.SectionConfig{
			{Name: "  ", Required: true},
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.sections)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePatternConstraint(t *testing.T) {
	tmpl, err := FromConfig([]config.SectionConfig{
		{Name: "Version", Pattern: `v\d+\.\d+`, Required: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	good := tmpl.Validate("### Version\nv1.42\n")
	if !good.Valid() {
		t.Fatalf("expected valid, got malformed=%v", good.Malformed)
	}

	bad := tmpl.Validate("### Version\nlatest\n")
	if !reflect.DeepEqual(bad.Malformed, []string{"Version"}) {
		t.Fatalf("expected Version malformed, got %v", bad.Malformed)
	}
}
