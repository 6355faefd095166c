// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-10
// Last Modified: 2026-03-15

// Package validate checks issue bodies against a structural template.
//
// A template is an ordered list of sections identified by markdown
// headings. Validation fails closed: every missing required section is
// reported, not just the first one found.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/similigh/simili-triage/internal/core/config"
)

// Section is one expected part of an issue body.
type Section struct {
	// Name is the heading text, matched case-insensitively.
	Name string

	// Pattern optionally constrains the section content.
	Pattern *regexp.Regexp

	// Required marks the section as mandatory.
	Required bool
}

// Template is the expected structural shape of an issue body.
type Template struct {
	Sections []Section
}

// Report is the validation result.
type Report struct {
	// Missing lists required sections whose heading was not found.
	Missing []string

	// Malformed lists sections that are present but empty, contain only
	// placeholder text, or fail their content pattern.
	Malformed []string
}

// Valid reports whether the body satisfied the template.
func (r Report) Valid() bool {
	return len(r.Missing) == 0 && len(r.Malformed) == 0
}

// placeholders are form leftovers that do not count as content.
var placeholders = map[string]struct{}{
	"_no response_":   {},
	"no response":     {},
	"n/a":             {},
	"tbd":             {},
	"...":             {},
	"(describe it)":   {},
	"(paste it here)": {},
}

// DefaultTemplate is the built-in bug-report shape, used when the
// config does not define sections.
func DefaultTemplate() Template {
	return Template{Sections: []Section{
		{Name: "Description", Required: true},
		{Name: "Steps to Reproduce", Required: true},
		{Name: "Expected Behavior", Required: true},
		{Name: "Screenshots", Required: false},
	}}
}

// FromConfig builds a template from config sections, falling back to
// the default template when none are configured.
func FromConfig(sections []config.SectionConfig) (Template, error) {
	if len(sections) == 0 {
		return DefaultTemplate(), nil
	}

	tmpl := Template{Sections: make([]Section, 0, len(sections))}
	for _, sc := range sections {
		if strings.TrimSpace(sc.Name) == "" {
			return Template{}, fmt.Errorf("template section with empty name")
		}
		s := Section{Name: sc.Name, Required: sc.Required}
		if sc.Pattern != "" {
			re, err := regexp.Compile(sc.Pattern)
			if err != nil {
				return Template{}, fmt.Errorf("invalid pattern for section %q: %w", sc.Name, err)
			}
			s.Pattern = re
		}
		tmpl.Sections = append(tmpl.Sections, s)
	}
	return tmpl, nil
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)

// Validate checks a raw issue body against the template.
func (t Template) Validate(body string) Report {
	found := parseSections(body)

	var report Report
	for _, section := range t.Sections {
		content, ok := found[strings.ToLower(section.Name)]
		if !ok {
			if section.Required {
				report.Missing = append(report.Missing, section.Name)
			}
			continue
		}

		if section.Required && !hasContent(content) {
			report.Malformed = append(report.Malformed, section.Name)
			continue
		}
		if section.Pattern != nil && !section.Pattern.MatchString(content) {
			report.Malformed = append(report.Malformed, section.Name)
		}
	}
	return report
}

// parseSections splits a markdown body into heading -> content. Content
// runs until the next heading. Headings are lowercased for lookup.
func parseSections(body string) map[string]string {
	sections := make(map[string]string)
	var current string
	var buf []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = nil
	}

	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			buf = append(buf, line)
			continue
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				flush()
				current = strings.ToLower(m[2])
				continue
			}
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

// hasContent reports whether section content is real text rather than a
// placeholder left over from the issue form.
func hasContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	_, isPlaceholder := placeholders[strings.ToLower(trimmed)]
	return !isPlaceholder
}
