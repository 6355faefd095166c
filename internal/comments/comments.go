// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-11
// Last Modified: 2026-03-16

// Package comments renders the outcome comment posted on an issue.
//
// Each terminal outcome maps to exactly one template. Built-in templates
// are embedded; a directory override lets repositories ship their own
// wording without rebuilding the binary.
package comments

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.md.tmpl
var builtin embed.FS

// Kind identifies an outcome comment template.
type Kind string

const (
	KindInvalid    Kind = "invalid_template"
	KindDuplicate  Kind = "duplicate"
	KindAssigned   Kind = "assigned"
	KindUnassigned Kind = "unassigned"
)

// DuplicateRef points at the best-matching existing issue.
type DuplicateRef struct {
	Number int
	Title  string
	URL    string
	Score  float64
}

// Data is the rendering context for a comment template.
type Data struct {
	Author          string
	IssueNumber     int
	MissingSections []string
	MalformedFields []string
	Duplicate       *DuplicateRef
	Assignees       []string
	RunID           string
}

// Renderer renders outcome comments.
type Renderer struct {
	dir  string
	tmpl map[Kind]*template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"mention": func(logins []string) string {
		mentions := make([]string, 0, len(logins))
		for _, l := range logins {
			mentions = append(mentions, "@"+l)
		}
		return strings.Join(mentions, ", ")
	},
}

// NewRenderer parses the embedded templates and, when dir is non-empty,
// overrides any kind for which dir contains a <kind>.md.tmpl file.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{dir: dir, tmpl: make(map[Kind]*template.Template)}

	for _, kind := range []Kind{KindInvalid, KindDuplicate, KindAssigned, KindUnassigned} {
		name := string(kind) + ".md.tmpl"

		content, err := builtin.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("missing built-in template %s: %w", name, err)
		}

		if dir != "" {
			if override, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
				content = override
			} else if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read template override %s: %w", name, err)
			}
		}

		t, err := template.New(name).Funcs(funcs).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.tmpl[kind] = t
	}

	return r, nil
}

// Render produces the comment body for the given outcome. A hidden
// marker carrying the run id is appended so reprocessed issues can be
// recognized and correlated with logs.
func (r *Renderer) Render(kind Kind, data *Data) (string, error) {
	t, ok := r.tmpl[kind]
	if !ok {
		return "", fmt.Errorf("unknown comment kind: %s", kind)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s comment: %w", kind, err)
	}

	body := strings.TrimSpace(sb.String())
	return body + "\n\n" + Marker(kind, data.RunID) + "\n", nil
}

const markerPrefix = "<!-- simili-triage"

// Marker builds the hidden HTML comment appended to every outcome
// comment.
func Marker(kind Kind, runID string) string {
	return fmt.Sprintf("%s outcome:%s run:%s -->", markerPrefix, kind, runID)
}

// HasMarker reports whether a comment body was produced by this tool.
func HasMarker(body string) bool {
	return strings.Contains(body, markerPrefix)
}
