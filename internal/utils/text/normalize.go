// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-10
// Last Modified: 2026-03-10

// Package text provides text normalization helpers for issue bodies.
package text

import (
	"regexp"
	"strings"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	urlRe        = regexp.MustCompile(`http\S+`)
	nonWordRe    = regexp.MustCompile(`\W+`)
)

// Normalize prepares an issue body for similarity comparison.
// It drops blank lines, HTML comments, markdown headings and code-fence
// markers, strips fenced code blocks and URLs, lowercases the result and
// collapses non-word runs into single spaces.
func Normalize(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "<!--") ||
			strings.HasPrefix(line, "###") ||
			strings.HasPrefix(line, "```") {
			continue
		}
		lines = append(lines, line)
	}

	text := strings.ToLower(strings.Join(lines, " "))
	text = fencedCodeRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = nonWordRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokens splits normalized text into words.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut. Used when quoting issue titles in comments.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
