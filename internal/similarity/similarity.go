// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-10
// Last Modified: 2026-03-15

// Package similarity scores how alike two issues are on a 0-100 scale.
//
// The score is a weighted blend of a token-set ratio over the titles and
// a partial ratio over the normalized bodies. Titles carry most of the
// weight; a low title score short-circuits to 0 so unrelated issues with
// boilerplate-heavy bodies never clear the duplicate threshold.
package similarity

import (
	"sort"
	"strings"

	"github.com/similigh/simili-triage/internal/utils/text"
)

const (
	// titleWeight and bodyWeight blend the two partial scores.
	titleWeight = 0.7
	bodyWeight  = 0.3

	// titleGate is the minimum title similarity before the body is even
	// considered. Below it the combined score is 0.
	titleGate = 66.0
)

// Document is the comparable view of an issue.
type Document struct {
	Title string
	Body  string
}

// Score returns the combined similarity of two documents in [0, 100].
// It is symmetric: Score(a, b) == Score(b, a).
func Score(a, b Document) float64 {
	titleScore := TokenSetRatio(normalizeTitle(a.Title), normalizeTitle(b.Title))
	if titleScore < titleGate {
		return 0
	}

	bodyScore := PartialRatio(text.Normalize(a.Body), text.Normalize(b.Body))

	return titleWeight*titleScore + bodyWeight*bodyScore
}

// Ratio is the indel-normalized similarity of two strings in [0, 100].
// It equals 100 * (1 - indel_distance / (len(a) + len(b))), computed via
// the longest common subsequence over runes.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 200 * float64(lcsLength(ra, rb)) / float64(total)
}

// TokenSetRatio compares the unique-token sets of two strings. Shared
// tokens are factored out so word order and repetition do not matter:
// "crash on login" and "login crash" score 100.
func TokenSetRatio(a, b string) float64 {
	tokensA := uniqueSorted(text.Tokens(a))
	tokensB := uniqueSorted(text.Tokens(b))
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	inter, diffA, diffB := setDecompose(tokensA, tokensB)

	sect := strings.Join(inter, " ")
	combinedA := joinNonEmpty(sect, strings.Join(diffA, " "))
	combinedB := joinNonEmpty(sect, strings.Join(diffB, " "))

	// If one side is fully contained in the other, the sect-vs-combined
	// comparison below yields 100 already.
	best := Ratio(sect, combinedA)
	if r := Ratio(sect, combinedB); r > best {
		best = r
	}
	if r := Ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// PartialRatio slides the shorter string across the longer one and
// returns the best window ratio. Symmetric by construction since the
// shorter string is always the needle.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		r := Ratio(string(shorter), string(longer[i:i+len(shorter)]))
		if r > best {
			best = r
		}
		if best == 100 {
			break
		}
	}
	return best
}

// normalizeTitle lowercases and collapses punctuation so token
// comparison is not thrown off by formatting.
func normalizeTitle(title string) string {
	return text.Normalize(title)
}

func lcsLength(a, b []rune) int {
	// Single-row DP over the shorter dimension.
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := 1; i <= len(b); i++ {
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func uniqueSorted(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// setDecompose splits two sorted unique token slices into intersection
// and the two set differences.
func setDecompose(a, b []string) (inter, diffA, diffB []string) {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, t := range a {
		inA[t] = struct{}{}
	}

	for _, t := range a {
		if _, ok := inB[t]; ok {
			inter = append(inter, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for _, t := range b {
		if _, ok := inA[t]; !ok {
			diffB = append(diffB, t)
		}
	}
	return inter, diffA, diffB
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
