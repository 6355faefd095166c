// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-11
// Last Modified: 2026-03-15

// Package assign picks assignees for an issue from the available
// collaborators.
//
// Selection is deterministic round-robin: collaborators are ordered by
// when they were last observed being assigned (never-assigned first),
// with an alphabetical tie-break. The "last assigned" signal is derived
// from the open-issue snapshot taken at run start, so no external state
// store is needed.
package assign

import (
	"sort"
	"time"
)

// Candidate is an available collaborator.
type Candidate struct {
	// Login is the GitHub username.
	Login string

	// LastAssigned is the most recent time this collaborator was seen
	// assigned to an issue. The zero value means never.
	LastAssigned time.Time
}

// Pick returns up to n logins in round-robin order. It returns nil when
// no candidate is available.
func Pick(candidates []Candidate, n int) []string {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].LastAssigned.Equal(ordered[j].LastAssigned) {
			return ordered[i].LastAssigned.Before(ordered[j].LastAssigned)
		}
		return ordered[i].Login < ordered[j].Login
	})

	if n > len(ordered) {
		n = len(ordered)
	}
	logins := make([]string, 0, n)
	for _, c := range ordered[:n] {
		logins = append(logins, c.Login)
	}
	return logins
}

// LastAssignedIndex builds the Login -> LastAssigned map from observed
// assignments. For each assignee the latest observation wins.
type LastAssignedIndex map[string]time.Time

// Observe records that login was assigned at the given time.
func (idx LastAssignedIndex) Observe(login string, at time.Time) {
	if prev, ok := idx[login]; !ok || at.After(prev) {
		idx[login] = at
	}
}

// Candidates converts available logins into ordered-pickable candidates
// using the observed assignment times.
func (idx LastAssignedIndex) Candidates(logins []string) []Candidate {
	out := make([]Candidate, 0, len(logins))
	for _, login := range logins {
		out = append(out, Candidate{Login: login, LastAssigned: idx[login]})
	}
	return out
}
