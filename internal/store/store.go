package store

import (
	"sort"
)

// Store is an append-only in-memory relation of commits.
// It is rebuilt for every collection run and never persisted.
type Store struct {
	commits []Commit
}

// New creates an empty commit store
func New() *Store {
	return &Store{}
}

// Insert appends a commit. Duplicate rows are legal.
func (s *Store) Insert(c Commit) {
	s.commits = append(s.commits, c)
}

// Len returns the number of stored commits
func (s *Store) Len() int {
	return len(s.commits)
}

// All returns a copy of every stored commit in insertion order
func (s *Store) All() []Commit {
	out := make([]Commit, len(s.commits))
	copy(out, s.commits)
	return out
}

// Select returns the commits matching the filter in insertion order
func (s *Store) Select(f Filter) []Commit {
	var out []Commit
	for i := range s.commits {
		if f.Match(&s.commits[i]) {
			out = append(out, s.commits[i])
		}
	}
	return out
}

// Count returns the number of commits matching the filter
func (s *Store) Count(f Filter) int {
	n := 0
	for i := range s.commits {
		if f.Match(&s.commits[i]) {
			n++
		}
	}
	return n
}

// Group accumulates the filtered commits per key in a single pass.
// Groups are returned in discovery order.
func (s *Store) Group(f Filter, by GroupBy) []*Group {
	index := make(map[string]*Group)
	var groups []*Group

	for i := range s.commits {
		c := &s.commits[i]
		if !f.Match(c) {
			continue
		}

		key := by.Key(c)
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key, firstSeen: i}
			if by != ByAuthor {
				g.Project = c.Project
			}
			if by == ByProjectBranch {
				g.Branch = c.Branch
			}
			index[key] = g
			groups = append(groups, g)
		}

		g.Count++
		if c.Timestamp.After(g.LastCommit) {
			g.LastCommit = c.Timestamp
		}
		if c.HasRevision {
			if !g.HasRev || c.Revision < g.MinRev {
				g.MinRev = c.Revision
				g.MinRevBy = c.Author
			}
			if !g.HasRev || c.Revision > g.MaxRev {
				g.MaxRev = c.Revision
			}
			g.HasRev = true
		}
	}

	return groups
}

// CrossReference returns the sorted distinct set of related entities for one
// group key: projects for an author, authors for a project.
func (s *Store) CrossReference(by GroupBy, key string, f Filter) []string {
	seen := make(map[string]bool)
	var related []string

	for i := range s.commits {
		c := &s.commits[i]
		if !f.Match(c) || by.Key(c) != key {
			continue
		}

		var other string
		if by == ByAuthor {
			other = c.Project
		} else {
			other = c.Author
		}
		if !seen[other] {
			seen[other] = true
			related = append(related, other)
		}
	}

	sort.Strings(related)
	return related
}
