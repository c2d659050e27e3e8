package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Match "[gtk+/master] Fix a crash" or "[glib/wip/gapplication] ..."
	bracketedRegex = regexp.MustCompile(`^\s*\[([^\]\s]+)\]\s*(.*)$`)
	// Match "gtk+ r21606 - in trunk: . gtk"
	legacyRegex = regexp.MustCompile(`^([\w+.\-]+) r(\S+) - (.*)$`)
	// Match the repository location inside a legacy subject
	legacyPathRegex = regexp.MustCompile(`(?:^|[\s/])(trunk|branches/[^\s:/]+|tags/[^\s:/]+)`)
)

// Grammar names accepted by the classifier
const (
	GrammarBracketed = "bracketed"
	GrammarLegacy    = "legacy"
)

// Parsed is the structured form of a subject line
type Parsed struct {
	Project     string
	Branch      string
	Revision    int
	HasRevision bool
	Message     string
}

// Grammar splits a subject line into its parts.
// ok is false when the subject does not have the grammar's shape; err is set
// when it does but a field fails to parse.
type Grammar interface {
	Name() string
	Parse(subject, defaultBranch string) (p Parsed, ok bool, err error)
}

// GrammarByName returns a built-in grammar
func GrammarByName(name string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case GrammarBracketed:
		return Bracketed{}, nil
	case GrammarLegacy:
		return Legacy{}, nil
	}
	return nil, fmt.Errorf("unknown subject grammar %q", name)
}

// Bracketed parses "[project/branch] message" subjects
type Bracketed struct{}

// Name returns the grammar name
func (Bracketed) Name() string { return GrammarBracketed }

// Parse implements Grammar
func (Bracketed) Parse(subject, defaultBranch string) (Parsed, bool, error) {
	m := bracketedRegex.FindStringSubmatch(subject)
	if m == nil {
		return Parsed{}, false, nil
	}

	project, branch, found := strings.Cut(m[1], "/")
	if project == "" {
		return Parsed{}, false, nil
	}
	if !found || branch == "" {
		branch = defaultBranch
	}

	return Parsed{
		Project: project,
		Branch:  branch,
		Message: strings.TrimSpace(m[2]),
	}, true, nil
}

// Legacy parses SVN style "project rREV - in trunk: paths" subjects
type Legacy struct{}

// Name returns the grammar name
func (Legacy) Name() string { return GrammarLegacy }

// Parse implements Grammar
func (Legacy) Parse(subject, defaultBranch string) (Parsed, bool, error) {
	m := legacyRegex.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return Parsed{}, false, nil
	}

	loc := legacyPathRegex.FindStringSubmatch(m[3])
	if loc == nil {
		return Parsed{}, false, nil
	}

	rev, err := strconv.Atoi(m[2])
	if err != nil {
		return Parsed{}, true, fmt.Errorf("revision %q: %w", m[2], err)
	}

	branch := defaultBranch
	switch {
	case strings.HasPrefix(loc[1], "branches/"):
		branch = strings.TrimPrefix(loc[1], "branches/")
	case strings.HasPrefix(loc[1], "tags/"):
		branch = loc[1]
	}

	message := strings.TrimSpace(m[3])
	message = strings.TrimPrefix(message, "in ")

	return Parsed{
		Project:     m[1],
		Branch:      branch,
		Revision:    rev,
		HasRevision: true,
		Message:     message,
	}, true, nil
}
