package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidTranslationMode is returned for an unknown translation mode
	ErrInvalidTranslationMode = errors.New("invalid translation mode")
	// ErrInvalidWindow is returned for a window shorter than one day
	ErrInvalidWindow = errors.New("invalid window")
)

// Commit is a single classified commit notification
type Commit struct {
	Project       string
	Branch        string
	Author        string
	Revision      int
	HasRevision   bool
	Message       string
	Timestamp     time.Time
	IsTranslation bool
}

// TranslationMode selects how translation-only commits are counted
type TranslationMode string

const (
	TranslationsInclude TranslationMode = "include"
	TranslationsExclude TranslationMode = "exclude"
	TranslationsOnly    TranslationMode = "only"
)

// ParseTranslationMode converts a user supplied value into a TranslationMode
func ParseTranslationMode(s string) (TranslationMode, error) {
	mode := TranslationMode(strings.ToLower(strings.TrimSpace(s)))
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

// Validate reports whether the mode is one of the known values
func (m TranslationMode) Validate() error {
	switch m {
	case TranslationsInclude, TranslationsExclude, TranslationsOnly:
		return nil
	}
	return fmt.Errorf("%w: %q (want include, exclude or only)", ErrInvalidTranslationMode, string(m))
}

// Accepts reports whether a commit passes the translation filter
func (m TranslationMode) Accepts(c *Commit) bool {
	switch m {
	case TranslationsExclude:
		return !c.IsTranslation
	case TranslationsOnly:
		return c.IsTranslation
	default:
		return true
	}
}

// Window is the trailing period statistics are computed over
type Window struct {
	Days         int
	Translations TranslationMode
}

// Validate checks the window before any parsing starts
func (w Window) Validate() error {
	if w.Days < 1 {
		return fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidWindow, w.Days)
	}
	return w.Translations.Validate()
}

// Filter binds the window to a fixed reference time
func (w Window) Filter(now time.Time) Filter {
	return Filter{
		Since: now.AddDate(0, 0, -w.Days),
		Mode:  w.Translations,
	}
}

// Filter selects commits by timestamp and translation flag.
// The lower bound is inclusive: a commit stamped exactly at Since matches.
type Filter struct {
	Since time.Time
	Mode  TranslationMode
}

// Match reports whether the commit passes the filter
func (f Filter) Match(c *Commit) bool {
	if c.Timestamp.Before(f.Since) {
		return false
	}
	return f.Mode.Accepts(c)
}

// GroupBy names the column used for grouping queries
type GroupBy int

const (
	ByAuthor GroupBy = iota
	ByProject
	ByProjectBranch
)

// Key returns the grouping key of a commit
func (g GroupBy) Key(c *Commit) string {
	switch g {
	case ByAuthor:
		return c.Author
	case ByProjectBranch:
		return ProjectKey(c.Project, c.Branch)
	default:
		return c.Project
	}
}

// ProjectKey joins a project and branch into a single grouping key
func ProjectKey(project, branch string) string {
	return project + "/" + branch
}

// Group is the accumulator produced by a grouping query
type Group struct {
	Key        string
	Project    string
	Branch     string
	Count      int
	LastCommit time.Time
	MinRev     int
	MaxRev     int
	HasRev     bool
	MinRevBy   string
	firstSeen  int
}

// FirstSeen returns the store position of the first commit in the group
func (g *Group) FirstSeen() int {
	return g.firstSeen
}
