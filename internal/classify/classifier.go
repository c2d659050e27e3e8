package classify

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/audi70r/commitdigest/internal/archive"
	"github.com/audi70r/commitdigest/internal/store"
)

const (
	// DefaultBranch is used when a subject names no branch
	DefaultBranch = "master"
	// DefaultTranslationPattern flags localization-only commit messages
	DefaultTranslationPattern = `(?i)\b(translations?|translated|languages?|linguas)\b`
)

// errNoGrammar marks a subject that no grammar recognised
var errNoGrammar = errors.New("subject matches no known grammar")

// ParseFailure describes a subject that could not be classified
type ParseFailure struct {
	Subject string
	Err     error
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("unparsed subject %q: %v", f.Subject, f.Err)
}

func (f *ParseFailure) Unwrap() error {
	return f.Err
}

// Classified is a subject split into its parts plus the translation flag
type Classified struct {
	Parsed
	Grammar       string
	IsTranslation bool
}

// Options configures a Classifier
type Options struct {
	Grammars           []string
	DefaultBranch      string
	TranslationPattern string
}

// DefaultOptions returns the bracketed grammar first and the legacy grammar as fallback
func DefaultOptions() Options {
	return Options{
		Grammars:           []string{GrammarBracketed, GrammarLegacy},
		DefaultBranch:      DefaultBranch,
		TranslationPattern: DefaultTranslationPattern,
	}
}

// Classifier splits subjects with a prioritised list of grammars
type Classifier struct {
	grammars      []Grammar
	defaultBranch string
	translation   *regexp.Regexp
}

// New creates a classifier from options
func New(opts Options) (*Classifier, error) {
	if len(opts.Grammars) == 0 {
		opts.Grammars = DefaultOptions().Grammars
	}
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = DefaultBranch
	}
	if opts.TranslationPattern == "" {
		opts.TranslationPattern = DefaultTranslationPattern
	}

	c := &Classifier{defaultBranch: opts.DefaultBranch}
	for _, name := range opts.Grammars {
		g, err := GrammarByName(name)
		if err != nil {
			return nil, err
		}
		c.grammars = append(c.grammars, g)
	}

	re, err := regexp.Compile(opts.TranslationPattern)
	if err != nil {
		return nil, fmt.Errorf("translation pattern: %w", err)
	}
	c.translation = re

	return c, nil
}

// IsTranslation reports whether a commit message is localization-only
func (c *Classifier) IsTranslation(message string) bool {
	return c.translation.MatchString(message)
}

// Classify splits a subject line. The first grammar that recognises the
// subject decides the outcome, including a numeric field failure.
func (c *Classifier) Classify(subject string) (Classified, error) {
	for _, g := range c.grammars {
		p, ok, err := g.Parse(subject, c.defaultBranch)
		if !ok {
			continue
		}
		if err != nil {
			return Classified{}, &ParseFailure{Subject: subject, Err: err}
		}
		return Classified{
			Parsed:        p,
			Grammar:       g.Name(),
			IsTranslation: c.IsTranslation(p.Message),
		}, nil
	}
	return Classified{}, &ParseFailure{Subject: subject, Err: errNoGrammar}
}

// Stats counts classification outcomes
type Stats struct {
	Matched      int
	Total        int
	Translations int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Matched += other.Matched
	s.Total += other.Total
	s.Translations += other.Translations
}

// Result is the outcome of classifying a batch of raw updates
type Result struct {
	Commits []store.Commit
	Failed  []string
	Stats   Stats
}

// ClassifyAll turns raw updates into commits. Failures are collected, never returned.
func (c *Classifier) ClassifyAll(updates []archive.RawUpdate) Result {
	var res Result
	for _, u := range updates {
		res.Stats.Total++

		cl, err := c.Classify(u.Subject)
		if err != nil {
			res.Failed = append(res.Failed, u.Subject)
			continue
		}

		res.Stats.Matched++
		if cl.IsTranslation {
			res.Stats.Translations++
		}
		res.Commits = append(res.Commits, store.Commit{
			Project:       cl.Project,
			Branch:        cl.Branch,
			Author:        u.Author,
			Revision:      cl.Revision,
			HasRevision:   cl.HasRevision,
			Message:       cl.Message,
			Timestamp:     u.Timestamp,
			IsTranslation: cl.IsTranslation,
		})
	}
	return res
}
