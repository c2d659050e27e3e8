package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/audi70r/commitdigest/internal/archive"
	"github.com/audi70r/commitdigest/internal/classify"
	"github.com/audi70r/commitdigest/internal/logger"
	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/store"
)

// Format tells the pipeline which extractor a page needs
type Format int

const (
	FormatHTML Format = iota
	FormatText
)

// Page is raw archive text handed over by a fetcher or a file loader
type Page struct {
	Label  string
	Text   string
	Format Format
	// Date stamps items that appear before any date heading
	Date time.Time
}

// PageStats holds the diagnostics of a single page
type PageStats struct {
	Label    string
	Extract  archive.ScanProgress
	Classify classify.Stats
}

// Result is everything one collection run produced
type Result struct {
	Summary  *stats.Summary
	Store    *store.Store
	Pages    []PageStats
	Extract  archive.ScanProgress
	Classify classify.Stats
	Failed   []string
}

// Options configures a Pipeline
type Options struct {
	Classifier classify.Options
	Stats      stats.Options
	Location   *time.Location
	// OnPage is called after each page with the number of pages done so far
	OnPage func(done, total int, ps PageStats)
}

// Pipeline runs extraction, classification, storage and aggregation in sequence
type Pipeline struct {
	classifier *classify.Classifier
	aggregator *stats.Aggregator
	location   *time.Location
	onPage     func(done, total int, ps PageStats)
}

// New creates a pipeline. Bad classifier options are reported here.
func New(opts Options) (*Pipeline, error) {
	c, err := classify.New(opts.Classifier)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if opts.Stats.ProjectOrder != "" {
		if err := opts.Stats.ProjectOrder.Validate(); err != nil {
			return nil, err
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	if opts.Stats.Timezone == nil {
		opts.Stats.Timezone = loc
	}

	return &Pipeline{
		classifier: c,
		aggregator: stats.NewAggregator(opts.Stats),
		location:   loc,
		onPage:     opts.OnPage,
	}, nil
}

// Run processes pages and aggregates them over the window ending at now.
// The window is validated before any page is parsed. Every run builds a
// fresh store, so a Pipeline can be reused sequentially.
func (p *Pipeline) Run(pages []Page, w store.Window, now time.Time) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Store: store.New()}

	for i, page := range pages {
		ps := p.runPage(page, res)
		res.Pages = append(res.Pages, ps)
		res.Extract.Matched += ps.Extract.Matched
		res.Extract.Missed += ps.Extract.Missed
		res.Extract.Furniture += ps.Extract.Furniture
		res.Extract.BadDates += ps.Extract.BadDates
		res.Classify.Add(ps.Classify)
		if p.onPage != nil {
			p.onPage(i+1, len(pages), ps)
		}
	}

	sum, err := p.aggregator.Aggregate(res.Store, w, now)
	if err != nil {
		return nil, err
	}
	res.Summary = sum

	logger.WithFields(logrus.Fields{
		"pages":   len(pages),
		"matched": res.Classify.Matched,
		"total":   res.Classify.Total,
		"window":  w.Days,
		"commits": sum.TotalCommits,
	}).Info("collection run finished")

	return res, nil
}

func (p *Pipeline) runPage(page Page, res *Result) PageStats {
	ext := archive.NewExtractor(page.Date, p.location)

	var updates []archive.RawUpdate
	if page.Format == FormatText {
		updates = ext.ExtractText(page.Text)
	} else {
		updates = ext.Extract(page.Text)
	}

	cr := p.classifier.ClassifyAll(updates)
	for _, c := range cr.Commits {
		res.Store.Insert(c)
	}
	res.Failed = append(res.Failed, cr.Failed...)

	ps := PageStats{Label: page.Label, Extract: ext.Progress(), Classify: cr.Stats}

	log := logger.WithField("page", page.Label)
	log.Infof("matched %d/%d commit messages (%d translations)",
		cr.Stats.Matched, cr.Stats.Total, cr.Stats.Translations)
	if ps.Extract.Missed > 0 {
		log.Debugf("%d list items without a subject", ps.Extract.Missed)
	}
	for _, subject := range cr.Failed {
		log.WithField("subject", subject).Debug("unparsed subject")
	}

	return ps
}

// PageFormat guesses the format from a file name or URL
func PageFormat(name string) Format {
	if strings.HasSuffix(strings.ToLower(name), ".txt") {
		return FormatText
	}
	return FormatHTML
}
