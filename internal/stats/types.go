package stats

import (
	"fmt"
	"time"

	"github.com/audi70r/commitdigest/internal/store"
)

// DefaultNewThreshold is the revision below which a project counts as new
const DefaultNewThreshold = 5

// ProjectOrder selects the project ranking
type ProjectOrder string

const (
	// OrderRecent ranks by last commit time, then commit count
	OrderRecent ProjectOrder = "recent"
	// OrderCount re-sorts the recency ranking by commit count
	OrderCount ProjectOrder = "count"
)

// Validate reports whether the order is known
func (o ProjectOrder) Validate() error {
	switch o {
	case OrderRecent, OrderCount:
		return nil
	}
	return fmt.Errorf("unknown project order %q (want recent or count)", string(o))
}

// Summary holds the aggregated activity of one run
type Summary struct {
	Now          time.Time
	Since        time.Time
	Window       store.Window
	TotalCommits int

	Authors     []*AuthorActivity
	Projects    []*ProjectActivity
	NewProjects []NewProject
	Extents     []RevisionExtent

	// Time-based data
	DailyActivity map[string]int // "2026-10-14" -> count
}

// AuthorActivity is one row of the author ranking
type AuthorActivity struct {
	Author     string
	Commits    int
	LastCommit time.Time
	Projects   []string
}

// ProjectActivity is one row of the project ranking
type ProjectActivity struct {
	Project    string
	Branch     string
	Commits    int
	LastCommit time.Time
	Authors    []string
}

// Name returns the project with its branch when it is not the default one
func (p *ProjectActivity) Name(defaultBranch string) string {
	if p.Branch == "" || p.Branch == defaultBranch {
		return p.Project
	}
	return p.Project + " (" + p.Branch + ")"
}

// NewProject is a project whose earliest revision is below the threshold
type NewProject struct {
	Project     string
	Author      string
	MinRevision int
}

// RevisionExtent is the revision range seen for a project
type RevisionExtent struct {
	Project string
	Max     int
	Min     int
}

// TimelineData holds time-series commit data
type TimelineData struct {
	Period     string // "day"
	Labels     []string
	Values     []int
	RollingAvg []float64
}
