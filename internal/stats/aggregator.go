package stats

import (
	"sort"
	"time"

	"github.com/audi70r/commitdigest/internal/store"
)

const dayLayout = "2006-01-02"

// Options configures an Aggregator
type Options struct {
	NewThreshold int
	ProjectOrder ProjectOrder
	Timezone     *time.Location
}

// DefaultOptions returns the recency ranking and a threshold of 5
func DefaultOptions() Options {
	return Options{
		NewThreshold: DefaultNewThreshold,
		ProjectOrder: OrderRecent,
		Timezone:     time.UTC,
	}
}

// Aggregator builds a Summary from a commit store
type Aggregator struct {
	opts Options
}

// NewAggregator creates a new statistics aggregator
func NewAggregator(opts Options) *Aggregator {
	if opts.NewThreshold <= 0 {
		opts.NewThreshold = DefaultNewThreshold
	}
	if opts.ProjectOrder == "" {
		opts.ProjectOrder = OrderRecent
	}
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	return &Aggregator{opts: opts}
}

// Aggregate ranks authors and projects over the trailing window ending at now.
// now is read once by the caller so the whole pass filters consistently.
func (a *Aggregator) Aggregate(s *store.Store, w store.Window, now time.Time) (*Summary, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := a.opts.ProjectOrder.Validate(); err != nil {
		return nil, err
	}

	f := w.Filter(now)
	sum := &Summary{
		Now:           now,
		Since:         f.Since,
		Window:        w,
		TotalCommits:  s.Count(f),
		DailyActivity: make(map[string]int),
	}

	sum.Authors = a.rankAuthors(s, f)
	sum.Projects = a.rankProjects(s, f)
	sum.NewProjects = a.newProjects(s, f)
	sum.Extents = revisionExtents(s, f)

	for _, c := range s.Select(f) {
		sum.DailyActivity[c.Timestamp.In(a.opts.Timezone).Format(dayLayout)]++
	}

	return sum, nil
}

// rankAuthors orders authors by commit count, ties alphabetical, then attaches
// the projects each one touched
func (a *Aggregator) rankAuthors(s *store.Store, f store.Filter) []*AuthorActivity {
	groups := s.Group(f, store.ByAuthor)

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})

	authors := make([]*AuthorActivity, 0, len(groups))
	for _, g := range groups {
		authors = append(authors, &AuthorActivity{
			Author:     g.Key,
			Commits:    g.Count,
			LastCommit: g.LastCommit,
			Projects:   s.CrossReference(store.ByAuthor, g.Key, f),
		})
	}
	return authors
}

// rankProjects orders (project, branch) groups by last commit time, then
// count, then key. OrderCount re-sorts that list stably by count.
func (a *Aggregator) rankProjects(s *store.Store, f store.Filter) []*ProjectActivity {
	groups := s.Group(f, store.ByProjectBranch)

	sort.SliceStable(groups, func(i, j int) bool {
		gi, gj := groups[i], groups[j]
		if !gi.LastCommit.Equal(gj.LastCommit) {
			return gi.LastCommit.After(gj.LastCommit)
		}
		if gi.Count != gj.Count {
			return gi.Count > gj.Count
		}
		return gi.Key < gj.Key
	})

	if a.opts.ProjectOrder == OrderCount {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Count > groups[j].Count
		})
	}

	projects := make([]*ProjectActivity, 0, len(groups))
	for _, g := range groups {
		projects = append(projects, &ProjectActivity{
			Project:    g.Project,
			Branch:     g.Branch,
			Commits:    g.Count,
			LastCommit: g.LastCommit,
			Authors:    s.CrossReference(store.ByProjectBranch, g.Key, f),
		})
	}
	return projects
}

// newProjects returns projects whose lowest revision is below the threshold
func (a *Aggregator) newProjects(s *store.Store, f store.Filter) []NewProject {
	var out []NewProject
	for _, g := range s.Group(f, store.ByProject) {
		if !g.HasRev || g.MinRev >= a.opts.NewThreshold {
			continue
		}
		out = append(out, NewProject{
			Project:     g.Project,
			Author:      g.MinRevBy,
			MinRevision: g.MinRev,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Project < out[j].Project
	})
	return out
}

func revisionExtents(s *store.Store, f store.Filter) []RevisionExtent {
	var out []RevisionExtent
	for _, g := range s.Group(f, store.ByProject) {
		if !g.HasRev {
			continue
		}
		out = append(out, RevisionExtent{Project: g.Project, Max: g.MaxRev, Min: g.MinRev})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Project < out[j].Project
	})
	return out
}

// TopAuthors returns at most limit authors; limit <= 0 returns all
func (s *Summary) TopAuthors(limit int) []*AuthorActivity {
	if limit > 0 && limit < len(s.Authors) {
		return s.Authors[:limit]
	}
	return s.Authors
}

// TopProjects returns at most limit projects; limit <= 0 returns all
func (s *Summary) TopProjects(limit int) []*ProjectActivity {
	if limit > 0 && limit < len(s.Projects) {
		return s.Projects[:limit]
	}
	return s.Projects
}

// IsEmpty reports whether no commit fell inside the window
func (s *Summary) IsEmpty() bool {
	return s.TotalCommits == 0
}

// GetTimeline returns daily commit counts over the window with a rolling average
func (s *Summary) GetTimeline(windowDays int) *TimelineData {
	if len(s.DailyActivity) == 0 {
		return &TimelineData{Period: "day"}
	}

	// Get sorted dates
	dates := make([]string, 0, len(s.DailyActivity))
	for d := range s.DailyActivity {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	startDate, _ := time.Parse(dayLayout, dates[0])
	endDate, _ := time.Parse(dayLayout, dates[len(dates)-1])

	// Fill in all dates in range
	var labels []string
	var values []int
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		labels = append(labels, key)
		values = append(values, s.DailyActivity[key])
	}

	if windowDays < 1 {
		windowDays = 1
	}
	rollingAvg := make([]float64, len(values))
	for i := range values {
		start := i - windowDays + 1
		if start < 0 {
			start = 0
		}
		sum := 0
		for j := start; j <= i; j++ {
			sum += values[j]
		}
		rollingAvg[i] = float64(sum) / float64(i-start+1)
	}

	return &TimelineData{
		Period:     "day",
		Labels:     labels,
		Values:     values,
		RollingAvg: rollingAvg,
	}
}

// GetLeaderboard returns a copy of the author ranking re-sorted for display.
// Unknown sortBy values keep the ranking order.
func (s *Summary) GetLeaderboard(sortBy string, ascending bool) []*AuthorActivity {
	authors := make([]*AuthorActivity, len(s.Authors))
	copy(authors, s.Authors)

	var less func(a, b *AuthorActivity) bool
	switch sortBy {
	case "name":
		less = func(a, b *AuthorActivity) bool { return a.Author < b.Author }
	case "commits":
		less = func(a, b *AuthorActivity) bool { return a.Commits < b.Commits }
	case "projects":
		less = func(a, b *AuthorActivity) bool { return len(a.Projects) < len(b.Projects) }
	case "last":
		less = func(a, b *AuthorActivity) bool { return a.LastCommit.Before(b.LastCommit) }
	default:
		return authors
	}

	sort.SliceStable(authors, func(i, j int) bool {
		if ascending {
			return less(authors[i], authors[j])
		}
		return less(authors[j], authors[i])
	})
	return authors
}

// GetProjects returns a copy of the project ranking re-sorted for display.
// Unknown sortBy values keep the ranking order.
func (s *Summary) GetProjects(sortBy string, ascending bool) []*ProjectActivity {
	projects := make([]*ProjectActivity, len(s.Projects))
	copy(projects, s.Projects)

	var less func(a, b *ProjectActivity) bool
	switch sortBy {
	case "name":
		less = func(a, b *ProjectActivity) bool {
			return store.ProjectKey(a.Project, a.Branch) < store.ProjectKey(b.Project, b.Branch)
		}
	case "commits":
		less = func(a, b *ProjectActivity) bool { return a.Commits < b.Commits }
	case "authors":
		less = func(a, b *ProjectActivity) bool { return len(a.Authors) < len(b.Authors) }
	case "last":
		less = func(a, b *ProjectActivity) bool { return a.LastCommit.Before(b.LastCommit) }
	default:
		return projects
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if ascending {
			return less(projects[i], projects[j])
		}
		return less(projects[j], projects[i])
	})
	return projects
}
