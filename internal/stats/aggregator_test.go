package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audi70r/commitdigest/internal/store"
)

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func week(mode store.TranslationMode) store.Window {
	return store.Window{Days: 7, Translations: mode}
}

func commit(project, branch, author string, age time.Duration) store.Commit {
	return store.Commit{Project: project, Branch: branch, Author: author, Timestamp: now.Add(-age), Message: "work"}
}

func TestAggregateAuthorRanking(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "zed", time.Hour))
	s.Insert(commit("glib", "master", "amy", 2*time.Hour))
	s.Insert(commit("gtk+", "master", "bob", 3*time.Hour))
	s.Insert(commit("gtk+", "master", "bob", 4*time.Hour))
	s.Insert(commit("evince", "master", "bob", 5*time.Hour))
	s.Insert(commit("old", "master", "carl", 30*24*time.Hour))

	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	require.Len(t, sum.Authors, 3, "authors without commits in the window never appear")
	assert.Equal(t, "bob", sum.Authors[0].Author)
	assert.Equal(t, 3, sum.Authors[0].Commits)
	assert.Equal(t, []string{"evince", "gtk+"}, sum.Authors[0].Projects)

	// tie on one commit each is broken alphabetically
	assert.Equal(t, "amy", sum.Authors[1].Author)
	assert.Equal(t, "zed", sum.Authors[2].Author)
	assert.Equal(t, 5, sum.TotalCommits)
}

func TestAggregateProjectRanking(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "alice", 5*time.Hour))
	s.Insert(commit("gtk+", "master", "bob", 6*time.Hour))
	s.Insert(commit("gtk+", "master", "alice", 7*time.Hour))
	s.Insert(commit("glib", "master", "carol", time.Hour))
	s.Insert(commit("glib", "wip/foo", "bob", 2*time.Hour))
	s.Insert(commit("atk", "master", "dan", 2*time.Hour))

	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	var names []string
	for _, p := range sum.Projects {
		names = append(names, p.Name("master"))
	}
	assert.Equal(t, []string{"glib", "atk", "glib (wip/foo)", "gtk+"}, names)
	assert.Equal(t, []string{"alice", "bob"}, sum.Projects[3].Authors)
	assert.Equal(t, 3, sum.Projects[3].Commits)
	assert.Equal(t, now.Add(-5*time.Hour), sum.Projects[3].LastCommit)

	opts := DefaultOptions()
	opts.ProjectOrder = OrderCount
	sum, err = NewAggregator(opts).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	names = nil
	for _, p := range sum.Projects {
		names = append(names, p.Name("master"))
	}
	assert.Equal(t, []string{"gtk+", "glib", "atk", "glib (wip/foo)"}, names, "count order keeps recency as the secondary key")
}

func TestAggregateNewProjects(t *testing.T) {
	s := store.New()
	s.Insert(store.Commit{Project: "fresh", Author: "ann", Revision: 1, HasRevision: true, Timestamp: now})
	s.Insert(store.Commit{Project: "mature", Author: "ben", Revision: 10, HasRevision: true, Timestamp: now})
	s.Insert(store.Commit{Project: "mature", Author: "ben", Revision: 12, HasRevision: true, Timestamp: now})
	s.Insert(store.Commit{Project: "young", Author: "cat", Revision: 4, HasRevision: true, Timestamp: now})
	s.Insert(store.Commit{Project: "young", Author: "dee", Revision: 2, HasRevision: true, Timestamp: now})
	s.Insert(store.Commit{Project: "git", Author: "eve", Timestamp: now})

	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	assert.Equal(t, []NewProject{
		{Project: "fresh", Author: "ann", MinRevision: 1},
		{Project: "young", Author: "dee", MinRevision: 2},
	}, sum.NewProjects)

	assert.Equal(t, []RevisionExtent{
		{Project: "fresh", Max: 1, Min: 1},
		{Project: "mature", Max: 12, Min: 10},
		{Project: "young", Max: 4, Min: 2},
	}, sum.Extents)

	opts := DefaultOptions()
	opts.NewThreshold = 2
	sum, err = NewAggregator(opts).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)
	require.Len(t, sum.NewProjects, 1)
	assert.Equal(t, "fresh", sum.NewProjects[0].Project)
}

func TestAggregateTranslationModes(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "alice", time.Hour))
	tr := commit("gtk+", "master", "alice", 2*time.Hour)
	tr.IsTranslation = true
	s.Insert(tr)
	tr2 := commit("glib", "master", "translator", 3*time.Hour)
	tr2.IsTranslation = true
	s.Insert(tr2)

	agg := NewAggregator(DefaultOptions())

	include, err := agg.Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)
	exclude, err := agg.Aggregate(s, week(store.TranslationsExclude), now)
	require.NoError(t, err)
	only, err := agg.Aggregate(s, week(store.TranslationsOnly), now)
	require.NoError(t, err)

	assert.Equal(t, include.TotalCommits, exclude.TotalCommits+only.TotalCommits)
	require.Len(t, exclude.Authors, 1)
	assert.Equal(t, 1, exclude.Authors[0].Commits)
	require.Len(t, only.Authors, 2)
}

func TestAggregateIsIdempotent(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "alice", time.Hour))
	s.Insert(commit("glib", "wip/foo", "bob", time.Hour))
	s.Insert(commit("glib", "wip/foo", "alice", 2*time.Hour))

	agg := NewAggregator(DefaultOptions())
	first, err := agg.Aggregate(s, week(store.TranslationsExclude), now)
	require.NoError(t, err)
	second, err := agg.Aggregate(s, week(store.TranslationsExclude), now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateRejectsBadWindow(t *testing.T) {
	agg := NewAggregator(DefaultOptions())

	_, err := agg.Aggregate(store.New(), store.Window{Days: 7, Translations: "maybe"}, now)
	assert.ErrorIs(t, err, store.ErrInvalidTranslationMode)

	_, err = agg.Aggregate(store.New(), store.Window{Days: 0, Translations: store.TranslationsInclude}, now)
	assert.ErrorIs(t, err, store.ErrInvalidWindow)

	_, err = NewAggregator(Options{ProjectOrder: "loudest"}).Aggregate(store.New(), week(store.TranslationsInclude), now)
	assert.Error(t, err)
}

func TestAggregateEmptyStore(t *testing.T) {
	sum, err := NewAggregator(DefaultOptions()).Aggregate(store.New(), week(store.TranslationsInclude), now)
	require.NoError(t, err)
	assert.True(t, sum.IsEmpty())
	assert.Empty(t, sum.Authors)
	assert.Empty(t, sum.Projects)
	assert.Empty(t, sum.NewProjects)
	assert.Empty(t, sum.GetTimeline(7).Values)
}

func TestTopLimits(t *testing.T) {
	s := store.New()
	for _, a := range []string{"a", "b", "c"} {
		s.Insert(commit(a, "master", a, time.Hour))
	}
	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	assert.Len(t, sum.TopAuthors(2), 2)
	assert.Len(t, sum.TopAuthors(0), 3)
	assert.Len(t, sum.TopProjects(10), 3)
}

func TestGetTimeline(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "alice", 0))
	s.Insert(commit("gtk+", "master", "alice", 0))
	s.Insert(commit("gtk+", "master", "alice", 72*time.Hour))

	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	tl := sum.GetTimeline(2)
	assert.Equal(t, []string{"2026-10-16", "2026-10-17", "2026-10-18", "2026-10-19"}, tl.Labels)
	assert.Equal(t, []int{1, 0, 0, 2}, tl.Values)
	assert.Equal(t, []float64{1, 0.5, 0, 1}, tl.RollingAvg)
}

func TestDisplaySorting(t *testing.T) {
	s := store.New()
	s.Insert(commit("gtk+", "master", "zed", time.Hour))
	s.Insert(commit("glib", "master", "amy", 2*time.Hour))
	s.Insert(commit("gtk+", "master", "bob", 3*time.Hour))
	s.Insert(commit("evince", "master", "bob", 4*time.Hour))

	sum, err := NewAggregator(DefaultOptions()).Aggregate(s, week(store.TranslationsInclude), now)
	require.NoError(t, err)

	authorNames := func(as []*AuthorActivity) []string {
		var out []string
		for _, a := range as {
			out = append(out, a.Author)
		}
		return out
	}

	tests := []struct {
		sortBy    string
		ascending bool
		want      []string
	}{
		{sortBy: "", want: []string{"bob", "amy", "zed"}},
		{sortBy: "name", ascending: true, want: []string{"amy", "bob", "zed"}},
		{sortBy: "name", want: []string{"zed", "bob", "amy"}},
		{sortBy: "commits", want: []string{"bob", "amy", "zed"}},
		{sortBy: "last", want: []string{"zed", "amy", "bob"}},
		{sortBy: "projects", want: []string{"bob", "amy", "zed"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			assert.Equal(t, tt.want, authorNames(sum.GetLeaderboard(tt.sortBy, tt.ascending)))
		})
	}

	// the ranking itself is left untouched
	assert.Equal(t, []string{"bob", "amy", "zed"}, authorNames(sum.Authors))

	projects := sum.GetProjects("authors", false)
	assert.Equal(t, "gtk+", projects[0].Project)
	projects = sum.GetProjects("name", true)
	assert.Equal(t, "evince", projects[0].Project)
}
