package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audi70r/commitdigest/internal/classify"
	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/store"
)

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

const weekPage = `<ul>
<li><strong>October 17, 2026</strong>
<ul>
<li><a href="msg1.html">[gtk+] Fix a crash in the file chooser</a>&nbsp;&nbsp;alice</li>
<li><a href="msg2.html">[gtk+] Updated French translation</a>&nbsp;&nbsp;alice</li>
<li><a href="msg3.html">[glib/wip/foo] Add GApplication</a>&nbsp;&nbsp;bob</li>
<li><a href="msg4.html">gtk+ is broken again</a>&nbsp;&nbsp;mallory</li>
</ul>
</li>
</ul>`

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(Options{
		Classifier: classify.DefaultOptions(),
		Stats:      stats.DefaultOptions(),
	})
	require.NoError(t, err)
	return p
}

func TestRunEndToEnd(t *testing.T) {
	p := newPipeline(t)

	res, err := p.Run([]Page{{Label: "2026-October", Text: weekPage}},
		store.Window{Days: 7, Translations: store.TranslationsExclude}, now)
	require.NoError(t, err)

	sum := res.Summary
	require.Len(t, sum.Authors, 2)
	assert.Equal(t, "alice", sum.Authors[0].Author)
	assert.Equal(t, 1, sum.Authors[0].Commits)
	assert.Equal(t, []string{"gtk+"}, sum.Authors[0].Projects)
	assert.Equal(t, "bob", sum.Authors[1].Author)
	assert.Equal(t, 1, sum.Authors[1].Commits)
	assert.Equal(t, []string{"glib"}, sum.Authors[1].Projects)

	require.Len(t, sum.Projects, 2)
	byName := map[string]*stats.ProjectActivity{}
	for _, proj := range sum.Projects {
		byName[proj.Name(classify.DefaultBranch)] = proj
	}
	require.Contains(t, byName, "gtk+")
	assert.Equal(t, 1, byName["gtk+"].Commits)
	assert.Equal(t, []string{"alice"}, byName["gtk+"].Authors)
	require.Contains(t, byName, "glib (wip/foo)")
	assert.Equal(t, "glib", byName["glib (wip/foo)"].Project)
	assert.Equal(t, "wip/foo", byName["glib (wip/foo)"].Branch)
	assert.Equal(t, []string{"bob"}, byName["glib (wip/foo)"].Authors)

	// the malformed subject is excluded but still counted
	assert.Equal(t, []string{"gtk+ is broken again"}, res.Failed)
	assert.Equal(t, classify.Stats{Matched: 3, Total: 4, Translations: 1}, res.Classify)
	assert.Equal(t, 3, res.Store.Len())
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "2026-October", res.Pages[0].Label)
	assert.Equal(t, 4, res.Pages[0].Extract.Matched)
}

func TestRunAggregatesPages(t *testing.T) {
	p := newPipeline(t)
	text := "October 18, 2026\n[nautilus] Fix thumbnails  carol\n[nautilus] Updated Czech translation  dan\n"

	res, err := p.Run([]Page{
		{Label: "2026-October", Text: weekPage},
		{Label: "digest.txt", Text: text, Format: FormatText},
	}, store.Window{Days: 7, Translations: store.TranslationsInclude}, now)
	require.NoError(t, err)

	assert.Equal(t, classify.Stats{Matched: 5, Total: 6, Translations: 2}, res.Classify)
	assert.Equal(t, 5, res.Summary.TotalCommits)
	assert.Equal(t, "nautilus", res.Summary.Projects[0].Project, "most recent project first")
	assert.Len(t, res.Pages, 2)
}

func TestRunRejectsBadWindowBeforeParsing(t *testing.T) {
	p := newPipeline(t)

	res, err := p.Run([]Page{{Text: weekPage}}, store.Window{Days: 7, Translations: "sometimes"}, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidTranslationMode)
	assert.Nil(t, res)
}

func TestRunEmptyInput(t *testing.T) {
	p := newPipeline(t)
	w := store.Window{Days: 7, Translations: store.TranslationsInclude}

	for _, pages := range [][]Page{nil, {{Label: "empty"}}, {{Label: "blank", Text: "   \n"}}} {
		res, err := p.Run(pages, w, now)
		require.NoError(t, err)
		assert.True(t, res.Summary.IsEmpty())
		assert.Empty(t, res.Summary.Authors)
		assert.Empty(t, res.Failed)
	}
}

func TestRunBuildsFreshStore(t *testing.T) {
	p := newPipeline(t)
	w := store.Window{Days: 7, Translations: store.TranslationsInclude}
	pages := []Page{{Text: weekPage}}

	first, err := p.Run(pages, w, now)
	require.NoError(t, err)
	second, err := p.Run(pages, w, now)
	require.NoError(t, err)

	assert.Equal(t, first.Store.Len(), second.Store.Len())
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRunOldPagesFallOutOfWindow(t *testing.T) {
	p := newPipeline(t)
	old := `<strong>September 1, 2026</strong><ul><li><a href="x">[gtk+] Old</a> alice</li></ul>`

	res, err := p.Run([]Page{{Text: old}}, store.Window{Days: 7, Translations: store.TranslationsInclude}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Store.Len())
	assert.True(t, res.Summary.IsEmpty())
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Classifier: classify.Options{Grammars: []string{"cvs"}}})
	assert.Error(t, err)

	_, err = New(Options{Stats: stats.Options{ProjectOrder: "loudest"}})
	assert.Error(t, err)
}

func TestPageFormat(t *testing.T) {
	assert.Equal(t, FormatText, PageFormat("digest.TXT"))
	assert.Equal(t, FormatHTML, PageFormat("https://mail.gnome.org/archives/commits-list/2026-October/date.html"))
}

func TestRunReportsPages(t *testing.T) {
	var done []int
	var labels []string
	p, err := New(Options{
		Classifier: classify.DefaultOptions(),
		Stats:      stats.DefaultOptions(),
		OnPage: func(n, total int, ps PageStats) {
			assert.Equal(t, 2, total)
			done = append(done, n)
			labels = append(labels, ps.Label)
		},
	})
	require.NoError(t, err)

	_, err = p.Run([]Page{{Label: "a", Text: weekPage}, {Label: "b"}},
		store.Window{Days: 7, Translations: store.TranslationsInclude}, now)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, done)
	assert.Equal(t, []string{"a", "b"}, labels)
}
