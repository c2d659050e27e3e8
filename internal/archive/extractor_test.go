package archive

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datePage = `<html><body>
<ul>
<li><a href="/">Home</a></li>
<li><a href="/news">News</a></li>
</ul>
<ul>
<li><strong>October 14, 2026</strong>
<ul>
<li><a name="01439" href="msg01439.html">[gtk+] Fix a crash in the file chooser</a>&nbsp;&nbsp;alice</li>
<li><a name="01440" href="msg01440.html">[gtk+] Updated French translation</a>&nbsp;&nbsp;alice</li>
</ul>
</li>
<li><strong>October 15, 2026</strong>
<ul>
<li><a name="01441" href="msg01441.html">[glib/wip/foo] Add GApplication</a>&nbsp;&nbsp;bob</li>
<li><a name="01442" href="msg01442.html"></a>&nbsp;&nbsp;nobody</li>
<li><a href="thread.html">Thread</a>&nbsp;&nbsp;[ index ]</li>
</ul>
</li>
</ul>
</body></html>`

func day(d int) time.Time {
	return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractDateIndex(t *testing.T) {
	e := NewExtractor(time.Time{}, time.UTC)
	updates := e.Extract(datePage)

	require.Len(t, updates, 3)

	assert.Equal(t, "[gtk+] Fix a crash in the file chooser", updates[0].Subject)
	assert.Equal(t, "alice", updates[0].Author)
	assert.Equal(t, day(14), updates[0].Timestamp)

	assert.Equal(t, "[gtk+] Updated French translation", updates[1].Subject)
	assert.Equal(t, day(14).Add(time.Microsecond), updates[1].Timestamp)

	assert.Equal(t, "[glib/wip/foo] Add GApplication", updates[2].Subject)
	assert.Equal(t, "bob", updates[2].Author)
	assert.Equal(t, day(15), updates[2].Timestamp, "offset restarts with a new date context")

	matched, total := e.Stats()
	assert.Equal(t, 3, matched)
	assert.Equal(t, 4, total, "the empty subject counts as a miss")
	assert.Equal(t, 3, e.Progress().Furniture, "Home and News without trailing text are furniture too")
}

func TestExtractPreservesPageOrderWhenSorted(t *testing.T) {
	page := `<strong>October 14, 2026</strong><ul>
<li><a href="1">[a] one</a> x</li>
<li><a href="2">[a] two</a> x</li>
<li><a href="3">[a] three</a> x</li>
<li><a href="4">[a] four</a> x</li>
</ul>`
	updates := NewExtractor(time.Time{}, time.UTC).Extract(page)
	require.Len(t, updates, 4)

	shuffled := []RawUpdate{updates[2], updates[0], updates[3], updates[1]}
	sort.Slice(shuffled, func(i, j int) bool {
		return shuffled[i].Timestamp.Before(shuffled[j].Timestamp)
	})
	assert.Equal(t, updates, shuffled)
}

func TestExtractFallbackDate(t *testing.T) {
	fallback := day(3)
	updates := NewExtractor(fallback, time.UTC).Extract(`<li><a href="x">[gtk+] Fix</a> alice</li>`)
	require.Len(t, updates, 1)
	assert.Equal(t, fallback, updates[0].Timestamp)
}

func TestExtractMalformedMarkup(t *testing.T) {
	testCases := []struct {
		name   string
		markup string
		want   int
		total  int
	}{
		{"unmatched closing tags", `</a></li></strong><li><a href="x">[gtk+] Fix</a> alice</li>`, 1, 1},
		{"unclosed list item", `<li><a href="x">[gtk+] Fix</a> alice<li><a href="y">[glib] Add</a> bob`, 2, 2},
		{"truncated anchor", `<li><a href="x">[gtk+] Fix`, 0, 0},
		{"garbage", `<<<>>><li <a href=>`, 0, 0},
		{"named anchor is not a link", `<li><a name="x">[gtk+] Fix</a> alice</li>`, 0, 1},
		{"nested markup inside anchor", `<li><a href="x">[gtk+] Fix <em>the</em> crash</a> alice</li>`, 1, 1},
		{"anchor outside list item", `<a href="x">[gtk+] Fix</a> alice`, 0, 0},
		{"subject without author", `<li><a href="x">[gtk+] Fix a crash</a></li><li><a href="y">[glib] Add</a> bob</li>`, 1, 2},
		{"unclosed item without author", `<li><a href="x">[gtk+] Fix</a><li><a href="y">[glib] Add</a> bob</li>`, 1, 2},
		{"anchor left open at end of item", `<li><a href="x">[gtk+] Fix</li>`, 0, 1},
		{"navigation without trailing text", `<li><a href="/">Home</a></li>`, 0, 0},
		{"empty input", ``, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				e := NewExtractor(day(1), time.UTC)
				updates := e.Extract(tc.markup)
				assert.Len(t, updates, tc.want)

				matched, total := e.Stats()
				assert.Equal(t, tc.want, matched)
				assert.Equal(t, tc.total, total)
			})
		})
	}
}

func TestExtractWeekdayHeadings(t *testing.T) {
	page := `<strong>Sunday, 14 October 2026</strong><ul>
<li><a href="1">[gtk+] Fix</a> alice</li>
</ul>
<strong>Thursday, October 15, 2026</strong><ul>
<li><a href="2">[glib] Add</a> bob</li>
</ul>`

	e := NewExtractor(day(1), time.UTC)
	updates := e.Extract(page)
	require.Len(t, updates, 2)
	assert.Equal(t, day(14), updates[0].Timestamp)
	assert.Equal(t, day(15), updates[1].Timestamp)
	assert.Zero(t, e.Progress().BadDates)
}

func TestExtractKeepsDateOnBoldNonDate(t *testing.T) {
	page := `<strong>October 14, 2026</strong><ul>
<li><a href="1">[gtk+] Fix</a> alice</li>
</ul>
<strong>1234</strong>
<ul>
<li><a href="2">[glib] Add</a> bob</li>
</ul>`

	e := NewExtractor(day(1), time.UTC)
	updates := e.Extract(page)
	require.Len(t, updates, 2)
	assert.Equal(t, day(14).Add(time.Microsecond), updates[1].Timestamp)
	assert.Equal(t, 1, e.Progress().BadDates)
}

func TestExtractNestedAnchorText(t *testing.T) {
	updates := NewExtractor(day(1), time.UTC).Extract(`<li><a href="x">[gtk+] Fix <em>the</em> crash</a> alice</li>`)
	require.Len(t, updates, 1)
	assert.Equal(t, "[gtk+] Fix the crash", updates[0].Subject)
	assert.Equal(t, "alice", updates[0].Author)
}

func TestExtractOnlyFirstTrailingTextIsAuthor(t *testing.T) {
	updates := NewExtractor(day(1), time.UTC).Extract(`<li><a href="x">[gtk+] Fix</a> alice <em>(2 replies)</em></li>`)
	require.Len(t, updates, 1)
	assert.Equal(t, "alice", updates[0].Author)
}

func TestExtractText(t *testing.T) {
	text := `October 14, 2026
[gtk+/master] Fix a crash	alice
[gtk+] Updated French translation  Alice Smith

October 15, 2026
[glib/wip/foo] Add GApplication  bob
[nautilus] no author here
this line means nothing
`
	e := NewExtractor(time.Time{}, time.UTC)
	updates := e.ExtractText(text)

	require.Len(t, updates, 3)
	assert.Equal(t, RawUpdate{Subject: "[gtk+/master] Fix a crash", Author: "alice", Timestamp: day(14)}, updates[0])
	assert.Equal(t, "Alice Smith", updates[1].Author)
	assert.Equal(t, day(14).Add(time.Microsecond), updates[1].Timestamp)
	assert.Equal(t, day(15), updates[2].Timestamp)

	matched, total := e.Stats()
	assert.Equal(t, 3, matched)
	assert.Equal(t, 5, total)
}

func TestExtractorAccumulatesAcrossCalls(t *testing.T) {
	e := NewExtractor(day(1), time.UTC)
	first := e.Extract(`<li><a href="x">[a] one</a> x</li>`)
	second := e.Extract(`<li><a href="y">[b] two</a> y</li>`)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Len(t, e.Updates(), 2)
	assert.True(t, e.Updates()[1].Timestamp.After(e.Updates()[0].Timestamp))
}
