package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/stats"
)

const (
	barWidth   = 50
	barSymbol  = "#"
	maxFailed  = 20
	rollingAvg = 3
)

// Options controls what a report shows
type Options struct {
	MaxAuthors    int
	MaxProjects   int
	DefaultBranch string
	ShowFailed    bool
}

var heading = color.New(color.FgCyan, color.Bold).SprintFunc()

// Text writes the plain-text digest of a run
func Text(w io.Writer, res *digest.Result, opts Options) error {
	var b strings.Builder

	writeParsing(&b, res)

	sum := res.Summary
	fmt.Fprintf(&b, "\n%s\n", heading(windowTitle(sum)))

	if sum.IsEmpty() {
		b.WriteString("No commits in the selected window\n")
	} else {
		writeAuthors(&b, sum, opts)
		writeProjects(&b, sum, opts)
		writeNewProjects(&b, sum)
		writeExtents(&b, sum)
		writeActivity(&b, sum)
	}

	if opts.ShowFailed && len(res.Failed) > 0 {
		writeFailed(&b, res.Failed)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func windowTitle(sum *stats.Summary) string {
	return fmt.Sprintf("LAST %d DAYS (%s commits since %s, %s)",
		sum.Window.Days,
		humanize.Comma(int64(sum.TotalCommits)),
		sum.Since.Format("2006-01-02 15:04"),
		sum.Window.Translations)
}

func writeParsing(b *strings.Builder, res *digest.Result) {
	b.WriteString(heading("PARSING PAGES:") + "\n")
	for _, p := range res.Pages {
		fmt.Fprintf(b, "  %s: matched %d/%d commit messages\n",
			p.Label, p.Classify.Matched, p.Classify.Total)
	}
	fmt.Fprintf(b, "Matched %d/%d commit messages, %d translations\n",
		res.Classify.Matched, res.Classify.Total, res.Classify.Translations)
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	return tbl
}

func writeAuthors(b *strings.Builder, sum *stats.Summary, opts Options) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Author", "Commits", "Projects", "Last commit"})
	for i, a := range sum.TopAuthors(opts.MaxAuthors) {
		tbl.AppendRow(table.Row{
			i + 1,
			a.Author,
			a.Commits,
			strings.Join(a.Projects, ", "),
			humanize.RelTime(a.LastCommit, sum.Now, "ago", "from now"),
		})
	}
	tbl.AppendFooter(table.Row{"", "Total", len(sum.Authors), "", ""})

	fmt.Fprintf(b, "\n%s\n%s\n", heading("AUTHORS:"), tbl.Render())
}

func writeProjects(b *strings.Builder, sum *stats.Summary, opts Options) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Project", "Commits", "Authors", "Last commit"})
	for i, p := range sum.TopProjects(opts.MaxProjects) {
		tbl.AppendRow(table.Row{
			i + 1,
			p.Name(opts.DefaultBranch),
			p.Commits,
			strings.Join(p.Authors, ", "),
			humanize.RelTime(p.LastCommit, sum.Now, "ago", "from now"),
		})
	}
	tbl.AppendFooter(table.Row{"", "Total", len(sum.Projects), "", ""})

	fmt.Fprintf(b, "\n%s\n%s\n", heading("ACTIVE PROJECTS:"), tbl.Render())
}

func writeNewProjects(b *strings.Builder, sum *stats.Summary) {
	if len(sum.NewProjects) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", heading("NEW PROJECTS:"))
	for _, np := range sum.NewProjects {
		fmt.Fprintf(b, "  %s by %s\n", np.Project, np.Author)
	}
}

func writeExtents(b *strings.Builder, sum *stats.Summary) {
	if len(sum.Extents) == 0 {
		return
	}
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Project", "Max revision", "Min revision"})
	for _, e := range sum.Extents {
		tbl.AppendRow(table.Row{e.Project, e.Max, e.Min})
	}
	fmt.Fprintf(b, "\n%s\n%s\n", heading("REVISIONS:"), tbl.Render())
}

// writeActivity draws one horizontal bar per day scaled to the busiest day
func writeActivity(b *strings.Builder, sum *stats.Summary) {
	tl := sum.GetTimeline(rollingAvg)
	if len(tl.Values) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s\n", heading("ACTIVITY:"))
	for i, label := range tl.Labels {
		fmt.Fprintf(b, "  %s %-*s %d\n", label, barWidth, Bar(tl.Values[i], maxInt(tl.Values), barWidth), tl.Values[i])
	}
}

// Bar scales value against max into at most width symbols. Any non-zero
// value gets at least one symbol.
func Bar(value, max, width int) string {
	if value <= 0 || max <= 0 || width <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat(barSymbol, n)
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func writeFailed(b *strings.Builder, failed []string) {
	fmt.Fprintf(b, "\n%s\n", heading(fmt.Sprintf("UNPARSED SUBJECTS (%d):", len(failed))))
	for i, s := range failed {
		if i == maxFailed {
			fmt.Fprintf(b, "  ... and %d more\n", len(failed)-maxFailed)
			break
		}
		fmt.Fprintf(b, "  %s\n", s)
	}
}
