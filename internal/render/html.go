package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/stats"
)

const (
	chartHeight   = "420px"
	echartsScript = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
)

type chart interface {
	Render(w io.Writer) error
}

type htmlRow struct {
	Rank     int
	Name     string
	Commits  int
	Related  string
	LastSeen string
}

type htmlPage struct {
	Title       string
	Script      string
	Window      string
	Parsing     string
	Authors     []htmlRow
	Projects    []htmlRow
	NewProjects []stats.NewProject
	Failed      []string
	Charts      []template.HTML
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
.echart-box { margin-bottom: 2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Window}}</p>
<p>{{.Parsing}}</p>
{{range .Charts}}{{.}}
{{end}}
<h2>Authors</h2>
<table>
<tr><th>#</th><th>Author</th><th>Commits</th><th>Projects</th><th>Last commit</th></tr>
{{range .Authors}}<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td>{{.Commits}}</td><td>{{.Related}}</td><td>{{.LastSeen}}</td></tr>
{{end}}</table>
<h2>Active projects</h2>
<table>
<tr><th>#</th><th>Project</th><th>Commits</th><th>Authors</th><th>Last commit</th></tr>
{{range .Projects}}<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td>{{.Commits}}</td><td>{{.Related}}</td><td>{{.LastSeen}}</td></tr>
{{end}}</table>
{{if .NewProjects}}<h2>New projects</h2>
<ul>
{{range .NewProjects}}<li>{{.Project}} by {{.Author}}</li>
{{end}}</ul>
{{end}}{{if .Failed}}<h2>Unparsed subjects</h2>
<ul>
{{range .Failed}}<li>{{.}}</li>
{{end}}</ul>
{{end}}</body>
</html>
`))

// HTML writes a standalone report page with bar charts of the top authors
// and projects and a daily activity line
func HTML(w io.Writer, res *digest.Result, opts Options) error {
	sum := res.Summary
	page := htmlPage{
		Title:  "Commit digest",
		Script: echartsScript,
		Window: windowTitle(sum),
		Parsing: fmt.Sprintf("Matched %d/%d commit messages, %d translations",
			res.Classify.Matched, res.Classify.Total, res.Classify.Translations),
		NewProjects: sum.NewProjects,
	}

	for i, a := range sum.TopAuthors(opts.MaxAuthors) {
		page.Authors = append(page.Authors, htmlRow{
			Rank:     i + 1,
			Name:     a.Author,
			Commits:  a.Commits,
			Related:  strings.Join(a.Projects, ", "),
			LastSeen: humanize.RelTime(a.LastCommit, sum.Now, "ago", "from now"),
		})
	}
	for i, p := range sum.TopProjects(opts.MaxProjects) {
		page.Projects = append(page.Projects, htmlRow{
			Rank:     i + 1,
			Name:     p.Name(opts.DefaultBranch),
			Commits:  p.Commits,
			Related:  strings.Join(p.Authors, ", "),
			LastSeen: humanize.RelTime(p.LastCommit, sum.Now, "ago", "from now"),
		})
	}
	if opts.ShowFailed {
		page.Failed = res.Failed
	}

	if !sum.IsEmpty() {
		for _, c := range []chart{
			authorsChart(page.Authors),
			projectsChart(page.Projects),
			activityChart(sum.GetTimeline(rollingAvg)),
		} {
			fragment, err := chartFragment(c)
			if err != nil {
				return err
			}
			page.Charts = append(page.Charts, fragment)
		}
	}

	if err := reportTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func rankingChart(title string, rows []htmlRow) *charts.Bar {
	labels := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, r := range rows {
		labels[i] = r.Name
		data[i] = opts.BarData{Value: r.Commits}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
	)
	bar.SetXAxis(labels).AddSeries("Commits", data)
	return bar
}

func authorsChart(rows []htmlRow) *charts.Bar {
	return rankingChart("Top authors", rows)
}

func projectsChart(rows []htmlRow) *charts.Bar {
	return rankingChart("Active projects", rows)
}

func activityChart(tl *stats.TimelineData) *charts.Line {
	values := make([]opts.LineData, len(tl.Values))
	for i, v := range tl.Values {
		values[i] = opts.LineData{Value: v}
	}
	avg := make([]opts.LineData, len(tl.RollingAvg))
	for i, v := range tl.RollingAvg {
		avg[i] = opts.LineData{Value: fmt.Sprintf("%.2f", v)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Daily activity"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	line.SetXAxis(tl.Labels).
		AddSeries("Commits", values).
		AddSeries(fmt.Sprintf("%d-day average", rollingAvg), avg)
	return line
}

// chartFragment renders a chart and keeps only its container and script so
// several charts can share one page
func chartFragment(c chart) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	out := buf.String()

	start := strings.Index(out, `<div class="container">`)
	end := strings.Index(out, `</body>`)
	if start == -1 || end == -1 || end < start {
		return template.HTML(out), nil
	}

	content := strings.ReplaceAll(out[start:end], `class="container"`, `class="echart-box"`)
	return template.HTML(content), nil
}
