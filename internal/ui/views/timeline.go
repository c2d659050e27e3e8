package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/ui/components"
)

const (
	sparkWidth    = 70
	rollingWindow = 3
)

// TimelineView displays commits per day across the window
type TimelineView struct {
	root *tview.Flex
	text *tview.TextView
}

// NewTimelineView creates a new timeline view
func NewTimelineView() *TimelineView {
	v := &TimelineView{}
	v.setup()
	return v
}

func (v *TimelineView) setup() {
	v.text = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	v.root = padded(v.text)
}

// Refresh updates the view with new data
func (v *TimelineView) Refresh(sum *stats.Summary) {
	timeline := sum.GetTimeline(rollingWindow)

	if len(timeline.Values) == 0 {
		v.text.SetText("[yellow]No commit data available[-]")
		return
	}

	total, peakIdx := 0, 0
	for i, val := range timeline.Values {
		total += val
		if val > timeline.Values[peakIdx] {
			peakIdx = i
		}
	}
	avg := float64(total) / float64(len(timeline.Values))

	var days strings.Builder
	for i, label := range timeline.Labels {
		fmt.Fprintf(&days, "  %s  [cyan]%3d[-]  %.2f\n", label, timeline.Values[i], timeline.RollingAvg[i])
	}

	content := fmt.Sprintf(`[::b]Commits Over Time[-:-:-]

%s

  [::b]Daily Activity[-:-:-]

  [green]%s[-]

  %s to %s

%s

  [::b]Statistics[-:-:-]

  Days:               [cyan]%d[-]
  Total Commits:      [cyan]%d[-]
  Average per Day:    [cyan]%.2f[-]
  Peak Day:           [green]%d[-] commits on [green]%s[-]
  Trend:              %s

%s

  [::b]Per day (count, %d-day average)[-:-:-]

%s`,
		rule,
		components.RenderSparklineWithWidth(timeline.Values, sparkWidth),
		timeline.Labels[0], timeline.Labels[len(timeline.Labels)-1],
		rule,
		len(timeline.Values),
		total,
		avg,
		timeline.Values[peakIdx], timeline.Labels[peakIdx],
		getTrendIndicator(timeline.RollingAvg),
		rule,
		rollingWindow,
		days.String(),
	)

	v.text.SetText(content)
}

// getTrendIndicator compares the rolling average of the second half of the
// window with the first half
func getTrendIndicator(rollingAvg []float64) string {
	if len(rollingAvg) < 4 {
		return "[gray]Insufficient data[-]"
	}

	half := len(rollingAvg) / 2
	var prevSum, recentSum float64
	for _, v := range rollingAvg[:half] {
		prevSum += v
	}
	for _, v := range rollingAvg[len(rollingAvg)-half:] {
		recentSum += v
	}

	prevAvg := prevSum / float64(half)
	pctChange := 0.0
	if prevAvg > 0 {
		pctChange = (recentSum/float64(half) - prevAvg) / prevAvg * 100
	}

	if pctChange > 10 {
		return fmt.Sprintf("[green]↑ +%.1f%%[-] (increasing)", pctChange)
	} else if pctChange < -10 {
		return fmt.Sprintf("[red]↓ %.1f%%[-] (decreasing)", pctChange)
	}
	return fmt.Sprintf("[yellow]→ %.1f%%[-] (stable)", pctChange)
}

// Text returns the rendered content
func (v *TimelineView) Text() string {
	return v.text.GetText(true)
}

// Root returns the root primitive
func (v *TimelineView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *TimelineView) GetFocusable() tview.Primitive {
	return v.text
}
