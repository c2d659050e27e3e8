package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const progressWidth = 50

// ProgressView shows how many archive pages a run has parsed
type ProgressView struct {
	root   *tview.Flex
	status *tview.TextView
	bar    *tview.TextView
	counts *tview.TextView
}

// NewProgressView creates a new progress view
func NewProgressView() *ProgressView {
	p := &ProgressView{
		status: centeredText(),
		bar:    centeredText(),
		counts: centeredText(),
	}

	title := centeredText().SetText("[::b]Collecting Commits[-:-:-]")
	title.SetBackgroundColor(tcell.ColorDarkBlue)

	column := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(p.status, 2, 0, false).
		AddItem(p.bar, 4, 0, false).
		AddItem(p.counts, 1, 0, false).
		AddItem(nil, 0, 1, false)

	p.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(column, progressWidth+10, 0, false).
			AddItem(nil, 0, 1, false), 0, 1, false)

	p.Refresh(0, 0, 0)
	return p
}

func centeredText() *tview.TextView {
	return tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
}

// Refresh redraws the bar and counters. total is zero while pages are still
// being fetched.
func (p *ProgressView) Refresh(done, total, commits int) {
	if total <= 0 {
		p.bar.SetText("[gray]" + strings.Repeat("░", progressWidth) + "[-]")
		p.counts.SetText("[gray]waiting for pages[-]")
		return
	}

	filled := min(done*progressWidth/total, progressWidth)
	p.bar.SetText(fmt.Sprintf("[green]%s[-]%s\n%d%%",
		strings.Repeat("█", filled), strings.Repeat("░", progressWidth-filled), done*100/total))
	p.counts.SetText(fmt.Sprintf("[yellow]%d[-] / [yellow]%d[-] pages parsed, [green]%d[-] commits", done, total, commits))
}

// SetStatus updates the status message
func (p *ProgressView) SetStatus(status string) {
	p.status.SetText(tview.Escape(status))
}

// Reset clears the view before a new run
func (p *ProgressView) Reset() {
	p.Refresh(0, 0, 0)
	p.SetStatus("")
}

// Text returns the rendered counter line
func (p *ProgressView) Text() string {
	return p.counts.GetText(true)
}

// Root returns the root primitive
func (p *ProgressView) Root() tview.Primitive {
	return p.root
}
