package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/digest"
)

// DiagnosticsView shows per-page parsing counts and the subjects no grammar
// recognised
type DiagnosticsView struct {
	root   *tview.Flex
	table  *tview.Table
	failed *tview.List
}

// NewDiagnosticsView creates a new diagnostics view
func NewDiagnosticsView() *DiagnosticsView {
	v := &DiagnosticsView{}
	v.setup()
	return v
}

func (v *DiagnosticsView) setup() {
	v.table = tview.NewTable().
		SetFixed(1, 0).
		SetSeparator(' ')
	v.table.SetBorder(true).SetTitle(" Pages ")

	v.failed = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	v.failed.SetBorder(true).SetTitle(" Unparsed subjects ")

	v.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, false).
		AddItem(v.failed, 0, 2, true)
}

// Refresh updates the view with new data
func (v *DiagnosticsView) Refresh(res *digest.Result) {
	v.table.Clear()
	for col, name := range []string{"Page", "Matched", "Items", "No subject", "Furniture", "Bad dates", "Translations"} {
		v.table.SetCell(0, col, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold))
	}

	rows := append([]digest.PageStats{}, res.Pages...)
	rows = append(rows, digest.PageStats{Label: "Total", Extract: res.Extract, Classify: res.Classify})
	for i, ps := range rows {
		row := i + 1
		matchColor := tcell.ColorGreen
		if ps.Classify.Matched < ps.Classify.Total {
			matchColor = tcell.ColorYellow
		}
		v.table.SetCell(row, 0, tview.NewTableCell(ps.Label).SetExpansion(1))
		v.table.SetCell(row, 1, numberCell(ps.Classify.Matched).SetTextColor(matchColor))
		v.table.SetCell(row, 2, numberCell(ps.Classify.Total))
		v.table.SetCell(row, 3, numberCell(ps.Extract.Missed))
		v.table.SetCell(row, 4, numberCell(ps.Extract.Furniture))
		v.table.SetCell(row, 5, numberCell(ps.Extract.BadDates))
		v.table.SetCell(row, 6, numberCell(ps.Classify.Translations))
	}

	v.failed.Clear()
	for _, s := range res.Failed {
		v.failed.AddItem(tview.Escape(s), "", 0, nil)
	}
	v.failed.SetTitle(fmt.Sprintf(" Unparsed subjects (%d) ", len(res.Failed)))
}

// FailedCount returns the number of subjects listed
func (v *DiagnosticsView) FailedCount() int {
	return v.failed.GetItemCount()
}

// Root returns the root primitive
func (v *DiagnosticsView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *DiagnosticsView) GetFocusable() tview.Primitive {
	return v.failed
}

func numberCell(n int) *tview.TableCell {
	return tview.NewTableCell(fmt.Sprintf("%d", n)).SetAlign(tview.AlignRight)
}
