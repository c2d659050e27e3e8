package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/stats"
)

// LeaderboardView displays the author ranking
type LeaderboardView struct {
	root    *tview.Flex
	table   *tview.Table
	info    *tview.TextView
	sortCol int
	sortAsc bool
	columns []string
	sortBy  []string
}

// NewLeaderboardView creates a new leaderboard view
func NewLeaderboardView() *LeaderboardView {
	v := &LeaderboardView{
		sortCol: 0, // ranking order
		columns: []string{"#", "Author", "Commits", "Projects", "Last commit"},
		sortBy:  []string{"rank", "name", "commits", "projects", "last"},
	}
	v.setup()
	return v
}

func (v *LeaderboardView) setup() {
	v.table = newRankingTable()
	v.info = newInfoLine()

	v.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.info, 1, 0, false)

	renderHeader(v.table, v.columns, v.sortCol, v.sortAsc)
}

// Refresh updates the view with new data
func (v *LeaderboardView) Refresh(sum *stats.Summary) {
	clearRows(v.table)

	authors := sum.GetLeaderboard(v.sortBy[v.sortCol], v.sortAsc)
	for i, a := range authors {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", row)).
			SetTextColor(tcell.ColorDarkGray).
			SetAlign(tview.AlignRight))
		v.table.SetCell(row, 1, tview.NewTableCell(a.Author))
		v.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", a.Commits)).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignRight))
		v.table.SetCell(row, 3, tview.NewTableCell(strings.Join(a.Projects, ", ")).
			SetExpansion(1))
		v.table.SetCell(row, 4, tview.NewTableCell(humanize.RelTime(a.LastCommit, sum.Now, "ago", "from now")).
			SetTextColor(tcell.ColorGray))
	}

	v.info.SetText(fmt.Sprintf("[yellow]%d[-] authors | Sort: [green]%s[-] | [s] cycle column, [r] reverse",
		len(authors), v.columns[v.sortCol]))

	renderHeader(v.table, v.columns, v.sortCol, v.sortAsc)
}

// RowCount returns the number of data rows shown
func (v *LeaderboardView) RowCount() int {
	return v.table.GetRowCount() - 1
}

// CycleSortColumn cycles through sort columns
func (v *LeaderboardView) CycleSortColumn() {
	v.sortCol = (v.sortCol + 1) % len(v.columns)
}

// ReverseSortOrder reverses the sort order
func (v *LeaderboardView) ReverseSortOrder() {
	v.sortAsc = !v.sortAsc
}

// Root returns the root primitive
func (v *LeaderboardView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *LeaderboardView) GetFocusable() tview.Primitive {
	return v.table
}

func newRankingTable() *tview.Table {
	return tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSeparator(' ')
}

func newInfoLine() *tview.TextView {
	return tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
}

func clearRows(table *tview.Table) {
	for row := table.GetRowCount() - 1; row > 0; row-- {
		table.RemoveRow(row)
	}
}

func renderHeader(table *tview.Table, columns []string, sortCol int, sortAsc bool) {
	for col, name := range columns {
		cell := tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)

		if col == sortCol && col > 0 {
			arrow := "▼"
			if sortAsc {
				arrow = "▲"
			}
			cell.SetText(name + arrow)
		}

		table.SetCell(0, col, cell)
	}
}
