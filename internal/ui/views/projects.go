package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/stats"
)

// ProjectsView displays the active project ranking
type ProjectsView struct {
	root    *tview.Flex
	table   *tview.Table
	info    *tview.TextView
	sortCol int
	sortAsc bool
	columns []string
	sortBy  []string
}

// NewProjectsView creates a new projects view
func NewProjectsView() *ProjectsView {
	v := &ProjectsView{
		columns: []string{"#", "Project", "Commits", "Authors", "Last commit"},
		sortBy:  []string{"rank", "name", "commits", "authors", "last"},
	}
	v.setup()
	return v
}

func (v *ProjectsView) setup() {
	v.table = newRankingTable()
	v.info = newInfoLine()

	v.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.info, 1, 0, false)

	renderHeader(v.table, v.columns, v.sortCol, v.sortAsc)
}

// Refresh updates the view with new data. Branches other than defaultBranch
// are shown next to the project name.
func (v *ProjectsView) Refresh(sum *stats.Summary, defaultBranch string) {
	clearRows(v.table)

	projects := sum.GetProjects(v.sortBy[v.sortCol], v.sortAsc)
	for i, p := range projects {
		row := i + 1
		nameColor := tcell.ColorWhite
		if p.Branch != "" && p.Branch != defaultBranch {
			nameColor = tcell.ColorAqua
		}

		v.table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", row)).
			SetTextColor(tcell.ColorDarkGray).
			SetAlign(tview.AlignRight))
		v.table.SetCell(row, 1, tview.NewTableCell(p.Name(defaultBranch)).
			SetTextColor(nameColor))
		v.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", p.Commits)).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignRight))
		v.table.SetCell(row, 3, tview.NewTableCell(strings.Join(p.Authors, ", ")).
			SetExpansion(1))
		v.table.SetCell(row, 4, tview.NewTableCell(humanize.RelTime(p.LastCommit, sum.Now, "ago", "from now")).
			SetTextColor(tcell.ColorGray))
	}

	v.info.SetText(fmt.Sprintf("[yellow]%d[-] projects | Sort: [green]%s[-] | [s] cycle column, [r] reverse",
		len(projects), v.columns[v.sortCol]))

	renderHeader(v.table, v.columns, v.sortCol, v.sortAsc)
}

// Cell returns the text shown at a data row and column
func (v *ProjectsView) Cell(row, col int) string {
	return v.table.GetCell(row+1, col).Text
}

// CycleSortColumn cycles through sort columns
func (v *ProjectsView) CycleSortColumn() {
	v.sortCol = (v.sortCol + 1) % len(v.columns)
}

// ReverseSortOrder reverses the sort order
func (v *ProjectsView) ReverseSortOrder() {
	v.sortAsc = !v.sortAsc
}

// Root returns the root primitive
func (v *ProjectsView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *ProjectsView) GetFocusable() tview.Primitive {
	return v.table
}
