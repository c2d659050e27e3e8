package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/stats"
)

const rule = "[yellow]━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━[-]"

// StartedProjectsView lists projects that started inside the window and the
// revision range seen for every project
type StartedProjectsView struct {
	root *tview.Flex
	text *tview.TextView
}

// NewNewProjectsView creates a new projects-started view
func NewNewProjectsView() *StartedProjectsView {
	v := &StartedProjectsView{}
	v.setup()
	return v
}

func (v *StartedProjectsView) setup() {
	v.text = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetTextAlign(tview.AlignLeft)

	v.root = padded(v.text)
}

// Refresh updates the view with new data
func (v *StartedProjectsView) Refresh(sum *stats.Summary) {
	var b strings.Builder

	b.WriteString("[::b]New Projects[-:-:-]\n\n" + rule + "\n\n")
	if len(sum.NewProjects) == 0 {
		b.WriteString("  [gray]No project started in this window[-]\n")
	}
	for _, np := range sum.NewProjects {
		fmt.Fprintf(&b, "  [green]%s[-] by [cyan]%s[-] (r%d)\n", tview.Escape(np.Project), tview.Escape(np.Author), np.MinRevision)
	}

	b.WriteString("\n" + rule + "\n\n  [::b]Revision ranges[-:-:-]\n\n")
	if len(sum.Extents) == 0 {
		b.WriteString("  [gray]No numbered revisions in this window[-]\n")
	}
	for _, e := range sum.Extents {
		fmt.Fprintf(&b, "  %-30s r%d .. r%d\n", tview.Escape(e.Project), e.Min, e.Max)
	}

	v.text.SetText(b.String())
}

// Text returns the rendered content
func (v *StartedProjectsView) Text() string {
	return v.text.GetText(true)
}

// Root returns the root primitive
func (v *StartedProjectsView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *StartedProjectsView) GetFocusable() tview.Primitive {
	return v.text
}

func padded(p tview.Primitive) *tview.Flex {
	return tview.NewFlex().
		AddItem(nil, 2, 0, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 1, 0, false).
			AddItem(p, 0, 1, true).
			AddItem(nil, 1, 0, false), 0, 1, true).
		AddItem(nil, 2, 0, false)
}
