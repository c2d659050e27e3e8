package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/stats"
)

// AuthorsView browses authors and the projects each one worked on, and for
// every such project who else committed to it
type AuthorsView struct {
	root        *tview.Flex
	list        *tview.List
	detail      *tview.TextView
	info        *tview.TextView
	authors     []*stats.AuthorActivity
	byProject   map[string][]string
	selectedIdx int
}

// NewAuthorsView creates a new author browser
func NewAuthorsView() *AuthorsView {
	v := &AuthorsView{}
	v.setup()
	return v
}

func (v *AuthorsView) setup() {
	v.list = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	v.list.SetBorder(true).SetTitle(" Authors ")

	v.detail = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	v.detail.SetBorder(true).SetTitle(" Author Details ")

	v.info = newInfoLine()

	content := tview.NewFlex().
		AddItem(v.list, 40, 0, true).
		AddItem(v.detail, 0, 1, false)

	v.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(v.info, 1, 0, false)

	v.list.SetChangedFunc(func(idx int, main, secondary string, shortcut rune) {
		v.selectedIdx = idx
		if idx >= 0 && idx < len(v.authors) {
			v.showAuthorDetails(v.authors[idx])
		}
	})
}

// Refresh updates the view with new data
func (v *AuthorsView) Refresh(sum *stats.Summary) {
	v.authors = sum.GetLeaderboard("rank", false)

	// authors per project name, across branches
	v.byProject = make(map[string][]string)
	for _, a := range v.authors {
		for _, p := range a.Projects {
			v.byProject[p] = append(v.byProject[p], a.Author)
		}
	}

	v.list.Clear()
	for _, a := range v.authors {
		secondary := fmt.Sprintf("%d commits in %d projects", a.Commits, len(a.Projects))
		v.list.AddItem(tview.Escape(a.Author), secondary, 0, nil)
	}

	v.info.SetText(fmt.Sprintf("[yellow]%d[-] authors | [yellow]↑↓[-] browse", len(v.authors)))

	if v.selectedIdx < 0 || v.selectedIdx >= len(v.authors) {
		v.selectedIdx = 0
	}
	if len(v.authors) > 0 {
		v.list.SetCurrentItem(v.selectedIdx)
		v.showAuthorDetails(v.authors[v.selectedIdx])
	} else {
		v.detail.SetText("[gray]No authors in this window[-]")
	}
}

func (v *AuthorsView) showAuthorDetails(a *stats.AuthorActivity) {
	var b strings.Builder

	fmt.Fprintf(&b, "[::b]%s[-:-:-]\n\n", tview.Escape(a.Author))
	b.WriteString("[yellow]━━━ Activity ━━━[-]\n\n")
	fmt.Fprintf(&b, "  Commits:     [cyan]%d[-]\n", a.Commits)
	fmt.Fprintf(&b, "  Projects:    [cyan]%d[-]\n", len(a.Projects))
	if !a.LastCommit.IsZero() {
		fmt.Fprintf(&b, "  Last:        [gray]%s[-]\n", a.LastCommit.Format("2006-01-02"))
	}

	b.WriteString("\n[yellow]━━━ Projects ━━━[-]\n\n")
	for _, p := range a.Projects {
		others := without(v.byProject[p], a.Author)
		if len(others) == 0 {
			fmt.Fprintf(&b, "  • %s\n", tview.Escape(p))
			continue
		}
		fmt.Fprintf(&b, "  • %s [gray](with %s)[-]\n", tview.Escape(p), tview.Escape(strings.Join(others, ", ")))
	}

	v.detail.SetText(b.String())
}

func without(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Detail returns the details shown for the selected author
func (v *AuthorsView) Detail() string {
	return v.detail.GetText(true)
}

// Root returns the root primitive
func (v *AuthorsView) Root() tview.Primitive {
	return v.root
}

// GetFocusable returns the focusable component
func (v *AuthorsView) GetFocusable() tview.Primitive {
	return v.list
}
