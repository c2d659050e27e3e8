package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/config"
	"github.com/audi70r/commitdigest/internal/digest"
	"github.com/audi70r/commitdigest/internal/fetch"
	"github.com/audi70r/commitdigest/internal/logger"
	"github.com/audi70r/commitdigest/internal/ui/views"
)

// App represents the main application
type App struct {
	tview  *tview.Application
	pages  *tview.Pages
	config *config.Config

	// UI components
	setupView    *views.SetupView
	progressView *views.ProgressView
	mainView     *MainView
}

// NewApp creates a new application instance. files prefill the setup list;
// with none the archive is fetched.
func NewApp(cfg *config.Config, files []string) *App {
	app := &App{
		tview:  tview.NewApplication(),
		pages:  tview.NewPages(),
		config: cfg,
	}

	app.setupViews(files)
	return app
}

func (a *App) setupViews(files []string) {
	a.setupView = views.NewSetupView(a.config, files, a.onSetupComplete, a.tview)
	a.progressView = views.NewProgressView()
	a.mainView = NewMainView(a.tview, a.onRescan)

	a.pages.AddPage("setup", a.setupView.Root(), true, true)
	a.pages.AddPage("progress", a.progressView.Root(), true, false)
	a.pages.AddPage("main", a.mainView.Root(), true, false)

	a.tview.SetRoot(a.pages, true)
}

func (a *App) onSetupComplete() {
	a.progressView.Reset()
	a.pages.SwitchToPage("progress")
	go a.collect(a.setupView.Files())
}

// collect runs on its own goroutine; every UI change goes through
// QueueUpdateDraw
func (a *App) collect(files []string) {
	ctx := context.Background()
	now := time.Now()

	status := "Fetching archive pages..."
	if len(files) > 0 {
		status = fmt.Sprintf("Loading %d pages...", len(files))
	}
	a.tview.QueueUpdateDraw(func() {
		a.progressView.SetStatus(status)
	})

	pages, err := fetch.Collect(ctx, fetch.NewClient(a.config.FetchOptions()), a.config.Sources(files), now)
	if err != nil {
		a.fail(err)
		return
	}

	opts, err := a.config.PipelineOptions()
	if err != nil {
		a.fail(err)
		return
	}
	commits := 0
	opts.OnPage = func(done, total int, ps digest.PageStats) {
		commits += ps.Classify.Matched
		parsed := commits
		a.tview.QueueUpdateDraw(func() {
			a.progressView.Refresh(done, total, parsed)
			a.progressView.SetStatus(fmt.Sprintf("Parsed %s", ps.Label))
		})
	}

	p, err := digest.New(opts)
	if err != nil {
		a.fail(err)
		return
	}
	w, err := a.config.AggregationWindow()
	if err != nil {
		a.fail(err)
		return
	}

	a.tview.QueueUpdateDraw(func() {
		a.progressView.Refresh(0, len(pages), 0)
		a.progressView.SetStatus("Parsing pages...")
	})

	res, err := p.Run(pages, w, now)
	if err != nil {
		a.fail(err)
		return
	}

	a.tview.QueueUpdateDraw(func() {
		a.mainView.SetData(res, a.config)
		a.pages.SwitchToPage("main")
		a.tview.SetFocus(a.mainView.GetFocusable())
	})
}

func (a *App) fail(err error) {
	logger.WithError(err).Error("collection failed")
	a.tview.QueueUpdateDraw(func() {
		a.setupView.ShowError(err.Error())
		a.pages.SwitchToPage("setup")
	})
}

func (a *App) onRescan() {
	a.pages.SwitchToPage("setup")
	a.tview.SetFocus(a.setupView.Root())
}

// Run starts the application
func (a *App) Run() error {
	return a.tview.Run()
}

// MainView is the main statistics display view
type MainView struct {
	root      *tview.Flex
	menuList  *tview.List
	viewPages *tview.Pages
	statusBar *tview.TextView
	header    *tview.TextView
	app       *tview.Application
	onRescan  func()

	// Views
	leaderboardView *views.LeaderboardView
	projectsView    *views.ProjectsView
	newProjectsView *views.StartedProjectsView
	timelineView    *views.TimelineView
	authorsView     *views.AuthorsView
	diagnosticsView *views.DiagnosticsView

	currentView string
	result      *digest.Result
	config      *config.Config
}

// NewMainView creates the main statistics view
func NewMainView(app *tview.Application, onRescan func()) *MainView {
	m := &MainView{
		app:      app,
		onRescan: onRescan,
	}

	m.setupLayout()
	return m
}

func (m *MainView) setupLayout() {
	m.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	m.header.SetBackgroundColor(tcell.ColorDarkBlue)

	m.menuList = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	m.menuList.SetBorder(true).SetTitle(" Views ")

	m.viewPages = tview.NewPages()
	m.viewPages.SetBorder(true)

	m.leaderboardView = views.NewLeaderboardView()
	m.projectsView = views.NewProjectsView()
	m.newProjectsView = views.NewNewProjectsView()
	m.timelineView = views.NewTimelineView()
	m.authorsView = views.NewAuthorsView()
	m.diagnosticsView = views.NewDiagnosticsView()

	menuItems := []struct {
		name     string
		shortcut rune
		view     tview.Primitive
	}{
		{"Authors", '1', m.leaderboardView.Root()},
		{"Projects", '2', m.projectsView.Root()},
		{"New Projects", '3', m.newProjectsView.Root()},
		{"Activity", '4', m.timelineView.Root()},
		{"Who Worked Where", '5', m.authorsView.Root()},
		{"Diagnostics", '6', m.diagnosticsView.Root()},
	}

	for i, item := range menuItems {
		name := item.name
		m.menuList.AddItem(item.name, "", item.shortcut, func() {
			m.switchView(name)
		})
		m.viewPages.AddPage(item.name, item.view, true, i == 0)
	}

	m.currentView = menuItems[0].name
	m.viewPages.SetTitle(" " + m.currentView + " ")

	m.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	m.statusBar.SetBackgroundColor(tcell.ColorDarkBlue)
	m.updateStatusBar()

	contentFlex := tview.NewFlex().
		AddItem(m.menuList, 22, 0, true).
		AddItem(m.viewPages, 0, 1, false)

	m.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.header, 1, 0, false).
		AddItem(contentFlex, 0, 1, true).
		AddItem(m.statusBar, 1, 0, false)

	m.root.SetInputCapture(m.handleInput)
}

func (m *MainView) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab, tcell.KeyBacktab:
		m.toggleFocus()
		return nil
	case tcell.KeyEsc:
		if m.app.GetFocus() != m.menuList {
			m.app.SetFocus(m.menuList)
			return nil
		}
	}

	switch event.Rune() {
	case 'q', 'Q':
		m.app.Stop()
		return nil
	case 'R':
		if m.onRescan != nil {
			m.onRescan()
		}
		return nil
	case 's', 'S':
		m.cycleSortColumn()
		return nil
	case 'r':
		m.reverseSortOrder()
		return nil
	}

	return event
}

func (m *MainView) toggleFocus() {
	if m.app.GetFocus() != m.menuList {
		m.app.SetFocus(m.menuList)
		return
	}

	switch m.currentView {
	case "Authors":
		m.app.SetFocus(m.leaderboardView.GetFocusable())
	case "Projects":
		m.app.SetFocus(m.projectsView.GetFocusable())
	case "New Projects":
		m.app.SetFocus(m.newProjectsView.GetFocusable())
	case "Activity":
		m.app.SetFocus(m.timelineView.GetFocusable())
	case "Who Worked Where":
		m.app.SetFocus(m.authorsView.GetFocusable())
	case "Diagnostics":
		m.app.SetFocus(m.diagnosticsView.GetFocusable())
	}
}

func (m *MainView) cycleSortColumn() {
	if m.result == nil {
		return
	}
	switch m.currentView {
	case "Authors":
		m.leaderboardView.CycleSortColumn()
		m.leaderboardView.Refresh(m.result.Summary)
	case "Projects":
		m.projectsView.CycleSortColumn()
		m.projectsView.Refresh(m.result.Summary, m.config.Classify.DefaultBranch)
	}
}

func (m *MainView) reverseSortOrder() {
	if m.result == nil {
		return
	}
	switch m.currentView {
	case "Authors":
		m.leaderboardView.ReverseSortOrder()
		m.leaderboardView.Refresh(m.result.Summary)
	case "Projects":
		m.projectsView.ReverseSortOrder()
		m.projectsView.Refresh(m.result.Summary, m.config.Classify.DefaultBranch)
	}
}

func (m *MainView) switchView(name string) {
	m.currentView = name
	m.viewPages.SwitchToPage(name)
	m.viewPages.SetTitle(" " + name + " ")
	m.updateStatusBar()
}

// updateStatusBar shows context-sensitive controls
func (m *MainView) updateStatusBar() {
	baseControls := "[yellow]Tab[-] Focus  [yellow]↑↓[-] Navigate  [yellow]R[-] Rerun  [yellow]q[-] Quit"

	var viewControls string
	switch m.currentView {
	case "Authors", "Projects":
		viewControls = "[yellow]s[-] Sort  [yellow]r[-] Reverse  "
	}

	m.statusBar.SetText(viewControls + baseControls)
}

// SetData updates all views with the result of a run
func (m *MainView) SetData(res *digest.Result, cfg *config.Config) {
	m.result = res
	m.config = cfg

	sum := res.Summary
	m.header.SetText(fmt.Sprintf("[::b]commitdigest[-:-:-] - last %d days (%s) - %d commits by %d authors in %d projects",
		sum.Window.Days, sum.Window.Translations, sum.TotalCommits, len(sum.Authors), len(sum.Projects)))

	m.leaderboardView.Refresh(sum)
	m.projectsView.Refresh(sum, cfg.Classify.DefaultBranch)
	m.newProjectsView.Refresh(sum)
	m.timelineView.Refresh(sum)
	m.authorsView.Refresh(sum)
	m.diagnosticsView.Refresh(res)
}

// Root returns the root primitive
func (m *MainView) Root() tview.Primitive {
	return m.root
}

// GetFocusable returns the focusable component
func (m *MainView) GetFocusable() tview.Primitive {
	return m.menuList
}
