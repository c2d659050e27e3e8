package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/audi70r/commitdigest/internal/config"
	"github.com/audi70r/commitdigest/internal/stats"
	"github.com/audi70r/commitdigest/internal/store"
)

var (
	translationModes = []string{
		string(store.TranslationsInclude),
		string(store.TranslationsExclude),
		string(store.TranslationsOnly),
	}
	projectOrders = []string{string(stats.OrderRecent), string(stats.OrderCount)}
)

// SetupView selects archive files and the aggregation window
type SetupView struct {
	root        *tview.Pages
	mainFlex    *tview.Flex
	fileList    *tview.List
	daysInput   *tview.InputField
	modeDrop    *tview.DropDown
	orderDrop   *tview.DropDown
	errorText   *tview.TextView
	config      *config.Config
	onComplete  func()
	currentPath string
	app         *tview.Application
	files       []string
	fetchMonths int
}

// NewSetupView creates a new setup view prefilled with files and cfg
func NewSetupView(cfg *config.Config, files []string, onComplete func(), app *tview.Application) *SetupView {
	s := &SetupView{
		config:      cfg,
		onComplete:  onComplete,
		app:         app,
		fetchMonths: cfg.Archive.Months,
	}
	s.currentPath, _ = os.Getwd()
	s.setup()
	for _, f := range files {
		s.addFile(f)
	}
	return s
}

func (s *SetupView) setup() {
	title := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[::b]commitdigest - Commit List Digest[-:-:-]")
	title.SetBackgroundColor(tcell.ColorDarkBlue)

	instructions := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText(fmt.Sprintf("[yellow]Add archive pages, or leave the list empty to fetch the last %d months[-]", s.fetchMonths))

	s.fileList = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	s.updateFileCount()

	windowForm := tview.NewForm()
	windowForm.SetBorder(true).SetTitle(" Window ")

	s.daysInput = tview.NewInputField().
		SetLabel("Days: ").
		SetText(strconv.Itoa(s.config.Window.Days)).
		SetFieldWidth(6).
		SetAcceptanceFunc(tview.InputFieldInteger)

	s.modeDrop = tview.NewDropDown().
		SetLabel("Translations: ").
		SetOptions(translationModes, nil).
		SetCurrentOption(indexOf(translationModes, s.config.Window.Translations))

	s.orderDrop = tview.NewDropDown().
		SetLabel("Projects by: ").
		SetOptions(projectOrders, nil).
		SetCurrentOption(indexOf(projectOrders, s.config.Report.ProjectOrder))

	windowForm.AddFormItem(s.daysInput)
	windowForm.AddFormItem(s.modeDrop)
	windowForm.AddFormItem(s.orderDrop)

	buttonForm := tview.NewForm()
	buttonForm.SetButtonsAlign(tview.AlignCenter)
	buttonForm.AddButton("Add File", s.showFileBrowser)
	buttonForm.AddButton("Run", s.validate)
	buttonForm.AddButton("Quit", func() {
		if s.app != nil {
			s.app.Stop()
		}
	})

	s.errorText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(windowForm, 9, 0, false).
		AddItem(buttonForm, 5, 0, false).
		AddItem(s.errorText, 2, 0, false)

	content := tview.NewFlex().
		AddItem(s.fileList, 0, 2, true).
		AddItem(rightPanel, 44, 0, false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]a[-] Add file  [yellow]d[-] Remove  [yellow]w[-] Window  [yellow]Enter[-] Run  [yellow]↑↓[-] Navigate")
	help.SetBackgroundColor(tcell.ColorDarkBlue)

	s.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(instructions, 1, 0, false).
		AddItem(content, 0, 1, true).
		AddItem(help, 1, 0, false)

	s.root = tview.NewPages()
	s.root.AddPage("main", s.mainFlex, true, true)

	s.fileList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'a', 'A':
			s.showFileBrowser()
			return nil
		case 'd', 'D':
			s.removeSelectedFile()
			return nil
		case 'w', 'W':
			if s.app != nil {
				s.app.SetFocus(s.daysInput)
			}
			return nil
		}
		if event.Key() == tcell.KeyEnter {
			s.validate()
			return nil
		}
		return event
	})

	backToList := func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			if s.app != nil {
				s.app.SetFocus(s.fileList)
			}
			return nil
		}
		return event
	}
	s.daysInput.SetInputCapture(backToList)
	s.modeDrop.SetInputCapture(backToList)
	s.orderDrop.SetInputCapture(backToList)
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return 0
}

func (s *SetupView) addFile(path string) {
	for _, f := range s.files {
		if f == path {
			return
		}
	}
	s.files = append(s.files, path)
	s.fileList.AddItem(path, "  "+filepath.Base(path), 0, nil)
	s.updateFileCount()
}

func (s *SetupView) removeSelectedFile() {
	idx := s.fileList.GetCurrentItem()
	if idx >= 0 && idx < len(s.files) {
		s.fileList.RemoveItem(idx)
		s.files = append(s.files[:idx], s.files[idx+1:]...)
		s.updateFileCount()
	}
}

func (s *SetupView) updateFileCount() {
	if len(s.files) == 0 {
		s.fileList.SetBorder(true).SetTitle(" Archive pages (fetch from archive) ")
		return
	}
	s.fileList.SetBorder(true).SetTitle(fmt.Sprintf(" Archive pages (%d) ", len(s.files)))
}

// Files returns the selected archive pages
func (s *SetupView) Files() []string {
	return append([]string(nil), s.files...)
}

func (s *SetupView) validate() {
	days, err := strconv.Atoi(s.daysInput.GetText())
	if err != nil {
		s.ShowError("Days must be a number")
		return
	}

	_, mode := s.modeDrop.GetCurrentOption()
	_, order := s.orderDrop.GetCurrentOption()

	next := *s.config
	next.Window.Days = days
	next.Window.Translations = mode
	next.Report.ProjectOrder = order
	if err := next.Validate(); err != nil {
		s.ShowError(err.Error())
		return
	}

	*s.config = next
	s.errorText.SetText("")
	s.onComplete()
}

func (s *SetupView) showFileBrowser() {
	dirList := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	dirList.SetBorder(true)

	browserHelp := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Enter[-] Open folder / add page  [yellow]Esc[-] Close")
	browserHelp.SetBackgroundColor(tcell.ColorDarkBlue)

	currentPath := s.currentPath

	type dirEntry struct {
		name   string
		isPage bool
	}
	var dirEntries []dirEntry

	populateList := func(path string) {
		dirList.Clear()
		dirEntries = nil
		dirList.SetTitle(fmt.Sprintf(" %s ", path))
		currentPath = path

		dirList.AddItem("..", "Go up one directory", 0, nil)
		dirEntries = append(dirEntries, dirEntry{name: ".."})

		entries, err := os.ReadDir(path)
		if err != nil {
			return
		}

		for _, entry := range entries {
			if isHidden(entry.Name()) {
				continue
			}
			switch {
			case entry.IsDir():
				dirList.AddItem("   "+entry.Name(), "Directory", 0, nil)
				dirEntries = append(dirEntries, dirEntry{name: entry.Name()})
			case IsArchivePage(entry.Name()):
				dirList.AddItem("[cyan]"+entry.Name()+"[-]", "[Enter] to add this page", 0, nil)
				dirEntries = append(dirEntries, dirEntry{name: entry.Name(), isPage: true})
			}
		}
	}

	populateList(currentPath)

	browserBox := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(dirList, 0, 1, true).
		AddItem(browserHelp, 1, 0, false)
	browserBox.SetBorder(true).SetTitle(" Select Archive Page ")

	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(browserBox, 24, 0, true).
			AddItem(nil, 0, 1, false), 80, 0, true).
		AddItem(nil, 0, 1, false)

	closeModal := func() {
		s.root.RemovePage("browser")
		s.root.SwitchToPage("main")
		if s.app != nil {
			s.app.SetFocus(s.fileList)
		}
	}

	dirList.SetSelectedFunc(func(idx int, main, secondary string, shortcut rune) {
		if idx < 0 || idx >= len(dirEntries) {
			return
		}

		entry := dirEntries[idx]
		switch {
		case entry.name == "..":
			populateList(filepath.Dir(currentPath))
		case entry.isPage:
			s.addFile(filepath.Join(currentPath, entry.name))
			s.currentPath = currentPath
			closeModal()
		default:
			populateList(filepath.Join(currentPath, entry.name))
		}
	})

	dirList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			closeModal()
			return nil
		}
		return event
	})

	s.root.AddPage("browser", modal, true, true)

	if s.app != nil {
		s.app.SetFocus(dirList)
	}
}

// IsArchivePage reports whether a file name looks like a saved archive page
func IsArchivePage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".txt":
		return true
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// ShowError displays an error message
func (s *SetupView) ShowError(msg string) {
	s.errorText.SetText("[red]" + tview.Escape(msg) + "[-]")
}

// ErrorText returns the message currently shown
func (s *SetupView) ErrorText() string {
	return s.errorText.GetText(true)
}

// Root returns the root primitive
func (s *SetupView) Root() tview.Primitive {
	return s.root
}
