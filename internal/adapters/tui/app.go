package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/adapters/tui/views"
	"mediagraph/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	store  ports.ObjectStore
	opener ports.FileOpener

	state   ViewState
	browser *views.BrowserModel
	delete  *views.DeleteModel
	help    *views.HelpModel
}

// NewApp creates a new TUI application. opener may be nil.
func NewApp(store ports.ObjectStore, opener ports.FileOpener) *App {
	return &App{
		store:   store,
		opener:  opener,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(store),
		delete:  views.NewDeleteModel(store),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.browser.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Node)
		return a, a.delete.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Refresh()

	case views.DeleteSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Refresh()

	case views.DeleteErrMsg:
		a.delete.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.OpenFileMsg:
		return a, a.openFile(msg.Path)

	case openFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(fmt.Sprintf("failed to open: %v", msg.err), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type openFinishedMsg struct{ err error }

func (a *App) openFile(path string) tea.Cmd {
	if a.opener == nil {
		return nil
	}

	cmd, err := a.opener.Command(path)
	if err != nil {
		return func() tea.Msg {
			return openFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return openFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDelete:
		return a.delete.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
