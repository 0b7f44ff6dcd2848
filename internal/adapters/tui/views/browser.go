package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/application"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/domain"
	"mediagraph/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Copy   key.Binding
	Open   key.Binding
	Delete key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open folder"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace", "h", "left"),
		key.WithHelp("⌫", "back"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// level is one list on the navigation stack
type level struct {
	parent *domain.ObjectNode // nil for the roots
	nodes  []domain.ObjectNode
	cursor int
	offset int
}

func (l *level) selected() *domain.ObjectNode {
	if l.cursor >= 0 && l.cursor < len(l.nodes) {
		return &l.nodes[l.cursor]
	}
	return nil
}

func (l *level) clamp() {
	if l.cursor >= len(l.nodes) {
		l.cursor = len(l.nodes) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// BrowserModel walks the object graph one list at a time, starting at the
// category roots.
type BrowserModel struct {
	ViewState
	store ports.ObjectStore
	stack []*level
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(store ports.ObjectStore) *BrowserModel {
	return &BrowserModel{store: store}
}

type levelLoadedMsg struct {
	parent  *domain.ObjectNode
	nodes   []domain.ObjectNode
	replace bool
}

type parentGoneMsg struct{}

type errMsg struct {
	err error
}

type statusMsg struct {
	message string
}

// Init loads the roots
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadLevel(nil, false)
}

func (m *BrowserModel) loadLevel(parent *domain.ObjectNode, replace bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if parent == nil {
			nodes, err := commands.NewListRootsCommand(m.store).Execute(ctx)
			if err != nil {
				return errMsg{err}
			}
			return levelLoadedMsg{nodes: nodes, replace: replace}
		}

		node, err := m.store.Object(ctx, parent.ID)
		if err != nil {
			return errMsg{err}
		}
		if node == nil {
			return parentGoneMsg{}
		}
		nodes, err := commands.NewListChildrenCommand(m.store, parent.ID).Execute(ctx)
		if errors.Is(err, application.ErrNotFound) {
			return parentGoneMsg{}
		}
		if err != nil {
			return errMsg{err}
		}
		return levelLoadedMsg{parent: node, nodes: nodes, replace: replace}
	}
}

func (m *BrowserModel) current() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case levelLoadedMsg:
		if msg.replace && len(m.stack) > 0 {
			cur := m.current()
			cur.parent = msg.parent
			cur.nodes = msg.nodes
			cur.clamp()
		} else {
			m.stack = append(m.stack, &level{parent: msg.parent, nodes: msg.nodes})
		}
		return m, nil

	case parentGoneMsg:
		// the folder was collected, fall back to the list above it
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return m, m.Refresh()

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case statusMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	cur := m.current()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Refresh()
	}

	if cur == nil {
		return nil
	}

	switch {
	case key.Matches(msg, BrowserKeys.Up):
		if cur.cursor > 0 {
			cur.cursor--
		}

	case key.Matches(msg, BrowserKeys.Down):
		if cur.cursor < len(cur.nodes)-1 {
			cur.cursor++
		}

	case key.Matches(msg, BrowserKeys.Back):
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			// counters may have changed while we were below
			return m.Refresh()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		node := cur.selected()
		if node == nil {
			return nil
		}
		if node.ChildCount == 0 {
			m.SetMessage(fmt.Sprintf("%s has no children", node.Title), false)
			return nil
		}
		parent := *node
		return m.loadLevel(&parent, false)

	case key.Matches(msg, BrowserKeys.Copy):
		if node := cur.selected(); node != nil {
			return m.copyPath(node.ID)
		}

	case key.Matches(msg, BrowserKeys.Open):
		if node := cur.selected(); node != nil {
			return m.openSource(node.ID)
		}

	case key.Matches(msg, BrowserKeys.Delete):
		node := cur.selected()
		if node == nil {
			return nil
		}
		if node.Type.IsRoot() {
			m.SetMessage("category roots cannot be deleted here", true)
			return nil
		}
		target := *node
		return func() tea.Msg { return SwitchToDeleteMsg{Node: target} }
	}

	return nil
}

func (m *BrowserModel) sourcePath(id int64) (string, error) {
	res, err := commands.NewLookupIDCommand(m.store, id).Execute(context.Background())
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", errors.New(res.Message)
	}
	return res.Path, nil
}

func (m *BrowserModel) copyPath(id int64) tea.Cmd {
	return func() tea.Msg {
		path, err := m.sourcePath(id)
		if err != nil {
			return errMsg{err}
		}
		if err := copyToClipboard(path); err != nil {
			return errMsg{fmt.Errorf("failed to copy: %w", err)}
		}
		return statusMsg{"Copied " + path}
	}
}

func (m *BrowserModel) openSource(id int64) tea.Cmd {
	return func() tea.Msg {
		path, err := m.sourcePath(id)
		if err != nil {
			return errMsg{err}
		}
		return OpenFileMsg{Path: path}
	}
}

// Refresh reloads the list on top of the stack
func (m *BrowserModel) Refresh() tea.Cmd {
	cur := m.current()
	if cur == nil {
		return m.loadLevel(nil, false)
	}
	return m.loadLevel(cur.parent, true)
}

// Breadcrumb names the folders leading to the current list
func (m *BrowserModel) Breadcrumb() string {
	parts := []string{"Library"}
	for _, l := range m.stack {
		if l.parent != nil {
			parts = append(parts, l.parent.Title)
		}
	}
	return strings.Join(parts, " / ")
}

// visibleRows is how many list rows fit between the header and the help line
func (m *BrowserModel) visibleRows() int {
	rows := m.Height - 9
	if rows < 5 {
		rows = 5
	}
	return rows
}

// View renders the browser
func (m *BrowserModel) View() string {
	cur := m.current()
	if cur == nil {
		return "Loading..."
	}

	v := NewViewBuilder().Title("mediagraph").Subtitle(m.Breadcrumb())

	if len(cur.nodes) == 0 {
		v.Muted("(empty)")
	}

	rows := m.visibleRows()
	if cur.cursor < cur.offset {
		cur.offset = cur.cursor
	} else if cur.cursor >= cur.offset+rows {
		cur.offset = cur.cursor - rows + 1
	}
	end := min(cur.offset+rows, len(cur.nodes))
	for i := cur.offset; i < end; i++ {
		v.Line(renderNode(cur.nodes[i], i == cur.cursor))
	}
	if len(cur.nodes) > rows {
		v.Muted(fmt.Sprintf("%d-%d of %d", cur.offset+1, end, len(cur.nodes)))
	}

	return v.Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Enter, BrowserKeys.Back, BrowserKeys.Copy, BrowserKeys.Open,
			BrowserKeys.Delete, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}
