package views

import (
	"context"
	"errors"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/adapters/tui/styles"
	"mediagraph/internal/application/commands"
	"mediagraph/internal/ports"
)

// DeleteModel confirms and runs the deletion of one object
type DeleteModel struct {
	ConfirmationModel
	store ports.ObjectStore
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(store ports.ObjectStore) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		store:             store,
	}
}

type impactLoadedMsg struct {
	id     int64
	impact Impact
}

// Init loads what the delete would take with it
func (m *DeleteModel) Init() tea.Cmd {
	if m.Target == nil {
		return nil
	}
	id := m.Target.ID
	return func() tea.Msg {
		details, err := commands.NewGetObjectCommand(m.store, id).Execute(context.Background())
		if err != nil {
			return DeleteErrMsg{Err: err}
		}
		var source string
		if details.Source != nil {
			source = details.Source.Path
		}
		return impactLoadedMsg{id: id, impact: impactOf(source, details.Parents)}
	}
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case impactLoadedMsg:
		// a late answer for a previous target is dropped
		if m.Target != nil && m.Target.ID == msg.id {
			m.Impact = msg.impact
		}
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target == nil {
		return DeleteErrMsg{Err: errors.New("no target selected")}
	}

	cmd := commands.NewDeleteCommand(m.store, strconv.FormatInt(m.Target.ID, 10))
	result, err := cmd.Execute(context.Background())
	if err != nil {
		return DeleteErrMsg{Err: err}
	}
	return DeleteSuccessMsg{Message: result.Message}
}

// DeleteSuccessMsg indicates successful deletion
type DeleteSuccessMsg struct {
	Message string
}

// DeleteErrMsg indicates an error during deletion
type DeleteErrMsg struct {
	Err error
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().Title("Delete")
	v.Line(RenderTargetInfo(m.Target, m.Impact)).Line("")

	switch {
	case m.Target == nil:
	case m.Target.Type.IsGrouping():
		v.Muted("Songs stay in the library, only this folder goes.")
	case m.Target.ChildCount > 0:
		v.Muted("Children without another parent are deleted too.")
	}
	for _, c := range m.Impact.Collected {
		v.Line(styles.ErrorMsg.Render("Also removes " + NodeKind(c.Type) + " " + c.Title))
	}

	v.Line("").Line(RenderConfirmPrompt("Delete for good?"))
	return v.Message(m.Message, m.MessageErr).String()
}
