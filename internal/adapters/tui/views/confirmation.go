package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mediagraph/internal/adapters/tui/styles"
	"mediagraph/internal/domain"
)

// ConfirmKeyMap holds the yes/no bindings of a confirmation prompt
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var ConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc", "q"),
		key.WithHelp("n/esc", "no"),
	),
}

// Impact is what a delete would take with it besides the object itself
type Impact struct {
	Source    string
	Parents   []domain.ObjectNode
	Collected []domain.ObjectNode
}

// impactOf works out which parents lose their last child. Only groupings
// are collected when they empty, so roots never show up here.
func impactOf(source string, parents []domain.ObjectNode) Impact {
	imp := Impact{Source: source, Parents: parents}
	for _, p := range parents {
		if p.Type.IsGrouping() && p.ChildCount <= 1 {
			imp.Collected = append(imp.Collected, p)
		}
	}
	return imp
}

// ConfirmationModel asks a yes/no question about one node
type ConfirmationModel struct {
	ViewState
	Target *domain.ObjectNode
	Impact Impact
	Keys   ConfirmKeyMap
}

// NewConfirmationModel creates a confirmation model with the default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{Keys: ConfirmKeys}
}

// SetTarget points the prompt at node and forgets the previous impact
func (m *ConfirmationModel) SetTarget(node domain.ObjectNode) {
	m.Target = &node
	m.Impact = Impact{}
	m.ClearMessage()
}

// HandleKeyMsg maps the yes/no keys to the given messages.
// Other keys are reported as unhandled.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Confirm):
		return true, onConfirm
	case key.Matches(msg, m.Keys.Cancel):
		return true, onCancel
	}
	return false, nil
}

// RenderConfirmPrompt renders question followed by the yes/no keys
func RenderConfirmPrompt(question string) string {
	return question + "  " + RenderHelpLine(ConfirmKeys.Confirm, ConfirmKeys.Cancel)
}

// RenderTargetInfo describes node and where it is filed
func RenderTargetInfo(node *domain.ObjectNode, imp Impact) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(NodeKind(node.Type)))
	b.WriteString("\n  ")
	b.WriteString(NodeLabel(*node))
	if imp.Source != "" {
		b.WriteString("\n  ")
		b.WriteString(styles.MutedText.Render(imp.Source))
	}
	if len(imp.Parents) > 0 {
		titles := make([]string, len(imp.Parents))
		for i, p := range imp.Parents {
			titles[i] = p.Title
		}
		b.WriteString("\n  ")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("filed under %s", strings.Join(titles, ", "))))
	}
	return b.String()
}
