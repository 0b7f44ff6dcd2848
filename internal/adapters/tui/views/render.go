package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"mediagraph/internal/adapters/tui/styles"
	"mediagraph/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// NodeLabel is the plain text shown for a node in lists
func NodeLabel(n domain.ObjectNode) string {
	label := fmt.Sprintf("%d  %s", n.ID, n.Title)
	if n.Type.Has(domain.TypeFolder) {
		label += fmt.Sprintf(" (%d)", n.ChildCount)
	}
	return label
}

// NodeKind returns a human-readable kind for a node
func NodeKind(t domain.ObjectType) string {
	switch {
	case t.IsRoot():
		return "Root"
	case t.Has(domain.TypeAlbumArtist):
		return "Album artist"
	case t.Has(domain.TypeAlbum):
		return "Album"
	case t.Has(domain.TypeArtist):
		return "Artist"
	case t.Has(domain.TypeGenre):
		return "Genre"
	case t.Has(domain.TypeSaveData):
		return "Save data"
	case t.Has(domain.TypeMusic):
		return "Song"
	case t.Has(domain.TypePhoto):
		return "Photo"
	case t.Has(domain.TypeVideo):
		return "Video"
	default:
		return t.String()
	}
}

// renderNode styles one list row
func renderNode(n domain.ObjectNode, selected bool) string {
	prefix := styles.Leaf
	if n.ChildCount > 0 {
		prefix = styles.HasChildren
	}

	text := NodeLabel(n)
	var styled string
	switch {
	case selected:
		styled = styles.NodeSelected.Render(text)
	case n.Type.IsRoot():
		styled = styles.NodeRoot.Foreground(styles.CategoryColor(n.Type)).Render(text)
	case n.Type.IsGrouping():
		styled = styles.NodeGroup.Render(text)
	default:
		styled = styles.NodeFile.Render(text)
	}
	return styles.TreeBranch.Render(prefix) + styled
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(styles.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(styles.MutedText.Render(text))
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString("\n")
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString("\n")
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
