package styles

import (
	"github.com/charmbracelet/lipgloss"

	"mediagraph/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Category colors
	MusicColor    = lipgloss.Color("#EC4899") // Pink
	PhotoColor    = lipgloss.Color("#F59E0B") // Amber
	VideoColor    = lipgloss.Color("#60A5FA") // Blue
	SaveDataColor = lipgloss.Color("#34D399") // Emerald

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Node styles
	NodeRoot = lipgloss.NewStyle().
			Bold(true)

	NodeGroup = lipgloss.NewStyle().
			Foreground(Secondary)

	NodeFile = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// List indicators
	TreeBranch  = lipgloss.NewStyle().Foreground(Muted)
	HasChildren = "▶ "
	Leaf        = "  "

	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// CategoryColor returns the color of the category a node belongs to
func CategoryColor(t domain.ObjectType) lipgloss.Color {
	switch {
	case t.Has(domain.TypeMusic):
		return MusicColor
	case t.Has(domain.TypePhoto):
		return PhotoColor
	case t.Has(domain.TypeVideo):
		return VideoColor
	case t.Has(domain.TypeSaveData):
		return SaveDataColor
	default:
		return Primary
	}
}
