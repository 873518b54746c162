package focus

import "github.com/charmbracelet/lipgloss"

// Colors used in the focus TUI.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the focus TUI.
type Styles struct {
	Title         lipgloss.Style
	Unit          lipgloss.Style
	UnitDone      lipgloss.Style
	Timer         lipgloss.Style
	TimerPaused   lipgloss.Style
	Progress      lipgloss.Style
	Badge         lipgloss.Style
	Break         lipgloss.Style
	ParentConfirm lipgloss.Style
	Popup         lipgloss.Style
	ChatRole      lipgloss.Style
	ChatBody      lipgloss.Style
	Help          lipgloss.Style
	Error         lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),
		Unit: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")),
		UnitDone: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true),
		Timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess),
		TimerPaused: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning),
		Progress: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1),
		Break: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(1, 2),
		ParentConfirm: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2),
		ChatRole: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		ChatBody: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
	}
}
