// Package tui provides the terminal user interface for wayfarer.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette holds the colors for a theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Event       lipgloss.Color
	EventAlt    lipgloss.Color
	Warning     lipgloss.Color
	Success     lipgloss.Color
	Danger      lipgloss.Color
}

// Catppuccin-flavored palettes, keyed by theme name.
var palettes = map[string]Palette{
	"mocha": {
		Bg:          lipgloss.Color("#1e1e2e"),
		BgHighlight: lipgloss.Color("#45475a"),
		Fg:          lipgloss.Color("#cdd6f4"),
		FgMuted:     lipgloss.Color("#6c7086"),
		Accent:      lipgloss.Color("#89b4fa"),
		Event:       lipgloss.Color("#313244"),
		EventAlt:    lipgloss.Color("#585b70"),
		Warning:     lipgloss.Color("#f9e2af"),
		Success:     lipgloss.Color("#a6e3a1"),
		Danger:      lipgloss.Color("#f38ba8"),
	},
	"frappe": {
		Bg:          lipgloss.Color("#303446"),
		BgHighlight: lipgloss.Color("#51576d"),
		Fg:          lipgloss.Color("#c6d0f5"),
		FgMuted:     lipgloss.Color("#838ba7"),
		Accent:      lipgloss.Color("#8caaee"),
		Event:       lipgloss.Color("#414559"),
		EventAlt:    lipgloss.Color("#626880"),
		Warning:     lipgloss.Color("#e5c890"),
		Success:     lipgloss.Color("#a6d189"),
		Danger:      lipgloss.Color("#e78284"),
	},
	"latte": {
		Bg:          lipgloss.Color("#eff1f5"),
		BgHighlight: lipgloss.Color("#bcc0cc"),
		Fg:          lipgloss.Color("#4c4f69"),
		FgMuted:     lipgloss.Color("#8c8fa1"),
		Accent:      lipgloss.Color("#1e66f5"),
		Event:       lipgloss.Color("#ccd0da"),
		EventAlt:    lipgloss.Color("#acb0be"),
		Warning:     lipgloss.Color("#df8e1d"),
		Success:     lipgloss.Color("#40a02b"),
		Danger:      lipgloss.Color("#d20f39"),
	},
}

// DefaultTheme picks a theme matching the terminal background.
func DefaultTheme() string {
	if termenv.HasDarkBackground() {
		return "frappe"
	}
	return "latte"
}

// PaletteFor returns the palette for the named theme, falling back to the
// terminal default.
func PaletteFor(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[DefaultTheme()]
}

// Styles holds all lipgloss styles for the TUI, derived from a palette.
type Styles struct {
	palette Palette

	Title       lipgloss.Style
	DayHeader   lipgloss.Style
	TodayHeader lipgloss.Style
	TimeColumn  lipgloss.Style

	Event         lipgloss.Style
	EventAlt      lipgloss.Style
	EventDragged  lipgloss.Style
	CellHighlight lipgloss.Style
	BankItem      lipgloss.Style
	BankSelected  lipgloss.Style
	BankHeader    lipgloss.Style
	MonthOverflow lipgloss.Style
	OutOfMonthDay lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	FooterHint    lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(themeName string) *Styles {
	p := PaletteFor(themeName)
	return &Styles{
		palette: p,

		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		DayHeader:   lipgloss.NewStyle().Bold(true).Foreground(p.Fg),
		TodayHeader: lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Underline(true),
		TimeColumn:  lipgloss.NewStyle().Foreground(p.FgMuted),

		Event:         lipgloss.NewStyle().Background(p.Event).Foreground(p.Fg),
		EventAlt:      lipgloss.NewStyle().Background(p.EventAlt).Foreground(p.Fg),
		EventDragged:  lipgloss.NewStyle().Background(p.Accent).Foreground(p.Bg).Bold(true),
		CellHighlight: lipgloss.NewStyle().Background(p.BgHighlight),
		BankItem:      lipgloss.NewStyle().Foreground(p.Fg),
		BankSelected:  lipgloss.NewStyle().Background(p.Accent).Foreground(p.Bg),
		BankHeader:    lipgloss.NewStyle().Bold(true).Foreground(p.FgMuted),
		MonthOverflow: lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true),
		OutOfMonthDay: lipgloss.NewStyle().Foreground(p.FgMuted),
		StatusInfo:    lipgloss.NewStyle().Foreground(p.Fg),
		StatusSuccess: lipgloss.NewStyle().Foreground(p.Success),
		StatusWarning: lipgloss.NewStyle().Foreground(p.Warning),
		StatusError:   lipgloss.NewStyle().Foreground(p.Danger),
		FooterHint:    lipgloss.NewStyle().Foreground(p.FgMuted),
	}
}
