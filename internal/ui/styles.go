package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style

	// Confidence styles
	ConfidenceHigh   lipgloss.Style
	ConfidenceMedium lipgloss.Style
	ConfidenceLow    lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Level     lipgloss.Style
	Label     lipgloss.Style
	Path      lipgloss.Style
	Separator lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconError   string
	IconWarning string
	IconInfo    string
	IconSuccess string
	IconBullet  string
}

// NewStyles creates a new Styles instance
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))    // Red
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Yellow
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))    // Blue
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green

		s.ConfidenceHigh = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // Green
		s.ConfidenceMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))          // Yellow
		s.ConfidenceLow = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))              // Red

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")) // White bold
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))          // Gray
		s.Level = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))  // Cyan bold
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))              // Gray
		s.Path = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))               // Gray
		s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))          // Gray

		s.IconError = "\u2717"   // ✗
		s.IconWarning = "\u26a0" // ⚠
		s.IconInfo = "\u2139"    // ℹ
		s.IconSuccess = "\u2713" // ✓
		s.IconBullet = "\u2022"  // •
	} else {
		// No-op styles for non-TTY (plain text output)
		s.Error = lipgloss.NewStyle()
		s.Warning = lipgloss.NewStyle()
		s.Info = lipgloss.NewStyle()
		s.Success = lipgloss.NewStyle()

		s.ConfidenceHigh = lipgloss.NewStyle()
		s.ConfidenceMedium = lipgloss.NewStyle()
		s.ConfidenceLow = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Level = lipgloss.NewStyle()
		s.Label = lipgloss.NewStyle()
		s.Path = lipgloss.NewStyle()
		s.Separator = lipgloss.NewStyle()

		// ASCII fallback icons
		s.IconError = "ERROR:"
		s.IconWarning = "WARN:"
		s.IconInfo = "INFO:"
		s.IconSuccess = "OK:"
		s.IconBullet = "-"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Confidence returns the style for a confidence value
func (s *Styles) Confidence(c float64) lipgloss.Style {
	switch {
	case c >= 0.9:
		return s.ConfidenceHigh
	case c >= 0.7:
		return s.ConfidenceMedium
	default:
		return s.ConfidenceLow
	}
}
