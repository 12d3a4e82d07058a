package style

import "github.com/charmbracelet/lipgloss"

// Color initializes a lipgloss.Color from a string value.
func Color(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI 8-color palette.
var (
	Red    = Color("1")
	Green  = Color("2")
	Yellow = Color("3")
	Blue   = Color("4")
	Purple = Color("5")
	Cyan   = Color("6")
	White  = Color("7")
	Black  = Color("8")
)

// Accents used by the control panel.
var (
	Accent = Color("#cba6f7")
	Subtle = Color("#6c7086")
	Orange = Color("#ffb703")
	Border = Color("#313244")
)
