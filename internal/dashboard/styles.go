package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true)

	HelpStyle = lipgloss.NewStyle().Faint(true)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	ConnectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	DisconnectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	LabelStyle = lipgloss.NewStyle().Width(18)
)

// Placeholder is shown for every value while the server is unreachable.
const Placeholder = "---"

// FormatPing renders a round trip in milliseconds.
func FormatPing(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Milliseconds())
}
