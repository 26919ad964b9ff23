package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// NewConfigInput creates the text input used for both runtime settings.
func NewConfigInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "

	return ti
}

// NewLogTable creates the request log table.
func NewLogTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 19},
		{Title: "IP", Width: 16},
		{Title: "Method", Width: 7},
		{Title: "Endpoint", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateLogRows fills the table with the latest entries, newest at the bottom.
func UpdateLogRows(t table.Model, entries []types.RequestLogEntry) table.Model {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.Time, e.Origin, e.Method, e.Endpoint})
	}

	t.SetRows(rows)

	return t
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Argo Bridge - Server Monitor"))
	s.WriteString("\n\n")

	s.WriteString(m.row("Status", m.statusText()))
	s.WriteString(m.row("Requests/min", m.valueOrPlaceholder(strconv.FormatInt(m.last.RequestsPerMinute, 10))))
	s.WriteString(m.row("Total requests", m.valueOrPlaceholder(strconv.FormatInt(m.last.TotalRequests, 10))))
	s.WriteString(m.row("Ping (last/avg)", m.pingText()))
	s.WriteString(m.row("Filter window", m.valueOrPlaceholder(formatInt(m.last.FilterWindowDays)+" days")))
	s.WriteString(m.row("Allow-list", m.allowListText()))
	s.WriteString(m.row("Public IP", m.publicIPText()))

	if m.versionWarning != "" {
		s.WriteString(ErrorStyle.Render("Version warning: " + m.versionWarning))
		s.WriteString("\n")
	}

	if m.Blocked() {
		s.WriteString(ErrorStyle.Render(errors.MessageOf(m.pollErr) + " (add this machine to the allow-list)"))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(TitleStyle.Render("Recent requests"))
	s.WriteString("\n")

	if !m.connected {
		s.WriteString(Placeholder)
		s.WriteString("\n")
	} else if len(m.last.RecentLog) == 0 {
		s.WriteString("No requests yet\n")
	} else {
		s.WriteString(m.logTable.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")

	switch m.mode {
	case ModeEditWindow:
		s.WriteString(TitleStyle.Render("Set filter window (days)"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Enter: apply | Esc: cancel"))
	case ModeEditAllowList:
		s.WriteString(TitleStyle.Render("Set allow-list (comma-separated IPs)"))
		s.WriteString("\n")
		s.WriteString(m.input.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Enter: apply | Esc: cancel"))
	default:
		if m.notice != "" {
			if m.noticeIsError {
				s.WriteString(ErrorStyle.Render(m.notice))
			} else {
				s.WriteString(m.notice)
			}

			s.WriteString("\n")
		}

		s.WriteString(HelpStyle.Render(m.helpText()))
	}

	return s.String()
}

func (m Model) row(label, value string) string {
	return LabelStyle.Render(label+":") + value + "\n"
}

func (m Model) statusText() string {
	if m.Blocked() {
		return DisconnectedStyle.Render("blocked by allow-list")
	}

	if !m.connected {
		return DisconnectedStyle.Render("disconnected")
	}

	return ConnectedStyle.Render(m.last.State)
}

func (m Model) valueOrPlaceholder(value string) string {
	if !m.connected {
		return Placeholder
	}

	return value
}

func (m Model) pingText() string {
	if !m.connected || len(m.pings) == 0 {
		return Placeholder
	}

	return fmt.Sprintf("%s / %s", FormatPing(m.LastPing()), FormatPing(m.AveragePing()))
}

func (m Model) allowListText() string {
	if !m.connected {
		return Placeholder
	}

	if len(m.last.AllowList) == 0 {
		return "(empty, all origins allowed)"
	}

	return joinList(m.last.AllowList)
}

func (m Model) publicIPText() string {
	switch {
	case m.publicIP != "":
		return m.publicIP
	case m.publicIPErr != nil:
		return "unavailable"
	default:
		return "looking up..."
	}
}

func (m Model) helpText() string {
	if m.controller == nil {
		return "c: copy public IP | q: quit | read-only"
	}

	return "w: filter window | a: allow-list | c: copy public IP | q: quit"
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func joinList(list []string) string {
	return strings.Join(list, ", ")
}
