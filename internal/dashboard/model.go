// Package dashboard is the terminal status display of the bridge server.
package dashboard

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// Display modes.
const (
	ModeStatus = iota
	ModeEditWindow
	ModeEditAllowList
)

const (
	// DefaultPollInterval is the status poll period.
	DefaultPollInterval = 2 * time.Second
	// DefaultPingHistory is the number of round trips kept for the average.
	DefaultPingHistory = 100
	// publicIPTimeout bounds the whole public IP lookup, retries included.
	publicIPTimeout = 10 * time.Second
)

// Controller changes the server's runtime configuration. Nil makes the dashboard read-only.
type Controller interface {
	SetFilterWindow(raw string) error
	SetAllowList(raw string) error
	FilterWindowDays() int
	AllowList() []string
}

// Options configures a Model.
type Options struct {
	PollInterval  time.Duration
	PingHistory   int
	ClientVersion string
	// Controller is nil when the dashboard runs against a remote server.
	Controller Controller
	// WriteClipboard defaults to the system clipboard.
	WriteClipboard func(text string) error
}

// Model is the Bubble Tea model of the status display.
type Model struct {
	poller         Poller
	resolver       IPResolver
	controller     Controller
	writeClipboard func(text string) error
	pollInterval   time.Duration
	pingHistory    int
	clientVersion  string

	mode     int
	input    textinput.Model
	logTable table.Model

	connected      bool
	last           types.MonitorResponse
	pings          []time.Duration
	pollErr        error
	publicIP       string
	publicIPErr    error
	notice         string
	noticeIsError  bool
	versionWarning string

	width  int
	height int
}

// NewModel creates a Model polling with poller. resolver may be nil to skip the public IP lookup.
func NewModel(poller Poller, resolver IPResolver, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.PingHistory <= 0 {
		opts.PingHistory = DefaultPingHistory
	}

	if opts.ClientVersion == "" {
		opts.ClientVersion = version.GetVersion()
	}

	if opts.WriteClipboard == nil {
		opts.WriteClipboard = clipboard.WriteAll
	}

	return Model{
		poller:         poller,
		resolver:       resolver,
		controller:     opts.Controller,
		writeClipboard: opts.WriteClipboard,
		pollInterval:   opts.PollInterval,
		pingHistory:    opts.PingHistory,
		clientVersion:  opts.ClientVersion,
		mode:           ModeStatus,
		input:          NewConfigInput(),
		logTable:       NewLogTable(),
		pings:          make([]time.Duration, 0, opts.PingHistory),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.lookupPublicIP())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode != ModeStatus {
			return m.updateEditing(msg)
		}

		return m.updateStatus(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logTable.SetWidth(msg.Width)

		return m, nil

	case pollMsg:
		m.applyPoll(msg)

		return m, m.scheduleTick()

	case tickMsg:
		return m, m.poll()

	case publicIPMsg:
		m.publicIP = msg.ip
		m.publicIPErr = msg.err

		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.setNotice(errors.MessageOf(msg.err), true)
		} else {
			m.setNotice("Public IP copied to clipboard", false)
		}

		return m, nil
	}

	if m.mode != ModeStatus {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) updateStatus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		return m, m.copyPublicIP()
	case "w":
		return m.startEditing(ModeEditWindow)
	case "a":
		return m.startEditing(ModeEditAllowList)
	}

	var cmd tea.Cmd
	m.logTable, cmd = m.logTable.Update(msg)

	return m, cmd
}

func (m Model) startEditing(mode int) (tea.Model, tea.Cmd) {
	if m.controller == nil {
		err := errors.New(errors.ErrCodeReadOnlyDisplay, "runtime settings are read-only when connected to a remote server")
		m.setNotice(err.Message, true)

		return m, nil
	}

	m.mode = mode
	m.notice = ""
	m.input.Reset()

	if mode == ModeEditWindow {
		m.input.Placeholder = "days, e.g. 365"
		m.input.SetValue(formatInt(m.controller.FilterWindowDays()))
	} else {
		m.input.Placeholder = "10.0.0.1, 10.0.0.2 (empty clears)"
		m.input.SetValue(joinList(m.controller.AllowList()))
	}

	m.input.CursorEnd()
	m.input.Focus()

	return m, textinput.Blink
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeStatus
		m.input.Blur()
		m.setNotice("Edit cancelled", false)

		return m, nil

	case "enter":
		var err error
		if m.mode == ModeEditWindow {
			err = m.controller.SetFilterWindow(m.input.Value())
		} else {
			err = m.controller.SetAllowList(m.input.Value())
		}

		if err != nil {
			// the store keeps the previous value
			m.setNotice(errors.MessageOf(err), true)
		} else if m.mode == ModeEditWindow {
			m.setNotice("Filter window set to "+formatInt(m.controller.FilterWindowDays())+" days", false)
		} else {
			m.setNotice("Allow-list updated", false)
		}

		m.mode = ModeStatus
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Model) applyPoll(msg pollMsg) {
	if msg.err != nil {
		m.connected = false
		m.pollErr = msg.err

		return
	}

	m.connected = true
	m.pollErr = nil
	m.last = msg.result.Response
	m.recordPing(msg.result.Ping)
	m.logTable = UpdateLogRows(m.logTable, msg.result.Response.RecentLog)

	if err := version.CheckVersionCompatibility(m.clientVersion, msg.result.ServerVersion); err != nil {
		m.versionWarning = errors.MessageOf(err)
	} else {
		m.versionWarning = ""
	}
}

func (m *Model) recordPing(ping time.Duration) {
	if len(m.pings) >= m.pingHistory {
		copy(m.pings, m.pings[1:])
		m.pings = m.pings[:len(m.pings)-1]
	}

	m.pings = append(m.pings, ping)
}

// LastPing returns the latest round trip, or 0 before the first successful poll.
func (m Model) LastPing() time.Duration {
	if len(m.pings) == 0 {
		return 0
	}

	return m.pings[len(m.pings)-1]
}

// AveragePing returns the mean of the kept round trips.
func (m Model) AveragePing() time.Duration {
	if len(m.pings) == 0 {
		return 0
	}

	var total time.Duration
	for _, p := range m.pings {
		total += p
	}

	return total / time.Duration(len(m.pings))
}

// Connected reports whether the last poll succeeded.
func (m Model) Connected() bool {
	return m.connected
}

// Blocked reports whether the last poll was refused by the server's allow-list.
func (m Model) Blocked() bool {
	return !m.connected && errors.HasCode(m.pollErr, errors.ErrCodeUnauthorized)
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

func (m Model) poll() tea.Cmd {
	poller := m.poller

	return func() tea.Msg {
		result, err := poller.Fetch(context.Background())

		return pollMsg{result: result, err: err}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) lookupPublicIP() tea.Cmd {
	if m.resolver == nil {
		return nil
	}

	resolver := m.resolver

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publicIPTimeout)
		defer cancel()

		ip, err := resolver.Lookup(ctx)

		return publicIPMsg{ip: ip, err: err}
	}
}

func (m Model) copyPublicIP() tea.Cmd {
	if m.publicIP == "" {
		return func() tea.Msg {
			return clipboardMsg{err: errors.New(errors.ErrCodePublicIPUnavailable, "public IP is not available")}
		}
	}

	ip, write := m.publicIP, m.writeClipboard

	return func() tea.Msg {
		if err := write(ip); err != nil {
			return clipboardMsg{err: errors.Wrap(errors.ErrCodeClipboardFailed, "could not copy to clipboard", err)}
		}

		return clipboardMsg{err: nil}
	}
}
