// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/HexapodBionik/Elkapod/pkg/comm"
	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

var (
	tuiInterval time.Duration
	tuiADC      bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live telemetry dashboard",
	Long: `Show a live dashboard of Hardware Hexapod Controller telemetry.

The dashboard polls the controller at the configured interval and displays
the latest board temperature and supply voltage together with the protocol
version status and a rolling event log. ADC polling is off unless --adc is
given.

Press 'q' to quit, 'i' to trigger an immediate version check.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().DurationVar(&tuiInterval, "interval", time.Second, "Telemetry poll interval")
	tuiCmd.Flags().BoolVar(&tuiADC, "adc", false, "Poll supply voltage too")
}

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Messages
type dashTickMsg time.Time
type readingMsg struct {
	reading hhc.Reading
}
type infoReportMsg struct {
	report hhc.InfoReport
}
type pollErrMsg struct {
	what string
	err  error
}

type dashModel struct {
	connInfo      string
	pollADC       bool
	lastTemp      *hhc.Reading
	lastVolt      *hhc.Reading
	lastInfo      *hhc.InfoReport
	eventLog      []eventLogEntry
	maxLogEntries int
	exchanges     int
	errors        int
	width         int
	height        int
	quitting      bool
	infoRequests  chan<- struct{}
	waitSpinner   spinner.Model
}

func initialDashModel(connInfo string, pollADC bool, infoRequests chan<- struct{}) dashModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	return dashModel{
		connInfo:      connInfo,
		pollADC:       pollADC,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
		infoRequests:  infoRequests,
		waitSpinner:   s,
	}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(
		dashTickCmd(),
		m.waitSpinner.Tick,
		tea.EnterAltScreen,
	)
}

func dashTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "i":
			// Non-blocking: a pending request is as good as two.
			select {
			case m.infoRequests <- struct{}{}:
			default:
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashTickMsg:
		return m, dashTickCmd()

	case readingMsg:
		m.exchanges++
		switch msg.reading.Kind {
		case hhc.ReadingTemperature:
			m.lastTemp = &msg.reading
		case hhc.ReadingVoltage:
			m.lastVolt = &msg.reading
		}

	case infoReportMsg:
		m.exchanges++
		m.lastInfo = &msg.report
		if msg.report.Status.IsError() {
			m.errors++
			m.addLogEntry(msg.report.Message, true)
		} else if msg.report.Status.IsWarning() {
			m.addLogEntry(msg.report.Message, false)
		} else {
			m.addLogEntry(fmt.Sprintf("Version check OK (remote %s)", msg.report.Remote), false)
		}

	case pollErrMsg:
		m.errors++
		m.addLogEntry(fmt.Sprintf("%s failed: %v", msg.what, msg.err), true)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.waitSpinner, cmd = m.waitSpinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *dashModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m dashModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("ELKAPOD - TELEMETRY DASHBOARD"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Press 'q' to quit, 'i' for version check",
		m.connInfo)))
	s.WriteString("\n\n")

	// Link status
	switch {
	case m.lastInfo == nil:
		s.WriteString(m.waitSpinner.View())
		s.WriteString(warningStyle.Render("Waiting for version check..."))
	case m.lastInfo.Status.IsError():
		s.WriteString(errorStyle.Render("✗ " + m.lastInfo.Message))
	case m.lastInfo.Status.IsWarning():
		s.WriteString(warningStyle.Render("⚠ " + m.lastInfo.Message))
	default:
		s.WriteString(valueStyle.Render(fmt.Sprintf("✓ Protocol %s (local %s)",
			m.lastInfo.Remote, m.lastInfo.Local)))
	}
	s.WriteString("\n\n")

	// Latest telemetry
	telemetryContent := strings.Builder{}
	if m.lastTemp != nil {
		age := time.Since(m.lastTemp.Timestamp).Round(100 * time.Millisecond)
		telemetryContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Temperature:"),
			valueStyle.Render(fmt.Sprintf("%.3f %s", m.lastTemp.Value, m.lastTemp.Kind.Unit())),
			headerStyle.Render("age:"), headerStyle.Render(age.String()),
		))
	} else {
		telemetryContent.WriteString(headerStyle.Render("Temperature: (no data yet)"))
		telemetryContent.WriteString("\n")
	}
	if m.pollADC {
		if m.lastVolt != nil {
			age := time.Since(m.lastVolt.Timestamp).Round(100 * time.Millisecond)
			telemetryContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
				labelStyle.Render("Voltage:"),
				valueStyle.Render(fmt.Sprintf("%.3f %s", m.lastVolt.Value, m.lastVolt.Kind.Unit())),
				headerStyle.Render("age:"), headerStyle.Render(age.String()),
			))
		} else {
			telemetryContent.WriteString(headerStyle.Render("Voltage: (no data yet)"))
			telemetryContent.WriteString("\n")
		}
	}
	telemetryContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Exchanges:"), valueStyle.Render(fmt.Sprintf("%d", m.exchanges)),
		labelStyle.Render("Errors:"), func() string {
			if m.errors > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.errors))
			}
			return valueStyle.Render("0")
		}(),
	))
	s.WriteString(boxStyle.Render(telemetryContent.String()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 14
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

func runTUI(cmd *cobra.Command, args []string) error {
	session, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	infoRequests := make(chan struct{}, 1)
	m := initialDashModel(connInfo, tuiADC, infoRequests)
	p := tea.NewProgram(m)

	done := make(chan struct{})
	defer close(done)

	// All bus traffic happens in the poll goroutine; the TUI only renders
	// what arrives via p.Send.
	go pollSession(session, p, infoRequests, done)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}

func pollSession(session *comm.Session, p *tea.Program, infoRequests <-chan struct{}, done <-chan struct{}) {
	// Initial version check before the steady poll.
	sendInfo(session, p)

	ticker := time.NewTicker(tuiInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-infoRequests:
			sendInfo(session, p)
		case <-ticker.C:
			reading, err := session.Temperature()
			if err != nil {
				p.Send(pollErrMsg{what: "temperature poll", err: err})
			} else {
				p.Send(readingMsg{reading: reading})
			}

			if tuiADC {
				reading, err := session.Voltage()
				if err != nil {
					p.Send(pollErrMsg{what: "adc poll", err: err})
				} else {
					p.Send(readingMsg{reading: reading})
				}
			}
		}
	}
}

func sendInfo(session *comm.Session, p *tea.Program) {
	report, err := session.Info()
	if err != nil {
		p.Send(pollErrMsg{what: "info exchange", err: err})
		return
	}
	p.Send(infoReportMsg{report: report})
}
