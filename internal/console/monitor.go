package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/openhmi/hmilink/internal/host"
	"github.com/openhmi/hmilink/internal/protocol"
)

// eventMsg carries one decoded device event into the update loop.
type eventMsg struct {
	event host.Event
	at    time.Time
}

// closedMsg signals that the event stream ended (link lost).
type closedMsg struct{}

// tickMsg drives the periodic stats refresh.
type tickMsg time.Time

const statsInterval = 500 * time.Millisecond

// Monitor is the live event view: a scrolling log of decoded device
// events with a frame-counter footer.
type Monitor struct {
	client  *host.Client
	address string

	viewport viewport.Model
	lines    []string
	stats    protocol.Stats
	lost     bool
	ready    bool
	width    int
	height   int
}

// NewMonitor creates a monitor for an already-connected client.
func NewMonitor(client *host.Client, address string) *Monitor {
	w, h := GetTerminalSize()
	return &Monitor{
		client:  client,
		address: address,
		width:   w,
		height:  h,
	}
}

// Init implements tea.Model
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.tick())
}

func (m *Monitor) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.client.Events()
		if !ok {
			return closedMsg{}
		}
		return eventMsg{event: ev, at: time.Now()}
	}
}

func (m *Monitor) tick() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			m.lines = nil
			m.refreshContent()
			return m, nil
		case "p":
			// Fire-and-forget liveness check; the result shows up as a
			// log line.
			return m, m.pingCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case eventMsg:
		m.appendLine(renderEvent(msg.at, msg.event))
		return m, m.waitForEvent()

	case pingResultMsg:
		m.appendLine(renderPing(time.Now(), msg.rtt, msg.err))
		return m, nil

	case closedMsg:
		m.lost = true
		m.appendLine(TimestampStyle.Render(time.Now().Format("15:04:05.000")) +
			"  " + StatsErrStyle.Render("connection lost"))
		return m, nil

	case tickMsg:
		m.stats = m.client.Stats()
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

type pingResultMsg struct {
	rtt time.Duration
	err error
}

func (m *Monitor) pingCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		start := time.Now()
		err := client.Ping(context.Background())
		return pingResultMsg{rtt: time.Since(start), err: err}
	}
}

func (m *Monitor) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshContent()
}

func (m *Monitor) refreshContent() {
	if !m.ready {
		m.layout()
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Monitor) layout() {
	headerHeight := lipgloss.Height(m.headerView())
	footerHeight := lipgloss.Height(m.footerView())
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View implements tea.Model
func (m *Monitor) View() string {
	if !m.ready {
		return "connecting..."
	}
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m *Monitor) headerView() string {
	title := TitleStyle.Render("EVENT MONITOR")
	addr := AddressStyle.Render(m.address)
	content := lipgloss.JoinVertical(lipgloss.Left, title, addr)
	return HeaderBorderStyle(m.width).Render(content)
}

func (m *Monitor) footerView() string {
	ok := fmt.Sprintf("frames ok: %d", m.stats.FramesOK)
	crc := fmt.Sprintf("crc err: %d", m.stats.FramesCRCErr)
	lenErr := fmt.Sprintf("len err: %d", m.stats.FramesLenErr)
	if m.stats.FramesCRCErr > 0 {
		crc = StatsErrStyle.Render(crc)
	}
	if m.stats.FramesLenErr > 0 {
		lenErr = StatsErrStyle.Render(lenErr)
	}
	stats := StatsStyle.Render(ok + "   " + crc + "   " + lenErr)
	if m.lost {
		stats += "   " + StatsErrStyle.Render("LINK DOWN")
	}
	help := HelpStyle.Render("p ping · c clear · q quit")
	return stats + "\n" + help
}

// renderEvent formats one event log line.
func renderEvent(at time.Time, ev host.Event) string {
	ts := TimestampStyle.Render(at.Format("15:04:05.000"))
	name := EventNameStyle.Render(fmt.Sprintf("%-15s", protocol.CommandName(ev.Type())))

	var detail string
	switch e := ev.(type) {
	case *host.ButtonPressed:
		detail = fmt.Sprintf("widget=%d", e.Widget)
	case *host.SliderChanged:
		detail = fmt.Sprintf("widget=%d value=%d", e.Widget, e.Value)
	case *host.PageChanged:
		detail = fmt.Sprintf("page=%d", e.Page)
	case *host.Touch:
		detail = fmt.Sprintf("x=%d y=%d", e.X, e.Y)
	default:
		detail = ev.String()
	}

	return ts + "  " + name + " " + EventDetailStyle.Render(detail)
}

// renderPing formats the result of an interactive ping.
func renderPing(at time.Time, rtt time.Duration, err error) string {
	ts := TimestampStyle.Render(at.Format("15:04:05.000"))
	if err != nil {
		return ts + "  " + StatsErrStyle.Render("ping failed: "+err.Error())
	}
	return ts + "  " + EventNameStyle.Render(fmt.Sprintf("%-15s", "ping")) +
		" " + EventDetailStyle.Render(fmt.Sprintf("rtt=%s", rtt.Round(time.Microsecond)))
}

// Run connects the monitor to the terminal and blocks until the user
// quits.
func Run(client *host.Client, address string) error {
	p := tea.NewProgram(NewMonitor(client, address), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
