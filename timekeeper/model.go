package timekeeper

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/louisponet/ma-timing/clock"
	"github.com/louisponet/ma-timing/timingdata"
)

var (
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedRow  = lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15"))
	plainRow     = lipgloss.NewStyle()
	anomalyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// tickMsg drives the poll loop: every tick the model asks the TimeKeeper to
// discover new timers and drain whatever is waiting on the rings already
// tracked.
type tickMsg time.Time

// Model is the bubbletea model for the live dashboard. The terminal-facing
// concerns (layout, key handling, redraw cadence) live here; TimeKeeper
// itself knows nothing about rendering.
type Model struct {
	keeper   *TimeKeeper
	selected int
	width    int
	height   int
}

// NewModel wraps a TimeKeeper for rendering.
func NewModel(k *TimeKeeper) Model {
	return Model{keeper: k}
}

func tickCmd(interval time.Duration) tea.Cmd {
	// The polling cadence is interval/50, and every tick both drains the
	// rings and is followed by a redraw: frequent enough that a fast
	// producer can't outrun consumption between two renders.
	step := interval / 50
	if step <= 0 {
		step = time.Millisecond
	}
	return tea.Tick(step, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init kicks off the first poll tick.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.keeper.cfg.ReportInterval)
}

// Update handles key presses and poll ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if d := m.keeper.TimerData(m.selected); d != nil {
				d.Stacked = !d.Stacked
			}
			return m, nil
		case "down", "j":
			n := len(m.keeper.timers)
			if n > 0 {
				m.selected = (m.selected + 1) % n
			}
			return m, nil
		case "up", "k":
			n := len(m.keeper.timers)
			if n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
			return m, nil
		}
		return m, nil

	case tickMsg:
		m.keeper.Discover()
		m.keeper.DrainOnce()
		return m, tickCmd(m.keeper.cfg.ReportInterval)
	}
	return m, nil
}

// View renders the timer list on the left and the selected timer's
// latency/business reports on the right.
func (m Model) View() string {
	names := m.keeper.Names()
	if len(names) == 0 {
		return borderStyle.Render("waiting for timers to appear under " + m.keeper.cfg.Dir + " ...")
	}
	if m.selected >= len(names) {
		m.selected = 0
	}

	var list strings.Builder
	list.WriteString(titleStyle.Render("Timers") + "\n")
	for i, name := range names {
		row := plainRow
		if i == m.selected {
			row = selectedRow
		}
		list.WriteString(row.Render(name) + "\n")
	}
	left := borderStyle.Width(24).Render(list.String())

	data := m.keeper.TimerData(m.selected)
	right := borderStyle.Render(renderTimerData(data))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderTimerData(d *timingdata.TimerData) string {
	if d == nil {
		return ""
	}
	latency := renderSummary(d.Name, d.Latency.Report())
	business := renderSummary(d.Name, d.Business.Report())
	if d.Stacked {
		return lipgloss.JoinVertical(lipgloss.Left, latency, business)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, latency, business)
}

func renderSummary(name string, s timingdata.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Report for %s\n", s.Title, name)
	fmt.Fprintf(&b, "msgs: %s (%.2f msg/ms)\n", humanize.Comma(int64(s.NMessages)), s.MsgPerMs)
	fmt.Fprintf(&b, "avg: %s\n", s.Avg)
	fmt.Fprintf(&b, "median: %s\n", s.Median)
	fmt.Fprintf(&b, "min: %s\n", s.Min)
	fmt.Fprintf(&b, "max: %s\n", s.Max)
	if s.Anomalous {
		fmt.Fprintf(&b, "%s\n", anomalyStyle.Render(fmt.Sprintf("anomaly: z-score %.1f", s.ZScore)))
	}
	b.WriteString(sparkline(s.Averages))
	return b.String()
}

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// sparkline renders a rolling window of Nanos as a compact bar chart, the
// terminal-friendly equivalent of the chart widget a richer TUI toolkit
// would draw as a full axis-and-dataset plot.
func sparkline(vs []clock.Nanos) string {
	if len(vs) == 0 {
		return ""
	}
	var min, max uint64
	min = vs[0].Uint64()
	max = min
	for _, v := range vs {
		if n := v.Uint64(); n < min {
			min = n
		} else if n > max {
			max = n
		}
	}
	span := max - min
	var b strings.Builder
	for _, v := range vs {
		if span == 0 {
			b.WriteRune(sparkBars[0])
			continue
		}
		idx := (v.Uint64() - min) * uint64(len(sparkBars)-1) / span
		b.WriteRune(sparkBars[idx])
	}
	return b.String()
}
