// Package tui is the interactive terminal front end: pick a scenario,
// adjust the culture conditions, watch the batch play out, compare runs.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/bioproc/chosim/internal/config"
	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
	"github.com/bioproc/chosim/internal/session"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var presetInfo = map[string]string{
	"baseline":         "standard seeding at optimum",
	"high-density":     "heavy inoculum, extra glucose",
	"mild-hypothermia": "33C growth-arrest shift",
	"heat-stress":      "42C thermal challenge",
	"acidosis":         "culture drifting acidic",
	"hypoxia":          "oxygen-starved sparging",
	"starvation":       "low initial glucose",
}

type field struct {
	name string
	unit string
	step float64
}

var fields = []field{
	{"glucose", "g/L", 1.0},
	{"seed vcd", "1e6 c/mL", 0.1},
	{"temperature", "C", 0.5},
	{"ph", "", 0.1},
	{"oxygen", "% DO", 5.0},
}

var seriesNames = []string{"cells", "viability", "glucose", "titer"}

type state int

const (
	stateMenu state = iota
	stateForm
	stateRun
	stateHistory
)

type model struct {
	state state

	sim    *ferment.Simulator
	ledger *session.Ledger

	presets []string
	cursor  int

	scenario    string
	values      []float64
	fieldCursor int
	editing     bool
	editBuf     string

	tr      *ferment.Trajectory
	kpis    kpi.Summary
	shown   int
	playing bool
	paused  bool
	speed   float64
	series  int

	width  int
	height int
}

// NewApp builds the interactive model around a ready simulator and the
// session ledger runs are recorded into.
func NewApp(sim *ferment.Simulator, ledger *session.Ledger) *model {
	return &model{
		state:    stateMenu,
		sim:      sim,
		ledger:   ledger,
		presets:  config.ListPresets(),
		scenario: "baseline",
		values:   paramValues(config.GetPreset("baseline").Params()),
		speed:    4.0,
		width:    80,
		height:   24,
	}
}

func paramValues(p ferment.RunParams) []float64 {
	return []float64{p.InitialGlucose, p.InitialVCD, p.Temperature, p.PH, p.DissolvedOxygen}
}

func paramsFrom(vals []float64) ferment.RunParams {
	return ferment.RunParams{
		InitialGlucose:  vals[0],
		InitialVCD:      vals[1],
		Temperature:     vals[2],
		PH:              vals[3],
		DissolvedOxygen: vals[4],
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateRun || m.tr == nil {
			return m, nil
		}
		if m.playing && !m.paused {
			m.shown += int(m.speed)
			if m.shown >= m.tr.Len()-1 {
				m.shown = m.tr.Len() - 1
				m.playing = false
			}
		}
		if m.playing {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateForm:
		return m.formKey(msg)
	case stateRun:
		return m.runKey(msg)
	case stateHistory:
		return m.historyKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "h":
		m.state = stateHistory
	case "enter", " ":
		m.scenario = m.presets[m.cursor]
		m.values = paramValues(config.GetPreset(m.scenario).Params())
		m.fieldCursor = 0
		m.state = stateForm
	}
	return m, nil
}

func (m model) formKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.values[m.fieldCursor] = val
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%.2f", m.values[m.fieldCursor])
	case "left", "h":
		m.values[m.fieldCursor] -= fields[m.fieldCursor].step
	case "right", "l":
		m.values[m.fieldCursor] += fields[m.fieldCursor].step
	case "r", "s":
		m.run()
		m.state = stateRun
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) runKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.playing = false
		m.state = stateForm
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.shown = 0
		m.playing = true
		m.paused = false
		return m, tea.Batch(tea.ClearScreen, tick())
	case "f":
		m.shown = m.tr.Len() - 1
		m.playing = false
	case "tab", "right", "l":
		m.series = (m.series + 1) % len(seriesNames)
	case "left":
		m.series = (m.series + len(seriesNames) - 1) % len(seriesNames)
	case "h":
		m.playing = false
		m.state = stateHistory
	case "+", "=":
		m.speed = math.Min(m.speed*2, 32)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 1)
	}
	return m, nil
}

func (m model) historyKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
		return m, tea.ClearScreen
	case "c":
		m.ledger.Clear()
	}
	return m, nil
}

func (m *model) run() {
	p := paramsFrom(m.values)
	m.tr = m.sim.Simulate(p)
	m.kpis = kpi.Compute(m.tr)
	m.ledger.Add(m.scenario, p, m.kpis)
	m.shown = 0
	m.playing = true
	m.paused = false
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateForm:
		return m.viewForm()
	case stateRun:
		return m.viewRun()
	case stateHistory:
		return m.viewHistory()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("c h o s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-18s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-18s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   h history   q quit") + "\n")

	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.scenario) + "  " + dim.Render(presetInfo[m.scenario]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	for i, f := range fields {
		val := fmt.Sprintf("%8.2f", m.values[i])
		if m.editing && i == m.fieldCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.fieldCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-13s", f.name)) + magenta.Render(val) + " " + dim.Render(f.unit) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-13s", f.name)) + dim.Render(val) + " " + dimmer.Render(f.unit) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  r run  esc back") + "\n")

	return b.String()
}

func (m model) viewRun() string {
	if m.tr == nil || m.tr.Len() == 0 {
		return "\n      " + dim.Render("no trajectory") + "\n"
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	} else if !m.playing {
		statusIcon = cyan.Render("●")
		statusText = cyan.Render("complete")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, cyan.Render(m.scenario), statusText))

	row := m.tr.Rows[m.shown]
	duration := m.tr.Rows[m.tr.Len()-1].Time
	progress := 0.0
	if duration > 0 {
		progress = row.Time / duration
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.0fh/%.0fh", row.Time, duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("x%.0f", m.speed))))

	b.WriteString(m.chart())
	b.WriteString("\n")

	via := fmt.Sprintf("%.1f%%", row.Viability)
	viaStyled := green.Render(via)
	if row.Viability < 50 {
		viaStyled = red.Render(via)
	} else if row.Viability < 80 {
		viaStyled = yellow.Render(via)
	}
	b.WriteString("   " +
		dim.Render("glc=") + white.Render(fmt.Sprintf("%.2f", row.Glucose)) + "  " +
		dim.Render("vcd=") + white.Render(fmt.Sprintf("%.2f", row.VCD)) + "  " +
		dim.Render("tcd=") + white.Render(fmt.Sprintf("%.2f", row.TCD)) + "  " +
		dim.Render("via=") + viaStyled + "  " +
		dim.Render("titer=") + white.Render(fmt.Sprintf("%.2f", row.Titer)) + "\n")

	if !m.playing {
		b.WriteString("\n")
		b.WriteString("   " + dimmer.Render(strings.Repeat("─", 46)) + "\n")
		b.WriteString("   " + dim.Render("final titer   ") + green.Render(fmt.Sprintf("%8.2f ug/mL", m.kpis.FinalTiter)) + "\n")
		b.WriteString("   " + dim.Render("peak vcd      ") + white.Render(fmt.Sprintf("%8.2f 1e6 c/mL", m.kpis.MaxVCD)) + "\n")
		b.WriteString("   " + dim.Render("avg viability ") + white.Render(fmt.Sprintf("%8.2f %%", m.kpis.AvgViability)) + "\n")
		b.WriteString("   " + dim.Render("min viability ") + white.Render(fmt.Sprintf("%8.2f %%", m.kpis.MinViability)) + "\n")
	}

	b.WriteString("\n" + dim.Render("   tab series  space pause  ±speed  f finish  r replay  h history  esc back") + "\n")

	return b.String()
}

func (m model) chart() string {
	n := m.shown + 1
	cw := m.width - 14
	if cw < 50 {
		cw = 50
	}
	ch := m.height - 16
	if ch < 8 {
		ch = 8
	}
	if ch > 12 {
		ch = 12
	}

	var graph string
	switch m.series {
	case 0:
		graph = asciigraph.PlotMany(
			[][]float64{m.tr.VCDSeries()[:n], finite(m.tr.TCDSeries()[:n])},
			asciigraph.Height(ch),
			asciigraph.Width(cw),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Gray),
			asciigraph.Caption("cell density, 1e6 cells/mL"),
		)
		graph += "\n   " + green.Render("— viable") + "  " + dim.Render("— total")
	case 1:
		graph = asciigraph.Plot(m.tr.ViabilitySeries()[:n],
			asciigraph.Height(ch),
			asciigraph.Width(cw),
			asciigraph.Caption("viability, %"),
		)
	case 2:
		graph = asciigraph.Plot(m.tr.GlucoseSeries()[:n],
			asciigraph.Height(ch),
			asciigraph.Width(cw),
			asciigraph.Caption("glucose, g/L"),
		)
	default:
		graph = asciigraph.Plot(m.tr.TiterSeries()[:n],
			asciigraph.Height(ch),
			asciigraph.Width(cw),
			asciigraph.Caption("titer, ug/mL"),
		)
	}

	var b strings.Builder
	for _, line := range strings.Split(graph, "\n") {
		b.WriteString("   " + line + "\n")
	}
	b.WriteString("   " + dim.Render(fmt.Sprintf("[%d/%d] %s", m.series+1, len(seriesNames), seriesNames[m.series])) + "\n")
	return b.String()
}

// finite holds the last finite value when a series runs off to
// infinity, which total cell density can under absurd conditions.
// asciigraph cannot scale an infinite range.
func finite(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			if i > 0 {
				out[i] = out[i-1]
			}
			continue
		}
		out[i] = v
	}
	return out
}

func (m model) viewHistory() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render("session history") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	var table strings.Builder
	m.ledger.FprintComparison(&table)
	for _, line := range strings.Split(strings.TrimRight(table.String(), "\n"), "\n") {
		b.WriteString("   " + line + "\n")
	}

	if m.ledger.Len() >= 2 {
		b.WriteString("\n      " + cyan.Render("parameter correlations") + "\n\n")
		mtx := m.ledger.Correlation()

		head := fmt.Sprintf("   %-16s", "")
		for _, col := range mtx.ColLabels {
			head += fmt.Sprintf("%14s", col)
		}
		b.WriteString(dim.Render(head) + "\n")

		for i, rowLabel := range mtx.RowLabels {
			b.WriteString("   " + dim.Render(fmt.Sprintf("%-16s", rowLabel)))
			for j := range mtx.ColLabels {
				v := mtx.Coeffs[i][j]
				cell := fmt.Sprintf("%+14.2f", v)
				switch {
				case v >= 0.5:
					b.WriteString(green.Render(cell))
				case v <= -0.5:
					b.WriteString(red.Render(cell))
				default:
					b.WriteString(dim.Render(cell))
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      c clear   esc back") + "\n")

	return b.String()
}

// Run starts the interactive terminal session and blocks until quit.
func Run(sim *ferment.Simulator, ledger *session.Ledger) error {
	p := tea.NewProgram(NewApp(sim, ledger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
