package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/policy-game/internal/advisor"
	"github.com/tatianab/policy-game/internal/engine"
	"github.com/tatianab/policy-game/internal/models"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateGameOver
)

const maxNews = 5

type lever int

const (
	leverTax lever = iota
	leverSpending
	leverRate
	leverCount
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Advance key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Advance, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Advance, k.Reset, k.Quit}}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "choose lever")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "adjust")),
	Right:   key.NewBinding(key.WithKeys("right", "l")),
	Advance: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "end quarter")),
	Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

type model struct {
	state    sessionState
	engine   *engine.Engine
	advisor  advisor.Advisor
	policy   models.PolicyInput
	selected lever
	news     []string
	report   *advisor.Report
	outcome  engine.Outcome
	err      error

	viewport viewport.Model
	gauge    progress.Model
	help     help.Model
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2563EB")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())
)

func NewModel(eng *engine.Engine, adv advisor.Advisor) model {
	if adv == nil {
		adv = advisor.Rules{}
	}
	m := model{
		state:    statePlaying,
		engine:   eng,
		advisor:  adv,
		policy:   models.PolicyInput{TaxRate: eng.Current().TaxRate},
		news:     []string{advisor.Greeting},
		viewport: viewport.New(60, 20),
		gauge:    progress.New(progress.WithGradient("#F9A8D4", "#EC4899"), progress.WithoutPercentage()),
		help:     help.New(),
	}
	m.viewport.SetContent(m.renderHistory())
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

type commentaryMsg struct {
	period int
	text   string
	err    error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Reset):
			m.reset()
			return m, nil
		}
		if m.state != statePlaying {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			m.selected = (m.selected + leverCount - 1) % leverCount
		case key.Matches(msg, keys.Down):
			m.selected = (m.selected + 1) % leverCount
		case key.Matches(msg, keys.Left):
			m.adjust(-1)
		case key.Matches(msg, keys.Right):
			m.adjust(1)
		case key.Matches(msg, keys.Advance):
			cmd := m.advance()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.55)
		m.viewport.Height = max(msg.Height-12, 5)
		m.gauge.Width = max(int(float64(msg.Width)*0.3), 10)
		m.help.Width = msg.Width
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case commentaryMsg:
		// Drop commentary for a game that has since been reset.
		if msg.period != m.engine.Current().Period {
			return m, nil
		}
		text := msg.text
		if msg.err != nil && m.report != nil {
			text = advisor.RuleComment(*m.report)
		}
		if text == "" {
			return m, nil
		}
		m.pushNews(text)
		return m, nil
	}

	return m, nil
}

func (m *model) adjust(dir float64) {
	switch m.selected {
	case leverTax:
		m.policy.TaxRate = step(m.policy.TaxRate, dir, models.TaxRateStep, models.MinTaxRate, models.MaxTaxRate)
	case leverSpending:
		m.policy.SpendingDelta = step(m.policy.SpendingDelta, dir, models.SpendingDeltaStep, models.MinSpendingDelta, models.MaxSpendingDelta)
	case leverRate:
		m.policy.InterestRateDelta = step(m.policy.InterestRateDelta, dir, models.InterestRateStep, models.MinInterestRateDelta, models.MaxInterestRateDelta)
	}
}

// step moves v by one increment and snaps it to the increment grid.
func step(v, dir, inc, lo, hi float64) float64 {
	n := math.Round((v+dir*inc)/inc) * inc
	return math.Min(hi, math.Max(lo, n))
}

func (m *model) advance() tea.Cmd {
	prev := m.engine.Current()
	res, err := m.engine.AdvanceTurn(m.policy)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil

	report := advisor.NewReport(prev, res.State, m.policy)
	m.report = &report
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()

	if res.Ended() {
		m.outcome, m.err = m.engine.Outcome()
		m.state = stateGameOver
	}
	return m.comment(report)
}

func (m *model) reset() {
	m.engine.Reset()
	m.state = statePlaying
	m.policy = models.PolicyInput{TaxRate: m.engine.Current().TaxRate}
	m.selected = leverTax
	m.report = nil
	m.err = nil
	m.news = []string{"The game has been reset. Let's give it another go!"}
	m.viewport.SetContent(m.renderHistory())
}

func (m *model) pushNews(text string) {
	m.news = append([]string{text}, m.news...)
	if len(m.news) > maxNews {
		m.news = m.news[:maxNews]
	}
}

func (m model) comment(r advisor.Report) tea.Cmd {
	adv := m.advisor
	return func() tea.Msg {
		text, err := adv.Comment(context.Background(), r)
		return commentaryMsg{period: r.Period, text: text, err: err}
	}
}

func (m model) View() string {
	cur := m.engine.Current()

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(cur.Label),
		"   ",
		m.renderIndicators(),
	)

	var body string
	switch m.state {
	case statePlaying:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderSidePanel(),
		)
	case stateGameOver:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderOutcome(),
		)
	}

	status := ""
	if m.err != nil {
		status = errStyle.Render("Error: " + m.err.Error())
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		status,
		helpStyle.Render(m.help.View(keys)),
	) + "\n"
}

func (m model) renderIndicators() string {
	cur := m.engine.Current()
	var gdp, unemp, price string
	if m.report != nil {
		gdp, unemp, price = change(m.report.GDPChange), change(m.report.UnemploymentChange), change(m.report.PriceChange)
	}
	return fmt.Sprintf("GDP %.1fT %s   Unemployment %.2f%% %s   Prices %.1f %s   Support %.1f%%",
		cur.Output/1000, gdp, cur.Unemployment*100, unemp, cur.PriceLevel, price, cur.Support)
}

func change(v float64) string {
	switch {
	case v > 0:
		return upStyle.Render(fmt.Sprintf("▲%.1f%%", math.Abs(v)))
	case v < 0:
		return downStyle.Render(fmt.Sprintf("▼%.1f%%", math.Abs(v)))
	}
	return fmt.Sprintf("%.1f%%", 0.0)
}

func (m model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("QUARTERS") + "\n")
	fmt.Fprintf(&b, "%-8s %10s %8s %8s %7s %8s\n", "", "GDP (T)", "Unemp", "Prices", "Rate", "Support")
	for _, s := range m.engine.History() {
		fmt.Fprintf(&b, "%-8s %10.1f %7.2f%% %8.1f %7.2f %7.1f%%\n",
			s.Label, s.Output/1000, s.Unemployment*100, s.PriceLevel, s.InterestRate, s.Support)
	}
	return b.String()
}

func (m model) renderSidePanel() string {
	levers := []struct {
		label string
		value string
	}{
		{"Tax rate (τ)", fmt.Sprintf("%.1f%%", m.policy.TaxRate*100)},
		{"Spending (ΔG)", fmt.Sprintf("%+.0f", m.policy.SpendingDelta)},
		{"Rate (Δr)", fmt.Sprintf("%+.2fpt", m.policy.InterestRateDelta)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("POLICY") + "\n")
	for i, l := range levers {
		line := fmt.Sprintf("%-14s %10s", l.label, l.value)
		if lever(i) == m.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("SUPPORT") + "\n")
	b.WriteString(m.gauge.ViewAs(m.engine.Current().Support/100) + "\n\n")

	b.WriteString(titleStyle.Render("NEWS") + "\n")
	for _, n := range m.news {
		b.WriteString("- " + n + "\n")
	}

	width := max(int(float64(m.width)*0.4), 30)
	return panelStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderOutcome() string {
	o := m.outcome
	headline := "Term complete"
	if o.Reason == engine.Dissolved {
		headline = "The cabinet has been dissolved"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(headline)) + "\n\n")
	b.WriteString(rankStyle.Render("Rank "+o.Rank) + "\n\n")
	b.WriteString(selectedStyle.Render(o.Title) + "\n")
	b.WriteString(o.Description + "\n\n")
	fmt.Fprintf(&b, "Growth over term:   %+.1f%%\n", o.Growth*100)
	fmt.Fprintf(&b, "Inflation over term: %+.1f%%\n", o.Inflation*100)
	fmt.Fprintf(&b, "Final unemployment: %.2f%%\n", o.Unemployment*100)
	fmt.Fprintf(&b, "Final support:      %.1f%%\n\n", o.Support)
	b.WriteString(helpStyle.Render("Press r to play again."))

	width := max(int(float64(m.width)*0.4), 30)
	return panelStyle.Width(width).Height(m.viewport.Height).Render(b.String())
}

// Run starts the interactive game.
func Run(eng *engine.Engine, adv advisor.Advisor) error {
	p := tea.NewProgram(NewModel(eng, adv), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Start runs a fresh game with rule-based commentary and no logging.
func Start() error {
	return Run(engine.New(nil), advisor.Rules{})
}
