package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/tapegame/internal/game"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session"
	"github.com/zappabad/tapegame/internal/session/view"
	"github.com/zappabad/tapegame/tui/panels"
	"github.com/zappabad/tapegame/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusPortfolio PanelFocus = 0
	FocusChart     PanelFocus = 1
	FocusHint      PanelFocus = 2
	FocusTrades    PanelFocus = 3

	panelCount = 4
)

// Model is the main TUI application model. It holds no simulation state of
// its own: every key press calls the session and re-reads its snapshot.
type Model struct {
	game    *game.Game
	sess    *session.Session
	tickers []market.Ticker

	snapshot view.Snapshot

	// Panels
	portfolioPanel *panels.PortfolioPanel
	chartPanel     *panels.ChartPanel
	hintPanel      *panels.HintPanel
	tradesPanel    *panels.TradesPanel

	focusedPanel PanelFocus

	keys keyMap
	help help.Model

	// Window dimensions
	width  int
	height int

	// Status
	statusMsg  string
	statusWarn bool
	ready      bool
}

// NewModel creates a new TUI model for g.
func NewModel(g *game.Game) *Model {
	sess := g.Session
	tickers := sess.Tickers()

	m := &Model{
		game:           g,
		sess:           sess,
		tickers:        tickers,
		portfolioPanel: panels.NewPortfolioPanel(tickers),
		chartPanel:     panels.NewChartPanel(),
		hintPanel:      panels.NewHintPanel(),
		tradesPanel:    panels.NewTradesPanel(),
		focusedPanel:   FocusPortfolio,
		keys:           newKeyMap(g.CanReset()),
		help:           help.New(),
	}
	if len(tickers) > 0 {
		m.chartPanel.SetTicker(tickers[0])
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.portfolioPanel.Init(),
		m.chartPanel.Init(),
		m.hintPanel.Init(),
		m.tradesPanel.Init(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Focus):
			if msg.String() == "shift+tab" {
				m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
			} else {
				m.focusedPanel = (m.focusedPanel + 1) % panelCount
			}

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Advance):
			m.advance()

		case key.Matches(msg, m.keys.Buy):
			m.trade(ledger.SideBuy)

		case key.Matches(msg, m.keys.Sell):
			m.trade(ledger.SideSell)

		case key.Matches(msg, m.keys.Hint):
			m.sess.RevealHint()
			m.setStatus("", false)

		case key.Matches(msg, m.keys.Reset):
			m.sess.Reset()
			m.setStatus("Session reset", false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
	}

	m.updateFocusedPanel(msg, &cmds)
	m.refresh()

	return m, tea.Batch(cmds...)
}

func (m *Model) syncFocus() {
	m.portfolioPanel.SetFocus(m.focusedPanel == FocusPortfolio)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.hintPanel.SetFocus(m.focusedPanel == FocusHint)
	m.tradesPanel.SetFocus(m.focusedPanel == FocusTrades)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	m.syncFocus()

	switch m.focusedPanel {
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
		selected := m.portfolioPanel.SelectedTicker()
		if selected.Name != "" && selected.Name != m.chartPanel.Ticker().Name {
			m.chartPanel.SetTicker(selected)
		}
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusHint:
		m.hintPanel, cmd = m.hintPanel.Update(msg)
	case FocusTrades:
		m.tradesPanel, cmd = m.tradesPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) advance() {
	if !m.sess.Advance() {
		m.setStatus("The tape has ended. No more steps.", true)
		return
	}
	m.setStatus("", false)
}

func (m *Model) trade(side ledger.Side) {
	ticker := m.portfolioPanel.SelectedTicker()

	var (
		tr  ledger.Trade
		err error
	)
	if side == ledger.SideBuy {
		tr, err = m.sess.Buy(ticker.Name)
	} else {
		tr, err = m.sess.Sell(ticker.Name)
	}

	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		m.setStatus("⚠ Not enough cash to buy "+ticker.Name+"!", true)
	case errors.Is(err, ledger.ErrNoHoldings):
		m.setStatus("⚠ You hold no "+ticker.Name+". Cannot sell!", true)
	case err != nil:
		m.setStatus("⚠ "+err.Error(), true)
	default:
		m.setStatus(fmt.Sprintf("✓ %s 1 %s @ %s", tr.Side, tr.Ticker,
			styles.FormatMoney(tr.Price, ticker.Decimals)), false)
	}
}

func (m *Model) setStatus(msg string, warn bool) {
	m.statusMsg = msg
	m.statusWarn = warn
}

// refresh re-reads the session snapshot into every panel.
func (m *Model) refresh() {
	m.snapshot = m.sess.Snapshot()

	m.portfolioPanel.SetSnapshot(m.snapshot)
	m.chartPanel.SetHistory(m.snapshot.History[m.chartPanel.Ticker().Name])
	m.hintPanel.SetState(m.snapshot.Step, m.snapshot.TotalSteps, m.snapshot.Hint)
	m.tradesPanel.SetTrades(m.snapshot.Trades)
}

// Snapshot returns the state last rendered.
func (m *Model) Snapshot() view.Snapshot {
	return m.snapshot
}

// Status returns the status bar message and whether it is a warning.
func (m *Model) Status() (string, bool) {
	return m.statusMsg, m.statusWarn
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.syncFocus()

	// Layout:
	// ┌──────────────────────┬──────────────────────┐
	// │      Portfolio       │        Chart         │
	// ├──────────────────────┼──────────────────────┤
	// │        Hints         │        Trades        │
	// └──────────────────────┴──────────────────────┘

	statusBar := m.renderStatusBar()
	barHeight := lipgloss.Height(statusBar)

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	topHeight := (m.height - barHeight) * 3 / 5
	bottomHeight := m.height - barHeight - topHeight

	m.portfolioPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(rightWidth, topHeight)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.portfolioPanel.View(),
		m.chartPanel.View(),
	)

	m.hintPanel.SetSize(leftWidth, bottomHeight)
	m.tradesPanel.SetSize(rightWidth, bottomHeight)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.hintPanel.View(),
		m.tradesPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, statusBar)
}

func (m *Model) renderStatusBar() string {
	line := m.help.View(m.keys)
	if m.statusMsg != "" {
		msg := m.statusMsg
		if m.statusWarn {
			msg = styles.WarningStyle.Render(msg)
		}
		line += " │ " + msg
	}
	return styles.StatusBarStyle.Width(m.width).Render(line)
}
