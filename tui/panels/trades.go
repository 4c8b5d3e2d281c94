package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/tui/styles"
)

// TradesPanel displays the trade log, newest at the bottom.
type TradesPanel struct {
	trades       []ledger.Trade
	scrollOffset int // rows hidden below the newest visible trade
	focused      bool
	width        int
	height       int
}

// NewTradesPanel creates a new trade log panel.
func NewTradesPanel() *TradesPanel {
	return &TradesPanel{}
}

// Init initializes the panel.
func (p *TradesPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *TradesPanel) Update(msg tea.Msg) (*TradesPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset < len(p.trades)-1 {
				p.scrollOffset++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *TradesPanel) View() string {
	var content strings.Builder

	if len(p.trades) == 0 {
		content.WriteString(styles.MutedStyle.Render("No trades yet"))
	} else {
		header := fmt.Sprintf("%5s %-4s %-8s %9s %10s", "Step", "Side", "Ticker", "Price", "Cash")
		content.WriteString(styles.HeaderStyle.Render(header))
		content.WriteString("\n")

		visible := p.height - 5
		if visible < 1 {
			visible = 1
		}
		end := len(p.trades) - p.scrollOffset
		start := end - visible
		if start < 0 {
			start = 0
		}

		for i := start; i < end; i++ {
			tr := p.trades[i]

			sideStyle := styles.BuyStyle
			if tr.Side == ledger.SideSell {
				sideStyle = styles.SellStyle
			}

			line := fmt.Sprintf("%5d %s %-8s %9s %10s",
				tr.Step,
				sideStyle.Render(fmt.Sprintf("%-4s", tr.Side)),
				tr.Ticker,
				tr.Price.String(),
				styles.FormatCash(tr.Cash, 0),
			)
			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if len(p.trades) > visible {
			content.WriteString("\n")
			content.WriteString(styles.MutedStyle.Render(fmt.Sprintf(" (%d/%d)", end, len(p.trades))))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🧾 Trades", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *TradesPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *TradesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTrades replaces the trade log. A shrinking log (after reset) snaps the
// view back to the newest trade.
func (p *TradesPanel) SetTrades(trades []ledger.Trade) {
	if len(trades) < len(p.trades) {
		p.scrollOffset = 0
	}
	p.trades = trades
	if p.scrollOffset >= len(p.trades) {
		p.scrollOffset = 0
	}
}

// Count returns the number of trades shown.
func (p *TradesPanel) Count() int {
	return len(p.trades)
}
