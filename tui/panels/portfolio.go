package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session/view"
	"github.com/zappabad/tapegame/tui/styles"
)

// PortfolioPanel lists every ticker with its price and the player's position.
type PortfolioPanel struct {
	tickers       []market.Ticker
	positions     map[string]view.PositionView
	prevPrices    map[string]decimal.Decimal
	cash          decimal.Decimal
	totalAssets   decimal.Decimal
	totalReturn   decimal.Decimal
	cashDecimals  int8 // widest ticker precision
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewPortfolioPanel creates a new portfolio panel.
func NewPortfolioPanel(tickers []market.Ticker) *PortfolioPanel {
	p := &PortfolioPanel{
		tickers:    tickers,
		positions:  make(map[string]view.PositionView),
		prevPrices: make(map[string]decimal.Decimal),
	}
	for _, t := range tickers {
		if t.Decimals > p.cashDecimals {
			p.cashDecimals = t.Decimals
		}
	}
	return p
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.tickers)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-8s %9s %5s %10s %10s %10s %8s",
		"Ticker", "Price", "Qty", "AvgCost", "Value", "P&L", "P&L%")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, ticker := range p.tickers {
		pos := p.positions[ticker.Name]
		dec := ticker.Decimals

		avg, pnl, pct := "-", "-", "-"
		if pos.Quantity > 0 {
			avg = styles.FormatMoney(pos.AvgCost, dec)
			pnl = styles.FormatMoney(pos.PnL, dec)
			pct = pos.PnLPct.StringFixed(2)
		}

		price := fmt.Sprintf("%9s", styles.FormatMoney(pos.Price, dec))
		if prev, ok := p.prevPrices[ticker.Name]; ok {
			price = styles.SignedStyle(pos.Price.Sub(prev)).Render(price)
		}

		marker := " "
		if i == p.selectedIndex {
			marker = "▸"
		}
		row := fmt.Sprintf("%s%-7s %s %5d %10s %10s %10s %8s",
			marker, ticker.Name, price, pos.Quantity,
			avg, styles.FormatMoney(pos.MarketValue, dec), pnl, pct)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		styles.HeaderStyle.Render("Cash"), styles.FormatCash(p.cash, p.cashDecimals),
		styles.HeaderStyle.Render("Total"), styles.FormatCash(p.totalAssets, p.cashDecimals),
		styles.HeaderStyle.Render("Return"), styles.SignedStyle(p.totalReturn).Render(p.totalReturn.StringFixed(2)+"%"),
	))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💼 Portfolio", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot updates every row from a session snapshot.
func (p *PortfolioPanel) SetSnapshot(snap view.Snapshot) {
	for _, pos := range snap.Positions {
		name := pos.Ticker.Name
		if h := snap.History[name]; len(h) > 1 {
			p.prevPrices[name] = h[len(h)-2]
		} else {
			delete(p.prevPrices, name)
		}
		p.positions[name] = pos
	}
	p.cash = snap.Cash
	p.totalAssets = snap.TotalAssets
	p.totalReturn = snap.Return()
}

// SelectedTicker returns the currently selected ticker.
func (p *PortfolioPanel) SelectedTicker() market.Ticker {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.tickers) {
		return p.tickers[p.selectedIndex]
	}
	return market.Ticker{}
}
