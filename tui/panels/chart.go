package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/tui/styles"
)

// Candle is the move from one step to the next.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Step  int
}

// CandlesFromHistory turns a price history into one candle per step. The
// candle for step 0 opens and closes at the first price.
func CandlesFromHistory(history []decimal.Decimal) []Candle {
	candles := make([]Candle, len(history))
	for i, p := range history {
		closePrice := p.InexactFloat64()
		open := closePrice
		if i > 0 {
			open = history[i-1].InexactFloat64()
		}
		candles[i] = Candle{
			Open:  open,
			High:  max(open, closePrice),
			Low:   min(open, closePrice),
			Close: closePrice,
			Step:  i,
		}
	}
	return candles
}

// ChartPanel draws the revealed price history of one ticker.
type ChartPanel struct {
	ticker  market.Ticker
	candles []Candle

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	tickerName := "No ticker"
	if p.ticker.Name != "" {
		tickerName = p.ticker.Name
	}

	var content strings.Builder

	chartHeight := p.height - 6
	if chartHeight < 5 {
		chartHeight = 5
	}

	if len(p.candles) == 0 {
		content.WriteString(styles.MutedStyle.Render("No prices revealed yet..."))
	} else {
		content.WriteString(p.renderChart(p.width-4, chartHeight))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📉 Chart - %s", tickerName), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(width, height int) string {
	// 10 chars for the price axis, 2 per candle
	candlesToShow := (width - 10) / 2
	if candlesToShow < 1 {
		candlesToShow = 1
	}
	display := p.candles
	if len(display) > candlesToShow {
		display = display[len(display)-candlesToShow:]
	}

	minPrice, maxPrice := display[0].Low, display[0].High
	for _, c := range display {
		minPrice = min(minPrice, c.Low)
		maxPrice = max(maxPrice, c.High)
	}
	padding := (maxPrice - minPrice) * 0.1
	if padding == 0 {
		padding = maxPrice * 0.01
	}
	minPrice -= padding
	maxPrice += padding

	// 2 rows for the step axis
	rows := height - 2
	if rows < 3 {
		rows = 3
	}

	var result strings.Builder
	for row := 0; row < rows; row++ {
		price := yToPrice(row, minPrice, maxPrice, rows)
		label := styles.FormatMoney(decimal.NewFromFloat(price), p.ticker.Decimals)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8s │", label)))

		for _, c := range display {
			style := styles.CandleUpStyle
			if c.Close < c.Open {
				style = styles.CandleDownStyle
			}
			result.WriteString(style.Render(string(candleChar(c, row, minPrice, maxPrice, rows))))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}

	result.WriteString(styles.ChartAxisStyle.Render("─────────┴"))
	for range display {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	result.WriteString("\n")

	result.WriteString(styles.ChartAxisStyle.Render("          "))
	for i := 0; i < len(display); i++ {
		c := display[i]
		if c.Step%5 == 0 && i+1 < len(display) {
			result.WriteString(styles.ChartLabelStyle.Render(fmt.Sprintf("%-4d", c.Step)))
			i++
			continue
		}
		result.WriteString("  ")
	}

	return result.String()
}

// candleChar returns the character to draw for c at row.
func candleChar(c Candle, row int, minPrice, maxPrice float64, height int) rune {
	rowPrice := yToPrice(row, minPrice, maxPrice, height)
	tolerance := (maxPrice - minPrice) / float64(height*2)

	bodyTop, bodyBottom := max(c.Open, c.Close), min(c.Open, c.Close)

	if rowPrice <= bodyTop+tolerance && rowPrice >= bodyBottom-tolerance {
		return '┃'
	}
	if rowPrice <= c.High+tolerance && rowPrice > bodyTop {
		return '│'
	}
	if rowPrice >= c.Low-tolerance && rowPrice < bodyBottom {
		return '│'
	}
	return ' '
}

func yToPrice(y int, minPrice, maxPrice float64, height int) float64 {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(y) / float64(height-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTicker sets the ticker to chart.
func (p *ChartPanel) SetTicker(ticker market.Ticker) {
	p.ticker = ticker
	p.candles = nil
}

// SetHistory replaces the chart data with the ticker's price history.
func (p *ChartPanel) SetHistory(history []decimal.Decimal) {
	p.candles = CandlesFromHistory(history)
}

// Ticker returns the current ticker.
func (p *ChartPanel) Ticker() market.Ticker {
	return p.ticker
}
