package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/hint"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session/view"
)

func TestCandlesFromHistory(t *testing.T) {
	history := []decimal.Decimal{
		decimal.NewFromInt(1000),
		decimal.NewFromInt(1020),
		decimal.NewFromInt(1010),
	}
	candles := CandlesFromHistory(history)

	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}
	if c := candles[0]; c.Open != 1000 || c.Close != 1000 {
		t.Errorf("expected flat first candle, got %+v", c)
	}
	if c := candles[1]; c.Open != 1000 || c.Close != 1020 || c.High != 1020 || c.Low != 1000 {
		t.Errorf("unexpected up candle %+v", c)
	}
	if c := candles[2]; c.Open != 1020 || c.Close != 1010 || c.High != 1020 || c.Low != 1010 || c.Step != 2 {
		t.Errorf("unexpected down candle %+v", c)
	}
}

func TestChartRendersHistory(t *testing.T) {
	p := NewChartPanel()
	p.SetSize(60, 20)
	p.SetTicker(market.Ticker{Name: "ITEM"})
	p.SetHistory([]decimal.Decimal{decimal.NewFromInt(1000), decimal.NewFromInt(1020)})

	out := p.View()
	if !strings.Contains(out, "ITEM") {
		t.Error("expected ticker name in chart title")
	}
	if !strings.Contains(out, "┃") {
		t.Error("expected candle bodies in chart")
	}
}

func TestPortfolioSelection(t *testing.T) {
	tickers := []market.Ticker{{Name: "A"}, {Name: "B"}}
	p := NewPortfolioPanel(tickers)

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.SelectedTicker().Name != "A" {
		t.Error("unfocused panel should ignore keys")
	}

	p.SetFocus(true)
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.SelectedTicker().Name != "B" {
		t.Errorf("expected B selected, got %s", p.SelectedTicker().Name)
	}
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.SelectedTicker().Name != "A" {
		t.Errorf("expected A selected, got %s", p.SelectedTicker().Name)
	}
}

func TestHintPanelNextCheckpoint(t *testing.T) {
	p := NewHintPanel()

	p.SetState(0, 30, hint.Hint{})
	if got := p.nextCheckpoint(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	p.SetState(10, 30, hint.Hint{})
	if got := p.nextCheckpoint(); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
	p.SetState(30, 30, hint.Hint{})
	if got := p.nextCheckpoint(); got != 0 {
		t.Errorf("expected none, got %d", got)
	}
}

func TestTradesPanelResetScroll(t *testing.T) {
	p := NewTradesPanel()
	p.SetFocus(true)
	p.SetTrades(make([]ledger.Trade, 5))
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.scrollOffset != 2 {
		t.Fatalf("expected scroll offset 2, got %d", p.scrollOffset)
	}

	p.SetTrades(nil)
	if p.scrollOffset != 0 || p.Count() != 0 {
		t.Errorf("expected cleared panel, got offset %d count %d", p.scrollOffset, p.Count())
	}
}

func TestCashKeepsFractions(t *testing.T) {
	cash := decimal.RequireFromString("9988.5")

	p := NewPortfolioPanel([]market.Ticker{{Name: "ONE"}})
	p.SetSize(100, 12)
	p.SetSnapshot(view.Snapshot{Cash: cash, TotalAssets: cash, InitialCash: decimal.NewFromInt(10000)})
	if out := p.View(); !strings.Contains(out, "9988.5") {
		t.Errorf("expected unrounded cash in portfolio:\n%s", out)
	}

	tp := NewTradesPanel()
	tp.SetSize(100, 12)
	tp.SetTrades([]ledger.Trade{{Step: 0, Side: ledger.SideBuy, Ticker: "ONE", Price: decimal.RequireFromString("11.5"), Cash: cash}})
	if out := tp.View(); !strings.Contains(out, "9988.5") {
		t.Errorf("expected unrounded cash in trades:\n%s", out)
	}
}
