package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/game"
	"github.com/zappabad/tapegame/internal/hint"
)

func newTestModel(t *testing.T, cfg game.Config) *Model {
	t.Helper()
	g, err := game.NewGame(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := NewModel(g)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestBuyAdvanceSell(t *testing.T) {
	m := newTestModel(t, game.DefaultConfig())

	press(m, "b")
	if !m.Snapshot().Cash.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("expected cash 9000 after buy, got %s", m.Snapshot().Cash)
	}

	press(m, "n", "s")
	snap := m.Snapshot()
	if snap.Step != 1 {
		t.Errorf("expected step 1, got %d", snap.Step)
	}
	if !snap.Cash.Equal(decimal.NewFromInt(10020)) {
		t.Errorf("expected cash 10020, got %s", snap.Cash)
	}
	if len(snap.Trades) != 2 {
		t.Errorf("expected 2 trades, got %d", len(snap.Trades))
	}
}

func TestSellWithoutHoldingsWarns(t *testing.T) {
	m := newTestModel(t, game.DefaultConfig())

	press(m, "s")
	msg, warn := m.Status()
	if !warn || !strings.Contains(msg, "Cannot sell") {
		t.Errorf("expected sell warning, got %q warn=%v", msg, warn)
	}
	if len(m.Snapshot().Trades) != 0 {
		t.Error("expected no trades after rejected sell")
	}
}

func TestBuyWithoutCashWarns(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Session.InitialCash = decimal.NewFromInt(500)
	m := newTestModel(t, cfg)

	press(m, "b")
	msg, warn := m.Status()
	if !warn || !strings.Contains(msg, "Not enough cash") {
		t.Errorf("expected funds warning, got %q warn=%v", msg, warn)
	}
	if !m.Snapshot().Cash.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected cash unchanged, got %s", m.Snapshot().Cash)
	}
}

func TestHintKey(t *testing.T) {
	m := newTestModel(t, game.DefaultConfig())

	press(m, "h")
	if m.Snapshot().Hint.Kind != hint.KindUnavailable {
		t.Errorf("expected unavailable hint at step 0, got %v", m.Snapshot().Hint.Kind)
	}

	press(m, "n", "space", "n", "n", "n", "h")
	h := m.Snapshot().Hint
	if h.Kind != hint.KindScripted || h.Index != 0 {
		t.Errorf("expected first scripted hint at step 5, got %+v (step %d)", h, m.Snapshot().Step)
	}
}

func TestAdvancePastEndWarns(t *testing.T) {
	m := newTestModel(t, game.DefaultConfig())
	for i := 0; i < 30; i++ {
		press(m, "n")
	}
	press(m, "n")

	if m.Snapshot().Step != 30 {
		t.Errorf("expected step 30, got %d", m.Snapshot().Step)
	}
	if _, warn := m.Status(); !warn {
		t.Error("expected end-of-tape warning")
	}
}

func TestResetOnlyWhenEnabled(t *testing.T) {
	single := newTestModel(t, game.DefaultConfig())
	press(single, "b", "n", "r")
	if single.Snapshot().Step != 1 || len(single.Snapshot().Trades) != 1 {
		t.Error("reset should be disabled in the single-ticker game")
	}

	multi := newTestModel(t, game.MultiConfig())
	press(multi, "b", "n", "r")
	snap := multi.Snapshot()
	if snap.Step != 0 || len(snap.Trades) != 0 {
		t.Errorf("expected reset state, got step %d trades %d", snap.Step, len(snap.Trades))
	}
}

func TestSelectionDrivesTrades(t *testing.T) {
	m := newTestModel(t, game.MultiConfig())

	press(m, "down", "b")
	snap := m.Snapshot()
	if len(snap.Trades) != 1 || snap.Trades[0].Ticker != "BRAVO" {
		t.Fatalf("expected BRAVO buy, got %+v", snap.Trades)
	}
	if m.chartPanel.Ticker().Name != "BRAVO" {
		t.Errorf("expected chart to follow selection, got %s", m.chartPanel.Ticker().Name)
	}

	// selection keys go to the trades panel once it has focus
	press(m, "tab", "tab", "tab", "down", "b")
	if got := m.Snapshot().Trades[1].Ticker; got != "BRAVO" {
		t.Errorf("expected selection unchanged, got %s", got)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t, game.MultiConfig())
	press(m, "b")

	out := m.View()
	for _, want := range []string{"Portfolio", "ALPHA", "CHARLIE", "Trades", "Hints"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
