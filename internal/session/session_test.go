package session

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/hint"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/internal/market"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func rampTape(start int64, steps int) market.Tape {
	prices := make([]int64, steps+1)
	for i := range prices {
		prices[i] = start + int64(i)*20
	}
	return market.NewTape(prices...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Listings = []market.Listing{
		{Ticker: market.Ticker{Name: "ITEM"}, Tape: rampTape(1000, cfg.TotalSteps)},
	}
	cfg.Hints = []string{"h0", "h1", "h2", "h3", "h4", "h5"}
	return cfg
}

func multiConfig() Config {
	cfg := testConfig()
	cfg.Listings = append(cfg.Listings,
		market.Listing{Ticker: market.Ticker{Name: "BAR"}, Tape: rampTape(500, cfg.TotalSteps)},
		market.Listing{Ticker: market.Ticker{Name: "BAZ"}, Tape: rampTape(2000, cfg.TotalSteps)},
	)
	cfg.AllowReset = true
	return cfg
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestNewSessionInitialState(t *testing.T) {
	s := newTestSession(t, multiConfig())
	snap := s.Snapshot()

	if snap.Step != 0 {
		t.Errorf("expected step 0, got %d", snap.Step)
	}
	if !snap.Cash.Equal(d(10000)) {
		t.Errorf("expected cash 10000, got %s", snap.Cash)
	}
	if len(snap.Trades) != 0 {
		t.Errorf("expected empty trade log, got %d", len(snap.Trades))
	}
	if snap.Hint.Kind != hint.KindNone || snap.Hint.Text != "" {
		t.Errorf("expected no hint, got %+v", snap.Hint)
	}
	for _, name := range []string{"ITEM", "BAR", "BAZ"} {
		h := snap.History[name]
		if len(h) != 1 {
			t.Fatalf("%s: expected history of 1, got %d", name, len(h))
		}
		p, _ := s.Price(name)
		if !h[0].Equal(p) {
			t.Errorf("%s: history seeded with %s, want %s", name, h[0], p)
		}
	}
	if !snap.TotalAssets.Equal(d(10000)) {
		t.Errorf("expected total assets 10000, got %s", snap.TotalAssets)
	}
}

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"short tape", func(c *Config) { c.Listings[0].Tape = c.Listings[0].Tape[:30] }, market.ErrTapeLength},
		{"short tape on second ticker", func(c *Config) { c.Listings[2].Tape = c.Listings[2].Tape[:5] }, market.ErrTapeLength},
		{"zero price", func(c *Config) { c.Listings[1].Tape[3] = decimal.Zero }, market.ErrNonPositivePrice},
		{"no tickers", func(c *Config) { c.Listings = nil }, ErrNoTickers},
		{"duplicate ticker", func(c *Config) { c.Listings[1].Ticker.Name = "ITEM" }, ErrDuplicateTicker},
		{"zero steps", func(c *Config) { c.TotalSteps = 0 }, ErrInvalidSteps},
		{"negative cash", func(c *Config) { c.InitialCash = d(-1) }, ErrNegativeCash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := multiConfig()
			tt.mutate(&cfg)
			_, err := NewSession(cfg, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	s := newTestSession(t, multiConfig())

	if !s.Advance() {
		t.Fatal("expected advance to succeed")
	}
	snap := s.Snapshot()
	if snap.Step != 1 {
		t.Errorf("expected step 1, got %d", snap.Step)
	}
	for name, h := range snap.History {
		if len(h) != 2 {
			t.Errorf("%s: expected history of 2, got %d", name, len(h))
		}
	}
	if p, _ := s.Price("ITEM"); !p.Equal(d(1020)) {
		t.Errorf("expected price 1020, got %s", p)
	}
}

func TestAdvanceStopsAtEnd(t *testing.T) {
	s := newTestSession(t, testConfig())
	for i := 0; i < 30; i++ {
		if !s.Advance() {
			t.Fatalf("advance %d failed early", i+1)
		}
	}
	if _, err := s.Buy("ITEM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.RevealHint()
	before := s.Snapshot()

	if s.Advance() {
		t.Error("expected advance at final step to be a no-op")
	}
	after := s.Snapshot()

	if after.Step != before.Step || after.Step != 30 {
		t.Errorf("expected step to stay at 30, got %d", after.Step)
	}
	if len(after.History["ITEM"]) != len(before.History["ITEM"]) {
		t.Error("history grew past the end")
	}
	if !after.Cash.Equal(before.Cash) || len(after.Trades) != len(before.Trades) {
		t.Error("ledger changed on no-op advance")
	}
	if after.Hint != before.Hint {
		t.Error("hint changed on no-op advance")
	}
	if !after.Done() {
		t.Error("expected snapshot to report done")
	}
}

func TestBuySellScenario(t *testing.T) {
	s := newTestSession(t, testConfig())

	if _, err := s.Buy("ITEM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := s.Snapshot()
	pos, _ := snap.Position("ITEM")
	if !snap.Cash.Equal(d(9000)) || pos.Quantity != 1 {
		t.Fatalf("expected cash 9000 qty 1, got %s qty %d", snap.Cash, pos.Quantity)
	}

	s.Advance()
	tr, err := s.Sell("ITEM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Step != 1 || tr.Side != ledger.SideSell {
		t.Errorf("unexpected trade record %+v", tr)
	}

	snap = s.Snapshot()
	pos, _ = snap.Position("ITEM")
	if !snap.Cash.Equal(d(10020)) {
		t.Errorf("expected cash 10020, got %s", snap.Cash)
	}
	if pos.Quantity != 0 {
		t.Errorf("expected qty 0, got %d", pos.Quantity)
	}
	if !pos.PnL.IsZero() {
		t.Errorf("expected no unrealized pnl once flat, got %s", pos.PnL)
	}
	if len(snap.Trades) != 2 {
		t.Errorf("expected 2 trades, got %d", len(snap.Trades))
	}
}

func TestSellWithoutHoldingsLeavesStateUnchanged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s, err := NewSession(testConfig(), zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Snapshot()

	_, err = s.Sell("ITEM")
	if !errors.Is(err, ledger.ErrNoHoldings) {
		t.Fatalf("expected ErrNoHoldings, got %v", err)
	}

	after := s.Snapshot()
	if !after.Cash.Equal(before.Cash) || len(after.Trades) != len(before.Trades) {
		t.Error("state changed on rejected sell")
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning logged, got %d", logs.Len())
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	cfg := testConfig()
	cfg.InitialCash = d(500)
	s := newTestSession(t, cfg)

	_, err := s.Buy("ITEM")
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	snap := s.Snapshot()
	pos, _ := snap.Position("ITEM")
	if !snap.Cash.Equal(d(500)) || pos.Quantity != 0 || len(snap.Trades) != 0 {
		t.Errorf("state changed on rejected buy: cash %s qty %d trades %d", snap.Cash, pos.Quantity, len(snap.Trades))
	}
}

func TestUnknownTicker(t *testing.T) {
	s := newTestSession(t, testConfig())
	if _, err := s.Buy("NOPE"); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker on buy, got %v", err)
	}
	if _, err := s.Sell("NOPE"); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("expected ErrUnknownTicker on sell, got %v", err)
	}
}

func TestRevealHint(t *testing.T) {
	s := newTestSession(t, testConfig())

	if h := s.RevealHint(); h.Kind != hint.KindUnavailable {
		t.Errorf("step 0: expected unavailable, got %v", h.Kind)
	}

	for step := 1; step <= 30; step++ {
		s.Advance()
		h := s.RevealHint()
		if step%5 == 0 {
			want := step/5 - 1
			if h.Kind != hint.KindScripted || h.Index != want {
				t.Errorf("step %d: expected scripted hint %d, got %+v", step, want, h)
			}
		} else if h.Kind != hint.KindUnavailable {
			t.Errorf("step %d: expected unavailable, got %v", step, h.Kind)
		}
		if s.Snapshot().Hint != h {
			t.Errorf("step %d: snapshot hint differs from returned hint", step)
		}
	}
}

func TestRevealHintMissingEntry(t *testing.T) {
	cfg := testConfig()
	cfg.Hints = cfg.Hints[:2]
	s := newTestSession(t, cfg)
	for i := 0; i < 15; i++ {
		s.Advance()
	}
	if h := s.RevealHint(); h.Kind != hint.KindMissing || h.Text != hint.MissingText {
		t.Errorf("expected missing-hint fallback, got %+v", h)
	}
}

func TestMultiAssetValuation(t *testing.T) {
	s := newTestSession(t, multiConfig())

	mustTrade(t, s.Buy, "ITEM") // 1000
	mustTrade(t, s.Buy, "BAR")  // 500
	s.Advance()
	mustTrade(t, s.Buy, "BAR") // 520
	s.Advance()

	snap := s.Snapshot()
	if !snap.Cash.Equal(d(10000 - 1000 - 500 - 520)) {
		t.Errorf("unexpected cash %s", snap.Cash)
	}

	bar, _ := snap.Position("BAR")
	if bar.Quantity != 2 || !bar.AvgCost.Equal(d(510)) {
		t.Errorf("expected BAR qty 2 avg 510, got qty %d avg %s", bar.Quantity, bar.AvgCost)
	}
	if !bar.Price.Equal(d(540)) || !bar.PnL.Equal(d(60)) {
		t.Errorf("expected BAR price 540 pnl 60, got %s %s", bar.Price, bar.PnL)
	}

	item, _ := snap.Position("ITEM")
	if !item.MarketValue.Equal(d(1040)) {
		t.Errorf("expected ITEM market value 1040, got %s", item.MarketValue)
	}
	if !item.PnLPct.Equal(d(4)) {
		t.Errorf("expected ITEM pnl 4%%, got %s", item.PnLPct)
	}

	wantTotal := snap.Cash.Add(d(1040)).Add(d(1080))
	if !snap.TotalAssets.Equal(wantTotal) {
		t.Errorf("expected total assets %s, got %s", wantTotal, snap.TotalAssets)
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(t, multiConfig())
	initial := s.Snapshot()

	mustTrade(t, s.Buy, "BAZ")
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	s.RevealHint()
	mustTrade(t, s.Sell, "BAZ")

	s.Reset()
	snap := s.Snapshot()

	if snap.Step != 0 || !snap.Cash.Equal(initial.Cash) {
		t.Errorf("expected step 0 cash %s, got step %d cash %s", initial.Cash, snap.Step, snap.Cash)
	}
	if len(snap.Trades) != 0 {
		t.Errorf("expected trade log cleared, got %d", len(snap.Trades))
	}
	if snap.Hint != initial.Hint {
		t.Errorf("expected hint cleared, got %+v", snap.Hint)
	}
	for name, h := range snap.History {
		if len(h) != 1 || !h[0].Equal(initial.History[name][0]) {
			t.Errorf("%s: history not reseeded: %v", name, h)
		}
	}
	for _, p := range snap.Positions {
		if p.Quantity != 0 || !p.CostBasis.IsZero() {
			t.Errorf("%s: position not cleared: %+v", p.Ticker.Name, p)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestSession(t, testConfig())
	snap := s.Snapshot()
	snap.History["ITEM"][0] = d(1)

	if !s.Snapshot().History["ITEM"][0].Equal(d(1000)) {
		t.Error("session history mutated through snapshot")
	}
}

func TestConfigTapesCopied(t *testing.T) {
	cfg := testConfig()
	s := newTestSession(t, cfg)
	cfg.Listings[0].Tape[0] = d(1)

	if p, _ := s.Price("ITEM"); !p.Equal(d(1000)) {
		t.Errorf("session tape mutated through config, got %s", p)
	}
}

func TestQuantityNeverNegative(t *testing.T) {
	s := newTestSession(t, multiConfig())
	actions := []string{"b", "s", "s", "n", "b", "b", "n", "s", "b", "n", "s", "s", "s", "n", "b"}

	for _, a := range actions {
		switch a {
		case "b":
			_, _ = s.Buy("ITEM")
		case "s":
			_, _ = s.Sell("ITEM")
		case "n":
			s.Advance()
		}
		p, _ := s.Snapshot().Position("ITEM")
		if p.Quantity < 0 {
			t.Fatalf("quantity went negative: %d", p.Quantity)
		}
		if p.Quantity > 0 && !p.CostBasis.IsPositive() {
			t.Fatalf("holding %d with non-positive basis %s", p.Quantity, p.CostBasis)
		}
		if s.Snapshot().Cash.IsNegative() {
			t.Fatalf("cash went negative: %s", s.Snapshot().Cash)
		}
	}
}

func mustTrade(t *testing.T, op func(string) (ledger.Trade, error), ticker string) {
	t.Helper()
	if _, err := op(ticker); err != nil {
		t.Fatalf("%s: unexpected error: %v", ticker, err)
	}
}
