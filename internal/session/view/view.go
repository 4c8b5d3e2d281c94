package view

import (
	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/hint"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/internal/market"
)

var hundred = decimal.NewFromInt(100)

// PositionView is the valuation of one ticker at the current step.
type PositionView struct {
	Ticker      market.Ticker
	Price       decimal.Decimal
	Quantity    int64
	CostBasis   decimal.Decimal
	AvgCost     decimal.Decimal
	MarketValue decimal.Decimal
	PnL         decimal.Decimal // unrealized, absolute
	PnLPct      decimal.Decimal // unrealized, percent of average cost
}

// Value derives the valuation of pos at price.
func Value(t market.Ticker, pos ledger.Position, price decimal.Decimal) PositionView {
	qty := decimal.NewFromInt(pos.Quantity)
	avg := pos.AvgCost()

	pv := PositionView{
		Ticker:      t,
		Price:       price,
		Quantity:    pos.Quantity,
		CostBasis:   pos.CostBasis,
		AvgCost:     avg,
		MarketValue: price.Mul(qty),
		PnL:         decimal.Zero,
		PnLPct:      decimal.Zero,
	}
	if pos.Quantity > 0 && avg.IsPositive() {
		pv.PnL = price.Sub(avg).Mul(qty)
		pv.PnLPct = price.Div(avg).Sub(decimal.NewFromInt(1)).Mul(hundred)
	}
	return pv
}

// TotalAssets returns cash plus the market value of every position.
func TotalAssets(cash decimal.Decimal, positions []PositionView) decimal.Decimal {
	total := cash
	for _, p := range positions {
		total = total.Add(p.MarketValue)
	}
	return total
}

// Snapshot is the read-only state a host renders after every operation.
// Slices and maps are copies owned by the caller.
type Snapshot struct {
	Step         int
	TotalSteps   int
	Cash         decimal.Decimal
	InitialCash  decimal.Decimal
	Positions    []PositionView // in listing order
	History      map[string][]decimal.Decimal
	Hint         hint.Hint
	Trades       []ledger.Trade
	TotalAssets  decimal.Decimal
	ResetEnabled bool
}

// Done reports whether the tape has been fully revealed.
func (s Snapshot) Done() bool {
	return s.Step >= s.TotalSteps
}

// Position returns the valuation for the named ticker.
func (s Snapshot) Position(name string) (PositionView, bool) {
	for _, p := range s.Positions {
		if p.Ticker.Name == name {
			return p, true
		}
	}
	return PositionView{}, false
}

// Return is total assets relative to the starting cash, in percent.
func (s Snapshot) Return() decimal.Decimal {
	if !s.InitialCash.IsPositive() {
		return decimal.Zero
	}
	return s.TotalAssets.Div(s.InitialCash).Sub(decimal.NewFromInt(1)).Mul(hundred)
}
