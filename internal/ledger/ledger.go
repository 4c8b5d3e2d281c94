package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoHoldings        = errors.New("no holdings to sell")
)

// Ledger tracks cash, per-ticker positions and the trade log.
// It has no goroutines, mutexes or time calls; callers serialize access.
type Ledger struct {
	cash      decimal.Decimal
	positions map[string]Position
	trades    []Trade
}

// NewLedger creates a Ledger holding initialCash and nothing else.
func NewLedger(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		cash:      initialCash,
		positions: make(map[string]Position),
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// Position returns the position for ticker. Unknown tickers are flat.
func (l *Ledger) Position(ticker string) Position {
	return l.positions[ticker]
}

// Trades returns a copy of the trade log, oldest first.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Buy acquires one unit of ticker at price.
// On ErrInsufficientFunds the ledger is unchanged.
func (l *Ledger) Buy(step int, ticker string, price decimal.Decimal) (Trade, error) {
	if l.cash.LessThan(price) {
		return Trade{}, ErrInsufficientFunds
	}

	pos := l.positions[ticker]
	pos.Quantity++
	pos.CostBasis = pos.CostBasis.Add(price)
	l.positions[ticker] = pos
	l.cash = l.cash.Sub(price)

	return l.record(step, SideBuy, ticker, price), nil
}

// Sell disposes of one unit of ticker at price using weighted average cost:
// the basis shrinks by the current average so the remaining units keep it.
// On ErrNoHoldings the ledger is unchanged.
func (l *Ledger) Sell(step int, ticker string, price decimal.Decimal) (Trade, error) {
	pos := l.positions[ticker]
	if pos.IsFlat() {
		return Trade{}, ErrNoHoldings
	}

	avg := pos.AvgCost()
	pos.Quantity--
	if pos.Quantity == 0 {
		// drop division residue so a flat position carries no basis
		pos.CostBasis = decimal.Zero
	} else {
		pos.CostBasis = pos.CostBasis.Sub(avg)
	}
	l.positions[ticker] = pos
	l.cash = l.cash.Add(price)

	return l.record(step, SideSell, ticker, price), nil
}

func (l *Ledger) record(step int, side Side, ticker string, price decimal.Decimal) Trade {
	tr := Trade{
		ID:     uuid.New(),
		Step:   step,
		Side:   side,
		Ticker: ticker,
		Price:  price,
		Cash:   l.cash,
	}
	l.trades = append(l.trades, tr)
	return tr
}
