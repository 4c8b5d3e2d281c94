package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the trade side: buy or sell.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Position is the holding of a single ticker.
type Position struct {
	Quantity  int64
	CostBasis decimal.Decimal // total paid for the units still held
}

// AvgCost returns the weighted average cost per unit, or zero when flat.
func (p Position) AvgCost() decimal.Decimal {
	if p.Quantity <= 0 {
		return decimal.Zero
	}
	return p.CostBasis.Div(decimal.NewFromInt(p.Quantity))
}

// IsFlat returns true if nothing is held.
func (p Position) IsFlat() bool { return p.Quantity <= 0 }

// Trade is an immutable trade log entry.
type Trade struct {
	ID     uuid.UUID
	Step   int
	Side   Side
	Ticker string
	Price  decimal.Decimal
	Cash   decimal.Decimal // cash balance after the trade
}
