package market

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrTapeLength       = errors.New("tape length does not match total steps + 1")
	ErrNonPositivePrice = errors.New("tape price must be positive")
)

// Ticker is a tradeable instrument. Name is unique within a game and
// Decimals sets display precision.
type Ticker struct {
	Name     string
	Decimals int8
}

// Tape is the scripted price sequence a ticker walks through, one entry per
// step starting at step 0.
type Tape []decimal.Decimal

// NewTape builds a Tape from plain integer prices.
func NewTape(prices ...int64) Tape {
	t := make(Tape, len(prices))
	for i, p := range prices {
		t[i] = decimal.NewFromInt(p)
	}
	return t
}

// At returns the price revealed at step.
func (t Tape) At(step int) decimal.Decimal {
	return t[step]
}

// Validate checks that the tape covers steps 0..totalSteps and that every
// price is positive.
func (t Tape) Validate(totalSteps int) error {
	if len(t) != totalSteps+1 {
		return fmt.Errorf("%w: got %d, want %d", ErrTapeLength, len(t), totalSteps+1)
	}
	for i, p := range t {
		if !p.IsPositive() {
			return fmt.Errorf("%w: step %d is %s", ErrNonPositivePrice, i, p)
		}
	}
	return nil
}

// Listing pairs a ticker with its tape.
type Listing struct {
	Ticker Ticker
	Tape   Tape
}
