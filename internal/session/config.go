package session

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/market"
)

var (
	ErrInvalidSteps    = errors.New("total steps must be positive")
	ErrNegativeCash    = errors.New("initial cash must not be negative")
	ErrNoTickers       = errors.New("at least one ticker is required")
	ErrDuplicateTicker = errors.New("duplicate ticker")
)

// Config holds configuration for a simulation session.
type Config struct {
	// TotalSteps is the number of times the tape can be advanced.
	TotalSteps int
	// InitialCash is the play-money balance at start and after reset.
	InitialCash decimal.Decimal
	// Listings are the tradeable tickers with their tapes, in display order.
	Listings []market.Listing
	// Hints is the scripted hint table, indexed by checkpoint.
	Hints []string
	// AllowReset determines whether hosts should offer a reset action.
	AllowReset bool
}

// DefaultConfig returns a Config with reasonable defaults and no listings.
func DefaultConfig() Config {
	return Config{
		TotalSteps:  30,
		InitialCash: decimal.NewFromInt(10000),
	}
}

// Validate checks the startup configuration. Every tape must have exactly
// TotalSteps+1 entries.
func (c Config) Validate() error {
	if c.TotalSteps <= 0 {
		return ErrInvalidSteps
	}
	if c.InitialCash.IsNegative() {
		return ErrNegativeCash
	}
	if len(c.Listings) == 0 {
		return ErrNoTickers
	}

	seen := make(map[string]struct{}, len(c.Listings))
	for _, l := range c.Listings {
		if _, ok := seen[l.Ticker.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTicker, l.Ticker.Name)
		}
		seen[l.Ticker.Name] = struct{}{}

		if err := l.Tape.Validate(c.TotalSteps); err != nil {
			return fmt.Errorf("ticker %s: %w", l.Ticker.Name, err)
		}
	}
	return nil
}
