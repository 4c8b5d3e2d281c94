package game

import (
	"fmt"

	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session"
)

// Variant selects one of the built-in presets.
type Variant string

const (
	VariantSingle Variant = "single"
	VariantMulti  Variant = "multi"
)

// Config holds configuration for the game.
type Config struct {
	// Variant names the preset the config was derived from.
	Variant Variant
	// Session is the configuration for the simulation session.
	Session session.Config
}

var defaultHints = []string{
	"Hint 1: Early moves are small. Don't rush in.",
	"Hint 2: A short rebound may show up in this stretch.",
	"Hint 3: Past the midpoint, prices grow less stable.",
	"Hint 4: Look for the rebound after a large drop.",
	"Hint 5: Near the end, expect a gentle recovery rather than a spike.",
	"Hint 6: Final stretch. Think back to the average price so far.",
}

// DefaultConfig returns the single-ticker preset.
func DefaultConfig() Config {
	cfg := session.DefaultConfig()
	cfg.Listings = []market.Listing{
		{Ticker: market.Ticker{Name: "ITEM"}, Tape: itemTape()},
	}
	cfg.Hints = append([]string(nil), defaultHints...)
	return Config{Variant: VariantSingle, Session: cfg}
}

// MultiConfig returns the three-ticker preset with reset enabled.
func MultiConfig() Config {
	cfg := session.DefaultConfig()
	cfg.Listings = []market.Listing{
		{Ticker: market.Ticker{Name: "ALPHA"}, Tape: itemTape()},
		{Ticker: market.Ticker{Name: "BRAVO"}, Tape: market.NewTape(
			500, 510, 505, 520, 530, 525, 540, 550, 545, 560,
			570, 565, 580, 575, 590, 600, 595, 610, 620, 615,
			630, 640, 635, 650, 660, 655, 670, 680, 675, 690,
			700,
		)},
		{Ticker: market.Ticker{Name: "CHARLIE"}, Tape: market.NewTape(
			2000, 2100, 1950, 2050, 1900, 1980, 2150, 2080, 1880, 1920,
			2200, 2120, 1990, 1850, 1800, 1900, 2050, 2250, 2300, 2180,
			2100, 2000, 1950, 2050, 2150, 2250, 2350, 2300, 2400, 2450,
			2500,
		)},
	}
	cfg.Hints = append([]string(nil), defaultHints...)
	cfg.AllowReset = true
	return Config{Variant: VariantMulti, Session: cfg}
}

// Preset returns the built-in config for v.
func Preset(v Variant) (Config, error) {
	switch v {
	case VariantSingle, "":
		return DefaultConfig(), nil
	case VariantMulti:
		return MultiConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown variant %q", v)
	}
}

func itemTape() market.Tape {
	return market.NewTape(
		1000, 1020, 1010, 1030, 990,
		995, 1005, 1015, 1025, 1035,
		1040, 1030, 1020, 1010, 1000,
		990, 980, 970, 960, 950,
		940, 930, 920, 910, 900,
		890, 880, 870, 860, 850,
		840,
	)
}
