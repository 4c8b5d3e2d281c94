package game

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session"
	"gopkg.in/yaml.v3"
)

// Scenario is the on-disk YAML form of a Config. Pointer fields tell an
// explicit zero apart from an omitted key.
type Scenario struct {
	Variant     string           `yaml:"variant"`
	TotalSteps  *int             `yaml:"total_steps,omitempty"`
	InitialCash *Amount          `yaml:"initial_cash,omitempty"`
	AllowReset  bool             `yaml:"allow_reset"`
	Hints       []string         `yaml:"hints"`
	Tickers     []ScenarioTicker `yaml:"tickers"`
}

// ScenarioTicker is a ticker and its tape in a scenario file.
type ScenarioTicker struct {
	Name     string   `yaml:"name"`
	Decimals int8     `yaml:"decimals"`
	Tape     []Amount `yaml:"tape"`
}

// Amount is an exact decimal written as a plain YAML number.
type Amount struct {
	decimal.Decimal
}

// MarshalYAML emits the decimal digits unquoted.
func (a Amount) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: a.String()}, nil
}

// UnmarshalYAML parses the scalar text directly, never through float64.
func (a *Amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", n.Line)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	a.Decimal = d
	return nil
}

// LoadScenario reads a scenario file and converts it to a Config.
// The result is not validated; session construction does that.
func LoadScenario(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(b)
}

// ParseScenario decodes scenario YAML. Omitted fields fall back to
// session.DefaultConfig.
func ParseScenario(b []byte) (Config, error) {
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return Config{}, fmt.Errorf("parse scenario: %w", err)
	}

	variant := Variant(sc.Variant)
	if _, err := Preset(variant); err != nil {
		return Config{}, fmt.Errorf("parse scenario: %w", err)
	}

	cfg := session.DefaultConfig()
	if sc.TotalSteps != nil {
		cfg.TotalSteps = *sc.TotalSteps
	}
	if sc.InitialCash != nil {
		cfg.InitialCash = sc.InitialCash.Decimal
	}
	cfg.AllowReset = sc.AllowReset
	cfg.Hints = sc.Hints

	for _, t := range sc.Tickers {
		tape := make(market.Tape, len(t.Tape))
		for j, p := range t.Tape {
			tape[j] = p.Decimal
		}
		cfg.Listings = append(cfg.Listings, market.Listing{
			Ticker: market.Ticker{Name: t.Name, Decimals: t.Decimals},
			Tape:   tape,
		})
	}

	if variant == "" {
		variant = VariantSingle
		if len(cfg.Listings) > 1 {
			variant = VariantMulti
		}
	}
	return Config{Variant: variant, Session: cfg}, nil
}

// MarshalScenario encodes cfg as scenario YAML.
func MarshalScenario(cfg Config) ([]byte, error) {
	steps := cfg.Session.TotalSteps
	sc := Scenario{
		Variant:     string(cfg.Variant),
		TotalSteps:  &steps,
		InitialCash: &Amount{cfg.Session.InitialCash},
		AllowReset:  cfg.Session.AllowReset,
		Hints:       cfg.Session.Hints,
	}
	for _, l := range cfg.Session.Listings {
		tape := make([]Amount, len(l.Tape))
		for i, p := range l.Tape {
			tape[i] = Amount{p}
		}
		sc.Tickers = append(sc.Tickers, ScenarioTicker{
			Name:     l.Ticker.Name,
			Decimals: l.Ticker.Decimals,
			Tape:     tape,
		})
	}
	return yaml.Marshal(sc)
}
