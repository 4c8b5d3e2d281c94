package session

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/zappabad/tapegame/internal/hint"
	"github.com/zappabad/tapegame/internal/ledger"
	"github.com/zappabad/tapegame/internal/market"
	"github.com/zappabad/tapegame/internal/session/view"
	"go.uber.org/zap"
)

var ErrUnknownTicker = errors.New("unknown ticker")

// Session is one player's simulation: the step cursor, the revealed price
// history, the last hint and the ledger.
//
// A Session is not safe for concurrent use. Every operation completes
// synchronously; hosts call them one at a time and read Snapshot after each.
type Session struct {
	cfg    Config
	logger *zap.Logger

	listings []market.Listing
	index    map[string]int

	step    int
	history [][]decimal.Decimal // parallel to listings
	hint    hint.Hint
	ledger  *ledger.Ledger
}

// NewSession validates cfg and creates a Session at step 0.
func NewSession(cfg Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	listings := make([]market.Listing, len(cfg.Listings))
	index := make(map[string]int, len(cfg.Listings))
	for i, l := range cfg.Listings {
		tape := make(market.Tape, len(l.Tape))
		copy(tape, l.Tape)
		listings[i] = market.Listing{Ticker: l.Ticker, Tape: tape}
		index[l.Ticker.Name] = i
	}
	cfg.Listings = listings
	cfg.Hints = append([]string(nil), cfg.Hints...)

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		listings: listings,
		index:    index,
	}
	s.Reset()

	logger.Info("session created",
		zap.Int("tickers", len(listings)),
		zap.Int("total_steps", cfg.TotalSteps),
		zap.String("initial_cash", cfg.InitialCash.String()),
	)
	return s, nil
}

// Reset restores the state the session was constructed with.
func (s *Session) Reset() {
	s.step = 0
	s.hint = hint.Hint{Kind: hint.KindNone, Index: -1}
	s.ledger = ledger.NewLedger(s.cfg.InitialCash)
	s.history = make([][]decimal.Decimal, len(s.listings))
	for i, l := range s.listings {
		s.history[i] = []decimal.Decimal{l.Tape.At(0)}
	}
	s.logger.Debug("session reset")
}

// Advance reveals the next tape price for every ticker. It returns false,
// leaving state unchanged, once the final step has been reached.
func (s *Session) Advance() bool {
	if s.step >= s.cfg.TotalSteps {
		return false
	}
	s.step++
	for i, l := range s.listings {
		s.history[i] = append(s.history[i], l.Tape.At(s.step))
	}
	s.logger.Debug("advanced", zap.Int("step", s.step))
	return true
}

// Buy purchases one unit of ticker at its current price.
func (s *Session) Buy(ticker string) (ledger.Trade, error) {
	price, err := s.Price(ticker)
	if err != nil {
		return ledger.Trade{}, err
	}
	tr, err := s.ledger.Buy(s.step, ticker, price)
	s.logTrade(ledger.SideBuy, ticker, price, tr, err)
	return tr, err
}

// Sell sells one held unit of ticker at its current price.
func (s *Session) Sell(ticker string) (ledger.Trade, error) {
	price, err := s.Price(ticker)
	if err != nil {
		return ledger.Trade{}, err
	}
	tr, err := s.ledger.Sell(s.step, ticker, price)
	s.logTrade(ledger.SideSell, ticker, price, tr, err)
	return tr, err
}

func (s *Session) logTrade(side ledger.Side, ticker string, price decimal.Decimal, tr ledger.Trade, err error) {
	if err != nil {
		s.logger.Warn("trade rejected",
			zap.Stringer("side", side),
			zap.String("ticker", ticker),
			zap.Int("step", s.step),
			zap.String("price", price.String()),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("trade",
		zap.Stringer("id", tr.ID),
		zap.Stringer("side", side),
		zap.String("ticker", ticker),
		zap.Int("step", tr.Step),
		zap.String("price", tr.Price.String()),
		zap.String("cash", tr.Cash.String()),
	)
}

// RevealHint sets and returns the hint for the current step.
func (s *Session) RevealHint() hint.Hint {
	s.hint = hint.ForStep(s.step, s.cfg.Hints)
	s.logger.Debug("hint revealed", zap.Int("step", s.step), zap.Stringer("kind", s.hint.Kind))
	return s.hint
}

// Step returns the current step.
func (s *Session) Step() int {
	return s.step
}

// Price returns the current price of ticker.
func (s *Session) Price(ticker string) (decimal.Decimal, error) {
	i, ok := s.index[ticker]
	if !ok {
		return decimal.Decimal{}, ErrUnknownTicker
	}
	return s.listings[i].Tape.At(s.step), nil
}

// Tickers returns the tickers in listing order.
func (s *Session) Tickers() []market.Ticker {
	out := make([]market.Ticker, len(s.listings))
	for i, l := range s.listings {
		out[i] = l.Ticker
	}
	return out
}

// Snapshot returns the current state with derived valuations.
func (s *Session) Snapshot() view.Snapshot {
	positions := make([]view.PositionView, len(s.listings))
	history := make(map[string][]decimal.Decimal, len(s.listings))
	for i, l := range s.listings {
		name := l.Ticker.Name
		positions[i] = view.Value(l.Ticker, s.ledger.Position(name), l.Tape.At(s.step))
		history[name] = append([]decimal.Decimal(nil), s.history[i]...)
	}

	cash := s.ledger.Cash()
	return view.Snapshot{
		Step:         s.step,
		TotalSteps:   s.cfg.TotalSteps,
		Cash:         cash,
		InitialCash:  s.cfg.InitialCash,
		Positions:    positions,
		History:      history,
		Hint:         s.hint,
		Trades:       s.ledger.Trades(),
		TotalAssets:  view.TotalAssets(cash, positions),
		ResetEnabled: s.cfg.AllowReset,
	}
}
