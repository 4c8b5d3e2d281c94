package game

import (
	"github.com/zappabad/tapegame/internal/session"
	"go.uber.org/zap"
)

// Game owns the simulation session for one player.
type Game struct {
	Session *session.Session

	cfg    Config
	logger *zap.Logger
}

// NewGame validates cfg and creates a Game.
func NewGame(cfg Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("variant", string(cfg.Variant)))

	s, err := session.NewSession(cfg.Session, logger)
	if err != nil {
		return nil, err
	}
	return &Game{Session: s, cfg: cfg, logger: logger}, nil
}

// CanReset reports whether hosts should offer the reset action.
func (g *Game) CanReset() bool {
	return g.cfg.Session.AllowReset
}

// Close flushes the game's logger.
func (g *Game) Close() {
	_ = g.logger.Sync()
}
