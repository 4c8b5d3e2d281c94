// Package replay drives a game from a scripted list of actions without a
// terminal UI and prints what happened.
package replay

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/zappabad/tapegame/internal/game"
	"github.com/zappabad/tapegame/internal/session/view"
)

var ErrUnknownAction = errors.New("unknown action")

// MaxRepeat bounds the *N suffix of a single action.
const MaxRepeat = 1000

// Verb is a single user action.
type Verb string

const (
	VerbNext  Verb = "next"
	VerbBuy   Verb = "buy"
	VerbSell  Verb = "sell"
	VerbHint  Verb = "hint"
	VerbReset Verb = "reset"
)

var aliases = map[string]Verb{
	"n": VerbNext, "next": VerbNext,
	"b": VerbBuy, "buy": VerbBuy,
	"s": VerbSell, "sell": VerbSell,
	"h": VerbHint, "hint": VerbHint,
	"r": VerbReset, "reset": VerbReset,
}

// Action is one parsed script entry.
type Action struct {
	Verb   Verb
	Ticker string // buy/sell only; empty means the first ticker
	Repeat int
}

// Parse reads actions of the form verb[:TICKER][*N], e.g. "n*5", "b:ALPHA".
func Parse(args []string) ([]Action, error) {
	actions := make([]Action, 0, len(args))
	for _, arg := range args {
		a := Action{Repeat: 1}
		tok := strings.TrimSpace(arg)

		if i := strings.LastIndex(tok, "*"); i >= 0 {
			n, err := strconv.Atoi(tok[i+1:])
			if err != nil || n < 1 || n > MaxRepeat {
				return nil, fmt.Errorf("%w: repeat in %q must be 1..%d", ErrUnknownAction, arg, MaxRepeat)
			}
			a.Repeat = n
			tok = tok[:i]
		}
		if i := strings.Index(tok, ":"); i >= 0 {
			a.Ticker = strings.ToUpper(tok[i+1:])
			if a.Ticker == "" {
				return nil, fmt.Errorf("%w: %q names no ticker", ErrUnknownAction, arg)
			}
			tok = tok[:i]
		}

		verb, ok := aliases[strings.ToLower(tok)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, arg)
		}
		if a.Ticker != "" && verb != VerbBuy && verb != VerbSell {
			return nil, fmt.Errorf("%w: %q takes no ticker", ErrUnknownAction, arg)
		}
		a.Verb = verb
		actions = append(actions, a)
	}
	return actions, nil
}

// Run applies actions to g in order, writing one line per action and a final
// report to w. Rejected trades are reported, not returned.
func Run(g *game.Game, actions []Action, w io.Writer) error {
	sess := g.Session
	tickers := sess.Tickers()

	for _, a := range actions {
		ticker := a.Ticker
		if ticker == "" && len(tickers) > 0 {
			ticker = tickers[0].Name
		}

		for i := 0; i < a.Repeat; i++ {
			var line string
			switch a.Verb {
			case VerbNext:
				if sess.Advance() {
					line = fmt.Sprintf("next    -> step %d", sess.Step())
				} else {
					line = fmt.Sprintf("next    -> tape ended at step %d", sess.Step())
				}
			case VerbBuy, VerbSell:
				line = tradeLine(g, a.Verb, ticker)
			case VerbHint:
				h := sess.RevealHint()
				line = fmt.Sprintf("hint    -> %s", h.Text)
			case VerbReset:
				if !g.CanReset() {
					line = "reset   -> not available in this game"
					break
				}
				sess.Reset()
				line = "reset   -> step 0"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, Report(sess.Snapshot()))
	return err
}

func tradeLine(g *game.Game, verb Verb, ticker string) string {
	var err error
	if verb == VerbBuy {
		_, err = g.Session.Buy(ticker)
	} else {
		_, err = g.Session.Sell(ticker)
	}
	if err != nil {
		return fmt.Sprintf("%-7s -> %s rejected: %v", verb, ticker, err)
	}
	price, _ := g.Session.Price(ticker)
	return fmt.Sprintf("%-7s -> %s @ %s, cash %s", verb, ticker, price, g.Session.Snapshot().Cash)
}

// Report renders a snapshot as a plain table with a summary line.
func Report(snap view.Snapshot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Ticker", "Price", "Qty", "AvgCost", "Value", "P&L", "P&L%")

	for _, p := range snap.Positions {
		dec := int32(p.Ticker.Decimals)
		t.Row(
			p.Ticker.Name,
			p.Price.StringFixed(dec),
			strconv.FormatInt(p.Quantity, 10),
			p.AvgCost.StringFixed(dec),
			p.MarketValue.StringFixed(dec),
			p.PnL.StringFixed(dec),
			p.PnLPct.StringFixed(2),
		)
	}

	summary := fmt.Sprintf("step %d/%d  cash %s  total %s  return %s%%  trades %d",
		snap.Step, snap.TotalSteps,
		snap.Cash.String(), snap.TotalAssets.String(),
		snap.Return().StringFixed(2), len(snap.Trades))

	return t.String() + "\n" + summary
}
