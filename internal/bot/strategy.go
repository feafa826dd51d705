// Package bot provides AI seat fillers. A Strategy is a pure decision
// function over the observer view; the Driver wires one to a table runner
// through the same submit path remote players use, so the engine cannot
// tell bots and humans apart.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/greenfelt/cardroom/internal/game"
)

// Strategy picks an action when it is the bot's turn. view is the bot's
// own redacted table view, so its hole cards are visible; legal describes
// what the engine will accept.
type Strategy interface {
	Decide(view *game.TableView, legal game.LegalActions) game.PlayerAction
}

// NewStrategy builds a named strategy. rng is used by the strategies that
// mix their play; deterministic seeds make tests reproducible.
func NewStrategy(name string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case "caller":
		return Caller{}, nil
	case "folder":
		return Folder{}, nil
	case "random":
		return &Random{rng: rng}, nil
	case "tight":
		return Tight{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// checkOrFold is the universal fallback: free card if possible.
func checkOrFold(legal game.LegalActions) game.PlayerAction {
	if legal.CanCheck {
		return game.PlayerAction{Type: game.Check}
	}
	return game.PlayerAction{Type: game.Fold}
}
