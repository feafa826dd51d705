package bot

import "github.com/greenfelt/cardroom/internal/game"

// Caller checks when it can and calls anything else. Useful as a sparring
// partner that always sees showdowns.
type Caller struct{}

func (Caller) Decide(_ *game.TableView, legal game.LegalActions) game.PlayerAction {
	if legal.CanCheck {
		return game.PlayerAction{Type: game.Check}
	}
	if legal.CanCall {
		return game.PlayerAction{Type: game.Call}
	}
	return game.PlayerAction{Type: game.Fold}
}
