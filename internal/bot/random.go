package bot

import (
	rand "math/rand/v2"
	"sync"

	"github.com/greenfelt/cardroom/internal/game"
)

// Random mixes aggression with calls at fixed frequencies regardless of
// holdings. It stresses the betting engine rather than playing well.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Decide(_ *game.TableView, legal game.LegalActions) game.PlayerAction {
	r.mu.Lock()
	roll := r.rng.Float64()
	r.mu.Unlock()

	switch {
	case roll < 0.15 && legal.CanRaise:
		return game.PlayerAction{Type: game.Raise, Amount: legal.MinRaise}
	case roll < 0.15 && legal.CanBet:
		return game.PlayerAction{Type: game.Bet, Amount: legal.MinBet}
	case roll < 0.70 && legal.CanCheck:
		return game.PlayerAction{Type: game.Check}
	case roll < 0.70 && legal.CanCall:
		return game.PlayerAction{Type: game.Call}
	case legal.CanCheck:
		return game.PlayerAction{Type: game.Check}
	default:
		return game.PlayerAction{Type: game.Fold}
	}
}
