package bot

import (
	"github.com/greenfelt/cardroom/internal/game"
	"github.com/greenfelt/cardroom/poker"
)

// Tight plays a preflop chart over the hole-card tiers: raises its
// premiums, calls with playable hands, and surrenders the rest. Postflop
// it keeps the pot small, calling only with the hands it raised.
type Tight struct{}

func (s Tight) Decide(view *game.TableView, legal game.LegalActions) game.PlayerAction {
	tier, ok := s.holeTier(view, legal.Seat)
	if !ok {
		return checkOrFold(legal)
	}

	if view.Phase == game.PreFlop.String() {
		return s.preflop(view, legal, tier)
	}

	// Postflop: continue with the top of the range, check-fold the rest.
	if tier >= poker.TierStrong {
		if legal.CanCheck {
			return game.PlayerAction{Type: game.Check}
		}
		if legal.CanCall {
			return game.PlayerAction{Type: game.Call}
		}
	}
	return checkOrFold(legal)
}

func (s Tight) preflop(view *game.TableView, legal game.LegalActions, tier poker.HoleCardTier) game.PlayerAction {
	switch tier {
	case poker.TierPremium:
		if legal.CanRaise {
			return game.PlayerAction{Type: game.Raise, Amount: s.raiseTo(view, legal)}
		}
		if legal.CanBet {
			return game.PlayerAction{Type: game.Bet, Amount: s.raiseTo(view, legal)}
		}
		if legal.CanCall {
			return game.PlayerAction{Type: game.Call}
		}
	case poker.TierStrong, poker.TierMedium:
		if legal.CanCheck {
			return game.PlayerAction{Type: game.Check}
		}
		// Call one raise at most; tier hands are not worth a reraise war.
		if legal.CanCall && legal.CallCost <= view.BigBlind*3 {
			return game.PlayerAction{Type: game.Call}
		}
	case poker.TierWeak:
		if legal.CanCheck {
			return game.PlayerAction{Type: game.Check}
		}
		if legal.CanCall && legal.CallCost <= view.BigBlind {
			return game.PlayerAction{Type: game.Call}
		}
	}
	return checkOrFold(legal)
}

// raiseTo sizes an open to three big blinds over the current bet, clamped
// to what the engine allows.
func (s Tight) raiseTo(view *game.TableView, legal game.LegalActions) int64 {
	target := view.CurrentBet + view.BigBlind*3
	if legal.CanRaise && target < legal.MinRaise {
		target = legal.MinRaise
	}
	if legal.CanBet && target < legal.MinBet {
		target = legal.MinBet
	}
	if target > legal.MaxTotal {
		target = legal.MaxTotal
	}
	return target
}

func (s Tight) holeTier(view *game.TableView, seat int) (poker.HoleCardTier, bool) {
	if seat < 0 || seat >= len(view.Seats) {
		return 0, false
	}
	cards := view.Seats[seat].Cards
	if len(cards) != 2 {
		return 0, false
	}
	a, err := poker.ParseCard(cards[0])
	if err != nil {
		return 0, false
	}
	b, err := poker.ParseCard(cards[1])
	if err != nil {
		return 0, false
	}
	return poker.CategorizeHoleCards(a, b), true
}
