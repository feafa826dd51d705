package game

import (
	"github.com/greenfelt/cardroom/poker"
)

// PlayerStatus tracks a player's standing within the current hand.
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
	StatusDisconnected // grace period, acts as sitting out until reconnect
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "allin"
	case StatusSittingOut:
		return "sitting_out"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Player is one seated participant. Chips are integer minor units; no
// fractional currency exists anywhere in the engine.
type Player struct {
	ID        string
	Name      string
	Seat      int
	Chips     int64
	HoleCards poker.Hand
	Status    PlayerStatus
	Bet       int64 // wagered this betting round
	TotalBet  int64 // wagered this hand, across rounds

	sitOutNext bool // sit out requested mid-hand, applied at hand end
}

// InHand reports whether the player still holds cards (active or all-in).
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player may still take betting actions.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive && p.Chips > 0
}

// resetForHand clears per-hand state ahead of a new deal. Sitting-out and
// disconnected players keep their status; everyone else starts active.
func (p *Player) resetForHand() {
	p.HoleCards = 0
	p.Bet = 0
	p.TotalBet = 0
	if p.Status == StatusFolded || p.Status == StatusAllIn || p.Status == StatusActive {
		p.Status = StatusActive
	}
}

// post moves up to amount chips from the stack into the current bet,
// clamping to the stack. Returns the amount actually posted.
func (p *Player) post(amount int64) int64 {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	return amount
}
