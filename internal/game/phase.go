package game

// Phase is one stage of the table cycle. Tables loop through phases
// indefinitely; there is no terminal phase, only an external close.
type Phase int

const (
	WaitingForPlayers Phase = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
	Payout
)

func (p Phase) String() string {
	switch p {
	case WaitingForPlayers:
		return "waiting"
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Payout:
		return "payout"
	default:
		return "unknown"
	}
}

// BettingPhase reports whether the phase accepts player actions.
func (p Phase) BettingPhase() bool {
	switch p {
	case PreFlop, Flop, Turn, River:
		return true
	default:
		return false
	}
}
