package game

// ActionType enumerates the moves a player can submit.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// PlayerAction is one submitted move. Amount is the total the player wants
// to have wagered this round after the action; it is meaningful only for
// Bet and Raise and ignored otherwise.
type PlayerAction struct {
	Seat   int
	Type   ActionType
	Amount int64
}

// LegalActions describes what the current actor may do, with the amounts
// that bound Bet and Raise. Strategies pick from this rather than
// re-deriving the betting rules.
type LegalActions struct {
	Seat     int
	CanFold  bool
	CanCheck bool
	CanCall  bool
	CallCost int64 // chips needed to call, already clamped to the stack
	CanBet   bool
	MinBet   int64
	CanRaise bool
	MinRaise int64 // minimum total wagered this round for a full raise
	MaxTotal int64 // stack-bound total this round (all-in ceiling)
}

// Contains reports whether the action type is permitted.
func (la LegalActions) Contains(t ActionType) bool {
	switch t {
	case Fold:
		return la.CanFold
	case Check:
		return la.CanCheck
	case Call:
		return la.CanCall
	case Bet:
		return la.CanBet
	case Raise:
		return la.CanRaise
	case AllIn:
		return la.MaxTotal > 0
	default:
		return false
	}
}
