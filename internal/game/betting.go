package game

// bettingRound holds the state of one betting street. It validates and
// applies actions for the table; turn order is the table's concern.
type bettingRound struct {
	CurrentBet int64
	MinRaise   int64 // increment required for the next full raise
	minBet     int64 // table minimum opening bet (the big blind)

	// acted marks seats that have acted since the last full bet or raise.
	// A short all-in raise does not clear it, which is exactly the
	// no-reopen rule: those seats may call or fold but not raise again.
	acted map[int]bool
}

func newBettingRound(minBet int64) *bettingRound {
	return &bettingRound{
		MinRaise: minBet,
		minBet:   minBet,
		acted:    make(map[int]bool),
	}
}

// resetForStreet clears per-street state. The minimum raise resets to the
// table minimum at the start of every street.
func (br *bettingRound) resetForStreet() {
	br.CurrentBet = 0
	br.MinRaise = br.minBet
	br.acted = make(map[int]bool)
}

// legalFor derives the action set available to p.
func (br *bettingRound) legalFor(p *Player) LegalActions {
	la := LegalActions{
		Seat:     p.Seat,
		CanFold:  true,
		MaxTotal: p.Bet + p.Chips,
	}
	toCall := br.CurrentBet - p.Bet

	if toCall <= 0 {
		la.CanCheck = true
	} else {
		la.CanCall = true
		la.CallCost = toCall
		if la.CallCost > p.Chips {
			la.CallCost = p.Chips
		}
	}

	if br.CurrentBet == 0 {
		if p.Chips > 0 {
			la.CanBet = true
			la.MinBet = br.minBet
			if la.MinBet > la.MaxTotal {
				la.MinBet = la.MaxTotal // opening shove below the minimum
			}
		}
	} else if p.Chips > toCall && !br.acted[p.Seat] {
		la.CanRaise = true
		la.MinRaise = br.CurrentBet + br.MinRaise
		if la.MinRaise > la.MaxTotal {
			la.MinRaise = la.MaxTotal // short all-in raise
		}
	}
	return la
}

// validate checks an action against the betting rules without mutating
// anything. Turn order has already been enforced by the caller.
func (br *bettingRound) validate(p *Player, action PlayerAction) error {
	toCall := br.CurrentBet - p.Bet
	total := p.Bet + p.Chips

	switch action.Type {
	case Fold:
		return nil

	case Check:
		if toCall > 0 {
			return validationErrf(CodeIllegalAction, "cannot check facing a bet of %d", br.CurrentBet)
		}
		return nil

	case Call:
		if toCall <= 0 {
			return validationErrf(CodeIllegalAction, "nothing to call")
		}
		return nil

	case Bet:
		if br.CurrentBet != 0 {
			return validationErrf(CodeIllegalAction, "cannot bet facing a bet, raise instead")
		}
		if action.Amount > total {
			return validationErrf(CodeBadAmount, "bet %d exceeds stack of %d", action.Amount, total)
		}
		if action.Amount < br.minBet && action.Amount < total {
			return validationErrf(CodeBadAmount, "bet %d below minimum %d", action.Amount, br.minBet)
		}
		if action.Amount <= 0 {
			return validationErrf(CodeBadAmount, "bet must be positive")
		}
		return nil

	case Raise:
		if br.CurrentBet == 0 {
			return validationErrf(CodeIllegalAction, "nothing to raise, bet instead")
		}
		if br.acted[p.Seat] {
			return validationErrf(CodeIllegalAction, "betting was not re-opened")
		}
		if action.Amount > total {
			return validationErrf(CodeBadAmount, "raise to %d exceeds stack of %d", action.Amount, total)
		}
		if action.Amount <= br.CurrentBet {
			return validationErrf(CodeBadAmount, "raise to %d does not exceed current bet %d", action.Amount, br.CurrentBet)
		}
		if action.Amount < br.CurrentBet+br.MinRaise && action.Amount < total {
			return validationErrf(CodeBadAmount, "raise to %d below minimum %d", action.Amount, br.CurrentBet+br.MinRaise)
		}
		return nil

	case AllIn:
		if p.Chips <= 0 {
			return validationErrf(CodeIllegalAction, "no chips remaining")
		}
		if br.CurrentBet > 0 && total > br.CurrentBet && br.acted[p.Seat] {
			return validationErrf(CodeIllegalAction, "betting was not re-opened")
		}
		return nil

	default:
		return validationErrf(CodeIllegalAction, "unknown action")
	}
}

// apply mutates the round and player for a validated action. It returns the
// action as actually recorded (an AllIn can land as a call, bet, or raise;
// a stack-clamped call becomes an implicit all-in) and the chips moved.
func (br *bettingRound) apply(p *Player, action PlayerAction) (ActionType, int64) {
	recorded := action.Type
	var posted int64

	switch action.Type {
	case Fold:
		p.Status = StatusFolded

	case Check:
		// No chips move.

	case Call:
		posted = p.post(br.CurrentBet - p.Bet)
		if p.Status == StatusAllIn {
			recorded = AllIn
		}

	case Bet, Raise:
		posted = p.post(action.Amount - p.Bet)
		br.registerWager(p)
		if p.Status == StatusAllIn {
			recorded = AllIn
		}

	case AllIn:
		posted = p.post(p.Chips)
		if p.Bet > br.CurrentBet {
			br.registerWager(p)
		}
	}

	br.acted[p.Seat] = true
	return recorded, posted
}

// registerWager records that p's bet raised the price of the round. A full
// raise re-opens action for everyone; a short all-in does not.
func (br *bettingRound) registerWager(p *Player) {
	increment := p.Bet - br.CurrentBet
	fullRaise := increment >= br.MinRaise
	br.CurrentBet = p.Bet
	if fullRaise {
		br.MinRaise = increment
		br.acted = make(map[int]bool)
	}
}

// complete reports whether the street's betting is finished: every player
// who can still act has matched the current bet and acted since the last
// full bet or raise.
func (br *bettingRound) complete(players []*Player) bool {
	for _, p := range players {
		if !p.CanAct() {
			continue
		}
		if !br.acted[p.Seat] || p.Bet != br.CurrentBet {
			return false
		}
	}
	return true
}
