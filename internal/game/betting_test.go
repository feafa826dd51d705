package game

import (
	"testing"
)

func activePlayer(seat int, chips, bet int64) *Player {
	return &Player{Seat: seat, Status: StatusActive, Chips: chips, Bet: bet}
}

func TestCheckOnlyWhenMatched(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	br.CurrentBet = 20

	if err := br.validate(activePlayer(0, 100, 20), PlayerAction{Type: Check}); err != nil {
		t.Errorf("matched player should check: %v", err)
	}
	err := br.validate(activePlayer(1, 100, 0), PlayerAction{Type: Check})
	if !IsValidation(err) {
		t.Errorf("unmatched check should be rejected, got %v", err)
	}
}

func TestCallRequiresOutstandingBet(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Call})
	if !IsValidation(err) {
		t.Errorf("call with nothing owed should be rejected, got %v", err)
	}
}

func TestShortCallBecomesAllIn(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	br.CurrentBet = 100
	p := activePlayer(0, 30, 0)

	if err := br.validate(p, PlayerAction{Type: Call}); err != nil {
		t.Fatalf("short call should be legal: %v", err)
	}
	recorded, posted := br.apply(p, PlayerAction{Type: Call})
	if recorded != AllIn {
		t.Errorf("recorded = %v, want AllIn", recorded)
	}
	if posted != 30 || p.Chips != 0 || p.Status != StatusAllIn {
		t.Errorf("posted=%d chips=%d status=%v, want full stack in", posted, p.Chips, p.Status)
	}
	// A clamped call never raises the price.
	if br.CurrentBet != 100 {
		t.Errorf("current bet = %d, want 100", br.CurrentBet)
	}
}

func TestBetRules(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)

	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Bet, Amount: 10}); !IsValidation(err) {
		t.Errorf("bet below minimum should be rejected, got %v", err)
	}
	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Bet, Amount: 200}); !IsValidation(err) {
		t.Errorf("bet above stack should be rejected, got %v", err)
	}
	// Opening shove below the minimum is a legal all-in bet.
	if err := br.validate(activePlayer(0, 15, 0), PlayerAction{Type: Bet, Amount: 15}); err != nil {
		t.Errorf("all-in under-bet should be legal: %v", err)
	}

	br.CurrentBet = 40
	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Bet, Amount: 60}); !IsValidation(err) {
		t.Errorf("bet facing a bet should be rejected, got %v", err)
	}
}

func TestRaiseRules(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Raise, Amount: 40}); !IsValidation(err) {
		t.Errorf("raise with no bet should be rejected, got %v", err)
	}

	br.CurrentBet = 40
	br.MinRaise = 20
	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Raise, Amount: 50}); !IsValidation(err) {
		t.Errorf("raise below minimum should be rejected, got %v", err)
	}
	if err := br.validate(activePlayer(0, 100, 0), PlayerAction{Type: Raise, Amount: 60}); err != nil {
		t.Errorf("minimum raise should be legal: %v", err)
	}
	// Short all-in raise below the minimum is legal.
	if err := br.validate(activePlayer(0, 55, 0), PlayerAction{Type: Raise, Amount: 55}); err != nil {
		t.Errorf("all-in short raise should be legal: %v", err)
	}
}

func TestFullRaiseReopensBetting(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	a := activePlayer(0, 1000, 0)
	b := activePlayer(1, 1000, 0)

	br.apply(a, PlayerAction{Type: Bet, Amount: 100})
	if !br.acted[0] {
		t.Fatal("bettor should be marked as acted")
	}
	br.apply(b, PlayerAction{Type: Raise, Amount: 300})
	if br.acted[0] {
		t.Error("a full raise should clear prior actors")
	}
	if br.CurrentBet != 300 || br.MinRaise != 200 {
		t.Errorf("round = bet %d / min raise %d, want 300/200", br.CurrentBet, br.MinRaise)
	}
}

func TestShortAllInDoesNotReopenBetting(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	a := activePlayer(0, 1000, 0)
	b := activePlayer(1, 130, 0)

	br.apply(a, PlayerAction{Type: Bet, Amount: 100})
	br.apply(b, PlayerAction{Type: AllIn})

	if br.CurrentBet != 130 {
		t.Fatalf("current bet = %d, want 130", br.CurrentBet)
	}
	if !br.acted[0] {
		t.Fatal("short all-in must not re-open betting for prior actors")
	}
	// A may call the extra 30 but may not raise again.
	la := br.legalFor(a)
	if !la.CanCall || la.CallCost != 30 {
		t.Errorf("legal = %+v, want call for 30", la)
	}
	if la.CanRaise {
		t.Error("raise should not be available after a short all-in")
	}
	if err := br.validate(a, PlayerAction{Type: Raise, Amount: 400}); !IsValidation(err) {
		t.Errorf("re-raise should be rejected, got %v", err)
	}
	// The minimum raise increment is unchanged by the short all-in.
	if br.MinRaise != 100 {
		t.Errorf("min raise = %d, want 100", br.MinRaise)
	}
}

func TestLegalActionsOpenRound(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	la := br.legalFor(activePlayer(0, 500, 0))
	if !la.CanFold || !la.CanCheck || !la.CanBet || la.CanCall || la.CanRaise {
		t.Errorf("legal = %+v, want fold/check/bet", la)
	}
	if la.MinBet != 20 || la.MaxTotal != 500 {
		t.Errorf("bounds = min %d max %d, want 20/500", la.MinBet, la.MaxTotal)
	}
}

func TestRoundCompletion(t *testing.T) {
	t.Parallel()

	br := newBettingRound(20)
	a := activePlayer(0, 1000, 0)
	b := activePlayer(1, 1000, 0)
	players := []*Player{a, b}

	if br.complete(players) {
		t.Fatal("round should not complete before anyone acts")
	}
	br.apply(a, PlayerAction{Type: Check})
	if br.complete(players) {
		t.Fatal("round should wait for the second player")
	}
	br.apply(b, PlayerAction{Type: Bet, Amount: 60})
	if br.complete(players) {
		t.Fatal("a bet re-opens the round")
	}
	br.apply(a, PlayerAction{Type: Call})
	if !br.complete(players) {
		t.Fatal("round should complete once bets match")
	}
}
