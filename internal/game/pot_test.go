package game

import (
	"reflect"
	"testing"

	"github.com/greenfelt/cardroom/poker"
)

func TestBuildPotsSingleLayer(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Status: StatusActive, TotalBet: 100},
		{Seat: 1, Status: StatusActive, TotalBet: 100},
		{Seat: 2, Status: StatusFolded, TotalBet: 40},
	}
	pots, err := buildPots(players)
	if err != nil {
		t.Fatal(err)
	}
	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 240 {
		t.Errorf("pot amount = %d, want 240", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Eligible, []int{0, 1}) {
		t.Errorf("eligible = %v, want [0 1]", pots[0].Eligible)
	}
}

func TestBuildPotsAllInLayers(t *testing.T) {
	t.Parallel()

	// Short stack all-in for 50, two others at 150.
	players := []*Player{
		{Seat: 0, Status: StatusAllIn, TotalBet: 50},
		{Seat: 1, Status: StatusActive, TotalBet: 150},
		{Seat: 2, Status: StatusActive, TotalBet: 150},
	}
	pots, err := buildPots(players)
	if err != nil {
		t.Fatal(err)
	}
	if len(pots) != 2 {
		t.Fatalf("expected main + side pot, got %d pots", len(pots))
	}
	if pots[0].Amount != 150 || !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("main pot = %d %v, want 150 [0 1 2]", pots[0].Amount, pots[0].Eligible)
	}
	if pots[1].Amount != 200 || !reflect.DeepEqual(pots[1].Eligible, []int{1, 2}) {
		t.Errorf("side pot = %d %v, want 200 [1 2]", pots[1].Amount, pots[1].Eligible)
	}
}

func TestBuildPotsFoldedChipsFillLayers(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Status: StatusAllIn, TotalBet: 30},
		{Seat: 1, Status: StatusActive, TotalBet: 100},
		{Seat: 2, Status: StatusFolded, TotalBet: 60},
	}
	pots, err := buildPots(players)
	if err != nil {
		t.Fatal(err)
	}
	// Folded player's first 30 goes to the main pot, the rest to the side.
	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %d", len(pots))
	}
	if pots[0].Amount != 90 {
		t.Errorf("main pot = %d, want 90", pots[0].Amount)
	}
	if pots[1].Amount != 100 || !reflect.DeepEqual(pots[1].Eligible, []int{1}) {
		t.Errorf("side pot = %d %v, want 100 [1]", pots[1].Amount, pots[1].Eligible)
	}
	if potTotal(pots) != 190 {
		t.Errorf("pot total = %d, want 190", potTotal(pots))
	}
}

func TestPayoutSplitsWithOddChip(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 101, Eligible: []int{0, 1, 2}}}
	tie := poker.HandRank(500)
	ranks := map[int]poker.HandRank{0: tie, 1: tie, 2: poker.HandRank(900)}

	// Seat order clockwise from the button's left: seat 1 first.
	shares, err := payoutPots(pots, ranks, []int{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []PotShare{
		{Seat: 1, Amount: 51, Pot: 0},
		{Seat: 0, Amount: 50, Pot: 0},
	}
	if !reflect.DeepEqual(shares, want) {
		t.Errorf("shares = %v, want %v", shares, want)
	}
}

func TestPayoutLayersIndependently(t *testing.T) {
	t.Parallel()

	pots := []Pot{
		{Amount: 150, Eligible: []int{0, 1, 2}},
		{Amount: 200, Eligible: []int{1, 2}},
	}
	// Seat 0 holds the best hand but is only in the main pot.
	ranks := map[int]poker.HandRank{0: 10, 1: 4000, 2: 2000}
	shares, err := payoutPots(pots, ranks, []int{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []PotShare{
		{Seat: 0, Amount: 150, Pot: 0},
		{Seat: 2, Amount: 200, Pot: 1},
	}
	if !reflect.DeepEqual(shares, want) {
		t.Errorf("shares = %v, want %v", shares, want)
	}
}

func TestPayoutUncontestedNeedsNoRanks(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 75, Eligible: []int{3}}}
	shares, err := payoutPots(pots, nil, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if len(shares) != 1 || shares[0].Seat != 3 || shares[0].Amount != 75 {
		t.Errorf("shares = %v, want seat 3 to take 75", shares)
	}
}

func TestPayoutMissingRankIsInvariantViolation(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 100, Eligible: []int{0, 1}}}
	_, err := payoutPots(pots, map[int]poker.HandRank{0: 5}, []int{0, 1})
	if !IsInvariant(err) {
		t.Errorf("err = %v, want InvariantError", err)
	}
}
