package poker

import (
	"math/rand"
	"testing"
)

func TestDeckDealsAllUniqueCards(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	d.Shuffle()

	seen := make(map[Card]bool, 52)
	for i := 0; i < 52; i++ {
		c, ok := d.DealOne()
		if !ok {
			t.Fatalf("deck exhausted after %d cards", i)
		}
		if seen[c] {
			t.Fatalf("card %s dealt twice", c)
		}
		seen[c] = true
	}
	if _, ok := d.DealOne(); ok {
		t.Error("deck should be empty after 52 deals")
	}
}

func TestDeckDeal(t *testing.T) {
	t.Parallel()

	d := NewDeckWithRand(rand.New(rand.NewSource(1)))
	d.Shuffle()

	hole := d.Deal(2)
	if len(hole) != 2 {
		t.Fatalf("Deal(2) returned %d cards", len(hole))
	}
	if got := d.Remaining(); got != 50 {
		t.Errorf("Remaining() = %d, want 50", got)
	}
	if cards := d.Deal(51); cards != nil {
		t.Error("Deal past the end should return nil")
	}
}

func TestDeckShuffleIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeckWithRand(rand.New(rand.NewSource(42)))
	b := NewDeckWithRand(rand.New(rand.NewSource(42)))
	a.Shuffle()
	b.Shuffle()

	for i := 0; i < 52; i++ {
		ca, _ := a.DealOne()
		cb, _ := b.DealOne()
		if ca != cb {
			t.Fatalf("card %d differs: %s vs %s", i, ca, cb)
		}
	}
}

func TestDeckShuffleRewinds(t *testing.T) {
	t.Parallel()

	d := NewDeckWithRand(rand.New(rand.NewSource(7)))
	d.Deal(10)
	d.Shuffle()
	if got := d.Remaining(); got != 52 {
		t.Errorf("Remaining() after reshuffle = %d, want 52", got)
	}
}
