package poker

import (
	"testing"
)

func TestCardRankSuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rank uint8
		suit uint8
		str  string
	}{
		{Two, Clubs, "2c"},
		{Ace, Spades, "As"},
		{Ten, Diamonds, "Td"},
		{King, Hearts, "Kh"},
	}
	for _, tt := range tests {
		c := NewCard(tt.rank, tt.suit)
		if c.Rank() != tt.rank {
			t.Errorf("%s: rank = %d, want %d", tt.str, c.Rank(), tt.rank)
		}
		if c.Suit() != tt.suit {
			t.Errorf("%s: suit = %d, want %d", tt.str, c.Suit(), tt.suit)
		}
		if c.String() != tt.str {
			t.Errorf("String() = %q, want %q", c.String(), tt.str)
		}
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	t.Parallel()

	for c := Card(0); c < 52; c++ {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("ParseCard(%q) = %v, want %v", c.String(), parsed, c)
		}
	}
}

func TestParseCardCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"as", "AS", "aS", "As"} {
		c, err := ParseCard(s)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", s, err)
		}
		if c != NewCard(Ace, Spades) {
			t.Errorf("ParseCard(%q) = %v, want As", s, c)
		}
	}
}

func TestParseCardInvalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "A", "Asd", "1s", "Ax"} {
		if _, err := ParseCard(s); err == nil {
			t.Errorf("ParseCard(%q) should fail", s)
		}
	}
}

func TestHandBitset(t *testing.T) {
	t.Parallel()

	h, err := ParseHand("As Kd 7h 7c 2s")
	if err != nil {
		t.Fatal(err)
	}
	if got := h.CountCards(); got != 5 {
		t.Fatalf("CountCards() = %d, want 5", got)
	}
	if !h.Contains(MustParseCard("7h")) {
		t.Error("hand should contain 7h")
	}
	if h.Contains(MustParseCard("7d")) {
		t.Error("hand should not contain 7d")
	}

	h = h.Add(MustParseCard("7d"))
	if got := h.CountCards(); got != 6 {
		t.Fatalf("CountCards() after Add = %d, want 6", got)
	}
	// Adding a duplicate must not change the set.
	if h.Add(MustParseCard("7d")) != h {
		t.Error("adding a duplicate card changed the hand")
	}
}

func TestHandSuitMask(t *testing.T) {
	t.Parallel()

	h := MustHand(t, "2s 3s As 2c")
	spades := h.SuitMask(Spades)
	want := uint16(1<<Two | 1<<Three | 1<<Ace)
	if spades != want {
		t.Errorf("SuitMask(Spades) = %013b, want %013b", spades, want)
	}
	if clubs := h.SuitMask(Clubs); clubs != 1<<Two {
		t.Errorf("SuitMask(Clubs) = %013b, want %013b", clubs, uint16(1)<<Two)
	}
}

func TestHandCardsRoundTrip(t *testing.T) {
	t.Parallel()

	h := MustHand(t, "As Kd 7h 7c 2s")
	if got := NewHand(h.Cards()...); got != h {
		t.Errorf("NewHand(h.Cards()...) = %v, want %v", got, h)
	}
}

// MustHand parses a hand literal, failing the test on error.
func MustHand(t *testing.T, s string) Hand {
	t.Helper()
	h, err := ParseHand(s)
	if err != nil {
		t.Fatalf("ParseHand(%q): %v", s, err)
	}
	return h
}
