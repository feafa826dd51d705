package poker

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// cryptoSource adapts crypto/rand to rand.Source64 so the deck can use the
// standard shuffle machinery with unpredictable randomness.
type cryptoSource struct{}

func (cryptoSource) Int63() int64 {
	return int64(cryptoSource{}.Uint64() >> 1)
}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// Dealing from a predictable deck is not an acceptable fallback.
		panic("poker: crypto rand unavailable: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (cryptoSource) Seed(int64) {}

// Deck is an ordered sequence of the 52 distinct cards, dealt monotonically.
// A deck belongs to a single hand; construct a fresh one per hand.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck shuffled with a cryptographically strong source.
// This is the only constructor live play may use.
func NewDeck() *Deck {
	return NewDeckWithRand(rand.New(cryptoSource{}))
}

// NewDeckWithRand creates a deck shuffled with the supplied source.
// Deterministic sources are for test fixtures only.
func NewDeckWithRand(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.Shuffle()
	return d
}

// NewOrderedDeck returns an unshuffled deck that deals the given cards
// first, then the rest of the 52 in canonical order. Test fixtures only.
func NewOrderedDeck(cards ...Card) *Deck {
	d := &Deck{rng: rand.New(cryptoSource{})}
	used := NewHand(cards...)
	i := copy(d.cards[:], cards)
	for c := Card(0); c < 52; c++ {
		if !used.Contains(c) {
			d.cards[i] = c
			i++
		}
	}
	return d
}

// Shuffle reorders all 52 cards and rewinds the deal position. Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the next n cards, or nil if the deck is short.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne removes and returns a single card. ok is false once the deck is
// exhausted.
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return 0, false
	}
	c := d.cards[d.next]
	d.next++
	return c, true
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
