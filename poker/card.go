package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank constants, ordered ascending. Aces are high except when a wheel
// straight is formed.
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit constants. Suits never affect hand strength, only identity.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

var rankRunes = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
var suitRunes = [4]byte{'c', 'd', 'h', 's'}

// Card identifies one of the 52 playing cards. The value is the bit position
// suit*13+rank, so a Card can be OR-ed straight into a Hand bitset.
type Card uint8

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(suit*13 + rank)
}

// Rank returns the card's rank (Two=0 .. Ace=12).
func (c Card) Rank() uint8 {
	return uint8(c) % 13
}

// Suit returns the card's suit (Clubs=0 .. Spades=3).
func (c Card) Suit() uint8 {
	return uint8(c) / 13
}

// String renders the card in compact notation, e.g. "As" or "2c".
func (c Card) String() string {
	if c >= 52 {
		return "??"
	}
	return string([]byte{rankRunes[c.Rank()], suitRunes[c.Suit()]})
}

// ParseCard parses compact notation ("As", "td") into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: want rank and suit", s)
	}
	rank := strings.IndexByte(string(rankRunes[:]), upper(s[0]))
	if rank < 0 {
		return 0, fmt.Errorf("invalid card %q: unknown rank %q", s, s[0])
	}
	suit := strings.IndexByte(string(suitRunes[:]), lower(s[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid card %q: unknown suit %q", s, s[1])
	}
	return NewCard(uint8(rank), uint8(suit)), nil
}

// MustParseCard is ParseCard for static card literals in tests and fixtures.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Hand is a bitset of up to 7 cards, one bit per card at position
// suit*13+rank. The zero value is an empty hand.
type Hand uint64

// NewHand builds a hand from individual cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= c.Bit()
	}
	return h
}

// ParseHand parses space-separated compact notation ("As Kd 7h") into a Hand.
func ParseHand(s string) (Hand, error) {
	var h Hand
	for _, field := range strings.Fields(s) {
		c, err := ParseCard(field)
		if err != nil {
			return 0, err
		}
		h |= c.Bit()
	}
	return h, nil
}

// Bit returns the card's position in the Hand bitset.
func (c Card) Bit() Hand {
	return Hand(1) << c
}

// Add returns the hand with card c included.
func (h Hand) Add(c Card) Hand {
	return h | c.Bit()
}

// Contains reports whether card c is in the hand.
func (h Hand) Contains(c Card) bool {
	return h&c.Bit() != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// SuitMask returns the 13-bit rank mask for one suit.
func (h Hand) SuitMask(suit uint8) uint16 {
	return uint16(uint64(h)>>(uint(suit)*13)) & 0x1FFF
}

// Cards returns the individual cards in the hand, lowest bit first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for v := uint64(h); v != 0; v &= v - 1 {
		cards = append(cards, Card(bits.TrailingZeros64(v)))
	}
	return cards
}

// String renders the hand as space-separated cards for logs and fixtures.
func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
