package poker

import (
	"errors"
	"math/bits"
)

// HandRank is the packed strength of a 5-card poker hand. Lower values are
// stronger; 0 is a royal flush and 7461 the worst high card. Two hands
// compare by a single integer comparison with no further tie-break.
type HandRank uint16

// HandType enumerates hand categories from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Distinct hand classes per category, 7462 total.
const (
	straightFlushCount = 10
	fourOfAKindCount   = 13 * 12
	fullHouseCount     = 13 * 12
	flushCount         = 1277
	straightCount      = 10
	threeOfAKindCount  = 13 * 66
	twoPairCount       = 78 * 11
	onePairCount       = 13 * 220
	highCardCount      = 1277
)

const (
	baseStraightFlush = 0
	baseFourOfAKind   = baseStraightFlush + straightFlushCount
	baseFullHouse     = baseFourOfAKind + fourOfAKindCount
	baseFlush         = baseFullHouse + fullHouseCount
	baseStraight      = baseFlush + flushCount
	baseThreeOfAKind  = baseStraight + straightCount
	baseTwoPair       = baseThreeOfAKind + threeOfAKindCount
	baseOnePair       = baseTwoPair + twoPairCount
	baseHighCard      = baseOnePair + onePairCount
	rankClassCount    = baseHighCard + highCardCount
)

// WorstRank is one past the weakest real hand class, usable as a sentinel.
const WorstRank HandRank = rankClassCount

// ErrCardCount is returned when a hand does not hold 5, 6 or 7 cards.
var ErrCardCount = errors.New("poker: hand must hold 5, 6 or 7 cards")

// Type returns the category of the hand rank.
func (hr HandRank) Type() HandType {
	switch {
	case hr < baseFourOfAKind:
		return StraightFlush
	case hr < baseFullHouse:
		return FourOfAKind
	case hr < baseFlush:
		return FullHouse
	case hr < baseStraight:
		return Flush
	case hr < baseThreeOfAKind:
		return Straight
	case hr < baseTwoPair:
		return ThreeOfAKind
	case hr < baseOnePair:
		return TwoPair
	case hr < baseHighCard:
		return Pair
	default:
		return HighCard
	}
}

func (ht HandType) String() string {
	switch ht {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// String describes the rank by its category.
func (hr HandRank) String() string {
	if hr == 0 {
		return "Royal Flush"
	}
	return hr.Type().String()
}

// Compare returns 1 if a wins, -1 if b wins, 0 for a tie.
func Compare(a, b HandRank) int {
	if a < b {
		return 1
	}
	if a > b {
		return -1
	}
	return 0
}

// Evaluate returns the strength of the best 5-card hand among the 5, 6 or 7
// cards in h. The result depends only on the card set, never on input order.
func Evaluate(h Hand) (HandRank, error) {
	if n := h.CountCards(); n < 5 || n > 7 {
		return WorstRank, ErrCardCount
	}
	return evaluate(h), nil
}

// EvaluateCards is Evaluate over a card slice.
func EvaluateCards(cards []Card) (HandRank, error) {
	return Evaluate(NewHand(cards...))
}

func evaluate(h Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		m := h.SuitMask(suit)
		suitMasks[suit] = m
		rankMask |= m
	}

	// With at most 7 cards a flush rules out quads and full houses, so a
	// flush suit can be resolved immediately. At most one suit holds 5+.
	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) < 5 {
			continue
		}
		if high := straightHigh(sm); high > 0 {
			return HandRank(baseStraightFlush + straightFlushCount - 1 - int(straightOrdinal(high)))
		}
		idx := flushIndex(rankSetMask(topRanks(sm, 5)))
		return HandRank(baseFlush + flushCount - 1 - int(idx))
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quadsMask != 0 {
		quad := topRank(quadsMask)
		kicker := topRank(rankMask &^ (1 << quad))
		idx := int(quad)*12 + int(ordinalWithout(kicker, quad))
		return HandRank(baseFourOfAKind + fourOfAKindCount - 1 - idx)
	}

	if tripsMask != 0 {
		trip := topRank(tripsMask)
		// A second trip fills in as the pair when no true pair beats it.
		pairCandidates := pairsMask | (tripsMask &^ (1 << trip))
		if pairCandidates != 0 {
			pair := topRank(pairCandidates)
			idx := int(trip)*12 + int(ordinalWithout(pair, trip))
			return HandRank(baseFullHouse + fullHouseCount - 1 - idx)
		}
	}

	if high := straightHigh(rankMask); high > 0 {
		return HandRank(baseStraight + straightCount - 1 - int(straightOrdinal(high)))
	}

	if tripsMask != 0 {
		trip := topRank(tripsMask)
		kickers := topRanks(rankMask&^(1<<trip), 2)
		idx := int(trip)*66 + int(comboIndex12of2[ordinalSetMask(kickers, trip)])
		return HandRank(baseThreeOfAKind + threeOfAKindCount - 1 - idx)
	}

	if bits.OnesCount16(pairsMask) >= 2 {
		pairs := topRanks(pairsMask, 2)
		high, low := pairs[0], pairs[1]
		pairIdx := comboIndex13of2[(uint16(1)<<high)|(uint16(1)<<low)]
		kicker := topRank(rankMask &^ ((uint16(1) << high) | (uint16(1) << low)))
		idx := int(pairIdx)*11 + int(compress(kicker, high, low))
		return HandRank(baseTwoPair + twoPairCount - 1 - idx)
	}

	if pairsMask != 0 {
		pair := topRank(pairsMask)
		kickers := topRanks(rankMask&^(1<<pair), 3)
		idx := int(pair)*220 + int(comboIndex12of3[ordinalSetMask(kickers, pair)])
		return HandRank(baseOnePair + onePairCount - 1 - idx)
	}

	idx := flushIndex(rankSetMask(topRanks(rankMask, 5)))
	return HandRank(baseHighCard + highCardCount - 1 - int(idx))
}

// straightHigh returns the high rank of the best straight in a rank mask, or
// 0 when none. The wheel reports Five (rank 3) as its high card.
func straightHigh(mask uint16) uint8 {
	const wheel = 0x100F // A-2-3-4-5
	mask &= 0x1FFF

	// Bitwise cascade finds runs of five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return uint8(bits.Len16(seq)-1) + 4
	}
	if mask&wheel == wheel {
		return 3
	}
	return 0
}

// straightOrdinal maps a straight's high card to 0 (wheel) .. 9 (ace high).
func straightOrdinal(high uint8) int {
	if high == 3 {
		return 0
	}
	return int(high) - 3
}

func topRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// topRanks returns the n highest set ranks in descending order.
func topRanks(mask uint16, n int) []uint8 {
	out := make([]uint8, 0, n)
	for len(out) < n && mask != 0 {
		r := topRank(mask)
		out = append(out, r)
		mask &^= 1 << r
	}
	return out
}

// ordinalWithout maps rank into 0..11 after removing one excluded rank.
func ordinalWithout(rank, excluded uint8) uint8 {
	if rank > excluded {
		return rank - 1
	}
	return rank
}

// compress maps rank into 0..10 after removing two excluded ranks.
func compress(rank, ex1, ex2 uint8) uint8 {
	out := rank
	if rank > ex1 {
		out--
	}
	if rank > ex2 {
		out--
	}
	return out
}

func rankSetMask(ranks []uint8) uint16 {
	var mask uint16
	for _, r := range ranks {
		mask |= 1 << r
	}
	return mask
}

// ordinalSetMask compresses the ranks into 12-rank ordinal space with one
// excluded rank and returns their bitmask.
func ordinalSetMask(ranks []uint8, excluded uint8) uint16 {
	var mask uint16
	for _, r := range ranks {
		mask |= 1 << ordinalWithout(r, excluded)
	}
	return mask
}

// Combination-index tables. For equal-sized rank sets, comparing the bitmasks
// as integers is exactly the poker kicker comparison (highest rank decides
// first), so assigning indices in ascending mask order yields indices that
// grow with hand strength.

func buildComboIndex(numRanks, choose int) []uint16 {
	table := make([]uint16, 1<<numRanks)
	var idx uint16
	for mask := 0; mask < 1<<numRanks; mask++ {
		if bits.OnesCount16(uint16(mask)) == choose {
			table[mask] = idx
			idx++
		}
	}
	return table
}

var (
	comboIndex13of5 = buildComboIndex(13, 5)
	comboIndex13of2 = buildComboIndex(13, 2)
	comboIndex12of2 = buildComboIndex(12, 2)
	comboIndex12of3 = buildComboIndex(12, 3)
)

// straightSetIndices holds the 13-choose-5 indices of the ten straight rank
// sets in ascending order. Flush and high-card indexing skips over them.
var straightSetIndices = func() [10]uint16 {
	var out [10]uint16
	out[0] = comboIndex13of5[0x100F] // wheel
	for i := 1; i < 10; i++ {
		high := i + 3
		var mask uint16
		for r := high - 4; r <= high; r++ {
			mask |= uint16(1) << r
		}
		out[i] = comboIndex13of5[mask]
	}
	for i := 1; i < len(out); i++ {
		v := out[i]
		j := i - 1
		for j >= 0 && out[j] > v {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = v
	}
	return out
}()

// flushIndex maps a 5-rank set to 0..1276, skipping straight sets.
func flushIndex(mask uint16) uint16 {
	idx := comboIndex13of5[mask]
	var skip uint16
	for _, s := range straightSetIndices {
		if idx > s {
			skip++
		} else {
			break
		}
	}
	return idx - skip
}
