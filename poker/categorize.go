package poker

// HoleCardTier is a coarse preflop strength bucket for two hole cards.
// Bot strategies use it to decide whether a hand is worth playing.
type HoleCardTier uint8

const (
	TierTrash HoleCardTier = iota
	TierWeak
	TierMedium
	TierStrong
	TierPremium
)

func (t HoleCardTier) String() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierStrong:
		return "strong"
	case TierMedium:
		return "medium"
	case TierWeak:
		return "weak"
	default:
		return "trash"
	}
}

// CategorizeHoleCards buckets two hole cards into a preflop tier.
// Premium: JJ+ and AK. Strong: TT, AQ, AJ. Medium: 77-99 and suited
// broadways. Weak: 22-66 and suited connectors. Everything else is trash.
func CategorizeHoleCards(a, b Card) HoleCardTier {
	hi, lo := a.Rank(), b.Rank()
	if hi < lo {
		hi, lo = lo, hi
	}
	pair := hi == lo
	suited := a.Suit() == b.Suit()

	switch {
	case pair && hi >= Jack:
		return TierPremium
	case hi == Ace && lo == King:
		return TierPremium
	case pair && hi == Ten:
		return TierStrong
	case hi == Ace && lo >= Jack:
		return TierStrong
	case pair && hi >= Seven:
		return TierMedium
	case suited && lo >= Ten:
		return TierMedium
	case pair:
		return TierWeak
	case suited && hi-lo <= 2:
		return TierWeak
	default:
		return TierTrash
	}
}
