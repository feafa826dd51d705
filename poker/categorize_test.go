package poker

import (
	"testing"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  HoleCardTier
	}{
		{"pocket aces", "As Ah", TierPremium},
		{"pocket jacks", "Jh Jd", TierPremium},
		{"ace king suited", "As Ks", TierPremium},
		{"ace king offsuit", "Ac Kh", TierPremium},
		{"pocket tens", "Tc Td", TierStrong},
		{"ace queen offsuit", "Ac Qh", TierStrong},
		{"ace jack suited", "Ad Jd", TierStrong},
		{"pocket nines", "9c 9d", TierMedium},
		{"pocket sevens", "7h 7s", TierMedium},
		{"king queen suited", "Kh Qh", TierMedium},
		{"queen ten suited", "Qs Ts", TierMedium},
		{"pocket deuces", "2c 2d", TierWeak},
		{"pocket sixes", "6c 6h", TierWeak},
		{"suited connector", "7h 8h", TierWeak},
		{"suited one gap", "9s 7s", TierWeak},
		{"king queen offsuit", "Kc Qh", TierTrash},
		{"seven deuce", "7c 2h", TierTrash},
		{"offsuit connector", "8c 7h", TierTrash},
		{"suited trash", "Jh 2h", TierTrash},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := MustHand(t, tt.cards).Cards()
			got := CategorizeHoleCards(h[0], h[1])
			if got != tt.want {
				t.Errorf("CategorizeHoleCards(%s) = %v, want %v", tt.cards, got, tt.want)
			}
		})
	}
}

func TestCategorizeOrderInvariant(t *testing.T) {
	t.Parallel()

	a, b := MustParseCard("Ks"), MustParseCard("As")
	if CategorizeHoleCards(a, b) != CategorizeHoleCards(b, a) {
		t.Error("tier should not depend on argument order")
	}
}
