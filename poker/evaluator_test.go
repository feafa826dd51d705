package poker

import (
	"math/rand"
	"testing"
)

func rankOf(t *testing.T, s string) HandRank {
	t.Helper()
	hr, err := Evaluate(MustHand(t, s))
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", s, err)
	}
	return hr
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand string
		want HandType
	}{
		{"royal flush", "As Ks Qs Js Ts", StraightFlush},
		{"steel wheel", "As 2s 3s 4s 5s", StraightFlush},
		{"four of a kind", "9c 9d 9h 9s 2c", FourOfAKind},
		{"full house", "Kc Kd Kh 4c 4s", FullHouse},
		{"flush", "Ah Jh 8h 5h 2h", Flush},
		{"broadway straight", "Ac Kd Qh Js Tc", Straight},
		{"wheel straight", "Ac 2d 3h 4s 5c", Straight},
		{"three of a kind", "7c 7d 7h Kc 2s", ThreeOfAKind},
		{"two pair", "Ac Ad 8h 8s 3c", TwoPair},
		{"one pair", "Qc Qd 9h 6s 2c", Pair},
		{"high card", "Ac Jd 9h 6s 2c", HighCard},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rankOf(t, tt.hand).Type(); got != tt.want {
				t.Errorf("Evaluate(%q).Type() = %v, want %v", tt.hand, got, tt.want)
			}
		})
	}
}

func TestEvaluateRoyalFlushIsZero(t *testing.T) {
	t.Parallel()

	if got := rankOf(t, "As Ks Qs Js Ts"); got != 0 {
		t.Errorf("royal flush rank = %d, want 0", got)
	}
}

func TestEvaluateStrictOrdering(t *testing.T) {
	t.Parallel()

	// Strongest to weakest. Every adjacent pair must compare strictly.
	ladder := []string{
		"As Ks Qs Js Ts", // royal flush
		"9s 8s 7s 6s 5s", // straight flush
		"As 2s 3s 4s 5s", // steel wheel
		"Ac Ad Ah As Kc", // quads, ace
		"2c 2d 2h 2s 3c", // quads, deuce
		"Ac Ad Ah Kc Kd", // full house
		"2c 2d 2h 3c 3d", // worst full house
		"Ah Kh Qh Jh 9h", // best flush
		"7h 5h 4h 3h 2h", // worst flush
		"Ac Kd Qh Js Tc", // broadway
		"Ac 2d 3h 4s 5c", // wheel
		"Ac Ad Ah Kc Qd", // trips
		"Ac Ad Kh Ks Qc", // two pair
		"Ac Ad Kh Qs Jc", // pair
		"Ac Kd Qh Js 9c", // best high card
		"7c 5d 4h 3s 2c", // worst high card
	}
	for i := 1; i < len(ladder); i++ {
		a := rankOf(t, ladder[i-1])
		b := rankOf(t, ladder[i])
		if a >= b {
			t.Errorf("%q (%d) should beat %q (%d)", ladder[i-1], a, ladder[i], b)
		}
	}

	worst := rankOf(t, ladder[len(ladder)-1])
	if worst != WorstRank-1 {
		t.Errorf("worst high card rank = %d, want %d", worst, WorstRank-1)
	}
}

func TestEvaluateKickers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stronger string
		weaker   string
	}{
		{"quad kicker", "9c 9d 9h 9s Ac", "9c 9d 9h 9s Kc"},
		{"higher quads beat kicker", "Tc Td Th Ts 2c", "9c 9d 9h 9s Ac"},
		{"full house trips dominate", "Qc Qd Qh 2c 2d", "Jc Jd Jh Ac Ad"},
		{"full house pair breaks tie", "Qc Qd Qh 3c 3d", "Qc Qd Qs 2c 2d"},
		{"flush high card first", "Ah 6h 4h 3h 2h", "Kh Qh Jh Th 8h"},
		{"flush last kicker", "Ah Kh Qh Jh 9h", "Ah Kh Qh Th 9h"},
		{"straight high card", "6c 5d 4h 3s 2c", "Ac 2d 3h 4s 5c"},
		{"trips kicker", "7c 7d 7h Ac 2s", "7c 7d 7h Kc Qs"},
		{"two pair high pair first", "Ac Ad 2h 2s 3c", "Kc Kd Qh Qs Ac"},
		{"two pair low pair second", "Ac Ad 3h 3s 2c", "Ac Ah 2s 2d Kc"},
		{"two pair kicker", "Ac Ad 8h 8s Qc", "Ac Ah 8c 8d Jc"},
		{"pair rank first", "8c 8d 2h 3s 4c", "7c 7d Ah Ks Qc"},
		{"pair kickers descend", "Qc Qd Ah 3s 2c", "Qc Qd Kh Js Tc"},
		{"high card second kicker", "Ac Qd 5h 4s 3c", "Ac Jd Th 9s 8c"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := rankOf(t, tt.stronger)
			b := rankOf(t, tt.weaker)
			if a >= b {
				t.Errorf("%q (%d) should beat %q (%d)", tt.stronger, a, tt.weaker, b)
			}
		})
	}
}

func TestEvaluateTies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
	}{
		{"suits never matter", "Ah Kd Qc Js 9h", "As Kc Qd Jh 9c"},
		{"same two pair", "Ac Ad 8h 8s Qc", "Ah As 8c 8d Qd"},
		{"same straight", "9c 8d 7h 6s 5c", "9h 8s 7c 6d 5h"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if a, b := rankOf(t, tt.a), rankOf(t, tt.b); a != b {
				t.Errorf("%q (%d) and %q (%d) should tie", tt.a, a, tt.b, b)
			}
		})
	}
}

func TestEvaluateSevenCardsPicksBestFive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand string
		want string
	}{
		{"flush over trips", "Ah Kh 7c 7d 7h 3h 2h", "Ah Kh 7h 3h 2h"},
		{"straight over two pair", "9c 8d 7h 6s 5c 9d 8s", "9c 8d 7h 6s 5c"},
		{"second pair plays", "Ac Ad Kh Qs Jc 2d 2h", "Ac Ad 2d 2h Kh"},
		{"board plays", "2c 7d Ah Kh Qh Jh Th", "Ah Kh Qh Jh Th"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rankOf(t, tt.hand)
			want := rankOf(t, tt.want)
			if got != want {
				t.Errorf("Evaluate(%q) = %d, want %d (best five %q)", tt.hand, got, want, tt.want)
			}
		})
	}
}

func TestEvaluateOrderInvariance(t *testing.T) {
	t.Parallel()

	cards := []Card{
		MustParseCard("Ah"), MustParseCard("Kh"), MustParseCard("7c"),
		MustParseCard("7d"), MustParseCard("7h"), MustParseCard("3h"),
		MustParseCard("2h"),
	}
	want, err := EvaluateCards(cards)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })
		got, err := EvaluateCards(cards)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("permutation %d: rank %d, want %d", i, got, want)
		}
	}
}

func TestEvaluateCardCount(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "As", "As Kd Qh Jc", "As Kd Qh Jc Ts 9s 8s 7s"} {
		if _, err := Evaluate(MustHand(t, s)); err != ErrCardCount {
			t.Errorf("Evaluate(%q) error = %v, want ErrCardCount", s, err)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	strong := rankOf(t, "Ac Ad Ah Kc Kd")
	weak := rankOf(t, "7c 5d 4h 3s 2c")
	if Compare(strong, weak) != 1 {
		t.Error("stronger hand should compare as 1")
	}
	if Compare(weak, strong) != -1 {
		t.Error("weaker hand should compare as -1")
	}
	if Compare(strong, strong) != 0 {
		t.Error("equal ranks should compare as 0")
	}
}

func TestDistinctFiveCardClasses(t *testing.T) {
	t.Parallel()

	if rankClassCount != 7462 {
		t.Fatalf("rank class count = %d, want 7462", rankClassCount)
	}
}
