package game

import (
	"sort"

	"github.com/greenfelt/cardroom/poker"
)

// Pot is one contribution-capped layer. The first layer is the main pot;
// later layers are side pots with progressively smaller eligible sets.
type Pot struct {
	Amount   int64
	Cap      int64 // per-player contribution ceiling for this layer
	Eligible []int // seats that can win this layer, ascending
}

// PotShare records one payout from one pot layer to one seat.
type PotShare struct {
	Seat   int
	Amount int64
	Pot    int
}

// buildPots layers the hand's cumulative contributions into main and side
// pots. Distinct contribution levels of players still in the hand become
// layer caps; folded players' chips fill layers but earn no eligibility.
func buildPots(players []*Player) ([]Pot, error) {
	levels := make([]int64, 0, len(players))
	for _, p := range players {
		if p == nil || !p.InHand() || p.TotalBet <= 0 {
			continue
		}
		levels = append(levels, p.TotalBet)
	}
	if len(levels) == 0 {
		return nil, nil
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	levels = dedupe(levels)

	pots := make([]Pot, 0, len(levels))
	var floor int64
	for _, level := range levels {
		pot := Pot{Cap: level}
		for _, p := range players {
			if p == nil {
				continue
			}
			slice := minInt64(p.TotalBet, level) - minInt64(p.TotalBet, floor)
			if slice < 0 {
				return nil, invariantErrf("negative pot slice for seat %d", p.Seat)
			}
			pot.Amount += slice
			if p.InHand() && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		floor = level
	}
	return pots, nil
}

// potTotal sums all layers.
func potTotal(pots []Pot) int64 {
	var total int64
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// payoutPots distributes every layer independently. ranks holds the
// showdown rank per in-hand seat; an uncontested layer (one eligible seat)
// pays without evaluation. Ties split evenly; remainder minor units go one
// each to the tied winners earliest in seatOrder, which the table supplies
// as clockwise-from-the-button order so the rule is deterministic.
func payoutPots(pots []Pot, ranks map[int]poker.HandRank, seatOrder []int) ([]PotShare, error) {
	var shares []PotShare
	for i, pot := range pots {
		if len(pot.Eligible) == 0 {
			return nil, invariantErrf("pot %d has chips but no eligible seats", i)
		}

		winners := pot.Eligible
		if len(winners) > 1 {
			best := poker.WorstRank
			for _, seat := range pot.Eligible {
				r, ok := ranks[seat]
				if !ok {
					return nil, invariantErrf("no showdown rank for seat %d", seat)
				}
				if r < best {
					best = r
				}
			}
			winners = winners[:0:0]
			for _, seat := range pot.Eligible {
				if ranks[seat] == best {
					winners = append(winners, seat)
				}
			}
		}

		winners = sortBySeatOrder(winners, seatOrder)
		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for w, seat := range winners {
			amount := share
			if int64(w) < remainder {
				amount++
			}
			if amount > 0 {
				shares = append(shares, PotShare{Seat: seat, Amount: amount, Pot: i})
			}
		}
	}
	return shares, nil
}

// sortBySeatOrder returns seats ordered by their position in seatOrder.
func sortBySeatOrder(seats, seatOrder []int) []int {
	pos := make(map[int]int, len(seatOrder))
	for i, s := range seatOrder {
		pos[s] = i
	}
	out := append([]int(nil), seats...)
	sort.Slice(out, func(i, j int) bool { return pos[out[i]] < pos[out[j]] })
	return out
}

func dedupe(sorted []int64) []int64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
