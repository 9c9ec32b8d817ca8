package domain

// ExactBidBonus is the base reward for winning exactly the bid number of
// tricks; the bid itself is added on top so riskier bids pay more.
const ExactBidBonus = 10

// Score returns the round score delta for a player who bid `bid` and won
// `tricksWon` tricks. Pure and total for all non-negative inputs.
func Score(bid, tricksWon int) int {
	if bid == tricksWon {
		return ExactBidBonus + bid
	}
	diff := bid - tricksWon
	if diff < 0 {
		diff = -diff
	}
	return -diff
}

// TieBreak selects the deterministic rule used to split equal totals at
// game end.
type TieBreak string

const (
	// TieBreakFewestMisses prefers the player who failed fewer bids
	// across the whole game; remaining ties fall back to seat order.
	TieBreakFewestMisses TieBreak = "fewest_misses"
	// TieBreakSeatOrder prefers the earlier seat outright.
	TieBreakSeatOrder TieBreak = "seat_order"
)

// GameWinner returns the player with the maximum total score, applying
// the given tie-break rule. Players must be in seat order.
func GameWinner(players []*Player, rule TieBreak) *Player {
	var best *Player
	for _, p := range players {
		if best == nil {
			best = p
			continue
		}
		if p.TotalScore > best.TotalScore {
			best = p
			continue
		}
		if p.TotalScore == best.TotalScore && rule == TieBreakFewestMisses && p.BidMisses < best.BidMisses {
			best = p
		}
	}
	return best
}
