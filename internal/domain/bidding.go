package domain

// ValidateBid checks a proposed bid against the legal range and, for the
// table's final bidder, the hook rule: the last bid may not bring the
// total of all bids to exactly the number of tricks available, so at
// least one player is guaranteed to miss.
//
// Range is checked before the hook rule, so an out-of-range value that
// happens to equal the forbidden total is still reported as a range
// failure.
func ValidateBid(handSize int, priorBids []int, lastBidder bool, bid int) error {
	if bid < 0 || bid > handSize {
		return ruleErr(ReasonBidRange, "bid %d outside 0..%d", bid, handSize)
	}
	if !lastBidder {
		return nil
	}
	sum := 0
	for _, b := range priorBids {
		sum += b
	}
	forbidden := handSize - sum
	if forbidden >= 0 && forbidden <= handSize && bid == forbidden {
		return ruleErr(ReasonBidHook, "last bid may not be %d (bids would total %d tricks)", forbidden, handSize)
	}
	return nil
}
