package domain

// PlayEntry records one card played into a trick by one player.
type PlayEntry struct {
	UserID string
	Seat   int
	Card   Card
}

// Trick holds the cards played in a single exchange. It exists only
// during the playing phase and is resolved once every active seat has
// played exactly one card.
type Trick struct {
	LeaderSeat int
	LeadSuit   Suit
	LeadSet    bool
	Plays      []PlayEntry
}

// CheckPlayLegal validates a card play against the follow-suit rule: any
// card leads; otherwise the played card must match the lead suit unless
// the hand holds none of it.
func CheckPlayLegal(hand []Card, trick *Trick, card Card) error {
	if _, ok := indexOfCard(hand, card); !ok {
		return ruleErr(ReasonCardNotHeld, "card %s not in hand", card)
	}
	if !trick.LeadSet {
		return nil
	}
	if card.Suit != trick.LeadSuit && hasCardOfSuit(hand, trick.LeadSuit) {
		return ruleErr(ReasonMustFollow, "must follow %s", trick.LeadSuit)
	}
	return nil
}

// LegalPlays returns every card in the hand that CheckPlayLegal would
// accept for the current trick.
func LegalPlays(hand []Card, trick *Trick) []Card {
	if !trick.LeadSet || !hasCardOfSuit(hand, trick.LeadSuit) {
		return append([]Card(nil), hand...)
	}
	var out []Card
	for _, c := range hand {
		if c.Suit == trick.LeadSuit {
			out = append(out, c)
		}
	}
	return out
}

// ResolveTrick returns the index of the winning play in a completed
// trick. Trump beats everything else; within trump or the lead suit the
// higher rank wins; off-suit non-trump cards never win.
func ResolveTrick(trick *Trick, trump Suit) int {
	best := 0
	for i := 1; i < len(trick.Plays); i++ {
		if beats(trick.Plays[i].Card, trick.Plays[best].Card, trick.LeadSuit, trump) {
			best = i
		}
	}
	return best
}

// beats reports whether card a outranks card b given lead and trump.
func beats(a, b Card, lead, trump Suit) bool {
	if a.Suit == trump && b.Suit != trump {
		return true
	}
	if b.Suit == trump && a.Suit != trump {
		return false
	}
	if a.Suit == trump && b.Suit == trump {
		return a.Rank > b.Rank
	}
	if a.Suit == lead && b.Suit != lead {
		return true
	}
	if b.Suit == lead && a.Suit != lead {
		return false
	}
	if a.Suit == lead && b.Suit == lead {
		return a.Rank > b.Rank
	}
	return false
}
