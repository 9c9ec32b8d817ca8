package domain

// SeatInfo describes one participant when a game is created.
type SeatInfo struct {
	UserID      string
	DisplayName string
}

// TrickResult describes a resolved trick.
type TrickResult struct {
	TrickNumber  int // 1-based within the round
	WinnerUserID string
	WinnerSeat   int
	Plays        []PlayEntry
}

// PlayerDelta is one player's settlement for a scored round.
type PlayerDelta struct {
	UserID    string
	Bid       int
	TricksWon int
	Delta     int
	Total     int
}

// NewGame creates a game aggregate with the given seats in fixed turn
// order and a hand-size schedule for the whole game. The first round is
// not dealt yet; callers follow up with BeginRound.
func NewGame(id string, seats []SeatInfo, schedule []int) *Game {
	players := make([]*Player, len(seats))
	for i, s := range seats {
		players[i] = &Player{
			UserID:      s.UserID,
			DisplayName: s.DisplayName,
			Seat:        i,
			Connected:   true,
		}
	}
	return &Game{
		ID:       id,
		Phase:    PhaseDealing,
		Players:  players,
		Schedule: append([]int(nil), schedule...),
	}
}

// BeginRound deals the next scheduled round from the provided shuffled
// deck, establishes trump per policy, and moves the game to bidding.
func (g *Game) BeginRound(deck []Card, policy TrumpPolicy) error {
	if g.Phase != PhaseDealing {
		return ruleErr(ReasonWrongPhase, "cannot deal in phase %s", g.Phase)
	}
	if g.RoundIndex >= len(g.Schedule) {
		return invariantErr("round index %d beyond schedule of %d", g.RoundIndex, len(g.Schedule))
	}
	if len(deck) != DeckSize {
		return invariantErr("deal from %d-card deck", len(deck))
	}
	handSize := g.Schedule[g.RoundIndex]
	if handSize < 1 || handSize*len(g.Players) > DeckSize {
		return invariantErr("hand size %d impossible for %d players", handSize, len(g.Players))
	}

	dealerSeat := g.RoundIndex % len(g.Players)
	round := &Round{
		Number:     g.RoundIndex + 1,
		HandSize:   handSize,
		DealerSeat: dealerSeat,
	}

	// Deal seat blocks starting left of the dealer and ending at the
	// dealer, so "last card dealt to the dealer" is well defined.
	rest := deck
	seat := g.leftOf(dealerSeat)
	for range g.Players {
		hand, remaining, err := Deal(rest, handSize)
		if err != nil {
			return invariantErr("deal failed: %v", err)
		}
		p := g.Players[seat]
		p.Hand = hand
		p.Bid = 0
		p.BidSet = false
		p.TricksWon = 0
		if seat == dealerSeat {
			round.TrumpCard = hand[len(hand)-1]
		}
		SortHand(p.Hand)
		rest = remaining
		seat = g.leftOf(seat)
	}
	round.Stock = rest

	// Trump: turn up the top of the stock, or fall back to the dealer's
	// last card when the deal consumed the whole deck.
	if policy == TrumpTurnUp && len(round.Stock) > 0 {
		round.TrumpCard = round.Stock[0]
	}
	round.Trump = round.TrumpCard.Suit

	firstSeat := g.leftOf(dealerSeat)
	round.CurrentTrick = &Trick{LeaderSeat: firstSeat}
	g.Round = round
	g.CurrentTurnSeat = firstSeat
	g.Phase = PhaseBidding

	if err := g.Audit(); err != nil {
		g.Phase = PhaseFailed
		return err
	}
	return nil
}

// PlaceBid applies a bid for the player, enforcing phase, turn, range
// and the hook rule. Once every seat has bid the game moves to playing.
func (g *Game) PlaceBid(userID string, bid int) error {
	if g.Phase != PhaseBidding {
		return ruleErr(ReasonWrongPhase, "cannot bid in phase %s", g.Phase)
	}
	p := g.PlayerByID(userID)
	if p == nil {
		return ruleErr(ReasonUnknownPlayer, "no seat for %s", userID)
	}
	if p.Seat != g.CurrentTurnSeat {
		return ruleErr(ReasonOutOfTurn, "seat %d bid on seat %d's turn", p.Seat, g.CurrentTurnSeat)
	}
	if p.BidSet {
		return ruleErr(ReasonBidAlreadySet, "seat %d already bid %d", p.Seat, p.Bid)
	}
	lastBidder := g.bidsPlaced() == len(g.Players)-1
	if err := ValidateBid(g.Round.HandSize, g.placedBids(), lastBidder, bid); err != nil {
		return err
	}

	p.Bid = bid
	p.BidSet = true

	if g.bidsPlaced() == len(g.Players) {
		g.Phase = PhasePlaying
		g.CurrentTurnSeat = g.Round.CurrentTrick.LeaderSeat
		return nil
	}
	g.CurrentTurnSeat = g.leftOf(p.Seat)
	return nil
}

// PlayCard applies a card play for the player. When the play completes a
// trick the result is returned and the winner leads the next trick; when
// it completes the round the game moves to round scoring.
func (g *Game) PlayCard(userID string, card Card) (*TrickResult, error) {
	if g.Phase != PhasePlaying {
		return nil, ruleErr(ReasonWrongPhase, "cannot play in phase %s", g.Phase)
	}
	p := g.PlayerByID(userID)
	if p == nil {
		return nil, ruleErr(ReasonUnknownPlayer, "no seat for %s", userID)
	}
	if p.Seat != g.CurrentTurnSeat {
		return nil, ruleErr(ReasonOutOfTurn, "seat %d played on seat %d's turn", p.Seat, g.CurrentTurnSeat)
	}
	trick := g.Round.CurrentTrick
	if err := CheckPlayLegal(p.Hand, trick, card); err != nil {
		return nil, err
	}

	hand, ok := RemoveCard(p.Hand, card)
	if !ok {
		return nil, invariantErr("card %s vanished from seat %d's hand", card, p.Seat)
	}
	p.Hand = hand
	if !trick.LeadSet {
		trick.LeadSuit = card.Suit
		trick.LeadSet = true
	}
	trick.Plays = append(trick.Plays, PlayEntry{UserID: p.UserID, Seat: p.Seat, Card: card})

	if len(trick.Plays) < len(g.Players) {
		g.CurrentTurnSeat = g.leftOf(p.Seat)
		return nil, nil
	}

	// Trick complete: resolve, award, and either open the next trick or
	// close the round.
	winIdx := ResolveTrick(trick, g.Round.Trump)
	winner := trick.Plays[winIdx]
	g.PlayerBySeat(winner.Seat).TricksWon++
	g.Round.CompletedTricks = append(g.Round.CompletedTricks, *trick)
	g.Round.TricksPlayed++

	result := &TrickResult{
		TrickNumber:  g.Round.TricksPlayed,
		WinnerUserID: winner.UserID,
		WinnerSeat:   winner.Seat,
		Plays:        append([]PlayEntry(nil), trick.Plays...),
	}

	if err := g.Audit(); err != nil {
		g.Phase = PhaseFailed
		return nil, err
	}

	if g.Round.TricksPlayed == g.Round.HandSize {
		g.Round.CurrentTrick = nil
		g.Phase = PhaseRoundScoring
		return result, nil
	}

	g.Round.CurrentTrick = &Trick{LeaderSeat: winner.Seat}
	g.CurrentTurnSeat = winner.Seat
	return result, nil
}

// ScoreRound settles the completed round into total scores and advances
// the game to the next deal or to the end of the game. The returned
// deltas are in seat order.
func (g *Game) ScoreRound() ([]PlayerDelta, error) {
	if g.Phase != PhaseRoundScoring {
		return nil, ruleErr(ReasonWrongPhase, "cannot score in phase %s", g.Phase)
	}
	won := 0
	for _, p := range g.Players {
		won += p.TricksWon
	}
	if won != g.Round.HandSize {
		g.Phase = PhaseFailed
		return nil, invariantErr("tricks won %d != hand size %d", won, g.Round.HandSize)
	}

	deltas := make([]PlayerDelta, len(g.Players))
	for i, p := range g.Players {
		delta := Score(p.Bid, p.TricksWon)
		p.TotalScore += delta
		if p.TricksWon != p.Bid {
			p.BidMisses++
		}
		deltas[i] = PlayerDelta{
			UserID:    p.UserID,
			Bid:       p.Bid,
			TricksWon: p.TricksWon,
			Delta:     delta,
			Total:     p.TotalScore,
		}
	}

	g.RoundIndex++
	if g.RoundIndex >= len(g.Schedule) {
		g.Phase = PhaseEnded
	} else {
		g.Phase = PhaseDealing
	}
	g.Round = nil
	return deltas, nil
}

// MarkConnected flips a seat's transport attachment without touching any
// game state.
func (g *Game) MarkConnected(userID string, connected bool) bool {
	p := g.PlayerByID(userID)
	if p == nil {
		return false
	}
	p.Connected = connected
	return true
}

// Audit verifies card conservation for the current round: every one of
// the 52 cards exists exactly once across the stock, all hands, the
// current trick and completed tricks.
func (g *Game) Audit() error {
	if g.Round == nil {
		return nil
	}
	seen := make(map[Card]string, DeckSize)
	note := func(c Card, where string) error {
		if prev, dup := seen[c]; dup {
			return invariantErr("card %s held by both %s and %s", c, prev, where)
		}
		seen[c] = where
		return nil
	}
	for _, c := range g.Round.Stock {
		if err := note(c, "stock"); err != nil {
			return err
		}
	}
	for _, p := range g.Players {
		for _, c := range p.Hand {
			if err := note(c, "hand:"+p.UserID); err != nil {
				return err
			}
		}
	}
	if g.Round.CurrentTrick != nil {
		for _, pl := range g.Round.CurrentTrick.Plays {
			if err := note(pl.Card, "trick"); err != nil {
				return err
			}
		}
	}
	for i := range g.Round.CompletedTricks {
		for _, pl := range g.Round.CompletedTricks[i].Plays {
			if err := note(pl.Card, "discard"); err != nil {
				return err
			}
		}
	}
	if len(seen) != DeckSize {
		return invariantErr("%d cards accounted for, want %d", len(seen), DeckSize)
	}
	return nil
}
