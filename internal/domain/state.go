package domain

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseLobby indicates the table is waiting for players; no game
	// aggregate exists yet.
	PhaseLobby Phase = "lobby"
	// PhaseDealing indicates cards are being dealt for a new round.
	PhaseDealing Phase = "dealing"
	// PhaseBidding indicates players are declaring their bids.
	PhaseBidding Phase = "bidding"
	// PhasePlaying indicates tricks are being played.
	PhasePlaying Phase = "playing"
	// PhaseRoundScoring indicates the round is complete and awaiting settlement.
	PhaseRoundScoring Phase = "round_scoring"
	// PhaseEnded indicates the last scheduled round has been scored.
	PhaseEnded Phase = "ended"
	// PhaseFailed indicates an invariant violation made the game unrecoverable.
	PhaseFailed Phase = "failed"
)

// TrumpPolicy selects how the trump card is established after a deal.
type TrumpPolicy string

const (
	// TrumpTurnUp turns the first card remaining in the stock after the deal.
	TrumpTurnUp TrumpPolicy = "turn_up"
	// TrumpDealerLast uses the suit of the last card dealt to the dealer.
	TrumpDealerLast TrumpPolicy = "dealer_last"
)

// Player holds the domain state for one seat. The id is stable across
// reconnections; Connected tracks transport attachment only.
type Player struct {
	UserID      string
	DisplayName string
	Seat        int
	Hand        []Card
	Bid         int
	BidSet      bool
	TricksWon   int
	TotalScore  int
	BidMisses   int
	Connected   bool
}

// Round captures the state of a single round of play.
type Round struct {
	Number          int // 1-based
	HandSize        int
	DealerSeat      int
	Trump           Suit
	TrumpCard       Card
	Stock           []Card // undealt remainder, owned by the round
	CurrentTrick    *Trick
	CompletedTricks []Trick
	TricksPlayed    int
}

// Game is the authoritative aggregate for one table. All mutation goes
// through its methods; callers serialize access.
type Game struct {
	ID              string
	Phase           Phase
	Players         []*Player // fixed seat order established at start
	Schedule        []int     // hand size per round, fixed for the game
	RoundIndex      int       // index into Schedule of the current round
	Round           *Round
	CurrentTurnSeat int
}

// PlayerByID returns the player with the given user id, or nil.
func (g *Game) PlayerByID(userID string) *Player {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// PlayerBySeat returns the player at the given seat, or nil.
func (g *Game) PlayerBySeat(seat int) *Player {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat]
}

// OnTurnPlayer returns the player whose turn it is, or nil outside the
// bidding and playing phases.
func (g *Game) OnTurnPlayer() *Player {
	if g.Phase != PhaseBidding && g.Phase != PhasePlaying {
		return nil
	}
	return g.PlayerBySeat(g.CurrentTurnSeat)
}

// leftOf returns the seat to the left of the given seat in fixed turn order.
func (g *Game) leftOf(seat int) int {
	return (seat + 1) % len(g.Players)
}

// placedBids returns the bids placed so far this round in bidding order,
// starting left of the dealer.
func (g *Game) placedBids() []int {
	var bids []int
	seat := g.leftOf(g.Round.DealerSeat)
	for range g.Players {
		p := g.Players[seat]
		if p.BidSet {
			bids = append(bids, p.Bid)
		}
		seat = g.leftOf(seat)
	}
	return bids
}

// bidsPlaced counts players with a set bid this round.
func (g *Game) bidsPlaced() int {
	n := 0
	for _, p := range g.Players {
		if p.BidSet {
			n++
		}
	}
	return n
}
