package app

import "ohhell/internal/domain"

// SeatView is the public description of one seat. Opponents' hands are
// reduced to a card count; leaking hand contents breaks the game's
// fairness contract.
type SeatView struct {
	UserID      string
	DisplayName string
	Seat        int
	CardsHeld   int
	Bid         *int // nil until placed
	TricksWon   int
	TotalScore  int
	Connected   bool
}

// TrickView is the public state of the trick in progress.
type TrickView struct {
	LeaderSeat int
	LeadSuit   *domain.Suit // nil until the first card is played
	Plays      []domain.PlayEntry
}

// SnapshotView is the full game view scoped to one receiving player:
// their own hand in full, everyone else's as counts.
type SnapshotView struct {
	GameID          string
	Phase           domain.Phase
	RoundNumber     int
	HandSize        int
	Trump           *domain.Suit
	TrumpCard       *domain.Card
	DealerSeat      int
	CurrentTurnSeat int
	Players         []SeatView
	Trick           *TrickView
	Hand            []domain.Card
	RoundCount      int
}

// SnapshotFor builds the redacted snapshot of the game for one player.
func SnapshotFor(g *domain.Game, userID string) SnapshotView {
	view := SnapshotView{
		GameID:          g.ID,
		Phase:           g.Phase,
		CurrentTurnSeat: g.CurrentTurnSeat,
		Players:         seatViews(g.Players),
		RoundCount:      len(g.Schedule),
	}

	if own := g.PlayerByID(userID); own != nil {
		view.Hand = append([]domain.Card(nil), own.Hand...)
	}

	if r := g.Round; r != nil {
		view.RoundNumber = r.Number
		view.HandSize = r.HandSize
		view.DealerSeat = r.DealerSeat
		trump := r.Trump
		trumpCard := r.TrumpCard
		view.Trump = &trump
		view.TrumpCard = &trumpCard
		if t := r.CurrentTrick; t != nil {
			tv := &TrickView{
				LeaderSeat: t.LeaderSeat,
				Plays:      append([]domain.PlayEntry(nil), t.Plays...),
			}
			if t.LeadSet {
				lead := t.LeadSuit
				tv.LeadSuit = &lead
			}
			view.Trick = tv
		}
	}
	return view
}

func seatViews(players []*domain.Player) []SeatView {
	views := make([]SeatView, len(players))
	for i, p := range players {
		sv := SeatView{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Seat:        p.Seat,
			CardsHeld:   len(p.Hand),
			TricksWon:   p.TricksWon,
			TotalScore:  p.TotalScore,
			Connected:   p.Connected,
		}
		if p.BidSet {
			bid := p.Bid
			sv.Bid = &bid
		}
		views[i] = sv
	}
	return views
}
