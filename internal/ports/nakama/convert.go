package nakama

import (
	"fmt"

	"ohhell/internal/app"
	"ohhell/internal/domain"
)

// toWireCard maps a domain card to the wire representation.
func toWireCard(c domain.Card) WireCard {
	return WireCard{Suit: int(c.Suit), Rank: int(c.Rank)}
}

func toWireCards(cards []domain.Card) []WireCard {
	out := make([]WireCard, len(cards))
	for i, c := range cards {
		out[i] = toWireCard(c)
	}
	return out
}

// fromWireCard validates and maps a client-supplied card. Malformed
// values are a protocol error, reported without touching state.
func fromWireCard(w WireCard) (domain.Card, error) {
	if w.Suit < int(domain.Clubs) || w.Suit > int(domain.Spades) {
		return domain.Card{}, fmt.Errorf("invalid suit %d", w.Suit)
	}
	if w.Rank < int(domain.Two) || w.Rank > int(domain.Ace) {
		return domain.Card{}, fmt.Errorf("invalid rank %d", w.Rank)
	}
	return domain.Card{Suit: domain.Suit(w.Suit), Rank: domain.Rank(w.Rank)}, nil
}

func toWirePlays(plays []domain.PlayEntry) []WirePlay {
	out := make([]WirePlay, len(plays))
	for i, p := range plays {
		out[i] = WirePlay{UserID: p.UserID, Seat: p.Seat, Card: toWireCard(p.Card)}
	}
	return out
}

func toWireSeats(views []app.SeatView) []WireSeat {
	out := make([]WireSeat, len(views))
	for i, v := range views {
		out[i] = WireSeat{
			UserID:      v.UserID,
			DisplayName: v.DisplayName,
			Seat:        v.Seat,
			CardsHeld:   v.CardsHeld,
			Bid:         v.Bid,
			TricksWon:   v.TricksWon,
			TotalScore:  v.TotalScore,
			Connected:   v.Connected,
		}
	}
	return out
}

func toWireDeltas(deltas []domain.PlayerDelta) []WireDelta {
	out := make([]WireDelta, len(deltas))
	for i, d := range deltas {
		out[i] = WireDelta{
			UserID:    d.UserID,
			Bid:       d.Bid,
			TricksWon: d.TricksWon,
			Delta:     d.Delta,
			Total:     d.Total,
		}
	}
	return out
}

func toWireSnapshot(v app.SnapshotView) WireSnapshot {
	snap := WireSnapshot{
		GameID:          v.GameID,
		Phase:           string(v.Phase),
		RoundNumber:     v.RoundNumber,
		RoundCount:      v.RoundCount,
		HandSize:        v.HandSize,
		DealerSeat:      v.DealerSeat,
		CurrentTurnSeat: v.CurrentTurnSeat,
		Players:         toWireSeats(v.Players),
		Hand:            toWireCards(v.Hand),
	}
	if v.Trump != nil {
		suit := int(*v.Trump)
		snap.TrumpSuit = &suit
	}
	if v.TrumpCard != nil {
		card := toWireCard(*v.TrumpCard)
		snap.TrumpCard = &card
	}
	if v.Trick != nil {
		wt := &WireTrick{
			LeaderSeat: v.Trick.LeaderSeat,
			Plays:      toWirePlays(v.Trick.Plays),
		}
		if v.Trick.LeadSuit != nil {
			lead := int(*v.Trick.LeadSuit)
			wt.LeadSuit = &lead
		}
		snap.Trick = wt
	}
	return snap
}
