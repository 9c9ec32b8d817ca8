package app

import "ohhell/internal/domain"

// EventKind identifies emitted app events for transport dispatch.
type EventKind string

const (
	EventGameStarted   EventKind = "game_started"
	EventRoundStarted  EventKind = "round_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventBidPlaced     EventKind = "bid_placed"
	EventCardPlayed    EventKind = "card_played"
	EventTrickResolved EventKind = "trick_resolved"
	EventRoundScored   EventKind = "round_scored"
	EventGameEnded     EventKind = "game_ended"
	EventGameFailed    EventKind = "game_failed"
)

// Event is an app-level event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID     string
	Players    []SeatView
	RoundCount int
}

type RoundStartedPayload struct {
	RoundNumber   int
	HandSize      int
	Trump         domain.Suit
	TrumpCard     domain.Card
	DealerSeat    int
	FirstTurnSeat int
}

type HandDealtPayload struct {
	UserID      string
	RoundNumber int
	Hand        []domain.Card
}

type BidPlacedPayload struct {
	UserID       string
	Seat         int
	Bid          int
	NextTurnSeat int
	AllBidsIn    bool
}

type CardPlayedPayload struct {
	UserID       string
	Seat         int
	Card         domain.Card
	NextTurnSeat int
}

type TrickResolvedPayload struct {
	TrickNumber  int
	WinnerUserID string
	WinnerSeat   int
	Plays        []domain.PlayEntry
}

type RoundScoredPayload struct {
	RoundNumber int
	Deltas      []domain.PlayerDelta
}

type GameEndedPayload struct {
	WinnerUserID string
	FinalScores  []domain.PlayerDelta
}

type GameFailedPayload struct {
	Detail string
}
