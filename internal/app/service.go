package app

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"ohhell/internal/config"
	"ohhell/internal/domain"
)

// Service contains the game use-cases operating on domain state. It owns
// the shuffle source and configuration; callers own serialization.
type Service struct {
	rng *rand.Rand
	cfg *config.GameConfig
}

// NewService constructs a Service with the provided rng and config, or
// time-seeded and default values when nil.
func NewService(rng *rand.Rand, cfg *config.GameConfig) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{rng: rng, cfg: cfg}
}

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players to start")
	ErrNoGame         = errors.New("no game in progress")
)

// StartGame creates the game aggregate for the given seats and deals the
// first round. Seats are in fixed turn order.
func (s *Service) StartGame(seats []domain.SeatInfo) (*domain.Game, []Event, error) {
	if len(seats) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	if len(seats) > MaxPlayers {
		return nil, nil, ErrTooManyPlayers
	}

	schedule := s.cfg.ScheduleFor(len(seats))
	game := domain.NewGame(uuid.NewString(), seats, schedule)

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:     game.ID,
			Players:    seatViews(game.Players),
			RoundCount: len(schedule),
		},
	}}

	roundEvents, err := s.beginRound(game)
	if err != nil {
		return nil, nil, err
	}
	return game, append(events, roundEvents...), nil
}

// beginRound shuffles a fresh deck, deals the next scheduled round, and
// emits the public round event plus a private hand event per player.
func (s *Service) beginRound(g *domain.Game) ([]Event, error) {
	deck := domain.ShuffleDeck(domain.NewDeck(), s.rng)
	if err := g.BeginRound(deck, s.cfg.TrumpPolicyValue()); err != nil {
		return nil, err
	}

	r := g.Round
	events := []Event{{
		Kind: EventRoundStarted,
		Payload: RoundStartedPayload{
			RoundNumber:   r.Number,
			HandSize:      r.HandSize,
			Trump:         r.Trump,
			TrumpCard:     r.TrumpCard,
			DealerSeat:    r.DealerSeat,
			FirstTurnSeat: g.CurrentTurnSeat,
		},
	}}
	for _, p := range g.Players {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID:      p.UserID,
				RoundNumber: r.Number,
				Hand:        append([]domain.Card(nil), p.Hand...),
			},
			Recipients: []string{p.UserID},
		})
	}
	return events, nil
}

// PlaceBid validates and applies a bid, emitting the table-wide bid
// event. When the final bid lands the game is already in the playing
// phase and the event says so.
func (s *Service) PlaceBid(g *domain.Game, userID string, bid int) ([]Event, error) {
	if g == nil {
		return nil, ErrNoGame
	}
	p := g.PlayerByID(userID)
	if err := g.PlaceBid(userID, bid); err != nil {
		return nil, err
	}

	return []Event{{
		Kind: EventBidPlaced,
		Payload: BidPlacedPayload{
			UserID:       userID,
			Seat:         p.Seat,
			Bid:          bid,
			NextTurnSeat: g.CurrentTurnSeat,
			AllBidsIn:    g.Phase == domain.PhasePlaying,
		},
	}}, nil
}

// PlayCard validates and applies a card play, emitting the play event
// and any trick, round and game settlement events it triggers.
func (s *Service) PlayCard(g *domain.Game, userID string, card domain.Card) ([]Event, error) {
	if g == nil {
		return nil, ErrNoGame
	}
	p := g.PlayerByID(userID)
	result, err := g.PlayCard(userID, card)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:       userID,
			Seat:         p.Seat,
			Card:         card,
			NextTurnSeat: g.CurrentTurnSeat,
		},
	}}

	if result == nil {
		return events, nil
	}
	events = append(events, Event{
		Kind: EventTrickResolved,
		Payload: TrickResolvedPayload{
			TrickNumber:  result.TrickNumber,
			WinnerUserID: result.WinnerUserID,
			WinnerSeat:   result.WinnerSeat,
			Plays:        result.Plays,
		},
	})

	if g.Phase != domain.PhaseRoundScoring {
		return events, nil
	}

	roundNumber := g.Round.Number
	deltas, err := g.ScoreRound()
	if err != nil {
		return nil, err
	}
	events = append(events, Event{
		Kind: EventRoundScored,
		Payload: RoundScoredPayload{
			RoundNumber: roundNumber,
			Deltas:      deltas,
		},
	})

	switch g.Phase {
	case domain.PhaseDealing:
		roundEvents, err := s.beginRound(g)
		if err != nil {
			return nil, err
		}
		events = append(events, roundEvents...)
	case domain.PhaseEnded:
		winner := domain.GameWinner(g.Players, s.cfg.TieBreakValue())
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerUserID: winner.UserID,
				FinalScores:  deltas,
			},
		})
	}
	return events, nil
}
