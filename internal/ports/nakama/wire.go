package nakama

// Wire payloads are JSON-encoded. Every server event carries the match
// state version so clients can detect delivery gaps and request a fresh
// snapshot.

// WireCard is a card on the wire.
type WireCard struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

// WirePlay is one (player, card) entry of a trick.
type WirePlay struct {
	UserID string   `json:"user_id"`
	Seat   int      `json:"seat"`
	Card   WireCard `json:"card"`
}

// WireSeat is the public view of one seat; opponents only ever see a
// card count.
type WireSeat struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Seat        int    `json:"seat"`
	CardsHeld   int    `json:"cards_held"`
	Bid         *int   `json:"bid,omitempty"`
	TricksWon   int    `json:"tricks_won"`
	TotalScore  int    `json:"total_score"`
	Connected   bool   `json:"connected"`
}

// WireDelta is one player's settlement line for a scored round.
type WireDelta struct {
	UserID    string `json:"user_id"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricks_won"`
	Delta     int    `json:"delta"`
	Total     int    `json:"total"`
}

// WireTrick is the trick in progress.
type WireTrick struct {
	LeaderSeat int        `json:"leader_seat"`
	LeadSuit   *int       `json:"lead_suit,omitempty"`
	Plays      []WirePlay `json:"plays"`
}

// WireSnapshot is the full game view scoped to the receiving player.
type WireSnapshot struct {
	GameID          string     `json:"game_id"`
	Phase           string     `json:"phase"`
	RoundNumber     int        `json:"round_number"`
	RoundCount      int        `json:"round_count"`
	HandSize        int        `json:"hand_size"`
	TrumpSuit       *int       `json:"trump_suit,omitempty"`
	TrumpCard       *WireCard  `json:"trump_card,omitempty"`
	DealerSeat      int        `json:"dealer_seat"`
	CurrentTurnSeat int        `json:"current_turn_seat"`
	Players         []WireSeat `json:"players"`
	Trick           *WireTrick `json:"trick,omitempty"`
	Hand            []WireCard `json:"hand"`
}

// Client -> Server requests. Seq is the per-player idempotency key; the
// handler never applies the same (player, seq) twice.

type StartGameRequest struct {
	Seq uint64 `json:"seq"`
}

type PlaceBidRequest struct {
	Seq uint64 `json:"seq"`
	Bid int    `json:"bid"`
}

type PlayCardRequest struct {
	Seq  uint64   `json:"seq"`
	Card WireCard `json:"card"`
}

// seqProbe extracts the idempotency key from any command payload.
type seqProbe struct {
	Seq uint64 `json:"seq"`
}

// Server -> Client events.

type CommandAck struct {
	Version uint64 `json:"version"`
	Seq     uint64 `json:"seq"`
	Applied bool   `json:"applied"`
}

type PlayerJoinedEvent struct {
	Version     uint64 `json:"version"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Seat        int    `json:"seat"`
	Owner       bool   `json:"owner"`
	Reconnect   bool   `json:"reconnect"`
}

type PlayerLeftEvent struct {
	Version uint64 `json:"version"`
	UserID  string `json:"user_id"`
	Seat    int    `json:"seat"`
}

type GameStartedEvent struct {
	Version    uint64     `json:"version"`
	GameID     string     `json:"game_id"`
	RoundCount int        `json:"round_count"`
	Players    []WireSeat `json:"players"`
}

type RoundStartedEvent struct {
	Version       uint64   `json:"version"`
	RoundNumber   int      `json:"round_number"`
	HandSize      int      `json:"hand_size"`
	TrumpSuit     int      `json:"trump_suit"`
	TrumpCard     WireCard `json:"trump_card"`
	DealerSeat    int      `json:"dealer_seat"`
	FirstTurnSeat int      `json:"first_turn_seat"`
}

type HandDealtEvent struct {
	Version     uint64     `json:"version"`
	RoundNumber int        `json:"round_number"`
	Hand        []WireCard `json:"hand"`
}

type BidPlacedEvent struct {
	Version      uint64 `json:"version"`
	UserID       string `json:"user_id"`
	Seat         int    `json:"seat"`
	Bid          int    `json:"bid"`
	NextTurnSeat int    `json:"next_turn_seat"`
	AllBidsIn    bool   `json:"all_bids_in"`
}

type CardPlayedEvent struct {
	Version      uint64   `json:"version"`
	UserID       string   `json:"user_id"`
	Seat         int      `json:"seat"`
	Card         WireCard `json:"card"`
	NextTurnSeat int      `json:"next_turn_seat"`
}

type TrickResolvedEvent struct {
	Version      uint64     `json:"version"`
	TrickNumber  int        `json:"trick_number"`
	WinnerUserID string     `json:"winner_user_id"`
	WinnerSeat   int        `json:"winner_seat"`
	Plays        []WirePlay `json:"plays"`
}

type RoundScoredEvent struct {
	Version     uint64      `json:"version"`
	RoundNumber int         `json:"round_number"`
	Scores      []WireDelta `json:"scores"`
}

type GameEndedEvent struct {
	Version      uint64      `json:"version"`
	WinnerUserID string      `json:"winner_user_id"`
	FinalScores  []WireDelta `json:"final_scores"`
}

type StateSnapshotEvent struct {
	Version  uint64       `json:"version"`
	Snapshot WireSnapshot `json:"snapshot"`
}

type GameErrorEvent struct {
	Version uint64 `json:"version"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GameFailedEvent struct {
	Version uint64 `json:"version"`
	Detail  string `json:"detail"`
}

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}
