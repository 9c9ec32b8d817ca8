package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameOhHell is the authoritative match handler name registered with Nakama.
	MatchNameOhHell = "ohhell_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame       int64 = 1
	OpPlaceBid        int64 = 2
	OpPlayCard        int64 = 3
	OpRequestSnapshot int64 = 4

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpRoundStarted  int64 = 104
	OpHandDealt     int64 = 105 // sent privately
	OpBidPlaced     int64 = 106
	OpCardPlayed    int64 = 107
	OpTrickResolved int64 = 108
	OpRoundScored   int64 = 109
	OpGameEnded     int64 = 110
	OpStateSnapshot int64 = 111
	OpCommandAck    int64 = 112
	OpGameError     int64 = 113
	OpGameFailed    int64 = 114
)
