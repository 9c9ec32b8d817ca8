package app

// Table size limits.
const (
	MinPlayersToStartGame = 3
	MaxPlayers            = 7
)
