package bot

import (
	"errors"

	"ohhell/internal/domain"
)

// Strategy decides a bid or a card for a player. Play strength is not a
// goal; the default strategy only guarantees legal, prompt moves.
type Strategy interface {
	ChooseBid(g *domain.Game, p *domain.Player) int
	ChooseCard(g *domain.Game, p *domain.Player) (domain.Card, error)
}

// Agent drives one seat with a strategy. It backs the turn-timeout
// auto-action for disconnected players.
type Agent struct {
	UserID   string
	Strategy Strategy
}

// NewAgent returns an agent for the seat using the default strategy.
func NewAgent(userID string) *Agent {
	return &Agent{UserID: userID, Strategy: lowestLegal{}}
}

// ChooseBid returns the agent's bid for the current round.
func (a *Agent) ChooseBid(g *domain.Game) int {
	p := g.PlayerByID(a.UserID)
	if p == nil {
		return 0
	}
	return a.Strategy.ChooseBid(g, p)
}

// ChooseCard returns the agent's card for the current trick.
func (a *Agent) ChooseCard(g *domain.Game) (domain.Card, error) {
	p := g.PlayerByID(a.UserID)
	if p == nil {
		return domain.Card{}, errors.New("agent has no seat in game")
	}
	return a.Strategy.ChooseCard(g, p)
}

// lowestLegal bids zero (or the smallest value the hook rule allows) and
// plays the weakest legal card.
type lowestLegal struct{}

func (lowestLegal) ChooseBid(g *domain.Game, p *domain.Player) int {
	for bid := 0; bid <= g.Round.HandSize; bid++ {
		if err := validateFor(g, bid); err == nil {
			return bid
		}
	}
	return 0
}

func validateFor(g *domain.Game, bid int) error {
	prior := make([]int, 0, len(g.Players))
	placed := 0
	for _, other := range g.Players {
		if other.BidSet {
			prior = append(prior, other.Bid)
			placed++
		}
	}
	return domain.ValidateBid(g.Round.HandSize, prior, placed == len(g.Players)-1, bid)
}

func (lowestLegal) ChooseCard(g *domain.Game, p *domain.Player) (domain.Card, error) {
	legal := domain.LegalPlays(p.Hand, g.Round.CurrentTrick)
	if len(legal) == 0 {
		return domain.Card{}, errors.New("no legal plays")
	}
	lowest := legal[0]
	for _, c := range legal[1:] {
		if c.Rank < lowest.Rank {
			lowest = c
		}
	}
	return lowest, nil
}
