package bot

import (
	"testing"

	"ohhell/internal/domain"
)

func biddingGame(t *testing.T, handSize int, bids []int) *domain.Game {
	t.Helper()
	seats := []domain.SeatInfo{
		{UserID: "u0"}, {UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"},
	}
	g := domain.NewGame("g", seats, []int{handSize})
	if err := g.BeginRound(domain.NewDeck(), domain.TrumpTurnUp); err != nil {
		t.Fatalf("BeginRound() error = %v", err)
	}
	// Bidding starts left of dealer seat 0.
	users := []string{"u1", "u2", "u3", "u0"}
	for i, b := range bids {
		if err := g.PlaceBid(users[i], b); err != nil {
			t.Fatalf("PlaceBid(%s, %d) error = %v", users[i], b, err)
		}
	}
	return g
}

func TestAgentChooseBid(t *testing.T) {
	tests := []struct {
		name     string
		handSize int
		bids     []int
		user     string
		want     int
	}{
		{
			name:     "FirstBidderBidsZero",
			handSize: 3, bids: nil, user: "u1",
			want: 0,
		},
		{
			name: "LastBidderZeroAllowed",
			// Prior bids total 2 of 3; zero is not the forbidden value.
			handSize: 3, bids: []int{1, 1, 0}, user: "u0",
			want: 0,
		},
		{
			name: "LastBidderZeroHooked",
			// Prior bids total 3 of 3; forbidden value is 0, so the
			// agent must step up to 1.
			handSize: 3, bids: []int{1, 1, 1}, user: "u0",
			want: 1,
		},
		{
			name: "OneCardRoundHooked",
			// Prior bids total 1 of 1; the forbidden value is 0.
			handSize: 1, bids: []int{0, 0, 1}, user: "u0",
			want: 1,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			g := biddingGame(t, test.handSize, test.bids)
			agent := NewAgent(test.user)
			got := agent.ChooseBid(g)
			if got != test.want {
				t.Fatalf("ChooseBid() = %d, want %d", got, test.want)
			}
			if err := g.PlaceBid(test.user, got); err != nil {
				t.Fatalf("agent's bid rejected: %v", err)
			}
		})
	}
}

func TestAgentChooseCard(t *testing.T) {
	g := biddingGame(t, 2, []int{0, 0, 0, 1})
	if g.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want %s", g.Phase, domain.PhasePlaying)
	}

	// With an unshuffled deck seat 1 leads holding C2,C3; the agent
	// leads its lowest card.
	agent := NewAgent("u1")
	card, err := agent.ChooseCard(g)
	if err != nil {
		t.Fatalf("ChooseCard() error = %v", err)
	}
	want := domain.Card{Suit: domain.Clubs, Rank: domain.Two}
	if card != want {
		t.Fatalf("lead = %s, want %s", card, want)
	}
	if _, err := g.PlayCard("u1", card); err != nil {
		t.Fatalf("agent's lead rejected: %v", err)
	}

	// Seat 2 holds C4,C5 and must follow clubs with its lowest.
	agent = NewAgent("u2")
	card, err = agent.ChooseCard(g)
	if err != nil {
		t.Fatalf("ChooseCard() error = %v", err)
	}
	want = domain.Card{Suit: domain.Clubs, Rank: domain.Four}
	if card != want {
		t.Fatalf("follow = %s, want %s", card, want)
	}
	if _, err := g.PlayCard("u2", card); err != nil {
		t.Fatalf("agent's follow rejected: %v", err)
	}
}

func TestAgentUnknownSeat(t *testing.T) {
	g := biddingGame(t, 2, nil)
	agent := NewAgent("stranger")
	if got := agent.ChooseBid(g); got != 0 {
		t.Fatalf("ChooseBid() for unseated agent = %d, want 0", got)
	}
	if _, err := agent.ChooseCard(g); err == nil {
		t.Fatal("ChooseCard() for unseated agent returned no error")
	}
}
