package domain

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		bid       int
		tricksWon int
		want      int
	}{
		{name: "ExactZero", bid: 0, tricksWon: 0, want: 10},
		{name: "ExactThree", bid: 3, tricksWon: 3, want: 13},
		{name: "OverByOne", bid: 2, tricksWon: 3, want: -1},
		{name: "UnderByTwo", bid: 4, tricksWon: 2, want: -2},
		{name: "MissedZeroBid", bid: 0, tricksWon: 4, want: -4},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := Score(test.bid, test.tricksWon); got != test.want {
				t.Fatalf("Score(%d, %d) = %d, want %d", test.bid, test.tricksWon, got, test.want)
			}
		})
	}
}

func TestGameWinner(t *testing.T) {
	tests := []struct {
		name    string
		players []*Player
		rule    TieBreak
		want    string
	}{
		{
			name: "HighestTotal",
			players: []*Player{
				{UserID: "a", Seat: 0, TotalScore: 12},
				{UserID: "b", Seat: 1, TotalScore: 30},
				{UserID: "c", Seat: 2, TotalScore: 21},
			},
			rule: TieBreakFewestMisses,
			want: "b",
		},
		{
			name: "TieFewestMisses",
			players: []*Player{
				{UserID: "a", Seat: 0, TotalScore: 30, BidMisses: 3},
				{UserID: "b", Seat: 1, TotalScore: 30, BidMisses: 1},
				{UserID: "c", Seat: 2, TotalScore: 28, BidMisses: 0},
			},
			rule: TieBreakFewestMisses,
			want: "b",
		},
		{
			name: "TieEqualMissesEarlierSeat",
			players: []*Player{
				{UserID: "a", Seat: 0, TotalScore: 30, BidMisses: 2},
				{UserID: "b", Seat: 1, TotalScore: 30, BidMisses: 2},
			},
			rule: TieBreakFewestMisses,
			want: "a",
		},
		{
			name: "TieSeatOrderIgnoresMisses",
			players: []*Player{
				{UserID: "a", Seat: 0, TotalScore: 30, BidMisses: 5},
				{UserID: "b", Seat: 1, TotalScore: 30, BidMisses: 0},
			},
			rule: TieBreakSeatOrder,
			want: "a",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := GameWinner(test.players, test.rule)
			if got == nil || got.UserID != test.want {
				t.Fatalf("GameWinner() = %v, want %s", got, test.want)
			}
		})
	}
}
