package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Suit identifies one of the four card suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// suitCodes are the short codes used in logs and wire payloads.
var suitCodes = [...]string{"C", "D", "H", "S"}

func (s Suit) String() string {
	if s < Clubs || s > Spades {
		return "?"
	}
	return suitCodes[s]
}

// Rank identifies a card rank. Order is ascending strength: Two is the
// weakest card, Ace the strongest.
type Rank int

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankCodes = [...]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return rankCodes[r]
}

// Card is a single playing card. Value type; equality is (Suit, Rank).
type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// ErrInsufficientCards indicates a deal request exceeded the remaining
// deck. The engine's own schedule guarantees this never happens; hitting
// it is an invariant violation, not a user-facing condition.
var ErrInsufficientCards = errors.New("not enough cards remaining in deck")

// NewDeck returns the full 52-card deck in canonical order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck using the
// provided source. The same source state always yields the same order.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal removes n cards from the front of the deck and returns them with
// the remaining deck.
func Deal(deck []Card, n int) (dealt, rest []Card, err error) {
	if n < 0 || n > len(deck) {
		return nil, deck, fmt.Errorf("deal %d of %d: %w", n, len(deck), ErrInsufficientCards)
	}
	dealt = append([]Card(nil), deck[:n]...)
	rest = append([]Card(nil), deck[n:]...)
	return dealt, rest, nil
}

// SortHand orders a hand by suit then ascending rank for stable display
// and deterministic lowest-card selection.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cardLess(cards[i], cards[j]) })
}

func cardLess(a, b Card) bool {
	if a.Suit != b.Suit {
		return a.Suit < b.Suit
	}
	return a.Rank < b.Rank
}

func indexOfCard(cards []Card, target Card) (int, bool) {
	for i, c := range cards {
		if c == target {
			return i, true
		}
	}
	return -1, false
}

func hasCardOfSuit(cards []Card, s Suit) bool {
	for _, c := range cards {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// RemoveCard removes a single card from a hand and returns the updated
// hand. The second result reports whether the card was present.
func RemoveCard(hand []Card, target Card) ([]Card, bool) {
	idx, ok := indexOfCard(hand, target)
	if !ok {
		return hand, false
	}
	updated := make([]Card, 0, len(hand)-1)
	updated = append(updated, hand[:idx]...)
	updated = append(updated, hand[idx+1:]...)
	return updated, true
}
