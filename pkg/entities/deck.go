package entities

import (
	"errors"
	"math/rand"
	"time"
)

var (
	// ErrEmptyDeck is returned when drawing from an exhausted deck. With
	// the reshuffle threshold honored by every game this never happens;
	// if it does, the round is unrecoverable.
	ErrEmptyDeck = errors.New("deck is empty")
)

// ReshuffleThreshold is the card count below which a deck is discarded
// and replaced by a fresh shuffled deck before the next deal.
const ReshuffleThreshold = 10

type Deck struct {
	Cards []*Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards}
}

// NewShuffledDeck creates a new deck and shuffles it with the given source.
// A nil rng falls back to a time-seeded source.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	deck := NewDeck()
	deck.ShuffleWith(rng)
	return deck
}

// Shuffle performs a uniform permutation of the remaining cards
func (d *Deck) Shuffle() {
	d.ShuffleWith(nil)
}

// ShuffleWith shuffles using the given source, seeding from the clock when
// rng is nil. rand.Shuffle is a Fisher-Yates shuffle, so every permutation
// is equally likely.
func (d *Deck) ShuffleWith(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) == 0 {
		return nil, ErrEmptyDeck
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// NeedsReshuffle reports whether the deck is below the reshuffle threshold
func (d *Deck) NeedsReshuffle() bool {
	return len(d.Cards) < ReshuffleThreshold
}
