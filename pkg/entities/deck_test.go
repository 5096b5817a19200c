package entities

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck.Cards, 52)

	seen := make(map[Card]bool)
	for _, c := range deck.Cards {
		seen[*c] = true
	}
	assert.Len(t, seen, 52, "deck must contain 52 distinct cards")
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := NewShuffledDeck(rand.New(rand.NewSource(42)))
	require.Len(t, deck.Cards, 52)

	seen := make(map[Card]int)
	for _, c := range deck.Cards {
		seen[*c]++
	}
	for card, count := range seen {
		assert.Equal(t, 1, count, "card %s appears %d times", card.String(), count)
	}
}

func TestDrawConsumesCards(t *testing.T) {
	deck := NewShuffledDeck(rand.New(rand.NewSource(1)))

	first := deck.Cards[0]
	card, err := deck.Draw()
	require.NoError(t, err)
	assert.Equal(t, first, card)
	assert.Equal(t, 51, deck.Remaining())

	// Drawn cards never reappear
	for deck.Remaining() > 0 {
		next, err := deck.Draw()
		require.NoError(t, err)
		assert.NotEqual(t, card, next)
	}

	_, err = deck.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestNeedsReshuffle(t *testing.T) {
	deck := NewDeck()
	assert.False(t, deck.NeedsReshuffle())

	for deck.Remaining() > ReshuffleThreshold {
		_, err := deck.Draw()
		require.NoError(t, err)
	}
	assert.False(t, deck.NeedsReshuffle())

	_, err := deck.Draw()
	require.NoError(t, err)
	assert.True(t, deck.NeedsReshuffle())
}
