package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank entities.Rank, suit entities.Suit) *entities.Card {
	return entities.NewCard(suit, rank)
}

func hand(cards ...*entities.Card) []*entities.Card {
	return cards
}

func TestEvaluate5Categories(t *testing.T) {
	tests := []struct {
		name     string
		cards    []*entities.Card
		category Category
		tieBreak int
	}{
		{
			name: "royal flush",
			cards: hand(
				card(entities.Ten, entities.Hearts), card(entities.Jack, entities.Hearts),
				card(entities.Queen, entities.Hearts), card(entities.King, entities.Hearts),
				card(entities.Ace, entities.Hearts)),
			category: RoyalFlush,
			tieBreak: 14,
		},
		{
			name: "straight flush",
			cards: hand(
				card(entities.Five, entities.Clubs), card(entities.Six, entities.Clubs),
				card(entities.Seven, entities.Clubs), card(entities.Eight, entities.Clubs),
				card(entities.Nine, entities.Clubs)),
			category: StraightFlush,
			tieBreak: 9,
		},
		{
			name: "four of a kind",
			cards: hand(
				card(entities.Nine, entities.Hearts), card(entities.Nine, entities.Clubs),
				card(entities.Nine, entities.Spades), card(entities.Nine, entities.Diamonds),
				card(entities.Two, entities.Hearts)),
			category: FourOfAKind,
			tieBreak: 9,
		},
		{
			name: "full house",
			cards: hand(
				card(entities.King, entities.Hearts), card(entities.King, entities.Clubs),
				card(entities.King, entities.Spades), card(entities.Four, entities.Diamonds),
				card(entities.Four, entities.Hearts)),
			category: FullHouse,
			tieBreak: 13,
		},
		{
			name: "flush",
			cards: hand(
				card(entities.Two, entities.Spades), card(entities.Six, entities.Spades),
				card(entities.Nine, entities.Spades), card(entities.Jack, entities.Spades),
				card(entities.King, entities.Spades)),
			category: Flush,
			tieBreak: 13,
		},
		{
			name: "wheel straight is five high",
			cards: hand(
				card(entities.Ace, entities.Hearts), card(entities.Two, entities.Clubs),
				card(entities.Three, entities.Spades), card(entities.Four, entities.Diamonds),
				card(entities.Five, entities.Hearts)),
			category: Straight,
			tieBreak: 5,
		},
		{
			name: "broadway straight",
			cards: hand(
				card(entities.Ten, entities.Hearts), card(entities.Jack, entities.Clubs),
				card(entities.Queen, entities.Spades), card(entities.King, entities.Diamonds),
				card(entities.Ace, entities.Hearts)),
			category: Straight,
			tieBreak: 14,
		},
		{
			name: "three of a kind",
			cards: hand(
				card(entities.Seven, entities.Hearts), card(entities.Seven, entities.Clubs),
				card(entities.Seven, entities.Spades), card(entities.Two, entities.Diamonds),
				card(entities.King, entities.Hearts)),
			category: ThreeOfAKind,
			tieBreak: 7,
		},
		{
			name: "two pair keeps higher pair",
			cards: hand(
				card(entities.Queen, entities.Hearts), card(entities.Queen, entities.Clubs),
				card(entities.Three, entities.Spades), card(entities.Three, entities.Diamonds),
				card(entities.King, entities.Hearts)),
			category: TwoPair,
			tieBreak: 12,
		},
		{
			name: "pair of twos",
			cards: hand(
				card(entities.Two, entities.Spades), card(entities.Two, entities.Hearts),
				card(entities.Five, entities.Diamonds), card(entities.Nine, entities.Clubs),
				card(entities.King, entities.Spades)),
			category: Pair,
			tieBreak: 2,
		},
		{
			name: "high card",
			cards: hand(
				card(entities.Two, entities.Spades), card(entities.Five, entities.Hearts),
				card(entities.Nine, entities.Diamonds), card(entities.Jack, entities.Clubs),
				card(entities.King, entities.Spades)),
			category: HighCard,
			tieBreak: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := Evaluate5(tt.cards)
			assert.Equal(t, tt.category, rank.Category)
			assert.Equal(t, tt.tieBreak, rank.TieBreak)
		})
	}
}

func TestPayoutTable(t *testing.T) {
	royal := Evaluate5(hand(
		card(entities.Ten, entities.Hearts), card(entities.Jack, entities.Hearts),
		card(entities.Queen, entities.Hearts), card(entities.King, entities.Hearts),
		card(entities.Ace, entities.Hearts)))
	entry, ok := Payout(royal)
	require.True(t, ok)
	assert.Equal(t, "ROYAL FLUSH", entry.Name)
	assert.Equal(t, int64(250), entry.Multiplier)

	// Pair of twos is below Jacks-or-better and pays nothing
	lowPair := Evaluate5(hand(
		card(entities.Two, entities.Spades), card(entities.Two, entities.Hearts),
		card(entities.Five, entities.Diamonds), card(entities.Nine, entities.Clubs),
		card(entities.King, entities.Spades)))
	_, ok = Payout(lowPair)
	assert.False(t, ok)

	// Pair of jacks pays 1x
	jacks := Evaluate5(hand(
		card(entities.Jack, entities.Spades), card(entities.Jack, entities.Hearts),
		card(entities.Five, entities.Diamonds), card(entities.Nine, entities.Clubs),
		card(entities.King, entities.Spades)))
	entry, ok = Payout(jacks)
	require.True(t, ok)
	assert.Equal(t, int64(1), entry.Multiplier)
}

func TestEvaluateBestSevenCards(t *testing.T) {
	// Five spades among seven cards make a flush
	sevenCards := hand(
		card(entities.Two, entities.Spades), card(entities.Six, entities.Spades),
		card(entities.Nine, entities.Spades), card(entities.Jack, entities.Spades),
		card(entities.King, entities.Spades), card(entities.King, entities.Hearts),
		card(entities.King, entities.Diamonds))
	rank := EvaluateBest(sevenCards)
	assert.Equal(t, Flush, rank.Category)

	// A buried wheel still counts
	wheel := hand(
		card(entities.Ace, entities.Hearts), card(entities.Two, entities.Clubs),
		card(entities.Three, entities.Spades), card(entities.Four, entities.Diamonds),
		card(entities.Five, entities.Hearts), card(entities.King, entities.Clubs),
		card(entities.King, entities.Spades))
	rank = EvaluateBest(wheel)
	assert.Equal(t, Straight, rank.Category)
	assert.Equal(t, 5, rank.TieBreak)
}

func TestCompare(t *testing.T) {
	flush := HandRank{Flush, 13}
	straight := HandRank{Straight, 14}
	assert.Equal(t, 1, Compare(flush, straight))
	assert.Equal(t, -1, Compare(straight, flush))
	assert.Equal(t, 0, Compare(flush, HandRank{Flush, 13}))
}

// toLibraryCard converts to the paulhankin/poker representation (Ace = 1)
func toLibraryCard(t *testing.T, c *entities.Card) ph.Card {
	t.Helper()

	var suit ph.Suit
	switch c.Suit {
	case entities.Clubs:
		suit = ph.Club
	case entities.Diamonds:
		suit = ph.Diamond
	case entities.Hearts:
		suit = ph.Heart
	case entities.Spades:
		suit = ph.Spade
	}

	value := RankValue(c.Rank)
	if value == 14 {
		value = 1
	}
	card, err := ph.MakeCard(suit, ph.Rank(value))
	require.NoError(t, err)
	return card
}

// libraryDirection reports +1 if larger Eval5 scores are stronger, -1 if
// smaller ones are, calibrated with a royal flush against a high card.
func libraryDirection(t *testing.T) int16 {
	t.Helper()

	royal := hand(
		card(entities.Ten, entities.Hearts), card(entities.Jack, entities.Hearts),
		card(entities.Queen, entities.Hearts), card(entities.King, entities.Hearts),
		card(entities.Ace, entities.Hearts))
	junk := hand(
		card(entities.Two, entities.Spades), card(entities.Five, entities.Hearts),
		card(entities.Nine, entities.Diamonds), card(entities.Jack, entities.Clubs),
		card(entities.King, entities.Spades))

	var a, b [5]ph.Card
	for i := range royal {
		a[i] = toLibraryCard(t, royal[i])
		b[i] = toLibraryCard(t, junk[i])
	}
	if ph.Eval5(&a) > ph.Eval5(&b) {
		return 1
	}
	return -1
}

// TestSevenCardOrderAgainstLibrary cross-checks winner selection on
// seven-card matchups against an independent evaluator.
func TestSevenCardOrderAgainstLibrary(t *testing.T) {
	direction := libraryDirection(t)

	community := hand(
		card(entities.Ten, entities.Hearts), card(entities.Jack, entities.Hearts),
		card(entities.Two, entities.Clubs), card(entities.Seven, entities.Diamonds),
		card(entities.Queen, entities.Hearts))

	matchups := []struct {
		name         string
		playerHole   []*entities.Card
		dealerHole   []*entities.Card
	}{
		{
			name:       "flush beats pair",
			playerHole: hand(card(entities.Three, entities.Hearts), card(entities.Five, entities.Hearts)),
			dealerHole: hand(card(entities.Jack, entities.Spades), card(entities.Four, entities.Clubs)),
		},
		{
			name:       "straight beats two pair",
			playerHole: hand(card(entities.King, entities.Spades), card(entities.Ace, entities.Clubs)),
			dealerHole: hand(card(entities.Jack, entities.Diamonds), card(entities.Queen, entities.Clubs)),
		},
		{
			name:       "trips beat pair",
			playerHole: hand(card(entities.Two, entities.Spades), card(entities.Two, entities.Diamonds)),
			dealerHole: hand(card(entities.Seven, entities.Clubs), card(entities.Three, entities.Spades)),
		},
	}

	for _, tt := range matchups {
		t.Run(tt.name, func(t *testing.T) {
			playerCards := append(append([]*entities.Card{}, tt.playerHole...), community...)
			dealerCards := append(append([]*entities.Card{}, tt.dealerHole...), community...)

			ours := Compare(EvaluateBest(playerCards), EvaluateBest(dealerCards))

			var playerLib, dealerLib [7]ph.Card
			for i, c := range playerCards {
				playerLib[i] = toLibraryCard(t, c)
			}
			for i, c := range dealerCards {
				dealerLib[i] = toLibraryCard(t, c)
			}
			playerScore := ph.Eval7(&playerLib)
			dealerScore := ph.Eval7(&dealerLib)

			theirs := 0
			if direction*playerScore > direction*dealerScore {
				theirs = 1
			} else if direction*playerScore < direction*dealerScore {
				theirs = -1
			}

			assert.Equal(t, theirs, ours, "winner disagrees with reference evaluator")
		})
	}
}
