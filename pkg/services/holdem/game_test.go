package holdem

import (
	"context"
	"testing"

	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/poker"
	roundRepo "github.com/royalmock/casino/pkg/repositories/round"
	walletRepo "github.com/royalmock/casino/pkg/repositories/wallet"
	"github.com/royalmock/casino/pkg/services/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) (*Game, *wallet.Service) {
	t.Helper()
	wallets := wallet.NewService(walletRepo.NewMemoryRepository())
	g := NewGame("player1", wallets, roundRepo.NewMemoryRepository())
	return g, wallets
}

func card(suit entities.Suit, rank entities.Rank) *entities.Card {
	return entities.NewCard(suit, rank)
}

// rig replaces the dealt holes and remaining deck so the streets and
// showdown are fully scripted
func rig(g *Game, player, dealer []*entities.Card, community ...*entities.Card) {
	g.PlayerHand = player
	g.DealerHand = dealer
	g.deck = &entities.Deck{Cards: community}
}

func TestDealOpensPotAtTwiceTheAnte(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Deal(ctx, 50))
	assert.Equal(t, PhasePreflop, g.Phase)
	assert.Equal(t, int64(100), g.Pot)
	assert.Len(t, g.PlayerHand, 2)
	assert.Len(t, g.DealerHand, 2)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(950), balance)
}

func TestCheckThroughToShowdownPlayerWins(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Deal(ctx, 50))
	rig(g,
		[]*entities.Card{card(entities.Hearts, entities.Ace), card(entities.Spades, entities.Ace)},
		[]*entities.Card{card(entities.Clubs, entities.Two), card(entities.Diamonds, entities.Seven)},
		card(entities.Diamonds, entities.Ace), card(entities.Clubs, entities.King), card(entities.Hearts, entities.Nine),
		card(entities.Spades, entities.Four), card(entities.Clubs, entities.Jack),
	)

	require.NoError(t, g.Check(ctx)) // flop
	assert.Len(t, g.Community, 3)
	require.NoError(t, g.Check(ctx)) // turn
	require.NoError(t, g.Check(ctx)) // river
	assert.Len(t, g.Community, 5)
	require.NoError(t, g.Check(ctx)) // showdown

	result, playerRank, dealerRank, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, ResultWin, result)
	assert.Equal(t, poker.ThreeOfAKind, playerRank.Category)
	assert.Equal(t, poker.HighCard, dealerRank.Category)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), balance) // 1000 - 50 + 100
}

func TestRaiseGrowsPotByDouble(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Deal(ctx, 50))
	rig(g,
		[]*entities.Card{card(entities.Hearts, entities.King), card(entities.Spades, entities.King)},
		[]*entities.Card{card(entities.Clubs, entities.Two), card(entities.Diamonds, entities.Seven)},
		card(entities.Diamonds, entities.King), card(entities.Clubs, entities.Nine), card(entities.Hearts, entities.Three),
		card(entities.Spades, entities.Four), card(entities.Clubs, entities.Jack),
	)

	require.NoError(t, g.Bet(ctx)) // raise 50, dealer calls
	assert.Equal(t, int64(200), g.Pot)
	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Check(ctx))

	result, _, _, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, ResultWin, result)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1100), balance) // 1000 - 50 - 50 + 200
}

func TestTieSplitsPot(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Deal(ctx, 50))
	// Both hole pairs miss the board; the community plays for both
	// sides as the same straight.
	rig(g,
		[]*entities.Card{card(entities.Hearts, entities.Two), card(entities.Spades, entities.Two)},
		[]*entities.Card{card(entities.Clubs, entities.Three), card(entities.Diamonds, entities.Three)},
		card(entities.Diamonds, entities.Ten), card(entities.Clubs, entities.Jack), card(entities.Hearts, entities.Queen),
		card(entities.Spades, entities.King), card(entities.Hearts, entities.Ace),
	)

	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Check(ctx))

	result, playerRank, dealerRank, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, ResultTie, result)
	assert.Equal(t, poker.Straight, playerRank.Category)
	assert.Equal(t, poker.Straight, dealerRank.Category)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance) // ante back as half of a 100 pot
}

func TestFoldForfeitsPot(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Deal(ctx, 50))
	require.NoError(t, g.Check(ctx))
	require.NoError(t, g.Fold(ctx))

	result, _, _, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, ResultFold, result)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(950), balance)

	// Hand is over; only Reset is legal
	assert.ErrorIs(t, g.Check(ctx), ErrInvalidAction)
	require.NoError(t, g.Reset())
	assert.Equal(t, PhaseStart, g.Phase)
}

func TestActionsRejectedOutsideAHand(t *testing.T) {
	g, _ := newTestGame(t)
	ctx := context.Background()

	assert.ErrorIs(t, g.Check(ctx), ErrInvalidAction)
	assert.ErrorIs(t, g.Bet(ctx), ErrInvalidAction)
	assert.ErrorIs(t, g.Fold(ctx), ErrInvalidAction)
	assert.ErrorIs(t, g.Deal(ctx, 0), ErrInvalidBet)
}

func TestInsufficientFundsBlocksDeal(t *testing.T) {
	wallets := wallet.NewServiceWithStartingBalance(walletRepo.NewMemoryRepository(), 20)
	g := NewGame("player1", wallets, roundRepo.NewMemoryRepository())
	ctx := context.Background()

	assert.ErrorIs(t, g.Deal(ctx, 50), wallet.ErrInsufficientFunds)
	assert.Equal(t, PhaseStart, g.Phase)
}
