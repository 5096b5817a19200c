package mines

import (
	"context"
	"math"
	"testing"

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

func TestMultiplier(t *testing.T) {
	// Before the first pick there is nothing to discount
	assert.Equal(t, 1.0, Multiplier(0, 3))

	// One reveal with three mines: 25/22 * 0.95
	assert.InDelta(t, 25.0/22.0*0.95, Multiplier(1, 3), 1e-9)

	// Strictly increasing in reveals for a fixed mine count
	for _, m := range []int{1, 3, 10, 24} {
		prev := Multiplier(1, m)
		for k := 2; k <= GridSize-m; k++ {
			cur := Multiplier(k, m)
			assert.Greater(t, cur, prev, "m=%d k=%d", m, k)
			prev = cur
		}
	}

	// More mines pay more for the same reveal count
	assert.Greater(t, Multiplier(3, 10), Multiplier(3, 3))
}

func TestStartPlacesMinesAndDebits(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 3))
	assert.Equal(t, StatePlaying, g.State)
	assert.Len(t, g.mines, 3)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance)
}

func TestRevealMineLosesRound(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 3))

	var mineTile int
	for idx := range g.mines {
		mineTile = idx
		break
	}

	require.NoError(t, g.Reveal(ctx, mineTile))
	assert.Equal(t, StateGameOver, g.State)

	payout, ok := g.Payout()
	require.True(t, ok)
	assert.Equal(t, int64(0), payout)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance)

	// Board stays dead after the blast
	assert.ErrorIs(t, g.Reveal(ctx, 0), ErrInvalidAction)
	assert.ErrorIs(t, g.CashOut(ctx), ErrInvalidAction)
}

func TestCashOutAfterSafeReveals(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 3))

	// Uncover two known-safe tiles
	safe := make([]int, 0, 2)
	for idx := 0; idx < GridSize && len(safe) < 2; idx++ {
		if !g.mines[idx] {
			safe = append(safe, idx)
		}
	}
	require.NoError(t, g.Reveal(ctx, safe[0]))
	require.NoError(t, g.Reveal(ctx, safe[1]))

	require.NoError(t, g.CashOut(ctx))
	assert.Equal(t, StateCashedOut, g.State)

	expected := int64(math.Round(Multiplier(2, 3) * 100))
	payout, ok := g.Payout()
	require.True(t, ok)
	assert.Equal(t, expected, payout)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(900)+expected, balance)
}

func TestCashOutRequiresAReveal(t *testing.T) {
	g, _ := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 3))
	assert.ErrorIs(t, g.CashOut(ctx), ErrNoReveals)
}

func TestClearingBoardAutoCashesOut(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 24))

	// One safe tile on the board; finding it clears the game
	var safe int
	for idx := 0; idx < GridSize; idx++ {
		if !g.mines[idx] {
			safe = idx
			break
		}
	}
	require.NoError(t, g.Reveal(ctx, safe))

	assert.Equal(t, StateCashedOut, g.State)
	expected := int64(math.Round(Multiplier(1, 24) * 100))
	payout, ok := g.Payout()
	require.True(t, ok)
	assert.Equal(t, expected, payout)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(900)+expected, balance)
}

func TestRevealValidation(t *testing.T) {
	g, _ := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Start(ctx, 100, 3))
	assert.ErrorIs(t, g.Reveal(ctx, -1), ErrInvalidTile)
	assert.ErrorIs(t, g.Reveal(ctx, GridSize), ErrInvalidTile)

	var safe int
	for idx := 0; idx < GridSize; idx++ {
		if !g.mines[idx] {
			safe = idx
			break
		}
	}
	require.NoError(t, g.Reveal(ctx, safe))
	assert.ErrorIs(t, g.Reveal(ctx, safe), ErrTileRevealed)
}

func TestStartValidation(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	assert.ErrorIs(t, g.Start(ctx, 0, 3), ErrInvalidBet)
	assert.ErrorIs(t, g.Start(ctx, 100, 0), ErrInvalidMineCount)
	assert.ErrorIs(t, g.Start(ctx, 100, GridSize), ErrInvalidMineCount)
	assert.ErrorIs(t, g.Start(ctx, 5000, 3), wallet.ErrInsufficientFunds)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	require.NoError(t, g.Start(ctx, 100, 3))
	assert.ErrorIs(t, g.Start(ctx, 100, 3), ErrInvalidAction)
}
