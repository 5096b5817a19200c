package roulette

import (
	"context"
	"testing"

	roundRepo "github.com/royalmock/casino/pkg/repositories/round"
	walletRepo "github.com/royalmock/casino/pkg/repositories/wallet"
	"github.com/royalmock/casino/pkg/services/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, balance int64) (*Game, *wallet.Service) {
	t.Helper()
	wallets := wallet.NewServiceWithStartingBalance(walletRepo.NewMemoryRepository(), balance)
	g := NewGame("player1", wallets, roundRepo.NewMemoryRepository())
	return g, wallets
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, ColorGreen, ColorOf(0))
	assert.Equal(t, ColorRed, ColorOf(1))
	assert.Equal(t, ColorBlack, ColorOf(2))
	assert.Equal(t, ColorRed, ColorOf(19))
	assert.Equal(t, ColorBlack, ColorOf(20))
	assert.Equal(t, ColorRed, ColorOf(36))
}

func TestParityOf(t *testing.T) {
	assert.Equal(t, ParityNone, ParityOf(0))
	assert.Equal(t, ParityOdd, ParityOf(17))
	assert.Equal(t, ParityEven, ParityOf(18))
}

func TestBetResolution(t *testing.T) {
	tests := []struct {
		name       string
		bet        Bet
		number     int
		wins       bool
		multiplier int64
	}{
		{"straight number hit", NumberBet(17, 100), 17, true, 35},
		{"straight number miss", NumberBet(17, 100), 18, false, 35},
		{"red hit", ColorBet(ColorRed, 100), 1, true, 1},
		{"red miss on black", ColorBet(ColorRed, 100), 2, false, 1},
		{"red miss on zero", ColorBet(ColorRed, 100), 0, false, 1},
		{"even hit", ParityBet(ParityEven, 100), 18, true, 1},
		{"even miss on zero", ParityBet(ParityEven, 100), 0, false, 1},
		{"odd miss on zero", ParityBet(ParityOdd, 100), 0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			won, multiplier := tt.bet.wins(tt.number)
			assert.Equal(t, tt.wins, won)
			assert.Equal(t, tt.multiplier, multiplier)
		})
	}
}

func TestFullBoardPaysThirtySixTimesOneStake(t *testing.T) {
	g, wallets := newTestGame(t, 10000)
	ctx := context.Background()

	// A chip on every slot: exactly one wins, returning 36x its stake.
	for n := 0; n <= 36; n++ {
		require.NoError(t, g.PlaceBet(ctx, NumberBet(n, 100)))
	}

	require.NoError(t, g.Spin(ctx))
	number, payout, ok := g.Result()
	require.True(t, ok)
	assert.GreaterOrEqual(t, number, 0)
	assert.LessOrEqual(t, number, 36)
	assert.Equal(t, int64(3600), payout)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000-3700+3600), balance)
}

func TestChipsStackOnSameZone(t *testing.T) {
	g, wallets := newTestGame(t, 1000)
	ctx := context.Background()

	require.NoError(t, g.PlaceBet(ctx, NumberBet(17, 50)))
	require.NoError(t, g.PlaceBet(ctx, NumberBet(17, 50)))
	require.NoError(t, g.PlaceBet(ctx, ColorBet(ColorRed, 100)))

	require.Len(t, g.Bets, 2)
	assert.Equal(t, int64(100), g.Bets[0].Amount)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(800), balance)
}

func TestClearBetsRefundsEverything(t *testing.T) {
	g, wallets := newTestGame(t, 1000)
	ctx := context.Background()

	require.NoError(t, g.PlaceBet(ctx, NumberBet(17, 100)))
	require.NoError(t, g.PlaceBet(ctx, ParityBet(ParityOdd, 200)))
	require.NoError(t, g.ClearBets(ctx))

	assert.Empty(t, g.Bets)
	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestSpinRejectedWithoutBets(t *testing.T) {
	g, _ := newTestGame(t, 1000)
	ctx := context.Background()

	assert.ErrorIs(t, g.Spin(ctx), ErrNoBets)
	assert.Equal(t, StateIdle, g.State)
}

func TestInsufficientFundsLeavesBoardUnchanged(t *testing.T) {
	g, wallets := newTestGame(t, 100)
	ctx := context.Background()

	err := g.PlaceBet(ctx, NumberBet(5, 500))
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	assert.Empty(t, g.Bets)

	balance, berr := wallets.GetBalance(ctx, "player1")
	require.NoError(t, berr)
	assert.Equal(t, int64(100), balance)
}

func TestInvalidBetsRejected(t *testing.T) {
	g, _ := newTestGame(t, 1000)
	ctx := context.Background()

	assert.ErrorIs(t, g.PlaceBet(ctx, NumberBet(37, 100)), ErrInvalidBet)
	assert.ErrorIs(t, g.PlaceBet(ctx, NumberBet(17, 0)), ErrInvalidBet)
	assert.ErrorIs(t, g.PlaceBet(ctx, ColorBet(ColorGreen, 100)), ErrInvalidBet)
}

func TestResetClearsTheBoard(t *testing.T) {
	g, _ := newTestGame(t, 1000)
	ctx := context.Background()

	require.NoError(t, g.PlaceBet(ctx, ColorBet(ColorBlack, 100)))
	require.NoError(t, g.Spin(ctx))
	require.NoError(t, g.Reset())

	assert.Equal(t, StateIdle, g.State)
	assert.Empty(t, g.Bets)
}
