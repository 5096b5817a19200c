package slots

import (
	"context"
	"math/rand"
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
	g := NewGameWithRand("player1", wallets, roundRepo.NewMemoryRepository(), rand.New(rand.NewSource(7)))
	return g, wallets
}

// gridOf builds a 5x3 grid from 15 symbols in reel order
func gridOf(symbols ...string) [][]string {
	grid := make([][]string, Reels)
	for i := range grid {
		grid[i] = symbols[i*Rows : (i+1)*Rows]
	}
	return grid
}

func fill(sym string, n int, rest string) []string {
	out := make([]string, Reels*Rows)
	for i := range out {
		if i < n {
			out[i] = sym
		} else {
			out[i] = rest
		}
	}
	return out
}

func TestEvaluateClusters(t *testing.T) {
	theme := Themes[0] // 💎 7️⃣ 🔔 🍉 🍇 🍋 🍒, wild 💣

	tests := []struct {
		name   string
		grid   [][]string
		stake  int64
		payout int64
	}{
		{
			// Commonest symbol, rarity 1: 8+ anywhere pays 2x
			name:   "big cluster of cherries",
			grid:   gridOf(fill("🍒", 8, "🍋")...),
			stake:  100,
			payout: 200,
		},
		{
			// Rarest symbol, rarity 7: 5-7 pays 3.5x
			name:   "small cluster of diamonds",
			grid:   gridOf(fill("💎", 5, "🍒")...),
			stake:  100,
			payout: 350,
		},
		{
			name:   "three wilds pay flat twenty",
			grid:   gridOf(fill("💣", 3, "🍒")...),
			stake:  100,
			payout: 2000,
		},
		{
			// 8 cherries pay 2x and the 7 leftover lemons pay 1x
			name:   "clusters are additive",
			grid:   gridOf(fill("🍒", 8, "🍋")...),
			stake:  100,
			payout: 300,
		},
		{
			name:   "four of a kind pays nothing",
			grid:   gridOf("💎", "💎", "💎", "💎", "🍒", "🍋", "🍇", "🍉", "🔔", "🍒", "🍋", "🍇", "🍉", "🔔", "🍒"),
			stake:  100,
			payout: 0,
		},
		{
			// Wilds never join a symbol cluster: 4 sevens + 3 wilds is
			// only the wild bonus
			name:   "wilds do not extend clusters",
			grid:   gridOf("7️⃣", "7️⃣", "7️⃣", "7️⃣", "💣", "💣", "💣", "🍒", "🍋", "🍇", "🍉", "🔔", "🍒", "🍋", "🍇"),
			stake:  100,
			payout: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, _ := evaluate(tt.grid, theme, tt.stake)
			assert.Equal(t, tt.payout, payout)
		})
	}
}

func TestEvaluateReportsWinComponents(t *testing.T) {
	theme := Themes[0]
	grid := gridOf(fill("💣", 3, "🍒")...) // 3 wilds, 12 cherries

	payout, wins := evaluate(grid, theme, 10)
	require.Len(t, wins, 2)
	assert.Equal(t, "🍒", wins[0].Symbol)
	assert.Equal(t, 12, wins[0].Count)
	assert.Equal(t, int64(20), wins[0].Payout)
	assert.Equal(t, "💣", wins[1].Symbol)
	assert.Equal(t, int64(200), wins[1].Payout)
	assert.Equal(t, int64(220), payout)
}

func TestDrawSymbolStaysInTheme(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, theme := range Themes {
		pool := make(map[string]bool, len(theme.Symbols)+1)
		for _, s := range theme.Symbols {
			pool[s] = true
		}
		pool[theme.Wild] = true

		sawWild := false
		for i := 0; i < 2000; i++ {
			sym := drawSymbol(rng, theme)
			require.True(t, pool[sym], "symbol %q not in theme %s", sym, theme.ID)
			if sym == theme.Wild {
				sawWild = true
			}
		}
		assert.True(t, sawWild, "wild never drawn for theme %s", theme.ID)
	}
}

func TestSpinSettlesAgainstWallet(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	require.NoError(t, g.Spin(ctx, 100))
	assert.Equal(t, StateResult, g.State)
	require.Len(t, g.Grid, Reels)
	for _, col := range g.Grid {
		assert.Len(t, col, Rows)
	}

	payout, _, ok := g.Result()
	require.True(t, ok)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, 1000-100+payout, balance)

	// The machine is ready for the next spin without an explicit reset
	require.NoError(t, g.Spin(ctx, 10))
}

func TestSpinValidation(t *testing.T) {
	g, wallets := newTestGame(t)
	ctx := context.Background()

	assert.ErrorIs(t, g.Spin(ctx, 0), ErrInvalidBet)
	assert.ErrorIs(t, g.Spin(ctx, -5), ErrInvalidBet)
	assert.ErrorIs(t, g.Spin(ctx, 5000), wallet.ErrInsufficientFunds)

	balance, err := wallets.GetBalance(ctx, "player1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	_, _, ok := g.Result()
	assert.False(t, ok)
}

func TestSelectTheme(t *testing.T) {
	g, _ := newTestGame(t)

	require.NoError(t, g.SelectTheme("olympus"))
	assert.Equal(t, "Gates of Gods", g.Theme.Name)
	assert.Nil(t, g.Grid)

	assert.ErrorIs(t, g.SelectTheme("vegas"), ErrUnknownTheme)
	assert.Equal(t, "olympus", g.Theme.ID)
}
