package mines

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/repositories/round"
	"github.com/royalmock/casino/pkg/services/wallet"
)

var (
	ErrInvalidAction    = errors.New("invalid action for current game state")
	ErrInvalidBet       = errors.New("bet amount must be positive")
	ErrInvalidMineCount = errors.New("mine count out of range")
	ErrInvalidTile      = errors.New("tile index out of range")
	ErrTileRevealed     = errors.New("tile already revealed")
	ErrNoReveals        = errors.New("no safe tiles revealed yet")
)

const (
	// GridSize is the 5x5 board
	GridSize = 25
	// EdgeFactor discounts the fair-odds multiplier toward the house
	EdgeFactor = 0.95
	MinMines   = 1
	MaxMines   = GridSize - 1
)

// Multiplier returns the cash-out multiplier after found safe reveals
// with m mines on the board. It is the inverse probability of surviving
// that many picks, scaled by the house edge; before the first pick the
// multiplier is exactly 1.
func Multiplier(found, m int) float64 {
	if found == 0 {
		return 1.0
	}
	mult := 1.0
	for i := 0; i < found; i++ {
		mult *= float64(GridSize-i) / float64(GridSize-i-m)
	}
	return mult * EdgeFactor
}

// GameState tracks the round through its phases
type GameState string

const (
	StateIdle      GameState = "IDLE"
	StatePlaying   GameState = "PLAYING"
	StateGameOver  GameState = "GAME_OVER"
	StateCashedOut GameState = "CASHED_OUT"
)

// Game is a single-player mines session on a 25-tile board
type Game struct {
	mu sync.Mutex

	UserID string
	State  GameState

	stake     int64
	mineCount int
	mines     map[int]bool
	revealed  []int
	payout    int64

	wallets wallet.WalletService
	rounds  round.Repository
	rng     *rand.Rand
}

func NewGame(userID string, wallets wallet.WalletService, rounds round.Repository) *Game {
	return NewGameWithRand(userID, wallets, rounds, nil)
}

func NewGameWithRand(userID string, wallets wallet.WalletService, rounds round.Repository, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		UserID:  userID,
		State:   StateIdle,
		wallets: wallets,
		rounds:  rounds,
		rng:     rng,
	}
}

// Start debits the stake and lays out a fresh board with m hidden mines
// placed uniformly at random
func (g *Game) Start(ctx context.Context, stake int64, m int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State == StatePlaying {
		return ErrInvalidAction
	}
	if stake <= 0 {
		return ErrInvalidBet
	}
	if m < MinMines || m > MaxMines {
		return ErrInvalidMineCount
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, stake, "Mines bet"); err != nil {
		return err
	}

	g.stake = stake
	g.mineCount = m
	g.mines = make(map[int]bool, m)
	for _, idx := range g.rng.Perm(GridSize)[:m] {
		g.mines[idx] = true
	}
	g.revealed = nil
	g.payout = 0
	g.State = StatePlaying
	return nil
}

// Reveal uncovers one tile. A mine ends the round as an immediate loss;
// clearing the last safe tile auto-cashes out at the maximum multiplier.
func (g *Game) Reveal(ctx context.Context, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StatePlaying {
		return ErrInvalidAction
	}
	if index < 0 || index >= GridSize {
		return ErrInvalidTile
	}
	for _, r := range g.revealed {
		if r == index {
			return ErrTileRevealed
		}
	}

	g.revealed = append(g.revealed, index)

	if g.mines[index] {
		g.State = StateGameOver
		g.saveRound(ctx, entities.OutcomeLose, 0,
			fmt.Sprintf("hit mine at %d after %d safe reveals, mines=%d", index, len(g.revealed)-1, g.mineCount))
		return nil
	}

	if len(g.revealed) == GridSize-g.mineCount {
		return g.cashOut(ctx)
	}
	return nil
}

// CashOut settles the round at the current multiplier, valid after at
// least one safe reveal
func (g *Game) CashOut(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StatePlaying {
		return ErrInvalidAction
	}
	if len(g.revealed) == 0 {
		return ErrNoReveals
	}
	return g.cashOut(ctx)
}

// cashOut credits the payout. Called with the mutex held.
func (g *Game) cashOut(ctx context.Context) error {
	mult := Multiplier(g.safeRevealed(), g.mineCount)
	payout := int64(math.Round(mult * float64(g.stake)))

	if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Mines cashout"); err != nil {
		return fmt.Errorf("crediting mines cashout: %w", err)
	}
	g.payout = payout
	g.State = StateCashedOut
	g.saveRound(ctx, entities.OutcomeCashOut, payout,
		fmt.Sprintf("cashed out %.2fx after %d reveals, mines=%d", mult, g.safeRevealed(), g.mineCount))
	return nil
}

// CurrentMultiplier is the cash-out multiplier for the reveals so far
func (g *Game) CurrentMultiplier() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Multiplier(g.safeRevealed(), g.mineCount)
}

// NextMultiplier is the multiplier one more safe reveal would earn
func (g *Game) NextMultiplier() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Multiplier(g.safeRevealed()+1, g.mineCount)
}

// Revealed returns the uncovered tile indices in reveal order
func (g *Game) Revealed() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int{}, g.revealed...)
}

// Mines exposes the mine layout once the round is over
func (g *Game) Mines() ([]int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateGameOver && g.State != StateCashedOut {
		return nil, false
	}
	layout := make([]int, 0, len(g.mines))
	for idx := range g.mines {
		layout = append(layout, idx)
	}
	return layout, true
}

// Payout returns the credited amount once the round is settled
func (g *Game) Payout() (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateGameOver && g.State != StateCashedOut {
		return 0, false
	}
	return g.payout, true
}

// safeRevealed counts reveals that were not the fatal mine. Called with
// the mutex held.
func (g *Game) safeRevealed() int {
	count := 0
	for _, idx := range g.revealed {
		if !g.mines[idx] {
			count++
		}
	}
	return count
}

// saveRound records a settled round when a repository is wired. Called
// with the mutex held.
func (g *Game) saveRound(ctx context.Context, outcome entities.Outcome, payout int64, detail string) {
	if g.rounds == nil {
		return
	}
	record := &entities.Round{
		ID:          uuid.NewString(),
		UserID:      g.UserID,
		Game:        entities.GameMines,
		Stake:       g.stake,
		Payout:      payout,
		Outcome:     outcome,
		Detail:      detail,
		CompletedAt: time.Now(),
	}
	if err := g.rounds.SaveRound(ctx, record); err != nil {
		log.Printf("failed to save mines round for user %s: %v", g.UserID, err)
	}
}
