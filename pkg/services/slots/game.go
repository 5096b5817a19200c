package slots

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
	ErrInvalidAction = errors.New("invalid action for current game state")
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrUnknownTheme  = errors.New("unknown slot theme")
)

// Grid dimensions: five reels of three rows each
const (
	Reels = 5
	Rows  = 3
)

// Cluster thresholds and the wild bonus
const (
	BigClusterSize   = 8
	SmallClusterSize = 5
	WildBonusCount   = 3
	WildBonusMult    = 20
)

// Theme is one machine skin. Symbols are ordered rarest first; the wild
// pays its own bonus and never substitutes into symbol clusters.
type Theme struct {
	ID      string
	Name    string
	Symbols []string
	Wild    string
}

var Themes = []Theme{
	{
		ID:      "blasting",
		Name:    "Blasting Wilds",
		Symbols: []string{"💎", "7️⃣", "🔔", "🍉", "🍇", "🍋", "🍒"},
		Wild:    "💣",
	},
	{
		ID:      "olympus",
		Name:    "Gates of Gods",
		Symbols: []string{"👑", "⏳", "💍", "🏆", "🍷", "🟦", "🟩"},
		Wild:    "⚡",
	},
	{
		ID:      "sweet",
		Name:    "Sugar Rush",
		Symbols: []string{"🍭", "🍬", "🍩", "🍪", "🍎", "🍇", "🍌"},
		Wild:    "🧁",
	},
}

// ThemeByID finds a theme by its identifier
func ThemeByID(id string) (Theme, bool) {
	for _, t := range Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// GameState tracks the machine through a spin
type GameState string

const (
	StateIdle     GameState = "IDLE"
	StateSpinning GameState = "SPINNING"
	StateResult   GameState = "RESULT"
)

// Win is one payout component of a spin
type Win struct {
	Symbol string
	Count  int
	Payout int64
}

// Game is a single-player cluster pays machine. Every spin is a single
// debit, a fresh weighted grid, and at most one settlement credit.
type Game struct {
	mu sync.Mutex

	UserID string
	State  GameState
	Theme  Theme
	Grid   [][]string

	stake  int64
	payout int64
	wins   []Win

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
		Theme:   Themes[0],
		wallets: wallets,
		rounds:  rounds,
		rng:     rng,
	}
}

// SelectTheme switches the machine skin between spins
func (g *Game) SelectTheme(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State == StateSpinning {
		return ErrInvalidAction
	}
	theme, ok := ThemeByID(id)
	if !ok {
		return ErrUnknownTheme
	}
	g.Theme = theme
	g.Grid = nil
	g.wins = nil
	g.payout = 0
	g.State = StateIdle
	return nil
}

// Spin debits the stake, fills the grid and settles the result
func (g *Game) Spin(ctx context.Context, stake int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State == StateSpinning {
		return ErrInvalidAction
	}
	if stake <= 0 {
		return ErrInvalidBet
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, stake, fmt.Sprintf("Slots bet (%s)", g.Theme.Name)); err != nil {
		return err
	}

	g.State = StateSpinning
	g.stake = stake
	g.Grid = drawGrid(g.rng, g.Theme)
	g.payout, g.wins = evaluate(g.Grid, g.Theme, stake)

	g.settle(ctx)
	g.State = StateResult
	return nil
}

// Result reports the total payout and its winning clusters. The bool is
// false until a spin has settled.
func (g *Game) Result() (int64, []Win, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return 0, nil, false
	}
	return g.payout, g.wins, true
}

func (g *Game) settle(ctx context.Context) {
	outcome := entities.OutcomeLose
	if g.payout > 0 {
		outcome = entities.OutcomeWin
		if err := g.wallets.AddFunds(ctx, g.UserID, g.payout, fmt.Sprintf("Slots win (%s)", g.Theme.Name)); err != nil {
			log.Printf("slots: failed to credit win for %s: %v", g.UserID, err)
		}
	}

	if g.rounds == nil {
		return
	}
	detail := "no clusters"
	if len(g.wins) > 0 {
		detail = ""
		for i, w := range g.wins {
			if i > 0 {
				detail += ", "
			}
			detail += fmt.Sprintf("%s x%d", w.Symbol, w.Count)
		}
	}
	record := &entities.Round{
		ID:          uuid.NewString(),
		UserID:      g.UserID,
		Game:        entities.GameSlots,
		Stake:       g.stake,
		Payout:      g.payout,
		Outcome:     outcome,
		Detail:      detail,
		CompletedAt: time.Now(),
	}
	if err := g.rounds.SaveRound(ctx, record); err != nil {
		log.Printf("slots: failed to save round for %s: %v", g.UserID, err)
	}
}

// drawGrid fills the reels with weighted symbols. The top two symbols of
// each theme are rare on purpose.
func drawGrid(rng *rand.Rand, theme Theme) [][]string {
	grid := make([][]string, Reels)
	for i := range grid {
		col := make([]string, Rows)
		for j := range col {
			col[j] = drawSymbol(rng, theme)
		}
		grid[i] = col
	}
	return grid
}

func drawSymbol(rng *rand.Rand, theme Theme) string {
	r := rng.Float64()
	switch {
	case r > 0.95:
		return theme.Wild
	case r > 0.90:
		return theme.Symbols[0]
	case r > 0.80:
		return theme.Symbols[1]
	default:
		return theme.Symbols[2+rng.Intn(len(theme.Symbols)-2)]
	}
}

// evaluate scores a settled grid. Clusters count matching symbols
// anywhere on the grid, rarer symbols multiply harder, and three or
// more wilds pay a flat bonus on top. Payouts are additive.
func evaluate(grid [][]string, theme Theme, stake int64) (int64, []Win) {
	counts := make(map[string]int)
	for _, col := range grid {
		for _, sym := range col {
			counts[sym]++
		}
	}

	var total int64
	var wins []Win
	for i, sym := range theme.Symbols {
		n := counts[sym]
		rarity := float64(len(theme.Symbols) - i)
		var payout int64
		switch {
		case n >= BigClusterSize:
			payout = int64(math.Round(rarity * 2 * float64(stake)))
		case n >= SmallClusterSize:
			payout = int64(math.Round(rarity * 0.5 * float64(stake)))
		default:
			continue
		}
		total += payout
		wins = append(wins, Win{Symbol: sym, Count: n, Payout: payout})
	}

	if n := counts[theme.Wild]; n >= WildBonusCount {
		payout := int64(WildBonusMult) * stake
		total += payout
		wins = append(wins, Win{Symbol: theme.Wild, Count: n, Payout: payout})
	}

	return total, wins
}
