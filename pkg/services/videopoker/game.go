package videopoker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/poker"
	"github.com/royalmock/casino/pkg/repositories/round"
	"github.com/royalmock/casino/pkg/services/wallet"
)

var (
	ErrInvalidAction = errors.New("invalid action for current game state")
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrInvalidIndex  = errors.New("card position out of range")
)

// HandSize is the fixed five-card deal
const HandSize = 5

// GameState tracks the round through its phases
type GameState string

const (
	StateBetting GameState = "BETTING"
	StateHolding GameState = "HOLDING"
	StateResult  GameState = "RESULT"
)

// Game is a single-player Jacks-or-better machine. Deal takes the stake
// and five cards; the player toggles holds; Draw replaces the rest in
// one step and settles against the paytable exactly once.
type Game struct {
	mu sync.Mutex

	UserID string
	State  GameState
	Hand   []*entities.Card
	Held   [HandSize]bool

	deck   *entities.Deck
	stake  int64
	win    *poker.PaytableEntry
	payout int64

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
		State:   StateBetting,
		wallets: wallets,
		rounds:  rounds,
		rng:     rng,
	}
}

// Deal debits the stake and deals the initial five cards
func (g *Game) Deal(ctx context.Context, stake int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting {
		return ErrInvalidAction
	}
	if stake <= 0 {
		return ErrInvalidBet
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, stake, "Video poker bet"); err != nil {
		return err
	}

	g.deck = entities.NewShuffledDeck(g.rng)
	hand := make([]*entities.Card, 0, HandSize)
	for i := 0; i < HandSize; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}
		hand = append(hand, card)
	}

	g.Hand = hand
	g.Held = [HandSize]bool{}
	g.stake = stake
	g.win = nil
	g.payout = 0
	g.State = StateHolding
	return nil
}

// ToggleHold flips the hold flag on one card position
func (g *Game) ToggleHold(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateHolding {
		return ErrInvalidAction
	}
	if index < 0 || index >= HandSize {
		return ErrInvalidIndex
	}
	g.Held[index] = !g.Held[index]
	return nil
}

// Draw replaces every non-held card in one atomic step and settles the
// final hand against the paytable
func (g *Game) Draw(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateHolding {
		return ErrInvalidAction
	}

	for i := range g.Hand {
		if g.Held[i] {
			continue
		}
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}
		g.Hand[i] = card
	}
	g.State = StateResult

	rank := poker.Evaluate5(g.Hand)
	entry, won := poker.Payout(rank)
	if won {
		g.win = &entry
		g.payout = g.stake * entry.Multiplier
		if err := g.wallets.AddFunds(ctx, g.UserID, g.payout, "Video poker winnings"); err != nil {
			return fmt.Errorf("crediting video poker payout: %w", err)
		}
	}

	outcome := entities.OutcomeLose
	detail := fmt.Sprintf("no win (%s)", rank.Category)
	if won {
		outcome = entities.OutcomeWin
		detail = fmt.Sprintf("%s %dx", entry.Name, entry.Multiplier)
	}

	if g.rounds != nil {
		record := &entities.Round{
			ID:          uuid.NewString(),
			UserID:      g.UserID,
			Game:        entities.GameVideoPoker,
			Stake:       g.stake,
			Payout:      g.payout,
			Outcome:     outcome,
			Detail:      detail,
			CompletedAt: time.Now(),
		}
		if err := g.rounds.SaveRound(ctx, record); err != nil {
			log.Printf("failed to save video poker round for user %s: %v", g.UserID, err)
		}
	}

	return nil
}

// Result returns the winning paytable entry and payout once settled.
// A nil entry on ok means the hand missed the table.
func (g *Game) Result() (*poker.PaytableEntry, int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return nil, 0, false
	}
	return g.win, g.payout, true
}

// Reset readies the machine for the next deal
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return ErrInvalidAction
	}

	g.Hand = nil
	g.Held = [HandSize]bool{}
	g.stake = 0
	g.win = nil
	g.payout = 0
	g.State = StateBetting
	return nil
}
