package blackjack

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
	"github.com/royalmock/casino/pkg/repositories/round"
	"github.com/royalmock/casino/pkg/services/wallet"
)

var (
	ErrInvalidAction = errors.New("invalid action for current game state")
	ErrInvalidBet    = errors.New("bet amount must be positive")
)

// GameState tracks the round through its phases
type GameState string

const (
	StateBetting    GameState = "BETTING"
	StatePlaying    GameState = "PLAYING"
	StateDealerTurn GameState = "DEALER_TURN"
	StateGameOver   GameState = "GAME_OVER"
)

// Result represents the outcome of a blackjack round
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLose      Result = "LOSE"
	ResultPush      Result = "PUSH"
	ResultBlackjack Result = "BLACKJACK"
)

// Game is a single-player blackjack session. One round runs from PlaceBet
// through settlement; Reset returns it to the betting phase with the same
// deck until the reshuffle threshold is hit.
type Game struct {
	mu sync.Mutex

	UserID string
	State  GameState
	Deck   *entities.Deck
	Player *Hand
	Dealer *Hand
	Stake  int64

	result Result

	wallets wallet.WalletService
	rounds  round.Repository
	rng     *rand.Rand
}

func NewGame(userID string, wallets wallet.WalletService, rounds round.Repository) *Game {
	return NewGameWithRand(userID, wallets, rounds, nil)
}

// NewGameWithRand creates a game drawing from the given source. A nil rng
// falls back to a time-seeded source.
func NewGameWithRand(userID string, wallets wallet.WalletService, rounds round.Repository, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		UserID:  userID,
		State:   StateBetting,
		Player:  NewHand(),
		Dealer:  NewHand(),
		wallets: wallets,
		rounds:  rounds,
		rng:     rng,
	}
}

// PlaceBet debits the stake, deals two cards each to player and dealer,
// and moves to the playing phase. A natural 21 settles immediately at
// 2.5x the stake before any player action.
func (g *Game) PlaceBet(ctx context.Context, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting {
		return ErrInvalidAction
	}
	if amount <= 0 {
		return ErrInvalidBet
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, amount, "Blackjack bet"); err != nil {
		return err
	}
	g.Stake = amount

	if g.Deck == nil || g.Deck.NeedsReshuffle() {
		g.Deck = entities.NewShuffledDeck(g.rng)
	}

	for i := 0; i < 2; i++ {
		if err := g.dealTo(g.Player); err != nil {
			return err
		}
		if err := g.dealTo(g.Dealer); err != nil {
			return err
		}
	}

	if IsBlackjack(g.Player.Cards) {
		return g.settle(ctx, ResultBlackjack, BlackjackPayout(g.Stake))
	}

	g.State = StatePlaying
	return nil
}

// Hit draws one card for the player. Busting ends the round immediately
// as a loss without a dealer turn.
func (g *Game) Hit(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StatePlaying {
		return ErrInvalidAction
	}

	if err := g.dealTo(g.Player); err != nil {
		return err
	}

	if g.Player.Status == StatusBust {
		return g.settle(ctx, ResultLose, 0)
	}
	return nil
}

// Stand ends the player's turn and auto-plays the dealer, who draws while
// under seventeen, then compares hands and settles.
func (g *Game) Stand(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StatePlaying {
		return ErrInvalidAction
	}
	if err := g.Player.Stand(); err != nil {
		return err
	}

	g.State = StateDealerTurn
	for GetBestScore(g.Dealer.Cards) < DealerStandScore {
		if err := g.dealTo(g.Dealer); err != nil {
			return err
		}
	}

	switch CompareHands(g.Player.Cards, g.Dealer.Cards) {
	case 1:
		return g.settle(ctx, ResultWin, g.Stake*2)
	case -1:
		return g.settle(ctx, ResultLose, 0)
	default:
		return g.settle(ctx, ResultPush, g.Stake)
	}
}

// Result returns the round outcome once the game is over
func (g *Game) Result() (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateGameOver {
		return "", false
	}
	return g.result, true
}

// Reset returns a finished game to the betting phase, keeping the deck
// until it falls below the reshuffle threshold
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateGameOver {
		return ErrInvalidAction
	}

	g.Player = NewHand()
	g.Dealer = NewHand()
	g.Stake = 0
	g.result = ""
	g.State = StateBetting
	return nil
}

func (g *Game) dealTo(hand *Hand) error {
	if g.Deck.Remaining() == 0 {
		// Mid-hand exhaustion. The threshold rule makes this unreachable
		// with a single player, but a fresh deck beats a dead round.
		log.Printf("deck exhausted mid-hand for user %s, reshuffling", g.UserID)
		g.Deck = entities.NewShuffledDeck(g.rng)
	}
	card, err := g.Deck.Draw()
	if err != nil {
		return err
	}
	return hand.AddCard(card)
}

// settle credits the payout exactly once and records the round. Called
// with the game mutex held.
func (g *Game) settle(ctx context.Context, result Result, payout int64) error {
	g.result = result
	g.State = StateGameOver

	if payout > 0 {
		if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Blackjack winnings"); err != nil {
			return fmt.Errorf("crediting blackjack payout: %w", err)
		}
	}

	outcome := entities.OutcomeLose
	switch result {
	case ResultWin, ResultBlackjack:
		outcome = entities.OutcomeWin
	case ResultPush:
		outcome = entities.OutcomePush
	}

	if g.rounds != nil {
		record := &entities.Round{
			ID:          uuid.NewString(),
			UserID:      g.UserID,
			Game:        entities.GameBlackjack,
			Stake:       g.Stake,
			Payout:      payout,
			Outcome:     outcome,
			Detail:      fmt.Sprintf("%s player=%d dealer=%d", result, g.Player.Value(), g.Dealer.Value()),
			CompletedAt: time.Now(),
		}
		if err := g.rounds.SaveRound(ctx, record); err != nil {
			log.Printf("failed to save blackjack round for user %s: %v", g.UserID, err)
		}
	}

	return nil
}
