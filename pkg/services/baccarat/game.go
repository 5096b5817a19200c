package baccarat

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
	ErrNoBet         = errors.New("no bet placed")
)

// CountdownSeconds is how long the betting phase lasts once the first
// chip lands. Stacking more chips does not reset it.
const CountdownSeconds = 5

// BetType is one of the four table zones
type BetType string

const (
	BetPlayer     BetType = "PLAYER"
	BetBanker     BetType = "BANKER"
	BetTie        BetType = "TIE"
	BetWinnerEven BetType = "WINNER_EVEN"
)

// GameState tracks the round through its phases
type GameState string

const (
	StateBetting GameState = "BETTING"
	StateDealing GameState = "DEALING"
	StateResult  GameState = "RESULT"
)

// Bet is the single active wager: one type, stacked amount
type Bet struct {
	Type   BetType
	Amount int64
}

// Winner identifies the side that took the round
type Winner string

const (
	WinnerPlayer Winner = "PLAYER"
	WinnerBanker Winner = "BANKER"
	WinnerTie    Winner = "TIE"
)

// Game is a single-player baccarat table. A bet starts a five second
// countdown after which the deal runs automatically; Tick drives the
// clock and Deal can trigger it early.
type Game struct {
	mu sync.Mutex

	UserID     string
	State      GameState
	Deck       *entities.Deck
	PlayerHand []*entities.Card
	BankerHand []*entities.Card
	Bet        *Bet
	History    []string // trailing winner log: P, B, T

	winner   Winner
	payout   int64
	deadline time.Time

	wallets wallet.WalletService
	rounds  round.Repository
	rng     *rand.Rand
	now     func() time.Time
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
		now:     time.Now,
	}
}

// PlaceChip stakes a chip on a bet zone. The first chip starts the deal
// countdown. Chips on the active zone stack; a chip on a different zone
// refunds the active stake and replaces the bet with the new chip, and
// re-places the original bet unchanged if the new chip cannot be funded
// after the refund.
func (g *Game) PlaceChip(ctx context.Context, betType BetType, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting {
		return ErrInvalidAction
	}
	if amount <= 0 {
		return ErrInvalidBet
	}

	if g.Bet != nil && g.Bet.Type != betType {
		// Switch: refund the active stake, then fund the new chip. If the
		// chip cannot be funded even after the refund, take the stake back
		// and leave the original bet standing.
		if err := g.wallets.AddFunds(ctx, g.UserID, g.Bet.Amount, "Baccarat bet refund"); err != nil {
			return fmt.Errorf("refunding baccarat bet: %w", err)
		}
		if err := g.wallets.RemoveFunds(ctx, g.UserID, amount, "Baccarat bet"); err != nil {
			if rerr := g.wallets.RemoveFunds(ctx, g.UserID, g.Bet.Amount, "Baccarat bet"); rerr != nil {
				return fmt.Errorf("re-placing baccarat bet after failed switch: %w", rerr)
			}
			return err
		}
		g.Bet = &Bet{Type: betType, Amount: amount}
		return nil
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, amount, "Baccarat bet"); err != nil {
		return err
	}

	if g.Bet == nil {
		g.Bet = &Bet{Type: betType, Amount: amount}
		g.deadline = g.now().Add(CountdownSeconds * time.Second)
	} else {
		g.Bet.Amount += amount
	}
	return nil
}

// ClearBet refunds the active stake and stops the countdown
func (g *Game) ClearBet(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting {
		return ErrInvalidAction
	}
	if g.Bet == nil {
		return ErrNoBet
	}

	if err := g.wallets.AddFunds(ctx, g.UserID, g.Bet.Amount, "Baccarat bet refund"); err != nil {
		return fmt.Errorf("refunding baccarat bet: %w", err)
	}
	g.Bet = nil
	g.deadline = time.Time{}
	return nil
}

// Tick advances the countdown clock, auto-dealing once it expires.
// Callers run it on a fixed interval while the session is live.
func (g *Game) Tick(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting || g.Bet == nil {
		return nil
	}
	if g.now().Before(g.deadline) {
		return nil
	}
	return g.deal(ctx)
}

// TimeLeft reports the remaining countdown, zero when no bet is active
func (g *Game) TimeLeft() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting || g.Bet == nil {
		return 0
	}
	left := g.deadline.Sub(g.now())
	if left < 0 {
		return 0
	}
	return left
}

// Deal runs the round immediately without waiting out the countdown
func (g *Game) Deal(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateBetting {
		return ErrInvalidAction
	}
	if g.Bet == nil {
		return ErrNoBet
	}
	return g.deal(ctx)
}

// Result returns the winning side and the credited payout once settled
func (g *Game) Result() (Winner, int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return "", 0, false
	}
	return g.winner, g.payout, true
}

// Reset returns a settled table to the betting phase
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return ErrInvalidAction
	}

	g.PlayerHand = nil
	g.BankerHand = nil
	g.Bet = nil
	g.winner = ""
	g.payout = 0
	g.deadline = time.Time{}
	g.State = StateBetting
	return nil
}

// deal draws both hands, applies the third-card rules, and settles.
// Called with the game mutex held.
func (g *Game) deal(ctx context.Context) error {
	g.State = StateDealing

	if g.Deck == nil || g.Deck.NeedsReshuffle() {
		g.Deck = entities.NewShuffledDeck(g.rng)
	}

	var err error
	if g.PlayerHand, err = g.drawN(2); err != nil {
		return err
	}
	if g.BankerHand, err = g.drawN(2); err != nil {
		return err
	}

	pScore := Score(g.PlayerHand)
	bScore := Score(g.BankerHand)

	// Naturals on either side stop all drawing
	if pScore < 8 && bScore < 8 {
		playerDrew := false
		playerThirdValue := -1

		if PlayerDraws(pScore) {
			card, derr := g.Deck.Draw()
			if derr != nil {
				return derr
			}
			g.PlayerHand = append(g.PlayerHand, card)
			playerThirdValue = CardValue(card)
			playerDrew = true
		}

		if BankerDraws(bScore, playerDrew, playerThirdValue) {
			card, derr := g.Deck.Draw()
			if derr != nil {
				return derr
			}
			g.BankerHand = append(g.BankerHand, card)
		}
	}

	return g.settle(ctx)
}

func (g *Game) drawN(n int) ([]*entities.Card, error) {
	cards := make([]*entities.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := g.Deck.Draw()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (g *Game) settle(ctx context.Context) error {
	pFinal := Score(g.PlayerHand)
	bFinal := Score(g.BankerHand)

	winner := WinnerTie
	winningScore := pFinal // tie score is the same on both sides
	if pFinal > bFinal {
		winner = WinnerPlayer
	} else if bFinal > pFinal {
		winner = WinnerBanker
		winningScore = bFinal
	}

	var payout int64
	switch g.Bet.Type {
	case BetWinnerEven:
		if winningScore%2 == 0 {
			payout = g.Bet.Amount * 2
		}
	case BetTie:
		if winner == WinnerTie {
			payout = g.Bet.Amount * 9
		}
	case BetPlayer:
		if winner == WinnerPlayer {
			payout = g.Bet.Amount * 2
		}
	case BetBanker:
		if winner == WinnerBanker {
			payout = g.Bet.Amount * 2
		}
	}

	g.winner = winner
	g.payout = payout
	g.State = StateResult

	mark := "T"
	switch winner {
	case WinnerPlayer:
		mark = "P"
	case WinnerBanker:
		mark = "B"
	}
	g.History = append(g.History, mark)
	if len(g.History) > entities.HistoryLimit {
		g.History = g.History[len(g.History)-entities.HistoryLimit:]
	}

	if payout > 0 {
		if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Baccarat winnings"); err != nil {
			return fmt.Errorf("crediting baccarat payout: %w", err)
		}
	}

	outcome := entities.OutcomeLose
	if payout > 0 {
		outcome = entities.OutcomeWin
	}

	if g.rounds != nil {
		record := &entities.Round{
			ID:          uuid.NewString(),
			UserID:      g.UserID,
			Game:        entities.GameBaccarat,
			Stake:       g.Bet.Amount,
			Payout:      payout,
			Outcome:     outcome,
			Detail:      fmt.Sprintf("%s player=%d banker=%d bet=%s", winner, pFinal, bFinal, g.Bet.Type),
			CompletedAt: time.Now(),
		}
		if err := g.rounds.SaveRound(ctx, record); err != nil {
			log.Printf("failed to save baccarat round for user %s: %v", g.UserID, err)
		}
	}

	return nil
}
