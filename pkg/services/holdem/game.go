package holdem

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
)

// RaiseAmount is the fixed raise increment; the dealer always matches
// it, so each raise grows the pot by twice this.
const RaiseAmount = 50

// Phase tracks the hand through the streets
type Phase string

const (
	PhaseStart    Phase = "START"
	PhasePreflop  Phase = "PREFLOP"
	PhaseFlop     Phase = "FLOP"
	PhaseTurn     Phase = "TURN"
	PhaseRiver    Phase = "RIVER"
	PhaseShowdown Phase = "SHOWDOWN"
)

// Result of a finished hand
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLose Result = "LOSE"
	ResultTie  Result = "TIE"
	ResultFold Result = "FOLD"
)

// Game is heads-up hold'em against a house dealer who matches the ante
// and auto-calls every raise. The player's only decisions are check,
// bet and fold.
type Game struct {
	mu sync.Mutex

	UserID     string
	Phase      Phase
	PlayerHand []*entities.Card
	DealerHand []*entities.Card
	Community  []*entities.Card
	Pot        int64

	deck       *entities.Deck
	staked     int64 // player's own contribution to the pot
	result     Result
	playerRank poker.HandRank
	dealerRank poker.HandRank

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
		Phase:   PhaseStart,
		wallets: wallets,
		rounds:  rounds,
		rng:     rng,
	}
}

// Deal antes up, deals two hole cards each, and opens the preflop. The
// dealer matches the ante, so the pot opens at twice the stake.
func (g *Game) Deal(ctx context.Context, ante int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseStart {
		return ErrInvalidAction
	}
	if ante <= 0 {
		return ErrInvalidBet
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, ante, "Hold'em ante"); err != nil {
		return err
	}

	g.deck = entities.NewShuffledDeck(g.rng)
	playerHole, err := g.drawN(2)
	if err != nil {
		return err
	}
	dealerHole, err := g.drawN(2)
	if err != nil {
		return err
	}

	g.PlayerHand = playerHole
	g.DealerHand = dealerHole
	g.Community = nil
	g.Pot = ante * 2
	g.staked = ante
	g.result = ""
	g.Phase = PhasePreflop
	return nil
}

// Check advances to the next street without further stake
func (g *Game) Check(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.advance(ctx)
}

// Bet raises by the fixed increment; the dealer calls instantly, so the
// pot grows by twice the raise before the next street is dealt
func (g *Game) Bet(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.inStreet() {
		return ErrInvalidAction
	}
	if err := g.wallets.RemoveFunds(ctx, g.UserID, RaiseAmount, "Hold'em raise"); err != nil {
		return err
	}
	g.Pot += RaiseAmount * 2
	g.staked += RaiseAmount
	return g.advance(ctx)
}

// Fold surrenders the pot, ending the hand immediately
func (g *Game) Fold(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.inStreet() {
		return ErrInvalidAction
	}
	g.result = ResultFold
	g.Phase = PhaseShowdown
	g.saveRound(ctx, entities.OutcomeLose, 0, "folded")
	return nil
}

// Result returns the outcome and both evaluated ranks once the hand is
// over. Ranks are zero-valued on a fold.
func (g *Game) Result() (Result, poker.HandRank, poker.HandRank, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseShowdown {
		return "", poker.HandRank{}, poker.HandRank{}, false
	}
	return g.result, g.playerRank, g.dealerRank, true
}

// Reset readies the table for the next hand
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase != PhaseShowdown {
		return ErrInvalidAction
	}

	g.PlayerHand = nil
	g.DealerHand = nil
	g.Community = nil
	g.Pot = 0
	g.staked = 0
	g.result = ""
	g.playerRank = poker.HandRank{}
	g.dealerRank = poker.HandRank{}
	g.Phase = PhaseStart
	return nil
}

// inStreet reports whether a player action is legal right now. Called
// with the mutex held.
func (g *Game) inStreet() bool {
	switch g.Phase {
	case PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	default:
		return false
	}
}

// advance deals the next street, or runs the showdown from the river.
// Called with the mutex held.
func (g *Game) advance(ctx context.Context) error {
	switch g.Phase {
	case PhasePreflop:
		cards, err := g.drawN(3)
		if err != nil {
			return err
		}
		g.Community = cards
		g.Phase = PhaseFlop
	case PhaseFlop:
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}
		g.Community = append(g.Community, card)
		g.Phase = PhaseTurn
	case PhaseTurn:
		card, err := g.deck.Draw()
		if err != nil {
			return err
		}
		g.Community = append(g.Community, card)
		g.Phase = PhaseRiver
	case PhaseRiver:
		g.Phase = PhaseShowdown
		return g.showdown(ctx)
	default:
		return ErrInvalidAction
	}
	return nil
}

func (g *Game) drawN(n int) ([]*entities.Card, error) {
	cards := make([]*entities.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// showdown ranks both seven-card hands and settles the pot. A strict
// tie returns half the pot, truncated. Called with the mutex held.
func (g *Game) showdown(ctx context.Context) error {
	g.playerRank = poker.EvaluateBest(append(append([]*entities.Card{}, g.PlayerHand...), g.Community...))
	g.dealerRank = poker.EvaluateBest(append(append([]*entities.Card{}, g.DealerHand...), g.Community...))

	var payout int64
	switch poker.Compare(g.playerRank, g.dealerRank) {
	case 1:
		g.result = ResultWin
		payout = g.Pot
	case -1:
		g.result = ResultLose
	default:
		g.result = ResultTie
		payout = g.Pot / 2
	}

	if payout > 0 {
		if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Hold'em winnings"); err != nil {
			return fmt.Errorf("crediting hold'em pot: %w", err)
		}
	}

	outcome := entities.OutcomeLose
	switch g.result {
	case ResultWin:
		outcome = entities.OutcomeWin
	case ResultTie:
		outcome = entities.OutcomePush
	}
	g.saveRound(ctx, outcome, payout,
		fmt.Sprintf("%s player=%s dealer=%s pot=%d", g.result, g.playerRank.Category, g.dealerRank.Category, g.Pot))
	return nil
}

// saveRound records the hand when a repository is wired. Called with
// the mutex held.
func (g *Game) saveRound(ctx context.Context, outcome entities.Outcome, payout int64, detail string) {
	if g.rounds == nil {
		return
	}
	record := &entities.Round{
		ID:          uuid.NewString(),
		UserID:      g.UserID,
		Game:        entities.GameHoldem,
		Stake:       g.staked,
		Payout:      payout,
		Outcome:     outcome,
		Detail:      detail,
		CompletedAt: time.Now(),
	}
	if err := g.rounds.SaveRound(ctx, record); err != nil {
		log.Printf("failed to save hold'em round for user %s: %v", g.UserID, err)
	}
}
