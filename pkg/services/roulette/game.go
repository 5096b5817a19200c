package roulette

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/repositories/round"
	"github.com/royalmock/casino/pkg/services/wallet"
)

var (
	ErrInvalidAction = errors.New("invalid action for current game state")
	ErrInvalidBet    = errors.New("invalid bet")
	ErrNoBets        = errors.New("no bets placed")
)

// redNumbers lists the red slots of a European wheel; zero is green and
// everything else is black.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Color of a wheel slot
type Color string

const (
	ColorRed   Color = "RED"
	ColorBlack Color = "BLACK"
	ColorGreen Color = "GREEN"
)

// ColorOf returns the wheel color for a number in 0..36
func ColorOf(n int) Color {
	if n == 0 {
		return ColorGreen
	}
	if redNumbers[n] {
		return ColorRed
	}
	return ColorBlack
}

// Parity of a winning number; zero is neither even nor odd on the table
type Parity string

const (
	ParityEven Parity = "EVEN"
	ParityOdd  Parity = "ODD"
	ParityNone Parity = "NONE"
)

// ParityOf returns the betting parity for a number in 0..36
func ParityOf(n int) Parity {
	if n == 0 {
		return ParityNone
	}
	if n%2 == 0 {
		return ParityEven
	}
	return ParityOdd
}

// BetKind discriminates the three bet shapes on the board
type BetKind string

const (
	BetNumber BetKind = "NUMBER"
	BetColor  BetKind = "COLOR"
	BetParity BetKind = "PARITY"
)

// Bet is one wager on the board. Number, Color and Parity are only
// meaningful for their matching kind.
type Bet struct {
	Kind   BetKind
	Number int
	Color  Color
	Parity Parity
	Amount int64
}

// NumberBet wagers on a single slot, paying 35 to 1
func NumberBet(n int, amount int64) Bet {
	return Bet{Kind: BetNumber, Number: n, Amount: amount}
}

// ColorBet wagers on red or black, paying 1 to 1
func ColorBet(c Color, amount int64) Bet {
	return Bet{Kind: BetColor, Color: c, Amount: amount}
}

// ParityBet wagers on even or odd, paying 1 to 1
func ParityBet(p Parity, amount int64) Bet {
	return Bet{Kind: BetParity, Parity: p, Amount: amount}
}

func (b Bet) valid() bool {
	if b.Amount <= 0 {
		return false
	}
	switch b.Kind {
	case BetNumber:
		return b.Number >= 0 && b.Number <= 36
	case BetColor:
		return b.Color == ColorRed || b.Color == ColorBlack
	case BetParity:
		return b.Parity == ParityEven || b.Parity == ParityOdd
	default:
		return false
	}
}

// key identifies a board zone for chip stacking
func (b Bet) key() string {
	switch b.Kind {
	case BetNumber:
		return fmt.Sprintf("n%d", b.Number)
	case BetColor:
		return "c" + string(b.Color)
	default:
		return "p" + string(b.Parity)
	}
}

// wins reports whether this bet pays against the drawn number, and the
// profit multiplier if it does
func (b Bet) wins(n int) (bool, int64) {
	switch b.Kind {
	case BetNumber:
		return b.Number == n, 35
	case BetColor:
		return b.Color == ColorOf(n), 1
	default:
		return b.Parity == ParityOf(n), 1
	}
}

// GameState tracks the round through its phases
type GameState string

const (
	StateIdle     GameState = "IDLE"
	StateSpinning GameState = "SPINNING"
	StateResult   GameState = "RESULT"
)

// Game is a single-player European roulette table. Bets stack per board
// zone and are debited as they land; Spin resolves all of them against
// one drawn number. The visual spin is the caller's concern, the outcome
// is fixed the moment Spin returns.
type Game struct {
	mu sync.Mutex

	UserID string
	State  GameState
	Bets   []Bet

	winningNumber int
	payout        int64

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

// PlaceBet debits the chip and adds it to the board, stacking onto any
// existing chip on the same zone
func (g *Game) PlaceBet(ctx context.Context, bet Bet) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateIdle {
		return ErrInvalidAction
	}
	if !bet.valid() {
		return ErrInvalidBet
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, bet.Amount, "Roulette bet"); err != nil {
		return err
	}

	for i := range g.Bets {
		if g.Bets[i].key() == bet.key() {
			g.Bets[i].Amount += bet.Amount
			return nil
		}
	}
	g.Bets = append(g.Bets, bet)
	return nil
}

// ClearBets refunds every chip on the board
func (g *Game) ClearBets(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateIdle {
		return ErrInvalidAction
	}

	total := g.totalStake()
	if total > 0 {
		if err := g.wallets.AddFunds(ctx, g.UserID, total, "Roulette bet refund"); err != nil {
			return fmt.Errorf("refunding roulette bets: %w", err)
		}
	}
	g.Bets = nil
	return nil
}

// Spin draws the winning number and resolves every bet against it
func (g *Game) Spin(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateIdle {
		return ErrInvalidAction
	}
	if len(g.Bets) == 0 {
		return ErrNoBets
	}

	g.State = StateSpinning
	g.winningNumber = g.rng.Intn(37)

	var payout int64
	var winningZones []string
	for _, bet := range g.Bets {
		if won, multiplier := bet.wins(g.winningNumber); won {
			payout += bet.Amount + bet.Amount*multiplier
			winningZones = append(winningZones, bet.key())
		}
	}
	g.payout = payout
	g.State = StateResult

	if payout > 0 {
		if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Roulette winnings"); err != nil {
			return fmt.Errorf("crediting roulette payout: %w", err)
		}
	}

	stake := g.totalStake()
	outcome := entities.OutcomeLose
	if payout > stake {
		outcome = entities.OutcomeWin
	} else if payout == stake && payout > 0 {
		outcome = entities.OutcomePush
	}

	if g.rounds != nil {
		record := &entities.Round{
			ID:          uuid.NewString(),
			UserID:      g.UserID,
			Game:        entities.GameRoulette,
			Stake:       stake,
			Payout:      payout,
			Outcome:     outcome,
			Detail:      fmt.Sprintf("number=%d %s hits=%s", g.winningNumber, ColorOf(g.winningNumber), strings.Join(winningZones, ",")),
			CompletedAt: time.Now(),
		}
		if err := g.rounds.SaveRound(ctx, record); err != nil {
			log.Printf("failed to save roulette round for user %s: %v", g.UserID, err)
		}
	}

	return nil
}

// Result returns the drawn number and total payout once settled
func (g *Game) Result() (int, int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return 0, 0, false
	}
	return g.winningNumber, g.payout, true
}

// Reset clears the board for a new round
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != StateResult {
		return ErrInvalidAction
	}

	g.Bets = nil
	g.winningNumber = 0
	g.payout = 0
	g.State = StateIdle
	return nil
}

func (g *Game) totalStake() int64 {
	var total int64
	for _, bet := range g.Bets {
		total += bet.Amount
	}
	return total
}
