package crash

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
	ErrBetAlreadyPlaced = errors.New("bet already placed this round")
	ErrNoBet            = errors.New("no bet placed")
	ErrAlreadyCashedOut = errors.New("already cashed out this round")
	ErrRoundCrashed     = errors.New("round already crashed")
)

const (
	// CountdownSeconds is the betting window before each launch
	CountdownSeconds = 10
	// RestartSeconds is the cooldown after a crash before the next countdown
	RestartSeconds = 5
	// GrowthRate drives the exponential multiplier curve e^(rate*t)
	GrowthRate = 0.12
	// HistorySize bounds the trailing crash-point log
	HistorySize = 10
)

// GameState tracks the cycle phase
type GameState string

const (
	StateIdle      GameState = "IDLE"
	StateCountdown GameState = "COUNTDOWN"
	StateRunning   GameState = "RUNNING"
	StateCrashed   GameState = "CRASHED"
)

// Game is a single-player crash session. The cycle runs autonomously:
// Tick drives COUNTDOWN -> RUNNING -> CRASHED -> COUNTDOWN transitions
// on the caller's clock, while PlaceBet, CancelBet and CashOut are the
// player's moves against it.
type Game struct {
	mu sync.Mutex

	UserID string

	state      GameState
	multiplier float64
	history    []float64 // newest first, clamped to HistorySize

	crashPoint  float64
	stake       int64
	hasBet      bool
	cashedOutAt float64

	deadline  time.Time // countdown end
	runStart  time.Time // RUNNING epoch for the growth curve
	restartAt time.Time // next countdown after a crash

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
		UserID:     userID,
		state:      StateIdle,
		multiplier: 1.00,
		wallets:    wallets,
		rounds:     rounds,
		rng:        rng,
		now:        time.Now,
	}
}

// DrawCrashPoint samples the round's crash multiplier. The 0.99 scale
// folds a one percent instant-crash-at-1.00 chance into the curve.
func DrawCrashPoint(rng *rand.Rand) float64 {
	r := rng.Float64()
	result := 0.99 / (1 - r)
	return math.Max(1.00, math.Floor(result*100)/100)
}

// MultiplierAt returns the displayed multiplier t seconds into RUNNING
func MultiplierAt(elapsed float64) float64 {
	growth := math.Exp(GrowthRate * elapsed)
	return math.Max(1.00, math.Round(growth*100)/100)
}

// Tick advances the cycle clock. Callers run it on a short fixed
// interval; every autonomous transition happens here.
func (g *Game) Tick(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateIdle:
		g.startCycle(true)
	case StateCountdown:
		if !g.now().Before(g.deadline) {
			g.state = StateRunning
			g.runStart = g.now()
			g.multiplier = 1.00
		}
	case StateRunning:
		elapsed := g.now().Sub(g.runStart).Seconds()
		m := MultiplierAt(elapsed)
		if m >= g.crashPoint {
			return g.doCrash(ctx)
		}
		g.multiplier = m
	case StateCrashed:
		if !g.now().Before(g.restartAt) {
			g.startCycle(false)
		}
	}
	return nil
}

// PlaceBet stakes the round. Valid during the countdown, or in the
// initial idle moment before the first cycle; one bet per round.
func (g *Game) PlaceBet(ctx context.Context, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateCountdown && g.state != StateIdle {
		return ErrInvalidAction
	}
	if amount <= 0 {
		return ErrInvalidBet
	}
	if g.hasBet {
		return ErrBetAlreadyPlaced
	}

	if err := g.wallets.RemoveFunds(ctx, g.UserID, amount, "Crash bet"); err != nil {
		return err
	}
	g.stake = amount
	g.hasBet = true
	return nil
}

// CancelBet refunds the stake in full, valid only before launch
func (g *Game) CancelBet(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateCountdown && g.state != StateIdle {
		return ErrInvalidAction
	}
	if !g.hasBet {
		return ErrNoBet
	}

	if err := g.wallets.AddFunds(ctx, g.UserID, g.stake, "Crash bet refund"); err != nil {
		return fmt.Errorf("refunding crash bet: %w", err)
	}
	g.saveRound(ctx, entities.OutcomeCanceled, g.stake, fmt.Sprintf("canceled at countdown, crash=%.2f", g.crashPoint))
	g.hasBet = false
	g.stake = 0
	return nil
}

// CashOut locks in the current multiplier as the payout. It succeeds
// only strictly before the crash instant; a late request triggers the
// crash transition instead.
func (g *Game) CashOut(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning {
		return ErrInvalidAction
	}
	if !g.hasBet {
		return ErrNoBet
	}
	if g.cashedOutAt > 0 {
		return ErrAlreadyCashedOut
	}

	elapsed := g.now().Sub(g.runStart).Seconds()
	m := MultiplierAt(elapsed)
	if m >= g.crashPoint {
		if err := g.doCrash(ctx); err != nil {
			return err
		}
		return ErrRoundCrashed
	}

	g.multiplier = m
	g.cashedOutAt = m
	payout := int64(math.Round(m * float64(g.stake)))
	if err := g.wallets.AddFunds(ctx, g.UserID, payout, "Crash cashout"); err != nil {
		return fmt.Errorf("crediting crash cashout: %w", err)
	}
	g.saveRound(ctx, entities.OutcomeCashOut, payout, fmt.Sprintf("cashed out at %.2fx, crash=%.2f", m, g.crashPoint))
	return nil
}

// State returns the current cycle phase
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CurrentMultiplier returns the displayed multiplier as of the last tick
func (g *Game) CurrentMultiplier() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.multiplier
}

// RecentHistory returns the trailing crash points, newest first
func (g *Game) RecentHistory() []float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]float64(nil), g.history...)
}

// CashedOutAt returns the locked-in multiplier, zero if none this round
func (g *Game) CashedOutAt() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cashedOutAt
}

// CrashPoint exposes the drawn crash multiplier once the round is over
func (g *Game) CrashPoint() (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateCrashed {
		return 0, false
	}
	return g.crashPoint, true
}

// startCycle arms a new round. Called with the mutex held; keepBet
// preserves a stake placed during the initial idle moment.
func (g *Game) startCycle(keepBet bool) {
	g.crashPoint = DrawCrashPoint(g.rng)
	g.state = StateCountdown
	g.deadline = g.now().Add(CountdownSeconds * time.Second)
	g.multiplier = 1.00
	g.cashedOutAt = 0
	if !keepBet || !g.hasBet {
		g.hasBet = false
		g.stake = 0
	}
}

// doCrash ends the round at the crash point and settles a forfeited
// stake. Called with the mutex held.
func (g *Game) doCrash(ctx context.Context) error {
	g.multiplier = g.crashPoint
	g.state = StateCrashed
	g.restartAt = g.now().Add(RestartSeconds * time.Second)

	g.history = append([]float64{g.crashPoint}, g.history...)
	if len(g.history) > HistorySize {
		g.history = g.history[:HistorySize]
	}

	if g.hasBet && g.cashedOutAt == 0 {
		g.saveRound(ctx, entities.OutcomeLose, 0, fmt.Sprintf("crashed at %.2fx", g.crashPoint))
	}
	return nil
}

// saveRound records a settled round when a repository is wired. Called
// with the mutex held.
func (g *Game) saveRound(ctx context.Context, outcome entities.Outcome, payout int64, detail string) {
	if g.rounds == nil || g.stake == 0 {
		return
	}
	record := &entities.Round{
		ID:          uuid.NewString(),
		UserID:      g.UserID,
		Game:        entities.GameCrash,
		Stake:       g.stake,
		Payout:      payout,
		Outcome:     outcome,
		Detail:      detail,
		CompletedAt: time.Now(),
	}
	if err := g.rounds.SaveRound(ctx, record); err != nil {
		log.Printf("failed to save crash round for user %s: %v", g.UserID, err)
	}
}
