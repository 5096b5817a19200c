// Command simulate plays every casino game headlessly against an
// in-memory wallet and prints the resulting balance and round history.
// Useful for eyeballing payout behavior over many rounds.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/games"
	roundRepo "github.com/royalmock/casino/pkg/repositories/round"
	walletRepo "github.com/royalmock/casino/pkg/repositories/wallet"
	"github.com/royalmock/casino/pkg/scheduler"
	"github.com/royalmock/casino/pkg/services/baccarat"
	"github.com/royalmock/casino/pkg/services/blackjack"
	"github.com/royalmock/casino/pkg/services/crash"
	"github.com/royalmock/casino/pkg/services/holdem"
	"github.com/royalmock/casino/pkg/services/mines"
	"github.com/royalmock/casino/pkg/services/roulette"
	"github.com/royalmock/casino/pkg/services/slots"
	"github.com/royalmock/casino/pkg/services/videopoker"
	"github.com/royalmock/casino/pkg/services/wallet"
)

const userID = "simulator"

var (
	roundCount   = flag.Int("rounds", 20, "rounds to play per game")
	seed         = flag.Int64("seed", 0, "rng seed, 0 for time-based")
	stake        = flag.Int64("stake", 10, "stake per round")
	crashSeconds = flag.Int("crash-seconds", 30, "wall time to run the crash game, 0 to skip")
)

func main() {
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	log.Printf("Simulating %d rounds per game with seed %d", *roundCount, *seed)

	wallets := wallet.NewServiceWithStartingBalance(walletRepo.NewMemoryRepository(), 100_000)
	rounds := roundRepo.NewMemoryRepository()
	defer rounds.Close()

	registry := games.NewRegistry()
	register := func(name entities.GameName, factory games.Factory) {
		if err := registry.Register(name, factory); err != nil {
			log.Fatalf("Failed to register %s: %v", name, err)
		}
	}
	register(entities.GameBlackjack, func(id string) games.Session {
		return blackjack.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameBaccarat, func(id string) games.Session {
		return baccarat.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameRoulette, func(id string) games.Session {
		return roulette.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameMines, func(id string) games.Session {
		return mines.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameHoldem, func(id string) games.Session {
		return holdem.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameVideoPoker, func(id string) games.Session {
		return videopoker.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameSlots, func(id string) games.Session {
		return slots.NewGameWithRand(id, wallets, rounds, rng)
	})
	register(entities.GameCrash, func(id string) games.Session {
		return crash.NewGameWithRand(id, wallets, rounds, rng)
	})

	ctx := context.Background()

	playBlackjack(ctx, registry, rng)
	playBaccarat(ctx, registry, rng)
	playRoulette(ctx, registry, rng)
	playMines(ctx, registry, rng)
	playHoldem(ctx, registry, rng)
	playVideoPoker(ctx, registry, rng)
	playSlots(ctx, registry)
	if *crashSeconds > 0 {
		playCrash(ctx, registry, rng)
	}

	report(ctx, wallets, rounds)
}

func session(registry *games.Registry, name entities.GameName) games.Session {
	s, err := registry.Session(userID, name)
	if err != nil {
		log.Fatalf("Failed to open %s session: %v", name, err)
	}
	return s
}

func playBlackjack(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameBlackjack).(*blackjack.Game)
	for i := 0; i < *roundCount; i++ {
		if err := g.PlaceBet(ctx, *stake); err != nil {
			log.Fatalf("blackjack: %v", err)
		}
		for g.State == blackjack.StatePlaying {
			var err error
			if g.Player.Value() < 12 || rng.Intn(2) == 0 {
				err = g.Hit(ctx)
			} else {
				err = g.Stand(ctx)
			}
			if err != nil {
				log.Fatalf("blackjack: %v", err)
			}
		}
		if err := g.Reset(); err != nil {
			log.Fatalf("blackjack: %v", err)
		}
	}
}

func playBaccarat(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameBaccarat).(*baccarat.Game)
	betTypes := []baccarat.BetType{baccarat.BetPlayer, baccarat.BetBanker, baccarat.BetTie, baccarat.BetWinnerEven}
	for i := 0; i < *roundCount; i++ {
		if err := g.PlaceChip(ctx, betTypes[rng.Intn(len(betTypes))], *stake); err != nil {
			log.Fatalf("baccarat: %v", err)
		}
		if err := g.Deal(ctx); err != nil {
			log.Fatalf("baccarat: %v", err)
		}
		if err := g.Reset(); err != nil {
			log.Fatalf("baccarat: %v", err)
		}
	}
}

func playRoulette(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameRoulette).(*roulette.Game)
	for i := 0; i < *roundCount; i++ {
		if err := g.PlaceBet(ctx, roulette.ColorBet(roulette.ColorRed, *stake)); err != nil {
			log.Fatalf("roulette: %v", err)
		}
		if err := g.PlaceBet(ctx, roulette.NumberBet(rng.Intn(37), *stake)); err != nil {
			log.Fatalf("roulette: %v", err)
		}
		if err := g.Spin(ctx); err != nil {
			log.Fatalf("roulette: %v", err)
		}
		if err := g.Reset(); err != nil {
			log.Fatalf("roulette: %v", err)
		}
	}
}

func playMines(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameMines).(*mines.Game)
	for i := 0; i < *roundCount; i++ {
		if err := g.Start(ctx, *stake, 1+rng.Intn(5)); err != nil {
			log.Fatalf("mines: %v", err)
		}
		picks := rng.Perm(mines.GridSize)
		target := 1 + rng.Intn(4)
		for _, tile := range picks[:target] {
			if err := g.Reveal(ctx, tile); err != nil {
				log.Fatalf("mines: %v", err)
			}
			if g.State != mines.StatePlaying {
				break
			}
		}
		if g.State == mines.StatePlaying {
			if err := g.CashOut(ctx); err != nil {
				log.Fatalf("mines: %v", err)
			}
		}
	}
}

func playHoldem(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameHoldem).(*holdem.Game)
	for i := 0; i < *roundCount; i++ {
		if err := g.Deal(ctx, *stake); err != nil {
			log.Fatalf("holdem: %v", err)
		}
		for {
			if _, _, _, done := g.Result(); done {
				break
			}
			var err error
			switch rng.Intn(10) {
			case 0:
				err = g.Fold(ctx)
			case 1, 2, 3:
				err = g.Bet(ctx)
			default:
				err = g.Check(ctx)
			}
			if err != nil {
				log.Fatalf("holdem: %v", err)
			}
		}
		if err := g.Reset(); err != nil {
			log.Fatalf("holdem: %v", err)
		}
	}
}

func playVideoPoker(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameVideoPoker).(*videopoker.Game)
	for i := 0; i < *roundCount; i++ {
		if err := g.Deal(ctx, *stake); err != nil {
			log.Fatalf("videopoker: %v", err)
		}
		for pos := 0; pos < videopoker.HandSize; pos++ {
			if rng.Intn(2) == 0 {
				if err := g.ToggleHold(pos); err != nil {
					log.Fatalf("videopoker: %v", err)
				}
			}
		}
		if err := g.Draw(ctx); err != nil {
			log.Fatalf("videopoker: %v", err)
		}
		if err := g.Reset(); err != nil {
			log.Fatalf("videopoker: %v", err)
		}
	}
}

func playSlots(ctx context.Context, registry *games.Registry) {
	g := session(registry, entities.GameSlots).(*slots.Game)
	themes := []string{"blasting", "olympus", "sweet"}
	for i := 0; i < *roundCount; i++ {
		if err := g.SelectTheme(themes[i%len(themes)]); err != nil {
			log.Fatalf("slots: %v", err)
		}
		if err := g.Spin(ctx, *stake); err != nil {
			log.Fatalf("slots: %v", err)
		}
	}
}

// playCrash runs the crash game in real time: a scheduler task drives the
// multiplier while the main goroutine bets and cashes out at random targets.
func playCrash(ctx context.Context, registry *games.Registry, rng *rand.Rand) {
	g := session(registry, entities.GameCrash).(*crash.Game)

	ticker := scheduler.NewScheduler()
	ticker.AddTask("crash_tick", 100*time.Millisecond, func(ctx context.Context) error {
		registry.EachSession(entities.GameCrash, func(_ string, s games.Session) {
			if err := s.(*crash.Game).Tick(ctx); err != nil {
				log.Printf("crash tick: %v", err)
			}
		})
		return nil
	})
	ticker.Start(ctx)
	defer ticker.Stop()

	deadline := time.Now().Add(time.Duration(*crashSeconds) * time.Second)
	target := 1.2 + rng.Float64()

	for time.Now().Before(deadline) {
		switch g.State() {
		case crash.StateIdle, crash.StateCountdown:
			// One bet per round; an extra attempt is rejected
			g.PlaceBet(ctx, *stake)
		case crash.StateRunning:
			if g.CurrentMultiplier() >= target {
				if err := g.CashOut(ctx); err == nil {
					target = 1.2 + rng.Float64()
				}
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	log.Printf("crash history: %v", g.RecentHistory())
}

func report(ctx context.Context, wallets *wallet.Service, rounds roundRepo.Repository) {
	balance, err := wallets.GetBalance(ctx, userID)
	if err != nil {
		log.Fatalf("Failed to read balance: %v", err)
	}
	fmt.Printf("\nFinal balance: %d credits (started with 100000)\n\n", balance)

	recent, err := rounds.GetRecentRounds(ctx, userID, 25)
	if err != nil {
		log.Fatalf("Failed to read rounds: %v", err)
	}
	fmt.Println("Last rounds:")
	for _, r := range recent {
		fmt.Printf("  %-11s %-9s stake %4d payout %5d  %s\n", r.Game, r.Outcome, r.Stake, r.Payout, r.Detail)
	}
}
