package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/royalmock/casino/internal/bot"
	"github.com/royalmock/casino/internal/config"
	roundRepo "github.com/royalmock/casino/pkg/repositories/round"
	walletRepo "github.com/royalmock/casino/pkg/repositories/wallet"
	"github.com/royalmock/casino/pkg/scheduler"
	"github.com/royalmock/casino/pkg/services/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateDiscord(); err != nil {
		log.Fatalf("Invalid Discord configuration: %v", err)
	}

	wallets := wallet.NewServiceWithStartingBalance(newWalletRepository(cfg), cfg.StartingBalance)
	rounds, maintenance := newRoundRepository(cfg)
	defer rounds.Close()

	if maintenance != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		maintenance.Start(ctx)
		defer maintenance.Stop()
	}

	casinoBot, err := bot.New(cfg, wallets, rounds)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	if err := casinoBot.Start(); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	log.Println("Bot is running. Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	casinoBot.Shutdown()
}

func newWalletRepository(cfg *config.Config) walletRepo.Repository {
	if cfg.StorageType == "sqlite" {
		repo, err := walletRepo.NewSQLiteRepository(cfg.DBPath)
		if err != nil {
			log.Printf("Failed to initialize SQLite wallet repository: %v", err)
			log.Println("Falling back to in-memory wallet repository")
			return walletRepo.NewMemoryRepository()
		}
		log.Printf("Using SQLite wallet repository at %s", cfg.DBPath)
		return repo
	}
	log.Println("Using in-memory wallet repository (balances reset on restart)")
	return walletRepo.NewMemoryRepository()
}

func newRoundRepository(cfg *config.Config) (roundRepo.Repository, *scheduler.RoundMaintenance) {
	var base roundRepo.Repository
	if cfg.StorageType == "sqlite" {
		repo, err := roundRepo.NewSQLiteRepository(cfg.DBPath)
		if err != nil {
			log.Printf("Failed to initialize SQLite round repository: %v", err)
			log.Println("Falling back to in-memory round repository")
			base = roundRepo.NewMemoryRepository()
		} else {
			base = repo
		}
	} else {
		base = roundRepo.NewMemoryRepository()
	}

	if cfg.ElasticURL == "" {
		return base, nil
	}

	esRepo, err := roundRepo.NewElasticsearchRepository(base, &roundRepo.ElasticsearchConfig{
		URL:      cfg.ElasticURL,
		Username: cfg.ElasticUsername,
		Password: cfg.ElasticPassword,
	})
	if err != nil {
		log.Printf("Failed to initialize Elasticsearch round archive: %v", err)
		return base, nil
	}
	log.Printf("Archiving rounds to Elasticsearch at %s", cfg.ElasticURL)
	return esRepo, scheduler.NewRoundMaintenance(esRepo, 0)
}
