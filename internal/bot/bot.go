package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/royalmock/casino/internal/config"
	"github.com/royalmock/casino/internal/logging"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/games"
	roundRepo "github.com/royalmock/casino/pkg/repositories/round"
	"github.com/royalmock/casino/pkg/services/blackjack"
	"github.com/royalmock/casino/pkg/services/mines"
	"github.com/royalmock/casino/pkg/services/slots"
	"github.com/royalmock/casino/pkg/services/wallet"
)

// Bot wires a subset of the casino games onto Discord slash commands.
// The game services know nothing about Discord; the bot is one consumer.
type Bot struct {
	config     *config.Config
	session    *discordgo.Session
	registered []*discordgo.ApplicationCommand
	registry   *games.Registry
	wallets    wallet.WalletService
	logger     *logging.Logger
	shutdownWg sync.WaitGroup
}

// New creates a bot wired to the given wallet service and round store
func New(cfg *config.Config, wallets wallet.WalletService, rounds roundRepo.Repository) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	registry, err := newGameRegistry(wallets, rounds)
	if err != nil {
		return nil, err
	}

	level := logging.INFO
	if cfg.IsDevelopment() {
		level = logging.DEBUG
	}

	bot := &Bot{
		config:   cfg,
		session:  session,
		registry: registry,
		wallets:  wallets,
		logger:   logging.NewLogger(level),
	}

	session.AddHandler(bot.handleInteractionCreate)

	return bot, nil
}

// newGameRegistry registers the games the bot exposes
func newGameRegistry(wallets wallet.WalletService, rounds roundRepo.Repository) (*games.Registry, error) {
	registry := games.NewRegistry()
	if err := registry.Register(entities.GameBlackjack, func(userID string) games.Session {
		return blackjack.NewGame(userID, wallets, rounds)
	}); err != nil {
		return nil, err
	}
	if err := registry.Register(entities.GameMines, func(userID string) games.Session {
		return mines.NewGame(userID, wallets, rounds)
	}); err != nil {
		return nil, err
	}
	if err := registry.Register(entities.GameSlots, func(userID string) games.Session {
		return slots.NewGame(userID, wallets, rounds)
	}); err != nil {
		return nil, err
	}
	return registry, nil
}

// Start opens the Discord connection and registers slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the bot
func (b *Bot) Shutdown() {
	if b.config.IsDevelopment() {
		b.cleanupCommands()
	}

	if err := b.session.Close(); err != nil {
		b.logger.Error("Error closing Discord session: %v", err)
	}

	b.shutdownWg.Wait()
}

func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlashCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(s, i)
	}
}

// interactionUserID resolves the acting user for guild and DM interactions
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
