package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/royalmock/casino/pkg/services/slots"
)

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "balance",
		Description: "Show your credit balance",
	},
	{
		Name:        "blackjack",
		Description: "Play a hand of blackjack",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: "Credits to wager",
				Required:    true,
				MinValue:    &minBet,
			},
		},
	},
	{
		Name:        "slots",
		Description: "Spin the slot machine",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: "Credits to wager",
				Required:    true,
				MinValue:    &minBet,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "theme",
				Description: "Machine theme",
				Choices:     themeChoices(),
			},
		},
	},
	{
		Name:        "mines",
		Description: "Play mines on a 5x5 board",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Start a board",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "bet",
						Description: "Credits to wager",
						Required:    true,
						MinValue:    &minBet,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "mines",
						Description: "Number of hidden mines (1-24)",
						Required:    true,
						MinValue:    &minMines,
						MaxValue:    24,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reveal",
				Description: "Reveal a tile",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "tile",
						Description: "Tile number (0-24)",
						Required:    true,
						MinValue:    &minTile,
						MaxValue:    24,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cashout",
				Description: "Cash out the current board",
			},
		},
	},
}

var (
	minBet   = float64(1)
	minMines = float64(1)
	minTile  = float64(0)
)

func themeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(slots.Themes))
	for _, theme := range slots.Themes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  theme.Name,
			Value: theme.ID,
		})
	}
	return choices
}

// registerCommands pushes the command set to Discord. With GUILD_ID set
// the commands land instantly in one guild, otherwise globally.
func (b *Bot) registerCommands() error {
	for _, command := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, command)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", command.Name, err)
		}
		b.registered = append(b.registered, created)
	}
	b.logger.Info("Registered %d slash commands", len(b.registered))
	return nil
}

// cleanupCommands removes the commands registered by this process
func (b *Bot) cleanupCommands() {
	for _, command := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, command.ID); err != nil {
			b.logger.Warn("Failed to delete command %s: %v", command.Name, err)
		}
	}
	b.registered = nil
}
