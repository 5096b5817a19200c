package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/royalmock/casino/pkg/entities"
	"github.com/royalmock/casino/pkg/services/blackjack"
	"github.com/royalmock/casino/pkg/services/mines"
	"github.com/royalmock/casino/pkg/services/slots"
	"github.com/royalmock/casino/pkg/services/wallet"
)

// handleSlashCommand routes slash commands to their game handlers
func (b *Bot) handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		b.handleBalance(s, i)
	case "blackjack":
		b.handleBlackjack(s, i)
	case "slots":
		b.handleSlots(s, i)
	case "mines":
		b.handleMines(s, i)
	default:
		b.logger.Warn("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}

// handleMessageComponent routes button clicks
func (b *Bot) handleMessageComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, "blackjack_"):
		b.handleBlackjackButton(s, i)
	default:
		b.logger.Warn("Unknown component interaction: %s", customID)
	}
}

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	ctx := context.Background()

	w, created, err := b.wallets.GetOrCreateWallet(ctx, userID)
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	msg := fmt.Sprintf("Your balance: **%d** credits", w.Balance)
	if created {
		msg += "\nWelcome! You start with a fresh wallet."
	}
	b.respond(s, i, msg, nil)
}

func (b *Bot) handleBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	bet := optionInt(i.ApplicationCommandData().Options, "bet")
	ctx := context.Background()

	g, err := b.blackjackSession(userID)
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	if g.State == blackjack.StateGameOver {
		if err := g.Reset(); err != nil {
			b.respondError(s, i, err)
			return
		}
	}
	if err := g.PlaceBet(ctx, bet); err != nil {
		b.respondError(s, i, err)
		return
	}

	b.respond(s, i, renderBlackjack(g), blackjackButtons(g))
}

func (b *Bot) handleBlackjackButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	ctx := context.Background()

	g, err := b.blackjackSession(userID)
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	switch i.MessageComponentData().CustomID {
	case "blackjack_hit":
		err = g.Hit(ctx)
	case "blackjack_stand":
		err = g.Stand(ctx)
	}
	if err != nil {
		b.respondError(s, i, err)
		return
	}

	b.update(s, i, renderBlackjack(g), blackjackButtons(g))
}

func (b *Bot) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	options := i.ApplicationCommandData().Options
	bet := optionInt(options, "bet")
	ctx := context.Background()

	session, err := b.registry.Session(userID, entities.GameSlots)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	g := session.(*slots.Game)

	if theme := optionString(options, "theme"); theme != "" {
		if err := g.SelectTheme(theme); err != nil {
			b.respondError(s, i, err)
			return
		}
	}

	if err := g.Spin(ctx, bet); err != nil {
		b.respondError(s, i, err)
		return
	}

	b.respond(s, i, renderSlots(g), nil)
}

func (b *Bot) handleMines(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	sub := i.ApplicationCommandData().Options[0]
	ctx := context.Background()

	session, err := b.registry.Session(userID, entities.GameMines)
	if err != nil {
		b.respondError(s, i, err)
		return
	}
	g := session.(*mines.Game)

	switch sub.Name {
	case "start":
		bet := optionInt(sub.Options, "bet")
		mineCount := int(optionInt(sub.Options, "mines"))
		if err := g.Start(ctx, bet, mineCount); err != nil {
			b.respondError(s, i, err)
			return
		}
	case "reveal":
		tile := int(optionInt(sub.Options, "tile"))
		if err := g.Reveal(ctx, tile); err != nil {
			b.respondError(s, i, err)
			return
		}
	case "cashout":
		if err := g.CashOut(ctx); err != nil {
			b.respondError(s, i, err)
			return
		}
	}

	b.respond(s, i, renderMines(g), nil)
}

func (b *Bot) blackjackSession(userID string) (*blackjack.Game, error) {
	session, err := b.registry.Session(userID, entities.GameBlackjack)
	if err != nil {
		return nil, err
	}
	return session.(*blackjack.Game), nil
}

// --- Rendering ---

func renderBlackjack(g *blackjack.Game) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("**Your hand** (%d): %s\n", g.Player.Value(), renderHand(g.Player)))
	if g.State == blackjack.StatePlaying {
		sb.WriteString(fmt.Sprintf("**Dealer shows**: %s\n", g.Dealer.Cards[0]))
	} else {
		sb.WriteString(fmt.Sprintf("**Dealer hand** (%d): %s\n", g.Dealer.Value(), renderHand(g.Dealer)))
	}

	if result, ok := g.Result(); ok {
		sb.WriteString(fmt.Sprintf("Result: **%s**", result))
	}
	return sb.String()
}

func renderHand(h *blackjack.Hand) string {
	names := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func blackjackButtons(g *blackjack.Game) []discordgo.MessageComponent {
	if g.State != blackjack.StatePlaying {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Hit", Style: discordgo.PrimaryButton, CustomID: "blackjack_hit"},
				discordgo.Button{Label: "Stand", Style: discordgo.SecondaryButton, CustomID: "blackjack_stand"},
			},
		},
	}
}

func renderSlots(g *slots.Game) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n", g.Theme.Name))

	// The grid is stored reel-major; show it row by row
	for row := 0; row < slots.Rows; row++ {
		for reel := 0; reel < slots.Reels; reel++ {
			sb.WriteString(g.Grid[reel][row])
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	payout, wins, ok := g.Result()
	if !ok {
		return sb.String()
	}
	if payout == 0 {
		sb.WriteString("No clusters this time.")
		return sb.String()
	}
	for _, win := range wins {
		sb.WriteString(fmt.Sprintf("%s x%d pays %d\n", win.Symbol, win.Count, win.Payout))
	}
	sb.WriteString(fmt.Sprintf("Total win: **%d** credits", payout))
	return sb.String()
}

func renderMines(g *mines.Game) string {
	revealed := make(map[int]bool)
	for _, tile := range g.Revealed() {
		revealed[tile] = true
	}
	mined := make(map[int]bool)
	if exposed, ok := g.Mines(); ok {
		for _, tile := range exposed {
			mined[tile] = true
		}
	}

	var sb strings.Builder
	for tile := 0; tile < mines.GridSize; tile++ {
		switch {
		case mined[tile]:
			sb.WriteString("💣")
		case revealed[tile]:
			sb.WriteString("🟩")
		default:
			sb.WriteString("⬜")
		}
		if (tile+1)%5 == 0 {
			sb.WriteString("\n")
		}
	}

	switch g.State {
	case mines.StatePlaying:
		sb.WriteString(fmt.Sprintf("Multiplier: **%.2fx**, next safe pick: **%.2fx**", g.CurrentMultiplier(), g.NextMultiplier()))
	case mines.StateGameOver:
		sb.WriteString("**BOOM!** You hit a mine.")
	case mines.StateCashedOut:
		if payout, ok := g.Payout(); ok {
			sb.WriteString(fmt.Sprintf("Cashed out for **%d** credits", payout))
		}
	}
	return sb.String()
}

// --- Responses ---

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		b.logger.Error("Failed to respond to interaction: %v", err)
	}
}

// update edits the originating message in place, used for button flows
func (b *Bot) update(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		b.logger.Error("Failed to update interaction: %v", err)
	}
}

func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := "Something went wrong, try again."
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		content = "You don't have enough credits for that."
	case errors.Is(err, blackjack.ErrInvalidAction),
		errors.Is(err, mines.ErrInvalidAction),
		errors.Is(err, slots.ErrInvalidAction):
		content = "You can't do that right now."
	case errors.Is(err, slots.ErrUnknownTheme):
		content = "That theme doesn't exist."
	default:
		b.logger.LogError(err)
	}

	respErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respErr != nil {
		b.logger.Error("Failed to respond with error: %v", respErr)
	}
}

// --- Option helpers ---

func optionInt(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, option := range options {
		if option.Name == name {
			return option.IntValue()
		}
	}
	return 0
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, option := range options {
		if option.Name == name {
			return option.StringValue()
		}
	}
	return ""
}
