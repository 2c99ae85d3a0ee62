package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"wheelbot/internal/game"
	"wheelbot/internal/ledger"
	"wheelbot/internal/wheel"
)

func HandleWheel(s *discordgo.Session, i *discordgo.InteractionCreate, svc *game.Service) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respondText(s, i, "Missing subcommand.")
		return
	}

	sub := data.Options[0]
	channelID := i.ChannelID
	userID := i.Member.User.ID

	switch sub.Name {
	case "open":
		_, err := svc.Open(context.Background(), channelID, userID)
		if err != nil {
			if errors.Is(err, game.ErrSessionExists) {
				respondText(s, i, "A round is already open in this channel.")
			} else {
				respondText(s, i, "Failed to open a round: "+err.Error())
			}
			return
		}
		respondText(s, i, "🎰 Round open! Place bets with `/wheel bet`, then `/wheel spin`.")

	case "bet":
		outcomeOpt := getStringOption(sub.Options, "outcome")
		amount := getIntOption(sub.Options, "amount")
		if outcomeOpt == nil {
			respondText(s, i, "An outcome is required.")
			return
		}
		sess, err := svc.PlaceBet(context.Background(), channelID, userID, *outcomeOpt, amount)
		if err != nil {
			respondText(s, i, betErrorMessage(err))
			return
		}
		_, total := sess.Snapshot()
		respondText(s, i, fmt.Sprintf("✅ Bet %d on **%s** placed. Total wagered: %d.", amount, strings.ToLower(*outcomeOpt), total))

	case "clear":
		refunded, err := svc.ClearBets(context.Background(), channelID, userID)
		if err != nil {
			respondText(s, i, sessionErrorMessage(err))
			return
		}
		if refunded == 0 {
			respondText(s, i, "No bets to clear.")
			return
		}
		respondText(s, i, fmt.Sprintf("↩️ Cleared. %d chips refunded.", refunded))

	case "spin":
		// Rendering can take a while; acknowledge first.
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
		if err != nil {
			return
		}
		result, err := svc.Spin(context.Background(), channelID, userID)
		if err != nil {
			if result != nil && result.Refunded {
				editResponse(s, i, "❌ The spin failed and every wager was refunded.")
			} else {
				editResponse(s, i, sessionErrorMessage(err))
			}
			return
		}
		editResponse(s, i, resultMessage(result))

	case "balance":
		balance, err := svc.Balance(context.Background(), userID)
		if err != nil {
			respondText(s, i, "Failed to look up your balance.")
			return
		}
		respondText(s, i, fmt.Sprintf("💰 You have %d chips.", balance))

	default:
		respondText(s, i, "Unknown subcommand.")
	}
}

func resultMessage(r *game.SpinResult) string {
	pocket := fmt.Sprintf("**%d %s**", r.Pocket.Number, r.Pocket.Color)
	var b strings.Builder
	fmt.Fprintf(&b, "🎡 The ball lands on %s.\n", pocket)
	if r.Winnings > 0 {
		fmt.Fprintf(&b, "You are credited %d chips (net %+d).", r.Winnings, r.Net)
	} else {
		fmt.Fprintf(&b, "No winning bets (net %+d).", r.Net)
	}
	if r.Degraded {
		b.WriteString("\n⚠️ Shown in degraded mode.")
	}
	return b.String()
}

func betErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNoSession):
		return "No open round here. Start one with `/wheel open`."
	case errors.Is(err, game.ErrUnauthorized):
		return "Only the round owner can place bets."
	case errors.Is(err, game.ErrInvalidBet):
		return "The amount must be a positive number of chips."
	case errors.Is(err, wheel.ErrUnknownOutcome):
		return "Unknown outcome. Try red, black, green, even, odd, low, high, dozen1-3 or a number 0-36."
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "You don't have enough chips for that bet."
	case errors.Is(err, ledger.ErrBlacklisted):
		return "Your account cannot place bets."
	}
	return "Failed to place the bet: " + err.Error()
}

func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNoSession):
		return "No open round here. Start one with `/wheel open`."
	case errors.Is(err, game.ErrUnauthorized):
		return "Only the round owner can do that."
	case errors.Is(err, game.ErrNoBetsPlaced):
		return "Place at least one bet before spinning."
	}
	return "Something went wrong: " + err.Error()
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
}

func getStringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *string {
	for _, o := range opts {
		if o.Name == name {
			v := o.StringValue()
			return &v
		}
	}
	return nil
}

func getIntOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, o := range opts {
		if o.Name == name {
			return o.IntValue()
		}
	}
	return 0
}
