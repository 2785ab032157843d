package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

func (bh *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update, session *types.CheckoutSession) {
	command := strings.TrimSpace(update.Message.Text)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	switch cmd {
	case "/start":
		bh.countdown.Stop(session.UserID)
		bh.clearPromoTarget(session.UserID)
		bh.cancelTyping(session.ChatID)

		session.State = types.StateEmail
		session.ClearForm()
		session.PromoMessageID = 0
		if err := bh.sessions.UpdateSession(session); err != nil {
			log.Printf("Error updating session: %v", err)
		}

		st := bh.checkout.State(session.UserID)
		text := messages.StartWelcome()
		if bh.purchases != nil {
			if last, err := bh.purchases.LatestPurchase(session.UserID); err == nil && last != nil {
				text += "\n\n" + messages.AlreadyPurchased(last.CreatedAt)
			}
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      text + "\n\n" + messages.AskEmail(st.Email),
			ParseMode: messages.ParseModeHTML,
		})
	case "/reset":
		bh.countdown.Stop(session.UserID)
		bh.clearPromoTarget(session.UserID)
		bh.cancelTyping(session.ChatID)

		bh.checkout.Reset(session.UserID)

		session.State = types.StateEmail
		session.ClearForm()
		session.PromoMessageID = 0
		if err := bh.sessions.UpdateSession(session); err != nil {
			log.Printf("Error updating session: %v", err)
		}

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      messages.ResetDone(),
			ParseMode: messages.ParseModeHTML,
		})
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      messages.ErrorUnknownCommand(),
			ParseMode: messages.ParseModeHTML,
		})
	}
}
