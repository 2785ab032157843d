package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/format"
	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/internal/utils"
	"github.com/heymomentum/momentum-checkout-bot/internal/validate"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

// HandleText advances the funnel one step per message, driven by the
// session state. Each payment field is formatted before it is checked so the
// user sees the same normalized value the validator saw.
func (bh *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update, session *types.CheckoutSession) {
	if update == nil || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch session.State {
	case types.StateEmail:
		if !validate.IsValidEmail(text) {
			bh.sendText(ctx, b, chatID, messages.EmailInvalid())
			return
		}
		bh.checkout.SetEmail(session.UserID, text)
		session.State = types.StateName
		bh.updateSession(session)
		bh.deferTyping(chatID)

		st := bh.checkout.State(session.UserID)
		bh.sendText(ctx, b, chatID, messages.AskName(st.Name))

	case types.StateName:
		if !validate.IsValidName(text) {
			bh.sendText(ctx, b, chatID, messages.NameInvalid())
			return
		}
		bh.checkout.SetName(session.UserID, text)
		bh.deferTyping(chatID)
		bh.enterProduct(ctx, b, session)

	case types.StateCardNumber:
		formatted := format.CardNumber(text)
		if digitsLen(formatted) != 16 {
			bh.sendText(ctx, b, chatID, messages.CardNumberInvalid(formatted))
			return
		}
		session.Form.CardNumber = formatted
		session.State = types.StateExpiry
		bh.updateSession(session)
		bh.deferTyping(chatID)
		bh.sendText(ctx, b, chatID, messages.AskExpiryDate())

	case types.StateExpiry:
		formatted := format.ExpiryDate(session.Form.ExpiryDate, text)
		session.Form.ExpiryDate = formatted
		if digitsLen(formatted) != 4 {
			bh.updateSession(session)
			bh.sendText(ctx, b, chatID, messages.ExpiryDateInvalid())
			return
		}
		if validate.IsExpiryDateInvalid(formatted, time.Now()) {
			bh.updateSession(session)
			bh.sendText(ctx, b, chatID, messages.ExpiryDateExpired())
			return
		}
		session.State = types.StateCVV
		bh.updateSession(session)
		bh.deferTyping(chatID)
		bh.sendText(ctx, b, chatID, messages.AskCVV())

	case types.StateCVV:
		formatted := format.CVV(text)
		if len(formatted) < 3 {
			bh.sendText(ctx, b, chatID, messages.CVVInvalid())
			return
		}
		session.Form.CVV = formatted
		session.State = types.StateNameOnCard
		bh.updateSession(session)
		bh.deferTyping(chatID)
		bh.sendText(ctx, b, chatID, messages.AskNameOnCard())

	case types.StateNameOnCard:
		if text == "" {
			bh.sendText(ctx, b, chatID, messages.NameOnCardInvalid())
			return
		}
		session.Form.NameOnCard = text
		session.State = types.StateConfirm
		bh.updateSession(session)
		bh.cancelTyping(chatID)
		bh.sendConfirmOrder(ctx, b, session)

	default:
		bh.sendText(ctx, b, chatID, messages.UseTheButtons())
	}
}

func (bh *Handlers) sendConfirmOrder(ctx context.Context, b *bot.Bot, session *types.CheckoutSession) {
	st := bh.checkout.State(session.UserID)
	total := bh.plan.OriginalPrice
	if st.SnapshotPrice != nil {
		total = *st.SnapshotPrice
	}

	keyboard := utils.BuildInlineKeyboard([]utils.Button{
		{Text: "💳 Buy Now", CallbackData: types.CallbackBuyNow},
	})
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      session.ChatID,
		Text:        messages.ConfirmOrder(maskCard(session.Form.CardNumber), total),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &keyboard,
	})
	if err != nil {
		log.Printf("Error sending order confirmation: %v", err)
	}
}

func maskCard(cardNumber string) string {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	if len(digits) < 4 {
		return cardNumber
	}
	return fmt.Sprintf("•••• %s", digits[len(digits)-4:])
}

func (bh *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (bh *Handlers) updateSession(session *types.CheckoutSession) {
	if err := bh.sessions.UpdateSession(session); err != nil {
		log.Printf("Error updating session: %v", err)
	}
}
