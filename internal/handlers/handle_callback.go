package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/checkout"
	"github.com/heymomentum/momentum-checkout-bot/internal/contextkeys"
	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/internal/utils"
	"github.com/heymomentum/momentum-checkout-bot/internal/validate"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

func (bh *Handlers) HandleClickButton(ctx context.Context, b *bot.Bot, update *models.Update, session *types.CheckoutSession) {
	if update.CallbackQuery == nil {
		return
	}

	data, _ := contextkeys.GetCallbackData(ctx)
	if data == "" {
		data = update.CallbackQuery.Data
	}

	switch data {
	case types.CallbackGetPlan:
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		bh.startCheckout(ctx, b, session)
	case types.CallbackBuyNow, types.CallbackPayRetry:
		bh.submitPayment(ctx, b, update, session)
	case types.CallbackPayCancel:
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		bh.enterProduct(ctx, b, session)
	default:
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	}
}

// startCheckout locks the price the user saw on the plan card and moves
// into the payment form. The countdown stops here; an expiry after this
// point no longer changes what the user pays.
func (bh *Handlers) startCheckout(ctx context.Context, b *bot.Bot, session *types.CheckoutSession) {
	userID := session.UserID

	st := bh.checkout.State(userID)
	quote := bh.plan.Quote(st.IsDiscountActive)
	bh.checkout.SetCheckoutPriceSnapshot(userID, quote.DisplayPrice, st.IsDiscountActive)

	bh.countdown.Stop(userID)
	bh.clearPromoTarget(userID)

	session.State = types.StateCardNumber
	session.ClearForm()
	bh.updateSession(session)

	discountAmount := quote.OriginalPrice - quote.DisplayPrice
	text := messages.CheckoutSummary(quote.DisplayPrice, quote.OriginalPrice, discountAmount,
		st.IsDiscountActive, st.PromoCode) + "\n\n" + messages.AskCardNumber()
	bh.sendText(ctx, b, session.ChatID, text)
}

// submitPayment charges the card with whatever values the form holds right
// now. A retry therefore picks up any field the user fixed since the last
// attempt.
func (bh *Handlers) submitPayment(ctx context.Context, b *bot.Bot, update *models.Update, session *types.CheckoutSession) {
	userID := session.UserID

	if bh.submitter.IsLoading(userID) {
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "⏳")
		return
	}
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")

	if fresh, err := bh.sessions.GetSession(session.ID); err == nil {
		session = fresh
	}

	processing, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    session.ChatID,
		Text:      messages.PaymentProcessing(),
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Error sending processing message: %v", err)
		return
	}

	result, err := bh.submitter.Submit(ctx, userID, session.Form)
	if err != nil {
		bh.handleSubmitError(ctx, b, session, processing.ID, err)
		return
	}

	if result.Outcome == checkout.OutcomeDeclined {
		bh.editText(ctx, b, session.ChatID, processing.ID, messages.PaymentDeclined(), nil)
		return
	}

	st := bh.checkout.State(userID)
	session.State = types.StateThankYou
	session.ClearForm()
	bh.updateSession(session)
	bh.cancelTyping(session.ChatID)

	bh.editText(ctx, b, session.ChatID, processing.ID, messages.ThankYou(st.Name), nil)
}

func (bh *Handlers) handleSubmitError(ctx context.Context, b *bot.Bot, session *types.CheckoutSession, messageID int, err error) {
	switch {
	case errors.Is(err, validate.ErrCardExpired):
		bh.editText(ctx, b, session.ChatID, messageID, messages.ExpiryDateExpired(), nil)
	case errors.Is(err, validate.ErrIncompleteForm):
		bh.editText(ctx, b, session.ChatID, messageID, messages.FormIncomplete(), nil)
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		bh.editText(ctx, b, session.ChatID, messageID, messages.PaymentProcessing(), nil)
	default:
		log.Printf("Payment error for user %d: %v", session.UserID, err)
		keyboard := utils.BuildInlineKeyboard([]utils.Button{
			{Text: "🔄 Try Again", CallbackData: types.CallbackPayRetry},
			{Text: "Cancel", CallbackData: types.CallbackPayCancel},
		})
		bh.editText(ctx, b, session.ChatID, messageID, messages.PaymentFault(), &keyboard)
	}
}

func (bh *Handlers) editText(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil {
		log.Printf("Error editing message %d: %v", messageID, err)
	}
}
