package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-telegram/bot"

	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/internal/pricing"
	"github.com/heymomentum/momentum-checkout-bot/internal/promo"
	"github.com/heymomentum/momentum-checkout-bot/internal/utils"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

// promoTarget is the chat message a running countdown edits each second.
type promoTarget struct {
	chatID    int64
	messageID int
	promoCode string
	quote     pricing.Quote
	lastClock string
}

// enterProduct shows the plan card. A promo code is minted the first time the
// user reaches this step with a name on file; revisits reuse the stored code
// and its original creation time, so the discount window never restarts.
func (bh *Handlers) enterProduct(ctx context.Context, b *bot.Bot, session *types.CheckoutSession) {
	userID := session.UserID

	st := bh.checkout.State(userID)
	if st.PromoCode == "" && st.Name != "" {
		now := time.Now()
		bh.checkout.SetPromoCode(userID, promo.GenerateCode(st.Name, now), now)
		st = bh.checkout.State(userID)
	}

	quote := bh.plan.Quote(st.IsDiscountActive)
	clock := ""
	if st.IsDiscountActive && st.PromoCodeCreatedAt != nil {
		clock = promo.FormatClock(bh.countdown.Remaining(*st.PromoCodeCreatedAt))
	}

	keyboard := utils.BuildInlineKeyboard([]utils.Button{
		{Text: "🚀 Get My Plan", CallbackData: types.CallbackGetPlan},
	})
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: session.ChatID,
		Text: messages.ProductCard(bh.plan.Name, quote.DisplayPrice, quote.OriginalPrice,
			quote.DailyPrice, st.IsDiscountActive, st.PromoCode, clock),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &keyboard,
	})
	if err != nil {
		log.Printf("Error sending product card: %v", err)
		return
	}

	session.State = types.StateProduct
	session.PromoMessageID = msg.ID
	session.ClearForm()
	bh.updateSession(session)

	if st.IsDiscountActive && st.PromoCodeCreatedAt != nil {
		bh.setPromoTarget(userID, &promoTarget{
			chatID:    session.ChatID,
			messageID: msg.ID,
			promoCode: st.PromoCode,
			quote:     quote,
			lastClock: clock,
		})
		bh.countdown.Start(userID, *st.PromoCodeCreatedAt)
	}
}

func (bh *Handlers) setPromoTarget(userID int64, target *promoTarget) {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	bh.promoTargets[userID] = target
}

func (bh *Handlers) getPromoTarget(userID int64) *promoTarget {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	return bh.promoTargets[userID]
}

func (bh *Handlers) clearPromoTarget(userID int64) {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	delete(bh.promoTargets, userID)
}

// OnPromoTick refreshes the countdown line on the plan card. Edits are
// skipped while the rendered clock has not changed.
func (bh *Handlers) OnPromoTick(userID int64, remaining time.Duration) {
	target := bh.getPromoTarget(userID)
	if target == nil || remaining <= 0 {
		return
	}
	clock := promo.FormatClock(remaining)

	bh.mu.Lock()
	if target.lastClock == clock {
		bh.mu.Unlock()
		return
	}
	target.lastClock = clock
	bh.mu.Unlock()

	keyboard := utils.BuildInlineKeyboard([]utils.Button{
		{Text: "🚀 Get My Plan", CallbackData: types.CallbackGetPlan},
	})
	_, err := bh.botClient.EditMessageText(context.Background(), &bot.EditMessageTextParams{
		ChatID:    target.chatID,
		MessageID: target.messageID,
		Text: messages.ProductCard(bh.plan.Name, target.quote.DisplayPrice, target.quote.OriginalPrice,
			target.quote.DailyPrice, true, target.promoCode, clock),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &keyboard,
	})
	if err != nil {
		log.Printf("Error updating countdown for user %d: %v", userID, err)
	}
}

// OnPromoExpire swaps the plan card to full price the moment the window
// closes.
func (bh *Handlers) OnPromoExpire(userID int64) {
	bh.checkout.CheckPromoCodeValidity(userID)

	target := bh.getPromoTarget(userID)
	bh.clearPromoTarget(userID)
	if target == nil {
		return
	}

	quote := bh.plan.Quote(false)
	keyboard := utils.BuildInlineKeyboard([]utils.Button{
		{Text: "🚀 Get My Plan", CallbackData: types.CallbackGetPlan},
	})
	_, err := bh.botClient.EditMessageText(context.Background(), &bot.EditMessageTextParams{
		ChatID:    target.chatID,
		MessageID: target.messageID,
		Text: messages.ProductCard(bh.plan.Name, quote.DisplayPrice, quote.OriginalPrice,
			quote.DailyPrice, false, "", ""),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &keyboard,
	})
	if err != nil {
		log.Printf("Error updating expired plan card for user %d: %v", userID, err)
	}
}
