package handlers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/checkout"
	"github.com/heymomentum/momentum-checkout-bot/internal/contextkeys"
	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/internal/pricing"
	"github.com/heymomentum/momentum-checkout-bot/internal/promo"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

// typingDelay debounces the "typing…" chat action so a burst of quick inputs
// produces a single indicator instead of one per message.
const typingDelay = 100 * time.Millisecond

type Handlers struct {
	sessions  types.SessionStore
	checkout  *checkout.Store
	submitter *checkout.Submitter
	countdown *promo.Countdown
	plan      pricing.Plan
	purchases types.PurchaseStore // optional
	botClient *bot.Bot

	mu           sync.Mutex
	promoTargets map[int64]*promoTarget
	typingTimers map[int64]*time.Timer
}

func NewHandlers(sessions types.SessionStore, checkoutStore *checkout.Store, submitter *checkout.Submitter, countdown *promo.Countdown, plan pricing.Plan, purchases types.PurchaseStore, botClient *bot.Bot) *Handlers {
	return &Handlers{
		sessions:     sessions,
		checkout:     checkoutStore,
		submitter:    submitter,
		countdown:    countdown,
		plan:         plan,
		purchases:    purchases,
		botClient:    botClient,
		promoTargets: make(map[int64]*promoTarget),
		typingTimers: make(map[int64]*time.Timer),
	}
}

func (bh *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := bh.getChatIDFromUpdate(update)
	messageType, _ := contextkeys.GetMessageType(ctx)

	sessionID, ok := contextkeys.GetSessionID(ctx)
	if !ok {
		log.Printf("Error: SessionID not found in context")
		if chatID != 0 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      messages.ErrorDefault(),
				ParseMode: messages.ParseModeHTML,
			})
		}
		return
	}

	session, err := bh.sessions.GetSession(sessionID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		if chatID != 0 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      messages.ErrorDefault(),
				ParseMode: messages.ParseModeHTML,
			})
		}
		return
	}

	switch messageType {
	case contextkeys.MessageTypeCommand:
		bh.HandleCommand(ctx, b, update, session)
	case contextkeys.MessageTypeText:
		bh.HandleText(ctx, b, update, session)
	case contextkeys.MessageTypeClickButton:
		bh.HandleClickButton(ctx, b, update, session)
	default:
		if chatID != 0 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      messages.ErrorUnsupportedMessageType(),
				ParseMode: messages.ParseModeHTML,
			})
		}
	}
}

func (bh *Handlers) getChatIDFromUpdate(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message.Message != nil {
			return update.CallbackQuery.Message.Message.Chat.ID
		}
		if update.CallbackQuery.Message.InaccessibleMessage != nil {
			return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
		}
	}
	return 0
}

func (bh *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) error {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

// deferTyping schedules a "typing…" indicator after a short quiet period.
// A new input within the window cancels the previous one.
func (bh *Handlers) deferTyping(chatID int64) {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	if t, ok := bh.typingTimers[chatID]; ok {
		t.Stop()
	}
	bh.typingTimers[chatID] = time.AfterFunc(typingDelay, func() {
		bh.mu.Lock()
		delete(bh.typingTimers, chatID)
		bh.mu.Unlock()
		_, _ = bh.botClient.SendChatAction(context.Background(), &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
	})
}

func (bh *Handlers) cancelTyping(chatID int64) {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	if t, ok := bh.typingTimers[chatID]; ok {
		t.Stop()
		delete(bh.typingTimers, chatID)
	}
}

func digitsLen(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
