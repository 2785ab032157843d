package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/contextkeys"
	"github.com/heymomentum/momentum-checkout-bot/internal/messages"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

type Middlewares struct {
	sessions types.SessionStore
	users    types.UserStore
}

func NewMessageAnalyzer(sessions types.SessionStore, users types.UserStore) *Middlewares {
	return &Middlewares{
		sessions: sessions,
		users:    users,
	}
}

// CheckSessionMiddleware makes sure every update runs with a funnel session.
// New users start at the email step.
func (m *Middlewares) CheckSessionMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		var (
			userID int64
			chatID int64
			from   *models.User
		)

		switch {
		case update.Message != nil && update.Message.From != nil:
			userID = update.Message.From.ID
			chatID = update.Message.Chat.ID
			from = update.Message.From
		case update.CallbackQuery != nil:
			userID = update.CallbackQuery.From.ID
			chatID = getChatIDFromMaybeInaccessibleMessage(update.CallbackQuery.Message)
			from = &update.CallbackQuery.From
			if chatID == 0 {
				return
			}
		default:
			return
		}

		if userID == 0 || chatID == 0 {
			return
		}

		m.upsertUser(from, chatID)

		session, err := m.sessions.GetUserSession(userID)

		if err != nil {
			session = &types.CheckoutSession{
				UserID: userID,
				ChatID: chatID,
				State:  types.StateEmail,
			}
			err = m.sessions.CreateSession(session)
			if err != nil {
				log.Printf("Error creating session: %v", err)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID:    chatID,
					Text:      messages.ErrorDefault(),
					ParseMode: messages.ParseModeHTML,
				})
				return
			}
		}

		ctx = contextkeys.WithSessionID(ctx, session.ID)
		next(ctx, b, update)
	}
}

func (m *Middlewares) upsertUser(from *models.User, chatID int64) {
	if m.users == nil || from == nil {
		return
	}
	err := m.users.UpsertUser(types.User{
		UserID:    from.ID,
		ChatID:    chatID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
	if err != nil {
		log.Printf("Error upserting user %d: %v", from.ID, err)
	}
}

func getChatIDFromMaybeInaccessibleMessage(m models.MaybeInaccessibleMessage) int64 {

	if m.Message != nil {
		return m.Message.Chat.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID
	}
	return 0
}

func (ma *Middlewares) AnalyzeMessageMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		var newCtx context.Context

		if update.CallbackQuery != nil && update.CallbackQuery.Data != "" {
			newCtx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeClickButton)
			newCtx = contextkeys.WithCallbackData(newCtx, update.CallbackQuery.Data)
			next(newCtx, b, update)
			return
		}

		if update.Message != nil && update.Message.Text != "" && strings.HasPrefix(update.Message.Text, "/") {
			newCtx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeCommand)
		} else if update.Message != nil && update.Message.Text != "" {
			newCtx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeText)
		} else {
			newCtx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeUnknown)
		}

		next(newCtx, b, update)
	}
}
