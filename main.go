package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/heymomentum/momentum-checkout-bot/internal/checkout"
	"github.com/heymomentum/momentum-checkout-bot/internal/config"
	"github.com/heymomentum/momentum-checkout-bot/internal/handlers"
	"github.com/heymomentum/momentum-checkout-bot/internal/middleware"
	"github.com/heymomentum/momentum-checkout-bot/internal/payment"
	"github.com/heymomentum/momentum-checkout-bot/internal/pricing"
	"github.com/heymomentum/momentum-checkout-bot/internal/promo"
	"github.com/heymomentum/momentum-checkout-bot/store"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.Load()

	rdb, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	sessionStore := store.NewRedisSessionStore(rdb, cfg.SessionTTLHours)
	profileStore := store.NewRedisProfileStore(rdb, 0)

	pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()

	middlewares := middleware.NewMessageAnalyzer(sessionStore, pgStore)

	botToken := cfg.BotToken
	if botToken == "" {
		botToken = "YOUR_BOT_TOKEN_FROM_BOTFATHER"
		log.Println("Warning: Using default bot token. Set BOT_TOKEN environment variable.")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		botToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	plan := pricing.Plan{
		Name:            cfg.PlanName,
		OriginalPrice:   cfg.OriginalPrice,
		DiscountedPrice: cfg.DiscountedPrice,
		DaysInPlan:      cfg.DaysInPlan,
		Currency:        cfg.Currency,
	}

	checkoutStore := checkout.NewStore(profileStore, cfg.PromoWindow)
	gateway := payment.NewMockGateway(cfg.PaymentDelay, cfg.PaymentSuccessRate)
	submitter := checkout.NewSubmitter(checkoutStore, gateway, pgStore, plan)

	var h *handlers.Handlers

	countdown := promo.NewCountdown(promo.CountdownConfig{
		Window: cfg.PromoWindow,
		OnTick: func(userID int64, remaining time.Duration) {
			h.OnPromoTick(userID, remaining)
		},
		OnExpire: func(userID int64) {
			h.OnPromoExpire(userID)
		},
	})
	defer countdown.StopAll()

	h = handlers.NewHandlers(sessionStore, checkoutStore, submitter, countdown, plan, pgStore, b)

	handlerChain := middlewares.CheckSessionMiddleware(
		middlewares.AnalyzeMessageMiddleware(
			h.MainHandler,
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)

	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, handlerChain)

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)
}
