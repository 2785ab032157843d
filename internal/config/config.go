package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything tunable about the funnel. Prices, the promo
// window and the gateway odds are injected from here so tests can vary them
// without touching globals.
type Config struct {
	BotToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	PostgresDSN string

	SessionTTLHours int

	PlanName        string
	OriginalPrice   float64
	DiscountedPrice float64
	DaysInPlan      int
	Currency        string

	PromoWindow time.Duration

	PaymentSuccessRate float64
	PaymentDelay       time.Duration
}

func Load() *Config {
	return &Config{
		BotToken: os.Getenv("BOT_TOKEN"),

		RedisAddr:     fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "checkout_bot"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),

		PlanName:        getEnv("PLAN_NAME", "Calisthenics Workout Plan"),
		OriginalPrice:   getEnvFloat("PLAN_PRICE", 50.0),
		DiscountedPrice: getEnvFloat("PLAN_PRICE_DISCOUNTED", 25.0),
		DaysInPlan:      getEnvInt("PLAN_DAYS", 28),
		Currency:        getEnv("PLAN_CURRENCY", "USD"),

		PromoWindow: time.Duration(getEnvInt("PROMO_WINDOW_SECONDS", 300)) * time.Second,

		PaymentSuccessRate: getEnvFloat("PAYMENT_SUCCESS_RATE", 0.9),
		PaymentDelay:       time.Duration(getEnvInt("PAYMENT_DELAY_MS", 1000)) * time.Millisecond,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
