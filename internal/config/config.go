package config

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

type Config struct {
	Addr        string
	DatabaseURL string
	CORSOrigins string

	JWTSecret        string
	JWTTTL           time.Duration
	SessionStorePath string
	ResetTokenTTL    time.Duration

	TaxRate             decimal.Decimal
	CheckoutTimeout     time.Duration
	PaymentDelay        time.Duration
	PaymentDeclineAbove decimal.Decimal

	AIAPIKey   string
	AIEndpoint string
	AIModel    string
	AITimeout  time.Duration

	LogMode string
	LogFile string

	AllowResetProducts bool

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() Config {
	return Config{
		Addr:        getenv("STOREFRONT_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigins: getenv("CORS_ORIGINS", "*"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           duration("JWT_TTL", 72*time.Hour),
		SessionStorePath: getenv("SESSION_STORE_PATH", "data/sessions.db"),
		ResetTokenTTL:    duration("RESET_TOKEN_TTL", time.Hour),

		TaxRate:             amount("TAX_RATE", decimal.RequireFromString("0.08")),
		CheckoutTimeout:     duration("CHECKOUT_TIMEOUT", 10*time.Second),
		PaymentDelay:        duration("PAYMENT_DELAY", 2*time.Second),
		PaymentDeclineAbove: amount("PAYMENT_DECLINE_ABOVE", decimal.Zero),

		AIAPIKey:   os.Getenv("AI_API_KEY"),
		AIEndpoint: getenv("AI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		AIModel:    getenv("AI_MODEL", "gemini-pro"),
		AITimeout:  duration("AI_TIMEOUT", 15*time.Second),

		LogMode: getenv("LOG_MODE", "development"),
		LogFile: os.Getenv("LOG_FILE"),

		AllowResetProducts: cast.ToBool(os.Getenv("ALLOW_RESET_PRODUCTS")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getenv("ADMIN_NAME", "Administrator"),
	}
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func amount(key string, fallback decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return fallback
	}
	return d
}
