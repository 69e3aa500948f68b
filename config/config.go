package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                string
	Env                 string // "development" or "production"
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendURL         string
	AllowedOrigins      []string
	Currency            string // lowercase ISO 4217, e.g. "gbp"
	ShippingCountry     string // ISO 3166-1 alpha-2, e.g. "GB"
	StripeTimeoutSecs   int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "3001"),
		Env:                 getEnv("NODE_ENV", "development"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		Currency:            strings.ToLower(getEnv("CHECKOUT_CURRENCY", "gbp")),
		ShippingCountry:     getEnv("SHIPPING_COUNTRY", "GB"),
		StripeTimeoutSecs:   getEnvInt("STRIPE_TIMEOUT_SECONDS", 30),
	}

	allowedEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedEnv != "" {
		for _, o := range strings.Split(allowedEnv, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(strings.TrimSuffix(o, "/")))
		}
	} else {
		cfg.AllowedOrigins = []string{
			"http://localhost:3000",
			"https://luvioband.co.uk",
			"https://www.luvioband.co.uk",
		}
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("missing required environment variables: STRIPE_SECRET_KEY, STRIPE_WEBHOOK_SECRET")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
