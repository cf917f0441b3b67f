package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	// StateStoreDriver selects where pending authorization transactions
	// live: "memory" for a single instance, "redis" when scaled out.
	StateStoreDriver string

	JWTSecret string

	GoogleClientID string

	TwitterClientID     string
	TwitterClientSecret string
	TwitterRedirectURL  string

	FrontendURL string
}

func Load() Config {
	// Best-effort: a missing .env is fine, real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		AppPort: getenv("APP_PORT", "5000"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StateStoreDriver: getenv("STATE_STORE_DRIVER", "memory"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		TwitterClientID:     os.Getenv("TWITTER_CLIENT_ID"),
		TwitterClientSecret: os.Getenv("TWITTER_CLIENT_SECRET"),
		TwitterRedirectURL:  os.Getenv("TWITTER_REDIRECT_URI"),

		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	if cfg.TwitterRedirectURL == "" && cfg.FrontendURL != "" {
		cfg.TwitterRedirectURL = cfg.FrontendURL + "/auth/twitter/callback"
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
