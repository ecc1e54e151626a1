package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BotConfig holds the Telegram connection settings.
type BotConfig struct {
	Token          string
	Mode           string // "polling" or "webhook"
	WebhookURL     string
	WebhookPort    int
	WorkerPoolSize int
}

// AIConfig holds the completion endpoint settings. An empty APIKey or
// APIURL is valid: the AI client then always answers from its local
// fallback templates.
type AIConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv      string
	DatabaseURL string

	Bot BotConfig

	AdminChatID int64
	ChannelID   int64

	AI AIConfig

	// MaxPendingPerSeller caps how many listings a seller may have in
	// moderation at once. 0 disables the cap.
	MaxPendingPerSeller int
	HashtagLimit        int
}

// Load loads configuration from environment variables (optionally seeded
// from a .env file).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine in prod; anything else we want to know about.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	bindings := map[string]string{
		"app.env":          "APP_ENV",
		"database.url":     "DATABASE_URL",
		"bot.token":        "BOT_TOKEN",
		"bot.mode":         "BOT_MODE",
		"bot.webhook.url":  "WEBHOOK_URL",
		"bot.webhook.port": "WEBHOOK_PORT",
		"bot.workers":      "WORKER_POOL_SIZE",
		"admin.chat_id":    "ADMIN_CHAT_ID",
		"channel.id":       "CHANNEL_ID",
		"ai.api_url":       "AI_API_URL",
		"ai.api_key":       "AI_API_KEY",
		"ai.model":         "AI_MODEL",
		"ai.timeout":       "AI_TIMEOUT",
		"limits.pending":   "MAX_PENDING_PER_SELLER",
		"limits.hashtags":  "HASHTAG_LIMIT",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	viper.SetDefault("app.env", "dev")
	viper.SetDefault("bot.mode", "polling")
	viper.SetDefault("bot.webhook.port", 8443)
	// One worker keeps updates strictly in delivery order. Raise it only
	// if cross-chat reordering is acceptable.
	viper.SetDefault("bot.workers", 1)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("limits.pending", 3)
	viper.SetDefault("limits.hashtags", 5)

	cfg := Config{
		AppEnv:      viper.GetString("app.env"),
		DatabaseURL: viper.GetString("database.url"),
		Bot: BotConfig{
			Token:          viper.GetString("bot.token"),
			Mode:           viper.GetString("bot.mode"),
			WebhookURL:     viper.GetString("bot.webhook.url"),
			WebhookPort:    viper.GetInt("bot.webhook.port"),
			WorkerPoolSize: viper.GetInt("bot.workers"),
		},
		AdminChatID: viper.GetInt64("admin.chat_id"),
		ChannelID:   viper.GetInt64("channel.id"),
		AI: AIConfig{
			APIURL:  viper.GetString("ai.api_url"),
			APIKey:  viper.GetString("ai.api_key"),
			Model:   viper.GetString("ai.model"),
			Timeout: viper.GetDuration("ai.timeout"),
		},
		MaxPendingPerSeller: viper.GetInt("limits.pending"),
		HashtagLimit:        viper.GetInt("limits.hashtags"),
	}

	if cfg.Bot.Token == "" {
		return nil, errors.New("BOT_TOKEN is not set in environment or .env file")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set in environment or .env file")
	}
	if cfg.AdminChatID == 0 {
		return nil, errors.New("ADMIN_CHAT_ID is not set in environment or .env file")
	}
	if cfg.ChannelID == 0 {
		return nil, errors.New("CHANNEL_ID is not set in environment or .env file")
	}
	if cfg.Bot.Mode != "polling" && cfg.Bot.Mode != "webhook" {
		return nil, fmt.Errorf("BOT_MODE must be 'polling' or 'webhook', got %q", cfg.Bot.Mode)
	}
	if cfg.Bot.Mode == "webhook" && cfg.Bot.WebhookURL == "" {
		return nil, errors.New("WEBHOOK_URL is required when BOT_MODE=webhook")
	}
	if cfg.Bot.WorkerPoolSize < 1 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be at least 1, got %d", cfg.Bot.WorkerPoolSize)
	}
	if cfg.AI.Timeout <= 0 {
		return nil, fmt.Errorf("AI_TIMEOUT must be positive, got %s", cfg.AI.Timeout)
	}
	if cfg.HashtagLimit < 0 || cfg.MaxPendingPerSeller < 0 {
		return nil, errors.New("HASHTAG_LIMIT and MAX_PENDING_PER_SELLER must not be negative")
	}

	return &cfg, nil
}
