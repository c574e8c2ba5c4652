package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL  string `env:"DATABASE_URL,required"`
	SecretKey    string `env:"SECRET_KEY,required"`
	PasswordHash string `env:"PASSWORD_HASH,required"`

	// Upstream completion APIs
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL,required"`
	HuggingFaceKey string `env:"HUGGINGFACE_API_KEY,required"`
	Chat2APIURL    string `env:"CHAT2_API_URL"`

	// Pricing for the logged per-request cost estimate (USD per 1M tokens).
	PromptPricePerM     float64 `env:"PROMPT_PRICE_PER_M" envDefault:"0"`
	CompletionPricePerM float64 `env:"COMPLETION_PRICE_PER_M" envDefault:"0"`

	// Server
	Port int `env:"PORT" envDefault:"8080"`

	// Telegram ops notifications
	LogTelegramToken  string `env:"LOG_TELEGRAM_TOKEN"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// NotifierEnabled reports whether the Telegram error notifier is configured.
func (c *Config) NotifierEnabled() bool {
	return c.LogTelegramToken != "" && c.LogTelegramChatID != 0
}
