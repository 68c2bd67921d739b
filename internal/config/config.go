// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Telegram
	BotToken       string
	AllowedChatIDs []int64

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	PlaylistID          string

	// Ответы бота
	EnableConfirmationMessages bool
	EnableErrorMessages        bool

	// Database (опционально, история добавлений)
	DatabaseURL string

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Планировщик обновления кэша плейлиста
	MembershipRefreshCron string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку если файл не найден
	}

	allowedChatIDs, err := parseChatIDs(getEnv("ALLOWED_CHAT_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ALLOWED_CHAT_IDS: %w", err)
	}

	config := &Config{
		BotToken:                   getEnv("BOT_TOKEN", ""),
		AllowedChatIDs:             allowedChatIDs,
		SpotifyClientID:            getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret:        getEnv("SPOTIFY_CLIENT_SECRET", ""),
		PlaylistID:                 getEnv("SPOTIFY_PLAYLIST_ID", ""),
		EnableConfirmationMessages: getEnvBool("ENABLE_CONFIRMATION_MESSAGES", false),
		EnableErrorMessages:        getEnvBool("ENABLE_ERROR_MESSAGES", true),
		DatabaseURL:                getEnv("DB_DSN", ""),
		HealthPort:                 getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled:         getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		RateLimitPerMinute:         getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitBurst:             getEnvInt("RATE_LIMIT_BURST", 5),
		MembershipRefreshCron:      getEnv("MEMBERSHIP_REFRESH_CRON", "@every 6h"),
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}

	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}

	if c.PlaylistID == "" {
		return fmt.Errorf("SPOTIFY_PLAYLIST_ID is required")
	}

	if len(c.AllowedChatIDs) == 0 {
		return fmt.Errorf("ALLOWED_CHAT_IDS is required")
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// IsChatAllowed проверяет, разрешен ли чат
func (c *Config) IsChatAllowed(chatID int64) bool {
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// parseChatIDs разбирает список ID чатов из строки вида "123,-456"
func parseChatIDs(value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
