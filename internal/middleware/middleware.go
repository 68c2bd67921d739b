// Package middleware содержит middleware компоненты.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"playlistbot/internal/config"
)

// Middleware представляет middleware компонент
type Middleware struct {
	rateLimiter *RateLimiter
	config      *config.Config
	logger      *zap.Logger
}

// New создает новый middleware
func New(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		rateLimiter: NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger),
		config:      cfg,
		logger:      logger,
	}
}

// Process проверяет, нужно ли обрабатывать обновление: чат должен быть
// в списке разрешенных, пользователь не должен превышать лимит запросов
func (m *Middleware) Process(update tgbotapi.Update) bool {
	if update.Message == nil {
		return false
	}

	chatID := update.Message.Chat.ID
	if !m.config.IsChatAllowed(chatID) {
		m.logger.Debug("Ignoring message from disallowed chat", zap.Int64("chat_id", chatID))
		return false
	}

	if update.Message.From != nil {
		userID := update.Message.From.ID
		if !m.rateLimiter.Allow(userID) {
			m.logger.Warn("Rate limit exceeded", zap.Int64("user_id", userID))
			return false
		}
	}

	return true
}

// Recover оборачивает обработчик восстановлением после паники
func (m *Middleware) Recover(handler func(tgbotapi.Update)) func(tgbotapi.Update) {
	return func(update tgbotapi.Update) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("Panic in update handler",
					zap.Any("panic", r),
					zap.Int("update_id", update.UpdateID))
			}
		}()

		handler(update)
	}
}

// Cleanup удаляет накопленные лимитеры неактивных пользователей
func (m *Middleware) Cleanup() {
	m.rateLimiter.Cleanup()
}
