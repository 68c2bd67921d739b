// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"playlistbot/internal/config"
	"playlistbot/internal/external/telegram"
	"playlistbot/internal/health"
	"playlistbot/internal/middleware"
	"playlistbot/internal/service"
	"playlistbot/internal/storage"
)

// Bot представляет основную логику бота
type Bot struct {
	config     *config.Config
	logger     *zap.Logger
	db         *storage.Postgres
	telegram   *telegram.Client
	health     *health.Server
	services   *service.Services
	middleware *middleware.Middleware
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewBot создает новый экземпляр бота
func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())

	bot := &Bot{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	logger.Info("Bot structure created successfully")
	return bot, nil
}

// NewBotWithFactory создает новый экземпляр бота через фабрику компонентов
func NewBotWithFactory(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	factory := NewComponentFactory(cfg, logger)
	return factory.CreateBot()
}

// Start запускает бота и блокируется до остановки
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	// Запускаем health check сервер
	if b.health != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := b.health.Start(); err != nil {
				if errors.Is(err, http.ErrServerClosed) {
					b.logger.Info("Health check server stopped normally")
				} else {
					b.logger.Error("Health check server failed", zap.Error(err))
				}
			}
		}()
	}

	// Запускаем периодическую очистку middleware
	if b.middleware != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					b.middleware.Cleanup()
				case <-b.ctx.Done():
					b.logger.Info("Middleware cleanup stopped by context")
					return
				}
			}
		}()
	}

	// Запускаем планировщик обновления кэша плейлиста
	if b.services.Scheduler != nil {
		if err := b.services.Scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", zap.Error(err))
		} else {
			b.logger.Info("Scheduler started successfully")
		}
	}

	b.logger.Info("Bot started successfully")

	// Цикл обработки обновлений Telegram блокирует до остановки
	err := b.telegram.Start(ctx, b.services, b.middleware)

	b.Stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("telegram client stopped: %w", err)
	}

	return nil
}

// Stop останавливает бота и дожидается завершения фоновых горутин
func (b *Bot) Stop() {
	b.logger.Info("Stopping bot")

	b.cancel()

	if b.services != nil && b.services.Scheduler != nil {
		b.services.Scheduler.Stop()
	}

	if b.health != nil {
		if err := b.health.Stop(); err != nil {
			b.logger.Error("Failed to stop health server", zap.Error(err))
		}
	}

	b.wg.Wait()

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			b.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	b.logger.Info("Bot stopped")
}
