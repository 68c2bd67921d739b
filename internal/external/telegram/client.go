// Package telegram содержит интеграцию с Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"playlistbot/internal/config"
	"playlistbot/internal/external/spotify"
	"playlistbot/internal/middleware"
	"playlistbot/internal/service"
)

// syncTimeout ограничивает обработку одного сообщения. Таймаут
// намеренно большой: начатую синхронизацию доводим до конца, частично
// добавленный батч не откатывается.
const syncTimeout = 10 * time.Minute

// Client представляет клиент Telegram Bot API
type Client struct {
	bot        *tgbotapi.BotAPI
	config     *config.Config
	logger     *zap.Logger
	services   *service.Services
	spotify    spotify.Interface
	middleware *middleware.Middleware
	wg         sync.WaitGroup
}

// NewClient создает новый клиент Telegram
func NewClient(botToken string, cfg *config.Config, spotifyClient spotify.Interface, logger *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram bot created", zap.String("username", bot.Self.UserName))

	return &Client{
		bot:     bot,
		config:  cfg,
		spotify: spotifyClient,
		logger:  logger,
	}, nil
}

// Start запускает обработку обновлений
func (c *Client) Start(ctx context.Context, services *service.Services, mw *middleware.Middleware) error {
	c.services = services
	c.middleware = mw

	c.logger.Info("Bot started", zap.String("username", c.bot.Self.UserName))

	// Удаляем webhook если есть
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		c.logger.Error("Failed to delete webhook", zap.Error(err))
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	// Настраиваем команды бота
	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	// Настраиваем long polling
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	c.logger.Info("Starting to fetch updates")
	updatesChan := c.bot.GetUpdatesChan(u)
	if updatesChan == nil {
		return fmt.Errorf("failed to create updates channel")
	}

	reconnectDelay := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Update loop cancelled by context")
			c.waitInFlight()
			return ctx.Err()
		case update, ok := <-updatesChan:
			if !ok {
				c.logger.Warn("Update channel closed, will try to reconnect after delay")
				select {
				case <-ctx.Done():
					c.waitInFlight()
					return ctx.Err()
				case <-time.After(reconnectDelay):
					return fmt.Errorf("update channel closed, reconnecting")
				}
			}

			c.processUpdate(update)
		}
	}
}

// processUpdate обрабатывает одно обновление
func (c *Client) processUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	c.logger.Debug("Received message",
		zap.String("text", update.Message.Text),
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Int("update_id", update.UpdateID))

	if !c.middleware.Process(update) {
		return
	}

	// Вложения файлов не обрабатываем
	if update.Message.Document != nil {
		return
	}

	if update.Message.IsCommand() {
		c.middleware.Recover(c.handleCommand)(update)
		return
	}

	if update.Message.Text == "" {
		return
	}

	// Сообщения обрабатываются в отдельной горутине: синхронизация
	// может быть долгой, а очередь обновлений блокировать нельзя.
	// Порядок внутри одного сообщения остается последовательным, а
	// конкурентный доступ к плейлисту сериализует сам SyncService.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.middleware.Recover(c.handleMessage)(update)
	}()
}

// handleMessage извлекает ссылки Spotify из текста и синхронизирует плейлист
func (c *Client) handleMessage(update tgbotapi.Update) {
	// Начатую синхронизацию доводим до конца независимо от остановки
	// long polling, поэтому контекст не наследуется от Start
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	outcomes := c.services.Sync.ProcessMessage(ctx, update.Message.Text)
	if len(outcomes) == 0 {
		return
	}

	c.logger.Info("Processed message links",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Int("links", len(outcomes)))

	for _, outcome := range outcomes {
		text, isError := renderOutcome(outcome)
		if text == "" {
			continue
		}
		if isError && !c.config.EnableErrorMessages {
			continue
		}
		if !isError && !c.config.EnableConfirmationMessages {
			continue
		}

		c.reply(update.Message.Chat.ID, update.Message.MessageID, text)
	}
}

// reply отправляет ответ в чат
func (c *Client) reply(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = messageID

	if _, err := c.bot.Send(msg); err != nil {
		c.logger.Error("Failed to send reply",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// waitInFlight дожидается завершения обрабатываемых сообщений
func (c *Client) waitInFlight() {
	c.logger.Info("Waiting for in-flight syncs to complete")
	c.wg.Wait()
}

// botCommands возвращает список команд бота
func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "What this bot does"},
		{Command: "playlist", Description: "Show the target playlist"},
		{Command: "recent", Description: "Recently added tracks"},
	}
}
