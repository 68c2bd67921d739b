package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// commandTimeout ограничивает выполнение одной команды
const commandTimeout = 30 * time.Second

// recentLimit — число треков в ответе команды /recent
const recentLimit = 10

// handleCommand обрабатывает команду бота
func (c *Client) handleCommand(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	command := update.Message.Command()
	chatID := update.Message.Chat.ID

	c.logger.Info("Handling command",
		zap.String("command", command),
		zap.Int64("chat_id", chatID))

	switch command {
	case "start":
		c.handleStart(chatID)
	case "playlist":
		c.handlePlaylist(ctx, chatID)
	case "recent":
		c.handleRecent(ctx, chatID)
	}
}

// handleStart обрабатывает команду /start
func (c *Client) handleStart(chatID int64) {
	text := "Hi! I'm a bot that adds Spotify music to a playlist. " +
		"Just send Spotify track, album or playlist links in this chat, " +
		"and I'll add the missing tracks. " +
		"Confirmation and error messages depend on the bot's configuration."

	c.reply(chatID, 0, text)
}

// handlePlaylist обрабатывает команду /playlist
func (c *Client) handlePlaylist(ctx context.Context, chatID int64) {
	info, err := c.spotify.GetPlaylistInfo(ctx, c.config.PlaylistID)
	if err != nil {
		c.logger.Error("Failed to get target playlist info", zap.Error(err))
		c.reply(chatID, 0, "Couldn't fetch the playlist right now, try again later.")
		return
	}

	c.reply(chatID, 0, fmt.Sprintf("Target playlist: %s (%d tracks)\nhttps://open.spotify.com/playlist/%s",
		info.Name, info.TrackCount, info.ID))
}

// handleRecent обрабатывает команду /recent
func (c *Client) handleRecent(ctx context.Context, chatID int64) {
	if c.services.History == nil {
		c.reply(chatID, 0, "Track history is not enabled.")
		return
	}

	tracks, err := c.services.History.Recent(ctx, c.config.PlaylistID, recentLimit)
	if err != nil {
		c.logger.Error("Failed to get recent tracks", zap.Error(err))
		c.reply(chatID, 0, "Couldn't fetch recent tracks right now, try again later.")
		return
	}

	if len(tracks) == 0 {
		c.reply(chatID, 0, "No tracks have been added yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Recently added:\n")
	for _, track := range tracks {
		fmt.Fprintf(&sb, "• %s — %s\n", track.Artist, track.Title)
	}

	c.reply(chatID, 0, sb.String())
}
