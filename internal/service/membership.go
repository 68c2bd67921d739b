package service

import (
	"context"
	"fmt"

	"playlistbot/internal/external/spotify"

	"go.uber.org/zap"
)

// membershipPageSize — размер страницы при обходе плейлиста,
// максимум для Spotify API
const membershipPageSize = 100

// MembershipCache хранит множество URI треков целевого плейлиста.
// Кэш живет в двух состояниях: Unloaded и Loaded. Первое чтение после
// создания или инвалидации выполняет полный постраничный обход плейлиста,
// Invalidate — единственный переход обратно в Unloaded.
type MembershipCache struct {
	playlistID string
	client     spotify.Interface
	logger     *zap.Logger

	loaded bool
	uris   map[string]struct{}
}

// NewMembershipCache создает новый кэш состава плейлиста
func NewMembershipCache(client spotify.Interface, playlistID string, logger *zap.Logger) *MembershipCache {
	return &MembershipCache{
		playlistID: playlistID,
		client:     client,
		logger:     logger,
	}
}

// GetMembership возвращает множество URI треков плейлиста. В состоянии
// Unloaded выполняет полный обход плейлиста; при ошибке обхода кэш
// остается Unloaded и частичный результат не сохраняется.
// Возвращенное множество принадлежит кэшу, изменять его нельзя.
func (c *MembershipCache) GetMembership(ctx context.Context) (map[string]struct{}, error) {
	if c.loaded {
		return c.uris, nil
	}

	tracks, err := listAllPlaylistTracks(ctx, c.client, c.playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist membership: %w", err)
	}

	uris := make(map[string]struct{}, len(tracks))
	for _, track := range tracks {
		uris[track.URI] = struct{}{}
	}

	c.uris = uris
	c.loaded = true

	c.logger.Info("Loaded playlist membership",
		zap.String("playlist_id", c.playlistID),
		zap.Int("tracks", len(uris)))

	return c.uris, nil
}

// Invalidate сбрасывает кэш, следующее чтение выполнит полный обход
func (c *MembershipCache) Invalidate() {
	c.loaded = false
	c.uris = nil

	c.logger.Debug("Invalidated playlist membership cache",
		zap.String("playlist_id", c.playlistID))
}

// Loaded сообщает, загружен ли кэш
func (c *MembershipCache) Loaded() bool {
	return c.loaded
}

// listAllPlaylistTracks выполняет полный постраничный обход плейлиста.
// Удаленные и недоступные треки (nil-элементы страницы) пропускаются.
func listAllPlaylistTracks(ctx context.Context, client spotify.Interface, playlistID string) ([]*spotify.Track, error) {
	var tracks []*spotify.Track
	offset := 0

	for {
		page, err := client.ListPlaylistItems(ctx, playlistID, offset, membershipPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist items at offset %d: %w", offset, err)
		}

		for _, item := range page.Items {
			if item == nil {
				continue
			}
			tracks = append(tracks, item)
		}

		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.Total {
			break
		}
	}

	return tracks, nil
}
