package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"playlistbot/internal/external/spotify"
)

// addChunkSize — ограничение Spotify API на размер одной операции добавления
const addChunkSize = 100

// AddResult описывает итог добавления кандидатов в плейлист
type AddResult struct {
	// Added — число треков, добавленных полностью успешными чанками
	Added int
	// Attempted — число кандидатов, отсутствовавших в плейлисте
	Attempted int
	// AddedURIs — URI добавленных треков в порядке отправки
	AddedURIs []string
}

// BatchMutator добавляет отсутствующие треки в целевой плейлист,
// разбивая их на чанки по ограничению Spotify API
type BatchMutator struct {
	playlistID string
	client     spotify.Interface
	cache      *MembershipCache
	logger     *zap.Logger
}

// NewBatchMutator создает новый мутатор плейлиста
func NewBatchMutator(client spotify.Interface, cache *MembershipCache, playlistID string, logger *zap.Logger) *BatchMutator {
	return &BatchMutator{
		playlistID: playlistID,
		client:     client,
		cache:      cache,
		logger:     logger,
	}
}

// AddMissing добавляет в плейлист кандидатов, отсутствующих в текущем
// составе. Фильтрация идет по одному снимку состава, зафиксированному на
// весь вызов: повторные URI внутри candidates не схлопываются и уходят в
// Spotify как есть. Чанки отправляются последовательно; ошибка чанка
// останавливает отправку оставшихся. Если хотя бы один чанк прошел, кэш
// инвалидируется даже при последующей ошибке, так как состав плейлиста
// уже изменился.
func (m *BatchMutator) AddMissing(ctx context.Context, candidates []string) (AddResult, error) {
	var result AddResult

	membership, err := m.cache.GetMembership(ctx)
	if err != nil {
		return result, err
	}

	missing := make([]string, 0, len(candidates))
	for _, uri := range candidates {
		if _, exists := membership[uri]; !exists {
			missing = append(missing, uri)
		}
	}
	result.Attempted = len(missing)

	if len(missing) == 0 {
		m.logger.Debug("All candidates already in playlist",
			zap.String("playlist_id", m.playlistID),
			zap.Int("candidates", len(candidates)))
		return result, nil
	}

	defer func() {
		if result.Added > 0 {
			m.cache.Invalidate()
		}
	}()

	for start := 0; start < len(missing); start += addChunkSize {
		end := start + addChunkSize
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]

		if err := m.client.AddTracksToPlaylist(ctx, m.playlistID, chunk); err != nil {
			m.logger.Error("Failed to add chunk to playlist",
				zap.String("playlist_id", m.playlistID),
				zap.Int("chunk_size", len(chunk)),
				zap.Int("added_so_far", result.Added),
				zap.Error(err))

			if result.Added > 0 {
				return result, &PartialAddError{Added: result.Added, Err: err}
			}
			return result, fmt.Errorf("failed to add tracks to playlist: %w", err)
		}

		result.Added += len(chunk)
		result.AddedURIs = append(result.AddedURIs, chunk...)
	}

	m.logger.Info("Added missing tracks to playlist",
		zap.String("playlist_id", m.playlistID),
		zap.Int("added", result.Added),
		zap.Int("candidates", len(candidates)))

	return result, nil
}
