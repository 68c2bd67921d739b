// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"playlistbot/internal/model"
)

// SyncedTrackRepository реализует интерфейс для работы с историей добавлений
type SyncedTrackRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSyncedTrackRepository создает новый репозиторий истории добавлений
func NewSyncedTrackRepository(db *bun.DB, logger *zap.Logger) *SyncedTrackRepository {
	return &SyncedTrackRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет запись о добавленном треке. Повторное добавление того
// же трека в тот же плейлист обновляет существующую запись.
func (r *SyncedTrackRepository) Create(ctx context.Context, track *model.SyncedTrack) error {
	_, err := r.db.NewInsert().
		Model(track).
		On("CONFLICT (playlist_id, track_uri) DO UPDATE").
		Set("artist = EXCLUDED.artist").
		Set("title = EXCLUDED.title").
		Set("added_at = EXCLUDED.added_at").
		Set("updated_at = CURRENT_TIMESTAMP").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create synced track: %w", err)
	}

	return nil
}

// GetRecent возвращает последние добавленные треки плейлиста
func (r *SyncedTrackRepository) GetRecent(ctx context.Context, playlistID string, limit int) ([]model.SyncedTrack, error) {
	var tracks []model.SyncedTrack

	err := r.db.NewSelect().
		Model(&tracks).
		Where("playlist_id = ?", playlistID).
		Order("added_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get recent synced tracks: %w", err)
	}

	return tracks, nil
}

// CountByPlaylist возвращает число добавленных треков плейлиста
func (r *SyncedTrackRepository) CountByPlaylist(ctx context.Context, playlistID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*model.SyncedTrack)(nil)).
		Where("playlist_id = ?", playlistID).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count synced tracks: %w", err)
	}

	return count, nil
}
