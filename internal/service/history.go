package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"playlistbot/internal/external/spotify"
	"playlistbot/internal/model"
)

// HistoryService ведет историю треков, добавленных ботом. История
// пишется после успешного добавления и никогда не участвует в проверке
// состава плейлиста.
type HistoryService struct {
	repo   model.SyncedTrackRepository
	logger *zap.Logger
}

// NewHistoryService создает новый сервис истории добавлений
func NewHistoryService(repo model.SyncedTrackRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// RecordAdded записывает добавленные треки. Ошибки записи логируются
// и не возвращаются: история не должна влиять на синхронизацию.
func (s *HistoryService) RecordAdded(ctx context.Context, playlistID string, tracks []*spotify.Track) {
	now := time.Now()

	for _, track := range tracks {
		record := &model.SyncedTrack{
			PlaylistID: playlistID,
			TrackURI:   track.URI,
			Artist:     track.Artist,
			Title:      track.Name,
			AddedAt:    now,
		}

		if err := s.repo.Create(ctx, record); err != nil {
			s.logger.Error("Failed to record synced track",
				zap.String("playlist_id", playlistID),
				zap.String("track_uri", track.URI),
				zap.Error(err))
		}
	}
}

// Recent возвращает последние добавленные треки
func (s *HistoryService) Recent(ctx context.Context, playlistID string, limit int) ([]model.SyncedTrack, error) {
	return s.repo.GetRecent(ctx, playlistID, limit)
}

// Count возвращает общее число добавленных ботом треков
func (s *HistoryService) Count(ctx context.Context, playlistID string) (int, error) {
	return s.repo.CountByPlaylist(ctx, playlistID)
}
