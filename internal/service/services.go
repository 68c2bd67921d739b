// Package service содержит бизнес-логику приложения.
package service

import (
	"go.uber.org/zap"

	"playlistbot/internal/config"
	"playlistbot/internal/external/spotify"
	"playlistbot/internal/storage"
)

// Services содержит все сервисы приложения
type Services struct {
	Sync      *SyncService
	History   *HistoryService
	Scheduler *Scheduler
}

// NewServices создает все сервисы. db может быть nil, тогда история
// добавлений не ведется.
func NewServices(db *storage.Postgres, spotifyClient spotify.Interface, cfg *config.Config, logger *zap.Logger) *Services {
	var historyService *HistoryService
	if db != nil {
		historyService = NewHistoryService(db.GetSyncedTrackRepository(), logger)
	} else {
		logger.Warn("Database not configured, track history will not be recorded")
	}

	syncService := NewSyncService(spotifyClient, cfg.PlaylistID, historyService, logger)
	scheduler := NewScheduler(syncService, cfg.MembershipRefreshCron, logger)

	return &Services{
		Sync:      syncService,
		History:   historyService,
		Scheduler: scheduler,
	}
}
