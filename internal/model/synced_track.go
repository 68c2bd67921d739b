// Package model содержит модели данных.
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// SyncedTrack представляет трек, добавленный ботом в целевой плейлист
type SyncedTrack struct {
	bun.BaseModel `bun:"table:playlistbot.synced_tracks"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	PlaylistID string    `bun:"playlist_id,notnull" json:"playlist_id"`
	TrackURI   string    `bun:"track_uri,notnull" json:"track_uri"`
	Artist     string    `bun:"artist,notnull" json:"artist"`
	Title      string    `bun:"title,notnull" json:"title"`
	AddedAt    time.Time `bun:"added_at,notnull,default:current_timestamp" json:"added_at"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// SyncedTrackRepository определяет интерфейс для работы с историей добавлений
type SyncedTrackRepository interface {
	Create(ctx context.Context, track *SyncedTrack) error
	GetRecent(ctx context.Context, playlistID string, limit int) ([]SyncedTrack, error)
	CountByPlaylist(ctx context.Context, playlistID string) (int, error)
}
