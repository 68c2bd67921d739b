// Package spotify реализует интерфейсы для работы с Spotify Web API.
package spotify

import "context"

// Interface определяет интерфейс для работы с каталогом Spotify
type Interface interface {
	// GetTrack получает трек по ID
	GetTrack(ctx context.Context, trackID string) (*Track, error)

	// GetAlbum получает альбом со списком треков по ID
	GetAlbum(ctx context.Context, albumID string) (*Album, error)

	// GetPlaylistInfo получает информацию о плейлисте
	GetPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error)

	// ListPlaylistItems получает страницу элементов плейлиста со смещением
	ListPlaylistItems(ctx context.Context, playlistID string, offset, limit int) (*PlaylistItemsPage, error)

	// AddTracksToPlaylist добавляет треки в плейлист, не более 100 URI за вызов
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error
}
