package service

import (
	"context"
	"fmt"
	"sync"

	"playlistbot/internal/external/spotify"
)

// fakePlaylist изображает плейлист Spotify. nil-элементы изображают
// удаленные или недоступные треки.
type fakePlaylist struct {
	name  string
	items []*spotify.Track
}

// fakeCatalog реализует spotify.Interface в памяти
type fakeCatalog struct {
	mu        sync.Mutex
	tracks    map[string]*spotify.Track
	albums    map[string]*spotify.Album
	playlists map[string]*fakePlaylist

	listCalls int
	addCalls  [][]string

	// failListOnCall — номер вызова ListPlaylistItems (с 1), который
	// вернет ошибку; 0 отключает
	failListOnCall int
	// failAddOnCall — номер вызова AddTracksToPlaylist (с 1), который
	// вернет ошибку; 0 отключает
	failAddOnCall int
	apiErr        error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks:    make(map[string]*spotify.Track),
		albums:    make(map[string]*spotify.Album),
		playlists: make(map[string]*fakePlaylist),
		apiErr:    &spotify.APIError{Status: 500, Message: "server error"},
	}
}

// addTrack регистрирует трек в каталоге и возвращает его
func (f *fakeCatalog) addTrack(id string) *spotify.Track {
	track := &spotify.Track{
		URI:    "spotify:track:" + id,
		Name:   "Name " + id,
		Artist: "Artist " + id,
	}
	f.tracks[id] = track
	return track
}

// addAlbum регистрирует альбом с указанными треками
func (f *fakeCatalog) addAlbum(id, name, artist string, tracks ...*spotify.Track) {
	f.albums[id] = &spotify.Album{ID: id, Name: name, Artist: artist, Tracks: tracks}
}

// setPlaylist задает содержимое плейлиста
func (f *fakeCatalog) setPlaylist(id, name string, items ...*spotify.Track) {
	f.playlists[id] = &fakePlaylist{name: name, items: items}
}

// playlistURIs возвращает URI всех треков плейлиста в текущем порядке
func (f *fakeCatalog) playlistURIs(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	playlist := f.playlists[id]
	if playlist == nil {
		return nil
	}

	uris := make([]string, 0, len(playlist.items))
	for _, item := range playlist.items {
		if item == nil {
			continue
		}
		uris = append(uris, item.URI)
	}
	return uris
}

func (f *fakeCatalog) GetTrack(_ context.Context, trackID string) (*spotify.Track, error) {
	track, exists := f.tracks[trackID]
	if !exists {
		return nil, fmt.Errorf("%w: track %s", spotify.ErrNotFound, trackID)
	}
	return track, nil
}

func (f *fakeCatalog) GetAlbum(_ context.Context, albumID string) (*spotify.Album, error) {
	album, exists := f.albums[albumID]
	if !exists {
		return nil, fmt.Errorf("%w: album %s", spotify.ErrNotFound, albumID)
	}
	return album, nil
}

func (f *fakeCatalog) GetPlaylistInfo(_ context.Context, playlistID string) (*spotify.PlaylistInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	playlist, exists := f.playlists[playlistID]
	if !exists {
		return nil, fmt.Errorf("%w: playlist %s", spotify.ErrNotFound, playlistID)
	}

	return &spotify.PlaylistInfo{
		ID:         playlistID,
		Name:       playlist.name,
		TrackCount: len(playlist.items),
	}, nil
}

func (f *fakeCatalog) ListPlaylistItems(_ context.Context, playlistID string, offset, limit int) (*spotify.PlaylistItemsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.failListOnCall != 0 && f.listCalls == f.failListOnCall {
		return nil, f.apiErr
	}

	playlist, exists := f.playlists[playlistID]
	if !exists {
		return nil, fmt.Errorf("%w: playlist %s", spotify.ErrNotFound, playlistID)
	}

	end := offset + limit
	if end > len(playlist.items) {
		end = len(playlist.items)
	}
	if offset > end {
		offset = end
	}

	return &spotify.PlaylistItemsPage{
		Items: playlist.items[offset:end],
		Total: len(playlist.items),
	}, nil
}

func (f *fakeCatalog) AddTracksToPlaylist(_ context.Context, playlistID string, uris []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(uris) > 100 {
		return fmt.Errorf("too many tracks in one request: %d", len(uris))
	}

	f.addCalls = append(f.addCalls, append([]string(nil), uris...))
	if f.failAddOnCall != 0 && len(f.addCalls) == f.failAddOnCall {
		return f.apiErr
	}

	playlist, exists := f.playlists[playlistID]
	if !exists {
		return fmt.Errorf("%w: playlist %s", spotify.ErrNotFound, playlistID)
	}

	for _, uri := range uris {
		playlist.items = append(playlist.items, &spotify.Track{
			URI:    uri,
			Name:   "Name " + uri,
			Artist: "Artist " + uri,
		})
	}

	return nil
}
