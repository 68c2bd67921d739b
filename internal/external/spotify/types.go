// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

// Track представляет трек Spotify
type Track struct {
	URI    string
	Name   string
	Artist string
}

// Album представляет альбом Spotify со списком треков
type Album struct {
	ID     string
	Name   string
	Artist string
	Tracks []*Track
}

// PlaylistInfo представляет информацию о плейлисте
type PlaylistInfo struct {
	ID         string
	Name       string
	TrackCount int
}

// PlaylistItemsPage представляет страницу элементов плейлиста.
// Items может содержать nil для удаленных или недоступных треков,
// вызывающая сторона обязана их пропускать.
type PlaylistItemsPage struct {
	Items []*Track
	Total int
}
