// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// maxAddBatchSize — ограничение Spotify API на число элементов в одном запросе добавления
const maxAddBatchSize = 100

// tokenTransport добавляет токен к каждому запросу
type tokenTransport struct {
	base      http.RoundTripper
	token     string
	tokenType string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", t.tokenType+" "+t.token)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

// Client представляет клиент для работы с Spotify API
type Client struct {
	clientID     string
	clientSecret string
	logger       *zap.Logger
}

// NewClient создает новый Spotify клиент с использованием Client Credentials Flow
func NewClient(clientID, clientSecret string, logger *zap.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	logger.Info("Spotify client created successfully with client credentials flow")

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}, nil
}

// createSpotifyClient создает новый Spotify клиент для каждого запроса
func (c *Client) createSpotifyClient(ctx context.Context) (*spotify.Client, error) {
	httpClient := &http.Client{}

	// Запрашиваем токен согласно документации Spotify
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", "https://accounts.spotify.com/api/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return nil, fmt.Errorf("no access token received")
	}

	// HTTP клиент с токеном в заголовках
	tokenClient := &http.Client{
		Transport: &tokenTransport{
			base:      http.DefaultTransport,
			token:     tokenResponse.AccessToken,
			tokenType: tokenResponse.TokenType,
		},
	}

	client := spotify.New(tokenClient)

	c.logger.Debug("Created new Spotify client for request")

	return client, nil
}

// GetTrack получает трек по ID
func (c *Client) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	track, err := client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		c.logger.Error("Failed to get track",
			zap.String("track_id", trackID),
			zap.Error(err))
		return nil, wrapAPIError(err)
	}

	return &Track{
		URI:    string(track.URI),
		Name:   track.Name,
		Artist: firstArtistName(track.Artists),
	}, nil
}

// GetAlbum получает альбом со списком треков по ID
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	album, err := client.GetAlbum(ctx, spotify.ID(albumID))
	if err != nil {
		c.logger.Error("Failed to get album",
			zap.String("album_id", albumID),
			zap.Error(err))
		return nil, wrapAPIError(err)
	}

	tracks := make([]*Track, 0, len(album.Tracks.Tracks))
	for _, track := range album.Tracks.Tracks {
		tracks = append(tracks, &Track{
			URI:    string(track.URI),
			Name:   track.Name,
			Artist: firstArtistName(track.Artists),
		})
	}

	c.logger.Debug("Retrieved album",
		zap.String("album_id", albumID),
		zap.String("name", album.Name),
		zap.Int("tracks", len(tracks)))

	return &Album{
		ID:     string(album.ID),
		Name:   album.Name,
		Artist: firstArtistName(album.Artists),
		Tracks: tracks,
	}, nil
}

// GetPlaylistInfo получает информацию о плейлисте
func (c *Client) GetPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	playlist, err := client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		c.logger.Error("Failed to get playlist",
			zap.String("playlist_id", playlistID),
			zap.Error(err))
		return nil, wrapAPIError(err)
	}

	return &PlaylistInfo{
		ID:         string(playlist.ID),
		Name:       playlist.Name,
		TrackCount: int(playlist.Tracks.Total),
	}, nil
}

// ListPlaylistItems получает страницу элементов плейлиста со смещением.
// Удаленные и недоступные треки остаются в Items как nil.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID string, offset, limit int) (*PlaylistItemsPage, error) {
	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	c.logger.Debug("Requesting playlist items page",
		zap.String("playlist_id", playlistID),
		zap.Int("offset", offset),
		zap.Int("limit", limit))

	items, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		c.logger.Error("Spotify API request failed",
			zap.String("playlist_id", playlistID),
			zap.Int("offset", offset),
			zap.Error(err))
		return nil, wrapAPIError(err)
	}

	page := &PlaylistItemsPage{
		Items: make([]*Track, 0, len(items.Items)),
		Total: int(items.Total),
	}

	for _, item := range items.Items {
		// Эпизоды подкастов и удаленные треки приходят без трека
		if item.Track.Track == nil {
			page.Items = append(page.Items, nil)
			continue
		}

		page.Items = append(page.Items, &Track{
			URI:    string(item.Track.Track.URI),
			Name:   item.Track.Track.Name,
			Artist: firstArtistName(item.Track.Track.Artists),
		})
	}

	return page, nil
}

// AddTracksToPlaylist добавляет треки в плейлист, не более 100 URI за вызов
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > maxAddBatchSize {
		return fmt.Errorf("too many tracks in one request: %d > %d", len(uris), maxAddBatchSize)
	}

	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create spotify client: %w", err)
	}

	trackIDs := make([]spotify.ID, 0, len(uris))
	for _, uri := range uris {
		trackIDs = append(trackIDs, trackIDFromURI(uri))
	}

	if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), trackIDs...); err != nil {
		c.logger.Error("Failed to add tracks to playlist",
			zap.String("playlist_id", playlistID),
			zap.Int("count", len(uris)),
			zap.Error(err))
		return wrapAPIError(err)
	}

	c.logger.Info("Added tracks to playlist",
		zap.String("playlist_id", playlistID),
		zap.Int("count", len(uris)))

	return nil
}

// trackIDFromURI извлекает ID трека из URI вида spotify:track:ID
func trackIDFromURI(uri string) spotify.ID {
	if idx := strings.LastIndex(uri, ":"); idx >= 0 {
		return spotify.ID(uri[idx+1:])
	}
	return spotify.ID(uri)
}

// firstArtistName возвращает имя первого артиста
func firstArtistName(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return "Unknown Artist"
	}
	return artists[0].Name
}
