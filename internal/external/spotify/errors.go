package spotify

import (
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// ErrNotFound возвращается когда запрошенный ресурс не существует в каталоге
var ErrNotFound = errors.New("spotify: resource not found")

// APIError представляет ошибку Spotify Web API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: API error (status %d): %s", e.Status, e.Message)
}

// Retryable сообщает, имеет ли смысл повторить запрос позже
func (e *APIError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// wrapAPIError преобразует ошибку zmb3 клиента в ошибку пакета.
// 404 становится ErrNotFound, остальные ошибки API — *APIError.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var spotifyErr spotify.Error
	if errors.As(err, &spotifyErr) {
		if spotifyErr.Status == 404 {
			return fmt.Errorf("%w: %s", ErrNotFound, spotifyErr.Message)
		}
		return &APIError{Status: spotifyErr.Status, Message: spotifyErr.Message}
	}

	return err
}
