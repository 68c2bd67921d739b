package telegram

import (
	"errors"
	"fmt"

	"playlistbot/internal/service"
)

// renderOutcome превращает результат обработки ссылки в текст ответа.
// Второе значение сообщает, является ли ответ сообщением об ошибке.
// Пустой текст означает, что отвечать нечего.
func renderOutcome(o service.SyncOutcome) (string, bool) {
	if o.Err != nil {
		return renderError(o), true
	}

	switch {
	case o.Total == 0:
		return fmt.Sprintf("No tracks found in %s.", o.Label), false
	case o.Added == 0:
		if o.Kind == service.KindTrack {
			return fmt.Sprintf("Track %s already in the playlist!", o.Label), false
		}
		return fmt.Sprintf("All %d tracks from %s already in the playlist!", o.Total, o.Label), false
	case o.Kind == service.KindTrack:
		return fmt.Sprintf("Added track %s to the playlist!", o.Label), false
	default:
		return fmt.Sprintf("Added %d of %d tracks from %s to the playlist!", o.Added, o.Total, o.Label), false
	}
}

// renderError превращает ошибку синхронизации в текст ответа
func renderError(o service.SyncOutcome) string {
	if service.IsNotFound(o.Err) {
		return fmt.Sprintf("Couldn't find that %s on Spotify.", o.Kind)
	}

	var partialErr *service.PartialAddError
	if errors.As(o.Err, &partialErr) {
		return fmt.Sprintf("Added %d of %d tracks from %s, then Spotify returned an error. The rest were not added.",
			partialErr.Added, o.Total, o.Label)
	}

	if service.IsRetryable(o.Err) {
		return "Spotify is having trouble right now, please try again later."
	}

	return fmt.Sprintf("Error adding %s: %v", o.Kind, o.Err)
}
