// Package service содержит бизнес-логику приложения.
package service

import (
	"errors"
	"fmt"

	"playlistbot/internal/external/spotify"
)

// PartialAddError возвращается когда часть чанков была добавлена успешно,
// а очередной чанк завершился ошибкой. Added отражает только полностью
// успешные чанки.
type PartialAddError struct {
	Added int
	Err   error
}

func (e *PartialAddError) Error() string {
	return fmt.Sprintf("partial add failure after %d tracks: %v", e.Added, e.Err)
}

func (e *PartialAddError) Unwrap() error {
	return e.Err
}

// IsNotFound сообщает, что ресурс отсутствует в каталоге
func IsNotFound(err error) bool {
	return errors.Is(err, spotify.ErrNotFound)
}

// IsRetryable сообщает, имеет ли смысл повторить операцию позже
func IsRetryable(err error) bool {
	var apiErr *spotify.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}
