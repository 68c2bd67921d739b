package service

import "regexp"

// LinkKind определяет тип ссылки Spotify
type LinkKind string

const (
	KindTrack    LinkKind = "track"
	KindAlbum    LinkKind = "album"
	KindPlaylist LinkKind = "playlist"
)

// LinkReference представляет распознанную ссылку на ресурс Spotify
type LinkReference struct {
	Kind     LinkKind
	RemoteID string
}

// spotifyLinkRegex распознает ссылки open.spotify.com и spotify.link
// на треки, альбомы и плейлисты, с необязательными query-параметрами
var spotifyLinkRegex = regexp.MustCompile(`https?://(?:open\.spotify\.com|spotify\.link)/(track|album|playlist)/([a-zA-Z0-9]+)(?:\?[^\s]*)?`)

// LinkClassifier разбирает текст сообщения в упорядоченный список ссылок
type LinkClassifier struct{}

// NewLinkClassifier создает новый классификатор ссылок
func NewLinkClassifier() *LinkClassifier {
	return &LinkClassifier{}
}

// Classify возвращает все ссылки Spotify из текста в порядке появления.
// Текст без ссылок дает пустой результат, дубликаты не схлопываются:
// каждое вхождение обрабатывается отдельно.
func (c *LinkClassifier) Classify(text string) []LinkReference {
	matches := spotifyLinkRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]LinkReference, 0, len(matches))
	for _, match := range matches {
		refs = append(refs, LinkReference{
			Kind:     LinkKind(match[1]),
			RemoteID: match[2],
		})
	}

	return refs
}
