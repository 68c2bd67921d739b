package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"playlistbot/internal/external/spotify"
)

// SyncOutcome описывает результат обработки одной ссылки.
// Создается один раз и не изменяется после возврата.
type SyncOutcome struct {
	Kind  LinkKind
	Label string
	Added int
	Total int
	Err   error
}

// AllPresent сообщает, что все треки ссылки уже были в плейлисте
func (o SyncOutcome) AllPresent() bool {
	return o.Err == nil && o.Added == 0 && o.Total > 0
}

// SyncService синхронизирует целевой плейлист со ссылками из сообщений.
// Последовательность чтение состава → фильтрация → добавление →
// инвалидация для целевого плейлиста сериализуется мьютексом сервиса,
// в том числе между конкурентными сообщениями. MembershipCache и
// BatchMutator сами по себе не потокобезопасны, весь доступ к ним
// идет под этим мьютексом.
type SyncService struct {
	playlistID string
	client     spotify.Interface
	classifier *LinkClassifier
	cache      *MembershipCache
	mutator    *BatchMutator
	history    *HistoryService
	logger     *zap.Logger

	// mu охватывает полную последовательность чтение-фильтрация-добавление-инвалидация
	mu sync.Mutex
}

// NewSyncService создает новый сервис синхронизации для целевого плейлиста.
// history может быть nil, тогда история добавлений не ведется.
func NewSyncService(client spotify.Interface, playlistID string, history *HistoryService, logger *zap.Logger) *SyncService {
	cache := NewMembershipCache(client, playlistID, logger)

	return &SyncService{
		playlistID: playlistID,
		client:     client,
		classifier: NewLinkClassifier(),
		cache:      cache,
		mutator:    NewBatchMutator(client, cache, playlistID, logger),
		history:    history,
		logger:     logger,
	}
}

// PlaylistID возвращает ID целевого плейлиста
func (s *SyncService) PlaylistID() string {
	return s.playlistID
}

// Classify возвращает все ссылки Spotify из текста в порядке появления
func (s *SyncService) Classify(text string) []LinkReference {
	return s.classifier.Classify(text)
}

// ProcessMessage обрабатывает все ссылки из текста сообщения
// последовательно, в порядке появления. Ошибка одной ссылки не
// прерывает обработку остальных: каждая ссылка получает свой результат.
func (s *SyncService) ProcessMessage(ctx context.Context, text string) []SyncOutcome {
	refs := s.classifier.Classify(text)
	if len(refs) == 0 {
		return nil
	}

	s.logger.Debug("Processing message links", zap.Int("links", len(refs)))

	outcomes := make([]SyncOutcome, 0, len(refs))
	for _, ref := range refs {
		var outcome SyncOutcome
		switch ref.Kind {
		case KindTrack:
			outcome = s.ProcessTrack(ctx, ref.RemoteID)
		case KindAlbum:
			outcome = s.ProcessAlbum(ctx, ref.RemoteID)
		case KindPlaylist:
			outcome = s.ProcessPlaylist(ctx, ref.RemoteID)
		default:
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// ProcessTrack добавляет трек в целевой плейлист, если его там еще нет
func (s *SyncService) ProcessTrack(ctx context.Context, trackID string) SyncOutcome {
	outcome := SyncOutcome{Kind: KindTrack}

	track, err := s.client.GetTrack(ctx, trackID)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to resolve track %s: %w", trackID, err)
		s.logger.Error("Failed to resolve track", zap.String("track_id", trackID), zap.Error(err))
		return outcome
	}

	outcome.Label = fmt.Sprintf("%s by %s", track.Name, track.Artist)
	outcome.Total = 1

	result, err := s.addCandidates(ctx, []*spotify.Track{track})
	outcome.Added = result.Added
	outcome.Err = err

	return outcome
}

// ProcessAlbum добавляет все треки альбома, отсутствующие в плейлисте
func (s *SyncService) ProcessAlbum(ctx context.Context, albumID string) SyncOutcome {
	outcome := SyncOutcome{Kind: KindAlbum}

	album, err := s.client.GetAlbum(ctx, albumID)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to resolve album %s: %w", albumID, err)
		s.logger.Error("Failed to resolve album", zap.String("album_id", albumID), zap.Error(err))
		return outcome
	}

	outcome.Label = fmt.Sprintf("%s by %s", album.Name, album.Artist)
	outcome.Total = len(album.Tracks)

	result, err := s.addCandidates(ctx, album.Tracks)
	outcome.Added = result.Added
	outcome.Err = err

	return outcome
}

// ProcessPlaylist добавляет все треки исходного плейлиста, отсутствующие
// в целевом. Исходный плейлист читается полностью за один проход и не
// кэшируется, в отличие от состава целевого плейлиста.
func (s *SyncService) ProcessPlaylist(ctx context.Context, playlistID string) SyncOutcome {
	outcome := SyncOutcome{Kind: KindPlaylist}

	info, err := s.client.GetPlaylistInfo(ctx, playlistID)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to resolve playlist %s: %w", playlistID, err)
		s.logger.Error("Failed to resolve playlist", zap.String("source_playlist_id", playlistID), zap.Error(err))
		return outcome
	}
	outcome.Label = info.Name

	tracks, err := listAllPlaylistTracks(ctx, s.client, playlistID)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to list playlist %s: %w", playlistID, err)
		s.logger.Error("Failed to list source playlist", zap.String("source_playlist_id", playlistID), zap.Error(err))
		return outcome
	}
	outcome.Total = len(tracks)

	result, err := s.addCandidates(ctx, tracks)
	outcome.Added = result.Added
	outcome.Err = err

	return outcome
}

// RefreshMembership сбрасывает кэш состава и сразу загружает свежий,
// ограничивая расхождение с правками плейлиста напрямую в Spotify
func (s *SyncService) RefreshMembership(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Invalidate()
	if _, err := s.cache.GetMembership(ctx); err != nil {
		return fmt.Errorf("failed to refresh playlist membership: %w", err)
	}

	return nil
}

// addCandidates выполняет добавление под мьютексом сервиса и записывает
// успешно добавленные треки в историю
func (s *SyncService) addCandidates(ctx context.Context, candidates []*spotify.Track) (AddResult, error) {
	uris := make([]string, 0, len(candidates))
	byURI := make(map[string]*spotify.Track, len(candidates))
	for _, track := range candidates {
		uris = append(uris, track.URI)
		byURI[track.URI] = track
	}

	s.mu.Lock()
	result, err := s.mutator.AddMissing(ctx, uris)
	s.mu.Unlock()

	if s.history != nil && len(result.AddedURIs) > 0 {
		added := make([]*spotify.Track, 0, len(result.AddedURIs))
		for _, uri := range result.AddedURIs {
			if track, ok := byURI[uri]; ok {
				added = append(added, track)
			}
		}
		// История не влияет на результат синхронизации
		s.history.RecordAdded(ctx, s.playlistID, added)
	}

	return result, err
}
