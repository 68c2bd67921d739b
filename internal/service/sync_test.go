package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func newTestSyncService(catalog *fakeCatalog) *SyncService {
	return NewSyncService(catalog, testPlaylistID, nil, zap.NewNop())
}

func TestSyncService_ProcessTrack_Idempotent(t *testing.T) {
	catalog := newFakeCatalog()
	track := catalog.addTrack("A")
	catalog.setPlaylist(testPlaylistID, "Target")

	syncService := newTestSyncService(catalog)

	first := syncService.ProcessTrack(context.Background(), "A")
	if first.Err != nil {
		t.Fatalf("first ProcessTrack() error = %v", first.Err)
	}
	if first.Added != 1 || first.Total != 1 {
		t.Errorf("first outcome = %+v, want Added=1 Total=1", first)
	}
	if first.Label != "Name A by Artist A" {
		t.Errorf("label = %q", first.Label)
	}

	second := syncService.ProcessTrack(context.Background(), "A")
	if second.Err != nil {
		t.Fatalf("second ProcessTrack() error = %v", second.Err)
	}
	if second.Added != 0 || second.Total != 1 {
		t.Errorf("second outcome = %+v, want Added=0 Total=1", second)
	}
	if !second.AllPresent() {
		t.Error("second outcome must report already present")
	}

	// Трек попал в плейлист ровно один раз
	uris := catalog.playlistURIs(testPlaylistID)
	count := 0
	for _, uri := range uris {
		if uri == track.URI {
			count++
		}
	}
	if count != 1 {
		t.Errorf("track occurs %d times in playlist, want 1", count)
	}
}

func TestSyncService_ProcessAlbum_EndToEnd(t *testing.T) {
	catalog := newFakeCatalog()
	trackA := catalog.addTrack("A")
	trackB := catalog.addTrack("B")
	trackC := catalog.addTrack("C")
	catalog.addAlbum("ALB", "Great Album", "Great Artist", trackA, trackB, trackC)
	catalog.setPlaylist(testPlaylistID, "Target", trackA)

	syncService := newTestSyncService(catalog)

	outcome := syncService.ProcessAlbum(context.Background(), "ALB")
	if outcome.Err != nil {
		t.Fatalf("ProcessAlbum() error = %v", outcome.Err)
	}

	if outcome.Added != 2 || outcome.Total != 3 {
		t.Errorf("outcome = %+v, want Added=2 Total=3", outcome)
	}
	if outcome.Label != "Great Album by Great Artist" {
		t.Errorf("label = %q", outcome.Label)
	}

	uris := catalog.playlistURIs(testPlaylistID)
	want := map[string]bool{trackA.URI: false, trackB.URI: false, trackC.URI: false}
	for _, uri := range uris {
		want[uri] = true
	}
	for uri, seen := range want {
		if !seen {
			t.Errorf("playlist missing %s", uri)
		}
	}
	if len(uris) != 3 {
		t.Errorf("playlist has %d tracks, want 3", len(uris))
	}
}

func TestSyncService_ProcessPlaylist(t *testing.T) {
	catalog := newFakeCatalog()
	trackA := catalog.addTrack("A")
	trackB := catalog.addTrack("B")
	catalog.setPlaylist(testPlaylistID, "Target", trackA)
	// Исходный плейлист содержит nil-элемент, он не считается кандидатом
	catalog.setPlaylist("source", "Road Trip", trackA, nil, trackB)

	syncService := newTestSyncService(catalog)

	outcome := syncService.ProcessPlaylist(context.Background(), "source")
	if outcome.Err != nil {
		t.Fatalf("ProcessPlaylist() error = %v", outcome.Err)
	}

	if outcome.Label != "Road Trip" {
		t.Errorf("label = %q, want Road Trip", outcome.Label)
	}
	if outcome.Total != 2 {
		t.Errorf("Total = %d, want 2 (nil entries are not candidates)", outcome.Total)
	}
	if outcome.Added != 1 {
		t.Errorf("Added = %d, want 1", outcome.Added)
	}
}

func TestSyncService_ProcessMessage_ErrorIsolation(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addTrack("GOOD")
	catalog.setPlaylist(testPlaylistID, "Target")

	syncService := newTestSyncService(catalog)

	text := "https://open.spotify.com/track/MISSING then https://open.spotify.com/track/GOOD"
	outcomes := syncService.ProcessMessage(context.Background(), text)

	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}

	if outcomes[0].Err == nil || !IsNotFound(outcomes[0].Err) {
		t.Errorf("first outcome error = %v, want not found", outcomes[0].Err)
	}

	// Ошибка первой ссылки не прерывает обработку второй
	if outcomes[1].Err != nil {
		t.Fatalf("second outcome error = %v", outcomes[1].Err)
	}
	if outcomes[1].Added != 1 {
		t.Errorf("second outcome Added = %d, want 1", outcomes[1].Added)
	}
}

func TestSyncService_ProcessMessage_SequentialDuplicates(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addTrack("DUP")
	catalog.setPlaylist(testPlaylistID, "Target")

	syncService := newTestSyncService(catalog)

	// Один и тот же трек дважды в одном сообщении: первая ссылка
	// добавляет, вторая видит уже обновленное состояние
	text := "https://open.spotify.com/track/DUP https://open.spotify.com/track/DUP"
	outcomes := syncService.ProcessMessage(context.Background(), text)

	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if outcomes[0].Added != 1 {
		t.Errorf("first Added = %d, want 1", outcomes[0].Added)
	}
	if outcomes[1].Added != 0 || !outcomes[1].AllPresent() {
		t.Errorf("second outcome = %+v, want already present", outcomes[1])
	}
	if len(catalog.playlistURIs(testPlaylistID)) != 1 {
		t.Error("playlist must contain the track exactly once")
	}
}

func TestSyncService_MonotonicOutcomes(t *testing.T) {
	catalog := newFakeCatalog()
	trackA := catalog.addTrack("A")
	trackB := catalog.addTrack("B")
	catalog.addAlbum("ALB", "Album", "Artist", trackA, trackB)
	catalog.setPlaylist(testPlaylistID, "Target")
	catalog.setPlaylist("source", "Source", trackA, trackB)

	syncService := newTestSyncService(catalog)
	ctx := context.Background()

	outcomes := []SyncOutcome{
		syncService.ProcessTrack(ctx, "A"),
		syncService.ProcessAlbum(ctx, "ALB"),
		syncService.ProcessPlaylist(ctx, "source"),
		syncService.ProcessTrack(ctx, "A"),
	}

	for i, outcome := range outcomes {
		if outcome.Added > outcome.Total {
			t.Errorf("outcome %d: Added=%d > Total=%d", i, outcome.Added, outcome.Total)
		}
	}
}

func TestSyncService_ConcurrentMessages(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.setPlaylist(testPlaylistID, "Target")

	const workers = 20
	ids := make([]string, 0, workers)
	for i := 0; i < workers; i++ {
		id := trackID(i)
		catalog.addTrack(id)
		ids = append(ids, id)
	}

	syncService := newTestSyncService(catalog)

	var wg sync.WaitGroup
	outcomes := make([]SyncOutcome, workers)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcomes[i] = syncService.ProcessTrack(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	totalAdded := 0
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			t.Fatalf("outcome %d error = %v", i, outcome.Err)
		}
		totalAdded += outcome.Added
	}
	if totalAdded != workers {
		t.Errorf("total added = %d, want %d", totalAdded, workers)
	}

	// Каждый трек попал в плейлист ровно один раз
	uris := catalog.playlistURIs(testPlaylistID)
	seen := make(map[string]int)
	for _, uri := range uris {
		seen[uri]++
	}
	if len(seen) != workers {
		t.Errorf("distinct tracks = %d, want %d", len(seen), workers)
	}
	for uri, count := range seen {
		if count != 1 {
			t.Errorf("track %s occurs %d times", uri, count)
		}
	}
}

func TestSyncService_RefreshMembership(t *testing.T) {
	catalog := newFakeCatalog()
	trackA := catalog.addTrack("A")
	trackB := catalog.addTrack("B")
	catalog.setPlaylist(testPlaylistID, "Target", trackA)

	syncService := newTestSyncService(catalog)

	// Прогреваем кэш
	if outcome := syncService.ProcessTrack(context.Background(), "A"); outcome.Err != nil {
		t.Fatalf("ProcessTrack() error = %v", outcome.Err)
	}

	// Правка плейлиста напрямую в Spotify, мимо бота
	catalog.mu.Lock()
	catalog.playlists[testPlaylistID].items = append(catalog.playlists[testPlaylistID].items, trackB)
	catalog.mu.Unlock()

	if err := syncService.RefreshMembership(context.Background()); err != nil {
		t.Fatalf("RefreshMembership() error = %v", err)
	}

	// После обновления трек B считается присутствующим
	outcome := syncService.ProcessTrack(context.Background(), "B")
	if outcome.Err != nil {
		t.Fatalf("ProcessTrack() error = %v", outcome.Err)
	}
	if outcome.Added != 0 || !outcome.AllPresent() {
		t.Errorf("outcome = %+v, want already present after refresh", outcome)
	}
}
