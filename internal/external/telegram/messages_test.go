package telegram

import (
	"fmt"
	"testing"

	"playlistbot/internal/external/spotify"
	"playlistbot/internal/service"
)

func TestRenderOutcome(t *testing.T) {
	tests := []struct {
		name      string
		outcome   service.SyncOutcome
		wantText  string
		wantError bool
	}{
		{
			name:     "track added",
			outcome:  service.SyncOutcome{Kind: service.KindTrack, Label: "Song by Artist", Added: 1, Total: 1},
			wantText: "Added track Song by Artist to the playlist!",
		},
		{
			name:     "track already present",
			outcome:  service.SyncOutcome{Kind: service.KindTrack, Label: "Song by Artist", Added: 0, Total: 1},
			wantText: "Track Song by Artist already in the playlist!",
		},
		{
			name:     "album partially added",
			outcome:  service.SyncOutcome{Kind: service.KindAlbum, Label: "Album by Artist", Added: 2, Total: 3},
			wantText: "Added 2 of 3 tracks from Album by Artist to the playlist!",
		},
		{
			name:     "playlist all present",
			outcome:  service.SyncOutcome{Kind: service.KindPlaylist, Label: "Road Trip", Added: 0, Total: 5},
			wantText: "All 5 tracks from Road Trip already in the playlist!",
		},
		{
			name:     "empty album",
			outcome:  service.SyncOutcome{Kind: service.KindAlbum, Label: "Empty by Artist", Added: 0, Total: 0},
			wantText: "No tracks found in Empty by Artist.",
		},
		{
			name:      "not found",
			outcome:   service.SyncOutcome{Kind: service.KindTrack, Err: fmt.Errorf("resolve: %w", spotify.ErrNotFound)},
			wantText:  "Couldn't find that track on Spotify.",
			wantError: true,
		},
		{
			name: "partial batch failure",
			outcome: service.SyncOutcome{
				Kind:  service.KindPlaylist,
				Label: "Big List",
				Added: 100,
				Total: 250,
				Err:   &service.PartialAddError{Added: 100, Err: &spotify.APIError{Status: 500, Message: "oops"}},
			},
			wantText:  "Added 100 of 250 tracks from Big List, then Spotify returned an error. The rest were not added.",
			wantError: true,
		},
		{
			name:      "retryable upstream error",
			outcome:   service.SyncOutcome{Kind: service.KindTrack, Err: &spotify.APIError{Status: 429, Message: "rate limited"}},
			wantText:  "Spotify is having trouble right now, please try again later.",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := renderOutcome(tt.outcome)
			if text != tt.wantText {
				t.Errorf("renderOutcome() text = %q, want %q", text, tt.wantText)
			}
			if isError != tt.wantError {
				t.Errorf("renderOutcome() isError = %v, want %v", isError, tt.wantError)
			}
		})
	}
}
