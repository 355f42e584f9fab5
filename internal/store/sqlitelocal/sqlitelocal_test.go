package sqlitelocal

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGame(name string) *models.GameState {
	return &models.GameState{
		GameName: name,
		Players: []models.Player{
			{
				ID:           "p1",
				Name:         "Player 1",
				JerseyNumber: "1",
				Position:     "PG",
				Stats:        models.Stat{TwoPtMade: 3, TwoPtAttempt: 5, Rebounds: 2},
				OnCourt:      true,
			},
			{
				ID:           "p2",
				Name:         "Player 2",
				JerseyNumber: "2",
				Position:     "C",
				Stats:        models.Stat{ThreePtMade: 1, ThreePtAttempt: 4, Blocks: 2},
			},
		},
		TeamStats: models.Stat{
			TwoPtMade: 3, TwoPtAttempt: 5, Rebounds: 2,
			ThreePtMade: 1, ThreePtAttempt: 4, Blocks: 2,
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	game := sampleGame("friday-night")

	if err := s.Save(ctx, "friday-night", game); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := s.Load(ctx, "friday-night")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(loaded, game) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded, game)
	}
}

func TestLoad_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "never-saved")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestSave_Overwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleGame("g")
	if err := s.Save(ctx, "g", first); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	second := sampleGame("g")
	second.Players[0].Stats.Rebounds = 99
	second.TeamStats.Rebounds = 99
	if err := s.Save(ctx, "g", second); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := s.Load(ctx, "g")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Players[0].Stats.Rebounds != 99 {
		t.Errorf("rebounds = %d, want the overwritten value 99", loaded.Players[0].Stats.Rebounds)
	}
}

func TestListGames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta"} {
		if err := s.Save(ctx, name, sampleGame(name)); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	names, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames returned error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Errorf("ListGames = %v, want [alpha beta]", names)
	}
}

// Game names with spaces and slashes are used verbatim as keys.
func TestSaveLoad_RawNameKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	name := "Eagles vs Hawks 3/14"

	if err := s.Save(ctx, name, sampleGame(name)); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := s.Load(ctx, name)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.GameName != name {
		t.Errorf("gameName = %q, want %q", loaded.GameName, name)
	}
}
