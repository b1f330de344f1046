package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory storage: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestPreferences(t *testing.T) {
	s := openTestStorage(t)

	t.Run("DefaultsWhenMissing", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatal(err)
		}
		if prefs.Bot != "minimax" || prefs.Depth != 2 {
			t.Errorf("Unexpected defaults: %+v", prefs)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := &Preferences{Bot: "random", Depth: 3, StartFEN: "8/8/8/8/8/8/8/K6k w - - 0 1"}
		if err := s.SavePreferences(want); err != nil {
			t.Fatal(err)
		}
		got, err := s.LoadPreferences()
		if err != nil {
			t.Fatal(err)
		}
		if got.Bot != want.Bot || got.Depth != want.Depth || got.StartFEN != want.StartFEN {
			t.Errorf("Got %+v, want %+v", got, want)
		}
		if got.LastPlayed.IsZero() {
			t.Error("LastPlayed not set on save")
		}
	})
}

func TestFirstLaunch(t *testing.T) {
	s := openTestStorage(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch() = %v, %v on a new database", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ = s.IsFirstLaunch(); first {
		t.Error("IsFirstLaunch() still true after marking")
	}
}

func TestGames(t *testing.T) {
	s := openTestStorage(t)

	g1 := &GameRecord{StartFEN: "startpos", Moves: []string{"e2e4", "e7e5"}, SAN: []string{"e4", "e5"}}
	if err := s.SaveGame(g1); err != nil {
		t.Fatal(err)
	}
	if g1.ID == 0 || g1.Result != ResultOngoing {
		t.Fatalf("Unexpected saved record %+v", g1)
	}

	g2 := &GameRecord{StartFEN: "startpos", Moves: []string{"f2f3", "e7e5", "g2g4", "d8h4"}, Result: ResultBlackWins, Bot: "random"}
	if err := s.SaveGame(g2); err != nil {
		t.Fatal(err)
	}
	if g2.ID <= g1.ID {
		t.Errorf("IDs not increasing: %d then %d", g1.ID, g2.ID)
	}
	if g2.Finished.IsZero() {
		t.Error("Finished not set for a decided game")
	}

	loaded, err := s.LoadGame(g1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Moves) != 2 || loaded.SAN[0] != "e4" {
		t.Errorf("Loaded %+v", loaded)
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].ID != g1.ID || games[1].ID != g2.ID {
		t.Fatalf("ListGames returned %d games", len(games))
	}

	if _, err := s.LoadGame(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame(999) error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteGame(g1.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame(g1.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deleted game still present: %v", err)
	}
	if err := s.DeleteGame(g1.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second delete error = %v, want ErrNotFound", err)
	}
}

func TestStatsCountEachGameOnce(t *testing.T) {
	s := openTestStorage(t)

	g := &GameRecord{StartFEN: "startpos", Moves: []string{"e2e4"}, Bot: "minimax"}
	if err := s.SaveGame(g); err != nil {
		t.Fatal(err)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 {
		t.Errorf("Ongoing game counted: %+v", stats)
	}

	g.Moves = append(g.Moves, "e7e5", "d1h5")
	g.Result = ResultWhiteWins
	if err := s.SaveGame(g); err != nil {
		t.Fatal(err)
	}
	// Saving again must not count twice.
	if err := s.SaveGame(g); err != nil {
		t.Fatal(err)
	}

	draw := &GameRecord{StartFEN: "startpos", Moves: []string{"e2e4"}, Result: ResultDraw}
	if err := s.SaveGame(draw); err != nil {
		t.Fatal(err)
	}

	stats, err = s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 2 || stats.WhiteWins != 1 || stats.Draws != 1 || stats.BlackWins != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.GamesByBot["minimax"] != 1 {
		t.Errorf("GamesByBot = %v", stats.GamesByBot)
	}
	if got := stats.AveragePlies(); got != 2 {
		t.Errorf("AveragePlies() = %v, want 2", got)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SavePreferences(&Preferences{Bot: "none", Depth: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer s.Close()

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Bot != "none" || prefs.Depth != 1 {
		t.Errorf("Preferences not persisted: %+v", prefs)
	}
}

func TestDataPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dbDir)
	}

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir || filepath.Base(dataDir) != appName {
		t.Errorf("database dir %s is not inside data dir %s", dbDir, dataDir)
	}
	if runtime.GOOS == "linux" && dataDir != filepath.Join(xdg, appName) {
		t.Errorf("data dir = %s, want it under XDG_DATA_HOME", dataDir)
	}

	t.Logf("Database directory: %s", dbDir)
}
