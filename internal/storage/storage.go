package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "seq/game"
	gamePrefix     = "game/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Game results in PGN notation.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

// Preferences stores user settings
type Preferences struct {
	Bot        string    `json:"bot"`
	Depth      int       `json:"depth"`
	StartFEN   string    `json:"start_fen,omitempty"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Bot:   "minimax",
		Depth: 2,
	}
}

// GameRecord is one game as played from StartFEN.
type GameRecord struct {
	ID       uint64    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	SAN      []string  `json:"san"`
	Result   string    `json:"result"`
	Bot      string    `json:"bot,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitempty"`
}

// Done reports whether the game has a final result.
func (g *GameRecord) Done() bool {
	return g.Result != "" && g.Result != ResultOngoing
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	GamesByBot  map[string]int `json:"games_by_bot"`
	TotalPlies  int            `json:"total_plies"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		GamesByBot: make(map[string]int),
	}
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	return open(opts)
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
	}
	errs = append(errs, s.db.Close())
	s.db = nil
	return errors.Join(errs...)
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the JSON value under key into v, returning ErrNotFound if
// the key is absent.
func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.get(keyPreferences, prefs); err != nil && !errors.Is(err, ErrNotFound) {
		return prefs, err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if err := s.get(keyStats, stats); err != nil && !errors.Is(err, ErrNotFound) {
		return stats, err
	}
	if stats.GamesByBot == nil {
		stats.GamesByBot = make(map[string]int)
	}
	return stats, nil
}

func gameKey(id uint64) string {
	return fmt.Sprintf("%s%020d", gamePrefix, id)
}

// SaveGame stores a game record. A record without an ID is assigned the
// next one. Saving a finished game that was not finished before updates
// the statistics.
func (s *Storage) SaveGame(g *GameRecord) error {
	if g.ID == 0 {
		id, err := s.seq.Next()
		if err != nil {
			return fmt.Errorf("next game id: %w", err)
		}
		g.ID = id + 1
	}
	if g.Result == "" {
		g.Result = ResultOngoing
	}

	wasDone := false
	var prev GameRecord
	switch err := s.get(gameKey(g.ID), &prev); {
	case err == nil:
		wasDone = prev.Done()
	case !errors.Is(err, ErrNotFound):
		return err
	}

	if g.Done() && g.Finished.IsZero() {
		g.Finished = time.Now()
	}
	if err := s.put(gameKey(g.ID), g); err != nil {
		return err
	}

	if g.Done() && !wasDone {
		return s.recordResult(g)
	}
	return nil
}

// recordResult folds a finished game into the statistics.
func (s *Storage) recordResult(g *GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += len(g.Moves)
	switch g.Result {
	case ResultWhiteWins:
		stats.WhiteWins++
	case ResultBlackWins:
		stats.BlackWins++
	default:
		stats.Draws++
	}
	if g.Bot != "" {
		stats.GamesByBot[g.Bot]++
	}

	return s.SaveStats(stats)
}

// LoadGame returns the game with the given ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	var g GameRecord
	if err := s.get(gameKey(id), &g); err != nil {
		return nil, fmt.Errorf("game %d: %w", id, err)
	}
	return &g, nil
}

// ListGames returns all stored games in ID order.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var g GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &g)
			})
			if err != nil {
				return err
			}
			games = append(games, &g)
		}
		return nil
	})

	return games, err
}

// DeleteGame removes a stored game. Statistics are not changed.
func (s *Storage) DeleteGame(id uint64) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gameKey(id)))
	})
}
