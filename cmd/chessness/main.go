package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hailam/chessness/internal/engine"
	"github.com/hailam/chessness/internal/storage"
	"github.com/hailam/chessness/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir, or $CHESSNESS_DB)")
	noDB       = flag.Bool("nodb", false, "run without persistent storage")
	depth      = flag.Int("depth", 0, "search depth in plies (overrides saved preference)")
	botName    = flag.String("bot", "", "bot to play with: none, random or minimax (overrides saved preference)")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store := openStorage()
	if store != nil {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		p, err := store.LoadPreferences()
		if err != nil {
			log.Printf("Warning: preferences not loaded: %v (using defaults)", err)
		} else {
			prefs = p
		}
	}
	if *depth > 0 {
		prefs.Depth = *depth
	}
	if *botName != "" {
		prefs.Bot = *botName
	}

	eng := engine.NewEngine(prefs.Depth)
	eng.SetLogger(log.New(os.Stderr, "engine: ", log.LstdFlags))

	bot, err := engine.NewBot(prefs.Bot, prefs.Depth, time.Now().UnixNano())
	if err != nil {
		log.Fatal(err)
	}
	eng.SetBot(bot)

	protocol := uci.New(eng, store)
	if prefs.StartFEN != "" {
		if err := protocol.SetStartFEN(prefs.StartFEN); err != nil {
			log.Printf("Warning: saved start position ignored: %v", err)
		}
	}

	if err := protocol.Run(os.Stdin); err != nil {
		log.Printf("input error: %v", err)
	}
}

// openStorage opens the preference and game database, returning nil when
// storage is disabled or cannot be opened.
func openStorage() *storage.Storage {
	if *noDB {
		return nil
	}

	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSNESS_DB")
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir != "" {
		store, err = storage.Open(dir)
	} else {
		store, err = storage.OpenDefault()
	}
	if err != nil {
		log.Printf("Warning: storage not available: %v", err)
		return nil
	}
	log.Printf("Database opened")
	return store
}
