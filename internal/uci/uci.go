// Package uci implements a UCI-style line protocol on top of the engine,
// extended with commands for playing and storing games by hand.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hailam/chessness/internal/board"
	"github.com/hailam/chessness/internal/engine"
	"github.com/hailam/chessness/internal/storage"
)

const maxDepth = 6

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	store    *storage.Storage
	out      io.Writer
	seed     int64
	startFEN string

	// position is the live game; start is the position it was set up from.
	position *board.Position
	start    *board.Position
	game     *storage.GameRecord

	// CPU profiling
	profileFile *os.File
}

// New creates a new UCI protocol handler writing to stdout. store may be
// nil, in which case save and games report that storage is unavailable.
func New(eng *engine.Engine, store *storage.Storage) *UCI {
	u := &UCI{
		engine:   eng,
		store:    store,
		out:      os.Stdout,
		seed:     time.Now().UnixNano(),
		startFEN: board.StartFEN,
	}
	u.reset(board.NewPosition())
	return u
}

// SetOutput redirects protocol output.
func (u *UCI) SetOutput(w io.Writer) {
	u.out = w
}

// SetStartFEN sets the position ucinewgame starts from.
func (u *UCI) SetStartFEN(fen string) error {
	pos, err := parsePosition(fen)
	if err != nil {
		return err
	}
	u.startFEN = fen
	u.reset(pos)
	return nil
}

// Position returns the live position.
func (u *UCI) Position() *board.Position {
	return u.position
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// reset starts a new game record from pos.
func (u *UCI) reset(pos *board.Position) {
	u.position = pos
	u.start = pos.Copy()
	u.game = &storage.GameRecord{
		StartFEN: pos.ToFEN(),
		Bot:      u.engine.Bot().Name(),
		Started:  time.Now(),
	}
}

// Run reads commands from r until quit or end of input.
func (u *UCI) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if u.Execute(scanner.Text()) {
			break
		}
	}
	u.stopProfile()
	return scanner.Err()
}

// Execute runs one command line and reports whether it was quit.
func (u *UCI) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.printf("readyok\n")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "move":
		u.handleMove(args)
	case "undo":
		u.handleUndo()
	case "legal":
		u.handleLegal()
	case "setoption":
		u.handleSetOption(args)
	case "save":
		u.handleSave()
	case "games":
		u.handleGames()
	case "quit":
		return true
	// Debug commands
	case "d":
		u.handleDisplay()
	case "perft":
		u.handlePerft(args)
	default:
		u.printf("info string Unknown command: %s\n", cmd)
	}
	return false
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.printf("id name Chessness\n")
	u.printf("id author Chessness Team\n")
	u.printf("\n")
	u.printf("option name Bot type combo default %s", u.engine.Bot().Name())
	for _, name := range engine.BotNames {
		u.printf(" var %s", name)
	}
	u.printf("\n")
	u.printf("option name Depth type spin default %d min 1 max %d\n", u.engine.Depth(), maxDepth)
	u.printf("option name CPUProfile type string default <empty>\n")
	u.printf("uciok\n")
}

// handleNewGame resets the game to the configured start position.
func (u *UCI) handleNewGame() {
	pos, err := parsePosition(u.startFEN)
	if err != nil {
		pos = board.NewPosition()
	}
	u.reset(pos)
}

// parsePosition accepts a standard FEN or, failing that, the short legacy
// form of at most three fields.
func parsePosition(fen string) (*board.Position, error) {
	pos, err := board.ParseFEN(fen)
	if err == nil {
		return pos, nil
	}
	if n := len(strings.Fields(fen)); n > 0 && n < 4 {
		return board.LoadPosition(fen), nil
	}
	return nil, err
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	fenEnd, moveStart := len(args), len(args)
	if i := slices.Index(args, "moves"); i >= 0 {
		fenEnd, moveStart = i, i+1
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := parsePosition(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}

	u.reset(pos)

	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr, u.position)
		if err != nil {
			u.printf("info string Invalid move: %s\n", moveStr)
			return
		}
		u.position.MakeMove(m)
	}
}

// handleGo searches the live position and prints the best move.
// "go depth N" runs a search of that depth; a bare "go" asks the current
// bot, falling back to a search when the bot declines.
func (u *UCI) handleGo(args []string) {
	depth := 0
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			depth, _ = strconv.Atoi(args[i+1])
			i++
		}
	}

	u.engine.OnInfo = u.sendInfo
	defer func() { u.engine.OnInfo = nil }()

	var best board.Move
	if depth > 0 {
		best = u.engine.SearchWithLimits(u.position, engine.SearchLimits{Depth: min(depth, maxDepth)})
	} else {
		best = u.engine.BotMove(u.position)
		if best.IsNull() {
			best = u.engine.Search(u.position)
		}
	}

	u.printf("bestmove %s\n", best)
}

func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateScore-engine.MaxPly {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+engine.MaxPly {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleMove plays a move given in coordinate or SAN form.
func (u *UCI) handleMove(args []string) {
	if len(args) == 0 {
		u.printf("info string Usage: move <e2e4|Nf3>\n")
		return
	}

	m, err := board.ParseMove(args[0], u.position)
	if err != nil {
		m, err = board.ParseSAN(args[0], u.position)
	}
	if err != nil {
		u.printf("info string Illegal move: %s\n", args[0])
		return
	}

	san := m.ToSAN(u.position)
	u.position.MakeMove(m)
	u.printf("info string played %s\n", san)

	if outcome := u.position.Outcome(); outcome != board.Ongoing {
		u.printf("info string %s, %s\n", outcome, resultOf(u.position))
	}
}

// handleUndo takes back the last move.
func (u *UCI) handleUndo() {
	last := u.position.LastMove()
	if last.IsNull() {
		u.printf("info string Nothing to undo\n")
		return
	}
	u.position.UnmakeMove(last)
	u.printf("info string undid %s\n", last)
}

// handleLegal lists the legal moves in coordinate and SAN form.
func (u *UCI) handleLegal() {
	moves := u.position.GenerateLegalMoves()
	coords := make([]string, len(moves))
	sans := make([]string, len(moves))
	for i, m := range moves {
		coords[i] = m.String()
		sans[i] = m.ToSAN(u.position)
	}
	u.printf("legal %s\n", strings.Join(coords, " "))
	u.printf("san %s\n", strings.Join(sans, " "))
	if u.position.Checkmate {
		u.printf("info string %s\n", u.position.Outcome())
	}
}

// handleDisplay prints the board, its FEN and the game state.
func (u *UCI) handleDisplay() {
	snap := u.position.Snapshot()
	pieces := 0
	for _, piece := range snap.Squares {
		if piece != board.Empty {
			pieces++
		}
	}

	u.printf("%s", u.position.String())
	u.printf("Side to move: %s, pieces: %d\n", snap.SideToMove, pieces)
	u.printf("Fen: %s\n", u.position.ToFEN())
	u.printf("Eval: %s\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
	u.printf("Outcome: %s\n", u.position.Outcome())
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "bot":
		bot, err := engine.NewBot(strings.ToLower(value), u.engine.Depth(), u.seed)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.engine.SetBot(bot)
		u.game.Bot = bot.Name()
		u.savePreferences()
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > maxDepth {
			u.printf("info string Depth must be between 1 and %d\n", maxDepth)
			return
		}
		u.engine.SetDepth(depth)
		u.savePreferences()
	case "cpuprofile":
		u.stopProfile()
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.printf("info string Failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.printf("info string Failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
			u.printf("info string CPU profiling to %s\n", value)
		}
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}

func (u *UCI) stopProfile() {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		u.printf("info string CPU profile saved\n")
	}
}

func (u *UCI) savePreferences() {
	if u.store == nil {
		return
	}
	prefs, err := u.store.LoadPreferences()
	if err != nil {
		u.printf("info string Failed to load preferences: %v\n", err)
		return
	}
	prefs.Bot = u.engine.Bot().Name()
	prefs.Depth = u.engine.Depth()
	if err := u.store.SavePreferences(prefs); err != nil {
		u.printf("info string Failed to save preferences: %v\n", err)
	}
}

// resultOf returns the game result for pos in PGN notation.
func resultOf(pos *board.Position) string {
	switch pos.Outcome() {
	case board.Checkmated:
		if pos.SideToMove == board.White {
			return storage.ResultBlackWins
		}
		return storage.ResultWhiteWins
	case board.Stalemated:
		return storage.ResultDraw
	}
	return storage.ResultOngoing
}

// handleSave stores the current game, updating the record on later saves.
func (u *UCI) handleSave() {
	if u.store == nil {
		u.printf("info string Storage unavailable\n")
		return
	}

	moves := u.position.Moves()
	u.game.Moves = make([]string, len(moves))
	for i, m := range moves {
		u.game.Moves[i] = m.String()
	}
	u.game.SAN = board.MovesToSAN(u.start, moves)
	u.game.Result = resultOf(u.position)

	if err := u.store.SaveGame(u.game); err != nil {
		u.printf("info string Failed to save game: %v\n", err)
		return
	}
	u.printf("info string saved game %d (%d plies, %s)\n", u.game.ID, len(moves), u.game.Result)
}

// handleGames lists stored games and the aggregate statistics.
func (u *UCI) handleGames() {
	if u.store == nil {
		u.printf("info string Storage unavailable\n")
		return
	}

	games, err := u.store.ListGames()
	if err != nil {
		u.printf("info string Failed to list games: %v\n", err)
		return
	}
	for _, g := range games {
		u.printf("game %d %s %s\n", g.ID, g.Result, strings.Join(g.SAN, " "))
	}

	stats, err := u.store.LoadStats()
	if err != nil {
		u.printf("info string Failed to load stats: %v\n", err)
		return
	}
	u.printf("stats played %d white %d black %d draws %d\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws)
}

// handlePerft runs a perft test, printing the node count below each root move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	divide := u.position.Divide(depth)
	elapsed := time.Since(start)

	var nodes uint64
	for _, m := range u.position.GenerateLegalMoves() {
		if n, ok := divide[m]; ok {
			u.printf("%s: %d\n", m, n)
			nodes += n
		}
	}

	u.printf("\nNodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
