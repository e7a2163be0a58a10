// Package oracle wraps an external UCI engine (Stockfish) as an opaque
// best-move supplier. It keeps its own mirror board, rebuilt from the
// authoritative move history before every query, and degrades to uniformly
// random legal moves whenever the engine is missing or misbehaves. Engine
// trouble is logged, never surfaced as a game-ending failure.
package oracle

import (
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"chessmancer/internal/model"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

var log = slog.Default().With("package", "oracle")

const (
	MinSkill = 1
	MaxSkill = 20

	DefaultTimeBudget = 100 * time.Millisecond
)

// Move is a candidate move in the core's (row, col) orientation.
type Move struct {
	From model.Square
	To   model.Square
}

type Oracle struct {
	mu    sync.Mutex
	eng   *uci.Engine
	skill int
	rng   *rand.Rand
}

// New starts the engine at path (or "stockfish" from PATH when empty) with
// the given skill level, clamped to [1,20]. A missing or broken engine is
// not an error: the oracle stays usable and serves random legal moves.
func New(path string, skill int) *Oracle {
	if skill < MinSkill {
		skill = MinSkill
	}
	if skill > MaxSkill {
		skill = MaxSkill
	}
	o := &Oracle{
		skill: skill,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if path == "" {
		path = "stockfish"
	}
	eng, err := uci.New(path)
	if err != nil {
		log.Warn("engine unavailable, falling back to random moves", "path", path, "error", err)
		return o
	}
	if err := eng.Run(
		uci.CmdUCI,
		uci.CmdUCINewGame,
		uci.CmdSetOption{Name: "Skill Level", Value: strconv.Itoa(skill)},
		uci.CmdIsReady,
	); err != nil {
		log.Warn("engine handshake failed, falling back to random moves", "path", path, "error", err)
		eng.Close()
		return o
	}
	log.Info("engine ready", "path", path, "skill", skill)
	o.eng = eng
	return o
}

// Available reports whether a live engine process backs this oracle.
func (o *Oracle) Available() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.eng != nil
}

// BestMove returns the engine's move for the position reached by history,
// or a uniformly random legal move when the engine cannot answer. ok is
// false only when the position has no legal moves at all (game over).
func (o *Oracle) BestMove(history []model.SimpleMove, budget time.Duration) (Move, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	game := o.mirror(history)
	if game.Outcome() != chess.NoOutcome {
		return Move{}, false
	}

	if o.eng != nil {
		err := o.eng.Run(
			uci.CmdPosition{Position: game.Position()},
			uci.CmdGo{MoveTime: budget},
		)
		if err != nil {
			log.Warn("engine search failed, substituting random move", "error", err)
		} else if best := o.eng.SearchResults().BestMove; best != nil {
			return Move{From: fromChessSquare(best.S1()), To: fromChessSquare(best.S2())}, true
		} else {
			log.Warn("engine returned no best move, substituting random move")
		}
	}

	return o.randomMove(game)
}

func (o *Oracle) randomMove(game *chess.Game) (Move, bool) {
	moves := game.ValidMoves()
	if len(moves) == 0 {
		return Move{}, false
	}
	mv := moves[o.rng.Intn(len(moves))]
	return Move{From: fromChessSquare(mv.S1()), To: fromChessSquare(mv.S2())}, true
}

// Verdict reports the terminal state of the position reached by history, as
// judged by the mirror board. The core's own checkmate/stalemate detection
// is authoritative; the session layer consults this only for the draw
// conditions the core delegates (insufficient material, fifty-move,
// repetition).
func (o *Oracle) Verdict(history []model.SimpleMove) (model.Status, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	game := o.mirror(history)
	switch game.Outcome() {
	case chess.WhiteWon:
		return model.Status{Outcome: model.OutcomeCheckmate, Winner: model.White}, true
	case chess.BlackWon:
		return model.Status{Outcome: model.OutcomeCheckmate, Winner: model.Black}, true
	case chess.Draw:
		return drawStatus(game.Method()), true
	}

	// Fifty-move and threefold are claimable rather than automatic on the
	// mirror; this game declares them as soon as they are available.
	for _, method := range game.EligibleDraws() {
		switch method {
		case chess.FiftyMoveRule:
			return model.Status{Outcome: model.OutcomeDrawFiftyMove}, true
		case chess.ThreefoldRepetition:
			return model.Status{Outcome: model.OutcomeDrawRepetition}, true
		}
	}
	return model.Status{Outcome: model.OutcomeInProgress}, false
}

func drawStatus(method chess.Method) model.Status {
	switch method {
	case chess.Stalemate:
		return model.Status{Outcome: model.OutcomeStalemate}
	case chess.InsufficientMaterial:
		return model.Status{Outcome: model.OutcomeDrawInsufficient}
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
		return model.Status{Outcome: model.OutcomeDrawFiftyMove}
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		return model.Status{Outcome: model.OutcomeDrawRepetition}
	}
	return model.Status{Outcome: model.OutcomeDrawRepetition}
}

// mirror replays the core's history onto a fresh chess.Game. Each entry is
// matched against the mirror's legal moves by from/to square, which resolves
// the castling and en passant encodings automatically; a promoting entry
// matches the queen promotion only, since the core always promotes to queen.
// Entries with no match are skipped and logged; the history is never
// repaired by guessing a different move.
func (o *Oracle) mirror(history []model.SimpleMove) *chess.Game {
	game := chess.NewGame()
	for i, mv := range history {
		from := toChessSquare(mv.From)
		to := toChessSquare(mv.To)
		var match *chess.Move
		for _, candidate := range game.ValidMoves() {
			if candidate.S1() != from || candidate.S2() != to {
				continue
			}
			if promo := candidate.Promo(); promo != chess.NoPieceType && promo != chess.Queen {
				continue
			}
			match = candidate
			break
		}
		if match == nil {
			log.Warn("malformed replay: skipping illegal history entry",
				"index", i, "from", mv.From.Notation(), "to", mv.To.Notation())
			continue
		}
		if err := game.Move(match); err != nil {
			log.Warn("malformed replay: mirror rejected matched move",
				"index", i, "error", err)
		}
	}
	return game
}

// Close shuts the engine process down. Safe on an engine-less oracle.
func (o *Oracle) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.eng != nil {
		o.eng.Close()
		o.eng = nil
	}
}

// The core numbers rows from black's back rank down; standard squares
// number ranks from white's side up. row = 7 - rank, col = file.
func toChessSquare(sq model.Square) chess.Square {
	return chess.Square((7-sq.Row)*8 + sq.Col)
}

func fromChessSquare(sq chess.Square) model.Square {
	return model.Square{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
}
