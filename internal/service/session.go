package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chessmancer/internal/model"
	"chessmancer/internal/oracle"
	"chessmancer/internal/ws"

	"github.com/gofiber/websocket/v2"
)

var log = slog.Default().With("package", "service")

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotInGame   = errors.New("player not in this game")
)

// sessionConnections tracks the sockets observing one session.
type sessionConnections struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn // playerID -> connection
}

func newSessionConnections() *sessionConnections {
	return &sessionConnections{conns: make(map[string]*websocket.Conn)}
}

type sessionPlayer struct {
	ID    string      `json:"id"`
	Color model.Color `json:"color"`
}

// SessionState is the JSON snapshot broadcast to clients after every change.
type SessionState struct {
	Board           *model.Board          `json:"board"`
	ToMove          model.Color           `json:"toMove"`
	IsCheck         bool                  `json:"isCheck"`
	Status          model.Status          `json:"status"`
	LastMove        *model.Ply            `json:"lastMove"`
	EnPassantTarget *model.Square         `json:"enPassantTarget"`
	Warnings        []model.ReplayWarning `json:"replayWarnings,omitempty"`
	Players         struct {
		White sessionPlayer `json:"white"`
		Black sessionPlayer `json:"black"`
	} `json:"players"`
	VsOracle       bool `json:"vsOracle"`
	OracleThinking bool `json:"oracleThinking"`
}

// Session owns one game: the authoritative board, the connected players,
// and, in single-player games, the oracle that plays black. All mutation
// happens under mu; oracle searches run outside it and are re-validated on
// the way back in.
type Session struct {
	ID string

	mu          sync.Mutex
	board       *model.Board
	whiteID     string
	blackID     string
	vsOracle    bool
	oracleColor model.Color
	orc         *oracle.Oracle
	thinking    bool
	finalStatus *model.Status
	lastPly     *model.Ply
	warnings    []model.ReplayWarning

	// generation increments on every Reset; a pending oracle reply carrying
	// an older generation (or a move count that no longer matches the
	// history) is stale and discarded.
	generation int

	connections *sessionConnections

	timeBudget time.Duration
}

func NewSession(id string, orc *oracle.Oracle, vsOracle bool) *Session {
	return &Session{
		ID:          id,
		board:       model.NewBoard(),
		vsOracle:    vsOracle,
		oracleColor: model.Black,
		orc:         orc,
		connections: newSessionConnections(),
		timeBudget:  oracle.DefaultTimeBudget,
	}
}

// AddPlayer seats playerID. White is assigned first; in an oracle game the
// black seat belongs to the engine and is never handed out.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.whiteID == "" || s.whiteID == playerID {
		s.whiteID = playerID
		return model.White, nil
	}
	if !s.vsOracle && (s.blackID == "" || s.blackID == playerID) {
		s.blackID = playerID
		return model.Black, nil
	}
	return "", ErrGameFull
}

func (s *Session) GetState() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot builds the client view. Callers hold mu.
func (s *Session) snapshot() SessionState {
	state := SessionState{
		Board:           s.board,
		ToMove:          s.board.Turn,
		IsCheck:         s.board.IsKingInCheck(s.board.Turn),
		Status:          s.status(),
		LastMove:        s.lastPly,
		EnPassantTarget: s.board.LastDoubleAdvance,
		Warnings:        s.warnings,
		VsOracle:        s.vsOracle,
		OracleThinking:  s.thinking,
	}
	state.Players.White = sessionPlayer{ID: s.whiteID, Color: model.White}
	state.Players.Black = sessionPlayer{ID: s.blackID, Color: model.Black}
	if s.vsOracle {
		state.Players.Black.ID = "oracle"
	}
	return state
}

// status combines the core's verdict with any oracle draw verdict recorded
// earlier. Checkmate and stalemate from the core always win.
func (s *Session) status() model.Status {
	core := s.board.Status()
	if core.GameOver() {
		return core
	}
	if s.finalStatus != nil {
		return *s.finalStatus
	}
	return core
}

func (s *Session) playerColor(playerID string) (model.Color, bool) {
	if playerID != "" && playerID == s.whiteID {
		return model.White, true
	}
	if playerID != "" && playerID == s.blackID {
		return model.Black, true
	}
	return "", false
}

// MakeMove applies the player's move and, in an oracle game, schedules the
// engine's reply.
func (s *Session) MakeMove(playerID string, from, to model.Square) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}
	if s.status().GameOver() {
		return model.ErrGameOver
	}
	if color != s.board.Turn {
		return fmt.Errorf("%w: it is %s to move", ErrNotYourTurn, s.board.Turn)
	}

	ply, err := s.board.TryMove(from, to)
	if err != nil {
		return err
	}
	s.lastPly = &ply
	s.afterMoveLocked()

	if s.vsOracle && s.orc != nil && !s.status().GameOver() && s.board.Turn == s.oracleColor {
		s.thinking = true
		go s.oracleReply(s.generation, len(s.board.MoveHistory))
	}

	go s.broadcastState()
	return nil
}

// afterMoveLocked refreshes the oracle draw verdict after a committed move.
// Callers hold mu.
func (s *Session) afterMoveLocked() {
	s.finalStatus = nil
	if s.orc == nil {
		return
	}
	if s.board.Status().GameOver() {
		return
	}
	if verdict, over := s.orc.Verdict(s.board.MoveHistory); over {
		s.finalStatus = &verdict
		log.Info("game ended by draw rule", "game", s.ID, "outcome", verdict.Outcome)
	}
}

// oracleReply computes and applies the engine's move for the position the
// session was in when it was scheduled. The search runs without holding mu;
// the generation and move-count tags detect a board that was reset or
// otherwise advanced in the meantime, in which case the reply is dropped.
func (s *Session) oracleReply(generation, moveCount int) {
	s.mu.Lock()
	history := make([]model.SimpleMove, len(s.board.MoveHistory))
	copy(history, s.board.MoveHistory)
	budget := s.timeBudget
	s.mu.Unlock()

	mv, ok := s.orc.BestMove(history, budget)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.thinking = false }()

	if s.generation != generation || len(s.board.MoveHistory) != moveCount {
		log.Info("discarding stale oracle reply", "game", s.ID,
			"generation", generation, "moveCount", moveCount)
		return
	}
	if !ok {
		log.Warn("oracle had no move", "game", s.ID)
		return
	}

	if ply, err := s.board.TryMove(mv.From, mv.To); err != nil {
		// The mirror and the core disagreeing is a bug worth shouting
		// about, but the game must go on: play any legal move instead.
		log.Error("oracle move rejected by rules core", "game", s.ID,
			"from", mv.From.Notation(), "to", mv.To.Notation(), "error", err)
		if !s.playAnyLegalMoveLocked() {
			return
		}
	} else {
		s.lastPly = &ply
	}
	s.afterMoveLocked()
	go s.broadcastState()
}

// playAnyLegalMoveLocked applies the first legal move found for the side to
// move. Callers hold mu.
func (s *Session) playAnyLegalMoveLocked() bool {
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			from := model.Square{Row: row, Col: col}
			p := s.board.PieceAt(from)
			if p == nil || p.Color != s.board.Turn {
				continue
			}
			for _, to := range s.board.LegalMovesFrom(from) {
				if ply, err := s.board.TryMove(from, to); err == nil {
					s.lastPly = &ply
					return true
				}
			}
		}
	}
	return false
}

// lastPlyOf reconstructs a display ply for the most recent history entry.
func lastPlyOf(b *model.Board) *model.Ply {
	n := len(b.MoveHistory)
	if n == 0 {
		return nil
	}
	mv := b.MoveHistory[n-1]
	p := b.PieceAt(mv.To)
	if p == nil {
		return nil
	}
	return &model.Ply{Piece: *p, From: mv.From, To: mv.To}
}

// Reset starts a fresh game in place. Bumping the generation invalidates
// any oracle reply still in flight.
func (s *Session) Reset() {
	s.mu.Lock()
	s.board = model.NewBoard()
	s.lastPly = nil
	s.finalStatus = nil
	s.warnings = nil
	s.thinking = false
	s.generation++
	s.mu.Unlock()

	go s.broadcastState()
}

// LoadHistory replaces the board with one rebuilt from an externally
// supplied history. Illegal entries are skipped and surfaced to clients as
// warnings.
func (s *Session) LoadHistory(moves []model.SimpleMove) []model.ReplayWarning {
	board, warnings := model.ReplayHistory(moves)

	s.mu.Lock()
	s.board = board
	s.lastPly = lastPlyOf(board)
	s.finalStatus = nil
	s.warnings = warnings
	s.thinking = false
	s.generation++
	s.afterMoveLocked()
	s.mu.Unlock()

	for _, w := range warnings {
		log.Warn("replay warning", "game", s.ID, "detail", w.String())
	}
	go s.broadcastState()
	return warnings
}

// LegalMoves returns the legal destinations for the piece on from, for
// client-side highlighting.
func (s *Session) LegalMoves(from model.Square) []model.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.LegalMovesFrom(from)
}

func (s *Session) RegisterConnection(playerID string, conn *websocket.Conn) error {
	s.mu.Lock()
	_, seated := s.playerColor(playerID)
	s.mu.Unlock()
	if !seated {
		// Anyone may spectate; only seated players may move.
		log.Info("spectator connected", "game", s.ID, "player", playerID)
	}

	s.connections.mu.Lock()
	if _, exists := s.connections.conns[playerID]; exists {
		s.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	s.connections.conns[playerID] = conn
	s.connections.mu.Unlock()

	go s.broadcastState()
	return nil
}

func (s *Session) UnregisterConnection(playerID string) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	delete(s.connections.conns, playerID)
}

// broadcastState sends the current snapshot to every connection. Writes
// that fail drop the connection.
func (s *Session) broadcastState() {
	// Marshal under the game mutex so a concurrent move cannot mutate the
	// board mid-encode.
	s.mu.Lock()
	payload, err := json.Marshal(s.snapshot())
	s.mu.Unlock()

	if err != nil {
		log.Error("failed to marshal game state", "game", s.ID, "error", err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("dropping dead connection", "game", s.ID, "player", playerID, "error", err)
			delete(s.connections.conns, playerID)
		}
	}
}
