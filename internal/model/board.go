package model

import (
	"fmt"

	"github.com/google/uuid"
)

const BoardSize = 8

type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

func (k PieceKind) Notation() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Square addresses the grid as (row, column), both in [0,7]. Row 0 is
// black's back rank, row 7 white's, so white pawns move toward row 0.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

func (s Square) Notation() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, BoardSize-s.Row)
}

// Piece carries no position of its own; the grid index is the single source
// of truth for where a piece stands. ID keys external metadata records.
type Piece struct {
	ID       string    `json:"id"`
	Kind     PieceKind `json:"kind"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func newPiece(kind PieceKind, color Color) *Piece {
	return &Piece{ID: uuid.New().String(), Kind: kind, Color: color}
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// Board is the canonical game state: the 8x8 grid plus the bookkeeping the
// rules need (turn, history, en passant marker, captures).
type Board struct {
	Grid [BoardSize][BoardSize]*Piece `json:"squares"`
	Turn Color                        `json:"turn"`

	// MoveHistory is append-only; ReplayHistory can rebuild a board from it.
	MoveHistory []SimpleMove `json:"moveHistory"`

	// LastDoubleAdvance is the destination square of the most recent
	// two-square pawn move. Any other move clears it, so en passant is
	// available for exactly one reply.
	LastDoubleAdvance *Square `json:"lastDoublePawnAdvance"`

	Captured CapturedPieces `json:"capturedPieces"`
}

var backRank = [BoardSize]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board with the standard starting layout, white to move.
func NewBoard() *Board {
	b := &Board{
		Turn:        White,
		MoveHistory: make([]SimpleMove, 0),
		Captured: CapturedPieces{
			White: make([]Piece, 0),
			Black: make([]Piece, 0),
		},
	}
	for col, kind := range backRank {
		b.Grid[0][col] = newPiece(kind, Black)
		b.Grid[7][col] = newPiece(kind, White)
	}
	for col := 0; col < BoardSize; col++ {
		b.Grid[1][col] = newPiece(Pawn, Black)
		b.Grid[6][col] = newPiece(Pawn, White)
	}
	return b
}

// PieceAt returns the piece occupying sq, or nil. Out-of-bounds squares are
// reported as empty.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.InBounds() {
		return nil
	}
	return b.Grid[sq.Row][sq.Col]
}

func (b *Board) findKing(color Color) (Square, bool) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := b.Grid[row][col]
			if p != nil && p.Kind == King && p.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// pawnDirection is the row delta a pawn of this color advances by.
func pawnDirection(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

// pawnStartRow is the rank a pawn of this color may double-advance from.
func pawnStartRow(color Color) int {
	if color == White {
		return 6
	}
	return 1
}

// promotionRow is the farthest rank for a pawn of this color.
func promotionRow(color Color) int {
	if color == White {
		return 0
	}
	return 7
}
