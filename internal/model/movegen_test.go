package model

import (
	"testing"
)

// emptyBoard returns a board with no pieces, white to move.
func emptyBoard() *Board {
	return &Board{
		Turn:        White,
		MoveHistory: make([]SimpleMove, 0),
		Captured: CapturedPieces{
			White: make([]Piece, 0),
			Black: make([]Piece, 0),
		},
	}
}

func place(b *Board, row, col int, kind PieceKind, color Color) *Piece {
	p := newPiece(kind, color)
	b.Grid[row][col] = p
	return p
}

// layout renders the grid as one string of piece letters for comparisons
// that should ignore piece identity.
func layout(b *Board) string {
	out := make([]byte, 0, 64)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := b.Grid[row][col]
			if p == nil {
				out = append(out, '.')
				continue
			}
			letter := byte('P')
			if n := p.Kind.Notation(); n != "" {
				letter = n[0]
			}
			if p.Color == Black {
				letter |= 0x20
			}
			out = append(out, letter)
		}
	}
	return string(out)
}

func containsSquare(squares []Square, want Square) bool {
	for _, sq := range squares {
		if sq == want {
			return true
		}
	}
	return false
}

func TestPawnMoveCounts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Board) Square
		want  int
	}{
		{
			name: "unmoved pawn with open path",
			setup: func(b *Board) Square {
				place(b, 7, 4, King, White)
				place(b, 0, 4, King, Black)
				place(b, 6, 0, Pawn, White)
				return Square{Row: 6, Col: 0}
			},
			want: 2,
		},
		{
			name: "double advance blocked two ahead",
			setup: func(b *Board) Square {
				place(b, 7, 4, King, White)
				place(b, 0, 4, King, Black)
				place(b, 6, 0, Pawn, White)
				place(b, 4, 0, Knight, Black)
				return Square{Row: 6, Col: 0}
			},
			want: 1,
		},
		{
			name: "fully blocked pawn",
			setup: func(b *Board) Square {
				place(b, 7, 4, King, White)
				place(b, 0, 4, King, Black)
				place(b, 6, 0, Pawn, White)
				place(b, 5, 0, Knight, Black)
				return Square{Row: 6, Col: 0}
			},
			want: 0,
		},
		{
			name: "advanced pawn single step only",
			setup: func(b *Board) Square {
				place(b, 7, 4, King, White)
				place(b, 0, 4, King, Black)
				p := place(b, 4, 3, Pawn, White)
				p.HasMoved = true
				return Square{Row: 4, Col: 3}
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := emptyBoard()
			from := tt.setup(b)
			if got := b.LegalMovesFrom(from); len(got) != tt.want {
				t.Fatalf("got %d moves %v, want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestKingsideCastle(t *testing.T) {
	b := emptyBoard()
	place(b, 7, 4, King, White)
	place(b, 7, 7, Rook, White)
	place(b, 0, 4, King, Black)

	kingSq := Square{Row: 7, Col: 4}
	castleTo := Square{Row: 7, Col: 6}
	if !containsSquare(b.LegalMovesFrom(kingSq), castleTo) {
		t.Fatal("kingside castle missing from legal moves")
	}

	ply, err := b.TryMove(kingSq, castleTo)
	if err != nil {
		t.Fatal(err)
	}
	if ply.Notation != "O-O" {
		t.Fatalf("notation = %q, want O-O", ply.Notation)
	}
	if ply.CastleRookMove == nil {
		t.Fatal("castle ply missing rook move")
	}

	king := b.PieceAt(castleTo)
	rook := b.PieceAt(Square{Row: 7, Col: 5})
	if king == nil || king.Kind != King {
		t.Fatal("king not on g1 after castle")
	}
	if rook == nil || rook.Kind != Rook {
		t.Fatal("rook not on f1 after castle")
	}
	if !king.HasMoved || !rook.HasMoved {
		t.Fatal("castle participants not marked moved")
	}
	if b.PieceAt(Square{Row: 7, Col: 7}) != nil {
		t.Fatal("rook still on h1")
	}
}

func TestCastleBlockedByAttackedTransitSquare(t *testing.T) {
	b := emptyBoard()
	place(b, 7, 4, King, White)
	place(b, 7, 7, Rook, White)
	place(b, 0, 4, King, Black)
	// Black rook on the f-file covers the square the king passes through.
	place(b, 5, 5, Rook, Black)

	kingSq := Square{Row: 7, Col: 4}
	if containsSquare(b.LegalMovesFrom(kingSq), Square{Row: 7, Col: 6}) {
		t.Fatal("castle allowed through an attacked square")
	}
}

func TestCastleConditions(t *testing.T) {
	kingSq := Square{Row: 7, Col: 4}
	castleTo := Square{Row: 7, Col: 6}

	tests := []struct {
		name  string
		setup func(*Board)
	}{
		{
			name: "king has moved",
			setup: func(b *Board) {
				b.PieceAt(kingSq).HasMoved = true
			},
		},
		{
			name: "rook has moved",
			setup: func(b *Board) {
				b.PieceAt(Square{Row: 7, Col: 7}).HasMoved = true
			},
		},
		{
			name: "piece between king and rook",
			setup: func(b *Board) {
				place(b, 7, 5, Bishop, White)
			},
		},
		{
			name: "king currently in check",
			setup: func(b *Board) {
				place(b, 5, 4, Rook, Black)
			},
		},
		{
			name: "destination square attacked",
			setup: func(b *Board) {
				place(b, 5, 6, Rook, Black)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := emptyBoard()
			place(b, 7, 4, King, White)
			place(b, 7, 7, Rook, White)
			place(b, 0, 4, King, Black)
			tt.setup(b)

			if containsSquare(b.LegalMovesFrom(kingSq), castleTo) {
				t.Fatal("castle should not be legal")
			}
		})
	}
}

func TestEnPassant(t *testing.T) {
	b := NewBoard()

	// Advance the white e-pawn to the fifth rank, then double-advance the
	// black d-pawn beside it.
	mustMove(t, b, Square{6, 4}, Square{4, 4})
	mustMove(t, b, Square{1, 0}, Square{2, 0})
	mustMove(t, b, Square{4, 4}, Square{3, 4})
	mustMove(t, b, Square{1, 3}, Square{3, 3})

	if b.LastDoubleAdvance == nil || *b.LastDoubleAdvance != (Square{Row: 3, Col: 3}) {
		t.Fatalf("lastDoubleAdvance = %v, want d5", b.LastDoubleAdvance)
	}

	from := Square{Row: 3, Col: 4}
	capture := Square{Row: 2, Col: 3}
	if !containsSquare(b.LegalMovesFrom(from), capture) {
		t.Fatal("en passant capture missing from legal moves")
	}

	ply, err := b.TryMove(from, capture)
	if err != nil {
		t.Fatal(err)
	}
	if ply.Notation != "exd6" {
		t.Fatalf("notation = %q, want exd6", ply.Notation)
	}
	if ply.CapturedPiece == nil || ply.CapturedPiece.Kind != Pawn {
		t.Fatal("en passant did not record the captured pawn")
	}
	if b.PieceAt(Square{Row: 3, Col: 3}) != nil {
		t.Fatal("captured pawn still on d5")
	}
	if p := b.PieceAt(capture); p == nil || p.Kind != Pawn || p.Color != White {
		t.Fatal("capturing pawn not on d6")
	}
}

func TestEnPassantExpiresAfterOneReply(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, Square{6, 4}, Square{4, 4})
	mustMove(t, b, Square{1, 0}, Square{2, 0})
	mustMove(t, b, Square{4, 4}, Square{3, 4})
	mustMove(t, b, Square{1, 3}, Square{3, 3})

	// White declines the capture; the window closes.
	mustMove(t, b, Square{6, 0}, Square{5, 0})
	mustMove(t, b, Square{2, 0}, Square{3, 0})

	if containsSquare(b.LegalMovesFrom(Square{Row: 3, Col: 4}), Square{Row: 2, Col: 3}) {
		t.Fatal("en passant still offered after an intervening move")
	}
}

func TestEnPassantRequiresEnemyPawn(t *testing.T) {
	b := emptyBoard()
	place(b, 7, 4, King, White)
	place(b, 0, 4, King, Black)
	place(b, 4, 3, Pawn, White)
	place(b, 4, 4, Pawn, White)

	// A stale marker pointing at a friendly pawn, as an off-turn query for
	// black's highlights can produce, must not offer the capture.
	b.LastDoubleAdvance = &Square{Row: 4, Col: 4}

	if containsSquare(b.LegalMovesFrom(Square{Row: 4, Col: 3}), Square{Row: 3, Col: 4}) {
		t.Fatal("en passant offered against a friendly pawn")
	}
}

func TestIsSquareAttackedIsReadOnly(t *testing.T) {
	b := NewBoard()
	before := layout(b)

	sq := Square{Row: 5, Col: 4}
	first := b.IsSquareAttacked(sq, White)
	second := b.IsSquareAttacked(sq, White)
	if first != second {
		t.Fatal("attack detection not idempotent")
	}
	if layout(b) != before {
		t.Fatal("attack detection mutated the board")
	}
}

func mustMove(t *testing.T, b *Board, from, to Square) Ply {
	t.Helper()
	ply, err := b.TryMove(from, to)
	if err != nil {
		t.Fatalf("move %s-%s: %v", from.Notation(), to.Notation(), err)
	}
	return ply
}
