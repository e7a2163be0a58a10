package model

import "fmt"

type Outcome string

const (
	OutcomeInProgress       Outcome = "inProgress"
	OutcomeCheckmate        Outcome = "checkmate"
	OutcomeStalemate        Outcome = "stalemate"
	OutcomeDrawInsufficient Outcome = "drawInsufficientMaterial"
	OutcomeDrawFiftyMove    Outcome = "drawFiftyMove"
	OutcomeDrawRepetition   Outcome = "drawRepetition"
)

// Status is the terminal-state verdict for a position. Winner is set only
// for checkmate.
type Status struct {
	Outcome Outcome `json:"outcome"`
	Winner  Color   `json:"winner,omitempty"`
}

func (s Status) GameOver() bool {
	return s.Outcome != OutcomeInProgress
}

// IsCheckmate reports whether color is in check with no legal move left.
func (b *Board) IsCheckmate(color Color) bool {
	return b.IsKingInCheck(color) && !b.HasLegalMove(color)
}

// IsStalemate reports whether color has no legal move while not in check.
func (b *Board) IsStalemate(color Color) bool {
	return !b.IsKingInCheck(color) && !b.HasLegalMove(color)
}

// Status derives the game state for the side to move. Checkmate and
// stalemate are authoritative here; the remaining draw outcomes are
// supplied by the oracle collaborator and recorded by the session layer.
func (b *Board) Status() Status {
	if b.IsCheckmate(b.Turn) {
		return Status{Outcome: OutcomeCheckmate, Winner: b.Turn.Opponent()}
	}
	if b.IsStalemate(b.Turn) {
		return Status{Outcome: OutcomeStalemate}
	}
	return Status{Outcome: OutcomeInProgress}
}

// TryMove validates (from, to) against the legal moves of the piece on from
// and applies it. On any error the board is left untouched. Preconditions
// like "it must be your piece's turn" are enforced here so applyMove never
// has to reject anything.
func (b *Board) TryMove(from, to Square) (Ply, error) {
	if !from.InBounds() || !to.InBounds() {
		return Ply{}, ErrOutOfBounds
	}
	p := b.PieceAt(from)
	if p == nil {
		return Ply{}, ErrNoPiece
	}
	if p.Color != b.Turn {
		return Ply{}, fmt.Errorf("%w: it is %s to move", ErrIllegalMove, b.Turn)
	}
	legal := false
	for _, sq := range b.LegalMovesFrom(from) {
		if sq == to {
			legal = true
			break
		}
	}
	if !legal {
		return Ply{}, fmt.Errorf("%w: %s %s-%s", ErrIllegalMove, p.Kind, from.Notation(), to.Notation())
	}
	return b.applyMove(from, to), nil
}

// applyMove commits a move that has already been validated. The main piece
// relocation and its secondary effects (castle rook leg, en passant removal,
// queen promotion) happen in one atomic step; nothing here can fail.
func (b *Board) applyMove(from, to Square) Ply {
	p := b.Grid[from.Row][from.Col]
	if other := b.Grid[to.Row][to.Col]; other != nil && other.Color == p.Color {
		// Can only happen through a core bug; fail loudly rather than
		// stack two pieces on one square.
		panic(fmt.Sprintf("applyMove: friendly piece on destination %s", to.Notation()))
	}

	ply := Ply{
		Piece:    *p,
		From:     from,
		To:       to,
		Notation: b.notation(from, to),
	}

	isCastle := p.Kind == King && abs(to.Col-from.Col) == 2 && !p.HasMoved
	isEnPassant := p.Kind == Pawn && from.Col != to.Col && b.Grid[to.Row][to.Col] == nil

	if captured := b.Grid[to.Row][to.Col]; captured != nil {
		b.recordCapture(captured)
		ply.CapturedPiece = captured
	}

	if isEnPassant {
		// The captured pawn sits beside the capturer, on the column the
		// capturer lands in.
		victim := b.Grid[from.Row][to.Col]
		b.recordCapture(victim)
		b.Grid[from.Row][to.Col] = nil
		ply.CapturedPiece = victim
		ply.Notation = fmt.Sprintf("%cx%s", 'a'+from.Col, to.Notation())
	}

	b.Grid[to.Row][to.Col] = p
	b.Grid[from.Row][from.Col] = nil
	p.HasMoved = true

	if isCastle {
		ply.CastleRookMove = b.castleRook(from, to)
		if to.Col > from.Col {
			ply.Notation = "O-O"
		} else {
			ply.Notation = "O-O-O"
		}
	}

	if p.Kind == Pawn && to.Row == promotionRow(p.Color) {
		// Promotion always yields a queen; no under-promotion is exposed.
		p.Kind = Queen
		ply.Promotion = Queen
		ply.Notation += "=Q"
	}

	if p.Kind == Pawn && abs(to.Row-from.Row) == 2 {
		b.LastDoubleAdvance = &Square{Row: to.Row, Col: to.Col}
	} else {
		b.LastDoubleAdvance = nil
	}

	b.MoveHistory = append(b.MoveHistory, SimpleMove{From: from, To: to})
	b.Turn = b.Turn.Opponent()
	return ply
}

// castleRook relocates the rook leg of a castle and returns its move.
// Kingside brings the corner rook to the king's left, queenside to its
// right.
func (b *Board) castleRook(kingFrom, kingTo Square) *CastleRookMove {
	row := kingFrom.Row
	var rookFrom, rookTo Square
	if kingTo.Col > kingFrom.Col {
		rookFrom = Square{Row: row, Col: 7}
		rookTo = Square{Row: row, Col: kingTo.Col - 1}
	} else {
		rookFrom = Square{Row: row, Col: 0}
		rookTo = Square{Row: row, Col: kingTo.Col + 1}
	}
	rook := b.Grid[rookFrom.Row][rookFrom.Col]
	b.Grid[rookTo.Row][rookTo.Col] = rook
	b.Grid[rookFrom.Row][rookFrom.Col] = nil
	rook.HasMoved = true
	return &CastleRookMove{From: rookFrom, To: rookTo}
}

func (b *Board) recordCapture(p *Piece) {
	switch p.Color {
	case White:
		b.Captured.White = append(b.Captured.White, *p)
	case Black:
		b.Captured.Black = append(b.Captured.Black, *p)
	}
}

func (b *Board) notation(from, to Square) string {
	p := b.Grid[from.Row][from.Col]
	capture := ""
	if b.Grid[to.Row][to.Col] != nil {
		capture = "x"
	}
	prefix := p.Kind.Notation()
	if p.Kind == Pawn && from.Col != to.Col {
		prefix = fmt.Sprintf("%c", 'a'+from.Col)
	}
	return prefix + capture + to.Notation()
}
