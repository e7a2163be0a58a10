package model

type offset struct {
	dr, dc int
}

var (
	knightOffsets = []offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = []offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	diagonalDirs   = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonalDirs = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// PseudoMoves returns the pseudo-legal destinations for the piece on from:
// every square its movement geometry allows, ignoring whether the move would
// leave its own king in check. Self-check filtering is a separate pass
// (FilterLegal) so that attack detection never recurses into move generation.
func (b *Board) PseudoMoves(from Square) []Square {
	p := b.PieceAt(from)
	if p == nil {
		return nil
	}
	switch p.Kind {
	case Pawn:
		return b.pawnMoves(from, p)
	case Knight:
		return b.stepMoves(from, p, knightOffsets)
	case Bishop:
		return b.slideMoves(from, p, diagonalDirs)
	case Rook:
		return b.slideMoves(from, p, orthogonalDirs)
	case Queen:
		return append(b.slideMoves(from, p, diagonalDirs), b.slideMoves(from, p, orthogonalDirs)...)
	case King:
		return b.kingMoves(from, p)
	}
	return nil
}

func (b *Board) pawnMoves(from Square, p *Piece) []Square {
	moves := []Square{}
	dir := pawnDirection(p.Color)

	// Forward one, and two from the starting rank when both squares are open.
	one := Square{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && b.PieceAt(one) == nil {
		moves = append(moves, one)
		if from.Row == pawnStartRow(p.Color) {
			two := Square{Row: from.Row + 2*dir, Col: from.Col}
			if two.InBounds() && b.PieceAt(two) == nil {
				moves = append(moves, two)
			}
		}
	}

	// Diagonal captures.
	for _, dc := range []int{-1, 1} {
		diag := Square{Row: from.Row + dir, Col: from.Col + dc}
		if target := b.PieceAt(diag); target != nil && target.Color != p.Color {
			moves = append(moves, diag)
		}
	}

	// En passant: the enemy pawn that just double-advanced sits beside this
	// pawn on the same row; the capture lands on the square it passed over.
	// The occupant is verified, so an off-turn query can never offer a
	// capture of a friendly pawn.
	if ep := b.LastDoubleAdvance; ep != nil && ep.Row == from.Row && abs(ep.Col-from.Col) == 1 {
		if victim := b.PieceAt(*ep); victim != nil && victim.Kind == Pawn && victim.Color != p.Color {
			moves = append(moves, Square{Row: from.Row + dir, Col: ep.Col})
		}
	}

	return moves
}

func (b *Board) stepMoves(from Square, p *Piece, offsets []offset) []Square {
	moves := []Square{}
	for _, o := range offsets {
		to := Square{Row: from.Row + o.dr, Col: from.Col + o.dc}
		if !to.InBounds() {
			continue
		}
		if target := b.PieceAt(to); target == nil || target.Color != p.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

// slideMoves ray-casts one step at a time and stops at the first occupied
// square, including it only when it holds an enemy piece.
func (b *Board) slideMoves(from Square, p *Piece, dirs []offset) []Square {
	moves := []Square{}
	for _, d := range dirs {
		to := Square{Row: from.Row + d.dr, Col: from.Col + d.dc}
		for to.InBounds() {
			target := b.PieceAt(to)
			if target == nil {
				moves = append(moves, to)
			} else {
				if target.Color != p.Color {
					moves = append(moves, to)
				}
				break
			}
			to = Square{Row: to.Row + d.dr, Col: to.Col + d.dc}
		}
	}
	return moves
}

func (b *Board) kingMoves(from Square, p *Piece) []Square {
	moves := b.stepMoves(from, p, kingOffsets)
	if !p.HasMoved {
		if b.canCastle(from, p, 7) {
			moves = append(moves, Square{Row: from.Row, Col: from.Col + 2})
		}
		if b.canCastle(from, p, 0) {
			moves = append(moves, Square{Row: from.Row, Col: from.Col - 2})
		}
	}
	return moves
}

// canCastle checks the castling conditions toward the rook on rookCol (7 for
// kingside, 0 for queenside): an unmoved same-color rook on the corner, a
// clear path between king and rook, and no attacked square on the king's own
// square or anywhere it passes through or lands.
func (b *Board) canCastle(kingSq Square, king *Piece, rookCol int) bool {
	rook := b.Grid[kingSq.Row][rookCol]
	if rook == nil || rook.Kind != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}

	step := 1
	if rookCol < kingSq.Col {
		step = -1
	}
	for col := kingSq.Col + step; col != rookCol; col += step {
		if b.Grid[kingSq.Row][col] != nil {
			return false
		}
	}

	enemy := king.Color.Opponent()
	if b.IsSquareAttacked(kingSq, enemy) {
		return false
	}
	for i := 1; i <= 2; i++ {
		sq := Square{Row: kingSq.Row, Col: kingSq.Col + i*step}
		if b.IsSquareAttacked(sq, enemy) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
