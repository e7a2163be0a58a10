package model

// IsSquareAttacked reports whether any piece of the attacking color attacks
// sq. It works purely on board geometry and occupancy; it never asks the
// move generator for legal moves, which keeps "is the king safe" from
// recursing into "what moves are legal".
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	// Pawns attack diagonally forward, so an attacking pawn sits one row
	// behind sq relative to its own direction of travel.
	pawnRow := sq.Row - pawnDirection(by)
	for _, dc := range []int{-1, 1} {
		p := b.PieceAt(Square{Row: pawnRow, Col: sq.Col + dc})
		if p != nil && p.Kind == Pawn && p.Color == by {
			return true
		}
	}

	for _, o := range knightOffsets {
		p := b.PieceAt(Square{Row: sq.Row + o.dr, Col: sq.Col + o.dc})
		if p != nil && p.Kind == Knight && p.Color == by {
			return true
		}
	}

	for _, o := range kingOffsets {
		p := b.PieceAt(Square{Row: sq.Row + o.dr, Col: sq.Col + o.dc})
		if p != nil && p.Kind == King && p.Color == by {
			return true
		}
	}

	if b.rayAttacked(sq, by, diagonalDirs, Bishop) {
		return true
	}
	return b.rayAttacked(sq, by, orthogonalDirs, Rook)
}

// rayAttacked walks each direction until the first occupied square and
// reports whether that occupant is an attacker capable of the ray geometry
// (slider or queen). Anything else blocks the ray.
func (b *Board) rayAttacked(sq Square, by Color, dirs []offset, slider PieceKind) bool {
	for _, d := range dirs {
		to := Square{Row: sq.Row + d.dr, Col: sq.Col + d.dc}
		for to.InBounds() {
			p := b.PieceAt(to)
			if p != nil {
				if p.Color == by && (p.Kind == slider || p.Kind == Queen) {
					return true
				}
				break
			}
			to = Square{Row: to.Row + d.dr, Col: to.Col + d.dc}
		}
	}
	return false
}

// IsKingInCheck reports whether color's king is attacked. A board with no
// king of that color is treated as not in check; it cannot occur in a
// well-formed game.
func (b *Board) IsKingInCheck(color Color) bool {
	kingSq, ok := b.findKing(color)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(kingSq, color.Opponent())
}

// wouldCauseSelfCheck simulates relocating the piece on from to to and asks
// whether the mover's king would be attacked. Only the single piece moves;
// secondary castling/en-passant effects are irrelevant to king safety here.
// Restoration runs deferred so the board is returned to its exact prior
// state on every exit path.
func (b *Board) wouldCauseSelfCheck(from, to Square) bool {
	moved := b.Grid[from.Row][from.Col]
	captured := b.Grid[to.Row][to.Col]
	defer func() {
		b.Grid[from.Row][from.Col] = moved
		b.Grid[to.Row][to.Col] = captured
	}()

	b.Grid[to.Row][to.Col] = moved
	b.Grid[from.Row][from.Col] = nil
	return b.IsKingInCheck(moved.Color)
}

// FilterLegal removes every candidate that would leave the mover's own king
// in check.
func (b *Board) FilterLegal(from Square, candidates []Square) []Square {
	legal := []Square{}
	for _, to := range candidates {
		if !b.wouldCauseSelfCheck(from, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMovesFrom returns the legal destinations for the piece on from. An
// empty square yields no moves.
func (b *Board) LegalMovesFrom(from Square) []Square {
	if b.PieceAt(from) == nil {
		return []Square{}
	}
	return b.FilterLegal(from, b.PseudoMoves(from))
}

// HasLegalMove reports whether any piece of color has at least one legal
// move. Checkmate and stalemate both reduce to this going false.
func (b *Board) HasLegalMove(color Color) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := b.Grid[row][col]
			if p == nil || p.Color != color {
				continue
			}
			if len(b.LegalMovesFrom(Square{Row: row, Col: col})) > 0 {
				return true
			}
		}
	}
	return false
}
