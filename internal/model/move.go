package model

// SimpleMove is a bare (from, to) pair, the unit of the move history.
type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply records one applied half-move with everything needed to render or
// narrate it: the piece that moved, what it captured, the rook leg of a
// castle, and whether the pawn was promoted.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceKind       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}
