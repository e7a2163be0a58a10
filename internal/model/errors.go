package model

import "errors"

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoPiece     = errors.New("no piece at from square")
	ErrOutOfBounds = errors.New("square out of bounds")
	ErrGameOver    = errors.New("game is over")
)
