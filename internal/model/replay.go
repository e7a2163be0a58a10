package model

import "fmt"

// ReplayWarning describes a history entry that could not be applied while
// rebuilding a board. The entry is skipped, never silently repaired: an
// externally supplied history that disagrees with the rules is a diagnostic
// for the caller, not something to paper over by guessing a similar move.
type ReplayWarning struct {
	Index  int        `json:"index"`
	Move   SimpleMove `json:"move"`
	Reason string     `json:"reason"`
}

func (w ReplayWarning) String() string {
	return fmt.Sprintf("move %d (%s-%s): %s", w.Index, w.Move.From.Notation(), w.Move.To.Notation(), w.Reason)
}

// ReplayHistory rebuilds a board by applying moves in order from the
// standard starting position. Illegal entries are skipped and reported.
func ReplayHistory(moves []SimpleMove) (*Board, []ReplayWarning) {
	b := NewBoard()
	var warnings []ReplayWarning
	for i, mv := range moves {
		if _, err := b.TryMove(mv.From, mv.To); err != nil {
			warnings = append(warnings, ReplayWarning{Index: i, Move: mv, Reason: err.Error()})
		}
	}
	return b, warnings
}
