package oracle

import (
	"testing"
	"time"

	"chessmancer/internal/model"
)

func newEnginelessOracle(t *testing.T) *Oracle {
	t.Helper()
	o := New("/nonexistent/engine/binary", 5)
	if o.Available() {
		t.Fatal("expected no live engine behind a bogus path")
	}
	return o
}

func TestBestMoveFallsBackToLegalMove(t *testing.T) {
	o := newEnginelessOracle(t)
	defer o.Close()

	mv, ok := o.BestMove(nil, 10*time.Millisecond)
	if !ok {
		t.Fatal("expected a move from the starting position")
	}

	b := model.NewBoard()
	if _, err := b.TryMove(mv.From, mv.To); err != nil {
		t.Fatalf("fallback move %s-%s rejected by the rules core: %v",
			mv.From.Notation(), mv.To.Notation(), err)
	}
}

func TestBestMoveTracksHistory(t *testing.T) {
	o := newEnginelessOracle(t)
	defer o.Close()

	history := []model.SimpleMove{
		{From: model.Square{Row: 6, Col: 4}, To: model.Square{Row: 4, Col: 4}},
	}
	mv, ok := o.BestMove(history, 10*time.Millisecond)
	if !ok {
		t.Fatal("expected a black reply after 1. e4")
	}

	b, warnings := model.ReplayHistory(history)
	if len(warnings) != 0 {
		t.Fatalf("unexpected replay warnings: %v", warnings)
	}
	if _, err := b.TryMove(mv.From, mv.To); err != nil {
		t.Fatalf("reply %s-%s rejected: %v", mv.From.Notation(), mv.To.Notation(), err)
	}
}

func TestVerdictFreshGameInProgress(t *testing.T) {
	o := newEnginelessOracle(t)
	defer o.Close()

	status, over := o.Verdict(nil)
	if over {
		t.Fatalf("fresh game reported over: %+v", status)
	}
	if status.Outcome != model.OutcomeInProgress {
		t.Fatalf("outcome = %s, want %s", status.Outcome, model.OutcomeInProgress)
	}
}

func TestMirrorSkipsIllegalEntries(t *testing.T) {
	o := newEnginelessOracle(t)
	defer o.Close()

	// A rook lift through its own pawn is illegal and must be skipped, not
	// replaced; the position stays the opening position and white still
	// has a move.
	history := []model.SimpleMove{
		{From: model.Square{Row: 7, Col: 0}, To: model.Square{Row: 4, Col: 0}},
	}
	mv, ok := o.BestMove(history, 10*time.Millisecond)
	if !ok {
		t.Fatal("expected a move despite the malformed history entry")
	}
	b := model.NewBoard()
	if _, err := b.TryMove(mv.From, mv.To); err != nil {
		t.Fatalf("move after skipped entry rejected: %v", err)
	}
}

func TestSquareConversionRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := model.Square{Row: row, Col: col}
			if got := fromChessSquare(toChessSquare(sq)); got != sq {
				t.Fatalf("round trip of %v gave %v", sq, got)
			}
		}
	}
}

func TestSkillClamped(t *testing.T) {
	if o := New("/nonexistent/engine/binary", 99); o.skill != MaxSkill {
		t.Fatalf("skill = %d, want %d", o.skill, MaxSkill)
	}
	if o := New("/nonexistent/engine/binary", -3); o.skill != MinSkill {
		t.Fatalf("skill = %d, want %d", o.skill, MinSkill)
	}
}
