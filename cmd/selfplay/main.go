// Command selfplay runs the engine against itself on the rules core and
// prints the game to the terminal. Handy for eyeballing that the core and
// the engine's mirror board stay in agreement over a full game.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"chessmancer/internal/model"
	"chessmancer/internal/oracle"

	"github.com/fatih/color"
)

var (
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	blackPiece = color.New(color.FgHiBlue, color.Bold)
	dimSquare  = color.New(color.FgHiBlack)
)

func main() {
	stockfishPath := flag.String("stockfish", "", "path to the stockfish binary (defaults to PATH lookup)")
	skill := flag.Int("skill", 5, "engine skill level, 1-20")
	budget := flag.Duration("budget", 50*time.Millisecond, "think time per move")
	maxMoves := flag.Int("max-moves", 300, "abort after this many half-moves")
	quiet := flag.Bool("quiet", false, "only print the final position and result")
	flag.Parse()

	log := slog.Default()

	orc := oracle.New(*stockfishPath, *skill)
	defer orc.Close()
	if !orc.Available() {
		log.Warn("no engine found, both sides will play random moves")
	}

	board := model.NewBoard()
	for len(board.MoveHistory) < *maxMoves {
		if board.Status().GameOver() {
			break
		}
		if _, over := orc.Verdict(board.MoveHistory); over {
			break
		}

		mv, ok := orc.BestMove(board.MoveHistory, *budget)
		if !ok {
			break
		}
		ply, err := board.TryMove(mv.From, mv.To)
		if err != nil {
			log.Error("engine move rejected by rules core",
				"from", mv.From.Notation(), "to", mv.To.Notation(), "error", err)
			os.Exit(1)
		}

		if !*quiet {
			fmt.Printf("%3d. %-7s (%s %s-%s)\n",
				len(board.MoveHistory), ply.Notation,
				ply.Piece.Color, mv.From.Notation(), mv.To.Notation())
		}
	}

	printBoard(board)
	printResult(board, orc)
}

func printBoard(b *model.Board) {
	fmt.Println()
	for row := 0; row < model.BoardSize; row++ {
		fmt.Printf("%d  ", model.BoardSize-row)
		for col := 0; col < model.BoardSize; col++ {
			p := b.Grid[row][col]
			if p == nil {
				dimSquare.Print(". ")
				continue
			}
			letter := p.Kind.Notation()
			if letter == "" {
				letter = "P"
			}
			if p.Color == model.White {
				whitePiece.Printf("%s ", letter)
			} else {
				blackPiece.Printf("%s ", letter)
			}
		}
		fmt.Println()
	}
	fmt.Println("\n   a b c d e f g h")
}

func printResult(b *model.Board, orc *oracle.Oracle) {
	status := b.Status()
	if !status.GameOver() {
		if verdict, over := orc.Verdict(b.MoveHistory); over {
			status = verdict
		}
	}

	fmt.Println()
	switch status.Outcome {
	case model.OutcomeCheckmate:
		fmt.Printf("checkmate, %s wins in %d half-moves\n", status.Winner, len(b.MoveHistory))
	case model.OutcomeInProgress:
		fmt.Printf("aborted after %d half-moves\n", len(b.MoveHistory))
	default:
		fmt.Printf("%s after %d half-moves\n", status.Outcome, len(b.MoveHistory))
	}
}
