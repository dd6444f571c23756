package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/dto"
	"github.com/benbeisheim/draughts-backend/internal/model"
)

func main() {
	boardFile := flag.String("board", "", "JSON board file ({\"pieces\": [...]}), defaults to the initial position")
	side := flag.String("player", "White", "Side to move first")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	player, err := dto.ParsePlayer(*side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-player: %v\n", err)
		os.Exit(2)
	}

	board := model.NewInitialBoard()
	if *boardFile != "" {
		board, err = loadBoard(*boardFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading board: %v\n", err)
			os.Exit(2)
		}
	}

	if *divide {
		var sum uint64
		for _, e := range model.PerftDivide(board, player, *depth) {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			sum += e.Nodes
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := model.Perft(board, player, *depth)
	elapsed := time.Since(start)
	fmt.Printf("depth %d \tnodes %d \t%s \t%.0f nps\n", *depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}

func loadBoard(path string) (*model.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state dto.BoardStateDTO
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return dto.ToBoard(state)
}
