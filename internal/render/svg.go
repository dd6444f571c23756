// Package render draws draughts positions as SVG.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/benbeisheim/draughts-backend/internal/model"
)

const (
	squareSize = 45
	boardPx    = squareSize * model.BoardSize

	lightColor     = "#f0d9b5"
	darkColor      = "#b58863"
	highlightColor = "#f6f669"
)

var pieceStyle = map[model.Player]string{
	model.White: "fill:#fafafa;stroke:#333333;stroke-width:2",
	model.Black: "fill:#222222;stroke:#000000;stroke-width:2",
}

var crownStyle = map[model.Player]string{
	model.White: "fill:none;stroke:#c9a400;stroke-width:3",
	model.Black: "fill:none;stroke:#e6c200;stroke-width:3",
}

// BoardSVG writes board to w with row 0 at the top. Highlighted squares are
// outlined; squares off the board are ignored.
func BoardSVG(w io.Writer, board *model.Board, highlights ...model.Square) {
	marked := make(map[model.Square]bool, len(highlights))
	for _, sq := range highlights {
		marked[sq] = true
	}

	canvas := svg.New(w)
	canvas.Start(boardPx, boardPx)
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			sq := model.Square{Row: row, Col: col}
			x, y := col*squareSize, row*squareSize

			color := lightColor
			if sq.IsDark() {
				color = darkColor
			}
			canvas.Rect(x, y, squareSize, squareSize, "fill:"+color)
			if marked[sq] {
				canvas.Rect(x+2, y+2, squareSize-4, squareSize-4,
					fmt.Sprintf("fill:none;stroke:%s;stroke-width:4", highlightColor))
			}

			piece, err := board.Get(row, col)
			if err != nil || piece == nil {
				continue
			}
			drawPiece(canvas, x+squareSize/2, y+squareSize/2, piece)
		}
	}
	canvas.End()
}

func drawPiece(canvas *svg.SVG, cx, cy int, piece *model.Piece) {
	radius := squareSize*2/5 - 1
	canvas.Circle(cx, cy, radius, pieceStyle[piece.Owner])
	if piece.Rank == model.King {
		canvas.Circle(cx, cy, radius/2, crownStyle[piece.Owner])
	}
}
