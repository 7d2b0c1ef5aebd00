package main

import (
	"gochess/engine"
	"fmt"
	"testing"

	gm "gochess/position"
)

func BenchmarkMain(b *testing.B) {
	board := gm.ParseFen(gm.Startpos) // the game board
	limits := engine.SearchLimits{Depth: 12, GameTime: 1000, Increment: 500}
	bestmove := engine.StartSearch(&board, limits, false, false)
	engine.ResetForNewGame()
	fmt.Println("bestmove ", bestmove)
}
