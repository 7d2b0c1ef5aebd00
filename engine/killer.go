package engine

import (
	gm "gochess/position"
)

// EmptyMove represents the absence of a killer entry.
const EmptyMove gm.Move = 0

type KillerStruct struct {
	KillerMoves [MaxDepth + 1][2]gm.Move
}

func (k *KillerStruct) insert(move gm.Move, ply int8) {
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// ClearKillers clears the killer moves table.
func (k *KillerStruct) ClearKillers() {
	for depth := 0; depth < MaxDepth+1; depth++ {
		k.KillerMoves[depth][0] = EmptyMove
		k.KillerMoves[depth][1] = EmptyMove
	}
}

// InsertKiller records move as a killer at ply, bumping the existing primary
// killer down to secondary.
func InsertKiller(move gm.Move, ply int8, k *KillerStruct) {
	k.insert(move, ply)
}

// IsKiller reports whether move is a stored killer at ply.
func IsKiller(move gm.Move, ply int8, k *KillerStruct) bool {
	return k.KillerMoves[ply][0] == move || k.KillerMoves[ply][1] == move
}
