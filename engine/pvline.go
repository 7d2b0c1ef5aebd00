package engine

import (
	gm "gochess/position"
)

// PVLine collects the principal variation discovered at a node: the best
// move found there followed by the child's own principal variation.
type PVLine struct {
	Moves []gm.Move
}

// Clear empties the line without releasing its backing array.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update records move as the new best move at this node, followed by the
// child's principal variation.
func (pv *PVLine) Update(move gm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy of the line.
func (pv PVLine) Clone() PVLine {
	moves := make([]gm.Move, len(pv.Moves))
	copy(moves, pv.Moves)
	return PVLine{Moves: moves}
}

// GetPVMove returns the line's first move, or the zero move if the line is empty.
func (pv PVLine) GetPVMove() gm.Move {
	if len(pv.Moves) == 0 {
		return 0
	}
	return pv.Moves[0]
}
