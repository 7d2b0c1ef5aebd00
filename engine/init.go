package engine

import (
	gm "gochess/position"
)

func initVariables(board *gm.Board) {
	InitLMRTable()
}

// InitLMRTable fills the late-move-reduction table, indexed by [depth][moveIndex].
func InitLMRTable() {
	for d := 1; d < 100; d++ {
		for m := 1; m < 100; m++ {
			r := 1 + d/8 + m/16 // gentle growth with depth & lateness
			if r > d-2 {
				r = d - 2 // keep depth-1-r >= 1
			}
			if r < 0 {
				r = 0
			}
			LMR[d][m] = int8(r)
		}
	}
}
