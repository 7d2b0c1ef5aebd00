package engine

import (
	"math/bits"

	gm "gochess/position"
)

// Game phase weights used to taper between midgame and endgame scores.
const (
	PawnPhase   = 0
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = PawnPhase*16 + KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// Piece base values (midgame/endgame), indexed by gm.PieceType.
var pieceValueMG = [7]int{
	gm.PieceTypeKing: 0, gm.PieceTypePawn: 88, gm.PieceTypeKnight: 316, gm.PieceTypeBishop: 331, gm.PieceTypeRook: 494, gm.PieceTypeQueen: 993,
}
var pieceValueEG = [7]int{
	gm.PieceTypeKing: 0, gm.PieceTypePawn: 111, gm.PieceTypeKnight: 305, gm.PieceTypeBishop: 333, gm.PieceTypeRook: 535, gm.PieceTypeQueen: 963,
}

// PieceValueMG/PieceValueEG expose the same values to move ordering (promotion scoring).
var PieceValueMG = pieceValueMG
var PieceValueEG = pieceValueEG

var mobilityValueMG = [7]int{
	gm.PieceTypeKnight: 2, gm.PieceTypeBishop: 3, gm.PieceTypeRook: 2, gm.PieceTypeQueen: 1,
}
var mobilityValueEG = [7]int{
	gm.PieceTypeKnight: 3, gm.PieceTypeBishop: 2, gm.PieceTypeRook: 4, gm.PieceTypeQueen: 4,
}

var (
	BishopPairBonusMG = 10
	BishopPairBonusEG = 50
	RookSemiOpenMG    = 13
	RookOpenMG        = 30
	TempoBonus        = 10
	DrawDivider int32 = 8
)

// PSQT_MG/PSQT_EG give the midgame/endgame square bonus per piece type, from white's
// perspective with a1 = index 0 (flip the index for black via FlipView).
var PSQT_MG = [7][64]int{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-46, -41, -42, -39, -40, -12, 1, -21,
		-51, -52, -45, -45, -37, -37, -20, -30,
		-46, -40, -33, -33, -23, -26, -15, -30,
		-36, -27, -27, -11, 1, 2, -4, -21,
		-33, -6, 7, 13, 27, 57, 19, -11,
		57, 54, 55, 54, 46, 32, 4, 9,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-24, -28, -46, -30, -25, -21, -27, -40,
		-35, -32, -18, -10, -14, -12, -20, -18,
		-25, -8, -4, 6, 7, -1, -1, -17,
		-14, -1, 8, 5, 13, 10, 26, -1,
		-5, 8, 30, 35, 24, 43, 19, 22,
		-21, 12, 40, 49, 67, 64, 37, 14,
		-17, -12, 20, 33, 33, 37, -8, 3,
		-61, -6, -12, -2, 1, -6, -1, -16,
	},
	gm.PieceTypeBishop: {
		4, -2, -15, -21, -18, -8, -8, 2,
		4, 8, 11, -2, 1, 5, 20, 11,
		-2, 11, 8, 13, 10, 8, 10, 13,
		-7, 10, 15, 21, 26, 11, 10, 7,
		-4, 22, 24, 49, 34, 37, 20, 6,
		4, 18, 36, 36, 47, 55, 37, 24,
		-22, 6, 3, -7, 4, 14, -3, 8,
		-27, -8, -13, -12, -8, -21, 1, -10,
	},
	gm.PieceTypeRook: {
		-46, -41, -37, -34, -36, -40, -19, -42,
		-71, -45, -44, -43, -47, -37, -25, -51,
		-60, -46, -50, -44, -47, -48, -21, -38,
		-49, -45, -43, -35, -37, -34, -13, -29,
		-33, -21, -11, 6, 0, 7, 8, 2,
		-22, 10, 4, 25, 41, 38, 44, 20,
		-3, -5, 16, 28, 31, 37, 9, 30,
		23, 22, 19, 24, 23, 20, 21, 34,
	},
	gm.PieceTypeQueen: {
		-6, -17, -12, -3, -6, -28, -27, -12,
		-11, -4, 2, -2, -1, 7, 8, -7,
		-8, -1, -2, -4, -4, -1, 8, 7,
		-5, -3, -2, -6, -6, 10, 7, 16,
		-11, -6, -2, -1, 12, 22, 26, 26,
		-13, -6, -1, 14, 36, 58, 71, 42,
		-11, -40, 5, 5, 20, 44, -2, 27,
		0, 16, 21, 29, 36, 38, 25, 36,
	},
	gm.PieceTypeKing: {
		-4, 36, -1, -69, -23, -74, 19, 26,
		12, 0, -18, -53, -33, -39, 7, 25,
		-6, -4, -3, -11, -6, -8, 4, -15,
		-1, 8, 16, 10, 15, 12, 23, -9,
		0, 9, 16, 10, 13, 15, 15, -8,
		1, 11, 12, 9, 8, 14, 12, 0,
		-2, 6, 6, 2, 3, 4, 3, -2,
		-1, 0, 0, 2, 0, 0, 0, -2,
	},
}

var PSQT_EG = [7][64]int{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-9, -8, -4, -2, 7, 2, -14, -29,
		-16, -17, -13, -12, -9, -12, -26, -29,
		-8, -10, -19, -18, -19, -17, -22, -21,
		3, -2, -5, -23, -16, -14, -10, -12,
		21, 22, 21, 22, 22, 11, 25, 17,
		75, 69, 58, 48, 43, 43, 55, 63,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-29, -60, -26, -18, -20, -28, -48, -30,
		-28, -13, -13, -6, -4, -16, -18, -31,
		-38, -3, 6, 19, 18, 5, -2, -33,
		-15, 11, 32, 36, 34, 35, 16, -9,
		-11, 14, 28, 43, 48, 36, 28, -1,
		-20, 6, 24, 26, 20, 31, 12, -11,
		-25, -12, 1, 21, 19, -3, -9, -16,
		-41, -11, 2, 0, 1, 4, -4, -17,
	},
	gm.PieceTypeBishop: {
		-28, -16, -38, -14, -19, -24, -21, -20,
		-10, -20, -12, -4, -5, -18, -18, -33,
		-12, -1, 7, 10, 8, 3, -11, -11,
		-5, 6, 17, 18, 15, 14, 4, -10,
		0, 11, 12, 17, 24, 15, 19, 3,
		-5, 8, 11, 11, 13, 19, 12, 3,
		-7, 7, 10, 11, 12, 10, 12, -6,
		1, 5, 5, 8, 4, 0, 2, 2,
	},
	gm.PieceTypeRook: {
		-10, 0, 5, 5, 3, 3, -1, -18,
		-8, -10, -3, -6, -5, -11, -14, -10,
		-2, 7, 8, 5, 4, 3, -1, -8,
		13, 25, 26, 22, 20, 18, 12, 6,
		25, 27, 30, 26, 23, 20, 16, 16,
		34, 24, 32, 25, 17, 24, 14, 18,
		36, 42, 40, 41, 40, 23, 28, 22,
		32, 37, 40, 37, 38, 42, 39, 37,
	},
	gm.PieceTypeQueen: {
		-25, -35, -41, -48, -50, -39, -27, -9,
		-26, -24, -44, -27, -36, -62, -57, -17,
		-22, -17, 5, -10, -11, 1, -19, -14,
		-19, 5, 6, 38, 32, 30, 17, 20,
		-11, 14, 13, 42, 52, 57, 49, 33,
		-1, 3, 20, 29, 45, 56, 40, 38,
		7, 31, 25, 36, 57, 44, 28, 25,
		14, 26, 29, 38, 44, 43, 31, 33,
	},
	gm.PieceTypeKing: {
		-37, -29, -20, -26, -54, -14, -35, -78,
		-15, -9, -3, 4, -2, 1, -15, -35,
		-16, -3, 7, 16, 13, 6, -8, -18,
		-16, 8, 21, 28, 25, 19, 5, -18,
		-2, 22, 29, 30, 29, 26, 20, -5,
		1, 26, 25, 19, 16, 32, 31, -1,
		-12, 14, 11, 3, 5, 10, 20, -9,
		-17, -12, -6, -1, -6, -6, -6, -14,
	},
}

// FlipView mirrors a square vertically, so black pieces can reuse white's PSQTs.
var FlipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

// GetPiecePhase returns how much non-pawn material remains on the board, used
// to interpolate between midgame and endgame evaluation terms.
func GetPiecePhase(b *gm.Board) (phase int) {
	w, bl := b.WhiteBitboards(), b.BlackBitboards()
	phase += bits.OnesCount64(w.Knights|bl.Knights) * KnightPhase
	phase += bits.OnesCount64(w.Bishops|bl.Bishops) * BishopPhase
	phase += bits.OnesCount64(w.Rooks|bl.Rooks) * RookPhase
	phase += bits.OnesCount64(w.Queens|bl.Queens) * QueenPhase
	return phase
}

func countMaterial(bb gm.Bitboards) (materialMG, materialEG int) {
	materialMG += bits.OnesCount64(bb.Pawns) * pieceValueMG[gm.PieceTypePawn]
	materialEG += bits.OnesCount64(bb.Pawns) * pieceValueEG[gm.PieceTypePawn]
	materialMG += bits.OnesCount64(bb.Knights) * pieceValueMG[gm.PieceTypeKnight]
	materialEG += bits.OnesCount64(bb.Knights) * pieceValueEG[gm.PieceTypeKnight]
	materialMG += bits.OnesCount64(bb.Bishops) * pieceValueMG[gm.PieceTypeBishop]
	materialEG += bits.OnesCount64(bb.Bishops) * pieceValueEG[gm.PieceTypeBishop]
	materialMG += bits.OnesCount64(bb.Rooks) * pieceValueMG[gm.PieceTypeRook]
	materialEG += bits.OnesCount64(bb.Rooks) * pieceValueEG[gm.PieceTypeRook]
	materialMG += bits.OnesCount64(bb.Queens) * pieceValueMG[gm.PieceTypeQueen]
	materialEG += bits.OnesCount64(bb.Queens) * pieceValueEG[gm.PieceTypeQueen]
	return materialMG, materialEG
}

func pieceSquareScore(bb uint64, flip bool, psqtMG, psqtEG *[64]int) (mg, eg int) {
	for x := bb; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		if flip {
			sq = FlipView[sq]
		}
		mg += psqtMG[sq]
		eg += psqtEG[sq]
	}
	return mg, eg
}

func mobilityScore(pt gm.PieceType, attacks uint64) (mg, eg int) {
	n := bits.OnesCount64(attacks)
	return n * mobilityValueMG[pt], n * mobilityValueEG[pt]
}

func rookFileBonus(sq int, ownPawns, enemyPawns uint64) int {
	file := onlyFile[sq%8]
	if file&ownPawns == 0 && file&enemyPawns == 0 {
		return RookOpenMG
	}
	if file&ownPawns == 0 {
		return RookSemiOpenMG
	}
	return 0
}

var onlyFile = [8]uint64{
	0x0101010101010101, 0x0202020202020202, 0x0404040404040404, 0x0808080808080808,
	0x1010101010101010, 0x2020202020202020, 0x4040404040404040, 0x8080808080808080,
}

// Evaluation scores the position in centipawns from the perspective of the
// side to move. It is the only bridge between search and material/positional
// knowledge; everything downstream of this function treats it as a black box.
func Evaluation(b *gm.Board, debug bool) int32 {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()

	wMatMG, wMatEG := countMaterial(white)
	bMatMG, bMatEG := countMaterial(black)

	var mg, eg int

	pmg, peg := pieceSquareScore(white.Pawns, false, &PSQT_MG[gm.PieceTypePawn], &PSQT_EG[gm.PieceTypePawn])
	mg += pmg
	eg += peg
	pmg, peg = pieceSquareScore(black.Pawns, true, &PSQT_MG[gm.PieceTypePawn], &PSQT_EG[gm.PieceTypePawn])
	mg -= pmg
	eg -= peg

	occ := white.All | black.All
	for _, pt := range []gm.PieceType{gm.PieceTypeKnight, gm.PieceTypeBishop, gm.PieceTypeRook, gm.PieceTypeQueen, gm.PieceTypeKing} {
		wbb := pieceBitboard(white, pt)
		bbb := pieceBitboard(black, pt)

		wmg, weg := pieceSquareScore(wbb, false, &PSQT_MG[pt], &PSQT_EG[pt])
		bmg, beg := pieceSquareScore(bbb, true, &PSQT_MG[pt], &PSQT_EG[pt])
		mg += wmg - bmg
		eg += weg - beg

		if pt == gm.PieceTypeKnight || pt == gm.PieceTypeBishop || pt == gm.PieceTypeRook || pt == gm.PieceTypeQueen {
			for x := wbb; x != 0; x &= x - 1 {
				sq := bits.TrailingZeros64(x)
				a := attacksForPieceType(pt, sq, occ) &^ white.All
				amg, aeg := mobilityScore(pt, a)
				mg += amg
				eg += aeg
				if pt == gm.PieceTypeRook {
					b := rookFileBonus(sq, white.Pawns, black.Pawns)
					mg += b
				}
			}
			for x := bbb; x != 0; x &= x - 1 {
				sq := bits.TrailingZeros64(x)
				a := attacksForPieceType(pt, sq, occ) &^ black.All
				amg, aeg := mobilityScore(pt, a)
				mg -= amg
				eg -= aeg
				if pt == gm.PieceTypeRook {
					b := rookFileBonus(sq, black.Pawns, white.Pawns)
					mg -= b
				}
			}
		}
	}

	if bits.OnesCount64(white.Bishops) >= 2 {
		mg += BishopPairBonusMG
		eg += BishopPairBonusEG
	}
	if bits.OnesCount64(black.Bishops) >= 2 {
		mg -= BishopPairBonusMG
		eg -= BishopPairBonusEG
	}

	materialMG := wMatMG - bMatMG
	materialEG := wMatEG - bMatEG

	toMoveBonus := TempoBonus
	if b.SideToMove() != gm.White {
		toMoveBonus = -TempoBonus
	}

	mgScore := materialMG + mg + toMoveBonus
	egScore := materialEG + eg + toMoveBonus

	phase := GetPiecePhase(b)
	mgWeight := phase
	egWeight := TotalPhase - phase
	score := int32((mgScore*mgWeight + egScore*egWeight) / TotalPhase)

	if isTheoreticalDraw(b) {
		score /= DrawDivider
	}

	if debug {
		println("material mg/eg:", materialMG, materialEG, "variable mg/eg:", mg, eg, "phase:", phase, "score(white):", score)
	}

	if b.SideToMove() != gm.White {
		score = -score
	}
	return score
}

func pieceBitboard(bb gm.Bitboards, pt gm.PieceType) uint64 {
	switch pt {
	case gm.PieceTypeKnight:
		return bb.Knights
	case gm.PieceTypeBishop:
		return bb.Bishops
	case gm.PieceTypeRook:
		return bb.Rooks
	case gm.PieceTypeQueen:
		return bb.Queens
	case gm.PieceTypeKing:
		return bb.Kings
	}
	return 0
}

func attacksForPieceType(pt gm.PieceType, sq int, occ uint64) uint64 {
	switch pt {
	case gm.PieceTypeKnight:
		return gm.KnightAttacks(sq)
	case gm.PieceTypeBishop:
		return gm.CalculateBishopMoveBitboard(uint8(sq), occ)
	case gm.PieceTypeRook:
		return gm.CalculateRookMoveBitboard(uint8(sq), occ)
	case gm.PieceTypeQueen:
		return gm.CalculateBishopMoveBitboard(uint8(sq), occ) | gm.CalculateRookMoveBitboard(uint8(sq), occ)
	case gm.PieceTypeKing:
		return gm.KingAttacks(sq)
	}
	return 0
}

// isTheoreticalDraw recognizes a handful of classic insufficient-material draws.
func isTheoreticalDraw(b *gm.Board) bool {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()
	pawnCount := bits.OnesCount64(white.Pawns | black.Pawns)
	if pawnCount != 0 {
		return false
	}

	wKnights := bits.OnesCount64(white.Knights)
	wBishops := bits.OnesCount64(white.Bishops)
	wRooks := bits.OnesCount64(white.Rooks)
	wQueens := bits.OnesCount64(white.Queens)
	bKnights := bits.OnesCount64(black.Knights)
	bBishops := bits.OnesCount64(black.Bishops)
	bRooks := bits.OnesCount64(black.Rooks)
	bQueens := bits.OnesCount64(black.Queens)

	allPieces := bits.OnesCount64((white.All | black.All) &^ (white.Kings | black.Kings))

	if allPieces == 1 {
		return wKnights == 1 || wBishops == 1 || bKnights == 1 || bBishops == 1
	}
	if allPieces == 2 {
		if wKnights == 2 || bKnights == 2 {
			return true
		}
		if (wBishops+wKnights > 0 && wBishops+wKnights < 2) && (bBishops+bKnights > 0 && bBishops+bKnights < 2) {
			return true
		}
		if (wRooks == 1 && (bBishops == 1 || bKnights == 1 || bRooks == 1)) || (bRooks == 1 && (wBishops == 1 || wKnights == 1 || wRooks == 1)) {
			return true
		}
		if wQueens == 1 && bQueens == 1 {
			return true
		}
	}
	return false
}
