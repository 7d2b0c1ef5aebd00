package engine

import (
	gm "gochess/position"
)

type move struct {
	move          gm.Move
	score         uint16
	capturedPiece gm.PieceType
}
type moveList struct {
	moves []move
}

// Most Valuable Victim - Least Valuable Aggressor; used to score & sort captures
var mvvLva [7][7]uint16 = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

/*
	Move ordering offsets!
	- PV moves should be considered first, as it will most likely guide us to the best path in IID; or the failed path in some beta-cutoffs so we can quit as early as possible.
	- Promotions feels like it should be super important the few times it can occur; while this logic might not be 100% solid I've just put this high up :)
	- Captures are important so we never miss any tactical shots, which most likely would mean immediately losing the game
	- History has the most weight out of all other moves, and we prefer killers over counters
*/
var pvOffset uint16 = 25000
var promotionOffset uint16 = 20000
var captureOffset uint16 = 15000
var killerOffset uint16 = 2000
var counterOffset uint16 = 1000

// GetPieceTypeAtPosition reports what piece type, if any, occupies a square
// within the given side's bitboards.
func GetPieceTypeAtPosition(square uint8, bitboards *gm.Bitboards) (pieceType gm.PieceType, occupied bool) {
	bb := uint64(1) << square
	switch {
	case bitboards.Pawns&bb != 0:
		return gm.PieceTypePawn, true
	case bitboards.Knights&bb != 0:
		return gm.PieceTypeKnight, true
	case bitboards.Bishops&bb != 0:
		return gm.PieceTypeBishop, true
	case bitboards.Rooks&bb != 0:
		return gm.PieceTypeRook, true
	case bitboards.Queens&bb != 0:
		return gm.PieceTypeQueen, true
	case bitboards.Kings&bb != 0:
		return gm.PieceTypeKing, true
	}
	return gm.PieceTypeNone, false
}

// orderNextMove selection-sorts the highest-scoring remaining move into currIndex.
func orderNextMove(currIndex uint8, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < uint8(len(moves.moves)); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	tempMove := moves.moves[currIndex]
	moves.moves[currIndex] = moves.moves[bestIndex]
	moves.moves[bestIndex] = tempMove
}

func scoreMovesList(board *gm.Board, moves []gm.Move, ply int8, pvMove gm.Move, prevMove gm.Move) (movesList moveList) {
	white := board.SideToMove() == gm.White
	bitboardsOwn := board.WhiteBitboards()
	bitboardsOpponent := board.BlackBitboards()
	if !white {
		bitboardsOwn, bitboardsOpponent = bitboardsOpponent, bitboardsOwn
	}

	side := 0
	if !white {
		side = 1
	}

	movesList.moves = make([]move, len(moves))
	for i := 0; i < len(moves); i++ {
		currMove := moves[i]
		var moveEval uint16
		capturedPiece, isCapture := GetPieceTypeAtPosition(uint8(currMove.To()), &bitboardsOpponent)
		promotePiece := currMove.PromotionPieceType()
		isPVMove := currMove == pvMove

		switch {
		case isPVMove:
			moveEval = pvOffset + 1500
		case promotePiece != gm.PieceTypeNone:
			moveEval = promotionOffset + uint16(PieceValueEG[promotePiece])
		case isCapture:
			pieceTypeFrom, _ := GetPieceTypeAtPosition(uint8(currMove.From()), &bitboardsOwn)
			moveEval = captureOffset + mvvLva[capturedPiece][pieceTypeFrom]
		case KillerMoveTable.KillerMoves[ply][0] == currMove:
			moveEval = killerOffset + 200
		case KillerMoveTable.KillerMoves[ply][1] == currMove:
			moveEval = killerOffset
		default:
			if h := historyMove[side][currMove.From()][currMove.To()]; h > 0 {
				moveEval = uint16(h)
			}
			if counterMove[side][prevMove.From()][prevMove.To()] == currMove {
				moveEval += counterOffset
			}
		}

		movesList.moves[i].move = currMove
		movesList.moves[i].score = moveEval
		movesList.moves[i].capturedPiece = capturedPiece
	}
	return movesList
}

func scoreMovesListCaptures(board *gm.Board, moves []gm.Move) (movesList moveList, anyCaptures bool) {
	white := board.SideToMove() == gm.White
	bitboardsOwn := board.WhiteBitboards()
	bitboardsOpponent := board.BlackBitboards()
	if !white {
		bitboardsOwn, bitboardsOpponent = bitboardsOpponent, bitboardsOwn
	}

	movesList.moves = make([]move, len(moves))
	var capturedMovesIndex uint8

	for i := 0; i < len(moves); i++ {
		currMove := moves[i]

		isPromotion := currMove.PromotionPieceType() != gm.PieceTypeNone
		ourPiece, _ := GetPieceTypeAtPosition(uint8(currMove.From()), &bitboardsOwn)
		enemyPiece, isCapture := GetPieceTypeAtPosition(uint8(currMove.To()), &bitboardsOpponent)

		if isCapture || isPromotion {
			var moveEval uint16
			switch {
			case isPromotion:
				moveEval = captureOffset + 75
			default:
				moveEval = mvvLva[enemyPiece][ourPiece]
			}

			movesList.moves[capturedMovesIndex].move = currMove
			movesList.moves[capturedMovesIndex].score = moveEval
			movesList.moves[capturedMovesIndex].capturedPiece = enemyPiece
			capturedMovesIndex++
		}
	}
	movesList.moves = movesList.moves[:capturedMovesIndex]

	return movesList, capturedMovesIndex > 0
}
