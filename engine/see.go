package engine

import (
	"math/bits"

	gm "gochess/position"
)

// SeePieceValue gives the static-exchange piece weights, indexed by gm.PieceType.
var SeePieceValue = [7]int{
	gm.PieceTypeKing:   5000,
	gm.PieceTypePawn:   100,
	gm.PieceTypeKnight: 300,
	gm.PieceTypeBishop: 300,
	gm.PieceTypeRook:   500,
	gm.PieceTypeQueen:  900,
}

// see runs a static exchange evaluation of a capture sequence on move's target
// square and returns the net material gain for the side making the move.
func see(b *gm.Board, move gm.Move, debug bool) int {
	var gain [32]int
	var depth uint8

	whiteToMove := b.SideToMove() == gm.White

	initSquare := uint8(move.From())
	targetSquare := uint8(move.To())

	whiteBB := b.WhiteBitboards()
	blackBB := b.BlackBitboards()

	whiteAttackers := getPiecesAttackingSquare(targetSquare, whiteBB, blackBB, true)
	blackAttackers := getPiecesAttackingSquare(targetSquare, blackBB, whiteBB, false)
	attadef := whiteAttackers | blackAttackers

	var targetPiece, attacker gm.PieceType
	if whiteToMove {
		targetPiece, _ = GetPieceTypeAtPosition(targetSquare, &blackBB)
		attacker, _ = GetPieceTypeAtPosition(initSquare, &whiteBB)
	} else {
		targetPiece, _ = GetPieceTypeAtPosition(targetSquare, &whiteBB)
		attacker, _ = GetPieceTypeAtPosition(initSquare, &blackBB)
	}

	// En passant target square holds no piece; treat it as a pawn capture.
	if targetPiece == gm.PieceTypeNone {
		targetPiece = gm.PieceTypePawn
	}

	attackerBB := uint64(1) << initSquare
	gain[depth] = SeePieceValue[targetPiece]

	if debug {
		println("fen: ", b.ToFen(), "\tfrom: ", initSquare, "\tto: ", targetSquare, "\tattadef: ", attadef)
		println("depth: ", depth, "\twhiteToMove: ", whiteToMove, "\tattacker: ", attacker, "\tpiece taken: ", targetPiece, "\tgain: ", gain[depth])
	}

	whiteToMove = !whiteToMove

	for done := true; done; done = attackerBB != 0 {
		depth++
		gain[depth] = SeePieceValue[attacker] - gain[depth-1]

		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		attadef ^= attackerBB
		attackerBB, attacker = getClosestAttacker(b, attadef, whiteToMove, targetSquare)
		whiteToMove = !whiteToMove
	}

	for x := depth - 1; x > 0; x-- {
		gain[x-1] = -max(-gain[x-1], gain[x])
	}

	return gain[0]
}

// getPiecesAttackingSquare returns every piece belonging to usBB that attacks
// targetSquare, x-raying through same-type sliders as the exchange unwinds.
func getPiecesAttackingSquare(targetSquare uint8, usBB, enemyBB gm.Bitboards, white bool) uint64 {
	orthogonalAttacksXray := gm.CalculateRookMoveBitboard(targetSquare, (usBB.All&^(usBB.Rooks|usBB.Queens))|(enemyBB.All&^(enemyBB.Rooks|enemyBB.Queens))) &^ (usBB.All &^ (usBB.Rooks | usBB.Queens | enemyBB.Rooks | enemyBB.Queens))

	var attackBB, pawnBB uint64
	targetBB := uint64(1) << targetSquare

	for x := usBB.Pawns; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		bb := uint64(1) << sq
		east, west := pawnCaptureBitboards(bb, white)
		if (east|west)&targetBB != 0 {
			attackBB |= bb
			pawnBB |= bb
		}
	}

	diagonalAttacksXray := gm.CalculateBishopMoveBitboard(targetSquare, (usBB.All&^(usBB.Bishops|usBB.Queens|pawnBB))|enemyBB.All) &^ (usBB.All &^ (usBB.Bishops | usBB.Queens))

	hitPieces := attackBB | orthogonalAttacksXray&(usBB.Rooks|usBB.Queens)
	hitPieces |= diagonalAttacksXray & (usBB.Bishops | usBB.Queens)
	hitPieces |= gm.KnightAttacks(int(targetSquare)) & usBB.Knights
	hitPieces |= gm.KingAttacks(int(targetSquare)) & usBB.Kings

	return hitPieces
}

func getClosestAttacker(b *gm.Board, attadef uint64, white bool, targetSquare uint8) (uint64, gm.PieceType) {
	var usBB gm.Bitboards
	if white {
		usBB = b.WhiteBitboards()
	} else {
		usBB = b.BlackBitboards()
	}

	diagonalAttack := gm.CalculateBishopMoveBitboard(targetSquare, attadef) &^ (usBB.All &^ (usBB.Bishops | usBB.Queens))
	diagonalAttack &= attadef

	orthogonalAttack := gm.CalculateRookMoveBitboard(targetSquare, attadef) &^ (usBB.All &^ (usBB.Rooks | usBB.Queens))
	orthogonalAttack &= attadef

	east, west := pawnCaptureBitboards(uint64(1)<<targetSquare, !white)
	hitPieces := ((east | west) | diagonalAttack | orthogonalAttack | (gm.KnightAttacks(int(targetSquare)) & usBB.Knights)) & attadef
	return minAttacker(hitPieces, usBB)
}

func minAttacker(attadef uint64, bb gm.Bitboards) (uint64, gm.PieceType) {
	var subset uint64
	var piece gm.PieceType

	switch {
	case attadef&bb.Pawns != 0:
		subset = attadef & bb.Pawns
		piece = gm.PieceTypePawn
	case attadef&bb.Knights != 0:
		subset = attadef & bb.Knights
		piece = gm.PieceTypeKnight
	case attadef&bb.Bishops != 0:
		subset = attadef & bb.Bishops
		piece = gm.PieceTypeBishop
	case attadef&bb.Rooks != 0:
		subset = attadef & bb.Rooks
		piece = gm.PieceTypeRook
	case attadef&bb.Queens != 0:
		subset = attadef & bb.Queens
		piece = gm.PieceTypeQueen
	case attadef&bb.Kings != 0:
		subset = attadef & bb.Kings
		piece = gm.PieceTypeKing
	}

	if subset != 0 {
		return uint64(1) << bits.TrailingZeros64(subset), piece
	}
	return 0, piece
}

// pawnCaptureBitboards returns the east/west pawn-attack bitboards for a
// single-pawn bitboard bb belonging to the given color.
func pawnCaptureBitboards(bb uint64, white bool) (east, west uint64) {
	const fileA = 0x0101010101010101
	const fileH = 0x8080808080808080
	if white {
		east = (bb &^ fileH) << 9
		west = (bb &^ fileA) << 7
	} else {
		east = (bb &^ fileH) >> 7
		west = (bb &^ fileA) >> 9
	}
	return east, west
}
