package engine

import (
	"fmt"
	"time"

	gm "gochess/position"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

var KillerMoveTable KillerStruct

var ttMoveAvailable uint64
var ttMoveNotAvailable uint64

var SearchTime time.Duration
var searchShouldStop bool

// =============================================================================
// MARGINS
// =============================================================================
var FutilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var RFPMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var RazoringMargins = [4]int32{0, 125, 225, 325}

var LateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

// =============================================================================
// LMR/PRUNING PARAMETERS - int8 is fine for depth-related values
// =============================================================================
var LMRDepthLimit int8 = 2
var LMRMoveLimit = 2
var LMRHistoryReductionScale = 4000
var LMRHistoryLowThreshold = 0
var LMRLegalMovesLimit = 6
var NullMoveMinDepth int8 = 2
var SEEPruneDepth int8 = 8
var SEEPruneMargin = -20
var QuiescenceSeeMargin int = 100

// Score-related - use int32
var DeltaMargin int32 = 200
var aspirationWindowSize int32 = 35
var prevSearchScore int32 = 0

var TT TransTable
var timeHandler TimeHandler
var GlobalStop = false

// nodeLimit caps the nodes visited during a single search, honoring
// "go nodes N". Zero means unlimited.
var nodeLimit uint64

func nodeLimitExceeded() bool {
	return nodeLimit != 0 && nodesChecked >= nodeLimit
}

func whiteToMove(b *gm.Board) bool { return b.SideToMove() == gm.White }

// SearchLimits bundles every constraint a UCI "go" command can place on a
// search, replacing a long flat parameter list with one value the caller
// builds directly from the parsed command tokens.
type SearchLimits struct {
	Depth          uint8
	GameTime       int
	Increment      int
	MovesToGo      int
	MoveTimeMs     int
	NodesLimit     uint64
	UseCustomDepth bool
}

func StartSearch(board *gm.Board, limits SearchLimits, evalOnly bool, moveOrderingOnly bool) string {
	initVariables(board)

	// Stat reset
	ensureStateStackSynced(board)
	resetCutStats()

	if !TT.isInitialized {
		TT.init()
	}
	TT.NewSearch()

	GlobalStop = false
	nodeLimit = limits.NodesLimit

	if limits.MoveTimeMs > 0 {
		timeHandler.isInitialized = true
		timeHandler.usingCustomDepth = limits.UseCustomDepth
		timeHandler.StartTimeFixed(limits.MoveTimeMs)
	} else {
		timeHandler.initTimemanagement(limits.GameTime, limits.Increment, limits.MovesToGo, board.FullmoveNumber(), limits.UseCustomDepth)
		timeHandler.StartTime(board.FullmoveNumber(), GetPiecePhase(board))
	}

	var bestMove gm.Move

	if evalOnly {
		Evaluation(board, true)
		println("Is this a theoretical draw: ", isTheoreticalDraw(board))
		return ""
	}

	if moveOrderingOnly {
		dumpRootMoveOrdering(board)
		return ""
	}

	depth := limits.Depth
	if depth == 0 {
		depth = MaxDepth
	}

	_, bestMove = rootsearch(board, depth, limits.UseCustomDepth)

	if PrintCutStats {
		dumpCutStats()
		PrintCutStats = false
	}

	return bestMove.String()
}

func rootsearch(b *gm.Board, depth uint8, useCustomDepth bool) (int, gm.Move) {
	var timeSpent int64
	var alpha int32 = -MaxScore
	var beta int32 = MaxScore
	var bestScore int32 = -MaxScore
	rootIndex := len(stateStack) - 1

	// Use previous search score as center of aspiration window if available
	if prevSearchScore != 0 {
		alpha = prevSearchScore - aspirationWindowSize
		beta = prevSearchScore + aspirationWindowSize
	}

	var nullMove gm.Move
	var bestMove gm.Move
	var pvLine PVLine
	var prevPVLine PVLine
	var mateFound bool

	currentWindow := aspirationWindowSize

	for i := uint8(1); i <= depth; i++ {
		if !useCustomDepth && i > 1 {
			if timeHandler.SoftTimeExceeded() && !timeHandler.ShouldExtendTime() {
				break
			}
			if timeHandler.ShouldStopEarly() {
				break
			}
		}

		pvLine.Clear()
		mateFound = false

		startTime := time.Now()
		score := alphabeta(b, alpha, beta, int8(i), 0, &pvLine, nullMove, false, false, 0, rootIndex)
		timeSpent += time.Since(startTime).Milliseconds()

		if searchShouldStop || timeHandler.TimeStatus() || timeHandler.stopSearch || GlobalStop {
			if len(prevPVLine.Moves) == 0 && len(pvLine.Moves) > 0 {
				bestScore = score
				prevSearchScore = bestScore
				prevPVLine = pvLine.Clone()
			}
			break
		}

		if timeSpent == 0 {
			timeSpent = 1
		}
		nps := uint64(float64(nodesChecked*1000) / float64(timeSpent))

		theMoves := getPVLineString(pvLine)

		// Aspiration window re-search
		if score <= alpha || score >= beta {
			if alpha <= -MaxScore && beta >= MaxScore {
				currentWindow *= 2
			} else {
				if currentWindow >= int32(MaxScore) {
					currentWindow = int32(MaxScore)
				} else {
					currentWindow *= 2
				}
			}

			alpha = score - currentWindow
			beta = score + currentWindow

			if alpha < -MaxScore {
				alpha = -MaxScore
			}
			if beta > MaxScore {
				beta = MaxScore
			}
			i--
			continue
		}

		if (score > Checkmate || score < -Checkmate) && len(pvLine.Moves) > 0 {
			mateFound = true
		}

		alpha = score - aspirationWindowSize
		beta = score + aspirationWindowSize
		bestScore = score

		if len(pvLine.Moves) > 0 {
			timeHandler.UpdateStability(int16(score), uint32(pvLine.Moves[0]))
		}

		if timeHandler.ShouldExtendTime() {
			timeHandler.ExtendTime()
		}

		currentWindow = int32(aspirationWindowSize)

		prevSearchScore = bestScore
		prevPVLine = pvLine.Clone()

		fmt.Println(
			"info depth", i,
			"score", getMateOrCPScore(int(score)),
			"nodes", nodesChecked,
			"time", timeSpent,
			"nps", nps,
			"pv", theMoves,
		)

		if mateFound {
			break
		}
	}

	// Reset per-search globals
	nodesChecked = 0
	searchShouldStop = false
	timeHandler.stopSearch = false

	bestMove = prevPVLine.GetPVMove()

	return int(bestScore), bestMove
}

func alphabeta(b *gm.Board, alpha int32, beta int32, depth int8, ply int8, pvLine *PVLine, prevMove gm.Move, didNull bool, isExtended bool, excludedMove gm.Move, rootIndex int) int32 {
	nodesChecked++

	if nodesChecked&4095 == 0 {
		if timeHandler.TimeStatus() || nodeLimitExceeded() {
			searchShouldStop = true
		}
	}

	if ply >= MaxDepth {
		return Evaluation(b, false)
	}

	if GlobalStop || searchShouldStop {
		return 0
	}

	/* INIT KEY VARIABLES */
	var bestMove gm.Move
	var childPVLine = PVLine{}
	var isPVNode = (beta - alpha) > 1
	var isRoot = ply == 0

	// Draw detection
	if !isRoot {
		if isDraw(rootIndex) {
			return DrawScore
		}
		if alpha < DrawScore && upcomingRepetition(rootIndex) {
			alpha = DrawScore
		}
	}

	inCheck := b.OurKingInCheck()

	// Check extension
	if inCheck {
		depth++
	}

	if !inCheck && !b.HasLegalMoves() {
		return DrawScore
	}

	// Quiescence at leaf nodes
	if depth <= 0 {
		return quiescence(b, alpha, beta, &childPVLine, 30, ply, rootIndex)
	}

	posHash := b.Hash()

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	ttEntry, ttHit := TT.getEntry(posHash)
	if ttHit {
		ttMoveAvailable++
	} else {
		ttMoveNotAvailable++
	}
	usable, ttScore16 := TT.useEntry(ttEntry, posHash, depth, int16(alpha), int16(beta), ply, excludedMove)
	ttScore := int32(ttScore16)

	if usable && !isRoot && !isPVNode {
		cutStats.TTCutoffs++
		return ttScore
	}

	var staticScore int32
	var ttMove gm.Move
	if ttHit {
		ttMove = ttEntry.Move
	}

	if usable {
		staticScore = int32(ttEntry.Score)
		bestMove = ttMove
	} else {
		staticScore = Evaluation(b, false)
	}

	improving := false
	if ply >= 2 && !inCheck {
		improving = staticScore > alpha
	}

	wCount, bCount := hasMinorOrMajorPiece(b)
	white := whiteToMove(b)
	sideHasPieces := (white && wCount > 0) || (!white && bCount > 0)

	/*
		STATIC NULL MOVE / REVERSE FUTILITY PRUNING
	*/
	if !inCheck && !isPVNode && depth <= 7 && depth >= 1 && abs32(beta) < Checkmate && !isRoot {
		rfpMargin := RFPMargins[depth]
		if !improving {
			rfpMargin -= 50
		}
		if staticScore-rfpMargin >= beta {
			cutStats.StaticNullCutoffs++
			TT.storeEntry(posHash, depth, ply, ttMove, int16(staticScore-rfpMargin), BetaFlag)
			return staticScore - rfpMargin
		}
	}

	/*
		RAZORING
	*/
	if !inCheck && !isPVNode && !isRoot && depth >= 1 && depth <= 3 && abs32(alpha) < Checkmate {
		razorMargin := int32(RazoringMargins[depth])
		if staticScore+razorMargin <= alpha {
			qScore := quiescence(b, alpha, beta, &childPVLine, 30, ply, rootIndex)
			if qScore <= alpha {
				cutStats.RazoringCutoffs++
				return qScore
			}
		}
	}

	/*
		NULL MOVE PRUNING
	*/
	if !inCheck && !isPVNode && !didNull && sideHasPieces && depth >= NullMoveMinDepth && !isRoot {
		unApplyfunc := applyNullMoveWithState(b)

		var R int8 = 3 + depth/3
		if depth > 6 {
			R++
		}
		if R > depth-1 {
			R = depth - 1
		}

		score := -alphabeta(b, -beta, -beta+1, depth-1-R, ply+1, &childPVLine, bestMove, true, isExtended, 0, rootIndex)
		unApplyfunc()

		if score >= beta && score < Checkmate {
			cutStats.NullMoveCutoffs++
			TT.storeEntry(posHash, depth, ply, ttMove, int16(score), BetaFlag)
			if depth > 10 {
				verifyScore := alphabeta(b, beta-1, beta, depth-1-R, ply, &childPVLine, prevMove, true, isExtended, 0, rootIndex)
				if verifyScore >= beta {
					return verifyScore
				}
			} else {
				return score
			}
		}
	}

	/*
		SINGULAR EXTENSION
	*/
	var singularExtension bool
	if !isPVNode && !isRoot && !inCheck && !didNull && !isExtended && depth >= 8 && ttMove != 0 && ttEntry.Flag == ExactFlag && ttEntry.Depth >= depth-3 {
		ttValue := int32(ttEntry.Score)
		if ttValue < Checkmate && ttValue > -Checkmate {
			margin := int32(50 + 10*depth)
			scoreToBeat := ttValue - margin
			R := int8(3) + depth/4
			if R > depth-1 {
				R = depth - 1
			}
			var verificationPV PVLine
			scoreSingular := alphabeta(b, scoreToBeat-1, scoreToBeat, depth-1-R, ply, &verificationPV, prevMove, didNull, true, ttMove, rootIndex)
			if scoreSingular < scoreToBeat {
				singularExtension = true
			}
		}
	}

	/*
	   INTERNAL ITERATIVE DEEPENING
	   When we have no TT move at sufficient depth, do a reduced search to find one.
	*/
	if ttMove == 0 && depth >= 5 && !didNull && !isExtended {
		reducedDepth := depth - 2
		if depth >= 8 {
			reducedDepth = depth - depth/4
		}

		var iidPV PVLine
		alphabeta(b, alpha, beta, reducedDepth, ply, &iidPV, prevMove, false, true, 0, rootIndex)

		iidEntry, iidHit := TT.getEntry(posHash)
		if iidHit && iidEntry.Move != 0 {
			ttMove = iidEntry.Move
			bestMove = ttMove
		}
	}

	// Generate and score moves
	allMoves := b.GenerateLegalMoves()

	if len(allMoves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply) // Checkmate
		}
		return DrawScore // Stalemate
	}

	var score int32 = -MaxScore
	var bestScore int32 = -MaxScore
	var moveList = scoreMovesList(b, allMoves, ply, bestMove, prevMove)
	var ttFlag int8 = AlphaFlag
	legalMoves := 0

	quietMovesTried := make([]gm.Move, 0, 16)

	for index := uint8(0); index < uint8(len(moveList.moves)); index++ {
		orderNextMove(index, &moveList)
		move := moveList.moves[index].move

		if move == excludedMove {
			continue
		}

		sideIdx := 0
		if !white {
			sideIdx = 1
		}

		isCapture := gm.IsCapture(move, b)
		moveGivesCheck := b.GivesCheck(move)
		isPromotion := move.PromotionPieceType() != gm.PieceTypeNone

		tactical := isCapture || moveGivesCheck || isPromotion
		legalMoves++

		/*
			LATE MOVE PRUNING
		*/
		if depth <= 8 && !isPVNode && !tactical && !isRoot && legalMoves > 1 {
			lmpMargin := LateMovePruningMargins[min(int(depth), len(LateMovePruningMargins)-1)]
			if !improving {
				lmpMargin = lmpMargin * 2 / 3
			}
			if lmpMargin > 0 && legalMoves > lmpMargin {
				cutStats.LateMovePrunes++
				continue
			}
		}

		/*
			FUTILITY PRUNING
		*/
		if depth <= 7 && depth >= 1 && !moveGivesCheck && !isPVNode && !isRoot && !tactical && abs32(alpha) < Checkmate {
			futilityMargin := FutilityMargins[depth]
			if !improving {
				futilityMargin -= 50
			}
			if staticScore+futilityMargin <= alpha {
				cutStats.FutilityPrunes++
				continue
			}
		}

		if !isCapture {
			quietMovesTried = append(quietMovesTried, move)
		}

		unapplyFunc := applyMoveWithState(b, move)

		extendMove := !isExtended && move == ttMove && singularExtension
		nextExtended := isExtended || extendMove

		if legalMoves == 1 {
			nextDepth := calculateSearchDepth(depth-1, 0, extendMove)
			score = -alphabeta(b, -beta, -alpha, nextDepth, ply+1, &childPVLine, move, false, nextExtended, 0, rootIndex)
		} else {
			moveHistoryScore := historyMove[sideIdx][move.From()][move.To()]

			var reduct int8 = 0
			if depth >= LMRDepthLimit && legalMoves >= LMRMoveLimit && !moveGivesCheck && !tactical {
				reduct = computeLMRReduction(depth, legalMoves, int(index), isPVNode, tactical, moveHistoryScore)
			}

			score = searchMoveWithPVS(b, move, depth-1, reduct, alpha, beta, ply, extendMove, nextExtended, rootIndex, &childPVLine)
		}

		unapplyFunc()

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score >= beta {
			cutStats.BetaCutoffs++
			ttFlag = BetaFlag
			if !isCapture {
				InsertKiller(move, ply, &KillerMoveTable)
				storeCounter(white, prevMove, move)
				incrementHistoryScore(white, move, depth)

				for _, failedMove := range quietMovesTried {
					if failedMove != move {
						decrementHistoryScoreBy(white, failedMove, depth)
					}
				}
			}
			break
		}

		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pvLine.Update(move, childPVLine)

			if !isCapture {
				incrementHistoryScore(white, move, depth)
			}
		}
	}

	childPVLine.Clear()

	if !timeHandler.stopSearch && !GlobalStop && !searchShouldStop {
		TT.storeEntry(posHash, depth, ply, bestMove, int16(bestScore), ttFlag)
	}

	return bestScore
}

func quiescence(b *gm.Board, alpha int32, beta int32, pvLine *PVLine, depth int8, ply int8, rootIndex int) int32 {
	nodesChecked++

	if nodesChecked&2047 == 0 {
		if timeHandler.TimeStatus() || nodeLimitExceeded() {
			searchShouldStop = true
		}
	}

	if GlobalStop || searchShouldStop {
		return 0
	}

	inCheck := b.OurKingInCheck()
	var childPVLine = PVLine{}

	var standpat int32 = Evaluation(b, false)

	if !inCheck {
		if standpat >= beta {
			cutStats.QStandPatCutoffs++
			return standpat
		}
		if standpat > alpha {
			alpha = standpat
		}
	}

	var bestScore int32
	if inCheck {
		bestScore = -MaxScore // Must escape check
	} else {
		bestScore = standpat
	}

	var moveList moveList
	if inCheck {
		moveList = scoreMovesList(b, b.GenerateLegalMoves(), ply, gm.Move(0), gm.Move(0))
	} else {
		moveList, _ = scoreMovesListCaptures(b, b.GenerateCaptures())
	}

	for index := uint8(0); index < uint8(len(moveList.moves)); index++ {
		orderNextMove(index, &moveList)
		move := moveList.moves[index].move

		if !inCheck {
			seeScore := see(b, move, false)
			if seeScore < -QuiescenceSeeMargin {
				continue
			}

			capturedPiece := move.CapturedPiece()
			moveGain := int32(0)
			if capturedPiece != gm.NoPiece {
				moveGain = int32(pieceValueMG[capturedPiece.Type()])
			}

			if move.PromotionPieceType() != gm.PieceTypeNone {
				moveGain += int32(pieceValueMG[move.PromotionPieceType()] - pieceValueMG[gm.PieceTypePawn])
			}

			if standpat+moveGain+DeltaMargin < alpha {
				continue
			}
		}

		unapplyFunc := applyMoveWithState(b, move)

		score := -quiescence(b, -beta, -alpha, &childPVLine, depth-1, ply+1, rootIndex)
		unapplyFunc()

		if score > bestScore {
			bestScore = score
		}

		if score >= beta {
			cutStats.QBetaCutoffs++
			return score
		}

		if score > alpha {
			alpha = score
			pvLine.Update(move, childPVLine)
		}
		childPVLine.Clear()
	}

	return bestScore
}

// calculateSearchDepth computes the search depth for a move, accounting for reductions and extensions
func calculateSearchDepth(baseDepth int8, reduction int8, extendMove bool) int8 {
	depth := baseDepth - reduction
	if extendMove && reduction == 0 {
		depth++
	}
	return depth
}

// searchMoveWithPVS performs a Principal Variation Search for a move:
// 1. Search with reduced depth using a null window
// 2. If reduction was applied and score > alpha, re-search at full depth with null window
// 3. If score is between alpha and beta, do a full window search
func searchMoveWithPVS(b *gm.Board, move gm.Move, baseDepth int8, reduction int8,
	alpha int32, beta int32, ply int8, extendMove bool, nextExtended bool,
	rootIndex int, childPVLine *PVLine) int32 {

	nextDepth := calculateSearchDepth(baseDepth, reduction, extendMove)
	score := -alphabeta(b, -(alpha + 1), -alpha, nextDepth, ply+1, childPVLine, move, false, nextExtended, 0, rootIndex)

	if score > alpha && reduction > 0 {
		nextDepth = calculateSearchDepth(baseDepth, 0, extendMove)
		score = -alphabeta(b, -(alpha + 1), -alpha, nextDepth, ply+1, childPVLine, move, false, nextExtended, 0, rootIndex)
	}

	if score > alpha && score < beta {
		nextDepth = calculateSearchDepth(baseDepth, 0, extendMove)
		score = -alphabeta(b, -beta, -alpha, nextDepth, ply+1, childPVLine, move, false, nextExtended, 0, rootIndex)
	}

	return score
}

func applyMoveWithState(b *gm.Board, move gm.Move) func() {
	unapply := b.Apply(move)
	pushState(b)
	return func() {
		unapply()
		popState()
	}
}

func applyNullMoveWithState(b *gm.Board) func() {
	unapply := b.ApplyNullMove()
	pushState(b)
	return func() {
		unapply()
		popState()
	}
}
