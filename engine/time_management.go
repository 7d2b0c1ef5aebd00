package engine

import (
	"time"
)

type TimeHandler struct {
	remainingTime    int
	madeMoveCount    int
	increment        int
	movesToGo        int
	softDeadline     time.Time
	hardDeadline     time.Time
	stopSearch       bool
	isInitialized    bool
	usingCustomDepth bool
	usingFixedTime   bool

	// Score-stability tracking used to extend the soft budget on shaky iterations.
	lastBestMove  uint32
	stableDepths  int
	extendedTimes int
}

// initTimemanagement primes the handler for a new search. movesToGo is the
// GUI-supplied "go movestogo" count, or 0 when the GUI didn't send one.
func (th *TimeHandler) initTimemanagement(remaniningTime int, increment int, movesToGo int, madeMoveCount int, useCustomDepth bool) {
	th.remainingTime = remaniningTime
	th.increment = increment
	th.movesToGo = movesToGo
	th.madeMoveCount = madeMoveCount
	th.stopSearch = false
	th.isInitialized = true
	th.usingCustomDepth = useCustomDepth
	th.usingFixedTime = false
	th.stableDepths = 0
	th.extendedTimes = 0
}

const overheadMs = 30 // reserve for UCI/IO jitter

// StartTime computes the soft and hard time budgets for the upcoming search
// from the remaining clock, increment, and how much material/phase is left
// on the board (fewer pieces left means fewer moves expected before the
// game ends). The hard budget is a multiple of the soft one, giving an
// in-flight iteration room to finish instead of being cut off the instant
// the soft budget expires.
func (th *TimeHandler) StartTime(moveNumber int, piecePhase int) {
	th.madeMoveCount = moveNumber
	th.stopSearch = false

	movesLeft := th.movesToGo
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(piecePhase) // 20..45
	}

	// Engine-side safety knobs
	const minMoveMs = 5        // never less than this
	const maxFrac = 0.7        // never spend >70% of remaining time
	const panicThreshMs = 1000 // your existing threshold
	const panicFrac = 0.90     // use 90% of inc in panic
	const hardMultiplier = 5

	rem := th.remainingTime
	inc := th.increment

	var softMs int
	if inc > 0 {
		if rem < panicThreshMs {
			// Panic: try to "bank" a little time
			softMs = int(float64(inc) * panicFrac)
		} else {
			// Normal: spend a fraction of remaining + take (most of) the inc
			softMs = rem/movesLeft + inc*3/4
		}
	} else {
		softMs = rem / 40
	}

	// Apply overhead and clamps
	if softMs < minMoveMs {
		softMs = minMoveMs
	}
	if softMs > int(float64(rem)*maxFrac) {
		softMs = int(float64(rem) * maxFrac)
	}
	if softMs > rem-overheadMs {
		softMs = rem - overheadMs
	}
	if softMs < minMoveMs {
		softMs = minMoveMs
	} // re-check after ceiling

	hardMs := softMs * hardMultiplier
	if ceiling := rem - overheadMs; hardMs > ceiling {
		hardMs = ceiling
	}
	if hardMs < softMs {
		hardMs = softMs
	}

	now := time.Now()
	th.softDeadline = now.Add(time.Duration(softMs) * time.Millisecond)
	th.hardDeadline = now.Add(time.Duration(hardMs) * time.Millisecond)
}

// StartTimeFixed honors a "go movetime ms" request: soft and hard collapse
// to the same deadline since the GUI asked for an exact budget, not one
// iterative deepening should reason about extending or cutting short.
func (th *TimeHandler) StartTimeFixed(moveTimeMs int) {
	th.stopSearch = false
	th.usingFixedTime = true
	if moveTimeMs < 1 {
		moveTimeMs = 1
	}
	deadline := time.Now().Add(time.Duration(moveTimeMs) * time.Millisecond)
	th.softDeadline = deadline
	th.hardDeadline = deadline
}

func (th *TimeHandler) Update(extraTime int64) {
	deadline := time.Now().Add(time.Duration(extraTime) * time.Millisecond)
	th.softDeadline = deadline
	if deadline.After(th.hardDeadline) {
		th.hardDeadline = deadline
	}
}

// SoftTimeExceeded reports whether the soft per-move budget has run out.
// Checked between iterative-deepening iterations to decide whether to
// start another one.
func (th *TimeHandler) SoftTimeExceeded() bool {
	return !th.usingCustomDepth && time.Now().After(th.softDeadline)
}

// ShouldStopEarly reports whether the search should abandon the current
// iterative-deepening pass immediately.
func (th *TimeHandler) ShouldStopEarly() bool {
	return !th.usingCustomDepth && th.stopSearch
}

// UpdateStability tracks how often the best move/score changes between
// iterations; an unstable root suggests the position is sharp and merits
// extra time.
func (th *TimeHandler) UpdateStability(score int16, bestMove uint32) {
	if bestMove == th.lastBestMove {
		th.stableDepths++
	} else {
		th.stableDepths = 0
	}
	th.lastBestMove = bestMove
}

// ShouldExtendTime reports whether the root move has been unstable enough to
// warrant extending the current search's soft time budget. Fixed-movetime
// searches never extend: the GUI asked for an exact budget.
func (th *TimeHandler) ShouldExtendTime() bool {
	return !th.usingFixedTime && th.stableDepths < 2 && th.extendedTimes < 2
}

// ExtendTime grants extra thinking time for an unstable root by moving the
// soft deadline 250ms later; if that passes the hard deadline, the hard
// deadline is moved to match it.
func (th *TimeHandler) ExtendTime() {
	th.extendedTimes++
	remaining := time.Until(th.softDeadline).Milliseconds()
	th.Update(remaining + 250)
}

// TimeStatus reports whether the hard deadline has passed and the search
// must abort mid-iteration, regardless of what the soft budget says.
func (th *TimeHandler) TimeStatus() bool {
	if th.hardDeadline.Before(time.Now()) && !th.usingCustomDepth {
		return true
	}
	return false
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	// May consider even lower in endgame and even higher in opening/midgame
	return (phase*25)/24 + 20 // result in [20, 45]
}
