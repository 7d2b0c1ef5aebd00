package engine

import (
	"time"
	"unsafe"

	gm "gochess/position"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	clusterSize = 4

	// Unusable score
	UnusableScore = -32750
)

// TTSizeMB is the table size in megabytes, configurable at runtime via the
// UCI "Hash" option (see SetHashSizeMB). The table is rebuilt at this size
// the next time a search starts after it changes.
var TTSizeMB = 256

type TransTable struct {
	isInitialized bool
	entries       []TTEntry
	clusterCount  uint64
	generation    uint8
}

type TTEntry struct {
	Hash       uint64
	Depth      int8
	Move       gm.Move
	Score      int16
	Flag       int8
	Generation uint8
}

var TranspositionTime time.Duration

func (TT *TransTable) clearTT() {
	TT.entries = nil
	TT.isInitialized = false
	TT.clusterCount = 0
	TT.generation = 0
}

// NewSearch advances the table's generation counter. Entries written before
// this call are "older generation" and are preferred replacement targets
// ahead of same-generation entries of equal or greater depth, so a long
// process lifetime doesn't let stale entries starve out the current search.
func (TT *TransTable) NewSearch() {
	TT.generation++
}

// SetHashSizeMB resizes the transposition table, taking effect the next
// time a search initializes it (the table is lazily rebuilt once empty).
func SetHashSizeMB(mb int) {
	if mb < 1 {
		mb = 1
	}
	TTSizeMB = mb
	TT.clearTT()
}

// ClearHash empties the transposition table, as requested via the UCI
// "Clear Hash" button option or "ucinewgame".
func ClearHash() {
	TT.clearTT()
}

func (TT *TransTable) init() {
	// Set up transposition table
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	if entrySize == 0 {
		entrySize = 1
	}
	totalBytes := uint64(TTSizeMB) * 1024 * 1024
	clusterBytes := entrySize * clusterSize
	if clusterBytes == 0 {
		clusterBytes = entrySize
	}
	clusterCount := totalBytes / clusterBytes
	if clusterCount == 0 {
		clusterCount = 1
	}
	TT.clusterCount = clusterCount
	TT.entries = make([]TTEntry, TT.clusterCount*clusterSize)
	TT.isInitialized = true
}

func (TT *TransTable) useEntry(ttEntry *TTEntry, hash uint64, depth int8, alpha int16, beta int16, ply int8, excludedMove gm.Move) (usable bool, score int16) {
	score = UnusableScore
	usable = false
	if ttEntry != nil && ttEntry.Hash == hash {
		if excludedMove != 0 && ttEntry.Move == excludedMove {
			return false, score
		}
		if ttEntry.Depth >= depth {
			norm := ttEntry.Score
			if norm > int16(Checkmate) {
				norm -= int16(ply)
			} else if norm < -int16(Checkmate) {
				norm += int16(ply)
			}
			switch ttEntry.Flag {
			case ExactFlag:
				usable = true
				score = norm
			case AlphaFlag:
				if norm <= alpha {
					usable = true
					score = alpha
				}
			case BetaFlag:
				if norm >= beta {
					usable = true
					score = beta
				}
			}
		}
	}
	return usable, score
}

func (TT *TransTable) getEntry(hash uint64) (entry *TTEntry, found bool) {
	if TT.clusterCount == 0 {
		return nil, false
	}

	clusterIndex := hash % TT.clusterCount
	start := int(clusterIndex * clusterSize)
	for i := 0; i < clusterSize; i++ {
		next := &TT.entries[start+i]
		if next.Hash == hash {
			return next, true
		}
	}
	return nil, false
}

/*
storeEntry writes into the hash's cluster: it overwrites an entry with the same
hash if there is one, otherwise an empty slot, otherwise the entry that
replacementScore ranks worst (older generation first, then shallowest depth).
*/
func (TT *TransTable) storeEntry(hash uint64, depth int8, ply int8, move gm.Move, score int16, flag int8) {
	// Create entry
	if TT.clusterCount == 0 {
		return
	}

	clusterIndex := hash % TT.clusterCount
	base := int(clusterIndex * clusterSize)

	// If we have a mate score, we add the ply
	if score > int16(Checkmate) {
		score += int16(ply) //MaxScore - int16(depth)
	}
	if score < -int16(Checkmate) {
		score -= int16(ply) //= -MaxScore + int16(depth)
	}
	targetIdx := -1

	// Prefer updating existing entry
	for i := 0; i < clusterSize; i++ {
		idx := base + i
		if TT.entries[idx].Hash == hash {
			targetIdx = idx
			break
		}
	}

	// Next look for an empty slot
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			idx := base + i
			if TT.entries[idx].Hash == 0 {
				targetIdx = idx
				break
			}
		}
	}

	// Otherwise replace whichever entry in the cluster scores worst: an
	// older-generation entry beats a same-generation one regardless of
	// depth, and among same-generation entries the shallowest loses.
	if targetIdx == -1 {
		targetIdx = base
		worst := replacementScore(&TT.entries[base], TT.generation)
		for i := 1; i < clusterSize; i++ {
			idx := base + i
			if s := replacementScore(&TT.entries[idx], TT.generation); s > worst {
				worst = s
				targetIdx = idx
			}
		}
	}

	entry := &TT.entries[targetIdx]
	entry.Hash = hash
	entry.Depth = depth
	entry.Move = move
	entry.Flag = flag
	entry.Score = score
	entry.Generation = TT.generation
}

// replacementScore ranks how replaceable an entry is: higher means more
// replaceable. An entry from a previous search (older generation) always
// outranks a current-generation entry; within the same generation,
// shallower entries are preferred eviction targets.
func replacementScore(e *TTEntry, currentGen uint8) int {
	s := 0
	if e.Generation != currentGen {
		s += 1000
	}
	return s - int(e.Depth)
}
