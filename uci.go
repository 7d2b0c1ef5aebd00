package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gochess/engine"
	gm "gochess/position"
)

func main() {
	uciLoop()
}

func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	board := gm.ParseFen(gm.Startpos)
	engine.ResetStateTracking(&board)

	var evalOnly = false
	var moveOrderingOnly = false
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "eval":
			evalOnly = true
		case "moveordering":
			moveOrderingOnly = true
		case "uci":
			fmt.Println("id name gochess 0.1")
			fmt.Println("id author gochess contributors")
			fmt.Println("option name Hash type spin default 256 min 1 max 4096")
			fmt.Println("option name Clear Hash type button")
			fmt.Println("option name Threads type spin default 1 min 1 max 1")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			board = gm.ParseFen(gm.Startpos)
			engine.ResetForNewGame()
		case "setoption":
			handleSetOption(line)
		case "debug":
			fields := strings.Fields(line)
			engine.PrintCutStats = len(fields) >= 2 && strings.ToLower(fields[1]) == "on"
		case "quit":
			return
		case "stop":
			engine.GlobalStop = true
		case "go":
			handleGo(line, &board, evalOnly, moveOrderingOnly)
		case "position":
			posScanner := bufio.NewScanner(strings.NewReader(line))
			posScanner.Split(bufio.ScanWords)
			posScanner.Scan() // skip the first token
			if !posScanner.Scan() {
				fmt.Println("info string Malformed position command")
				continue
			}
			if strings.ToLower(posScanner.Text()) == "startpos" {
				board = gm.ParseFen(gm.Startpos)
				posScanner.Scan() // advance the scanner to leave it in a consistent state
			} else if strings.ToLower(posScanner.Text()) == "fen" {
				fenstr := ""
				for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
					fenstr += posScanner.Text() + " "
				}
				if fenstr == "" {
					fmt.Println("info string Invalid fen position")
					continue
				}
				parsed, err := gm.ParseFEN(fenstr)
				if err != nil {
					fmt.Println("info string Malformed fen position:", err)
					continue
				}
				board = *parsed
			} else {
				fmt.Println("info string Invalid position subcommand")
				continue
			}
			engine.ResetStateTracking(&board)
			if strings.ToLower(posScanner.Text()) != "moves" {
				continue
			}
			for posScanner.Scan() { // for each move
				moveStr := strings.ToLower(posScanner.Text())
				legalMoves := board.GenerateLegalMoves()
				var nextMove gm.Move
				found := false
				for _, mv := range legalMoves {
					if mv.String() == moveStr {
						nextMove = mv
						found = true
						break
					}
				}
				if !found {
					parsed, err := gm.ParseMove(moveStr)
					if err != nil {
						fmt.Println("info string Contingency move parsing failed")
						continue
					}
					for _, mv := range legalMoves {
						if mv.From() == parsed.From() && mv.To() == parsed.To() && mv.PromotionPieceType() == parsed.PromotionPieceType() {
							nextMove = mv
							found = true
							break
						}
					}
					if !found {
						fmt.Println("info string Move", moveStr, "not found for position", board.ToFen())
						continue
					}
				}
				board.Apply(nextMove)
				engine.RecordState(&board)
			}
		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

// handleSetOption parses "setoption name <id> value <v>" and dispatches the
// options gochess actually honors: Hash (transposition table size in MB)
// and Clear Hash (empty the table). Threads is advertised but only 1 is
// ever honored, so it's accepted and ignored.
func handleSetOption(line string) {
	fields := strings.Fields(line)
	var nameParts, valueParts []string
	mode := ""
	for _, f := range fields[1:] {
		lower := strings.ToLower(f)
		switch lower {
		case "name":
			mode = "name"
			continue
		case "value":
			mode = "value"
			continue
		}
		switch mode {
		case "name":
			nameParts = append(nameParts, f)
		case "value":
			valueParts = append(valueParts, f)
		}
	}
	name := strings.ToLower(strings.Join(nameParts, " "))
	value := strings.Join(valueParts, " ")

	switch name {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			fmt.Println("info string Malformed Hash value", value)
			return
		}
		engine.SetHashSizeMB(mb)
	case "clear hash":
		engine.ClearHash()
	case "threads":
		// Only a single search thread is ever used; accepted for GUI compatibility.
	default:
		fmt.Println("info string Unknown option", name)
	}
}

// handleGo parses the full "go [...]" grammar (spec §6): depth, nodes,
// movetime, wtime/btime/winc/binc/movestogo, infinite, and perft. perft
// bypasses the search entirely and reports divide counts instead of a
// bestmove.
func handleGo(line string, board *gm.Board, evalOnly bool, moveOrderingOnly bool) {
	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip the first token

	var wTime, bTime, wInc, bInc int
	var movesToGo int
	var depthToUse int
	var moveTimeMs int
	var nodesToUse uint64
	var perftDepth int
	var isPerft bool
	var err error

	for goScanner.Scan() {
		nextToken := strings.ToLower(goScanner.Text())
		switch nextToken {
		case "infinite":
			continue
		case "wtime":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option wtime")
				continue
			}
			if wTime, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert wtime")
			}
		case "btime":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option btime")
				continue
			}
			if bTime, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert btime")
			}
		case "winc":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option winc")
				continue
			}
			if wInc, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert winc")
			}
		case "binc":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option binc")
				continue
			}
			if bInc, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert binc")
			}
		case "movestogo":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option movestogo")
				continue
			}
			if movesToGo, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert movestogo")
			}
		case "depth":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option depth")
				continue
			}
			if depthToUse, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert depth")
			}
		case "movetime":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option movetime")
				continue
			}
			if moveTimeMs, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert movetime")
			}
		case "nodes":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option nodes")
				continue
			}
			n, convErr := strconv.ParseUint(goScanner.Text(), 10, 64)
			if convErr != nil {
				fmt.Println("info string Malformed go command option; could not convert nodes")
				continue
			}
			nodesToUse = n
		case "perft":
			if !goScanner.Scan() {
				fmt.Println("info string Malformed go command option perft")
				continue
			}
			if perftDepth, err = strconv.Atoi(goScanner.Text()); err != nil {
				fmt.Println("info string Malformed go command option; could not convert perft")
				continue
			}
			isPerft = true
		default:
			fmt.Println("info string Unknown go subcommand", nextToken)
		}
	}

	if isPerft {
		runPerft(board, perftDepth)
		return
	}

	var timeToUse, incToUse int
	if board.SideToMove() == gm.White {
		timeToUse, incToUse = wTime, wInc
	} else {
		timeToUse, incToUse = bTime, bInc
	}

	var useCustomDepth = depthToUse > 0

	limits := engine.SearchLimits{
		Depth:          uint8(depthToUse),
		GameTime:       timeToUse,
		Increment:      incToUse,
		MovesToGo:      movesToGo,
		MoveTimeMs:     moveTimeMs,
		NodesLimit:     nodesToUse,
		UseCustomDepth: useCustomDepth,
	}

	// No explicit time control and no fixed movetime: fall back to a
	// generous default so eval/moveordering diagnostics and ad-hoc "go"
	// commands without clocks still terminate.
	if limits.GameTime <= 0 && limits.MoveTimeMs <= 0 {
		limits.GameTime = 300000
	}

	bestMove := engine.StartSearch(board, limits, evalOnly, moveOrderingOnly)
	fmt.Println("bestmove", bestMove)
}

// runPerft answers "go perft D" directly with a divide count per root move,
// bypassing the search entirely.
func runPerft(board *gm.Board, depth int) {
	if depth <= 0 {
		fmt.Println("info string perft depth must be > 0")
		return
	}
	div := gm.PerftDivide(board, depth)
	type kv struct {
		m gm.Move
		n uint64
	}
	arr := make([]kv, 0, len(div))
	var sum uint64
	for m, n := range div {
		arr = append(arr, kv{m, n})
		sum += n
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i].m.String() < arr[j].m.String() })
	for _, x := range arr {
		fmt.Printf("%s: %d\n", x.m.String(), x.n)
	}
	fmt.Printf("info string perft total %d\n", sum)
}
