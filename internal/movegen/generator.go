// Package movegen implements lazy staged move generation and static
// exchange evaluation on top of the board package.
package movegen

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/table"
)

type state uint8

const (
	stateTransposition state = iota
	stateGoodCapture
	stateKiller
	stateQuiet
	stateBadCapture
	stateEvasion
	stateGoodCaptureQS
	stateCheckQS
	stateEnd
)

func (s state) String() string {
	switch s {
	case stateTransposition:
		return "transposition"
	case stateGoodCapture:
		return "good capture"
	case stateKiller:
		return "killer"
	case stateQuiet:
		return "quiet"
	case stateBadCapture:
		return "bad capture"
	case stateEvasion:
		return "evasion"
	case stateGoodCaptureQS:
		return "good capture qs"
	case stateCheckQS:
		return "check qs"
	case stateEnd:
		return "end"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

var (
	mainSequence      = []state{stateTransposition, stateGoodCapture, stateKiller, stateQuiet, stateBadCapture, stateEnd}
	quiescentAll      = []state{stateGoodCaptureQS, stateCheckQS, stateEnd}
	quiescentCaptures = []state{stateGoodCaptureQS, stateEnd}
	evasionSequence   = []state{stateEvasion, stateEnd}
)

// frame is the generator state of one initialized ply.
type frame struct {
	sequence  []state
	current   int
	generated bool

	attack  *board.Attack
	ttMove  board.Move
	killer1 board.Move
	killer2 board.Move
}

func (f *frame) state() state {
	return f.sequence[f.current]
}

func (f *frame) advance() {
	f.current++
	f.generated = false
}

// Generator produces moves for a position one at a time, in stages.
// Every Initialize call must be paired with a Destroy call once the ply is
// finished; frames nest like the recursive search that drives them.
type Generator struct {
	pos     *board.Position
	geo     *board.Geometry
	killers *table.KillerTable
	history *table.HistoryTable

	// moves holds the window of the current stage.
	moves *MoveList
	// bad holds captures deferred from the good capture stage.
	bad *MoveList
	// quiet holds piece moves to empty squares found while scanning for captures.
	quiet *MoveList

	frames []frame
}

// New creates a generator for the position. killers and history may be
// nil, in which case empty tables are used.
func New(pos *board.Position, killers *table.KillerTable, history *table.HistoryTable) *Generator {
	if killers == nil {
		killers = table.NewKillerTable()
	}
	if history == nil {
		history = table.NewHistoryTable()
	}
	return &Generator{
		pos:     pos,
		geo:     pos.Geometry(),
		killers: killers,
		history: history,
		moves:   NewMoveList(),
		bad:     NewMoveList(),
		quiet:   NewMoveList(),
		frames:  make([]frame, 0, table.MaxHeight+1),
	}
}

// Depth returns the number of initialized frames.
func (g *Generator) Depth() int {
	return len(g.frames)
}

func (g *Generator) pushFrame(attack *board.Attack) *frame {
	g.moves.push()
	g.bad.push()
	g.quiet.push()

	g.frames = append(g.frames, frame{
		attack:  attack,
		ttMove:  board.NoMove,
		killer1: board.NoMove,
		killer2: board.NoMove,
	})
	return &g.frames[len(g.frames)-1]
}

// InitializeMain prepares the generator for a full-width node. attack must
// be the attack on the king of the side to move. When it is a check, all
// evasions are generated at once and their count is stored in
// attack.NumberOfMoves.
func (g *Generator) InitializeMain(attack *board.Attack, height int, ttMove board.Move) {
	f := g.pushFrame(attack)
	f.ttMove = ttMove
	f.killer1 = g.killers.Primary(height)
	f.killer2 = g.killers.Secondary(height)

	if attack.IsCheck() {
		g.initializeEvasion(f)
		return
	}
	f.sequence = mainSequence
}

// InitializeQuiescent prepares the generator for a quiescence node. Quiet
// checks are included when includeChecks is set.
func (g *Generator) InitializeQuiescent(attack *board.Attack, includeChecks bool) {
	f := g.pushFrame(attack)

	if attack.IsCheck() {
		g.initializeEvasion(f)
		return
	}
	if includeChecks {
		f.sequence = quiescentAll
	} else {
		f.sequence = quiescentCaptures
	}
}

func (g *Generator) initializeEvasion(f *frame) {
	f.sequence = evasionSequence
	f.generated = true

	g.generateEvasion(f.attack)
	g.rateEvasion(f)
	g.moves.sort()

	f.attack.NumberOfMoves = g.moves.Len()
}

// Destroy releases the frame of the last Initialize call.
func (g *Generator) Destroy() {
	if len(g.frames) == 0 {
		panic("movegen: destroy without initialize")
	}
	g.frames = g.frames[:len(g.frames)-1]

	g.moves.pop()
	g.bad.pop()
	g.quiet.pop()
}

// Next returns the next move of the current frame, or board.NoMove when
// the frame is exhausted. Every returned move is legal.
func (g *Generator) Next() board.Move {
	if len(g.frames) == 0 {
		panic("movegen: next without initialize")
	}
	f := &g.frames[len(g.frames)-1]

	for {
		if !f.generated {
			g.generate(f)
			f.generated = true
		}

		switch f.state() {
		case stateEnd:
			return board.NoMove

		case stateTransposition:
			f.advance()
			if f.ttMove != board.NoMove && g.isPseudoLegal(f.ttMove) && g.isLegal(f.ttMove) {
				return f.ttMove
			}
			continue
		}

		m, ok := g.moves.next()
		if !ok {
			f.advance()
			continue
		}

		switch f.state() {
		case stateGoodCapture:
			if m == f.ttMove || !g.isLegal(m) {
				continue
			}
			if !g.isGoodCapture(m) {
				g.bad.add(m)
				continue
			}
		case stateKiller:
			if m == f.ttMove || !g.isKillerPseudo(m) || !g.isLegal(m) {
				continue
			}
		case stateQuiet:
			if m == f.ttMove || m == f.killer1 || m == f.killer2 || !g.isLegal(m) {
				continue
			}
		case stateBadCapture, stateEvasion:
		case stateGoodCaptureQS:
			if !g.isLegal(m) || !g.isGoodCapture(m) {
				continue
			}
		case stateCheckQS:
			if !g.isLegal(m) || SEE(g.pos, m) < 0 {
				continue
			}
		default:
			panic(fmt.Sprintf("movegen: unknown state %s", f.state()))
		}

		return m
	}
}

// generate fills the move window for the state the frame just entered.
func (g *Generator) generate(f *frame) {
	switch f.state() {
	case stateGoodCapture:
		g.moves.reset()
		g.quiet.reset()
		g.generateCaptures()
		g.rateFromMVVLVA()
		g.moves.sort()
	case stateKiller:
		g.moves.reset()
		if f.killer1 != board.NoMove {
			g.moves.add(f.killer1)
		}
		if f.killer2 != board.NoMove {
			g.moves.add(f.killer2)
		}
	case stateQuiet:
		g.moves.reset()
		g.generateNonCaptures()
		g.rateFromHistory()
		g.moves.sort()
	case stateBadCapture:
		g.moves.reset()
		g.moves.copyFrom(g.bad)
	case stateGoodCaptureQS:
		g.moves.reset()
		g.quiet.reset()
		g.generateCaptures()
		g.rateFromMVVLVA()
		g.moves.sort()
	case stateCheckQS:
		g.moves.reset()
		g.generateChecks()
	}
}

// LegalMoves returns every legal move of the position in generation order.
func LegalMoves(pos *board.Position) []board.Move {
	g := New(pos, nil, nil)
	g.InitializeMain(pos.GetAttack(pos.ActiveColor()), 0, board.NoMove)
	defer g.Destroy()

	var moves []board.Move
	for m := g.Next(); m != board.NoMove; m = g.Next() {
		moves = append(moves, m)
	}
	return moves
}
