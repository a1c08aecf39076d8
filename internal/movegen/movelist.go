package movegen

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// MaxMoves is the capacity of one move list arena shared by all plies.
const MaxMoves = 4096

type cursor struct {
	head, index, tail int
}

// MoveList is a single arena of moves and ratings. Each initialized
// generator frame owns the window [head, tail) and reads from index.
// Frames nest strictly, so a child window always starts at the parent's tail.
type MoveList struct {
	moves   [MaxMoves]board.Move
	ratings [MaxMoves]int

	head  int
	index int
	tail  int

	saved []cursor
}

// NewMoveList creates an empty move list arena.
func NewMoveList() *MoveList {
	return &MoveList{saved: make([]cursor, 0, 64)}
}

// push opens a new empty window after the current one.
func (l *MoveList) push() {
	l.saved = append(l.saved, cursor{l.head, l.index, l.tail})
	l.head = l.tail
	l.index = l.tail
}

// pop restores the enclosing window.
func (l *MoveList) pop() {
	c := l.saved[len(l.saved)-1]
	l.saved = l.saved[:len(l.saved)-1]
	l.head, l.index, l.tail = c.head, c.index, c.tail
}

// reset empties the current window.
func (l *MoveList) reset() {
	l.tail = l.head
	l.index = l.head
}

// add appends a move to the current window.
func (l *MoveList) add(m board.Move) {
	if l.tail == MaxMoves {
		panic(fmt.Sprintf("movegen: move list full at %d moves", MaxMoves))
	}
	l.moves[l.tail] = m
	l.ratings[l.tail] = 0
	l.tail++
}

// next returns the next unread move of the window.
func (l *MoveList) next() (board.Move, bool) {
	if l.index == l.tail {
		return board.NoMove, false
	}
	m := l.moves[l.index]
	l.index++
	return m, true
}

// Len returns the number of moves in the current window.
func (l *MoveList) Len() int {
	return l.tail - l.head
}

// Moves returns a copy of the moves in the current window.
func (l *MoveList) Moves() []board.Move {
	moves := make([]board.Move, l.Len())
	copy(moves, l.moves[l.head:l.tail])
	return moves
}

// copyFrom appends the current window of another list.
func (l *MoveList) copyFrom(src *MoveList) {
	n := src.Len()
	if l.tail+n > MaxMoves {
		panic(fmt.Sprintf("movegen: move list full at %d moves", MaxMoves))
	}
	copy(l.moves[l.tail:], src.moves[src.head:src.tail])
	l.tail += n
}

// sort orders the window by descending rating. Insertion sort keeps equal
// ratings in generation order and is fast for the short windows seen here.
func (l *MoveList) sort() {
	for i := l.head + 1; i < l.tail; i++ {
		m, r := l.moves[i], l.ratings[i]
		j := i
		for j > l.head && l.ratings[j-1] < r {
			l.moves[j] = l.moves[j-1]
			l.ratings[j] = l.ratings[j-1]
			j--
		}
		l.moves[j] = m
		l.ratings[j] = r
	}
}
