package table

import "github.com/hailam/chesscore/internal/board"

// MaxHistoryValue is the counter value at which all counters are halved.
const MaxHistoryValue = 65536

// HistoryTable counts cutoffs of quiet moves indexed by [piece][end square].
type HistoryTable struct {
	history [12][board.BoardSize]int
}

// NewHistoryTable creates an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Get returns the history counter of a move.
func (h *HistoryTable) Get(m board.Move) int {
	return h.history[m.Piece()][m.End()]
}

// Add credits a move with a cutoff at the given depth.
// Once a counter reaches MaxHistoryValue every counter is halved.
func (h *HistoryTable) Add(m board.Move, depth int) {
	piece, end := m.Piece(), m.End()

	h.history[piece][end] += depth

	if h.history[piece][end] >= MaxHistoryValue {
		for i := range h.history {
			for j := range h.history[i] {
				h.history[i][j] /= 2
			}
		}
	}
}

// Clear resets every counter.
func (h *HistoryTable) Clear() {
	h.history = [12][board.BoardSize]int{}
}
