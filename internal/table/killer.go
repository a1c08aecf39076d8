package table

import "github.com/hailam/chesscore/internal/board"

// KillerTable keeps two quiet moves per search height that caused a cutoff.
type KillerTable struct {
	primary   [MaxHeight + 1]board.Move
	secondary [MaxHeight + 1]board.Move
}

// NewKillerTable creates an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Add records a killer at the given height. A new move demotes the
// primary killer; adding the current primary is a no-op.
func (k *KillerTable) Add(m board.Move, height int) {
	if m != k.primary[height] {
		k.secondary[height] = k.primary[height]
		k.primary[height] = m
	}
}

// Primary returns the most recent killer at the given height.
func (k *KillerTable) Primary(height int) board.Move {
	return k.primary[height]
}

// Secondary returns the previous killer at the given height.
func (k *KillerTable) Secondary(height int) board.Move {
	return k.secondary[height]
}

// Clear removes all killers.
func (k *KillerTable) Clear() {
	k.primary = [MaxHeight + 1]board.Move{}
	k.secondary = [MaxHeight + 1]board.Move{}
}
