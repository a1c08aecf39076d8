package table

import (
	"fmt"
	"slices"
)

// RepetitionTable holds the hashes of the positions on the current game and search path.
type RepetitionTable struct {
	hashes []uint64
}

// NewRepetitionTable creates an empty repetition table.
func NewRepetitionTable() *RepetitionTable {
	return &RepetitionTable{hashes: make([]uint64, 0, 1024)}
}

// Put appends a position hash.
func (r *RepetitionTable) Put(hash uint64) {
	r.hashes = append(r.hashes, hash)
}

// Remove deletes the most recent occurrence of a hash.
// Removing a hash that was never put is a programming error.
func (r *RepetitionTable) Remove(hash uint64) {
	for i := len(r.hashes) - 1; i >= 0; i-- {
		if r.hashes[i] == hash {
			r.hashes = slices.Delete(r.hashes, i, i+1)
			return
		}
	}
	panic(fmt.Sprintf("table: hash %016x not in repetition table", hash))
}

// Exists reports whether a hash is present.
func (r *RepetitionTable) Exists(hash uint64) bool {
	for i := len(r.hashes) - 1; i >= 0; i-- {
		if r.hashes[i] == hash {
			return true
		}
	}
	return false
}

// Len returns the number of stored hashes.
func (r *RepetitionTable) Len() int {
	return len(r.hashes)
}

// Clone returns an independent copy, for handing to another search worker.
func (r *RepetitionTable) Clone() *RepetitionTable {
	return &RepetitionTable{hashes: slices.Clone(r.hashes)}
}

// Clear removes every hash.
func (r *RepetitionTable) Clear() {
	r.hashes = r.hashes[:0]
}
