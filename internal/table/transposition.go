// Package table implements the hash tables consulted during search:
// transposition, repetition, history and killer tables.
package table

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Bound indicates the type of value stored in the transposition table.
type Bound uint8

const (
	NoBound Bound = iota
	Exact         // Exact value
	Alpha         // Failed low, value is an upper bound
	Beta          // Failed high, value is a lower bound
)

// String returns the bound name.
func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	default:
		return "none"
	}
}

// Search value limits shared with the search.
const (
	Infinity           = 200000
	Checkmate          = 100000
	CheckmateThreshold = Checkmate - MaxHeight
)

// MaxHeight is the deepest ply a search may reach.
const MaxHeight = 256

// EntrySize is the approximate size of one entry in bytes.
const EntrySize = 32

// Entry represents an entry in the transposition table.
type Entry struct {
	Key        uint64     // Full 64-bit zobrist hash
	Age        int        // Generation, -1 when empty
	Depth      int        // Search depth, -1 when empty
	value      int        // Value with mate distance relative to the stored node
	Bound      Bound      // Type of bound
	Move       board.Move // Best move found
	MateThreat bool
}

// Value returns the stored value with mate scores relative to the given height.
func (e *Entry) Value(height int) int {
	value := e.value
	if value < -CheckmateThreshold {
		value += height
	} else if value > CheckmateThreshold {
		value -= height
	}
	return value
}

func (e *Entry) setValue(value, height int) {
	// Normalize mate values
	if value < -CheckmateThreshold {
		value -= height
	} else if value > CheckmateThreshold {
		value += height
	}
	e.value = value
}

func (e *Entry) clear() {
	*e = Entry{Age: -1, Depth: -1, value: -Infinity, Move: board.NoMove}
}

// TranspositionTable is a hash table for storing search results.
// A single reader-writer lock guards every access, so several search
// workers may share one table.
type TranspositionTable struct {
	mu      sync.RWMutex
	entries []Entry
	size    uint64
	age     int

	// Statistics (atomic for thread-safety)
	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	return NewTranspositionTableEntries(max(1, sizeMB*1024*1024/EntrySize))
}

// NewTranspositionTableEntries creates a transposition table holding n entries.
func NewTranspositionTableEntries(n int) *TranspositionTable {
	if n < 1 {
		panic("table: transposition table needs at least one entry")
	}
	tt := &TranspositionTable{
		entries: make([]Entry, n),
		size:    uint64(n),
	}
	for i := range tt.entries {
		tt.entries[i].clear()
	}
	return tt
}

// Put stores a search result. An entry from an older generation or a
// colliding key is always replaced. An entry with the same key is only
// overwritten by a search at least as deep that carries a move.
func (tt *TranspositionTable) Put(hash uint64, depth, value int, bound Bound, move board.Move, mateThreat bool, height int) {
	if depth < 0 || bound == NoBound || height < 0 {
		panic("table: invalid transposition entry")
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()

	entry := &tt.entries[hash%tt.size]

	switch {
	case entry.Key == 0 || entry.Age != tt.age:
		entry.Key = hash
		entry.Age = tt.age
	case entry.Key == hash:
		if depth < entry.Depth || move == board.NoMove {
			return
		}
	default:
		// Collision, overwrite existing entry
		entry.Key = hash
	}

	entry.Depth = depth
	entry.setValue(value, height)
	entry.Bound = bound
	entry.Move = move
	entry.MateThreat = mateThreat
}

// Get looks up a position. The entry is returned by value.
func (tt *TranspositionTable) Get(hash uint64) (Entry, bool) {
	tt.probes.Add(1)

	tt.mu.RLock()
	entry := tt.entries[hash%tt.size]
	age := tt.age
	tt.mu.RUnlock()

	if entry.Key == hash && entry.Age == age {
		tt.hits.Add(1)
		return entry, true
	}

	return Entry{}, false
}

// IncreaseAge starts a new generation. Entries of older generations are
// no longer returned and are replaced unconditionally.
func (tt *TranspositionTable) IncreaseAge() {
	tt.mu.Lock()
	tt.age++
	tt.mu.Unlock()
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	for i := range tt.entries {
		tt.entries[i].clear()
	}
	tt.age = 0
	tt.mu.Unlock()

	tt.hits.Store(0)
	tt.probes.Store(0)
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	// Sample first 1000 entries
	sampleSize := min(1000, len(tt.entries))
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth >= 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}

	return used * 1000 / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// PrincipalVariation follows stored moves from the position for at most depth plies.
// The position is restored before returning.
func (tt *TranspositionTable) PrincipalVariation(pos *board.Position, depth int) []board.Move {
	var pv []board.Move
	for len(pv) < depth {
		entry, ok := tt.Get(pos.Hash())
		if !ok || entry.Move == board.NoMove {
			break
		}
		pv = append(pv, entry.Move)
		pos.MakeMove(entry.Move)
	}
	for i := len(pv) - 1; i >= 0; i-- {
		pos.UndoMove(pv[i])
	}
	return pv
}
