// Package perft counts the leaf nodes of the legal move tree, the standard
// correctness and speed check for move generators.
package perft

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/movegen"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/table"
)

// DefaultCacheDepth is the smallest remaining depth looked up in the store.
const DefaultCacheDepth = 3

// Split is the node count below one root move.
type Split struct {
	Move  board.Move
	Nodes uint64
}

// Counter walks the move tree of one position. It is not safe for concurrent use.
type Counter struct {
	pos *board.Position
	gen *movegen.Generator

	tt         *table.TranspositionTable
	store      *storage.Store
	cacheDepth int

	log zerolog.Logger
}

// Option configures a Counter.
type Option func(*Counter)

// WithStore caches subtree counts of at least minDepth plies in s.
func WithStore(s *storage.Store, minDepth int) Option {
	return func(c *Counter) {
		c.store = s
		c.cacheDepth = max(1, minDepth)
	}
}

// WithTable caches subtree counts in a transposition table, which may be
// shared between counters.
func WithTable(tt *table.TranspositionTable) Option {
	return func(c *Counter) {
		c.tt = tt
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Counter) {
		c.log = log
	}
}

// NewCounter creates a counter for the position.
func NewCounter(pos *board.Position, opts ...Option) *Counter {
	c := &Counter{
		pos:        pos,
		gen:        movegen.New(pos, nil, nil),
		cacheDepth: DefaultCacheDepth,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Perft returns the number of leaf nodes depth plies below the position.
func (c *Counter) Perft(depth int) (uint64, error) {
	if depth < 0 {
		return 0, fmt.Errorf("perft: negative depth %d", depth)
	}
	return c.perft(depth, 0)
}

func (c *Counter) perft(depth, height int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}

	if c.tt != nil && depth > 1 {
		if e, ok := c.tt.Get(c.pos.Hash()); ok && e.Depth == depth && e.Bound == table.Exact {
			return uint64(e.Value(0)), nil
		}
	}

	cached := c.store != nil && depth >= c.cacheDepth
	if cached {
		r, err := c.store.Get(c.pos.Hash(), depth)
		switch {
		case err == nil:
			return r.Nodes, nil
		case !errors.Is(err, storage.ErrNotFound):
			return 0, err
		}
	}

	pos, gen := c.pos, c.gen
	gen.InitializeMain(pos.GetAttack(pos.ActiveColor()), height, board.NoMove)

	var nodes uint64
	for m := gen.Next(); m != board.NoMove; m = gen.Next() {
		if depth == 1 {
			nodes++
			continue
		}

		pos.MakeMove(m)
		n, err := c.perft(depth-1, height+1)
		pos.UndoMove(m)
		if err != nil {
			gen.Destroy()
			return 0, err
		}
		nodes += n
	}

	gen.Destroy()

	if c.tt != nil && depth > 1 {
		c.tt.Put(pos.Hash(), depth, int(nodes), table.Exact, board.NoMove, false, 0)
	}

	if cached {
		if err := c.store.Put(&storage.Result{Hash: pos.Hash(), Depth: depth, Nodes: nodes}); err != nil {
			return 0, err
		}
	}

	return nodes, nil
}

// Divide returns the node count below every root move, ordered by move text.
func (c *Counter) Divide(depth int) ([]Split, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft: divide needs depth >= 1, got %d", depth)
	}

	var splits []Split
	for _, m := range movegen.LegalMoves(c.pos) {
		c.pos.MakeMove(m)
		n, err := c.perft(depth-1, 1)
		c.pos.UndoMove(m)
		if err != nil {
			return nil, err
		}
		c.log.Debug().Str("move", m.String()).Uint64("nodes", n).Msg("divide")
		splits = append(splits, Split{Move: m, Nodes: n})
	}

	sortSplits(splits)
	return splits, nil
}

// ParallelDivide splits the root moves over up to workers goroutines. Each
// worker builds its own position from the setup; only the store is shared.
func ParallelDivide(ctx context.Context, t *board.Tables, setup board.Setup, depth, workers int, opts ...Option) ([]Split, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft: divide needs depth >= 1, got %d", depth)
	}

	root, err := board.NewPosition(t, setup)
	if err != nil {
		return nil, err
	}
	moves := movegen.LegalMoves(root)
	splits := make([]Split, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i, m := range moves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			pos, err := board.NewPosition(t, setup)
			if err != nil {
				return err
			}
			pos.MakeMove(m)

			c := NewCounter(pos, opts...)
			start := time.Now()
			n, err := c.Perft(depth - 1)
			if err != nil {
				return fmt.Errorf("perft below %s: %w", m, err)
			}
			c.log.Debug().Str("move", m.String()).Uint64("nodes", n).Dur("elapsed", time.Since(start)).Msg("divide")

			splits[i] = Split{Move: m, Nodes: n}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortSplits(splits)
	return splits, nil
}

// Total sums the node counts of a divide.
func Total(splits []Split) uint64 {
	var nodes uint64
	for _, s := range splits {
		nodes += s.Nodes
	}
	return nodes
}

// ToMap converts a divide into move text to node count.
func ToMap(splits []Split) map[string]uint64 {
	m := make(map[string]uint64, len(splits))
	for _, s := range splits {
		m[s.Move.String()] = s.Nodes
	}
	return m
}

func sortSplits(splits []Split) {
	slices.SortFunc(splits, func(a, b Split) int {
		return strings.Compare(a.Move.String(), b.Move.String())
	})
}
