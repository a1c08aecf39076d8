package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/logx"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/table"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to count from")
	depth      = flag.Int("depth", 5, "search depth in plies")
	divide     = flag.Bool("divide", false, "print the node count below every root move")
	workers    = flag.Int("workers", runtime.NumCPU(), "number of parallel workers")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB, 0 disables it")
	cacheDir   = flag.String("cache", "", "perft result database directory, \"default\" for the data directory")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	log := logx.NewLogger(os.Stderr, logx.Level(*verbose))

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("perft failed")
	}
}

func run(log zerolog.Logger) error {
	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	setup, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}
	root, err := board.NewPosition(board.DefaultTables(), setup)
	if err != nil {
		return err
	}
	hash := root.Hash()

	var opts []perft.Option
	opts = append(opts, perft.WithLogger(log))

	if *hashMB > 0 {
		tt := table.NewTranspositionTable(*hashMB)
		opts = append(opts, perft.WithTable(tt))
		defer func() {
			log.Debug().Int("hashfull", tt.HashFull()).Float64("hitrate", tt.HitRate()).Msg("transposition table")
		}()
	}

	var store *storage.Store
	if *cacheDir != "" {
		dir := *cacheDir
		if dir == "default" {
			dir = ""
		}
		if store, err = storage.Open(dir); err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, perft.WithStore(store, perft.DefaultCacheDepth))

		if r, err := store.Get(hash, *depth); err == nil && r.Divide != nil {
			log.Info().Str("fen", r.FEN).Msg("result loaded from cache")
			report(r.Nodes, r.Divide, 0)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("fen", *fen).Int("depth", *depth).Int("workers", *workers).Msg("perft")

	start := time.Now()
	splits, err := perft.ParallelDivide(ctx, board.DefaultTables(), setup, *depth, *workers, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	nodes := perft.Total(splits)
	divideMap := perft.ToMap(splits)

	if store != nil {
		err := store.Put(&storage.Result{
			Hash:   hash,
			Depth:  *depth,
			Nodes:  nodes,
			FEN:    setup.FEN(),
			Divide: divideMap,
		})
		if err != nil {
			return err
		}
	}

	report(nodes, divideMap, elapsed)
	return nil
}

// report prints the result to stdout.
func report(nodes uint64, splits map[string]uint64, elapsed time.Duration) {
	if *divide {
		for _, move := range slices.Sorted(maps.Keys(splits)) {
			fmt.Printf("%s: %d\n", move, splits[move])
		}
		fmt.Println()
	}

	fmt.Printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("Time:  %s\n", elapsed.Round(time.Millisecond))
		fmt.Printf("NPS:   %s\n", humanize.SIWithDigits(nps, 2, "nps"))
	}
}
