// Package perft counts leaf nodes reachable from a position at a fixed
// depth, the standard correctness benchmark for a move generator: a
// mismatch against a known node count almost always means the
// generator missed or over-generated some rule.
package perft

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/drc56/libchess/chess"
)

// Perft counts leaf nodes reachable from pos at depth plies via
// recursive make/unmake. pos is mutated and restored; it is unchanged
// on return.
func Perft(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		pos.Make(m)
		nodes += Perft(pos, depth-1)
		pos.Unmake()
	}
	return nodes
}

// Divide counts leaf nodes per root move, the usual tool for narrowing
// down which root move a perft mismatch is hiding in.
func Divide(pos *chess.Position, depth int) map[chess.Move]uint64 {
	result := make(map[chess.Move]uint64)
	if depth == 0 {
		return result
	}
	for _, m := range pos.LegalMoves() {
		pos.Make(m)
		if depth == 1 {
			result[m] = 1
		} else {
			result[m] = Perft(pos, depth-1)
		}
		pos.Unmake()
	}
	return result
}

// Concurrent counts leaf nodes the same way Perft does, splitting work
// across the root moves. Each worker gets its own copy of pos -- a
// single Position is never shared or mutated across goroutines.
func Concurrent(ctx context.Context, pos *chess.Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	roots := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(roots)), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan chess.Move)
	results := make(chan uint64, len(roots))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(roots) {
		workers = len(roots)
	}
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			child := *pos
			child.ResetHistory()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case m, ok := <-jobs:
					if !ok {
						return nil
					}
					child.Make(m)
					n := Perft(&child, depth-1)
					child.Unmake()
					results <- n
				}
			}
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, m := range roots {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- m:
			}
		}
		return nil
	})

	go func() {
		g.Wait()
		close(results)
	}()

	var total uint64
	for n := range results {
		total += n
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}
