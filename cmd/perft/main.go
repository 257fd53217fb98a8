package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/exp/slices"

	"github.com/drc56/libchess/chess"
	"github.com/drc56/libchess/perft"
)

type Config struct {
	FEN        string
	Depth      int
	Divide     bool
	Concurrent bool
}

var config Config

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(); err != nil {
		log.Println(err)
	}
}

func run() error {
	flag.StringVar(&config.FEN, "fen", chess.InitialPositionFEN, "FEN of the position to count from")
	flag.IntVar(&config.Depth, "depth", 5, "Ply depth to search")
	flag.BoolVar(&config.Divide, "divide", false, "Print per-root-move leaf counts instead of a single total")
	flag.BoolVar(&config.Concurrent, "concurrent", false, "Split root moves across GOMAXPROCS workers")
	flag.Parse()

	log.Printf("%+v", config)

	pos := chess.NewPosition()
	if err := pos.SetFEN(config.FEN); err != nil {
		return err
	}

	if config.Divide {
		start := time.Now()
		counts := perft.Divide(pos, config.Depth)
		moves := make([]chess.Move, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		// Divide's map has no stable order; sort for reproducible output.
		slices.SortFunc(moves, func(a, b chess.Move) bool { return a.String() < b.String() })
		for _, m := range moves {
			log.Printf("%v: %d", m, counts[m])
		}
		log.Printf("divide took %v", time.Since(start))
		return nil
	}

	start := time.Now()
	var nodes uint64
	var err error
	if config.Concurrent {
		nodes, err = perft.Concurrent(context.Background(), pos, config.Depth)
	} else {
		nodes = perft.Perft(pos, config.Depth)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	log.Printf("nodes %d depth %d time %v nps %.0f", nodes, config.Depth, elapsed, float64(nodes)/elapsed.Seconds())
	return nil
}
