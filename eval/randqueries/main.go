package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/engine"
	"github.com/lintang-b-s/navcore/pkg/geo"
	log "github.com/lintang-b-s/navcore/pkg/logger"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

var (
	numQueries = flag.Int("n", 1000, "number of random table queries")
	tableSize  = flag.Int("k", 10, "coordinates per table query")
	seed       = flag.Int64("seed", 1, "random seed")
	outFile    = flag.String("out", "rand_queries_result.csv", "csv with one line per query and algorithm")
)

type query struct {
	row    int
	coords []geo.Coordinate
}

// randomQueries k random graph vertices per query, so every coordinate snaps onto the network.
func randomQueries(g *da.Graph, rng *rand.Rand) []query {
	n := g.NumberOfVertices()
	queries := make([]query, *numQueries)
	for i := range queries {
		coords := make([]geo.Coordinate, *tableSize)
		for j := range coords {
			coords[j] = g.GetCoordinate(da.NodeID(rng.Intn(n)))
		}
		queries[i] = query{row: i, coords: coords}
	}
	return queries
}

func main() {
	flag.Parse()
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	cfg, err := util.LoadConfig()
	if err != nil {
		panic(err)
	}

	engines := make(map[string]*engine.Engine)
	algorithms := []string{"corech", "mld"}
	for _, algorithm := range algorithms {
		cfg.Engine.Algorithm = algorithm
		e, err := engine.NewEngine(cfg, logger)
		if err != nil {
			panic(err)
		}
		engines[algorithm] = e
	}

	g := engines["mld"].GetGraph()
	queries := randomQueries(g, rand.New(rand.NewSource(*seed)))

	fout, err := os.Create(*outFile)
	if err != nil {
		panic(err)
	}
	defer fout.Close()
	w := bufio.NewWriter(fout)
	defer w.Flush()
	fmt.Fprintln(w, "row,algorithm,micros,reachable")

	mismatches := 0
	total := make(map[string]time.Duration)
	for _, q := range queries {
		var reference []da.EdgeDuration
		for _, algorithm := range algorithms {
			start := time.Now()
			table, err := engines[algorithm].Table(q.coords, nil, nil)
			elapsed := time.Since(start)
			if err != nil {
				logger.Error("query failed", zap.Int("row", q.row), zap.String("algorithm", algorithm), zap.Error(err))
				continue
			}
			total[algorithm] += elapsed

			reachable := 0
			for i := range table.Durations {
				if table.Durations[i] != da.MAXIMAL_EDGE_DURATION {
					reachable++
				}
			}
			fmt.Fprintf(w, "%d,%s,%d,%d\n", q.row, algorithm, elapsed.Microseconds(), reachable)

			if reference == nil {
				reference = table.Durations
				continue
			}
			for i := range reference {
				if reference[i] != table.Durations[i] {
					mismatches++
					logger.Warn("tables disagree", zap.Int("row", q.row), zap.Int("cell", i),
						zap.Int32("corech", int32(reference[i])), zap.Int32(algorithm, int32(table.Durations[i])))
					break
				}
			}
		}
	}

	for _, algorithm := range algorithms {
		logger.Sugar().Infof("%s: %d queries of %dx%d, avg %v per table", algorithm, len(queries), *tableSize,
			*tableSize, total[algorithm]/time.Duration(max(1, len(queries))))
	}
	logger.Sugar().Infof("mismatching tables: %d", mismatches)
}
