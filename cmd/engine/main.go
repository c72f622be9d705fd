package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lintang-b-s/navcore/pkg/engine"
	"github.com/lintang-b-s/navcore/pkg/engine/routing"
	"github.com/lintang-b-s/navcore/pkg/logger"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

var (
	dev         = flag.Bool("dev", false, "human readable development logging")
	coordinates = flag.String("coordinates", "", "lat,lon;lat,lon;... or a google encoded polyline")
	sources     = flag.String("sources", "", "comma separated coordinate indices, empty means all")
	targets     = flag.String("targets", "", "comma separated coordinate indices, empty means all")
	algorithm   = flag.String("algorithm", "", "ch, corech or mld, overrides engine.algorithm")
)

func main() {
	flag.Parse()
	logger, err := logger.NewFor(*dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}
	cfg, err := util.LoadConfig()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if *algorithm != "" {
		cfg.Engine.Algorithm = *algorithm
	}

	coords, err := engine.ParseCoordinates(*coordinates)
	if err != nil {
		logger.Fatal("parse coordinates", zap.Error(err))
	}
	sourceIndices, err := engine.ParseIndices(*sources)
	if err != nil {
		logger.Fatal("parse sources", zap.Error(err))
	}
	targetIndices, err := engine.ParseIndices(*targets)
	if err != nil {
		logger.Fatal("parse targets", zap.Error(err))
	}

	routingEngine, err := engine.NewEngine(cfg, logger)
	if err != nil {
		logger.Fatal("starting engine", zap.Error(err))
	}
	table, err := routingEngine.Table(coords, sourceIndices, targetIndices)
	if err != nil {
		logger.Fatal("table query", zap.Error(err))
	}
	printTable(table)
}

// printTable one row per source: "duration/weight" per target, "-" when unreachable.
func printTable(table *routing.Table) {
	var sb strings.Builder
	for i := 0; i < table.NumSources; i++ {
		cells := make([]string, table.NumTargets)
		for j := range cells {
			if !table.IsReachable(i, j) {
				cells[j] = "-"
				continue
			}
			c := table.Get(i, j)
			cells[j] = fmt.Sprintf("%.1fs/%d", float64(c.Duration)/10, c.Weight)
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	fmt.Fprint(os.Stdout, sb.String())
}
