package main

import (
	"flag"

	"github.com/lintang-b-s/navcore/pkg/contractor"
	"github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/logger"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

var (
	dev = flag.Bool("dev", false, "human readable development logging")
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

	graph, err := datastructure.ReadGraph(cfg.Preprocessor.GraphFile)
	if err != nil {
		logger.Fatal("read graph", zap.String("graphFile", cfg.Preprocessor.GraphFile), zap.Error(err))
	}

	ch := contractor.NewContractor(logger, cfg.Contractor.CoreFactor, cfg.Contractor.WitnessSettleLimit).
		Contract(graph)
	if err := contractor.WriteSnapshot(cfg.Contractor.SnapshotFile, graph, ch); err != nil {
		logger.Fatal("write snapshot", zap.String("snapshotFile", cfg.Contractor.SnapshotFile), zap.Error(err))
	}
	logger.Sugar().Infof("contraction hierarchy written to %s", cfg.Contractor.SnapshotFile)
}
