package main

import (
	"flag"

	"github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/logger"
	"github.com/lintang-b-s/navcore/pkg/partitioner"
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

	mp := partitioner.NewMultilevelPartitioner(cfg.Partitioner.CellSizes, cfg.Partitioner.Slopes, graph, logger)
	if err := mp.RunMultilevelPartitioning(); err != nil {
		logger.Fatal("partitioning failed", zap.Error(err))
	}
	if err := mp.SaveToFile(cfg.Partitioner.MlpFile); err != nil {
		logger.Fatal("write mlp file", zap.String("mlpFile", cfg.Partitioner.MlpFile), zap.Error(err))
	}
	logger.Sugar().Infof("multilevel partition written to %s", cfg.Partitioner.MlpFile)
}
