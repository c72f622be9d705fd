package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/lintang-b-s/navcore/pkg/logger"
	"github.com/lintang-b-s/navcore/pkg/osmparser"
	"github.com/lintang-b-s/navcore/pkg/preprocessor"
	"github.com/lintang-b-s/navcore/pkg/util"
	"go.uber.org/zap"
)

var (
	dev     = flag.Bool("dev", false, "human readable development logging")
	osmFile = flag.String("f", "", "openstreetmap pbf file, overrides preprocessor.osm_file")
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
	if *osmFile != "" {
		cfg.Preprocessor.OsmFile = *osmFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	osmParser := osmparser.NewOsmParser(logger, cfg.Preprocessor.RelationShards)
	extracted, err := osmParser.Parse(ctx, cfg.Preprocessor.OsmFile)
	if err != nil {
		logger.Fatal("osm extraction failed", zap.String("osmFile", cfg.Preprocessor.OsmFile), zap.Error(err))
	}

	factory := preprocessor.NewNodeBasedGraphFactory(logger, cfg.Preprocessor.SortChunks)
	graph, err := factory.Run(ctx, extracted)
	if err != nil {
		logger.Fatal("building node based graph failed", zap.Error(err))
	}

	if err := graph.WriteGraph(cfg.Preprocessor.GraphFile); err != nil {
		logger.Fatal("write graph", zap.String("graphFile", cfg.Preprocessor.GraphFile), zap.Error(err))
	}
	logger.Sugar().Infof("Preprocessing completed successfully. graph written to %s", cfg.Preprocessor.GraphFile)
}
