package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type PreprocessorConfig struct {
	OsmFile        string `mapstructure:"osm_file"`
	GraphFile      string `mapstructure:"graph_file" validate:"required"`
	RelationShards int    `mapstructure:"relation_shards" validate:"gte=1"`
	SortChunks     int    `mapstructure:"sort_chunks" validate:"gte=1"`
}

type ContractorConfig struct {
	SnapshotFile       string  `mapstructure:"snapshot_file" validate:"required"`
	CoreFactor         float64 `mapstructure:"core_factor" validate:"gte=0,lte=1"`
	WitnessSettleLimit int     `mapstructure:"witness_settle_limit" validate:"gt=0"`
}

type PartitionerConfig struct {
	MlpFile   string `mapstructure:"mlp_file" validate:"required"`
	CellSizes []int  `mapstructure:"cell_sizes" validate:"required,min=1,dive,gt=1"`
	Slopes    int    `mapstructure:"slopes" validate:"gte=1"`
}

type EngineConfig struct {
	Algorithm        string  `mapstructure:"algorithm" validate:"oneof=ch corech mld"`
	SnapRadiusKM     float64 `mapstructure:"snap_radius_km" validate:"gt=0"`
	VerifyOneToMany  bool    `mapstructure:"verify_one_to_many"`
	CustomizeWorkers int     `mapstructure:"customize_workers" validate:"gte=1"`
}

type Config struct {
	Preprocessor PreprocessorConfig `mapstructure:"preprocessor"`
	Contractor   ContractorConfig   `mapstructure:"contractor"`
	Partitioner  PartitionerConfig  `mapstructure:"partitioner"`
	Engine       EngineConfig       `mapstructure:"engine"`
}

func setDefaults() {
	viper.SetDefault("preprocessor.osm_file", "./data/solo_jogja.osm.pbf")
	viper.SetDefault("preprocessor.graph_file", "./data/graph.nbg")
	viper.SetDefault("preprocessor.relation_shards", 4)
	viper.SetDefault("preprocessor.sort_chunks", 8)
	viper.SetDefault("contractor.snapshot_file", "./data/graph.ch")
	viper.SetDefault("contractor.core_factor", 1.0)
	viper.SetDefault("contractor.witness_settle_limit", 500)
	viper.SetDefault("partitioner.mlp_file", "./data/graph.mlp")
	viper.SetDefault("partitioner.cell_sizes", []int{128, 4096})
	viper.SetDefault("partitioner.slopes", 4)
	viper.SetDefault("engine.algorithm", "mld")
	viper.SetDefault("engine.snap_radius_km", 0.2)
	viper.SetDefault("engine.verify_one_to_many", false)
	viper.SetDefault("engine.customize_workers", 4)
}

// ReadConfig reads ./data/config.yaml. A missing file is not an error, defaults apply.
func ReadConfig() error {
	setDefaults()
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.SetEnvPrefix("navcore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

// LoadConfig unmarshals the viper state into Config and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, WrapErrorf(err, ErrBadParamInput, "unmarshal config")
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ValidateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return WrapErrorf(err, ErrBadParamInput, "invalid config field %s", verrs[0].Namespace())
		}
		return WrapErrorf(err, ErrBadParamInput, "invalid config")
	}
	return nil
}
