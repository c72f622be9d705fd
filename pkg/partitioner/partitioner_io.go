package partitioner

import (
	"github.com/lintang-b-s/navcore/pkg/util"
)

// SaveToFile writes the partition of the last RunMultilevelPartitioning as an .mlp file.
func (mp *MultilevelPartitioner) SaveToFile(filename string) error {
	if mp.overlayNodes == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "partitioning has not been run")
	}
	mlp, err := mp.BuildMLP()
	if err != nil {
		return err
	}
	if err := mlp.WriteMlpFile(filename); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write mlp file %s", filename)
	}
	mp.logger.Sugar().Infof("multilevel partition written to %s", filename)
	return nil
}
