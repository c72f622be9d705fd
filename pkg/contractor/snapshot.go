package contractor

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kelindar/binary"
	"github.com/klauspost/compress/zstd"
	da "github.com/lintang-b-s/navcore/pkg/datastructure"
	"github.com/lintang-b-s/navcore/pkg/util"
)

// snapshot on-disk form of a contraction hierarchy, NumVertices ties it to its .nbg graph.
type snapshot struct {
	NumVertices uint32
	NumArcs     uint32
	Graph       da.CHGraph
}

// WriteSnapshot stores the search graph as kelindar/binary bytes compressed with zstd.
func WriteSnapshot(filename string, g *da.Graph, ch *da.CHGraph) error {
	encoded, err := binary.Marshal(&snapshot{
		NumVertices: uint32(g.NumberOfVertices()),
		NumArcs:     uint32(g.NumberOfEdges()),
		Graph:       *ch,
	})
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode ch snapshot")
	}

	var compressed bytes.Buffer
	if err := compressData(encoded, &compressed); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "compress ch snapshot")
	}
	if err := os.WriteFile(filename, compressed.Bytes(), 0o644); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write ch snapshot %s", filename)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot and checks that it belongs to g.
func ReadSnapshot(filename string, g *da.Graph) (*da.CHGraph, error) {
	compressed, err := os.ReadFile(filename)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "read ch snapshot %s", filename)
	}
	var decompressed bytes.Buffer
	if err := decompressData(compressed, &decompressed); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "decompress ch snapshot")
	}

	var s snapshot
	if err := binary.Unmarshal(decompressed.Bytes(), &s); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "decode ch snapshot")
	}
	if int(s.NumVertices) != g.NumberOfVertices() || int(s.NumArcs) != g.NumberOfEdges() {
		return nil, util.WrapErrorf(fmt.Errorf("snapshot has %d vertices and %d arcs, graph has %d and %d",
			s.NumVertices, s.NumArcs, g.NumberOfVertices(), g.NumberOfEdges()),
			util.ErrBadParamInput, "ch snapshot %s does not belong to the graph", filename)
	}
	if s.Graph.NumberOfNodes() != g.NumberOfVertices() {
		return nil, util.WrapErrorf(fmt.Errorf("search graph has %d nodes", s.Graph.NumberOfNodes()),
			util.ErrInternalServerError, "corrupt ch snapshot %s", filename)
	}
	return &s.Graph, nil
}

func compressData(inData []byte, bbufOut *bytes.Buffer) error {
	encoder, err := zstd.NewWriter(bbufOut, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	if _, err = io.Copy(encoder, bytes.NewReader(inData)); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func decompressData(inData []byte, out io.Writer) error {
	d, err := zstd.NewReader(bytes.NewReader(inData))
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}
