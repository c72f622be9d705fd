package datastructure

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navcore/pkg/util"
)

/*
WriteGraph. bzip2 compressed text file (.nbg):

	numVertices numEdges numAnnotations numNames numGeometries
	lat lon osmID flags                                         per vertex
	tail head weight duration annotationID geometryID forward   per arc
	nameID geometryID laneID classification packed classes      per annotation
	quoted name                                                 per name id
	k node fwdWeight revWeight fwdDuration revDuration ...      per geometry, k positions
*/
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d %d %d\n",
		g.NumberOfVertices(), g.NumberOfEdges(), g.annotations.Len(), g.names.Len(),
		g.segments.NumberOfGeometries())

	for vId := 0; vId < g.NumberOfVertices(); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s %d %d\n", latF, lonF, v.osmID, v.flags)
	}

	g.ForOutEdges(func(tail NodeID, e *OutEdge) {
		fwd := 0
		if e.forwardGeometry {
			fwd = 1
		}
		fmt.Fprintf(w, "%d %d %d %d %d %d %d\n",
			tail, e.head, e.weight, e.duration, e.annotationID, e.geometryID, fwd)
	})

	for _, a := range g.annotations.Storage().Records() {
		fmt.Fprintf(w, "%d %d %d %d %d %d\n",
			a.NameID, a.GeometryID, a.LaneDescriptionID, a.Classification, a.packed, a.Classes)
	}

	for _, name := range g.names.Strings() {
		fmt.Fprintf(w, "%s\n", strconv.Quote(name))
	}

	sd := g.segments
	for id := 0; id < sd.NumberOfGeometries(); id++ {
		b, e := sd.bounds(uint32(id))
		fmt.Fprintf(w, "%d", e-b)
		for i := b; i < e; i++ {
			fmt.Fprintf(w, " %d %d %d %d %d", sd.Nodes[i], sd.FwdWeights[i], sd.RevWeights[i],
				sd.FwdDurations[i], sd.RevDurations[i])
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (uint32, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return uint32(u), nil
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

// lineReader keeps the first parse error so the reader below stays linear.
type lineReader struct {
	br   *bufio.Reader
	line int
	err  error
}

func (lr *lineReader) next(expected int) []string {
	if lr.err != nil {
		return nil
	}
	line, err := util.ReadLine(lr.br)
	lr.line++
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
		return nil
	}
	tokens := fields(line)
	if expected >= 0 && len(tokens) != expected {
		lr.err = fmt.Errorf("line %d: expected %d fields, got %d", lr.line, expected, len(tokens))
		return nil
	}
	return tokens
}

func (lr *lineReader) raw() string {
	if lr.err != nil {
		return ""
	}
	line, err := util.ReadLine(lr.br)
	lr.line++
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
	}
	return line
}

func (lr *lineReader) u32(s string) uint32 {
	if lr.err != nil {
		return 0
	}
	v, err := ParseIndex(s)
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
	}
	return v
}

func (lr *lineReader) i32(s string) int32 {
	if lr.err != nil {
		return 0
	}
	v, err := parseInt32(s)
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
	}
	return v
}

func (lr *lineReader) i64(s string) int64 {
	if lr.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
	}
	return v
}

func (lr *lineReader) f64(s string) float64 {
	if lr.err != nil {
		return 0
	}
	v, err := util.StringToFloat64(s)
	if err != nil {
		lr.err = fmt.Errorf("line %d: %w", lr.line, err)
	}
	return v
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}

	lr := &lineReader{br: bufio.NewReaderSize(bz, 1<<16)}

	header := lr.next(5)
	if lr.err != nil {
		return nil, util.WrapErrorf(lr.err, util.ErrBadParamInput, "read graph header %s", filename)
	}
	numVertices := int(lr.u32(header[0]))
	numEdges := int(lr.u32(header[1]))
	numAnnotations := int(lr.u32(header[2]))
	numNames := int(lr.u32(header[3]))
	numGeometries := int(lr.u32(header[4]))

	nodes := make([]NodeInfo, numVertices)
	for i := 0; i < numVertices && lr.err == nil; i++ {
		tokens := lr.next(4)
		if tokens == nil {
			break
		}
		flags := uint8(lr.u32(tokens[3]))
		nodes[i] = NodeInfo{
			Lat:           lr.f64(tokens[0]),
			Lon:           lr.f64(tokens[1]),
			OsmID:         lr.i64(tokens[2]),
			Barrier:       flags&nodeBarrierBit != 0,
			TrafficSignal: flags&nodeTrafficSignalBit != 0,
		}
	}

	arcs := make([]GraphArc, numEdges)
	for i := 0; i < numEdges && lr.err == nil; i++ {
		tokens := lr.next(7)
		if tokens == nil {
			break
		}
		arcs[i] = GraphArc{
			Source:          NodeID(lr.u32(tokens[0])),
			Target:          NodeID(lr.u32(tokens[1])),
			Weight:          EdgeWeight(lr.i32(tokens[2])),
			Duration:        EdgeDuration(lr.i32(tokens[3])),
			AnnotationID:    AnnotationID(lr.u32(tokens[4])),
			GeometryID:      lr.u32(tokens[5]),
			ForwardGeometry: tokens[6] == "1",
		}
	}

	annotations := NewOwnedAnnotationContainer(numAnnotations)
	for i := 0; i < numAnnotations && lr.err == nil; i++ {
		tokens := lr.next(6)
		if tokens == nil {
			break
		}
		annotations.Storage().Push(NodeBasedEdgeAnnotation{
			NameID:            lr.u32(tokens[0]),
			GeometryID:        lr.u32(tokens[1]),
			LaneDescriptionID: uint16(lr.u32(tokens[2])),
			Classification:    RoadClassification(lr.u32(tokens[3])),
			packed:            uint8(lr.u32(tokens[4])),
			Classes:           ClassData(lr.u32(tokens[5])),
		})
	}

	names := make([]string, 0, numNames)
	for i := 0; i < numNames && lr.err == nil; i++ {
		line := lr.raw()
		name, err := strconv.Unquote(line)
		if err != nil && lr.err == nil {
			lr.err = fmt.Errorf("line %d: %w", lr.line, err)
		}
		names = append(names, name)
	}

	segments := NewSegmentData()
	for i := 0; i < numGeometries && lr.err == nil; i++ {
		tokens := lr.next(-1)
		if tokens == nil {
			break
		}
		k := int(lr.u32(tokens[0]))
		if len(tokens) != 1+5*k {
			lr.err = fmt.Errorf("line %d: geometry with %d positions has %d fields", lr.line, k, len(tokens))
			break
		}
		for p := 0; p < k; p++ {
			t := tokens[1+5*p:]
			segments.push(NodeID(lr.u32(t[0])), EdgeWeight(lr.i32(t[1])), EdgeWeight(lr.i32(t[2])),
				EdgeDuration(lr.i32(t[3])), EdgeDuration(lr.i32(t[4])))
		}
		segments.Index = append(segments.Index, uint32(len(segments.Nodes)))
	}

	if lr.err != nil {
		return nil, util.WrapErrorf(lr.err, util.ErrBadParamInput, "read graph %s", filename)
	}

	return NewGraph(nodes, arcs, annotations, util.NewIdMapFromStrings(names), segments), nil
}
