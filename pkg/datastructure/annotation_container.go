package datastructure

import (
	"fmt"
	"unsafe"

	"github.com/lintang-b-s/navcore/pkg"
)

// AnnotationStorage is where the annotation records live. the container logic is the same for a
// locally owned buffer, a borrowed external (memory mapped) buffer and a read only view.
type AnnotationStorage interface {
	Records() []NodeBasedEdgeAnnotation
	Release() error
}

// OwnedStorage growable buffer owned by the container.
type OwnedStorage struct {
	data []NodeBasedEdgeAnnotation
}

func NewOwnedStorage(capacity int) *OwnedStorage {
	return &OwnedStorage{data: make([]NodeBasedEdgeAnnotation, 0, capacity)}
}

func (s *OwnedStorage) Records() []NodeBasedEdgeAnnotation { return s.data }

func (s *OwnedStorage) Release() error {
	s.data = nil
	return nil
}

// Push appends a record and returns its id.
func (s *OwnedStorage) Push(a NodeBasedEdgeAnnotation) AnnotationID {
	s.data = append(s.data, a)
	return AnnotationID(len(s.data) - 1)
}

// Renumber reorders records so that new position i holds old record permutation[i].
func (s *OwnedStorage) Renumber(permutation []AnnotationID) {
	renumbered := make([]NodeBasedEdgeAnnotation, len(permutation))
	for newID, oldID := range permutation {
		renumbered[newID] = s.data[oldID]
	}
	s.data = renumbered
}

// ExternalStorage borrows a buffer owned by someone else, release hands it back.
type ExternalStorage struct {
	data    []NodeBasedEdgeAnnotation
	release func() error
}

func NewExternalStorage(data []NodeBasedEdgeAnnotation, release func() error) *ExternalStorage {
	return &ExternalStorage{data: data, release: release}
}

func (s *ExternalStorage) Records() []NodeBasedEdgeAnnotation { return s.data }

func (s *ExternalStorage) Release() error {
	s.data = nil
	if s.release == nil {
		return nil
	}
	return s.release()
}

// ViewStorage read only window over another storage, releasing it does nothing.
type ViewStorage struct {
	data []NodeBasedEdgeAnnotation
}

func NewViewStorage(data []NodeBasedEdgeAnnotation) ViewStorage {
	return ViewStorage{data: data[:len(data):len(data)]}
}

func (s ViewStorage) Records() []NodeBasedEdgeAnnotation { return s.data }
func (s ViewStorage) Release() error                     { return nil }

// AnnotationsFromBytes reinterprets a raw buffer (e.g. a mapped file section) as annotation records
// without copying. the buffer must hold whole 16 byte records and be 4 byte aligned.
func AnnotationsFromBytes(buf []byte) ([]NodeBasedEdgeAnnotation, error) {
	if len(buf) == 0 {
		return []NodeBasedEdgeAnnotation{}, nil
	}
	if len(buf)%nodeBasedEdgeAnnotationSize != 0 {
		return nil, fmt.Errorf("annotation buffer size %d is not a multiple of %d", len(buf), nodeBasedEdgeAnnotationSize)
	}
	if uintptr(unsafe.Pointer(&buf[0]))%unsafe.Alignof(NodeBasedEdgeAnnotation{}) != 0 {
		return nil, fmt.Errorf("annotation buffer is not aligned")
	}
	n := len(buf) / nodeBasedEdgeAnnotationSize
	return unsafe.Slice((*NodeBasedEdgeAnnotation)(unsafe.Pointer(&buf[0])), n), nil
}

// AnnotationsAsBytes the inverse view of AnnotationsFromBytes, used when writing a section.
func AnnotationsAsBytes(records []NodeBasedEdgeAnnotation) []byte {
	if len(records) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&records[0])), len(records)*nodeBasedEdgeAnnotationSize)
}

// AnnotationContainer side table of edge annotations over some storage backend.
type AnnotationContainer[S AnnotationStorage] struct {
	storage S
}

func NewAnnotationContainer[S AnnotationStorage](storage S) *AnnotationContainer[S] {
	return &AnnotationContainer[S]{storage: storage}
}

// NewOwnedAnnotationContainer the container used while building a graph.
func NewOwnedAnnotationContainer(capacity int) *AnnotationContainer[*OwnedStorage] {
	return NewAnnotationContainer(NewOwnedStorage(capacity))
}

func (c *AnnotationContainer[S]) Storage() S {
	return c.storage
}

func (c *AnnotationContainer[S]) Len() int {
	return len(c.storage.Records())
}

func (c *AnnotationContainer[S]) At(id AnnotationID) *NodeBasedEdgeAnnotation {
	return &c.storage.Records()[id]
}

func (c *AnnotationContainer[S]) NameID(id AnnotationID) uint32 {
	return c.At(id).NameID
}

func (c *AnnotationContainer[S]) TravelMode(id AnnotationID) pkg.TravelMode {
	return c.At(id).TravelMode()
}

func (c *AnnotationContainer[S]) ClassData(id AnnotationID) ClassData {
	return c.At(id).Classes
}

func (c *AnnotationContainer[S]) Classification(id AnnotationID) RoadClassification {
	return c.At(id).Classification
}

// CanCombine annotations a and b, see NodeBasedEdgeAnnotation.CanCombineWith.
func (c *AnnotationContainer[S]) CanCombine(a, b AnnotationID) bool {
	if a == b {
		return true
	}
	return c.At(a).CanCombineWith(c.At(b))
}

// View read only container sharing the same records.
func (c *AnnotationContainer[S]) View() *AnnotationContainer[ViewStorage] {
	return NewAnnotationContainer(NewViewStorage(c.storage.Records()))
}

func (c *AnnotationContainer[S]) Release() error {
	return c.storage.Release()
}

// AnnotationTable read access used by the compressor and the graph io, satisfied by every container.
type AnnotationTable interface {
	Len() int
	At(id AnnotationID) *NodeBasedEdgeAnnotation
	CanCombine(a, b AnnotationID) bool
}
