package scene

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/scenepack/pkg/math"
)

// ComponentType is the scalar type of accessor elements (GL enum values).
type ComponentType uint32

const (
	ComponentUnsignedInt ComponentType = 5125
	ComponentFloat       ComponentType = 5126
)

// AccessorType is the element arity of an accessor.
type AccessorType string

const (
	AccessorScalar AccessorType = "SCALAR"
	AccessorVec3   AccessorType = "VEC3"
)

// Target is the GPU binding a buffer view is meant for (GL enum values).
type Target uint32

const (
	TargetArrayBuffer        Target = 34962
	TargetElementArrayBuffer Target = 34963
)

const (
	floatSize     = 4
	indexSize     = 4
	vec3Size      = 3 * floatSize
	componentsVec = 3
)

// Buffer is one binary blob, written to URI by the serializer.
type Buffer struct {
	URI        string
	ByteLength int
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	Target     Target
}

// Accessor describes typed, bounded elements inside a buffer view.
type Accessor struct {
	BufferView    int
	ByteOffset    int
	ComponentType ComponentType
	Type          AccessorType
	Count         int
	Min           []float64
	Max           []float64
}

// BinaryData is the payload of one packed buffer.
type BinaryData struct {
	Name           string
	Data           []byte
	Hash           string
	Buffer         int
	VertexAccessor int
	IndexAccessor  int
}

// PackResult reports where a packed vertex/index pair can be found.
type PackResult struct {
	VertexAccessor int
	IndexAccessor  int
	Hash           string
	// Reused is set when identical streams were packed before and no new
	// buffer was created.
	Reused bool
}

// BufferPacker lays out vertex/index pairs into buffers, views and accessors,
// storing each distinct pair once.
type BufferPacker struct {
	buffers   []Buffer
	views     []BufferView
	accessors []Accessor
	binaries  []BinaryData
	byHash    map[string]int
}

// NewBufferPacker creates an empty packer.
func NewBufferPacker() *BufferPacker {
	return &BufferPacker{byHash: make(map[string]int)}
}

// Pack stores vertices (xyz triples) followed by indices in one buffer named
// name + ".bin". Identical streams packed earlier under any name return the
// earlier accessors.
func (p *BufferPacker) Pack(vertices []float32, indices []uint32, name string) (PackResult, error) {
	if len(vertices)%componentsVec != 0 {
		return PackResult{}, fmt.Errorf("%w: %d floats", ErrVertexStream, len(vertices))
	}
	if len(vertices) == 0 || len(indices) == 0 {
		return PackResult{}, ErrEmptyStream
	}

	sum := hashStreams(vertices, indices)
	if i, ok := p.byHash[sum]; ok {
		match := p.binaries[i]
		return PackResult{
			VertexAccessor: match.VertexAccessor,
			IndexAccessor:  match.IndexAccessor,
			Hash:           sum,
			Reused:         true,
		}, nil
	}

	vertexCount := len(vertices) / componentsVec
	uri := name + ".bin"
	bufferIdx := len(p.buffers)
	p.buffers = append(p.buffers, Buffer{URI: uri})

	vertexView := BufferView{
		Buffer:     bufferIdx,
		ByteOffset: 0,
		ByteLength: vertexCount * vec3Size,
		Target:     TargetArrayBuffer,
	}
	p.views = append(p.views, vertexView)
	vertexViewIdx := len(p.views) - 1

	indexView := BufferView{
		Buffer:     bufferIdx,
		ByteOffset: vertexView.ByteLength,
		ByteLength: len(indices) * indexSize,
		Target:     TargetElementArrayBuffer,
	}
	p.views = append(p.views, indexView)
	indexViewIdx := len(p.views) - 1

	p.buffers[bufferIdx].ByteLength = vertexView.ByteLength + indexView.ByteLength

	vMin, vMax := vec3Bounds(vertices)
	p.accessors = append(p.accessors, Accessor{
		BufferView:    vertexViewIdx,
		ComponentType: ComponentFloat,
		Type:          AccessorVec3,
		Count:         vertexCount,
		Min:           vMin,
		Max:           vMax,
	})
	vertexAccessor := len(p.accessors) - 1

	iMin, iMax := scalarBounds(indices)
	p.accessors = append(p.accessors, Accessor{
		BufferView:    indexViewIdx,
		ComponentType: ComponentUnsignedInt,
		Type:          AccessorScalar,
		Count:         len(indices),
		Min:           []float64{iMin},
		Max:           []float64{iMax},
	})
	indexAccessor := len(p.accessors) - 1

	p.binaries = append(p.binaries, BinaryData{
		Name:           uri,
		Data:           encodeStreams(vertices, indices),
		Hash:           sum,
		Buffer:         bufferIdx,
		VertexAccessor: vertexAccessor,
		IndexAccessor:  indexAccessor,
	})
	p.byHash[sum] = len(p.binaries) - 1

	return PackResult{
		VertexAccessor: vertexAccessor,
		IndexAccessor:  indexAccessor,
		Hash:           sum,
	}, nil
}

// Buffers returns the packed buffers in creation order.
func (p *BufferPacker) Buffers() []Buffer { return append([]Buffer(nil), p.buffers...) }

// BufferViews returns all views in creation order.
func (p *BufferPacker) BufferViews() []BufferView { return append([]BufferView(nil), p.views...) }

// Accessors returns all accessors in creation order.
func (p *BufferPacker) Accessors() []Accessor { return append([]Accessor(nil), p.accessors...) }

// Binaries returns one payload per distinct buffer.
func (p *BufferPacker) Binaries() []BinaryData { return append([]BinaryData(nil), p.binaries...) }

// encodeStreams writes the buffer payload: little-endian float32 positions,
// then little-endian uint32 indices.
func encodeStreams(vertices []float32, indices []uint32) []byte {
	data := make([]byte, len(vertices)*floatSize+len(indices)*indexSize)
	off := 0
	for _, v := range vertices {
		binary.LittleEndian.PutUint32(data[off:], gomath.Float32bits(v))
		off += floatSize
	}
	for _, i := range indices {
		binary.LittleEndian.PutUint32(data[off:], i)
		off += indexSize
	}
	return data
}

func vec3Bounds(vertices []float32) (lo, hi []float64) {
	var bmin, bmax math.Vec3
	for i := 0; i+2 < len(vertices); i += componentsVec {
		p := math.Vec3{X: float64(vertices[i]), Y: float64(vertices[i+1]), Z: float64(vertices[i+2])}
		if i == 0 {
			bmin, bmax = p, p
			continue
		}
		bmin = bmin.Min(p)
		bmax = bmax.Max(p)
	}
	l, h := bmin.Array(), bmax.Array()
	return l[:], h[:]
}

func scalarBounds(indices []uint32) (lo, hi float64) {
	minIdx, maxIdx := indices[0], indices[0]
	for _, i := range indices[1:] {
		if i < minIdx {
			minIdx = i
		}
		if i > maxIdx {
			maxIdx = i
		}
	}
	return float64(minIdx), float64(maxIdx)
}
