package scene

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/scenepack/pkg/math"
)

// Fragment is one triangulated piece of host geometry. Facets index into
// Points. Normals are carried along but not packed.
type Fragment struct {
	Points  []math.Vec3
	Facets  [][3]int
	Normals []math.Vec3
}

// validate checks every point and facet before anything is recorded.
func (f Fragment) validate(q quantizer) error {
	for i, p := range f.Points {
		if !q.representable(p) {
			return &PointError{Point: i, Value: p}
		}
	}
	for i, facet := range f.Facets {
		for _, v := range facet {
			if v < 0 || v >= len(f.Points) {
				return &FacetError{Facet: i, Vertex: v, Points: len(f.Points)}
			}
		}
	}
	return nil
}

// FacetError reports a facet pointing outside its fragment's points.
type FacetError struct {
	Facet  int
	Vertex int
	Points int
}

func (e *FacetError) Error() string {
	return fmt.Sprintf("%v: facet %d uses point %d of %d", ErrInvalidFacet, e.Facet, e.Vertex, e.Points)
}

// Unwrap lets errors.Is match ErrInvalidFacet.
func (e *FacetError) Unwrap() error { return ErrInvalidFacet }

// PointError reports a coordinate that cannot be snapped to the grid.
type PointError struct {
	Point int
	Value math.Vec3
}

func (e *PointError) Error() string {
	return fmt.Sprintf("%v: point %d is (%g, %g, %g)", ErrInvalidPoint, e.Point, e.Value.X, e.Value.Y, e.Value.Z)
}

// Unwrap lets errors.Is match ErrInvalidPoint.
func (e *PointError) Unwrap() error { return ErrInvalidPoint }

// vertexKey is a point snapped to the quantization grid.
type vertexKey [3]int64

// quantizer snaps coordinates to Precision decimal digits, rounding half
// away from zero.
type quantizer struct {
	scale float64
}

func newQuantizer(precision int) quantizer {
	return quantizer{scale: gomath.Pow10(precision)}
}

// keyLimit is 2^63, the first magnitude a snapped coordinate cannot hold.
const keyLimit = 1 << 63

// representable reports whether every coordinate of p is finite and snaps to
// an int64 without overflow.
func (q quantizer) representable(p math.Vec3) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if gomath.IsNaN(v) || gomath.Abs(gomath.Round(v*q.scale)) >= keyLimit {
			return false
		}
	}
	return true
}

func (q quantizer) key(p math.Vec3) vertexKey {
	return vertexKey{
		int64(gomath.Round(p.X * q.scale)),
		int64(gomath.Round(p.Y * q.scale)),
		int64(gomath.Round(p.Z * q.scale)),
	}
}

func (q quantizer) coord(k int64) float32 {
	return float32(float64(k) / q.scale)
}

// vertexTable deduplicates snapped points. Index order is insertion order.
type vertexTable struct {
	index map[vertexKey]uint32
	order []vertexKey
}

func (t *vertexTable) add(k vertexKey) uint32 {
	if idx, ok := t.index[k]; ok {
		return idx
	}
	if t.index == nil {
		t.index = make(map[vertexKey]uint32)
	}
	idx := uint32(len(t.order))
	t.index[k] = idx
	t.order = append(t.order, k)
	return idx
}

func (t *vertexTable) len() int { return len(t.order) }

// bucket accumulates geometry for one (node, material) pair.
type bucket struct {
	materialKey string
	vertices    vertexTable
	faces       []uint32
	normals     []math.Vec3
}

// positions flattens the deduplicated vertices to xyz floats in index order.
func (b *bucket) positions(q quantizer) []float32 {
	out := make([]float32, 0, b.vertices.len()*3)
	for _, k := range b.vertices.order {
		out = append(out, q.coord(k[0]), q.coord(k[1]), q.coord(k[2]))
	}
	return out
}

// geometryScope holds the buckets of one open node in creation order.
type geometryScope struct {
	byMaterial map[string]*bucket
	order      []*bucket
}

func newGeometryScope() *geometryScope {
	return &geometryScope{byMaterial: make(map[string]*bucket)}
}

func (s *geometryScope) bucket(materialKey string) *bucket {
	if b, ok := s.byMaterial[materialKey]; ok {
		return b
	}
	b := &bucket{materialKey: materialKey}
	s.byMaterial[materialKey] = b
	s.order = append(s.order, b)
	return b
}

// submit records a validated fragment into the bucket.
func (b *bucket) submit(f Fragment, q quantizer) {
	for _, facet := range f.Facets {
		for _, v := range facet {
			b.faces = append(b.faces, b.vertices.add(q.key(f.Points[v])))
		}
	}
	b.normals = append(b.normals, f.Normals...)
}
