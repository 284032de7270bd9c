// Package script reads YAML scene scripts: a declarative description of a
// host model traversal (materials, grids and a node tree with geometry) that
// can be replayed against a scene.Builder.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"

	"github.com/Faultbox/scenepack/pkg/math"
	"github.com/Faultbox/scenepack/pkg/params"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTransform is returned for transforms that set more than one form.
var ErrInvalidTransform = errors.New("invalid transform")

// Script is a whole traversal.
type Script struct {
	Name      string     `yaml:"name"`
	Materials []Material `yaml:"materials"`
	Grids     []Grid     `yaml:"grids"`
	Nodes     []Node     `yaml:"nodes"`
}

// Material is registered before the traversal starts.
type Material struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	// Color is 8-bit RGB.
	Color        [3]uint8 `yaml:"color"`
	Transparency float64  `yaml:"transparency"`
}

// Grid becomes a mesh-less node under the root.
type Grid struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Origin     [3]float64  `yaml:"origin"`
	Direction  [3]float64  `yaml:"direction"`
	Length     float64     `yaml:"length"`
	Properties *params.Set `yaml:"properties"`
}

// Node is one element, opened, filled and closed in document order.
type Node struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Symbol     bool        `yaml:"symbol"`
	Instance   bool        `yaml:"instance"`
	Transform  *Transform  `yaml:"transform"`
	Properties *params.Set `yaml:"properties"`
	Geometry   []Fragment  `yaml:"geometry"`
	Children   []Node      `yaml:"children"`
}

// Fragment is triangulated geometry submitted under Material.
type Fragment struct {
	Material string       `yaml:"material"`
	Points   [][3]float64 `yaml:"points"`
	Facets   [][3]int     `yaml:"facets"`
	Normals  [][3]float64 `yaml:"normals"`
}

// Transform places a node in its parent. Set either Matrix, Basis, or any
// of Translate, Rotate and Scale (applied as T*R*S).
type Transform struct {
	Matrix    *[16]float64 `yaml:"matrix"` // column-major
	Basis     *Basis       `yaml:"basis"`
	Translate *[3]float64  `yaml:"translate"`
	Rotate    *Rotation    `yaml:"rotate"`
	Scale     *[3]float64  `yaml:"scale"`
}

// Basis is a host-style transform: three axes and an origin. An omitted Z
// is derived as X × Y.
type Basis struct {
	X      [3]float64 `yaml:"x"`
	Y      [3]float64 `yaml:"y"`
	Z      [3]float64 `yaml:"z"`
	Origin [3]float64 `yaml:"origin"`
}

// Rotation is an axis and an angle in degrees.
type Rotation struct {
	Axis    [3]float64 `yaml:"axis"`
	Degrees float64    `yaml:"degrees"`
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script. Unknown keys are rejected. UTF-16 files with a
// byte order mark, as written by some Windows hosts, are transcoded first.
func Parse(data []byte) (*Script, error) {
	text := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	dec := yaml.NewDecoder(text)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &s, nil
}

// Matrix4 returns the transform as a matrix. A nil transform is nil.
func (t *Transform) Matrix4() (*math.Mat4, error) {
	if t == nil {
		return nil, nil
	}

	composed := t.Translate != nil || t.Rotate != nil || t.Scale != nil
	forms := 0
	for _, set := range []bool{t.Matrix != nil, t.Basis != nil, composed} {
		if set {
			forms++
		}
	}
	if forms > 1 {
		return nil, fmt.Errorf("%w: matrix, basis and translate/rotate/scale are exclusive", ErrInvalidTransform)
	}

	var m math.Mat4
	switch {
	case t.Matrix != nil:
		m = math.Mat4(*t.Matrix)
	case t.Basis != nil:
		x, y, z := vec(t.Basis.X), vec(t.Basis.Y), vec(t.Basis.Z)
		if z == (math.Vec3{}) {
			z = x.Cross(y)
		}
		m = math.FromBasis(x, y, z, vec(t.Basis.Origin))
	default:
		m = math.Identity()
		if t.Translate != nil {
			m = m.Mul(math.Translate(t.Translate[0], t.Translate[1], t.Translate[2]))
		}
		if t.Rotate != nil {
			axis := vec(t.Rotate.Axis)
			if axis.Length() == 0 {
				return nil, fmt.Errorf("%w: zero rotation axis", ErrInvalidTransform)
			}
			m = m.Mul(math.RotateAxis(axis.Normalize(), t.Rotate.Degrees*gomath.Pi/180))
		}
		if t.Scale != nil {
			m = m.Mul(math.Scale(t.Scale[0], t.Scale[1], t.Scale[2]))
		}
	}
	return &m, nil
}

func vec(a [3]float64) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func vecs(in [][3]float64) []math.Vec3 {
	if len(in) == 0 {
		return nil
	}
	out := make([]math.Vec3, len(in))
	for i, a := range in {
		out[i] = vec(a)
	}
	return out
}
