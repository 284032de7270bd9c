package script

import (
	"errors"
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/Faultbox/scenepack/pkg/math"
	"github.com/Faultbox/scenepack/pkg/params"
	"github.com/Faultbox/scenepack/pkg/scene"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"
)

func testOptions() scene.Options {
	n := 0
	opts := scene.DefaultOptions()
	opts.NewID = func() string {
		n++
		return "g" + string(rune('0'+n))
	}
	return opts
}

func TestLoadHouse(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "house.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Name != "house" || len(s.Materials) != 2 || len(s.Grids) != 1 || len(s.Nodes) != 1 {
		t.Fatalf("unexpected script: %+v", s)
	}
	if s.Materials[1].Color != [3]uint8{120, 180, 255} || s.Materials[1].Transparency != 0.7 {
		t.Errorf("glass = %+v", s.Materials[1])
	}

	slab := s.Nodes[0].Children[0]
	if len(slab.Geometry) != 1 || len(slab.Geometry[0].Points) != 4 {
		t.Fatalf("slab geometry = %+v", slab.Geometry)
	}
	if v, ok := slab.Properties.Get("Count"); !ok || v != params.Int(1) {
		t.Errorf("Count = %v, %v", v, ok)
	}
	if v, ok := slab.Properties.Get("Thickness"); !ok || v != params.Double(200) {
		t.Errorf("Thickness = %v, %v", v, ok)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("nodes:\n  - id: a\n    colour: red\n")); err == nil {
		t.Error("expected unknown key to be rejected")
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(s.Nodes) != 0 {
		t.Errorf("nodes = %d", len(s.Nodes))
	}
}

func TestTransformMatrix4(t *testing.T) {
	tests := []struct {
		name    string
		tr      *Transform
		want    *math.Mat4
		wantErr bool
	}{
		{name: "nil"},
		{
			name: "translate",
			tr:   &Transform{Translate: &[3]float64{1, 2, 3}},
			want: ptr(math.Translate(1, 2, 3)),
		},
		{
			name: "basis",
			tr: &Transform{Basis: &Basis{
				X: [3]float64{1, 0, 0}, Y: [3]float64{0, 1, 0}, Z: [3]float64{0, 0, 1},
				Origin: [3]float64{5, 6, 7},
			}},
			want: ptr(math.Translate(5, 6, 7)),
		},
		{
			name: "basis without z",
			tr: &Transform{Basis: &Basis{
				X: [3]float64{0, 1, 0}, Y: [3]float64{-1, 0, 0},
			}},
			want: ptr(math.FromBasis(math.Vec3{Y: 1}, math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{})),
		},
		{
			name: "matrix",
			tr:   &Transform{Matrix: (*[16]float64)(ptr(math.Scale(2, 2, 2)))},
			want: ptr(math.Scale(2, 2, 2)),
		},
		{
			name: "translate and scale",
			tr:   &Transform{Translate: &[3]float64{1, 0, 0}, Scale: &[3]float64{2, 2, 2}},
			want: ptr(math.Translate(1, 0, 0).Mul(math.Scale(2, 2, 2))),
		},
		{
			name:    "two forms",
			tr:      &Transform{Matrix: &[16]float64{}, Translate: &[3]float64{}},
			wantErr: true,
		},
		{
			name:    "zero axis",
			tr:      &Transform{Rotate: &Rotation{Degrees: 90}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.Matrix4()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransform) {
					t.Errorf("got %v, want ErrInvalidTransform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Matrix4: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("matrix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformRotate(t *testing.T) {
	tr := &Transform{Rotate: &Rotation{Axis: [3]float64{0, 0, 2}, Degrees: 90}}
	m, err := tr.Matrix4()
	if err != nil {
		t.Fatalf("Matrix4: %v", err)
	}
	got := m.TransformPoint(math.Vec3{X: 1})
	if gomath.Abs(got.X) > 1e-9 || gomath.Abs(got.Y-1) > 1e-9 || gomath.Abs(got.Z) > 1e-9 {
		t.Errorf("rotated point = %+v, want (0, 1, 0)", got)
	}
}

func ptr(m math.Mat4) *math.Mat4 { return &m }

func TestRunHouse(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "house.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c, res, err := Run(testOptions(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res != (Result{Nodes: 6, Fragments: 3}) {
		t.Errorf("result = %+v", res)
	}

	// root, level, slab, window, window type, window, window type, grid
	if len(c.Nodes) != 8 {
		t.Fatalf("nodes = %d, want 8", len(c.Nodes))
	}
	if diff := cmp.Diff([]int{1, 7}, c.Nodes[0].Children); diff != "" {
		t.Errorf("root children mismatch (-want +got):\n%s", diff)
	}

	// Both window types carry the same glass panel.
	if c.Nodes[4].Mesh == nil || c.Nodes[6].Mesh == nil || *c.Nodes[4].Mesh != *c.Nodes[6].Mesh {
		t.Error("window panels should share a mesh")
	}
	if len(c.Meshes) != 2 || len(c.Buffers) != 2 {
		t.Errorf("meshes/buffers = %d/%d, want 2/2", len(c.Meshes), len(c.Buffers))
	}
	if c.Nodes[4].Extras != nil {
		t.Error("symbol instances should not carry metadata")
	}
	if c.Nodes[3].ID != "window::g2" || c.Nodes[5].ID != "window::g4" {
		t.Errorf("instance ids = %q, %q", c.Nodes[3].ID, c.Nodes[5].ID)
	}
	if c.Nodes[3].Matrix == nil || *c.Nodes[3].Matrix != math.Translate(1000, 0, 900) {
		t.Errorf("window transform = %v", c.Nodes[3].Matrix)
	}
	if c.Nodes[7].Extras == nil || c.Nodes[7].Extras.Grid == nil || c.Nodes[7].Extras.Grid.Length != 10000 {
		t.Errorf("grid node = %+v", c.Nodes[7])
	}
}

func TestReplayWarnings(t *testing.T) {
	s := &Script{
		Materials: []Material{{Key: "", Name: "nameless"}, {Key: "m", Name: "M"}},
		Nodes: []Node{{
			ID: "a",
			Geometry: []Fragment{
				{Material: "m", Points: [][3]float64{{0, 0, 0}, {1, 0, 0}}, Facets: [][3]int{{0, 1, 2}}},
				{Material: "missing", Points: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Facets: [][3]int{{0, 1, 2}}},
				{Material: "m", Points: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Facets: [][3]int{{0, 1, 2}}},
				{Material: "m", Points: [][3]float64{{0, 0, 0}, {1e20, 0, 0}, {0, 1, 0}}, Facets: [][3]int{{0, 1, 2}}},
			},
		}},
	}

	c, res, err := Run(testOptions(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Warnings != 4 || res.Fragments != 2 {
		t.Errorf("result = %+v, want 4 warnings and 2 fragments", res)
	}
	if len(c.Meshes[0].Primitives) != 2 {
		t.Errorf("primitives = %d, want 2", len(c.Meshes[0].Primitives))
	}
	if c.Stats.MissingMaterials != 1 {
		t.Errorf("missing materials = %d, want 1", c.Stats.MissingMaterials)
	}
}

func TestReplayFatal(t *testing.T) {
	s := &Script{Nodes: []Node{{ID: "a"}, {ID: "a"}}}
	if _, _, err := Run(testOptions(), s); !errors.Is(err, scene.ErrDuplicateNode) {
		t.Errorf("got %v, want ErrDuplicateNode", err)
	}
}

func TestParseUTF16(t *testing.T) {
	src := "name: bom\nnodes:\n  - id: a\n"
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte(src))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "bom" || len(s.Nodes) != 1 || s.Nodes[0].ID != "a" {
		t.Errorf("unexpected script: %+v", s)
	}
}

func TestParseUTF8BOM(t *testing.T) {
	s, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, "name: bom\n"...))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "bom" {
		t.Errorf("name = %q", s.Name)
	}
}
