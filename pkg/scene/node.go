package scene

import (
	"github.com/Faultbox/scenepack/pkg/math"
	"github.com/Faultbox/scenepack/pkg/params"
)

// RootName is the display name of the synthetic root node.
const RootName = "::rootNode::"

// Element identifies the host object a node is opened for.
type Element struct {
	// ID is the host's unique id. Instance nodes get a generated suffix.
	ID   string
	Name string
	// Symbol marks a type definition (rather than a placed object). Its
	// metadata is skipped when opened as an instance.
	Symbol     bool
	Properties *params.Set
}

// Grid is a host grid line exported as a mesh-less node under the root.
type Grid struct {
	ID         string
	Name       string
	Origin     math.Vec3
	Direction  math.Vec3
	Length     float64
	Properties *params.Set
}

// GridParams is the grid geometry stored in node metadata.
type GridParams struct {
	Origin    math.Vec3
	Direction math.Vec3
	Length    float64
}

// Extras is the per-node metadata payload.
type Extras struct {
	UniqueID   string
	Properties *params.Set
	Grid       *GridParams
}

// Node is one entry of the exported tree.
type Node struct {
	Index    int
	ID       string
	Name     string
	Matrix   *math.Mat4
	Rotation *math.Quat
	Children []int
	Mesh     *int
	Instance bool
	Extras   *Extras
}

// exportMatrix drops absent and identity transforms.
func exportMatrix(m *math.Mat4) *math.Mat4 {
	if m == nil || m.IsIdentity() {
		return nil
	}
	c := *m
	return &c
}

// clone returns a copy sharing no memory with n.
func (n *Node) clone() Node {
	c := *n
	c.Children = append([]int(nil), n.Children...)
	if n.Mesh != nil {
		m := *n.Mesh
		c.Mesh = &m
	}
	if n.Matrix != nil {
		m := *n.Matrix
		c.Matrix = &m
	}
	if n.Rotation != nil {
		r := *n.Rotation
		c.Rotation = &r
	}
	c.Extras = n.Extras.clone()
	return c
}

func (x *Extras) clone() *Extras {
	if x == nil {
		return nil
	}
	c := &Extras{UniqueID: x.UniqueID, Properties: x.Properties.Clone()}
	if x.Grid != nil {
		g := *x.Grid
		c.Grid = &g
	}
	return c
}
