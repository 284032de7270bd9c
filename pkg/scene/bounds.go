package scene

import "github.com/Faultbox/scenepack/pkg/math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

// Bounds returns the world-space box around every mesh of the default scene,
// with node transforms applied. ok is false when the scene has no geometry.
func (c *Container) Bounds() (box Box, ok bool) {
	if c.Scene < 0 || c.Scene >= len(c.Scenes) {
		return Box{}, false
	}

	var walk func(idx int, parent math.Mat4)
	walk = func(idx int, parent math.Mat4) {
		n := c.Nodes[idx]
		world := parent.Mul(n.local())

		if n.Mesh != nil {
			for _, p := range c.Meshes[*n.Mesh].Primitives {
				a := c.Accessors[p.Position]
				if len(a.Min) != 3 || len(a.Max) != 3 {
					continue
				}
				lo := math.Vec3{X: a.Min[0], Y: a.Min[1], Z: a.Min[2]}
				hi := math.Vec3{X: a.Max[0], Y: a.Max[1], Z: a.Max[2]}
				for _, corner := range corners(lo, hi) {
					pt := world.TransformPoint(corner)
					if !ok {
						box = Box{Min: pt, Max: pt}
						ok = true
						continue
					}
					box.Min = box.Min.Min(pt)
					box.Max = box.Max.Max(pt)
				}
			}
		}

		for _, child := range n.Children {
			walk(child, world)
		}
	}

	for _, root := range c.Scenes[c.Scene].Nodes {
		walk(root, math.Identity())
	}
	return box, ok
}

// local returns the node's transform relative to its parent.
func (n *Node) local() math.Mat4 {
	switch {
	case n.Matrix != nil:
		return *n.Matrix
	case n.Rotation != nil:
		return n.Rotation.ToMat4()
	default:
		return math.Identity()
	}
}

func corners(lo, hi math.Vec3) [8]math.Vec3 {
	return [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
	}
}
