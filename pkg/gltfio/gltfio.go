// Package gltfio converts a finished scene container into a glTF 2.0
// document and writes it to disk with one external .bin file per buffer.
package gltfio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/scenepack/pkg/params"
	"github.com/Faultbox/scenepack/pkg/scene"
	"github.com/qmuntal/gltf"
)

// ErrNilContainer is returned when there is nothing to convert.
var ErrNilContainer = errors.New("nil container")

// Extras keys written on nodes.
const (
	ExtraUniqueID   = "uniqueId"
	ExtraProperties = "properties"
	ExtraGrid       = "gridParameters"
)

// ToDocument maps the container tables one to one onto a glTF document.
// Indices are preserved, so node, mesh and accessor references stay valid.
// Buffer payloads are attached as Data for the encoder to write.
func ToDocument(c *scene.Container) (*gltf.Document, error) {
	if c == nil {
		return nil, ErrNilContainer
	}

	doc := &gltf.Document{
		Asset: gltf.Asset{Version: c.Asset.Version, Generator: c.Asset.Generator},
		Scene: gltf.Index(c.Scene),
	}

	for _, s := range c.Scenes {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Nodes: append([]int(nil), s.Nodes...)})
	}

	for _, n := range c.Nodes {
		node, err := convertNode(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, m := range c.Materials {
		doc.Materials = append(doc.Materials, convertMaterial(m))
	}

	for _, m := range c.Meshes {
		mesh := &gltf.Mesh{}
		for _, p := range m.Primitives {
			prim := &gltf.Primitive{
				Attributes: map[string]int{gltf.POSITION: p.Position},
				Indices:    gltf.Index(p.Indices),
				Mode:       gltf.PrimitiveTriangles,
			}
			if p.Material != nil {
				prim.Material = gltf.Index(*p.Material)
			}
			mesh.Primitives = append(mesh.Primitives, prim)
		}
		doc.Meshes = append(doc.Meshes, mesh)
	}

	for i, b := range c.Buffers {
		buf := &gltf.Buffer{URI: b.URI, ByteLength: b.ByteLength}
		if i < len(c.Binaries) {
			buf.Data = c.Binaries[i].Data
		}
		doc.Buffers = append(doc.Buffers, buf)
	}

	for _, v := range c.BufferViews {
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     v.Buffer,
			ByteOffset: v.ByteOffset,
			ByteLength: v.ByteLength,
			Target:     convertTarget(v.Target),
		})
	}

	for _, a := range c.Accessors {
		acc := &gltf.Accessor{
			BufferView: gltf.Index(a.BufferView),
			ByteOffset: a.ByteOffset,
			Count:      a.Count,
			Min:        append([]float64(nil), a.Min...),
			Max:        append([]float64(nil), a.Max...),
		}
		switch a.ComponentType {
		case scene.ComponentFloat:
			acc.ComponentType = gltf.ComponentFloat
		case scene.ComponentUnsignedInt:
			acc.ComponentType = gltf.ComponentUint
		default:
			return nil, fmt.Errorf("accessor component type %d not supported", a.ComponentType)
		}
		switch a.Type {
		case scene.AccessorVec3:
			acc.Type = gltf.AccessorVec3
		case scene.AccessorScalar:
			acc.Type = gltf.AccessorScalar
		default:
			return nil, fmt.Errorf("accessor type %q not supported", a.Type)
		}
		doc.Accessors = append(doc.Accessors, acc)
	}

	return doc, nil
}

func convertNode(n scene.Node) (*gltf.Node, error) {
	node := &gltf.Node{
		Name:     n.Name,
		Children: append([]int(nil), n.Children...),
		Matrix:   gltf.DefaultMatrix,
		Rotation: gltf.DefaultRotation,
		Scale:    gltf.DefaultScale,
	}
	if n.Matrix != nil {
		node.Matrix = *n.Matrix
	}
	if n.Rotation != nil {
		node.Rotation = n.Rotation.Array()
	}
	if n.Mesh != nil {
		node.Mesh = gltf.Index(*n.Mesh)
	}

	if n.Extras != nil {
		extras, err := nodeExtras(n.Extras)
		if err != nil {
			return nil, fmt.Errorf("node %d extras: %w", n.Index, err)
		}
		node.Extras = extras
	}
	return node, nil
}

func nodeExtras(x *scene.Extras) (map[string]any, error) {
	out := map[string]any{ExtraUniqueID: x.UniqueID}
	if x.Properties != nil {
		props := params.Map{}
		if err := x.Properties.Apply(props); err != nil {
			return nil, err
		}
		out[ExtraProperties] = map[string]any(props)
	}
	if x.Grid != nil {
		out[ExtraGrid] = map[string]any{
			"origin":    x.Grid.Origin.Array(),
			"direction": x.Grid.Direction.Array(),
			"length":    x.Grid.Length,
		}
	}
	return out, nil
}

func convertMaterial(m scene.Material) *gltf.Material {
	base := m.PBR.BaseColorFactor
	mat := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  gltf.Float(m.PBR.MetallicFactor),
			RoughnessFactor: gltf.Float(m.PBR.RoughnessFactor),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if base[3] < 1 {
		mat.AlphaMode = gltf.AlphaBlend
	}
	return mat
}

func convertTarget(t scene.Target) gltf.Target {
	switch t {
	case scene.TargetElementArrayBuffer:
		return gltf.TargetElementArrayBuffer
	default:
		return gltf.TargetArrayBuffer
	}
}

// Save converts c and writes the .gltf document at path with the buffer
// files next to it.
func Save(c *scene.Container, path string) error {
	doc, err := ToDocument(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
