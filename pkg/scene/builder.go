// Package scene assembles a deduplicated scene description from a depth-first
// stream of open-node, geometry and close-node events.
//
// A Builder owns the open-node stack, the material registry, per-node geometry
// buckets, the mesh table and the buffer packer for one export. It is not safe
// for concurrent use and cannot be reused after Finish or a usage error.
package scene

import (
	"fmt"

	"github.com/Faultbox/scenepack/pkg/math"
	"go.uber.org/zap"
)

type builderState uint8

const (
	stateUninitialized builderState = iota
	stateStarted
	stateFinished
)

// Stats counts what an export produced and how much was shared.
// Nodes excludes the root.
type Stats struct {
	Nodes            int
	Fragments        int
	Primitives       int
	Meshes           int
	MeshesReused     int
	Buffers          int
	BuffersReused    int
	MissingMaterials int
}

// Builder is the scene graph assembler.
type Builder struct {
	opts  Options
	log   *zap.Logger
	quant quantizer

	state builderState
	err   error

	nodes  []*Node
	byID   map[string]int
	stack  []int
	scopes []*geometryScope
	scenes []Scene

	materials *MaterialRegistry
	meshes    *MeshAssembler
	packer    *BufferPacker
	stats     Stats
}

// New creates a Builder. Call Start before anything else.
func New(opts Options) (*Builder, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	return &Builder{
		opts:      opts,
		log:       opts.Logger,
		quant:     newQuantizer(opts.Precision),
		byID:      make(map[string]int),
		materials: NewMaterialRegistry(),
		meshes:    NewMeshAssembler(),
		packer:    NewBufferPacker(),
	}, nil
}

// fail records a usage error. The first one sticks.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
		b.log.Error("scene builder failed", zap.Error(err), zap.Int("depth", len(b.stack)))
	}
	return err
}

// check returns the sticky error or a usage error for the current state.
func (b *Builder) check() error {
	if b.err != nil {
		return fmt.Errorf("builder unusable: %w", b.err)
	}
	switch b.state {
	case stateUninitialized:
		return b.fail(ErrNotStarted)
	case stateFinished:
		return b.fail(ErrFinished)
	}
	return nil
}

// Err returns the usage error that stopped the builder, if any.
func (b *Builder) Err() error { return b.err }

// Start creates the root node and the default scene.
func (b *Builder) Start() error {
	if b.err != nil {
		return fmt.Errorf("builder unusable: %w", b.err)
	}
	if b.state != stateUninitialized {
		return b.fail(ErrAlreadyStarted)
	}

	root := &Node{
		Index:    0,
		ID:       b.opts.NewID(),
		Name:     RootName,
		Children: []int{},
	}
	if b.opts.FlipAxis {
		q := math.ZUpToYUp()
		root.Rotation = &q
	}
	b.addNode(root)
	b.stack = append(b.stack, root.Index)
	b.scenes = append(b.scenes, Scene{Nodes: []int{root.Index}})
	b.state = stateStarted

	b.log.Debug("export started",
		zap.String("root", root.ID),
		zap.Int("precision", b.opts.Precision),
		zap.Bool("flipAxis", b.opts.FlipAxis))
	return nil
}

func (b *Builder) addNode(n *Node) {
	b.nodes = append(b.nodes, n)
	b.byID[n.ID] = n.Index
}

// ContainsNode reports whether a node with id exists.
func (b *Builder) ContainsNode(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// Depth returns the number of open nodes below the root.
func (b *Builder) Depth() int {
	if len(b.stack) == 0 {
		return 0
	}
	return len(b.stack) - 1
}

// CurrentNode returns a deep copy of the innermost open node.
func (b *Builder) CurrentNode() (Node, bool) {
	if len(b.stack) == 0 {
		return Node{}, false
	}
	return b.nodes[b.stack[len(b.stack)-1]].clone(), true
}

// OpenNode creates a child of the current node and makes it current.
// xform may be nil; identity transforms are dropped. Instance nodes get a
// unique id derived from elem.ID so one element can be placed many times.
func (b *Builder) OpenNode(elem Element, xform *math.Mat4, isInstance bool) error {
	if err := b.check(); err != nil {
		return err
	}

	id := elem.ID
	if isInstance {
		id = elem.ID + "::" + b.opts.NewID()
	}
	if b.ContainsNode(id) {
		return b.fail(fmt.Errorf("%w: %q", ErrDuplicateNode, id))
	}

	node := &Node{
		Index:    len(b.nodes),
		ID:       id,
		Name:     elem.Name,
		Matrix:   exportMatrix(xform),
		Instance: isInstance,
	}
	if b.opts.ExportProperties && !(isInstance && elem.Symbol) {
		node.Extras = &Extras{
			UniqueID:   elem.ID,
			Properties: elem.Properties.Clone(),
		}
	}

	parent := b.nodes[b.stack[len(b.stack)-1]]
	parent.Children = append(parent.Children, node.Index)

	b.addNode(node)
	b.stack = append(b.stack, node.Index)
	b.scopes = append(b.scopes, newGeometryScope())
	b.stats.Nodes++

	b.log.Debug("node open",
		zap.Int("depth", b.Depth()),
		zap.Int("index", node.Index),
		zap.String("id", node.ID),
		zap.String("name", node.Name),
		zap.Bool("instance", isInstance))
	return nil
}

// CloseNode turns the current node's geometry into a mesh and returns to its
// parent.
func (b *Builder) CloseNode() error {
	if err := b.check(); err != nil {
		return err
	}
	if len(b.stack) <= 1 {
		return b.fail(ErrUnbalancedClose)
	}

	node := b.nodes[b.stack[len(b.stack)-1]]
	scope := b.scopes[len(b.scopes)-1]
	if err := b.closeGeometry(node, scope); err != nil {
		return b.fail(err)
	}

	b.scopes = b.scopes[:len(b.scopes)-1]
	b.stack = b.stack[:len(b.stack)-1]

	b.log.Debug("node closed",
		zap.Int("depth", b.Depth()),
		zap.Int("index", node.Index),
		zap.Bool("hasMesh", node.Mesh != nil))
	return nil
}

// closeGeometry packs every non-empty bucket of the node and attaches the
// resulting mesh, reusing an identical one if it exists.
func (b *Builder) closeGeometry(node *Node, scope *geometryScope) error {
	var prims []Primitive
	for ordinal, bk := range scope.order {
		if len(bk.faces) == 0 {
			continue
		}

		name := fmt.Sprintf("node%d_%d", node.Index, ordinal)
		res, err := b.packer.Pack(bk.positions(b.quant), bk.faces, name)
		if err != nil {
			return fmt.Errorf("packing %s: %w", name, err)
		}
		if res.Reused {
			b.stats.BuffersReused++
		}

		prim := Primitive{Position: res.VertexAccessor, Indices: res.IndexAccessor}
		if idx, ok := b.materials.IndexOf(bk.materialKey); ok {
			prim.Material = &idx
		} else {
			b.stats.MissingMaterials++
			b.log.Warn("primitive has no material",
				zap.Int("node", node.Index),
				zap.String("material", bk.materialKey))
		}
		prims = append(prims, prim)
	}

	if len(prims) == 0 {
		return nil
	}

	idx, reused := b.meshes.Add(prims)
	node.Mesh = &idx
	b.stats.Primitives += len(prims)
	if reused {
		b.stats.MeshesReused++
		b.log.Debug("mesh reused", zap.Int("node", node.Index), zap.Int("mesh", idx))
	}
	return nil
}

// SwitchMaterial registers or updates a material and makes it active.
// See MaterialRegistry.Switch.
func (b *Builder) SwitchMaterial(key, name string, color Color, transparency float64) (int, error) {
	if b.err != nil {
		return -1, fmt.Errorf("builder unusable: %w", b.err)
	}
	if b.state == stateFinished {
		return -1, b.fail(ErrFinished)
	}
	return b.materials.Switch(key, name, color, transparency)
}

// UseMaterial makes a registered key active. See MaterialRegistry.Use.
func (b *Builder) UseMaterial(key string) error {
	if b.err != nil {
		return fmt.Errorf("builder unusable: %w", b.err)
	}
	if b.state == stateFinished {
		return b.fail(ErrFinished)
	}
	return b.materials.Use(key)
}

// Materials exposes the registry for lookups.
func (b *Builder) Materials() *MaterialRegistry { return b.materials }

// SubmitFragment adds geometry to the bucket of the current node and active
// material. Geometry directly under the root is rejected: the root is never
// closed, so it could never be packed.
//
// An unregistered active material still records the geometry and returns
// ErrMissingMaterial; the resulting primitive has no material.
func (b *Builder) SubmitFragment(f Fragment) error {
	if err := b.check(); err != nil {
		return err
	}
	if len(b.stack) <= 1 {
		return b.fail(ErrNoOpenNode)
	}
	if err := f.validate(b.quant); err != nil {
		return err
	}

	key := b.materials.Active()
	scope := b.scopes[len(b.scopes)-1]
	scope.bucket(key).submit(f, b.quant)
	b.stats.Fragments++

	if _, ok := b.materials.IndexOf(key); !ok {
		return fmt.Errorf("%w: %q", ErrMissingMaterial, key)
	}
	return nil
}

// AddGrid adds a mesh-less grid node directly under the root.
func (b *Builder) AddGrid(g Grid) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.ContainsNode(g.ID) {
		return b.fail(fmt.Errorf("%w: %q", ErrDuplicateNode, g.ID))
	}

	node := &Node{
		Index: len(b.nodes),
		ID:    g.ID,
		Name:  g.Name,
		Extras: &Extras{
			UniqueID: g.ID,
			Grid: &GridParams{
				Origin:    g.Origin,
				Direction: g.Direction,
				Length:    g.Length,
			},
		},
	}
	if b.opts.ExportProperties {
		node.Extras.Properties = g.Properties.Clone()
	}

	root := b.nodes[0]
	root.Children = append(root.Children, node.Index)
	b.addNode(node)
	b.stats.Nodes++

	b.log.Debug("grid added", zap.Int("index", node.Index), zap.String("name", g.Name))
	return nil
}

// Finish checks the traversal is balanced and returns the assembled
// container. The builder cannot be used afterwards.
func (b *Builder) Finish() (*Container, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if len(b.stack) != 1 {
		return nil, b.fail(fmt.Errorf("%w: %d open", ErrUnclosedNodes, len(b.stack)-1))
	}

	b.state = stateFinished
	c := b.assemble()

	b.log.Info("export finished",
		zap.Int("nodes", len(c.Nodes)),
		zap.Int("materials", len(c.Materials)),
		zap.Int("meshes", len(c.Meshes)),
		zap.Int("meshesReused", c.Stats.MeshesReused),
		zap.Int("buffers", len(c.Buffers)),
		zap.Int("buffersReused", c.Stats.BuffersReused))
	return c, nil
}
