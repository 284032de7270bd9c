package scene

// Asset describes the producer of a container.
type Asset struct {
	Version   string
	Generator string
}

// Scene lists the root nodes of one scene.
type Scene struct {
	Nodes []int
}

// Container is the finished export: everything a serializer needs to write
// the scene and its binary buffers.
type Container struct {
	Asset       Asset
	Scene       int
	Scenes      []Scene
	Nodes       []Node
	Materials   []Material
	Meshes      []Mesh
	Buffers     []Buffer
	BufferViews []BufferView
	Accessors   []Accessor
	Binaries    []BinaryData
	Stats       Stats
}

// assemble gathers the builder's tables. Nodes are stored by index, so the
// node slice is already in index order.
func (b *Builder) assemble() *Container {
	nodes := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		nodes[i] = n.clone()
	}

	scenes := make([]Scene, len(b.scenes))
	for i, s := range b.scenes {
		scenes[i] = Scene{Nodes: append([]int(nil), s.Nodes...)}
	}

	stats := b.stats
	stats.Meshes = b.meshes.Len()
	stats.Buffers = len(b.packer.buffers)

	return &Container{
		Asset:       Asset{Version: "2.0", Generator: b.opts.Generator},
		Scene:       0,
		Scenes:      scenes,
		Nodes:       nodes,
		Materials:   b.materials.Materials(),
		Meshes:      b.meshes.Meshes(),
		Buffers:     b.packer.Buffers(),
		BufferViews: b.packer.BufferViews(),
		Accessors:   b.packer.Accessors(),
		Binaries:    b.packer.Binaries(),
		Stats:       stats,
	}
}
