package scene

// Primitive is one material's share of a mesh.
type Primitive struct {
	// Position is the VEC3 position accessor.
	Position int
	// Indices is the SCALAR index accessor.
	Indices int
	// Material is nil when the bucket's key was never registered.
	Material *int
}

// Mesh is a deduplicated primitive list.
type Mesh struct {
	Hash       string
	Primitives []Primitive
}

// MeshAssembler stores meshes once per content hash.
type MeshAssembler struct {
	meshes []Mesh
	byHash map[string]int
}

// NewMeshAssembler creates an empty assembler.
func NewMeshAssembler() *MeshAssembler {
	return &MeshAssembler{byHash: make(map[string]int)}
}

// Add returns the index of a mesh with exactly these primitives, appending
// one if none exists yet. reused reports whether an existing mesh matched.
func (a *MeshAssembler) Add(prims []Primitive) (idx int, reused bool) {
	sum := hashPrimitives(prims)
	if idx, ok := a.byHash[sum]; ok {
		return idx, true
	}

	owned := make([]Primitive, len(prims))
	for i, p := range prims {
		owned[i] = p
		if p.Material != nil {
			m := *p.Material
			owned[i].Material = &m
		}
	}
	a.meshes = append(a.meshes, Mesh{Hash: sum, Primitives: owned})
	idx = len(a.meshes) - 1
	a.byHash[sum] = idx
	return idx, false
}

// Len returns the number of distinct meshes.
func (a *MeshAssembler) Len() int { return len(a.meshes) }

// Meshes returns the meshes in creation order.
func (a *MeshAssembler) Meshes() []Mesh {
	return append([]Mesh(nil), a.meshes...)
}
