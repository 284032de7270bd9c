package scene

import "fmt"

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ColorFromRGB8 converts an 8-bit host color to Color with full alpha.
func ColorFromRGB8(r, g, b uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: 1,
	}
}

// PBR holds metallic-roughness factors.
type PBR struct {
	BaseColorFactor [4]float64
	MetallicFactor  float64
	RoughnessFactor float64
}

// Material is one registered material.
type Material struct {
	Key  string
	Name string
	PBR  PBR
}

// MaterialRegistry maps material keys to materials in first-seen order.
// It also tracks the active key geometry is submitted under.
type MaterialRegistry struct {
	materials []Material
	index     map[string]int
	active    string
}

// NewMaterialRegistry creates an empty registry.
func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{index: make(map[string]int)}
}

// Switch registers or updates the material for key and makes it active.
// Metallic is fixed at 0 and roughness at 1; alpha is 1 - transparency.
// The input alpha channel is ignored. Returns the material index.
func (r *MaterialRegistry) Switch(key, name string, color Color, transparency float64) (int, error) {
	if key == "" {
		return -1, ErrEmptyMaterialKey
	}

	m := Material{
		Key:  key,
		Name: name,
		PBR: PBR{
			BaseColorFactor: [4]float64{
				clamp01(color.R),
				clamp01(color.G),
				clamp01(color.B),
				1 - clamp01(transparency),
			},
			MetallicFactor:  0,
			RoughnessFactor: 1,
		},
	}

	idx, ok := r.index[key]
	if ok {
		r.materials[idx] = m
	} else {
		idx = len(r.materials)
		r.materials = append(r.materials, m)
		r.index[key] = idx
	}
	r.active = key
	return idx, nil
}

// Use makes key active without changing any record. An unknown key still
// becomes active, so later geometry is recorded, but ErrMissingMaterial is
// returned.
func (r *MaterialRegistry) Use(key string) error {
	r.active = key
	if _, ok := r.index[key]; !ok {
		return fmt.Errorf("%w: %q", ErrMissingMaterial, key)
	}
	return nil
}

// Active returns the key geometry is currently submitted under.
func (r *MaterialRegistry) Active() string { return r.active }

// IndexOf returns the index of key, or false if it was never registered.
func (r *MaterialRegistry) IndexOf(key string) (int, bool) {
	idx, ok := r.index[key]
	return idx, ok
}

// Get returns the material for key.
func (r *MaterialRegistry) Get(key string) (Material, bool) {
	idx, ok := r.index[key]
	if !ok {
		return Material{}, false
	}
	return r.materials[idx], true
}

// Len returns the number of registered materials.
func (r *MaterialRegistry) Len() int { return len(r.materials) }

// Materials returns all materials in first-seen order.
func (r *MaterialRegistry) Materials() []Material {
	return append([]Material(nil), r.materials...)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
