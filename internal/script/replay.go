package script

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenepack/pkg/scene"
	"go.uber.org/zap"
)

// Result summarizes a replay. Warnings counts fragments and materials the
// builder rejected locally; none of them stops the replay.
type Result struct {
	Nodes     int
	Fragments int
	Warnings  int
}

// Replay drives b through s: materials first, then the node tree depth first,
// then grids. b must be started and is not finished.
func Replay(b *scene.Builder, s *Script, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &replayer{b: b, log: log}

	for _, m := range s.Materials {
		color := scene.ColorFromRGB8(m.Color[0], m.Color[1], m.Color[2])
		if _, err := b.SwitchMaterial(m.Key, m.Name, color, m.Transparency); err != nil {
			if errors.Is(err, scene.ErrEmptyMaterialKey) {
				r.warn("material skipped", err, zap.String("name", m.Name))
				continue
			}
			return r.res, err
		}
	}

	for i := range s.Nodes {
		if err := r.node(&s.Nodes[i]); err != nil {
			return r.res, err
		}
	}

	for _, g := range s.Grids {
		err := b.AddGrid(scene.Grid{
			ID:         g.ID,
			Name:       g.Name,
			Origin:     vec(g.Origin),
			Direction:  vec(g.Direction),
			Length:     g.Length,
			Properties: g.Properties,
		})
		if err != nil {
			return r.res, fmt.Errorf("grid %q: %w", g.ID, err)
		}
	}

	return r.res, nil
}

type replayer struct {
	b   *scene.Builder
	log *zap.Logger
	res Result
}

func (r *replayer) warn(msg string, err error, fields ...zap.Field) {
	r.res.Warnings++
	r.log.Warn(msg, append(fields, zap.Error(err))...)
}

func (r *replayer) node(n *Node) error {
	xform, err := n.Transform.Matrix4()
	if err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}

	elem := scene.Element{
		ID:         n.ID,
		Name:       n.Name,
		Symbol:     n.Symbol,
		Properties: n.Properties,
	}
	if err := r.b.OpenNode(elem, xform, n.Instance); err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	r.res.Nodes++

	for i, g := range n.Geometry {
		if err := r.fragment(g); err != nil {
			if isLocal(err) {
				r.warn("fragment rejected", err, zap.String("node", n.ID), zap.Int("fragment", i))
				continue
			}
			return fmt.Errorf("node %q fragment %d: %w", n.ID, i, err)
		}
	}

	for i := range n.Children {
		if err := r.node(&n.Children[i]); err != nil {
			return err
		}
	}

	if err := r.b.CloseNode(); err != nil {
		return fmt.Errorf("closing node %q: %w", n.ID, err)
	}
	return nil
}

func (r *replayer) fragment(g Fragment) error {
	if g.Material != "" {
		// An unknown key stays active; the submit below reports it.
		if err := r.b.UseMaterial(g.Material); err != nil && !errors.Is(err, scene.ErrMissingMaterial) {
			return err
		}
	}

	err := r.b.SubmitFragment(scene.Fragment{
		Points:  vecs(g.Points),
		Facets:  g.Facets,
		Normals: vecs(g.Normals),
	})
	if err == nil || errors.Is(err, scene.ErrMissingMaterial) {
		r.res.Fragments++
	}
	return err
}

// isLocal reports errors that reject one submission but leave the builder
// usable.
func isLocal(err error) bool {
	return errors.Is(err, scene.ErrInvalidFacet) ||
		errors.Is(err, scene.ErrInvalidPoint) ||
		errors.Is(err, scene.ErrMissingMaterial)
}

// Run starts a builder with opts, replays s and finishes it.
func Run(opts scene.Options, s *Script) (*scene.Container, Result, error) {
	b, err := scene.New(opts)
	if err != nil {
		return nil, Result{}, err
	}
	if err := b.Start(); err != nil {
		return nil, Result{}, err
	}
	res, err := Replay(b, s, opts.Logger)
	if err != nil {
		return nil, res, err
	}
	c, err := b.Finish()
	if err != nil {
		return nil, res, err
	}
	return c, res, nil
}
