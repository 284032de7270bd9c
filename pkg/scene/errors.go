package scene

import "errors"

// Usage errors. These are fatal: the builder records the first one and every
// later call returns it.
var (
	ErrNotStarted      = errors.New("scene: builder not started")
	ErrAlreadyStarted  = errors.New("scene: builder already started")
	ErrFinished        = errors.New("scene: builder already finished")
	ErrNoOpenNode      = errors.New("scene: no open node")
	ErrUnbalancedClose = errors.New("scene: close without matching open")
	ErrUnclosedNodes   = errors.New("scene: nodes still open at finish")
	ErrDuplicateNode   = errors.New("scene: duplicate node id")
)

// Local errors. They reject one call and leave the builder usable.
var (
	ErrMissingMaterial  = errors.New("scene: material not registered")
	ErrEmptyMaterialKey = errors.New("scene: empty material key")
	ErrInvalidFacet     = errors.New("scene: facet references a missing point")
	ErrInvalidPoint     = errors.New("scene: point is not finite or out of range")
	ErrVertexStream     = errors.New("scene: vertex stream length is not a multiple of 3")
	ErrEmptyStream      = errors.New("scene: empty vertex or index stream")
	ErrInvalidOptions   = errors.New("scene: invalid options")
)
