package scene

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPrecision is the largest supported Precision. At 6 digits snapped
// coordinates reach about ±9.2e12 units before leaving int64; points beyond
// ±(2^63-1)/10^Precision are rejected with ErrInvalidPoint.
const MaxPrecision = 6

// Options configures a Builder.
type Options struct {
	// Precision is the number of decimal digits kept when merging vertices.
	// Points that round to the same value at this precision are one vertex.
	Precision int
	// ExportProperties attaches element metadata to nodes.
	ExportProperties bool
	// FlipAxis rotates the root so a Z-up host model reads as Y-up.
	FlipAxis bool
	// Generator is written to the container asset block.
	Generator string
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
	// NewID generates unique ids for the root and instance nodes.
	// Defaults to random UUIDs.
	NewID func() string
}

// DefaultOptions returns the settings used by the exporter.
func DefaultOptions() Options {
	return Options{
		Precision:        3,
		ExportProperties: true,
		Generator:        "scenepack",
	}
}

func (o Options) normalized() (Options, error) {
	if o.Precision < 0 || o.Precision > MaxPrecision {
		return o, fmt.Errorf("%w: precision %d outside [0, %d]", ErrInvalidOptions, o.Precision, MaxPrecision)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Generator == "" {
		o.Generator = "scenepack"
	}
	return o, nil
}
