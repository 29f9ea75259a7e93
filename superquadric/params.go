// Package superquadric places canonical superquadric primitives in world space. A primitive is a
// fixed, precomputed surface sample of one superquadric shape, loaded from a Library by id, and
// PoseParams describe how one instance of it is scaled, rotated and translated.
package superquadric

import (
	"fmt"
	"path/filepath"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"

	"go.viam.com/superquadric/spatialmath"
	"go.viam.com/superquadric/utils"
)

// PoseParams is the pose and scale of one primitive instance.
type PoseParams struct {
	// PrimitiveID names the canonical vertex set in a Library.
	PrimitiveID string
	// Scale holds the per-axis factors a1, a2, a3, applied before UniformScale.
	Scale        r3.Vector
	UniformScale float64
	// Rotation is roll, pitch, yaw in radians.
	Rotation    spatialmath.EulerAngles
	Translation r3.Vector
}

// NewPoseParams returns params for the given primitive that leave its vertices unchanged.
func NewPoseParams(primitiveID string) PoseParams {
	return PoseParams{
		PrimitiveID:  primitiveID,
		Scale:        r3.Vector{X: 1, Y: 1, Z: 1},
		UniformScale: 1,
	}
}

// InvalidParameterError describes a single malformed or out of range pose parameter.
type InvalidParameterError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q (%v): %s", e.Field, e.Value, e.Reason)
}

func positive(field string, v float64) error {
	if !utils.IsFinite(v) {
		return &InvalidParameterError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &InvalidParameterError{Field: field, Value: v, Reason: "must be greater than zero"}
	}
	return nil
}

func finite(field string, v float64) error {
	if !utils.IsFinite(v) {
		return &InvalidParameterError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	return nil
}

// Validate returns every problem with the params, combined, or nil if they can be applied.
// Each problem is an *InvalidParameterError.
func (p PoseParams) Validate() error {
	var err error
	switch {
	case p.PrimitiveID == "":
		err = multierr.Append(err, &InvalidParameterError{Field: "primitive", Value: p.PrimitiveID, Reason: "must not be empty"})
	case !filepath.IsLocal(p.PrimitiveID):
		err = multierr.Append(err, &InvalidParameterError{
			Field: "primitive", Value: p.PrimitiveID, Reason: "must be a relative path inside the primitive library",
		})
	}
	err = multierr.Combine(
		err,
		positive("a1", p.Scale.X),
		positive("a2", p.Scale.Y),
		positive("a3", p.Scale.Z),
		positive("scale", p.UniformScale),
		finite("roll", p.Rotation.Roll),
		finite("pitch", p.Rotation.Pitch),
		finite("yaw", p.Rotation.Yaw),
		finite("tx", p.Translation.X),
		finite("ty", p.Translation.Y),
		finite("tz", p.Translation.Z),
	)
	return err
}
