// Package fitting models a hand fitting session: a list of posed primitives edited through
// actions. Every action is applied by Reduce, which returns a new State and never modifies the
// old one.
package fitting

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/superquadric"
	"go.viam.com/superquadric/utils"
)

// Field names one editable pose parameter.
type Field string

// The editable fields, named as in fitting records.
const (
	FieldA1    Field = "a1"
	FieldA2    Field = "a2"
	FieldA3    Field = "a3"
	FieldScale Field = "scale"
	FieldTx    Field = "tx"
	FieldTy    Field = "ty"
	FieldTz    Field = "tz"
	FieldRoll  Field = "roll"
	FieldPitch Field = "pitch"
	FieldYaw   Field = "yaw"
)

// Range is the inclusive span a field is clamped to.
type Range struct {
	Min, Max float64
}

// Ranges holds the allowed span of every field.
var Ranges = map[Field]Range{
	FieldA1:    {0.1, 5},
	FieldA2:    {0.1, 5},
	FieldA3:    {0.1, 5},
	FieldScale: {0.001, 10},
	FieldTx:    {-0.5, 0.5},
	FieldTy:    {-0.5, 0.5},
	FieldTz:    {-0.5, 0.5},
	FieldRoll:  {-math.Pi, math.Pi},
	FieldPitch: {-math.Pi, math.Pi},
	FieldYaw:   {-math.Pi, math.Pi},
}

// State is a fitting session. Active is the index of the selected instance, or -1.
type State struct {
	Instances []superquadric.PoseParams
	Active    int
}

// NewState returns a session with no primitives.
func NewState() State {
	return State{Active: -1}
}

func (s State) clone() State {
	out := State{Active: s.Active, Instances: make([]superquadric.PoseParams, len(s.Instances))}
	copy(out.Instances, s.Instances)
	return out
}

func (s State) checkIndex(i int) error {
	if i < 0 || i >= len(s.Instances) {
		return errors.Errorf("no primitive at index %d, have %d", i, len(s.Instances))
	}
	return nil
}

// Records returns one fitting record per instance, tagged with object.
func (s State) Records(object string) []config.FittingRecord {
	records := make([]config.FittingRecord, 0, len(s.Instances))
	for _, p := range s.Instances {
		records = append(records, config.NewFittingRecord(p, object))
	}
	return records
}

// Get returns the value of field on params.
func Get(params superquadric.PoseParams, field Field) (float64, error) {
	switch field {
	case FieldA1:
		return params.Scale.X, nil
	case FieldA2:
		return params.Scale.Y, nil
	case FieldA3:
		return params.Scale.Z, nil
	case FieldScale:
		return params.UniformScale, nil
	case FieldTx:
		return params.Translation.X, nil
	case FieldTy:
		return params.Translation.Y, nil
	case FieldTz:
		return params.Translation.Z, nil
	case FieldRoll:
		return params.Rotation.Roll, nil
	case FieldPitch:
		return params.Rotation.Pitch, nil
	case FieldYaw:
		return params.Rotation.Yaw, nil
	default:
		return 0, errors.Errorf("unknown field %q", field)
	}
}

// set returns params with field set to value, clamped to the field's range.
func set(params superquadric.PoseParams, field Field, value float64) (superquadric.PoseParams, error) {
	r, ok := Ranges[field]
	if !ok {
		return params, errors.Errorf("unknown field %q", field)
	}
	if math.IsNaN(value) {
		return params, &superquadric.InvalidParameterError{Field: string(field), Value: value, Reason: "must be a number"}
	}
	value = utils.Clamp(value, r.Min, r.Max)

	switch field {
	case FieldA1:
		params.Scale.X = value
	case FieldA2:
		params.Scale.Y = value
	case FieldA3:
		params.Scale.Z = value
	case FieldScale:
		params.UniformScale = value
	case FieldTx:
		params.Translation.X = value
	case FieldTy:
		params.Translation.Y = value
	case FieldTz:
		params.Translation.Z = value
	case FieldRoll:
		params.Rotation.Roll = value
	case FieldPitch:
		params.Rotation.Pitch = value
	case FieldYaw:
		params.Rotation.Yaw = value
	}
	return params, nil
}
