package fitting

import (
	"encoding/json"
	"io"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/superquadric/spatialmath"
)

// rotationTolerance bounds how far a scripted rotation matrix may be from orthonormal.
const rotationTolerance = 1e-6

// scriptLine is one action in a script. Index defaults to the active instance for "set" and
// "orient".
type scriptLine struct {
	Action    string   `json:"action"`
	Primitive string   `json:"primitive"`
	Index     *int     `json:"index"`
	Field     Field    `json:"field"`
	Value     *float64 `json:"value"`

	Quaternion     *scriptQuaternion `json:"quaternion"`
	AxisAngle      *spatialmath.R4AA `json:"axis_angle"`
	RotationVector []float64         `json:"rotation_vector"`
	RotationMatrix []float64         `json:"rotation_matrix"`
}

type scriptQuaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParseScript reads a stream of JSON objects, usually one per line, each describing an action:
//
//	{"action": "add", "primitive": "0.5_1.0.ply"}
//	{"action": "set", "field": "tx", "value": 0.2}
//	{"action": "set", "index": 0, "field": "yaw", "value": 1.57}
//	{"action": "orient", "quaternion": {"w": 0.707, "x": 0, "y": 0, "z": 0.707}}
//	{"action": "orient", "index": 0, "axis_angle": {"th": 1.57, "x": 0, "y": 0, "z": 1}}
//	{"action": "orient", "rotation_vector": [0, 0, 1.57]}
//	{"action": "orient", "rotation_matrix": [0, -1, 0, 1, 0, 0, 0, 0, 1]}
//	{"action": "select", "index": 1}
//	{"action": "remove", "index": 0}
func ParseScript(r io.Reader) ([]Action, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var actions []Action
	for n := 1; ; n++ {
		var line scriptLine
		if err := dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				return actions, nil
			}
			return nil, errors.Wrapf(err, "script action %d", n)
		}
		action, err := line.toAction()
		if err != nil {
			return nil, errors.Wrapf(err, "script action %d", n)
		}
		actions = append(actions, action)
	}
}

func (l scriptLine) toAction() (Action, error) {
	requireIndex := func() (int, error) {
		if l.Index == nil {
			return 0, errors.Errorf("%q needs an index", l.Action)
		}
		return *l.Index, nil
	}

	idx := -1
	if l.Index != nil {
		idx = *l.Index
	}

	switch l.Action {
	case "add":
		return AddPrimitive{ID: l.Primitive}, nil
	case "set":
		if l.Value == nil {
			return nil, errors.New(`"set" needs a value`)
		}
		return SetParam{Index: idx, Field: l.Field, Value: *l.Value}, nil
	case "orient":
		o, err := l.orientation()
		if err != nil {
			return nil, err
		}
		return Orient{Index: idx, Orientation: o}, nil
	case "select":
		idx, err := requireIndex()
		return Select{Index: idx}, err
	case "remove":
		idx, err := requireIndex()
		return Remove{Index: idx}, err
	default:
		return nil, errors.Errorf("unknown action %q", l.Action)
	}
}

// orientation reads the one rotation given on an "orient" line.
func (l scriptLine) orientation() (spatialmath.Orientation, error) {
	given := 0
	for _, present := range []bool{l.Quaternion != nil, l.AxisAngle != nil, l.RotationVector != nil, l.RotationMatrix != nil} {
		if present {
			given++
		}
	}
	if given != 1 {
		return nil, errors.New(`"orient" needs exactly one of quaternion, axis_angle, rotation_vector or rotation_matrix`)
	}

	switch {
	case l.Quaternion != nil:
		q := quat.Number{Real: l.Quaternion.W, Imag: l.Quaternion.X, Jmag: l.Quaternion.Y, Kmag: l.Quaternion.Z}
		if quat.Abs(q) == 0 {
			return nil, errors.New("quaternion must not be zero")
		}
		return spatialmath.NewQuaternion(q), nil
	case l.AxisAngle != nil:
		if err := l.AxisAngle.Validate(); err != nil {
			return nil, err
		}
		return l.AxisAngle, nil
	case l.RotationVector != nil:
		if len(l.RotationVector) != 3 {
			return nil, errors.Errorf("rotation vector must have 3 elements, got %d", len(l.RotationVector))
		}
		return spatialmath.R3ToR4(r3.Vector{X: l.RotationVector[0], Y: l.RotationVector[1], Z: l.RotationVector[2]}), nil
	default:
		rm, err := spatialmath.NewRotationMatrix(l.RotationMatrix)
		if err != nil {
			return nil, err
		}
		if !rm.IsRotation(rotationTolerance) {
			return nil, errors.New("rotation matrix must be orthonormal with determinant 1")
		}
		return rm, nil
	}
}
