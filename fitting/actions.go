package fitting

import (
	"github.com/pkg/errors"

	"go.viam.com/superquadric/spatialmath"
	"go.viam.com/superquadric/superquadric"
)

// An Action is one edit to a session.
type Action interface {
	apply(s State) (State, error)
}

// AddPrimitive appends a new instance of a primitive at the origin with unit scale and selects it.
type AddPrimitive struct {
	ID string
}

// SetParam sets one field of the instance at Index, or of the active instance if Index is
// negative. Values outside the field's range are clamped.
type SetParam struct {
	Index int
	Field Field
	Value float64
}

// Orient replaces the rotation of the instance at Index, or of the active instance if Index is
// negative, with the roll, pitch and yaw of Orientation.
type Orient struct {
	Index       int
	Orientation spatialmath.Orientation
}

// Select makes the instance at Index active.
type Select struct {
	Index int
}

// Remove deletes the instance at Index. The selection moves to the previous instance if the
// active one is removed.
type Remove struct {
	Index int
}

// Reduce applies action to s and returns the resulting state. s is left unchanged; on error the
// returned state is s.
func Reduce(s State, action Action) (State, error) {
	if action == nil {
		return s, errors.New("nil action")
	}
	next, err := action.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// ReduceAll applies actions in order, stopping at the first failure.
func ReduceAll(s State, actions ...Action) (State, error) {
	for i, a := range actions {
		var err error
		if s, err = Reduce(s, a); err != nil {
			return s, errors.Wrapf(err, "action %d", i)
		}
	}
	return s, nil
}

func (a AddPrimitive) apply(s State) (State, error) {
	if a.ID == "" {
		return s, errors.New("cannot add a primitive without an id")
	}
	out := s.clone()
	out.Instances = append(out.Instances, superquadric.NewPoseParams(a.ID))
	out.Active = len(out.Instances) - 1
	return out, nil
}

func (a SetParam) apply(s State) (State, error) {
	idx := a.Index
	if idx < 0 {
		idx = s.Active
	}
	if err := s.checkIndex(idx); err != nil {
		return s, err
	}
	params, err := set(s.Instances[idx], a.Field, a.Value)
	if err != nil {
		return s, err
	}
	out := s.clone()
	out.Instances[idx] = params
	return out, nil
}

func (a Orient) apply(s State) (State, error) {
	if a.Orientation == nil {
		return s, errors.New("cannot orient without an orientation")
	}
	idx := a.Index
	if idx < 0 {
		idx = s.Active
	}
	if err := s.checkIndex(idx); err != nil {
		return s, err
	}
	ea := a.Orientation.EulerAngles()
	params := s.Instances[idx]
	var err error
	for _, f := range []struct {
		field Field
		value float64
	}{{FieldRoll, ea.Roll}, {FieldPitch, ea.Pitch}, {FieldYaw, ea.Yaw}} {
		if params, err = set(params, f.field, f.value); err != nil {
			return s, err
		}
	}
	out := s.clone()
	out.Instances[idx] = params
	return out, nil
}

func (a Select) apply(s State) (State, error) {
	if err := s.checkIndex(a.Index); err != nil {
		return s, err
	}
	out := s.clone()
	out.Active = a.Index
	return out, nil
}

func (a Remove) apply(s State) (State, error) {
	if err := s.checkIndex(a.Index); err != nil {
		return s, err
	}
	out := State{Active: s.Active}
	out.Instances = append(out.Instances, s.Instances[:a.Index]...)
	out.Instances = append(out.Instances, s.Instances[a.Index+1:]...)
	switch {
	case len(out.Instances) == 0:
		out.Active = -1
	case s.Active > a.Index, s.Active == a.Index && a.Index > 0:
		out.Active = s.Active - 1
	case s.Active == a.Index:
		out.Active = 0
	}
	return out, nil
}
