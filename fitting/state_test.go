package fitting

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/superquadric/spatialmath"
	"go.viam.com/superquadric/superquadric"
)

func TestAddAndSet(t *testing.T) {
	s0 := NewState()
	test.That(t, s0.Active, test.ShouldEqual, -1)

	s1, err := Reduce(s0, AddPrimitive{ID: "0.5_1.0.ply"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s1.Instances, test.ShouldHaveLength, 1)
	test.That(t, s1.Active, test.ShouldEqual, 0)
	test.That(t, s1.Instances[0], test.ShouldResemble, superquadric.NewPoseParams("0.5_1.0.ply"))

	s2, err := Reduce(s1, SetParam{Index: -1, Field: FieldTx, Value: 0.25})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s2.Instances[0].Translation, test.ShouldResemble, r3.Vector{X: 0.25})

	// earlier states are untouched
	test.That(t, s0.Instances, test.ShouldBeEmpty)
	test.That(t, s1.Instances[0].Translation, test.ShouldResemble, r3.Vector{})
}

func TestSetClamps(t *testing.T) {
	s, err := ReduceAll(NewState(),
		AddPrimitive{ID: "a"},
		SetParam{Index: 0, Field: FieldTx, Value: 3},
		SetParam{Index: 0, Field: FieldA2, Value: 0},
		SetParam{Index: 0, Field: FieldScale, Value: 100},
		SetParam{Index: 0, Field: FieldYaw, Value: -10},
	)
	test.That(t, err, test.ShouldBeNil)
	p := s.Instances[0]
	test.That(t, p.Translation.X, test.ShouldEqual, 0.5)
	test.That(t, p.Scale.Y, test.ShouldEqual, 0.1)
	test.That(t, p.UniformScale, test.ShouldEqual, 10)
	test.That(t, p.Rotation.Yaw, test.ShouldEqual, -math.Pi)
	test.That(t, p.Validate(), test.ShouldBeNil)

	for field := range Ranges {
		v, err := Get(p, field)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldBeGreaterThanOrEqualTo, Ranges[field].Min)
		test.That(t, v, test.ShouldBeLessThanOrEqualTo, Ranges[field].Max)
	}
}

func TestSetErrors(t *testing.T) {
	s, err := Reduce(NewState(), AddPrimitive{ID: "a"})
	test.That(t, err, test.ShouldBeNil)

	got, err := Reduce(s, SetParam{Index: 0, Field: "size", Value: 1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, got, test.ShouldResemble, s)

	_, err = Reduce(s, SetParam{Index: 3, Field: FieldTx, Value: 1})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Reduce(s, SetParam{Index: 0, Field: FieldTx, Value: math.NaN()})
	var ipe *superquadric.InvalidParameterError
	test.That(t, errors.As(err, &ipe), test.ShouldBeTrue)

	_, err = Reduce(NewState(), SetParam{Index: -1, Field: FieldTx, Value: 0})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Reduce(s, AddPrimitive{})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Reduce(s, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Get(s.Instances[0], "size")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOrient(t *testing.T) {
	s, err := ReduceAll(NewState(), AddPrimitive{ID: "a"}, AddPrimitive{ID: "b"})
	test.That(t, err, test.ShouldBeNil)

	quarterZ := &spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1}
	next, err := Reduce(s, Orient{Index: -1, Orientation: quarterZ})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, next.Instances[1].Rotation.Yaw, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, next.Instances[1].Rotation.Roll, test.ShouldAlmostEqual, 0)
	test.That(t, next.Instances[1].Rotation.Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, next.Instances[0], test.ShouldResemble, s.Instances[0])
	test.That(t, s.Instances[1].Rotation, test.ShouldResemble, spatialmath.EulerAngles{})

	// the posed vertex matches the orientation it was given
	got := superquadric.Transform([]r3.Vector{{X: 1}}, next.Instances[1])
	test.That(t, got[0].X, test.ShouldAlmostEqual, 0)
	test.That(t, got[0].Y, test.ShouldAlmostEqual, 1)

	ea := &spatialmath.EulerAngles{Roll: 0.3, Pitch: -0.2, Yaw: 1.1}
	next, err = Reduce(s, Orient{Index: 0, Orientation: spatialmath.NewQuaternion(ea.Quaternion())})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, next.Instances[0].Rotation.Roll, test.ShouldAlmostEqual, ea.Roll)
	test.That(t, next.Instances[0].Rotation.Pitch, test.ShouldAlmostEqual, ea.Pitch)
	test.That(t, next.Instances[0].Rotation.Yaw, test.ShouldAlmostEqual, ea.Yaw)

	got2, err := Reduce(s, Orient{Index: 5, Orientation: quarterZ})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, got2, test.ShouldResemble, s)

	_, err = Reduce(s, Orient{Index: 0})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Reduce(s, Orient{Index: 0, Orientation: spatialmath.NewQuaternion(quat.Number{Real: math.NaN()})})
	var ipe *superquadric.InvalidParameterError
	test.That(t, errors.As(err, &ipe), test.ShouldBeTrue)
}

func TestSelectAndRemove(t *testing.T) {
	s, err := ReduceAll(NewState(), AddPrimitive{ID: "a"}, AddPrimitive{ID: "b"}, AddPrimitive{ID: "c"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Active, test.ShouldEqual, 2)

	s, err = Reduce(s, Select{Index: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Active, test.ShouldEqual, 1)

	s, err = Reduce(s, SetParam{Index: -1, Field: FieldRoll, Value: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Instances[1].Rotation.Roll, test.ShouldEqual, 1)

	_, err = Reduce(s, Select{Index: 3})
	test.That(t, err, test.ShouldNotBeNil)

	// removing before the active instance keeps it selected
	removed, err := Reduce(s, Remove{Index: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, removed.Active, test.ShouldEqual, 0)
	test.That(t, removed.Instances[0].PrimitiveID, test.ShouldEqual, "b")
	test.That(t, s.Instances, test.ShouldHaveLength, 3)

	// removing the active instance selects the previous one
	removed, err = Reduce(s, Remove{Index: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, removed.Active, test.ShouldEqual, 0)
	test.That(t, removed.Instances[1].PrimitiveID, test.ShouldEqual, "c")

	removed, err = ReduceAll(removed, Select{Index: 0}, Remove{Index: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, removed.Active, test.ShouldEqual, 0)
	test.That(t, removed.Instances[0].PrimitiveID, test.ShouldEqual, "c")

	removed, err = Reduce(removed, Remove{Index: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, removed.Active, test.ShouldEqual, -1)
	test.That(t, removed.Instances, test.ShouldBeEmpty)

	_, err = Reduce(removed, Remove{Index: 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRecords(t *testing.T) {
	s, err := ReduceAll(NewState(),
		AddPrimitive{ID: "a"},
		SetParam{Index: -1, Field: FieldTz, Value: -0.2},
		AddPrimitive{ID: "b"},
	)
	test.That(t, err, test.ShouldBeNil)

	records := s.Records("8")
	test.That(t, records, test.ShouldHaveLength, 2)
	test.That(t, records[0].Primitive, test.ShouldEqual, "a")
	test.That(t, records[0].Tz, test.ShouldEqual, -0.2)
	test.That(t, records[0].Scale, test.ShouldEqual, 1)
	test.That(t, records[1].Object, test.ShouldEqual, "8")
	test.That(t, records[0].PoseParams(), test.ShouldResemble, s.Instances[0])
}
