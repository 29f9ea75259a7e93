package fitting

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/superquadric/config"
)

func TestObjectID(t *testing.T) {
	test.That(t, ObjectID("/data/8_obj.ply"), test.ShouldEqual, "8")
	test.That(t, ObjectID("31_obj_fps.ply"), test.ShouldEqual, "31")
	test.That(t, ObjectID("mug.ply"), test.ShouldEqual, "mug")
}

func TestSaveNeverOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fits")
	s, err := ReduceAll(NewState(), AddPrimitive{ID: "a"}, SetParam{Index: -1, Field: FieldTx, Value: 0.1})
	test.That(t, err, test.ShouldBeNil)

	var paths []string
	for i := 0; i < 3; i++ {
		path, err := Save(s, dir, "/clouds/8_obj.ply")
		test.That(t, err, test.ShouldBeNil)
		paths = append(paths, filepath.Base(path))
	}
	test.That(t, paths, test.ShouldResemble, []string{
		"8_obj_fitting_info.json",
		"8_obj_fitting_info_01.json",
		"8_obj_fitting_info_02.json",
	})
	test.That(t, filepath.Base(NextOutputPath(dir, "8_obj")), test.ShouldEqual, "8_obj_fitting_info_03.json")
	test.That(t, filepath.Base(NextOutputPath(dir, "9_obj")), test.ShouldEqual, "9_obj_fitting_info.json")

	records, err := config.ReadFittingRecords(filepath.Join(dir, paths[0]))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldResemble, s.Records("8"))
}

func TestParseScript(t *testing.T) {
	script := `{"action": "add", "primitive": "0.5_1.0.ply"}
{"action": "set", "field": "tx", "value": 0.2}
{"action": "add", "primitive": "1.0_1.0.ply"}
{"action": "set", "index": 0, "field": "yaw", "value": 1.5}
{"action": "select", "index": 0}
{"action": "remove", "index": 1}
`
	actions, err := ParseScript(strings.NewReader(script))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, actions, test.ShouldResemble, []Action{
		AddPrimitive{ID: "0.5_1.0.ply"},
		SetParam{Index: -1, Field: FieldTx, Value: 0.2},
		AddPrimitive{ID: "1.0_1.0.ply"},
		SetParam{Index: 0, Field: FieldYaw, Value: 1.5},
		Select{Index: 0},
		Remove{Index: 1},
	})

	s, err := ReduceAll(NewState(), actions...)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Instances, test.ShouldHaveLength, 1)
	test.That(t, s.Instances[0].Translation.X, test.ShouldEqual, 0.2)
	test.That(t, s.Instances[0].Rotation.Yaw, test.ShouldEqual, 1.5)
}

func TestParseScriptOrient(t *testing.T) {
	s2 := math.Sqrt2 / 2
	// every line turns the second instance a quarter turn about z
	for _, line := range []string{
		`{"action": "orient", "quaternion": {"w": 0.7071067811865476, "z": 0.7071067811865476}}`,
		`{"action": "orient", "quaternion": {"w": 2, "z": 2}}`,
		`{"action": "orient", "axis_angle": {"th": 1.5707963267948966, "x": 0, "y": 0, "z": 3}}`,
		`{"action": "orient", "rotation_vector": [0, 0, 1.5707963267948966]}`,
		`{"action": "orient", "rotation_matrix": [0, -1, 0, 1, 0, 0, 0, 0, 1]}`,
		`{"action": "orient", "index": 1, "rotation_matrix": [0, -1, 0, 1, 0, 0, 0, 0, 1]}`,
	} {
		script := `{"action": "add", "primitive": "a.ply"}
{"action": "add", "primitive": "b.ply"}
` + line
		actions, err := ParseScript(strings.NewReader(script))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, actions, test.ShouldHaveLength, 3)
		orient, ok := actions[2].(Orient)
		test.That(t, ok, test.ShouldBeTrue)
		q := orient.Orientation.Quaternion()
		test.That(t, math.Abs(q.Real), test.ShouldAlmostEqual, s2)
		test.That(t, math.Abs(q.Kmag), test.ShouldAlmostEqual, s2)

		s, err := ReduceAll(NewState(), actions...)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.Instances[1].Rotation.Yaw, test.ShouldAlmostEqual, math.Pi/2)
		test.That(t, s.Instances[1].Rotation.Roll, test.ShouldAlmostEqual, 0)
		test.That(t, s.Instances[1].Rotation.Pitch, test.ShouldAlmostEqual, 0)
		test.That(t, s.Instances[0].Rotation.Yaw, test.ShouldEqual, 0)
	}
}

func TestParseScriptErrors(t *testing.T) {
	for _, script := range []string{
		`{"action": "spin"}`,
		`{"action": "select"}`,
		`{"action": "remove"}`,
		`{"action": "set", "field": "tx"}`,
		`{"action": "add", "primitve": "typo"}`,
		`{"action": `,
		`{"action": "orient"}`,
		`{"action": "orient", "rotation_vector": [0, 0, 1], "quaternion": {"w": 1}}`,
		`{"action": "orient", "quaternion": {}}`,
		`{"action": "orient", "axis_angle": {"th": 1}}`,
		`{"action": "orient", "rotation_vector": [0, 1]}`,
		`{"action": "orient", "rotation_matrix": [1, 0, 0, 0, 1, 0]}`,
		`{"action": "orient", "rotation_matrix": [-1, 0, 0, 0, 1, 0, 0, 0, 1]}`,
		`{"action": "orient", "rotation_matrix": [2, 0, 0, 0, 2, 0, 0, 0, 2]}`,
	} {
		_, err := ParseScript(strings.NewReader(script))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "script action 1")
	}

	actions, err := ParseScript(strings.NewReader(""))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, actions, test.ShouldBeEmpty)
}
