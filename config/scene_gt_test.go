package config

import (
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestReadSceneObjects(t *testing.T) {
	fn := writeFile(t, "scene_gt.json", `{
    "1": [{"obj_id": 4, "cam_t_m2c": [0, 0, 0]}],
    "3": [{"obj_id": 8}, {"obj_id": "12"}, {"obj_id": 8}]
}`)
	ids, err := ReadSceneObjects(fn, DefaultSceneKey)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ids, test.ShouldResemble, []int{8, 12, 8})

	ids, err = ReadSceneObjects(fn, "1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ids, test.ShouldResemble, []int{4})

	_, err = ReadSceneObjects(fn, "2")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `scene "2" not found`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "[1 3]")

	bad := writeFile(t, "scene_gt.json", `{"3": [{"id": 8}]}`)
	_, err = ReadSceneObjects(bad, "3")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `object 0`)

	_, err = ReadSceneObjects(filepath.Join(t.TempDir(), "missing.json"), "3")
	test.That(t, err, test.ShouldNotBeNil)
}
