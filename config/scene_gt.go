package config

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DefaultSceneKey is the scene read from a scene ground truth file when none is given.
const DefaultSceneKey = "3"

type sceneObject struct {
	ObjID int `json:"obj_id"`
}

// ReadSceneObjects returns the object ids listed under key in a scene ground truth file, a JSON
// object mapping scene keys to lists of {"obj_id": n, ...}. Ids are returned in file order and
// may repeat.
func ReadSceneObjects(path, key string) ([]int, error) {
	var scenes map[string][]map[string]interface{}
	if err := readDocument(path, &scenes); err != nil {
		return nil, err
	}
	objects, ok := scenes[key]
	if !ok {
		keys := lo.Keys(scenes)
		sort.Strings(keys)
		return nil, errors.Errorf("scene %q not found in %q, have %v", key, path, keys)
	}

	ids := make([]int, 0, len(objects))
	for i, raw := range objects {
		var obj sceneObject
		unset, err := weakDecode(raw, &obj)
		if err != nil {
			return nil, newSceneObjectError(path, key, i, err)
		}
		if lo.Contains(unset, "obj_id") {
			return nil, newSceneObjectError(path, key, i, errors.New(`"obj_id" is required`))
		}
		ids = append(ids, obj.ObjID)
	}
	return ids, nil
}

func newSceneObjectError(path, key string, index int, err error) error {
	return errors.Wrapf(err, "%s: scene %q object %d", path, key, index)
}
