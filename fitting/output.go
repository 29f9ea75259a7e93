package fitting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/utils"
)

// ObjectID returns the object tag for a fitted object file: its name up to the first underscore,
// so "8_obj.ply" is object "8".
func ObjectID(objectPath string) string {
	id, _, _ := strings.Cut(utils.FileStem(objectPath), "_")
	return id
}

// NextOutputPath returns the first of <name>_fitting_info.json, <name>_fitting_info_01.json,
// <name>_fitting_info_02.json, ... in dir that does not exist yet.
func NextOutputPath(dir, objectName string) string {
	base := filepath.Join(dir, objectName+"_fitting_info")
	path := base + ".json"
	for i := 1; utils.FileExists(path); i++ {
		path = fmt.Sprintf("%s_%02d.json", base, i)
	}
	return path
}

// Save writes the session's records for the object at objectPath to a new file in dir and
// returns its path. Existing files are never overwritten.
func Save(s State, dir, objectPath string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path := NextOutputPath(dir, utils.FileStem(objectPath))
	if err := config.WriteFittingRecords(path, s.Records(ObjectID(objectPath))); err != nil {
		return "", errors.Wrapf(err, "failed to save fitting info to %q", path)
	}
	return path, nil
}
