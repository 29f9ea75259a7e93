// Package scene composes several posed superquadric primitives into one colored point cloud.
package scene

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/superquadric/logging"
	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/superquadric"
)

// Entry is one primitive instance in a scene. Its position in the entry list decides its color.
type Entry struct {
	Params superquadric.PoseParams
	// Object is an optional tag carried through from the parameter record.
	Object string
}

// SkippedEntry records an entry left out of a composition.
type SkippedEntry struct {
	Index       int
	PrimitiveID string
	Err         error
}

// Diagnostics reports how a composition went.
type Diagnostics struct {
	Composed int
	Skipped  []SkippedEntry
}

// Result is a composed cloud. Every point carries its entry's palette color and, as its value,
// the index of the entry it came from.
type Result struct {
	Cloud       pointcloud.PointCloud
	Diagnostics Diagnostics
}

// Empty is true when no entry contributed any points.
func (r *Result) Empty() bool {
	return r.Cloud.Size() == 0
}

// Partial is true when at least one entry was skipped.
func (r *Result) Partial() bool {
	return len(r.Diagnostics.Skipped) > 0
}

// Validate checks the params of every entry.
func Validate(entries []Entry) error {
	var err error
	for i, e := range entries {
		if verr := e.Params.Validate(); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "entry %d (%s)", i, e.Params.PrimitiveID))
		}
	}
	return err
}

// Compose transforms each entry's primitive and concatenates the results, in entry order, into one
// cloud. All params are validated before anything is transformed. An entry whose primitive is not
// in lib is skipped with a warning and recorded in the result's Diagnostics; any other library
// error aborts the composition. Composing no entries, or only skipped ones, yields an empty cloud.
func Compose(lib superquadric.Library, entries []Entry, logger logging.Logger) (*Result, error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}

	res := &Result{Cloud: pointcloud.New()}
	for i, e := range entries {
		id := e.Params.PrimitiveID
		verts, err := lib.Vertices(id)
		if err != nil {
			if !errors.Is(err, superquadric.ErrPrimitiveNotFound) {
				return nil, errors.Wrapf(err, "entry %d", i)
			}
			logger.Warnw("skipping entry with missing primitive", "index", i, "primitive", id, "error", err)
			res.Diagnostics.Skipped = append(res.Diagnostics.Skipped, SkippedEntry{Index: i, PrimitiveID: id, Err: err})
			continue
		}

		c := PaletteColor(i)
		for _, p := range superquadric.Transform(verts, e.Params) {
			if err := res.Cloud.Append(p, pointcloud.NewColoredData(c).SetValue(i)); err != nil {
				return nil, errors.Wrapf(err, "entry %d", i)
			}
		}
		res.Diagnostics.Composed++
	}

	if res.Empty() {
		logger.Warnw("composition is empty", "entries", len(entries), "skipped", len(res.Diagnostics.Skipped))
	} else {
		logger.Debugw("composed scene", "entries", len(entries), "points", res.Cloud.Size(),
			"skipped", len(res.Diagnostics.Skipped))
	}
	return res, nil
}
