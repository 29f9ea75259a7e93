package superquadric

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"go.viam.com/superquadric/logging"
	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/utils"
)

// DefaultRescaleFactor is the normalization factor the bundled primitive library is divided by.
const DefaultRescaleFactor = 10.0

// RescaleLibrary divides every vertex of each PLY primitive in inDir by factor and writes the
// results as ASCII PLY files of the same name into outDir. Other files, including OBJ primitives,
// are left out so no two inputs map to the same output. It returns the number of primitives written.
func RescaleLibrary(ctx context.Context, inDir, outDir string, factor float64, logger logging.Logger) (int, error) {
	if !utils.IsFinite(factor) || factor <= 0 {
		return 0, &InvalidParameterError{Field: "factor", Value: factor, Reason: "must be a finite number greater than zero"}
	}
	lib, err := NewDirLibrary(inDir, logger)
	if err != nil {
		return 0, err
	}
	all, err := lib.List()
	if err != nil {
		return 0, err
	}
	ids := lo.Filter(all, func(id string, _ int) bool {
		return strings.EqualFold(filepath.Ext(id), ".ply")
	})
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verts, err := lib.Vertices(id)
			if err != nil {
				return err
			}
			scaled := lo.Map(verts, func(v r3.Vector, _ int) r3.Vector { return v.Mul(1 / factor) })
			cloud, err := pointcloud.NewFromVectors(scaled)
			if err != nil {
				return errors.Wrapf(err, "primitive %q", id)
			}
			return pointcloud.WriteToFile(cloud, filepath.Join(outDir, id), pointcloud.DefaultPLYOptions)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	logger.Infow("rescaled primitive library", "in", inDir, "out", outDir, "factor", factor, "primitives", len(ids))
	return len(ids), nil
}
