package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/scene"
	"go.viam.com/superquadric/superquadric"
)

// ReconstructAction composes the records of a fitting info file into one colored cloud.
func ReconstructAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err := s.cfg.RequireLibrary(s.cfgPath); err != nil {
		return err
	}

	records, err := config.ReadFittingRecords(c.Path(reconstructFlagRecords))
	if err != nil {
		return err
	}
	lib, err := superquadric.NewDirLibrary(s.cfg.LibraryPath, s.logger)
	if err != nil {
		return err
	}

	res, err := scene.Compose(lib, config.Entries(records), s.logger)
	if err != nil {
		return errors.Wrapf(err, "cannot reconstruct %q", c.Path(reconstructFlagRecords))
	}
	for _, skipped := range res.Diagnostics.Skipped {
		warningf(c.App.ErrWriter, "skipped entry %d: primitive %q not found", skipped.Index, skipped.PrimitiveID)
	}
	if res.Empty() {
		warningf(c.App.ErrWriter, "no primitives were composed, writing an empty cloud")
	}

	output := c.Path(reconstructFlagOutput)
	if err := pointcloud.WriteToFile(res.Cloud, output, s.plyOptions()); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %d points from %d of %d primitives to %s",
		res.Cloud.Size(), res.Diagnostics.Composed, len(records), output)
	return nil
}
