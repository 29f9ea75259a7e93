package cli

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/fitting"
	"go.viam.com/superquadric/superquadric"
)

// FitAction replays an action script into a fitting session and saves the resulting records
// next to any earlier fits of the same object.
func FitAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	var script io.Reader = c.App.Reader
	if path := c.Path(fitFlagScript); path != "-" {
		//nolint:gosec
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				s.logger.Warnw("failed to close script", "path", path, "error", cerr)
			}
		}()
		script = f
	}

	actions, err := fitting.ParseScript(script)
	if err != nil {
		return err
	}
	state, err := fitting.ReduceAll(fitting.NewState(), actions...)
	if err != nil {
		return err
	}
	if len(state.Instances) == 0 {
		return errors.New("script left no primitives to save")
	}

	if s.cfg.LibraryPath != "" {
		lib, err := superquadric.NewDirLibrary(s.cfg.LibraryPath, s.logger)
		if err != nil {
			return err
		}
		for i, p := range state.Instances {
			if _, err := lib.Vertices(p.PrimitiveID); errors.Is(err, superquadric.ErrPrimitiveNotFound) {
				warningf(c.App.ErrWriter, "primitive %d (%s) is not in the library", i, p.PrimitiveID)
			} else if err != nil {
				return err
			}
		}
	}

	path, err := fitting.Save(state, s.cfg.OutputDir, c.Path(fitFlagObject))
	if err != nil {
		return err
	}
	infof(c.App.Writer, "fitting information for %d primitives saved to %s", len(state.Instances), path)
	return nil
}
