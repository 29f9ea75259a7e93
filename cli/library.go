package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/superquadric"
)

// ListPrimitivesAction prints the id of every primitive in the library.
func ListPrimitivesAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err := s.cfg.RequireLibrary(s.cfgPath); err != nil {
		return err
	}
	lib, err := superquadric.NewDirLibrary(s.cfg.LibraryPath, s.logger)
	if err != nil {
		return err
	}
	ids, err := lib.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		printf(c.App.Writer, "%s", id)
	}
	return nil
}

// RescaleAction writes a copy of the library with every vertex divided by --factor.
func RescaleAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err := s.cfg.RequireLibrary(s.cfgPath); err != nil {
		return err
	}
	n, err := superquadric.RescaleLibrary(c.Context, s.cfg.LibraryPath, c.Path(rescaleFlagOut), c.Float64(rescaleFlagFactor), s.logger)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "rescaled %d primitives into %s", n, c.Path(rescaleFlagOut))
	return nil
}
