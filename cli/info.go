package cli

import (
	"fmt"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/superquadric/pointcloud"
)

type cloudInfo struct {
	name     string
	size     int
	hasColor bool
	extent   r3.Vector
	centroid r3.Vector
	// standard deviation along the principal axes, largest first
	spread r3.Vector
	// distances of points from the centroid
	radii                               []float64
	radiusMean, radiusStdDev, radiusMax float64
}

func summarize(name string, cloud pointcloud.PointCloud) (cloudInfo, error) {
	info := cloudInfo{
		name:     name,
		size:     cloud.Size(),
		hasColor: cloud.MetaData().HasColor,
		extent:   cloud.MetaData().Extent(),
		centroid: pointcloud.CloudCentroid(cloud),
	}
	if info.size == 0 {
		return info, nil
	}

	var err error
	if info.spread, err = pointcloud.PrincipalSpread(cloud); err != nil {
		return info, err
	}
	radii := stats.Float64Data(lo.Map(pointcloud.Vectors(cloud), func(p r3.Vector, _ int) float64 {
		return p.Distance(info.centroid)
	}))
	info.radii = radii
	if info.radiusMean, err = radii.Mean(); err != nil {
		return info, err
	}
	if info.radiusStdDev, err = radii.StandardDeviation(); err != nil {
		return info, err
	}
	if info.radiusMax, err = radii.Max(); err != nil {
		return info, err
	}
	return info, nil
}

func (info cloudInfo) row() table.Row {
	return table.Row{
		info.name,
		info.size,
		info.hasColor,
		fmt.Sprintf("%.3f x %.3f x %.3f", info.extent.X, info.extent.Y, info.extent.Z),
		fmt.Sprintf("(%.3f, %.3f, %.3f)", info.centroid.X, info.centroid.Y, info.centroid.Z),
		fmt.Sprintf("%.3f / %.3f / %.3f", info.spread.X, info.spread.Y, info.spread.Z),
		fmt.Sprintf("%.3f ± %.3f (max %.3f)", info.radiusMean, info.radiusStdDev, info.radiusMax),
	}
}

const histogramWidth = 40

// InfoAction prints a table summarizing each point cloud file argument, optionally followed by a
// histogram of each file's point distances to its centroid.
func InfoAction(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New("no input files given")
	}
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"File", "Points", "Color", "Extent", "Centroid", "Spread", "Radius"})
	infos := make([]cloudInfo, 0, c.Args().Len())
	for _, fn := range c.Args().Slice() {
		cloud, err := pointcloud.NewFromFile(fn, s.logger)
		if err != nil {
			return err
		}
		info, err := summarize(fn, cloud)
		if err != nil {
			return errors.Wrapf(err, "cannot summarize %q", fn)
		}
		t.AppendRow(info.row())
		infos = append(infos, info)
	}
	printf(c.App.Writer, "%s", t.Render())

	bins := c.Int(infoFlagBins)
	if bins <= 0 {
		return nil
	}
	for _, info := range infos {
		if info.size == 0 {
			continue
		}
		printf(c.App.Writer, "\n%s: distance to centroid", info.name)
		hist := histogram.Hist(bins, info.radii)
		if err := histogram.Fprint(c.App.Writer, hist, histogram.Linear(histogramWidth)); err != nil {
			return err
		}
	}
	return nil
}
