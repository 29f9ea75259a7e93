package pointcloud

import (
	"github.com/pkg/errors"

	"go.viam.com/superquadric/logging"
)

// DownsampleFile reads the mesh or cloud in inPath, reduces it to numSamples points with
// farthest point sampling, and writes the positions to outPath as an uncolored ASCII PLY.
// Inputs with no more than numSamples points are written unchanged. It returns the number of
// points written.
func DownsampleFile(inPath, outPath string, numSamples int, logger logging.Logger, opts ...SampleOption) (int, error) {
	if numSamples <= 0 {
		return 0, errors.Wrapf(ErrInvalidSampleCount, "must request at least one sample, got %d", numSamples)
	}
	cloud, err := NewFromFile(inPath, logger)
	if err != nil {
		return 0, err
	}
	if cloud.Size() == 0 {
		return 0, errors.Wrapf(ErrEmptyCloud, "%q has no vertices", inPath)
	}

	points := Vectors(cloud)
	if numSamples < len(points) {
		points, err = FarthestPointSample(points, numSamples, opts...)
		if err != nil {
			return 0, err
		}
	} else {
		logger.Debugw("keeping all points", "file", inPath, "points", len(points), "requested", numSamples)
	}

	out, err := NewFromVectors(points)
	if err != nil {
		return 0, err
	}
	if err := WriteToFile(out, outPath, DefaultPLYOptions); err != nil {
		return 0, err
	}
	return out.Size(), nil
}
