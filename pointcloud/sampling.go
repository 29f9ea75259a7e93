package pointcloud

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyCloud is returned when sampling from a point set with no points.
	ErrEmptyCloud = errors.New("cannot sample from an empty point set")
	// ErrInvalidSampleCount is returned when the requested sample count cannot be satisfied.
	ErrInvalidSampleCount = errors.New("invalid sample count")
)

type sampleConfig struct {
	startIndex int
	rng        *rand.Rand
}

// SampleOption configures farthest point sampling.
type SampleOption func(*sampleConfig)

// WithStartIndex fixes the index of the first selected point.
func WithStartIndex(i int) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.startIndex = i
		cfg.rng = nil
	}
}

// WithRand picks the first selected point using the given source. The source is shared by every
// call the option is passed to and, like any *rand.Rand, must not be used concurrently.
func WithRand(rng *rand.Rand) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.startIndex = -1
		cfg.rng = rng
	}
}

// WithSeed picks the first selected point using a source seeded with seed, making the
// result reproducible. Each call gets a fresh source, so one option may be shared by
// concurrent calls and every call on the same points starts at the same index.
func WithSeed(seed int64) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.startIndex = -1
		//nolint:gosec
		cfg.rng = rand.New(rand.NewSource(seed))
	}
}

// FarthestPointSampleIndices greedily selects numSamples indices of points. After a start
// point, each step picks the point whose distance to the nearest already selected point is
// largest, with ties going to the lowest index. Without options the start point is chosen
// at random.
func FarthestPointSampleIndices(points []r3.Vector, numSamples int, opts ...SampleOption) ([]int, error) {
	cfg := sampleConfig{startIndex: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(points)
	if n == 0 {
		return nil, ErrEmptyCloud
	}
	if numSamples <= 0 {
		return nil, errors.Wrapf(ErrInvalidSampleCount, "must request at least one sample, got %d", numSamples)
	}
	if numSamples > n {
		return nil, errors.Wrapf(ErrInvalidSampleCount, "requested %d samples from %d points", numSamples, n)
	}
	for i, p := range points {
		if err := validatePoint(p); err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
	}

	start := cfg.startIndex
	if start < 0 {
		if cfg.rng != nil {
			start = cfg.rng.Intn(n)
		} else {
			//nolint:gosec
			start = rand.Intn(n)
		}
	}
	if start >= n {
		return nil, errors.Errorf("start index %d out of range for %d points", start, n)
	}

	selected := make([]int, 0, numSamples)
	distances := make([]float64, n)
	for i := range distances {
		distances[i] = math.Inf(1)
	}

	next := start
	for len(selected) < numSamples {
		selected = append(selected, next)
		// selected points can never win again, even among duplicates
		distances[next] = -1
		chosen := points[next]
		for i, p := range points {
			if distances[i] < 0 {
				continue
			}
			distances[i] = math.Min(distances[i], p.Distance(chosen))
		}
		next = floats.MaxIdx(distances)
	}
	return selected, nil
}

// FarthestPointSample returns the points chosen by FarthestPointSampleIndices in selection order.
func FarthestPointSample(points []r3.Vector, numSamples int, opts ...SampleOption) ([]r3.Vector, error) {
	indices, err := FarthestPointSampleIndices(points, numSamples, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vector, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out, nil
}

// SampleCloud downsamples a cloud with farthest point sampling, keeping each selected
// point's data.
func SampleCloud(cloud PointCloud, numSamples int, opts ...SampleOption) (PointCloud, error) {
	indices, err := FarthestPointSampleIndices(Vectors(cloud), numSamples, opts...)
	if err != nil {
		return nil, err
	}
	out := NewWithPrealloc(len(indices))
	for _, idx := range indices {
		if err := out.Append(cloud.At(idx)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
