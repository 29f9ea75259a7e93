package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.viam.com/superquadric/config"
	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/utils"
)

type sampleJob struct {
	in, out string
}

// runSampleJobs downsamples every job concurrently and returns how many were written.
func runSampleJobs(ctx context.Context, s *settings, jobs []sampleJob, opts []pointcloud.SampleOption) (int, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o750); err != nil {
		return 0, err
	}

	var written atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := pointcloud.DownsampleFile(job.in, job.out, s.cfg.NumSamples, s.logger, opts...)
			if err != nil {
				return errors.Wrapf(err, "failed to sample %q", job.in)
			}
			s.logger.Infow("sampled", "in", job.in, "out", job.out, "points", n)
			written.Inc()
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}

// SampleAction reduces each file argument to the configured number of points with farthest
// point sampling, writing <output-dir>/<name>.ply.
func SampleAction(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return errors.New("no input files given")
	}
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	jobs := lo.Map(c.Args().Slice(), func(in string, _ int) sampleJob {
		return sampleJob{in: in, out: filepath.Join(s.cfg.OutputDir, utils.FileStem(in)+".ply")}
	})
	n, err := runSampleJobs(c.Context, s, jobs, sampleOptions(c))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "sampled %d files to %d points each into %s", n, s.cfg.NumSamples, s.cfg.OutputDir)
	return nil
}

// ConvertSceneAction downsamples the mesh of every object in one scene of a scene ground truth
// file. Meshes are read from <mesh-dir>/<id as %03d>_obj.obj and written to
// <output-dir>/<id>_obj.ply. Missing meshes are skipped with a warning.
func ConvertSceneAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	ids, err := config.ReadSceneObjects(c.Path(sceneFlagGroundTruth), c.String(sceneFlagKey))
	if err != nil {
		return err
	}

	meshDir := c.Path(sceneFlagMeshDir)
	var jobs []sampleJob
	for _, id := range lo.Uniq(ids) {
		in := filepath.Join(meshDir, fmt.Sprintf("%03d_obj.obj", id))
		if !utils.FileExists(in) {
			warningf(c.App.ErrWriter, "mesh for object %d not found at %s, skipping", id, in)
			s.logger.Warnw("skipping object with missing mesh", "object", id, "path", in)
			continue
		}
		jobs = append(jobs, sampleJob{in: in, out: filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%d_obj.ply", id))})
	}

	n, err := runSampleJobs(c.Context, s, jobs, sampleOptions(c))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "converted %d of %d objects in scene %s", n, len(lo.Uniq(ids)), c.String(sceneFlagKey))
	return nil
}
